package http

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/khoahotran/volc-friends/pkg/apperror"
	"github.com/khoahotran/volc-friends/pkg/logger"
)

const (
	GinContextKeyUserID    = "userID"
	GinContextKeyRequestID = "request_id"
	TokenCookieName        = "token"
	headerRequestID        = "X-Request-ID"
)

// IdentityResolver maps a raw credential to the caller's user id.
type IdentityResolver interface {
	Resolve(credential string) (userID int64, ok bool)
}

// AuthMiddleware accepts "Authorization: Bearer <jwt>" or the token cookie.
func AuthMiddleware(resolver IdentityResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		credential := ""
		if authHeader := c.GetHeader("Authorization"); authHeader != "" {
			token := strings.TrimPrefix(authHeader, "Bearer ")
			if token == authHeader {
				c.Error(apperror.NewUnauthorized("invalid authorization header format", nil))
				c.Abort()
				return
			}
			credential = strings.TrimSpace(token)
		} else if cookie, err := c.Cookie(TokenCookieName); err == nil {
			credential = cookie
		}

		userID, ok := resolver.Resolve(credential)
		if !ok {
			c.Error(apperror.NewUnauthorized("missing, invalid or expired token", nil))
			c.Abort()
			return
		}

		c.Set(GinContextKeyUserID, userID)
		c.Next()
	}
}

func GetUserIDFromGinContext(c *gin.Context) (int64, bool) {
	v, ok := c.Get(GinContextKeyUserID)
	if !ok {
		return 0, false
	}
	id, ok := v.(int64)
	return id, ok
}

// ErrorMiddleware renders the last error attached with c.Error. Anything that
// is not an AppError is reported as an internal error without its cause.
func ErrorMiddleware(log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}
		err := c.Errors.Last().Err

		var appErr *apperror.AppError
		if !errors.As(err, &appErr) {
			appErr = apperror.NewInternal("unexpected error", err)
		}
		status := apperror.ToHTTPStatus(appErr)

		fields := []zap.Field{
			zap.Int("status", status),
			zap.String("path", c.Request.URL.Path),
			zap.String("request_id", c.GetString(GinContextKeyRequestID)),
		}
		if status >= http.StatusInternalServerError {
			log.Error("Request failed", err, fields...)
		} else {
			log.Debug("Request rejected", append(fields, zap.String("reason", err.Error()))...)
		}

		c.AbortWithStatusJSON(status, appErr.ToJSON())
	}
}

// RequestID reuses an incoming X-Request-ID or mints a new one.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(headerRequestID)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(GinContextKeyRequestID, id)
		c.Header(headerRequestID, id)
		c.Next()
	}
}

func RequestLogger(log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Info("HTTP request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("client_ip", c.ClientIP()),
			zap.String("request_id", c.GetString(GinContextKeyRequestID)),
		)
	}
}

// RateCounter counts hits per key inside a fixed window.
type RateCounter interface {
	Hit(ctx context.Context, key string, window time.Duration) (count int, remaining time.Duration, err error)
}

type KeyFunc func(c *gin.Context) string

func KeyByIPAndPath() KeyFunc {
	return func(c *gin.Context) string {
		ip := c.ClientIP()
		if ip == "" {
			ip = "unknown"
		}
		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}
		return "rl:path:" + path + ":ip:" + ip
	}
}

// RateLimit rejects a key once it exceeds max hits per window. Counter errors
// fail open.
func RateLimit(counter RateCounter, max int, window time.Duration, keyFn KeyFunc, log logger.Logger) gin.HandlerFunc {
	if counter == nil || max <= 0 || window <= 0 || keyFn == nil {
		return func(c *gin.Context) { c.Next() }
	}
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodOptions {
			c.Next()
			return
		}

		count, ttl, err := counter.Hit(c.Request.Context(), keyFn(c), window)
		if err != nil {
			log.Warn("Rate limiter unavailable", zap.Error(err))
			c.Next()
			return
		}

		resetSec := int(ttl.Seconds())
		remaining := max - count
		if remaining < 0 {
			remaining = 0
		}
		c.Header("X-RateLimit-Limit", strconv.Itoa(max))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))
		c.Header("X-RateLimit-Reset", strconv.Itoa(resetSec))

		if count > max {
			if resetSec > 0 {
				c.Header("Retry-After", strconv.Itoa(resetSec))
			}
			c.Error(apperror.NewRateLimited("too many requests, try again later"))
			c.Abort()
			return
		}
		c.Next()
	}
}
