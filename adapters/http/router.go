package http

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/khoahotran/volc-friends/pkg/logger"
)

type RouterConfig struct {
	CORSOrigins     []string
	RateLimitMax    int
	RateLimitWindow time.Duration
}

type Handlers struct {
	Auth      *AuthHandler
	Profile   *ProfileHandler
	Directory *DirectoryHandler
	Media     *MediaHandler
}

// NewRouter wires every route. counter may be nil, which disables rate limiting.
func NewRouter(cfg RouterConfig, h Handlers, resolver IdentityResolver, counter RateCounter, log logger.Logger) *gin.Engine {
	origins := cfg.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"http://localhost:3000"}
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(RequestID())
	router.Use(RequestLogger(log))
	router.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodOptions},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", headerRequestID},
		ExposeHeaders:    []string{headerCaptchaID, headerRequestID},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	router.Use(ErrorMiddleware(log))

	authMiddleware := AuthMiddleware(resolver)
	rateLimit := RateLimit(counter, cfg.RateLimitMax, cfg.RateLimitWindow, KeyByIPAndPath(), log)

	api := router.Group("/api")
	{
		api.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "UP"}) })

		authGroup := api.Group("/auth")
		{
			authGroup.GET("/captcha", h.Auth.GetCaptcha)
			authGroup.POST("/captcha", h.Auth.VerifyCaptcha)
			authGroup.GET("/register", h.Auth.CheckUsername)
			authGroup.POST("/register", rateLimit, h.Auth.Register)
			authGroup.POST("/login", rateLimit, h.Auth.Login)
			authGroup.POST("/delete-account", authMiddleware, h.Auth.DeleteAccount)
		}

		userGroup := api.Group("/user")
		userGroup.Use(authMiddleware)
		{
			userGroup.GET("/profile", h.Profile.GetProfile)
			userGroup.POST("/profile", h.Profile.UpdateProfile)
			userGroup.PUT("/profile", h.Profile.UpdateProfile)
		}

		api.GET("/square", h.Directory.Square)
		api.POST("/upload", rateLimit, h.Media.UploadPhoto)
	}

	return router
}
