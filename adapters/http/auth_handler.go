package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	authUC "github.com/khoahotran/volc-friends/internal/application/usecase/auth"
	captchaUC "github.com/khoahotran/volc-friends/internal/application/usecase/captcha"
	profileUC "github.com/khoahotran/volc-friends/internal/application/usecase/profile"
	"github.com/khoahotran/volc-friends/pkg/apperror"
	"github.com/khoahotran/volc-friends/pkg/logger"
)

const headerCaptchaID = "X-Captcha-Id"

type AuthHandler struct {
	generateCaptchaUC *captchaUC.GenerateCaptchaUseCase
	verifyCaptchaUC   *captchaUC.VerifyCaptchaUseCase
	registerUC        *profileUC.RegisterUseCase
	checkUsernameUC   *profileUC.CheckUsernameUseCase
	loginUC           *authUC.LoginUseCase
	deleteAccountUC   *profileUC.DeleteAccountUseCase
	tokenLifespan     time.Duration
	secureCookie      bool
	logger            logger.Logger
}

type AuthHandlerDeps struct {
	GenerateCaptcha *captchaUC.GenerateCaptchaUseCase
	VerifyCaptcha   *captchaUC.VerifyCaptchaUseCase
	Register        *profileUC.RegisterUseCase
	CheckUsername   *profileUC.CheckUsernameUseCase
	Login           *authUC.LoginUseCase
	DeleteAccount   *profileUC.DeleteAccountUseCase
	TokenLifespan   time.Duration
	SecureCookie    bool
}

func NewAuthHandler(deps AuthHandlerDeps, log logger.Logger) *AuthHandler {
	return &AuthHandler{
		generateCaptchaUC: deps.GenerateCaptcha,
		verifyCaptchaUC:   deps.VerifyCaptcha,
		registerUC:        deps.Register,
		checkUsernameUC:   deps.CheckUsername,
		loginUC:           deps.Login,
		deleteAccountUC:   deps.DeleteAccount,
		tokenLifespan:     deps.TokenLifespan,
		secureCookie:      deps.SecureCookie,
		logger:            log,
	}
}

func (h *AuthHandler) GetCaptcha(c *gin.Context) {
	output, err := h.generateCaptchaUC.Execute(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}
	c.Header(headerCaptchaID, output.ChallengeID)
	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, "image/svg+xml", []byte(output.SVG))
}

func (h *AuthHandler) VerifyCaptcha(c *gin.Context) {
	var req VerifyCaptchaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.NewInvalidInput("invalid request data", err))
		return
	}

	valid, err := h.verifyCaptchaUC.Execute(c.Request.Context(), captchaUC.VerifyCaptchaInput{
		ChallengeID: req.CaptchaID,
		Answer:      req.CaptchaText,
	})
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"valid": valid})
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.NewInvalidInput("invalid request data", err))
		return
	}

	output, err := h.registerUC.Execute(c.Request.Context(), profileUC.RegisterInput{
		Registration:  req.ToRegistration(),
		CaptchaID:     req.CaptchaID,
		CaptchaAnswer: req.CaptchaText,
	})
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "id": output.UserID})
}

func (h *AuthHandler) CheckUsername(c *gin.Context) {
	output, err := h.checkUsernameUC.Execute(c.Request.Context(), c.Query("username"))
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"exists": output.Exists})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.NewInvalidInput("invalid request data", err))
		return
	}

	output, err := h.loginUC.Execute(c.Request.Context(), authUC.LoginInput{
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		c.Error(err)
		return
	}

	h.setTokenCookie(c, output.AccessToken, int(h.tokenLifespan.Seconds()))
	c.JSON(http.StatusOK, LoginResponse{Token: output.AccessToken, User: output.User})
}

func (h *AuthHandler) DeleteAccount(c *gin.Context) {
	userID, ok := GetUserIDFromGinContext(c)
	if !ok {
		c.Error(apperror.NewUnauthorized("user id not found in context", nil))
		return
	}

	if err := h.deleteAccountUC.Execute(c.Request.Context(), userID); err != nil {
		c.Error(err)
		return
	}

	h.setTokenCookie(c, "", -1)
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *AuthHandler) setTokenCookie(c *gin.Context, value string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(TokenCookieName, value, maxAge, "/", "", h.secureCookie, true)
}
