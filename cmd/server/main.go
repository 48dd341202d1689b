package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/khoahotran/volc-friends/adapters/event"
	httpAdapter "github.com/khoahotran/volc-friends/adapters/http"
	"github.com/khoahotran/volc-friends/adapters/media_storage"
	"github.com/khoahotran/volc-friends/adapters/persistence"
	"github.com/khoahotran/volc-friends/internal/application/service"
	authUC "github.com/khoahotran/volc-friends/internal/application/usecase/auth"
	captchaUC "github.com/khoahotran/volc-friends/internal/application/usecase/captcha"
	directoryUC "github.com/khoahotran/volc-friends/internal/application/usecase/directory"
	mediaUC "github.com/khoahotran/volc-friends/internal/application/usecase/media"
	profileUC "github.com/khoahotran/volc-friends/internal/application/usecase/profile"
	"github.com/khoahotran/volc-friends/internal/config"
	"github.com/khoahotran/volc-friends/pkg/auth"
	"github.com/khoahotran/volc-friends/pkg/logger"
	"github.com/khoahotran/volc-friends/pkg/tracing"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		panic("cannot load config: " + err.Error())
	}

	appLogger := logger.NewZapLogger(cfg.App.Env)
	defer appLogger.Sync()
	appLogger.Info("Start Volc Friends API Server...", zap.String("env", cfg.App.Env))

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	tp, err := tracing.NewTracerProvider(cfg, appLogger, "volc-friends-api")
	if err != nil {
		appLogger.Fatal("cannot init tracer", err)
	}
	defer func() {
		if err := tracing.Shutdown(context.Background(), tp); err != nil {
			appLogger.Error("Error shutting down tracer provider", err)
		}
	}()

	ctx := context.Background()

	// Infrastructure
	dbPool, err := persistence.NewPostgresPool(ctx, cfg, appLogger)
	if err != nil {
		appLogger.Fatal("cannot connect Postgres", err)
	}
	defer dbPool.Close()

	if err := persistence.RunMigrations(cfg.DB.DSN, cfg.DB.MigrationsDir, appLogger); err != nil {
		appLogger.Fatal("cannot run migrations", err)
	}

	redisClient, err := persistence.NewRedisClient(ctx, cfg, appLogger)
	if err != nil {
		appLogger.Fatal("cannot connect Redis", err)
	}
	defer redisClient.Close()

	publisher, closePublisher, err := event.NewUserEventPublisher(cfg, appLogger)
	if err != nil {
		appLogger.Fatal("cannot init Kafka", err)
	}
	defer closePublisher()

	uploader, err := media_storage.NewUploader(ctx, cfg, appLogger)
	if err != nil {
		appLogger.Fatal("cannot init media storage", err)
	}

	// Repositories and services
	userRepo := persistence.NewPostgresUserRepo(dbPool, appLogger, cfg.DB.QueryTimeout)
	captchaStore := persistence.NewRedisCaptchaStore(redisClient)
	rateCounter := persistence.NewRedisRateCounter(redisClient)
	jwtSvc, err := auth.NewJWTService(cfg.Auth.JWTSecret, cfg.Auth.TokenLifespan)
	if err != nil {
		appLogger.Fatal("cannot init JWT service, set auth.jwt_secret", err)
	}
	hasher := auth.BcryptHasher{}

	// Use cases
	generateCaptchaUseCase := captchaUC.NewGenerateCaptchaUseCase(captchaStore, cfg.Auth.CaptchaTTL, appLogger)
	verifyCaptchaUseCase := captchaUC.NewVerifyCaptchaUseCase(captchaStore, appLogger)

	var registerCaptcha service.CaptchaVerifier
	if cfg.Auth.CaptchaRequired {
		registerCaptcha = verifyCaptchaUseCase
	}

	registerUseCase := profileUC.NewRegisterUseCase(userRepo, hasher, registerCaptcha, publisher, appLogger)
	checkUsernameUseCase := profileUC.NewCheckUsernameUseCase(userRepo)
	getProfileUseCase := profileUC.NewGetProfileUseCase(userRepo)
	updateProfileUseCase := profileUC.NewUpdateProfileUseCase(userRepo, publisher, appLogger)
	deleteAccountUseCase := profileUC.NewDeleteAccountUseCase(userRepo, publisher, appLogger)
	loginUseCase := authUC.NewLoginUseCase(userRepo, hasher, jwtSvc, appLogger)
	listDirectoryUseCase := directoryUC.NewListDirectoryUseCase(userRepo)
	uploadPhotoUseCase := mediaUC.NewUploadPhotoUseCase(uploader, cfg.Storage.MaxUploadBytes, appLogger)

	// HTTP Handlers
	handlers := httpAdapter.Handlers{
		Auth: httpAdapter.NewAuthHandler(httpAdapter.AuthHandlerDeps{
			GenerateCaptcha: generateCaptchaUseCase,
			VerifyCaptcha:   verifyCaptchaUseCase,
			Register:        registerUseCase,
			CheckUsername:   checkUsernameUseCase,
			Login:           loginUseCase,
			DeleteAccount:   deleteAccountUseCase,
			TokenLifespan:   jwtSvc.Lifespan(),
			SecureCookie:    cfg.App.Env == "production",
		}, appLogger),
		Profile:   httpAdapter.NewProfileHandler(getProfileUseCase, updateProfileUseCase, appLogger),
		Directory: httpAdapter.NewDirectoryHandler(listDirectoryUseCase),
		Media:     httpAdapter.NewMediaHandler(uploadPhotoUseCase, cfg.Storage.MaxUploadBytes, appLogger),
	}

	router := httpAdapter.NewRouter(httpAdapter.RouterConfig{
		CORSOrigins:     cfg.App.CORSOrigins,
		RateLimitMax:    cfg.RateLimit.Max,
		RateLimitWindow: cfg.RateLimit.Window,
	}, handlers, jwtSvc, rateCounter, appLogger)

	srv := &http.Server{
		Addr:              ":" + cfg.App.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		appLogger.Info("Server running", zap.String("port", cfg.App.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.Fatal("Cannot run server", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	appLogger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		appLogger.Error("Server forced to shutdown", err)
	}
	appLogger.Info("Server exited")
}
