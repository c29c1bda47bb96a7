package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/noah-isme/centerkech-api/internal/handler"
	"github.com/noah-isme/centerkech-api/internal/repository/backend"
	"github.com/noah-isme/centerkech-api/internal/router"
	"github.com/noah-isme/centerkech-api/internal/service"
	"github.com/noah-isme/centerkech-api/pkg/config"
	"github.com/noah-isme/centerkech-api/pkg/logger"
	"github.com/noah-isme/centerkech-api/pkg/password"
)

// @title Centerkech API
// @version 1.0.0
// @description Administration backend for the Centerkech tutoring centres.
// @BasePath /api
// @schemes http https
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	gin.SetMode(cfg.ServerMode())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	repos, err := backend.Open(ctx, cfg, logr)
	if err != nil {
		logr.Fatal("failed to open store", zap.String("driver", cfg.Database.Driver), zap.Error(err))
	}
	defer func() {
		if err := repos.Close(); err != nil {
			logr.Warn("store close failed", zap.Error(err))
		}
	}()

	hasher, err := password.New(cfg.Auth.HashAlgorithm, cfg.Auth.BcryptCost)
	if err != nil {
		logr.Fatal("failed to init password hasher", zap.Error(err))
	}

	metrics := service.NewMetricsService()
	validate := service.NewValidator()
	tokens := service.NewTokenService(service.TokenConfig{
		Secret:     cfg.JWT.Secret,
		Expiration: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

	authSvc := service.NewAuthService(repos.Users, hasher, tokens, validate, logr, metrics, service.AuthConfig{HardenedSetup: cfg.Auth.HardenedSetup})
	userSvc := service.NewUserService(repos.Users, authSvc, validate, logr)
	submissionSvc := service.NewSubmissionService(repos.Submissions, validate, logr, metrics)
	exportSvc := service.NewExportService(repos.Submissions, logr)
	contentSvc := service.NewContentService(repos.Contents, validate, logr)
	locationSvc := service.NewLocationService(repos.Locations, validate, logr)
	dashboardSvc := service.NewDashboardService(repos.Users, repos.Submissions, logr)

	engine := router.New(router.Options{
		APIPrefix:       cfg.APIPrefix,
		CookieName:      cfg.Auth.CookieName,
		StrictAdminRole: cfg.Auth.StrictAdminRole,
		AllowedOrigins:  cfg.CORS.AllowedOrigins,
		EnableMetrics:   cfg.Features.Metrics,
		EnableDocs:      cfg.Features.Docs,
	}, router.Handlers{
		Auth: handler.NewAuthHandler(authSvc, handler.CookieConfig{
			Name:   cfg.Auth.CookieName,
			Domain: cfg.Auth.CookieDomain,
			Secure: cfg.IsProduction(),
			MaxAge: tokens.TTL(),
		}),
		Submissions: handler.NewSubmissionHandler(submissionSvc, exportSvc),
		Content:     handler.NewContentHandler(contentSvc, locationSvc),
		Admin:       handler.NewAdminHandler(dashboardSvc, userSvc),
		Health:      handler.NewHealthHandler(repos, metrics),
	}, tokens, metrics, logr)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      engine,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logr.Info("server starting",
			zap.String("addr", srv.Addr),
			zap.String("env", cfg.Env),
			zap.String("driver", cfg.Database.Driver),
			zap.String("api_prefix", cfg.APIPrefix),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			logr.Error("server failed", zap.Error(err))
		}
	case <-ctx.Done():
		logr.Info("shutting down", zap.Duration("timeout", cfg.Server.ShutdownTimeout))
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logr.Error("graceful shutdown failed", zap.Error(err))
		}
	}
	logr.Info("server stopped")
}
