package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	_ "github.com/noah-isme/payment-portal-api/api/swagger"
	"github.com/noah-isme/payment-portal-api/internal/handler"
	"github.com/noah-isme/payment-portal-api/internal/repository"
	"github.com/noah-isme/payment-portal-api/internal/service"
	"github.com/noah-isme/payment-portal-api/pkg/config"
	"github.com/noah-isme/payment-portal-api/pkg/database"
	"github.com/noah-isme/payment-portal-api/pkg/logger"
	"github.com/noah-isme/payment-portal-api/pkg/validation"
)

const shutdownTimeout = 15 * time.Second

// @title Payment Portal API
// @version 1.0.0
// @description Monthly payment portals, proof-of-payment submissions and data sheet exports
// @BasePath /api/v1
// @schemes http
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

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.NewPostgres(ctx, cfg.Database)
	if err != nil {
		logr.Fatal("failed to connect database", zap.Error(err))
	}
	defer db.Close()

	if cfg.Database.AutoMigrate {
		if err := database.RunMigrations(db.DB, logr); err != nil {
			logr.Fatal("failed to apply migrations", zap.Error(err))
		}
	}

	authSvc, err := newAuthService(cfg, logr)
	if err != nil {
		logr.Fatal("failed to init auth", zap.Error(err))
	}

	validate := validation.New()
	metricsSvc := service.NewMetricsService()

	portalRepo := repository.NewPortalRepository(db)
	submissionRepo := repository.NewSubmissionRepository(db)

	portalSvc := service.NewPortalService(portalRepo, validate, logr, service.Paging{
		DefaultLimit: cfg.Pagination.PortalsDefaultLimit,
		MaxLimit:     cfg.Pagination.MaxLimit,
	})
	submissionSvc := service.NewSubmissionService(submissionRepo, portalRepo, validate, logr, metricsSvc, service.Paging{
		DefaultLimit: cfg.Pagination.SubmissionsDefaultLimit,
		MaxLimit:     cfg.Pagination.MaxLimit,
	})
	sheetSvc := service.NewDataSheetService(submissionRepo, logr, metricsSvc, nil, nil, nil)

	r := newRouter(cfg, logr, authSvc, metricsSvc, handlers{
		portals:     handler.NewPortalHandler(portalSvc),
		submissions: handler.NewSubmissionHandler(submissionSvc),
		sheets:      handler.NewDataSheetHandler(sheetSvc),
		auth:        handler.NewAuthHandler(authSvc),
		metrics:     handler.NewMetricsHandler(metricsSvc, db),
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logr.Info("server starting", zap.String("addr", srv.Addr), zap.String("env", cfg.Env))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Fatal("server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logr.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Error("graceful shutdown failed", zap.Error(err))
	}
}

func newAuthService(cfg *config.Config, logr *zap.Logger) (*service.AuthService, error) {
	authCfg := service.AuthConfig{
		Secret:     cfg.JWT.Secret,
		Expiration: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	}
	if cfg.JWT.JWKSURL == "" {
		return service.NewAuthService(nil, logr, authCfg, nil)
	}
	keys, err := service.NewJWKSKeyfunc(cfg.JWT.JWKSURL, cfg.JWT.JWKSRefreshInterval, logr)
	if err != nil {
		return nil, err
	}
	logr.Info("verifying tokens against jwks", zap.String("url", cfg.JWT.JWKSURL))
	return service.NewAuthService(nil, logr, authCfg, keys)
}
