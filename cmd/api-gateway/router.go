package main

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"github.com/noah-isme/payment-portal-api/internal/handler"
	"github.com/noah-isme/payment-portal-api/internal/middleware"
	"github.com/noah-isme/payment-portal-api/internal/models"
	"github.com/noah-isme/payment-portal-api/internal/service"
	"github.com/noah-isme/payment-portal-api/pkg/config"
	"github.com/noah-isme/payment-portal-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/payment-portal-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/payment-portal-api/pkg/middleware/requestid"
)

type handlers struct {
	portals     *handler.PortalHandler
	submissions *handler.SubmissionHandler
	sheets      *handler.DataSheetHandler
	auth        *handler.AuthHandler
	metrics     *handler.MetricsHandler
}

func newRouter(cfg *config.Config, logr *zap.Logger, auth *service.AuthService, metrics *service.MetricsService, h handlers) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metrics))

	r.GET("/health", h.metrics.Health)
	r.GET("/ready", h.metrics.Ready)
	r.GET("/metrics", h.metrics.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	if cfg.DevAuth.Enabled {
		dev := r.Group("/dev/auth")
		dev.POST("/login", h.auth.Login)
		dev.GET("/users", h.auth.Users)
		logr.Warn("development login enabled", zap.String("path", "/dev/auth/login"))
	}

	anyRole := middleware.RequireRoles(models.RoleAdmin, models.RoleStaff, models.RoleStudent)
	adminOnly := middleware.RequireRoles(models.RoleAdmin)
	reviewers := middleware.RequireRoles(models.RoleAdmin, models.RoleStaff)

	api := r.Group(cfg.APIPrefix)
	api.Use(middleware.JWT(auth))

	portals := api.Group("/portals")
	portals.GET("", anyRole, h.portals.List)
	portals.POST("", adminOnly, middleware.Audit(logr, "create", "portal"), h.portals.Create)
	portals.PATCH("/bulk-visibility", adminOnly, middleware.Audit(logr, "bulk_visibility", "portal"), h.portals.BulkVisibility)
	portals.GET("/:id", anyRole, h.portals.Get)
	portals.PATCH("/:id", adminOnly, middleware.Audit(logr, "update", "portal"), h.portals.Update)
	portals.POST("/:id/submissions", anyRole, middleware.Audit(logr, "create", "submission"), h.submissions.Create)

	submissions := api.Group("/submissions")
	submissions.GET("", anyRole, h.submissions.List)
	submissions.GET("/:id", anyRole, h.submissions.Get)
	submissions.PATCH("/:id/status", reviewers, middleware.Audit(logr, "update_status", "submission"), h.submissions.UpdateStatus)

	api.GET("/data-sheets/export", reviewers, middleware.Audit(logr, "export", "datasheet"), h.sheets.Export)

	return r
}
