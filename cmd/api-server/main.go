package main

import (
	"fmt"
	"log"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/roadwatch/highway-incident-api/api/swagger"
	"github.com/roadwatch/highway-incident-api/internal/handler"
	"github.com/roadwatch/highway-incident-api/internal/middleware"
	"github.com/roadwatch/highway-incident-api/internal/repository"
	"github.com/roadwatch/highway-incident-api/internal/service"
	"github.com/roadwatch/highway-incident-api/pkg/cache"
	"github.com/roadwatch/highway-incident-api/pkg/config"
	"github.com/roadwatch/highway-incident-api/pkg/database"
	"github.com/roadwatch/highway-incident-api/pkg/logger"
	corsmiddleware "github.com/roadwatch/highway-incident-api/pkg/middleware/cors"
	reqidmiddleware "github.com/roadwatch/highway-incident-api/pkg/middleware/requestid"
	"github.com/roadwatch/highway-incident-api/pkg/storage"
	"github.com/roadwatch/highway-incident-api/pkg/validation"
)

// @title Highway Incident Reporting API
// @version 1.0.0
// @description Incident reporting and triage for highway field staff
// @BasePath /api
// @schemes http

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

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close() //nolint:errcheck

	var limiterRepo *repository.LimiterRepository
	if cfg.RateLimit.Enabled {
		redisClient, err := cache.NewRedis(cfg.Redis)
		if err != nil {
			logr.Sugar().Fatalw("failed to connect to redis", "error", err)
		}
		defer redisClient.Close() //nolint:errcheck
		limiterRepo = repository.NewLimiterRepository(redisClient)
	}

	photoStore, err := storage.NewLocalStorage(cfg.Uploads.StorageDir, cfg.Uploads.BaseURL, cfg.Uploads.AllowedMIMEs)
	if err != nil {
		logr.Sugar().Fatalw("failed to init photo storage", "error", err)
	}

	validate := validation.New()

	userRepo := repository.NewUserRepository(db)
	incidentRepo := repository.NewIncidentRepository(db)

	authSvc := service.NewAuthService(userRepo, validate, logr, service.AuthConfig{
		Secret:     cfg.JWT.Secret,
		Expiration: cfg.JWT.Expiration,
	})
	incidentSvc := service.NewIncidentService(incidentRepo, photoStore, validate, logr)
	userSvc := service.NewUserService(userRepo, logr)
	exportSvc := service.NewExportService(incidentRepo, logr)
	metricsSvc := service.NewMetricsService()

	authHandler := handler.NewAuthHandler(authSvc)
	incidentHandler := handler.NewIncidentHandler(incidentSvc, cfg.Uploads.MaxFileSizeBytes)
	adminHandler := handler.NewAdminHandler(incidentSvc, userSvc, exportSvc)
	metricsHandler := handler.NewMetricsHandler(metricsSvc, db)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", metricsHandler.Ready)
	r.GET("/metrics", metricsHandler.Prometheus)
	r.Static(cfg.Uploads.BaseURL, photoStore.Dir())

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	protect := middleware.Protect(authSvc)
	adminOnly := middleware.AdminOnly()
	authLimit := middleware.RateLimit(nil, 0, 0, logr)
	if limiterRepo != nil {
		authLimit = middleware.RateLimit(limiterRepo, cfg.RateLimit.Requests, cfg.RateLimit.Window, logr)
	}

	api := r.Group("/api")

	auth := api.Group("/auth")
	auth.POST("/register", authLimit, authHandler.Register)
	auth.POST("/login", authLimit, authHandler.Login)
	auth.GET("/me", protect, authHandler.Me)

	incidents := api.Group("/incidents", protect)
	incidents.GET("/stats", adminOnly, incidentHandler.Stats)
	incidents.POST("", incidentHandler.Report)
	incidents.GET("", incidentHandler.List)
	incidents.GET("/:id", incidentHandler.Get)

	admin := api.Group("/admin", protect, adminOnly)
	admin.GET("/incidents/export", adminHandler.ExportIncidents)
	admin.PUT("/incidents/:id", adminHandler.UpdateIncident)
	admin.DELETE("/incidents/:id", adminHandler.DeleteIncident)
	admin.GET("/users", adminHandler.ListUsers)
	admin.PUT("/users/:id", adminHandler.ToggleUser)

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
