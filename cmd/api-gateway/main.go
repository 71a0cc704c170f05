package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/noah-isme/contractguard-api/api/swagger"
	"github.com/noah-isme/contractguard-api/internal/ai"
	"github.com/noah-isme/contractguard-api/internal/handler"
	"github.com/noah-isme/contractguard-api/internal/middleware"
	"github.com/noah-isme/contractguard-api/internal/repository"
	"github.com/noah-isme/contractguard-api/internal/service"
	"github.com/noah-isme/contractguard-api/pkg/cache"
	"github.com/noah-isme/contractguard-api/pkg/config"
	"github.com/noah-isme/contractguard-api/pkg/database"
	"github.com/noah-isme/contractguard-api/pkg/kvstore"
	"github.com/noah-isme/contractguard-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/contractguard-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/contractguard-api/pkg/middleware/requestid"
	"github.com/noah-isme/contractguard-api/pkg/storage"
)

// @title ContractGuard API
// @version 0.1.0
// @description Contract analysis and risk dashboard service
// @BasePath /api/v1
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

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Fatal("failed to connect redis", zap.Error(err))
	}
	defer redisClient.Close() //nolint:errcheck

	var (
		auditSink   service.AuditWriter
		auditSource service.AuditReader
	)
	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Warn("postgres unavailable, audit trail disabled", zap.Error(err))
	} else {
		defer db.Close() //nolint:errcheck
		auditRepo := repository.NewAuditRepository(db)
		auditSink = auditRepo
		auditSource = auditRepo
	}

	documents, err := storage.NewLocalStorage(cfg.Documents.StorageDir)
	if err != nil {
		logr.Fatal("failed to prepare document storage", zap.Error(err))
	}

	store := kvstore.NewRedisStore(redisClient)
	userRepo := repository.NewUserRepository(store)
	contractRepo := repository.NewContractRepository(store)
	alertRepo := repository.NewAlertRepository(store)
	cacheRepo := repository.NewCacheRepository(redisClient, logr)

	validate := validator.New()
	metricsSvc := service.NewMetricsService()
	cacheSvc := service.NewCacheService(cacheRepo, metricsSvc, cfg.Dashboard.CacheTTL, logr, true)

	aiClient := ai.NewClient(ai.Config{
		Endpoint:  cfg.AI.Endpoint,
		APIKey:    cfg.AI.APIKey,
		Model:     cfg.AI.Model,
		MaxTokens: cfg.AI.MaxTokens,
		Timeout:   cfg.AI.Timeout,
	})

	authSvc := service.NewAuthService(userRepo, auditSink, validate, logr, service.AuthConfig{
		JWTSecret:     cfg.JWT.Secret,
		JWTExpiration: cfg.JWT.Expiration,
	})
	analysisSvc := service.NewAnalysisService(aiClient, documents, logr, metricsSvc, service.AnalysisOptions{
		MaxFileSizeBytes: cfg.Uploads.MaxFileSizeBytes,
		MaxFileNameLen:   cfg.Uploads.MaxFileNameLen,
		AllowedMIMEs:     cfg.Uploads.AllowedMIMEs,
	})
	alertSvc := service.NewAlertService(alertRepo, validate, logr, auditSink, cfg.Alerts.RenewalWindowDays)
	contractSvc := service.NewContractService(contractRepo, analysisSvc, alertSvc, cacheSvc, auditSink, logr)
	dashboardSvc := service.NewDashboardService(contractSvc, alertSvc, cacheSvc, logr, service.DashboardServiceConfig{
		CacheTTL: cfg.Dashboard.CacheTTL,
	})
	exportSvc := service.NewExportService(contractSvc, nil, nil, logr)
	auditSvc := service.NewAuditService(auditSource, logr)

	authHandler := handler.NewAuthHandler(authSvc)
	contractHandler := handler.NewContractHandler(contractSvc)
	alertHandler := handler.NewAlertHandler(alertSvc)
	dashboardHandler := handler.NewDashboardHandler(dashboardSvc)
	exportHandler := handler.NewExportHandler(exportSvc)
	auditHandler := handler.NewAuditHandler(auditSvc)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/ready", func(c *gin.Context) {
		if err := redisClient.Ping(c.Request.Context()).Err(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", gin.WrapH(metricsSvc.Handler()))

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	api.Use(middleware.WithResponseMeta())

	auth := api.Group("/auth")
	{
		auth.POST("/signup", authHandler.Signup)
		auth.POST("/login", authHandler.Login)
		auth.GET("/me", middleware.JWT(authSvc), authHandler.Me)
	}

	protected := api.Group("")
	protected.Use(middleware.JWT(authSvc))
	{
		protected.GET("/contracts", contractHandler.List)
		protected.POST("/contracts", contractHandler.Upload)
		protected.GET("/contracts/export", exportHandler.Register)
		protected.GET("/dashboard", dashboardHandler.Overview)
		protected.GET("/alerts", alertHandler.List)
		protected.POST("/alerts", alertHandler.Create)
		protected.POST("/alerts/:id/send", alertHandler.Send)
		protected.GET("/audit", auditHandler.List)
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
