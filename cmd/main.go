package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"marketing-api/internal/handler"
	"marketing-api/internal/middleware"
	"marketing-api/internal/model"
	"marketing-api/pkg/aiclient"
	"marketing-api/pkg/cache"
	"marketing-api/pkg/config"
	"marketing-api/pkg/database"
	"marketing-api/pkg/jwtutil"
	"marketing-api/pkg/logger"
	"marketing-api/prometheus"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
)

func main() {
	// Load configuration from .env file and environment variables
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger with config
	logger.InitLogger(cfg)
	log := logger.GetLogger()
	log.Info("Starting marketing analytics API...", cfg.LogConfig()...)

	// Initialize database. A failure here is not fatal: the process keeps
	// serving so the health endpoint reports degraded and the orchestrator
	// can retry.
	if err := database.InitDB(cfg); err != nil {
		log.Error("Database initialization failed, continuing degraded", zap.Error(err))
	} else {
		log.Info("Database connected, schema migrated and demo tenant seeded")
	}

	// Initialize JWT utility
	jwtutil.Initialize(&cfg.JWT)

	// Optional Redis read cache for analytics endpoints
	if err := cache.Init(&cfg.Cache); err != nil {
		log.Warn("Redis cache unavailable, serving analytics uncached", zap.Error(err))
	} else if cache.Get() != nil {
		log.Info("Analytics cache enabled", zap.String("redis_addr", cfg.Cache.Addr))
	}

	// AI service client used by the proxy handlers
	handler.InitAIClient(aiclient.New(&cfg.AI))
	log.Info("AI service client initialized", zap.String("base_url", cfg.AI.BaseURL))

	// Initialize Prometheus metrics
	prometheus.InitMetrics(cfg)

	// Initialize Echo framework
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewRequestValidator()

	// Apply global middleware - order matters
	e.Use(echomiddleware.Recover())
	if len(cfg.Server.CORSOrigins) > 0 {
		e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
			AllowOrigins:     cfg.Server.CORSOrigins,
			AllowCredentials: true,
		}))
	} else {
		e.Use(echomiddleware.CORS())
	}
	e.Use(middleware.RequestIDMiddleware)
	e.Use(logger.Middleware(log))
	e.Use(prometheus.MetricsMiddleware())

	e.GET("/health", handler.HealthCheck)
	e.GET("/metrics", handler.MetricsHandler)

	// Every business route is registered bare and under /v1 from the same
	// handler so the aliases cannot diverge.
	for _, prefix := range []string{"", "/v1"} {
		registerRoutes(e.Group(prefix), cfg)
	}

	// Start server
	go func() {
		log.Info("Starting server", zap.String("port", cfg.Server.Port))
		if err := e.Start(":" + cfg.Server.Port); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown: stop accepting requests, then drain the pools
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	log.Info("Shutting down", zap.String("signal", sig.String()))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		log.Error("Server shutdown failed", zap.Error(err))
	}
	if err := database.Close(); err != nil {
		log.Error("Database close failed", zap.Error(err))
	}
	if err := cache.Close(); err != nil {
		log.Error("Redis close failed", zap.Error(err))
	}
	log.Info("Shutdown complete")
}

func registerRoutes(g *echo.Group, cfg *config.Config) {
	auth := g.Group("/auth")
	auth.POST("/login", handler.Login)

	// Pure passthrough, auth-optional
	g.POST("/rag/influencers", handler.RAGInfluencers)

	// Authenticated routes
	api := g.Group("", middleware.AuthMiddleware)

	api.POST("/recommend", handler.Recommend)
	api.POST("/chat", handler.Chat)
	api.POST("/events", handler.RecordAppEvent)
	api.POST("/analytics/event", handler.RecordAnalyticsEvent,
		middleware.RequireRoles(model.RoleAdmin, model.RoleAnalyst))

	api.GET("/campaigns", handler.ListCampaigns)
	api.GET("/campaigns/:id", handler.GetCampaign)
	api.POST("/campaigns", handler.CreateCampaign,
		middleware.RequireRoles(model.RoleAdmin, model.RoleAnalyst))

	analytics := api.Group("/analytics",
		middleware.AnalyticsCache(cache.Get(), cfg.Cache.TTL))
	analytics.GET("/summary", handler.AnalyticsSummary)
	analytics.GET("/campaign/:campaignId", handler.CampaignAnalytics)
}
