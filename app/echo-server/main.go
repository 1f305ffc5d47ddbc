package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"priceKart/app/echo-server/router"
	"priceKart/business/aggregator"
	"priceKart/business/preload"
	"priceKart/business/product"
	"priceKart/business/recommend"
	"priceKart/domain"
	"priceKart/internal/cache"
	"priceKart/internal/middleware"
	"priceKart/internal/platform"
	psqlRepo "priceKart/internal/repository/postgres"
	redisRepo "priceKart/internal/repository/redis"
	"priceKart/internal/rest"
	"priceKart/pkg/config"
	"priceKart/pkg/database"
	redisdb "priceKart/pkg/database/redis"
	"priceKart/pkg/logger"
	"priceKart/pkg/metrics"
	"priceKart/pkg/utils"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger.Init(cfg.App.Environment)
	logger.Info("Starting PriceKart", "version", cfg.App.Version)

	utils.InitJWT(cfg.JWT.SecretKey)
	metrics.Init()

	db, err := database.InitPostgres(cfg)
	if err != nil {
		logger.Fatal("Failed to connect to database", "error", err)
	}

	logger.Info("Database connected successfully")

	// Redis is optional; session validation falls back to plain JWT parsing.
	redisClient, err := redisdb.NewRedisClient(cfg)
	if err != nil {
		logger.Fatal("Failed to connect to redis", "error", err)
	}

	// Platform adapter registry
	registry := platform.NewRegistry(cfg.Platforms)
	for _, status := range registry.Status() {
		logger.Info("Platform adapter registered",
			"platform", status.Platform,
			"credentials", status.HasCredentials,
			"demo_mode", status.DemoMode,
		)
	}

	// Aggregation cache
	memo := cache.New[[]domain.PriceListing](cfg.Cache.TTL, cfg.Cache.Capacity, cfg.Cache.SweepInterval)

	// Image preloader
	preloader := preload.NewPreloader(cfg.Preload.BatchSize, cfg.Preload.IdleDelay, cfg.Preload.FetchTimeout)
	gate := preload.NewGate(cfg.Preload.ViewportMargin, cfg.Preload.Threshold)

	// Init repo
	productRepo := psqlRepo.NewProductRepository(db)

	// Init service
	adapters := registry.Adapters()
	sources := make([]aggregator.SourceAdapter, len(adapters))
	for i, a := range adapters {
		sources[i] = a
	}
	aggregatorService := aggregator.NewService(sources, memo)
	productService := product.NewProductService(productRepo)
	recommendService := recommend.NewService(productRepo, cfg.Recommend.Limit)

	// Init handler
	searchHandler := rest.NewSearchHandler(aggregatorService, preloader, cfg.Preload.CriticalCount)
	productHandler := rest.NewProductHandler(productService)
	recommendHandler := rest.NewRecommendHandler(recommendService)
	preloadHandler := rest.NewPreloadHandler(preloader, gate, productService)
	adminHandler := rest.NewAdminHandler(registry)

	// Init echo
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// HTTP error handler
	e.HTTPErrorHandler = middleware.ErrorHandler

	// Global middleware
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins: []string{"http://localhost:3000", "http://localhost:8080"},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodPatch},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	}))

	// Auth middleware
	authRequired := middleware.AuthMiddleware()
	if redisClient != nil {
		sessionRepo := redisRepo.NewSessionRepository(redisClient)
		authRequired = middleware.AuthMiddlewareWithRedis(sessionRepo)
	}
	adminOnly := middleware.AdminOnly(cfg.App.AdminKeyHash)

	// Setup routes
	api := e.Group("/api/v1")
	router.SetupSearchRoutes(api, searchHandler)
	router.SetupProductRoutes(api, productHandler, recommendHandler, authRequired, adminOnly)
	router.SetupPreloadRoutes(api, preloadHandler)
	router.SetupAdminRoutes(api, adminHandler, authRequired, adminOnly)

	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	e.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	// Goroutine server
	go func() {
		addr := fmt.Sprintf(":%s", cfg.Server.Port)
		logger.Info("Server starting", "address", addr)
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", "error", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Shutdown server
	if err := e.Shutdown(ctx); err != nil {
		logger.Error("Server shutdown error", "error", err)
	}

	preloader.Stop()
	memo.Close()

	if redisClient != nil {
		redisdb.CloseRedisClient(redisClient)
	}

	logger.Info("Server stopped")
}
