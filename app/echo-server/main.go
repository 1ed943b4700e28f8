package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"relatedItems/app/echo-server/router"
	"relatedItems/business/association"
	"relatedItems/business/ingest"
	"relatedItems/internal/repository/jsonfile"
	psqlRepo "relatedItems/internal/repository/postgres"
	redisRepo "relatedItems/internal/repository/redis"
	"relatedItems/internal/rest"
	"relatedItems/pkg/config"
	"relatedItems/pkg/database"
	redisdb "relatedItems/pkg/database/redis"
	"relatedItems/pkg/logger"
	"relatedItems/pkg/metrics"

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
	logger.Info("Starting Related Items API", "version", cfg.App.Version)

	metrics.Init()

	db, err := database.InitPostgres(cfg)
	if err != nil {
		logger.Fatal("Failed to connect to database", "error", err)
	}

	logger.Info("Database connected successfully")

	// Redis is an optional read cache, the service runs without it
	var relatedCache association.RelatedCache
	if redisClient, err := redisdb.NewRedisClient(cfg); err != nil {
		logger.Warn("Redis unavailable, serving without cache", "error", err)
	} else {
		relatedCache = redisRepo.NewRelatedItemsCache(redisClient, 1*time.Hour)
		logger.Info("Redis connected successfully")
	}

	// Init repo
	ordersRepo := psqlRepo.NewOrdersRepository(db)
	relatedRepo := psqlRepo.NewRelatedItemsRepository(db)

	// An empty path disables the JSON file sink
	var exporter association.Exporter
	if cfg.Pipeline.RelatedItemsJSONPath != "" {
		exporter = jsonfile.NewExportRepository(cfg.Pipeline.RelatedItemsJSONPath)
	} else {
		logger.Info("JSON export disabled, no path configured")
	}

	// Init service
	associationCfg := association.Config{
		MaxPerItem:    cfg.Pipeline.MaxRecommendationsPerItem,
		MinConfidence: cfg.Pipeline.MinConfidence,
	}
	associationService, err := association.NewService(
		ordersRepo,
		relatedRepo,
		relatedRepo,
		exporter,
		relatedCache,
		associationCfg,
	)
	if err != nil {
		logger.Fatal("Failed to init association service", "error", err)
	}
	ingestService := ingest.NewService(ordersRepo)

	// Init handler
	relatedHandler := rest.NewRelatedItemsHandler(associationService)
	pipelineHandler := rest.NewPipelineHandler(associationService, ingestService, relatedRepo)

	// Init echo
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// Global middleware
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins: []string{"http://localhost:3000", "http://localhost:8080"},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodPatch},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	}))

	// Setup routes
	api := e.Group("/api/v1")
	router.SetRelatedItemsRoutes(api, relatedHandler)
	router.SetPipelineRoutes(api, pipelineHandler)

	e.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	// Scheduled rebuilds replace the original daily batch job
	schedulerCtx, stopScheduler := context.WithCancel(context.Background())
	associationService.StartScheduler(
		schedulerCtx,
		time.Duration(cfg.Pipeline.RebuildIntervalHours)*time.Hour,
	)

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
	stopScheduler()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Shutdown server
	if err := e.Shutdown(ctx); err != nil {
		logger.Error("Server shutdown error", "error", err)
	}

	logger.Info("Server stopped")
}
