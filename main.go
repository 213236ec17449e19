package main

import (
	"context"
	"crypto/tls"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/feedbackx/feedbackx-backend/config"
	"github.com/feedbackx/feedbackx-backend/db"
	"github.com/feedbackx/feedbackx-backend/handlers"
	"github.com/feedbackx/feedbackx-backend/internal/auth"
	"github.com/feedbackx/feedbackx-backend/internal/events"
	"github.com/feedbackx/feedbackx-backend/internal/metrics"
	"github.com/feedbackx/feedbackx-backend/internal/store/postgres"
	"github.com/feedbackx/feedbackx-backend/logger"
	"github.com/feedbackx/feedbackx-backend/router"
	"github.com/feedbackx/feedbackx-backend/services"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

func main() {
	logger.InitLogger()
	log := logger.GetLogger()
	defer func() { _ = logger.Close() }()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx := context.Background()

	pool, err := db.Connect(ctx, &cfg.Database, cfg.Server.Environment)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	if cfg.Database.RunMigrations {
		if err := db.RunMigrations(cfg.Database.URL()); err != nil {
			log.Fatalf("Failed to run migrations: %v", err)
		}
	}

	redisOptions := &redis.Options{
		Addr:     cfg.Redis.Address,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
		PoolSize: cfg.Redis.PoolSize,
	}
	if cfg.Redis.UseTLS || cfg.IsProduction() {
		redisOptions.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
	}
	redisClient := redis.NewClient(redisOptions)
	defer func() { _ = redisClient.Close() }()

	if err := redisClient.Ping(ctx).Err(); err != nil {
		// Rate limiting fails open and events are best effort, so the service can still start.
		log.Warnw("Redis is unreachable, rate limiting and event publishing degraded until it recovers", "error", err)
	}

	m := metrics.Default()

	collectionStore := postgres.NewCollectionStore(pool)
	itemStore := postgres.NewItemStore(pool)

	publisher := events.NewRedisPublisher(redisClient, m)

	collectionService := services.NewCollectionService(collectionStore, publisher, m)
	itemService := services.NewItemService(itemStore, collectionService, publisher, m)
	healthService := services.NewHealthService(pool, redisClient, cfg.Server.Version)

	adminGuard := auth.NewAdminGuard(cfg.Server.AdminSecret)
	if !adminGuard.Configured() {
		log.Warn("ADMIN_SECRET is not set; admin endpoints will reject every request")
	}

	r := router.SetupRouter(router.Dependencies{
		Config:            cfg,
		AdminGuard:        adminGuard,
		APIKeyResolver:    collectionService,
		RedisClient:       redisClient,
		Metrics:           m,
		CollectionHandler: handlers.NewCollectionHandler(collectionService),
		ItemHandler:       handlers.NewItemHandler(itemService),
		HealthHandler:     handlers.NewHealthHandler(healthService),
		Logger:            log,
	})

	server := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Infow("Starting server", "port", cfg.Server.Port, "environment", cfg.Server.Environment)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		log.Infow("Shutdown signal received", "signal", sig.String())
	case err := <-serverErr:
		log.Errorw("Server error", "error", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Errorw("Server shutdown error", "error", err)
	}
	log.Info("Server stopped")
}
