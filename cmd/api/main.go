// Package main is the entry point for the catalog-search-service API.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"catalog-search-service/internal/app/service"
	"catalog-search-service/internal/config"
	"catalog-search-service/internal/domain"
	"catalog-search-service/internal/infra/postgres"
	"catalog-search-service/internal/infra/postgres/migrations"
	rediscache "catalog-search-service/internal/infra/redis"
	"catalog-search-service/internal/job"
	"catalog-search-service/internal/logger"
	"catalog-search-service/internal/searchconfig"
	"catalog-search-service/internal/transport/httpserver"
	"catalog-search-service/internal/validator"
	"catalog-search-service/pkg/locker"
)

func main() {
	// Load configuration
	cfg, err := config.Load("")
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(
		logger.Config{
			Level:  cfg.Logger.Level,
			Format: cfg.Logger.Format,
			Output: cfg.Logger.Output,
		},
		logger.SentryConfig{
			Enabled:     cfg.Sentry.Enabled,
			DSN:         cfg.Sentry.DSN,
			Environment: cfg.Sentry.Environment,
			SampleRate:  cfg.Sentry.SampleRate,
		},
	)
	if err != nil {
		panic("failed to initialize logger: " + err.Error())
	}
	defer func() { _ = log.Sync() }()

	log.Info("starting catalog-search-service",
		zap.String("env", cfg.App.Env),
		zap.Int("port", cfg.App.Port),
	)

	// Connect to database
	db, err := postgres.NewConnection(
		postgres.Config{
			Host:         cfg.Database.Host,
			Port:         cfg.Database.Port,
			Name:         cfg.Database.Name,
			User:         cfg.Database.User,
			Password:     cfg.Database.Password,
			SSLMode:      cfg.Database.SSLMode,
			MaxOpenConns: cfg.Database.MaxOpenConns,
			MaxIdleConns: cfg.Database.MaxIdleConns,
			MaxLifetime:  cfg.Database.MaxLifetime,
		},
		log.Logger,
	)
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}
	defer func() { _ = postgres.Close(db) }()

	// Run migrations
	if err := migrations.Run(db); err != nil {
		log.Fatal("failed to run migrations", zap.Error(err))
	}
	log.Info("database migrations completed")

	// Create repository
	repo := postgres.NewRepository(db)

	// Connect to Redis
	redisClient := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Redis.Host, cfg.Redis.Port),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	// Ping Redis to verify connection
	ctx := context.Background()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		log.Fatal("failed to connect to Redis", zap.Error(err))
	}
	defer func() { _ = redisClient.Close() }()
	log.Info("connected to Redis",
		zap.String("host", cfg.Redis.Host),
		zap.Int("port", cfg.Redis.Port),
	)

	// Create cache implementation (optional, based on config)
	var cache domain.Cache
	if cfg.Cache.Enabled {
		cache = rediscache.NewCache(redisClient, log.Logger, cfg.Cache.KeyPrefix)
		log.Info("cache enabled",
			zap.Duration("recent_ttl", cfg.Cache.RecentTTL),
			zap.String("key_prefix", cfg.Cache.KeyPrefix),
		)
	} else {
		log.Info("cache disabled")
	}

	// Build the search-state configuration from config
	facets := make([]searchconfig.FacetDefinition, len(cfg.Search.Facets))
	for i, f := range cfg.Search.Facets {
		facets[i] = searchconfig.FacetDefinition{Name: f.Name, Key: f.Key, Single: f.Single}
	}
	searchCfg := searchconfig.New(searchconfig.Options{
		Facets:         facets,
		AllowedKeys:    cfg.Search.AllowedKeys,
		RequestKeys:    cfg.Search.RequestKeys,
		ShowController: cfg.Search.Show.Controller,
		ShowTypes:      cfg.Search.Show.DocumentTypes,
	})

	// Create services
	stateSvc := service.NewStateService(searchCfg, log.Logger)
	historySvc := service.NewHistoryService(repo, cache, cfg.Cache.RecentTTL, log.Logger)

	// Create distributed locker
	distLocker := locker.NewRedisLocker(redisClient, log.Logger)

	// Create validator
	v := validator.New()

	// Create HTTP server
	server := httpserver.NewServer(
		httpserver.ServerConfig{
			Port:             cfg.App.Port,
			BodyLimit:        1024 * 1024, // 1MB
			HistoryRetention: cfg.History.Retention,
		},
		stateSvc,
		historySvc,
		db,
		v,
		log.Logger,
	)

	// Start prune scheduler with distributed locking
	scheduler := job.NewPruneScheduler(
		historySvc,
		job.PruneConfig{
			Interval:  cfg.History.Interval,
			Timeout:   cfg.History.Timeout,
			Retention: cfg.History.Retention,
			OnStartup: cfg.History.OnStartup,
		},
		log.Logger,
		distLocker,
	)
	scheduler.Start(cfg.History.OnStartup)

	// Graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		log.Info("shutdown signal received")

		// Stop scheduler
		scheduler.Stop()

		// Shutdown server with timeout
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := server.App.ShutdownWithContext(ctx); err != nil {
			log.Error("server shutdown error", zap.Error(err))
		}
	}()

	// Start server
	if err := server.Start(cfg.App.Port); err != nil {
		log.Fatal("server error", zap.Error(err))
	}
}
