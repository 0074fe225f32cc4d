package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"revivalhub/database"
	"revivalhub/internal/config"
	"revivalhub/internal/logger"
	"revivalhub/internal/microservices/http-api/middleware"
	"revivalhub/internal/microservices/http-api/repository"
	"revivalhub/internal/microservices/http-api/service"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "could not load config: %v\n", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.OpenGorm(cfg.DatabaseURL, cfg.IsDevelopment())
	if err != nil {
		log.Fatal("failed to open database", zap.Error(err))
	}
	if err := database.Migrate(db); err != nil {
		log.Fatal("failed to migrate database", zap.Error(err))
	}

	pool, err := database.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}
	defer pool.Close()

	// display lookups go straight to Postgres when Redis is unreachable
	var cache *redis.Client
	if rdb, err := database.NewRedis(ctx, cfg.RedisURL, cfg.RedisPassword); err != nil {
		log.Warn("redis unavailable, directory cache disabled", zap.Error(err))
	} else {
		cache = rdb
		defer cache.Close()
	}

	userRepo := repository.NewUserRepository(db)
	listingRepo := repository.NewListingRepository(db)
	collabRepo := repository.NewCollaborationRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)
	outboxRepo := repository.NewOutboxRepository(db)

	directory := service.NewDirectoryService(listingRepo, userRepo, cache, cfg.CacheExpiry(), log)
	notifications := service.NewNotificationService(notificationRepo, directory, cfg.NotificationListLimit, log)
	collaborations := service.NewCollaborationService(collabRepo, directory, notifications, log)
	auth := service.NewAuthService(userRepo, cfg)

	relay := service.NewOutboxRelay(outboxRepo, notifications, service.RelayConfig{
		Interval:    cfg.OutboxInterval,
		BatchSize:   cfg.OutboxBatchSize,
		MaxAttempts: cfg.OutboxMaxAttempts,
		Workers:     cfg.OutboxWorkers,
		Retention:   cfg.NotificationRetention,
	}, log.Named("outbox"))
	relayDone := make(chan struct{})
	go func() {
		defer close(relayDone)
		relay.Run(ctx)
	}()

	deps := routerDeps{
		auth:           auth,
		collaborations: collaborations,
		notifications:  notifications,
		createLimiter:  middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst),
		corsOrigins:    cfg.CORSOrigins,
		metrics:        cfg.PrometheusEnabled,
		checkDB:        pool.Ping,
		log:            log,
	}
	if cache != nil {
		deps.checkCache = func(ctx context.Context) error { return cache.Ping(ctx).Err() }
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           newRouter(deps),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info("api server listening", zap.String("addr", srv.Addr), zap.String("env", cfg.GoEnv))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("http server failed", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", zap.Error(err))
	}
	<-relayDone
	log.Info("server stopped")
}
