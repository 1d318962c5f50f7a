package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"github.com/urfave/cli/v2"
	"google.golang.org/grpc/health"

	"github.com/tair/product-catalog/internal/catalog"
	"github.com/tair/product-catalog/kafka"
	"github.com/tair/product-catalog/pkg/auth"
	"github.com/tair/product-catalog/pkg/config"
	"github.com/tair/product-catalog/pkg/logger"
	"github.com/tair/product-catalog/pkg/metrics"
	"github.com/tair/product-catalog/pkg/tracing"
)

const shutdownTimeout = 10 * time.Second

func serve(c *cli.Context) error {
	cfg := configFrom(c)

	logger.Logger.Info().
		Str("environment", cfg.Environment).
		Str("version", version).
		Msg("Starting product catalog")

	tp, err := tracing.InitTracer(cfg.ServiceName, version, cfg.Tracing)
	if err != nil {
		return err
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := tracing.Shutdown(ctx, tp); err != nil {
			logger.Logger.Error().Err(err).Msg("Failed to shutdown tracer")
		}
	}()

	db, closeDB, err := openDatabase(cfg)
	if err != nil {
		return err
	}
	defer closeDB()

	if err := catalog.Migrate(db); err != nil {
		return err
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	redisClient, closeRedis := connectRedis(c.Context, cfg.Redis)
	defer closeRedis()
	catalogMetrics := metrics.NewCatalogMetrics(registry)

	var publisher kafka.EventPublisher = kafka.NopPublisher{}
	if cfg.Kafka.Enabled {
		kafkaPublisher, err := kafka.NewPublisher(cfg.Kafka.Brokers, cfg.Kafka.EventsTopic, catalogMetrics)
		if err != nil {
			return err
		}
		defer kafkaPublisher.Close()
		publisher = kafka.NewBreakerPublisher(kafkaPublisher)
	} else {
		logger.Logger.Warn().Msg("Kafka disabled - catalog events are not published")
	}

	tokens := auth.NewTokenManager(cfg.SecretKey, cfg.TokenTTL)
	app, err := catalog.InitializeApp(db, cfg, tokens, redisClient, publisher, registry, catalogMetrics)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(c.Context, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.Kafka.Enabled {
		consumer, err := kafka.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.GroupID, []string{cfg.Kafka.IngestTopic}, catalogMetrics)
		if err != nil {
			return err
		}
		app.Ingest.Register(consumer)
		consumer.Start(ctx)
		defer consumer.Close()
	}

	healthChecker := catalog.NewHealthChecker(db)
	grpcHealth := health.NewServer()
	go healthChecker.Watch(ctx, grpcHealth, 10*time.Second)

	grpcServer, err := startGRPCServer(cfg.GRPCPort, grpcHealth)
	if err != nil {
		return err
	}

	server := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           catalog.NewRouter(app, registry, healthChecker, cfg.CORS.AllowedOrigins),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Logger.Info().Str("port", cfg.HTTPPort).Msg("HTTP server starting")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		logger.Logger.Info().Msg("Shutting down servers...")
	case err := <-errCh:
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	grpcServer.GracefulStop()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return err
	}

	logger.Logger.Info().Msg("Product catalog stopped")
	return nil
}

// connectRedis returns a nil client when Redis is disabled or unreachable, which
// turns rate limiting and response caching into pass-throughs. The close func is
// always safe to call.
func connectRedis(ctx context.Context, cfg config.Redis) (redis.Cmdable, func()) {
	noop := func() {}
	if !cfg.Enabled {
		logger.Logger.Warn().Msg("Redis disabled - rate limiting and response caching are off")
		return nil, noop
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		logger.Logger.Warn().
			Err(err).
			Str("redis_addr", cfg.Addr).
			Msg("Failed to connect to Redis - rate limiting and response caching are off")
		client.Close()
		return nil, noop
	}

	logger.Logger.Info().Str("redis_addr", cfg.Addr).Msg("Connected to Redis")
	return client, func() {
		if err := client.Close(); err != nil {
			logger.Logger.Error().Err(err).Msg("Failed to close Redis client")
		}
	}
}
