// Command server runs the Best Dressed priority search API.
//
// The catalog comes from memory (the seed catalog), PostgreSQL or an upstream
// catalog API, optionally cached in Redis. Ranking events are aggregated in
// process and, when Kafka is enabled, shipped to the ranking-events topic.
//
// Usage:
//
//	go run ./cmd/server [-config configs/development.yaml]
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Adithya-Monish-Kumar-K/best-dressed/internal/analytics"
	"github.com/Adithya-Monish-Kumar-K/best-dressed/internal/analytics/collector"
	"github.com/Adithya-Monish-Kumar-K/best-dressed/internal/catalog"
	"github.com/Adithya-Monish-Kumar-K/best-dressed/internal/catalog/cache"
	"github.com/Adithya-Monish-Kumar-K/best-dressed/internal/catalog/latest"
	"github.com/Adithya-Monish-Kumar-K/best-dressed/internal/catalog/memory"
	"github.com/Adithya-Monish-Kumar-K/best-dressed/internal/catalog/remote"
	"github.com/Adithya-Monish-Kumar-K/best-dressed/internal/catalog/seed"
	"github.com/Adithya-Monish-Kumar-K/best-dressed/internal/catalog/store"
	"github.com/Adithya-Monish-Kumar-K/best-dressed/internal/dresses/handler"
	"github.com/Adithya-Monish-Kumar-K/best-dressed/internal/dresses/router"
	"github.com/Adithya-Monish-Kumar-K/best-dressed/internal/dresses/service"
	"github.com/Adithya-Monish-Kumar-K/best-dressed/internal/ranking"
	"github.com/Adithya-Monish-Kumar-K/best-dressed/pkg/config"
	"github.com/Adithya-Monish-Kumar-K/best-dressed/pkg/health"
	"github.com/Adithya-Monish-Kumar-K/best-dressed/pkg/kafka"
	"github.com/Adithya-Monish-Kumar-K/best-dressed/pkg/logger"
	"github.com/Adithya-Monish-Kumar-K/best-dressed/pkg/metrics"
	"github.com/Adithya-Monish-Kumar-K/best-dressed/pkg/postgres"
	"github.com/Adithya-Monish-Kumar-K/best-dressed/pkg/ratelimit"
	pkgredis "github.com/Adithya-Monish-Kumar-K/best-dressed/pkg/redis"
	"github.com/Adithya-Monish-Kumar-K/best-dressed/pkg/tracing"
)

func main() {
	configPath := flag.String("config", "configs/development.yaml", "path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger.Setup(cfg.Logging.Level, cfg.Logging.Format)
	slog.Info("starting best dressed server", "port", cfg.Server.Port, "catalog_source", cfg.Catalog.Source)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m := metrics.New()
	if cfg.Metrics.Enabled {
		shutdownMetrics := metrics.StartServer(cfg.Metrics.Port)
		defer shutdownMetrics(context.Background())
	}

	checker := health.NewChecker()
	source, closeSource, err := openSource(ctx, cfg, m, checker)
	if err != nil {
		slog.Error("failed to open catalog", "source", cfg.Catalog.Source, "error", err)
		os.Exit(1)
	}
	defer closeSource()

	var queryCache *cache.QueryCache
	if cfg.Redis.Enabled {
		redisClient, err := pkgredis.NewClient(cfg.Redis)
		if err != nil {
			slog.Warn("redis unavailable, catalog caching disabled", "error", err)
		} else {
			defer redisClient.Close()
			queryCache = cache.New(source, redisClient, cfg.Redis.CacheTTL, metrics.NewCacheObserver(m))
			source = queryCache
			checker.Register("redis", health.Optional(health.PingCheck(redisClient.Ping)))
			slog.Info("catalog cache enabled", "addr", cfg.Redis.Addr, "ttl", cfg.Redis.CacheTTL)
		}
	}

	aggregator := analytics.NewAggregator()
	var tracker analytics.Tracker = aggregator
	if cfg.Kafka.Enabled {
		producer := kafka.NewProducer(cfg.Kafka, cfg.Kafka.Topics.RankingEvents)
		defer producer.Close()
		events := collector.NewBatchCollector(producer, 100, 2*time.Second, metrics.NewEventObserver(m))
		events.Start(ctx)
		defer events.Close()
		tracker = analytics.Tee(aggregator, events)
		slog.Info("ranking events enabled", "topic", cfg.Kafka.Topics.RankingEvents)

		if queryCache != nil {
			consumer := kafka.NewConsumer(cfg.Kafka, cfg.Kafka.Topics.CacheInvalidate, queryCache.InvalidationHandler())
			go func() {
				if err := consumer.Start(ctx); err != nil {
					slog.Error("cache invalidation consumer error", "error", err)
				}
			}()
		}
	}

	svc := service.New(service.Options{
		Source:      source,
		SourceName:  cfg.Catalog.Source,
		Coordinator: latest.New(),
		Tracker:     tracker,
		Metrics:     m,
		Tracer:      tracing.NewTracer(cfg.Tracing.Enabled, cfg.Tracing.SampleRate),
		Index: ranking.IndexConfig{
			Base:                  cfg.Ranking.Base,
			ValueDecay:            cfg.Ranking.ValueDecay,
			HighPriorityThreshold: cfg.Ranking.HighPriorityThreshold,
			TopLabel:              cfg.Ranking.TopLabel,
		},
		PageSize:     cfg.Catalog.PageSize,
		MaxPageSize:  cfg.Catalog.MaxPageSize,
		FetchTimeout: cfg.Server.RequestTimeout,
	})

	var limiter *ratelimit.Limiter
	if cfg.RateLimit.Enabled {
		limiter = ratelimit.New(cfg.RateLimit.RequestsPerMinute, cfg.RateLimit.Burst)
		go limiter.RunCleanup(ctx, time.Minute, 10*time.Minute)
	}

	var cacheAdmin handler.CacheAdmin
	if queryCache != nil {
		cacheAdmin = queryCache
	}
	server := &http.Server{
		Addr: fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: router.New(router.Deps{
			Dresses:        handler.New(svc, cacheAdmin),
			Analytics:      analytics.NewHandler(aggregator, nil),
			Health:         checker,
			Metrics:        m,
			Limiter:        limiter,
			AllowedOrigins: cfg.CORS.AllowedOrigins,
			RequestTimeout: cfg.Server.RequestTimeout,
		}),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		<-ctx.Done()
		slog.Info("shutdown signal received")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("server shutdown error", "error", err)
		}
	}()

	slog.Info("best dressed server listening", "addr", server.Addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}

	slog.Info("best dressed server stopped")
}

// openSource builds the configured catalog backend and registers its health
// check. The returned func releases its resources.
func openSource(ctx context.Context, cfg *config.Config, m *metrics.Metrics, checker *health.Checker) (catalog.Source, func(), error) {
	switch cfg.Catalog.Source {
	case config.SourcePostgres:
		db, err := postgres.New(cfg.Postgres)
		if err != nil {
			return nil, nil, err
		}
		dresses := store.New(db)
		if err := dresses.Migrate(ctx); err != nil {
			db.Close()
			return nil, nil, err
		}
		if n, err := dresses.Count(ctx); err == nil && n == 0 {
			slog.Warn("catalog table is empty, run cmd/seed to load the seed catalog")
		}
		checker.Register("postgres", health.PingCheck(db.Ping))
		return dresses, func() { db.Close() }, nil

	case config.SourceRemote:
		opts := remote.OptionsFromConfig(cfg.Catalog)
		opts.Metrics = m
		client := remote.New(opts)
		checker.Register("catalog_upstream", health.PingCheck(client.Ping))
		slog.Info("remote catalog configured", "base_url", opts.BaseURL)
		return client, func() {}, nil

	default:
		src := memory.New(seed.Dresses())
		checker.Register("catalog", health.PingCheck(src.Ping))
		slog.Info("in-memory seed catalog loaded", "dresses", src.Len())
		return src, func() {}, nil
	}
}
