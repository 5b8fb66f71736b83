// Command analytics starts the standalone ranking analytics service.
//
// It consumes ranking events from Kafka, aggregates them in memory (outcome
// counts, latency percentiles, most prioritised categories and values),
// snapshots the aggregate to PostgreSQL, and serves it at GET /api/analytics.
//
// Usage:
//
//	BD_SERVER_PORT=8081 go run ./cmd/analytics [-config configs/development.yaml]
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

	"github.com/go-chi/chi/v5"

	"github.com/Adithya-Monish-Kumar-K/best-dressed/internal/analytics"
	"github.com/Adithya-Monish-Kumar-K/best-dressed/internal/analytics/aggregator"
	"github.com/Adithya-Monish-Kumar-K/best-dressed/pkg/config"
	"github.com/Adithya-Monish-Kumar-K/best-dressed/pkg/health"
	"github.com/Adithya-Monish-Kumar-K/best-dressed/pkg/kafka"
	"github.com/Adithya-Monish-Kumar-K/best-dressed/pkg/logger"
	"github.com/Adithya-Monish-Kumar-K/best-dressed/pkg/middleware"
	"github.com/Adithya-Monish-Kumar-K/best-dressed/pkg/postgres"
)

func main() {
	configPath := flag.String("config", "configs/development.yaml", "path to config file")
	snapshotEvery := flag.Duration("snapshot-interval", time.Minute, "how often to persist the aggregate; 0 disables persistence")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger.Setup(cfg.Logging.Level, cfg.Logging.Format)
	slog.Info("starting analytics service", "port", cfg.Server.Port)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	agg := analytics.NewAggregator()
	consumer := kafka.NewConsumer(cfg.Kafka, cfg.Kafka.Topics.RankingEvents, agg.Handler())
	consumerDone := make(chan struct{})
	go func() {
		defer close(consumerDone)
		if err := consumer.Start(ctx); err != nil {
			slog.Error("ranking event consumer error", "error", err)
		}
	}()
	slog.Info("analytics aggregator started", "topic", cfg.Kafka.Topics.RankingEvents)

	checker := health.NewChecker()
	checker.Register("kafka_consumer", func(ctx context.Context) health.ComponentHealth {
		select {
		case <-consumerDone:
			return health.ComponentHealth{Status: health.StatusDown, Message: "consumer stopped"}
		default:
			return health.ComponentHealth{Status: health.StatusUp, Message: "consumer active"}
		}
	})

	var history analytics.History
	if *snapshotEvery > 0 {
		db, err := postgres.New(cfg.Postgres)
		if err != nil {
			slog.Warn("postgres unavailable, snapshots disabled", "error", err)
		} else {
			defer db.Close()
			snapshots := aggregator.NewStore(db)
			if err := snapshots.Migrate(ctx); err != nil {
				slog.Error("failed to migrate analytics schema", "error", err)
				os.Exit(1)
			}
			snapshots.StartPeriodicSave(ctx, agg, *snapshotEvery)
			history = snapshots
			checker.Register("postgres", health.Optional(health.PingCheck(db.Ping)))
		}
	}

	analyticsHandler := analytics.NewHandler(agg, history)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logging)
	r.Get("/api/analytics", analyticsHandler.Stats)
	r.Get("/api/analytics/snapshots", analyticsHandler.Snapshots)
	r.Get("/health/live", checker.LiveHandler())
	r.Get("/health/ready", checker.ReadyHandler())

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      r,
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

	slog.Info("analytics service listening", "addr", server.Addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}

	slog.Info("analytics service stopped")
}
