// Command seed loads the seed dress catalog into PostgreSQL and, when Kafka
// is enabled, tells running servers to drop their cached catalog results.
//
// Usage:
//
//	go run ./cmd/seed [-config configs/development.yaml] [-reset]
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/Adithya-Monish-Kumar-K/best-dressed/internal/catalog/cache"
	"github.com/Adithya-Monish-Kumar-K/best-dressed/internal/catalog/seed"
	"github.com/Adithya-Monish-Kumar-K/best-dressed/internal/catalog/store"
	"github.com/Adithya-Monish-Kumar-K/best-dressed/pkg/config"
	"github.com/Adithya-Monish-Kumar-K/best-dressed/pkg/kafka"
	"github.com/Adithya-Monish-Kumar-K/best-dressed/pkg/logger"
	"github.com/Adithya-Monish-Kumar-K/best-dressed/pkg/postgres"
)

func main() {
	configPath := flag.String("config", "configs/development.yaml", "path to config file")
	reset := flag.Bool("reset", false, "delete every dress before loading")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	logger.Setup(cfg.Logging.Level, cfg.Logging.Format)

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	if err := run(ctx, cfg, *reset); err != nil {
		slog.Error("seeding failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, reset bool) error {
	db, err := postgres.New(cfg.Postgres)
	if err != nil {
		return err
	}
	defer db.Close()

	dresses := store.New(db)
	if err := dresses.Migrate(ctx); err != nil {
		return err
	}
	if reset {
		if _, err := db.DB.ExecContext(ctx, `TRUNCATE wedding_dresses`); err != nil {
			return fmt.Errorf("clearing catalog: %w", err)
		}
		slog.Info("catalog cleared")
	}
	if err := dresses.Upsert(ctx, seed.Dresses()); err != nil {
		return err
	}
	n, err := dresses.Count(ctx)
	if err != nil {
		return err
	}
	slog.Info("seed catalog loaded", "dresses", n, "database", cfg.Postgres.Database)

	if !cfg.Kafka.Enabled {
		return nil
	}
	producer := kafka.NewProducer(cfg.Kafka, cfg.Kafka.Topics.CacheInvalidate)
	defer producer.Close()
	if err := cache.Broadcast(ctx, producer, "seed"); err != nil {
		// the catalog is loaded; stale caches expire on their own
		slog.Warn("cache invalidation broadcast failed", "error", err)
		return nil
	}
	slog.Info("cache invalidation broadcast", "topic", cfg.Kafka.Topics.CacheInvalidate)
	return nil
}
