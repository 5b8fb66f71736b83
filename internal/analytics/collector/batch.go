// Package collector ships ranking events to Kafka in batches so the search
// path never waits on the broker.
package collector

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/Adithya-Monish-Kumar-K/best-dressed/internal/analytics"
	"github.com/Adithya-Monish-Kumar-K/best-dressed/pkg/kafka"
)

// Observer is told how many events each flush delivered or dropped.
type Observer interface {
	Published(n int)
	Dropped(n int)
}

// BatchCollector accumulates ranking events and flushes them to Kafka
// either when the batch reaches a configurable size or after a time interval.
type BatchCollector struct {
	producer      kafka.Publisher
	observer      Observer
	mu            sync.Mutex
	flushMu       sync.Mutex
	buffer        []kafka.Event
	batchSize     int
	flushInterval time.Duration
	logger        *slog.Logger
	done          chan struct{}
}

// NewBatchCollector creates a BatchCollector that flushes when the buffer
// reaches batchSize events or after flushInterval, whichever comes first.
// observer may be nil.
func NewBatchCollector(producer kafka.Publisher, batchSize int, flushInterval time.Duration, observer Observer) *BatchCollector {
	if batchSize <= 0 {
		batchSize = 100
	}
	if flushInterval <= 0 {
		flushInterval = 5 * time.Second
	}
	return &BatchCollector{
		producer:      producer,
		observer:      observer,
		buffer:        make([]kafka.Event, 0, batchSize),
		batchSize:     batchSize,
		flushInterval: flushInterval,
		logger:        slog.Default().With("component", "batch-collector"),
		done:          make(chan struct{}),
	}
}

// Start launches the background flush loop. It returns immediately; the
// loop flushes one last time when ctx is cancelled.
func (bc *BatchCollector) Start(ctx context.Context) {
	go func() {
		defer close(bc.done)
		ticker := time.NewTicker(bc.flushInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				bc.flush(ctx)
			case <-ctx.Done():
				flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				bc.flush(flushCtx)
				cancel()
				return
			}
		}
	}()
	bc.logger.Info("batch collector started",
		"batch_size", bc.batchSize,
		"flush_interval", bc.flushInterval,
	)
}

// Track buffers a ranking event keyed by session so one session's events
// stay ordered on a partition. A full batch triggers an immediate flush.
func (bc *BatchCollector) Track(event analytics.RankEvent) {
	key := event.SessionID
	if key == "" {
		key = event.ID
	}
	bc.mu.Lock()
	bc.buffer = append(bc.buffer, kafka.Event{Key: key, Type: analytics.EventRank, Value: event})
	shouldFlush := len(bc.buffer) >= bc.batchSize
	bc.mu.Unlock()

	if shouldFlush {
		go bc.flush(context.Background())
	}
}

// Close waits for the background flush loop to finish.
func (bc *BatchCollector) Close() {
	<-bc.done
}

// BufferLen returns the current number of buffered events.
func (bc *BatchCollector) BufferLen() int {
	bc.mu.Lock()
	defer bc.mu.Unlock()
	return len(bc.buffer)
}

func (bc *BatchCollector) flush(ctx context.Context) {
	bc.flushMu.Lock()
	defer bc.flushMu.Unlock()

	bc.mu.Lock()
	if len(bc.buffer) == 0 {
		bc.mu.Unlock()
		return
	}
	batch := bc.buffer
	bc.buffer = make([]kafka.Event, 0, bc.batchSize)
	bc.mu.Unlock()

	if err := bc.producer.PublishBatch(ctx, batch); err != nil {
		bc.logger.Error("batch flush failed",
			"batch_size", len(batch),
			"error", err,
		)
		// requeue, keeping at most three batches
		bc.mu.Lock()
		bc.buffer = append(batch, bc.buffer...)
		dropped := 0
		if limit := bc.batchSize * 3; len(bc.buffer) > limit {
			dropped = len(bc.buffer) - limit
			bc.buffer = bc.buffer[:limit]
		}
		bc.mu.Unlock()
		if dropped > 0 {
			bc.logger.Warn("buffer overflow, events dropped", "dropped", dropped)
			if bc.observer != nil {
				bc.observer.Dropped(dropped)
			}
		}
		return
	}

	if bc.observer != nil {
		bc.observer.Published(len(batch))
	}
	bc.logger.Debug("batch flushed", "events", len(batch))
}
