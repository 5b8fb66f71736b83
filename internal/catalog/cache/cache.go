// Package cache wraps a catalog Source with a Redis-backed result cache.
// Concurrent misses for the same filter collapse into one upstream fetch.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/Adithya-Monish-Kumar-K/best-dressed/internal/catalog"
	pkgredis "github.com/Adithya-Monish-Kumar-K/best-dressed/pkg/redis"
)

const keyPrefix = "catalog:"

// Store is the subset of the Redis client the cache needs.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	FlushByPattern(ctx context.Context, pattern string) (int64, error)
	Count(ctx context.Context, pattern string) (int64, error)
}

// Observer receives hit and miss notifications, typically Prometheus
// counters.
type Observer interface {
	Hit()
	Miss()
}

// Stats is a snapshot of cache effectiveness.
type Stats struct {
	Hits    int64   `json:"hits"`
	Misses  int64   `json:"misses"`
	HitRate float64 `json:"hit_rate"`
	Entries int64   `json:"entries"`
}

// QueryCache is a catalog.Source that serves repeated filters from Redis.
type QueryCache struct {
	next     catalog.Source
	store    Store
	ttl      time.Duration
	group    singleflight.Group
	observer Observer
	logger   *slog.Logger
	hits     atomic.Int64
	misses   atomic.Int64
}

// New wraps next with a cache entry per distinct filter, kept for ttl.
func New(next catalog.Source, store Store, ttl time.Duration, observer Observer) *QueryCache {
	return &QueryCache{
		next:     next,
		store:    store,
		ttl:      ttl,
		observer: observer,
		logger:   slog.Default().With("component", "catalog-cache"),
	}
}

// Query serves q from the cache, falling back to the wrapped source. Cache
// failures are logged and never fail the request.
//
// A miss shared by several callers runs on a context detached from any one
// caller's cancellation, keeping its deadline. Each caller stops waiting when
// its own context ends, so cancelling one request never fails the others.
func (c *QueryCache) Query(ctx context.Context, q catalog.Query) ([]catalog.Dress, error) {
	key := keyPrefix + q.Key()
	if dresses, ok := c.get(ctx, key); ok {
		return dresses, nil
	}
	ch := c.group.DoChan(key, func() (any, error) {
		fetchCtx, cancel := detach(ctx)
		defer cancel()
		if dresses, ok := c.get(fetchCtx, key); ok {
			return dresses, nil
		}
		dresses, err := c.next.Query(fetchCtx, q)
		if err != nil {
			return nil, err
		}
		c.set(fetchCtx, key, dresses)
		return dresses, nil
	})
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		if res.Shared {
			c.logger.Debug("shared in-flight catalog fetch", "key", key)
		}
		return res.Val.([]catalog.Dress), nil
	}
}

func detach(ctx context.Context) (context.Context, context.CancelFunc) {
	base := context.WithoutCancel(ctx)
	if deadline, ok := ctx.Deadline(); ok {
		return context.WithDeadline(base, deadline)
	}
	return context.WithCancel(base)
}

func (c *QueryCache) get(ctx context.Context, key string) ([]catalog.Dress, bool) {
	data, err := c.store.Get(ctx, key)
	if err != nil {
		if !pkgredis.IsNilError(err) {
			c.logger.Error("cache get failed", "key", key, "error", err)
		}
		c.recordMiss()
		return nil, false
	}
	var dresses []catalog.Dress
	if err := json.Unmarshal(data, &dresses); err != nil {
		c.logger.Error("cache unmarshal failed", "key", key, "error", err)
		c.recordMiss()
		return nil, false
	}
	c.hits.Add(1)
	if c.observer != nil {
		c.observer.Hit()
	}
	c.logger.Debug("cache hit", "key", key, "items", len(dresses))
	return dresses, true
}

func (c *QueryCache) set(ctx context.Context, key string, dresses []catalog.Dress) {
	if dresses == nil {
		dresses = []catalog.Dress{}
	}
	data, err := json.Marshal(dresses)
	if err != nil {
		c.logger.Error("cache marshal failed", "key", key, "error", err)
		return
	}
	if err := c.store.Set(ctx, key, data, c.ttl); err != nil {
		c.logger.Error("cache set failed", "key", key, "error", err)
	}
}

func (c *QueryCache) recordMiss() {
	c.misses.Add(1)
	if c.observer != nil {
		c.observer.Miss()
	}
}

// Invalidate drops every cached catalog result and returns how many entries
// were removed.
func (c *QueryCache) Invalidate(ctx context.Context) (int64, error) {
	deleted, err := c.store.FlushByPattern(ctx, keyPrefix+"*")
	if err != nil {
		return deleted, fmt.Errorf("invalidating cache: %w", err)
	}
	c.logger.Info("cache invalidate", "keys_deleted", deleted)
	return deleted, nil
}

// Stats returns hit and miss counters and the current entry count. A failed
// entry count is reported as -1.
func (c *QueryCache) Stats(ctx context.Context) Stats {
	s := Stats{Hits: c.hits.Load(), Misses: c.misses.Load()}
	if total := s.Hits + s.Misses; total > 0 {
		s.HitRate = float64(s.Hits) / float64(total)
	}
	n, err := c.store.Count(ctx, keyPrefix+"*")
	if err != nil {
		c.logger.Warn("cache entry count failed", "error", err)
		n = -1
	}
	s.Entries = n
	return s
}
