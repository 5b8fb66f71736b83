package cache

import (
	"context"
	"encoding/json"
	"errors"
	"path"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Adithya-Monish-Kumar-K/best-dressed/internal/catalog"
	"github.com/Adithya-Monish-Kumar-K/best-dressed/internal/catalog/seed"
	"github.com/Adithya-Monish-Kumar-K/best-dressed/pkg/kafka"
)

type memStore struct {
	mu      sync.Mutex
	data    map[string][]byte
	failGet bool
}

func newMemStore() *memStore { return &memStore{data: make(map[string][]byte)} }

func (m *memStore) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failGet {
		return nil, errors.New("connection reset")
	}
	v, ok := m.data[key]
	if !ok {
		return nil, goredis.Nil
	}
	return v, nil
}

func (m *memStore) Set(_ context.Context, key string, value []byte, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}

func (m *memStore) FlushByPattern(_ context.Context, pattern string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for k := range m.data {
		if ok, _ := path.Match(pattern, k); ok {
			delete(m.data, k)
			n++
		}
	}
	return n, nil
}

func (m *memStore) Count(_ context.Context, pattern string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for k := range m.data {
		if ok, _ := path.Match(pattern, k); ok {
			n++
		}
	}
	return n, nil
}

type countingSource struct {
	calls atomic.Int32
	delay time.Duration
	err   error
}

func (s *countingSource) Query(_ context.Context, q catalog.Query) ([]catalog.Dress, error) {
	s.calls.Add(1)
	time.Sleep(s.delay)
	if s.err != nil {
		return nil, s.err
	}
	return q.Filter(seed.Dresses()), nil
}

type counters struct{ hits, misses atomic.Int32 }

func (c *counters) Hit()  { c.hits.Add(1) }
func (c *counters) Miss() { c.misses.Add(1) }

func TestQueryCache_HitAfterMiss(t *testing.T) {
	src := &countingSource{}
	obs := &counters{}
	c := New(src, newMemStore(), time.Minute, obs)
	ctx := context.Background()
	q := catalog.Query{Color: []string{"ivory"}}

	first, err := c.Query(ctx, q)
	require.NoError(t, err)
	second, err := c.Query(ctx, catalog.Query{Color: []string{" IVORY"}})
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, int32(1), src.calls.Load())
	assert.Equal(t, int32(1), obs.hits.Load())

	stats := c.Stats(ctx)
	assert.Equal(t, int64(1), stats.Hits)
	assert.Equal(t, int64(1), stats.Entries)
	assert.Greater(t, stats.HitRate, 0.0)
}

func TestQueryCache_CollapsesConcurrentMisses(t *testing.T) {
	src := &countingSource{delay: 50 * time.Millisecond}
	c := New(src, newMemStore(), time.Minute, nil)

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := c.Query(context.Background(), catalog.Query{})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()
	assert.Equal(t, int32(1), src.calls.Load())
}

func TestQueryCache_CancelledCallerDoesNotFailSharedFetch(t *testing.T) {
	var calls atomic.Int32
	src := catalog.SourceFunc(func(ctx context.Context, q catalog.Query) ([]catalog.Dress, error) {
		calls.Add(1)
		select {
		case <-time.After(100 * time.Millisecond):
			return q.Filter(seed.Dresses()), nil
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	})
	c := New(src, newMemStore(), time.Minute, nil)
	q := catalog.Query{Color: []string{"ivory"}}

	firstCtx, cancelFirst := context.WithCancel(context.Background())
	firstErr := make(chan error, 1)
	go func() {
		_, err := c.Query(firstCtx, q)
		firstErr <- err
	}()
	require.Eventually(t, func() bool { return calls.Load() == 1 }, time.Second, time.Millisecond)

	second := make(chan []catalog.Dress, 1)
	go func() {
		got, err := c.Query(context.Background(), q)
		assert.NoError(t, err)
		second <- got
	}()
	time.Sleep(20 * time.Millisecond)
	cancelFirst()

	assert.ErrorIs(t, <-firstErr, context.Canceled)
	assert.Len(t, <-second, 3)
	assert.Equal(t, int32(1), calls.Load())
}

func TestQueryCache_StoreFailureFallsThrough(t *testing.T) {
	src := &countingSource{}
	store := newMemStore()
	store.failGet = true
	c := New(src, store, time.Minute, nil)

	got, err := c.Query(context.Background(), catalog.Query{})
	require.NoError(t, err)
	assert.Len(t, got, 10)
}

func TestQueryCache_SourceErrorNotCached(t *testing.T) {
	src := &countingSource{err: errors.New("upstream down")}
	store := newMemStore()
	c := New(src, store, time.Minute, nil)

	_, err := c.Query(context.Background(), catalog.Query{})
	assert.EqualError(t, err, "upstream down")
	assert.Empty(t, store.data)
}

func TestQueryCache_Invalidate(t *testing.T) {
	store := newMemStore()
	store.data["unrelated"] = []byte("x")
	c := New(&countingSource{}, store, time.Minute, nil)
	ctx := context.Background()

	_, _ = c.Query(ctx, catalog.Query{})
	_, _ = c.Query(ctx, catalog.Query{HasPockets: catalog.FlagTrue})

	n, err := c.Invalidate(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
	assert.Contains(t, store.data, "unrelated")
}

type recordingPublisher struct {
	events []kafka.Event
}

func (p *recordingPublisher) Publish(_ context.Context, ev kafka.Event) error {
	p.events = append(p.events, ev)
	return nil
}

func (p *recordingPublisher) PublishBatch(ctx context.Context, evs []kafka.Event) error {
	for _, ev := range evs {
		_ = p.Publish(ctx, ev)
	}
	return nil
}

func (p *recordingPublisher) Close() error { return nil }

func TestInvalidationBroadcast(t *testing.T) {
	pub := &recordingPublisher{}
	require.NoError(t, Broadcast(context.Background(), pub, "reseed"))
	require.Len(t, pub.events, 1)
	ev := pub.events[0]
	assert.Equal(t, EventInvalidate, ev.Type)
	payload, ok := ev.Value.(InvalidationEvent)
	require.True(t, ok)
	assert.Equal(t, "reseed", payload.Reason)
	assert.Equal(t, payload.ID, ev.Key)

	store := newMemStore()
	c := New(&countingSource{}, store, time.Minute, nil)
	ctx := context.Background()
	_, _ = c.Query(ctx, catalog.Query{})
	require.Len(t, store.data, 1)

	data, err := json.Marshal(payload)
	require.NoError(t, err)
	require.NoError(t, c.InvalidationHandler()(ctx, []byte(ev.Key), data))
	assert.Empty(t, store.data)

	err = c.InvalidationHandler()(ctx, nil, []byte("not json"))
	assert.ErrorIs(t, err, kafka.ErrPoison)
}
