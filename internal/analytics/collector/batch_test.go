package collector

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Adithya-Monish-Kumar-K/best-dressed/internal/analytics"
	"github.com/Adithya-Monish-Kumar-K/best-dressed/pkg/kafka"
)

type fakePublisher struct {
	mu      sync.Mutex
	batches [][]kafka.Event
	fail    bool
}

func (p *fakePublisher) Publish(ctx context.Context, ev kafka.Event) error {
	return p.PublishBatch(ctx, []kafka.Event{ev})
}

func (p *fakePublisher) PublishBatch(_ context.Context, evs []kafka.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.fail {
		return errors.New("broker down")
	}
	p.batches = append(p.batches, evs)
	return nil
}

func (p *fakePublisher) Close() error { return nil }

func (p *fakePublisher) published() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	n := 0
	for _, b := range p.batches {
		n += len(b)
	}
	return n
}

type countingObserver struct {
	mu                 sync.Mutex
	published, dropped int
}

func (o *countingObserver) Published(n int) { o.mu.Lock(); o.published += n; o.mu.Unlock() }
func (o *countingObserver) Dropped(n int)   { o.mu.Lock(); o.dropped += n; o.mu.Unlock() }

func TestBatchCollector_FlushesOnShutdown(t *testing.T) {
	pub := &fakePublisher{}
	obs := &countingObserver{}
	bc := NewBatchCollector(pub, 100, time.Hour, obs)
	ctx, cancel := context.WithCancel(context.Background())
	bc.Start(ctx)

	ev := analytics.NewRankEvent(analytics.OutcomeRanked)
	ev.SessionID = "session-1"
	bc.Track(ev)
	bc.Track(analytics.NewRankEvent(analytics.OutcomeUnranked))
	assert.Equal(t, 2, bc.BufferLen())

	cancel()
	bc.Close()

	require.Len(t, pub.batches, 1)
	batch := pub.batches[0]
	require.Len(t, batch, 2)
	assert.Equal(t, "session-1", batch[0].Key)
	assert.Equal(t, analytics.EventRank, batch[0].Type)
	assert.NotEmpty(t, batch[1].Key)
	assert.Equal(t, 2, obs.published)
}

func TestBatchCollector_FlushesFullBatch(t *testing.T) {
	pub := &fakePublisher{}
	bc := NewBatchCollector(pub, 3, time.Hour, nil)
	for range 3 {
		bc.Track(analytics.NewRankEvent(analytics.OutcomeRanked))
	}
	assert.Eventually(t, func() bool { return pub.published() == 3 }, time.Second, 5*time.Millisecond)
}

func TestBatchCollector_RequeuesAndCapsOnFailure(t *testing.T) {
	pub := &fakePublisher{fail: true}
	obs := &countingObserver{}
	bc := NewBatchCollector(pub, 2, time.Hour, obs)

	for range 8 {
		bc.mu.Lock()
		bc.buffer = append(bc.buffer, kafka.Event{Key: "k"})
		bc.mu.Unlock()
	}
	bc.flush(context.Background())

	assert.Equal(t, 6, bc.BufferLen())
	assert.Equal(t, 2, obs.dropped)
	assert.Equal(t, 0, obs.published)
}
