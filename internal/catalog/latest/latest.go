// Package latest keeps only the newest request per key alive. Starting a
// new call for a key cancels the one already in flight, and the older call
// reports ErrSuperseded instead of its result.
package latest

import (
	"context"
	"sync"

	apperrors "github.com/Adithya-Monish-Kumar-K/best-dressed/pkg/errors"
)

type flight struct {
	generation uint64
	cancel     context.CancelCauseFunc
}

// Coordinator tracks the current call per key. The zero value is not usable;
// call New.
type Coordinator struct {
	mu         sync.Mutex
	generation uint64
	current    map[string]*flight
}

// New creates an empty Coordinator.
func New() *Coordinator {
	return &Coordinator{current: make(map[string]*flight)}
}

// Do runs fn as the current call for key. A later Do with the same key
// cancels fn's context with cause ErrSuperseded, and this call then returns
// ErrSuperseded whatever fn returned. An empty key disables coordination.
func (c *Coordinator) Do(ctx context.Context, key string, fn func(ctx context.Context) error) error {
	if key == "" {
		return fn(ctx)
	}

	fctx, cancel := context.WithCancelCause(ctx)
	defer cancel(nil)

	c.mu.Lock()
	if prev, ok := c.current[key]; ok {
		prev.cancel(apperrors.ErrSuperseded)
	}
	c.generation++
	f := &flight{generation: c.generation, cancel: cancel}
	c.current[key] = f
	c.mu.Unlock()

	err := fn(fctx)

	c.mu.Lock()
	cur, ok := c.current[key]
	superseded := !ok || cur.generation != f.generation
	if !superseded {
		delete(c.current, key)
	}
	c.mu.Unlock()

	if superseded {
		return apperrors.ErrSuperseded
	}
	return err
}

// InFlight returns the number of keys with a call in progress.
func (c *Coordinator) InFlight() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.current)
}
