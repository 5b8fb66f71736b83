// Package memory is an in-memory catalog Source, used for local development
// and as the test double for every catalog consumer.
package memory

import (
	"context"
	"slices"
	"sync"

	"github.com/Adithya-Monish-Kumar-K/best-dressed/internal/catalog"
)

// Source serves a fixed dress list. Thread-safe via sync.RWMutex.
type Source struct {
	mu      sync.RWMutex
	dresses []catalog.Dress
}

// New creates a Source holding a copy of dresses.
func New(dresses []catalog.Dress) *Source {
	s := &Source{}
	s.Replace(dresses)
	return s
}

// Query returns the dresses matching q in ID order.
func (s *Source) Query(ctx context.Context, q catalog.Query) ([]catalog.Dress, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return q.Filter(s.dresses), nil
}

// Replace swaps the whole catalog.
func (s *Source) Replace(dresses []catalog.Dress) {
	cp := slices.Clone(dresses)
	slices.SortFunc(cp, func(a, b catalog.Dress) int { return a.ID - b.ID })
	s.mu.Lock()
	s.dresses = cp
	s.mu.Unlock()
}

// Len returns the catalog size.
func (s *Source) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.dresses)
}

// Ping always succeeds; it lets the memory source register a health check
// like the other backends.
func (s *Source) Ping(context.Context) error {
	return nil
}
