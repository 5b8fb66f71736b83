// Package ratelimit provides an in-memory per-client token bucket.
package ratelimit

import (
	"context"
	"sync"
	"time"
)

// entry tracks the token-bucket state for a single key.
type entry struct {
	tokens    float64
	lastCheck time.Time
}

// Limiter implements an in-memory token-bucket rate limiter. Every key may
// burst up to Burst requests and refills at RequestsPerMinute.
type Limiter struct {
	mu      sync.Mutex
	entries map[string]*entry
	rate    float64
	burst   float64
	now     func() time.Time
}

// New creates a limiter allowing perMinute sustained requests per key with
// bursts of up to burst. A burst below 1 is raised to 1.
func New(perMinute, burst int) *Limiter {
	if burst < 1 {
		burst = 1
	}
	return &Limiter{
		entries: make(map[string]*entry),
		rate:    float64(perMinute) / 60,
		burst:   float64(burst),
		now:     time.Now,
	}
}

// Allow consumes one token for key and reports whether one was available.
func (l *Limiter) Allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	e, exists := l.entries[key]
	if !exists {
		l.entries[key] = &entry{
			tokens:    l.burst - 1,
			lastCheck: now,
		}
		return true
	}

	elapsed := now.Sub(e.lastCheck)
	e.lastCheck = now

	e.tokens += elapsed.Seconds() * l.rate
	if e.tokens > l.burst {
		e.tokens = l.burst
	}

	if e.tokens < 1 {
		return false
	}

	e.tokens--
	return true
}

// RetryAfter is how long a drained key waits for its next token.
func (l *Limiter) RetryAfter() time.Duration {
	if l.rate <= 0 {
		return time.Minute
	}
	return time.Duration(float64(time.Second) / l.rate)
}

// Reset clears the rate-limit state for a specific key.
func (l *Limiter) Reset(key string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.entries, key)
}

// Len returns the number of tracked keys.
func (l *Limiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}

// RunCleanup periodically removes keys idle for longer than maxIdle until
// ctx is cancelled.
func (l *Limiter) RunCleanup(ctx context.Context, interval, maxIdle time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			l.sweep(maxIdle)
		}
	}
}

func (l *Limiter) sweep(maxIdle time.Duration) {
	l.mu.Lock()
	defer l.mu.Unlock()
	cutoff := l.now().Add(-maxIdle)
	for key, e := range l.entries {
		if e.lastCheck.Before(cutoff) {
			delete(l.entries, key)
		}
	}
}
