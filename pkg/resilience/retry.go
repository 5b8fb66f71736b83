// Package resilience provides fault-tolerance primitives: exponential-backoff
// retry with multiplicative jitter and a context-based timeout wrapper.
package resilience

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"math/rand/v2"
	"time"

	apperrors "github.com/Adithya-Monish-Kumar-K/best-dressed/pkg/errors"
)

// RetryConfig controls Retry. Each delay is InitialDelay*Multiplier^(n-1)
// scaled by a random factor in [JitterMin, JitterMax] and capped at MaxDelay.
type RetryConfig struct {
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
	JitterMin    float64
	JitterMax    float64
	// Retryable decides whether a failed attempt may be repeated. Nil
	// retries only ErrTransientNetwork.
	Retryable func(error) bool
	// OnRetry, if set, observes every failed attempt that will be retried.
	OnRetry func(attempt int, err error, delay time.Duration)
}

func defaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts:  6,
		InitialDelay: 350 * time.Millisecond,
		MaxDelay:     8 * time.Second,
		Multiplier:   1.75,
		JitterMin:    0.9,
		JitterMax:    1.15,
	}
}

// TransientOnly is the default Retryable classifier.
func TransientOnly(err error) bool {
	return errors.Is(err, apperrors.ErrTransientNetwork)
}

// Retry calls fn until it succeeds, returns a non-retryable error, or the
// attempts run out. Cancelling ctx aborts a pending backoff immediately and
// the returned error wraps ctx.Err(), so callers can tell a cancelled fetch
// from a failed one.
func Retry(ctx context.Context, name string, cfg RetryConfig, fn func(ctx context.Context) error) error {
	cfg = cfg.withDefaults()
	logger := slog.Default().With("component", "retry", "operation", name)
	var lastErr error
	for attempt := 1; attempt <= cfg.MaxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("retry aborted: %w", err)
		}
		lastErr = fn(ctx)
		if lastErr == nil {
			if attempt > 1 {
				logger.Info("succeeded after retry", "attempt", attempt)
			}
			return nil
		}
		if ctx.Err() != nil {
			return fmt.Errorf("retry aborted: %w", ctx.Err())
		}
		if !cfg.Retryable(lastErr) {
			return lastErr
		}
		if attempt == cfg.MaxAttempts {
			break
		}
		delay := computeDelay(attempt, cfg)
		logger.Warn("operation failed, retrying", "attempt", attempt, "max_attempts", cfg.MaxAttempts, "error", lastErr, "next_delay", delay)
		if cfg.OnRetry != nil {
			cfg.OnRetry(attempt, lastErr, delay)
		}
		timer := time.NewTimer(delay)
		select {
		case <-timer.C:
		case <-ctx.Done():
			timer.Stop()
			return fmt.Errorf("retry aborted during backoff: %w", ctx.Err())
		}
	}
	return fmt.Errorf("all %d attempts failed for %s: %w", cfg.MaxAttempts, name, lastErr)
}

func (cfg RetryConfig) withDefaults() RetryConfig {
	defaults := defaultRetryConfig()
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = defaults.MaxAttempts
	}
	if cfg.InitialDelay <= 0 {
		cfg.InitialDelay = defaults.InitialDelay
	}
	if cfg.MaxDelay <= 0 {
		cfg.MaxDelay = defaults.MaxDelay
	}
	if cfg.Multiplier <= 0 {
		cfg.Multiplier = defaults.Multiplier
	}
	if cfg.JitterMin <= 0 {
		cfg.JitterMin = defaults.JitterMin
	}
	if cfg.JitterMax < cfg.JitterMin {
		cfg.JitterMax = max(defaults.JitterMax, cfg.JitterMin)
	}
	if cfg.Retryable == nil {
		cfg.Retryable = TransientOnly
	}
	return cfg
}

func computeDelay(attempt int, cfg RetryConfig) time.Duration {
	backoff := float64(cfg.InitialDelay) * math.Pow(cfg.Multiplier, float64(attempt-1))
	jitter := cfg.JitterMin + rand.Float64()*(cfg.JitterMax-cfg.JitterMin)
	backoff *= jitter
	if backoff > float64(cfg.MaxDelay) {
		backoff = float64(cfg.MaxDelay)
	}
	return time.Duration(backoff)
}
