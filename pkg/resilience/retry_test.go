package resilience

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/Adithya-Monish-Kumar-K/best-dressed/pkg/errors"
)

func fastRetry(attempts int) RetryConfig {
	return RetryConfig{
		MaxAttempts:  attempts,
		InitialDelay: time.Millisecond,
		MaxDelay:     5 * time.Millisecond,
		Multiplier:   2,
	}
}

func TestRetry_SucceedsAfterTransientFailures(t *testing.T) {
	calls := 0
	var retried []int
	cfg := fastRetry(5)
	cfg.OnRetry = func(attempt int, err error, delay time.Duration) {
		retried = append(retried, attempt)
	}

	err := Retry(context.Background(), "test", cfg, func(ctx context.Context) error {
		calls++
		if calls < 3 {
			return fmt.Errorf("%w: 503", apperrors.ErrTransientNetwork)
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 3, calls)
	assert.Equal(t, []int{1, 2}, retried)
}

func TestRetry_PermanentErrorIsNotRetried(t *testing.T) {
	calls := 0
	err := Retry(context.Background(), "test", fastRetry(5), func(ctx context.Context) error {
		calls++
		return fmt.Errorf("%w: 404", apperrors.ErrPermanentRequest)
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrPermanentRequest)
	assert.Equal(t, 1, calls)
}

func TestRetry_ExhaustsAttempts(t *testing.T) {
	calls := 0
	err := Retry(context.Background(), "test", fastRetry(4), func(ctx context.Context) error {
		calls++
		return apperrors.ErrTransientNetwork
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrTransientNetwork)
	assert.Contains(t, err.Error(), "all 4 attempts failed")
	assert.Equal(t, 4, calls)
}

func TestRetry_CancelDuringBackoff(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cfg := fastRetry(6)
	cfg.InitialDelay = time.Hour
	cfg.MaxDelay = time.Hour
	cfg.OnRetry = func(int, error, time.Duration) { cancel() }

	start := time.Now()
	err := Retry(ctx, "test", cfg, func(ctx context.Context) error {
		return apperrors.ErrTransientNetwork
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.True(t, apperrors.IsCancelled(err))
	assert.Less(t, time.Since(start), time.Second)
}

func TestRetry_CustomClassifier(t *testing.T) {
	boom := errors.New("boom")
	calls := 0
	cfg := fastRetry(3)
	cfg.Retryable = func(err error) bool { return errors.Is(err, boom) }

	err := Retry(context.Background(), "test", cfg, func(ctx context.Context) error {
		calls++
		return boom
	})

	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 3, calls)
}

func TestComputeDelay(t *testing.T) {
	cfg := RetryConfig{
		InitialDelay: 350 * time.Millisecond,
		MaxDelay:     8 * time.Second,
		Multiplier:   1.75,
		JitterMin:    0.9,
		JitterMax:    1.15,
	}.withDefaults()

	for range 100 {
		d := computeDelay(1, cfg)
		assert.GreaterOrEqual(t, d, 315*time.Millisecond)
		assert.LessOrEqual(t, d, 403*time.Millisecond)

		d = computeDelay(3, cfg)
		assert.GreaterOrEqual(t, d, 964*time.Millisecond)
		assert.LessOrEqual(t, d, 1233*time.Millisecond)
	}
	assert.Equal(t, 8*time.Second, computeDelay(20, cfg))
}

func TestWithTimeout(t *testing.T) {
	err := WithTimeout(context.Background(), 10*time.Millisecond, "slow", func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	})
	assert.ErrorIs(t, err, apperrors.ErrTimeout)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	err = WithTimeout(context.Background(), time.Second, "fast", func(ctx context.Context) error {
		return nil
	})
	assert.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err = WithTimeout(ctx, time.Second, "cancelled", func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.NotErrorIs(t, err, apperrors.ErrTimeout)
}
