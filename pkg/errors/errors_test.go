package errors

import (
	"context"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHTTPStatusCode(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"superseded", fmt.Errorf("fetch: %w", ErrSuperseded), http.StatusNoContent},
		{"invalid", ErrInvalidInput, http.StatusBadRequest},
		{"not found", ErrNotFound, http.StatusNotFound},
		{"rate limited", ErrRateLimited, http.StatusTooManyRequests},
		{"permanent", fmt.Errorf("status 404: %w", ErrPermanentRequest), http.StatusBadGateway},
		{"transient", fmt.Errorf("all attempts failed: %w", ErrTransientNetwork), http.StatusServiceUnavailable},
		{"unavailable", ErrUnavailable, http.StatusServiceUnavailable},
		{"unknown", fmt.Errorf("boom"), http.StatusInternalServerError},
		{"app error", New(ErrInvalidInput, http.StatusUnprocessableEntity, "bad page"), http.StatusUnprocessableEntity},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, HTTPStatusCode(tc.err))
		})
	}
}

func TestAppError(t *testing.T) {
	err := Newf(ErrInvalidInput, http.StatusBadRequest, "limit %d too large", 900)
	assert.Equal(t, "invalid input: limit 900 too large", err.Error())
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestClassifiers(t *testing.T) {
	assert.True(t, IsRetryable(fmt.Errorf("x: %w", ErrTransientNetwork)))
	assert.True(t, IsRetryable(ErrUnavailable))
	assert.False(t, IsRetryable(ErrPermanentRequest))

	assert.True(t, IsCancelled(ErrSuperseded))
	assert.True(t, IsCancelled(fmt.Errorf("wrapped: %w", context.Canceled)))
	assert.False(t, IsCancelled(ErrTimeout))
}
