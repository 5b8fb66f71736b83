package errors

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrTransientNetwork = errors.New("transient network failure")
	ErrPermanentRequest = errors.New("request rejected by catalog")
	ErrSuperseded       = errors.New("request superseded")
	ErrInvalidInput     = errors.New("invalid input")
	ErrNotFound         = errors.New("not found")
	ErrUnavailable      = errors.New("catalog unavailable")
	ErrRateLimited      = errors.New("rate limit exceeded")
	ErrInternal         = errors.New("internal error")
	ErrTimeout          = errors.New("operation timed out")
)

type AppError struct {
	Err        error
	Message    string
	StatusCode int
}

func (e *AppError) Error() string {
	return fmt.Sprintf("%s: %s", e.Err.Error(), e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func New(sentinel error, statusCode int, message string) *AppError {
	return &AppError{
		Err:        sentinel,
		Message:    message,
		StatusCode: statusCode,
	}
}

func Newf(sentinel error, statusCode int, format string, args ...any) *AppError {
	return &AppError{
		Err:        sentinel,
		Message:    fmt.Sprintf(format, args...),
		StatusCode: statusCode,
	}
}

// IsRetryable reports whether the user may usefully try the same request
// again: the catalog failed transiently or was unavailable.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrTransientNetwork) ||
		errors.Is(err, ErrUnavailable) ||
		errors.Is(err, ErrTimeout)
}

// IsCancelled reports whether err comes from a superseded or cancelled
// request. Such errors are discarded, never shown to the user.
func IsCancelled(err error) bool {
	return errors.Is(err, ErrSuperseded) || errors.Is(err, context.Canceled)
}

func HTTPStatusCode(err error) int {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.StatusCode
	}

	switch {
	case errors.Is(err, ErrSuperseded):
		return http.StatusNoContent
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, ErrRateLimited):
		return http.StatusTooManyRequests
	case errors.Is(err, ErrPermanentRequest):
		return http.StatusBadGateway
	case errors.Is(err, ErrTransientNetwork), errors.Is(err, ErrUnavailable), errors.Is(err, ErrTimeout):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}

}
