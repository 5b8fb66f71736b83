package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/Adithya-Monish-Kumar-K/best-dressed/pkg/logger"
)

// Logging logs one line per request with its status and duration. Health
// probes and scrapes are logged at debug level.
func Logging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(sw, r)

		log := logger.FromContext(r.Context())
		attrs := []any{
			"method", r.Method,
			"path", r.URL.Path,
			"status", sw.status,
			"duration_ms", time.Since(start).Milliseconds(),
		}
		switch {
		case r.URL.Path == "/metrics" || strings.HasPrefix(r.URL.Path, "/health"):
			log.Debug("request", attrs...)
		case sw.status >= http.StatusInternalServerError:
			log.Error("request", attrs...)
		default:
			log.Info("request", attrs...)
		}
	})
}
