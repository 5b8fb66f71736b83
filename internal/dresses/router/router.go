// Package router wires the dress search routes and middleware chain.
package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/Adithya-Monish-Kumar-K/best-dressed/internal/analytics"
	"github.com/Adithya-Monish-Kumar-K/best-dressed/internal/dresses/handler"
	"github.com/Adithya-Monish-Kumar-K/best-dressed/pkg/health"
	"github.com/Adithya-Monish-Kumar-K/best-dressed/pkg/metrics"
	"github.com/Adithya-Monish-Kumar-K/best-dressed/pkg/middleware"
	"github.com/Adithya-Monish-Kumar-K/best-dressed/pkg/ratelimit"
)

// Deps holds everything the router mounts. Analytics, Health, Metrics and
// Limiter are optional.
type Deps struct {
	Dresses        *handler.Handler
	Analytics      *analytics.Handler
	Health         *health.Checker
	Metrics        *metrics.Metrics
	Limiter        *ratelimit.Limiter
	AllowedOrigins []string
	RequestTimeout time.Duration
}

// New builds the HTTP handler.
//
// Route table:
//
//	GET    /                          welcome message
//	GET    /dresses                   filtered catalog, query-string filters
//	POST   /api/dresses               priority-ranked catalog page
//	GET    /api/analytics             aggregated ranking analytics
//	GET    /api/analytics/snapshots   persisted analytics snapshots
//	GET    /api/cache/stats           catalog cache statistics
//	POST   /api/cache/invalidate      drop cached catalog results
//	GET    /health/live, /health/ready
//	GET    /metrics
//
// Middleware chain (outermost first):
//
//	Recoverer → RequestID → Logging → Metrics → CORS → RateLimit → Timeout → handler
func New(d Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logging)
	if d.Metrics != nil {
		r.Use(middleware.Metrics(d.Metrics))
	}
	r.Use(middleware.CORS(middleware.DefaultCORSConfig(d.AllowedOrigins)))
	if d.Limiter != nil {
		r.Use(middleware.RateLimit(d.Limiter))
	}

	if d.Health != nil {
		r.Get("/health/live", d.Health.LiveHandler())
		r.Get("/health/ready", d.Health.ReadyHandler())
	}
	if d.Metrics != nil {
		r.Handle("/metrics", metrics.Handler())
	}

	r.Group(func(r chi.Router) {
		r.Use(middleware.Timeout(d.RequestTimeout))

		r.Get("/", d.Dresses.Home)
		r.Get("/dresses", d.Dresses.List)
		r.Post("/api/dresses", d.Dresses.Search)

		r.Get("/api/cache/stats", d.Dresses.CacheStats)
		r.Post("/api/cache/invalidate", d.Dresses.CacheInvalidate)

		if d.Analytics != nil {
			r.Get("/api/analytics", d.Analytics.Stats)
			r.Get("/api/analytics/snapshots", d.Analytics.Snapshots)
		}
	})

	return r
}
