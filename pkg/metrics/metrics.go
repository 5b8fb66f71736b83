// Package metrics defines the Prometheus metric collectors used across the
// service and exposes an HTTP handler for scraping.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus collectors for the service.
type Metrics struct {
	HTTPRequestsTotal    *prometheus.CounterVec
	HTTPRequestsInFlight prometheus.Gauge
	HTTPRequestDuration  *prometheus.HistogramVec

	RankingRequestsTotal *prometheus.CounterVec
	RankingLatency       *prometheus.HistogramVec
	RankedItemsCount     prometheus.Histogram
	SelectedValuesCount  prometheus.Histogram
	SupersededTotal      prometheus.Counter

	CatalogFetchesTotal *prometheus.CounterVec
	CatalogRetriesTotal prometheus.Counter
	CatalogFetchLatency *prometheus.HistogramVec
	CacheHitsTotal      prometheus.Counter
	CacheMissesTotal    prometheus.Counter
	CircuitBreakerState *prometheus.GaugeVec

	RankingEventsTotal *prometheus.CounterVec
}

// New creates all collectors and registers them with the default registry.
func New() *Metrics {
	return NewWithRegistry(prometheus.DefaultRegisterer)
}

// NewWithRegistry creates all collectors and registers them with reg.
func NewWithRegistry(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		HTTPRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests by method, route, and status.",
			},
			[]string{"method", "path", "status"},
		),
		HTTPRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request latency in seconds.",
				Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
			},
			[]string{"method", "path"},
		),
		HTTPRequestsInFlight: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "http_requests_in_flight",
				Help: "Number of HTTP requests currently being processed.",
			},
		),
		RankingRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ranking_requests_total",
				Help: "Ranking requests by outcome (ranked, unranked, superseded, error).",
			},
			[]string{"outcome"},
		),
		RankingLatency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "ranking_phase_seconds",
				Help:    "Latency of each search phase (fetch, rank, sort) in seconds.",
				Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
			},
			[]string{"phase"},
		),
		RankedItemsCount: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "ranked_items_count",
				Help:    "Number of catalog items ranked per request.",
				Buckets: []float64{0, 1, 10, 25, 50, 100, 250, 500, 1000, 5000},
			},
		),
		SelectedValuesCount: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "selected_values_count",
				Help:    "Number of selected priority values per request.",
				Buckets: []float64{0, 1, 2, 3, 5, 8, 13, 21},
			},
		),
		SupersededTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "catalog_fetch_superseded_total",
				Help: "Catalog fetches cancelled by a newer request from the same session.",
			},
		),
		CatalogFetchesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "catalog_fetches_total",
				Help: "Catalog fetches by source and status.",
			},
			[]string{"source", "status"},
		),
		CatalogRetriesTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "catalog_fetch_retries_total",
				Help: "Retried catalog fetch attempts.",
			},
		),
		CatalogFetchLatency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "catalog_fetch_duration_seconds",
				Help:    "Catalog fetch latency in seconds.",
				Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
			},
			[]string{"source"},
		),
		CacheHitsTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "cache_hits_total",
				Help: "Total number of catalog cache hits.",
			},
		),
		CacheMissesTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "cache_misses_total",
				Help: "Total number of catalog cache misses.",
			},
		),
		CircuitBreakerState: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "circuit_breaker_state",
				Help: "Circuit breaker state (0=closed, 1=half-open, 2=open).",
			},
			[]string{"name"},
		),
		RankingEventsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ranking_events_total",
				Help: "Ranking analytics events by status (published, dropped, failed).",
			},
			[]string{"status"},
		),
	}

	reg.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.HTTPRequestsInFlight,
		m.RankingRequestsTotal,
		m.RankingLatency,
		m.RankedItemsCount,
		m.SelectedValuesCount,
		m.SupersededTotal,
		m.CatalogFetchesTotal,
		m.CatalogRetriesTotal,
		m.CatalogFetchLatency,
		m.CacheHitsTotal,
		m.CacheMissesTotal,
		m.CircuitBreakerState,
		m.RankingEventsTotal,
	)

	return m
}

// Handler returns the Prometheus scrape HTTP handler.
func Handler() http.Handler {
	return promhttp.Handler()
}

// CacheObserver feeds cache hits and misses into the cache counters.
type CacheObserver struct {
	m *Metrics
}

// NewCacheObserver returns an observer backed by m.
func NewCacheObserver(m *Metrics) CacheObserver {
	return CacheObserver{m: m}
}

func (o CacheObserver) Hit()  { o.m.CacheHitsTotal.Inc() }
func (o CacheObserver) Miss() { o.m.CacheMissesTotal.Inc() }

// EventObserver counts ranking events shipped to Kafka.
type EventObserver struct {
	m *Metrics
}

// NewEventObserver returns an observer backed by m.
func NewEventObserver(m *Metrics) EventObserver {
	return EventObserver{m: m}
}

func (o EventObserver) Published(n int) {
	o.m.RankingEventsTotal.WithLabelValues("published").Add(float64(n))
}

func (o EventObserver) Dropped(n int) {
	o.m.RankingEventsTotal.WithLabelValues("dropped").Add(float64(n))
}
