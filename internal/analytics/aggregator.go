package analytics

import (
	"cmp"
	"context"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Adithya-Monish-Kumar-K/best-dressed/internal/catalog"
	"github.com/Adithya-Monish-Kumar-K/best-dressed/pkg/kafka"
)

const (
	maxLatencySamples = 10000
	// maxTrackedKeys bounds each count map; keys first seen past the limit
	// are not counted.
	maxTrackedKeys = 1000
)

type AggregatedStats struct {
	TotalRequests      int64   `json:"total_requests"`
	RankedRequests     int64   `json:"ranked_requests"`
	UnrankedRequests   int64   `json:"unranked_requests"`
	SupersededRequests int64   `json:"superseded_requests"`
	FailedRequests     int64   `json:"failed_requests"`
	ZeroResultCount    int64   `json:"zero_result_count"`
	AvgLatencyMs       float64 `json:"avg_latency_ms"`
	P50LatencyMs       int64   `json:"p50_latency_ms"`
	P95LatencyMs       int64   `json:"p95_latency_ms"`
	P99LatencyMs       int64   `json:"p99_latency_ms"`
	AvgCatalogMs       float64 `json:"avg_catalog_ms"`
	// TopCategories counts how often a category was ranked first.
	TopCategories     []Count `json:"top_categories"`
	SelectedValues    []Count `json:"selected_values"`
	RequestsPerMinute float64 `json:"requests_per_minute"`
}

type Count struct {
	Key   string `json:"key"`
	Count int64  `json:"count"`
}

type Aggregator struct {
	mu          sync.RWMutex
	total       atomic.Int64
	ranked      atomic.Int64
	unranked    atomic.Int64
	superseded  atomic.Int64
	failed      atomic.Int64
	zeroResults atomic.Int64
	latencies   []int64
	next        int
	catalogSum  int64
	catalogN    int64
	firstCounts map[string]int64
	valueCounts map[string]int64
	startTime   time.Time

	logger *slog.Logger
}

func NewAggregator() *Aggregator {
	return &Aggregator{
		latencies:   make([]int64, 0, 1024),
		firstCounts: make(map[string]int64),
		valueCounts: make(map[string]int64),
		startTime:   time.Now(),
		logger:      slog.Default().With("component", "analytics-aggregator"),
	}
}

// Track records event. It makes the aggregator usable as an in-process
// Tracker when Kafka is disabled.
func (a *Aggregator) Track(event RankEvent) {
	a.Record(event)
}

// Handler returns a Kafka handler feeding consumed events into a.
func (a *Aggregator) Handler() kafka.MessageHandler {
	return kafka.JSONHandler(func(ctx context.Context, key string, event RankEvent) error {
		a.Record(event)
		return nil
	})
}

func (a *Aggregator) Record(event RankEvent) {
	a.total.Add(1)
	switch event.Outcome {
	case OutcomeSuperseded:
		// superseded requests never produced results worth counting
		a.superseded.Add(1)
		return
	case OutcomeFailed:
		a.failed.Add(1)
		return
	case OutcomeUnranked:
		a.unranked.Add(1)
	default:
		a.ranked.Add(1)
	}
	if event.Candidates == 0 {
		a.zeroResults.Add(1)
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	if len(a.latencies) < maxLatencySamples {
		a.latencies = append(a.latencies, event.LatencyMs)
	} else {
		a.latencies[a.next] = event.LatencyMs
		a.next = (a.next + 1) % maxLatencySamples
	}
	a.catalogSum += event.CatalogMs
	a.catalogN++
	if len(event.Categories) > 0 && isFacet(event.Categories[0]) {
		bump(a.firstCounts, event.Categories[0])
	}
	for _, token := range event.Selections {
		category, _, ok := strings.Cut(token, ":")
		if ok && isFacet(category) {
			bump(a.valueCounts, token)
		}
	}
}

func isFacet(category string) bool {
	return slices.Contains(catalog.FacetKeys, category)
}

func bump(counts map[string]int64, key string) {
	if _, ok := counts[key]; ok || len(counts) < maxTrackedKeys {
		counts[key]++
	}
}

func (a *Aggregator) Stats() AggregatedStats {
	a.mu.RLock()
	defer a.mu.RUnlock()

	stats := AggregatedStats{
		TotalRequests:      a.total.Load(),
		RankedRequests:     a.ranked.Load(),
		UnrankedRequests:   a.unranked.Load(),
		SupersededRequests: a.superseded.Load(),
		FailedRequests:     a.failed.Load(),
		ZeroResultCount:    a.zeroResults.Load(),
	}
	if len(a.latencies) > 0 {
		sorted := slices.Clone(a.latencies)
		slices.Sort(sorted)

		var sum int64
		for _, l := range sorted {
			sum += l
		}
		stats.AvgLatencyMs = float64(sum) / float64(len(sorted))
		stats.P50LatencyMs = percentile(sorted, 50)
		stats.P95LatencyMs = percentile(sorted, 95)
		stats.P99LatencyMs = percentile(sorted, 99)
	}
	if a.catalogN > 0 {
		stats.AvgCatalogMs = float64(a.catalogSum) / float64(a.catalogN)
	}
	stats.TopCategories = topN(a.firstCounts, 10)
	stats.SelectedValues = topN(a.valueCounts, 20)
	elapsed := time.Since(a.startTime).Minutes()
	if elapsed > 0 {
		stats.RequestsPerMinute = float64(stats.TotalRequests) / elapsed
	}

	return stats
}

func percentile(sorted []int64, pct int) int64 {
	if len(sorted) == 0 {
		return 0
	}
	idx := (pct * len(sorted)) / 100
	if idx >= len(sorted) {
		idx = len(sorted) - 1
	}
	return sorted[idx]
}

func topN(counts map[string]int64, n int) []Count {
	result := make([]Count, 0, len(counts))
	for key, count := range counts {
		result = append(result, Count{Key: key, Count: count})
	}
	slices.SortFunc(result, func(a, b Count) int {
		if c := cmp.Compare(b.Count, a.Count); c != 0 {
			return c
		}
		return cmp.Compare(a.Key, b.Key)
	})
	if len(result) > n {
		result = result[:n]
	}
	return result
}
