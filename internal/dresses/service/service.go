// Package service runs a priority search: fetch the filtered catalog, rank
// it against the shopper's priorities, then page and decorate the result.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"math/big"
	"net/http"
	"slices"
	"time"

	"github.com/Adithya-Monish-Kumar-K/best-dressed/internal/analytics"
	"github.com/Adithya-Monish-Kumar-K/best-dressed/internal/catalog"
	"github.com/Adithya-Monish-Kumar-K/best-dressed/internal/catalog/latest"
	"github.com/Adithya-Monish-Kumar-K/best-dressed/internal/ranking"
	apperrors "github.com/Adithya-Monish-Kumar-K/best-dressed/pkg/errors"
	"github.com/Adithya-Monish-Kumar-K/best-dressed/pkg/logger"
	"github.com/Adithya-Monish-Kumar-K/best-dressed/pkg/metrics"
	"github.com/Adithya-Monish-Kumar-K/best-dressed/pkg/middleware"
	"github.com/Adithya-Monish-Kumar-K/best-dressed/pkg/resilience"
	"github.com/Adithya-Monish-Kumar-K/best-dressed/pkg/tracing"
)

// Options wires a Service. Only Source is required.
type Options struct {
	Source       catalog.Source
	SourceName   string
	Coordinator  *latest.Coordinator
	Tracker      analytics.Tracker
	Metrics      *metrics.Metrics
	Tracer       *tracing.Tracer
	Index        ranking.IndexConfig
	PageSize     int
	MaxPageSize  int
	FetchTimeout time.Duration
}

type Service struct {
	opts   Options
	logger *slog.Logger
}

func New(opts Options) *Service {
	if opts.Coordinator == nil {
		opts.Coordinator = latest.New()
	}
	if opts.PageSize <= 0 {
		opts.PageSize = catalog.DefaultPageSize
	}
	if opts.MaxPageSize <= 0 {
		opts.MaxPageSize = 500
	}
	if opts.SourceName == "" {
		opts.SourceName = "catalog"
	}
	return &Service{
		opts:   opts,
		logger: slog.Default().With("component", "dress-search"),
	}
}

// Search ranks the filtered catalog for one request. sessionID groups
// requests from the same shopper: a newer search for the session makes an
// older one still fetching return ErrSuperseded.
func (s *Service) Search(ctx context.Context, sessionID string, req SearchRequest) (*SearchResponse, error) {
	start := time.Now()
	log := logger.FromContext(ctx)
	event := analytics.NewRankEvent(analytics.OutcomeRanked)
	event.SessionID = sessionID

	if f := req.Filters; f.PriceMin != nil && f.PriceMax != nil && *f.PriceMin > *f.PriceMax {
		return nil, apperrors.Newf(apperrors.ErrInvalidInput, http.StatusBadRequest,
			"priceMin (%d) must not exceed priceMax (%d)", *f.PriceMin, *f.PriceMax)
	}

	ctx, root := tracing.StartSpan(ctx, "dresses.search", event.ID)
	defer s.opts.Tracer.Finish(root)

	fetchStart := time.Now()
	dresses, err := s.fetch(ctx, sessionID, req.Filters)
	event.CatalogMs = time.Since(fetchStart).Milliseconds()
	s.observePhase("fetch", fetchStart)
	if err != nil {
		return nil, s.fail(ctx, event, start, err)
	}

	_, rankSpan := tracing.StartChildSpan(ctx, "rank")
	rankStart := time.Now()
	idx := req.Priority.Index(s.opts.Index)
	ranked := ranking.RankAll(dresses, idx)
	rankSpan.SetAttr("items", len(ranked))
	rankSpan.SetAttr("selected", idx.TotalSelected())
	rankSpan.End()
	s.observePhase("rank", rankStart)

	_, sortSpan := tracing.StartChildSpan(ctx, "sort")
	sortStart := time.Now()
	ranking.Sort(ranked)
	sortSpan.End()
	s.observePhase("sort", sortStart)

	top := ranking.TopScore(ranked)
	begin, end, info := catalog.Window(req.Page, len(ranked), s.opts.PageSize, s.opts.MaxPageSize)
	items := make([]Item, 0, end-begin)
	for i := begin; i < end; i++ {
		items = append(items, s.item(ranked[i], idx, top, i == 0, req.Debug))
	}

	resp := &SearchResponse{
		Items:      items,
		TotalCount: len(ranked),
		TopScore:   top.String(),
		Ranked:     top.Sign() > 0,
		TopLabel:   idx.TopLabelSize(),
		PageInfo:   info,
	}
	root.End()
	if req.Debug {
		resp.Debug = &DebugInfo{
			Categories: idx.Order(),
			Weights:    idx.Weights(),
			Base:       idx.Base(),
			TimingsMs:  root.Timings(),
		}
	}

	if !resp.Ranked {
		event.Outcome = analytics.OutcomeUnranked
	}
	event.Categories = idx.Categories()
	event.Selections = selections(idx)
	event.Candidates = len(ranked)
	event.Returned = len(items)
	if len(ranked) > 0 {
		event.TopMatches = ranked[0].TotalMatches
	}
	event.LatencyMs = time.Since(start).Milliseconds()
	s.track(ctx, event)

	if m := s.opts.Metrics; m != nil {
		m.RankingRequestsTotal.WithLabelValues(string(event.Outcome)).Inc()
		m.RankedItemsCount.Observe(float64(len(ranked)))
		m.SelectedValuesCount.Observe(float64(idx.TotalSelected()))
	}
	log.Info("priority search completed",
		"candidates", len(ranked),
		"returned", len(items),
		"selected", idx.TotalSelected(),
		"ranked", resp.Ranked,
		"latency_ms", event.LatencyMs,
	)
	return resp, nil
}

// List returns the filtered catalog in ID order without ranking.
func (s *Service) List(ctx context.Context, q catalog.Query) ([]catalog.Dress, error) {
	if q.PriceMin != nil && q.PriceMax != nil && *q.PriceMin > *q.PriceMax {
		return []catalog.Dress{}, nil
	}
	var dresses []catalog.Dress
	err := resilience.WithTimeout(ctx, s.opts.FetchTimeout, "catalog list", func(ctx context.Context) error {
		var err error
		dresses, err = s.opts.Source.Query(ctx, q)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("listing dresses: %w", err)
	}
	dresses = slices.Clone(dresses)
	slices.SortFunc(dresses, func(a, b catalog.Dress) int { return a.ID - b.ID })
	return dresses, nil
}

func (s *Service) fetch(ctx context.Context, sessionID string, q catalog.Query) ([]catalog.Dress, error) {
	ctx, span := tracing.StartChildSpan(ctx, "fetch")
	defer span.End()
	span.SetAttr("source", s.opts.SourceName)

	var dresses []catalog.Dress
	err := s.opts.Coordinator.Do(ctx, sessionID, func(ctx context.Context) error {
		return resilience.WithTimeout(ctx, s.opts.FetchTimeout, "catalog fetch", func(ctx context.Context) error {
			var err error
			dresses, err = s.opts.Source.Query(ctx, q)
			return err
		})
	})
	s.observeFetch(err)
	if err != nil {
		span.SetAttr("error", err.Error())
		return nil, err
	}
	span.SetAttr("items", len(dresses))
	return dresses, nil
}

func (s *Service) observeFetch(err error) {
	m := s.opts.Metrics
	if m == nil {
		return
	}
	status := "ok"
	switch {
	case err == nil:
	case apperrors.IsCancelled(err):
		status = "cancelled"
	case apperrors.IsRetryable(err):
		status = "transient"
	default:
		status = "permanent"
	}
	m.CatalogFetchesTotal.WithLabelValues(s.opts.SourceName, status).Inc()
}

func (s *Service) fail(ctx context.Context, event analytics.RankEvent, start time.Time, err error) error {
	log := logger.FromContext(ctx)
	event.LatencyMs = time.Since(start).Milliseconds()
	if apperrors.IsCancelled(err) {
		// the shopper has already moved on; nothing to report
		log.Debug("priority search superseded", "error", err)
		event.Outcome = analytics.OutcomeSuperseded
		s.track(ctx, event)
		if m := s.opts.Metrics; m != nil {
			m.SupersededTotal.Inc()
			m.RankingRequestsTotal.WithLabelValues(string(analytics.OutcomeSuperseded)).Inc()
		}
		return fmt.Errorf("fetching catalog: %w", apperrors.ErrSuperseded)
	}

	log.Error("catalog fetch failed", "source", s.opts.SourceName, "error", err)
	event.Outcome = analytics.OutcomeFailed
	event.Error = err.Error()
	s.track(ctx, event)
	if m := s.opts.Metrics; m != nil {
		m.RankingRequestsTotal.WithLabelValues(string(analytics.OutcomeFailed)).Inc()
	}
	return fmt.Errorf("fetching catalog: %w", err)
}

func (s *Service) track(ctx context.Context, event analytics.RankEvent) {
	if s.opts.Tracker == nil {
		return
	}
	event.RequestID = middleware.GetRequestID(ctx)
	s.opts.Tracker.Track(event)
}

func (s *Service) observePhase(phase string, start time.Time) {
	m := s.opts.Metrics
	if m == nil {
		return
	}
	m.RankingLatency.WithLabelValues(phase).Observe(time.Since(start).Seconds())
	if phase == "fetch" {
		m.CatalogFetchLatency.WithLabelValues(s.opts.SourceName).Observe(time.Since(start).Seconds())
	}
}

func (s *Service) item(r ranking.Ranked, idx *ranking.PriorityIndex, top *big.Int, first, debug bool) Item {
	badge := ranking.Describe(r.Dominance, top, first)
	vector := make([]int, len(r.Vector))
	for i, v := range r.Vector {
		if v == ranking.NoMatch {
			v = -1
		}
		vector[i] = v
	}
	it := Item{
		Dress:               r.Dress,
		Score:               r.Dominance.String(),
		ScoreDisplay:        badge.Percent,
		RankVector:          vector,
		TotalMatches:        r.TotalMatches,
		HighPriorityMatches: r.HighPriorityMatches,
		Badge:               badge,
		Insight:             ranking.Insight(r.Result, idx),
		IsTop:               badge.Tier == ranking.TierTop,
	}
	if debug {
		it.Debug = ranking.Breakdown(r.Result, idx)
	}
	return it
}

func selections(idx *ranking.PriorityIndex) []string {
	var out []string
	for _, category := range idx.Categories() {
		for _, value := range idx.Values(category) {
			out = append(out, category+":"+value)
		}
	}
	return out
}
