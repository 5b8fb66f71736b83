// Package remote is a catalog Source backed by an upstream catalog HTTP API.
// Each page request is retried with backoff on transient failures and guarded
// by a circuit breaker; pages after the first are fetched concurrently.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/sony/gobreaker/v2"
	"golang.org/x/sync/errgroup"

	"github.com/Adithya-Monish-Kumar-K/best-dressed/internal/catalog"
	"github.com/Adithya-Monish-Kumar-K/best-dressed/pkg/config"
	apperrors "github.com/Adithya-Monish-Kumar-K/best-dressed/pkg/errors"
	"github.com/Adithya-Monish-Kumar-K/best-dressed/pkg/metrics"
	"github.com/Adithya-Monish-Kumar-K/best-dressed/pkg/resilience"
)

// RetryableStatus lists upstream statuses worth retrying.
var RetryableStatus = []int{
	http.StatusInternalServerError,
	http.StatusBadGateway,
	http.StatusServiceUnavailable,
	http.StatusGatewayTimeout,
	522,
	524,
	http.StatusTooManyRequests,
}

type pageRequest struct {
	Filters catalog.Query `json:"filters"`
	Page    catalog.Page  `json:"page"`
}

type pageResponse struct {
	Items      []catalog.Dress  `json:"items"`
	TotalCount int              `json:"total_count"`
	PageInfo   catalog.PageInfo `json:"pageInfo"`
}

// Options configures a Client. Zero values fall back to defaults.
type Options struct {
	BaseURL     string
	Timeout     time.Duration
	PageSize    int
	MaxPages    int
	Concurrency int
	Retry       resilience.RetryConfig
	Breaker     config.BreakerConfig
	HTTPClient  *http.Client
	Metrics     *metrics.Metrics
}

// OptionsFromConfig builds Options from the catalog configuration.
func OptionsFromConfig(c config.CatalogConfig) Options {
	return Options{
		BaseURL:     c.Remote.BaseURL,
		Timeout:     c.Remote.Timeout,
		PageSize:    c.Remote.PageSize,
		MaxPages:    c.Remote.MaxPages,
		Concurrency: c.Remote.Concurrency,
		Retry: resilience.RetryConfig{
			MaxAttempts:  c.Retry.MaxAttempts,
			InitialDelay: c.Retry.InitialDelay,
			MaxDelay:     c.Retry.MaxDelay,
			Multiplier:   c.Retry.Multiplier,
			JitterMin:    c.Retry.JitterMin,
			JitterMax:    c.Retry.JitterMax,
		},
		Breaker:     c.Breaker,
	}
}

// Client fetches the filtered catalog from the upstream API.
type Client struct {
	opts    Options
	http    *http.Client
	breaker *gobreaker.CircuitBreaker[*pageResponse]
	metrics *metrics.Metrics
	logger  *slog.Logger
}

// New creates a Client.
func New(opts Options) *Client {
	if opts.PageSize <= 0 {
		opts.PageSize = 100
	}
	if opts.MaxPages <= 0 {
		opts.MaxPages = 50
	}
	if opts.Concurrency <= 0 {
		opts.Concurrency = 4
	}
	if opts.Breaker.FailureThreshold == 0 {
		opts.Breaker.FailureThreshold = 5
	}
	if opts.Breaker.ResetTimeout <= 0 {
		opts.Breaker.ResetTimeout = 30 * time.Second
	}
	opts.BaseURL = strings.TrimRight(opts.BaseURL, "/")
	hc := opts.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: opts.Timeout}
	}
	logger := slog.Default().With("component", "remote-catalog", "base_url", opts.BaseURL)

	c := &Client{
		opts:    opts,
		http:    hc,
		metrics: opts.Metrics,
		logger:  logger,
	}
	c.breaker = gobreaker.NewCircuitBreaker[*pageResponse](gobreaker.Settings{
		Name:        "remote-catalog",
		MaxRequests: opts.Breaker.HalfOpenMaxRequests,
		Timeout:     opts.Breaker.ResetTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= opts.Breaker.FailureThreshold
		},
		IsSuccessful: func(err error) bool {
			// only upstream outages count against the breaker
			return err == nil || !errors.Is(err, apperrors.ErrTransientNetwork)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state change", "breaker", name, "from", from.String(), "to", to.String())
			if c.metrics != nil {
				c.metrics.CircuitBreakerState.WithLabelValues(name).Set(stateToFloat(to))
			}
		},
	})
	return c
}

func stateToFloat(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}

// State returns the circuit breaker state.
func (c *Client) State() gobreaker.State {
	return c.breaker.State()
}

// Query fetches every page of the filtered catalog. The first page reports
// the total; the remaining pages are requested concurrently and reassembled
// in order.
func (c *Client) Query(ctx context.Context, q catalog.Query) ([]catalog.Dress, error) {
	first, err := c.fetchPage(ctx, q, catalog.Page{Limit: c.opts.PageSize, Offset: 0})
	if err != nil {
		return nil, err
	}
	total := max(first.TotalCount, first.PageInfo.Total, len(first.Items))
	pages := min((total+c.opts.PageSize-1)/c.opts.PageSize, c.opts.MaxPages)
	if pages <= 1 || !first.PageInfo.HasNextPage && first.TotalCount <= len(first.Items) {
		return first.Items, nil
	}
	if pages*c.opts.PageSize < total {
		c.logger.Warn("catalog truncated at page limit", "total", total, "max_pages", c.opts.MaxPages)
	}

	results := make([][]catalog.Dress, pages)
	results[0] = first.Items
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.opts.Concurrency)
	for i := 1; i < pages; i++ {
		page := catalog.Page{Limit: c.opts.PageSize, Offset: i * c.opts.PageSize}
		g.Go(func() error {
			resp, err := c.fetchPage(gctx, q, page)
			if err != nil {
				return err
			}
			results[i] = resp.Items
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return slices.Concat(results...), nil
}

// fetchPage requests one page with retries. Every attempt passes through
// the circuit breaker; an open breaker ends the retries with ErrUnavailable.
func (c *Client) fetchPage(ctx context.Context, q catalog.Query, page catalog.Page) (*pageResponse, error) {
	retry := c.opts.Retry
	retry.OnRetry = func(attempt int, err error, delay time.Duration) {
		if c.metrics != nil {
			c.metrics.CatalogRetriesTotal.Inc()
		}
	}
	var resp *pageResponse
	err := resilience.Retry(ctx, "catalog-page", retry, func(ctx context.Context) error {
		r, err := c.breaker.Execute(func() (*pageResponse, error) {
			return c.do(ctx, q, page)
		})
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return fmt.Errorf("%w: %v", apperrors.ErrUnavailable, err)
		}
		if err != nil {
			return err
		}
		resp = r
		return nil
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

func (c *Client) do(ctx context.Context, q catalog.Query, page catalog.Page) (*pageResponse, error) {
	body, err := json.Marshal(pageRequest{Filters: q, Page: page})
	if err != nil {
		return nil, fmt.Errorf("%w: encoding request: %v", apperrors.ErrPermanentRequest, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.opts.BaseURL+"/api/dresses", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: building request: %v", apperrors.ErrPermanentRequest, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	res, err := c.http.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("%w: %v", apperrors.ErrTransientNetwork, err)
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(res.Body, 512))
		if slices.Contains(RetryableStatus, res.StatusCode) {
			return nil, fmt.Errorf("%w: upstream status %d", apperrors.ErrTransientNetwork, res.StatusCode)
		}
		return nil, fmt.Errorf("%w: upstream status %d: %s", apperrors.ErrPermanentRequest, res.StatusCode, strings.TrimSpace(string(snippet)))
	}

	var out pageResponse
	if err := json.NewDecoder(res.Body).Decode(&out); err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("%w: decoding response: %v", apperrors.ErrPermanentRequest, err)
	}
	return &out, nil
}

// Ping checks that the upstream answers a one-item page.
func (c *Client) Ping(ctx context.Context) error {
	_, err := c.do(ctx, catalog.Query{}, catalog.Page{Limit: 1})
	return err
}
