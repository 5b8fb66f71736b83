// Package handler exposes the dress search service over HTTP.
package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/Adithya-Monish-Kumar-K/best-dressed/internal/catalog"
	"github.com/Adithya-Monish-Kumar-K/best-dressed/internal/catalog/cache"
	"github.com/Adithya-Monish-Kumar-K/best-dressed/internal/dresses/service"
	apperrors "github.com/Adithya-Monish-Kumar-K/best-dressed/pkg/errors"
	"github.com/Adithya-Monish-Kumar-K/best-dressed/pkg/logger"
	"github.com/Adithya-Monish-Kumar-K/best-dressed/pkg/middleware"
	"github.com/Adithya-Monish-Kumar-K/best-dressed/pkg/validator"
)

type Searcher interface {
	Search(ctx context.Context, sessionID string, req service.SearchRequest) (*service.SearchResponse, error)
	List(ctx context.Context, q catalog.Query) ([]catalog.Dress, error)
}

// CacheAdmin is implemented by cache.QueryCache.
type CacheAdmin interface {
	Stats(ctx context.Context) cache.Stats
	Invalidate(ctx context.Context) (int64, error)
}

type Handler struct {
	searcher Searcher
	cache    CacheAdmin
	logger   *slog.Logger
}

// New creates a Handler. queryCache may be nil when caching is disabled.
func New(searcher Searcher, queryCache CacheAdmin) *Handler {
	return &Handler{
		searcher: searcher,
		cache:    queryCache,
		logger:   slog.Default().With("component", "dress-handler"),
	}
}

func (h *Handler) Home(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{"message": "Welcome to Best Dressed!"})
}

// Search serves POST /api/dresses.
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	sessionID := strings.TrimSpace(r.Header.Get(middleware.SessionHeader))
	ctx := logger.WithSessionID(r.Context(), sessionID)

	var req service.SearchRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		h.writeError(ctx, w, err)
		return
	}
	resp, err := h.searcher.Search(ctx, sessionID, req)
	if err != nil {
		h.writeError(ctx, w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, resp)
}

// List serves GET /dresses with query-string filters: color,
// has_pockets, corset_back, priceMin and priceMax. A flag is true only when
// its value is "true"; unparseable prices are ignored.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	params := r.URL.Query()
	var q catalog.Query
	if color := params.Get("color"); color != "" {
		q.Color = []string{color}
	}
	q.HasPockets = legacyFlag(params, "has_pockets")
	q.CorsetBack = legacyFlag(params, "corset_back")
	q.PriceMin = legacyInt(params.Get("priceMin"))
	q.PriceMax = legacyInt(params.Get("priceMax"))

	dresses, err := h.searcher.List(r.Context(), q)
	if err != nil {
		h.writeError(r.Context(), w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, dresses)
}

func legacyFlag(params map[string][]string, key string) catalog.Flag {
	values, ok := params[key]
	if !ok || len(values) == 0 {
		return catalog.FlagAny
	}
	if strings.EqualFold(values[0], "true") {
		return catalog.FlagTrue
	}
	return catalog.FlagFalse
}

func legacyInt(raw string) *int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return nil
	}
	return &n
}

func (h *Handler) CacheStats(w http.ResponseWriter, r *http.Request) {
	if h.cache == nil {
		h.writeJSON(w, http.StatusOK, map[string]string{"status": "disabled"})
		return
	}
	h.writeJSON(w, http.StatusOK, h.cache.Stats(r.Context()))
}

func (h *Handler) CacheInvalidate(w http.ResponseWriter, r *http.Request) {
	if h.cache == nil {
		h.writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "caching is disabled"})
		return
	}
	deleted, err := h.cache.Invalidate(r.Context())
	if err != nil {
		h.logger.Error("cache invalidation failed", "error", err)
		h.writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "cache invalidation failed"})
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]any{"status": "invalidated", "keys_deleted": deleted})
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("failed to write response", "error", err)
	}
}

type errorBody struct {
	Error     string            `json:"error"`
	Retryable bool              `json:"retryable,omitempty"`
	Fields    map[string]string `json:"fields,omitempty"`
}

// writeError maps err to a status and JSON body. Superseded requests get an
// empty 204: the shopper already has a newer request in flight.
func (h *Handler) writeError(ctx context.Context, w http.ResponseWriter, err error) {
	log := logger.FromContext(ctx)
	status := apperrors.HTTPStatusCode(err)
	if status == http.StatusNoContent {
		log.Debug("request superseded", "error", err)
		w.WriteHeader(http.StatusNoContent)
		return
	}

	body := errorBody{Retryable: apperrors.IsRetryable(err)}
	var appErr *apperrors.AppError
	var vErr *validator.ValidationError
	switch {
	case errors.As(err, &vErr):
		body.Error = "invalid request"
		body.Fields = vErr.Fields()
	case errors.As(err, &appErr):
		body.Error = appErr.Message
	case status == http.StatusBadRequest:
		body.Error = err.Error()
	case status >= 500 && body.Retryable:
		body.Error = "the catalog is temporarily unavailable, please try again"
	case status == http.StatusBadGateway:
		body.Error = "the catalog rejected the request"
	default:
		body.Error = "internal error"
	}
	if status >= 500 {
		log.Error("request failed", "status", status, "error", err)
	} else {
		log.Warn("request rejected", "status", status, "error", err)
	}
	h.writeJSON(w, status, body)
}
