package service

import (
	"github.com/Adithya-Monish-Kumar-K/best-dressed/internal/catalog"
	"github.com/Adithya-Monish-Kumar-K/best-dressed/internal/ranking"
)

// SearchRequest is the body of POST /api/dresses.
type SearchRequest struct {
	Filters  catalog.Query           `json:"filters"`
	Priority ranking.PriorityPayload `json:"priority"`
	Page     catalog.Page            `json:"page"`
	Debug    bool                    `json:"debug"`
}

// Item is one ranked dress as shown in the grid. RankVector uses -1 for
// categories the dress does not match.
type Item struct {
	catalog.Dress
	Score               string                 `json:"score"`
	ScoreDisplay        int                    `json:"score_display"`
	RankVector          []int                  `json:"rank_vector"`
	TotalMatches        int                    `json:"total_matches"`
	HighPriorityMatches int                    `json:"high_priority_matches"`
	Badge               ranking.Badge          `json:"badge"`
	Insight             string                 `json:"insight,omitempty"`
	IsTop               bool                   `json:"is_top"`
	Debug               []ranking.Contribution `json:"_debug,omitempty"`
}

// DebugInfo is returned when the request sets debug.
type DebugInfo struct {
	Categories []string           `json:"categories"`
	Weights    map[string]float64 `json:"weights"`
	Base       int                `json:"base"`
	TimingsMs  map[string]float64 `json:"timings_ms"`
}

// SearchResponse is one page of the ranked catalog. TopScore is the best
// score across the whole filtered catalog, not just this page.
type SearchResponse struct {
	Items      []Item           `json:"items"`
	TotalCount int              `json:"total_count"`
	TopScore   string           `json:"top_score"`
	Ranked     bool             `json:"ranked"`
	TopLabel   int              `json:"top_label"`
	PageInfo   catalog.PageInfo `json:"pageInfo"`
	Debug      *DebugInfo       `json:"debug,omitempty"`
}
