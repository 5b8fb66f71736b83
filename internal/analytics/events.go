// Package analytics records what shoppers prioritise. The search service
// emits one RankEvent per request; the aggregator folds them into
// popularity and latency statistics served by GET /api/analytics.
package analytics

import (
	"time"

	"github.com/google/uuid"
)

type Outcome string

const (
	OutcomeRanked     Outcome = "ranked"
	OutcomeUnranked   Outcome = "unranked"
	OutcomeSuperseded Outcome = "superseded"
	OutcomeFailed     Outcome = "failed"
)

// EventRank is the Kafka event-type header of a RankEvent.
const EventRank = "rank"

// RankEvent describes one priority search. Categories lists the ranked
// categories highest first and Selections the "category:value" tokens in
// priority order.
type RankEvent struct {
	ID         string    `json:"id"`
	RequestID  string    `json:"request_id,omitempty"`
	SessionID  string    `json:"session_id,omitempty"`
	Outcome    Outcome   `json:"outcome"`
	Categories []string  `json:"categories,omitempty"`
	Selections []string  `json:"selections,omitempty"`
	Candidates int       `json:"candidates"`
	Returned   int       `json:"returned"`
	TopMatches int       `json:"top_matches"`
	LatencyMs  int64     `json:"latency_ms"`
	CatalogMs  int64     `json:"catalog_ms"`
	Error      string    `json:"error,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
}

// NewRankEvent stamps an event with a fresh ID and the current time.
func NewRankEvent(outcome Outcome) RankEvent {
	return RankEvent{
		ID:        uuid.NewString(),
		Outcome:   outcome,
		Timestamp: time.Now().UTC(),
	}
}

// Tracker accepts ranking events. Implementations must not block.
type Tracker interface {
	Track(event RankEvent)
}

// TrackerFunc adapts a function to Tracker.
type TrackerFunc func(event RankEvent)

func (f TrackerFunc) Track(event RankEvent) { f(event) }

// Tee fans each event out to every non-nil tracker.
func Tee(trackers ...Tracker) Tracker {
	return TrackerFunc(func(event RankEvent) {
		for _, t := range trackers {
			if t != nil {
				t.Track(event)
			}
		}
	})
}
