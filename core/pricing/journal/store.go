package journal

import (
	"context"
	"time"

	"github.com/kilianp07/rentalfriction/core/pricing"
)

// Record captures one pricing lookup.
type Record struct {
	ID        string           `json:"id"`
	Timestamp time.Time        `json:"timestamp"`
	Predictor string           `json:"predictor"`
	Features  pricing.Features `json:"features"`
	Price     float64          `json:"price"`
	Error     string           `json:"error,omitempty"`
	LatencyMS float64          `json:"latency_ms"`
}

// Query defines filters for retrieving records.
type Query struct {
	Start    time.Time
	End      time.Time
	ModelKey string
	Limit    int
}

// Store persists Records and supports querying.
type Store interface {
	Append(ctx context.Context, rec Record) error
	Query(ctx context.Context, q Query) ([]Record, error)
	Close() error
}

// match applies the time and model filters shared by all backends.
func (q Query) match(r Record) bool {
	if !q.Start.IsZero() && r.Timestamp.Before(q.Start) {
		return false
	}
	if !q.End.IsZero() && r.Timestamp.After(q.End) {
		return false
	}
	if q.ModelKey != "" && r.Features.ModelKey != q.ModelKey {
		return false
	}
	return true
}

// truncate keeps the most recent Limit records of a chronological slice.
func (q Query) truncate(recs []Record) []Record {
	if q.Limit > 0 && len(recs) > q.Limit {
		return recs[len(recs)-q.Limit:]
	}
	return recs
}
