package metrics

import (
	"time"

	"github.com/kilianp07/rentalfriction/core/events"
)

// QueryEvent describes one analysis query served to a caller.
type QueryEvent struct {
	// Operation is "overview" or "simulation".
	Operation string
	Scope     string
	Duration  time.Duration
	Failed    bool
}

// DatasetLoadEvent describes one dataset load attempt.
type DatasetLoadEvent struct {
	Source   string
	Rows     int
	Duration time.Duration
	Failed   bool
}

// MetricsSink records analysis activity for observability purposes.
type MetricsSink interface {
	RecordQuery(ev QueryEvent) error
	RecordDatasetLoad(ev DatasetLoadEvent) error
}

// PredictionRecorder records pricing lookups.
type PredictionRecorder interface {
	RecordPrediction(ev events.PredictionEvent) error
}

// NopSink implements MetricsSink with no-op methods.
type NopSink struct{}

var _ PredictionRecorder = NopSink{}

func (NopSink) RecordQuery(QueryEvent) error                  { return nil }
func (NopSink) RecordDatasetLoad(DatasetLoadEvent) error      { return nil }
func (NopSink) RecordPrediction(events.PredictionEvent) error { return nil }
