// Package analysis answers overview and threshold-simulation queries against
// the cached rental dataset. It validates caller input, rebuilds the chained
// pairs for every request and reports each query to the metrics sink.
package analysis

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/kilianp07/rentalfriction/core/dataset"
	"github.com/kilianp07/rentalfriction/core/friction"
	"github.com/kilianp07/rentalfriction/core/logger"
	"github.com/kilianp07/rentalfriction/core/metrics"
	"github.com/kilianp07/rentalfriction/core/model"
)

// ErrInvalidQuery is returned when a caller supplied an unusable scope,
// threshold or sweep range.
var ErrInvalidQuery = errors.New("invalid query")

// Settings holds the defaults applied to simulation requests.
type Settings struct {
	SweepStart       float64
	SweepEnd         float64
	SweepStep        float64
	DefaultThreshold float64
	MaxPoints        int
}

// DefaultSettings sweeps 0 to 300 minutes by 15 and evaluates 60 minutes
// exactly.
func DefaultSettings() Settings {
	return Settings{SweepStart: 0, SweepEnd: 300, SweepStep: 15, DefaultThreshold: 60, MaxPoints: 1000}
}

// Analyzer serves queries for a single dataset source.
type Analyzer struct {
	cache    *dataset.Cache
	source   dataset.Source
	settings Settings
	sink     metrics.MetricsSink
	log      logger.Logger
	now      func() time.Time
}

// New creates an Analyzer. sink and log may be nil.
func New(cache *dataset.Cache, src dataset.Source, s Settings, sink metrics.MetricsSink, log logger.Logger) *Analyzer {
	if sink == nil {
		sink = metrics.NopSink{}
	}
	if s.MaxPoints <= 0 {
		s.MaxPoints = DefaultSettings().MaxPoints
	}
	return &Analyzer{
		cache:    cache,
		source:   src,
		settings: s,
		sink:     sink,
		log:      logger.OrNop(log),
		now:      time.Now,
	}
}

// Source is the dataset the analyzer reads.
func (a *Analyzer) Source() dataset.Source { return a.source }

// OverviewReport is an overview restricted to one scope.
type OverviewReport struct {
	Scope friction.Scope `json:"scope"`
	friction.Overview
}

// Overview summarises the rentals of the given scope.
func (a *Analyzer) Overview(ctx context.Context, scope string) (report OverviewReport, err error) {
	start := a.now()
	defer func() { a.record("overview", report.Scope, start, err) }()

	sc, err := friction.ParseScope(scope)
	if err != nil {
		return OverviewReport{}, fmt.Errorf("%w: %w", ErrInvalidQuery, err)
	}
	report.Scope = sc
	ds, err := a.cache.Get(ctx, a.source)
	if err != nil {
		return report, err
	}
	pairs := friction.BuildChains(ds.Records)
	report.Overview = friction.ComputeOverview(sc.FilterRecords(ds.Records), sc.FilterPairs(pairs))
	return report, nil
}

// SimulationRequest describes a threshold simulation. Nil fields take the
// analyzer defaults.
type SimulationRequest struct {
	Scope     string
	Threshold *float64
	Start     *float64
	End       *float64
	Step      *float64
}

// SimulationReport is the sweep plus the exact evaluation of one threshold.
type SimulationReport struct {
	Scope        friction.Scope          `json:"scope"`
	Threshold    float64                 `json:"threshold"`
	TotalRentals int                     `json:"total_rentals"`
	Sweep        []model.SimulationPoint `json:"sweep"`
	Exact        model.ExactResult       `json:"exact"`
}

// RunSimulation evaluates the minimum-buffer policy over the sweep range and
// at the requested threshold.
func (a *Analyzer) RunSimulation(ctx context.Context, req SimulationRequest) (report SimulationReport, err error) {
	start := a.now()
	defer func() { a.record("simulation", report.Scope, start, err) }()

	sc, err := friction.ParseScope(req.Scope)
	if err != nil {
		return SimulationReport{}, fmt.Errorf("%w: %w", ErrInvalidQuery, err)
	}
	report.Scope = sc
	threshold, thresholds, err := a.resolve(req)
	if err != nil {
		return report, err
	}
	report.Threshold = threshold

	ds, err := a.cache.Get(ctx, a.source)
	if err != nil {
		return report, err
	}
	pairs := sc.FilterPairs(friction.BuildChains(ds.Records))
	total := sc.CountRecords(ds.Records)

	report.TotalRentals = total
	report.Sweep = friction.Sweep(pairs, total, thresholds)
	report.Exact = friction.EvaluateExact(pairs, total, threshold)
	return report, nil
}

func (a *Analyzer) resolve(req SimulationRequest) (float64, []float64, error) {
	s := a.settings
	threshold := valueOr(req.Threshold, s.DefaultThreshold)
	from := valueOr(req.Start, s.SweepStart)
	to := valueOr(req.End, s.SweepEnd)
	step := valueOr(req.Step, s.SweepStep)

	for name, v := range map[string]float64{"threshold": threshold, "start": from, "end": to, "step": step} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return 0, nil, fmt.Errorf("%w: %s must be a finite number", ErrInvalidQuery, name)
		}
	}
	switch {
	case threshold < 0:
		return 0, nil, fmt.Errorf("%w: threshold must be >= 0, got %g", ErrInvalidQuery, threshold)
	case from < 0:
		return 0, nil, fmt.Errorf("%w: start must be >= 0, got %g", ErrInvalidQuery, from)
	case step <= 0:
		return 0, nil, fmt.Errorf("%w: step must be > 0, got %g", ErrInvalidQuery, step)
	case to < from:
		return 0, nil, fmt.Errorf("%w: end %g is before start %g", ErrInvalidQuery, to, from)
	}
	if n := (to-from)/step + 1; n > float64(s.MaxPoints) {
		return 0, nil, fmt.Errorf("%w: sweep has %.0f points, limit is %d", ErrInvalidQuery, math.Floor(n), s.MaxPoints)
	}
	return threshold, friction.Thresholds(from, to, step), nil
}

func valueOr(p *float64, def float64) float64 {
	if p == nil {
		return def
	}
	return *p
}

func (a *Analyzer) record(op string, sc friction.Scope, start time.Time, err error) {
	elapsed := a.now().Sub(start)
	_ = a.sink.RecordQuery(metrics.QueryEvent{
		Operation: op,
		Scope:     string(sc),
		Duration:  elapsed,
		Failed:    err != nil,
	})
	if err != nil {
		a.log.Warnf("%s query failed: %v", op, err)
		return
	}
	a.log.Debugw("query served", map[string]any{"operation": op, "scope": string(sc), "duration_ms": elapsed.Milliseconds()})
}

// Status describes the load state of the analyzer's dataset.
type Status struct {
	Source   string    `json:"source"`
	Loaded   bool      `json:"loaded"`
	Rows     int       `json:"rows"`
	LoadedAt time.Time `json:"loaded_at,omitempty"`
}

// Status reports whether the dataset is in memory without loading it.
func (a *Analyzer) Status() Status {
	st := Status{Source: a.source.ID()}
	if ds, ok := a.cache.Loaded(a.source); ok {
		st.Loaded = true
		st.Rows = len(ds.Records)
		st.LoadedAt = ds.LoadedAt
	}
	return st
}

// Warm loads the dataset ahead of the first query.
func (a *Analyzer) Warm(ctx context.Context) error {
	_, err := a.cache.Get(ctx, a.source)
	return err
}

// Reload reads the dataset again. The previous copy keeps serving queries
// when the read fails.
func (a *Analyzer) Reload(ctx context.Context) (Status, error) {
	if _, err := a.cache.Reload(ctx, a.source); err != nil {
		return a.Status(), err
	}
	return a.Status(), nil
}
