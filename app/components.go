// Package app assembles the configured components into a runnable service
// and exposes the same constructors to the one-shot CLI commands.
package app

import (
	"fmt"

	"github.com/kilianp07/rentalfriction/config"
	"github.com/kilianp07/rentalfriction/core/analysis"
	"github.com/kilianp07/rentalfriction/core/dataset"
	coremetrics "github.com/kilianp07/rentalfriction/core/metrics"
	"github.com/kilianp07/rentalfriction/core/pricing"
	infradataset "github.com/kilianp07/rentalfriction/infra/dataset"
	"github.com/kilianp07/rentalfriction/infra/logger"
	infrapricing "github.com/kilianp07/rentalfriction/infra/pricing"
)

// NewMetricsSink builds the configured sinks. The built-in sinks are
// registered by infra/metrics, which this package imports.
func NewMetricsSink(cfg *config.Config) (coremetrics.MetricsSink, error) {
	sink, err := coremetrics.NewMetricsSink(cfg.Metrics)
	if err != nil {
		return nil, fmt.Errorf("metrics sink: %w", err)
	}
	return sink, nil
}

// NewAnalyzer wires a dataset cache and the simulation settings.
func NewAnalyzer(cfg *config.Config, sink coremetrics.MetricsSink) *analysis.Analyzer {
	cache := dataset.NewCache(infradataset.Resolve, sink, logger.New("dataset"))
	return analysis.New(cache, cfg.Dataset.Source(), cfg.Simulation.Settings(), sink, logger.New("analysis"))
}

// NewPredictor returns the configured predictor, or nil when pricing is
// disabled.
func NewPredictor(cfg config.PricingConfig) (pricing.Predictor, error) {
	switch cfg.Mode {
	case config.PricingLocal:
		p, err := pricing.LoadPipeline(cfg.ModelPath)
		if err != nil {
			return nil, fmt.Errorf("pricing model: %w", err)
		}
		return p, nil
	case config.PricingRemote:
		return infrapricing.NewRemoteClient(cfg.Remote), nil
	case config.PricingDisabled:
		return nil, nil
	}
	return nil, fmt.Errorf("unknown pricing mode %q", cfg.Mode)
}
