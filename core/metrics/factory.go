package metrics

import (
	"fmt"

	"github.com/kilianp07/rentalfriction/core/factory"
)

var sinks = factory.NewRegistry[MetricsSink]()

// RegisterMetricsSink makes a sink type available to configuration.
func RegisterMetricsSink(name string, f factory.Factory[MetricsSink]) error {
	return sinks.Register(name, f)
}

// SinkTypes lists the registered sink types.
func SinkTypes() []string { return sinks.Types() }

// NewMetricsSink builds every configured sink. No sinks yields NopSink and a
// single sink is returned unwrapped. A type may appear only once since the
// Prometheus collectors are process-wide.
func NewMetricsSink(cfg Config) (MetricsSink, error) {
	if len(cfg.Sinks) == 0 {
		return NopSink{}, nil
	}
	seen := make(map[string]bool, len(cfg.Sinks))
	built := make([]MetricsSink, 0, len(cfg.Sinks))
	for i, c := range cfg.Sinks {
		if seen[c.Type] {
			return nil, fmt.Errorf("sinks[%d]: duplicate sink type %q", i, c.Type)
		}
		seen[c.Type] = true
		s, err := sinks.Create(c)
		if err != nil {
			return nil, fmt.Errorf("sinks[%d]: %w", i, err)
		}
		built = append(built, s)
	}
	if len(built) == 1 {
		return built[0], nil
	}
	return NewMultiSink(built...), nil
}
