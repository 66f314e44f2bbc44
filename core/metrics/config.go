package metrics

import "github.com/kilianp07/rentalfriction/core/factory"

// Config defines settings for metrics sinks.
type Config struct {
	Sinks []factory.ModuleConfig `json:"sinks"`
	// PrometheusAddress is where /metrics is served when a prometheus sink is
	// configured.
	PrometheusAddress string `json:"prometheus_address"`
}
