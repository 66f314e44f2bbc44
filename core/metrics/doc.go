// Package metrics defines the sinks recording analysis queries, dataset loads
// and pricing lookups. Sinks are built from configuration through the factory
// registry and fanned out by MultiSink when several are configured. The
// Prometheus implementation lives in infra/metrics.
package metrics
