package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/kilianp07/rentalfriction/core/events"
	coremetrics "github.com/kilianp07/rentalfriction/core/metrics"
)

// PromSink records analysis activity in Prometheus metrics.
type PromSink struct {
	queries      *prometheus.CounterVec
	queryLatency *prometheus.HistogramVec
	loads        *prometheus.CounterVec
	loadLatency  prometheus.Histogram
	rows         *prometheus.GaugeVec
	predictions  *prometheus.CounterVec
	predLatency  *prometheus.HistogramVec
	lastPrice    *prometheus.GaugeVec
}

// NewPromSink registers metrics on the default Prometheus registerer.
// The /metrics endpoint is served separately by StartPromServer.
func NewPromSink() (*PromSink, error) {
	return NewPromSinkWithRegistry(prometheus.DefaultRegisterer)
}

// NewPromSinkWithRegistry registers metrics on the provided registerer.
// A nil registerer defaults to the global Prometheus registerer. Collectors
// already present on the registerer are reused.
func NewPromSinkWithRegistry(reg prometheus.Registerer) (*PromSink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	s := &PromSink{
		queries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "rentalfriction_queries_total",
			Help: "Total number of analysis queries",
		}, []string{"operation", "scope", "failed"}),
		queryLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "rentalfriction_query_duration_seconds",
			Help:    "Time spent answering analysis queries",
			Buckets: prometheus.DefBuckets,
		}, []string{"operation"}),
		loads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "rentalfriction_dataset_loads_total",
			Help: "Total number of dataset load attempts",
		}, []string{"failed"}),
		loadLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "rentalfriction_dataset_load_duration_seconds",
			Help:    "Time spent reading and validating the dataset",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}),
		rows: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "rentalfriction_dataset_rows",
			Help: "Number of rental records in the last successfully loaded dataset",
		}, []string{"source"}),
		predictions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "rentalfriction_predictions_total",
			Help: "Total number of pricing lookups",
		}, []string{"predictor", "failed"}),
		predLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "rentalfriction_prediction_duration_seconds",
			Help:    "Time spent computing a price",
			Buckets: prometheus.DefBuckets,
		}, []string{"predictor"}),
		lastPrice: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "rentalfriction_last_predicted_price",
			Help: "Last successful daily price per predictor",
		}, []string{"predictor"}),
	}

	var err error
	if s.queries, err = register(reg, s.queries); err != nil {
		return nil, err
	}
	if s.queryLatency, err = register(reg, s.queryLatency); err != nil {
		return nil, err
	}
	if s.loads, err = register(reg, s.loads); err != nil {
		return nil, err
	}
	if s.loadLatency, err = register(reg, s.loadLatency); err != nil {
		return nil, err
	}
	if s.rows, err = register(reg, s.rows); err != nil {
		return nil, err
	}
	if s.predictions, err = register(reg, s.predictions); err != nil {
		return nil, err
	}
	if s.predLatency, err = register(reg, s.predLatency); err != nil {
		return nil, err
	}
	if s.lastPrice, err = register(reg, s.lastPrice); err != nil {
		return nil, err
	}
	return s, nil
}

func register[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	if err := reg.Register(c); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing, nil
			}
		}
		return c, err
	}
	return c, nil
}

// RecordQuery counts the query and observes its latency.
func (s *PromSink) RecordQuery(ev coremetrics.QueryEvent) error {
	s.queries.WithLabelValues(ev.Operation, ev.Scope, strconv.FormatBool(ev.Failed)).Inc()
	s.queryLatency.WithLabelValues(ev.Operation).Observe(ev.Duration.Seconds())
	return nil
}

// RecordDatasetLoad counts the load. The rows gauge only moves on success.
func (s *PromSink) RecordDatasetLoad(ev coremetrics.DatasetLoadEvent) error {
	s.loads.WithLabelValues(strconv.FormatBool(ev.Failed)).Inc()
	s.loadLatency.Observe(ev.Duration.Seconds())
	if !ev.Failed {
		s.rows.WithLabelValues(ev.Source).Set(float64(ev.Rows))
	}
	return nil
}

// RecordPrediction implements coremetrics.PredictionRecorder.
func (s *PromSink) RecordPrediction(ev events.PredictionEvent) error {
	failed := ev.Err != nil
	s.predictions.WithLabelValues(ev.Predictor, strconv.FormatBool(failed)).Inc()
	s.predLatency.WithLabelValues(ev.Predictor).Observe(ev.Latency.Seconds())
	if !failed {
		s.lastPrice.WithLabelValues(ev.Predictor).Set(ev.Price)
	}
	return nil
}
