package metrics

import "github.com/kilianp07/rentalfriction/core/events"

// MultiSink fans out events to multiple sinks.
type MultiSink struct {
	Sinks []MetricsSink
}

// NewMultiSink creates a MultiSink with the provided sinks.
func NewMultiSink(sinks ...MetricsSink) *MultiSink {
	return &MultiSink{Sinks: sinks}
}

// RecordQuery forwards the event to all sinks, returning the first error encountered.
func (m *MultiSink) RecordQuery(ev QueryEvent) error {
	for _, s := range m.Sinks {
		if err := s.RecordQuery(ev); err != nil {
			return err
		}
	}
	return nil
}

// RecordDatasetLoad forwards dataset load events.
func (m *MultiSink) RecordDatasetLoad(ev DatasetLoadEvent) error {
	for _, s := range m.Sinks {
		if err := s.RecordDatasetLoad(ev); err != nil {
			return err
		}
	}
	return nil
}

// RecordPrediction forwards prediction events when supported by the sink.
func (m *MultiSink) RecordPrediction(ev events.PredictionEvent) error {
	for _, s := range m.Sinks {
		if rec, ok := s.(PredictionRecorder); ok {
			if err := rec.RecordPrediction(ev); err != nil {
				return err
			}
		}
	}
	return nil
}
