package metrics

import (
	"github.com/kilianp07/rentalfriction/core/events"
	coremetrics "github.com/kilianp07/rentalfriction/core/metrics"
	"github.com/kilianp07/rentalfriction/internal/eventbus"
)

// StartPredictionCollector subscribes to the prediction bus and forwards
// events to the sink when it records predictions. It runs until the bus is
// closed and counts events still buffered at that point. The returned channel
// is closed on exit.
func StartPredictionCollector(bus *eventbus.TypedBus[events.PredictionEvent], sink coremetrics.MetricsSink) <-chan struct{} {
	done := make(chan struct{})
	rec, ok := sink.(coremetrics.PredictionRecorder)
	if bus == nil || !ok {
		close(done)
		return done
	}
	sub := bus.Subscribe()
	go func() {
		defer close(done)
		defer bus.Unsubscribe(sub)
		for ev := range sub {
			_ = rec.RecordPrediction(ev)
		}
	}()
	return done
}
