package journal

import (
	"context"

	"github.com/kilianp07/rentalfriction/core/events"
	"github.com/kilianp07/rentalfriction/core/logger"
	"github.com/kilianp07/rentalfriction/internal/eventbus"
)

// FromEvent converts a prediction event into a journal record.
func FromEvent(ev events.PredictionEvent) Record {
	rec := Record{
		ID:        ev.ID,
		Timestamp: ev.Time.UTC(),
		Predictor: ev.Predictor,
		Features:  ev.Features,
		Price:     ev.Price,
		LatencyMS: float64(ev.Latency.Microseconds()) / 1000,
	}
	if ev.Err != nil {
		rec.Error = ev.Err.Error()
	}
	return rec
}

// StartRecorder appends every prediction published on the bus to the store.
// It drains the subscription until the bus is closed, so events still
// buffered at shutdown are journaled. The returned channel is closed once the
// recorder has exited.
func StartRecorder(bus *eventbus.TypedBus[events.PredictionEvent], store Store, log logger.Logger) <-chan struct{} {
	done := make(chan struct{})
	if bus == nil || store == nil {
		close(done)
		return done
	}
	sub := bus.Subscribe()
	go func() {
		defer close(done)
		defer bus.Unsubscribe(sub)
		for ev := range sub {
			if err := store.Append(context.Background(), FromEvent(ev)); err != nil && log != nil {
				log.Errorf("journal append %s: %v", ev.ID, err)
			}
		}
	}()
	return done
}
