// Package events defines the events emitted on the event bus.
//
// Available event types:
//   - PredictionEvent: outcome of one pricing lookup
package events
