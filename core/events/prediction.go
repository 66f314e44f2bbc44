package events

import (
	"time"

	"github.com/kilianp07/rentalfriction/core/pricing"
)

// PredictionEvent is published after every pricing lookup, successful or not.
type PredictionEvent struct {
	ID        string
	Time      time.Time
	Predictor string
	Features  pricing.Features
	Price     float64
	Err       error
	Latency   time.Duration
}
