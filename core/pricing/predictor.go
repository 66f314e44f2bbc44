package pricing

import (
	"context"
	"errors"
	"math"
)

// Predictor returns a daily price estimate for a listing.
type Predictor interface {
	Predict(ctx context.Context, f Features) (float64, error)
	// Name identifies the predictor in logs and metrics.
	Name() string
}

// Round2 rounds a price to cents and clamps it at zero.
func Round2(v float64) float64 {
	if v < 0 || math.IsNaN(v) {
		return 0
	}
	return math.Round(v*100) / 100
}

// ErrUnavailable is returned when a remote predictor cannot be reached or
// answers with an unusable response.
var ErrUnavailable = errors.New("predictor unavailable")
