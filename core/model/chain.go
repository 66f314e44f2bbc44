package model

// ChainedPair joins a rental with the rental it immediately follows.
type ChainedPair struct {
	Current                 RentalRecord `json:"current"`
	PreviousDelayAtCheckout *float64     `json:"previous_delay_at_checkout"`
	IsProblematic           bool         `json:"is_problematic"`
}

// TimeDelta is the scheduled buffer before the current rental.
func (p ChainedPair) TimeDelta() (float64, bool) {
	if p.Current.TimeDeltaWithPreviousRental == nil {
		return 0, false
	}
	return *p.Current.TimeDeltaWithPreviousRental, true
}

// SimulationPoint is the outcome of one candidate threshold in a sweep.
type SimulationPoint struct {
	ThresholdMinutes float64 `json:"threshold_minutes"`
	SolvedCount      int     `json:"solved_count"`
	LostCount        int     `json:"lost_count"`
	PreservedPercent float64 `json:"preserved_percent"`
}

// ExactResult holds the metrics for a single user-chosen threshold.
type ExactResult struct {
	ThresholdMinutes         float64 `json:"threshold_minutes"`
	SolvedCount              int     `json:"solved_count"`
	LostCount                int     `json:"lost_count"`
	PreservedPercent         float64 `json:"preserved_percent"`
	LostPercent              float64 `json:"lost_percent"`
	TotalProblematic         int     `json:"total_problematic"`
	PctSolvedOfTotalProblems float64 `json:"pct_solved_of_total_problems"`
}
