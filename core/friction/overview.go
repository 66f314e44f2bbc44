package friction

import (
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/kilianp07/rentalfriction/core/model"
)

// Overview summarises the friction observed in a set of rentals.
type Overview struct {
	TotalRentals             int                       `json:"total_rentals"`
	ChainedRentals           int                       `json:"chained_rentals"`
	ChainedPercent           float64                   `json:"chained_percent"`
	ProblematicCount         int                       `json:"problematic_count"`
	ProblematicPercent       float64                   `json:"problematic_percent"`
	ProblematicMedianDelay   *float64                  `json:"problematic_median_delay"`
	ProblematicCancellations int                       `json:"problematic_cancellations"`
	LateCheckouts            int                       `json:"late_checkouts"`
	OnTimeCheckouts          int                       `json:"on_time_checkouts"`
	MeanCheckoutDelay        *float64                  `json:"mean_checkout_delay"`
	CheckinTypes             map[model.CheckinType]int `json:"checkin_types"`
	States                   map[model.RentalState]int `json:"states"`
}

// ComputeOverview aggregates records and their chained pairs. Both slices must
// already be restricted to the same scope.
func ComputeOverview(records []model.RentalRecord, pairs []model.ChainedPair) Overview {
	ov := Overview{
		TotalRentals:   len(records),
		ChainedRentals: len(pairs),
		CheckinTypes:   map[model.CheckinType]int{},
		States:         map[model.RentalState]int{},
	}
	var delays []float64
	for _, r := range records {
		ov.CheckinTypes[r.CheckinType]++
		ov.States[r.State]++
		if r.DelayAtCheckout == nil {
			continue
		}
		delays = append(delays, *r.DelayAtCheckout)
		if *r.DelayAtCheckout > 0 {
			ov.LateCheckouts++
		} else {
			ov.OnTimeCheckouts++
		}
	}
	if len(delays) > 0 {
		m := stat.Mean(delays, nil)
		ov.MeanCheckoutDelay = &m
	}

	var problemDelays []float64
	for _, p := range pairs {
		if !p.IsProblematic {
			continue
		}
		ov.ProblematicCount++
		if p.Current.State == model.StateCanceled {
			ov.ProblematicCancellations++
		}
		if p.Current.DelayAtCheckout != nil {
			problemDelays = append(problemDelays, *p.Current.DelayAtCheckout)
		}
	}
	ov.ProblematicMedianDelay = median(problemDelays)
	ov.ChainedPercent = percent(ov.ChainedRentals, ov.TotalRentals)
	ov.ProblematicPercent = percent(ov.ProblematicCount, ov.ChainedRentals)
	return ov
}

// median returns the midpoint of values, averaging the two central values of
// an even-sized sample. It returns nil for an empty sample.
func median(values []float64) *float64 {
	n := len(values)
	if n == 0 {
		return nil
	}
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	var m float64
	if n%2 == 1 {
		m = sorted[n/2]
	} else {
		m = stat.Mean(sorted[n/2-1:n/2+1], nil)
	}
	return &m
}
