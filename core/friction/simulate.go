package friction

import (
	"sort"

	"github.com/kilianp07/rentalfriction/core/model"
)

// deltaIndex keeps the sorted buffers of a pair set so each threshold can be
// answered with a binary search instead of a full scan. Pairs without a
// recorded buffer are left out: they are never lost and never solved.
type deltaIndex struct {
	all         []float64
	problematic []float64
}

func newDeltaIndex(pairs []model.ChainedPair) deltaIndex {
	idx := deltaIndex{
		all:         make([]float64, 0, len(pairs)),
		problematic: make([]float64, 0),
	}
	for _, p := range pairs {
		d, ok := p.TimeDelta()
		if !ok {
			continue
		}
		idx.all = append(idx.all, d)
		if p.IsProblematic {
			idx.problematic = append(idx.problematic, d)
		}
	}
	sort.Float64s(idx.all)
	sort.Float64s(idx.problematic)
	return idx
}

// countBelow returns how many sorted values are strictly lower than t.
func countBelow(sorted []float64, t float64) int {
	return sort.SearchFloat64s(sorted, t)
}

// lostAndSolved applies the policy "reject every booking whose buffer is
// below t": lost counts every rejected chained rental, solved counts the
// rejected ones that were problematic.
func (idx deltaIndex) lostAndSolved(t float64) (lost, solved int) {
	return countBelow(idx.all, t), countBelow(idx.problematic, t)
}

// Sweep evaluates every threshold independently over the scoped pairs.
// totalInScope is the number of rentals of the scope over the full record
// set, the denominator of the preserved volume.
func Sweep(pairs []model.ChainedPair, totalInScope int, thresholds []float64) []model.SimulationPoint {
	idx := newDeltaIndex(pairs)
	points := make([]model.SimulationPoint, 0, len(thresholds))
	for _, t := range thresholds {
		lost, solved := idx.lostAndSolved(t)
		points = append(points, model.SimulationPoint{
			ThresholdMinutes: t,
			SolvedCount:      solved,
			LostCount:        lost,
			PreservedPercent: percent(totalInScope-lost, totalInScope),
		})
	}
	return points
}

// EvaluateExact computes the metrics of a single threshold, which need not
// belong to any sweep grid.
func EvaluateExact(pairs []model.ChainedPair, totalInScope int, threshold float64) model.ExactResult {
	idx := newDeltaIndex(pairs)
	lost, solved := idx.lostAndSolved(threshold)
	problems := CountProblematic(pairs)
	return model.ExactResult{
		ThresholdMinutes:         threshold,
		SolvedCount:              solved,
		LostCount:                lost,
		PreservedPercent:         percent(totalInScope-lost, totalInScope),
		LostPercent:              percent(lost, totalInScope),
		TotalProblematic:         problems,
		PctSolvedOfTotalProblems: percent(solved, problems),
	}
}

// CountProblematic returns the number of problematic pairs.
func CountProblematic(pairs []model.ChainedPair) int {
	n := 0
	for _, p := range pairs {
		if p.IsProblematic {
			n++
		}
	}
	return n
}

// Thresholds expands an inclusive [start, end] grid with the given step.
// A non-positive step yields only start.
func Thresholds(start, end, step float64) []float64 {
	if step <= 0 || end < start {
		return []float64{start}
	}
	n := int((end-start)/step+1e-9) + 1
	out := make([]float64, n)
	for i := range out {
		out[i] = start + float64(i)*step
	}
	return out
}

// percent returns num/den*100, or 0 when den is 0.
func percent(num, den int) float64 {
	if den == 0 {
		return 0
	}
	return float64(num) / float64(den) * 100
}
