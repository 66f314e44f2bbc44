package friction

import "github.com/kilianp07/rentalfriction/core/model"

// BuildChains pairs every rental that references a previous rental with that
// predecessor. References that do not resolve to a record in the set are
// dropped: an unresolvable chain carries no signal. The output keeps the
// input order.
func BuildChains(records []model.RentalRecord) []model.ChainedPair {
	byID := make(map[int64]int, len(records))
	for i, r := range records {
		byID[r.RentalID] = i
	}
	pairs := make([]model.ChainedPair, 0)
	for _, r := range records {
		if r.PreviousEndedRentalID == nil {
			continue
		}
		idx, ok := byID[*r.PreviousEndedRentalID]
		if !ok {
			continue
		}
		prevDelay := records[idx].DelayAtCheckout
		pairs = append(pairs, model.ChainedPair{
			Current:                 r,
			PreviousDelayAtCheckout: prevDelay,
			IsProblematic:           IsProblematic(prevDelay, r.TimeDeltaWithPreviousRental),
		})
	}
	return pairs
}
