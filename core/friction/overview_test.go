package friction

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/rentalfriction/core/model"
)

func TestComputeOverview(t *testing.T) {
	records := []model.RentalRecord{
		{RentalID: 1, CheckinType: model.CheckinMobile, State: model.StateEnded, DelayAtCheckout: model.Minutes(90)},
		{RentalID: 2, PreviousEndedRentalID: model.Int64(1), TimeDeltaWithPreviousRental: model.Minutes(30),
			CheckinType: model.CheckinConnect, State: model.StateEnded, DelayAtCheckout: model.Minutes(40)},
		{RentalID: 3, PreviousEndedRentalID: model.Int64(2), TimeDeltaWithPreviousRental: model.Minutes(0),
			CheckinType: model.CheckinConnect, State: model.StateCanceled},
		{RentalID: 4, PreviousEndedRentalID: model.Int64(1), TimeDeltaWithPreviousRental: model.Minutes(120),
			CheckinType: model.CheckinMobile, State: model.StateEnded, DelayAtCheckout: model.Minutes(-10)},
		{RentalID: 5, CheckinType: model.CheckinMobile, State: model.StateEnded, DelayAtCheckout: model.Minutes(0)},
		{RentalID: 6, PreviousEndedRentalID: model.Int64(5), TimeDeltaWithPreviousRental: model.Minutes(60),
			CheckinType: model.CheckinMobile, State: model.StateEnded, DelayAtCheckout: model.Minutes(10)},
	}
	pairs := BuildChains(records)
	ov := ComputeOverview(records, pairs)

	assert.Equal(t, 6, ov.TotalRentals)
	assert.Equal(t, 4, ov.ChainedRentals)
	assert.InDelta(t, 400.0/6, ov.ChainedPercent, 1e-9)
	// rental 2 (90 > 30) and rental 3 (40 > 0) are problematic.
	assert.Equal(t, 2, ov.ProblematicCount)
	assert.InDelta(t, 50, ov.ProblematicPercent, 1e-9)
	assert.Equal(t, 1, ov.ProblematicCancellations)
	require.NotNil(t, ov.ProblematicMedianDelay)
	assert.InDelta(t, 40, *ov.ProblematicMedianDelay, 1e-9)
	assert.Equal(t, 3, ov.LateCheckouts)
	assert.Equal(t, 2, ov.OnTimeCheckouts)
	require.NotNil(t, ov.MeanCheckoutDelay)
	assert.InDelta(t, 26, *ov.MeanCheckoutDelay, 1e-9)
	assert.Equal(t, 4, ov.CheckinTypes[model.CheckinMobile])
	assert.Equal(t, 2, ov.CheckinTypes[model.CheckinConnect])
	assert.Equal(t, 5, ov.States[model.StateEnded])
	assert.Equal(t, 1, ov.States[model.StateCanceled])
}

func TestComputeOverview_Empty(t *testing.T) {
	ov := ComputeOverview(nil, nil)
	assert.Zero(t, ov.TotalRentals)
	assert.Zero(t, ov.ChainedPercent)
	assert.Zero(t, ov.ProblematicPercent)
	assert.Nil(t, ov.ProblematicMedianDelay)
	assert.Nil(t, ov.MeanCheckoutDelay)
}

func TestMedian(t *testing.T) {
	assert.Nil(t, median(nil))
	assert.InDelta(t, 3, *median([]float64{5, 1, 3}), 1e-9)
	assert.InDelta(t, 2.5, *median([]float64{4, 1, 3, 2}), 1e-9)
}
