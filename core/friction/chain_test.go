package friction

import (
	"testing"

	"github.com/kilianp07/rentalfriction/core/model"
)

func TestBuildChains_AbsentPreviousDelay(t *testing.T) {
	records := []model.RentalRecord{
		{RentalID: 1, CheckinType: model.CheckinMobile, State: model.StateEnded},
		{RentalID: 2, PreviousEndedRentalID: model.Int64(1), TimeDeltaWithPreviousRental: model.Minutes(30),
			CheckinType: model.CheckinMobile, State: model.StateEnded},
	}
	pairs := BuildChains(records)
	if len(pairs) != 1 {
		t.Fatalf("expected 1 pair got %d", len(pairs))
	}
	p := pairs[0]
	if p.Current.RentalID != 2 {
		t.Fatalf("unexpected current rental %d", p.Current.RentalID)
	}
	if p.PreviousDelayAtCheckout != nil {
		t.Fatalf("expected absent previous delay got %v", *p.PreviousDelayAtCheckout)
	}
	if p.IsProblematic {
		t.Fatalf("absent previous delay must not be problematic")
	}
}

func TestBuildChains_DropsUnresolved(t *testing.T) {
	records := []model.RentalRecord{
		{RentalID: 1, DelayAtCheckout: model.Minutes(10)},
		{RentalID: 2, PreviousEndedRentalID: model.Int64(99), TimeDeltaWithPreviousRental: model.Minutes(0)},
		{RentalID: 3, PreviousEndedRentalID: model.Int64(1), TimeDeltaWithPreviousRental: model.Minutes(0)},
		{RentalID: 4},
	}
	pairs := BuildChains(records)
	if len(pairs) != 1 || pairs[0].Current.RentalID != 3 {
		t.Fatalf("expected only rental 3 chained, got %#v", pairs)
	}
	if !pairs[0].IsProblematic {
		t.Fatalf("10 min late over a 0 min buffer should be problematic")
	}
}

func TestBuildChains_DoesNotMutateInput(t *testing.T) {
	records := []model.RentalRecord{
		{RentalID: 1, DelayAtCheckout: model.Minutes(45)},
		{RentalID: 2, PreviousEndedRentalID: model.Int64(1), TimeDeltaWithPreviousRental: model.Minutes(20)},
	}
	before := *records[0].DelayAtCheckout
	_ = BuildChains(records)
	if *records[0].DelayAtCheckout != before || records[1].DelayAtCheckout != nil {
		t.Fatalf("input mutated")
	}
}

func TestIsProblematic(t *testing.T) {
	cases := []struct {
		name  string
		delay *float64
		delta *float64
		want  bool
	}{
		{"late beyond buffer", model.Minutes(45), model.Minutes(20), true},
		{"late equal buffer", model.Minutes(20), model.Minutes(20), false},
		{"early", model.Minutes(-15), model.Minutes(0), false},
		{"no delay", nil, model.Minutes(30), false},
		{"no buffer", model.Minutes(30), nil, false},
	}
	for _, c := range cases {
		if got := IsProblematic(c.delay, c.delta); got != c.want {
			t.Errorf("%s: got %v want %v", c.name, got, c.want)
		}
	}
}
