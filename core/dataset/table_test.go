package dataset

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/rentalfriction/core/model"
)

var rawHeader = []string{
	"rental_id", "car_id", "checkin_type", "state",
	"delay_at_checkout_in_minutes", "previous_ended_rental_id", "time_delta_with_previous_rental_in_minutes",
}

func TestCanonicalColumn(t *testing.T) {
	assert.Equal(t, "delay_at_checkout", CanonicalColumn("delay_at_checkout_in_minutes"))
	assert.Equal(t, "time_delta_with_previous_rental", CanonicalColumn(" Time_Delta_With_Previous_Rental_In_Minutes "))
	assert.Equal(t, "state", CanonicalColumn("state"))
}

func TestParseTable(t *testing.T) {
	rows := [][]string{
		{"505000", "363965", "mobile", "canceled", "", "", ""},
		{"507750", "269550", "mobile", "ended", "-81.0", "", ""},
		{"511639", "370585", "connect", "ended", "-15", "563782.0", "570"},
		{"", "", "", "", "", "", ""},
		{"519491", "312389", "mobile", "ended", "58", "518523"},
	}
	records, err := ParseTable(rawHeader, rows)
	require.NoError(t, err)
	require.Len(t, records, 4)

	assert.Equal(t, int64(505000), records[0].RentalID)
	assert.Equal(t, model.StateCanceled, records[0].State)
	assert.Nil(t, records[0].DelayAtCheckout)
	assert.Nil(t, records[0].PreviousEndedRentalID)

	assert.InDelta(t, -81, *records[1].DelayAtCheckout, 1e-9)

	require.NotNil(t, records[2].PreviousEndedRentalID)
	assert.Equal(t, int64(563782), *records[2].PreviousEndedRentalID)
	assert.InDelta(t, 570, *records[2].TimeDeltaWithPreviousRental, 1e-9)
	assert.Equal(t, model.CheckinConnect, records[2].CheckinType)
	require.NotNil(t, records[2].CarID)
	assert.Equal(t, int64(370585), *records[2].CarID)

	assert.Nil(t, records[3].TimeDeltaWithPreviousRental)
}

func TestParseTable_MissingColumns(t *testing.T) {
	_, err := ParseTable([]string{"rental_id", "state"}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "checkin_type")
	assert.Contains(t, err.Error(), "delay_at_checkout")
}

func TestParseTable_BadCells(t *testing.T) {
	cases := map[string][]string{
		"checkin":  {"1", "", "bike", "ended", "", "", ""},
		"state":    {"1", "", "mobile", "lost", "", "", ""},
		"delay":    {"1", "", "mobile", "ended", "late", "", ""},
		"id float": {"1.5", "", "mobile", "ended", "", "", ""},
		"no id":    {"", "", "mobile", "ended", "", "", ""},
	}
	for name, row := range cases {
		_, err := ParseTable(rawHeader, [][]string{row})
		assert.Error(t, err, name)
		if err != nil {
			assert.Contains(t, err.Error(), "row 2", name)
		}
	}
}

func TestSourceID(t *testing.T) {
	s := Source{Path: "data/get_around.XLSX"}
	assert.Equal(t, "xlsx", s.ResolvedFormat())
	assert.Equal(t, "xlsx:data/get_around.XLSX", s.ID())
	s.Format = "CSV"
	assert.Equal(t, "csv:data/get_around.XLSX", s.ID())
}

func TestSourceID_Options(t *testing.T) {
	rentals := Source{Path: "delays.xlsx", Options: map[string]any{"sheet": "rentals_data"}}
	docs := Source{Path: "delays.xlsx", Options: map[string]any{"sheet": "Documentation"}}
	assert.Equal(t, "xlsx:delays.xlsx?sheet=rentals_data", rentals.ID())
	assert.NotEqual(t, rentals.ID(), docs.ID())

	a := Source{Path: "r.csv", Options: map[string]any{"delimiter": ";", "b": 1}}
	b := Source{Path: "r.csv", Options: map[string]any{"b": 1, "delimiter": ";"}}
	assert.Equal(t, "csv:r.csv?b=1&delimiter=;", a.ID())
	assert.Equal(t, a.ID(), b.ID())
}

func TestCache_SeparatesSheets(t *testing.T) {
	byPath := map[string][]model.RentalRecord{
		"rentals_data":  {{RentalID: 1}, {RentalID: 2}},
		"Documentation": {{RentalID: 9}},
	}
	c := NewCache(func(s Source) (Loader, error) {
		return &fakeLoader{records: byPath[s.Options["sheet"].(string)]}, nil
	}, nil, nil)
	rentals, err := c.Get(context.Background(), Source{Path: "d.xlsx", Options: map[string]any{"sheet": "rentals_data"}})
	require.NoError(t, err)
	docs, err := c.Get(context.Background(), Source{Path: "d.xlsx", Options: map[string]any{"sheet": "Documentation"}})
	require.NoError(t, err)
	assert.Len(t, rentals.Records, 2)
	assert.Len(t, docs.Records, 1)
}
