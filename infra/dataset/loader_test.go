package dataset

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	coredataset "github.com/kilianp07/rentalfriction/core/dataset"
	"github.com/kilianp07/rentalfriction/core/model"
)

var header = []any{
	"rental_id", "car_id", "checkin_type", "state",
	"delay_at_checkout_in_minutes", "previous_ended_rental_id", "time_delta_with_previous_rental_in_minutes",
}

func writeWorkbook(t *testing.T, sheet string) string {
	t.Helper()
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()
	if sheet != "Sheet1" {
		_, err := f.NewSheet(sheet)
		require.NoError(t, err)
	}
	rows := [][]any{
		header,
		{1, 10, "mobile", "ended", 45, nil, nil},
		{2, 10, "connect", "canceled", nil, 1, 20},
		{3, 11, "mobile", "ended", -12.5, nil, nil},
	}
	for i, r := range rows {
		cellRef, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		row := r
		require.NoError(t, f.SetSheetRow(sheet, cellRef, &row))
	}
	path := filepath.Join(t.TempDir(), "rentals.xlsx")
	require.NoError(t, f.SaveAs(path))
	return path
}

func TestXLSXLoader(t *testing.T) {
	path := writeWorkbook(t, "Sheet1")
	records, err := XLSXLoader{}.Load(context.Background(), path)
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, model.CheckinConnect, records[1].CheckinType)
	require.NotNil(t, records[1].PreviousEndedRentalID)
	assert.Equal(t, int64(1), *records[1].PreviousEndedRentalID)
	assert.InDelta(t, 20, *records[1].TimeDeltaWithPreviousRental, 1e-9)
	assert.Nil(t, records[1].DelayAtCheckout)
	assert.InDelta(t, -12.5, *records[2].DelayAtCheckout, 1e-9)
}

func TestXLSXLoader_NamedSheet(t *testing.T) {
	path := writeWorkbook(t, "rentals_data")
	records, err := XLSXLoader{Sheet: "rentals_data"}.Load(context.Background(), path)
	require.NoError(t, err)
	assert.Len(t, records, 3)

	_, err = XLSXLoader{Sheet: "Documentation"}.Load(context.Background(), path)
	assert.Error(t, err)
}

func TestXLSXLoader_NotAWorkbook(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.xlsx")
	require.NoError(t, os.WriteFile(path, []byte("not a zip"), 0o644))
	_, err := XLSXLoader{}.Load(context.Background(), path)
	assert.Error(t, err)
}

const sampleCSV = `rental_id;car_id;checkin_type;state;delay_at_checkout_in_minutes;previous_ended_rental_id;time_delta_with_previous_rental_in_minutes
1;10;mobile;ended;45;;
2;10;connect;ended;;1.0;20
`

func TestCSVLoader(t *testing.T) {
	l, err := NewCSVLoader(";")
	require.NoError(t, err)
	records, err := l.read(context.Background(), strings.NewReader(sampleCSV))
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, int64(1), *records[1].PreviousEndedRentalID)

	_, err = NewCSVLoader("::")
	assert.Error(t, err)

	_, err = CSVLoader{}.read(context.Background(), strings.NewReader(""))
	assert.Error(t, err)

	_, err = CSVLoader{}.Load(context.Background(), filepath.Join(t.TempDir(), "missing.csv"))
	assert.Error(t, err)
}

func TestResolve(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rentals.csv")
	require.NoError(t, os.WriteFile(path, []byte(sampleCSV), 0o644))

	cache := coredataset.NewCache(Resolve, nil, nil)
	ds, err := cache.Get(context.Background(), coredataset.Source{Path: path, Options: map[string]any{"delimiter": ";"}})
	require.NoError(t, err)
	assert.Len(t, ds.Records, 2)

	_, err = Resolve(coredataset.Source{Path: "rentals.parquet"})
	assert.Error(t, err)

	l, err := Resolve(coredataset.Source{Path: "x", Format: "xlsx", Options: map[string]any{"sheet": "rentals_data"}})
	require.NoError(t, err)
	assert.Equal(t, XLSXLoader{Sheet: "rentals_data"}, l)
}
