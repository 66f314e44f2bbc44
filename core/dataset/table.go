package dataset

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/kilianp07/rentalfriction/core/model"
)

const minutesSuffix = "_in_minutes"

// Canonical column names.
const (
	ColRentalID       = "rental_id"
	ColCarID          = "car_id"
	ColPreviousRental = "previous_ended_rental_id"
	ColCheckinType    = "checkin_type"
	ColState          = "state"
	ColDelay          = "delay_at_checkout"
	ColTimeDelta      = "time_delta_with_previous_rental"
)

var requiredColumns = []string{
	ColRentalID, ColPreviousRental, ColCheckinType, ColState, ColDelay, ColTimeDelta,
}

// CanonicalColumn trims a raw header and strips the "_in_minutes" suffix.
func CanonicalColumn(raw string) string {
	name := strings.ToLower(strings.TrimSpace(raw))
	return strings.TrimSuffix(name, minutesSuffix)
}

// ParseTable converts a header row and its data rows into records. Empty cells
// become absent values; blank rows are skipped. Row numbers in errors are
// 1-based and count the header.
func ParseTable(header []string, rows [][]string) ([]model.RentalRecord, error) {
	cols := make(map[string]int, len(header))
	for i, h := range header {
		cols[CanonicalColumn(h)] = i
	}
	var missing []string
	for _, c := range requiredColumns {
		if _, ok := cols[c]; !ok {
			missing = append(missing, c)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("missing columns: %s", strings.Join(missing, ", "))
	}

	records := make([]model.RentalRecord, 0, len(rows))
	for i, row := range rows {
		if blank(row) {
			continue
		}
		rec, err := parseRow(cols, row)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		records = append(records, rec)
	}
	return records, nil
}

func parseRow(cols map[string]int, row []string) (model.RentalRecord, error) {
	var rec model.RentalRecord
	id, err := intCell(cell(row, cols, ColRentalID))
	if err != nil {
		return rec, fmt.Errorf("%s: %w", ColRentalID, err)
	}
	if id == nil {
		return rec, fmt.Errorf("%s is required", ColRentalID)
	}
	rec.RentalID = *id

	if idx, ok := cols[ColCarID]; ok && idx < len(row) {
		if rec.CarID, err = intCell(row[idx]); err != nil {
			return rec, fmt.Errorf("%s: %w", ColCarID, err)
		}
	}
	if rec.PreviousEndedRentalID, err = intCell(cell(row, cols, ColPreviousRental)); err != nil {
		return rec, fmt.Errorf("%s: %w", ColPreviousRental, err)
	}
	if rec.CheckinType, err = model.ParseCheckinType(strings.TrimSpace(cell(row, cols, ColCheckinType))); err != nil {
		return rec, err
	}
	if rec.State, err = model.ParseRentalState(strings.TrimSpace(cell(row, cols, ColState))); err != nil {
		return rec, err
	}
	if rec.DelayAtCheckout, err = floatCell(cell(row, cols, ColDelay)); err != nil {
		return rec, fmt.Errorf("%s: %w", ColDelay, err)
	}
	if rec.TimeDeltaWithPreviousRental, err = floatCell(cell(row, cols, ColTimeDelta)); err != nil {
		return rec, fmt.Errorf("%s: %w", ColTimeDelta, err)
	}
	return rec, nil
}

// cell tolerates short rows, which spreadsheet readers produce when trailing
// cells are empty.
func cell(row []string, cols map[string]int, name string) string {
	idx := cols[name]
	if idx >= len(row) {
		return ""
	}
	return row[idx]
}

func blank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

func isNull(s string) bool {
	switch strings.ToLower(s) {
	case "", "nan", "null", "none", "na":
		return true
	}
	return false
}

func floatCell(raw string) (*float64, error) {
	s := strings.TrimSpace(raw)
	if isNull(s) {
		return nil, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil, nil
	}
	return &v, nil
}

// intCell accepts integer ids written as floats ("505000.0"), which is how
// spreadsheets store id columns containing blanks.
func intCell(raw string) (*int64, error) {
	f, err := floatCell(raw)
	if err != nil || f == nil {
		return nil, err
	}
	if *f != math.Trunc(*f) {
		return nil, fmt.Errorf("%q is not an integer", raw)
	}
	v := int64(*f)
	return &v, nil
}
