package dataset

import (
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"

	coredataset "github.com/kilianp07/rentalfriction/core/dataset"
	"github.com/kilianp07/rentalfriction/core/model"
)

// XLSXLoader reads rentals from one sheet of a spreadsheet. The first row of
// the sheet is the header.
type XLSXLoader struct {
	// Sheet defaults to the first sheet of the workbook.
	Sheet string
}

// Load implements dataset.Loader.
func (l XLSXLoader) Load(ctx context.Context, path string) ([]model.RentalRecord, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer func() { _ = f.Close() }()

	sheet := l.Sheet
	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, fmt.Errorf("workbook has no sheet")
		}
		sheet = sheets[0]
	}
	rows, err := f.Rows(sheet)
	if err != nil {
		return nil, fmt.Errorf("sheet %q: %w", sheet, err)
	}
	defer func() { _ = rows.Close() }()

	var header []string
	var data [][]string
	for rows.Next() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		cols, err := rows.Columns(excelize.Options{RawCellValue: true})
		if err != nil {
			return nil, fmt.Errorf("sheet %q: %w", sheet, err)
		}
		if header == nil {
			header = cols
			continue
		}
		data = append(data, cols)
	}
	if err := rows.Error(); err != nil {
		return nil, fmt.Errorf("sheet %q: %w", sheet, err)
	}
	if header == nil {
		return nil, fmt.Errorf("sheet %q is empty", sheet)
	}
	return coredataset.ParseTable(header, data)
}
