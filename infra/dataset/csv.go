package dataset

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"unicode/utf8"

	coredataset "github.com/kilianp07/rentalfriction/core/dataset"
	"github.com/kilianp07/rentalfriction/core/model"
)

// CSVLoader reads rentals from a delimited text file with a header row.
type CSVLoader struct {
	Comma rune
}

// NewCSVLoader returns a loader for the given single-character delimiter.
// An empty delimiter means a comma.
func NewCSVLoader(delimiter string) (CSVLoader, error) {
	if delimiter == "" {
		return CSVLoader{Comma: ','}, nil
	}
	r, size := utf8.DecodeRuneInString(delimiter)
	if size != len(delimiter) {
		return CSVLoader{}, fmt.Errorf("delimiter must be a single character, got %q", delimiter)
	}
	return CSVLoader{Comma: r}, nil
}

// Load implements dataset.Loader.
func (l CSVLoader) Load(ctx context.Context, path string) ([]model.RentalRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()
	return l.read(ctx, f)
}

func (l CSVLoader) read(ctx context.Context, r io.Reader) ([]model.RentalRecord, error) {
	cr := csv.NewReader(r)
	if l.Comma != 0 {
		cr.Comma = l.Comma
	}
	cr.FieldsPerRecord = -1
	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("empty file")
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	var rows [][]string
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}
	return coredataset.ParseTable(header, rows)
}
