package dataset

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/kilianp07/rentalfriction/core/model"
)

// ErrLoad wraps every failure to obtain a dataset. No partial data is ever
// returned alongside it.
var ErrLoad = errors.New("dataset load failed")

// Source identifies a dataset file and how to read it.
type Source struct {
	Path string `json:"path"`
	// Format is the loader type. Empty means "derive from the file extension".
	Format  string         `json:"format"`
	Options map[string]any `json:"options"`
}

// ResolvedFormat returns Format or the lower-cased file extension.
func (s Source) ResolvedFormat() string {
	if s.Format != "" {
		return strings.ToLower(s.Format)
	}
	return strings.TrimPrefix(strings.ToLower(filepath.Ext(s.Path)), ".")
}

// ID is the cache identity of the source: format, path and the loader
// options in key order, e.g. "xlsx:rentals.xlsx?sheet=rentals_data".
func (s Source) ID() string {
	id := s.ResolvedFormat() + ":" + s.Path
	if len(s.Options) == 0 {
		return id
	}
	keys := make([]string, 0, len(s.Options))
	for k := range s.Options {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	opts := make([]string, len(keys))
	for i, k := range keys {
		opts[i] = fmt.Sprintf("%s=%v", k, s.Options[k])
	}
	return id + "?" + strings.Join(opts, "&")
}

// Loader reads every rental of a source.
type Loader interface {
	Load(ctx context.Context, path string) ([]model.RentalRecord, error)
}

// Dataset is a loaded, immutable set of rentals. Records is shared between
// concurrent readers and must never be modified.
type Dataset struct {
	Source   string
	Records  []model.RentalRecord
	LoadedAt time.Time
}

// checkUnique enforces that rental ids are unique so that a previous rental
// reference resolves to at most one record.
func checkUnique(records []model.RentalRecord) error {
	seen := make(map[int64]struct{}, len(records))
	for _, r := range records {
		if _, dup := seen[r.RentalID]; dup {
			return fmt.Errorf("duplicate rental_id %d", r.RentalID)
		}
		seen[r.RentalID] = struct{}{}
	}
	return nil
}
