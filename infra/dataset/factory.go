// Package dataset provides the file readers behind core/dataset: spreadsheets
// through excelize and delimited text through encoding/csv.
package dataset

import (
	"github.com/kilianp07/rentalfriction/core/dataset"
	"github.com/kilianp07/rentalfriction/core/factory"
)

var registry = factory.NewRegistry[dataset.Loader]()

func init() {
	_ = registry.Register("xlsx", func(conf map[string]any) (dataset.Loader, error) {
		var c struct {
			Sheet string `json:"sheet"`
		}
		if err := factory.Decode(conf, &c); err != nil {
			return nil, err
		}
		return XLSXLoader{Sheet: c.Sheet}, nil
	})
	_ = registry.Register("csv", func(conf map[string]any) (dataset.Loader, error) {
		var c struct {
			Delimiter string `json:"delimiter"`
		}
		if err := factory.Decode(conf, &c); err != nil {
			return nil, err
		}
		return NewCSVLoader(c.Delimiter)
	})
}

// Resolve picks the registered loader matching the source format. It is the
// Resolver handed to the dataset cache.
func Resolve(src dataset.Source) (dataset.Loader, error) {
	return registry.Create(factory.ModuleConfig{Type: src.ResolvedFormat(), Conf: src.Options})
}
