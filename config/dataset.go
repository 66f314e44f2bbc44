package config

import (
	"fmt"

	"github.com/robfig/cron/v3"

	"github.com/kilianp07/rentalfriction/core/dataset"
)

// DatasetConfig locates the rental table.
type DatasetConfig struct {
	Path string `json:"path"`
	// Format is "xlsx" or "csv". Empty means the file extension decides.
	Format string `json:"format"`
	// Options are passed to the loader: "sheet" for xlsx, "delimiter" for csv.
	Options map[string]any `json:"options"`
	// ReloadSchedule is a cron spec ("0 3 * * *", "@every 6h") for periodic
	// reloads while serving. Empty disables it.
	ReloadSchedule string `json:"reload_schedule"`
}

func (c *DatasetConfig) SetDefaults() {
	if c.Path == "" {
		c.Path = "get_around_delay_analysis.xlsx"
	}
}

func (c DatasetConfig) Validate() error {
	if c.Path == "" {
		return fmt.Errorf("path is required")
	}
	if c.ReloadSchedule != "" {
		if _, err := cron.ParseStandard(c.ReloadSchedule); err != nil {
			return fmt.Errorf("reload_schedule: %w", err)
		}
	}
	switch f := c.Source().ResolvedFormat(); f {
	case "xlsx", "csv":
		return nil
	default:
		return fmt.Errorf("unsupported format %q", f)
	}
}

// Source converts the section into a cache identity.
func (c DatasetConfig) Source() dataset.Source {
	return dataset.Source{Path: c.Path, Format: c.Format, Options: c.Options}
}
