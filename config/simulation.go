package config

import (
	"fmt"

	"github.com/kilianp07/rentalfriction/core/analysis"
)

// SimulationConfig holds the default sweep and threshold.
type SimulationConfig struct {
	SweepStart float64 `json:"sweep_start"`
	// SweepEnd of 0 selects the default of 300 minutes.
	SweepEnd         float64  `json:"sweep_end"`
	SweepStep        float64  `json:"sweep_step"`
	DefaultThreshold *float64 `json:"default_threshold"`
	MaxPoints        int      `json:"max_points"`
}

func (c *SimulationConfig) SetDefaults() {
	d := analysis.DefaultSettings()
	if c.SweepEnd == 0 {
		c.SweepEnd = d.SweepEnd
	}
	if c.SweepStep == 0 {
		c.SweepStep = d.SweepStep
	}
	if c.DefaultThreshold == nil {
		t := d.DefaultThreshold
		c.DefaultThreshold = &t
	}
	if c.MaxPoints == 0 {
		c.MaxPoints = d.MaxPoints
	}
}

func (c SimulationConfig) Validate() error {
	switch {
	case c.SweepStart < 0:
		return fmt.Errorf("sweep_start must be >= 0")
	case c.SweepStep <= 0:
		return fmt.Errorf("sweep_step must be > 0")
	case c.SweepEnd < c.SweepStart:
		return fmt.Errorf("sweep_end must be >= sweep_start")
	case c.DefaultThreshold != nil && *c.DefaultThreshold < 0:
		return fmt.Errorf("default_threshold must be >= 0")
	case c.MaxPoints <= 0:
		return fmt.Errorf("max_points must be > 0")
	case (c.SweepEnd-c.SweepStart)/c.SweepStep+1 > float64(c.MaxPoints):
		return fmt.Errorf("default sweep exceeds max_points %d", c.MaxPoints)
	}
	return nil
}

// Settings converts the section for the analyzer. Call after SetDefaults.
func (c SimulationConfig) Settings() analysis.Settings {
	s := analysis.Settings{
		SweepStart: c.SweepStart,
		SweepEnd:   c.SweepEnd,
		SweepStep:  c.SweepStep,
		MaxPoints:  c.MaxPoints,
	}
	if c.DefaultThreshold != nil {
		s.DefaultThreshold = *c.DefaultThreshold
	}
	return s
}
