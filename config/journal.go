package config

import (
	"fmt"
)

// JournalConfig defines where predictions are recorded.
type JournalConfig struct {
	// Backend selects the store type: "jsonl", "sqlite" or "none".
	Backend string `json:"backend"`
	// Path is the file location of the store.
	Path string `json:"path"`
	// Token guards GET /api/predictions. Empty leaves the route open.
	Token string `json:"token"`
	// Buffer is the event bus capacity per subscriber.
	Buffer int `json:"buffer"`
}

// SetDefaults applies sane defaults.
func (c *JournalConfig) SetDefaults() {
	if c.Backend == "" {
		c.Backend = "jsonl"
	}
	if c.Path == "" {
		switch c.Backend {
		case "sqlite":
			c.Path = "predictions.db"
		default:
			c.Path = "predictions.jsonl"
		}
	}
	if c.Buffer <= 0 {
		c.Buffer = 64
	}
}

// Enabled reports whether predictions are persisted.
func (c JournalConfig) Enabled() bool { return c.Backend != "none" }

// Validate checks mandatory fields.
func (c JournalConfig) Validate() error {
	switch c.Backend {
	case "jsonl", "sqlite":
	case "none":
		return nil
	default:
		return fmt.Errorf("unknown backend %s", c.Backend)
	}
	if c.Path == "" {
		return fmt.Errorf("path is required")
	}
	return nil
}
