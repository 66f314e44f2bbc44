package config

import (
	"fmt"
	"time"

	"github.com/kilianp07/rentalfriction/auth"
)

const (
	PricingLocal    = "local"
	PricingRemote   = "remote"
	PricingDisabled = "disabled"
)

// PricingConfig selects where prices come from.
type PricingConfig struct {
	// Mode is "local", "remote" or "disabled".
	Mode string `json:"mode"`
	// ModelPath is the fitted pipeline artifact used in local mode.
	ModelPath string              `json:"model_path"`
	Remote    RemotePricingConfig `json:"remote"`
}

// RemotePricingConfig points at a remote /predict endpoint.
type RemotePricingConfig struct {
	URL            string `json:"url"`
	TimeoutSeconds int    `json:"timeout_seconds"`
	ClientID       string `json:"client_id"`
	ClientSecret   string `json:"client_secret"`
	TokenURL       string `json:"token_url"`
}

func (c *PricingConfig) SetDefaults() {
	if c.Mode == "" {
		c.Mode = PricingLocal
	}
	if c.ModelPath == "" {
		c.ModelPath = "model.json"
	}
	if c.Remote.TimeoutSeconds <= 0 {
		c.Remote.TimeoutSeconds = 10
	}
}

func (c PricingConfig) Validate() error {
	switch c.Mode {
	case PricingLocal:
		if c.ModelPath == "" {
			return fmt.Errorf("model_path is required in local mode")
		}
	case PricingRemote:
		if c.Remote.URL == "" {
			return fmt.Errorf("remote.url is required in remote mode")
		}
		return c.Remote.Auth().Validate()
	case PricingDisabled:
	default:
		return fmt.Errorf("unknown mode %q", c.Mode)
	}
	return nil
}

// Auth returns the OAuth2 settings of the remote endpoint.
func (c RemotePricingConfig) Auth() auth.Conf {
	return auth.Conf{ClientID: c.ClientID, ClientSecret: c.ClientSecret, TokenURL: c.TokenURL}
}

func (c RemotePricingConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}
