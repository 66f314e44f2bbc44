// Package pricing contains the HTTP client for a remote price prediction
// service.
package pricing

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/kilianp07/rentalfriction/auth"
	"github.com/kilianp07/rentalfriction/config"
	corepricing "github.com/kilianp07/rentalfriction/core/pricing"
	"github.com/kilianp07/rentalfriction/infra/logger"
)

// maxErrorBody bounds how much of an error response is quoted in errors.
const maxErrorBody = 512

// RemoteClient forwards features to a remote /predict endpoint.
type RemoteClient struct {
	url    string
	client *http.Client
	cred   *auth.ClientCred
	log    logger.Logger
}

// NewRemoteClient creates a client. OAuth2 client credentials are used when
// the configuration names a token endpoint.
func NewRemoteClient(cfg config.RemotePricingConfig) *RemoteClient {
	c := &RemoteClient{
		url:    cfg.URL,
		client: &http.Client{Timeout: cfg.Timeout()},
		log:    logger.New("pricing-client"),
	}
	if a := cfg.Auth(); a.Enabled() {
		c.cred = auth.NewClientCred(a)
	}
	return c
}

// Name implements pricing.Predictor.
func (c *RemoteClient) Name() string { return "remote" }

// Predict implements pricing.Predictor. Validation runs locally before any
// request is sent. A 401 answer triggers one token refresh and retry.
func (c *RemoteClient) Predict(ctx context.Context, f corepricing.Features) (float64, error) {
	if err := f.Validate(); err != nil {
		return 0, err
	}
	body, err := json.Marshal(f)
	if err != nil {
		return 0, err
	}
	resp, err := c.post(ctx, body)
	if err != nil {
		return 0, err
	}
	if resp.StatusCode == http.StatusUnauthorized && c.cred != nil {
		_ = resp.Body.Close()
		c.log.Warnf("remote rejected token, refreshing")
		if _, err := c.cred.ForceRefresh(ctx); err != nil {
			return 0, fmt.Errorf("%w: %w", corepricing.ErrUnavailable, err)
		}
		if resp, err = c.post(ctx, body); err != nil {
			return 0, err
		}
	}
	defer func() { _ = resp.Body.Close() }()
	return decodePrediction(resp)
}

func (c *RemoteClient) post(ctx context.Context, body []byte) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.cred != nil {
		if err := c.cred.SetAuthHeader(req); err != nil {
			return nil, fmt.Errorf("%w: %w", corepricing.ErrUnavailable, err)
		}
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", corepricing.ErrUnavailable, err)
	}
	return resp, nil
}

func decodePrediction(resp *http.Response) (float64, error) {
	switch {
	case resp.StatusCode == http.StatusBadRequest || resp.StatusCode == http.StatusUnprocessableEntity:
		return 0, fmt.Errorf("%w: remote: %s", corepricing.ErrInvalidFeatures, readSnippet(resp.Body))
	case resp.StatusCode != http.StatusOK:
		return 0, fmt.Errorf("%w: remote status %d: %s", corepricing.ErrUnavailable, resp.StatusCode, readSnippet(resp.Body))
	}
	var out struct {
		Prediction *float64 `json:"prediction"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return 0, fmt.Errorf("%w: decode response: %w", corepricing.ErrUnavailable, err)
	}
	if out.Prediction == nil {
		return 0, fmt.Errorf("%w: response has no prediction", corepricing.ErrUnavailable)
	}
	return corepricing.Round2(*out.Prediction), nil
}

func readSnippet(r io.Reader) string {
	b, _ := io.ReadAll(io.LimitReader(r, maxErrorBody))
	return strings.TrimSpace(string(b))
}
