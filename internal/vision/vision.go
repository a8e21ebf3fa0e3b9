// Package vision talks to the external image recognition service that turns
// an item photo into a free-text description and category label. The rest
// of the system treats it as an opaque description source.
package vision

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/najdeno/najdeno/internal/metrics"
)

// Description is the provider's answer for one image.
type Description struct {
	Description string  `json:"description"`
	Category    string  `json:"category"`
	Confidence  float64 `json:"confidence"`
}

// Describer produces a textual description for an image.
type Describer interface {
	Describe(ctx context.Context, image []byte, mime string) (*Description, error)
}

// UpstreamError wraps a failure of the description provider so callers can
// distinguish it from their own input errors. The raw provider error is
// wrapped, not leaked into user-facing messages.
type UpstreamError struct {
	Err error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("image description provider: %v", e.Err)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

// Disabled is the Describer used when no provider is configured. Every call
// fails as an upstream error.
type Disabled struct{}

func (Disabled) Describe(context.Context, []byte, string) (*Description, error) {
	return nil, &UpstreamError{Err: errors.New("image recognition not configured")}
}

// Client is an HTTP Describer.
type Client struct {
	BaseURL    string
	APIKey     string
	HTTPClient *http.Client
}

// NewClient creates a client with a tuned transport and sane timeouts.
func NewClient(baseURL, apiKey string) *Client {
	tr := &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		DialContext:         (&net.Dialer{Timeout: 5 * time.Second, KeepAlive: 60 * time.Second}).DialContext,
		MaxIdleConns:        10,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 5 * time.Second,
	}
	return &Client{
		BaseURL:    baseURL,
		APIKey:     apiKey,
		HTTPClient: &http.Client{Timeout: 30 * time.Second, Transport: tr},
	}
}

// Describe posts image bytes to the provider and decodes its answer.
func (c *Client) Describe(ctx context.Context, image []byte, mime string) (*Description, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.BaseURL+"/v1/describe", bytes.NewReader(image))
	if err != nil {
		return nil, &UpstreamError{Err: fmt.Errorf("building request: %w", err)}
	}
	req.Header.Set("Content-Type", mime)
	if c.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.APIKey)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		metrics.VisionRequests.WithLabelValues("error").Inc()
		return nil, &UpstreamError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		metrics.VisionRequests.WithLabelValues("error").Inc()
		return nil, &UpstreamError{Err: fmt.Errorf("unexpected status %d", resp.StatusCode)}
	}

	var desc Description
	if err := json.NewDecoder(resp.Body).Decode(&desc); err != nil {
		metrics.VisionRequests.WithLabelValues("error").Inc()
		return nil, &UpstreamError{Err: fmt.Errorf("decoding response: %w", err)}
	}

	metrics.VisionRequests.WithLabelValues("ok").Inc()
	return &desc, nil
}
