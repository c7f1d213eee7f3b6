// Package enhance integrates the external content-enhancement provider that
// expands a short idea into a full catalog description.
package enhance

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"
)

// ErrDisabled is returned when no provider is configured.
var ErrDisabled = errors.New("enhancer not configured")

// Enhancer expands a short free-text idea into a full description. The
// provider is opaque: a call either returns the expanded text or one failure,
// with no retries and no partial results.
type Enhancer interface {
	Enhance(ctx context.Context, idea string) (string, error)
}

// Disabled is the no-provider implementation.
type Disabled struct{}

func (Disabled) Enhance(context.Context, string) (string, error) {
	return "", ErrDisabled
}

// Client calls an HTTP enhancement endpoint.
type Client struct {
	baseURL string
	apiKey  string
	model   string
	http    *http.Client
}

// NewClient builds a provider client. baseURL is the endpoint root; model is
// passed through to the provider.
func NewClient(baseURL, apiKey, model string) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		model:   model,
		http:    &http.Client{Timeout: 30 * time.Second},
	}
}

type enhanceRequest struct {
	Model string `json:"model"`
	Input string `json:"input"`
}

type enhanceResponse struct {
	Text string `json:"text"`
}

// Enhance posts the idea to the provider and returns the expanded text. Any
// transport or provider error surfaces as a single wrapped failure.
func (c *Client) Enhance(ctx context.Context, idea string) (string, error) {
	body, err := json.Marshal(enhanceRequest{Model: c.model, Input: idea})
	if err != nil {
		return "", fmt.Errorf("enhance: encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/enhance", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("enhance: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("enhance: call provider: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("enhance: provider returned status %d", resp.StatusCode)
	}

	var out enhanceResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("enhance: decode response: %w", err)
	}
	if out.Text == "" {
		return idea, nil
	}
	return out.Text, nil
}
