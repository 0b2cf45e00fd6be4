// Package upstream is the HTTP client for the prediction API. All model
// inference, schema ownership, and persistence live in that service; this
// package only fetches schemas and submits assembled payloads.
package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Client talks to the prediction API. The base URL is injected at
// construction, never read from ambient configuration.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient creates a prediction API client. A zero timeout disables the
// request deadline.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

// CoxSchema fetches the field schema of the Cox model.
func (c *Client) CoxSchema(ctx context.Context) (*SchemaResponse, error) {
	var out SchemaResponse
	if err := c.get(ctx, "/cox/schema", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// BayesianSchema fetches the field schema and selectable targets of the
// Bayesian network.
func (c *Client) BayesianSchema(ctx context.Context) (*SchemaResponse, error) {
	var out SchemaResponse
	if err := c.get(ctx, "/bayesian/schema", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// PredictCox submits a flat patient value map to the Cox endpoint.
func (c *Client) PredictCox(ctx context.Context, payload map[string]any) (*CoxResult, error) {
	var out CoxResult
	if err := c.post(ctx, "/cox/predict", payload, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// PredictFlexible submits patient evidence plus requested targets to the
// flexible Bayesian endpoint.
func (c *Client) PredictFlexible(ctx context.Context, payload *FlexiblePayload) (*FlexibleResult, error) {
	var out FlexibleResult
	if err := c.post(ctx, "/bayesian/predict-flexible", payload, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CoxModelInfo fetches model statistics and risk-group survival curves.
func (c *Client) CoxModelInfo(ctx context.Context) (*ModelInfo, error) {
	var out ModelInfo
	if err := c.get(ctx, "/cox/model-info", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("build request %s: %w", path, err)
	}
	return c.do(req, out)
}

func (c *Client) post(ctx context.Context, path string, body, out any) error {
	raw, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encode request %s: %w", path, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(raw))
	if err != nil {
		return fmt.Errorf("build request %s: %w", path, err)
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", req.Method, req.URL.Path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// Read a bounded slice of the body for the error message.
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("%s %s: unexpected status %d: %s",
			req.Method, req.URL.Path, resp.StatusCode, strings.TrimSpace(string(snippet)))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response %s: %w", req.URL.Path, err)
	}
	return nil
}
