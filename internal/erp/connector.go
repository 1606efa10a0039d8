// Package erp holds the outbound adapters for the external ERP systems
// and the facade that combines them. The two systems are independent
// failure domains: LogicMate covers inventory and invoicing, Suntec the
// factory floor.
package erp

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// ErrUpstream marks any adapter failure: network error, timeout or a
// non-2xx response. Handlers translate it into an upstream_failure
// error; it is never reported as an empty result.
var ErrUpstream = errors.New("erp upstream failure")

// Connector is the uniform contract both ERP adapters implement.
// Adapters are plain structs holding configuration; there is no shared
// base type to inherit from.
type Connector interface {
	// Name identifies the adapter in merged sync results and logs.
	Name() string
	// FetchData performs a GET against the given ERP endpoint and
	// returns the decoded JSON payload.
	FetchData(ctx context.Context, endpoint string) (map[string]any, error)
	// PushData POSTs a JSON payload to the given ERP endpoint.
	PushData(ctx context.Context, endpoint string, payload any) error
}

// HTTPConnector talks to one ERP system over HTTP with a bounded
// per-call timeout.
type HTTPConnector struct {
	name    string
	baseURL string
	apiKey  string
	client  *http.Client
}

// NewHTTPConnector builds an adapter for the system reachable at
// baseURL. The timeout applies to every call made through it.
func NewHTTPConnector(name, baseURL, apiKey string, timeout time.Duration) *HTTPConnector {
	return &HTTPConnector{
		name:    name,
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		client:  &http.Client{Timeout: timeout},
	}
}

func (c *HTTPConnector) Name() string { return c.name }

func (c *HTTPConnector) url(endpoint string) string {
	if !strings.HasPrefix(endpoint, "/") {
		endpoint = "/" + endpoint
	}
	return c.baseURL + endpoint
}

func (c *HTTPConnector) do(req *http.Request) (*http.Response, error) {
	if c.apiKey != "" {
		req.Header.Set("X-Api-Key", c.apiKey)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrUpstream, c.name, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		resp.Body.Close()
		return nil, fmt.Errorf("%w: %s returned status %d", ErrUpstream, c.name, resp.StatusCode)
	}
	return resp, nil
}

// FetchData implements Connector.
func (c *HTTPConnector) FetchData(ctx context.Context, endpoint string) (map[string]any, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url(endpoint), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrUpstream, c.name, err)
	}
	resp, err := c.do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var payload map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("%w: %s sent malformed payload: %v", ErrUpstream, c.name, err)
	}
	return payload, nil
}

// PushData implements Connector.
func (c *HTTPConnector) PushData(ctx context.Context, endpoint string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url(endpoint), bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrUpstream, c.name, err)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.do(req)
	if err != nil {
		return err
	}
	resp.Body.Close()
	return nil
}
