// Package delegate is the outbound HTTP plumbing shared by the adapters that
// call external collaborators (geocoder, router, assistant, extractor).
package delegate

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/ynmsafety/ynmops/internal/observability/metrics"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
)

const maxBodySize = 4 << 20

// ErrNotConfigured is returned by adapters whose endpoint URL is empty.
var ErrNotConfigured = errors.New("delegate_not_configured")

// StatusError reports a non-2xx response.
type StatusError struct {
	Delegate string
	Status   int
	Body     string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("%s returned %d", e.Delegate, e.Status)
	}
	return fmt.Sprintf("%s returned %d: %s", e.Delegate, e.Status, e.Body)
}

// Client wraps an *http.Client with trace propagation and delegate metrics.
type Client struct {
	name    string
	http    *http.Client
	metrics *metrics.Metrics
}

func New(name string, timeout time.Duration, m *metrics.Metrics) *Client {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		name:    name,
		http:    &http.Client{Timeout: timeout},
		metrics: m,
	}
}

// WithHTTPClient swaps the underlying client, mostly for tests.
func (c *Client) WithHTTPClient(h *http.Client) *Client {
	c.http = h
	return c
}

func (c *Client) Name() string { return c.name }

// GetJSON issues a GET and decodes the JSON response into out.
func (c *Client) GetJSON(ctx context.Context, url string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	return c.Do(req, out)
}

// PostJSON encodes in as the request body and decodes the response into out.
func (c *Client) PostJSON(ctx context.Context, url string, in, out any) error {
	payload, err := json.Marshal(in)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	return c.Do(req, out)
}

// Do sends req and decodes a JSON body into out when out is non-nil.
func (c *Client) Do(req *http.Request, out any) (err error) {
	start := time.Now()
	defer func() {
		c.metrics.RecordDelegateCall(req.Context(), c.name, time.Since(start), err)
	}()

	otel.GetTextMapPropagator().Inject(req.Context(), propagation.HeaderCarrier(req.Header))

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s: %w", c.name, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return fmt.Errorf("%s: read body: %w", c.name, err)
	}
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return &StatusError{Delegate: c.name, Status: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("%s: decode response: %w", c.name, err)
	}
	return nil
}
