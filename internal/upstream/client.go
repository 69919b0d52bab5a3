// Package upstream talks to the examination-board API. It owns the three
// concerns every domain service composes: the HTTP client adapter, the
// bounded retry policy, and the failure classifier that turns transport
// errors into the closed taxonomy exposed to callers.
package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"exam-portal/internal/platform/config"
)

// maxBodyBytes bounds upstream responses; admit-card payloads are a few KB.
const maxBodyBytes = 4 << 20

// Client issues requests against the upstream API with a fixed per-request
// timeout and default headers. It reports non-2xx responses as *StatusError
// so the retry policy and classifier can inspect the status.
type Client struct {
	http      *http.Client
	userAgent string
}

// NewClient builds a client from the shared upstream configuration.
func NewClient(cfg config.Upstream) *Client {
	return &Client{
		http:      &http.Client{Timeout: cfg.Timeout},
		userAgent: cfg.UserAgent,
	}
}

// Get fetches url and returns the raw response body.
func (c *Client) Get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build upstream request: %w", err)
	}
	return c.do(req)
}

// PostJSON posts body as JSON to url and returns the raw response body.
func (c *Client) PostJSON(ctx context.Context, url string, body any) ([]byte, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("encode upstream request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("build upstream request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req)
}

func (c *Client) do(req *http.Request) ([]byte, error) {
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("read upstream response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, newStatusError(resp.StatusCode, body)
	}
	return body, nil
}

// StatusError is a non-2xx upstream response. Message carries the upstream
// envelope's message field when the body parsed as JSON; Body keeps the raw
// payload for internal logging only.
type StatusError struct {
	Status  int
	Body    []byte
	Message string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("upstream returned status %d", e.Status)
}

func newStatusError(status int, body []byte) *StatusError {
	se := &StatusError{Status: status, Body: body}
	var envelope struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &envelope); err == nil {
		se.Message = envelope.Message
	}
	return se
}
