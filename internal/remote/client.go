// Package remote is an HTTP client for image-to-image model services, such
// as background removal. A Client satisfies retouch.Transformer.
//
// The service receives the image as the raw request body and answers with
// the encoded result:
//
//	POST <endpoint>
//	Content-Type: image/png
//
//	200 OK
//	Content-Type: image/png
package remote

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
)

// DefaultTimeout bounds a single request when no other timeout is set.
const DefaultTimeout = 60 * time.Second

// MaxResponseBytes caps the size of a result image.
const MaxResponseBytes = 64 << 20

// Errors returned by Client.
var (
	// ErrEmptyResponse is returned when the service answers with no body.
	ErrEmptyResponse = errors.New("remote: empty response")

	// ErrResponseTooLarge is returned when the result exceeds MaxResponseBytes.
	ErrResponseTooLarge = errors.New("remote: response too large")
)

// StatusError reports a non-2xx answer.
type StatusError struct {
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("remote: status %d", e.Code)
	}
	return fmt.Sprintf("remote: status %d: %s", e.Code, e.Message)
}

// Client posts images to a model endpoint.
type Client struct {
	endpoint string
	apiKey   string
	http     *http.Client
	logger   *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithTimeout sets the per-request timeout of the default HTTP client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.http = &http.Client{Timeout: d} }
}

// WithAPIKey sends key as a bearer token.
func WithAPIKey(key string) Option {
	return func(c *Client) { c.apiKey = key }
}

// WithLogger sets the logger. The default, and nil, discard everything.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// New returns a client for endpoint.
func New(endpoint string, opts ...Option) *Client {
	c := &Client{
		endpoint: endpoint,
		http:     &http.Client{Timeout: DefaultTimeout},
		logger:   slog.New(slog.DiscardHandler),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Transform posts a PNG image and returns the encoded result.
func (c *Client) Transform(ctx context.Context, image []byte) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(image))
	if err != nil {
		return nil, fmt.Errorf("remote: create request: %w", err)
	}
	req.Header.Set("Content-Type", "image/png")
	req.Header.Set("Accept", "image/*")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	c.logger.Debug("remote: sending", "url", c.endpoint, "bytes", len(image))
	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("remote: request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, &StatusError{Code: resp.StatusCode, Message: string(bytes.TrimSpace(msg))}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, MaxResponseBytes+1))
	if err != nil {
		return nil, fmt.Errorf("remote: read response: %w", err)
	}
	switch {
	case len(body) == 0:
		return nil, ErrEmptyResponse
	case len(body) > MaxResponseBytes:
		return nil, ErrResponseTooLarge
	}

	c.logger.Debug("remote: received",
		"url", c.endpoint,
		"status", resp.StatusCode,
		"bytes", len(body),
		"elapsed", time.Since(start))
	return body, nil
}
