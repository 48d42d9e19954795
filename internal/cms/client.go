// Package cms is an HTTP client for the Payload CMS REST API.
package cms

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/biemme2/biemme2-site/internal/content"
)

// ErrNotFound is returned when the CMS has no global for a slug.
var ErrNotFound = content.ErrNotFound

const (
	defaultTimeout  = 5 * time.Second
	maxDocumentSize = 4 << 20
)

// Client fetches global documents from a Payload server.
type Client struct {
	baseURL string
	apiKey  string
	depth   int
	http    *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithAPIKey authenticates requests with a Payload user API key.
func WithAPIKey(key string) Option {
	return func(c *Client) { c.apiKey = strings.TrimSpace(key) }
}

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithTimeout sets the per-request timeout of the default HTTP client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.http = &http.Client{Timeout: d}
		}
	}
}

// NewClient creates a client for the CMS at baseURL.
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		depth:   2,
		http:    &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the CMS server URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// GetGlobal fetches the global document with the given slug. Upload
// relations are populated two levels deep.
func (c *Client) GetGlobal(ctx context.Context, slug string) (json.RawMessage, error) {
	slug = strings.Trim(strings.TrimSpace(slug), "/")
	if slug == "" || strings.Contains(slug, "..") {
		return nil, ErrNotFound
	}
	endpoint, err := url.JoinPath(c.baseURL, "api", "globals", slug)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	q := req.URL.Query()
	q.Set("depth", fmt.Sprint(c.depth))
	req.URL.RawQuery = q.Encode()
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "users API-Key "+c.apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("cms: fetching %s: %w", slug, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusNotFound {
		return nil, ErrNotFound
	}
	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("cms: global %s: status %d", slug, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxDocumentSize+1))
	if err != nil {
		return nil, fmt.Errorf("cms: reading %s: %w", slug, err)
	}
	if len(body) > maxDocumentSize {
		return nil, fmt.Errorf("cms: global %s exceeds %d bytes", slug, maxDocumentSize)
	}
	if !json.Valid(body) {
		return nil, fmt.Errorf("cms: global %s: invalid JSON", slug)
	}
	return body, nil
}
