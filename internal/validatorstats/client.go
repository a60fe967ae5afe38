// =============================================================================
// CSV to Inventory Converter - Validator Search Client
// =============================================================================
//
// This module wraps the validator search endpoint: GET <base>?q=<address>
// with a User-Agent header and a per-request timeout.
//
// =============================================================================

package validatorstats

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// =============================================================================
// HTTP CLIENT
// =============================================================================

// Client queries the validator search API.
type Client struct {
	baseURL    string
	userAgent  string
	httpClient *http.Client
}

// APIError represents a non-2xx HTTP response.
type APIError struct {
	StatusCode int
	Body       string // first 512 bytes
}

func (e *APIError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Body)
}

// Option configures Client behavior.
type Option func(*Client)

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = d
	}
}

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// NewClient creates a client for the search endpoint at baseURL.
func NewClient(baseURL, userAgent string, opts ...Option) *Client {
	c := &Client{
		baseURL:   baseURL,
		userAgent: userAgent,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// =============================================================================
// SEARCH
// =============================================================================

// SearchResponse is the subset of the search payload we use. Validator
// objects are kept loosely typed; the API mixes strings and numbers.
type SearchResponse struct {
	Validators []map[string]any `json:"validators"`
}

// Search looks up one address. Returns *APIError for non-2xx responses.
func (c *Client) Search(ctx context.Context, address string) (*SearchResponse, error) {
	fullURL := c.baseURL + "?" + url.Values{"q": {address}}.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		bodyStr := string(body)
		if len(bodyStr) > 512 {
			bodyStr = bodyStr[:512]
		}
		return nil, &APIError{StatusCode: resp.StatusCode, Body: bodyStr}
	}

	var out SearchResponse
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	if err := dec.Decode(&out); err != nil {
		return nil, fmt.Errorf("decode search response: %w", err)
	}
	return &out, nil
}
