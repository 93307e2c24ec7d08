package client

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"solarops/internal/api"
)

// apiBasePath is the versioned prefix of the monitoring API.
const apiBasePath = "/api/v1"

// maxErrorBodySize bounds how much of an error response body is read
// when extracting the detail message.
const maxErrorBodySize = 64 * 1024

// Config configures the API client.
type Config struct {
	// Endpoint is the API base URL without the /api/v1 suffix.
	Endpoint string

	// Timeout is the per-request timeout. Zero means no timeout.
	Timeout time.Duration

	// InsecureSkipVerify disables TLS certificate verification.
	InsecureSkipVerify bool

	// Tokens supplies the bearer token for the transport.
	Tokens api.TokenReader

	// Navigator receives 401 redirect requests. Optional.
	Navigator api.Navigator

	// Sessions is invalidated on 401 responses. Optional.
	Sessions api.SessionInvalidator
}

// Client is the shared request plumbing for all resource clients.
type Client struct {
	baseURL    *url.URL
	httpClient *http.Client
}

// New creates a client for the given endpoint. The returned client is
// safe for concurrent use.
func New(cfg Config) (*Client, error) {
	base, err := url.Parse(strings.TrimRight(cfg.Endpoint, "/") + apiBasePath)
	if err != nil {
		return nil, fmt.Errorf("invalid endpoint %q: %w", cfg.Endpoint, err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("invalid endpoint %q: scheme must be http or https", cfg.Endpoint)
	}

	var inner http.RoundTripper
	if cfg.InsecureSkipVerify {
		inner = &http.Transport{
			TLSClientConfig: &tls.Config{InsecureSkipVerify: true}, // #nosec G402 -- explicit opt-in for lab plants
		}
	}

	return &Client{
		baseURL: base,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
			Transport: &Transport{
				Base:      inner,
				Tokens:    cfg.Tokens,
				Navigator: cfg.Navigator,
				Sessions:  cfg.Sessions,
			},
		},
	}, nil
}

// BaseURL returns the resolved API base URL (including /api/v1).
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

// HTTPClient exposes the underlying http.Client for callers that need
// raw access, such as the OAuth2 password exchange.
func (c *Client) HTTPClient() *http.Client {
	return c.httpClient
}

// do performs one API request. path is relative to /api/v1. body (when
// non-nil) is JSON-encoded; out (when non-nil) receives the decoded
// response. Non-2xx responses are returned as *APIError.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	u := *c.baseURL
	u.Path = strings.TrimRight(u.Path, "/") + path
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), reqBody)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeAPIError(resp)
	}

	if out == nil {
		// Drain so the connection can be reused.
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// decodeAPIError turns a non-2xx response into an *APIError, pulling
// the backend's {"detail": ...} message when present.
func decodeAPIError(resp *http.Response) error {
	apiErr := &APIError{StatusCode: resp.StatusCode}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodySize))
	if err != nil {
		return apiErr
	}

	var payload struct {
		Detail string `json:"detail"`
	}
	if json.Unmarshal(data, &payload) == nil && payload.Detail != "" {
		apiErr.Detail = payload.Detail
	} else if trimmed := strings.TrimSpace(string(data)); trimmed != "" && len(trimmed) < 200 {
		apiErr.Detail = trimmed
	}
	return apiErr
}

// intQuery adds a positive integer query parameter.
func intQuery(q url.Values, key string, v int) {
	if v > 0 {
		q.Set(key, fmt.Sprintf("%d", v))
	}
}

// strQuery adds a non-empty string query parameter.
func strQuery(q url.Values, key, v string) {
	if v != "" {
		q.Set(key, v)
	}
}
