// Package api is the client for the recommendation backend's REST API.
package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/rabiazulfiqar1/Content-Based-RS/internal/transport"
)

// Client talks to the backend. Every call is a single attempt.
type Client struct {
	http *transport.Client
}

// NewClient creates a client for the backend rooted at baseURL
// (for example http://localhost:8000/api).
func NewClient(baseURL string, opts ...transport.Option) *Client {
	opts = append([]transport.Option{transport.WithBaseURL(baseURL)}, opts...)
	return &Client{http: transport.NewClient(opts...)}
}

// BaseURL returns the backend root.
func (c *Client) BaseURL() string {
	return c.http.BaseURL()
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, result any) error {
	req, err := transport.NewRequest(method, path)
	if err != nil {
		return err
	}
	if query != nil {
		req.WithQuery(query)
	}
	if body != nil {
		if err := req.SetJSONBody(body); err != nil {
			return err
		}
	}

	resp, err := c.http.Do(ctx, req)
	if err != nil {
		return err
	}
	return handleResponse(resp, result)
}

func (c *Client) get(ctx context.Context, path string, query url.Values, result any) error {
	return c.do(ctx, http.MethodGet, path, query, nil, result)
}

func handleResponse(resp *transport.Response, result any) error {
	if !resp.IsSuccess() {
		return errorFromResponse(resp)
	}
	if result != nil {
		if err := resp.DecodeJSON(result); err != nil {
			return fmt.Errorf("decoding response: %w", err)
		}
	}
	return nil
}

// HealthStatus is the response of the health endpoint.
type HealthStatus struct {
	Status string `json:"status"`
}

// Health checks that the backend is reachable.
func (c *Client) Health(ctx context.Context) (HealthStatus, error) {
	var out HealthStatus
	if err := c.get(ctx, "/health", nil, &out); err != nil {
		return HealthStatus{}, err
	}
	return out, nil
}

func pathf(format string, args ...any) string {
	escaped := make([]any, len(args))
	for i, a := range args {
		if s, ok := a.(string); ok {
			escaped[i] = url.PathEscape(s)
		} else {
			escaped[i] = a
		}
	}
	return fmt.Sprintf(format, escaped...)
}
