package transport

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"

	"github.com/rabiazulfiqar1/Content-Based-RS/internal/logger"
)

// DefaultTimeout bounds a single request when no timeout is configured.
const DefaultTimeout = 30 * time.Second

// RequestIDHeader carries the per-request correlation id.
const RequestIDHeader = "X-Request-ID"

// Client sends requests over HTTP. It never retries.
type Client struct {
	httpClient *http.Client
	baseURL    string
	header     http.Header
	log        *log.Logger
}

// Option is a function that configures the Client.
type Option func(*Client)

// NewClient creates a new HTTP client with the given options.
func NewClient(opts ...Option) *Client {
	client := &Client{
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
		header: http.Header{},
	}

	for _, opt := range opts {
		opt(client)
	}

	return client
}

// WithTimeout sets the request timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.httpClient.Timeout = timeout
		}
	}
}

// WithTransport sets a custom round tripper.
func WithTransport(rt http.RoundTripper) Option {
	return func(c *Client) {
		c.httpClient.Transport = rt
	}
}

// WithBaseURL sets the URL relative endpoints are resolved against.
func WithBaseURL(base string) Option {
	return func(c *Client) {
		c.baseURL = base
	}
}

// WithHeader adds a header sent on every request.
func WithHeader(key, value string) Option {
	return func(c *Client) {
		c.header.Set(key, value)
	}
}

// WithLogger sets the logger used for request tracing.
func WithLogger(l *log.Logger) Option {
	return func(c *Client) {
		c.log = l
	}
}

// BaseURL returns the configured base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Timeout returns the per-request timeout.
func (c *Client) Timeout() time.Duration {
	return c.httpClient.Timeout
}

func (c *Client) logger() *log.Logger {
	if c.log != nil {
		return c.log
	}
	return logger.Default()
}

// Do executes req and reads the whole response. Non-2xx statuses are not
// errors at this layer; only failures to obtain a response are.
func (c *Client) Do(ctx context.Context, req *Request) (*Response, error) {
	start := time.Now()

	httpReq, err := c.toHTTPRequest(ctx, req)
	if err != nil {
		return nil, err
	}

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		c.logger().Warn("request failed", "method", req.Method(), "url", httpReq.URL.Redacted(), "request_id", req.ID(), "err", err)
		return nil, &Error{Op: req.Method(), URL: httpReq.URL.Redacted(), Err: err}
	}
	defer httpResp.Body.Close()

	body, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, &Error{Op: req.Method(), URL: httpReq.URL.Redacted(), Err: fmt.Errorf("read body: %w", err)}
	}

	resp := NewResponse(req.ID(), httpResp.StatusCode, body)
	resp.statusText = httpResp.Status
	resp.header = httpResp.Header
	resp.duration = time.Since(start)

	c.logger().Debug("request",
		"method", req.Method(),
		"url", httpReq.URL.Redacted(),
		"status", resp.Status(),
		"ms", resp.Duration().Milliseconds(),
		"request_id", req.ID(),
	)

	return resp, nil
}

func (c *Client) toHTTPRequest(ctx context.Context, req *Request) (*http.Request, error) {
	target, err := req.URL(c.baseURL)
	if err != nil {
		return nil, err
	}

	var bodyReader io.Reader
	if len(req.Body()) > 0 {
		bodyReader = bytes.NewReader(req.Body())
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method(), target, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	for key, values := range c.header {
		for _, v := range values {
			httpReq.Header.Add(key, v)
		}
	}
	for key, values := range req.Header() {
		httpReq.Header.Del(key)
		for _, v := range values {
			httpReq.Header.Add(key, v)
		}
	}
	if req.ContentType() != "" {
		httpReq.Header.Set("Content-Type", req.ContentType())
	}
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set(RequestIDHeader, req.ID())

	return httpReq, nil
}

// Error is a failure to obtain any response: connection refused, DNS,
// timeout or cancellation.
type Error struct {
	Op  string
	URL string
	Err error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.URL, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Timeout reports whether the failure was a deadline.
func (e *Error) Timeout() bool {
	if errors.Is(e.Err, context.DeadlineExceeded) {
		return true
	}
	var t interface{ Timeout() bool }
	return errors.As(e.Err, &t) && t.Timeout()
}

// IsTransport reports whether err is a transport failure.
func IsTransport(err error) bool {
	var te *Error
	return errors.As(err, &te)
}
