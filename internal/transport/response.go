package transport

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"
)

// Response is a fully read HTTP response.
type Response struct {
	requestID  string
	status     int
	statusText string
	header     http.Header
	body       []byte
	duration   time.Duration
}

// NewResponse creates a response. Used by the client and by tests.
func NewResponse(requestID string, status int, body []byte) *Response {
	return &Response{
		requestID:  requestID,
		status:     status,
		statusText: http.StatusText(status),
		header:     http.Header{},
		body:       body,
	}
}

func (r *Response) RequestID() string {
	return r.requestID
}

func (r *Response) Status() int {
	return r.status
}

func (r *Response) StatusText() string {
	return r.statusText
}

func (r *Response) Header() http.Header {
	return r.header
}

func (r *Response) Body() []byte {
	return r.body
}

func (r *Response) Duration() time.Duration {
	return r.duration
}

func (r *Response) IsSuccess() bool {
	return r.status >= 200 && r.status < 300
}

// DecodeJSON unmarshals the body into v.
func (r *Response) DecodeJSON(v any) error {
	if len(r.body) == 0 {
		return errors.New("empty response body")
	}
	if err := json.Unmarshal(r.body, v); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
