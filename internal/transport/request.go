package transport

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/uuid"
)

// Request is an outgoing HTTP call against a backend path.
type Request struct {
	id          string
	method      string
	endpoint    string
	query       url.Values
	header      http.Header
	body        []byte
	contentType string
}

// NewRequest creates a request. The endpoint may be absolute or a path that
// the client resolves against its base URL.
func NewRequest(method, endpoint string) (*Request, error) {
	if method == "" {
		return nil, errors.New("method cannot be empty")
	}
	if endpoint == "" {
		return nil, errors.New("endpoint cannot be empty")
	}

	return &Request{
		id:       uuid.New().String(),
		method:   strings.ToUpper(method),
		endpoint: endpoint,
		query:    url.Values{},
		header:   http.Header{},
	}, nil
}

func (r *Request) ID() string {
	return r.id
}

func (r *Request) Method() string {
	return r.method
}

func (r *Request) Endpoint() string {
	return r.endpoint
}

// Query returns the live query values of the request.
func (r *Request) Query() url.Values {
	return r.query
}

// SetQuery sets a single query parameter.
func (r *Request) SetQuery(key, value string) *Request {
	r.query.Set(key, value)
	return r
}

// WithQuery merges values into the query.
func (r *Request) WithQuery(values url.Values) *Request {
	for k, vs := range values {
		for _, v := range vs {
			r.query.Add(k, v)
		}
	}
	return r
}

func (r *Request) Header() http.Header {
	return r.header
}

func (r *Request) SetHeader(key, value string) *Request {
	r.header.Set(key, value)
	return r
}

func (r *Request) Body() []byte {
	return r.body
}

func (r *Request) ContentType() string {
	return r.contentType
}

// SetJSONBody encodes v as the request body.
func (r *Request) SetJSONBody(v any) error {
	encoded, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode request body: %w", err)
	}
	r.body = encoded
	r.contentType = "application/json"
	return nil
}

// SetRawBody sets an already encoded body.
func (r *Request) SetRawBody(content []byte, contentType string) {
	r.body = content
	r.contentType = contentType
}

// URL resolves the request against base and appends the query.
func (r *Request) URL(base string) (string, error) {
	target := r.endpoint
	if !strings.Contains(target, "://") {
		if base == "" {
			return "", fmt.Errorf("relative endpoint %q without base URL", target)
		}
		target = strings.TrimRight(base, "/") + "/" + strings.TrimLeft(target, "/")
	}
	u, err := url.Parse(target)
	if err != nil {
		return "", fmt.Errorf("invalid endpoint %q: %w", target, err)
	}
	if len(r.query) > 0 {
		q := u.Query()
		for k, vs := range r.query {
			for _, v := range vs {
				q.Add(k, v)
			}
		}
		u.RawQuery = q.Encode()
	}
	return u.String(), nil
}
