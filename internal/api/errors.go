package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/rabiazulfiqar1/Content-Based-RS/internal/transport"
)

// ErrNotFound matches any 404 from the backend via errors.Is.
var ErrNotFound = errors.New("not found")

// Error is a non-success response from the backend.
type Error struct {
	Status int
	Detail string
}

func (e *Error) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("API error (status %d)", e.Status)
	}
	return fmt.Sprintf("API error (status %d): %s", e.Status, e.Detail)
}

// Is lets errors.Is(err, ErrNotFound) match a 404.
func (e *Error) Is(target error) bool {
	return target == ErrNotFound && e.Status == http.StatusNotFound
}

// errorFromResponse builds an *Error from a non-2xx response. FastAPI puts a
// string or a list of validation errors under "detail".
func errorFromResponse(resp *transport.Response) *Error {
	apiErr := &Error{Status: resp.Status()}

	var body struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(resp.Body(), &body); err != nil || len(body.Detail) == 0 {
		apiErr.Detail = strings.TrimSpace(string(resp.Body()))
		if len(apiErr.Detail) > 200 {
			apiErr.Detail = apiErr.Detail[:200]
		}
		return apiErr
	}

	var detail string
	if err := json.Unmarshal(body.Detail, &detail); err == nil {
		apiErr.Detail = detail
		return apiErr
	}

	var validation []struct {
		Loc []any  `json:"loc"`
		Msg string `json:"msg"`
	}
	if err := json.Unmarshal(body.Detail, &validation); err == nil {
		msgs := make([]string, 0, len(validation))
		for _, v := range validation {
			if len(v.Loc) > 0 {
				msgs = append(msgs, fmt.Sprintf("%v: %s", v.Loc[len(v.Loc)-1], v.Msg))
			} else {
				msgs = append(msgs, v.Msg)
			}
		}
		apiErr.Detail = strings.Join(msgs, "; ")
		return apiErr
	}

	apiErr.Detail = string(body.Detail)
	return apiErr
}

// StatusOf returns the HTTP status carried by err, or 0.
func StatusOf(err error) int {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Status
	}
	return 0
}
