package core

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// DefaultSearchLimit is used when a query carries no explicit limit.
const DefaultSearchLimit = 20

// MaxSearchLimit is the largest limit the backend accepts.
const MaxSearchLimit = 100

// SearchPath is the path of the search screen on the web client.
const SearchPath = "/projects/search"

// SearchQuery describes one project search.
type SearchQuery struct {
	Text        string     `json:"q,omitempty"`
	Difficulty  Difficulty `json:"difficulty,omitempty"`
	Source      Source     `json:"source,omitempty"`
	UseSemantic bool       `json:"use_semantic"`
	Limit       int        `json:"limit,omitempty"`
}

// Validate checks filter values and the limit range.
func (q SearchQuery) Validate() error {
	if _, err := ParseDifficulty(string(q.Difficulty)); err != nil {
		return err
	}
	if _, err := ParseSource(string(q.Source)); err != nil {
		return err
	}
	if q.Limit < 0 || q.Limit > MaxSearchLimit {
		return fmt.Errorf("limit must be between 1 and %d", MaxSearchLimit)
	}
	return nil
}

// IsEmpty reports whether the query has neither text nor filters.
func (q SearchQuery) IsEmpty() bool {
	return strings.TrimSpace(q.Text) == "" && q.Difficulty == "" && q.Source == ""
}

// Values encodes the query as backend search parameters.
func (q SearchQuery) Values() url.Values {
	v := url.Values{}
	if t := strings.TrimSpace(q.Text); t != "" {
		v.Set("q", t)
	}
	if q.Difficulty != "" {
		v.Set("difficulty", strings.ToLower(string(q.Difficulty)))
	}
	if q.Source != "" {
		v.Set("source", strings.ToLower(string(q.Source)))
	}
	v.Set("use_semantic", strconv.FormatBool(q.UseSemantic))
	limit := q.Limit
	if limit <= 0 {
		limit = DefaultSearchLimit
	}
	v.Set("limit", strconv.Itoa(limit))
	return v
}

// LinkValues encodes the query as the parameters of a shareable search link.
// Empty filters are omitted.
func (q SearchQuery) LinkValues() url.Values {
	v := url.Values{}
	if t := strings.TrimSpace(q.Text); t != "" {
		v.Set("q", t)
	}
	if q.Difficulty != "" {
		v.Set("difficulty", string(q.Difficulty))
	}
	if q.Source != "" {
		v.Set("source", string(q.Source))
	}
	v.Set("semantic", strconv.FormatBool(q.UseSemantic))
	return v
}

// Filters describes the filters and search mode, e.g. "beginner, GitHub, semantic".
func (q SearchQuery) Filters() string {
	var parts []string
	if q.Difficulty != "" {
		parts = append(parts, string(q.Difficulty))
	}
	if q.Source != "" {
		parts = append(parts, q.Source.DisplayName())
	}
	if q.UseSemantic {
		parts = append(parts, "semantic")
	} else {
		parts = append(parts, "keyword")
	}
	return strings.Join(parts, ", ")
}

// ShareLink builds a link to the search screen that reproduces this query.
func (q SearchQuery) ShareLink(webBase string) string {
	return strings.TrimRight(webBase, "/") + SearchPath + "?" + q.LinkValues().Encode()
}

// ErrNotSearchLink is returned when a link does not point at the search screen.
var ErrNotSearchLink = errors.New("not a project search link")

// ParseSearchLink reads a shared search link back into a query. A bare query
// string ("q=...&source=...") is accepted as well.
func ParseSearchLink(link string) (SearchQuery, error) {
	link = strings.TrimSpace(link)
	var values url.Values
	if strings.Contains(link, "://") || strings.HasPrefix(link, "/") {
		u, err := url.Parse(link)
		if err != nil {
			return SearchQuery{}, fmt.Errorf("parse link: %w", err)
		}
		if !strings.HasSuffix(strings.TrimRight(u.Path, "/"), SearchPath) {
			return SearchQuery{}, ErrNotSearchLink
		}
		values = u.Query()
	} else {
		v, err := url.ParseQuery(strings.TrimPrefix(link, "?"))
		if err != nil {
			return SearchQuery{}, fmt.Errorf("parse link: %w", err)
		}
		values = v
	}
	return QueryFromValues(values)
}

// QueryFromValues builds a query from link parameters. "All" filters are
// treated as absent, and semantic search is on only when "semantic=true".
func QueryFromValues(v url.Values) (SearchQuery, error) {
	diff, err := ParseDifficulty(v.Get("difficulty"))
	if err != nil {
		return SearchQuery{}, err
	}
	src, err := ParseSource(v.Get("source"))
	if err != nil {
		return SearchQuery{}, err
	}
	q := SearchQuery{
		Text:        v.Get("q"),
		Difficulty:  diff,
		Source:      src,
		UseSemantic: v.Get("semantic") == "true",
	}
	if l := v.Get("limit"); l != "" {
		n, err := strconv.Atoi(l)
		if err != nil {
			return SearchQuery{}, fmt.Errorf("invalid limit %q", l)
		}
		q.Limit = n
	}
	return q, q.Validate()
}
