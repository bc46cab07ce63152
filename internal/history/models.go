package history

import (
	"time"

	"github.com/rabiazulfiqar1/Content-Based-RS/internal/core"
)

// Entry is one recorded project search.
type Entry struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	UserID    string    `json:"user_id,omitempty"`

	Query       core.SearchQuery `json:"query"`
	ResultCount int              `json:"result_count"`
	SearchType  string           `json:"search_type,omitempty"`

	// Runs counts how many times the same query was recorded.
	Runs int `json:"runs"`
}

// Key identifies equivalent queries: two entries with the same key are the
// same search.
func (e Entry) Key() string {
	return e.Query.LinkValues().Encode()
}

// QueryOptions filters and pages history listings.
type QueryOptions struct {
	UserID string
	Text   string // substring of the query text
	Source core.Source
	After  time.Time
	Before time.Time

	Limit  int // 0 = no limit
	Offset int
}

// Stats summarises the stored history.
type Stats struct {
	TotalEntries  int64                 `json:"total_entries"`
	TotalRuns     int64                 `json:"total_runs"`
	SemanticCount int64                 `json:"semantic_count"`
	OldestEntry   time.Time             `json:"oldest_entry"`
	NewestEntry   time.Time             `json:"newest_entry"`
	SourceCounts  map[core.Source]int64 `json:"source_counts"`
}

// PruneOptions selects entries to remove. The first non-zero criterion wins.
type PruneOptions struct {
	OlderThan time.Duration
	Before    time.Time
	KeepLast  int
}

// PruneResult reports what Prune removed.
type PruneResult struct {
	DeletedCount int64 `json:"deleted_count"`
}
