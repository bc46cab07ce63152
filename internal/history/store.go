// Package history keeps the local record of recent project searches so a
// search can be re-run or shared again later.
package history

import (
	"context"
	"errors"
)

// Common errors
var (
	ErrNotFound    = errors.New("history entry not found")
	ErrInvalidID   = errors.New("invalid history entry ID")
	ErrStoreClosed = errors.New("history store is closed")
	ErrEmptyQuery  = errors.New("search query is empty")
)

// Store defines the interface for search history storage.
type Store interface {
	// Add records a search and returns its ID. Recording a query that is
	// already stored refreshes that entry instead of adding a new one.
	Add(ctx context.Context, entry Entry) (string, error)

	// Get retrieves a single entry by ID.
	Get(ctx context.Context, id string) (Entry, error)

	// List returns entries newest first.
	List(ctx context.Context, opts QueryOptions) ([]Entry, error)

	// Count returns the number of entries matching opts.
	Count(ctx context.Context, opts QueryOptions) (int64, error)

	// Delete removes an entry by ID.
	Delete(ctx context.Context, id string) error

	// Prune removes old entries.
	Prune(ctx context.Context, opts PruneOptions) (PruneResult, error)

	// Stats returns aggregate statistics.
	Stats(ctx context.Context) (Stats, error)

	// Clear removes all entries.
	Clear(ctx context.Context) error

	// Close releases resources.
	Close() error
}
