package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/rabiazulfiqar1/Content-Based-RS/internal/core"
	"github.com/rabiazulfiqar1/Content-Based-RS/internal/history"
)

// Store implements history.Store using SQLite.
type Store struct {
	mu     sync.RWMutex
	db     *sql.DB
	closed bool
	now    func() time.Time
}

// New creates a new SQLite-based history store.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return open(db)
}

// NewInMemory creates a new in-memory SQLite store (useful for testing).
func NewInMemory() (*Store, error) {
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		return nil, fmt.Errorf("failed to open in-memory database: %w", err)
	}
	// Every connection to :memory: is a separate database.
	db.SetMaxOpenConns(1)
	return open(db)
}

func open(db *sql.DB) (*Store, error) {
	store := &Store{db: db, now: time.Now}
	if err := store.initialize(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	return store, nil
}

// initialize creates the necessary tables and indexes.
func (s *Store) initialize() error {
	schema := `
		CREATE TABLE IF NOT EXISTS searches (
			id TEXT PRIMARY KEY,
			timestamp INTEGER NOT NULL,
			user_id TEXT NOT NULL DEFAULT '',
			query_key TEXT NOT NULL,
			text TEXT NOT NULL DEFAULT '',
			difficulty TEXT NOT NULL DEFAULT '',
			source TEXT NOT NULL DEFAULT '',
			use_semantic INTEGER NOT NULL DEFAULT 0,
			result_limit INTEGER NOT NULL DEFAULT 0,
			result_count INTEGER NOT NULL DEFAULT 0,
			search_type TEXT NOT NULL DEFAULT '',
			runs INTEGER NOT NULL DEFAULT 1
		);

		CREATE UNIQUE INDEX IF NOT EXISTS idx_searches_key ON searches(user_id, query_key);
		CREATE INDEX IF NOT EXISTS idx_searches_timestamp ON searches(timestamp DESC);
	`
	_, err := s.db.Exec(schema)
	return err
}

const selectColumns = `
	SELECT id, timestamp, user_id, text, difficulty, source, use_semantic,
		result_limit, result_count, search_type, runs
	FROM searches`

// Add records a search. A query already stored for the same user is moved
// to the top and its run count incremented.
func (s *Store) Add(ctx context.Context, entry history.Entry) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return "", history.ErrStoreClosed
	}
	if entry.Query.IsEmpty() {
		return "", history.ErrEmptyQuery
	}

	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	if entry.Timestamp.IsZero() {
		entry.Timestamp = s.now()
	}
	q := entry.Query

	var id string
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO searches (
			id, timestamp, user_id, query_key, text, difficulty, source,
			use_semantic, result_limit, result_count, search_type, runs
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, 1)
		ON CONFLICT(user_id, query_key) DO UPDATE SET
			timestamp = excluded.timestamp,
			result_limit = excluded.result_limit,
			result_count = excluded.result_count,
			search_type = excluded.search_type,
			runs = searches.runs + 1
		RETURNING id
	`,
		entry.ID, entry.Timestamp.UnixNano(), entry.UserID, entry.Key(),
		strings.TrimSpace(q.Text), string(q.Difficulty), string(q.Source),
		q.UseSemantic, q.Limit, entry.ResultCount, entry.SearchType,
	).Scan(&id)
	if err != nil {
		return "", fmt.Errorf("failed to record search: %w", err)
	}

	return id, nil
}

// Get retrieves a single entry by ID.
func (s *Store) Get(ctx context.Context, id string) (history.Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return history.Entry{}, history.ErrStoreClosed
	}
	if id == "" {
		return history.Entry{}, history.ErrInvalidID
	}

	row := s.db.QueryRowContext(ctx, selectColumns+" WHERE id = ?", id)
	entry, err := scanEntry(row)
	if err == sql.ErrNoRows {
		return history.Entry{}, history.ErrNotFound
	}
	if err != nil {
		return history.Entry{}, fmt.Errorf("failed to get search: %w", err)
	}

	return entry, nil
}

// List returns entries newest first.
func (s *Store) List(ctx context.Context, opts history.QueryOptions) ([]history.Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, history.ErrStoreClosed
	}

	where, args := buildWhere(opts)
	query := selectColumns + where + " ORDER BY timestamp DESC"
	if opts.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, opts.Limit)
		if opts.Offset > 0 {
			query += " OFFSET ?"
			args = append(args, opts.Offset)
		}
	} else if opts.Offset > 0 {
		query += " LIMIT -1 OFFSET ?"
		args = append(args, opts.Offset)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list searches: %w", err)
	}
	defer rows.Close()

	var entries []history.Entry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan search: %w", err)
		}
		entries = append(entries, entry)
	}

	return entries, rows.Err()
}

// Count returns the number of entries matching opts.
func (s *Store) Count(ctx context.Context, opts history.QueryOptions) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return 0, history.ErrStoreClosed
	}

	where, args := buildWhere(opts)
	var count int64
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM searches"+where, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count searches: %w", err)
	}

	return count, nil
}

// Delete removes an entry by ID.
func (s *Store) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return history.ErrStoreClosed
	}

	result, err := s.db.ExecContext(ctx, "DELETE FROM searches WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete search: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return history.ErrNotFound
	}

	return nil
}

// Prune removes old entries. OlderThan takes precedence over Before, which
// takes precedence over KeepLast.
func (s *Store) Prune(ctx context.Context, opts history.PruneOptions) (history.PruneResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return history.PruneResult{}, history.ErrStoreClosed
	}

	var (
		res sql.Result
		err error
	)
	switch {
	case opts.OlderThan > 0:
		cutoff := s.now().Add(-opts.OlderThan)
		res, err = s.db.ExecContext(ctx, "DELETE FROM searches WHERE timestamp < ?", cutoff.UnixNano())
	case !opts.Before.IsZero():
		res, err = s.db.ExecContext(ctx, "DELETE FROM searches WHERE timestamp < ?", opts.Before.UnixNano())
	case opts.KeepLast > 0:
		res, err = s.db.ExecContext(ctx, `
			DELETE FROM searches WHERE id NOT IN (
				SELECT id FROM searches ORDER BY timestamp DESC LIMIT ?
			)
		`, opts.KeepLast)
	default:
		return history.PruneResult{}, nil
	}
	if err != nil {
		return history.PruneResult{}, fmt.Errorf("failed to prune history: %w", err)
	}

	var result history.PruneResult
	result.DeletedCount, _ = res.RowsAffected()
	return result, nil
}

// Stats returns aggregate statistics about the history.
func (s *Store) Stats(ctx context.Context) (history.Stats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return history.Stats{}, history.ErrStoreClosed
	}

	stats := history.Stats{SourceCounts: make(map[core.Source]int64)}

	var oldest, newest sql.NullInt64
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*), COALESCE(SUM(runs), 0), COALESCE(SUM(use_semantic), 0),
			MIN(timestamp), MAX(timestamp)
		FROM searches
	`).Scan(&stats.TotalEntries, &stats.TotalRuns, &stats.SemanticCount, &oldest, &newest)
	if err != nil {
		return stats, fmt.Errorf("failed to get stats: %w", err)
	}
	if oldest.Valid {
		stats.OldestEntry = time.Unix(0, oldest.Int64)
	}
	if newest.Valid {
		stats.NewestEntry = time.Unix(0, newest.Int64)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT source, COUNT(*) FROM searches WHERE source != '' GROUP BY source
	`)
	if err != nil {
		return stats, fmt.Errorf("failed to get source counts: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var src string
		var count int64
		if err := rows.Scan(&src, &count); err != nil {
			return stats, fmt.Errorf("failed to scan source count: %w", err)
		}
		stats.SourceCounts[core.Source(src)] = count
	}

	return stats, rows.Err()
}

// Clear removes all entries.
func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return history.ErrStoreClosed
	}

	if _, err := s.db.ExecContext(ctx, "DELETE FROM searches"); err != nil {
		return fmt.Errorf("failed to clear history: %w", err)
	}

	return nil
}

// Close closes the store and releases resources.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}

	s.closed = true
	return s.db.Close()
}

// Helper functions

func buildWhere(opts history.QueryOptions) (string, []interface{}) {
	where := " WHERE 1=1"
	var args []interface{}

	if opts.UserID != "" {
		where += " AND user_id = ?"
		args = append(args, opts.UserID)
	}
	if opts.Text != "" {
		where += " AND text LIKE ?"
		args = append(args, "%"+opts.Text+"%")
	}
	if opts.Source != "" {
		where += " AND source = ?"
		args = append(args, string(opts.Source))
	}
	if !opts.After.IsZero() {
		where += " AND timestamp > ?"
		args = append(args, opts.After.UnixNano())
	}
	if !opts.Before.IsZero() {
		where += " AND timestamp < ?"
		args = append(args, opts.Before.UnixNano())
	}

	return where, args
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanEntry(row rowScanner) (history.Entry, error) {
	var (
		entry      history.Entry
		ts         int64
		difficulty string
		source     string
	)
	err := row.Scan(
		&entry.ID, &ts, &entry.UserID, &entry.Query.Text, &difficulty, &source,
		&entry.Query.UseSemantic, &entry.Query.Limit, &entry.ResultCount,
		&entry.SearchType, &entry.Runs,
	)
	if err != nil {
		return entry, err
	}
	entry.Timestamp = time.Unix(0, ts)
	entry.Query.Difficulty = core.Difficulty(difficulty)
	entry.Query.Source = core.Source(source)
	return entry, nil
}
