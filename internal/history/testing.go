package history

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rabiazulfiqar1/Content-Based-RS/internal/core"
)

// RunStoreTests runs the standard store test suite against any Store implementation.
// Use this to verify that a Store implementation correctly implements the interface.
func RunStoreTests(t *testing.T, newStore func() (Store, func())) {
	t.Run("Add", func(t *testing.T) {
		runAddTests(t, newStore)
	})
	t.Run("Get", func(t *testing.T) {
		runGetTests(t, newStore)
	})
	t.Run("List", func(t *testing.T) {
		runListTests(t, newStore)
	})
	t.Run("Delete", func(t *testing.T) {
		runDeleteTests(t, newStore)
	})
	t.Run("Prune", func(t *testing.T) {
		runPruneTests(t, newStore)
	})
	t.Run("Stats", func(t *testing.T) {
		runStatsTests(t, newStore)
	})
}

func search(text string) Entry {
	return Entry{Query: core.SearchQuery{Text: text, UseSemantic: true}}
}

func at(e Entry, ts time.Time) Entry {
	e.Timestamp = ts
	return e
}

func runAddTests(t *testing.T, newStore func() (Store, func())) {
	t.Run("adds entry and returns ID", func(t *testing.T) {
		store, cleanup := newStore()
		defer cleanup()

		id, err := store.Add(context.Background(), search("react dashboard"))

		require.NoError(t, err)
		assert.NotEmpty(t, id)
	})

	t.Run("round trips every field", func(t *testing.T) {
		store, cleanup := newStore()
		defer cleanup()

		entry := Entry{
			Timestamp: time.Now().Truncate(time.Millisecond),
			UserID:    "user-1",
			Query: core.SearchQuery{
				Text:        "image classification",
				Difficulty:  core.DifficultyAdvanced,
				Source:      core.SourceKaggleCompetition,
				UseSemantic: true,
				Limit:       50,
			},
			ResultCount: 12,
			SearchType:  "semantic",
		}

		id, err := store.Add(context.Background(), entry)
		require.NoError(t, err)

		got, err := store.Get(context.Background(), id)
		require.NoError(t, err)
		assert.Equal(t, id, got.ID)
		assert.True(t, entry.Timestamp.Equal(got.Timestamp))
		assert.Equal(t, entry.UserID, got.UserID)
		assert.Equal(t, entry.Query, got.Query)
		assert.Equal(t, 12, got.ResultCount)
		assert.Equal(t, "semantic", got.SearchType)
		assert.Equal(t, 1, got.Runs)
	})

	t.Run("repeated query refreshes the entry", func(t *testing.T) {
		store, cleanup := newStore()
		defer cleanup()
		ctx := context.Background()
		base := time.Now().Add(-time.Hour)

		first, err := store.Add(ctx, at(search("go cli"), base))
		require.NoError(t, err)
		_, err = store.Add(ctx, at(search("rust"), base.Add(time.Minute)))
		require.NoError(t, err)

		again := at(search("  go cli "), base.Add(2*time.Minute))
		again.ResultCount = 7
		second, err := store.Add(ctx, again)
		require.NoError(t, err)
		assert.Equal(t, first, second)

		entries, err := store.List(ctx, QueryOptions{})
		require.NoError(t, err)
		require.Len(t, entries, 2)
		assert.Equal(t, first, entries[0].ID)
		assert.Equal(t, 2, entries[0].Runs)
		assert.Equal(t, 7, entries[0].ResultCount)
	})

	t.Run("same query for different users is kept apart", func(t *testing.T) {
		store, cleanup := newStore()
		defer cleanup()
		ctx := context.Background()

		a := search("go cli")
		a.UserID = "a"
		b := search("go cli")
		b.UserID = "b"
		idA, err := store.Add(ctx, a)
		require.NoError(t, err)
		idB, err := store.Add(ctx, b)
		require.NoError(t, err)
		assert.NotEqual(t, idA, idB)
	})

	t.Run("rejects empty query", func(t *testing.T) {
		store, cleanup := newStore()
		defer cleanup()

		_, err := store.Add(context.Background(), Entry{})
		assert.ErrorIs(t, err, ErrEmptyQuery)
	})
}

func runGetTests(t *testing.T, newStore func() (Store, func())) {
	t.Run("returns error for non-existent entry", func(t *testing.T) {
		store, cleanup := newStore()
		defer cleanup()

		_, err := store.Get(context.Background(), "non-existent-id")

		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("returns error for empty ID", func(t *testing.T) {
		store, cleanup := newStore()
		defer cleanup()

		_, err := store.Get(context.Background(), "")

		assert.ErrorIs(t, err, ErrInvalidID)
	})
}

func runListTests(t *testing.T, newStore func() (Store, func())) {
	seed := func(t *testing.T, store Store) time.Time {
		t.Helper()
		base := time.Now().Add(-time.Hour)
		entries := []Entry{
			{UserID: "u1", Query: core.SearchQuery{Text: "react dashboard", Source: core.SourceGitHub}},
			{UserID: "u1", Query: core.SearchQuery{Text: "titanic", Source: core.SourceKaggleCompetition}},
			{UserID: "u2", Query: core.SearchQuery{Text: "react native", Source: core.SourceGitHub}},
			{UserID: "u1", Query: core.SearchQuery{Text: "house prices", Source: core.SourceKaggleDataset}},
			{UserID: "u1", Query: core.SearchQuery{Difficulty: core.DifficultyBeginner}},
		}
		for i, e := range entries {
			_, err := store.Add(context.Background(), at(e, base.Add(time.Duration(i)*time.Minute)))
			require.NoError(t, err)
		}
		return base
	}

	t.Run("lists newest first", func(t *testing.T) {
		store, cleanup := newStore()
		defer cleanup()
		seed(t, store)

		entries, err := store.List(context.Background(), QueryOptions{})
		require.NoError(t, err)
		require.Len(t, entries, 5)
		assert.Equal(t, core.DifficultyBeginner, entries[0].Query.Difficulty)
		assert.Equal(t, "react dashboard", entries[4].Query.Text)
	})

	t.Run("filters", func(t *testing.T) {
		store, cleanup := newStore()
		defer cleanup()
		base := seed(t, store)
		ctx := context.Background()

		tests := []struct {
			name string
			opts QueryOptions
			want int64
		}{
			{"by user", QueryOptions{UserID: "u1"}, 4},
			{"by text", QueryOptions{Text: "react"}, 2},
			{"by source", QueryOptions{Source: core.SourceGitHub}, 2},
			{"after", QueryOptions{After: base.Add(90 * time.Second)}, 3},
			{"before", QueryOptions{Before: base.Add(90 * time.Second)}, 2},
			{"combined", QueryOptions{UserID: "u1", Text: "react"}, 1},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				entries, err := store.List(ctx, tt.opts)
				require.NoError(t, err)
				assert.Len(t, entries, int(tt.want))

				count, err := store.Count(ctx, tt.opts)
				require.NoError(t, err)
				assert.Equal(t, tt.want, count)
			})
		}
	})

	t.Run("paginates", func(t *testing.T) {
		store, cleanup := newStore()
		defer cleanup()
		seed(t, store)
		ctx := context.Background()

		page, err := store.List(ctx, QueryOptions{Limit: 2, Offset: 1})
		require.NoError(t, err)
		require.Len(t, page, 2)
		assert.Equal(t, "house prices", page[0].Query.Text)
		assert.Equal(t, "react native", page[1].Query.Text)

		rest, err := store.List(ctx, QueryOptions{Offset: 3})
		require.NoError(t, err)
		assert.Len(t, rest, 2)
	})

	t.Run("empty store", func(t *testing.T) {
		store, cleanup := newStore()
		defer cleanup()

		entries, err := store.List(context.Background(), QueryOptions{})
		require.NoError(t, err)
		assert.Empty(t, entries)
	})
}

func runDeleteTests(t *testing.T, newStore func() (Store, func())) {
	t.Run("deletes existing entry", func(t *testing.T) {
		store, cleanup := newStore()
		defer cleanup()
		ctx := context.Background()

		id, err := store.Add(ctx, search("to delete"))
		require.NoError(t, err)

		require.NoError(t, store.Delete(ctx, id))
		_, err = store.Get(ctx, id)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("returns error for non-existent entry", func(t *testing.T) {
		store, cleanup := newStore()
		defer cleanup()

		err := store.Delete(context.Background(), "missing")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("clear removes everything", func(t *testing.T) {
		store, cleanup := newStore()
		defer cleanup()
		ctx := context.Background()

		for _, text := range []string{"a", "b", "c"} {
			_, err := store.Add(ctx, search(text))
			require.NoError(t, err)
		}
		require.NoError(t, store.Clear(ctx))

		count, err := store.Count(ctx, QueryOptions{})
		require.NoError(t, err)
		assert.Zero(t, count)
	})
}

func runPruneTests(t *testing.T, newStore func() (Store, func())) {
	seed := func(t *testing.T, store Store) {
		t.Helper()
		now := time.Now()
		for i, age := range []time.Duration{72 * time.Hour, 48 * time.Hour, 2 * time.Hour, time.Minute} {
			_, err := store.Add(context.Background(), at(search(string(rune('a'+i))), now.Add(-age)))
			require.NoError(t, err)
		}
	}

	t.Run("older than", func(t *testing.T) {
		store, cleanup := newStore()
		defer cleanup()
		seed(t, store)

		result, err := store.Prune(context.Background(), PruneOptions{OlderThan: 24 * time.Hour})
		require.NoError(t, err)
		assert.Equal(t, int64(2), result.DeletedCount)
	})

	t.Run("before", func(t *testing.T) {
		store, cleanup := newStore()
		defer cleanup()
		seed(t, store)

		result, err := store.Prune(context.Background(), PruneOptions{Before: time.Now().Add(-60 * time.Hour)})
		require.NoError(t, err)
		assert.Equal(t, int64(1), result.DeletedCount)
	})

	t.Run("keep last", func(t *testing.T) {
		store, cleanup := newStore()
		defer cleanup()
		seed(t, store)
		ctx := context.Background()

		result, err := store.Prune(ctx, PruneOptions{KeepLast: 1})
		require.NoError(t, err)
		assert.Equal(t, int64(3), result.DeletedCount)

		entries, err := store.List(ctx, QueryOptions{})
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Equal(t, "d", entries[0].Query.Text)
	})

	t.Run("no criteria deletes nothing", func(t *testing.T) {
		store, cleanup := newStore()
		defer cleanup()
		seed(t, store)

		result, err := store.Prune(context.Background(), PruneOptions{})
		require.NoError(t, err)
		assert.Zero(t, result.DeletedCount)
	})
}

func runStatsTests(t *testing.T, newStore func() (Store, func())) {
	t.Run("empty store", func(t *testing.T) {
		store, cleanup := newStore()
		defer cleanup()

		stats, err := store.Stats(context.Background())
		require.NoError(t, err)
		assert.Zero(t, stats.TotalEntries)
		assert.True(t, stats.OldestEntry.IsZero())
	})

	t.Run("aggregates", func(t *testing.T) {
		store, cleanup := newStore()
		defer cleanup()
		ctx := context.Background()
		base := time.Now().Add(-time.Hour).Truncate(time.Millisecond)

		entries := []Entry{
			{Query: core.SearchQuery{Text: "a", Source: core.SourceGitHub, UseSemantic: true}},
			{Query: core.SearchQuery{Text: "b", Source: core.SourceGitHub}},
			{Query: core.SearchQuery{Text: "c", Source: core.SourceCurated, UseSemantic: true}},
			{Query: core.SearchQuery{Text: "a", Source: core.SourceGitHub, UseSemantic: true}},
		}
		for i, e := range entries {
			_, err := store.Add(ctx, at(e, base.Add(time.Duration(i)*time.Minute)))
			require.NoError(t, err)
		}

		stats, err := store.Stats(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(3), stats.TotalEntries)
		assert.Equal(t, int64(4), stats.TotalRuns)
		assert.Equal(t, int64(2), stats.SemanticCount)
		assert.Equal(t, int64(2), stats.SourceCounts[core.SourceGitHub])
		assert.Equal(t, int64(1), stats.SourceCounts[core.SourceCurated])
		assert.True(t, stats.OldestEntry.Equal(base.Add(time.Minute)))
		assert.True(t, stats.NewestEntry.Equal(base.Add(3*time.Minute)))
	})
}
