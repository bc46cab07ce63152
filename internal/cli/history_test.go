package cli

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rabiazulfiqar1/Content-Based-RS/internal/app"
	"github.com/rabiazulfiqar1/Content-Based-RS/internal/core"
)

func seededBackend(t *testing.T) (*fakeBackend, string) {
	t.Helper()
	backend, url := newFakeBackend(t)
	four := 4
	backend.seed(
		core.InteractionRecord{ID: 1, UserID: testUserID, ProjectID: 5, Kind: core.KindBookmarked, ProjectTitle: "React Dashboard",
			CreatedAt: core.Timestamp{Time: time.Now().Add(-2 * time.Hour)}},
		core.InteractionRecord{ID: 2, UserID: testUserID, ProjectID: 6, Kind: core.KindViewed, Rating: &four, ProjectTitle: "Titanic"},
	)
	return backend, url
}

func TestHistoryCommand(t *testing.T) {
	t.Run("lists records with counts", func(t *testing.T) {
		_, url := seededBackend(t)
		out, _, err := run(t, newTestApp(t, url, &fakeIdentity{user: ada}), "history")
		require.NoError(t, err)
		assert.Contains(t, out, "2 interactions: viewed 1, bookmarked 1, started 0, completed 0")
		assert.Contains(t, out, "React Dashboard")
		assert.Contains(t, out, "2 hours ago")
		assert.Contains(t, out, "★★★★☆")
	})

	t.Run("filters by type", func(t *testing.T) {
		_, url := seededBackend(t)
		out, _, err := run(t, newTestApp(t, url, &fakeIdentity{user: ada}), "history", "--type", "viewed", "--json")
		require.NoError(t, err)
		var page app.HistoryPage
		require.NoError(t, json.Unmarshal([]byte(out), &page))
		require.Len(t, page.Interactions.Interactions, 1)
		assert.Equal(t, "Titanic", page.Interactions.Interactions[0].ProjectTitle)
		assert.Equal(t, 2, page.Stats.TotalInteractions)
	})

	t.Run("rejects unknown types", func(t *testing.T) {
		_, url := seededBackend(t)
		_, _, err := run(t, newTestApp(t, url, &fakeIdentity{user: ada}), "history", "--type", "liked")
		assert.ErrorContains(t, err, "invalid interaction type")
	})

	t.Run("delete", func(t *testing.T) {
		backend, url := seededBackend(t)
		a := newTestApp(t, url, &fakeIdentity{user: ada})
		out, _, err := run(t, a, "history", "delete", "1")
		require.NoError(t, err)
		assert.Contains(t, out, "Deleted interaction 1")
		require.Len(t, backend.Records(), 1)

		_, _, err = run(t, a, "history", "delete", "1")
		assert.NoError(t, err, "deleting a missing record succeeds")
	})

	t.Run("requires sign in", func(t *testing.T) {
		_, url := seededBackend(t)
		_, _, err := run(t, newTestApp(t, url, &fakeIdentity{}), "history")
		assert.ErrorIs(t, err, app.ErrNotSignedIn)
	})
}

func TestStatsCommand(t *testing.T) {
	_, url := seededBackend(t)
	a := newTestApp(t, url, &fakeIdentity{user: ada})

	t.Run("stats", func(t *testing.T) {
		out, _, err := run(t, a, "stats")
		require.NoError(t, err)
		assert.Contains(t, out, "Interactions:")
		assert.Contains(t, out, "Bookmarked:")
	})

	t.Run("summary", func(t *testing.T) {
		out, _, err := run(t, a, "stats", "--summary", "--json")
		require.NoError(t, err)
		var s core.ActivitySummary
		require.NoError(t, json.Unmarshal([]byte(out), &s))
		assert.Equal(t, 3, s.TotalInteractions)
		assert.Equal(t, 1, s.ProjectsCompleted)
	})
}

func TestBookmarksCommand(t *testing.T) {
	_, url := seededBackend(t)

	out, _, err := run(t, newTestApp(t, url, &fakeIdentity{user: ada}), "bookmarks")
	require.NoError(t, err)
	assert.Contains(t, out, "React Dashboard")
	assert.NotContains(t, out, "Titanic")
}
