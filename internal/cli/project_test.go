package cli

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rabiazulfiqar1/Content-Based-RS/internal/app"
	"github.com/rabiazulfiqar1/Content-Based-RS/internal/core"
	"github.com/rabiazulfiqar1/Content-Based-RS/internal/widget"
)

func TestProjectCommand(t *testing.T) {
	t.Run("signed in shows match and interactions", func(t *testing.T) {
		backend, url := newFakeBackend(t)
		backend.seed(core.InteractionRecord{ID: 7, UserID: testUserID, ProjectID: 5, Kind: core.KindBookmarked})

		out, _, err := run(t, newTestApp(t, url, &fakeIdentity{user: ada}), "project", "5")
		require.NoError(t, err)
		assert.Contains(t, out, "React Dashboard")
		assert.Contains(t, out, "Build a dashboard & charts")
		assert.Contains(t, out, "Match: 73%")
		assert.Contains(t, out, "Docker")
		assert.Contains(t, out, "[x] Bookmarked")
		assert.Contains(t, out, "[ ] Mark as Viewed")
	})

	t.Run("signed out", func(t *testing.T) {
		_, url := newFakeBackend(t)
		out, _, err := run(t, newTestApp(t, url, &fakeIdentity{}), "project", "5")
		require.NoError(t, err)
		assert.Contains(t, out, "Sign in to see how well")
		assert.NotContains(t, out, "Bookmarked")
	})

	t.Run("json", func(t *testing.T) {
		backend, url := newFakeBackend(t)
		backend.seed(core.InteractionRecord{ID: 7, UserID: testUserID, ProjectID: 5, Kind: core.KindStarted})

		out, _, err := run(t, newTestApp(t, url, &fakeIdentity{user: ada}), "project", "5", "--json")
		require.NoError(t, err)
		var result struct {
			Project      core.ProjectDetail `json:"project"`
			Interactions struct {
				Flags map[string]struct {
					Active bool   `json:"active"`
					ID     *int64 `json:"id"`
				} `json:"flags"`
			} `json:"interactions"`
		}
		require.NoError(t, json.Unmarshal([]byte(out), &result))
		assert.Equal(t, "React Dashboard", result.Project.Title)
		assert.True(t, result.Interactions.Flags["started"].Active)
		assert.Equal(t, int64(7), *result.Interactions.Flags["started"].ID)
	})

	t.Run("bad id", func(t *testing.T) {
		_, url := newFakeBackend(t)
		a := newTestApp(t, url, &fakeIdentity{})
		_, _, err := run(t, a, "project", "abc")
		assert.ErrorContains(t, err, "invalid project id")
		_, _, err = run(t, a, "project", "9")
		assert.ErrorContains(t, err, "404")
	})
}

func TestInteractCommand(t *testing.T) {
	t.Run("toggle on and off", func(t *testing.T) {
		backend, url := newFakeBackend(t)
		a := newTestApp(t, url, &fakeIdentity{user: ada})

		out, errOut, err := run(t, a, "interact", "toggle", "5", "bookmarked")
		require.NoError(t, err)
		assert.Contains(t, out, "[x] Bookmarked")
		assert.Contains(t, errOut, "Success: Project marked as bookmarked")
		require.Len(t, backend.Records(), 1)
		assert.Equal(t, core.KindBookmarked, backend.Records()[0].Kind)

		out, errOut, err = run(t, a, "interact", "toggle", "5", "BOOKMARKED")
		require.NoError(t, err)
		assert.Contains(t, out, "[ ] Bookmark Project")
		assert.Contains(t, errOut, "Removed: Project bookmarked status removed")
		assert.Empty(t, backend.Records())
	})

	t.Run("rate creates a viewed record and repeating clears it", func(t *testing.T) {
		backend, url := newFakeBackend(t)
		a := newTestApp(t, url, &fakeIdentity{user: ada})

		out, errOut, err := run(t, a, "interact", "rate", "5", "4")
		require.NoError(t, err)
		assert.Contains(t, out, "Rating: ★★★★☆")
		assert.Contains(t, out, "[x] Marked as Viewed")
		assert.Contains(t, errOut, "Rating added: You rated this 4/5")

		recs := backend.Records()
		require.Len(t, recs, 1)
		assert.Equal(t, core.KindViewed, recs[0].Kind)
		require.NotNil(t, recs[0].Rating)
		assert.Equal(t, 4, *recs[0].Rating)

		out, errOut, err = run(t, a, "interact", "rate", "5", "4")
		require.NoError(t, err)
		assert.Contains(t, out, "Rating: -")
		assert.Contains(t, errOut, "Rating removed")
		assert.Nil(t, backend.Records()[0].Rating)
	})

	t.Run("rate updates an existing record", func(t *testing.T) {
		backend, url := newFakeBackend(t)
		three := 3
		backend.seed(core.InteractionRecord{ID: 8, UserID: testUserID, ProjectID: 5, Kind: core.KindCompleted, Rating: &three})

		_, errOut, err := run(t, newTestApp(t, url, &fakeIdentity{user: ada}), "interact", "rate", "5", "5")
		require.NoError(t, err)
		assert.Contains(t, errOut, "Rating updated: You rated this 5/5")
		assert.Equal(t, 5, *backend.Records()[0].Rating)
	})

	t.Run("show", func(t *testing.T) {
		backend, url := newFakeBackend(t)
		backend.seed(core.InteractionRecord{ID: 9, UserID: testUserID, ProjectID: 5, Kind: core.KindCompleted})

		out, _, err := run(t, newTestApp(t, url, &fakeIdentity{user: ada}), "interact", "show", "5", "--json")
		require.NoError(t, err)
		assert.JSONEq(t, `{
			"flags": {
				"viewed": {"active": false, "id": null},
				"bookmarked": {"active": false, "id": null},
				"started": {"active": false, "id": null},
				"completed": {"active": true, "id": 9}
			},
			"rating": {"value": 0, "id": null}
		}`, out)
	})

	t.Run("invalid input", func(t *testing.T) {
		backend, url := newFakeBackend(t)
		a := newTestApp(t, url, &fakeIdentity{user: ada})

		_, _, err := run(t, a, "interact", "toggle", "5", "liked")
		assert.ErrorContains(t, err, "invalid interaction type")
		_, _, err = run(t, a, "interact", "rate", "5", "many")
		assert.ErrorContains(t, err, "invalid rating")
		_, _, err = run(t, a, "interact", "rate", "5", "9")
		assert.ErrorIs(t, err, widget.ErrInvalidRating)
		assert.Empty(t, backend.Records())
	})

	t.Run("signed out", func(t *testing.T) {
		backend, url := newFakeBackend(t)
		_, _, err := run(t, newTestApp(t, url, &fakeIdentity{}), "interact", "toggle", "5", "viewed")
		assert.ErrorIs(t, err, app.ErrNotSignedIn)
		assert.Empty(t, backend.Records())
	})
}
