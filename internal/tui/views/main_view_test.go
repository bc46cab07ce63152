package views

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/charmbracelet/huh"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rabiazulfiqar1/Content-Based-RS/internal/core"
	"github.com/rabiazulfiqar1/Content-Based-RS/internal/tui/components"
	"github.com/rabiazulfiqar1/Content-Based-RS/internal/tui/keys"
	"github.com/rabiazulfiqar1/Content-Based-RS/internal/widget"
)

var ada = &core.User{ID: testUserID, Email: "ada@example.com"}

type poke struct{}

func TestMainView_Screens(t *testing.T) {
	t.Run("starts on search with the query input focused", func(t *testing.T) {
		h := newHarness(t, nil)
		assert.Equal(t, ScreenSearch, h.view.Screen())
		assert.Equal(t, keys.ModeInsert, h.view.Mode())

		h.press("esc")
		assert.Equal(t, keys.ModeNormal, h.view.Mode())
	})

	t.Run("digits and tab switch screens", func(t *testing.T) {
		h := newHarness(t, nil)
		h.press("esc")

		h.press("3")
		assert.Equal(t, ScreenHistory, h.view.Screen())
		_, ok := h.view.HistoryPanel().Selected()
		assert.False(t, ok)

		h.press("tab")
		assert.Equal(t, ScreenProfile, h.view.Screen())
		h.press("shift+tab")
		assert.Equal(t, ScreenHistory, h.view.Screen())
		h.press("tab", "tab")
		assert.Equal(t, ScreenSearch, h.view.Screen())
		h.press("2")
		assert.Equal(t, ScreenProject, h.view.Screen())
	})

	t.Run("digits rate instead of switching on the project screen", func(t *testing.T) {
		h := newHarness(t, nil)
		h.press("esc", "3")
		h.send(components.OpenProjectMsg{ID: 5})
		require.Equal(t, ScreenProject, h.view.Screen())

		h.press("1")
		assert.Equal(t, ScreenProject, h.view.Screen())
		assert.Equal(t, "Authentication required", h.view.Notice().Title)

		h.press("esc")
		assert.Equal(t, ScreenHistory, h.view.Screen())
	})

	t.Run("help overlay", func(t *testing.T) {
		h := newHarness(t, nil)
		h.press("esc", "?")
		assert.True(t, h.view.ShowingHelp())
		assert.Contains(t, h.view.View(), "Project Recommendations")

		h.press("3")
		assert.Equal(t, ScreenSearch, h.view.Screen())

		h.press("esc")
		assert.False(t, h.view.ShowingHelp())
	})

	t.Run("renders tabs and status bar", func(t *testing.T) {
		h := newHarness(t, nil)
		out := h.view.View()
		assert.Contains(t, out, "1 Search")
		assert.Contains(t, out, "4 Profile")
		assert.Contains(t, out, "INSERT")
		assert.Contains(t, out, "Not signed in")

		signedIn := newHarness(t, ada)
		assert.Contains(t, signedIn.view.View(), "ada@example.com")
	})
}

func TestMainView_Search(t *testing.T) {
	h := newHarness(t, nil)

	h.press("react", "enter")
	page := h.view.SearchPanel().Result()
	require.NotNil(t, page)
	assert.Equal(t, 2, page.Result.Count)
	assert.Equal(t, "react", page.Query.Text)
	assert.Equal(t, keys.ModeNormal, h.view.Mode())
	assert.False(t, h.view.Busy())

	recent, err := h.app.RecentSearches(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, recent, 1)
	assert.Equal(t, "react", recent[0].Query.Text)

	h.press("j", "enter")
	assert.Equal(t, ScreenProject, h.view.Screen())
	require.NotNil(t, h.view.ProjectPanel().Project())
	assert.Equal(t, int64(6), h.view.ProjectPanel().Project().Detail.ID)

	h.press("esc", "r")
	assert.Equal(t, ScreenSearch, h.view.Screen())
	assert.True(t, h.view.SearchPanel().ShowingRecent())
}

func TestMainView_Interactions(t *testing.T) {
	t.Run("signed out writes are refused", func(t *testing.T) {
		h := newHarness(t, nil)
		h.send(components.OpenProjectMsg{ID: 5})

		w := h.view.Widget()
		require.NotNil(t, w)
		assert.True(t, w.Loaded())
		assert.Nil(t, w.User())

		h.press("b")
		assert.Equal(t, "Authentication required", h.view.Notice().Title)
		assert.Equal(t, widget.LevelError, h.view.Notice().Level)
		assert.Empty(t, h.backend.Records())
	})

	t.Run("toggle and rate", func(t *testing.T) {
		h := newHarness(t, ada)
		h.send(components.OpenProjectMsg{ID: 5})
		w := h.view.Widget()
		require.NotNil(t, w)
		require.True(t, w.Loaded())

		h.press("b")
		assert.True(t, w.State().Flag(core.KindBookmarked).Active)
		assert.Equal(t, "Success", h.view.Notice().Title)
		recs := h.backend.Records()
		require.Len(t, recs, 1)
		assert.Equal(t, core.KindBookmarked, recs[0].Kind)
		assert.Equal(t, int64(5), recs[0].ProjectID)

		h.press("4")
		assert.Equal(t, 4, w.State().Rating.Value)
		assert.True(t, w.State().Flag(core.KindViewed).Active, "rating a bookmarked project marks it viewed")
		assert.Equal(t, "You rated this 4/5", h.view.Notice().Message)
		require.Len(t, h.backend.Records(), 2)

		h.press("b")
		assert.False(t, w.State().Flag(core.KindBookmarked).Active)
		assert.Equal(t, 4, w.State().Rating.Value)
		recs = h.backend.Records()
		require.Len(t, recs, 1)
		assert.Equal(t, core.KindViewed, recs[0].Kind)
		require.NotNil(t, recs[0].Rating)
		assert.Equal(t, 4, *recs[0].Rating)
		assert.False(t, h.view.Busy())
	})

	t.Run("signing in rebinds the open project", func(t *testing.T) {
		h := newHarness(t, nil)
		h.backend.seed(core.InteractionRecord{ID: 1, UserID: testUserID, ProjectID: 5, Kind: core.KindViewed})
		h.send(components.OpenProjectMsg{ID: 5})
		assert.Nil(t, h.view.ProjectPanel().Project().Detail.MatchAnalysis)

		_, err := h.ident.SignIn(context.Background(), "ada@example.com", "secret")
		require.NoError(t, err)
		h.drain()

		require.NotNil(t, h.view.User())
		assert.Equal(t, "ada@example.com", h.view.DisplayName())
		w := h.view.Widget()
		require.NotNil(t, w.User())
		assert.True(t, w.State().Flag(core.KindViewed).Active)
		assert.NotNil(t, h.view.ProjectPanel().Project().Detail.MatchAnalysis)

		h.press("L")
		assert.Nil(t, h.view.User())
		assert.Nil(t, w.User())
		assert.False(t, w.State().Flag(core.KindViewed).Active)
		assert.Equal(t, "Signed out", h.view.Notice().Title)
	})
}

func TestMainView_History(t *testing.T) {
	h := newHarness(t, ada)
	h.backend.seed(
		core.InteractionRecord{ID: 1, UserID: testUserID, ProjectID: 5, Kind: core.KindBookmarked, ProjectTitle: "React Dashboard"},
		core.InteractionRecord{ID: 2, UserID: testUserID, ProjectID: 6, Kind: core.KindViewed, ProjectTitle: "Titanic"},
	)

	h.press("esc", "3")
	rec, ok := h.view.HistoryPanel().Selected()
	require.True(t, ok)
	assert.Equal(t, int64(1), rec.ID)

	h.press("x")
	assert.Len(t, h.backend.Records(), 1)
	assert.Equal(t, "Interaction deleted", h.view.Notice().Title)
	rec, ok = h.view.HistoryPanel().Selected()
	require.True(t, ok)
	assert.Equal(t, int64(2), rec.ID)

	h.press("enter")
	assert.Equal(t, ScreenProject, h.view.Screen())
	assert.Equal(t, int64(6), h.view.ProjectPanel().Project().Detail.ID)
}

func TestMainView_Forms(t *testing.T) {
	t.Run("esc cancels a form", func(t *testing.T) {
		h := newHarness(t, nil)
		h.press("esc", "L")
		assert.True(t, h.view.FormOpen())
		assert.Equal(t, keys.ModeForm, h.view.Mode())
		assert.Contains(t, h.view.View(), "Sign in")

		h.press("esc")
		assert.False(t, h.view.FormOpen())
		assert.Equal(t, ScreenSearch, h.view.Screen())
	})

	t.Run("failed sign in shows an error", func(t *testing.T) {
		h := newHarness(t, nil)
		h.press("esc", "L")
		require.True(t, h.view.FormOpen())

		h.view.form.State = huh.StateCompleted
		h.send(poke{})
		assert.False(t, h.view.FormOpen())
		assert.Equal(t, "Sign in failed", h.view.Notice().Title)
		assert.Nil(t, h.view.User())
	})

	t.Run("sign up awaiting confirmation", func(t *testing.T) {
		h := newHarness(t, nil)
		h.press("esc", "U")
		require.True(t, h.view.FormOpen())

		h.view.form.State = huh.StateCompleted
		h.send(poke{})
		assert.Equal(t, "Account created", h.view.Notice().Title)
	})

	t.Run("edit personal details", func(t *testing.T) {
		h := newHarness(t, ada)
		basic := core.BasicProfile{FullName: "Ada Lovelace", Username: "ada", Phone: "555"}
		h.backend.setBasic(basic)

		h.press("esc", "4")
		page := h.view.ProfilePanel().Page()
		require.NotNil(t, page)
		require.NotNil(t, page.Basic)
		assert.Nil(t, page.Profile)

		h.press("E")
		require.True(t, h.view.FormOpen())
		h.view.form.State = huh.StateCompleted
		h.send(poke{})

		var saved core.BasicProfile
		require.NoError(t, json.Unmarshal(h.backend.Posted("/api/users/{id}/basic-profile"), &saved))
		assert.Equal(t, basic, saved)
		assert.Equal(t, "Saved", h.view.Notice().Title)
		assert.Equal(t, "Ada Lovelace", h.view.DisplayName())
	})

	t.Run("profile form needs a loaded profile", func(t *testing.T) {
		h := newHarness(t, nil)
		h.press("esc", "4", "e")
		assert.False(t, h.view.FormOpen())
		assert.Equal(t, widget.LevelError, h.view.Notice().Level)
	})
}

func TestMainView_Close(t *testing.T) {
	h := newHarness(t, ada)
	h.send(components.OpenProjectMsg{ID: 5})
	assert.Equal(t, 2, h.ident.Listeners())

	h.view.Close()
	assert.Equal(t, 0, h.ident.Listeners())
	assert.Nil(t, h.view.Widget().User())
}
