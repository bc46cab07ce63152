package components

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rabiazulfiqar1/Content-Based-RS/internal/app"
	"github.com/rabiazulfiqar1/Content-Based-RS/internal/core"
	"github.com/rabiazulfiqar1/Content-Based-RS/internal/widget"
)

func projectPage(user *core.User) app.ProjectPage {
	repo := "https://github.com/example/react-dashboard"
	hours := 12
	detail := core.ProjectDetail{
		ProjectSummary: core.ProjectSummary{
			ID:             5,
			Title:          "React Dashboard",
			Description:    "<p>Build a <b>dashboard</b> &amp; charts</p>",
			RepoURL:        &repo,
			Difficulty:     "beginner",
			Topics:         []string{"react", "charts"},
			EstimatedHours: &hours,
			Source:         core.SourceGitHub,
		},
		Skills: []core.ProjectSkill{{Name: "React", IsRequired: true}, {Name: "Docker"}},
	}
	if user != nil {
		detail.MatchAnalysis = &core.MatchAnalysis{Score: 72.5, MatchingSkills: []string{"React"}, MissingSkills: []string{"Docker"}}
	}
	return app.ProjectPage{Detail: detail, User: user}
}

func newProjectPanel() *ProjectPanel {
	p := NewProjectPanel()
	p.SetSize(100, 60)
	p.Focus()
	return p
}

func TestProjectPanel_Detail(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		p := newProjectPanel()
		assert.Contains(t, p.View(), "Open a project from Search or History")
		assert.Nil(t, press(p, runes("b")))
	})

	t.Run("signed out", func(t *testing.T) {
		p := newProjectPanel()
		p.SetProject(projectPage(nil))

		view := p.View()
		assert.Contains(t, view, "React Dashboard")
		assert.Contains(t, view, "Difficulty: beginner │ Source: GitHub │ ~12 hours")
		assert.Contains(t, view, "Topics: react, charts")
		assert.Contains(t, view, "Build a ")
		assert.Contains(t, view, "dashboard")
		assert.Contains(t, view, " & charts")
		assert.NotContains(t, view, "<b>")
		assert.Contains(t, view, "Required: React")
		assert.Contains(t, view, "Optional: Docker")
		assert.Contains(t, view, "Sign in (L) to track this project")
		assert.Contains(t, view, "Sign in to see how well this project matches your skills.")
	})

	t.Run("signed in with match analysis", func(t *testing.T) {
		p := newProjectPanel()
		p.SetProject(projectPage(&core.User{ID: "u1"}))

		view := p.View()
		assert.Contains(t, view, "73% match")
		assert.Contains(t, view, "You have: React")
		assert.Contains(t, view, "To learn: Docker")
		assert.Contains(t, view, "Loading interactions…")
	})
}

func TestProjectPanel_Interactions(t *testing.T) {
	p := newProjectPanel()
	p.SetProject(projectPage(&core.User{ID: "u1"}))

	rating := 4
	state := widget.Reduce(5, []core.InteractionRecord{
		{ID: 1, ProjectID: 5, Kind: core.KindViewed, Rating: &rating},
		{ID: 2, ProjectID: 5, Kind: core.KindBookmarked},
	})
	p.SetInteractions(state, true, true, false)

	view := p.View()
	assert.Contains(t, view, "[x] Marked as Viewed")
	assert.Contains(t, view, "[x] Bookmarked")
	assert.Contains(t, view, "[ ] Mark as Started")
	assert.Contains(t, view, "★★★★☆ 4/5")
	assert.NotContains(t, view, "Saving…")

	p.SetInteractions(state, true, true, true)
	assert.Contains(t, p.View(), "Saving…")

	p.SetInteractions(widget.Reduce(5, nil), true, true, false)
	assert.Contains(t, p.View(), "not rated")
}

func TestProjectPanel_Keys(t *testing.T) {
	p := newProjectPanel()
	p.SetProject(projectPage(nil))

	for key, kind := range map[string]core.InteractionKind{
		"v": core.KindViewed,
		"b": core.KindBookmarked,
		"s": core.KindStarted,
		"c": core.KindCompleted,
	} {
		msg, ok := press(p, runes(key)).(ToggleInteractionMsg)
		require.True(t, ok, key)
		assert.Equal(t, kind, msg.Kind)
	}

	rate, ok := press(p, runes("3")).(RateProjectMsg)
	require.True(t, ok)
	assert.Equal(t, 3, rate.Stars)
	assert.Nil(t, press(p, runes("0")))
	assert.Nil(t, press(p, runes("6")))

	reload, ok := press(p, runes("r")).(OpenProjectMsg)
	require.True(t, ok)
	assert.Equal(t, int64(5), reload.ID)

	copyMsg, ok := press(p, runes("y")).(CopyMsg)
	require.True(t, ok)
	assert.Equal(t, "https://github.com/example/react-dashboard", copyMsg.Content)

	_, ok = press(p, tea.KeyMsg{Type: tea.KeyEsc}).(BackMsg)
	assert.True(t, ok)
}

func TestProjectPanel_Scroll(t *testing.T) {
	p := NewProjectPanel()
	p.SetSize(100, 8)
	p.SetProject(projectPage(nil))

	top := p.View()
	press(p, runes("j"))
	press(p, runes("j"))
	assert.NotEqual(t, top, p.View())

	press(p, runes("g"))
	assert.Equal(t, top, p.View())

	p.SetProject(app.ProjectPage{Detail: core.ProjectDetail{ProjectSummary: core.ProjectSummary{ID: 9, Title: "Other"}}})
	press(p, runes("k"))
	assert.Contains(t, p.View(), "Other")
}

func TestStars(t *testing.T) {
	assert.Equal(t, "☆☆☆☆☆", stars(0))
	assert.Equal(t, "★★★☆☆", stars(3))
	assert.Equal(t, "★★★★★", stars(9))
	assert.Equal(t, "☆☆☆☆☆", stars(-1))
}
