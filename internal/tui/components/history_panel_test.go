package components

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rabiazulfiqar1/Content-Based-RS/internal/app"
	"github.com/rabiazulfiqar1/Content-Based-RS/internal/core"
)

func historyPage() app.HistoryPage {
	rating := 4
	avg := 4.0
	return app.HistoryPage{
		Interactions: core.InteractionList{
			Interactions: []core.InteractionRecord{
				{ID: 1, ProjectID: 5, Kind: core.KindBookmarked, ProjectTitle: "React Dashboard",
					CreatedAt: core.Timestamp{Time: time.Now().Add(-2 * time.Hour)}},
				{ID: 2, ProjectID: 6, Kind: core.KindViewed, Rating: &rating},
			},
			Total: 2,
		},
		Stats: core.InteractionStats{
			TotalInteractions: 2,
			ByType:            map[core.InteractionKind]int{core.KindViewed: 1, core.KindBookmarked: 1},
			AverageRating:     &avg,
		},
	}
}

func TestHistoryPanel_View(t *testing.T) {
	p := NewHistoryPanel()
	p.SetSize(100, 20)
	assert.Contains(t, p.View(), "Sign in to see your history")

	p.SetLoading(true)
	assert.Contains(t, p.View(), "Loading history…")

	p.SetPage(historyPage())
	view := p.View()
	assert.Contains(t, view, "Type: all")
	assert.Contains(t, view, "2 interactions: viewed 1, bookmarked 1, started 0, completed 0 │ avg rating 4.0")
	assert.Contains(t, view, "React Dashboard")
	assert.Contains(t, view, "2 hours ago")
	assert.Contains(t, view, "Project 6")
	assert.Contains(t, view, "★★★★☆")

	p.SetPage(app.HistoryPage{})
	assert.Contains(t, p.View(), "No interactions yet")

	p.SetError(assert.AnError)
	assert.Contains(t, p.View(), "✗ ")

	p.Clear()
	assert.Contains(t, p.View(), "Sign in to see your history")
}

func TestHistoryPanel_Keys(t *testing.T) {
	p := NewHistoryPanel()
	p.SetSize(100, 20)
	p.SetPage(historyPage())

	open, ok := press(p, enterKey).(OpenProjectMsg)
	require.True(t, ok)
	assert.Equal(t, int64(5), open.ID)

	press(p, runes("j"))
	press(p, runes("j"))
	rec, ok := p.Selected()
	require.True(t, ok)
	assert.Equal(t, int64(2), rec.ID)

	del, ok := press(p, runes("x")).(DeleteInteractionMsg)
	require.True(t, ok)
	assert.Equal(t, int64(2), del.ID)

	del, ok = press(p, tea.KeyMsg{Type: tea.KeyDelete}).(DeleteInteractionMsg)
	require.True(t, ok)
	assert.Equal(t, int64(2), del.ID)

	load, ok := press(p, runes("t")).(LoadHistoryMsg)
	require.True(t, ok)
	assert.Equal(t, core.KindViewed, load.Kind)
	assert.Equal(t, core.KindViewed, p.Kind())
	rec, _ = p.Selected()
	assert.Equal(t, int64(1), rec.ID, "changing type resets the cursor")

	for range core.AllKinds() {
		press(p, runes("t"))
	}
	assert.Equal(t, core.InteractionKind(""), p.Kind(), "type filter cycles back to all")

	load, ok = press(p, runes("r")).(LoadHistoryMsg)
	require.True(t, ok)
	assert.Equal(t, core.InteractionKind(""), load.Kind)
}

func TestHistoryPanel_SetPageClampsCursor(t *testing.T) {
	p := NewHistoryPanel()
	p.SetPage(historyPage())
	press(p, runes("j"))

	page := historyPage()
	page.Interactions.Interactions = page.Interactions.Interactions[:1]
	p.SetPage(page)

	rec, ok := p.Selected()
	require.True(t, ok)
	assert.Equal(t, int64(1), rec.ID)
}
