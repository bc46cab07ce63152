package components

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/dustin/go-humanize"

	"github.com/rabiazulfiqar1/Content-Based-RS/internal/app"
	"github.com/rabiazulfiqar1/Content-Based-RS/internal/core"
	"github.com/rabiazulfiqar1/Content-Based-RS/internal/tui"
	"github.com/rabiazulfiqar1/Content-Based-RS/internal/tui/keys"
)

// HistoryPanel lists the user's interaction records with their statistics.
type HistoryPanel struct {
	tui.BaseComponent

	page    *app.HistoryPage
	kind    core.InteractionKind
	cursor  int
	offset  int
	loading bool
	err     error
}

// NewHistoryPanel creates an empty history panel.
func NewHistoryPanel() *HistoryPanel {
	return &HistoryPanel{BaseComponent: tui.NewBaseComponent("History")}
}

// Kind is the active type filter; empty means all.
func (p *HistoryPanel) Kind() core.InteractionKind {
	return p.kind
}

// SetLoading marks the history as loading.
func (p *HistoryPanel) SetLoading(loading bool) {
	p.loading = loading
	if loading {
		p.err = nil
	}
}

// SetPage shows page, keeping the cursor in range.
func (p *HistoryPanel) SetPage(page app.HistoryPage) {
	p.page = &page
	p.loading = false
	p.err = nil
	p.cursor = min(p.cursor, max(len(page.Interactions.Interactions)-1, 0))
}

// SetError shows err in place of the list.
func (p *HistoryPanel) SetError(err error) {
	p.err = err
	p.loading = false
}

// Clear drops the shown history.
func (p *HistoryPanel) Clear() {
	p.page = nil
	p.err = nil
	p.loading = false
	p.cursor, p.offset = 0, 0
}

// Selected returns the record under the cursor.
func (p *HistoryPanel) Selected() (core.InteractionRecord, bool) {
	if p.page == nil || len(p.page.Interactions.Interactions) == 0 {
		return core.InteractionRecord{}, false
	}
	return p.page.Interactions.Interactions[p.cursor], true
}

func (p *HistoryPanel) Update(msg tea.Msg) (tui.Component, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		p.SetSize(msg.Width, msg.Height)
	case tea.KeyMsg:
		return p.handleKey(msg)
	}
	return p, nil
}

func (p *HistoryPanel) handleKey(msg tea.KeyMsg) (tui.Component, tea.Cmd) {
	n := 0
	if p.page != nil {
		n = len(p.page.Interactions.Interactions)
	}

	switch {
	case keys.Match("j", msg), keys.Match("down", msg):
		if n > 0 {
			p.cursor = min(p.cursor+1, n-1)
		}
	case keys.Match("k", msg), keys.Match("up", msg):
		p.cursor = max(p.cursor-1, 0)
	case keys.Match("t", msg):
		p.kind = nextKind(p.kind)
		p.cursor, p.offset = 0, 0
		return p, emit(LoadHistoryMsg{Kind: p.kind})
	case keys.Match("r", msg):
		return p, emit(LoadHistoryMsg{Kind: p.kind})
	case keys.Match("enter", msg):
		if rec, ok := p.Selected(); ok {
			return p, emit(OpenProjectMsg{ID: rec.ProjectID})
		}
	case keys.Match("x", msg), keys.Match("delete", msg):
		if rec, ok := p.Selected(); ok {
			return p, emit(DeleteInteractionMsg{ID: rec.ID})
		}
	}
	return p, nil
}

func nextKind(k core.InteractionKind) core.InteractionKind {
	options := append([]core.InteractionKind{""}, core.AllKinds()...)
	for i, o := range options {
		if o == k {
			return options[(i+1)%len(options)]
		}
	}
	return ""
}

func (p *HistoryPanel) View() string {
	if p.Width() == 0 || p.Height() == 0 {
		return ""
	}
	w, h := p.InnerSize()

	filter := "all"
	if p.kind != "" {
		filter = string(p.kind)
	}
	header := []string{
		tui.RenderTitle(p.Title(), w, p.Focused()),
		filterStyle.Render("Type: " + filter),
	}

	var body []string
	switch {
	case p.loading:
		body = []string{mutedStyle.Render("Loading history…")}
	case p.err != nil:
		body = []string{errorStyle.Render("✗ " + p.err.Error())}
	case p.page == nil:
		body = []string{mutedStyle.Render("Sign in to see your history")}
	default:
		header = append(header, p.statsLine(), "")
		body = p.rows(w)
	}

	height := max(h-len(header), 1)
	p.offset = scrollTo(p.cursor, p.offset, height)
	visible, _ := tui.Window(body, p.offset, height)

	content := strings.Join(append(header, visible...), "\n")
	return tui.RenderBorder(content, w, h, p.Focused())
}

func (p *HistoryPanel) statsLine() string {
	s := p.page.Stats
	parts := make([]string, 0, len(core.AllKinds())+1)
	for _, k := range core.AllKinds() {
		parts = append(parts, fmt.Sprintf("%s %d", k, s.Count(k)))
	}
	line := fmt.Sprintf("%d interactions: %s", s.TotalInteractions, strings.Join(parts, ", "))
	if s.AverageRating != nil {
		line += fmt.Sprintf(" │ avg rating %.1f", *s.AverageRating)
	}
	return mutedStyle.Render(line)
}

func (p *HistoryPanel) rows(width int) []string {
	recs := p.page.Interactions.Interactions
	if len(recs) == 0 {
		return []string{mutedStyle.Render("No interactions yet")}
	}
	lines := make([]string, 0, len(recs))
	for i, rec := range recs {
		rating := strings.Repeat(" ", core.MaxRating)
		if rec.HasRating() {
			rating = stars(*rec.Rating)
		}
		when := "-"
		if !rec.CreatedAt.IsZero() {
			when = humanize.Time(rec.CreatedAt.Time)
		}
		title := rec.ProjectTitle
		if title == "" {
			title = fmt.Sprintf("Project %d", rec.ProjectID)
		}
		meta := fmt.Sprintf("  %-11s %s %s", rec.Kind, rating, when)
		titleWidth := max(width-len([]rune(meta))-2, 8)
		title = tui.Truncate(title, titleWidth)
		line := title + strings.Repeat(" ", max(titleWidth-len([]rune(title)), 0)) + meta

		if i == p.cursor {
			lines = append(lines, cursorStyle.Render("▸ ")+line)
		} else {
			lines = append(lines, "  "+line)
		}
	}
	return lines
}
