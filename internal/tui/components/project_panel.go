package components

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/rabiazulfiqar1/Content-Based-RS/internal/app"
	"github.com/rabiazulfiqar1/Content-Based-RS/internal/core"
	"github.com/rabiazulfiqar1/Content-Based-RS/internal/tui"
	"github.com/rabiazulfiqar1/Content-Based-RS/internal/tui/keys"
	"github.com/rabiazulfiqar1/Content-Based-RS/internal/widget"
)

var (
	sectionStyle = lipgloss.NewStyle().Foreground(tui.ColorAccent).Bold(true)
	activeStyle  = lipgloss.NewStyle().Foreground(tui.ColorSuccess).Bold(true)
	keyStyle     = lipgloss.NewStyle().Foreground(tui.ColorAccent)
	starStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
)

// kindKeys maps the widget keys to interaction kinds.
var kindKeys = []struct {
	key  string
	kind core.InteractionKind
}{
	{"v", core.KindViewed},
	{"b", core.KindBookmarked},
	{"s", core.KindStarted},
	{"c", core.KindCompleted},
}

// ProjectPanel shows a project's detail, the match analysis for the signed
// in user, and the user's interactions with it.
type ProjectPanel struct {
	tui.BaseComponent

	formatter *HTMLFormatter
	page      *app.ProjectPage
	loading   bool
	err       error
	offset    int

	state    widget.State
	signedIn bool
	loaded   bool
	busy     bool
}

// NewProjectPanel creates an empty project panel.
func NewProjectPanel() *ProjectPanel {
	return &ProjectPanel{
		BaseComponent: tui.NewBaseComponent("Project"),
		formatter:     NewHTMLFormatter(),
	}
}

// SetLoading marks the project as loading.
func (p *ProjectPanel) SetLoading(loading bool) {
	p.loading = loading
	if loading {
		p.err = nil
	}
}

// SetProject shows page.
func (p *ProjectPanel) SetProject(page app.ProjectPage) {
	if p.page == nil || p.page.Detail.ID != page.Detail.ID {
		p.offset = 0
	}
	p.page = &page
	p.signedIn = page.User != nil
	p.loading = false
	p.err = nil
}

// SetError shows err in place of the project.
func (p *ProjectPanel) SetError(err error) {
	p.err = err
	p.loading = false
}

// SetInteractions shows the widget state.
func (p *ProjectPanel) SetInteractions(state widget.State, signedIn, loaded, busy bool) {
	p.state = state
	p.signedIn = signedIn
	p.loaded = loaded
	p.busy = busy
}

// Project returns the shown project, or nil.
func (p *ProjectPanel) Project() *app.ProjectPage {
	return p.page
}

func (p *ProjectPanel) Update(msg tea.Msg) (tui.Component, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		p.SetSize(msg.Width, msg.Height)
	case tea.KeyMsg:
		return p.handleKey(msg)
	}
	return p, nil
}

func (p *ProjectPanel) handleKey(msg tea.KeyMsg) (tui.Component, tea.Cmd) {
	if keys.Match("esc", msg) {
		return p, emit(BackMsg{})
	}
	if p.page == nil {
		return p, nil
	}

	for _, k := range kindKeys {
		if keys.Match(k.key, msg) {
			return p, emit(ToggleInteractionMsg{Kind: k.kind})
		}
	}
	if n, ok := keys.Digit(msg); ok && n >= core.MinRating && n <= core.MaxRating {
		return p, emit(RateProjectMsg{Stars: n})
	}

	switch {
	case keys.Match("j", msg), keys.Match("down", msg):
		p.offset++
	case keys.Match("k", msg), keys.Match("up", msg):
		p.offset = max(p.offset-1, 0)
	case keys.Match("g", msg):
		p.offset = 0
	case keys.Match("r", msg):
		return p, emit(OpenProjectMsg{ID: p.page.Detail.ID})
	case keys.Match("y", msg):
		if url := p.page.Detail.RepoURL; url != nil && *url != "" {
			return p, emit(CopyMsg{Content: *url, Label: "repository link"})
		}
	}
	return p, nil
}

func (p *ProjectPanel) View() string {
	if p.Width() == 0 || p.Height() == 0 {
		return ""
	}
	w, h := p.InnerSize()

	title := p.Title()
	if p.page != nil {
		title = p.page.Detail.Title
	}

	var body []string
	switch {
	case p.loading:
		body = []string{mutedStyle.Render("Loading project…")}
	case p.err != nil:
		body = []string{errorStyle.Render("✗ " + p.err.Error())}
	case p.page == nil:
		body = []string{mutedStyle.Render("Open a project from Search or History")}
	default:
		body = p.detailLines(w)
	}

	visible, offset := tui.Window(body, p.offset, max(h-1, 1))
	p.offset = offset
	content := strings.Join(append([]string{tui.RenderTitle(tui.Truncate(title, w), w, p.Focused())}, visible...), "\n")
	return tui.RenderBorder(content, w, h, p.Focused())
}

func (p *ProjectPanel) detailLines(width int) []string {
	d := p.page.Detail
	var lines []string

	meta := []string{"Difficulty: " + orNone(d.Difficulty), "Source: " + d.Source.DisplayName()}
	if d.EstimatedHours != nil {
		meta = append(meta, fmt.Sprintf("~%d hours", *d.EstimatedHours))
	}
	if d.Stars != nil {
		meta = append(meta, fmt.Sprintf("★ %d", *d.Stars))
	}
	if d.Language != nil && *d.Language != "" {
		meta = append(meta, *d.Language)
	}
	lines = append(lines, mutedStyle.Render(strings.Join(meta, " │ ")))
	if d.RepoURL != nil && *d.RepoURL != "" {
		lines = append(lines, mutedStyle.Render(*d.RepoURL))
	}
	if len(d.Topics) > 0 {
		lines = append(lines, "Topics: "+strings.Join(d.Topics, ", "))
	}

	lines = append(lines, "", sectionStyle.Render("Your progress"))
	lines = append(lines, p.interactionLines()...)

	lines = append(lines, "", sectionStyle.Render("Match"))
	lines = append(lines, p.matchLines(width)...)

	if d.Description != "" {
		lines = append(lines, "", sectionStyle.Render("Description"))
		lines = append(lines, p.formatter.FormatLines(d.Description, width)...)
	}

	if len(d.Skills) > 0 {
		lines = append(lines, "", sectionStyle.Render("Skills"))
		if req := skillNames(d.RequiredSkills()); req != "" {
			lines = append(lines, "Required: "+req)
		}
		if opt := skillNames(d.OptionalSkills()); opt != "" {
			lines = append(lines, "Optional: "+opt)
		}
	}
	return lines
}

func (p *ProjectPanel) interactionLines() []string {
	switch {
	case !p.signedIn:
		return []string{mutedStyle.Render("Sign in (L) to track this project")}
	case !p.loaded:
		return []string{mutedStyle.Render("Loading interactions…")}
	}

	var buttons []string
	for _, k := range kindKeys {
		f := p.state.Flag(k.kind)
		label := "[ ] " + k.kind.Label(false)
		if f.Active {
			label = activeStyle.Render("[x] " + k.kind.Label(true))
		}
		buttons = append(buttons, keyStyle.Render(k.key)+" "+label)
	}
	lines := []string{strings.Join(buttons[:2], "   "), strings.Join(buttons[2:], "   ")}

	rating := mutedStyle.Render("not rated")
	if v := p.state.Rating.Value; v > 0 {
		rating = starStyle.Render(stars(v)) + fmt.Sprintf(" %d/5", v)
	}
	lines = append(lines, keyStyle.Render("1-5")+" Rating: "+rating)
	if p.busy {
		lines = append(lines, mutedStyle.Render("Saving…"))
	}
	return lines
}

func (p *ProjectPanel) matchLines(width int) []string {
	m := p.page.Detail.MatchAnalysis
	if m == nil {
		if p.page.User == nil {
			return []string{mutedStyle.Render("Sign in to see how well this project matches your skills.")}
		}
		return []string{mutedStyle.Render("Add skills to your profile (screen 4) to get a match score.")}
	}
	lines := []string{activeStyle.Render(fmt.Sprintf("%d%% match", m.ScorePercent()))}
	if len(m.MatchingSkills) > 0 {
		lines = append(lines, "You have: "+strings.Join(m.MatchingSkills, ", "))
	}
	if len(m.MissingSkills) > 0 {
		lines = append(lines, "To learn: "+strings.Join(m.MissingSkills, ", "))
	}
	if m.SemanticSimilarity != nil {
		lines = append(lines, fmt.Sprintf("Similarity: %.0f%%", *m.SemanticSimilarity))
	}
	if m.Reason != "" {
		lines = append(lines, tui.Lines(lipgloss.NewStyle().Width(width).Render("Why: "+m.Reason))...)
	}
	return lines
}

func stars(n int) string {
	n = min(max(n, 0), core.MaxRating)
	return strings.Repeat("★", n) + strings.Repeat("☆", core.MaxRating-n)
}

func skillNames(skills []core.ProjectSkill) string {
	names := make([]string, 0, len(skills))
	for _, s := range skills {
		names = append(names, s.Name)
	}
	return strings.Join(names, ", ")
}

func orNone(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
