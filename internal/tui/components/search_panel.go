package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/rabiazulfiqar1/Content-Based-RS/internal/app"
	"github.com/rabiazulfiqar1/Content-Based-RS/internal/core"
	"github.com/rabiazulfiqar1/Content-Based-RS/internal/history"
	"github.com/rabiazulfiqar1/Content-Based-RS/internal/tui"
	"github.com/rabiazulfiqar1/Content-Based-RS/internal/tui/keys"
)

var (
	cursorStyle = lipgloss.NewStyle().Foreground(tui.ColorAccent).Bold(true)
	mutedStyle  = lipgloss.NewStyle().Foreground(tui.ColorMuted)
	errorStyle  = lipgloss.NewStyle().Foreground(tui.ColorError)
	filterStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
)

func emit(msg tea.Msg) tea.Cmd {
	return func() tea.Msg { return msg }
}

// SearchPanel is the project search screen: a query input, filter toggles,
// and either the results or the recent searches.
type SearchPanel struct {
	tui.BaseComponent

	input textinput.Model
	query core.SearchQuery

	page       *app.SearchPage
	recent     []history.Entry
	showRecent bool
	cursor     int
	offset     int

	loading bool
	err     error
}

// NewSearchPanel creates a search panel starting from defaults. The query
// input starts focused.
func NewSearchPanel(defaults core.SearchQuery) *SearchPanel {
	input := textinput.New()
	input.Placeholder = "Search projects, or paste a search link"
	input.Prompt = "› "
	input.CharLimit = 500
	input.SetValue(defaults.Text)
	input.Focus()

	return &SearchPanel{
		BaseComponent: tui.NewBaseComponent("Search"),
		input:         input,
		query:         defaults,
	}
}

func (p *SearchPanel) Init() tea.Cmd {
	return textinput.Blink
}

// Editing reports whether the query input has focus.
func (p *SearchPanel) Editing() bool {
	return p.input.Focused()
}

// Query returns the query the panel would run.
func (p *SearchPanel) Query() core.SearchQuery {
	return p.query
}

// SetQuery replaces the query and its filters.
func (p *SearchPanel) SetQuery(q core.SearchQuery) {
	if q.Limit == 0 {
		q.Limit = p.query.Limit
	}
	p.query = q
	p.input.SetValue(q.Text)
}

// SetLoading marks a search as running.
func (p *SearchPanel) SetLoading(loading bool) {
	p.loading = loading
	if loading {
		p.err = nil
	}
}

// SetResult shows the results of a search.
func (p *SearchPanel) SetResult(page app.SearchPage) {
	p.page = &page
	p.SetQuery(page.Query)
	p.loading = false
	p.err = nil
	p.showRecent = false
	p.cursor, p.offset = 0, 0
}

// SetRecent shows the recorded searches.
func (p *SearchPanel) SetRecent(entries []history.Entry) {
	p.recent = entries
	p.showRecent = true
	p.cursor, p.offset = 0, 0
}

// SetError shows err in place of the results.
func (p *SearchPanel) SetError(err error) {
	p.err = err
	p.loading = false
}

// Result returns the shown search, or nil.
func (p *SearchPanel) Result() *app.SearchPage {
	return p.page
}

// ShowingRecent reports whether recent searches are listed.
func (p *SearchPanel) ShowingRecent() bool {
	return p.showRecent
}

// Cursor returns the selected row.
func (p *SearchPanel) Cursor() int {
	return p.cursor
}

func (p *SearchPanel) rows() int {
	if p.showRecent {
		return len(p.recent)
	}
	if p.page == nil {
		return 0
	}
	return len(p.page.Result.Projects)
}

func (p *SearchPanel) Update(msg tea.Msg) (tui.Component, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		p.SetSize(msg.Width, msg.Height)
		return p, nil
	case tea.KeyMsg:
		if p.input.Focused() {
			return p.handleInput(msg)
		}
		return p.handleKey(msg)
	}

	if p.input.Focused() {
		var cmd tea.Cmd
		p.input, cmd = p.input.Update(msg)
		return p, cmd
	}
	return p, nil
}

func (p *SearchPanel) handleInput(msg tea.KeyMsg) (tui.Component, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		p.input.Blur()
		return p, nil
	case tea.KeyEnter:
		p.input.Blur()
		return p, p.submit(p.input.Value())
	}
	var cmd tea.Cmd
	p.input, cmd = p.input.Update(msg)
	return p, cmd
}

// submit runs text as a query, or as a shared link when it parses as one.
func (p *SearchPanel) submit(text string) tea.Cmd {
	text = strings.TrimSpace(text)
	if strings.Contains(text, linkMarker) {
		q, err := core.ParseSearchLink(text)
		if err != nil {
			p.err = err
			return nil
		}
		p.SetQuery(q)
	} else {
		p.query.Text = text
	}
	if p.query.IsEmpty() {
		return nil
	}
	return emit(SearchRequestMsg{Query: p.query})
}

// linkMarker marks input that should be read as a search link.
const linkMarker = core.SearchPath + "?"

func (p *SearchPanel) handleKey(msg tea.KeyMsg) (tui.Component, tea.Cmd) {
	switch {
	case keys.Match("/", msg), keys.Match("i", msg):
		return p, p.input.Focus()
	case keys.Match("j", msg), keys.Match("down", msg):
		p.move(1)
	case keys.Match("k", msg), keys.Match("up", msg):
		p.move(-1)
	case keys.Match("enter", msg):
		return p, p.open()
	case keys.Match("d", msg):
		p.query.Difficulty = nextDifficulty(p.query.Difficulty)
		return p, p.rerun()
	case keys.Match("o", msg):
		p.query.Source = nextSource(p.query.Source)
		if p.query.Source.IsKaggle() {
			p.query.UseSemantic = false
		}
		return p, p.rerun()
	case keys.Match("m", msg):
		p.query.UseSemantic = !p.query.UseSemantic
		return p, p.rerun()
	case keys.Match("r", msg):
		if p.showRecent {
			p.showRecent = false
			p.cursor, p.offset = 0, 0
			return p, nil
		}
		return p, emit(RecentSearchesMsg{})
	case keys.Match("y", msg):
		if p.page != nil {
			return p, emit(CopyMsg{Content: p.page.ShareLink, Label: "search link"})
		}
	}
	return p, nil
}

func (p *SearchPanel) move(delta int) {
	n := p.rows()
	if n == 0 {
		return
	}
	p.cursor = min(max(p.cursor+delta, 0), n-1)
}

func (p *SearchPanel) open() tea.Cmd {
	if p.rows() == 0 {
		return p.submit(p.input.Value())
	}
	if p.showRecent {
		q := p.recent[p.cursor].Query
		p.SetQuery(q)
		return emit(SearchRequestMsg{Query: p.query})
	}
	return emit(OpenProjectMsg{ID: p.page.Result.Projects[p.cursor].ID})
}

func (p *SearchPanel) rerun() tea.Cmd {
	if p.query.IsEmpty() {
		return nil
	}
	return emit(SearchRequestMsg{Query: p.query})
}

func nextDifficulty(d core.Difficulty) core.Difficulty {
	options := append([]core.Difficulty{""}, core.Difficulties()...)
	for i, o := range options {
		if o == d {
			return options[(i+1)%len(options)]
		}
	}
	return ""
}

func nextSource(s core.Source) core.Source {
	options := append([]core.Source{""}, core.Sources()...)
	for i, o := range options {
		if o == s {
			return options[(i+1)%len(options)]
		}
	}
	return ""
}

func (p *SearchPanel) View() string {
	if p.Width() == 0 || p.Height() == 0 {
		return ""
	}
	w, h := p.InnerSize()
	p.input.Width = max(w-4, 1)

	difficulty, source := "all", "all"
	if p.query.Difficulty != "" {
		difficulty = string(p.query.Difficulty)
	}
	if p.query.Source != "" {
		source = p.query.Source.DisplayName()
	}
	mode := "keyword"
	if p.query.UseSemantic {
		mode = "semantic"
	}

	header := []string{
		tui.RenderTitle(p.Title(), w, p.Focused()),
		p.input.View(),
		filterStyle.Render(fmt.Sprintf("Difficulty: %s │ Source: %s │ Mode: %s", difficulty, source, mode)),
		"",
	}

	var body []string
	switch {
	case p.loading:
		body = []string{mutedStyle.Render("Searching…")}
	case p.err != nil:
		body = []string{errorStyle.Render("✗ " + p.err.Error())}
	case p.showRecent:
		body = p.recentLines(w)
	case p.page != nil:
		body = p.resultLines(w)
	default:
		body = []string{mutedStyle.Render("Type a query and press Enter")}
	}

	height := max(h-len(header), 1)
	p.offset = scrollTo(p.cursor, p.offset, height)
	visible, _ := tui.Window(body, p.offset, height)

	content := strings.Join(append(header, visible...), "\n")
	return tui.RenderBorder(content, w, h, p.Focused())
}

func (p *SearchPanel) resultLines(width int) []string {
	result := p.page.Result
	if len(result.Projects) == 0 {
		return []string{mutedStyle.Render("No projects found")}
	}
	lines := make([]string, 0, len(result.Projects)+1)
	for i, proj := range result.Projects {
		match := ""
		if proj.Similarity != nil {
			match = fmt.Sprintf("%3.0f%%", *proj.Similarity*100)
		}
		meta := fmt.Sprintf("  %-12s %-18s %s", proj.Difficulty, proj.Source.DisplayName(), match)
		titleWidth := max(width-lipgloss.Width(meta)-2, 8)
		title := tui.Truncate(proj.Title, titleWidth)
		lines = append(lines, p.row(i, title+strings.Repeat(" ", titleWidth-lipgloss.Width(title))+meta))
	}
	lines = append(lines, mutedStyle.Render(fmt.Sprintf("%d projects (%s search)", result.Count, result.SearchType)))
	return lines
}

func (p *SearchPanel) recentLines(width int) []string {
	if len(p.recent) == 0 {
		return []string{mutedStyle.Render("No recent searches")}
	}
	lines := make([]string, 0, len(p.recent))
	for i, e := range p.recent {
		text := e.Query.Text
		if text == "" {
			text = "(no text)"
		}
		line := fmt.Sprintf("%s  [%s]  %d results · %s", text, e.Query.Filters(), e.ResultCount, humanize.Time(e.Timestamp))
		lines = append(lines, p.row(i, tui.Truncate(line, width-2)))
	}
	return lines
}

func (p *SearchPanel) row(i int, s string) string {
	if i == p.cursor && !p.input.Focused() {
		return cursorStyle.Render("▸ ") + s
	}
	return "  " + s
}

// scrollTo adjusts offset so that cursor stays within a window of height.
func scrollTo(cursor, offset, height int) int {
	if cursor < offset {
		return cursor
	}
	if cursor >= offset+height {
		return cursor - height + 1
	}
	return offset
}
