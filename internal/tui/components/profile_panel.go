package components

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/rabiazulfiqar1/Content-Based-RS/internal/app"
	"github.com/rabiazulfiqar1/Content-Based-RS/internal/core"
	"github.com/rabiazulfiqar1/Content-Based-RS/internal/tui"
	"github.com/rabiazulfiqar1/Content-Based-RS/internal/tui/keys"
)

// ProfilePanel shows the personal details and the recommendation profile.
type ProfilePanel struct {
	tui.BaseComponent

	page    *app.ProfilePage
	loading bool
	err     error
}

// NewProfilePanel creates an empty profile panel.
func NewProfilePanel() *ProfilePanel {
	return &ProfilePanel{BaseComponent: tui.NewBaseComponent("Profile")}
}

func (p *ProfilePanel) SetLoading(loading bool) {
	p.loading = loading
	if loading {
		p.err = nil
	}
}

func (p *ProfilePanel) SetPage(page app.ProfilePage) {
	p.page = &page
	p.loading = false
	p.err = nil
}

func (p *ProfilePanel) SetError(err error) {
	p.err = err
	p.loading = false
}

// Clear drops the shown profiles.
func (p *ProfilePanel) Clear() {
	p.page = nil
	p.err = nil
	p.loading = false
}

// Page returns the shown profiles, or nil.
func (p *ProfilePanel) Page() *app.ProfilePage {
	return p.page
}

func (p *ProfilePanel) Update(msg tea.Msg) (tui.Component, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		p.SetSize(msg.Width, msg.Height)
	case tea.KeyMsg:
		switch {
		case keys.Match("e", msg):
			return p, emit(EditProfileMsg{})
		case keys.Match("E", msg):
			return p, emit(EditBasicProfileMsg{})
		case keys.Match("r", msg):
			return p, emit(LoadProfileMsg{})
		}
	}
	return p, nil
}

func (p *ProfilePanel) View() string {
	if p.Width() == 0 || p.Height() == 0 {
		return ""
	}
	w, h := p.InnerSize()

	var body []string
	switch {
	case p.loading:
		body = []string{mutedStyle.Render("Loading profile…")}
	case p.err != nil:
		body = []string{errorStyle.Render("✗ " + p.err.Error())}
	case p.page == nil:
		body = []string{mutedStyle.Render("Sign in to see your profile")}
	default:
		body = p.lines()
	}

	visible, _ := tui.Window(body, 0, max(h-1, 1))
	content := strings.Join(append([]string{tui.RenderTitle(p.Title(), w, p.Focused())}, visible...), "\n")
	return tui.RenderBorder(content, w, h, p.Focused())
}

func (p *ProfilePanel) lines() []string {
	field := func(label, value string) string {
		if value == "" {
			value = "-"
		}
		return mutedStyle.Render(fmt.Sprintf("%-16s", label+":")) + " " + value
	}

	lines := []string{sectionStyle.Render("Personal details") + mutedStyle.Render("  (E to edit)")}
	if b := p.page.Basic; b != nil {
		lines = append(lines,
			field("Name", b.FullName),
			field("Username", b.Username),
			field("Organization", b.Organization),
			field("Field of study", b.FieldOfStudy),
			field("Phone", b.Phone),
		)
	}
	lines = append(lines, field("Email", p.page.User.Email))

	lines = append(lines, "", sectionStyle.Render("Recommendation profile")+mutedStyle.Render("  (e to edit)"))
	prof := p.page.Profile
	if prof == nil {
		return append(lines, mutedStyle.Render("No profile yet. Press e to create one."))
	}
	lines = append(lines,
		field("Skill level", string(prof.SkillLevel)),
		field("GitHub", prof.GitHubUsername),
		field("Interests", strings.Join(prof.Interests, ", ")),
		field("Project types", strings.Join(prof.PreferredProjectTypes, ", ")),
		field("Bio", prof.Bio),
	)
	if len(prof.Skills) == 0 {
		return lines
	}
	lines = append(lines, "", sectionStyle.Render("Skills"))
	for _, s := range prof.SortedSkills() {
		name := s.Name
		if skill, ok := core.LookupSkill(s.SkillID); ok {
			name = skill.Name
		}
		lines = append(lines, fmt.Sprintf("  %-18s %s", name, starStyle.Render(stars(s.Proficiency))))
	}
	return lines
}
