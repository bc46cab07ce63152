package tui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Component is a screen or panel of the TUI.
type Component interface {
	Init() tea.Cmd
	Update(msg tea.Msg) (Component, tea.Cmd)
	View() string

	// Title is shown in the screen tab bar.
	Title() string

	Focused() bool
	Focus()
	Blur()

	SetSize(width, height int)
	Width() int
	Height() int
}

// Colors shared by every screen.
const (
	ColorAccent    = lipgloss.Color("214")
	ColorFocus     = lipgloss.Color("62")
	ColorMuted     = lipgloss.Color("240")
	ColorBar       = lipgloss.Color("235")
	ColorStatus    = lipgloss.Color("236")
	ColorSuccess   = lipgloss.Color("34")
	ColorError     = lipgloss.Color("160")
	ColorHighlight = lipgloss.Color("229")
)

// FocusMsg is sent when a component should gain focus.
type FocusMsg struct{}

// BlurMsg is sent when a component should lose focus.
type BlurMsg struct{}

// BaseComponent carries the focus and size bookkeeping of a component.
type BaseComponent struct {
	title   string
	focused bool
	width   int
	height  int
}

// NewBaseComponent creates a base component titled title.
func NewBaseComponent(title string) BaseComponent {
	return BaseComponent{title: title}
}

func (c *BaseComponent) Init() tea.Cmd { return nil }

// Update tracks size and focus messages.
func (c *BaseComponent) Update(msg tea.Msg) (Component, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		c.SetSize(msg.Width, msg.Height)
	case FocusMsg:
		c.focused = true
	case BlurMsg:
		c.focused = false
	}
	return c, nil
}

func (c *BaseComponent) View() string {
	return RenderBorder(c.title, c.width-2, c.height-2, c.focused)
}

func (c *BaseComponent) Title() string { return c.title }
func (c *BaseComponent) Focused() bool { return c.focused }
func (c *BaseComponent) Focus()        { c.focused = true }
func (c *BaseComponent) Blur()         { c.focused = false }
func (c *BaseComponent) Width() int    { return c.width }
func (c *BaseComponent) Height() int   { return c.height }

func (c *BaseComponent) SetSize(width, height int) {
	c.width = width
	c.height = height
}

// InnerSize is the content area inside a one-cell border.
func (c *BaseComponent) InnerSize() (int, int) {
	return max(c.width-2, 1), max(c.height-2, 1)
}

// RenderTitle renders a full-width title bar.
func RenderTitle(title string, width int, focused bool) string {
	style := lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Bold(true)

	if focused {
		style = style.Foreground(ColorHighlight).Background(ColorFocus)
	} else {
		style = style.Foreground(lipgloss.Color("252")).Background(lipgloss.Color("238"))
	}
	return style.Render(title)
}

// RenderBorder renders content inside a rounded border.
func RenderBorder(content string, width, height int, focused bool) string {
	style := lipgloss.NewStyle().
		Width(max(width, 1)).
		Height(max(height, 1)).
		BorderStyle(lipgloss.RoundedBorder())

	if focused {
		style = style.BorderForeground(ColorFocus)
	} else {
		style = style.BorderForeground(ColorMuted)
	}
	return style.Render(content)
}

// Truncate shortens s to at most width cells, marking the cut with "…".
func Truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	if lipgloss.Width(s) <= width {
		return s
	}
	r := []rune(s)
	for len(r) > 0 && lipgloss.Width(string(r))+1 > width {
		r = r[:len(r)-1]
	}
	return string(r) + "…"
}

// Window returns at most height lines of lines starting at offset, with
// offset clamped so the window stays filled.
func Window(lines []string, offset, height int) ([]string, int) {
	if height <= 0 || len(lines) == 0 {
		return nil, 0
	}
	offset = min(offset, max(len(lines)-height, 0))
	offset = max(offset, 0)
	end := min(offset+height, len(lines))
	return lines[offset:end], offset
}

// Lines splits rendered text into lines.
func Lines(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, "\n")
}
