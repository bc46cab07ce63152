package components

import (
	"regexp"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/net/html"
)

// HTMLFormatter turns project descriptions into terminal text. Kaggle
// descriptions arrive as HTML fragments, GitHub ones as plain text.
type HTMLFormatter struct {
	textStyle    lipgloss.Style
	headingStyle lipgloss.Style
	linkStyle    lipgloss.Style
}

// NewHTMLFormatter creates a new HTML formatter.
func NewHTMLFormatter() *HTMLFormatter {
	return &HTMLFormatter{
		textStyle:    lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		headingStyle: lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Bold(true),
		linkStyle:    lipgloss.NewStyle().Foreground(lipgloss.Color("39")).Underline(true),
	}
}

var (
	tagPattern    = regexp.MustCompile(`</?[a-zA-Z][^>]*>`)
	spacePattern  = regexp.MustCompile(`[ \t]+`)
	blankPattern  = regexp.MustCompile(`\n{3,}`)
	blockElements = map[string]bool{
		"p": true, "div": true, "br": true, "li": true, "ul": true, "ol": true,
		"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
		"pre": true, "blockquote": true, "table": true, "tr": true, "hr": true,
	}
	skipElements = map[string]bool{
		"script": true, "style": true, "noscript": true, "iframe": true, "svg": true,
	}
)

// IsHTML reports whether content looks like markup rather than plain text.
func IsHTML(content string) bool {
	return tagPattern.MatchString(content)
}

// PlainText strips markup from content. Block elements become line breaks,
// list items get a bullet and entities are decoded. Plain text is returned
// with whitespace normalised.
func PlainText(content string) string {
	if !IsHTML(content) {
		return normalise(content)
	}
	doc, err := html.Parse(strings.NewReader(content))
	if err != nil {
		return normalise(tagPattern.ReplaceAllString(content, " "))
	}
	var sb strings.Builder
	walk(doc, &sb, func(n *html.Node, sb *strings.Builder) { sb.WriteString(n.Data) })
	return normalise(sb.String())
}

// FormatLines renders content wrapped to width, with headings and links
// styled.
func (f *HTMLFormatter) FormatLines(content string, width int) []string {
	var text string
	if IsHTML(content) {
		doc, err := html.Parse(strings.NewReader(content))
		if err != nil {
			text = PlainText(content)
		} else {
			var sb strings.Builder
			walk(doc, &sb, func(n *html.Node, sb *strings.Builder) {
				switch parentTag(n) {
				case "h1", "h2", "h3", "h4", "h5", "h6", "strong", "b":
					sb.WriteString(f.headingStyle.Render(n.Data))
				case "a":
					sb.WriteString(f.linkStyle.Render(n.Data))
				default:
					sb.WriteString(n.Data)
				}
			})
			text = normalise(sb.String())
		}
	} else {
		text = normalise(content)
	}
	if text == "" {
		return nil
	}

	style := f.textStyle
	if width > 0 {
		style = style.Width(width)
	}
	return strings.Split(style.Render(text), "\n")
}

func walk(n *html.Node, sb *strings.Builder, text func(*html.Node, *strings.Builder)) {
	switch n.Type {
	case html.TextNode:
		text(n, sb)
		return
	case html.ElementNode:
		if skipElements[n.Data] {
			return
		}
		if blockElements[n.Data] {
			sb.WriteString("\n")
		}
		if n.Data == "li" {
			sb.WriteString("• ")
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walk(c, sb, text)
	}
	if n.Type == html.ElementNode && blockElements[n.Data] && n.Data != "br" {
		sb.WriteString("\n")
	}
}

func parentTag(n *html.Node) string {
	if n.Parent == nil || n.Parent.Type != html.ElementNode {
		return ""
	}
	return n.Parent.Data
}

func normalise(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(spacePattern.ReplaceAllString(line, " "))
	}
	s = strings.Join(lines, "\n")
	return strings.TrimSpace(blankPattern.ReplaceAllString(s, "\n\n"))
}
