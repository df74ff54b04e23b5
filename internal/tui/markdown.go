package tui

import (
	"strings"

	"github.com/charmbracelet/glamour"
)

// markdownRenderer caches one glamour renderer for the current wrap width.
type markdownRenderer struct {
	style    string
	width    int
	renderer *glamour.TermRenderer
}

func newMarkdownRenderer(style string) *markdownRenderer {
	if style == "" {
		style = "auto"
	}
	return &markdownRenderer{style: style}
}

// render converts md to styled ANSI output, falling back to the raw text.
func (m *markdownRenderer) render(md string, width int) string {
	if strings.TrimSpace(md) == "" {
		return md
	}
	width = max(width, 20)
	if m.renderer == nil || m.width != width {
		opts := []glamour.TermRendererOption{glamour.WithWordWrap(width)}
		if m.style == "auto" {
			opts = append(opts, glamour.WithAutoStyle())
		} else {
			opts = append(opts, glamour.WithStandardStyle(m.style))
		}
		r, err := glamour.NewTermRenderer(opts...)
		if err != nil {
			return md
		}
		m.renderer, m.width = r, width
	}
	out, err := m.renderer.Render(md)
	if err != nil {
		return md
	}
	return strings.Trim(out, "\n")
}
