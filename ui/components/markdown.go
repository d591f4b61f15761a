package components

import (
	"strings"

	"github.com/charmbracelet/glamour"
)

// Markdown renders answers. A nil *Markdown renders plain text.
type Markdown struct {
	renderer *glamour.TermRenderer
}

func NewMarkdown(width int) (*Markdown, error) {
	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(max(width-8, 20)),
	)
	if err != nil {
		return nil, err
	}
	return &Markdown{renderer: renderer}, nil
}

func (m *Markdown) Render(text string) string {
	if m == nil || m.renderer == nil {
		return text
	}
	out, err := m.renderer.Render(text)
	if err != nil {
		return text
	}
	return strings.Trim(out, "\n")
}
