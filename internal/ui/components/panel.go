package components

import (
	"github.com/charmbracelet/lipgloss"
)

// Panel represents a bordered UI area
type Panel struct {
	Title   string
	Content string
	Width   int
	Height  int
	Style   lipgloss.Style
}

// View renders the panel
func (p *Panel) View() string {
	if p.Width <= 0 || p.Height <= 0 {
		return ""
	}

	style := p.Style.
		Width(p.Width).
		Height(p.Height).
		MaxHeight(p.Height + 2).
		Border(lipgloss.RoundedBorder())

	content := p.Content
	if p.Title != "" {
		titleStyle := lipgloss.NewStyle().Bold(true).Padding(0, 1)
		content = titleStyle.Render(p.Title) + "\n" + content
	}

	return style.Render(content)
}

// ContentHeight returns the lines left for content under the title
func (p *Panel) ContentHeight() int {
	h := p.Height
	if p.Title != "" {
		h--
	}
	if h < 0 {
		return 0
	}
	return h
}
