package components

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/dafoggo/klinh-admin/internal/ui/theme"
)

// ErrorOverlay shows an error message above the rest of the screen
type ErrorOverlay struct {
	Theme   theme.Theme
	Width   int
	title   string
	message string
}

// NewErrorOverlay creates an empty overlay
func NewErrorOverlay(th theme.Theme) *ErrorOverlay {
	return &ErrorOverlay{Theme: th, Width: 60}
}

// SetError sets the title and message shown
func (e *ErrorOverlay) SetError(title, message string) {
	e.title = title
	e.message = message
}

// Title returns the current title
func (e *ErrorOverlay) Title() string { return e.title }

// Message returns the current message
func (e *ErrorOverlay) Message() string { return e.message }

// View renders the overlay
func (e *ErrorOverlay) View() string {
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(e.Theme.Error)
	bodyStyle := lipgloss.NewStyle().
		Foreground(e.Theme.Foreground).
		Width(e.Width - 4)
	hintStyle := lipgloss.NewStyle().
		Foreground(e.Theme.Muted).
		Italic(true)

	content := lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render("✗ "+e.title),
		"",
		bodyStyle.Render(e.message),
		"",
		hintStyle.Render("Press Enter or Esc to dismiss"),
	)

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(e.Theme.Error).
		Padding(1, 2).
		Width(e.Width).
		Render(content)
}
