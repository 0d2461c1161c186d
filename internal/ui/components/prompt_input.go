package components

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/dafoggo/klinh-admin/internal/ui/theme"
)

// PromptSubmitMsg is sent when a prompt is confirmed with a non-blank value
type PromptSubmitMsg struct {
	Purpose string
	Value   string
}

// PromptCancelMsg is sent when a prompt is dismissed
type PromptCancelMsg struct {
	Purpose string
}

// PromptInput asks for a single line of text, e.g. the name of a saved view
type PromptInput struct {
	Input   textinput.Model
	Title   string
	Purpose string
	Theme   theme.Theme
	Width   int
	Visible bool
}

// NewPromptInput creates a hidden prompt
func NewPromptInput(th theme.Theme) *PromptInput {
	return &PromptInput{
		Input: newTextInput("", 40),
		Theme: th,
		Width: 50,
	}
}

// Show displays the prompt with an empty value
func (p *PromptInput) Show(purpose, title, placeholder string) tea.Cmd {
	p.Purpose = purpose
	p.Title = title
	p.Input.Placeholder = placeholder
	p.Input.SetValue("")
	p.Visible = true
	return p.Input.Focus()
}

// Hide hides the prompt
func (p *PromptInput) Hide() {
	p.Visible = false
	p.Input.Blur()
}

// Update handles messages
func (p *PromptInput) Update(msg tea.Msg) (*PromptInput, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		purpose := p.Purpose
		switch key.String() {
		case "enter":
			value := strings.TrimSpace(p.Input.Value())
			if value == "" {
				return p, nil
			}
			p.Hide()
			return p, func() tea.Msg {
				return PromptSubmitMsg{Purpose: purpose, Value: value}
			}
		case "esc":
			p.Hide()
			return p, func() tea.Msg {
				return PromptCancelMsg{Purpose: purpose}
			}
		}
	}

	var cmd tea.Cmd
	p.Input, cmd = p.Input.Update(msg)
	return p, cmd
}

// View renders the prompt
func (p *PromptInput) View() string {
	inputWidth := p.Width - 6
	if inputWidth < 20 {
		inputWidth = 20
	}
	p.Input.Width = inputWidth

	titleStyle := lipgloss.NewStyle().
		Foreground(p.Theme.Info).
		Bold(true)
	helpStyle := lipgloss.NewStyle().
		Foreground(p.Theme.Muted).
		Italic(true)

	content := titleStyle.Render(p.Title) + "\n" + p.Input.View() + "\n" +
		helpStyle.Render("Enter: confirm │ Esc: cancel")

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(p.Theme.BorderFocused).
		Padding(0, 1).
		Width(p.Width).
		Render(content)
}
