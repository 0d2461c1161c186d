package help

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"

	"github.com/dafoggo/klinh-admin/internal/ui/theme"
)

// KeyBinding represents a keyboard shortcut
type KeyBinding struct {
	Key         string
	Description string
}

func fromBindings(bindings ...key.Binding) []KeyBinding {
	out := make([]KeyBinding, 0, len(bindings))
	for _, b := range bindings {
		h := b.Help()
		out = append(out, KeyBinding{Key: h.Key, Description: h.Desc})
	}
	return out
}

// GetGlobalKeys returns global key bindings
func GetGlobalKeys(km KeyMap) []KeyBinding {
	return fromBindings(km.Help, km.Quit, km.ToggleFilter, km.NextFocus, km.PrevFocus,
		km.CopyURL, km.SaveView, km.Back, km.Refresh, km.NextPage, km.PrevPage)
}

// GetMenuKeys returns key bindings of the add filter menu
func GetMenuKeys() []KeyBinding {
	return []KeyBinding{
		{"Type", "Search columns or values"},
		{"↑/↓", "Move selection"},
		{"Enter", "Choose column / apply value"},
		{"Backspace", "Back to columns (empty search)"},
		{"Ctrl+R", "Reset all filters"},
		{"Esc", "Close menu"},
	}
}

// GetFilterKeys returns key bindings of an active filter
func GetFilterKeys() []KeyBinding {
	return []KeyBinding{
		{"o", "Change operator"},
		{"c", "Change column"},
		{"Enter", "Toggle option or pick day"},
		{"←/→ ↑/↓", "Move in options and calendar"},
		{"Tab", "Switch range bound"},
		{"x, Backspace", "Remove filter"},
	}
}

// GetToolbarKeys returns key bindings of the toolbar
func GetToolbarKeys() []KeyBinding {
	return []KeyBinding{
		{"←/→", "Move between columns"},
		{"Enter", "Filter by the column"},
		{"Backspace", "Remove last filter (on + Filter)"},
		{"Enter on Reset", "Remove every filter"},
	}
}

// Render creates the help view
func Render(width, height int, th theme.Theme, km KeyMap) string {
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(th.BorderFocused).
		Padding(1, 0)

	sectionStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(th.Info).
		Padding(0, 0, 0, 2)

	keyStyle := lipgloss.NewStyle().
		Foreground(th.Warning).
		Width(20)

	descStyle := lipgloss.NewStyle().
		Foreground(th.Foreground)

	var b strings.Builder

	b.WriteString(titleStyle.Render("klinh. admin - Keyboard Shortcuts"))
	b.WriteString("\n\n")

	sections := []struct {
		title string
		keys  []KeyBinding
	}{
		{"Global", GetGlobalKeys(km)},
		{"Filter Menu", GetMenuKeys()},
		{"Active Filters", GetFilterKeys()},
		{"Toolbar", GetToolbarKeys()},
	}
	for _, section := range sections {
		b.WriteString(sectionStyle.Render(section.title))
		b.WriteString("\n")
		for _, kb := range section.keys {
			b.WriteString("  ")
			b.WriteString(keyStyle.Render(kb.Key))
			b.WriteString(descStyle.Render(kb.Description))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	b.WriteString(lipgloss.NewStyle().Faint(true).Render("Press '?' or Esc to close help"))

	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(th.BorderFocused).
		Padding(1, 2).
		Width(width - 4).
		Height(height - 4)

	return boxStyle.Render(b.String())
}
