package help

import "github.com/charmbracelet/bubbles/key"

// KeyMap holds the global key bindings of the application
type KeyMap struct {
	Quit         key.Binding
	Help         key.Binding
	ToggleFilter key.Binding
	NextFocus    key.Binding
	PrevFocus    key.Binding
	CopyURL      key.Binding
	SaveView     key.Binding
	Back         key.Binding
	Refresh      key.Binding
	NextPage     key.Binding
	PrevPage     key.Binding
}

// DefaultKeyMap returns the default bindings. filterKey replaces the menu
// shortcut when set; ctrl+f always works as a fallback since most terminals
// cannot report shift together with ctrl.
func DefaultKeyMap(filterKey string) KeyMap {
	filterKeys := []string{"ctrl+shift+f", "ctrl+f"}
	if filterKey != "" && filterKey != "ctrl+shift+f" && filterKey != "ctrl+f" {
		filterKeys = []string{filterKey, "ctrl+f"}
	}

	return KeyMap{
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q, Ctrl+C", "Quit application"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "Toggle help"),
		),
		ToggleFilter: key.NewBinding(
			key.WithKeys(filterKeys...),
			key.WithHelp("Ctrl+Shift+F", "Toggle the add filter menu"),
		),
		NextFocus: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("Tab", "Next area"),
		),
		PrevFocus: key.NewBinding(
			key.WithKeys("shift+tab"),
			key.WithHelp("Shift+Tab", "Previous area"),
		),
		CopyURL: key.NewBinding(
			key.WithKeys("y"),
			key.WithHelp("y", "Copy shareable URL"),
		),
		SaveView: key.NewBinding(
			key.WithKeys("ctrl+s"),
			key.WithHelp("Ctrl+S", "Save filters as a view"),
		),
		Back: key.NewBinding(
			key.WithKeys("alt+left", "ctrl+o"),
			key.WithHelp("Ctrl+O", "Go back in history"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r", "f5"),
			key.WithHelp("r, F5", "Reload rows"),
		),
		NextPage: key.NewBinding(
			key.WithKeys("pgdown", "]"),
			key.WithHelp("PgDn, ]", "Next page"),
		),
		PrevPage: key.NewBinding(
			key.WithKeys("pgup", "["),
			key.WithHelp("PgUp, [", "Previous page"),
		),
	}
}
