package theme

import "github.com/charmbracelet/lipgloss"

// DefaultTheme returns the default dark theme
func DefaultTheme() Theme {
	return Theme{
		Name: "default",

		// Background colors
		Background: lipgloss.Color("235"),
		Foreground: lipgloss.Color("252"),
		Muted:      lipgloss.Color("245"),

		// UI elements
		Border:        lipgloss.Color("240"),
		BorderFocused: lipgloss.Color("62"),
		Selection:     lipgloss.Color("237"),
		Cursor:        lipgloss.Color("248"),

		// Status colors
		Success: lipgloss.Color("42"),
		Warning: lipgloss.Color("220"),
		Error:   lipgloss.Color("196"),
		Info:    lipgloss.Color("75"),

		// Table colors
		TableHeader:      lipgloss.Color("105"),
		TableRowEven:     lipgloss.Color("235"),
		TableRowOdd:      lipgloss.Color("236"),
		TableRowSelected: lipgloss.Color("25"),

		// Filter colors
		ChipBackground:   lipgloss.Color("237"),
		ChipForeground:   lipgloss.Color("252"),
		ChipActive:       lipgloss.Color("62"),
		OperatorText:     lipgloss.Color("75"),
		ValueText:        lipgloss.Color("180"),
		CalendarToday:    lipgloss.Color("220"),
		CalendarSelected: lipgloss.Color("25"),
	}
}
