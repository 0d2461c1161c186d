package models

// AppState holds the application state
type AppState struct {
	Width    int
	Height   int
	Focus    FocusArea
	ViewMode ViewMode

	// Data table state
	Table     string
	TotalRows int
}

// FocusArea identifies which part of the screen receives keys
type FocusArea int

const (
	FocusTable FocusArea = iota
	FocusToolbar
	FocusFilters
)

// ViewMode identifies the current view
type ViewMode int

const (
	NormalMode ViewMode = iota
	HelpMode
)

// NewAppState creates a new AppState with defaults
func NewAppState() AppState {
	return AppState{
		Width:    80,
		Height:   24,
		Focus:    FocusTable,
		ViewMode: NormalMode,
	}
}
