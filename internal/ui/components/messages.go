package components

import (
	"github.com/dafoggo/klinh-admin/internal/filter"
	"github.com/dafoggo/klinh-admin/internal/models"
)

// FilterAddedMsg is sent when the menu commits a new filter
type FilterAddedMsg struct {
	Entry models.FilterEntry
}

// FilterPatchMsg is sent when an active filter is edited. Debounced patches
// come from free-text inputs.
type FilterPatchMsg struct {
	FilterID  string
	Patch     filter.Patch
	Debounced bool
}

// RemoveFilterMsg is sent when a single filter should be removed
type RemoveFilterMsg struct {
	FilterID string
}

// RemoveLastFilterMsg is sent when the most recently added filter should be removed
type RemoveLastFilterMsg struct{}

// ResetFiltersMsg is sent when every filter should be removed
type ResetFiltersMsg struct{}

// OpenFilterMenuMsg opens the filter menu, directly on a column when ColumnID is set
type OpenFilterMenuMsg struct {
	ColumnID string
}

// ToggleFilterMenuMsg opens or closes the filter menu
type ToggleFilterMenuMsg struct{}

// ChangeFieldMsg asks the menu to pick another column for an existing filter
type ChangeFieldMsg struct {
	FilterID string
}

// FieldChangedMsg is sent when a new column was picked for an existing filter
type FieldChangedMsg struct {
	FilterID string
	Column   models.Column
}

// FiltersChangedMsg carries the filter list after the store changed
type FiltersChangedMsg struct {
	Filters []models.FilterEntry
}

// FocusTriggerMsg moves focus back to the "+ Filter" trigger
type FocusTriggerMsg struct{}

// clearMenuSelectionMsg clears the menu selection after it has closed
type clearMenuSelectionMsg struct {
	seq int
}
