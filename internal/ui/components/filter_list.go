package components

import (
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/dafoggo/klinh-admin/internal/filter"
	"github.com/dafoggo/klinh-admin/internal/models"
	"github.com/dafoggo/klinh-admin/internal/ui/theme"
)

// FilterList shows the active filters, one FilterItem per entry
type FilterList struct {
	Theme    theme.Theme
	Location *time.Location

	columns []models.Column
	items   []*FilterItem
	cursor  int
	focused bool
}

// NewFilterList creates an empty list over columns
func NewFilterList(th theme.Theme, columns []models.Column, loc *time.Location) *FilterList {
	return &FilterList{Theme: th, Location: loc, columns: columns}
}

// SetColumns updates the columns used to render entries
func (fl *FilterList) SetColumns(columns []models.Column) {
	fl.columns = columns
}

// SetFilters rebuilds the list from the store. Items are shown in column
// declaration order and kept by filter id so an edit in progress survives;
// entries on unknown columns are not shown.
func (fl *FilterList) SetFilters(entries []models.FilterEntry) {
	entries = filter.SortByColumns(entries, fl.columns)

	existing := make(map[string]*FilterItem, len(fl.items))
	for _, item := range fl.items {
		existing[item.Entry().FilterID] = item
	}

	items := make([]*FilterItem, 0, len(entries))
	for _, entry := range entries {
		col, ok := models.FindColumn(fl.columns, entry.ID)
		if !ok || !col.CanFilter() {
			continue
		}
		if item, ok := existing[entry.FilterID]; ok {
			item.SetEntry(col, entry)
			items = append(items, item)
			continue
		}
		items = append(items, NewFilterItem(col, entry, fl.Theme, fl.Location))
	}
	fl.items = items

	if fl.cursor >= len(items) {
		fl.cursor = len(items) - 1
	}
	if fl.cursor < 0 {
		fl.cursor = 0
	}
}

// Items returns the rendered items
func (fl *FilterList) Items() []*FilterItem { return fl.items }

// Len returns the number of rendered items
func (fl *FilterList) Len() int { return len(fl.items) }

// Focus gives the list keyboard focus
func (fl *FilterList) Focus() { fl.focused = true }

// Blur removes keyboard focus
func (fl *FilterList) Blur() { fl.focused = false }

// Focused reports whether the list has focus
func (fl *FilterList) Focused() bool { return fl.focused }

// Selected returns the item under the cursor
func (fl *FilterList) Selected() *FilterItem {
	if len(fl.items) == 0 {
		return nil
	}
	return fl.items[fl.cursor]
}

// Editing reports whether the selected item consumes keys
func (fl *FilterList) Editing() bool {
	item := fl.Selected()
	return item != nil && item.Editing()
}

// Update handles keyboard input
func (fl *FilterList) Update(msg tea.KeyMsg) tea.Cmd {
	item := fl.Selected()
	if item == nil {
		return nil
	}
	if item.Editing() {
		return item.Update(msg)
	}

	switch msg.String() {
	case "up", "k":
		if fl.cursor > 0 {
			fl.cursor--
		}
		return nil
	case "down", "j":
		if fl.cursor < len(fl.items)-1 {
			fl.cursor++
		}
		return nil
	}
	return item.Update(msg)
}

// View renders the list
func (fl *FilterList) View() string {
	if len(fl.items) == 0 {
		return lipgloss.NewStyle().Foreground(fl.Theme.Muted).Italic(true).Render("No filters")
	}
	lines := make([]string, 0, len(fl.items))
	for i, item := range fl.items {
		lines = append(lines, item.View(fl.focused && i == fl.cursor))
	}
	return strings.Join(lines, "\n")
}
