package components

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/dafoggo/klinh-admin/internal/models"
	"github.com/dafoggo/klinh-admin/internal/ui/theme"
)

// ColumnBuckets groups the filterable columns for the toolbar
type ColumnBuckets struct {
	Text     []models.Column
	Select   []models.Column
	Advanced []models.Column
}

// All returns the columns in rendering order
func (b ColumnBuckets) All() []models.Column {
	all := make([]models.Column, 0, len(b.Text)+len(b.Select)+len(b.Advanced))
	all = append(all, b.Text...)
	all = append(all, b.Select...)
	return append(all, b.Advanced...)
}

// PartitionColumns splits filterable columns into text, select and advanced
// buckets. Columns without an explicit variant are left out.
func PartitionColumns(columns []models.Column) ColumnBuckets {
	var b ColumnBuckets
	for _, col := range columns {
		if !col.CanFilter() || col.Meta.Variant == "" {
			continue
		}
		switch col.Meta.Variant {
		case models.VariantText:
			b.Text = append(b.Text, col)
		case models.VariantSelect, models.VariantMultiSelect:
			b.Select = append(b.Select, col)
		default:
			b.Advanced = append(b.Advanced, col)
		}
	}
	return b
}

type toolbarItemKind int

const (
	toolbarChip toolbarItemKind = iota
	toolbarTrigger
	toolbarReset
)

type toolbarItem struct {
	kind   toolbarItemKind
	column models.Column
}

// Toolbar shows a chip per filterable column, the "+ Filter" trigger and the
// reset button
type Toolbar struct {
	Width int
	Theme theme.Theme

	columns []models.Column
	filters []models.FilterEntry
	cursor  int
	focused bool
}

// NewToolbar creates a toolbar over columns
func NewToolbar(th theme.Theme, columns []models.Column) *Toolbar {
	t := &Toolbar{Theme: th, columns: columns}
	t.cursor = t.triggerIndex()
	return t
}

// SetColumns updates the columns
func (t *Toolbar) SetColumns(columns []models.Column) {
	t.columns = columns
	t.clamp()
}

// SetFilters updates the active filters
func (t *Toolbar) SetFilters(filters []models.FilterEntry) {
	t.filters = filters
	t.clamp()
}

func (t *Toolbar) items() []toolbarItem {
	var items []toolbarItem
	for _, col := range PartitionColumns(t.columns).All() {
		items = append(items, toolbarItem{kind: toolbarChip, column: col})
	}
	items = append(items, toolbarItem{kind: toolbarTrigger})
	if len(t.filters) > 0 {
		items = append(items, toolbarItem{kind: toolbarReset})
	}
	return items
}

func (t *Toolbar) triggerIndex() int {
	return len(PartitionColumns(t.columns).All())
}

func (t *Toolbar) clamp() {
	if n := len(t.items()); t.cursor >= n {
		t.cursor = n - 1
	}
	if t.cursor < 0 {
		t.cursor = 0
	}
}

// Focus gives the toolbar keyboard focus
func (t *Toolbar) Focus() { t.focused = true }

// Blur removes keyboard focus
func (t *Toolbar) Blur() { t.focused = false }

// Focused reports whether the toolbar has focus
func (t *Toolbar) Focused() bool { return t.focused }

// FocusTrigger focuses the "+ Filter" trigger
func (t *Toolbar) FocusTrigger() {
	t.focused = true
	t.cursor = t.triggerIndex()
}

// OnTrigger reports whether the trigger is focused
func (t *Toolbar) OnTrigger() bool {
	return t.focused && t.cursor == t.triggerIndex()
}

// ActiveCount returns the number of filters on a column
func (t *Toolbar) ActiveCount(columnID string) int {
	n := 0
	for _, f := range t.filters {
		if f.ID == columnID {
			n++
		}
	}
	return n
}

// Update handles keyboard input
func (t *Toolbar) Update(msg tea.KeyMsg) tea.Cmd {
	items := t.items()
	switch msg.String() {
	case "left", "h":
		if t.cursor > 0 {
			t.cursor--
		}
	case "right", "l":
		if t.cursor < len(items)-1 {
			t.cursor++
		}
	case "home":
		t.cursor = 0
	case "end":
		t.cursor = len(items) - 1
	case "enter", " ":
		switch item := items[t.cursor]; item.kind {
		case toolbarChip:
			id := item.column.ID
			return func() tea.Msg { return OpenFilterMenuMsg{ColumnID: id} }
		case toolbarTrigger:
			return func() tea.Msg { return ToggleFilterMenuMsg{} }
		case toolbarReset:
			return func() tea.Msg { return ResetFiltersMsg{} }
		}
	case "backspace", "delete":
		if t.cursor == t.triggerIndex() && len(t.filters) > 0 {
			return func() tea.Msg { return RemoveLastFilterMsg{} }
		}
	}
	return nil
}

// View renders the toolbar
func (t *Toolbar) View() string {
	th := t.Theme
	var parts []string

	for i, item := range t.items() {
		active := t.focused && i == t.cursor
		style := lipgloss.NewStyle().Padding(0, 1)

		var text string
		switch item.kind {
		case toolbarChip:
			text = item.column.Title()
			if n := t.ActiveCount(item.column.ID); n > 0 {
				text = fmt.Sprintf("%s %d", text, n)
				style = style.Background(th.ChipActive).Foreground(th.Foreground)
			} else {
				style = style.Background(th.ChipBackground).Foreground(th.ChipForeground)
			}
		case toolbarTrigger:
			text = "+ Filter"
			style = style.Foreground(th.Info).Bold(true)
		case toolbarReset:
			text = "Reset filters"
			style = style.Foreground(th.Error)
		}
		if active {
			style = style.Reverse(true)
		}
		parts = append(parts, style.Render(text))
	}

	line := strings.Join(parts, " ")
	if t.Width > 0 {
		return lipgloss.NewStyle().MaxWidth(t.Width).Render(line)
	}
	return line
}
