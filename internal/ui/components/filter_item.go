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

type itemMode int

const (
	itemNormal itemMode = iota
	itemEditing
	itemOperators
)

// FilterItem renders one active filter: its column, operator and value widget
type FilterItem struct {
	Theme    theme.Theme
	Location *time.Location

	column   models.Column
	entry    models.FilterEntry
	widget   ValueWidget
	mode     itemMode
	opCursor int
}

// NewFilterItem creates the editor of entry on column
func NewFilterItem(column models.Column, entry models.FilterEntry, th theme.Theme, loc *time.Location) *FilterItem {
	return &FilterItem{
		Theme:    th,
		Location: loc,
		column:   column,
		entry:    entry,
		widget:   NewValueWidget(column, entry, loc),
	}
}

// Entry returns the entry the item shows
func (fi *FilterItem) Entry() models.FilterEntry { return fi.entry }

// Column returns the column the item filters
func (fi *FilterItem) Column() models.Column { return fi.column }

// Widget returns the current value widget
func (fi *FilterItem) Widget() ValueWidget { return fi.widget }

// Editing reports whether keys are consumed by the value widget or the
// operator list
func (fi *FilterItem) Editing() bool { return fi.mode != itemNormal }

// SetEntry refreshes the item after the store changed. The widget is rebuilt
// when the column or operator changed.
func (fi *FilterItem) SetEntry(column models.Column, entry models.FilterEntry) {
	rebuild := column.ID != fi.column.ID ||
		entry.Variant != fi.entry.Variant ||
		entry.Operator != fi.entry.Operator

	fi.column = column
	fi.entry = entry
	if rebuild {
		fi.widget = NewValueWidget(column, entry, fi.Location)
		if fi.mode == itemEditing {
			fi.mode = itemNormal
		}
		return
	}
	fi.widget.SetEntry(entry)
}

// Update handles keyboard input
func (fi *FilterItem) Update(msg tea.KeyMsg) tea.Cmd {
	switch fi.mode {
	case itemOperators:
		return fi.handleOperatorMode(msg)
	case itemEditing:
		if msg.String() == "esc" {
			fi.widget.Blur()
			fi.mode = itemNormal
			return nil
		}
		cmd := fi.widget.Update(msg)
		if !fi.widget.Focused() {
			fi.mode = itemNormal
		}
		return cmd
	}

	filterID := fi.entry.FilterID
	switch msg.String() {
	case "o":
		fi.mode = itemOperators
		fi.opCursor = 0
		for i, op := range filter.Operators(fi.entry.Variant) {
			if op.Value == fi.entry.Operator {
				fi.opCursor = i
			}
		}
	case "c":
		return func() tea.Msg { return ChangeFieldMsg{FilterID: filterID} }
	case "x", "backspace", "delete":
		return func() tea.Msg { return RemoveFilterMsg{FilterID: filterID} }
	case "enter", "e", "i":
		cmd := fi.widget.Focus()
		if fi.widget.Focused() {
			fi.mode = itemEditing
		}
		return cmd
	}
	return nil
}

func (fi *FilterItem) handleOperatorMode(msg tea.KeyMsg) tea.Cmd {
	ops := filter.Operators(fi.entry.Variant)
	switch msg.String() {
	case "up", "k":
		if fi.opCursor > 0 {
			fi.opCursor--
		}
	case "down", "j":
		if fi.opCursor < len(ops)-1 {
			fi.opCursor++
		}
	case "esc", "o":
		fi.mode = itemNormal
	case "enter":
		fi.mode = itemNormal
		op := ops[fi.opCursor].Value
		if op == fi.entry.Operator {
			return nil
		}
		return patchCmd(fi.entry.FilterID, filter.OperatorPatch(op), false)
	}
	return nil
}

// View renders the item
func (fi *FilterItem) View(focused bool) string {
	th := fi.Theme

	label := lipgloss.NewStyle().
		Background(th.ChipBackground).
		Foreground(th.ChipForeground).
		Padding(0, 1)
	if focused {
		label = label.Background(th.ChipActive).Bold(true)
	}
	title := fi.column.Title()
	if fi.column.Meta.Icon != "" {
		title = fi.column.Meta.Icon + " " + title
	}

	operator := lipgloss.NewStyle().Foreground(th.OperatorText)
	line := label.Render(title) + " " +
		operator.Render(filter.OperatorLabel(fi.entry.Variant, fi.entry.Operator)) + " " +
		fi.widget.View(th)

	if fi.mode != itemOperators {
		return line
	}

	var b strings.Builder
	b.WriteString(line)
	for i, op := range filter.Operators(fi.entry.Variant) {
		style := lipgloss.NewStyle().Padding(0, 2)
		if i == fi.opCursor {
			style = style.Background(th.Selection).Foreground(th.Foreground)
		}
		b.WriteString("\n")
		b.WriteString(style.Render(op.Label))
	}
	return b.String()
}
