package components

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/dafoggo/klinh-admin/internal/filter"
	"github.com/dafoggo/klinh-admin/internal/models"
	"github.com/dafoggo/klinh-admin/internal/ui/theme"
)

// DefaultMenuCloseDelay is how long the selection survives after the menu closes
const DefaultMenuCloseDelay = 100 * time.Millisecond

// MenuState is the step the filter menu is at
type MenuState int

const (
	MenuClosed MenuState = iota
	MenuFieldSelection
	MenuValueSelection
)

func (s MenuState) String() string {
	switch s {
	case MenuClosed:
		return "closed"
	case MenuFieldSelection:
		return "field selection"
	case MenuValueSelection:
		return "value selection"
	}
	return fmt.Sprintf("MenuState(%d)", int(s))
}

// FilterMenu lets the user pick a column and a first value for a new filter
type FilterMenu struct {
	Width      int
	Height     int
	Theme      theme.Theme
	Location   *time.Location
	CloseDelay time.Duration

	columns  []models.Column
	state    MenuState
	search   textinput.Model
	cursor   int
	selected *models.Column
	calendar Calendar
	// target is the filter whose column is being changed
	target string
	seq    int
}

// NewFilterMenu creates a closed menu over columns
func NewFilterMenu(th theme.Theme, columns []models.Column) *FilterMenu {
	return &FilterMenu{
		Width:      44,
		Height:     14,
		Theme:      th,
		Location:   time.Local,
		CloseDelay: DefaultMenuCloseDelay,
		columns:    columns,
		search:     newTextInput("Search fields...", 30),
	}
}

// SetColumns updates the columns offered by the menu
func (m *FilterMenu) SetColumns(columns []models.Column) {
	m.columns = columns
}

// State returns the current step
func (m *FilterMenu) State() MenuState { return m.state }

// IsOpen reports whether the menu is shown
func (m *FilterMenu) IsOpen() bool { return m.state != MenuClosed }

// Selected returns the column chosen in field selection
func (m *FilterMenu) Selected() (models.Column, bool) {
	if m.selected == nil {
		return models.Column{}, false
	}
	return *m.selected, true
}

// SearchValue returns the text typed in the search box
func (m *FilterMenu) SearchValue() string { return m.search.Value() }

// Target returns the filter whose column is being changed, if any
func (m *FilterMenu) Target() string { return m.target }

// Open shows the menu at field selection. A pending delayed clear is cancelled.
func (m *FilterMenu) Open() tea.Cmd {
	m.seq++
	m.state = MenuFieldSelection
	m.selected = nil
	m.target = ""
	m.cursor = 0
	m.search.SetValue("")
	m.search.Placeholder = "Search fields..."
	return m.search.Focus()
}

// OpenForColumn shows the menu directly at value selection for a column
func (m *FilterMenu) OpenForColumn(columnID string) tea.Cmd {
	cmd := m.Open()
	if col, ok := models.FindColumn(m.columns, columnID); ok && col.CanFilter() {
		m.selectColumn(col)
	}
	return cmd
}

// OpenForEntry shows field selection to move an existing filter to another column
func (m *FilterMenu) OpenForEntry(filterID string) tea.Cmd {
	cmd := m.Open()
	m.target = filterID
	return cmd
}

// Close hides the menu. The selection is cleared after CloseDelay.
func (m *FilterMenu) Close() tea.Cmd {
	m.state = MenuClosed
	m.search.Blur()
	m.seq++
	seq := m.seq
	return tea.Tick(m.CloseDelay, func(time.Time) tea.Msg {
		return clearMenuSelectionMsg{seq: seq}
	})
}

// Toggle opens a closed menu and closes an open one
func (m *FilterMenu) Toggle() tea.Cmd {
	if m.IsOpen() {
		return m.Close()
	}
	return m.Open()
}

// Update handles messages
func (m *FilterMenu) Update(msg tea.Msg) (*FilterMenu, tea.Cmd) {
	switch msg := msg.(type) {
	case clearMenuSelectionMsg:
		if msg.seq == m.seq && m.state == MenuClosed {
			m.selected = nil
			m.target = ""
			m.cursor = 0
			m.search.SetValue("")
		}
		return m, nil
	case tea.KeyMsg:
		switch m.state {
		case MenuFieldSelection:
			return m, m.handleFieldSelection(msg)
		case MenuValueSelection:
			return m, m.handleValueSelection(msg)
		}
	}
	return m, nil
}

// VisibleColumns returns the columns matching the search text
func (m *FilterMenu) VisibleColumns() []models.Column {
	return FilterColumns(m.columns, ParseSearchQuery(m.search.Value()))
}

func (m *FilterMenu) handleFieldSelection(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "esc":
		return m.Close()
	case "ctrl+r":
		return tea.Batch(func() tea.Msg { return ResetFiltersMsg{} }, m.Close())
	case "up", "ctrl+p", "ctrl+k":
		if m.cursor > 0 {
			m.cursor--
		}
		return nil
	case "down", "ctrl+n", "ctrl+j":
		if m.cursor < len(m.VisibleColumns())-1 {
			m.cursor++
		}
		return nil
	case "enter":
		visible := m.VisibleColumns()
		if len(visible) == 0 {
			return nil
		}
		col := visible[m.cursor]
		if m.target != "" {
			filterID := m.target
			changed := func() tea.Msg { return FieldChangedMsg{FilterID: filterID, Column: col} }
			return tea.Batch(changed, m.Close())
		}
		m.selectColumn(col)
		return nil
	}

	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	m.cursor = 0
	return cmd
}

func (m *FilterMenu) selectColumn(col models.Column) {
	m.selected = &col
	m.state = MenuValueSelection
	m.cursor = 0
	m.search.SetValue("")
	m.search.Placeholder = col.Title() + "..."
	if col.FilterVariant().IsDate() {
		m.calendar = NewCalendar(time.Now(), m.Location)
	}
}

func (m *FilterMenu) backToFields() {
	m.selected = nil
	m.state = MenuFieldSelection
	m.cursor = 0
	m.search.SetValue("")
	m.search.Placeholder = "Search fields..."
}

func (m *FilterMenu) handleValueSelection(msg tea.KeyMsg) tea.Cmd {
	col := *m.selected
	variant := col.FilterVariant()

	switch msg.String() {
	case "esc":
		return m.Close()
	case "backspace", "delete":
		if m.search.Value() == "" {
			m.backToFields()
			return nil
		}
	}

	if variant.IsDate() {
		if m.calendar.Update(msg) {
			return m.commit(filter.FormatEpochMillis(m.calendar.Cursor()))
		}
		return nil
	}

	switch msg.String() {
	case "up", "ctrl+p":
		if m.cursor > 0 {
			m.cursor--
		}
		return nil
	case "down", "ctrl+n":
		if m.cursor < len(m.valueChoices())-1 {
			m.cursor++
		}
		return nil
	case "enter":
		return m.commit(m.currentValue())
	}

	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	if n := len(m.valueChoices()); m.cursor >= n {
		m.cursor = max(n-1, 0)
	}
	return cmd
}

// valueChoices lists the pickable values of the selected column; nil means
// the typed text is the value
func (m *FilterMenu) valueChoices() []models.Option {
	switch m.selected.FilterVariant() {
	case models.VariantBoolean:
		return []models.Option{{Value: "true", Label: "True"}, {Value: "false", Label: "False"}}
	case models.VariantSelect, models.VariantMultiSelect:
		return FilterOptions(m.selected.Meta.Options, m.search.Value())
	}
	return nil
}

func (m *FilterMenu) currentValue() string {
	switch m.selected.FilterVariant() {
	case models.VariantBoolean, models.VariantSelect, models.VariantMultiSelect:
		choices := m.valueChoices()
		if len(choices) == 0 {
			return ""
		}
		return choices[m.cursor].Value
	}
	return m.search.Value()
}

// commit adds a filter for the selected column. Blank values keep the menu open.
func (m *FilterMenu) commit(value string) tea.Cmd {
	entry, ok := filter.NewEntry(*m.selected, value)
	if !ok {
		return nil
	}
	added := func() tea.Msg { return FilterAddedMsg{Entry: entry} }
	return tea.Batch(added, m.Close())
}

// View renders the menu
func (m *FilterMenu) View() string {
	if !m.IsOpen() {
		return ""
	}
	th := m.Theme

	var sections []string

	titleStyle := lipgloss.NewStyle().
		Foreground(th.Foreground).
		Background(th.Info).
		Padding(0, 1).
		Bold(true)
	title := "Add filter"
	if m.target != "" {
		title = "Change field"
	}
	if m.selected != nil {
		title = m.selected.Title()
	}
	sections = append(sections, titleStyle.Render(title))

	if m.state == MenuValueSelection && m.selected.FilterVariant().IsDate() {
		sections = append(sections, m.calendar.View(th, true))
	} else {
		sections = append(sections, m.search.View())
		sections = append(sections, m.renderList()...)
	}

	hintStyle := lipgloss.NewStyle().Foreground(th.Muted).Italic(true)
	hint := "↑↓ Move  Enter Select  ^R Reset  Esc Close"
	if m.state == MenuValueSelection {
		hint = "Enter Apply  ⌫ Back  Esc Close"
	}
	sections = append(sections, hintStyle.Render(hint))

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(th.BorderFocused).
		Padding(0, 1).
		Width(m.Width).
		Render(strings.Join(sections, "\n"))
}

func (m *FilterMenu) renderList() []string {
	th := m.Theme
	row := func(i int, text string) string {
		style := lipgloss.NewStyle().Padding(0, 1)
		if i == m.cursor {
			style = style.Background(th.Selection).Foreground(th.Foreground).Bold(true)
		}
		return style.Render(text)
	}

	var lines []string
	if m.state == MenuFieldSelection {
		visible := m.VisibleColumns()
		if len(visible) == 0 {
			return []string{lipgloss.NewStyle().Foreground(th.Muted).Render("No matching fields")}
		}
		for i, col := range visible {
			text := col.Title()
			if col.Meta.Icon != "" {
				text = col.Meta.Icon + " " + text
			}
			lines = append(lines, row(i, text))
		}
		return lines
	}

	choices := m.valueChoices()
	if choices == nil {
		return []string{row(0, fmt.Sprintf("Filter by %q", m.search.Value()))}
	}
	for i, opt := range choices {
		lines = append(lines, row(i, optionText(opt)))
	}
	return lines
}
