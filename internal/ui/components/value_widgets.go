package components

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/dafoggo/klinh-admin/internal/filter"
	"github.com/dafoggo/klinh-admin/internal/models"
	"github.com/dafoggo/klinh-admin/internal/ui/theme"
)

// WidgetKind identifies the value editor shown for a filter
type WidgetKind int

const (
	WidgetEmpty WidgetKind = iota
	WidgetInput
	WidgetRange
	WidgetBoolean
	WidgetOptions
	WidgetCalendar
)

func (k WidgetKind) String() string {
	switch k {
	case WidgetEmpty:
		return "empty"
	case WidgetInput:
		return "input"
	case WidgetRange:
		return "range"
	case WidgetBoolean:
		return "boolean"
	case WidgetOptions:
		return "options"
	case WidgetCalendar:
		return "calendar"
	}
	return fmt.Sprintf("WidgetKind(%d)", int(k))
}

// anyOperator is the fallback key of a dispatch row
const anyOperator models.FilterOperator = "*"

var widgetDispatch = map[models.Variant]map[models.FilterOperator]WidgetKind{
	models.VariantText:        {anyOperator: WidgetInput, models.OpIsBetween: WidgetRange},
	models.VariantNumber:      {anyOperator: WidgetInput, models.OpIsBetween: WidgetRange},
	models.VariantRange:       {anyOperator: WidgetInput, models.OpIsBetween: WidgetRange},
	models.VariantBoolean:     {anyOperator: WidgetBoolean},
	models.VariantSelect:      {anyOperator: WidgetOptions},
	models.VariantMultiSelect: {anyOperator: WidgetOptions},
	models.VariantDate:        {anyOperator: WidgetCalendar},
	models.VariantDateRange:   {anyOperator: WidgetCalendar},
}

// WidgetKindFor returns the editor used for a variant and operator.
// Empty operators never take a value; unknown variants edit like text.
func WidgetKindFor(variant models.Variant, op models.FilterOperator) WidgetKind {
	if filter.IsEmptyOperator(op) {
		return WidgetEmpty
	}
	row, ok := widgetDispatch[variant]
	if !ok {
		row = widgetDispatch[models.VariantText]
	}
	if kind, ok := row[op]; ok {
		return kind
	}
	return row[anyOperator]
}

// ValueWidget edits the value of one active filter. Widgets emit
// FilterPatchMsg commands and keep a local copy of the entry so fast
// consecutive edits build on each other.
type ValueWidget interface {
	Kind() WidgetKind
	Focus() tea.Cmd
	Blur()
	Focused() bool
	Update(msg tea.KeyMsg) tea.Cmd
	View(th theme.Theme) string
	SetEntry(entry models.FilterEntry)
}

// NewValueWidget creates the widget the dispatch table picks for entry
func NewValueWidget(column models.Column, entry models.FilterEntry, loc *time.Location) ValueWidget {
	switch WidgetKindFor(entry.Variant, entry.Operator) {
	case WidgetEmpty:
		return &EmptyIndicator{}
	case WidgetRange:
		return newRangeWidget(column, entry)
	case WidgetBoolean:
		return newBooleanWidget(entry)
	case WidgetOptions:
		return newOptionsWidget(column, entry)
	case WidgetCalendar:
		return newCalendarWidget(entry, loc)
	default:
		return newInputWidget(column, entry)
	}
}

func patchCmd(filterID string, patch filter.Patch, debounced bool) tea.Cmd {
	return func() tea.Msg {
		return FilterPatchMsg{FilterID: filterID, Patch: patch, Debounced: debounced}
	}
}

func newTextInput(placeholder string, width int) textinput.Model {
	ti := textinput.New()
	ti.Prompt = ""
	ti.Placeholder = placeholder
	ti.CharLimit = 256
	ti.Width = width
	ti.Cursor.SetMode(cursor.CursorStatic)
	return ti
}

// numericKey reports whether a key can be typed into a numeric input
func numericKey(msg tea.KeyMsg) bool {
	if msg.Type == tea.KeySpace {
		return false
	}
	if msg.Type != tea.KeyRunes {
		return true
	}
	for _, r := range msg.Runes {
		if !strings.ContainsRune("0123456789.-", r) {
			return false
		}
	}
	return true
}

// EmptyIndicator is shown for operators that take no value
type EmptyIndicator struct{}

func (w *EmptyIndicator) Kind() WidgetKind { return WidgetEmpty }
func (w *EmptyIndicator) Focus() tea.Cmd { return nil }
func (w *EmptyIndicator) Blur() {}
func (w *EmptyIndicator) Focused() bool { return false }
func (w *EmptyIndicator) Update(tea.KeyMsg) tea.Cmd { return nil }
func (w *EmptyIndicator) SetEntry(models.FilterEntry) {}
func (w *EmptyIndicator) View(th theme.Theme) string {
	return lipgloss.NewStyle().Foreground(th.Muted).Italic(true).Render("Empty")
}

// InputWidget edits a free text or numeric value
type InputWidget struct {
	entry   models.FilterEntry
	input   textinput.Model
	numeric bool
	unit    string
}

func newInputWidget(column models.Column, entry models.FilterEntry) *InputWidget {
	placeholder := column.Meta.Placeholder
	if placeholder == "" {
		placeholder = "Search..."
	}
	ti := newTextInput(placeholder, 20)
	ti.SetValue(entry.Value.String())
	return &InputWidget{
		entry:   entry,
		input:   ti,
		numeric: entry.Variant.IsNumeric(),
		unit:    column.Meta.Unit,
	}
}

func (w *InputWidget) Kind() WidgetKind { return WidgetInput }
func (w *InputWidget) Focus() tea.Cmd { return w.input.Focus() }
func (w *InputWidget) Blur() { w.input.Blur() }
func (w *InputWidget) Focused() bool { return w.input.Focused() }

// Value returns the text currently typed
func (w *InputWidget) Value() string { return w.input.Value() }

func (w *InputWidget) Update(msg tea.KeyMsg) tea.Cmd {
	if msg.String() == "enter" {
		w.input.Blur()
		return patchCmd(w.entry.FilterID, filter.ValuePatch(models.StringValue(w.input.Value())), false)
	}
	if w.numeric && !numericKey(msg) {
		return nil
	}

	before := w.input.Value()
	var cmd tea.Cmd
	w.input, cmd = w.input.Update(msg)
	if after := w.input.Value(); after != before {
		w.entry.Value = models.StringValue(after)
		return tea.Batch(cmd, patchCmd(w.entry.FilterID, filter.ValuePatch(w.entry.Value), true))
	}
	return cmd
}

func (w *InputWidget) SetEntry(entry models.FilterEntry) {
	w.entry = entry
	if !w.input.Focused() {
		w.input.SetValue(entry.Value.String())
	}
}

func (w *InputWidget) View(th theme.Theme) string {
	style := lipgloss.NewStyle().Foreground(th.ValueText)
	view := style.Render(w.input.View())
	if w.unit != "" {
		view += lipgloss.NewStyle().Foreground(th.Muted).Render(" " + w.unit)
	}
	return view
}

// RangeWidget edits the two bounds of an isBetween filter
type RangeWidget struct {
	entry  models.FilterEntry
	inputs [2]textinput.Model
	active int
	unit   string
}

func newRangeWidget(column models.Column, entry models.FilterEntry) *RangeWidget {
	lo, hi := filter.RangeBounds(entry.Value)
	w := &RangeWidget{entry: entry, unit: column.Meta.Unit}
	w.inputs[0] = newTextInput("min", 8)
	w.inputs[1] = newTextInput("max", 8)
	w.inputs[0].SetValue(lo)
	w.inputs[1].SetValue(hi)
	return w
}

func (w *RangeWidget) Kind() WidgetKind { return WidgetRange }

func (w *RangeWidget) Focus() tea.Cmd {
	return w.inputs[w.active].Focus()
}

func (w *RangeWidget) Blur() {
	w.inputs[0].Blur()
	w.inputs[1].Blur()
}

func (w *RangeWidget) Focused() bool {
	return w.inputs[0].Focused() || w.inputs[1].Focused()
}

// Bounds returns the typed lower and upper bound
func (w *RangeWidget) Bounds() (string, string) {
	return w.inputs[0].Value(), w.inputs[1].Value()
}

func (w *RangeWidget) value() models.FilterValue {
	lo, hi := w.Bounds()
	return models.ListValue(lo, hi)
}

func (w *RangeWidget) Update(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "tab", "shift+tab":
		w.inputs[w.active].Blur()
		w.active = 1 - w.active
		return w.inputs[w.active].Focus()
	case "enter":
		w.Blur()
		return patchCmd(w.entry.FilterID, filter.ValuePatch(w.value()), false)
	}
	if !numericKey(msg) {
		return nil
	}

	before := w.inputs[w.active].Value()
	var cmd tea.Cmd
	w.inputs[w.active], cmd = w.inputs[w.active].Update(msg)
	if w.inputs[w.active].Value() != before {
		w.entry.Value = w.value()
		return tea.Batch(cmd, patchCmd(w.entry.FilterID, filter.ValuePatch(w.entry.Value), true))
	}
	return cmd
}

func (w *RangeWidget) SetEntry(entry models.FilterEntry) {
	w.entry = entry
	if w.Focused() {
		return
	}
	lo, hi := filter.RangeBounds(entry.Value)
	w.inputs[0].SetValue(lo)
	w.inputs[1].SetValue(hi)
}

func (w *RangeWidget) View(th theme.Theme) string {
	style := lipgloss.NewStyle().Foreground(th.ValueText)
	muted := lipgloss.NewStyle().Foreground(th.Muted)
	view := style.Render(w.inputs[0].View()) + muted.Render(" and ") + style.Render(w.inputs[1].View())
	if w.unit != "" {
		view += muted.Render(" " + w.unit)
	}
	return view
}

// BooleanWidget picks True or False
type BooleanWidget struct {
	entry   models.FilterEntry
	cursor  int
	focused bool
}

var booleanChoices = []struct {
	value string
	label string
}{
	{"true", "True"},
	{"false", "False"},
}

func newBooleanWidget(entry models.FilterEntry) *BooleanWidget {
	w := &BooleanWidget{entry: entry}
	if v, ok := filter.ParseBool(entry.Value.String()); ok && !v {
		w.cursor = 1
	}
	return w
}

func (w *BooleanWidget) Kind() WidgetKind { return WidgetBoolean }
func (w *BooleanWidget) Focus() tea.Cmd {
	w.focused = true
	return nil
}
func (w *BooleanWidget) Blur() { w.focused = false }
func (w *BooleanWidget) Focused() bool { return w.focused }

func (w *BooleanWidget) Update(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "left", "right", "up", "down", "h", "l", "j", "k", "tab":
		w.cursor = 1 - w.cursor
	case "t":
		w.cursor = 0
	case "f":
		w.cursor = 1
	case "enter", " ":
		w.entry.Value = models.StringValue(booleanChoices[w.cursor].value)
		w.focused = false
		return patchCmd(w.entry.FilterID, filter.ValuePatch(w.entry.Value), false)
	}
	return nil
}

func (w *BooleanWidget) SetEntry(entry models.FilterEntry) {
	w.entry = entry
}

func (w *BooleanWidget) View(th theme.Theme) string {
	current, hasValue := filter.ParseBool(w.entry.Value.String())
	var parts []string
	for i, choice := range booleanChoices {
		style := lipgloss.NewStyle().Padding(0, 1)
		if hasValue && (choice.value == "true") == current {
			style = style.Background(th.ChipActive).Foreground(th.Foreground)
		}
		if w.focused && i == w.cursor {
			style = style.Reverse(true)
		}
		parts = append(parts, style.Render(choice.label))
	}
	return strings.Join(parts, " ")
}

// OptionsWidget picks one option of a select column or toggles options of a
// multiSelect column
type OptionsWidget struct {
	entry   models.FilterEntry
	options []models.Option
	multi   bool
	search  textinput.Model
	cursor  int
	focused bool
}

func newOptionsWidget(column models.Column, entry models.FilterEntry) *OptionsWidget {
	return &OptionsWidget{
		entry:   entry,
		options: column.Meta.Options,
		multi:   entry.Variant == models.VariantMultiSelect,
		search:  newTextInput("Search options...", 18),
	}
}

func (w *OptionsWidget) Kind() WidgetKind { return WidgetOptions }

func (w *OptionsWidget) Focus() tea.Cmd {
	w.focused = true
	return w.search.Focus()
}

func (w *OptionsWidget) Blur() {
	w.focused = false
	w.search.Blur()
	w.search.SetValue("")
	w.cursor = 0
}

func (w *OptionsWidget) Focused() bool { return w.focused }

// Visible returns the options matching the typed search
func (w *OptionsWidget) Visible() []models.Option {
	return FilterOptions(w.options, w.search.Value())
}

func (w *OptionsWidget) isSelected(value string) bool {
	for _, v := range w.entry.Value.Strings() {
		if v == value {
			return true
		}
	}
	return false
}

func (w *OptionsWidget) Update(msg tea.KeyMsg) tea.Cmd {
	visible := w.Visible()
	switch msg.String() {
	case "up", "ctrl+p":
		if w.cursor > 0 {
			w.cursor--
		}
		return nil
	case "down", "ctrl+n":
		if w.cursor < len(visible)-1 {
			w.cursor++
		}
		return nil
	case "enter":
		if len(visible) == 0 {
			return nil
		}
		w.entry.Value = filter.ToggleOption(w.entry, visible[w.cursor].Value)
		if !w.multi {
			w.Blur()
		}
		return patchCmd(w.entry.FilterID, filter.ValuePatch(w.entry.Value), false)
	}

	var cmd tea.Cmd
	w.search, cmd = w.search.Update(msg)
	if n := len(w.Visible()); w.cursor >= n {
		w.cursor = max(n-1, 0)
	}
	return cmd
}

func (w *OptionsWidget) SetEntry(entry models.FilterEntry) {
	w.entry = entry
}

func (w *OptionsWidget) View(th theme.Theme) string {
	value := lipgloss.NewStyle().Foreground(th.ValueText)
	var labels []string
	for _, v := range w.entry.Value.Strings() {
		labels = append(labels, optionLabel(w.options, v))
	}
	summary := value.Render(strings.Join(labels, ", "))
	if len(labels) == 0 {
		summary = lipgloss.NewStyle().Foreground(th.Muted).Render("Select...")
	}
	if !w.focused {
		return summary
	}

	var b strings.Builder
	b.WriteString(summary)
	b.WriteString("\n")
	b.WriteString(w.search.View())
	for i, opt := range w.Visible() {
		mark := "( )"
		if w.multi {
			mark = "[ ]"
		}
		if w.isSelected(opt.Value) {
			if w.multi {
				mark = "[x]"
			} else {
				mark = "(•)"
			}
		}
		line := fmt.Sprintf("%s %s", mark, optionText(opt))
		style := lipgloss.NewStyle()
		if i == w.cursor {
			style = style.Background(th.Selection).Bold(true)
		}
		b.WriteString("\n")
		b.WriteString(style.Render(line))
	}
	return b.String()
}

func optionLabel(options []models.Option, value string) string {
	for _, opt := range options {
		if opt.Value == value {
			return opt.Label
		}
	}
	return value
}

func optionText(opt models.Option) string {
	text := opt.Label
	if opt.Icon != "" {
		text = opt.Icon + " " + text
	}
	if opt.Count > 0 {
		text = fmt.Sprintf("%s (%d)", text, opt.Count)
	}
	return text
}

// CalendarWidget picks a day, or a from/to pair for isBetween. Days are
// stored as epoch milliseconds of their start.
type CalendarWidget struct {
	entry   models.FilterEntry
	cal     Calendar
	loc     *time.Location
	between bool
	bound   int
	focused bool
}

func newCalendarWidget(entry models.FilterEntry, loc *time.Location) *CalendarWidget {
	if loc == nil {
		loc = time.Local
	}
	start := time.Now()
	lo, _ := filter.RangeBounds(entry.Value)
	if t, ok := filter.ParseEpochMillis(lo); ok {
		start = t
	}
	return &CalendarWidget{
		entry:   entry,
		cal:     NewCalendar(start, loc),
		loc:     loc,
		between: entry.Operator == models.OpIsBetween,
	}
}

func (w *CalendarWidget) Kind() WidgetKind { return WidgetCalendar }
func (w *CalendarWidget) Focus() tea.Cmd {
	w.focused = true
	return nil
}
func (w *CalendarWidget) Blur() {
	w.focused = false
	w.bound = 0
}
func (w *CalendarWidget) Focused() bool { return w.focused }

// Calendar exposes the month grid
func (w *CalendarWidget) Calendar() *Calendar { return &w.cal }

func (w *CalendarWidget) Update(msg tea.KeyMsg) tea.Cmd {
	if w.between && (msg.String() == "tab" || msg.String() == "shift+tab") {
		w.bound = 1 - w.bound
		return nil
	}
	if !w.cal.Update(msg) {
		return nil
	}

	day := filter.FormatEpochMillis(w.cal.Cursor())
	if !w.between {
		w.entry.Value = models.StringValue(day)
		w.Blur()
		return patchCmd(w.entry.FilterID, filter.ValuePatch(w.entry.Value), false)
	}

	bounds := [2]string{}
	bounds[0], bounds[1] = filter.RangeBounds(w.entry.Value)
	bounds[w.bound] = day
	w.entry.Value = models.ListValue(bounds[0], bounds[1])
	if w.bound == 0 {
		w.bound = 1
	} else {
		w.Blur()
	}
	return patchCmd(w.entry.FilterID, filter.ValuePatch(w.entry.Value), false)
}

func (w *CalendarWidget) SetEntry(entry models.FilterEntry) {
	w.entry = entry
}

func (w *CalendarWidget) formatDay(ms string) (string, time.Time) {
	t, ok := filter.ParseEpochMillis(ms)
	if !ok {
		return "…", time.Time{}
	}
	t = t.In(w.loc)
	return t.Format("Jan 2, 2006"), t
}

func (w *CalendarWidget) View(th theme.Theme) string {
	value := lipgloss.NewStyle().Foreground(th.ValueText)
	lo, hi := filter.RangeBounds(w.entry.Value)
	loText, loDay := w.formatDay(lo)

	var summary string
	var selected []time.Time
	if w.between {
		hiText, hiDay := w.formatDay(hi)
		if w.focused {
			marks := [2]string{" ", " "}
			marks[w.bound] = "›"
			loText, hiText = marks[0]+loText, marks[1]+hiText
		}
		summary = value.Render(loText) + lipgloss.NewStyle().Foreground(th.Muted).Render(" – ") + value.Render(hiText)
		selected = []time.Time{loDay, hiDay}
	} else {
		summary = value.Render(loText)
		selected = []time.Time{loDay}
	}
	if !w.focused {
		return summary
	}
	return summary + "\n" + w.cal.View(th, true, selected...)
}
