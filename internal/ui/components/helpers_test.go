package components

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/dafoggo/klinh-admin/internal/catalog"
	"github.com/dafoggo/klinh-admin/internal/filter"
	"github.com/dafoggo/klinh-admin/internal/models"
	"github.com/dafoggo/klinh-admin/internal/ui/theme"
)

var namedKeys = map[string]tea.KeyType{
	"enter":     tea.KeyEnter,
	"esc":       tea.KeyEsc,
	"backspace": tea.KeyBackspace,
	"delete":    tea.KeyDelete,
	"up":        tea.KeyUp,
	"down":      tea.KeyDown,
	"left":      tea.KeyLeft,
	"right":     tea.KeyRight,
	"tab":       tea.KeyTab,
	"ctrl+r":    tea.KeyCtrlR,
}

func key(s string) tea.KeyMsg {
	if kt, ok := namedKeys[s]; ok {
		return tea.KeyMsg{Type: kt}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// runes splits text into one key press per character
func runes(text string) []tea.KeyMsg {
	keys := make([]tea.KeyMsg, 0, len(text))
	for _, r := range text {
		keys = append(keys, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	return keys
}

// collect runs cmd and flattens batches into the produced messages
func collect(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, collect(c)...)
		}
		return out
	}
	if msg == nil {
		return nil
	}
	return []tea.Msg{msg}
}

// lastPatch returns the last FilterPatchMsg produced by cmd
func lastPatch(t *testing.T, cmd tea.Cmd) FilterPatchMsg {
	t.Helper()
	var found *FilterPatchMsg
	for _, msg := range collect(cmd) {
		if p, ok := msg.(FilterPatchMsg); ok {
			found = &p
		}
	}
	if found == nil {
		t.Fatal("expected a FilterPatchMsg")
	}
	return *found
}

func testColumns() []models.Column {
	return catalog.ProductColumns()
}

func testColumn(t *testing.T, id string) models.Column {
	t.Helper()
	col, ok := models.FindColumn(testColumns(), id)
	if !ok {
		t.Fatalf("unknown test column %q", id)
	}
	return col
}

func testEntry(id string, variant models.Variant, op models.FilterOperator, value models.FilterValue) models.FilterEntry {
	return models.FilterEntry{ID: id, Variant: variant, Operator: op, Value: value, FilterID: "f-" + id}
}

func newTestMenu() *FilterMenu {
	m := NewFilterMenu(theme.DefaultTheme(), testColumns())
	m.CloseDelay = time.Millisecond
	m.Location = time.UTC
	return m
}

func stubFilterID(t *testing.T, id string) {
	t.Helper()
	orig := filter.NewFilterID
	filter.NewFilterID = func() string { return id }
	t.Cleanup(func() { filter.NewFilterID = orig })
}
