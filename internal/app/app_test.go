package app

import (
	"errors"
	"net/url"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/dafoggo/klinh-admin/internal/catalog"
	"github.com/dafoggo/klinh-admin/internal/config"
	"github.com/dafoggo/klinh-admin/internal/filter"
	"github.com/dafoggo/klinh-admin/internal/filter/clocktest"
	"github.com/dafoggo/klinh-admin/internal/models"
	"github.com/dafoggo/klinh-admin/internal/querystate"
	"github.com/dafoggo/klinh-admin/internal/ui/components"
)

type testApp struct {
	*App
	loc    *querystate.MemoryLocation
	store  *querystate.Store
	clock  *clocktest.ManualClock
	parser *filter.Parser
}

func newTestApp(t *testing.T, rawURL string) *testApp {
	t.Helper()

	loc, err := querystate.NewMemoryLocation(rawURL)
	if err != nil {
		t.Fatalf("NewMemoryLocation: %v", err)
	}
	columns := catalog.ProductColumns()
	parser := filter.NewParser(catalog.FilterableIDs(columns), nil)
	clock := clocktest.NewManualClock(time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC))

	opts := querystate.DefaultOptions()
	opts.Clock = clock
	store := querystate.NewStore(loc, parser, opts)
	t.Cleanup(store.Close)

	cfg := config.GetDefaults()
	cfg.Filters.CloseDelayMs = 1

	a := New(Options{
		Config:   cfg,
		Location: loc,
		Store:    store,
		Source:   catalog.NewMemorySource(catalog.SampleProducts()),
		Columns:  columns,
	})
	return &testApp{App: a, loc: loc, store: store, clock: clock, parser: parser}
}

func keyMsg(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	case "ctrl+f":
		return tea.KeyMsg{Type: tea.KeyCtrlF}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// run executes cmd and feeds every message it produces back into the app,
// skipping quit and delayed menu messages
func (ta *testApp) run(cmd tea.Cmd) {
	if cmd == nil {
		return
	}
	msg := cmd()
	switch msg := msg.(type) {
	case nil, tea.QuitMsg:
		return
	case tea.BatchMsg:
		for _, c := range msg {
			ta.run(c)
		}
		return
	}
	_, next := ta.Update(msg)
	ta.run(next)
}

func (ta *testApp) send(msg tea.Msg) {
	_, cmd := ta.Update(msg)
	ta.run(cmd)
}

func featuredEntry() models.FilterEntry {
	return models.FilterEntry{
		ID:       "is_featured",
		Value:    models.StringValue("true"),
		Variant:  models.VariantBoolean,
		Operator: models.OpIs,
		FilterID: "feat0001",
	}
}

func TestApp_HydratesFromLocation(t *testing.T) {
	raw, _ := filter.NewParser([]string{"is_featured"}, nil).Serialize([]models.FilterEntry{featuredEntry()})
	q := url.Values{}
	q.Set("filters", raw)

	ta := newTestApp(t, "/admin/products?"+q.Encode())
	if ta.filterList.Len() != 1 {
		t.Fatalf("expected 1 filter item, got %d", ta.filterList.Len())
	}
	if ta.toolbar.ActiveCount("is_featured") != 1 {
		t.Error("expected toolbar to count the featured filter")
	}
}

func TestApp_AddFilterWritesLocation(t *testing.T) {
	ta := newTestApp(t, "/admin/products")

	ta.send(components.FilterAddedMsg{Entry: featuredEntry()})

	raw := ta.loc.Query().Get("filters")
	if raw == "" {
		t.Fatal("expected filters param to be written")
	}
	entries := ta.parser.Parse(raw)
	if len(entries) != 1 || entries[0].FilterID != "feat0001" {
		t.Fatalf("unexpected entries in location: %+v", entries)
	}
	if ta.state.Focus != models.FocusFilters {
		t.Errorf("expected focus on filters, got %v", ta.state.Focus)
	}
	if ta.state.TotalRows != 5 {
		t.Errorf("expected 5 featured products, got %d", ta.state.TotalRows)
	}
}

func TestApp_InvalidFilterShowsError(t *testing.T) {
	ta := newTestApp(t, "/admin/products")

	entry := featuredEntry()
	entry.Operator = models.OpContains
	ta.send(components.FilterAddedMsg{Entry: entry})

	if !ta.showError {
		t.Fatal("expected error overlay")
	}
	if ta.loc.Query().Has("filters") {
		t.Error("invalid filter should not be written")
	}

	ta.send(keyMsg("esc"))
	if ta.showError {
		t.Error("esc should dismiss the error")
	}
}

func TestApp_ResetRemovesParam(t *testing.T) {
	ta := newTestApp(t, "/admin/products?page=2")
	ta.send(components.FilterAddedMsg{Entry: featuredEntry()})

	ta.send(components.ResetFiltersMsg{})
	ta.store.Flush()

	q := ta.loc.Query()
	if q.Has("filters") {
		t.Errorf("expected filters param to be removed, got %q", q.Get("filters"))
	}
	if q.Get("page") != "2" {
		t.Error("unrelated params should be kept")
	}
	if ta.filterList.Len() != 0 || ta.state.Focus != models.FocusToolbar {
		t.Errorf("expected empty list and toolbar focus, got %d/%v", ta.filterList.Len(), ta.state.Focus)
	}
}

func TestApp_ResetConfirmation(t *testing.T) {
	ta := newTestApp(t, "/admin/products")
	ta.config.General.ConfirmReset = true
	ta.send(components.FilterAddedMsg{Entry: featuredEntry()})

	ta.send(components.ResetFiltersMsg{})
	if !ta.prompt.Visible {
		t.Fatal("expected confirmation prompt")
	}
	if len(ta.store.Filters()) != 1 {
		t.Fatal("filters should survive until confirmed")
	}

	ta.send(components.PromptSubmitMsg{Purpose: promptReset, Value: "YES"})
	if len(ta.store.Filters()) != 0 {
		t.Error("expected filters to be reset after confirmation")
	}
}

func TestApp_RemoveFocusesTrigger(t *testing.T) {
	ta := newTestApp(t, "/admin/products")
	ta.send(components.FilterAddedMsg{Entry: featuredEntry()})

	ta.send(components.RemoveFilterMsg{FilterID: "feat0001"})

	if len(ta.store.Filters()) != 0 {
		t.Fatal("expected filter to be removed")
	}
	if ta.state.Focus != models.FocusToolbar || !ta.toolbar.OnTrigger() {
		t.Error("expected focus on the filter trigger")
	}
}

func TestApp_RemoveLast(t *testing.T) {
	ta := newTestApp(t, "/admin/products")

	ta.send(components.RemoveLastFilterMsg{})
	if ta.showError {
		t.Fatal("removing from an empty list should be a no-op")
	}

	ta.send(components.FilterAddedMsg{Entry: featuredEntry()})
	ta.send(components.RemoveLastFilterMsg{})
	if len(ta.store.Filters()) != 0 {
		t.Error("expected last filter to be removed")
	}
}

func TestApp_DebouncedPatch(t *testing.T) {
	ta := newTestApp(t, "/admin/products")
	entry := models.FilterEntry{
		ID: "name", Value: models.StringValue("oak"), Variant: models.VariantText,
		Operator: models.OpContains, FilterID: "name0001",
	}
	ta.send(components.FilterAddedMsg{Entry: entry})

	ta.send(components.FilterPatchMsg{
		FilterID:  "name0001",
		Patch:     filter.ValuePatch(models.StringValue("lamp")),
		Debounced: true,
	})
	if got := ta.store.Filters()[0].Value.String(); got != "oak" {
		t.Fatalf("debounced patch applied early: %q", got)
	}

	ta.clock.Advance(querystate.DefaultDebounce)
	ta.clock.Advance(querystate.DefaultThrottle)
	if got := ta.store.Filters()[0].Value.String(); got != "lamp" {
		t.Fatalf("expected value lamp after debounce, got %q", got)
	}
	entries := ta.parser.Parse(ta.loc.Query().Get("filters"))
	if len(entries) != 1 || entries[0].Value.String() != "lamp" {
		t.Errorf("expected location to carry the new value, got %+v", entries)
	}
}

func TestApp_FieldChange(t *testing.T) {
	ta := newTestApp(t, "/admin/products")
	ta.send(components.FilterAddedMsg{Entry: featuredEntry()})

	col, _ := models.FindColumn(ta.columns, "name")
	ta.send(components.FieldChangedMsg{FilterID: "feat0001", Column: col})

	got := ta.store.Filters()[0]
	if got.ID != "name" || got.Variant != models.VariantText || got.Operator != models.OpContains {
		t.Errorf("unexpected entry after field change: %+v", got)
	}
}

func TestApp_ToggleMenuShortcut(t *testing.T) {
	ta := newTestApp(t, "/admin/products")

	ta.Update(keyMsg("ctrl+f"))
	if !ta.menu.IsOpen() {
		t.Fatal("expected ctrl+f to open the filter menu")
	}

	// q is typed into the menu search while it is open
	_, cmd := ta.Update(keyMsg("q"))
	if cmd != nil {
		if _, ok := cmd().(tea.QuitMsg); ok {
			t.Fatal("q should not quit while the menu is open")
		}
	}
	if ta.menu.SearchValue() != "q" {
		t.Errorf("expected search to receive q, got %q", ta.menu.SearchValue())
	}

	ta.Update(keyMsg("esc"))
	if ta.menu.IsOpen() {
		t.Error("esc should close the menu")
	}
}

func TestApp_TypingWhileEditingDoesNotQuit(t *testing.T) {
	ta := newTestApp(t, "/admin/products")
	ta.send(components.FilterAddedMsg{Entry: models.FilterEntry{
		ID: "name", Value: models.StringValue("x"), Variant: models.VariantText,
		Operator: models.OpContains, FilterID: "name0001",
	}})

	ta.Update(keyMsg("enter"))
	if !ta.inputFocused() {
		t.Fatal("expected the filter input to be focused")
	}

	_, cmd := ta.Update(keyMsg("q"))
	if cmd != nil {
		if _, ok := cmd().(tea.QuitMsg); ok {
			t.Fatal("q should be typed into the input, not quit")
		}
	}
}

func TestApp_CopyURL(t *testing.T) {
	ta := newTestApp(t, "/admin/products")
	ta.send(components.FilterAddedMsg{Entry: featuredEntry()})
	ta.setFocus(models.FocusTable)

	var copied string
	ta.clipboardWrite = func(s string) error {
		copied = s
		return nil
	}
	ta.Update(keyMsg("y"))

	if copied != ta.loc.String() {
		t.Errorf("expected %q to be copied, got %q", ta.loc.String(), copied)
	}

	ta.clipboardWrite = func(string) error { return errors.New("no clipboard") }
	ta.Update(keyMsg("y"))
	if !ta.showError {
		t.Error("expected clipboard failure to show an error")
	}
}

func TestApp_LocationChangeSyncs(t *testing.T) {
	ta := newTestApp(t, "/admin/products")
	ta.send(components.FilterAddedMsg{Entry: featuredEntry()})

	if err := ta.loc.Navigate("/admin/products"); err != nil {
		t.Fatalf("Navigate: %v", err)
	}
	ta.send(LocationChangedMsg{URL: ta.loc.String()})

	if len(ta.store.Filters()) != 0 || ta.filterList.Len() != 0 {
		t.Error("expected filters to follow the location")
	}
}

func TestApp_StalePageIgnored(t *testing.T) {
	ta := newTestApp(t, "/admin/products")

	stale := ta.loadPage(0)
	fresh := ta.loadPage(0)

	ta.Update(fresh())
	total := ta.state.TotalRows

	msg := stale().(PageLoadedMsg)
	msg.Page.TotalRows = 999
	ta.Update(msg)
	if ta.state.TotalRows != total {
		t.Errorf("stale page should be ignored, got %d rows", ta.state.TotalRows)
	}
}

func TestApp_HelpMode(t *testing.T) {
	ta := newTestApp(t, "/admin/products")
	ta.setFocus(models.FocusTable)

	ta.Update(keyMsg("?"))
	if ta.state.ViewMode != models.HelpMode {
		t.Fatal("expected help mode")
	}
	if ta.View() == "" {
		t.Error("expected help to render")
	}
	ta.Update(keyMsg("esc"))
	if ta.state.ViewMode != models.NormalMode {
		t.Error("esc should leave help")
	}
}

func TestApp_QuitFlushes(t *testing.T) {
	ta := newTestApp(t, "/admin/products")
	ta.send(components.FilterAddedMsg{Entry: featuredEntry()})
	ta.send(components.RemoveFilterMsg{FilterID: "feat0001"})

	_, cmd := ta.Update(keyMsg("ctrl+c"))
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("expected tea.QuitMsg")
	}
	if ta.loc.Query().Has("filters") {
		t.Error("expected pending write to be flushed on quit")
	}
}
