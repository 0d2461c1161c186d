package app

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/dafoggo/klinh-admin/internal/catalog"
	"github.com/dafoggo/klinh-admin/internal/config"
	"github.com/dafoggo/klinh-admin/internal/filter"
	"github.com/dafoggo/klinh-admin/internal/logging"
	"github.com/dafoggo/klinh-admin/internal/models"
	"github.com/dafoggo/klinh-admin/internal/querystate"
	"github.com/dafoggo/klinh-admin/internal/ui/components"
	"github.com/dafoggo/klinh-admin/internal/ui/help"
	"github.com/dafoggo/klinh-admin/internal/ui/theme"
	"github.com/dafoggo/klinh-admin/internal/views"
)

const (
	promptSaveView = "save-view"
	promptReset    = "reset"
)

// App is the main application model
type App struct {
	state  models.AppState
	config *config.Config
	theme  theme.Theme
	keys   help.KeyMap
	log    logging.Logger

	location *querystate.MemoryLocation
	store    *querystate.Store
	source   catalog.Source
	views    *views.Manager
	columns  []models.Column

	toolbar     *components.Toolbar
	filterList  *components.FilterList
	menu        *components.FilterMenu
	table       *components.DataTable
	prompt      *components.PromptInput
	filterPanel components.Panel
	tablePanel  components.Panel

	// Error overlay
	showError    bool
	errorOverlay *components.ErrorOverlay

	status  string
	offset  int
	loadSeq int

	clipboardWrite func(string) error
}

// Options holds the collaborators of the App
type Options struct {
	Config   *config.Config
	Location *querystate.MemoryLocation
	Store    *querystate.Store
	Source   catalog.Source
	Columns  []models.Column
	// Views is optional; saving views is disabled without it
	Views  *views.Manager
	Logger logging.Logger
}

// ErrorMsg is sent when an error occurs
type ErrorMsg struct {
	Title   string
	Message string
}

// LocationChangedMsg is sent when the location moved to another page
type LocationChangedMsg struct {
	URL string
}

// PageLoadedMsg is sent when a page of products is loaded
type PageLoadedMsg struct {
	Page models.ProductPage
	Err  error
	seq  int
}

// New creates a new App instance
func New(opts Options) *App {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.GetDefaults()
	}
	log := opts.Logger
	if log == nil {
		log = logging.NewNop()
	}

	state := models.NewAppState()
	state.Table = cfg.Database.Table
	state.Focus = models.FocusToolbar

	th := theme.GetTheme(cfg.UI.Theme)

	menu := components.NewFilterMenu(th, opts.Columns)
	if d := cfg.Filters.CloseDelay(); d > 0 {
		menu.CloseDelay = d
	}

	var tableColumns []models.Column
	for _, col := range opts.Columns {
		if col.ID != "description" {
			tableColumns = append(tableColumns, col)
		}
	}
	table := components.NewDataTable(th, tableColumns)
	if cfg.Data.MaxCellDisplayLength > 0 {
		table.MaxCellWidth = cfg.Data.MaxCellDisplayLength
	}

	a := &App{
		state:          state,
		config:         cfg,
		theme:          th,
		keys:           help.DefaultKeyMap(cfg.UI.FilterMenuKey),
		log:            log,
		location:       opts.Location,
		store:          opts.Store,
		source:         opts.Source,
		views:          opts.Views,
		columns:        opts.Columns,
		toolbar:        components.NewToolbar(th, opts.Columns),
		filterList:     components.NewFilterList(th, opts.Columns, time.Local),
		menu:           menu,
		table:          table,
		prompt:         components.NewPromptInput(th),
		errorOverlay:   components.NewErrorOverlay(th),
		clipboardWrite: clipboard.WriteAll,
		filterPanel: components.Panel{
			Title: "Filters",
		},
		tablePanel: components.Panel{
			Title: "Products",
		},
	}

	a.refreshFilters()
	a.setFocus(models.FocusToolbar)
	a.toolbar.FocusTrigger()
	a.updatePanelDimensions()
	a.updatePanelStyles()

	return a
}

// Attach forwards store and location changes to the running program. send is
// called from a new goroutine because changes also happen inside Update.
func (a *App) Attach(send func(tea.Msg)) {
	a.store.OnChange(func(entries []models.FilterEntry) {
		go send(components.FiltersChangedMsg{Filters: entries})
	})
	a.location.OnNavigate(func(u *url.URL) {
		go send(LocationChangedMsg{URL: u.String()})
	})
}

// Init implements tea.Model
func (a *App) Init() tea.Cmd {
	return a.loadPage(0)
}

// Shutdown writes pending filter changes and stops the store timers
func (a *App) Shutdown() {
	a.store.Flush()
	a.store.Close()
}

// Update implements tea.Model
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case ErrorMsg:
		a.ShowError(msg.Title, msg.Message)
		return a, nil

	case tea.KeyMsg:
		return a.handleKey(msg)

	case tea.WindowSizeMsg:
		a.state.Width = msg.Width
		a.state.Height = msg.Height
		a.updatePanelDimensions()
		return a, nil

	case components.FiltersChangedMsg:
		// The store may have moved on since the message was sent
		a.refreshFilters()
		return a, a.loadPage(0)

	case LocationChangedMsg:
		a.log.Debug("location changed", "url", msg.URL)
		a.store.Sync()
		a.refreshFilters()
		return a, a.loadPage(0)

	case components.FilterAddedMsg:
		if err := a.store.Add(msg.Entry); err != nil {
			a.ShowError("Invalid Filter", err.Error())
			return a, nil
		}
		a.refreshFilters()
		a.setFocus(models.FocusFilters)
		return a, a.loadPage(0)

	case components.FilterPatchMsg:
		if msg.Debounced {
			a.store.UpdateDebounced(msg.FilterID, msg.Patch)
			return a, nil
		}
		if err := a.store.Update(msg.FilterID, msg.Patch); err != nil {
			a.log.Debug("ignoring patch", "filterId", msg.FilterID, "error", err)
			return a, nil
		}
		a.refreshFilters()
		return a, a.loadPage(0)

	case components.RemoveFilterMsg:
		if err := a.store.Remove(msg.FilterID); err != nil && !errors.Is(err, querystate.ErrUnknownFilter) {
			a.ShowError("Filter Error", err.Error())
		}
		a.refreshFilters()
		return a, tea.Batch(a.loadPage(0), focusTrigger)

	case components.RemoveLastFilterMsg:
		if _, ok := a.store.RemoveLast(); ok {
			a.refreshFilters()
			return a, a.loadPage(0)
		}
		return a, nil

	case components.ResetFiltersMsg:
		if a.config.General.ConfirmReset {
			return a, a.prompt.Show(promptReset, "Reset every filter? Type yes to confirm", "yes")
		}
		return a, a.resetFilters()

	case components.OpenFilterMenuMsg:
		if msg.ColumnID != "" {
			return a, a.menu.OpenForColumn(msg.ColumnID)
		}
		return a, a.menu.Open()

	case components.ToggleFilterMenuMsg:
		return a, a.menu.Toggle()

	case components.ChangeFieldMsg:
		return a, a.menu.OpenForEntry(msg.FilterID)

	case components.FieldChangedMsg:
		if err := a.store.Update(msg.FilterID, filter.ColumnPatch(msg.Column)); err != nil {
			a.log.Debug("ignoring field change", "filterId", msg.FilterID, "error", err)
			return a, nil
		}
		a.refreshFilters()
		return a, a.loadPage(0)

	case components.FocusTriggerMsg:
		a.setFocus(models.FocusToolbar)
		a.toolbar.FocusTrigger()
		return a, nil

	case components.PromptSubmitMsg:
		return a, a.handlePrompt(msg)

	case components.PromptCancelMsg:
		return a, nil

	case PageLoadedMsg:
		if msg.seq != a.loadSeq {
			return a, nil
		}
		if msg.Err != nil {
			a.ShowError("Data Error", fmt.Sprintf("Failed to load products:\n\n%v", msg.Err))
			return a, nil
		}
		a.offset = msg.Page.Offset
		a.state.TotalRows = msg.Page.TotalRows
		a.table.SetPage(msg.Page)
		return a, nil
	}

	// Delayed menu messages
	var cmd tea.Cmd
	a.menu, cmd = a.menu.Update(msg)
	return a, cmd
}

func focusTrigger() tea.Msg {
	return components.FocusTriggerMsg{}
}

func (a *App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Handle error overlay dismissal first if visible
	if a.showError {
		switch msg.String() {
		case "esc", "enter":
			a.DismissError()
			return a, nil
		case "ctrl+c":
			return a.quit()
		}
		return a, nil
	}

	if msg.String() == "ctrl+c" {
		return a.quit()
	}

	if a.prompt.Visible {
		var cmd tea.Cmd
		a.prompt, cmd = a.prompt.Update(msg)
		return a, cmd
	}

	if a.state.ViewMode == models.HelpMode {
		switch msg.String() {
		case "?", "esc", "q":
			a.state.ViewMode = models.NormalMode
		}
		return a, nil
	}

	// The open menu owns the keyboard; its search box is a text input
	if a.menu.IsOpen() {
		var cmd tea.Cmd
		a.menu, cmd = a.menu.Update(msg)
		return a, cmd
	}

	if !a.inputFocused() {
		if model, cmd, handled := a.handleGlobalKey(msg); handled {
			return model, cmd
		}
	}

	switch a.state.Focus {
	case models.FocusToolbar:
		return a, a.toolbar.Update(msg)
	case models.FocusFilters:
		return a, a.filterList.Update(msg)
	case models.FocusTable:
		switch msg.String() {
		case "up", "k":
			a.table.MoveSelection(-1)
		case "down", "j":
			a.table.MoveSelection(1)
		}
	}
	return a, nil
}

func (a *App) handleGlobalKey(msg tea.KeyMsg) (tea.Model, tea.Cmd, bool) {
	switch {
	case key.Matches(msg, a.keys.Quit):
		model, cmd := a.quit()
		return model, cmd, true
	case key.Matches(msg, a.keys.Help):
		a.state.ViewMode = models.HelpMode
	case key.Matches(msg, a.keys.ToggleFilter):
		return a, a.menu.Toggle(), true
	case key.Matches(msg, a.keys.NextFocus):
		a.cycleFocus(1)
	case key.Matches(msg, a.keys.PrevFocus):
		a.cycleFocus(-1)
	case key.Matches(msg, a.keys.CopyURL):
		a.copyURL()
	case key.Matches(msg, a.keys.SaveView):
		if a.views == nil {
			a.status = "Saved views are not available"
			return a, nil, true
		}
		return a, a.prompt.Show(promptSaveView, "Save filters as view", "View name"), true
	case key.Matches(msg, a.keys.Back):
		a.store.Flush()
		if !a.location.Back() {
			a.status = "No earlier filter state"
		}
	case key.Matches(msg, a.keys.Refresh):
		return a, a.loadPage(a.offset), true
	case key.Matches(msg, a.keys.NextPage):
		if next := a.offset + a.pageSize(); next < a.state.TotalRows {
			return a, a.loadPage(next), true
		}
	case key.Matches(msg, a.keys.PrevPage):
		if a.offset > 0 {
			return a, a.loadPage(max(a.offset-a.pageSize(), 0)), true
		}
	default:
		return a, nil, false
	}
	return a, nil, true
}

// inputFocused reports whether keys currently go to a text input, in which
// case global shortcuts are not applied
func (a *App) inputFocused() bool {
	if a.prompt.Visible || a.menu.IsOpen() {
		return true
	}
	return a.state.Focus == models.FocusFilters && a.filterList.Editing()
}

func (a *App) quit() (tea.Model, tea.Cmd) {
	a.Shutdown()
	return a, tea.Quit
}

func (a *App) handlePrompt(msg components.PromptSubmitMsg) tea.Cmd {
	switch msg.Purpose {
	case promptReset:
		if strings.EqualFold(msg.Value, "yes") {
			return a.resetFilters()
		}
	case promptSaveView:
		q := url.Values{}
		if raw := a.location.Query().Get(a.store.Key()); raw != "" {
			q.Set(a.store.Key(), raw)
		}
		view, err := a.views.Add(msg.Value, "", a.state.Table, q.Encode())
		if err != nil {
			a.ShowError("Save Failed", fmt.Sprintf("Could not save view %q\n\nError: %v", msg.Value, err))
			return nil
		}
		a.status = fmt.Sprintf("Saved view %q", view.Name)
	}
	return nil
}

func (a *App) resetFilters() tea.Cmd {
	a.store.Reset()
	a.refreshFilters()
	a.setFocus(models.FocusToolbar)
	a.toolbar.FocusTrigger()
	return a.loadPage(0)
}

func (a *App) copyURL() {
	a.store.Flush()
	if err := a.clipboardWrite(a.location.String()); err != nil {
		a.ShowError("Clipboard Error", fmt.Sprintf("Could not copy the URL\n\nError: %v", err))
		return
	}
	a.status = "Copied URL to clipboard"
}

// refreshFilters pushes the store's list into the views
func (a *App) refreshFilters() {
	entries := a.store.Filters()
	a.toolbar.SetFilters(entries)
	a.filterList.SetFilters(entries)
	if a.state.Focus == models.FocusFilters && a.filterList.Len() == 0 {
		a.setFocus(models.FocusToolbar)
		a.toolbar.FocusTrigger()
	}
	a.updatePanelDimensions()
}

func (a *App) pageSize() int {
	if a.config.Data.PageSize > 0 {
		return a.config.Data.PageSize
	}
	return a.config.General.DefaultLimit
}

// loadPage fetches a page for the current filters. Older pending loads are
// ignored when they complete.
func (a *App) loadPage(offset int) tea.Cmd {
	a.loadSeq++
	seq := a.loadSeq
	q := catalog.Query{Filters: a.store.Filters(), Offset: offset, Limit: a.pageSize()}
	source := a.source

	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		page, err := source.List(ctx, q)
		return PageLoadedMsg{Page: page, Err: err, seq: seq}
	}
}

func (a *App) setFocus(focus models.FocusArea) {
	a.state.Focus = focus
	if focus == models.FocusToolbar {
		a.toolbar.Focus()
	} else {
		a.toolbar.Blur()
	}
	if focus == models.FocusFilters {
		a.filterList.Focus()
	} else {
		a.filterList.Blur()
	}
	a.updatePanelStyles()
}

func (a *App) cycleFocus(delta int) {
	order := []models.FocusArea{models.FocusToolbar, models.FocusFilters, models.FocusTable}
	if a.filterList.Len() == 0 {
		order = []models.FocusArea{models.FocusToolbar, models.FocusTable}
	}
	current := 0
	for i, f := range order {
		if f == a.state.Focus {
			current = i
		}
	}
	next := (current + delta + len(order)) % len(order)
	a.setFocus(order[next])
}

// View implements tea.Model
func (a *App) View() string {
	if a.showError {
		return lipgloss.Place(
			a.state.Width, a.state.Height,
			lipgloss.Center, lipgloss.Center,
			a.errorOverlay.View(),
		)
	}

	if a.state.ViewMode == models.HelpMode {
		return help.Render(a.state.Width, a.state.Height, a.theme, a.keys)
	}

	if a.prompt.Visible {
		return lipgloss.Place(
			a.state.Width, a.state.Height,
			lipgloss.Center, lipgloss.Center,
			a.prompt.View(),
		)
	}

	return a.renderNormalView()
}

// renderNormalView renders the normal application view
func (a *App) renderNormalView() string {
	count := len(a.store.Filters())
	topBarRight := "no filters"
	if count == 1 {
		topBarRight = "1 filter"
	} else if count > 1 {
		topBarRight = fmt.Sprintf("%d filters", count)
	}
	topBar := lipgloss.NewStyle().
		Width(a.state.Width).
		Background(a.theme.BorderFocused).
		Foreground(a.theme.Foreground).
		Padding(0, 2).
		Render(a.formatStatusBar("klinh. admin · "+a.state.Table, topBarRight))

	bottomBarLeft := "[tab] Focus │ [ctrl+f] Filter │ [y] Copy URL │ [?] Help │ [q] Quit"
	if !a.config.UI.ShowHelpBar {
		bottomBarLeft = ""
	}
	bottomBar := lipgloss.NewStyle().
		Width(a.state.Width).
		Background(a.theme.Selection).
		Foreground(a.theme.Foreground).
		Padding(0, 2).
		Render(a.formatStatusBar(bottomBarLeft, a.status))

	a.toolbar.Width = a.filterPanel.Width
	a.filterPanel.Content = a.toolbar.View()
	if a.filterList.Len() > 0 {
		a.filterPanel.Content += "\n" + a.filterList.View()
	}

	if a.menu.IsOpen() {
		a.tablePanel.Title = "Add filter"
		a.tablePanel.Content = a.menu.View()
	} else {
		a.tablePanel.Title = "Products"
		a.table.Width = a.tablePanel.Width
		a.table.Height = a.tablePanel.ContentHeight()
		a.tablePanel.Content = a.table.View()
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		topBar,
		a.filterPanel.View(),
		a.tablePanel.View(),
		bottomBar,
	)
}

// updatePanelDimensions calculates panel sizes based on window size
func (a *App) updatePanelDimensions() {
	if a.state.Width <= 0 || a.state.Height <= 0 {
		return
	}

	// Borders take 2 columns and 2 rows per panel
	width := a.state.Width - 2
	if width < 20 {
		width = 20
	}

	// Title + toolbar + one line per active filter
	filterHeight := 2 + a.filterList.Len()
	maxFilterHeight := a.state.Height / 2
	if filterHeight > maxFilterHeight {
		filterHeight = maxFilterHeight
	}

	// Top bar, bottom bar and two bordered panels
	tableHeight := a.state.Height - 2 - 4 - filterHeight
	if tableHeight < 5 {
		tableHeight = 5
	}

	a.filterPanel.Width = width
	a.filterPanel.Height = filterHeight
	a.tablePanel.Width = width
	a.tablePanel.Height = tableHeight
}

// updatePanelStyles updates panel styling based on focus
func (a *App) updatePanelStyles() {
	focused := lipgloss.NewStyle().BorderForeground(a.theme.BorderFocused)
	normal := lipgloss.NewStyle().BorderForeground(a.theme.Border)

	if a.state.Focus == models.FocusTable {
		a.filterPanel.Style = normal
		a.tablePanel.Style = focused
	} else {
		a.filterPanel.Style = focused
		a.tablePanel.Style = normal
	}
}

// formatStatusBar formats a status bar with left and right aligned content
func (a *App) formatStatusBar(left, right string) string {
	// Account for padding (2 chars on each side = 4 total)
	availableWidth := a.state.Width - 4
	if availableWidth < 0 {
		availableWidth = 0
	}

	leftLen := lipgloss.Width(left)
	rightLen := lipgloss.Width(right)

	if leftLen+rightLen > availableWidth {
		return lipgloss.NewStyle().MaxWidth(availableWidth).Render(left + " " + right)
	}

	spacing := availableWidth - leftLen - rightLen
	return left + strings.Repeat(" ", spacing) + right
}

// ShowError displays an error overlay with the given title and message
func (a *App) ShowError(title, message string) {
	a.errorOverlay.SetError(title, message)
	a.showError = true
}

// DismissError hides the error overlay
func (a *App) DismissError() {
	a.showError = false
}
