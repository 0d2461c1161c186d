// Package main is the klinh. admin command line: the product table with
// URL persisted filters, plus non-interactive helpers around the same state.
package main

import (
	"context"
	"fmt"
	"net/url"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/dafoggo/klinh-admin/internal/app"
	"github.com/dafoggo/klinh-admin/internal/catalog"
	"github.com/dafoggo/klinh-admin/internal/config"
	"github.com/dafoggo/klinh-admin/internal/db/connection"
	"github.com/dafoggo/klinh-admin/internal/filter"
	"github.com/dafoggo/klinh-admin/internal/history"
	"github.com/dafoggo/klinh-admin/internal/logging"
	"github.com/dafoggo/klinh-admin/internal/models"
	"github.com/dafoggo/klinh-admin/internal/querystate"
	"github.com/dafoggo/klinh-admin/internal/views"
)

const defaultURL = "/admin/products"

var (
	configFile string
	startURL   string
	viewName   string
)

// rootCmd runs the interactive product table
var rootCmd = &cobra.Command{
	Use:           "klinh-admin",
	Short:         "Browse the product catalog with URL persisted filters",
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runTable,
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&configFile, "config", "c", "", "Config file (default: ~/.config/klinh-admin/config.yaml)")
	flags.StringVarP(&startURL, "url", "u", defaultURL, "Location to start from, including the filters query")
	flags.StringVar(&viewName, "view", "", "Start from a saved view instead of the filters of --url")

	flags.String("theme", "", "Color theme (default, catppuccin-mocha)")
	flags.String("source", "", "Product source: memory or postgres")
	flags.Int("page-size", 0, "Rows per page")
	flags.String("query-key", "", "Query parameter holding the filters")
	flags.Bool("shallow", true, "Replace the location instead of pushing history entries")
	flags.Int("debounce-ms", 0, "Delay before typed filter values are applied")
	flags.String("table", "", "Database table holding the products")
	flags.Bool("history", true, "Record location changes")
	flags.String("log-level", "", "Log level (debug, info, warn, error)")
	flags.String("log-file", "", "Write logs to this file")

	rootCmd.AddCommand(filtersCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(viewsCmd)
	rootCmd.AddCommand(historyCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// env is everything a command needs to work with the filter state
type env struct {
	cfg      *config.Config
	log      logging.Logger
	columns  []models.Column
	parser   *filter.Parser
	location *querystate.MemoryLocation
	store    *querystate.Store
	source   catalog.Source
	history  *history.Store
}

func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(configFile, cmd.Flags())
	if err != nil {
		return nil, err
	}
	return cfg, nil
}

func setup(ctx context.Context, cmd *cobra.Command) (*env, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}

	log, err := logging.New(cfg.Logging.Level, cfg.Logging.File)
	if err != nil {
		return nil, err
	}

	e := &env{cfg: cfg, log: log}

	e.location, err = querystate.NewMemoryLocation(startURL)
	if err != nil {
		return nil, fmt.Errorf("invalid --url: %w", err)
	}

	if cfg.History.Enabled && cfg.History.Path != "" {
		if h, err := history.NewStore(cfg.History.Path); err != nil {
			log.Warn("history disabled", "path", cfg.History.Path, "error", err)
		} else {
			e.history = h
			e.location.Observe(h.Recorder(cfg.Filters.QueryKey, cfg.History.MaxEntries, log))
		}
	}

	if viewName != "" {
		if err := applyView(e.location, viewName); err != nil {
			e.close()
			return nil, err
		}
	}

	e.columns = catalog.ProductColumns()
	e.source, err = openSource(ctx, cfg, log)
	if err != nil {
		e.close()
		return nil, err
	}
	if mem, ok := e.source.(*catalog.MemorySource); ok {
		e.columns = catalog.WithOptionCounts(e.columns, mem.Products())
	}

	e.parser = filter.NewParser(catalog.FilterableIDs(e.columns), log)
	e.store = querystate.NewStore(e.location, e.parser, querystate.Options{
		Key:      cfg.Filters.QueryKey,
		Shallow:  cfg.Filters.Shallow,
		Debounce: cfg.Filters.Debounce(),
		Throttle: cfg.Filters.Throttle(),
		Logger:   log,
	})

	return e, nil
}

// applyView navigates loc to the location stored in the named view
func applyView(loc *querystate.MemoryLocation, name string) error {
	m, err := openViews()
	if err != nil {
		return err
	}
	view, err := m.Find(name)
	if err != nil {
		return err
	}
	if err := m.RecordUsage(view.ID); err != nil {
		return err
	}

	base := defaultURL
	if u, err := url.Parse(loc.String()); err == nil && u.Path != "" {
		base = u.Path
	}
	return loc.Navigate(views.URL(base, *view))
}

func openSource(ctx context.Context, cfg *config.Config, log logging.Logger) (catalog.Source, error) {
	switch cfg.Data.Source {
	case "", "memory":
		return catalog.NewMemorySource(catalog.SampleProducts()), nil
	case "postgres":
		conn := connection.ApplyEnvironment(models.ConnectionConfig{
			Host:     cfg.Database.Host,
			Port:     cfg.Database.Port,
			Database: cfg.Database.Database,
			User:     cfg.Database.User,
			Password: cfg.Database.Password,
			SSLMode:  cfg.Database.SSLMode,
		})
		pool, err := connection.NewPool(ctx, conn)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to %s: %w", conn.Host, err)
		}
		log.Info("connected", "host", conn.Host, "database", conn.Database, "table", cfg.Database.Table)
		return catalog.NewPostgresSource(pool, cfg.Database.Table, log), nil
	}
	return nil, fmt.Errorf("unknown data source %q", cfg.Data.Source)
}

func (e *env) close() {
	if e.store != nil {
		e.store.Flush()
		e.store.Close()
	}
	if e.source != nil {
		e.source.Close()
	}
	if e.history != nil {
		_ = e.history.Close()
	}
	_ = e.log.Sync()
}

func runTable(cmd *cobra.Command, args []string) error {
	e, err := setup(cmd.Context(), cmd)
	if err != nil {
		return err
	}
	defer e.close()

	var viewManager *views.Manager
	if dir, err := config.GetConfigPath(); err == nil {
		if viewManager, err = views.NewManager(dir); err != nil {
			e.log.Warn("saved views disabled", "error", err)
			viewManager = nil
		}
	}

	model := app.New(app.Options{
		Config:   e.cfg,
		Location: e.location,
		Store:    e.store,
		Source:   e.source,
		Columns:  e.columns,
		Views:    viewManager,
		Logger:   e.log,
	})

	opts := []tea.ProgramOption{tea.WithAltScreen()}
	if e.cfg.UI.MouseEnabled {
		opts = append(opts, tea.WithMouseCellMotion())
	}

	p := tea.NewProgram(model, opts...)
	model.Attach(p.Send)
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running program: %w", err)
	}

	fmt.Println(e.location.String())
	return nil
}
