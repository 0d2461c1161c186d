package main

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dafoggo/klinh-admin/internal/config"
	"github.com/dafoggo/klinh-admin/internal/history"
	"github.com/dafoggo/klinh-admin/internal/views"
)

var (
	viewDescription string
	historyLimit    int
	historySearch   string
)

// viewsCmd manages saved filter views
var viewsCmd = &cobra.Command{
	Use:   "views",
	Short: "Manage saved filter views",
	Long: `List and manage saved filter views.

Subcommands:
  list    - List saved views, most used first
  save    - Save the filters of --url under a name
  apply   - Print the location of a saved view
  delete  - Delete a saved view`,
	RunE: runViewsList,
}

var viewsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved views",
	RunE:  runViewsList,
}

var viewsSaveCmd = &cobra.Command{
	Use:   "save <name>",
	Short: "Save the filters of --url as a view",
	Args:  cobra.ExactArgs(1),
	RunE:  runViewsSave,
}

var viewsApplyCmd = &cobra.Command{
	Use:   "apply <name-or-id>",
	Short: "Print the location of a saved view",
	Args:  cobra.ExactArgs(1),
	RunE:  runViewsApply,
}

var viewsDeleteCmd = &cobra.Command{
	Use:   "delete <name-or-id>",
	Short: "Delete a saved view",
	Args:  cobra.ExactArgs(1),
	RunE:  runViewsDelete,
}

// historyCmd lists recorded location changes
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recorded filter changes",
	RunE:  runHistory,
}

func init() {
	viewsSaveCmd.Flags().StringVarP(&viewDescription, "description", "d", "", "Description of the view")
	viewsCmd.AddCommand(viewsListCmd, viewsSaveCmd, viewsApplyCmd, viewsDeleteCmd)

	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "Number of entries to show")
	historyCmd.Flags().StringVarP(&historySearch, "search", "s", "", "Only show entries whose filters contain this text")
}

func openViews() (*views.Manager, error) {
	dir, err := config.GetConfigPath()
	if err != nil {
		return nil, fmt.Errorf("failed to locate config directory: %w", err)
	}
	return views.NewManager(dir)
}

func runViewsList(cmd *cobra.Command, args []string) error {
	m, err := openViews()
	if err != nil {
		return err
	}

	all := m.GetMostUsed(0)
	if len(all) == 0 {
		fmt.Println("No saved views found.")
		return nil
	}

	fmt.Println(strings.Repeat("─", 50))
	for i, v := range all {
		fmt.Printf("  %d. %s (%s)  used %d times\n", i+1, v.Name, v.Table, v.UsageCount)
		if v.Description != "" {
			fmt.Printf("     %s\n", v.Description)
		}
	}
	fmt.Println(strings.Repeat("─", 50))
	fmt.Printf("Total: %d views\n", len(all))
	return nil
}

func runViewsSave(cmd *cobra.Command, args []string) error {
	e, err := setup(cmd.Context(), cmd)
	if err != nil {
		return err
	}
	defer e.close()

	m, err := openViews()
	if err != nil {
		return err
	}

	// Only the filters are part of a view; the parsed list drops invalid entries
	raw, remove := e.parser.Serialize(e.store.Filters())
	q := url.Values{}
	if !remove {
		q.Set(e.cfg.Filters.QueryKey, raw)
	}

	view, err := m.Add(args[0], viewDescription, e.cfg.Database.Table, q.Encode())
	if err != nil {
		return err
	}
	fmt.Printf("Saved view %q (%s)\n", view.Name, view.ID)
	return nil
}

func runViewsApply(cmd *cobra.Command, args []string) error {
	m, err := openViews()
	if err != nil {
		return err
	}
	view, err := m.Find(args[0])
	if err != nil {
		return err
	}
	if err := m.RecordUsage(view.ID); err != nil {
		return err
	}

	base := defaultURL
	if u, err := url.Parse(startURL); err == nil && u.Path != "" {
		base = u.Path
	}
	fmt.Println(views.URL(base, *view))
	return nil
}

func runViewsDelete(cmd *cobra.Command, args []string) error {
	m, err := openViews()
	if err != nil {
		return err
	}
	view, err := m.Find(args[0])
	if err != nil {
		return err
	}
	if err := m.Delete(view.ID); err != nil {
		return err
	}
	fmt.Printf("Deleted view %q\n", view.Name)
	return nil
}

func runHistory(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if cfg.History.Path == "" {
		return fmt.Errorf("no history path configured")
	}

	h, err := history.NewStore(cfg.History.Path)
	if err != nil {
		return err
	}
	defer func() { _ = h.Close() }()

	var entries []history.Entry
	if historySearch != "" {
		entries, err = h.Search(historySearch, historyLimit)
	} else {
		entries, err = h.GetRecent(historyLimit)
	}
	if err != nil {
		return fmt.Errorf("failed to read history: %w", err)
	}

	if len(entries) == 0 {
		fmt.Println("No history recorded.")
		return nil
	}
	for _, entry := range entries {
		fmt.Println(entry.Describe())
	}
	return nil
}
