package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dafoggo/klinh-admin/internal/catalog"
	"github.com/dafoggo/klinh-admin/internal/export"
	"github.com/dafoggo/klinh-admin/internal/filter"
	"github.com/dafoggo/klinh-admin/internal/models"
)

var (
	filtersJSON  bool
	exportFormat string
	exportOutput string
)

// filtersCmd prints the filter state carried by --url
var filtersCmd = &cobra.Command{
	Use:   "filters",
	Short: "Show the filters of a location",
	Long: `Parse the filters query parameter of --url and print the entries.

Entries that do not validate are dropped, the same way the table does on load.
The canonical location is printed last.`,
	RunE: runFilters,
}

// exportCmd writes every product matching the filters of --url
var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the products matching the filters of a location",
	RunE:  runExport,
}

func init() {
	filtersCmd.Flags().BoolVar(&filtersJSON, "json", false, "Print the entries as JSON")
	exportCmd.Flags().StringVarP(&exportFormat, "format", "f", "csv", "Output format: csv or json")
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "Output file (default: stdout)")
}

func runFilters(cmd *cobra.Command, args []string) error {
	e, err := setup(cmd.Context(), cmd)
	if err != nil {
		return err
	}
	defer e.close()

	entries := e.store.Filters()
	if filtersJSON {
		data, err := json.MarshalIndent(entries, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode filters: %w", err)
		}
		fmt.Println(string(data))
		return nil
	}

	if len(entries) == 0 {
		fmt.Println("No filters.")
	}
	for i, entry := range entries {
		fmt.Printf("  %d. %s\n", i+1, describeEntry(entry, e.columns))
	}

	// Writing the parsed list back drops invalid entries from the location
	if err := e.store.SetFilters(entries); err != nil {
		return err
	}
	e.store.Flush()
	fmt.Println(strings.Repeat("─", 50))
	fmt.Println(e.location.String())
	return nil
}

func describeEntry(entry models.FilterEntry, columns []models.Column) string {
	label := entry.ID
	if col, ok := models.FindColumn(columns, entry.ID); ok {
		label = col.Title()
	}
	op := filter.OperatorLabel(entry.Variant, entry.Operator)

	var value string
	if !filter.IsEmptyOperator(entry.Operator) {
		value = entry.Value.Display()
	}
	return strings.TrimSpace(fmt.Sprintf("%s %s %s  [%s]", label, op, value, entry.FilterID))
}

func runExport(cmd *cobra.Command, args []string) error {
	e, err := setup(cmd.Context(), cmd)
	if err != nil {
		return err
	}
	defer e.close()

	products, err := listAll(cmd, e)
	if err != nil {
		return err
	}

	if exportOutput == "" {
		return export.Write(os.Stdout, exportFormat, products)
	}

	switch strings.ToLower(exportFormat) {
	case "csv":
		err = export.ExportToCSV(products, exportOutput)
	case "json":
		err = export.ExportToJSON(products, exportOutput)
	default:
		err = fmt.Errorf("unsupported export format %q", exportFormat)
	}
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "Exported %d products to %s\n", len(products), exportOutput)
	return nil
}

// listAll pages through the source until every matching product is read
func listAll(cmd *cobra.Command, e *env) ([]models.Product, error) {
	limit := e.cfg.General.DefaultLimit
	if limit <= 0 {
		limit = 100
	}

	var products []models.Product
	q := catalog.Query{Filters: e.store.Filters(), Limit: limit}
	for {
		page, err := e.source.List(cmd.Context(), q)
		if err != nil {
			return nil, fmt.Errorf("failed to list products: %w", err)
		}
		products = append(products, page.Products...)
		if len(page.Products) == 0 || len(products) >= page.TotalRows {
			return products, nil
		}
		q.Offset += len(page.Products)
	}
}
