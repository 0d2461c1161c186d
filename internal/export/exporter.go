package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/dafoggo/klinh-admin/internal/models"
)

const timeLayout = "2006-01-02 15:04:05"

// CSVHeader is the header row of product exports
var CSVHeader = []string{"ID", "Name", "Slug", "Price", "Stock", "Status", "Featured", "Category", "Materials", "Created", "Updated"}

// WriteCSV writes products as CSV to w
func WriteCSV(w io.Writer, products []models.Product) error {
	writer := csv.NewWriter(w)

	if err := writer.Write(CSVHeader); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, p := range products {
		stock := ""
		if p.StockQuantity != nil {
			stock = strconv.Itoa(*p.StockQuantity)
		}

		row := []string{
			p.ID,
			p.Name,
			p.Slug,
			strconv.FormatFloat(p.Price, 'f', 2, 64),
			stock,
			string(p.Status),
			strconv.FormatBool(p.IsFeatured),
			p.Category,
			strings.Join(p.Materials, ", "),
			p.CreatedAt.Format(timeLayout),
			p.UpdatedAt.Format(timeLayout),
		}

		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	writer.Flush()
	return writer.Error()
}

// WriteJSON writes products as indented JSON to w
func WriteJSON(w io.Writer, products []models.Product) error {
	if products == nil {
		products = []models.Product{}
	}
	data, err := json.MarshalIndent(products, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal products to JSON: %w", err)
	}
	if _, err := w.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("failed to write JSON: %w", err)
	}
	return nil
}

// ExportToCSV exports products to a CSV file
func ExportToCSV(products []models.Product, path string) error {
	return exportToFile(path, "CSV", func(w io.Writer) error {
		return WriteCSV(w, products)
	})
}

// ExportToJSON exports products to a JSON file
func ExportToJSON(products []models.Product, path string) error {
	return exportToFile(path, "JSON", func(w io.Writer) error {
		return WriteJSON(w, products)
	})
}

// Write writes products to w in the named format, "csv" or "json"
func Write(w io.Writer, format string, products []models.Product) error {
	switch strings.ToLower(format) {
	case "csv":
		return WriteCSV(w, products)
	case "json":
		return WriteJSON(w, products)
	}
	return fmt.Errorf("unsupported export format %q", format)
}

func exportToFile(path, kind string, write func(io.Writer) error) error {
	file, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("failed to create %s file: %w", kind, err)
	}

	if err := write(file); err != nil {
		_ = file.Close()
		return err
	}
	return file.Close()
}
