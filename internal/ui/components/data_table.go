package components

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/dafoggo/klinh-admin/internal/catalog"
	"github.com/dafoggo/klinh-admin/internal/models"
	"github.com/dafoggo/klinh-admin/internal/ui/theme"
)

// DataTable displays one page of products with virtual scrolling
type DataTable struct {
	Columns []models.Column
	Rows    [][]string
	Width   int
	Height  int
	Theme   theme.Theme

	// MaxCellWidth caps the width of a single column
	MaxCellWidth int

	// Virtual scrolling state
	TopRow      int
	VisibleRows int
	SelectedRow int
	Offset      int
	TotalRows   int

	// Column widths (calculated)
	ColumnWidths []int
}

// NewDataTable creates an empty table over columns
func NewDataTable(th theme.Theme, columns []models.Column) *DataTable {
	return &DataTable{
		Columns:      columns,
		Theme:        th,
		MaxCellWidth: 40,
	}
}

// SetPage replaces the rows with a page of products
func (dt *DataTable) SetPage(page models.ProductPage) {
	dt.Rows = make([][]string, 0, len(page.Products))
	for _, p := range page.Products {
		dt.Rows = append(dt.Rows, ProductCells(p, dt.Columns))
	}
	dt.Offset = page.Offset
	dt.TotalRows = page.TotalRows
	dt.TopRow = 0
	dt.SelectedRow = 0
	dt.calculateColumnWidths()
}

// ProductCells formats the fields of p shown by columns
func ProductCells(p models.Product, columns []models.Column) []string {
	fields := catalog.ProductFields(p)
	cells := make([]string, len(columns))
	for i, col := range columns {
		cells[i] = formatCell(col, fields[col.ID])
	}
	return cells
}

func formatCell(col models.Column, v interface{}) string {
	switch v := v.(type) {
	case nil:
		return "—"
	case *int:
		if v == nil {
			return "—"
		}
		return strconv.Itoa(*v)
	case float64:
		s := strconv.FormatFloat(v, 'f', 2, 64)
		if col.Meta.Unit != "" {
			s = col.Meta.Unit + s
		}
		return s
	case bool:
		if v {
			return "✓"
		}
		return ""
	case time.Time:
		if v.IsZero() {
			return "—"
		}
		return v.Local().Format("2006-01-02")
	case string:
		if len(col.Meta.Options) > 0 {
			return col.OptionLabel(v)
		}
		return v
	}
	return fmt.Sprint(v)
}

// calculateColumnWidths calculates optimal column widths
func (dt *DataTable) calculateColumnWidths() {
	dt.ColumnWidths = make([]int, len(dt.Columns))

	for i, col := range dt.Columns {
		dt.ColumnWidths[i] = lipgloss.Width(col.Title())
	}
	for _, row := range dt.Rows {
		for i, cell := range row {
			if i < len(dt.ColumnWidths) {
				if w := lipgloss.Width(cell); w > dt.ColumnWidths[i] {
					dt.ColumnWidths[i] = w
				}
			}
		}
	}

	maxWidth := dt.MaxCellWidth
	if maxWidth <= 0 {
		maxWidth = 40
	}
	for i := range dt.ColumnWidths {
		if dt.ColumnWidths[i] > maxWidth {
			dt.ColumnWidths[i] = maxWidth
		}
		if dt.ColumnWidths[i] < 6 {
			dt.ColumnWidths[i] = 6
		}
	}
}

// View renders the table
func (dt *DataTable) View() string {
	if len(dt.Columns) == 0 {
		return "No columns"
	}
	if len(dt.ColumnWidths) != len(dt.Columns) {
		dt.calculateColumnWidths()
	}

	var b strings.Builder
	b.WriteString(dt.renderHeader())
	b.WriteString("\n")
	b.WriteString(dt.renderSeparator())
	b.WriteString("\n")

	// Header + separator + status
	dt.VisibleRows = dt.Height - 3
	if dt.VisibleRows < 1 {
		dt.VisibleRows = 1
	}

	if len(dt.Rows) == 0 {
		b.WriteString(lipgloss.NewStyle().Foreground(dt.Theme.Muted).Italic(true).Render(" No products match the filters"))
	}

	endRow := dt.TopRow + dt.VisibleRows
	if endRow > len(dt.Rows) {
		endRow = len(dt.Rows)
	}
	for i := dt.TopRow; i < endRow; i++ {
		b.WriteString(dt.renderRow(dt.Rows[i], i, i == dt.SelectedRow))
		if i < endRow-1 {
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(dt.renderStatus())

	return lipgloss.NewStyle().Width(dt.Width).MaxHeight(dt.Height).Render(b.String())
}

func (dt *DataTable) renderHeader() string {
	var parts []string
	for i, col := range dt.Columns {
		parts = append(parts, pad(col.Title(), dt.ColumnWidths[i]))
	}
	headerStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(dt.Theme.TableHeader).
		Background(dt.Theme.Selection)
	return headerStyle.Render(" " + strings.Join(parts, " │ ") + " ")
}

func (dt *DataTable) renderSeparator() string {
	var parts []string
	for _, width := range dt.ColumnWidths {
		parts = append(parts, strings.Repeat("─", width))
	}
	return lipgloss.NewStyle().
		Foreground(dt.Theme.Border).
		Render("─" + strings.Join(parts, "─┼─") + "─")
}

func (dt *DataTable) renderRow(row []string, index int, selected bool) string {
	var parts []string
	for i, cell := range row {
		if i >= len(dt.ColumnWidths) {
			break
		}
		parts = append(parts, pad(cell, dt.ColumnWidths[i]))
	}
	line := " " + strings.Join(parts, " │ ") + " "

	if selected {
		return lipgloss.NewStyle().
			Background(dt.Theme.TableRowSelected).
			Foreground(dt.Theme.Foreground).
			Bold(true).
			Render(line)
	}
	bg := dt.Theme.TableRowEven
	if index%2 == 1 {
		bg = dt.Theme.TableRowOdd
	}
	return lipgloss.NewStyle().Background(bg).Render(line)
}

func (dt *DataTable) renderStatus() string {
	if dt.TotalRows == 0 {
		return lipgloss.NewStyle().Foreground(dt.Theme.Muted).Italic(true).Render(" 0 rows")
	}
	endRow := dt.Offset + len(dt.Rows)
	showing := fmt.Sprintf(" %d-%d of %d rows", dt.Offset+1, endRow, dt.TotalRows)
	return lipgloss.NewStyle().
		Foreground(dt.Theme.Muted).
		Italic(true).
		Render(showing)
}

// pad fits s into width display cells
func pad(s string, width int) string {
	w := lipgloss.Width(s)
	if w > width {
		r := []rune(s)
		for len(r) > 0 && lipgloss.Width(string(r))+1 > width {
			r = r[:len(r)-1]
		}
		return string(r) + "…"
	}
	return s + strings.Repeat(" ", width-w)
}

// MoveSelection moves the selection up or down
func (dt *DataTable) MoveSelection(delta int) {
	if len(dt.Rows) == 0 {
		return
	}
	dt.SelectedRow += delta

	if dt.SelectedRow < 0 {
		dt.SelectedRow = 0
	}
	if dt.SelectedRow >= len(dt.Rows) {
		dt.SelectedRow = len(dt.Rows) - 1
	}

	if dt.SelectedRow < dt.TopRow {
		dt.TopRow = dt.SelectedRow
	}
	if dt.VisibleRows > 0 && dt.SelectedRow >= dt.TopRow+dt.VisibleRows {
		dt.TopRow = dt.SelectedRow - dt.VisibleRows + 1
	}
}

// SelectedProductRow returns the cells of the selected row
func (dt *DataTable) SelectedProductRow() ([]string, bool) {
	if dt.SelectedRow < 0 || dt.SelectedRow >= len(dt.Rows) {
		return nil, false
	}
	return dt.Rows[dt.SelectedRow], true
}
