package components

import (
	"strings"
	"testing"

	"github.com/dafoggo/klinh-admin/internal/catalog"
	"github.com/dafoggo/klinh-admin/internal/models"
)

func TestParseSearchQuery_Simple(t *testing.T) {
	q := ParseSearchQuery("price")

	if q.Pattern != "price" {
		t.Errorf("expected pattern 'price', got '%s'", q.Pattern)
	}
	if q.Negate {
		t.Error("expected Negate=false")
	}
	if q.Variant != "" {
		t.Errorf("expected empty Variant, got '%s'", q.Variant)
	}
}

func TestParseSearchQuery_Negate(t *testing.T) {
	q := ParseSearchQuery("!name")

	if q.Pattern != "name" {
		t.Errorf("expected pattern 'name', got '%s'", q.Pattern)
	}
	if !q.Negate {
		t.Error("expected Negate=true")
	}
}

func TestParseSearchQuery_VariantShort(t *testing.T) {
	q := ParseSearchQuery("d:crea")

	if q.Pattern != "crea" {
		t.Errorf("expected pattern 'crea', got '%s'", q.Pattern)
	}
	if q.Variant != models.VariantDate {
		t.Errorf("expected Variant 'date', got '%s'", q.Variant)
	}
	if len(q.Kinds) != 2 {
		t.Errorf("expected date prefix to accept date and dateRange, got %v", q.Kinds)
	}
}

func TestParseSearchQuery_LongPrefixWins(t *testing.T) {
	q := ParseSearchQuery("MultiSelect:ch")

	if q.Pattern != "ch" {
		t.Errorf("expected pattern 'ch', got '%s'", q.Pattern)
	}
	if q.Variant != models.VariantMultiSelect || len(q.Kinds) != 1 {
		t.Errorf("expected multiSelect only, got %v", q.Kinds)
	}
}

func TestParseSearchQuery_NegateWithVariantNoPattern(t *testing.T) {
	q := ParseSearchQuery("!s:")

	if q.Pattern != "" {
		t.Errorf("expected empty pattern, got '%s'", q.Pattern)
	}
	if !q.Negate {
		t.Error("expected Negate=true")
	}
	if q.Variant != models.VariantSelect {
		t.Errorf("expected Variant 'select', got '%s'", q.Variant)
	}
}

func TestFuzzyMatch_ExactPrefix(t *testing.T) {
	match, positions := FuzzyMatch("stock", "stock_quantity")

	if !match {
		t.Error("expected match")
	}
	if len(positions) != 5 || positions[0] != 0 || positions[4] != 4 {
		t.Errorf("expected positions [0..4], got %v", positions)
	}
}

func TestFuzzyMatch_Subsequence(t *testing.T) {
	match, positions := FuzzyMatch("sq", "stock_quantity")

	if !match {
		t.Error("expected match")
	}
	// s=0, q=6
	if len(positions) != 2 || positions[1] != 6 {
		t.Errorf("expected positions [0,6], got %v", positions)
	}
}

func TestFuzzyMatch_NoMatch(t *testing.T) {
	match, _ := FuzzyMatch("xyz", "created_at")

	if match {
		t.Error("expected no match")
	}
}

func TestFuzzyMatch_CaseInsensitive(t *testing.T) {
	match, _ := FuzzyMatch("PRICE", "Price")

	if !match {
		t.Error("expected case-insensitive match")
	}
}

func TestFuzzyMatch_EmptyPattern(t *testing.T) {
	match, positions := FuzzyMatch("", "anything")

	if !match {
		t.Error("empty pattern should match everything")
	}
	if len(positions) != 0 {
		t.Error("empty pattern should have no positions")
	}
}

func columnIDs(cols []models.Column) string {
	ids := make([]string, len(cols))
	for i, c := range cols {
		ids[i] = c.ID
	}
	return strings.Join(ids, ",")
}

func TestFilterColumns(t *testing.T) {
	columns := catalog.ProductColumns()

	tests := []struct {
		query string
		want  string
	}{
		{"", "name,slug,price,stock_quantity,status,category,is_featured,created_at,updated_at"},
		{"pri", "price"},
		{"d:crea", "created_at"},
		{"s:", "status,category"},
		{"!s:", "name,slug,price,stock_quantity,is_featured,created_at,updated_at"},
		{"!price", "name,slug,stock_quantity,status,category,is_featured,created_at,updated_at"},
		{"featured", "is_featured"},
		{"zzz", ""},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			got := columnIDs(FilterColumns(columns, ParseSearchQuery(tt.query)))
			if got != tt.want {
				t.Errorf("FilterColumns(%q) = %q, want %q", tt.query, got, tt.want)
			}
		})
	}
}

func TestFilterColumns_SkipsNonFilterable(t *testing.T) {
	for _, col := range FilterColumns(catalog.ProductColumns(), ParseSearchQuery("desc")) {
		if col.ID == "description" {
			t.Error("description is not filterable and should not be offered")
		}
	}
}

func TestFilterOptions(t *testing.T) {
	got := FilterOptions(catalog.CategoryOptions, "ch")
	if len(got) != 1 || got[0].Value != "chairs" {
		t.Errorf("expected only chairs, got %v", got)
	}

	if all := FilterOptions(catalog.CategoryOptions, "  "); len(all) != len(catalog.CategoryOptions) {
		t.Errorf("blank search should keep every option, got %d", len(all))
	}

	if none := FilterOptions(catalog.CategoryOptions, "xyz"); none == nil || len(none) != 0 {
		t.Errorf("expected an empty non-nil list, got %#v", none)
	}
}
