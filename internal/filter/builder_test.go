package filter

import (
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/dafoggo/klinh-admin/internal/models"
)

func newUTCBuilder() *Builder {
	b := NewBuilder()
	b.Location = time.UTC
	return b
}

func millis(t time.Time) string {
	return FormatEpochMillis(t)
}

func TestBuildWhere_Empty(t *testing.T) {
	b := newUTCBuilder()
	where, args, err := b.BuildWhere(nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if where != "" || len(args) != 0 {
		t.Errorf("expected no clause, got %q %v", where, args)
	}
}

func TestBuildWhere_SkipsEntriesWithoutValue(t *testing.T) {
	b := newUTCBuilder()
	where, _, err := b.BuildWhere([]models.FilterEntry{
		{ID: "name", Variant: models.VariantText, Operator: models.OpContains, Value: models.StringValue("  ")},
		{ID: "price", Variant: models.VariantRange, Operator: models.OpIsBetween, Value: models.ListValue("", "")},
		{ID: "category", Variant: models.VariantMultiSelect, Operator: models.OpIsAnyOf, Value: models.ListValue()},
		{ID: "is_featured", Variant: models.VariantBoolean, Operator: models.OpIs, Value: models.StringValue("")},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if where != "" {
		t.Errorf("expected no clause, got %q", where)
	}
}

func TestBuildWhere_Conditions(t *testing.T) {
	day := time.Date(2024, 3, 15, 14, 30, 0, 0, time.UTC)
	start := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
	next := time.Date(2024, 3, 16, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		entry    models.FilterEntry
		wantSQL  string
		wantArgs []interface{}
	}{
		{
			name:     "text contains",
			entry:    models.FilterEntry{ID: "name", Variant: models.VariantText, Operator: models.OpContains, Value: models.StringValue("50%_off")},
			wantSQL:  `WHERE "name" ILIKE $1`,
			wantArgs: []interface{}{`%50\%\_off%`},
		},
		{
			name:     "text not equals",
			entry:    models.FilterEntry{ID: "name", Variant: models.VariantText, Operator: models.OpNotEquals, Value: models.StringValue("Oak")},
			wantSQL:  `WHERE ("name" IS NULL OR lower("name") <> lower($1))`,
			wantArgs: []interface{}{"Oak"},
		},
		{
			name:    "text is empty",
			entry:   models.FilterEntry{ID: "name", Variant: models.VariantText, Operator: models.OpIsEmpty},
			wantSQL: `WHERE ("name" IS NULL OR "name" = '')`,
		},
		{
			name:    "number is not empty",
			entry:   models.FilterEntry{ID: "stock_quantity", Variant: models.VariantNumber, Operator: models.OpIsNotEmpty},
			wantSQL: `WHERE "stock_quantity" IS NOT NULL`,
		},
		{
			name:     "number greater or equal",
			entry:    models.FilterEntry{ID: "stock_quantity", Variant: models.VariantNumber, Operator: models.OpGreaterOrEqual, Value: models.StringValue("5")},
			wantSQL:  `WHERE "stock_quantity" >= $1`,
			wantArgs: []interface{}{5.0},
		},
		{
			name:     "range between",
			entry:    models.FilterEntry{ID: "price", Variant: models.VariantRange, Operator: models.OpIsBetween, Value: models.ListValue("10", "99.5")},
			wantSQL:  `WHERE "price" BETWEEN $1 AND $2`,
			wantArgs: []interface{}{10.0, 99.5},
		},
		{
			name:     "range upper bound only",
			entry:    models.FilterEntry{ID: "price", Variant: models.VariantRange, Operator: models.OpIsBetween, Value: models.ListValue("", "50")},
			wantSQL:  `WHERE "price" <= $1`,
			wantArgs: []interface{}{50.0},
		},
		{
			name:     "date is",
			entry:    models.FilterEntry{ID: "created_at", Variant: models.VariantDate, Operator: models.OpIs, Value: models.StringValue(millis(day))},
			wantSQL:  `WHERE ("created_at" >= $1 AND "created_at" < $2)`,
			wantArgs: []interface{}{start, next},
		},
		{
			name:     "date is after",
			entry:    models.FilterEntry{ID: "created_at", Variant: models.VariantDate, Operator: models.OpIsAfter, Value: models.StringValue(millis(day))},
			wantSQL:  `WHERE "created_at" >= $1`,
			wantArgs: []interface{}{next},
		},
		{
			name: "date range between",
			entry: models.FilterEntry{ID: "updated_at", Variant: models.VariantDateRange, Operator: models.OpIsBetween,
				Value: models.ListValue(millis(day), millis(day.AddDate(0, 0, 2)))},
			wantSQL:  `WHERE ("updated_at" >= $1 AND "updated_at" < $2)`,
			wantArgs: []interface{}{start, next.AddDate(0, 0, 2)},
		},
		{
			name:     "boolean is not",
			entry:    models.FilterEntry{ID: "is_featured", Variant: models.VariantBoolean, Operator: models.OpIsNot, Value: models.StringValue("true")},
			wantSQL:  `WHERE "is_featured" IS DISTINCT FROM $1`,
			wantArgs: []interface{}{true},
		},
		{
			name:     "text does not contain",
			entry:    models.FilterEntry{ID: "name", Variant: models.VariantText, Operator: models.OpDoesNotContain, Value: models.StringValue("oak")},
			wantSQL:  `WHERE ("name" IS NULL OR "name" NOT ILIKE $1)`,
			wantArgs: []interface{}{"%oak%"},
		},
		{
			name:     "number not equals",
			entry:    models.FilterEntry{ID: "stock_quantity", Variant: models.VariantNumber, Operator: models.OpNotEquals, Value: models.StringValue("0")},
			wantSQL:  `WHERE "stock_quantity" IS DISTINCT FROM $1`,
			wantArgs: []interface{}{0.0},
		},
		{
			name:     "date is not",
			entry:    models.FilterEntry{ID: "created_at", Variant: models.VariantDate, Operator: models.OpIsNot, Value: models.StringValue(millis(day))},
			wantSQL:  `WHERE ("created_at" IS NULL OR "created_at" < $1 OR "created_at" >= $2)`,
			wantArgs: []interface{}{start, next},
		},
		{
			name:     "select is not",
			entry:    models.FilterEntry{ID: "status", Variant: models.VariantSelect, Operator: models.OpIsNot, Value: models.StringValue("DRAFT")},
			wantSQL:  `WHERE "status" IS DISTINCT FROM $1`,
			wantArgs: []interface{}{"DRAFT"},
		},
		{
			name:     "select is",
			entry:    models.FilterEntry{ID: "status", Variant: models.VariantSelect, Operator: models.OpIs, Value: models.StringValue("PUBLISHED")},
			wantSQL:  `WHERE "status" = $1`,
			wantArgs: []interface{}{"PUBLISHED"},
		},
		{
			name:     "multi select none of",
			entry:    models.FilterEntry{ID: "category", Variant: models.VariantMultiSelect, Operator: models.OpIsNoneOf, Value: models.ListValue("chairs", "sofas")},
			wantSQL:  `WHERE ("category" IS NULL OR NOT ("category" = ANY($1)))`,
			wantArgs: []interface{}{[]string{"chairs", "sofas"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			where, args, err := newUTCBuilder().BuildWhere([]models.FilterEntry{tt.entry})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if where != tt.wantSQL {
				t.Errorf("SQL = %q, want %q", where, tt.wantSQL)
			}
			if diff := cmp.Diff(tt.wantArgs, args); diff != "" {
				t.Errorf("args mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestBuildWhere_ParameterNumbering(t *testing.T) {
	b := newUTCBuilder()
	where, args, err := b.BuildWhere([]models.FilterEntry{
		{ID: "price", Variant: models.VariantRange, Operator: models.OpIsBetween, Value: models.ListValue("1", "2")},
		{ID: "name", Variant: models.VariantText, Operator: models.OpEquals, Value: models.StringValue("x")},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := `WHERE "price" BETWEEN $1 AND $2 AND lower("name") = lower($3)`
	if where != want {
		t.Errorf("SQL = %q, want %q", where, want)
	}
	if len(args) != 3 {
		t.Errorf("expected 3 args, got %d", len(args))
	}
}

func TestBuildWhere_OrLogic(t *testing.T) {
	b := newUTCBuilder()
	b.Logic = "or"
	where, _, err := b.BuildWhere([]models.FilterEntry{
		{ID: "status", Variant: models.VariantSelect, Operator: models.OpIs, Value: models.StringValue("DRAFT")},
		{ID: "status", Variant: models.VariantSelect, Operator: models.OpIs, Value: models.StringValue("ARCHIVED")},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(where, " OR ") {
		t.Errorf("expected OR join, got %q", where)
	}
}

func TestBuildWhere_InvalidOperator(t *testing.T) {
	_, _, err := newUTCBuilder().BuildWhere([]models.FilterEntry{
		{ID: "name", Variant: models.VariantText, Operator: models.OpIsBetween, Value: models.StringValue("x")},
	})
	if err == nil {
		t.Fatal("expected error for isBetween on text")
	}
}

func TestBuildWhere_QuotesIdentifiers(t *testing.T) {
	where, _, err := newUTCBuilder().BuildWhere([]models.FilterEntry{
		{ID: `evil"col`, Variant: models.VariantSelect, Operator: models.OpIs, Value: models.StringValue("x")},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if where != `WHERE "evil""col" = $1` {
		t.Errorf("unexpected SQL %q", where)
	}
}
