package filter

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/dafoggo/klinh-admin/internal/models"
)

func stubFilterID(t *testing.T, id string) {
	t.Helper()
	orig := NewFilterID
	NewFilterID = func() string { return id }
	t.Cleanup(func() { NewFilterID = orig })
}

func TestNewFilterID_Length(t *testing.T) {
	id := NewFilterID()
	if len(id) != 8 {
		t.Errorf("expected 8 characters, got %q", id)
	}
	if other := NewFilterID(); other == id {
		t.Errorf("expected distinct ids, got %q twice", id)
	}
}

func TestNewEntry_Text(t *testing.T) {
	stubFilterID(t, "abcd1234")
	col := models.Column{ID: "name", EnableFilter: true, Meta: models.ColumnMeta{Variant: models.VariantText}}

	got, ok := NewEntry(col, "oak")
	if !ok {
		t.Fatal("expected entry to be created")
	}
	want := models.FilterEntry{
		ID:       "name",
		Value:    models.StringValue("oak"),
		Variant:  models.VariantText,
		Operator: models.OpContains,
		FilterID: "abcd1234",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("entry mismatch (-want +got):\n%s", diff)
	}
}

func TestNewEntry_UnsetVariantIsText(t *testing.T) {
	col := models.Column{ID: "slug", EnableFilter: true}
	got, ok := NewEntry(col, "chair")
	if !ok {
		t.Fatal("expected entry to be created")
	}
	if got.Variant != models.VariantText || got.Operator != models.OpContains {
		t.Errorf("expected text/contains, got %s/%s", got.Variant, got.Operator)
	}
}

func TestNewEntry_BlankRejected(t *testing.T) {
	col := models.Column{ID: "name", EnableFilter: true, Meta: models.ColumnMeta{Variant: models.VariantText}}
	for _, v := range []string{"", "   ", "\t"} {
		if _, ok := NewEntry(col, v); ok {
			t.Errorf("expected blank value %q to be rejected", v)
		}
	}
}

func TestNewEntry_BooleanAllowsEmpty(t *testing.T) {
	col := models.Column{ID: "is_featured", EnableFilter: true, Meta: models.ColumnMeta{Variant: models.VariantBoolean}}
	got, ok := NewEntry(col, "")
	if !ok {
		t.Fatal("expected boolean entry with empty value")
	}
	if got.Operator != models.OpIs {
		t.Errorf("expected operator is, got %s", got.Operator)
	}
}

func TestNewEntry_MultiSelectWrapsValue(t *testing.T) {
	col := models.Column{ID: "category", EnableFilter: true, Meta: models.ColumnMeta{Variant: models.VariantMultiSelect}}
	got, ok := NewEntry(col, "chairs")
	if !ok {
		t.Fatal("expected entry to be created")
	}
	if !got.Value.IsList() {
		t.Fatal("expected list value")
	}
	if diff := cmp.Diff([]string{"chairs"}, got.Value.Strings()); diff != "" {
		t.Errorf("value mismatch (-want +got):\n%s", diff)
	}
	if got.Operator != models.OpIsAnyOf {
		t.Errorf("expected isAnyOf, got %s", got.Operator)
	}
}

func TestOperatorPatch_EmptyOperatorClearsValue(t *testing.T) {
	entry := models.FilterEntry{ID: "name", Variant: models.VariantText, Operator: models.OpContains, Value: models.StringValue("oak"), FilterID: "x"}

	got := WithOperator(entry, models.OpIsEmpty)
	if got.Operator != models.OpIsEmpty {
		t.Errorf("expected isEmpty, got %s", got.Operator)
	}
	if !got.Value.Equal(models.StringValue("")) {
		t.Errorf("expected empty value, got %q", got.Value.Display())
	}

	got = WithOperator(entry, models.OpEquals)
	if got.Value.String() != "oak" {
		t.Errorf("expected value kept, got %q", got.Value.String())
	}
}

func TestColumnPatch_ResetsOperatorAndValue(t *testing.T) {
	entry := models.FilterEntry{ID: "name", Variant: models.VariantText, Operator: models.OpEquals, Value: models.StringValue("oak"), FilterID: "x"}
	col := models.Column{ID: "price", EnableFilter: true, Meta: models.ColumnMeta{Variant: models.VariantRange}}

	got := ColumnPatch(col).Apply(entry)
	want := models.FilterEntry{ID: "price", Variant: models.VariantRange, Operator: models.OpIsBetween, Value: models.StringValue(""), FilterID: "x"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("entry mismatch (-want +got):\n%s", diff)
	}
}

func TestPatch_MergeKeepsLatest(t *testing.T) {
	p := ValuePatch(models.StringValue("o")).
		Merge(ValuePatch(models.StringValue("oa"))).
		Merge(ValuePatch(models.StringValue("oak")))
	if p.Value == nil || p.Value.String() != "oak" {
		t.Fatalf("expected merged value oak, got %+v", p.Value)
	}
	if p.Operator != nil {
		t.Error("expected operator untouched")
	}

	p = p.Merge(OperatorPatch(models.OpEquals))
	if p.Operator == nil || *p.Operator != models.OpEquals {
		t.Error("expected operator equals after merge")
	}
	if p.Value.String() != "oak" {
		t.Errorf("expected value to survive non-empty operator merge, got %q", p.Value.String())
	}
}

func TestPatch_IsZero(t *testing.T) {
	if !(Patch{}).IsZero() {
		t.Error("expected zero patch")
	}
	if ValuePatch(models.StringValue("")).IsZero() {
		t.Error("expected value patch to be non-zero")
	}
}

func TestToggleOption(t *testing.T) {
	multi := models.FilterEntry{Variant: models.VariantMultiSelect, Value: models.ListValue("chairs")}

	added := ToggleOption(multi, "tables")
	if diff := cmp.Diff([]string{"chairs", "tables"}, added.Strings()); diff != "" {
		t.Errorf("add mismatch (-want +got):\n%s", diff)
	}

	multi.Value = added
	removed := ToggleOption(multi, "chairs")
	if diff := cmp.Diff([]string{"tables"}, removed.Strings()); diff != "" {
		t.Errorf("remove mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"chairs", "tables"}, multi.Value.Strings()); diff != "" {
		t.Errorf("toggle mutated the input (-want +got):\n%s", diff)
	}

	single := models.FilterEntry{Variant: models.VariantSelect, Value: models.StringValue("DRAFT")}
	if got := ToggleOption(single, "PUBLISHED"); got.IsList() || got.String() != "PUBLISHED" {
		t.Errorf("expected select to replace, got %q", got.Display())
	}
}

func TestSortByColumns(t *testing.T) {
	cols := []models.Column{{ID: "name"}, {ID: "price"}, {ID: "status"}}
	entries := []models.FilterEntry{
		{ID: "status", FilterID: "a"},
		{ID: "ghost", FilterID: "b"},
		{ID: "name", FilterID: "c"},
		{ID: "status", FilterID: "d"},
	}

	sorted := SortByColumns(entries, cols)
	var got []string
	for _, e := range sorted {
		got = append(got, e.FilterID)
	}
	if diff := cmp.Diff([]string{"c", "a", "d", "b"}, got); diff != "" {
		t.Errorf("order mismatch (-want +got):\n%s", diff)
	}
	if entries[0].FilterID != "a" {
		t.Error("expected input to be left untouched")
	}
}

func TestFindEntry(t *testing.T) {
	entries := []models.FilterEntry{{FilterID: "a"}, {FilterID: "b"}}
	if i := FindEntry(entries, "b"); i != 1 {
		t.Errorf("expected index 1, got %d", i)
	}
	if i := FindEntry(entries, "zzz"); i != -1 {
		t.Errorf("expected -1, got %d", i)
	}
}
