package filter

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/dafoggo/klinh-admin/internal/models"
)

func newTestParser() *Parser {
	return NewParser([]string{"name", "price", "status", "category", "is_featured", "created_at"}, nil)
}

func TestParse_Empty(t *testing.T) {
	p := newTestParser()
	for _, raw := range []string{"", "   ", "not json", `{"id":"name"}`, "[", "null"} {
		got := p.Parse(raw)
		if got == nil || len(got) != 0 {
			t.Errorf("Parse(%q) = %+v, want empty list", raw, got)
		}
	}
}

func TestParse_Valid(t *testing.T) {
	p := newTestParser()
	raw := `[{"id":"name","value":"oak","variant":"text","operator":"contains","filterId":"a1"},` +
		`{"id":"category","value":["chairs","tables"],"variant":"multiSelect","operator":"isAnyOf","filterId":"b2"}]`

	got := p.Parse(raw)
	want := []models.FilterEntry{
		{ID: "name", Value: models.StringValue("oak"), Variant: models.VariantText, Operator: models.OpContains, FilterID: "a1"},
		{ID: "category", Value: models.ListValue("chairs", "tables"), Variant: models.VariantMultiSelect, Operator: models.OpIsAnyOf, FilterID: "b2"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Parse mismatch (-want +got):\n%s", diff)
	}
}

func TestParse_DropsInvalidEntries(t *testing.T) {
	p := newTestParser()
	raw := `[` +
		`{"id":"unknown","value":"x","variant":"text","operator":"contains","filterId":"a"},` +
		`{"id":"name","value":"x","variant":"bogus","operator":"contains","filterId":"b"},` +
		`{"id":"name","value":"x","variant":"text","operator":"isBetween","filterId":"c"},` +
		`{"id":"name","value":"x","variant":"text","operator":"contains"},` +
		`{"id":"name","value":42,"variant":"text","operator":"contains","filterId":"d"},` +
		`{"id":"name","value":"keep","variant":"text","operator":"contains","filterId":"e"}` +
		`]`

	got := p.Parse(raw)
	if len(got) != 1 || got[0].FilterID != "e" {
		t.Errorf("expected only entry e to survive, got %+v", got)
	}
}

func TestSerialize_RoundTrip(t *testing.T) {
	p := newTestParser()
	entries := []models.FilterEntry{
		{ID: "price", Value: models.ListValue("10", "200"), Variant: models.VariantRange, Operator: models.OpIsBetween, FilterID: "p1"},
	}
	raw, remove := p.Serialize(entries)
	if remove {
		t.Fatal("expected non-empty serialization")
	}
	if !strings.Contains(raw, `"value":["10","200"]`) {
		t.Errorf("expected list value in %s", raw)
	}
	if diff := cmp.Diff(entries, p.Parse(raw)); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestSerialize_EmptyRemovesParameter(t *testing.T) {
	p := newTestParser()
	raw, remove := p.Serialize(nil)
	if !remove || raw != "" {
		t.Errorf("expected removal, got raw=%q remove=%v", raw, remove)
	}
	if _, remove := p.Serialize([]models.FilterEntry{}); !remove {
		t.Error("expected empty slice to remove the parameter")
	}
}

func TestSerialize_FieldNames(t *testing.T) {
	p := newTestParser()
	raw, _ := p.Serialize([]models.FilterEntry{
		{ID: "is_featured", Value: models.StringValue(""), Variant: models.VariantBoolean, Operator: models.OpIs, FilterID: "f"},
	})
	want := `[{"id":"is_featured","value":"","variant":"boolean","operator":"is","filterId":"f"}]`
	if raw != want {
		t.Errorf("Serialize = %s, want %s", raw, want)
	}
}

func TestValidate_Messages(t *testing.T) {
	p := newTestParser()
	err := p.Validate(models.FilterEntry{ID: "ghost", Variant: models.VariantText, Operator: models.OpContains, FilterID: "x"})
	if err == nil {
		t.Fatal("expected error for unknown column")
	}
	if !strings.Contains(err.Error(), "id must reference a filterable column") {
		t.Errorf("unexpected message: %v", err)
	}

	err = p.Validate(models.FilterEntry{ID: "status", Variant: models.VariantSelect, Operator: models.OpContains, FilterID: "x"})
	if err == nil || !strings.Contains(err.Error(), "operator is not valid for this variant") {
		t.Errorf("expected variant/operator mismatch, got %v", err)
	}

	err = p.Validate(models.FilterEntry{ID: "status", Variant: models.VariantSelect, Operator: models.OpIs, FilterID: "x"})
	if err != nil {
		t.Errorf("expected valid entry, got %v", err)
	}
}
