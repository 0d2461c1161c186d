package filter

import (
	"testing"

	"github.com/dafoggo/klinh-admin/internal/models"
)

func TestDefaultOperator(t *testing.T) {
	tests := []struct {
		variant models.Variant
		want    models.FilterOperator
	}{
		{models.VariantText, models.OpContains},
		{models.VariantNumber, models.OpEquals},
		{models.VariantRange, models.OpIsBetween},
		{models.VariantDate, models.OpIs},
		{models.VariantDateRange, models.OpIsBetween},
		{models.VariantBoolean, models.OpIs},
		{models.VariantSelect, models.OpIs},
		{models.VariantMultiSelect, models.OpIsAnyOf},
		{models.Variant("unknown"), models.OpContains},
	}

	for _, tt := range tests {
		t.Run(string(tt.variant), func(t *testing.T) {
			if got := DefaultOperator(tt.variant); got != tt.want {
				t.Errorf("DefaultOperator(%s) = %s, want %s", tt.variant, got, tt.want)
			}
		})
	}
}

func TestDefaultOperatorIsOffered(t *testing.T) {
	for _, v := range models.Variants {
		if !IsValidOperator(v, DefaultOperator(v)) {
			t.Errorf("default operator of %s is not in its operator list", v)
		}
	}
}

func TestOperators_ReturnsCopy(t *testing.T) {
	ops := Operators(models.VariantText)
	ops[0].Label = "mutated"
	if Operators(models.VariantText)[0].Label == "mutated" {
		t.Error("expected Operators to return a copy")
	}
}

func TestOperators_UnknownFallsBackToText(t *testing.T) {
	ops := Operators(models.Variant("nope"))
	if len(ops) != len(textOperators) || ops[0].Value != models.OpContains {
		t.Errorf("expected text operators, got %+v", ops)
	}
}

func TestIsValidOperator(t *testing.T) {
	if !IsValidOperator(models.VariantMultiSelect, models.OpIsNoneOf) {
		t.Error("expected isNoneOf valid for multiSelect")
	}
	if IsValidOperator(models.VariantBoolean, models.OpIsEmpty) {
		t.Error("expected isEmpty invalid for boolean")
	}
	if IsValidOperator(models.VariantText, models.OpIsBetween) {
		t.Error("expected isBetween invalid for text")
	}
	if IsValidOperator(models.Variant("nope"), models.OpContains) {
		t.Error("expected unknown variant to reject everything")
	}
}

func TestOperatorLabel(t *testing.T) {
	if got := OperatorLabel(models.VariantMultiSelect, models.OpIsAnyOf); got != "has any of" {
		t.Errorf("expected 'has any of', got %q", got)
	}
	if got := OperatorLabel(models.VariantText, models.OpIsBetween); got != "isBetween" {
		t.Errorf("expected raw operator fallback, got %q", got)
	}
}
