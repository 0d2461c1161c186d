package filter

import (
	"github.com/dafoggo/klinh-admin/internal/models"
)

// OperatorOption pairs an operator with its display label
type OperatorOption struct {
	Value models.FilterOperator
	Label string
}

var (
	textOperators = []OperatorOption{
		{models.OpContains, "contains"},
		{models.OpDoesNotContain, "does not contain"},
		{models.OpEquals, "equals"},
		{models.OpNotEquals, "not equals"},
		{models.OpIsEmpty, "is empty"},
		{models.OpIsNotEmpty, "is not empty"},
	}

	numericOperators = []OperatorOption{
		{models.OpEquals, "equals"},
		{models.OpNotEquals, "not equals"},
		{models.OpLessThan, "is less than"},
		{models.OpLessOrEqual, "is less than or equal to"},
		{models.OpGreaterThan, "is greater than"},
		{models.OpGreaterOrEqual, "is greater than or equal to"},
		{models.OpIsBetween, "is between"},
		{models.OpIsEmpty, "is empty"},
		{models.OpIsNotEmpty, "is not empty"},
	}

	dateOperators = []OperatorOption{
		{models.OpIs, "is"},
		{models.OpIsNot, "is not"},
		{models.OpIsBefore, "is before"},
		{models.OpIsAfter, "is after"},
		{models.OpIsOnOrBefore, "is on or before"},
		{models.OpIsOnOrAfter, "is on or after"},
		{models.OpIsBetween, "is between"},
		{models.OpIsEmpty, "is empty"},
		{models.OpIsNotEmpty, "is not empty"},
	}

	booleanOperators = []OperatorOption{
		{models.OpIs, "is"},
		{models.OpIsNot, "is not"},
	}

	selectOperators = []OperatorOption{
		{models.OpIs, "is"},
		{models.OpIsNot, "is not"},
		{models.OpIsEmpty, "is empty"},
		{models.OpIsNotEmpty, "is not empty"},
	}

	multiSelectOperators = []OperatorOption{
		{models.OpIsAnyOf, "has any of"},
		{models.OpIsNoneOf, "has none of"},
		{models.OpIsEmpty, "is empty"},
		{models.OpIsNotEmpty, "is not empty"},
	}
)

var operatorsByVariant = map[models.Variant][]OperatorOption{
	models.VariantText:        textOperators,
	models.VariantNumber:      numericOperators,
	models.VariantRange:       numericOperators,
	models.VariantDate:        dateOperators,
	models.VariantDateRange:   dateOperators,
	models.VariantBoolean:     booleanOperators,
	models.VariantSelect:      selectOperators,
	models.VariantMultiSelect: multiSelectOperators,
}

var defaultOperators = map[models.Variant]models.FilterOperator{
	models.VariantText:        models.OpContains,
	models.VariantNumber:      models.OpEquals,
	models.VariantRange:       models.OpIsBetween,
	models.VariantDate:        models.OpIs,
	models.VariantDateRange:   models.OpIsBetween,
	models.VariantBoolean:     models.OpIs,
	models.VariantSelect:      models.OpIs,
	models.VariantMultiSelect: models.OpIsAnyOf,
}

// Operators returns the operators available for a variant, in display order.
// Unknown variants get the text operators.
func Operators(variant models.Variant) []OperatorOption {
	ops, ok := operatorsByVariant[variant]
	if !ok {
		ops = textOperators
	}
	out := make([]OperatorOption, len(ops))
	copy(out, ops)
	return out
}

// DefaultOperator returns the operator a new filter on the variant starts with
func DefaultOperator(variant models.Variant) models.FilterOperator {
	if op, ok := defaultOperators[variant]; ok {
		return op
	}
	return models.OpContains
}

// IsValidOperator reports whether op belongs to the variant's operator set
func IsValidOperator(variant models.Variant, op models.FilterOperator) bool {
	ops, ok := operatorsByVariant[variant]
	if !ok {
		return false
	}
	for _, o := range ops {
		if o.Value == op {
			return true
		}
	}
	return false
}

// IsEmptyOperator reports whether the operator ignores the filter value
func IsEmptyOperator(op models.FilterOperator) bool {
	return op == models.OpIsEmpty || op == models.OpIsNotEmpty
}

// OperatorLabel returns the display label for an operator within a variant
func OperatorLabel(variant models.Variant, op models.FilterOperator) string {
	for _, o := range Operators(variant) {
		if o.Value == op {
			return o.Label
		}
	}
	return string(op)
}
