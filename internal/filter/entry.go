package filter

import (
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/dafoggo/klinh-admin/internal/models"
)

const filterIDLength = 8

// NewFilterID generates an opaque identifier for a new filter entry
var NewFilterID = func() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:filterIDLength]
}

// NewEntry builds the filter entry created when a value is committed for a column.
// It returns false when the value is blank and the column is not boolean.
func NewEntry(column models.Column, value string) (models.FilterEntry, bool) {
	variant := column.FilterVariant()
	if strings.TrimSpace(value) == "" && variant != models.VariantBoolean {
		return models.FilterEntry{}, false
	}

	filterValue := models.StringValue(value)
	if variant == models.VariantMultiSelect {
		filterValue = models.ListValue(value)
	}

	return models.FilterEntry{
		ID:       column.ID,
		Value:    filterValue,
		Variant:  variant,
		Operator: DefaultOperator(variant),
		FilterID: NewFilterID(),
	}, true
}

// Patch is a partial update of a filter entry. Nil fields are left untouched.
type Patch struct {
	ID       *string
	Variant  *models.Variant
	Operator *models.FilterOperator
	Value    *models.FilterValue
}

// ValuePatch updates only the value
func ValuePatch(v models.FilterValue) Patch {
	return Patch{Value: &v}
}

// OperatorPatch switches the operator, clearing the value for empty operators
func OperatorPatch(op models.FilterOperator) Patch {
	p := Patch{Operator: &op}
	if IsEmptyOperator(op) {
		empty := models.StringValue("")
		p.Value = &empty
	}
	return p
}

// ColumnPatch moves the entry to another column, resetting operator and value
func ColumnPatch(column models.Column) Patch {
	id := column.ID
	variant := column.FilterVariant()
	op := DefaultOperator(variant)
	value := models.StringValue("")
	return Patch{ID: &id, Variant: &variant, Operator: &op, Value: &value}
}

// Merge overlays the set fields of other onto p
func (p Patch) Merge(other Patch) Patch {
	if other.ID != nil {
		p.ID = other.ID
	}
	if other.Variant != nil {
		p.Variant = other.Variant
	}
	if other.Operator != nil {
		p.Operator = other.Operator
	}
	if other.Value != nil {
		p.Value = other.Value
	}
	return p
}

// IsZero reports whether the patch changes nothing
func (p Patch) IsZero() bool {
	return p.ID == nil && p.Variant == nil && p.Operator == nil && p.Value == nil
}

// Apply returns entry with the patch applied. An empty operator always leaves
// the value empty.
func (p Patch) Apply(entry models.FilterEntry) models.FilterEntry {
	entry = entry.Clone()
	if p.ID != nil {
		entry.ID = *p.ID
	}
	if p.Variant != nil {
		entry.Variant = *p.Variant
	}
	if p.Operator != nil {
		entry.Operator = *p.Operator
	}
	if p.Value != nil {
		entry.Value = *p.Value
	}
	if IsEmptyOperator(entry.Operator) {
		entry.Value = models.StringValue("")
	}
	return entry
}

// WithOperator switches the operator of an entry
func WithOperator(entry models.FilterEntry, op models.FilterOperator) models.FilterEntry {
	return OperatorPatch(op).Apply(entry)
}

// ToggleOption returns the value after the user picks option on a select or
// multiSelect entry. multiSelect toggles membership; select replaces.
func ToggleOption(entry models.FilterEntry, option string) models.FilterValue {
	if entry.Variant != models.VariantMultiSelect {
		return models.StringValue(option)
	}

	selected := entry.Value.Strings()
	for i, v := range selected {
		if v == option {
			return models.ListValue(append(selected[:i], selected[i+1:]...)...)
		}
	}
	return models.ListValue(append(selected, option)...)
}

// SortByColumns returns the entries ordered by their column's declaration
// order. Entries for unknown columns keep their relative order at the end.
func SortByColumns(entries []models.FilterEntry, columns []models.Column) []models.FilterEntry {
	order := make(map[string]int, len(columns))
	for i, col := range columns {
		order[col.ID] = i
	}
	rank := func(id string) int {
		if i, ok := order[id]; ok {
			return i
		}
		return len(columns)
	}

	sorted := models.CloneEntries(entries)
	sort.SliceStable(sorted, func(i, j int) bool {
		return rank(sorted[i].ID) < rank(sorted[j].ID)
	})
	return sorted
}

// FindEntry returns the index of the entry with the given filter id, or -1
func FindEntry(entries []models.FilterEntry, filterID string) int {
	for i, e := range entries {
		if e.FilterID == filterID {
			return i
		}
	}
	return -1
}
