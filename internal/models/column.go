package models

// Variant classifies a column's data type for filtering purposes
type Variant string

const (
	VariantText        Variant = "text"
	VariantNumber      Variant = "number"
	VariantRange       Variant = "range"
	VariantDate        Variant = "date"
	VariantDateRange   Variant = "dateRange"
	VariantBoolean     Variant = "boolean"
	VariantSelect      Variant = "select"
	VariantMultiSelect Variant = "multiSelect"
)

// Variants lists every known variant in declaration order
var Variants = []Variant{
	VariantText,
	VariantNumber,
	VariantRange,
	VariantDate,
	VariantDateRange,
	VariantBoolean,
	VariantSelect,
	VariantMultiSelect,
}

// IsValid reports whether v is one of the known variants
func (v Variant) IsValid() bool {
	for _, known := range Variants {
		if v == known {
			return true
		}
	}
	return false
}

// IsNumeric reports whether the variant holds numbers
func (v Variant) IsNumeric() bool {
	return v == VariantNumber || v == VariantRange
}

// IsDate reports whether the variant holds dates
func (v Variant) IsDate() bool {
	return v == VariantDate || v == VariantDateRange
}

// Option is one choice of a select or multiSelect column
type Option struct {
	Value string
	Label string
	Icon  string
	Count int
}

// ColumnMeta holds the display and filter metadata of a column
type ColumnMeta struct {
	Variant     Variant
	Label       string
	Icon        string
	Placeholder string
	Unit        string
	Options     []Option
}

// Column describes one field of a data table
type Column struct {
	ID           string
	Meta         ColumnMeta
	EnableFilter bool
}

// CanFilter reports whether the column takes part in filtering
func (c Column) CanFilter() bool {
	return c.EnableFilter
}

// Title returns the label, falling back to the id
func (c Column) Title() string {
	if c.Meta.Label != "" {
		return c.Meta.Label
	}
	return c.ID
}

// FilterVariant returns the declared variant, text when unset
func (c Column) FilterVariant() Variant {
	if c.Meta.Variant == "" {
		return VariantText
	}
	return c.Meta.Variant
}

// OptionLabel returns the label of the option with the given value
func (c Column) OptionLabel(value string) string {
	for _, opt := range c.Meta.Options {
		if opt.Value == value {
			return opt.Label
		}
	}
	return value
}

// FilterableColumns returns the columns that can be filtered, in order
func FilterableColumns(columns []Column) []Column {
	var result []Column
	for _, col := range columns {
		if col.CanFilter() {
			result = append(result, col)
		}
	}
	return result
}

// FindColumn looks up a column by id
func FindColumn(columns []Column, id string) (Column, bool) {
	for _, col := range columns {
		if col.ID == id {
			return col, true
		}
	}
	return Column{}, false
}
