package models

import (
	"encoding/json"
	"fmt"
	"strings"
)

// FilterOperator represents a filter comparison operator
type FilterOperator string

const (
	OpContains       FilterOperator = "contains"
	OpDoesNotContain FilterOperator = "doesNotContain"
	OpEquals         FilterOperator = "equals"
	OpNotEquals      FilterOperator = "notEquals"
	OpLessThan       FilterOperator = "lessThan"
	OpLessOrEqual    FilterOperator = "lessOrEqual"
	OpGreaterThan    FilterOperator = "greaterThan"
	OpGreaterOrEqual FilterOperator = "greaterOrEqual"
	OpIsBetween      FilterOperator = "isBetween"
	OpIsEmpty        FilterOperator = "isEmpty"
	OpIsNotEmpty     FilterOperator = "isNotEmpty"
	OpIs             FilterOperator = "is"
	OpIsNot          FilterOperator = "isNot"
	OpIsBefore       FilterOperator = "isBefore"
	OpIsAfter        FilterOperator = "isAfter"
	OpIsOnOrBefore   FilterOperator = "isOnOrBefore"
	OpIsOnOrAfter    FilterOperator = "isOnOrAfter"
	OpIsAnyOf        FilterOperator = "isAnyOf"
	OpIsNoneOf       FilterOperator = "isNoneOf"
)

// FilterValue holds either a single string or an ordered list of strings.
// It encodes as a JSON string or a JSON array accordingly.
type FilterValue struct {
	single string
	list   []string
	isList bool
}

// StringValue creates a single-string value
func StringValue(s string) FilterValue {
	return FilterValue{single: s}
}

// ListValue creates a list value. A nil list encodes as an empty array.
func ListValue(values ...string) FilterValue {
	list := make([]string, len(values))
	copy(list, values)
	return FilterValue{list: list, isList: true}
}

// IsList reports whether the value is a list
func (v FilterValue) IsList() bool {
	return v.isList
}

// String returns the single value, or the first list element
func (v FilterValue) String() string {
	if v.isList {
		if len(v.list) > 0 {
			return v.list[0]
		}
		return ""
	}
	return v.single
}

// Strings returns the value as a list; a single value becomes a one-element list
// unless it is empty.
func (v FilterValue) Strings() []string {
	if v.isList {
		out := make([]string, len(v.list))
		copy(out, v.list)
		return out
	}
	if v.single == "" {
		return []string{}
	}
	return []string{v.single}
}

// IsEmpty reports whether the value carries nothing
func (v FilterValue) IsEmpty() bool {
	if v.isList {
		for _, s := range v.list {
			if strings.TrimSpace(s) != "" {
				return false
			}
		}
		return true
	}
	return strings.TrimSpace(v.single) == ""
}

// Equal reports whether two values hold the same shape and content
func (v FilterValue) Equal(other FilterValue) bool {
	if v.isList != other.isList {
		return false
	}
	if !v.isList {
		return v.single == other.single
	}
	if len(v.list) != len(other.list) {
		return false
	}
	for i := range v.list {
		if v.list[i] != other.list[i] {
			return false
		}
	}
	return true
}

// Display renders the value for humans
func (v FilterValue) Display() string {
	if v.isList {
		return strings.Join(v.list, ", ")
	}
	return v.single
}

// MarshalJSON implements json.Marshaler
func (v FilterValue) MarshalJSON() ([]byte, error) {
	if v.isList {
		list := v.list
		if list == nil {
			list = []string{}
		}
		return json.Marshal(list)
	}
	return json.Marshal(v.single)
}

// UnmarshalJSON implements json.Unmarshaler
func (v *FilterValue) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*v = StringValue(s)
		return nil
	}

	var list []string
	if err := json.Unmarshal(data, &list); err != nil {
		return fmt.Errorf("filter value must be a string or an array of strings: %w", err)
	}
	*v = ListValue(list...)
	return nil
}

// FilterEntry is one active column filter
type FilterEntry struct {
	ID       string         `json:"id" validate:"required,knowncolumn"`
	Value    FilterValue    `json:"value"`
	Variant  Variant        `json:"variant" validate:"required,variant"`
	Operator FilterOperator `json:"operator" validate:"required"`
	FilterID string         `json:"filterId" validate:"required"`
}

// Clone returns a deep copy of the entry
func (e FilterEntry) Clone() FilterEntry {
	if e.Value.isList {
		e.Value = ListValue(e.Value.list...)
	}
	return e
}

// CloneEntries deep-copies a list of entries
func CloneEntries(entries []FilterEntry) []FilterEntry {
	if entries == nil {
		return nil
	}
	out := make([]FilterEntry, len(entries))
	for i, e := range entries {
		out[i] = e.Clone()
	}
	return out
}
