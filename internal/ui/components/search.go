package components

import (
	"strings"

	"github.com/dafoggo/klinh-admin/internal/models"
)

// SearchQuery represents a parsed column search
type SearchQuery struct {
	Pattern string           // The search pattern (after removing prefix)
	Negate  bool             // True if query starts with !
	Variant models.Variant   // Variant filter, empty for any
	Kinds   []models.Variant // Variants accepted by the prefix
}

type variantPrefix struct {
	prefix   string
	variants []models.Variant
}

// Checked in order, longer prefixes first
var variantPrefixes = []variantPrefix{
	{"multiselect:", []models.Variant{models.VariantMultiSelect}},
	{"daterange:", []models.Variant{models.VariantDateRange}},
	{"boolean:", []models.Variant{models.VariantBoolean}},
	{"select:", []models.Variant{models.VariantSelect, models.VariantMultiSelect}},
	{"number:", []models.Variant{models.VariantNumber, models.VariantRange}},
	{"range:", []models.Variant{models.VariantRange}},
	{"text:", []models.Variant{models.VariantText}},
	{"date:", []models.Variant{models.VariantDate, models.VariantDateRange}},
	{"ms:", []models.Variant{models.VariantMultiSelect}},
	{"t:", []models.Variant{models.VariantText}},
	{"n:", []models.Variant{models.VariantNumber, models.VariantRange}},
	{"d:", []models.Variant{models.VariantDate, models.VariantDateRange}},
	{"b:", []models.Variant{models.VariantBoolean}},
	{"s:", []models.Variant{models.VariantSelect, models.VariantMultiSelect}},
}

// ParseSearchQuery parses the text typed in the filter menu
// Examples:
//   - "pri" → {Pattern: "pri"}
//   - "!name" → {Pattern: "name", Negate: true}
//   - "d:crea" → {Pattern: "crea", Variant: "date"}
func ParseSearchQuery(query string) SearchQuery {
	q := SearchQuery{}

	if strings.HasPrefix(query, "!") {
		q.Negate = true
		query = query[1:]
	}

	queryLower := strings.ToLower(query)
	for _, p := range variantPrefixes {
		if strings.HasPrefix(queryLower, p.prefix) {
			q.Kinds = p.variants
			q.Variant = p.variants[0]
			query = query[len(p.prefix):]
			break
		}
	}

	q.Pattern = query
	return q
}

// FuzzyMatch performs fuzzy subsequence matching
// Returns whether the pattern matches and the positions of matched characters
// Matching is case-insensitive
func FuzzyMatch(pattern, target string) (bool, []int) {
	if pattern == "" {
		return true, []int{}
	}

	patternLower := strings.ToLower(pattern)
	targetLower := strings.ToLower(target)

	positions := make([]int, 0, len(pattern))
	patternIdx := 0

	for i := 0; i < len(targetLower) && patternIdx < len(patternLower); i++ {
		if targetLower[i] == patternLower[patternIdx] {
			positions = append(positions, i)
			patternIdx++
		}
	}

	if patternIdx == len(patternLower) {
		return true, positions
	}
	return false, nil
}

// ColumnMatchesVariant checks if a column has one of the query's variants
// Empty filter matches all columns
func ColumnMatchesVariant(col models.Column, query SearchQuery) bool {
	if len(query.Kinds) == 0 {
		return true
	}
	variant := col.FilterVariant()
	for _, v := range query.Kinds {
		if v == variant {
			return true
		}
	}
	return false
}

// FilterColumns returns the filterable columns matching the query, in order.
// The pattern is matched against the label and the id.
func FilterColumns(columns []models.Column, query SearchQuery) []models.Column {
	var matches []models.Column
	for _, col := range models.FilterableColumns(columns) {
		variantMatches := ColumnMatchesVariant(col, query)

		patternMatches := true
		if query.Pattern != "" {
			byLabel, _ := FuzzyMatch(query.Pattern, col.Title())
			byID, _ := FuzzyMatch(query.Pattern, col.ID)
			patternMatches = byLabel || byID
		}

		include := variantMatches && patternMatches
		if query.Negate {
			if len(query.Kinds) > 0 && query.Pattern == "" {
				include = !variantMatches
			} else {
				include = variantMatches && !patternMatches
			}
		}
		if include {
			matches = append(matches, col)
		}
	}
	return matches
}

// FilterOptions returns the options whose label or value matches pattern
func FilterOptions(options []models.Option, pattern string) []models.Option {
	pattern = strings.TrimSpace(pattern)
	if pattern == "" {
		return options
	}
	matches := []models.Option{}
	for _, opt := range options {
		byLabel, _ := FuzzyMatch(pattern, opt.Label)
		byValue, _ := FuzzyMatch(pattern, opt.Value)
		if byLabel || byValue {
			matches = append(matches, opt)
		}
	}
	return matches
}
