package filter

import (
	"fmt"
	"strings"
	"time"

	"github.com/dafoggo/klinh-admin/internal/models"
)

// Fields holds the values of one record keyed by column id. Supported value
// types are string, float64, int, bool, time.Time, *int and nil.
type Fields map[string]interface{}

// Matcher evaluates filter entries against in-memory records with the same
// semantics as Builder. NULL cells satisfy the negative operators.
type Matcher struct {
	Location *time.Location
	Logic    string
}

// NewMatcher creates a matcher joining conditions with AND
func NewMatcher() *Matcher {
	return &Matcher{Location: time.Local, Logic: "AND"}
}

// Match reports whether the record satisfies the entries. Entries without a
// usable value do not restrict anything.
func (m *Matcher) Match(entries []models.FilterEntry, fields Fields) bool {
	or := strings.EqualFold(m.Logic, "OR")
	applied := 0

	for _, entry := range entries {
		ok, active := m.matchEntry(entry, fields)
		if !active {
			continue
		}
		applied++
		if or && ok {
			return true
		}
		if !or && !ok {
			return false
		}
	}

	if or {
		return applied == 0
	}
	return true
}

func (m *Matcher) matchEntry(entry models.FilterEntry, fields Fields) (matched bool, active bool) {
	if !IsValidOperator(entry.Variant, entry.Operator) {
		return false, false
	}

	raw, present := fields[entry.ID]
	if p, ok := raw.(*int); ok {
		if p == nil {
			raw = nil
		} else {
			raw = *p
		}
	}
	isNull := !present || raw == nil

	switch entry.Operator {
	case models.OpIsEmpty:
		return isNull || fmt.Sprint(raw) == "", true
	case models.OpIsNotEmpty:
		return !isNull && fmt.Sprint(raw) != "", true
	}

	switch entry.Variant {
	case models.VariantText:
		return m.matchText(entry, raw, isNull)
	case models.VariantNumber, models.VariantRange:
		return m.matchNumber(entry, raw, isNull)
	case models.VariantDate, models.VariantDateRange:
		return m.matchDate(entry, raw, isNull)
	case models.VariantBoolean:
		want, ok := ParseBool(entry.Value.String())
		if !ok {
			return false, false
		}
		got, _ := raw.(bool)
		if entry.Operator == models.OpIsNot {
			return isNull || got != want, true
		}
		return !isNull && got == want, true
	case models.VariantSelect:
		want := entry.Value.String()
		if strings.TrimSpace(want) == "" {
			return false, false
		}
		got := fmt.Sprint(raw)
		if entry.Operator == models.OpIsNot {
			return isNull || got != want, true
		}
		return !isNull && got == want, true
	case models.VariantMultiSelect:
		values := entry.Value.Strings()
		if len(values) == 0 {
			return false, false
		}
		got := fmt.Sprint(raw)
		found := false
		for _, v := range values {
			if !isNull && v == got {
				found = true
				break
			}
		}
		if entry.Operator == models.OpIsNoneOf {
			return !found, true
		}
		return found, true
	}
	return false, false
}

func (m *Matcher) matchText(entry models.FilterEntry, raw interface{}, isNull bool) (bool, bool) {
	want := strings.ToLower(entry.Value.String())
	if strings.TrimSpace(want) == "" {
		return false, false
	}
	got := ""
	if !isNull {
		got = strings.ToLower(fmt.Sprint(raw))
	}

	switch entry.Operator {
	case models.OpContains:
		return !isNull && strings.Contains(got, want), true
	case models.OpDoesNotContain:
		return !strings.Contains(got, want), true
	case models.OpEquals:
		return !isNull && got == want, true
	case models.OpNotEquals:
		return got != want, true
	}
	return false, false
}

func toFloat(raw interface{}) (float64, bool) {
	switch v := raw.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case string:
		return ParseNumber(v)
	}
	return 0, false
}

func (m *Matcher) matchNumber(entry models.FilterEntry, raw interface{}, isNull bool) (bool, bool) {
	got, hasGot := toFloat(raw)
	if isNull {
		hasGot = false
	}

	if entry.Operator == models.OpIsBetween {
		loStr, hiStr := RangeBounds(entry.Value)
		lo, hasLo := ParseNumber(loStr)
		hi, hasHi := ParseNumber(hiStr)
		if !hasLo && !hasHi {
			return false, false
		}
		if !hasGot {
			return false, true
		}
		return (!hasLo || got >= lo) && (!hasHi || got <= hi), true
	}

	want, ok := ParseNumber(entry.Value.String())
	if !ok {
		return false, false
	}
	if !hasGot {
		return entry.Operator == models.OpNotEquals, true
	}

	switch entry.Operator {
	case models.OpEquals:
		return got == want, true
	case models.OpNotEquals:
		return got != want, true
	case models.OpLessThan:
		return got < want, true
	case models.OpLessOrEqual:
		return got <= want, true
	case models.OpGreaterThan:
		return got > want, true
	case models.OpGreaterOrEqual:
		return got >= want, true
	}
	return false, false
}

func (m *Matcher) matchDate(entry models.FilterEntry, raw interface{}, isNull bool) (bool, bool) {
	loc := m.Location
	if loc == nil {
		loc = time.Local
	}
	got, hasGot := raw.(time.Time)
	if isNull || got.IsZero() {
		hasGot = false
	}

	if entry.Operator == models.OpIsBetween {
		loStr, hiStr := RangeBounds(entry.Value)
		from, hasFrom := ParseEpochMillis(loStr)
		to, hasTo := ParseEpochMillis(hiStr)
		if !hasFrom && !hasTo {
			return false, false
		}
		if !hasGot {
			return false, true
		}
		ok := true
		if hasFrom {
			start, _ := DayBounds(from, loc)
			ok = ok && !got.Before(start)
		}
		if hasTo {
			_, end := DayBounds(to, loc)
			ok = ok && got.Before(end)
		}
		return ok, true
	}

	day, ok := ParseEpochMillis(entry.Value.String())
	if !ok {
		return false, false
	}
	if !hasGot {
		return entry.Operator == models.OpIsNot, true
	}
	start, end := DayBounds(day, loc)
	sameDay := !got.Before(start) && got.Before(end)

	switch entry.Operator {
	case models.OpIs:
		return sameDay, true
	case models.OpIsNot:
		return !sameDay, true
	case models.OpIsBefore:
		return got.Before(start), true
	case models.OpIsAfter:
		return !got.Before(end), true
	case models.OpIsOnOrBefore:
		return got.Before(end), true
	case models.OpIsOnOrAfter:
		return !got.Before(start), true
	}
	return false, false
}
