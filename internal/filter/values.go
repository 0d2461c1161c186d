package filter

import (
	"strconv"
	"strings"
	"time"

	"github.com/dafoggo/klinh-admin/internal/models"
)

// FormatEpochMillis renders a time the way date filters store it
func FormatEpochMillis(t time.Time) string {
	return strconv.FormatInt(t.UnixMilli(), 10)
}

// ParseEpochMillis reads a date filter value
func ParseEpochMillis(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	ms, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return time.Time{}, false
	}
	return time.UnixMilli(ms), true
}

// DayBounds returns the start of the calendar day containing t and the start
// of the following day, in loc.
func DayBounds(t time.Time, loc *time.Location) (time.Time, time.Time) {
	t = t.In(loc)
	start := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
	return start, start.AddDate(0, 0, 1)
}

// ParseNumber reads a numeric filter value
func ParseNumber(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// ParseBool reads a boolean filter value
func ParseBool(s string) (bool, bool) {
	b, err := strconv.ParseBool(strings.TrimSpace(s))
	if err != nil {
		return false, false
	}
	return b, true
}

// RangeBounds extracts the two ends of an isBetween value. A single string
// value is used as the lower bound only.
func RangeBounds(v models.FilterValue) (string, string) {
	if !v.IsList() {
		return v.String(), ""
	}
	values := v.Strings()
	var lo, hi string
	if len(values) > 0 {
		lo = values[0]
	}
	if len(values) > 1 {
		hi = values[1]
	}
	return lo, hi
}
