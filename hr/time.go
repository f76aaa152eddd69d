package hr

import (
	"math"
	"time"
)

// DateLayout is the wire and storage format of date-only fields.
const DateLayout = "2006-01-02"

// DateTimeLayout is the storage format of datetime fields.
const DateTimeLayout = "2006-01-02 15:04:05"

// ParseDate parses a "YYYY-MM-DD" date as midnight UTC.
func ParseDate(s string) (time.Time, error) {
	return time.ParseInLocation(DateLayout, s, time.UTC)
}

// ParseDateTime accepts RFC3339, the storage layout, or a bare date.
func ParseDateTime(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.UTC(), nil
	}
	if t, err := time.ParseInLocation(DateTimeLayout, s, time.UTC); err == nil {
		return t, nil
	}
	return ParseDate(s)
}

// FormatDateTime renders t in UTC in the storage layout, dropping
// sub-second precision.
func FormatDateTime(t time.Time) string { return t.UTC().Format(DateTimeLayout) }

// FormatDate renders the UTC date of t.
func FormatDate(t time.Time) string { return t.UTC().Format(DateLayout) }

// WholeDaysBetween returns the number of whole days from `from` to `to`,
// rounded towards negative infinity like a day-granular timedelta.
func WholeDaysBetween(from, to time.Time) int {
	return int(math.Floor(to.Sub(from).Hours() / 24))
}
