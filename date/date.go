// Package date parses and formats trade dates.
package date

import (
	"fmt"
	"strings"
	"time"
)

// Format is the format used to write dates.
const Format = "2006-01-02"

// layouts accepted on read, the first one matching wins.
var layouts = []string{
	"2006-1-2", // Permissive read date format (allows single-digit month/day).
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"02.01.2006",
	"2006/1/2",
}

// Parse parses a trade date. It is lenient and accepts "2025-7-1" as well as
// full timestamps. Dates without a zone are UTC.
func Parse(str string) (time.Time, error) {
	str = strings.TrimSpace(str)
	for _, layout := range layouts {
		if on, err := time.Parse(layout, str); err == nil {
			return on, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %q want format %q", str, Format)
}

// MustParse is like Parse but panics on error.
func MustParse(str string) time.Time {
	d, err := Parse(str)
	if err != nil {
		panic(err.Error())
	}
	return d
}

// Day truncates t to midnight UTC of its calendar day.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Today returns the current day.
func Today() time.Time { return Day(time.Now()) }

// FromSerial converts a spreadsheet serial day number (days since
// 1899-12-30) into a date.
func FromSerial(serial float64) time.Time {
	base := time.Date(1899, 12, 30, 0, 0, 0, 0, time.UTC)
	return base.Add(time.Duration(serial * float64(24*time.Hour))).Truncate(time.Second)
}
