// Package datetime provides date and time utility functions.
package datetime

import (
	"fmt"
	"time"

	"github.com/iwvelando/life-planning/pkg/constants"
)

const (
	// DateLayout is the ISO calendar date format accepted for birth dates.
	DateLayout = constants.DateLayout
)

// MustParseTime parses a date string using the given layout and panics on error.
// This is intended for use in tests where the date string is known to be valid.
func MustParseTime(layout, dateStr string) time.Time {
	t, err := time.Parse(layout, dateStr)
	if err != nil {
		panic(err)
	}
	return t
}

// ParseDate parses a strict YYYY-MM-DD date. Impossible calendar dates such
// as 2023-02-30 are rejected.
func ParseDate(value string) (time.Time, error) {
	t, err := time.Parse(DateLayout, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: expected %s format: %w", value, "YYYY-MM-DD", err)
	}
	return t, nil
}

// JanuaryFirst returns midnight UTC on January 1 of the given year.
func JanuaryFirst(year int) time.Time {
	return time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
}

// Anniversary returns the date in the given year that carries the month and
// day of t. A February 29 anniversary in a common year normalizes to March 1.
func Anniversary(t time.Time, year int) time.Time {
	return time.Date(year, t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
