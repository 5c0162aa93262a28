// Package testutil provides common utility functions for testing.
package testutil

import (
	"github.com/iwvelando/life-planning/internal/simulation"
)

// FindYear finds the record for a calendar year in the results slice.
// Returns a pointer to the record if found, nil otherwise.
func FindYear(records []simulation.YearRecord, year int) *simulation.YearRecord {
	for i := range records {
		if records[i].Year == year {
			return &records[i]
		}
	}
	return nil
}
