package simulation

import (
	"errors"
	"fmt"
)

var (
	// ErrStartAfterEnd is returned when the start year is after the end year.
	ErrStartAfterEnd = errors.New("start year must be less than or equal to end year")

	// ErrMaxAgeExceeded is returned when the final year would exceed the age limit.
	ErrMaxAgeExceeded = errors.New("maximum age exceeded")
)

// ValidationError describes which request rule failed. It unwraps to one of
// the sentinel errors above.
type ValidationError struct {
	Rule      error
	StartYear int
	EndYear   int
	// Age and Limit are set for ErrMaxAgeExceeded.
	Age   int
	Limit int
}

func (e *ValidationError) Error() string {
	switch e.Rule {
	case ErrStartAfterEnd:
		return fmt.Sprintf("%v: start %d, end %d", e.Rule, e.StartYear, e.EndYear)
	case ErrMaxAgeExceeded:
		return fmt.Sprintf("%v: age %d in %d is over the limit of %d", e.Rule, e.Age, e.EndYear, e.Limit)
	default:
		return fmt.Sprintf("invalid simulation request: %v", e.Rule)
	}
}

func (e *ValidationError) Unwrap() error {
	return e.Rule
}
