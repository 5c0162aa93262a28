package simulation

import (
	"github.com/iwvelando/life-planning/pkg/constants"
)

// Limits bounds what a simulation request may ask for. MaxAge is enforced by
// the engine; MinYear and MaxYear are enforced where requests are decoded.
type Limits struct {
	MaxAge  int `json:"maxAge" yaml:"maxAge"`
	MinYear int `json:"minYear" yaml:"minYear"`
	MaxYear int `json:"maxYear" yaml:"maxYear"`
}

// DefaultLimits returns the limits used when none are configured.
func DefaultLimits() Limits {
	return Limits{
		MaxAge:  constants.DefaultMaxAge,
		MinYear: constants.DefaultMinYear,
		MaxYear: constants.DefaultMaxYear,
	}
}

// Normalize replaces unset (zero or negative) fields with defaults.
func (l Limits) Normalize() Limits {
	d := DefaultLimits()
	if l.MaxAge <= 0 {
		l.MaxAge = d.MaxAge
	}
	if l.MinYear <= 0 {
		l.MinYear = d.MinYear
	}
	if l.MaxYear <= 0 {
		l.MaxYear = d.MaxYear
	}
	return l
}

// ContainsYear reports whether year lies within [MinYear, MaxYear].
func (l Limits) ContainsYear(year int) bool {
	return year >= l.MinYear && year <= l.MaxYear
}
