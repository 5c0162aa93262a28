// Package mathutil provides common mathematical utility functions.
package mathutil

import (
	"math"
)

// FloorYen rounds a yen amount toward negative infinity, so -820.0000001
// becomes -821 rather than -820.
func FloorYen(val float64) int64 {
	return int64(math.Floor(val))
}

// MinInt64 returns the minimum of two int64 values
func MinInt64(a, b int64) int64 {
	if a < b {
		return a
	}
	return b
}

// InUnitInterval reports whether a rate lies in [0, 1].
func InUnitInterval(rate float64) bool {
	return rate >= 0 && rate <= 1
}
