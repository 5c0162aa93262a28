package mathutil

import (
	"math"
	"testing"
)

func TestFloorYen(t *testing.T) {
	tests := []struct {
		name     string
		input    float64
		expected int64
	}{
		{"Whole number", 24525.0, 24525},
		{"Fraction rounds down", 68179.5, 68179},
		{"Zero", 0.0, 0},
		{"Negative whole number", -4905.0, -4905},
		{"Negative fraction rounds away from zero", -820.0000000000001, -821},
		{"Negative half", -0.5, -1},
		{"Large number", 1950000.9, 1950000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := FloorYen(tt.input)
			if result != tt.expected {
				t.Errorf("FloorYen(%v) = %d, expected %d", tt.input, result, tt.expected)
			}
		})
	}
}

func TestMinInt64(t *testing.T) {
	tests := []struct {
		name    string
		a, b    int64
		wantMin int64
	}{
		{"First smaller", 1, 2, 1},
		{"Second smaller", 550000, 300000, 300000},
		{"Equal", 7, 7, 7},
		{"Negative", -5, 3, -5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MinInt64(tt.a, tt.b); got != tt.wantMin {
				t.Errorf("MinInt64(%d, %d) = %d, expected %d", tt.a, tt.b, got, tt.wantMin)
			}
		})
	}
}

func TestInUnitInterval(t *testing.T) {
	tests := []struct {
		rate     float64
		expected bool
	}{
		{0, true},
		{0.0981, true},
		{1, true},
		{-0.01, false},
		{1.01, false},
		{math.NaN(), false},
	}

	for _, tt := range tests {
		if got := InUnitInterval(tt.rate); got != tt.expected {
			t.Errorf("InUnitInterval(%v) = %v, expected %v", tt.rate, got, tt.expected)
		}
	}
}
