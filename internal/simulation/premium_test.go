package simulation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCalculatePremiums(t *testing.T) {
	tests := []struct {
		name            string
		healthStandard  int64
		pensionStandard int64
		rates           Rates
		age             int
		expected        Premiums
	}{
		{
			name:            "Under 40 pays no care premium",
			healthStandard:  500000,
			pensionStandard: 500000,
			rates:           rates2020,
			age:             39,
			expected:        Premiums{Health: 24525, Care: 0, Pension: 45750, TotalMonthly: 70275},
		},
		{
			name:            "From 40 the care premium applies",
			healthStandard:  500000,
			pensionStandard: 500000,
			rates:           rates2020,
			age:             40,
			expected:        Premiums{Health: 24525, Care: 4100, Pension: 45750, TotalMonthly: 74375},
		},
		{
			name:            "Negative standard amounts floor toward negative infinity",
			healthStandard:  -100000,
			pensionStandard: -100000,
			rates:           rates2020,
			age:             45,
			expected:        Premiums{Health: -4905, Care: -821, Pension: -9150, TotalMonthly: -14876},
		},
		{
			name:            "Zero standard amounts",
			healthStandard:  0,
			pensionStandard: 0,
			rates:           rates2020,
			age:             45,
			expected:        Premiums{},
		},
		{
			name:            "Zero rates",
			healthStandard:  500000,
			pensionStandard: 500000,
			rates:           Rates{},
			age:             45,
			expected:        Premiums{},
		},
		{
			name:            "Top grades drop the half yen",
			healthStandard:  1390000,
			pensionStandard: 650000,
			rates:           rates2020,
			age:             50,
			expected:        Premiums{Health: 68179, Care: 11398, Pension: 59475, TotalMonthly: 139052},
		},
		{
			name:            "Round amounts",
			healthStandard:  100000,
			pensionStandard: 100000,
			rates:           rates2020,
			age:             45,
			expected:        Premiums{Health: 4905, Care: 820, Pension: 9150, TotalMonthly: 14875},
		},
		{
			name:            "Different health and pension amounts",
			healthStandard:  300000,
			pensionStandard: 400000,
			rates:           rates2020,
			age:             45,
			expected:        Premiums{Health: 14715, Care: 2460, Pension: 36600, TotalMonthly: 53775},
		},
		{
			name:            "Negative age is treated as under 40",
			healthStandard:  500000,
			pensionStandard: 500000,
			rates:           rates2020,
			age:             -1,
			expected:        Premiums{Health: 24525, Care: 0, Pension: 45750, TotalMonthly: 70275},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := CalculatePremiums(tt.healthStandard, tt.pensionStandard, tt.rates, tt.age)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestCarePremiumPositiveFromForty(t *testing.T) {
	for age := 0; age <= 100; age++ {
		p := CalculatePremiums(200000, 200000, rates2020, age)
		if age < 40 {
			assert.Zero(t, p.Care, "age %d", age)
		} else {
			assert.Positive(t, p.Care, "age %d", age)
		}
		assert.Equal(t, p.Health+p.Care+p.Pension, p.TotalMonthly)
	}
}
