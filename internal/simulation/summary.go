package simulation

import (
	"github.com/shopspring/decimal"
)

// Summary aggregates a simulated table over its whole range.
type Summary struct {
	Years          int             `json:"years" yaml:"years"`
	TotalIncome    decimal.Decimal `json:"totalIncome" yaml:"totalIncome"`
	TotalDeduction decimal.Decimal `json:"totalDeduction" yaml:"totalDeduction"`
	TotalPremium   decimal.Decimal `json:"totalPremium" yaml:"totalPremium"`
	// BurdenPercent is TotalPremium as a percentage of TotalIncome, rounded
	// to two places. Zero when there is no income.
	BurdenPercent decimal.Decimal `json:"burdenPercent" yaml:"burdenPercent"`
}

var hundred = decimal.NewFromInt(100)

// Summarize totals income, deductions and annual premiums across records.
func Summarize(records []YearRecord) Summary {
	s := Summary{
		Years:          len(records),
		TotalIncome:    decimal.Zero,
		TotalDeduction: decimal.Zero,
		TotalPremium:   decimal.Zero,
		BurdenPercent:  decimal.Zero,
	}
	for _, r := range records {
		s.TotalIncome = s.TotalIncome.Add(decimal.NewFromInt(r.Income))
		s.TotalDeduction = s.TotalDeduction.Add(decimal.NewFromInt(r.Deduction))
		s.TotalPremium = s.TotalPremium.Add(decimal.NewFromInt(r.TotalAnnualPremium))
	}
	if s.TotalIncome.IsPositive() {
		s.BurdenPercent = s.TotalPremium.Mul(hundred).DivRound(s.TotalIncome, 2)
	}
	return s
}
