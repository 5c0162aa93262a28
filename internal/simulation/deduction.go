package simulation

import (
	"github.com/iwvelando/life-planning/pkg/mathutil"
)

// deductionStep is one row of the salary income deduction schedule. Incomes up
// to and including UpTo receive floor(income*Rate + Offset).
type deductionStep struct {
	UpTo   int64
	Rate   float64
	Offset float64
}

var salaryDeductionSchedule = []deductionStep{
	{UpTo: 1625000, Rate: 0, Offset: 550000},
	{UpTo: 1800000, Rate: 0.4, Offset: -100000},
	{UpTo: 3600000, Rate: 0.3, Offset: 80000},
	{UpTo: 6600000, Rate: 0.2, Offset: 440000},
	{UpTo: 8500000, Rate: 0.1, Offset: 1100000},
}

// MaxSalaryDeduction is the flat deduction applied above the last schedule step.
const MaxSalaryDeduction int64 = 1950000

// SalaryDeduction returns the statutory salary income deduction for an annual
// income. It does not cap the result at the income itself; callers that need
// deduction <= income apply that clamp.
func SalaryDeduction(income int64) int64 {
	for _, step := range salaryDeductionSchedule {
		if income <= step.UpTo {
			if step.Rate == 0 {
				return int64(step.Offset)
			}
			// The conversion keeps the product rounded before the offset is added.
			return mathutil.FloorYen(float64(float64(income)*step.Rate) + step.Offset)
		}
	}
	return MaxSalaryDeduction
}
