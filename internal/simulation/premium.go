package simulation

import (
	"github.com/iwvelando/life-planning/pkg/constants"
	"github.com/iwvelando/life-planning/pkg/mathutil"
)

// Rates holds the social insurance premium rates for one year. Each rate is the
// combined employer and employee fraction of the standard monthly amount.
type Rates struct {
	Health  float64 `json:"health" yaml:"health"`
	Care    float64 `json:"care" yaml:"care"`
	Pension float64 `json:"pension" yaml:"pension"`
}

// Premiums are the employee-side monthly premiums in yen.
type Premiums struct {
	Health       int64 `json:"health" yaml:"health"`
	Care         int64 `json:"care" yaml:"care"`
	Pension      int64 `json:"pension" yaml:"pension"`
	TotalMonthly int64 `json:"totalMonthly" yaml:"totalMonthly"`
}

// CalculatePremiums computes the employee half of the health, long-term care
// and pension premiums. Care premiums apply from age 40. Negative standard
// amounts are not rejected; they floor toward negative infinity like any other
// amount.
func CalculatePremiums(healthStandard, pensionStandard int64, rates Rates, age int) Premiums {
	p := Premiums{
		Health:  employeeShare(healthStandard, rates.Health),
		Pension: employeeShare(pensionStandard, rates.Pension),
	}
	if age >= constants.CareInsuranceMinAge {
		p.Care = employeeShare(healthStandard, rates.Care)
	}
	p.TotalMonthly = p.Health + p.Care + p.Pension
	return p
}

func employeeShare(standardAmount int64, rate float64) int64 {
	return mathutil.FloorYen(float64(standardAmount) * rate / constants.EmployeeShareDivisor)
}
