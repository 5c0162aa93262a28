// Package simulation computes the year-by-year life-planning table: age on
// January 1, salary income deduction, standard monthly salary grades and the
// employee-side social insurance premiums.
package simulation

import (
	"maps"
	"time"

	"github.com/iwvelando/life-planning/pkg/constants"
	"github.com/iwvelando/life-planning/pkg/datetime"
	"github.com/iwvelando/life-planning/pkg/mathutil"
	"go.uber.org/zap"
)

// Request is a validated simulation input. Salaries and Rates are sparse;
// missing years are carried forward from the previous known year.
type Request struct {
	BirthDate time.Time
	StartYear int
	EndYear   int
	Salaries  map[int]int64
	Rates     map[int]Rates
}

// YearRecord is the computed result for one calendar year. Premium amounts are
// monthly unless stated otherwise.
type YearRecord struct {
	Year                  int   `json:"year" yaml:"year"`
	Age                   int   `json:"age" yaml:"age"`
	Income                int64 `json:"income" yaml:"income"`
	Deduction             int64 `json:"deduction" yaml:"deduction"`
	IncomeAfterDeduction  int64 `json:"incomeAfterDeduction" yaml:"incomeAfterDeduction"`
	HealthGrade           int   `json:"healthGrade" yaml:"healthGrade"`
	StandardMonthlyAmount int64 `json:"standardMonthlyAmount" yaml:"standardMonthlyAmount"`
	HealthPremium         int64 `json:"healthPremium" yaml:"healthPremium"`
	CarePremium           int64 `json:"carePremium" yaml:"carePremium"`
	PensionPremium        int64 `json:"pensionPremium" yaml:"pensionPremium"`
	TotalMonthlyPremium   int64 `json:"totalMonthlyPremium" yaml:"totalMonthlyPremium"`
	TotalAnnualPremium    int64 `json:"totalAnnualPremium" yaml:"totalAnnualPremium"`
}

// Engine runs simulations. It holds no per-request state and is safe for
// concurrent use.
type Engine struct {
	logger *zap.Logger
	limits Limits
}

// NewEngine creates a new engine with the given logger and limits.
// If logger is nil, it will use a no-op logger to prevent panics.
func NewEngine(logger *zap.Logger, limits Limits) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{logger: logger, limits: limits.Normalize()}
}

// Simulate runs a request with the default limits and no logging.
func Simulate(req Request) ([]YearRecord, error) {
	return NewEngine(nil, DefaultLimits()).Simulate(req)
}

// Limits returns the limits the engine enforces.
func (e *Engine) Limits() Limits {
	return e.limits
}

// Validate checks the rules the engine owns. The age check uses calendar
// years only, so a person born in December still counts the full difference.
func (e *Engine) Validate(req Request) error {
	if req.StartYear > req.EndYear {
		return &ValidationError{Rule: ErrStartAfterEnd, StartYear: req.StartYear, EndYear: req.EndYear}
	}

	maxAge := req.EndYear - req.BirthDate.Year()
	if maxAge > e.limits.MaxAge {
		return &ValidationError{
			Rule:      ErrMaxAgeExceeded,
			StartYear: req.StartYear,
			EndYear:   req.EndYear,
			Age:       maxAge,
			Limit:     e.limits.MaxAge,
		}
	}
	return nil
}

// Simulate produces one record per year from StartYear to EndYear inclusive.
// Nothing is computed when validation fails. The request maps are not modified.
func (e *Engine) Simulate(req Request) ([]YearRecord, error) {
	if err := e.Validate(req); err != nil {
		e.logger.Debug("simulation rejected",
			zap.String("op", "simulation.Simulate"),
			zap.Error(err),
		)
		return nil, err
	}

	salaries := FillSalaries(maps.Clone(req.Salaries), req.StartYear, req.EndYear)
	rates := FillRates(maps.Clone(req.Rates), req.StartYear, req.EndYear)

	records := make([]YearRecord, 0, req.EndYear-req.StartYear+1)
	for year := req.StartYear; year <= req.EndYear; year++ {
		records = append(records, buildRecord(year, AgeOnJanuaryFirst(req.BirthDate, year), salaries[year], rates[year]))
	}

	e.logger.Debug("simulation computed",
		zap.String("op", "simulation.Simulate"),
		zap.Int("startYear", req.StartYear),
		zap.Int("endYear", req.EndYear),
		zap.Int("records", len(records)),
	)
	return records, nil
}

func buildRecord(year, age int, income int64, rates Rates) YearRecord {
	deduction := mathutil.MinInt64(SalaryDeduction(income), income)

	monthlySalary := float64(income) / constants.MonthsPerYear
	health := ResolveHealthInsurance(monthlySalary)
	pension := ResolvePension(monthlySalary)
	premiums := CalculatePremiums(health.StandardAmount, pension.StandardAmount, rates, age)

	return YearRecord{
		Year:                  year,
		Age:                   age,
		Income:                income,
		Deduction:             deduction,
		IncomeAfterDeduction:  income - deduction,
		HealthGrade:           health.Grade,
		StandardMonthlyAmount: health.StandardAmount,
		HealthPremium:         premiums.Health,
		CarePremium:           premiums.Care,
		PensionPremium:        premiums.Pension,
		TotalMonthlyPremium:   premiums.TotalMonthly,
		TotalAnnualPremium:    premiums.TotalMonthly * constants.MonthsPerYear,
	}
}

// AgeOnJanuaryFirst returns the completed age on January 1 of year. Anyone
// whose birthday is not January 1 has not yet had that year's birthday.
func AgeOnJanuaryFirst(birthDate time.Time, year int) int {
	age := year - birthDate.Year()
	if datetime.JanuaryFirst(year).Before(datetime.Anniversary(birthDate, year)) {
		age--
	}
	return age
}
