package simulation

// leadingGap selects what happens to years before the first known value.
type leadingGap int

const (
	// leaveAbsent keeps leading years out of the series.
	leaveAbsent leadingGap = iota
	// writeZero stores the zero value for leading years.
	writeZero
)

// carryForward walks startYear..endYear and copies the most recent known value
// into every year that has none.
func carryForward[V any](series map[int]V, startYear, endYear int, gap leadingGap) {
	var last V
	seen := false
	for year := startYear; year <= endYear; year++ {
		if v, ok := series[year]; ok {
			last = v
			seen = true
			continue
		}
		if seen {
			series[year] = last
			continue
		}
		if gap == writeZero {
			var zero V
			series[year] = zero
		}
	}
}

// FillSalaries fills missing years in salaries with the previous year's income.
// Years before the first supplied income stay absent and are read as zero by
// the engine. A nil map is allocated.
func FillSalaries(salaries map[int]int64, startYear, endYear int) map[int]int64 {
	if salaries == nil {
		salaries = make(map[int]int64)
	}
	carryForward(salaries, startYear, endYear, leaveAbsent)
	return salaries
}

// FillRates fills missing years in rates with the previous year's rates. Years
// before the first supplied entry receive explicit zero rates, so every year
// in range is present afterwards. A nil map is allocated.
func FillRates(rates map[int]Rates, startYear, endYear int) map[int]Rates {
	if rates == nil {
		rates = make(map[int]Rates)
	}
	carryForward(rates, startYear, endYear, writeZero)
	return rates
}
