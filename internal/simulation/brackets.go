package simulation

import (
	"math"
	"slices"
)

// Unbounded marks the open upper end of the last bracket in a table.
const Unbounded int64 = math.MaxInt64

// Bracket is one grade of a standard monthly salary table. A monthly salary
// falls in the bracket when Min <= salary < Max.
type Bracket struct {
	Grade          int
	Min            int64
	Max            int64
	StandardAmount int64
}

// StandardSalary is the grade and standard monthly amount resolved for a salary.
type StandardSalary struct {
	Grade          int   `json:"grade" yaml:"grade"`
	StandardAmount int64 `json:"standardAmount" yaml:"standardAmount"`
}

var healthInsuranceBrackets = []Bracket{
	{1, 0, 63000, 58000},
	{2, 63000, 73000, 68000},
	{3, 73000, 83000, 78000},
	{4, 83000, 93000, 88000},
	{5, 93000, 101000, 98000},
	{6, 101000, 107000, 104000},
	{7, 107000, 114000, 110000},
	{8, 114000, 122000, 118000},
	{9, 122000, 130000, 126000},
	{10, 130000, 138000, 134000},
	{11, 138000, 146000, 142000},
	{12, 146000, 155000, 150000},
	{13, 155000, 165000, 160000},
	{14, 165000, 175000, 170000},
	{15, 175000, 185000, 180000},
	{16, 185000, 195000, 190000},
	{17, 195000, 210000, 200000},
	{18, 210000, 230000, 220000},
	{19, 230000, 250000, 240000},
	{20, 250000, 270000, 260000},
	{21, 270000, 290000, 280000},
	{22, 290000, 310000, 300000},
	{23, 310000, 330000, 320000},
	{24, 330000, 350000, 340000},
	{25, 350000, 370000, 360000},
	{26, 370000, 395000, 380000},
	{27, 395000, 425000, 410000},
	{28, 425000, 455000, 440000},
	{29, 455000, 485000, 470000},
	{30, 485000, 515000, 500000},
	{31, 515000, 545000, 530000},
	{32, 545000, 575000, 560000},
	{33, 575000, 605000, 590000},
	{34, 605000, 635000, 620000},
	{35, 635000, 665000, 650000},
	{36, 665000, 695000, 680000},
	{37, 695000, 730000, 710000},
	{38, 730000, 770000, 750000},
	{39, 770000, 810000, 790000},
	{40, 810000, 855000, 830000},
	{41, 855000, 905000, 880000},
	{42, 905000, 955000, 930000},
	{43, 955000, 1005000, 980000},
	{44, 1005000, 1055000, 1030000},
	{45, 1055000, 1115000, 1090000},
	{46, 1115000, 1175000, 1150000},
	{47, 1175000, 1235000, 1210000},
	{48, 1235000, 1295000, 1270000},
	{49, 1295000, 1355000, 1330000},
	{50, 1355000, Unbounded, 1390000},
}

// Pension grades reuse the health insurance numbering, so the table starts at
// grade 4. Its first row covers every salary below 93,000.
var pensionBrackets = []Bracket{
	{4, 0, 93000, 88000},
	{5, 93000, 101000, 98000},
	{6, 101000, 107000, 104000},
	{7, 107000, 114000, 110000},
	{8, 114000, 122000, 118000},
	{9, 122000, 130000, 126000},
	{10, 130000, 138000, 134000},
	{11, 138000, 146000, 142000},
	{12, 146000, 155000, 150000},
	{13, 155000, 165000, 160000},
	{14, 165000, 175000, 170000},
	{15, 175000, 185000, 180000},
	{16, 185000, 195000, 190000},
	{17, 195000, 210000, 200000},
	{18, 210000, 230000, 220000},
	{19, 230000, 250000, 240000},
	{20, 250000, 270000, 260000},
	{21, 270000, 290000, 280000},
	{22, 290000, 310000, 300000},
	{23, 310000, 330000, 320000},
	{24, 330000, 350000, 340000},
	{25, 350000, 370000, 360000},
	{26, 370000, 395000, 380000},
	{27, 395000, 425000, 410000},
	{28, 425000, 455000, 440000},
	{29, 455000, 485000, 470000},
	{30, 485000, 515000, 500000},
	{31, 515000, 545000, 530000},
	{32, 545000, 575000, 560000},
	{33, 575000, 605000, 590000},
	{34, 605000, 635000, 620000},
	{35, 635000, Unbounded, 650000},
}

// HealthInsuranceBrackets returns a copy of the 50-grade health insurance table.
func HealthInsuranceBrackets() []Bracket {
	return slices.Clone(healthInsuranceBrackets)
}

// PensionBrackets returns a copy of the pension table (grades 4 through 35).
func PensionBrackets() []Bracket {
	return slices.Clone(pensionBrackets)
}

// Resolve finds the bracket containing monthlySalary. Salaries below the first
// bracket, negative ones included, resolve to the first grade; salaries that
// match no bracket resolve to the last grade.
func Resolve(table []Bracket, monthlySalary float64) StandardSalary {
	if len(table) == 0 {
		return StandardSalary{}
	}

	first := table[0]
	if monthlySalary < float64(first.Min) {
		return first.standardSalary()
	}

	for _, b := range table {
		if monthlySalary >= float64(b.Min) && monthlySalary < float64(b.Max) {
			return b.standardSalary()
		}
	}

	return table[len(table)-1].standardSalary()
}

// ResolveHealthInsurance resolves a monthly salary against the health insurance table.
func ResolveHealthInsurance(monthlySalary float64) StandardSalary {
	return Resolve(healthInsuranceBrackets, monthlySalary)
}

// ResolvePension resolves a monthly salary against the pension table.
func ResolvePension(monthlySalary float64) StandardSalary {
	return Resolve(pensionBrackets, monthlySalary)
}

func (b Bracket) standardSalary() StandardSalary {
	return StandardSalary{Grade: b.Grade, StandardAmount: b.StandardAmount}
}
