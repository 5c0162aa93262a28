// Package output provides utilities for formatting and displaying simulation results.
package output

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/iwvelando/life-planning/internal/simulation"
	"github.com/iwvelando/life-planning/pkg/constants"
	"github.com/iwvelando/life-planning/pkg/format"
	"gopkg.in/yaml.v3"
)

// Document is the machine-readable form of a simulation result.
type Document struct {
	Years   []simulation.YearRecord `json:"years" yaml:"years"`
	Summary *SummaryDocument        `json:"summary,omitempty" yaml:"summary,omitempty"`
}

// SummaryDocument carries summary amounts as exact numbers.
type SummaryDocument struct {
	Years          int    `json:"years" yaml:"years"`
	TotalIncome    Number `json:"totalIncome" yaml:"totalIncome"`
	TotalDeduction Number `json:"totalDeduction" yaml:"totalDeduction"`
	TotalPremium   Number `json:"totalPremium" yaml:"totalPremium"`
	BurdenPercent  Number `json:"burdenPercent" yaml:"burdenPercent"`
}

// Number is a decimal literal written unquoted in both JSON and YAML.
type Number string

// MarshalJSON writes n as a JSON number.
func (n Number) MarshalJSON() ([]byte, error) {
	if n == "" {
		return []byte("0"), nil
	}
	if !json.Valid([]byte(n)) {
		return nil, fmt.Errorf("invalid number literal %q", string(n))
	}
	return []byte(n), nil
}

// UnmarshalJSON accepts a JSON number literal.
func (n *Number) UnmarshalJSON(data []byte) error {
	var num json.Number
	if err := json.Unmarshal(data, &num); err != nil {
		return err
	}
	*n = Number(num)
	return nil
}

// MarshalYAML writes n as an !!int or !!float scalar.
func (n Number) MarshalYAML() (interface{}, error) {
	value := string(n)
	if value == "" {
		value = "0"
	}
	tag := "!!int"
	if strings.ContainsAny(value, ".eE") {
		tag = "!!float"
	}
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: tag, Value: value}, nil
}

// csvHeader names the CSV columns in record field order.
var csvHeader = []string{
	"year", "age", "income", "deduction", "incomeAfterDeduction", "healthGrade",
	"standardMonthlyAmount", "healthPremium", "carePremium", "pensionPremium",
	"totalMonthlyPremium", "totalAnnualPremium",
}

// NewDocument builds the machine-readable document. summary may be nil.
func NewDocument(records []simulation.YearRecord, summary *simulation.Summary) Document {
	doc := Document{Years: records}
	if doc.Years == nil {
		doc.Years = []simulation.YearRecord{}
	}
	if summary != nil {
		doc.Summary = &SummaryDocument{
			Years:          summary.Years,
			TotalIncome:    Number(summary.TotalIncome.String()),
			TotalDeduction: Number(summary.TotalDeduction.String()),
			TotalPremium:   Number(summary.TotalPremium.String()),
			BurdenPercent:  Number(summary.BurdenPercent.StringFixed(2)),
		}
	}
	return doc
}

// Write renders records to w in the named format. summary may be nil; CSV
// output never includes it.
func Write(w io.Writer, outputFormat string, records []simulation.YearRecord, summary *simulation.Summary) error {
	switch outputFormat {
	case constants.OutputFormatPretty:
		return PrettyFormat(w, records, summary)
	case constants.OutputFormatCSV:
		return CsvFormat(w, records)
	case constants.OutputFormatJSON:
		return JSONFormat(w, NewDocument(records, summary))
	case constants.OutputFormatYAML:
		return YAMLFormat(w, NewDocument(records, summary))
	default:
		return fmt.Errorf("unsupported output format %q", outputFormat)
	}
}

// PrettyFormat outputs a human-readable rather than machine-readable table.
func PrettyFormat(w io.Writer, records []simulation.YearRecord, summary *simulation.Summary) error {
	ew := &errWriter{w: w}
	if len(records) > 0 {
		ew.printf("--- Life plan %d-%d ---\n", records[0].Year, records[len(records)-1].Year)
	}
	ew.printf("Year | Age | Income | Deduction | After Deduction | Grade | Standard Monthly | Health | Care | Pension | Monthly Premium | Annual Premium\n")
	ew.printf("____ | ___ | ______ | _________ | _______________ | _____ | ________________ | ______ | ____ | _______ | _______________ | ______________\n")
	for _, r := range records {
		ew.printf("%s | %s | %s | %s | %s | %s | %s | %s | %s | %s | %s | %s\n",
			strconv.Itoa(r.Year),
			strconv.Itoa(r.Age),
			format.Yen(r.Income),
			format.Yen(r.Deduction),
			format.Yen(r.IncomeAfterDeduction),
			strconv.Itoa(r.HealthGrade),
			format.Yen(r.StandardMonthlyAmount),
			format.Yen(r.HealthPremium),
			format.Yen(r.CarePremium),
			format.Yen(r.PensionPremium),
			format.Yen(r.TotalMonthlyPremium),
			format.Yen(r.TotalAnnualPremium),
		)
	}

	if summary != nil {
		ew.printf("\n--- Summary ---\n")
		ew.printf("Years: %d\n", summary.Years)
		ew.printf("Total income: %s\n", format.Yen(summary.TotalIncome.IntPart()))
		ew.printf("Total deduction: %s\n", format.Yen(summary.TotalDeduction.IntPart()))
		ew.printf("Total premium: %s\n", format.Yen(summary.TotalPremium.IntPart()))
		ew.printf("Premium burden: %s%%\n", summary.BurdenPercent.StringFixed(2))
	}
	return ew.err
}

// CsvFormat outputs in comma-separated value format.
func CsvFormat(w io.Writer, records []simulation.YearRecord) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, r := range records {
		row := []string{
			strconv.Itoa(r.Year),
			strconv.Itoa(r.Age),
			strconv.FormatInt(r.Income, 10),
			strconv.FormatInt(r.Deduction, 10),
			strconv.FormatInt(r.IncomeAfterDeduction, 10),
			strconv.Itoa(r.HealthGrade),
			strconv.FormatInt(r.StandardMonthlyAmount, 10),
			strconv.FormatInt(r.HealthPremium, 10),
			strconv.FormatInt(r.CarePremium, 10),
			strconv.FormatInt(r.PensionPremium, 10),
			strconv.FormatInt(r.TotalMonthlyPremium, 10),
			strconv.FormatInt(r.TotalAnnualPremium, 10),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// JSONFormat outputs an indented JSON document.
func JSONFormat(w io.Writer, doc Document) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}

// YAMLFormat outputs a YAML document.
func YAMLFormat(w io.Writer, doc Document) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return err
	}
	return enc.Close()
}

// errWriter keeps the first write error so table rendering stays linear.
type errWriter struct {
	w   io.Writer
	err error
}

func (ew *errWriter) printf(layout string, args ...interface{}) {
	if ew.err != nil {
		return
	}
	_, ew.err = fmt.Fprintf(ew.w, layout, args...)
}
