// Package config defines the data structures related to configuration and
// includes functions for loading a simulation file and turning it into a
// simulation request.
package config

import (
	"errors"
	"fmt"
	"io"
	"reflect"
	"sort"
	"strings"
	"time"

	"github.com/iwvelando/life-planning/internal/simulation"
	"github.com/iwvelando/life-planning/pkg/constants"
	"github.com/iwvelando/life-planning/pkg/datetime"
	"github.com/iwvelando/life-planning/pkg/mathutil"
	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

// Configuration holds a simulation file: the person, the year range, the
// sparse yearly inputs and the runtime options.
type Configuration struct {
	BirthDate      string        `yaml:"birthDate"`
	StartYear      int           `yaml:"startYear"`
	EndYear        int           `yaml:"endYear"`
	Salaries       []SalaryEntry `yaml:"salaries,omitempty"`
	InsuranceRates []RateEntry   `yaml:"insuranceRates,omitempty"`
	Limits         LimitsConfig  `yaml:"limits,omitempty"`
	Logging        LoggingConfig `yaml:"logging,omitempty"`
	Output         OutputConfig  `yaml:"output,omitempty"`
}

// SalaryEntry is the annual income for one year.
type SalaryEntry struct {
	Year   int   `yaml:"year"`
	Income int64 `yaml:"income"`
}

// RateEntry is the social insurance rates for one year.
type RateEntry struct {
	Year    int     `yaml:"year"`
	Health  float64 `yaml:"health"`
	Care    float64 `yaml:"care"`
	Pension float64 `yaml:"pension"`
}

// LimitsConfig overrides the simulation limits.
type LimitsConfig struct {
	MaxAge  int `yaml:"maxAge,omitempty"`
	MinYear int `yaml:"minYear,omitempty"`
	MaxYear int `yaml:"maxYear,omitempty"`
}

// LoggingConfig holds logging configuration options
type LoggingConfig struct {
	Level      string `yaml:"level,omitempty"`      // debug, info, warn, error
	Format     string `yaml:"format,omitempty"`     // json, console
	OutputFile string `yaml:"outputFile,omitempty"` // optional file output
}

// OutputConfig holds output format configuration options
type OutputConfig struct {
	Format  string `yaml:"format,omitempty"` // pretty, csv, json, yaml
	Summary bool   `yaml:"summary,omitempty"`
}

// LoadConfiguration takes a file path as input and loads the YAML-formatted
// configuration there. Limits can be overridden from the environment, e.g.
// LIFEPLAN_LIMITS_MAXAGE=120.
func LoadConfiguration(configPath string) (*Configuration, error) {
	v := newViper()
	v.SetConfigFile(configPath)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file, %w", err)
	}

	return decode(v)
}

// LoadConfigurationFromReader loads a YAML-formatted configuration from r.
func LoadConfigurationFromReader(r io.Reader) (*Configuration, error) {
	v := newViper()

	if err := v.ReadConfig(r); err != nil {
		return nil, fmt.Errorf("error reading config data, %w", err)
	}

	return decode(v)
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yml")
	v.SetEnvPrefix(constants.EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("limits.maxAge", constants.DefaultMaxAge)
	v.SetDefault("limits.minYear", constants.DefaultMinYear)
	v.SetDefault("limits.maxYear", constants.DefaultMaxYear)
	v.SetDefault("output.format", constants.OutputFormatPretty)
	return v
}

func decode(v *viper.Viper) (*Configuration, error) {
	var configuration Configuration
	hook := viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		timestampToDateHook,
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
	))
	if err := v.Unmarshal(&configuration, hook); err != nil {
		return nil, fmt.Errorf("unable to decode into struct, %w", err)
	}
	return &configuration, nil
}

// timestampToDateHook turns an unquoted YAML date such as 1990-01-01, which the
// YAML decoder reads as a timestamp, back into text. A timestamp carrying a
// clock time keeps it, so date parsing still rejects it.
func timestampToDateHook(_, to reflect.Type, data interface{}) (interface{}, error) {
	ts, ok := data.(time.Time)
	if !ok || to.Kind() != reflect.String {
		return data, nil
	}
	if ts.Equal(time.Date(ts.Year(), ts.Month(), ts.Day(), 0, 0, 0, 0, ts.Location())) && ts.Location() == time.UTC {
		return ts.Format(constants.DateLayout), nil
	}
	return ts.Format(time.RFC3339Nano), nil
}

// SimulationLimits returns the configured limits with defaults filled in.
func (c *Configuration) SimulationLimits() simulation.Limits {
	return simulation.Limits{
		MaxAge:  c.Limits.MaxAge,
		MinYear: c.Limits.MinYear,
		MaxYear: c.Limits.MaxYear,
	}.Normalize()
}

// Request validates the input fields and converts them into a simulation
// request. Year ordering and the age limit are left to the engine.
func (c *Configuration) Request() (simulation.Request, error) {
	var req simulation.Request
	limits := c.SimulationLimits()

	if c.BirthDate == "" {
		return req, errors.New("birthDate is required")
	}
	birthDate, err := datetime.ParseDate(c.BirthDate)
	if err != nil {
		return req, fmt.Errorf("birthDate: %w", err)
	}

	if err := checkYear("startYear", c.StartYear, limits); err != nil {
		return req, err
	}
	if err := checkYear("endYear", c.EndYear, limits); err != nil {
		return req, err
	}

	salaries := make(map[int]int64, len(c.Salaries))
	for i, s := range c.Salaries {
		if err := checkYear(fmt.Sprintf("salaries[%d].year", i), s.Year, limits); err != nil {
			return req, err
		}
		if s.Income < 0 {
			return req, fmt.Errorf("salaries[%d].income must not be negative, got %d", i, s.Income)
		}
		salaries[s.Year] = s.Income
	}

	rates := make(map[int]simulation.Rates, len(c.InsuranceRates))
	for i, r := range c.InsuranceRates {
		if err := checkYear(fmt.Sprintf("insuranceRates[%d].year", i), r.Year, limits); err != nil {
			return req, err
		}
		fields := []struct {
			name string
			rate float64
		}{{"health", r.Health}, {"care", r.Care}, {"pension", r.Pension}}
		for _, f := range fields {
			if !mathutil.InUnitInterval(f.rate) {
				return req, fmt.Errorf("insuranceRates[%d].%s must be between 0 and 1, got %v", i, f.name, f.rate)
			}
		}
		rates[r.Year] = simulation.Rates{Health: r.Health, Care: r.Care, Pension: r.Pension}
	}

	req = simulation.Request{
		BirthDate: birthDate,
		StartYear: c.StartYear,
		EndYear:   c.EndYear,
		Salaries:  salaries,
		Rates:     rates,
	}
	return req, nil
}

func checkYear(field string, year int, limits simulation.Limits) error {
	if !limits.ContainsYear(year) {
		return fmt.Errorf("%s must be between %d and %d, got %d", field, limits.MinYear, limits.MaxYear, year)
	}
	return nil
}

// ValidateConfiguration performs general validation of the configuration and
// returns warnings for entries that are accepted but probably unintended.
func (c *Configuration) ValidateConfiguration() []string {
	var warnings []string

	salaryYears := make([]int, 0, len(c.Salaries))
	for _, s := range c.Salaries {
		salaryYears = append(salaryYears, s.Year)
	}
	warnings = append(warnings, c.yearWarnings("salary", salaryYears)...)

	rateYears := make([]int, 0, len(c.InsuranceRates))
	for _, r := range c.InsuranceRates {
		rateYears = append(rateYears, r.Year)
	}
	warnings = append(warnings, c.yearWarnings("insurance rate", rateYears)...)

	if len(c.Salaries) == 0 {
		warnings = append(warnings, "no salaries configured; every year will have zero income")
	}
	if len(c.InsuranceRates) == 0 {
		warnings = append(warnings, "no insurance rates configured; every premium will be zero")
	}

	return warnings
}

func (c *Configuration) yearWarnings(kind string, years []int) []string {
	var warnings []string
	counts := make(map[int]int, len(years))
	for _, year := range years {
		counts[year]++
		if c.StartYear <= c.EndYear && year > c.EndYear {
			warnings = append(warnings, fmt.Sprintf("%s entry for %d is after the end year %d and will be ignored", kind, year, c.EndYear))
		}
		if year < c.StartYear {
			warnings = append(warnings, fmt.Sprintf("%s entry for %d is before the start year %d and will be ignored", kind, year, c.StartYear))
		}
	}

	duplicated := make([]int, 0)
	for year, n := range counts {
		if n > 1 {
			duplicated = append(duplicated, year)
		}
	}
	sort.Ints(duplicated)
	for _, year := range duplicated {
		warnings = append(warnings, fmt.Sprintf("%s entry for %d appears %d times; the last one wins", kind, year, counts[year]))
	}
	return warnings
}
