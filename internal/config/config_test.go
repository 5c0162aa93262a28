package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/iwvelando/life-planning/internal/simulation"
)

func TestLoadConfiguration(t *testing.T) {
	tests := []struct {
		name       string
		configPath string
		wantError  bool
	}{
		{
			name:       "Non-existent config file",
			configPath: "nonexistent.yaml",
			wantError:  true,
		},
		{
			name:       "Example simulation file",
			configPath: filepath.Join("testdata", "simulation.yaml"),
			wantError:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config, err := LoadConfiguration(tt.configPath)
			if tt.wantError {
				if err == nil {
					t.Errorf("LoadConfiguration() expected error but got none")
				}
				return
			}
			if err != nil {
				t.Errorf("LoadConfiguration() error = %v", err)
				return
			}
			if config == nil {
				t.Errorf("LoadConfiguration() returned nil config")
			}
		})
	}
}

func TestLoadConfigurationStructure(t *testing.T) {
	config, err := LoadConfiguration(filepath.Join("testdata", "simulation.yaml"))
	if err != nil {
		t.Fatalf("LoadConfiguration() error = %v", err)
	}

	if config.BirthDate != "1981-04-01" {
		t.Errorf("Expected BirthDate = 1981-04-01, got %v", config.BirthDate)
	}
	if config.StartYear != 2020 || config.EndYear != 2025 {
		t.Errorf("Expected range 2020-2025, got %d-%d", config.StartYear, config.EndYear)
	}
	if len(config.Salaries) != 2 {
		t.Fatalf("Expected 2 salaries, got %d", len(config.Salaries))
	}
	if config.Salaries[1].Year != 2022 || config.Salaries[1].Income != 3120000 {
		t.Errorf("Unexpected second salary entry: %+v", config.Salaries[1])
	}
	if len(config.InsuranceRates) != 1 {
		t.Fatalf("Expected 1 insurance rate entry, got %d", len(config.InsuranceRates))
	}
	if config.InsuranceRates[0].Care != 0.0164 {
		t.Errorf("Expected care rate 0.0164, got %v", config.InsuranceRates[0].Care)
	}
	if config.Logging.Level != "debug" || config.Logging.Format != "console" {
		t.Errorf("Unexpected logging config: %+v", config.Logging)
	}
	if config.Output.Format != "csv" || !config.Output.Summary {
		t.Errorf("Unexpected output config: %+v", config.Output)
	}
	if got := config.SimulationLimits(); got != simulation.DefaultLimits() {
		t.Errorf("Expected default limits, got %+v", got)
	}
}

func TestLoadConfigurationFromReaderDefaults(t *testing.T) {
	config, err := LoadConfigurationFromReader(strings.NewReader(`birthDate: "1990-01-01"
startYear: 2020
endYear: 2020
`))
	if err != nil {
		t.Fatalf("LoadConfigurationFromReader() error = %v", err)
	}

	if config.Output.Format != "pretty" {
		t.Errorf("Expected default output format pretty, got %q", config.Output.Format)
	}
	if config.Limits.MaxAge != 150 || config.Limits.MinYear != 1900 || config.Limits.MaxYear != 2100 {
		t.Errorf("Expected default limits, got %+v", config.Limits)
	}
	if len(config.Salaries) != 0 {
		t.Errorf("Expected no salaries, got %d", len(config.Salaries))
	}
}

func TestLoadConfigurationLimitsOverride(t *testing.T) {
	config, err := LoadConfigurationFromReader(strings.NewReader(`birthDate: "1990-01-01"
startYear: 2020
endYear: 2020
limits:
  maxAge: 120
  minYear: 1950
`))
	if err != nil {
		t.Fatalf("LoadConfigurationFromReader() error = %v", err)
	}

	limits := config.SimulationLimits()
	if limits.MaxAge != 120 || limits.MinYear != 1950 || limits.MaxYear != 2100 {
		t.Errorf("Unexpected limits: %+v", limits)
	}
}

func TestLoadConfigurationEnvOverride(t *testing.T) {
	t.Setenv("LIFEPLAN_LIMITS_MAXAGE", "99")

	config, err := LoadConfigurationFromReader(strings.NewReader(`birthDate: "1990-01-01"
startYear: 2020
endYear: 2020
`))
	if err != nil {
		t.Fatalf("LoadConfigurationFromReader() error = %v", err)
	}

	if config.Limits.MaxAge != 99 {
		t.Errorf("Expected max age from environment, got %d", config.Limits.MaxAge)
	}
}

func TestLoadConfigurationInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.yaml")
	if err := os.WriteFile(path, []byte("birthDate: [unterminated"), 0600); err != nil {
		t.Fatalf("failed to write temp config: %v", err)
	}

	if _, err := LoadConfiguration(path); err == nil {
		t.Fatal("Expected error for invalid YAML")
	}
}

func TestLoadConfigurationUnquotedBirthDate(t *testing.T) {
	tests := []struct {
		name      string
		birthDate string
		want      string
		wantError bool
	}{
		{name: "Plain date", birthDate: "1990-01-01", want: "1990-01-01"},
		{name: "Quoted date", birthDate: `"1990-01-01"`, want: "1990-01-01"},
		{name: "Timestamp with clock time", birthDate: "1990-01-01T09:30:00Z", wantError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config, err := LoadConfigurationFromReader(strings.NewReader("birthDate: " + tt.birthDate + "\nstartYear: 2020\nendYear: 2021\n"))
			if err != nil {
				t.Fatalf("LoadConfigurationFromReader() error = %v", err)
			}

			req, err := config.Request()
			if tt.wantError {
				if err == nil {
					t.Errorf("Request() expected error for birthDate %q (%q)", tt.birthDate, config.BirthDate)
				}
				return
			}
			if err != nil {
				t.Fatalf("Request() error = %v", err)
			}
			if config.BirthDate != tt.want {
				t.Errorf("Expected BirthDate = %s, got %s", tt.want, config.BirthDate)
			}
			if req.BirthDate.Year() != 1990 || req.BirthDate.YearDay() != 1 {
				t.Errorf("Unexpected parsed birth date %v", req.BirthDate)
			}
		})
	}
}

func TestRequest(t *testing.T) {
	config, err := LoadConfiguration(filepath.Join("testdata", "simulation.yaml"))
	if err != nil {
		t.Fatalf("LoadConfiguration() error = %v", err)
	}

	req, err := config.Request()
	if err != nil {
		t.Fatalf("Request() error = %v", err)
	}

	if req.BirthDate.Year() != 1981 || req.BirthDate.Month() != 4 || req.BirthDate.Day() != 1 {
		t.Errorf("Unexpected birth date %v", req.BirthDate)
	}
	if req.StartYear != 2020 || req.EndYear != 2025 {
		t.Errorf("Unexpected range %d-%d", req.StartYear, req.EndYear)
	}
	if req.Salaries[2020] != 3000000 || req.Salaries[2022] != 3120000 || len(req.Salaries) != 2 {
		t.Errorf("Unexpected salaries %v", req.Salaries)
	}
	want := simulation.Rates{Health: 0.0981, Care: 0.0164, Pension: 0.183}
	if req.Rates[2021] != want || len(req.Rates) != 1 {
		t.Errorf("Unexpected rates %v", req.Rates)
	}

	records, err := simulation.Simulate(req)
	if err != nil {
		t.Fatalf("Simulate() error = %v", err)
	}
	if len(records) != 6 {
		t.Errorf("Expected 6 records, got %d", len(records))
	}
}

func TestRequestErrors(t *testing.T) {
	valid := func() Configuration {
		return Configuration{
			BirthDate: "1990-01-01",
			StartYear: 2020,
			EndYear:   2025,
			Salaries:  []SalaryEntry{{Year: 2020, Income: 5000000}},
			InsuranceRates: []RateEntry{
				{Year: 2020, Health: 0.0981, Care: 0.0164, Pension: 0.183},
			},
		}
	}

	tests := []struct {
		name        string
		mutate      func(c *Configuration)
		errContains string
	}{
		{"Missing birth date", func(c *Configuration) { c.BirthDate = "" }, "birthDate is required"},
		{"Malformed birth date", func(c *Configuration) { c.BirthDate = "1990/01/01" }, "birthDate"},
		{"Start year too small", func(c *Configuration) { c.StartYear = 1899 }, "startYear must be between 1900 and 2100"},
		{"End year too big", func(c *Configuration) { c.EndYear = 2101 }, "endYear must be between 1900 and 2100"},
		{"Salary year out of range", func(c *Configuration) { c.Salaries[0].Year = 1800 }, "salaries[0].year"},
		{"Negative income", func(c *Configuration) { c.Salaries[0].Income = -1 }, "salaries[0].income must not be negative"},
		{"Rate year out of range", func(c *Configuration) { c.InsuranceRates[0].Year = 2200 }, "insuranceRates[0].year"},
		{"Health rate above one", func(c *Configuration) { c.InsuranceRates[0].Health = 1.5 }, "insuranceRates[0].health"},
		{"Negative care rate", func(c *Configuration) { c.InsuranceRates[0].Care = -0.1 }, "insuranceRates[0].care"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid()
			tt.mutate(&c)
			_, err := c.Request()
			if err == nil {
				t.Fatalf("Request() expected error containing %q", tt.errContains)
			}
			if !strings.Contains(err.Error(), tt.errContains) {
				t.Errorf("Request() error = %v, expected to contain %q", err, tt.errContains)
			}
		})
	}

	c := valid()
	if _, err := c.Request(); err != nil {
		t.Errorf("Request() on valid config error = %v", err)
	}
}

func TestRequestDuplicateYearLastWins(t *testing.T) {
	c := Configuration{
		BirthDate: "1990-01-01",
		StartYear: 2020,
		EndYear:   2020,
		Salaries: []SalaryEntry{
			{Year: 2020, Income: 1000000},
			{Year: 2020, Income: 2000000},
		},
	}

	req, err := c.Request()
	if err != nil {
		t.Fatalf("Request() error = %v", err)
	}
	if req.Salaries[2020] != 2000000 {
		t.Errorf("Expected the last entry to win, got %d", req.Salaries[2020])
	}
}

func TestValidateConfiguration(t *testing.T) {
	c := Configuration{
		BirthDate: "1990-01-01",
		StartYear: 2020,
		EndYear:   2025,
		Salaries: []SalaryEntry{
			{Year: 2019, Income: 1000000},
			{Year: 2021, Income: 2000000},
			{Year: 2021, Income: 2100000},
			{Year: 2030, Income: 3000000},
		},
	}

	warnings := c.ValidateConfiguration()

	expected := []string{
		"salary entry for 2019 is before the start year 2020",
		"salary entry for 2030 is after the end year 2025",
		"salary entry for 2021 appears 2 times",
		"no insurance rates configured",
	}
	for _, want := range expected {
		found := false
		for _, w := range warnings {
			if strings.Contains(w, want) {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("Expected warning containing %q, got %v", want, warnings)
		}
	}
	if len(warnings) != len(expected) {
		t.Errorf("Expected %d warnings, got %d: %v", len(expected), len(warnings), warnings)
	}
}

func TestValidateConfigurationClean(t *testing.T) {
	config, err := LoadConfiguration(filepath.Join("testdata", "simulation.yaml"))
	if err != nil {
		t.Fatalf("LoadConfiguration() error = %v", err)
	}

	if warnings := config.ValidateConfiguration(); len(warnings) != 0 {
		t.Errorf("Expected no warnings, got %v", warnings)
	}
}
