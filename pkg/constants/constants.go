// Package constants provides shared constants for the life-planning application.
package constants

// DateLayout is the format expected for birth dates in requests and config files.
const DateLayout = "2006-01-02"

// Calendar and premium constants
const (
	// MonthsPerYear is the number of months in a year
	MonthsPerYear = 12

	// EmployeeShareDivisor splits a premium between employer and employee
	EmployeeShareDivisor = 2

	// CareInsuranceMinAge is the age from which long-term care premiums are charged
	CareInsuranceMinAge = 40
)

// Simulation limits
const (
	// DefaultMaxAge is the highest age a simulation may reach in its final year
	DefaultMaxAge = 150

	// DefaultMinYear is the earliest calendar year accepted in a request
	DefaultMinYear = 1900

	// DefaultMaxYear is the latest calendar year accepted in a request
	DefaultMaxYear = 2100
)

// Output format constants
const (
	// OutputFormatPretty is the human-readable output format
	OutputFormatPretty = "pretty"

	// OutputFormatCSV is the CSV output format
	OutputFormatCSV = "csv"

	// OutputFormatJSON is the JSON output format
	OutputFormatJSON = "json"

	// OutputFormatYAML is the YAML output format
	OutputFormatYAML = "yaml"
)

// Configuration file constants
const (
	// DefaultConfigFile is the default simulation file name
	DefaultConfigFile = "simulation.yaml"

	// DefaultServerConfigFile is the default server configuration file name
	DefaultServerConfigFile = "server-config.yaml"

	// EnvPrefix is the prefix for environment variable overrides
	EnvPrefix = "LIFEPLAN"
)

// Server configuration defaults
const (
	// DefaultServerAddress is the default HTTP listen address for the API
	DefaultServerAddress = ":8080"

	// DefaultMaxUploadSizeBytes is the default maximum request body size (64 KB)
	DefaultMaxUploadSizeBytes int64 = 64 * 1024

	// SimulationPath is the route of the simulation endpoint
	SimulationPath = "/api/v1/life-planning/simulation"
)
