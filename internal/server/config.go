package server

import (
	"errors"
	"fmt"
	"io/fs"
	"strconv"
	"strings"
	"time"

	"github.com/iwvelando/life-planning/internal/config"
	"github.com/iwvelando/life-planning/internal/simulation"
	"github.com/iwvelando/life-planning/pkg/constants"
	"github.com/spf13/viper"
)

// Config defines runtime parameters for the HTTP server.
type Config struct {
	Address       string               `yaml:"address"`
	MaxUploadSize string               `yaml:"maxUploadSize"`
	Timeouts      Timeouts             `yaml:"timeouts"`
	Logging       config.LoggingConfig `yaml:"logging"`
	Limits        config.LimitsConfig  `yaml:"limits"`

	uploadSizeBytes int64
}

// Timeouts bounds how long the server waits on clients and on shutdown.
type Timeouts struct {
	ReadHeader time.Duration `yaml:"readHeader"`
	Write      time.Duration `yaml:"write"`
	Idle       time.Duration `yaml:"idle"`
	Shutdown   time.Duration `yaml:"shutdown"`
}

// DefaultTimeouts returns the timeouts used when none are configured.
func DefaultTimeouts() Timeouts {
	return Timeouts{
		ReadHeader: 10 * time.Second,
		Write:      30 * time.Second,
		Idle:       120 * time.Second,
		Shutdown:   30 * time.Second,
	}
}

func (t Timeouts) withDefaults() Timeouts {
	d := DefaultTimeouts()
	if t.ReadHeader <= 0 {
		t.ReadHeader = d.ReadHeader
	}
	if t.Write <= 0 {
		t.Write = d.Write
	}
	if t.Idle <= 0 {
		t.Idle = d.Idle
	}
	if t.Shutdown <= 0 {
		t.Shutdown = d.Shutdown
	}
	return t
}

// LoadConfig loads the server configuration from YAML. A missing file yields
// the defaults. Any key can be overridden from the environment, e.g.
// LIFEPLAN_ADDRESS=:9090 or LIFEPLAN_TIMEOUTS_SHUTDOWN=5s.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(constants.EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	d := DefaultTimeouts()
	v.SetDefault("address", constants.DefaultServerAddress)
	v.SetDefault("maxUploadSize", strconv.FormatInt(constants.DefaultMaxUploadSizeBytes, 10))
	v.SetDefault("timeouts.readHeader", d.ReadHeader)
	v.SetDefault("timeouts.write", d.Write)
	v.SetDefault("timeouts.idle", d.Idle)
	v.SetDefault("timeouts.shutdown", d.Shutdown)
	v.SetDefault("limits.maxAge", constants.DefaultMaxAge)
	v.SetDefault("limits.minYear", constants.DefaultMinYear)
	v.SetDefault("limits.maxYear", constants.DefaultMaxYear)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to read server config: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse server config: %w", err)
	}

	size, err := ParseSize(cfg.MaxUploadSize)
	if err != nil {
		return nil, err
	}
	cfg.SetUploadSizeBytes(size)
	if cfg.Address == "" {
		cfg.Address = constants.DefaultServerAddress
	}
	cfg.Timeouts = cfg.Timeouts.withDefaults()
	return cfg, nil
}

// SimulationLimits returns the configured request limits with defaults filled in.
func (c *Config) SimulationLimits() simulation.Limits {
	return simulation.Limits{
		MaxAge:  c.Limits.MaxAge,
		MinYear: c.Limits.MinYear,
		MaxYear: c.Limits.MaxYear,
	}.Normalize()
}

// UploadSizeBytes returns the request body limit in bytes.
func (c *Config) UploadSizeBytes() int64 {
	if c.uploadSizeBytes <= 0 {
		return constants.DefaultMaxUploadSizeBytes
	}
	return c.uploadSizeBytes
}

// SetUploadSizeBytes overrides the request body limit. Non-positive sizes
// are ignored.
func (c *Config) SetUploadSizeBytes(size int64) {
	if size > 0 {
		c.uploadSizeBytes = size
		c.MaxUploadSize = strconv.FormatInt(size, 10)
	}
}

var sizeUnits = map[string]int64{
	"":   1,
	"B":  1,
	"K":  1 << 10,
	"KB": 1 << 10,
	"M":  1 << 20,
	"MB": 1 << 20,
	"G":  1 << 30,
	"GB": 1 << 30,
}

// ParseSize converts a byte size such as "64K" or "1M" into bytes. An empty
// string yields the default request body limit.
func ParseSize(value string) (int64, error) {
	upper := strings.ToUpper(strings.TrimSpace(value))
	if upper == "" {
		return constants.DefaultMaxUploadSizeBytes, nil
	}

	numPart := strings.TrimRight(upper, "BKMG")
	multiplier, ok := sizeUnits[strings.TrimSpace(upper[len(numPart):])]
	if !ok {
		return 0, fmt.Errorf("unsupported size unit in %q", value)
	}

	n, err := strconv.ParseInt(strings.TrimSpace(numPart), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid size value %q: %w", value, err)
	}
	if n < 0 || n > (1<<63-1)/multiplier {
		return 0, fmt.Errorf("size out of range: %s", value)
	}
	return n * multiplier, nil
}
