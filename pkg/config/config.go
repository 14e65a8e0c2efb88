package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/Sumatoshi-tech/chainlint/pkg/lint"
)

// Sentinel validation errors.
var (
	ErrInvalidWorkers      = errors.New("runner workers must not be negative")
	ErrInvalidMaxFileSize  = errors.New("invalid runner max file size")
	ErrInvalidFixPasses    = errors.New("runner max fix passes must be positive")
	ErrInvalidFailOn       = errors.New("invalid runner fail_on severity")
	ErrInvalidLogLevel     = errors.New("invalid logging level")
	ErrInvalidLogFormat    = errors.New("logging format must be text or json")
	ErrInvalidSampleRatio  = errors.New("telemetry sample ratio must be within [0, 1]")
	ErrInvalidRuleSettings = errors.New("invalid rules section")
)

// Config is the whole .chainlint.yaml document.
type Config struct {
	Runner    RunnerConfig    `mapstructure:"runner"`
	Oracle    OracleConfig    `mapstructure:"oracle"`
	Logging   LoggingConfig   `mapstructure:"logging"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`

	// Rules is read separately: rule IDs and import prefixes are case and dot
	// sensitive, which viper keys are not.
	Rules map[string]RuleSettings `mapstructure:"-"`

	// File is the config file that was read, empty when none was found.
	File string `mapstructure:"-"`
}

// RunnerConfig controls file discovery and the worker pool.
type RunnerConfig struct {
	Workers      int      `mapstructure:"workers"`
	MaxFileSize  string   `mapstructure:"max_file_size"`
	MaxFixPasses int      `mapstructure:"max_fix_passes"`
	FailOn       string   `mapstructure:"fail_on"`
	Exclude      []string `mapstructure:"exclude"`
}

// OracleConfig points at the project's type facts file.
type OracleConfig struct {
	Facts string `mapstructure:"facts"`
}

// LoggingConfig holds logging-specific configuration.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// TelemetryConfig configures OTLP export.
type TelemetryConfig struct {
	OTLPEndpoint string  `mapstructure:"otlp_endpoint"`
	OTLPHeaders  string  `mapstructure:"otlp_headers"`
	OTLPInsecure bool    `mapstructure:"otlp_insecure"`
	Environment  string  `mapstructure:"environment"`
	SampleRatio  float64 `mapstructure:"sample_ratio"`
}

// MaxFileBytes parses Runner.MaxFileSize ("1MiB", "512KB", "0" for no limit).
func (r RunnerConfig) MaxFileBytes() (int64, error) {
	if strings.TrimSpace(r.MaxFileSize) == "" {
		return 0, nil
	}

	n, err := humanize.ParseBytes(r.MaxFileSize)
	if err != nil {
		return 0, fmt.Errorf("%w: %q: %w", ErrInvalidMaxFileSize, r.MaxFileSize, err)
	}

	return int64(n), nil
}

// FailOnSeverity parses Runner.FailOn.
func (r RunnerConfig) FailOnSeverity() (lint.Severity, error) {
	sev, err := lint.ParseSeverity(r.FailOn)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrInvalidFailOn, err)
	}

	return sev, nil
}

// SlogLevel parses Logging.Level.
func (l LoggingConfig) SlogLevel() (slog.Level, error) {
	var level slog.Level

	if err := level.UnmarshalText([]byte(l.Level)); err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidLogLevel, l.Level)
	}

	return level, nil
}

// RuleConfigs converts the rules section into engine configs keyed by the
// name used in the file. Unset fields keep lint.DefaultRuleConfig values.
func (c *Config) RuleConfigs() map[string]lint.RuleConfig {
	out := make(map[string]lint.RuleConfig, len(c.Rules))

	for name, settings := range c.Rules {
		out[name] = settings.RuleConfig()
	}

	return out
}

// Validate checks every section.
func (c *Config) Validate() error {
	if c.Runner.Workers < 0 {
		return fmt.Errorf("%w: %d", ErrInvalidWorkers, c.Runner.Workers)
	}

	if c.Runner.MaxFixPasses <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidFixPasses, c.Runner.MaxFixPasses)
	}

	if _, err := c.Runner.MaxFileBytes(); err != nil {
		return err
	}

	if _, err := c.Runner.FailOnSeverity(); err != nil {
		return err
	}

	if _, err := c.Logging.SlogLevel(); err != nil {
		return err
	}

	switch c.Logging.Format {
	case "text", "json":
	default:
		return fmt.Errorf("%w: %q", ErrInvalidLogFormat, c.Logging.Format)
	}

	if c.Telemetry.SampleRatio < 0 || c.Telemetry.SampleRatio > 1 {
		return fmt.Errorf("%w: %v", ErrInvalidSampleRatio, c.Telemetry.SampleRatio)
	}

	return nil
}
