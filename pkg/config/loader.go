package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

const (
	configName      = ".chainlint"
	configType      = "yaml"
	envPrefix       = "CHAINLINT"
	envKeySeparator = "_"
)

// defaults seeds every key viper should know about, so env overrides work for
// keys absent from the file.
var defaults = map[string]any{
	"runner.workers":          DefaultRunnerWorkers,
	"runner.max_file_size":    DefaultRunnerMaxFileSize,
	"runner.max_fix_passes":   DefaultRunnerMaxFixPasses,
	"runner.fail_on":          DefaultRunnerFailOn,
	"runner.exclude":          []string{},
	"oracle.facts":            "",
	"logging.level":           DefaultLoggingLevel,
	"logging.format":          DefaultLoggingFormat,
	"telemetry.otlp_endpoint": "",
	"telemetry.otlp_headers":  "",
	"telemetry.otlp_insecure": DefaultTelemetryInsecure,
	"telemetry.environment":   "",
	"telemetry.sample_ratio":  DefaultTelemetrySampleRatio,
}

// LoadConfig merges defaults, the config file and CHAINLINT_* environment
// variables. With an empty configPath, .chainlint.yaml is looked up in the
// working directory and then $HOME; not finding one is fine.
func LoadConfig(configPath string) (*Config, error) {
	v := newViper(configPath)

	if err := v.ReadInConfig(); err != nil && !isNotFound(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	cfg.File = v.ConfigFileUsed()

	if err := cfg.loadRules(); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &cfg, nil
}

func newViper(configPath string) *viper.Viper {
	v := viper.New()

	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	v.SetConfigType(configType)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", envKeySeparator))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)

		return v
	}

	v.SetConfigName(configName)
	v.AddConfigPath(".")

	if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(home)
	}

	return v
}

func isNotFound(err error) bool {
	var notFound viper.ConfigFileNotFoundError

	return errors.As(err, &notFound)
}

// loadRules decodes the rules section of the file, which viper's key folding
// would otherwise lowercase.
func (c *Config) loadRules() error {
	if c.File == "" {
		return nil
	}

	data, err := os.ReadFile(c.File)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}

	c.Rules, err = ParseRules(data)
	if err != nil {
		return fmt.Errorf("%s: %w", c.File, err)
	}

	return nil
}
