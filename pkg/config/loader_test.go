package config_test

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/chainlint/pkg/config"
	"github.com/Sumatoshi-tech/chainlint/pkg/lint"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), ".chainlint.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

func TestLoadConfig_EmptyFileUsesDefaults(t *testing.T) {
	t.Parallel()

	cfg, err := config.LoadConfig(writeConfig(t, ""))
	require.NoError(t, err)

	assert.Equal(t, config.DefaultRunnerWorkers, cfg.Runner.Workers)
	assert.Equal(t, config.DefaultRunnerMaxFixPasses, cfg.Runner.MaxFixPasses)
	assert.Equal(t, config.DefaultLoggingFormat, cfg.Logging.Format)
	assert.Empty(t, cfg.Rules)

	size, err := cfg.Runner.MaxFileBytes()
	require.NoError(t, err)
	assert.Equal(t, int64(1<<20), size)

	sev, err := cfg.Runner.FailOnSeverity()
	require.NoError(t, err)
	assert.Equal(t, lint.SeverityStyle, sev)
}

func TestLoadConfig_ReadsSections(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, `
runner:
  workers: 4
  max_file_size: 512KB
  fail_on: defect
  exclude: ["build/**"]
oracle:
  facts: facts.yaml
logging:
  level: debug
  format: json
telemetry:
  otlp_endpoint: localhost:4317
  sample_ratio: 0.5
`)

	cfg, err := config.LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, path, cfg.File)
	assert.Equal(t, 4, cfg.Runner.Workers)
	assert.Equal(t, []string{"build/**"}, cfg.Runner.Exclude)
	assert.Equal(t, "facts.yaml", cfg.Oracle.Facts)
	assert.Equal(t, "localhost:4317", cfg.Telemetry.OTLPEndpoint)
	assert.InDelta(t, 0.5, cfg.Telemetry.SampleRatio, 1e-9)

	size, err := cfg.Runner.MaxFileBytes()
	require.NoError(t, err)
	assert.Equal(t, int64(512_000), size)

	level, err := cfg.Logging.SlogLevel()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, level)
}

func TestLoadConfig_RulesKeepCaseAndDots(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, `
rules:
  PreventBannedImports:
    withAlternatives:
      - com.google.inject.Singleton=javax.inject.Singleton
    withoutAlternatives:
      - com.faire.madeUp.ForTesting
  USE_GET_OR_ELSE_INSTEAD_OF_GET_OR_DEFAULT:
    active: false
  PreferIgnoreCase:
    autoCorrect: false
`)

	cfg, err := config.LoadConfig(path)
	require.NoError(t, err)
	require.Len(t, cfg.Rules, 3)

	configs := cfg.RuleConfigs()

	banned := configs["PreventBannedImports"]
	assert.True(t, banned.Active)
	assert.Equal(t, map[string]string{"com.google.inject.Singleton": "javax.inject.Singleton"}, banned.WithAlternatives)
	assert.Equal(t, []string{"com.faire.madeUp.ForTesting"}, banned.WithoutAlternatives)

	assert.False(t, configs["USE_GET_OR_ELSE_INSTEAD_OF_GET_OR_DEFAULT"].Active)
	assert.False(t, configs["PreferIgnoreCase"].AutoCorrect)
	assert.True(t, configs["PreferIgnoreCase"].Active)
}

func TestLoadConfig_Invalid(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		content string
		want    error
	}{
		{"negative workers", "runner:\n  workers: -1\n", config.ErrInvalidWorkers},
		{"zero passes", "runner:\n  max_fix_passes: 0\n", config.ErrInvalidFixPasses},
		{"bad size", "runner:\n  max_file_size: lots\n", config.ErrInvalidMaxFileSize},
		{"bad fail_on", "runner:\n  fail_on: fatal\n", config.ErrInvalidFailOn},
		{"bad level", "logging:\n  level: loud\n", config.ErrInvalidLogLevel},
		{"bad format", "logging:\n  format: xml\n", config.ErrInvalidLogFormat},
		{"bad ratio", "telemetry:\n  sample_ratio: 2\n", config.ErrInvalidSampleRatio},
		{"unknown rule key", "rules:\n  PreferIgnoreCase:\n    enabled: true\n", config.ErrInvalidRuleSettings},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			_, err := config.LoadConfig(writeConfig(t, tc.content))
			require.ErrorIs(t, err, tc.want)
		})
	}
}

func TestLoadConfig_EnvOverride(t *testing.T) {
	t.Setenv("CHAINLINT_RUNNER_WORKERS", "3")
	t.Setenv("CHAINLINT_LOGGING_LEVEL", "warn")

	cfg, err := config.LoadConfig(writeConfig(t, "runner:\n  workers: 8\n"))
	require.NoError(t, err)

	assert.Equal(t, 3, cfg.Runner.Workers)
	assert.Equal(t, "warn", cfg.Logging.Level)
}
