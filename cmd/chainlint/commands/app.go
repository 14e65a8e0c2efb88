package commands

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Sumatoshi-tech/chainlint/pkg/config"
	"github.com/Sumatoshi-tech/chainlint/pkg/lint"
	"github.com/Sumatoshi-tech/chainlint/pkg/observability"
	"github.com/Sumatoshi-tech/chainlint/pkg/oracle"
	"github.com/Sumatoshi-tech/chainlint/pkg/rules"
	"github.com/Sumatoshi-tech/chainlint/pkg/syntax/kotlin"
	"github.com/Sumatoshi-tech/chainlint/pkg/version"
)

// appOptions tune how the shared engine is assembled for one command.
type appOptions struct {
	mode       observability.AppMode
	factsPath  string
	prometheus bool
	logJSON    bool
}

// app is the engine shared by the lint, LSP and MCP front ends.
type app struct {
	cfg       *config.Config
	providers observability.Providers
	registry  *rules.Registry
	linter    *lint.Linter
}

func newApp(flags *globalFlags, opts appOptions) (*app, error) {
	cfg, err := config.LoadConfig(flags.configPath)
	if err != nil {
		return nil, usageError(err)
	}

	providers, err := initObservability(cfg, flags, opts)
	if err != nil {
		return nil, err
	}

	a := &app{cfg: cfg, providers: providers, registry: rules.Default()}

	if err := a.buildLinter(opts.factsPath); err != nil {
		a.close()

		return nil, err
	}

	if cfg.File != "" {
		a.logger().Debug("config loaded", "file", cfg.File)
	}

	return a, nil
}

func (a *app) buildLinter(factsPath string) error {
	configs, err := a.registry.Configs(a.cfg.RuleConfigs())
	if err != nil {
		return usageError(fmt.Errorf("rules: %w", err))
	}

	if factsPath == "" {
		factsPath = a.cfg.Oracle.Facts
	}

	var bound oracle.Oracle

	if factsPath != "" {
		facts, loadErr := oracle.LoadFacts(factsPath)
		if loadErr != nil {
			return usageError(loadErr)
		}

		static, staticErr := oracle.NewStatic(facts)
		if staticErr != nil {
			return staticErr
		}

		bound = static
	}

	walker, err := lint.NewWalker(a.registry.Enabled(configs), lint.WalkerConfig{
		Oracle:  bound,
		Configs: configs,
		Logger:  a.logger(),
	})
	if err != nil {
		return usageError(err)
	}

	parser, err := kotlin.NewParser()
	if err != nil {
		return fmt.Errorf("kotlin parser: %w", err)
	}

	a.linter, err = lint.NewLinter(parser, walker, a.cfg.Runner.MaxFixPasses)
	if err != nil {
		return fmt.Errorf("linter: %w", err)
	}

	a.logger().Debug("rules enabled", "rules", walker.Rules(), "oracle", oracle.IsAvailable(bound))

	return nil
}

func (a *app) logger() *slog.Logger {
	return a.providers.Logger
}

func (a *app) close() {
	ctx := context.Background()

	if err := a.providers.Shutdown(ctx); err != nil {
		a.logger().Warn("observability shutdown failed", "error", err)
	}
}

func initObservability(cfg *config.Config, flags *globalFlags, opts appOptions) (observability.Providers, error) {
	level, err := cfg.Logging.SlogLevel()
	if err != nil {
		return observability.Providers{}, usageError(err)
	}

	obsCfg := observability.DefaultConfig()
	obsCfg.ServiceVersion = version.Version
	obsCfg.Environment = cfg.Telemetry.Environment
	obsCfg.Mode = opts.mode
	obsCfg.OTLPEndpoint = cfg.Telemetry.OTLPEndpoint
	obsCfg.OTLPHeaders = observability.ParseOTLPHeaders(cfg.Telemetry.OTLPHeaders)
	obsCfg.OTLPInsecure = cfg.Telemetry.OTLPInsecure
	obsCfg.SampleRatio = cfg.Telemetry.SampleRatio
	obsCfg.Prometheus = opts.prometheus
	obsCfg.LogLevel = level
	obsCfg.LogJSON = opts.logJSON || cfg.Logging.Format == "json"

	if flags.verbose {
		obsCfg.LogLevel = slog.LevelDebug
		obsCfg.DebugTrace = true
	}

	providers, err := observability.Init(obsCfg)
	if err != nil {
		return observability.Providers{}, fmt.Errorf("observability: %w", err)
	}

	return providers, nil
}
