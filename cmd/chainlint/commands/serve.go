package commands

import (
	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/chainlint/pkg/lsp"
	"github.com/Sumatoshi-tech/chainlint/pkg/mcp"
	"github.com/Sumatoshi-tech/chainlint/pkg/observability"
	"github.com/Sumatoshi-tech/chainlint/pkg/version"
)

// NewLSPCommand creates the language server command.
func NewLSPCommand(flags *globalFlags) *cobra.Command {
	var factsPath string

	cmd := &cobra.Command{
		Use:   "lsp",
		Short: "Start language server for Kotlin diagnostics (LSP)",
		Long: `Start a Language Server Protocol server on stdio. Open Kotlin documents get
chainlint diagnostics, rule documentation on hover and a quick fix applying
every automatic rewrite.`,
		RunE: func(_ *cobra.Command, _ []string) error {
			a, err := newApp(flags, appOptions{mode: observability.ModeLSP, factsPath: factsPath})
			if err != nil {
				return err
			}
			defer a.close()

			reqs, err := observability.NewRequestMetrics(a.providers.Meter)
			if err != nil {
				return err
			}

			srv, err := lsp.NewServer(a.linter, lsp.Options{
				Version: version.Version,
				Logger:  a.logger(),
				Metrics: reqs,
				Rules:   a.registry.Rules(),
			})
			if err != nil {
				return err
			}

			return srv.Run()
		},
	}

	cmd.Flags().StringVar(&factsPath, "oracle", "", "type facts file enabling type-aware rules")

	return cmd
}

// NewMCPCommand creates the MCP server command.
func NewMCPCommand(flags *globalFlags) *cobra.Command {
	var factsPath string

	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Start MCP server for AI agent integration",
		Long: `Start a Model Context Protocol (MCP) server on stdio transport.

The MCP server exposes chainlint as tools that AI agents can discover and invoke:
  - chainlint_check: lint (and optionally fix) inline Kotlin code
  - chainlint_check_paths: lint Kotlin files on disk
  - chainlint_rules: list the available rules`,
		RunE: func(cobraCmd *cobra.Command, _ []string) error {
			a, err := newApp(flags, appOptions{mode: observability.ModeMCP, factsPath: factsPath, logJSON: true})
			if err != nil {
				return err
			}
			defer a.close()

			reqs, err := observability.NewRequestMetrics(a.providers.Meter)
			if err != nil {
				return err
			}

			maxSize, err := a.cfg.Runner.MaxFileBytes()
			if err != nil {
				return usageError(err)
			}

			srv, err := mcp.NewServer(mcp.ServerDeps{
				Linter:      a.linter,
				Rules:       a.registry.Rules(),
				Version:     version.Version,
				MaxFileSize: maxSize,
				Exclude:     a.cfg.Runner.Exclude,
				Logger:      a.logger(),
				Metrics:     reqs,
				Tracer:      a.providers.Tracer,
			})
			if err != nil {
				return err
			}

			return srv.Run(cobraCmd.Context())
		},
	}

	cmd.Flags().StringVar(&factsPath, "oracle", "", "type facts file enabling type-aware rules")

	return cmd
}
