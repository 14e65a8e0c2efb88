// Package commands implements the chainlint subcommands.
package commands

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// Process exit codes.
const (
	ExitOK       = 0
	ExitFindings = 1
	ExitUsage    = 2
)

// ErrFindings is returned when findings reach the fail-on severity.
var ErrFindings = errors.New("findings reach the fail-on severity")

// ExitError carries the process exit code for an error.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string { return e.Err.Error() }

func (e *ExitError) Unwrap() error { return e.Err }

// globalFlags are shared by every subcommand.
type globalFlags struct {
	configPath string
	verbose    bool
	noColor    bool
}

// NewRootCommand builds the chainlint command tree.
func NewRootCommand() *cobra.Command {
	flags := &globalFlags{}

	rootCmd := &cobra.Command{
		Use:   "chainlint",
		Short: "Pattern-matching lint engine for Kotlin call chains",
		Long: `chainlint finds and safely rewrites call-chain anti-patterns in Kotlin code.

Commands:
  check     Report findings
  fix       Apply automatic fixes
  rules     List the available rules
  lsp       Serve diagnostics to editors over LSP
  mcp       Serve checks to AI agents over MCP`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			if flags.noColor {
				color.NoColor = true
			}
		},
	}

	rootCmd.PersistentFlags().StringVar(&flags.configPath, "config", "", "config file (default is ./.chainlint.yaml, then $HOME)")
	rootCmd.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "debug logging to stderr")
	rootCmd.PersistentFlags().BoolVar(&flags.noColor, "no-color", false, "disable colored output")

	rootCmd.AddCommand(NewCheckCommand(flags))
	rootCmd.AddCommand(NewFixCommand(flags))
	rootCmd.AddCommand(NewRulesCommand())
	rootCmd.AddCommand(NewLSPCommand(flags))
	rootCmd.AddCommand(NewMCPCommand(flags))
	rootCmd.AddCommand(NewVersionCommand())

	return rootCmd
}

// Execute runs the CLI with args and returns the process exit code.
func Execute(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	rootCmd := NewRootCommand()
	rootCmd.SetArgs(args)
	rootCmd.SetIn(stdin)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	err := rootCmd.ExecuteContext(ctx)
	if err == nil {
		return ExitOK
	}

	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		if !errors.Is(exitErr.Err, ErrFindings) {
			fmt.Fprintf(stderr, "Error: %v\n", exitErr.Err)
		}

		return exitErr.Code
	}

	fmt.Fprintf(stderr, "Error: %v\n", err)

	return ExitUsage
}

func usageError(err error) error {
	return &ExitError{Code: ExitUsage, Err: err}
}
