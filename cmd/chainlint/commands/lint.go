package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"slices"
	"time"

	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/chainlint/pkg/lint"
	"github.com/Sumatoshi-tech/chainlint/pkg/observability"
	"github.com/Sumatoshi-tech/chainlint/pkg/report"
	"github.com/Sumatoshi-tech/chainlint/pkg/runner"
)

const metricsReadHeaderTimeout = 5 * time.Second

// LintCommand holds the flags shared by check and fix.
type LintCommand struct {
	global      *globalFlags
	format      string
	factsPath   string
	failOn      string
	metricsAddr string
	workers     int
	exclude     []string

	fix  bool
	diff bool
}

// NewCheckCommand creates the check command.
func NewCheckCommand(flags *globalFlags) *cobra.Command {
	lc := &LintCommand{global: flags}

	cmd := &cobra.Command{
		Use:   "check [paths...]",
		Short: "Report call-chain findings in Kotlin sources",
		Long: `Lint Kotlin files and directories. Without paths the working directory is
checked; "-" reads a single file from stdin.

Exit status is 1 when a finding reaches the --fail-on severity.`,
		RunE: lc.Run,
	}

	lc.bindFlags(cmd)
	cmd.Flags().StringVar(&lc.metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address during the run")

	return cmd
}

// NewFixCommand creates the fix command.
func NewFixCommand(flags *globalFlags) *cobra.Command {
	lc := &LintCommand{global: flags, fix: true}

	cmd := &cobra.Command{
		Use:   "fix [paths...]",
		Short: "Apply automatic fixes to Kotlin sources",
		Long: `Lint Kotlin files and apply every safe rewrite, writing the result in place.
With --diff nothing is written and a unified diff is printed instead.

Exit status is 1 when a finding left after fixing reaches the --fail-on severity.`,
		RunE: lc.Run,
	}

	lc.bindFlags(cmd)
	cmd.Flags().BoolVar(&lc.diff, "diff", false, "print a unified diff instead of writing files")

	return cmd
}

func (lc *LintCommand) bindFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&lc.format, "format", "f", report.FormatText, "output format: text, table or json")
	cmd.Flags().StringVar(&lc.factsPath, "oracle", "", "type facts file enabling type-aware rules")
	cmd.Flags().StringVar(&lc.failOn, "fail-on", "", "lowest severity that fails the run (default from config)")
	cmd.Flags().IntVarP(&lc.workers, "workers", "j", 0, "parallel files (default from config)")
	cmd.Flags().StringSliceVar(&lc.exclude, "exclude", nil, "extra glob patterns to skip")
}

// Run executes check or fix.
func (lc *LintCommand) Run(cmd *cobra.Command, args []string) error {
	if !slices.Contains(report.Formats, lc.format) {
		return usageError(fmt.Errorf("%w: %s", report.ErrUnknownFormat, lc.format))
	}

	a, err := newApp(lc.global, appOptions{
		mode:       observability.ModeCLI,
		factsPath:  lc.factsPath,
		prometheus: lc.metricsAddr != "",
	})
	if err != nil {
		return err
	}
	defer a.close()

	threshold, err := lc.threshold(a)
	if err != nil {
		return err
	}

	if lc.metricsAddr != "" {
		stop, serveErr := serveMetrics(lc.metricsAddr, a.providers.MetricsHandler)
		if serveErr != nil {
			return serveErr
		}
		defer stop()
	}

	run, err := lc.newRunner(cmd, a)
	if err != nil {
		return err
	}

	paths := args
	if len(paths) == 0 {
		paths = []string{"."}
	}

	rep, err := run.Run(cmd.Context(), paths)
	if err != nil {
		if errors.Is(err, runner.ErrNoSources) {
			return usageError(err)
		}

		return err
	}

	if err := lc.write(cmd.OutOrStdout(), cmd.ErrOrStderr(), rep); err != nil {
		return err
	}

	if rep.Reaches(threshold) || len(rep.Failed()) > 0 {
		return &ExitError{Code: ExitFindings, Err: ErrFindings}
	}

	return nil
}

func (lc *LintCommand) threshold(a *app) (lint.Severity, error) {
	if lc.failOn == "" {
		sev, err := a.cfg.Runner.FailOnSeverity()
		if err != nil {
			return 0, usageError(err)
		}

		return sev, nil
	}

	sev, err := lint.ParseSeverity(lc.failOn)
	if err != nil {
		return 0, usageError(err)
	}

	return sev, nil
}

func (lc *LintCommand) newRunner(cmd *cobra.Command, a *app) (*runner.Runner, error) {
	maxSize, err := a.cfg.Runner.MaxFileBytes()
	if err != nil {
		return nil, usageError(err)
	}

	workers := a.cfg.Runner.Workers
	if lc.workers > 0 {
		workers = lc.workers
	}

	metrics, err := observability.NewLintMetrics(a.providers.Meter)
	if err != nil {
		return nil, fmt.Errorf("lint metrics: %w", err)
	}

	return runner.New(a.linter, runner.Options{
		Workers:     workers,
		MaxFileSize: maxSize,
		Exclude:     append(append([]string(nil), a.cfg.Runner.Exclude...), lc.exclude...),
		Fix:         lc.fix,
		Write:       lc.fix && !lc.diff,
		Stdin:       cmd.InOrStdin(),
		Logger:      a.logger(),
		Tracer:      a.providers.Tracer,
		Metrics:     metrics,
	})
}

// write renders rep on w. Fixing stdin without --diff prints the fixed source
// on w instead and moves the report to errw.
func (lc *LintCommand) write(w, errw io.Writer, rep runner.Report) error {
	if lc.fix && !lc.diff && len(rep.Files) == 1 && rep.Files[0].Path == runner.StdinName {
		file := rep.Files[0]

		text := file.Output
		if !file.Changed() {
			text = file.Source
		}

		if _, err := w.Write(text); err != nil {
			return fmt.Errorf("write fixed source: %w", err)
		}

		w = errw
	}

	if lc.diff {
		if err := report.WriteDiff(w, rep); err != nil {
			return fmt.Errorf("write diff: %w", err)
		}

		return nil
	}

	if err := report.Write(w, lc.format, rep); err != nil {
		return fmt.Errorf("write report: %w", err)
	}

	return nil
}

// serveMetrics exposes handler on addr until stop is called.
func serveMetrics(addr string, handler http.Handler) (stop func(), err error) {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, usageError(fmt.Errorf("metrics listener: %w", err))
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", handler)

	srv := &http.Server{Handler: mux, ReadHeaderTimeout: metricsReadHeaderTimeout}

	go func() { _ = srv.Serve(listener) }()

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), metricsReadHeaderTimeout)
		defer cancel()

		_ = srv.Shutdown(ctx)
	}, nil
}
