// Package runner lints many files in parallel and aggregates the results.
package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strings"
	"time"

	"github.com/src-d/enry/v2"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"
	"golang.org/x/sync/errgroup"

	"github.com/Sumatoshi-tech/chainlint/pkg/lint"
	"github.com/Sumatoshi-tech/chainlint/pkg/observability"
	"github.com/Sumatoshi-tech/chainlint/pkg/syntax/kotlin"
)

// StdinPath selects standard input as a source.
const StdinPath = "-"

// StdinName is the file name reported for standard input.
const StdinName = "<stdin>.kt"

// Sentinel errors.
var (
	ErrNilLinter    = errors.New("runner: nil linter")
	ErrFileTooLarge = errors.New("file exceeds max size")
	ErrBinaryFile   = errors.New("file looks binary")
	ErrNoSources    = errors.New("no Kotlin sources found")
)

const (
	statusOK      = "ok"
	statusError   = "error"
	statusSkipped = "skipped"
)

// Options configures a Runner.
type Options struct {
	// Workers bounds parallel files. Zero uses GOMAXPROCS.
	Workers int

	// MaxFileSize skips larger files. Zero disables the limit.
	MaxFileSize int64

	// Exclude holds glob patterns matched against the slash-separated path
	// and each of its segments.
	Exclude []string

	// Fix runs the rewrite loop; Write stores changed output back to disk.
	Fix   bool
	Write bool

	Stdin   io.Reader
	Logger  *slog.Logger
	Tracer  trace.Tracer
	Metrics *observability.LintMetrics
}

// FileResult is the outcome for one file.
type FileResult struct {
	lint.Result

	Path   string
	Source []byte
	Err    error
}

// Report aggregates a run, ordered by path.
type Report struct {
	Files []FileResult

	// Fixed is set when the run applied rewrites.
	Fixed bool
}

// Findings returns every finding in path order. After a fix run these are
// the findings left on the corrected text.
func (r Report) Findings() []lint.Finding {
	var out []lint.Finding

	for _, f := range r.Files {
		if r.Fixed {
			out = append(out, f.Remaining...)
		} else {
			out = append(out, f.Findings...)
		}
	}

	return out
}

// Failed returns the files that could not be linted.
func (r Report) Failed() []FileResult {
	var out []FileResult

	for _, f := range r.Files {
		if f.Err != nil {
			out = append(out, f)
		}
	}

	return out
}

// Applied sums the rewrites applied across files.
func (r Report) Applied() int {
	total := 0
	for _, f := range r.Files {
		total += f.Applied
	}

	return total
}

// Reaches reports whether any finding is at least threshold.
func (r Report) Reaches(threshold lint.Severity) bool {
	return slices.ContainsFunc(r.Findings(), func(f lint.Finding) bool {
		return f.Severity.AtLeast(threshold)
	})
}

// Runner fans files out to a shared linter.
type Runner struct {
	linter *lint.Linter
	opts   Options
	logger *slog.Logger
	tracer trace.Tracer
}

// New creates a Runner.
func New(linter *lint.Linter, opts Options) (*Runner, error) {
	if linter == nil {
		return nil, ErrNilLinter
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	tracer := opts.Tracer
	if tracer == nil {
		tracer = nooptrace.NewTracerProvider().Tracer("chainlint")
	}

	return &Runner{linter: linter, opts: opts, logger: logger, tracer: tracer}, nil
}

// Collect expands paths into the sorted list of Kotlin sources. Directories
// are walked, skipping vendored and dot directories; explicit files are kept
// when their extension is a Kotlin one.
func (r *Runner) Collect(paths []string) ([]string, error) {
	seen := map[string]bool{}

	var files []string

	add := func(path string) {
		if !seen[path] {
			seen[path] = true
			files = append(files, path)
		}
	}

	for _, root := range paths {
		if root == StdinPath {
			add(root)

			continue
		}

		info, err := os.Stat(root)
		if err != nil {
			return nil, fmt.Errorf("collect %s: %w", root, err)
		}

		if !info.IsDir() {
			if isKotlin(root) && !r.excluded(root) {
				add(root)
			}

			continue
		}

		err = filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
			if walkErr != nil {
				return walkErr
			}

			rel, relErr := filepath.Rel(root, path)
			if relErr != nil {
				rel = path
			}

			if d.IsDir() {
				if path != root && (enry.IsDotFile(rel) || enry.IsVendor(rel+"/") || r.excluded(rel)) {
					return filepath.SkipDir
				}

				return nil
			}

			if isKotlin(path) && !r.excluded(rel) {
				add(path)
			}

			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("collect %s: %w", root, err)
		}
	}

	slices.Sort(files)

	return files, nil
}

// Run lints paths. Per-file failures are recorded in the report; the error
// is reserved for collection failures and cancellation.
func (r *Runner) Run(ctx context.Context, paths []string) (Report, error) {
	files, err := r.Collect(paths)
	if err != nil {
		return Report{}, err
	}

	if len(files) == 0 {
		return Report{}, ErrNoSources
	}

	ctx, span := r.tracer.Start(ctx, "chainlint.run",
		trace.WithAttributes(attribute.Int("runner.files", len(files))))
	defer span.End()

	workers := r.opts.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	results := make([]FileResult, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(workers, len(files)))

	for i, path := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			results[i] = r.runFile(gctx, path)

			return nil
		})
	}

	report := Report{Files: results, Fixed: r.opts.Fix}

	if err := g.Wait(); err != nil {
		span.SetStatus(codes.Error, err.Error())

		return report, fmt.Errorf("run: %w", err)
	}

	return report, nil
}

func (r *Runner) runFile(ctx context.Context, path string) FileResult {
	start := time.Now()
	name := displayName(path)

	ctx, span := r.tracer.Start(ctx, "chainlint.file")
	defer span.End()

	res := FileResult{Path: name}

	src, err := r.read(path)
	if err != nil {
		res.Err = err
		r.finish(ctx, span, res, statusFor(err), time.Since(start))

		return res
	}

	res.Source = src

	if r.opts.Fix {
		res.Result, err = r.linter.Fix(ctx, name, src)
	} else {
		res.Result, err = r.linter.Lint(ctx, name, src)
	}

	if err == nil && r.opts.Fix && r.opts.Write && res.Changed() && path != StdinPath {
		err = writeFile(path, res.Output)
	}

	if err != nil {
		res.Err = err
		r.finish(ctx, span, res, statusError, time.Since(start))

		return res
	}

	r.finish(ctx, span, res, statusOK, time.Since(start))

	return res
}

func (r *Runner) read(path string) ([]byte, error) {
	if path == StdinPath {
		in := r.opts.Stdin
		if in == nil {
			in = os.Stdin
		}

		src, err := io.ReadAll(in)
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}

		return src, nil
	}

	if r.opts.MaxFileSize > 0 {
		info, err := os.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", path, err)
		}

		if info.Size() > r.opts.MaxFileSize {
			return nil, fmt.Errorf("%w: %s is %d bytes", ErrFileTooLarge, path, info.Size())
		}
	}

	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	if enry.IsBinary(src) {
		return nil, fmt.Errorf("%w: %s", ErrBinaryFile, path)
	}

	return src, nil
}

func (r *Runner) finish(ctx context.Context, span trace.Span, res FileResult, status string, elapsed time.Duration) {
	span.SetAttributes(
		attribute.String("file.status", status),
		attribute.Int("lint.findings", len(res.Findings)),
		attribute.Int("fix.applied", res.Applied),
	)

	if res.Err != nil {
		span.SetStatus(codes.Error, res.Err.Error())
		r.logger.WarnContext(ctx, "file not linted", "file", res.Path, "error", res.Err)
	}

	for _, ruleErr := range res.Errors {
		r.logger.ErrorContext(ctx, "rule panicked", "file", res.Path, "rule", ruleErr.RuleID,
			"phase", ruleErr.Phase, "panic", fmt.Sprint(ruleErr.Panic))
	}

	r.opts.Metrics.RecordFile(ctx, fileStats(res, status, elapsed))
}

func fileStats(res FileResult, status string, elapsed time.Duration) observability.FileStats {
	type key struct{ rule, severity string }

	counts := map[key]int64{}

	var order []key

	for _, f := range res.Findings {
		k := key{f.RuleID, f.Severity.String()}
		if counts[k] == 0 {
			order = append(order, k)
		}

		counts[k]++
	}

	stats := observability.FileStats{Status: status, Duration: elapsed, Applied: res.Applied}

	for _, k := range order {
		stats.Findings = append(stats.Findings, observability.FindingCount{Rule: k.rule, Severity: k.severity, Count: counts[k]})
	}

	for _, e := range res.Errors {
		stats.RuleErrors = append(stats.RuleErrors, e.RuleID)
	}

	return stats
}

func (r *Runner) excluded(path string) bool {
	slashed := filepath.ToSlash(path)

	for _, pattern := range r.opts.Exclude {
		if ok, _ := filepath.Match(pattern, slashed); ok {
			return true
		}

		for _, segment := range strings.Split(slashed, "/") {
			if ok, _ := filepath.Match(pattern, segment); ok {
				return true
			}
		}
	}

	return false
}

func isKotlin(path string) bool {
	return slices.Contains(kotlin.Extensions, strings.ToLower(filepath.Ext(path)))
}

func displayName(path string) string {
	if path == StdinPath {
		return StdinName
	}

	return path
}

func statusFor(err error) string {
	if errors.Is(err, ErrFileTooLarge) || errors.Is(err, ErrBinaryFile) {
		return statusSkipped
	}

	return statusError
}

// writeFile replaces path through a temporary sibling so a failed write never
// leaves a truncated source behind.
func writeFile(path string, data []byte) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("stat %s: %w", path, err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}

	_, writeErr := tmp.Write(data)
	closeErr := tmp.Close()

	if err := errors.Join(writeErr, closeErr, os.Chmod(tmp.Name(), info.Mode().Perm())); err != nil {
		_ = os.Remove(tmp.Name())

		return fmt.Errorf("write %s: %w", path, err)
	}

	if err := os.Rename(tmp.Name(), path); err != nil {
		_ = os.Remove(tmp.Name())

		return fmt.Errorf("replace %s: %w", path, err)
	}

	return nil
}
