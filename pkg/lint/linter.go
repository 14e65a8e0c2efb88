package lint

import (
	"context"
	"errors"
	"fmt"

	"github.com/Sumatoshi-tech/chainlint/pkg/syntax"
)

// DefaultMaxFixPasses bounds the rewrite loop of Linter.Fix.
const DefaultMaxFixPasses = 8

// Skip reasons reported for fixes that were not applied.
const (
	ReasonPassLimit  = "fix pass limit reached"
	ReasonSpliceFail = "splice failed"
)

// ErrNilParser is returned by NewLinter without a parser.
var ErrNilParser = errors.New("lint: nil parser")

// Parser turns source text into a tree.
type Parser interface {
	Parse(ctx context.Context, src []byte) (*syntax.Tree, error)
}

// ParserFunc adapts a function to Parser.
type ParserFunc func(ctx context.Context, src []byte) (*syntax.Tree, error)

// Parse implements Parser.
func (f ParserFunc) Parse(ctx context.Context, src []byte) (*syntax.Tree, error) { return f(ctx, src) }

// Result is the outcome of linting or fixing one file.
type Result struct {
	File string

	// Findings are reported against the original input.
	Findings []Finding

	// Remaining are the findings left on Output after fixing.
	Remaining []Finding

	Errors  []RuleError
	Skipped []SkippedFix
	Output  []byte
	Applied int
	Passes  int
}

// Changed reports whether the output differs from the input.
func (r Result) Changed() bool { return r.Applied > 0 }

// Linter runs a walker over parsed sources and drives the rewrite loop.
type Linter struct {
	parser    Parser
	walker    *Walker
	maxPasses int
}

// NewLinter creates a linter. maxPasses <= 0 selects DefaultMaxFixPasses.
func NewLinter(parser Parser, walker *Walker, maxPasses int) (*Linter, error) {
	if parser == nil {
		return nil, ErrNilParser
	}

	if maxPasses <= 0 {
		maxPasses = DefaultMaxFixPasses
	}

	return &Linter{parser: parser, walker: walker, maxPasses: maxPasses}, nil
}

// Lint reports findings for src without rewriting it.
func (l *Linter) Lint(ctx context.Context, file string, src []byte) (Result, error) {
	tree, err := l.parser.Parse(ctx, src)
	if err != nil {
		return Result{File: file}, fmt.Errorf("parse %s: %w", file, err)
	}

	rep := l.walker.Walk(tree, file)

	return Result{
		File:      file,
		Findings:  rep.Findings,
		Remaining: rep.Findings,
		Errors:    rep.Errors,
		Skipped:   rep.Skipped,
		Output:    src,
		Passes:    1,
	}, nil
}

// Fix lints src and applies rewrites until the text reaches a fixed point.
//
// Each pass applies the non-overlapping fixes in traversal order to a copy of
// the text, re-parses it and walks the new tree. Fixes whose matched spans
// overlap an already accepted one wait for the next pass. A waiting finding
// counts as corrected only once its rule applies a fix in a later pass; an
// earlier rewrite can make it moot.
func (l *Linter) Fix(ctx context.Context, file string, src []byte) (Result, error) {
	tree, err := l.parser.Parse(ctx, src)
	if err != nil {
		return Result{File: file}, fmt.Errorf("parse %s: %w", file, err)
	}

	rep := l.walker.Walk(tree, file)
	res := Result{
		File:     file,
		Findings: rep.Findings,
		Errors:   rep.Errors,
		Skipped:  rep.Skipped,
		Output:   src,
		Passes:   1,
	}

	pending := rep.fixes
	deferred := map[string][]int{}

	for len(pending) > 0 {
		if res.Passes > l.maxPasses {
			for _, c := range pending {
				res.Skipped = append(res.Skipped, SkippedFix{RuleID: c.ruleID, Reason: ReasonPassLimit, Start: c.start, End: c.end})
			}

			break
		}

		if ctxErr := ctx.Err(); ctxErr != nil {
			return res, ctxErr
		}

		chosen, later := selectFixes(pending)

		var edits []syntax.Edit
		for _, c := range chosen {
			edits = append(edits, c.edits...)
		}

		next, err := syntax.Splice(res.Output, edits)
		if err != nil {
			for _, c := range chosen {
				res.Skipped = append(res.Skipped, SkippedFix{RuleID: c.ruleID, Reason: ReasonSpliceFail, Start: c.start, End: c.end})
			}

			break
		}

		if res.Passes == 1 {
			for _, c := range chosen {
				res.Findings[c.finding].Corrected = true
			}

			for _, c := range later {
				deferred[c.ruleID] = append(deferred[c.ruleID], c.finding)
			}
		} else {
			for _, c := range chosen {
				if queue := deferred[c.ruleID]; len(queue) > 0 {
					res.Findings[queue[0]].Corrected = true
					deferred[c.ruleID] = queue[1:]
				}
			}
		}

		res.Applied += len(chosen)
		res.Output = next

		tree, err = l.parser.Parse(ctx, next)
		if err != nil {
			return res, fmt.Errorf("reparse %s after fix: %w", file, err)
		}

		rep = l.walker.Walk(tree, file)
		res.Errors = append(res.Errors, rep.Errors...)
		pending = rep.fixes
		res.Passes++
	}

	res.Remaining = rep.Findings

	return res, nil
}

// selectFixes picks, in order, every candidate whose span does not overlap a
// previously picked one.
func selectFixes(candidates []candidate) (chosen, later []candidate) {
	for _, c := range candidates {
		span := syntax.Edit{Start: c.start, End: c.end}
		clash := false

		for _, picked := range chosen {
			if span.Overlaps(syntax.Edit{Start: picked.start, End: picked.end}) {
				clash = true

				break
			}
		}

		if clash {
			later = append(later, c)

			continue
		}

		chosen = append(chosen, c)
	}

	return chosen, later
}
