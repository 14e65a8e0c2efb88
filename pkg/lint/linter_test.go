package lint_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/chainlint/pkg/lint"
	"github.com/Sumatoshi-tech/chainlint/pkg/syntax"
	"github.com/Sumatoshi-tech/chainlint/pkg/syntax/kotlin"
)

func newLinter(t *testing.T, maxPasses int, rules ...lint.Rule) *lint.Linter {
	t.Helper()

	parser, err := kotlin.NewParser()
	require.NoError(t, err)

	walker, err := lint.NewWalker(rules, lint.WalkerConfig{})
	require.NoError(t, err)

	linter, err := lint.NewLinter(parser, walker, maxPasses)
	require.NoError(t, err)

	return linter
}

// rewriteRule reports calls to name and rewrites them with edits built by build.
func rewriteRule(id, name string, build func(tree *syntax.Tree, m lint.Match) lint.RewriteSpec) lint.Rule {
	rule := callRule(id, name)
	rule.Rewrite = func(ctx *lint.Context, m lint.Match) (lint.RewriteSpec, bool) {
		return build(ctx.Tree, m), true
	}

	return rule
}

func TestNewLinterNeedsParser(t *testing.T) {
	t.Parallel()

	_, err := lint.NewLinter(nil, nil, 0)
	require.ErrorIs(t, err, lint.ErrNilParser)
}

func TestLintDoesNotRewrite(t *testing.T) {
	t.Parallel()

	src := "fun t() {\n  x\n}\n"
	res, err := newLinter(t, 0, identifierRule("RenameX", "x", "y")).Lint(context.Background(), "A.kt", []byte(src))
	require.NoError(t, err)

	require.Len(t, res.Findings, 1)
	assert.True(t, res.Findings[0].AutoCorrectable)
	assert.False(t, res.Findings[0].Corrected)
	assert.Equal(t, src, string(res.Output))
	assert.Equal(t, res.Findings, res.Remaining)
	assert.False(t, res.Changed())
}

func TestLintReportsParseErrors(t *testing.T) {
	t.Parallel()

	errBroken := errors.New("broken")
	parser := lint.ParserFunc(func(context.Context, []byte) (*syntax.Tree, error) { return nil, errBroken })

	walker, err := lint.NewWalker(nil, lint.WalkerConfig{})
	require.NoError(t, err)

	linter, err := lint.NewLinter(parser, walker, 0)
	require.NoError(t, err)

	_, err = linter.Lint(context.Background(), "A.kt", nil)
	require.ErrorIs(t, err, errBroken)

	_, err = linter.Fix(context.Background(), "A.kt", nil)
	require.ErrorIs(t, err, errBroken)
}

func TestFixDefersOverlappingRewrites(t *testing.T) {
	t.Parallel()

	wrap := rewriteRule("WrapF", "f", func(tree *syntax.Tree, m lint.Match) lint.RewriteSpec {
		return lint.Rewrite(lint.Replace(tree, m.Target, "g(x)"))
	})

	linter := newLinter(t, 0, wrap, identifierRule("RenameX", "x", "y"))

	res, err := linter.Fix(context.Background(), "A.kt", []byte("fun t() {\n  f(x)\n}\n"))
	require.NoError(t, err)

	assert.Equal(t, "fun t() {\n  g(y)\n}\n", string(res.Output))
	require.Len(t, res.Findings, 2)
	assert.True(t, res.Findings[0].Corrected)
	assert.True(t, res.Findings[1].Corrected)
	assert.Equal(t, 2, res.Applied)
	assert.Equal(t, 3, res.Passes)
	assert.Empty(t, res.Remaining)
	assert.True(t, res.Changed())
}

func TestFixLeavesMootRewritesUncorrected(t *testing.T) {
	t.Parallel()

	drop := rewriteRule("DropF", "f", func(tree *syntax.Tree, m lint.Match) lint.RewriteSpec {
		return lint.Rewrite(lint.Replace(tree, m.Target, "g(1)"))
	})

	linter := newLinter(t, 0, drop, identifierRule("RenameX", "x", "y"))

	res, err := linter.Fix(context.Background(), "A.kt", []byte("fun t() {\n  f(x)\n}\n"))
	require.NoError(t, err)

	assert.Equal(t, "fun t() {\n  g(1)\n}\n", string(res.Output))
	require.Len(t, res.Findings, 2)

	corrected := map[string]bool{}
	for _, f := range res.Findings {
		corrected[f.RuleID] = f.Corrected
	}

	assert.True(t, corrected["DropF"])
	assert.False(t, corrected["RenameX"])
	assert.Equal(t, 1, res.Applied)
	assert.Empty(t, res.Remaining)
}

func TestFixAppliesDisjointRewritesInOnePass(t *testing.T) {
	t.Parallel()

	linter := newLinter(t, 0, identifierRule("RenameX", "x", "y"))

	res, err := linter.Fix(context.Background(), "A.kt", []byte("fun t() {\n  f(x, x)\n}\n"))
	require.NoError(t, err)

	assert.Equal(t, "fun t() {\n  f(y, y)\n}\n", string(res.Output))
	assert.Equal(t, 2, res.Applied)
	assert.Equal(t, 2, res.Passes)
}

func TestFixStopsAtPassLimit(t *testing.T) {
	t.Parallel()

	linter := newLinter(t, 2, identifierRule("Churn", "x", "x"))

	res, err := linter.Fix(context.Background(), "A.kt", []byte("fun t() {\n  x\n}\n"))
	require.NoError(t, err)

	require.NotEmpty(t, res.Skipped)
	assert.Equal(t, lint.ReasonPassLimit, res.Skipped[len(res.Skipped)-1].Reason)
	assert.NotEmpty(t, res.Remaining)
	assert.Equal(t, 2, res.Applied)
}

func TestFixSkipsInvalidRewrites(t *testing.T) {
	t.Parallel()

	cases := map[string]func(tree *syntax.Tree, m lint.Match) lint.RewriteSpec{
		"outside match": func(*syntax.Tree, lint.Match) lint.RewriteSpec {
			return lint.Rewrite(lint.Insert(0, "x"))
		},
		"unexpected text": func(tree *syntax.Tree, m lint.Match) lint.RewriteSpec {
			start, end := tree.Span(m.Target)

			return lint.Rewrite(lint.Edit{Start: start, End: end, Template: "g()", Expect: "h()"})
		},
		"unbound placeholder": func(tree *syntax.Tree, m lint.Match) lint.RewriteSpec {
			return lint.Rewrite(lint.Replace(tree, m.Target, "${missing}"))
		},
		"overlapping edits": func(tree *syntax.Tree, m lint.Match) lint.RewriteSpec {
			start, end := tree.Span(m.Target)

			return lint.Rewrite(lint.ReplaceRange(start, end, "a"), lint.ReplaceRange(start+1, end, "b"))
		},
		"no edits": func(*syntax.Tree, lint.Match) lint.RewriteSpec {
			return lint.RewriteSpec{}
		},
	}

	for name, build := range cases {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			src := "fun t() {\n  f()\n}\n"
			res, err := newLinter(t, 0, rewriteRule("Broken", "f", build)).Fix(context.Background(), "A.kt", []byte(src))
			require.NoError(t, err)

			require.Len(t, res.Findings, 1)
			assert.False(t, res.Findings[0].AutoCorrectable)
			require.Len(t, res.Skipped, 1)
			assert.Equal(t, "Broken", res.Skipped[0].RuleID)
			assert.Equal(t, src, string(res.Output))
		})
	}
}

func TestRewriteTemplateExpandsBindings(t *testing.T) {
	t.Parallel()

	swap := lint.Rule{
		ID:    "SwapArgs",
		Kinds: []syntax.NodeKind{syntax.KindCall},
		Match: func(ctx *lint.Context, node syntax.NodeID) (lint.Match, bool) {
			args := lint.ValueArgs(ctx.Tree, node)
			if !lint.IsCallNamed(ctx.Tree, node, "pair") || len(args) != 2 {
				return lint.Match{}, false
			}

			return lint.NewMatch(node).Bind("a", args[0]).Bind("b", args[1]), true
		},
		Rewrite: func(ctx *lint.Context, m lint.Match) (lint.RewriteSpec, bool) {
			return lint.Rewrite(lint.Replace(ctx.Tree, m.Target, "pair(${b}, ${a})")), true
		},
	}

	res, err := newLinter(t, 1, swap).Fix(context.Background(), "A.kt", []byte("fun t() {\n  pair(first,  second)\n}\n"))
	require.NoError(t, err)

	assert.Contains(t, string(res.Output), "pair(second, first)")
}

func TestFixHonoursCancellation(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newLinter(t, 0, identifierRule("RenameX", "x", "y")).Fix(ctx, "A.kt", []byte("fun t() {\n  x\n}\n"))

	require.Error(t, err)
}
