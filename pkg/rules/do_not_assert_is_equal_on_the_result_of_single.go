package rules

import (
	"github.com/Sumatoshi-tech/chainlint/pkg/lint"
	"github.com/Sumatoshi-tech/chainlint/pkg/syntax"
)

// DoNotAssertIsEqualOnTheResultOfSingle rewrites
// assertThat(xs.single()).isEqualTo(y) to assertThat(xs).containsOnly(y).
func DoNotAssertIsEqualOnTheResultOfSingle() lint.Rule {
	return lint.Rule{
		ID:          "DoNotAssertIsEqualOnTheResultOfSingle",
		Severity:    lint.SeverityWarning,
		Description: "use containsOnly() instead of asserting isEqual() on the result of single()",
		Kinds:       []syntax.NodeKind{syntax.KindDotQualified},
		Match: func(ctx *lint.Context, id syntax.NodeID) (lint.Match, bool) {
			tree := ctx.Tree

			assertCall, selector, ok := assertion(tree, id)
			if !ok || !lint.IsCallNamed(tree, selector, "isEqualTo") {
				return lint.Match{}, false
			}

			inner, ok := assertedExpr(tree, assertCall)
			if !ok || tree.Kind(inner) != syntax.KindDotQualified {
				return lint.Match{}, false
			}

			list, single, _ := lint.Qualified(tree, inner)
			if !lint.IsCallNamed(tree, single, "single") || lint.HasArguments(tree, single) {
				return lint.Match{}, false
			}

			m := lint.NewMatch(id).
				Bind(bindSelector, selector).
				Bind(bindInner, inner).
				Bind(bindReceiver, list).
				Bind(bindArgs, lint.ValueArgumentList(tree, selector)).
				WithMessage("containsOnly should be used instead of asserting isEqual on the result of single()")

			return m, true
		},
		Rewrite: func(ctx *lint.Context, m lint.Match) (lint.RewriteSpec, bool) {
			tree := ctx.Tree

			return lint.Rewrite(
				lint.Delete(endOf(tree, m.Get(bindReceiver)), endOf(tree, m.Get(bindInner))),
				lint.Replace(tree, m.Get(bindSelector), "containsOnly${args}"),
			), true
		},
	}
}
