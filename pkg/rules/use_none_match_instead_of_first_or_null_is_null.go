package rules

import (
	"github.com/Sumatoshi-tech/chainlint/pkg/lint"
	"github.com/Sumatoshi-tech/chainlint/pkg/syntax"
)

// UseNoneMatchInsteadOfFirstOrNullIsNull rewrites
// assertThat(xs.firstOrNull { p }).isNull() to assertThat(xs).noneMatch { p }.
func UseNoneMatchInsteadOfFirstOrNullIsNull() lint.Rule {
	return lint.Rule{
		ID:       "UseNoneMatchInsteadOfFirstOrNullIsNull",
		Severity: lint.SeverityStyle,
		Description: "Use assertThat(collection).noneMatch { predicate } instead of " +
			"assertThat(collection.firstOrNull { predicate }).isNull()",
		Kinds: []syntax.NodeKind{syntax.KindDotQualified},
		Match: func(ctx *lint.Context, id syntax.NodeID) (lint.Match, bool) {
			tree := ctx.Tree

			assertCall, selector, ok := assertion(tree, id)
			if !ok || tree.Text(selector) != "isNull()" {
				return lint.Match{}, false
			}

			inner, ok := assertedExpr(tree, assertCall)
			if !ok || tree.Kind(inner) != syntax.KindDotQualified {
				return lint.Match{}, false
			}

			collection, firstOrNull, _ := lint.Qualified(tree, inner)
			if !lint.IsCallNamed(tree, firstOrNull, "firstOrNull") || !lint.HasArguments(tree, firstOrNull) ||
				len(lint.LambdaArgs(tree, firstOrNull)) > 1 {
				return lint.Match{}, false
			}

			m := lint.NewMatch(id).
				Bind(bindSelector, selector).
				Bind(bindInner, inner).
				Bind(bindReceiver, collection)

			return bindTrailingArgs(tree, m, firstOrNull), true
		},
		Rewrite: func(ctx *lint.Context, m lint.Match) (lint.RewriteSpec, bool) {
			tree := ctx.Tree

			return lint.Rewrite(
				lint.Delete(endOf(tree, m.Get(bindReceiver)), endOf(tree, m.Get(bindInner))),
				lint.Replace(tree, m.Get(bindSelector), trailingArgsTemplate(m, "noneMatch")),
			), true
		},
	}
}
