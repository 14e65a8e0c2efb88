package rules

import (
	"github.com/Sumatoshi-tech/chainlint/pkg/lint"
	"github.com/Sumatoshi-tech/chainlint/pkg/syntax"
)

// DoNotUseIsEqualToWhenArgumentIsOne rewrites assertThat(x).isEqualTo(1) to assertThat(x).isOne().
func DoNotUseIsEqualToWhenArgumentIsOne() lint.Rule {
	return isEqualToLiteralRule(
		"DoNotUseIsEqualToWhenArgumentIsOne",
		"Do not use isEqualTo(1), use isOne() instead.",
		IsOneLiteral,
		"isOne()",
	)
}

// DoNotUseIsEqualToWhenArgumentIsZero rewrites assertThat(x).isEqualTo(0) to assertThat(x).isZero().
func DoNotUseIsEqualToWhenArgumentIsZero() lint.Rule {
	return isEqualToLiteralRule(
		"DoNotUseIsEqualToWhenArgumentIsZero",
		"Do not use isEqualTo(0), use isZero() instead.",
		IsZeroLiteral,
		"isZero()",
	)
}

// isEqualToLiteralRule matches isEqualTo(<literal>) on an assertion. Size
// assertions are left to DoNotUseSizePropertyInAssert.
func isEqualToLiteralRule(id, description string, literal func(string) bool, replacement string) lint.Rule {
	return lint.Rule{
		ID:          id,
		Severity:    lint.SeverityStyle,
		Description: description,
		Kinds:       []syntax.NodeKind{syntax.KindDotQualified},
		Match: func(ctx *lint.Context, node syntax.NodeID) (lint.Match, bool) {
			tree := ctx.Tree

			assertCall, selector, ok := assertion(tree, node)
			if !ok || !lint.IsCallNamed(tree, selector, "isEqualTo") || usesSizeProperty(tree, assertCall) {
				return lint.Match{}, false
			}

			text, ok := singleArgText(tree, selector)
			if !ok || !literal(text) {
				return lint.Match{}, false
			}

			return lint.NewMatch(node).Bind(bindSelector, selector), true
		},
		Rewrite: func(ctx *lint.Context, m lint.Match) (lint.RewriteSpec, bool) {
			return lint.Rewrite(lint.Replace(ctx.Tree, m.Get(bindSelector), replacement)), true
		},
	}
}
