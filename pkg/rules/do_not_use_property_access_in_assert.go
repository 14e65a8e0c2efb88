package rules

import (
	"github.com/Sumatoshi-tech/chainlint/pkg/lint"
	"github.com/Sumatoshi-tech/chainlint/pkg/syntax"
)

// DoNotUsePropertyAccessInAssert rewrites assertThat(x).isNull to assertThat(x).isNull().
func DoNotUsePropertyAccessInAssert() lint.Rule {
	return lint.Rule{
		ID:          "DoNotUsePropertyAccessInAssert",
		Severity:    lint.SeverityStyle,
		Description: "Do not use property access syntax with assertion methods. Do not remove the parenthesis.",
		Kinds:       []syntax.NodeKind{syntax.KindDotQualified},
		Match: func(ctx *lint.Context, id syntax.NodeID) (lint.Match, bool) {
			_, selector, ok := assertion(ctx.Tree, id)
			if !ok || ctx.Tree.Kind(selector) != syntax.KindIdentifier {
				return lint.Match{}, false
			}

			return lint.NewMatch(id).Bind(bindSelector, selector), true
		},
		Rewrite: func(ctx *lint.Context, m lint.Match) (lint.RewriteSpec, bool) {
			return lint.Rewrite(lint.Insert(endOf(ctx.Tree, m.Get(bindSelector)), "()")), true
		},
	}
}
