package rules

import (
	"github.com/Sumatoshi-tech/chainlint/pkg/lint"
	"github.com/Sumatoshi-tech/chainlint/pkg/syntax"
)

// DoNotUseHasSizeForEmptyListInAssert rewrites assertThat(xs).hasSize(0) to assertThat(xs).isEmpty().
func DoNotUseHasSizeForEmptyListInAssert() lint.Rule {
	return lint.Rule{
		ID:          "DoNotUseHasSizeForEmptyListInAssert",
		Severity:    lint.SeverityStyle,
		Description: "Do not call hasSize(0) on an empty collection, call isEmpty().",
		Kinds:       []syntax.NodeKind{syntax.KindDotQualified},
		Match: func(ctx *lint.Context, id syntax.NodeID) (lint.Match, bool) {
			tree := ctx.Tree

			_, selector, ok := assertion(tree, id)
			if !ok || !lint.IsCallNamed(tree, selector, "hasSize") {
				return lint.Match{}, false
			}

			args := lint.ValueArgs(tree, selector)
			if len(args) == 0 || tree.Text(lint.ArgExpr(tree, args[0])) != "0" {
				return lint.Match{}, false
			}

			return lint.NewMatch(id).Bind(bindSelector, selector), true
		},
		Rewrite: func(ctx *lint.Context, m lint.Match) (lint.RewriteSpec, bool) {
			return lint.Rewrite(lint.Replace(ctx.Tree, m.Get(bindSelector), "isEmpty()")), true
		},
	}
}
