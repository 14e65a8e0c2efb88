package rules

import (
	"github.com/Sumatoshi-tech/chainlint/pkg/lint"
	"github.com/Sumatoshi-tech/chainlint/pkg/syntax"
)

// AlwaysUseIsTrueOrIsFalse rewrites assertThat(x).isEqualTo(true) to assertThat(x).isTrue().
func AlwaysUseIsTrueOrIsFalse() lint.Rule {
	return lint.Rule{
		ID:          "AlwaysUseIsTrueOrIsFalse",
		Severity:    lint.SeverityStyle,
		Description: "Do not use isEqualTo(true) or isEqualTo(false), use isTrue() or isFalse()",
		Kinds:       []syntax.NodeKind{syntax.KindDotQualified},
		Match: func(ctx *lint.Context, id syntax.NodeID) (lint.Match, bool) {
			tree := ctx.Tree

			_, selector, ok := assertion(tree, id)
			if !ok || !lint.IsCallNamed(tree, selector, "isEqualTo") {
				return lint.Match{}, false
			}

			arg, ok := lint.SingleValueArg(tree, selector)
			if !ok {
				return lint.Match{}, false
			}

			if text := tree.Text(arg); text != "true" && text != "false" {
				return lint.Match{}, false
			}

			return lint.NewMatch(id).Bind(bindSelector, selector).Bind(bindValue, arg), true
		},
		Rewrite: func(ctx *lint.Context, m lint.Match) (lint.RewriteSpec, bool) {
			replacement := "isFalse()"
			if ctx.Text(m.Get(bindValue)) == "true" {
				replacement = "isTrue()"
			}

			return lint.Rewrite(lint.Replace(ctx.Tree, m.Get(bindSelector), replacement)), true
		},
	}
}
