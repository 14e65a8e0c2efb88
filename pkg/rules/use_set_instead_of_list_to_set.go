package rules

import (
	"github.com/Sumatoshi-tech/chainlint/pkg/lint"
	"github.com/Sumatoshi-tech/chainlint/pkg/syntax"
)

// UseSetInsteadOfListToSet rewrites x.list().toSet() to x.set().
func UseSetInsteadOfListToSet() lint.Rule {
	return lint.Rule{
		ID:          "UseSetInsteadOfListToSet",
		Severity:    lint.SeverityStyle,
		Description: "Use set() instead of list().toSet()",
		Kinds:       []syntax.NodeKind{syntax.KindDotQualified, syntax.KindSafeQualified},
		Match: func(ctx *lint.Context, id syntax.NodeID) (lint.Match, bool) {
			tree := ctx.Tree

			receiver, _, text, ok := selectorText(tree, id)
			if !ok || text != "toSet()" {
				return lint.Match{}, false
			}

			list := lint.LastCall(tree, receiver)
			if tree.Text(list) != "list()" {
				return lint.Match{}, false
			}

			return lint.NewMatch(id).Bind(bindReceiver, receiver).Bind(bindCall, list), true
		},
		Rewrite: func(ctx *lint.Context, m lint.Match) (lint.RewriteSpec, bool) {
			tree := ctx.Tree

			return lint.Rewrite(
				lint.Replace(tree, m.Get(bindCall), "set()"),
				lint.Delete(endOf(tree, m.Get(bindReceiver)), endOf(tree, m.Target)),
			), true
		},
	}
}
