package rules

import (
	"github.com/Sumatoshi-tech/chainlint/pkg/lint"
	"github.com/Sumatoshi-tech/chainlint/pkg/syntax"
)

// FilterNotNullOverMapNotNullForFiltering rewrites mapNotNull { it } to filterNotNull().
func FilterNotNullOverMapNotNullForFiltering() lint.Rule {
	return lint.Rule{
		ID:          "FilterNotNullOverMapNotNullForFiltering",
		Severity:    lint.SeverityStyle,
		Description: "Use filterNotNull() instead of mapNotNull { it }",
		Kinds:       []syntax.NodeKind{syntax.KindCall},
		Match: func(ctx *lint.Context, id syntax.NodeID) (lint.Match, bool) {
			tree := ctx.Tree

			if !lint.IsCallNamed(tree, id, "mapNotNull") {
				return lint.Match{}, false
			}

			lambdas := lint.LambdaArgs(tree, id)
			if len(lambdas) == 0 {
				return lint.Match{}, false
			}

			statements := lint.Statements(tree, lint.LambdaBody(tree, lint.LambdaOf(tree, lambdas[0])))
			if len(statements) == 0 {
				return lint.Match{}, false
			}

			first := statements[0]
			if tree.Kind(first) != syntax.KindIdentifier || tree.Name(first) != "it" {
				return lint.Match{}, false
			}

			return lint.NewMatch(id).WithMessage("Replace mapNotNull { it } with filterNotNull()"), true
		},
		Rewrite: func(ctx *lint.Context, m lint.Match) (lint.RewriteSpec, bool) {
			return lint.Rewrite(lint.Replace(ctx.Tree, m.Target, "filterNotNull()")), true
		},
	}
}
