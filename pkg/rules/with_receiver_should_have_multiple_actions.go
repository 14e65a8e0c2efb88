package rules

import (
	"github.com/Sumatoshi-tech/chainlint/pkg/lint"
	"github.com/Sumatoshi-tech/chainlint/pkg/syntax"
)

// WithReceiverShouldHaveMultipleActions reports with blocks holding at most
// one statement. The finding is placed on the with call.
func WithReceiverShouldHaveMultipleActions() lint.Rule {
	return lint.Rule{
		ID:          "WithReceiverShouldHaveMultipleActions",
		Severity:    lint.SeverityStyle,
		Description: "With block receiver should have multiple actions",
		Kinds:       []syntax.NodeKind{syntax.KindBlock},
		Match: func(ctx *lint.Context, id syntax.NodeID) (lint.Match, bool) {
			tree := ctx.Tree

			call := tree.NearestAncestor(id, syntax.KindCall)
			if !lint.IsCallNamed(tree, call, "with") || len(lint.Statements(tree, id)) > 1 {
				return lint.Match{}, false
			}

			return lint.NewMatch(call), true
		},
	}
}
