package rules

import (
	"strings"

	"github.com/Sumatoshi-tech/chainlint/pkg/lint"
	"github.com/Sumatoshi-tech/chainlint/pkg/syntax"
)

// NoExtensionFunctionOnNullableReceiver reports fun T?.f(): R? declarations.
func NoExtensionFunctionOnNullableReceiver() lint.Rule {
	return lint.Rule{
		ID:          "NoExtensionFunctionOnNullableReceiver",
		Severity:    lint.SeverityWarning,
		Description: "This rule reports extension functions on nullable types.",
		Kinds:       []syntax.NodeKind{syntax.KindFunction},
		Match: func(ctx *lint.Context, id syntax.NodeID) (lint.Match, bool) {
			tree := ctx.Tree

			receiver := tree.ChildByField(id, syntax.FieldReceiver)
			returns := tree.ChildByField(id, syntax.FieldReturnType)

			if !receiver.Valid() || !returns.Valid() {
				return lint.Match{}, false
			}

			if !strings.HasSuffix(tree.Text(receiver), "?") || !strings.HasSuffix(tree.Text(returns), "?") {
				return lint.Match{}, false
			}

			return lint.NewMatch(id).WithMessage("No extension functions on nullable types"), true
		},
	}
}
