package rules

import (
	"strings"

	"github.com/Sumatoshi-tech/chainlint/pkg/lint"
	"github.com/Sumatoshi-tech/chainlint/pkg/syntax"
)

// NoNullableLambdaWithDefaultNull reports cb: ((T) -> Unit)? = null parameters.
func NoNullableLambdaWithDefaultNull() lint.Rule {
	return lint.Rule{
		ID:       "NoNullableLambdaWithDefaultNull",
		Aliases:  []string{"NO_NULLABLE_CALLBACK_WITH_DEFAULT_NULL"},
		Severity: lint.SeverityStyle,
		Description: "Instead of using nullable callbacks with default value of null, " +
			"use non-nullable callbacks with a default empty lambda.",
		Kinds: []syntax.NodeKind{syntax.KindParameter},
		Match: func(ctx *lint.Context, id syntax.NodeID) (lint.Match, bool) {
			tree := ctx.Tree

			if tree.Text(tree.ChildByField(id, syntax.FieldDefault)) != "null" {
				return lint.Match{}, false
			}

			nullable := tree.ChildByField(id, syntax.FieldType)
			if tree.Kind(nullable) != syntax.KindNullableType {
				return lint.Match{}, false
			}

			fn := tree.Child(nullable, 0)
			if tree.Kind(fn) != syntax.KindFunctionType {
				return lint.Match{}, false
			}

			text := tree.Text(fn)
			if !strings.HasPrefix(text, "(") || !strings.HasSuffix(text, ") -> Unit") {
				return lint.Match{}, false
			}

			m := lint.NewMatch(id).WithMessage(
				"Replace 'null' with an empty lambda expression '{}' for the default value of the function parameter.")

			return m, true
		},
	}
}
