package rules

import (
	"github.com/Sumatoshi-tech/chainlint/pkg/lint"
	"github.com/Sumatoshi-tech/chainlint/pkg/syntax"
)

// ReturnValueOfLetMustBeUsed reports let calls whose result is discarded.
func ReturnValueOfLetMustBeUsed() lint.Rule {
	return lint.Rule{
		ID:          "ReturnValueOfLetMustBeUsed",
		Severity:    lint.SeverityStyle,
		Description: "Must use return value of let",
		Kinds:       []syntax.NodeKind{syntax.KindCall},
		Match: func(ctx *lint.Context, id syntax.NodeID) (lint.Match, bool) {
			if !lint.IsCallNamed(ctx.Tree, id, "let") || letValueUsed(ctx.Tree, id) {
				return lint.Match{}, false
			}

			return lint.NewMatch(id), true
		},
	}
}

// letValueUsed walks up from a let call until an ancestor consumes its value.
func letValueUsed(tree *syntax.Tree, call syntax.NodeID) bool {
	child := call

	for parent := tree.Parent(call); parent.Valid(); child, parent = parent, tree.Parent(parent) {
		switch kind := tree.Kind(parent); {
		case kind == syntax.KindReturn,
			kind == syntax.KindProperty,
			kind == syntax.KindBinary,
			kind == syntax.KindAssignment,
			kind == syntax.KindValueArgument,
			kind == syntax.KindLambdaArgument,
			kind == syntax.KindStringTemplate,
			kind == syntax.KindDestructuring:
			return true
		case kind == syntax.KindParameter && tree.Field(child) == syntax.FieldDefault:
			return true
		case kind.IsQualified() && tree.Child(parent, 0) == child:
			return true
		case kind == syntax.KindFunction && tree.Op(parent) == "=":
			return true
		}
	}

	return false
}
