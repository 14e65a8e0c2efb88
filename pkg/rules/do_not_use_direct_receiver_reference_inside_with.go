package rules

import (
	"github.com/Sumatoshi-tech/chainlint/pkg/lint"
	"github.com/Sumatoshi-tech/chainlint/pkg/syntax"
)

var receiverReferenceKinds = []syntax.NodeKind{
	syntax.KindCall, syntax.KindDotQualified, syntax.KindSafeQualified, syntax.KindCallableReference,
	syntax.KindIdentifier, syntax.KindThis, syntax.KindLiteral, syntax.KindStringTemplate,
	syntax.KindBinary, syntax.KindUnary, syntax.KindParenthesized, syntax.KindLambda,
	syntax.KindReturn, syntax.KindConditional,
}

// DoNotUseDirectReceiverReferenceInsideWith reports expressions inside a
// with(x) { ... } block that spell the receiver x again.
//
// Each unqualified with call pushes its receiver text on the rule scope for
// its subtree, so nested with blocks see every enclosing receiver.
func DoNotUseDirectReceiverReferenceInsideWith() lint.Rule {
	return lint.Rule{
		ID:          "DoNotUseDirectReceiverReferenceInsideWith",
		Severity:    lint.SeverityWarning,
		Description: "Do not use a direct receiver reference inside a with block, instead use the properties",
		Kinds:       receiverReferenceKinds,
		EnterKinds:  []syntax.NodeKind{syntax.KindCall},
		Enter: func(ctx *lint.Context, id syntax.NodeID) (*lint.Scope, bool) {
			receiver, ok := withArgument(ctx.Tree, id)
			if !ok {
				return nil, false
			}

			return ctx.Scope.Push(ctx.Text(receiver)), true
		},
		Match: func(ctx *lint.Context, id syntax.NodeID) (lint.Match, bool) {
			if ctx.Scope.Len() == 0 || !ctx.Scope.Contains(ctx.Text(id)) {
				return lint.Match{}, false
			}

			if isWithReceiverArgument(ctx.Tree, id) || isSelector(ctx.Tree, id) {
				return lint.Match{}, false
			}

			return lint.NewMatch(id), true
		},
	}
}

// isWithReceiverArgument reports whether id is the argument of with(id).
func isWithReceiverArgument(tree *syntax.Tree, id syntax.NodeID) bool {
	arg := tree.Parent(id)
	if tree.Kind(arg) != syntax.KindValueArgument {
		return false
	}

	list := tree.Parent(arg)
	if tree.Kind(list) != syntax.KindValueArgumentList {
		return false
	}

	receiver, ok := withArgument(tree, tree.Parent(list))

	return ok && receiver == id
}

func isSelector(tree *syntax.Tree, id syntax.NodeID) bool {
	_, selector, ok := lint.Qualified(tree, tree.Parent(id))

	return ok && selector == id
}
