package rules

import (
	"strings"

	"github.com/Sumatoshi-tech/chainlint/pkg/lint"
	"github.com/Sumatoshi-tech/chainlint/pkg/syntax"
)

// Binding names shared by the chain rules.
const (
	bindReceiver = "receiver"
	bindSelector = "selector"
	bindCall     = "call"
	bindInner    = "inner"
	bindArgs     = "args"
	bindLambda   = "lambda"
	bindValue    = "value"
)

// assertion splits "assertThat(x).sel" into the assertThat call and the selector.
func assertion(tree *syntax.Tree, id syntax.NodeID) (assertCall, selector syntax.NodeID, ok bool) {
	receiver, selector, ok := lint.Qualified(tree, id)
	if !ok || !lint.IsAssertThat(tree, receiver) {
		return syntax.NoNode, syntax.NoNode, false
	}

	return receiver, selector, true
}

// assertedExpr returns the single argument expression of an assertThat call.
func assertedExpr(tree *syntax.Tree, assertCall syntax.NodeID) (syntax.NodeID, bool) {
	arg, ok := lint.SingleValueArg(tree, assertCall)
	if !ok {
		return syntax.NoNode, false
	}

	expr := lint.ArgExpr(tree, arg)

	return expr, expr.Valid()
}

// singleArgText returns the text of the only value argument of call.
func singleArgText(tree *syntax.Tree, call syntax.NodeID) (string, bool) {
	arg, ok := lint.SingleValueArg(tree, call)
	if !ok {
		return "", false
	}

	return strings.TrimSpace(tree.Text(arg)), true
}

// usesSizeProperty reports whether assertThat is applied to "size" or "x.size".
func usesSizeProperty(tree *syntax.Tree, assertCall syntax.NodeID) bool {
	expr, ok := assertedExpr(tree, assertCall)
	if !ok {
		return false
	}

	if tree.Kind(expr) == syntax.KindIdentifier {
		return tree.Name(expr) == "size"
	}

	_, selector, ok := lint.Qualified(tree, expr)

	return ok && tree.Kind(selector) == syntax.KindIdentifier && tree.Name(selector) == "size"
}

// selectorText returns the selector of a qualified expression and its text.
func selectorText(tree *syntax.Tree, id syntax.NodeID) (receiver, selector syntax.NodeID, text string, ok bool) {
	receiver, selector, ok = lint.Qualified(tree, id)
	if !ok {
		return syntax.NoNode, syntax.NoNode, "", false
	}

	return receiver, selector, tree.Text(selector), true
}

// innerCall returns the selector call of receiver when it is a qualified
// call to one of names.
func innerCall(tree *syntax.Tree, receiver syntax.NodeID, names ...string) (syntax.NodeID, bool) {
	_, selector, ok := lint.Qualified(tree, receiver)
	if !ok || !lint.IsCallNamed(tree, selector, names...) {
		return syntax.NoNode, false
	}

	return selector, true
}

// bindTrailingArgs binds the arguments of call for trailingArgsTemplate: the
// lambda when there is exactly one, the parenthesised list otherwise.
func bindTrailingArgs(tree *syntax.Tree, m lint.Match, call syntax.NodeID) lint.Match {
	if lambdas := lint.LambdaArgs(tree, call); len(lambdas) == 1 {
		return m.Bind(bindLambda, lambdas[0])
	}

	if list := lint.ValueArgumentList(tree, call); list.Valid() {
		return m.Bind(bindArgs, list)
	}

	return m
}

// trailingArgsTemplate renders fn applied to the arguments bound by bindTrailingArgs.
func trailingArgsTemplate(m lint.Match, fn string) string {
	if m.Get(bindLambda).Valid() {
		return fn + " ${" + bindLambda + "}"
	}

	return fn + "${" + bindArgs + "}"
}

// endOf returns the end offset of id.
func endOf(tree *syntax.Tree, id syntax.NodeID) int {
	_, end := tree.Span(id)

	return end
}

// startOf returns the start offset of id.
func startOf(tree *syntax.Tree, id syntax.NodeID) int {
	start, _ := tree.Span(id)

	return start
}

// withArgument returns the receiver argument of an unqualified with(x) call.
func withArgument(tree *syntax.Tree, call syntax.NodeID) (syntax.NodeID, bool) {
	if !lint.IsCallNamed(tree, call, "with") || tree.Is(tree.Parent(call), syntax.KindDotQualified) {
		return syntax.NoNode, false
	}

	args := lint.ValueArgs(tree, call)
	if len(args) == 0 {
		return syntax.NoNode, false
	}

	expr := lint.ArgExpr(tree, args[0])

	return expr, expr.Valid()
}
