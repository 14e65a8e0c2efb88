package lint

import (
	"slices"

	"github.com/Sumatoshi-tech/chainlint/pkg/syntax"
)

// Qualified splits a dot or safe qualified expression into receiver and selector.
func Qualified(tree *syntax.Tree, id syntax.NodeID) (receiver, selector syntax.NodeID, ok bool) {
	if !tree.Kind(id).IsQualified() || len(tree.Children(id)) != 2 {
		return syntax.NoNode, syntax.NoNode, false
	}

	return tree.Child(id, 0), tree.Child(id, 1), true
}

// CallName returns the simple callee name of a call, or "" when the callee is
// not a plain identifier.
func CallName(tree *syntax.Tree, call syntax.NodeID) string {
	if tree.Kind(call) != syntax.KindCall {
		return ""
	}

	callee := tree.Child(call, 0)
	if tree.Kind(callee) != syntax.KindIdentifier {
		return ""
	}

	return tree.Name(callee)
}

// Callee returns the callee node of a call.
func Callee(tree *syntax.Tree, call syntax.NodeID) syntax.NodeID {
	if tree.Kind(call) != syntax.KindCall {
		return syntax.NoNode
	}

	return tree.Child(call, 0)
}

// ReferenceName mirrors how a selector is referred to: the callee name for a
// call, the name for an identifier, "" for anything else.
func ReferenceName(tree *syntax.Tree, id syntax.NodeID) string {
	switch tree.Kind(id) {
	case syntax.KindCall:
		return CallName(tree, id)
	case syntax.KindIdentifier:
		return tree.Name(id)
	default:
		return ""
	}
}

// IsCallNamed reports whether id is a call whose callee is one of names.
func IsCallNamed(tree *syntax.Tree, id syntax.NodeID, names ...string) bool {
	name := CallName(tree, id)

	return name != "" && slices.Contains(names, name)
}

// IsAssertThat reports whether id is a direct assertThat(...) call.
func IsAssertThat(tree *syntax.Tree, id syntax.NodeID) bool {
	return IsCallNamed(tree, id, "assertThat")
}

// ValueArgumentList returns the parenthesised argument list of a call.
func ValueArgumentList(tree *syntax.Tree, call syntax.NodeID) syntax.NodeID {
	if tree.Kind(call) != syntax.KindCall {
		return syntax.NoNode
	}

	return tree.ChildOfKind(call, syntax.KindValueArgumentList)
}

// ValueArgs returns the value arguments in parentheses, excluding trailing lambdas.
func ValueArgs(tree *syntax.Tree, call syntax.NodeID) []syntax.NodeID {
	list := ValueArgumentList(tree, call)
	if !list.Valid() {
		return nil
	}

	return tree.ChildrenOfKind(list, syntax.KindValueArgument)
}

// SingleValueArg returns the only value argument of a call.
func SingleValueArg(tree *syntax.Tree, call syntax.NodeID) (syntax.NodeID, bool) {
	args := ValueArgs(tree, call)
	if len(args) != 1 {
		return syntax.NoNode, false
	}

	return args[0], true
}

// ArgExpr returns the expression of a value argument.
func ArgExpr(tree *syntax.Tree, arg syntax.NodeID) syntax.NodeID {
	if tree.Kind(arg) != syntax.KindValueArgument {
		return syntax.NoNode
	}

	return tree.LastChild(arg)
}

// LambdaArgs returns the trailing lambda arguments of a call.
func LambdaArgs(tree *syntax.Tree, call syntax.NodeID) []syntax.NodeID {
	if tree.Kind(call) != syntax.KindCall {
		return nil
	}

	return tree.ChildrenOfKind(call, syntax.KindLambdaArgument)
}

// LambdaOf returns the lambda literal inside a lambda argument, looking
// through labels and annotations.
func LambdaOf(tree *syntax.Tree, lambdaArg syntax.NodeID) syntax.NodeID {
	found := syntax.NoNode

	tree.VisitPreOrder(lambdaArg, func(id syntax.NodeID) bool {
		if found.Valid() {
			return false
		}

		if tree.Kind(id) == syntax.KindLambda {
			found = id

			return false
		}

		return true
	})

	return found
}

// LambdaBody returns the statement block of a lambda.
func LambdaBody(tree *syntax.Tree, lambda syntax.NodeID) syntax.NodeID {
	return tree.ChildByField(lambda, syntax.FieldBody)
}

// Statements returns the statements of a block.
func Statements(tree *syntax.Tree, block syntax.NodeID) []syntax.NodeID {
	if tree.Kind(block) != syntax.KindBlock {
		return nil
	}

	return tree.Children(block)
}

// LastCall returns the trailing call of an expression: the selector of a
// qualified expression or the expression itself when it is a call.
func LastCall(tree *syntax.Tree, expr syntax.NodeID) syntax.NodeID {
	if _, selector, ok := Qualified(tree, expr); ok {
		expr = selector
	}

	if tree.Kind(expr) != syntax.KindCall {
		return syntax.NoNode
	}

	return expr
}

// HasArguments reports whether a call passes anything, in parentheses or as a lambda.
func HasArguments(tree *syntax.Tree, call syntax.NodeID) bool {
	return len(ValueArgs(tree, call)) > 0 || len(LambdaArgs(tree, call)) > 0
}

// PackageName returns the package the file declares, or "" for the root package.
func PackageName(tree *syntax.Tree) string {
	if pkg := tree.ChildOfKind(tree.Root(), syntax.KindPackage); pkg.Valid() {
		return tree.Name(pkg)
	}

	return ""
}
