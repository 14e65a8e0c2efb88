package rules

import (
	"strings"

	"github.com/Sumatoshi-tech/chainlint/pkg/lint"
	"github.com/Sumatoshi-tech/chainlint/pkg/syntax"
)

// NoPairWithAmbiguousTypes reports Pair<T, T> and Pair<Any, _> in function
// signatures. Findings land on the function, one per offending parameter.
func NoPairWithAmbiguousTypes() lint.Rule {
	return lint.Rule{
		ID:          "NoPairWithAmbiguousTypes",
		Severity:    lint.SeverityWarning,
		Description: "This rule prevents developers from using Pair<T, T> or Pair with an Any type parameter",
		Kinds:       []syntax.NodeKind{syntax.KindFunction, syntax.KindParameter},
		Match: func(ctx *lint.Context, id syntax.NodeID) (lint.Match, bool) {
			tree := ctx.Tree

			if tree.Kind(id) == syntax.KindFunction {
				if !isAmbiguousPair(tree, tree.ChildByField(id, syntax.FieldReturnType)) {
					return lint.Match{}, false
				}

				m := lint.NewMatch(id).
					WithMessage("The function %s has a return type which should be a class instead", tree.Name(id))

				return m, true
			}

			params := tree.Parent(id)
			fn := tree.Parent(params)

			if tree.Field(params) != syntax.FieldParameters || tree.Kind(fn) != syntax.KindFunction {
				return lint.Match{}, false
			}

			if !isAmbiguousPair(tree, tree.ChildByField(id, syntax.FieldType)) {
				return lint.Match{}, false
			}

			m := lint.NewMatch(fn).WithMessage("The function %s has parameter %s which should be a class instead",
				tree.Name(fn), tree.Name(id))

			return m, true
		},
	}
}

func isAmbiguousPair(tree *syntax.Tree, typ syntax.NodeID) bool {
	typ = unwrapNullable(tree, typ)
	if tree.Kind(typ) != syntax.KindUserType || tree.Name(typ) != "Pair" {
		return false
	}

	var entries []string

	for _, arg := range tree.Children(typ) {
		arg = unwrapNullable(tree, arg)
		if tree.Kind(arg) != syntax.KindUserType {
			continue
		}

		var generics []string
		for _, generic := range tree.Children(arg) {
			generics = append(generics, tree.Text(generic))
		}

		entries = append(entries, tree.Name(arg)+":["+strings.Join(generics, ", ")+"]")
	}

	if len(entries) == 2 && entries[0] == entries[1] {
		return true
	}

	for _, entry := range entries {
		if entry == "Any:[]" {
			return true
		}
	}

	return false
}

func unwrapNullable(tree *syntax.Tree, typ syntax.NodeID) syntax.NodeID {
	if tree.Kind(typ) == syntax.KindNullableType {
		return tree.Child(typ, 0)
	}

	return typ
}
