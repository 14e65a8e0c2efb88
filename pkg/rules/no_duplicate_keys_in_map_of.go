package rules

import (
	"github.com/Sumatoshi-tech/chainlint/pkg/lint"
	"github.com/Sumatoshi-tech/chainlint/pkg/syntax"
)

// NoDuplicateKeysInMapOf reports entries of mapOf(...) whose key repeats an
// earlier one. Keys built by calls are skipped since they may differ per call.
func NoDuplicateKeysInMapOf() lint.Rule {
	return lint.Rule{
		ID:          "NoDuplicateKeysInMapOf",
		Severity:    lint.SeverityWarning,
		Description: "NoDuplicateKeysInMapOf",
		Kinds:       []syntax.NodeKind{syntax.KindValueArgument},
		Match: func(ctx *lint.Context, id syntax.NodeID) (lint.Match, bool) {
			tree := ctx.Tree

			list := tree.Parent(id)
			if !lint.IsCallNamed(tree, tree.Parent(list), "mapOf", "mutableMapOf") {
				return lint.Match{}, false
			}

			key, ok := mapKey(tree, id)
			if !ok {
				return lint.Match{}, false
			}

			text := tree.Text(key)

			for _, sibling := range tree.ChildrenOfKind(list, syntax.KindValueArgument) {
				if sibling == id {
					break
				}

				if earlier, ok := mapKey(tree, sibling); ok && tree.Text(earlier) == text {
					return lint.NewMatch(id).WithMessage("The key %s is duplicated in the map.", text), true
				}
			}

			return lint.Match{}, false
		},
	}
}

// mapKey returns the key of a "k to v" entry, or the whole argument otherwise.
func mapKey(tree *syntax.Tree, arg syntax.NodeID) (syntax.NodeID, bool) {
	key := lint.ArgExpr(tree, arg)
	if tree.Kind(key) == syntax.KindBinary {
		key = tree.Child(key, 0)
	}

	if !key.Valid() || tree.Is(key, syntax.KindCall, syntax.KindDotQualified, syntax.KindSafeQualified) {
		return syntax.NoNode, false
	}

	return key, true
}
