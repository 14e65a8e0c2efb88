package rules

import (
	"slices"

	"github.com/Sumatoshi-tech/chainlint/pkg/lint"
	"github.com/Sumatoshi-tech/chainlint/pkg/syntax"
)

var widerVisibilities = []string{"public", "internal", "protected"}

// NoNonPrivateGlobalVariables makes top-level properties private. Extension
// properties are exempt.
func NoNonPrivateGlobalVariables() lint.Rule {
	return lint.Rule{
		ID:          "NoNonPrivateGlobalVariables",
		Severity:    lint.SeverityCodeSmell,
		Description: "Global variables should be private",
		Kinds:       []syntax.NodeKind{syntax.KindProperty},
		Match: func(ctx *lint.Context, id syntax.NodeID) (lint.Match, bool) {
			tree := ctx.Tree

			if tree.Kind(tree.Parent(id)) != syntax.KindFile || tree.ChildByField(id, syntax.FieldReceiver).Valid() {
				return lint.Match{}, false
			}

			if slices.Contains(modifierNames(tree, id), "private") {
				return lint.Match{}, false
			}

			return lint.NewMatch(id), true
		},
		Rewrite: func(ctx *lint.Context, m lint.Match) (lint.RewriteSpec, bool) {
			tree := ctx.Tree
			mods := tree.ChildOfKind(m.Target, syntax.KindModifierList)

			for _, mod := range tree.ChildrenOfKind(mods, syntax.KindModifier) {
				if slices.Contains(widerVisibilities, tree.Name(mod)) {
					return lint.Rewrite(lint.Replace(tree, mod, "private")), true
				}
			}

			if first := tree.ChildOfKind(mods, syntax.KindModifier); first.Valid() {
				return lint.Rewrite(lint.Insert(startOf(tree, first), "private ")), true
			}

			return lint.Rewrite(lint.Insert(keywordOffset(tree, m.Target, mods), "private ")), true
		},
	}
}

func modifierNames(tree *syntax.Tree, decl syntax.NodeID) []string {
	var names []string

	mods := tree.ChildOfKind(decl, syntax.KindModifierList)
	for _, mod := range tree.ChildrenOfKind(mods, syntax.KindModifier) {
		names = append(names, tree.Name(mod))
	}

	return names
}

// keywordOffset returns where the val or var keyword of a property starts.
func keywordOffset(tree *syntax.Tree, property, mods syntax.NodeID) int {
	if !mods.Valid() {
		return startOf(tree, property)
	}

	src := tree.Source()
	end := endOf(tree, property)
	offset := endOf(tree, mods)

	for offset < end && isSpace(src[offset]) {
		offset++
	}

	return offset
}

func isSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r'
}
