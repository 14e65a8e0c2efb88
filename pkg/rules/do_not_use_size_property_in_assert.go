package rules

import (
	"strconv"
	"strings"

	"github.com/Sumatoshi-tech/chainlint/pkg/lint"
	"github.com/Sumatoshi-tech/chainlint/pkg/syntax"
)

var sizedTypes = []string{"kotlin.collections.Collection", "kotlin.collections.Map"}

// DoNotUseSizePropertyInAssert reports assertThat(xs.size).isEqualTo(n) on
// collections and maps, where hasSize(n) reads better.
//
// A bare "size" is resolved against the enclosing with receiver first and the
// supertypes of the enclosing class second.
func DoNotUseSizePropertyInAssert() lint.Rule {
	return lint.Rule{
		ID:                 "DoNotUseSizePropertyInAssert",
		Severity:           lint.SeverityStyle,
		Description:        "Do not use size property in assertion, use hasSize() instead.",
		Kinds:              []syntax.NodeKind{syntax.KindDotQualified},
		RequiresTypeOracle: true,
		Match: func(ctx *lint.Context, id syntax.NodeID) (lint.Match, bool) {
			tree := ctx.Tree

			assertCall, selector, ok := assertion(tree, id)
			if !ok || !usesSizeProperty(tree, assertCall) || !assertsNumber(tree, selector) {
				return lint.Match{}, false
			}

			sized, _ := assertedExpr(tree, assertCall)
			if !sizeOwnerIsSized(ctx, sized) {
				return lint.Match{}, false
			}

			return lint.NewMatch(id), true
		},
	}
}

func assertsNumber(tree *syntax.Tree, selector syntax.NodeID) bool {
	switch lint.CallName(tree, selector) {
	case "isZero":
		return true
	case "isEqualTo":
		text, ok := singleArgText(tree, selector)
		if !ok {
			return false
		}

		_, err := strconv.Atoi(strings.TrimSuffix(text, "L"))

		return err == nil
	default:
		return false
	}
}

func sizeOwnerIsSized(ctx *lint.Context, sized syntax.NodeID) bool {
	tree := ctx.Tree

	if owner, _, ok := lint.Qualified(tree, sized); ok {
		t, known := ctx.ResolveType(owner)

		return known && t.IsSubtypeOf(sizedTypes...)
	}

	for cur := tree.Parent(sized); cur.Valid(); cur = tree.Parent(cur) {
		if receiver, ok := withArgument(tree, cur); ok {
			t, known := ctx.ResolveType(receiver)

			return known && t.IsSubtypeOf(sizedTypes...)
		}
	}

	class := tree.NearestAncestor(sized, syntax.KindClass, syntax.KindObject)
	for _, child := range tree.Children(class) {
		if tree.Field(child) != syntax.FieldSupertype {
			continue
		}

		if t, known := ctx.ResolveType(child); known && t.IsSubtypeOf(sizedTypes...) {
			return true
		}
	}

	return false
}
