package rules

import (
	"github.com/Sumatoshi-tech/chainlint/pkg/lint"
	"github.com/Sumatoshi-tech/chainlint/pkg/syntax"
)

// GetOrDefaultShouldBeReplacedWithGetOrElse reports map.getOrDefault(key, value).
func GetOrDefaultShouldBeReplacedWithGetOrElse() lint.Rule {
	return lint.Rule{
		ID:          "GetOrDefaultShouldBeReplacedWithGetOrElse",
		Aliases:     []string{"USE_GET_OR_ELSE_INSTEAD_OF_GET_OR_DEFAULT"},
		Severity:    lint.SeverityWarning,
		Description: "replace map.getOrDefault(key, defaultValue) with map.getOrElse(key) { defaultValue }",
		Kinds:       []syntax.NodeKind{syntax.KindDotQualified, syntax.KindSafeQualified},
		Match: func(ctx *lint.Context, id syntax.NodeID) (lint.Match, bool) {
			tree := ctx.Tree

			receiver, selector, ok := lint.Qualified(tree, id)
			if !ok || !tree.Is(receiver, syntax.KindIdentifier, syntax.KindCall) {
				return lint.Match{}, false
			}

			if !lint.IsCallNamed(tree, selector, "getOrDefault") || len(lint.ValueArgs(tree, selector)) != 2 {
				return lint.Match{}, false
			}

			return lint.NewMatch(id), true
		},
	}
}
