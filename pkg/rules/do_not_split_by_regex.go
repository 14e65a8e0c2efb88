package rules

import (
	"github.com/Sumatoshi-tech/chainlint/pkg/lint"
	"github.com/Sumatoshi-tech/chainlint/pkg/syntax"
)

const (
	typeString = "kotlin.String"
	typeRegex  = "kotlin.text.Regex"
)

// DoNotSplitByRegex reports String.split calls that pass a Regex.
func DoNotSplitByRegex() lint.Rule {
	return lint.Rule{
		ID:       "DoNotSplitByRegex",
		Severity: lint.SeverityPerformance,
		Description: "use string literals in split() whenever possible for better performance and less memory. " +
			"If you have to use regexes, suppress the rule by @Suppress(\"DoNotSplitByRegex\"), and make sure " +
			"the regex is initialized only once (i.e. statically).",
		Kinds:              []syntax.NodeKind{syntax.KindCall},
		RequiresTypeOracle: true,
		Match: func(ctx *lint.Context, id syntax.NodeID) (lint.Match, bool) {
			tree := ctx.Tree

			if !lint.IsCallNamed(tree, id, "split") {
				return lint.Match{}, false
			}

			receiver, selector, ok := lint.Qualified(tree, tree.Parent(id))
			if !ok || selector != id {
				return lint.Match{}, false
			}

			if t, known := ctx.ResolveType(receiver); !known || t.Name != typeString {
				return lint.Match{}, false
			}

			for _, arg := range lint.ValueArgs(tree, id) {
				if t, known := ctx.ResolveType(lint.ArgExpr(tree, arg)); known && t.Name == typeRegex {
					return lint.NewMatch(id), true
				}
			}

			return lint.Match{}, false
		},
	}
}
