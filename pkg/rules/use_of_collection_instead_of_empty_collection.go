package rules

import (
	"github.com/Sumatoshi-tech/chainlint/pkg/lint"
	"github.com/Sumatoshi-tech/chainlint/pkg/syntax"
)

var emptyCollectionFactories = map[string]string{
	"emptyList": "listOf",
	"emptySet":  "setOf",
	"emptyMap":  "mapOf",
}

// UseOfCollectionInsteadOfEmptyCollection rewrites emptyList() to listOf(),
// and likewise for sets and maps.
func UseOfCollectionInsteadOfEmptyCollection() lint.Rule {
	return lint.Rule{
		ID:          "UseOfCollectionInsteadOfEmptyCollection",
		Severity:    lint.SeverityWarning,
		Description: "replace emptySet(), emptyList(), or emptyMap() with setOf(), listOf(), or mapOf() respectively",
		Kinds:       []syntax.NodeKind{syntax.KindCall},
		Match: func(ctx *lint.Context, id syntax.NodeID) (lint.Match, bool) {
			if _, ok := emptyCollectionFactories[lint.CallName(ctx.Tree, id)]; !ok {
				return lint.Match{}, false
			}

			return lint.NewMatch(id).Bind(bindCall, lint.Callee(ctx.Tree, id)), true
		},
		Rewrite: func(ctx *lint.Context, m lint.Match) (lint.RewriteSpec, bool) {
			callee := m.Get(bindCall)
			factory := emptyCollectionFactories[ctx.Tree.Name(callee)]

			return lint.Rewrite(lint.Replace(ctx.Tree, callee, factory)), true
		},
	}
}
