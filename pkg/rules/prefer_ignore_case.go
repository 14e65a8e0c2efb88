package rules

import (
	"github.com/Sumatoshi-tech/chainlint/pkg/lint"
	"github.com/Sumatoshi-tech/chainlint/pkg/syntax"
)

var ignoreCaseFunctions = []string{
	"contains", "startsWith", "endsWith", "indexOf", "indexOfAny", "lastIndexOf", "lastIndexOfAny",
}

// PreferIgnoreCase rewrites s.lowercase().contains(x) to s.contains(x, ignoreCase = true).
func PreferIgnoreCase() lint.Rule {
	return lint.Rule{
		ID:          "PreferIgnoreCase",
		Severity:    lint.SeverityPerformance,
		Description: "use ignoreCase=true with various string matching functions without converting to lowercase",
		Kinds:       []syntax.NodeKind{syntax.KindDotQualified, syntax.KindSafeQualified},
		Match: func(ctx *lint.Context, id syntax.NodeID) (lint.Match, bool) {
			tree := ctx.Tree

			receiver, selector, ok := lint.Qualified(tree, id)
			if !ok || !lint.IsCallNamed(tree, selector, ignoreCaseFunctions...) {
				return lint.Match{}, false
			}

			subject, lower, ok := lint.Qualified(tree, receiver)
			if !ok {
				return lint.Match{}, false
			}

			if text := tree.Text(lower); text != "lowercase()" && text != "toLowerCase()" {
				return lint.Match{}, false
			}

			args := lint.ValueArgumentList(tree, selector)
			if !args.Valid() {
				return lint.Match{}, false
			}

			m := lint.NewMatch(id).
				Bind(bindInner, subject).
				Bind(bindReceiver, receiver).
				Bind(bindArgs, args)

			return m, true
		},
		Rewrite: func(ctx *lint.Context, m lint.Match) (lint.RewriteSpec, bool) {
			tree := ctx.Tree
			argsEnd := endOf(tree, m.Get(bindArgs))

			return lint.Rewrite(
				lint.Delete(endOf(tree, m.Get(bindInner)), endOf(tree, m.Get(bindReceiver))),
				lint.Edit{Start: argsEnd - 1, End: argsEnd, Template: ", ignoreCase = true)", Expect: ")"},
			), true
		},
	}
}
