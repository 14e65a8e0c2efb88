package rules

import (
	"github.com/Sumatoshi-tech/chainlint/pkg/lint"
	"github.com/Sumatoshi-tech/chainlint/pkg/syntax"
)

// UseFirstOrNullInsteadOfFind rewrites xs.find { p } to xs.firstOrNull { p }
// on strings and iterables.
func UseFirstOrNullInsteadOfFind() lint.Rule {
	return lint.Rule{
		ID:                 "UseFirstOrNullInsteadOfFind",
		Severity:           lint.SeverityStyle,
		Description:        "Use firstOrNull() instead of find()",
		Kinds:              []syntax.NodeKind{syntax.KindDotQualified, syntax.KindSafeQualified},
		RequiresTypeOracle: true,
		Match: func(ctx *lint.Context, id syntax.NodeID) (lint.Match, bool) {
			tree := ctx.Tree

			receiver, selector, ok := lint.Qualified(tree, id)
			if !ok || !lint.IsCallNamed(tree, selector, "find") {
				return lint.Match{}, false
			}

			t, known := ctx.ResolveType(receiver)
			if !known || !t.IsSubtypeOf(typeString, "kotlin.collections.Iterable") {
				return lint.Match{}, false
			}

			return bindTrailingArgs(tree, lint.NewMatch(id).Bind(bindCall, selector), selector), true
		},
		Rewrite: func(ctx *lint.Context, m lint.Match) (lint.RewriteSpec, bool) {
			return lint.Rewrite(lint.Replace(ctx.Tree, m.Get(bindCall), trailingArgsTemplate(m, "firstOrNull"))), true
		},
	}
}
