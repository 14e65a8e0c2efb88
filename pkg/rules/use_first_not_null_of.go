package rules

import (
	"github.com/Sumatoshi-tech/chainlint/pkg/lint"
	"github.com/Sumatoshi-tech/chainlint/pkg/syntax"
)

// UseFirstNotNullOf rewrites xs.mapNotNull { f(it) }.first() to xs.firstNotNullOf { f(it) },
// dropping a preceding asSequence() as well.
func UseFirstNotNullOf() lint.Rule {
	return lint.Rule{
		ID:          "UseFirstNotNullOf",
		Severity:    lint.SeverityWarning,
		Description: "use firstNotNullOf() instead of mapNotNull followed by first()",
		Kinds:       []syntax.NodeKind{syntax.KindDotQualified, syntax.KindSafeQualified},
		Match: func(ctx *lint.Context, id syntax.NodeID) (lint.Match, bool) {
			tree := ctx.Tree

			m, ok := collapseChain(tree, id, "first()", "mapNotNull")
			if !ok {
				return lint.Match{}, false
			}

			source, _, _ := lint.Qualified(tree, m.Get(bindReceiver))
			if sequenced, _, text, ok := selectorText(tree, source); ok && text == "asSequence()" {
				m = m.Bind(bindInner, source).Bind(bindValue, sequenced)
			}

			return m, true
		},
		Rewrite: func(ctx *lint.Context, m lint.Match) (lint.RewriteSpec, bool) {
			tree := ctx.Tree
			spec := collapseRewrite(tree, m, "firstNotNullOf")

			if m.Get(bindInner).Valid() {
				spec.Edits = append(spec.Edits, lint.Delete(endOf(tree, m.Get(bindValue)), endOf(tree, m.Get(bindInner))))
			}

			return spec, true
		},
	}
}
