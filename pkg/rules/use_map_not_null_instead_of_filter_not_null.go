package rules

import (
	"github.com/Sumatoshi-tech/chainlint/pkg/lint"
	"github.com/Sumatoshi-tech/chainlint/pkg/syntax"
)

// UseMapNotNullInsteadOfFilterNotNull rewrites xs.map { f(it) }.filterNotNull() to xs.mapNotNull { f(it) }.
func UseMapNotNullInsteadOfFilterNotNull() lint.Rule {
	return lint.Rule{
		ID:          "UseMapNotNullInsteadOfFilterNotNull",
		Severity:    lint.SeverityWarning,
		Description: "use mapNotNull() instead of map followed by filerNotNull()",
		Kinds:       []syntax.NodeKind{syntax.KindDotQualified, syntax.KindSafeQualified},
		Match: func(ctx *lint.Context, id syntax.NodeID) (lint.Match, bool) {
			return collapseChain(ctx.Tree, id, "filterNotNull()", "map")
		},
		Rewrite: func(ctx *lint.Context, m lint.Match) (lint.RewriteSpec, bool) {
			return collapseRewrite(ctx.Tree, m, "mapNotNull"), true
		},
	}
}
