package rules

import (
	"github.com/Sumatoshi-tech/chainlint/pkg/lint"
	"github.com/Sumatoshi-tech/chainlint/pkg/syntax"
)

// DoNotUseSingleOnFilter rewrites xs.filter { p }.single() to xs.single { p }.
func DoNotUseSingleOnFilter() lint.Rule {
	return lint.Rule{
		ID:          "DoNotUseSingleOnFilter",
		Severity:    lint.SeverityStyle,
		Description: "Do not use single() with filter { ... }, use single { ... } instead",
		Kinds:       []syntax.NodeKind{syntax.KindDotQualified, syntax.KindSafeQualified},
		Match: func(ctx *lint.Context, id syntax.NodeID) (lint.Match, bool) {
			return collapseChain(ctx.Tree, id, "single()", "filter")
		},
		Rewrite: func(ctx *lint.Context, m lint.Match) (lint.RewriteSpec, bool) {
			return collapseRewrite(ctx.Tree, m, "single"), true
		},
	}
}

// collapseChain matches "recv.inner(args).outer" where outer has the exact
// text given and inner is a call to innerName with at most one lambda.
func collapseChain(tree *syntax.Tree, id syntax.NodeID, outer, innerName string) (lint.Match, bool) {
	receiver, _, text, ok := selectorText(tree, id)
	if !ok || text != outer {
		return lint.Match{}, false
	}

	inner, ok := innerCall(tree, receiver, innerName)
	if !ok || !lint.HasArguments(tree, inner) || len(lint.LambdaArgs(tree, inner)) > 1 {
		return lint.Match{}, false
	}

	m := lint.NewMatch(id).Bind(bindReceiver, receiver).Bind(bindCall, inner)

	return bindTrailingArgs(tree, m, inner), true
}

// collapseRewrite renames the inner call to fn and drops the outer selector.
func collapseRewrite(tree *syntax.Tree, m lint.Match, fn string) lint.RewriteSpec {
	return lint.Rewrite(
		lint.Replace(tree, m.Get(bindCall), trailingArgsTemplate(m, fn)),
		lint.Delete(endOf(tree, m.Get(bindReceiver)), endOf(tree, m.Target)),
	)
}
