package rules

import (
	"github.com/Sumatoshi-tech/chainlint/pkg/lint"
	"github.com/Sumatoshi-tech/chainlint/pkg/syntax"
)

// DoNotAccessVisibleForTesting reports references to @VisibleForTesting
// symbols declared in another package.
func DoNotAccessVisibleForTesting() lint.Rule {
	return lint.Rule{
		ID:       "DoNotAccessVisibleForTesting",
		Severity: lint.SeverityDefect,
		Description: "Do not access symbols annotated with @VisibleForTesting from other packages. " +
			"These symbols are made public for testing only.",
		Kinds:              []syntax.NodeKind{syntax.KindIdentifier},
		RequiresTypeOracle: true,
		Match: func(ctx *lint.Context, id syntax.NodeID) (lint.Match, bool) {
			tree := ctx.Tree

			if tree.NearestAncestor(id, syntax.KindImport, syntax.KindPackage).Valid() {
				return lint.Match{}, false
			}

			sym, ok := ctx.ResolveCallTarget(id)
			if !ok || !sym.HasAnnotation("VisibleForTesting") || sym.Package == lint.PackageName(tree) {
				return lint.Match{}, false
			}

			return lint.NewMatch(id), true
		},
	}
}
