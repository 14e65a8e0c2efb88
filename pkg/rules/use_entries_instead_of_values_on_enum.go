package rules

import (
	"github.com/Sumatoshi-tech/chainlint/pkg/lint"
	"github.com/Sumatoshi-tech/chainlint/pkg/syntax"
)

// UseEntriesInsteadOfValuesOnEnum reports E.values() on enum classes.
func UseEntriesInsteadOfValuesOnEnum() lint.Rule {
	return lint.Rule{
		ID:                 "UseEntriesInsteadOfValuesOnEnum",
		Severity:           lint.SeverityWarning,
		Description:        "Do not call .values() on an Enum. Use .entries instead",
		Kinds:              []syntax.NodeKind{syntax.KindDotQualified},
		RequiresTypeOracle: true,
		Match: func(ctx *lint.Context, id syntax.NodeID) (lint.Match, bool) {
			receiver, _, text, ok := selectorText(ctx.Tree, id)
			if !ok || text != "values()" {
				return lint.Match{}, false
			}

			if t, known := ctx.ResolveType(receiver); !known || !t.Enum {
				return lint.Match{}, false
			}

			return lint.NewMatch(id), true
		},
	}
}
