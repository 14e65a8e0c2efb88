package rules

import (
	"github.com/Sumatoshi-tech/chainlint/pkg/lint"
	"github.com/Sumatoshi-tech/chainlint/pkg/syntax"
)

// DoNotNameCompanionObject reports companion objects that declare a name.
func DoNotNameCompanionObject() lint.Rule {
	return lint.Rule{
		ID:          "DoNotNameCompanionObject",
		Severity:    lint.SeverityWarning,
		Description: "Companion objects should not be named",
		Kinds:       []syntax.NodeKind{syntax.KindCompanionObject},
		Match: func(ctx *lint.Context, id syntax.NodeID) (lint.Match, bool) {
			if ctx.Tree.Name(id) == "" {
				return lint.Match{}, false
			}

			return lint.NewMatch(id), true
		},
	}
}
