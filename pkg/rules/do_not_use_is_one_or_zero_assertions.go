package rules

import (
	"github.com/Sumatoshi-tech/chainlint/pkg/lint"
	"github.com/Sumatoshi-tech/chainlint/pkg/syntax"
)

// DoNotUseIsOneAssertions reports assertThat(x).isOne().
func DoNotUseIsOneAssertions() lint.Rule {
	return selectorNameRule("DoNotUseIsOneAssertions", "Do not use isOne(), use isEqualTo(1) instead.", "isOne")
}

// DoNotUseIsZeroAssertions reports assertThat(x).isZero().
func DoNotUseIsZeroAssertions() lint.Rule {
	return selectorNameRule("DoNotUseIsZeroAssertions", "Do not use isZero(), use isEqualTo(0) instead.", "isZero")
}

func selectorNameRule(id, description, name string) lint.Rule {
	return lint.Rule{
		ID:          id,
		Severity:    lint.SeverityStyle,
		Description: description,
		Kinds:       []syntax.NodeKind{syntax.KindDotQualified},
		Match: func(ctx *lint.Context, node syntax.NodeID) (lint.Match, bool) {
			_, selector, ok := assertion(ctx.Tree, node)
			if !ok || lint.ReferenceName(ctx.Tree, selector) != name {
				return lint.Match{}, false
			}

			return lint.NewMatch(node), true
		},
	}
}
