package rules

import (
	"github.com/Sumatoshi-tech/chainlint/pkg/lint"
	"github.com/Sumatoshi-tech/chainlint/pkg/syntax"
)

// NoFunctionReferenceToJavaClass reports ::javaClass references.
func NoFunctionReferenceToJavaClass() lint.Rule {
	return lint.Rule{
		ID:          "NoFunctionReferenceToJavaClass",
		Severity:    lint.SeverityCodeSmell,
		Description: "Do not call ::javaClass; did you mean someObject.javaClass or SomeClass::class.java?",
		Kinds:       []syntax.NodeKind{syntax.KindCallableReference},
		Match: func(ctx *lint.Context, id syntax.NodeID) (lint.Match, bool) {
			if ctx.Tree.Name(id) != "javaClass" {
				return lint.Match{}, false
			}

			return lint.NewMatch(id), true
		},
	}
}
