package rules

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/Sumatoshi-tech/chainlint/pkg/lint"
	"github.com/Sumatoshi-tech/chainlint/pkg/syntax"
)

// ErrInvalidRuleConfig is returned by rule config validation.
var ErrInvalidRuleConfig = errors.New("invalid rule config")

// PreventBannedImports reports imports under configured prefixes. Prefixes in
// withAlternatives are rewritten to their replacement.
func PreventBannedImports() lint.Rule {
	return lint.Rule{
		ID:          "PreventBannedImports",
		Severity:    lint.SeverityWarning,
		Description: "Prevent unwanted imports",
		Kinds:       []syntax.NodeKind{syntax.KindImport},
		Validate:    validateBannedImports,
		Match: func(ctx *lint.Context, id syntax.NodeID) (lint.Match, bool) {
			name := ctx.Tree.Name(id)

			if prefix, ok := bannedPrefix(name, sortedKeys(ctx.Config.WithAlternatives)); ok {
				return lint.NewMatch(id).
					WithMessage("Replace %s import with %s", prefix, ctx.Config.WithAlternatives[prefix]), true
			}

			if prefix, ok := bannedPrefix(name, ctx.Config.WithoutAlternatives); ok {
				return lint.NewMatch(id).WithMessage("Do not import %s", prefix), true
			}

			return lint.Match{}, false
		},
		Rewrite: func(ctx *lint.Context, m lint.Match) (lint.RewriteSpec, bool) {
			tree := ctx.Tree

			prefix, ok := bannedPrefix(tree.Name(m.Target), sortedKeys(ctx.Config.WithAlternatives))
			if !ok {
				return lint.RewriteSpec{}, false
			}

			ref := tree.ChildOfKind(m.Target, syntax.KindIdentifier)
			if !ref.Valid() {
				return lint.RewriteSpec{}, false
			}

			start := startOf(tree, ref)
			edit := lint.Edit{
				Start:    start,
				End:      start + len(prefix),
				Template: ctx.Config.WithAlternatives[prefix],
				Expect:   prefix,
			}

			return lint.Rewrite(edit), true
		},
	}
}

// bannedPrefix returns the first prefix that name equals or is nested under.
func bannedPrefix(name string, prefixes []string) (string, bool) {
	for _, prefix := range prefixes {
		rest, ok := strings.CutPrefix(name, prefix)
		if ok && (rest == "" || strings.HasPrefix(rest, ".")) {
			return prefix, true
		}
	}

	return "", false
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}

	slices.Sort(keys)

	return keys
}

func validateBannedImports(cfg lint.RuleConfig) error {
	for prefix, replacement := range cfg.WithAlternatives {
		if prefix == "" || replacement == "" {
			return fmt.Errorf("%w: withAlternatives entries need a prefix and a replacement", ErrInvalidRuleConfig)
		}
	}

	for _, prefix := range cfg.WithoutAlternatives {
		if prefix == "" {
			return fmt.Errorf("%w: empty withoutAlternatives prefix", ErrInvalidRuleConfig)
		}

		if _, dup := cfg.WithAlternatives[prefix]; dup {
			return fmt.Errorf("%w: %s is listed with and without alternatives", ErrInvalidRuleConfig, prefix)
		}
	}

	return nil
}
