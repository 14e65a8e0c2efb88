// Package rules holds the Kotlin call-chain rule set and the registry that
// resolves rule names and per-rule configuration.
package rules

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Sumatoshi-tech/chainlint/pkg/lint"
)

// Registry errors.
var (
	ErrUnknownRule   = errors.New("unknown rule")
	ErrDuplicateName = errors.New("duplicate rule name")
)

// Registry keeps rules in registration order and indexes them by ID and alias.
type Registry struct {
	names map[string]int
	rules []lint.Rule
}

// NewRegistry creates a registry holding rules.
func NewRegistry(rules ...lint.Rule) (*Registry, error) {
	r := &Registry{names: make(map[string]int, len(rules))}

	for _, rule := range rules {
		if err := r.Register(rule); err != nil {
			return nil, err
		}
	}

	return r, nil
}

// Default returns a registry with every built-in rule.
func Default() *Registry {
	r, err := NewRegistry(All()...)
	if err != nil {
		panic(err) // built-in names are unique
	}

	return r
}

// Register appends rule. Its ID and aliases must not clash with known names.
func (r *Registry) Register(rule lint.Rule) error {
	for _, name := range rule.Names() {
		if _, taken := r.names[name]; taken {
			return fmt.Errorf("%w: %s", ErrDuplicateName, name)
		}
	}

	idx := len(r.rules)
	r.rules = append(r.rules, rule)

	for _, name := range rule.Names() {
		r.names[name] = idx
	}

	return nil
}

// Get looks a rule up by ID or alias.
func (r *Registry) Get(name string) (lint.Rule, bool) {
	idx, ok := r.names[name]
	if !ok {
		return lint.Rule{}, false
	}

	return r.rules[idx], true
}

// Rules returns the registered rules in registration order.
func (r *Registry) Rules() []lint.Rule {
	return append([]lint.Rule(nil), r.rules...)
}

// Configs rekeys configs, which may name rules by alias, by rule ID.
func (r *Registry) Configs(configs map[string]lint.RuleConfig) (map[string]lint.RuleConfig, error) {
	out := make(map[string]lint.RuleConfig, len(configs))

	for name, cfg := range configs {
		rule, ok := r.Get(name)
		if !ok {
			if hints := r.Suggest(name); len(hints) > 0 {
				return nil, fmt.Errorf("%w: %s (did you mean %s?)", ErrUnknownRule, name, strings.Join(hints, " or "))
			}

			return nil, fmt.Errorf("%w: %s", ErrUnknownRule, name)
		}

		if _, dup := out[rule.ID]; dup {
			return nil, fmt.Errorf("%w: %s configured more than once", ErrDuplicateName, rule.ID)
		}

		out[rule.ID] = cfg
	}

	return out, nil
}

// Enabled returns the rules that are active under configs, keyed by rule ID.
func (r *Registry) Enabled(configs map[string]lint.RuleConfig) []lint.Rule {
	var out []lint.Rule

	for _, rule := range r.rules {
		cfg, ok := configs[rule.ID]
		if ok && !cfg.Active {
			continue
		}

		out = append(out, rule)
	}

	return out
}

// All returns the built-in rules in registration order.
func All() []lint.Rule {
	return []lint.Rule{
		AlwaysUseIsTrueOrIsFalse(),
		DoNotAccessVisibleForTesting(),
		DoNotAssertIsEqualOnTheResultOfSingle(),
		DoNotNameCompanionObject(),
		DoNotSplitByRegex(),
		DoNotUseDirectReceiverReferenceInsideWith(),
		DoNotUsePropertyAccessInAssert(),
		DoNotUseHasSizeForEmptyListInAssert(),
		DoNotUseIsEqualToWhenArgumentIsOne(),
		DoNotUseIsEqualToWhenArgumentIsZero(),
		DoNotUseIsOneAssertions(),
		DoNotUseIsZeroAssertions(),
		DoNotUseSingleOnFilter(),
		DoNotUseSizePropertyInAssert(),
		FilterNotNullOverMapNotNullForFiltering(),
		GetOrDefaultShouldBeReplacedWithGetOrElse(),
		NoDuplicateKeysInMapOf(),
		NoExtensionFunctionOnNullableReceiver(),
		NoFunctionReferenceToJavaClass(),
		NoNonPrivateGlobalVariables(),
		NoNullableLambdaWithDefaultNull(),
		NoPairWithAmbiguousTypes(),
		PreferIgnoreCase(),
		PreventBannedImports(),
		ReturnValueOfLetMustBeUsed(),
		UseEntriesInsteadOfValuesOnEnum(),
		UseFirstNotNullOf(),
		UseFirstOrNullInsteadOfFind(),
		UseMapNotNullInsteadOfFilterNotNull(),
		UseNoneMatchInsteadOfFirstOrNullIsNull(),
		UseOfCollectionInsteadOfEmptyCollection(),
		UseSetInsteadOfListToSet(),
		WithReceiverShouldHaveMultipleActions(),
	}
}
