// Package lint implements the rule engine: a kind-dispatched tree walker, the
// finding reporter and the formatting-preserving rewrite engine.
package lint

import (
	"fmt"
	"slices"

	"github.com/Sumatoshi-tech/chainlint/pkg/syntax"
)

// MatchFunc tests a node and returns the match to report, if any.
type MatchFunc func(ctx *Context, id syntax.NodeID) (Match, bool)

// RewriteFunc builds the replacement for a match. Returning false means the
// match is report-only.
type RewriteFunc func(ctx *Context, m Match) (RewriteSpec, bool)

// EnterFunc lets a rule push a frame on its scope before the walker descends
// into id. The returned scope is visible to id's subtree only.
type EnterFunc func(ctx *Context, id syntax.NodeID) (*Scope, bool)

// Rule is an immutable rule definition.
type Rule struct {
	Match   MatchFunc
	Rewrite RewriteFunc
	Enter   EnterFunc

	// Validate checks a rule config before a run. Optional.
	Validate func(RuleConfig) error

	ID          string
	Description string
	Aliases     []string
	Kinds       []syntax.NodeKind

	// EnterKinds restricts the Enter hook; nil means Kinds.
	EnterKinds []syntax.NodeKind

	Severity Severity

	// PostOrder evaluates the matcher after the node's subtree was walked.
	PostOrder bool

	// RequiresTypeOracle drops the rule from runs without an available oracle.
	RequiresTypeOracle bool
}

// AutoCorrectable reports whether the rule defines a rewrite.
func (r *Rule) AutoCorrectable() bool { return r.Rewrite != nil }

// Names returns the rule ID followed by its aliases.
func (r *Rule) Names() []string {
	return append([]string{r.ID}, r.Aliases...)
}

// RuleConfig is the per-rule configuration surface.
type RuleConfig struct {
	// WithAlternatives maps a banned prefix to its replacement prefix.
	WithAlternatives map[string]string

	// WithoutAlternatives lists banned prefixes that have no replacement.
	WithoutAlternatives []string

	Active      bool
	AutoCorrect bool
}

// DefaultRuleConfig is the config a rule gets when none is supplied.
func DefaultRuleConfig() RuleConfig {
	return RuleConfig{Active: true, AutoCorrect: true}
}

// Match pairs the reported node with named sub-expressions.
type Match struct {
	Bindings map[string]syntax.NodeID

	// Message overrides the rule description for this finding.
	Message string

	Target syntax.NodeID
}

// NewMatch creates a match on target.
func NewMatch(target syntax.NodeID) Match {
	return Match{Target: target, Bindings: map[string]syntax.NodeID{}}
}

// Bind records a named sub-expression and returns the match.
func (m Match) Bind(name string, id syntax.NodeID) Match {
	if m.Bindings == nil {
		m.Bindings = map[string]syntax.NodeID{}
	}

	m.Bindings[name] = id

	return m
}

// WithMessage sets the finding message.
func (m Match) WithMessage(format string, args ...any) Match {
	m.Message = fmt.Sprintf(format, args...)

	return m
}

// Get returns a binding or NoNode.
func (m Match) Get(name string) syntax.NodeID {
	if id, ok := m.Bindings[name]; ok {
		return id
	}

	return syntax.NoNode
}

// Finding is one reported issue.
type Finding struct {
	RuleID   string
	Message  string
	File     string
	Position syntax.Position
	Node     syntax.NodeID
	Start    int
	End      int
	Severity Severity

	// AutoCorrectable is true when the rule produced a valid rewrite for this match.
	AutoCorrectable bool

	// Corrected is true when the rewrite was applied.
	Corrected bool
}

func (f Finding) String() string {
	return fmt.Sprintf("%s:%d:%d: %s: %s [%s]",
		f.File, f.Position.Line, f.Position.Column, f.Severity, f.Message, f.RuleID)
}

// RuleError records a recovered rule panic.
type RuleError struct {
	Panic  any
	RuleID string
	Node   syntax.NodeID
	Phase  string
}

func (e RuleError) Error() string {
	return fmt.Sprintf("rule %s panicked during %s at node %d: %v", e.RuleID, e.Phase, e.Node, e.Panic)
}

// SortFindings orders findings by file, offset and rule ID.
func SortFindings(findings []Finding) {
	slices.SortStableFunc(findings, func(a, b Finding) int {
		switch {
		case a.File != b.File:
			if a.File < b.File {
				return -1
			}

			return 1
		case a.Start != b.Start:
			return a.Start - b.Start
		case a.RuleID < b.RuleID:
			return -1
		case a.RuleID > b.RuleID:
			return 1
		default:
			return 0
		}
	})
}
