package lint

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"slices"

	"github.com/Sumatoshi-tech/chainlint/pkg/oracle"
	"github.com/Sumatoshi-tech/chainlint/pkg/syntax"
)

// Walker construction errors.
var (
	ErrDuplicateRule = errors.New("duplicate rule")
	ErrInvalidRule   = errors.New("invalid rule")
)

// WalkerConfig configures a Walker.
type WalkerConfig struct {
	// Oracle is the bound type oracle. Nil means syntax-only mode.
	Oracle oracle.Oracle

	// Configs holds per-rule configuration keyed by rule ID. Missing rules
	// get DefaultRuleConfig.
	Configs map[string]RuleConfig

	// Logger receives recovered rule panics. When nil, a discard logger is used.
	Logger *slog.Logger
}

func (c WalkerConfig) logger() *slog.Logger {
	if c.Logger != nil {
		return c.Logger
	}

	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// SkippedFix describes a rewrite that was not applied.
type SkippedFix struct {
	RuleID string
	Reason string
	Start  int
	End    int
}

// Report is the outcome of one walk.
type Report struct {
	Findings []Finding
	Errors   []RuleError
	Skipped  []SkippedFix
	fixes    []candidate
}

type candidate struct {
	ruleID  string
	edits   []syntax.Edit
	finding int
	start   int
	end     int
}

// Walker traverses a tree depth-first and dispatches each node to the rules
// registered for its kind. A Walker is immutable after construction and may
// be shared by goroutines walking different trees.
type Walker struct {
	oracle  oracle.Oracle
	logger  *slog.Logger
	rules   []*Rule
	configs []RuleConfig
	pre     [syntax.KindCount][]int
	post    [syntax.KindCount][]int
	enter   [syntax.KindCount][]int
}

// NewWalker compiles rules into kind-indexed dispatch tables. Inactive rules
// and, when no oracle is available, rules requiring one are left out.
func NewWalker(rules []Rule, cfg WalkerConfig) (*Walker, error) {
	w := &Walker{oracle: cfg.Oracle, logger: cfg.logger()}
	seen := make(map[string]bool, len(rules))

	for i := range rules {
		rule := new(Rule)
		*rule = rules[i]

		if rule.ID == "" || rule.Match == nil || len(rule.Kinds) == 0 {
			return nil, fmt.Errorf("%w: %q needs an ID, a matcher and node kinds", ErrInvalidRule, rule.ID)
		}

		if seen[rule.ID] {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateRule, rule.ID)
		}

		seen[rule.ID] = true

		ruleCfg, ok := cfg.Configs[rule.ID]
		if !ok {
			ruleCfg = DefaultRuleConfig()
		}

		if !ruleCfg.Active {
			continue
		}

		if rule.Validate != nil {
			if err := rule.Validate(ruleCfg); err != nil {
				return nil, fmt.Errorf("configure %s: %w", rule.ID, err)
			}
		}

		if rule.RequiresTypeOracle && !oracle.IsAvailable(cfg.Oracle) {
			continue
		}

		w.register(rule, ruleCfg)
	}

	return w, nil
}

func (w *Walker) register(rule *Rule, cfg RuleConfig) {
	idx := len(w.rules)
	w.rules = append(w.rules, rule)
	w.configs = append(w.configs, cfg)

	for _, kind := range rule.Kinds {
		if rule.PostOrder {
			w.post[kind] = append(w.post[kind], idx)
		} else {
			w.pre[kind] = append(w.pre[kind], idx)
		}
	}

	if rule.Enter == nil {
		return
	}

	enterKinds := rule.EnterKinds
	if enterKinds == nil {
		enterKinds = rule.Kinds
	}

	for _, kind := range enterKinds {
		w.enter[kind] = append(w.enter[kind], idx)
	}
}

// Rules returns the IDs of the rules that take part in walks, in dispatch order.
func (w *Walker) Rules() []string {
	ids := make([]string, len(w.rules))
	for i, rule := range w.rules {
		ids[i] = rule.ID
	}

	return ids
}

// Walk traverses tree and returns its report. file is only used to label findings.
func (w *Walker) Walk(tree *syntax.Tree, file string) Report {
	st := &walkState{
		tree: tree,
		file: file,
		supp: newSuppressions(tree),
	}

	if len(w.rules) > 0 {
		w.visit(st, tree.Root(), make([]*Scope, len(w.rules)))
	}

	return st.report
}

// Walk runs rules over tree in a single pass and returns the findings.
func Walk(tree *syntax.Tree, rules []Rule, cfg WalkerConfig) ([]Finding, error) {
	w, err := NewWalker(rules, cfg)
	if err != nil {
		return nil, err
	}

	return w.Walk(tree, "").Findings, nil
}

type walkState struct {
	tree   *syntax.Tree
	supp   *suppressions
	file   string
	report Report
}

func (w *Walker) visit(st *walkState, id syntax.NodeID, scopes []*Scope) {
	kind := st.tree.Kind(id)

	for _, ri := range w.pre[kind] {
		w.evaluate(st, ri, id, scopes[ri])
	}

	childScopes := scopes
	cloned := false

	for _, ri := range w.enter[kind] {
		scope, ok := w.safeEnter(st, ri, id, scopes[ri])
		if !ok {
			continue
		}

		if !cloned {
			childScopes = slices.Clone(scopes)
			cloned = true
		}

		childScopes[ri] = scope
	}

	for _, child := range st.tree.Children(id) {
		w.visit(st, child, childScopes)
	}

	for _, ri := range w.post[kind] {
		w.evaluate(st, ri, id, scopes[ri])
	}
}

func (w *Walker) context(st *walkState, ri int, scope *Scope) *Context {
	return &Context{
		Tree:   st.tree,
		Oracle: w.oracle,
		Scope:  scope,
		File:   st.file,
		Config: w.configs[ri],
	}
}

func (w *Walker) evaluate(st *walkState, ri int, id syntax.NodeID, scope *Scope) {
	rule := w.rules[ri]
	ctx := w.context(st, ri, scope)

	m, ok := w.safeMatch(st, rule, ctx, id)
	if !ok {
		return
	}

	if !m.Target.Valid() {
		m.Target = id
	}

	if st.supp.suppressed(m.Target, rule.Names()) {
		return
	}

	start, end := st.tree.Span(m.Target)
	finding := Finding{
		RuleID:   rule.ID,
		Message:  m.Message,
		File:     st.file,
		Position: st.tree.Position(start),
		Node:     m.Target,
		Start:    start,
		End:      end,
		Severity: rule.Severity,
	}

	if finding.Message == "" {
		finding.Message = rule.Description
	}

	if rule.Rewrite != nil {
		w.prepareFix(st, rule, ctx, m, &finding)
	}

	st.report.Findings = append(st.report.Findings, finding)
}

func (w *Walker) prepareFix(st *walkState, rule *Rule, ctx *Context, m Match, finding *Finding) {
	spec, ok := w.safeRewrite(st, rule, ctx, m)
	if !ok {
		return
	}

	edits, err := spec.Resolve(st.tree, m)
	if err != nil {
		st.report.Skipped = append(st.report.Skipped, SkippedFix{
			RuleID: rule.ID,
			Reason: err.Error(),
			Start:  finding.Start,
			End:    finding.End,
		})

		return
	}

	finding.AutoCorrectable = true

	if !ctx.Config.AutoCorrect {
		return
	}

	st.report.fixes = append(st.report.fixes, candidate{
		ruleID:  rule.ID,
		edits:   edits,
		finding: len(st.report.Findings),
		start:   finding.Start,
		end:     finding.End,
	})
}

func (w *Walker) safeMatch(st *walkState, rule *Rule, ctx *Context, id syntax.NodeID) (m Match, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			w.recordPanic(st, rule.ID, id, "match", r)

			m, ok = Match{}, false
		}
	}()

	return rule.Match(ctx, id)
}

func (w *Walker) safeRewrite(st *walkState, rule *Rule, ctx *Context, m Match) (spec RewriteSpec, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			w.recordPanic(st, rule.ID, m.Target, "rewrite", r)

			spec, ok = RewriteSpec{}, false
		}
	}()

	return rule.Rewrite(ctx, m)
}

func (w *Walker) safeEnter(st *walkState, ri int, id syntax.NodeID, scope *Scope) (next *Scope, ok bool) {
	rule := w.rules[ri]

	defer func() {
		if r := recover(); r != nil {
			w.recordPanic(st, rule.ID, id, "enter", r)

			next, ok = nil, false
		}
	}()

	return rule.Enter(w.context(st, ri, scope), id)
}

func (w *Walker) recordPanic(st *walkState, ruleID string, id syntax.NodeID, phase string, r any) {
	w.logger.Error("rule panicked",
		"rule", ruleID,
		"phase", phase,
		"file", st.file,
		"node", id,
		"panic", r,
	)

	st.report.Errors = append(st.report.Errors, RuleError{RuleID: ruleID, Node: id, Phase: phase, Panic: r})
}
