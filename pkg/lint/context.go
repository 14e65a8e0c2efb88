package lint

import (
	"github.com/Sumatoshi-tech/chainlint/pkg/oracle"
	"github.com/Sumatoshi-tech/chainlint/pkg/syntax"
)

// Scope is a persistent stack of string frames. Pushing returns a new scope
// and leaves the receiver untouched, so a scope can be shared between sibling
// subtrees without copying. The nil *Scope is the empty stack.
type Scope struct {
	parent *Scope
	value  string
	depth  int
}

// Push returns a scope with value on top.
func (s *Scope) Push(value string) *Scope {
	return &Scope{parent: s, value: value, depth: s.Len() + 1}
}

// Len returns the number of frames.
func (s *Scope) Len() int {
	if s == nil {
		return 0
	}

	return s.depth
}

// Contains reports whether any frame holds value.
func (s *Scope) Contains(value string) bool {
	for cur := s; cur != nil; cur = cur.parent {
		if cur.value == value {
			return true
		}
	}

	return false
}

// Values returns the frames from outermost to innermost.
func (s *Scope) Values() []string {
	out := make([]string, s.Len())

	for cur, i := s, s.Len()-1; cur != nil; cur, i = cur.parent, i-1 {
		out[i] = cur.value
	}

	return out
}

// Context is what a rule sees while evaluating one node.
type Context struct {
	Tree   *syntax.Tree
	Oracle oracle.Oracle

	// Scope is this rule's scope at the current node.
	Scope *Scope

	File   string
	Config RuleConfig
}

// OracleAvailable reports whether type information is bound for this run.
func (ctx *Context) OracleAvailable() bool {
	return oracle.IsAvailable(ctx.Oracle)
}

// ResolveType resolves id through the oracle. Absent oracles resolve nothing.
func (ctx *Context) ResolveType(id syntax.NodeID) (oracle.Type, bool) {
	if !ctx.OracleAvailable() {
		return oracle.Type{}, false
	}

	return ctx.Oracle.ResolveType(ctx.Tree, id)
}

// ResolveCallTarget resolves the symbol id refers to.
func (ctx *Context) ResolveCallTarget(id syntax.NodeID) (oracle.Symbol, bool) {
	if !ctx.OracleAvailable() {
		return oracle.Symbol{}, false
	}

	return ctx.Oracle.ResolveCallTarget(ctx.Tree, id)
}

// Text is shorthand for ctx.Tree.Text.
func (ctx *Context) Text(id syntax.NodeID) string { return ctx.Tree.Text(id) }
