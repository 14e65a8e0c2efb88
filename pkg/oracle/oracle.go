// Package oracle defines the type resolution capability that some lint rules
// depend on, and a static implementation fed from declared facts.
package oracle

import (
	"slices"

	"github.com/Sumatoshi-tech/chainlint/pkg/syntax"
)

// Type is a resolved static type.
type Type struct {
	// Name is the fully qualified type name, e.g. "kotlin.collections.List".
	Name string

	// Supertypes is the transitive closure of declared supertypes.
	Supertypes []string

	Enum bool
}

// IsSubtypeOf reports whether the type is one of names or inherits from one of them.
func (t Type) IsSubtypeOf(names ...string) bool {
	for _, name := range names {
		if t.Name == name || slices.Contains(t.Supertypes, name) {
			return true
		}
	}

	return false
}

// Symbol is a resolved call or reference target.
type Symbol struct {
	Name        string
	Package     string
	Returns     string
	Annotations []string
}

// HasAnnotation reports whether the symbol carries the annotation, by short name.
func (s Symbol) HasAnnotation(name string) bool {
	return slices.Contains(s.Annotations, name)
}

// Oracle answers semantic questions about tree nodes. Implementations never
// panic; an unknown answer is reported as ok == false.
type Oracle interface {
	// Available reports whether semantic information is bound for this run.
	Available() bool
	ResolveType(tree *syntax.Tree, id syntax.NodeID) (Type, bool)
	ResolveCallTarget(tree *syntax.Tree, id syntax.NodeID) (Symbol, bool)
}

// None is the syntax-only oracle. It is never available.
type None struct{}

// Available implements Oracle.
func (None) Available() bool { return false }

// ResolveType implements Oracle.
func (None) ResolveType(*syntax.Tree, syntax.NodeID) (Type, bool) { return Type{}, false }

// ResolveCallTarget implements Oracle.
func (None) ResolveCallTarget(*syntax.Tree, syntax.NodeID) (Symbol, bool) { return Symbol{}, false }

// IsAvailable reports whether o is non-nil and available.
func IsAvailable(o Oracle) bool {
	return o != nil && o.Available()
}
