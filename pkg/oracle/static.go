package oracle

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/Sumatoshi-tech/chainlint/pkg/syntax"
)

//go:embed builtin.yaml
var builtinFacts []byte

// ErrInvalidFacts is returned for facts files that fail validation.
var ErrInvalidFacts = errors.New("oracle: invalid facts")

// Facts is the YAML document a Static oracle is built from.
type Facts struct {
	Types    []TypeFact    `yaml:"types"`
	Bindings []BindingFact `yaml:"bindings"`
	Symbols  []SymbolFact  `yaml:"symbols"`
}

// TypeFact declares a type and its direct supertypes.
type TypeFact struct {
	Name       string   `yaml:"name"`
	Supertypes []string `yaml:"supertypes"`
	Enum       bool     `yaml:"enum"`
}

// BindingFact binds an expression, by its source text, to a type.
type BindingFact struct {
	Expr string `yaml:"expr"`
	Type string `yaml:"type"`
}

// SymbolFact declares a callable or referenceable symbol.
type SymbolFact struct {
	Name        string   `yaml:"name"`
	Package     string   `yaml:"package"`
	Returns     string   `yaml:"returns"`
	Annotations []string `yaml:"annotations"`
}

// ParseFacts decodes a facts document.
func ParseFacts(data []byte) (Facts, error) {
	var facts Facts

	if err := yaml.Unmarshal(data, &facts); err != nil {
		return Facts{}, fmt.Errorf("%w: %w", ErrInvalidFacts, err)
	}

	for i, tf := range facts.Types {
		if tf.Name == "" {
			return Facts{}, fmt.Errorf("%w: types[%d] has no name", ErrInvalidFacts, i)
		}
	}

	for i, bf := range facts.Bindings {
		if bf.Expr == "" || bf.Type == "" {
			return Facts{}, fmt.Errorf("%w: bindings[%d] needs expr and type", ErrInvalidFacts, i)
		}
	}

	for i, sf := range facts.Symbols {
		if sf.Name == "" {
			return Facts{}, fmt.Errorf("%w: symbols[%d] has no name", ErrInvalidFacts, i)
		}
	}

	return facts, nil
}

// LoadFacts reads and decodes a facts file.
func LoadFacts(path string) (Facts, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Facts{}, fmt.Errorf("read facts %s: %w", path, err)
	}

	return ParseFacts(data)
}

// Static resolves types and call targets from declared facts. It performs no
// inference beyond literals, declared bindings and declared return types.
type Static struct {
	types    map[string]TypeFact
	simple   map[string]string
	bindings map[string]string
	symbols  map[string]Symbol
}

// NewStatic builds an oracle from the built-in standard library facts plus the
// given user facts. Later facts override earlier ones.
func NewStatic(user ...Facts) (*Static, error) {
	builtin, err := ParseFacts(builtinFacts)
	if err != nil {
		return nil, err
	}

	s := &Static{
		types:    make(map[string]TypeFact),
		simple:   make(map[string]string),
		bindings: make(map[string]string),
		symbols:  make(map[string]Symbol),
	}

	for _, facts := range append([]Facts{builtin}, user...) {
		s.merge(facts)
	}

	return s, nil
}

func (s *Static) merge(facts Facts) {
	for _, tf := range facts.Types {
		s.types[tf.Name] = tf
		s.simple[simpleName(tf.Name)] = tf.Name
	}

	for _, bf := range facts.Bindings {
		s.bindings[normalize(bf.Expr)] = bf.Type
	}

	for _, sf := range facts.Symbols {
		s.symbols[sf.Name] = Symbol{
			Name:        sf.Name,
			Package:     sf.Package,
			Returns:     sf.Returns,
			Annotations: sf.Annotations,
		}
	}
}

// Available implements Oracle.
func (s *Static) Available() bool { return s != nil }

// ResolveType implements Oracle.
func (s *Static) ResolveType(tree *syntax.Tree, id syntax.NodeID) (Type, bool) {
	if s == nil || tree == nil || !id.Valid() {
		return Type{}, false
	}

	for tree.Kind(id) == syntax.KindParenthesized {
		id = tree.Child(id, 0)
	}

	if name, ok := s.bindings[normalize(tree.Text(id))]; ok {
		return s.typeOf(name), true
	}

	switch tree.Kind(id) {
	case syntax.KindIdentifier, syntax.KindUserType:
		if full, known := s.simple[tree.Name(id)]; known {
			return s.typeOf(full), true
		}
	case syntax.KindNullableType:
		return s.ResolveType(tree, tree.Child(id, 0))
	case syntax.KindLiteral:
		return s.literalType(tree.Text(id))
	case syntax.KindStringTemplate:
		return s.typeOf("kotlin.String"), true
	case syntax.KindCall, syntax.KindDotQualified, syntax.KindSafeQualified:
		sym, ok := s.ResolveCallTarget(tree, id)
		if ok && sym.Returns != "" {
			return s.typeOf(sym.Returns), true
		}

		if tree.Kind(id) == syntax.KindCall {
			if full, known := s.simple[calleeName(tree, id)]; known {
				return s.typeOf(full), true
			}
		}
	}

	return Type{}, false
}

// ResolveCallTarget implements Oracle.
func (s *Static) ResolveCallTarget(tree *syntax.Tree, id syntax.NodeID) (Symbol, bool) {
	if s == nil || tree == nil || !id.Valid() {
		return Symbol{}, false
	}

	if sym, ok := s.symbols[normalize(tree.Text(id))]; ok {
		return sym, true
	}

	var name string

	switch tree.Kind(id) {
	case syntax.KindIdentifier:
		name = tree.Name(id)
	case syntax.KindCall:
		name = calleeName(tree, id)
	case syntax.KindDotQualified, syntax.KindSafeQualified:
		selector := tree.LastChild(id)
		if tree.Kind(selector) == syntax.KindCall {
			name = calleeName(tree, selector)
		} else {
			name = tree.Name(selector)
		}
	}

	sym, ok := s.symbols[name]

	return sym, ok && name != ""
}

func (s *Static) typeOf(name string) Type {
	if full, ok := s.simple[name]; ok && !strings.Contains(name, ".") {
		name = full
	}

	t := Type{Name: name, Enum: s.types[name].Enum}
	seen := map[string]bool{name: true}
	queue := append([]string(nil), s.types[name].Supertypes...)

	for len(queue) > 0 {
		next := queue[0]
		queue = queue[1:]

		if full, ok := s.simple[next]; ok && !strings.Contains(next, ".") {
			next = full
		}

		if seen[next] {
			continue
		}

		seen[next] = true
		t.Supertypes = append(t.Supertypes, next)
		queue = append(queue, s.types[next].Supertypes...)
	}

	return t
}

func (s *Static) literalType(text string) (Type, bool) {
	lower := strings.ToLower(text)

	switch {
	case text == "null":
		return Type{}, false
	case text == "true" || text == "false":
		return s.typeOf("kotlin.Boolean"), true
	case strings.HasPrefix(text, "'"):
		return s.typeOf("kotlin.Char"), true
	case strings.HasSuffix(lower, "l"):
		return s.typeOf("kotlin.Long"), true
	case strings.HasPrefix(lower, "0x") || strings.HasPrefix(lower, "0b"):
		return s.typeOf("kotlin.Int"), true
	case strings.HasSuffix(lower, "f"):
		return s.typeOf("kotlin.Float"), true
	case strings.ContainsAny(lower, ".e"):
		return s.typeOf("kotlin.Double"), true
	default:
		return s.typeOf("kotlin.Int"), true
	}
}

func calleeName(tree *syntax.Tree, call syntax.NodeID) string {
	callee := tree.Child(call, 0)
	if tree.Kind(callee) != syntax.KindIdentifier {
		return ""
	}

	return tree.Name(callee)
}

func simpleName(name string) string {
	if i := strings.LastIndexByte(name, '.'); i >= 0 {
		return name[i+1:]
	}

	return name
}

// normalize strips whitespace so bindings match regardless of formatting.
func normalize(expr string) string {
	return strings.Join(strings.Fields(expr), "")
}
