package lint

import (
	"slices"
	"strings"

	"github.com/Sumatoshi-tech/chainlint/pkg/syntax"
)

const suppressAll = "all"

// SuppressPrefix namespaces rule IDs inside @Suppress annotations.
const SuppressPrefix = "chainlint:"

var suppressAnnotations = []string{"Suppress", "SuppressWarnings"}

// suppressions answers whether a node sits under a @Suppress naming a rule.
// Results are memoised per declaration for one walk.
type suppressions struct {
	tree  *syntax.Tree
	cache map[syntax.NodeID][]string
}

func newSuppressions(tree *syntax.Tree) *suppressions {
	return &suppressions{tree: tree, cache: make(map[syntax.NodeID][]string)}
}

func (s *suppressions) suppressed(id syntax.NodeID, names []string) bool {
	for cur := id; cur.Valid(); cur = s.tree.Parent(cur) {
		if !s.tree.Kind(cur).IsDeclaration() {
			continue
		}

		for _, entry := range s.declared(cur) {
			if entry == suppressAll {
				return true
			}

			entry = strings.TrimPrefix(entry, SuppressPrefix)
			if slices.Contains(names, entry) {
				return true
			}
		}
	}

	return false
}

func (s *suppressions) declared(decl syntax.NodeID) []string {
	if entries, ok := s.cache[decl]; ok {
		return entries
	}

	var entries []string

	for _, ann := range Annotations(s.tree, decl) {
		if !slices.Contains(suppressAnnotations, s.tree.Name(ann)) {
			continue
		}

		s.tree.VisitPreOrder(ann, func(id syntax.NodeID) bool {
			if s.tree.Kind(id) == syntax.KindStringTemplate {
				entries = append(entries, strings.Trim(s.tree.Text(id), `"`))

				return false
			}

			return true
		})
	}

	s.cache[decl] = entries

	return entries
}

// Annotations returns the annotations attached to a declaration, including
// those nested in its modifier list. For a file these are the @file: ones.
func Annotations(tree *syntax.Tree, decl syntax.NodeID) []syntax.NodeID {
	var out []syntax.NodeID

	for _, child := range tree.Children(decl) {
		switch tree.Kind(child) {
		case syntax.KindAnnotation:
			out = append(out, child)
		case syntax.KindModifierList:
			out = append(out, tree.ChildrenOfKind(child, syntax.KindAnnotation)...)
		}
	}

	return out
}
