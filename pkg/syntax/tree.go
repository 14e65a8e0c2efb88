// Package syntax provides the arena-backed syntax tree that lint rules match
// against, together with traversal helpers and the text splice primitive used
// for formatting-preserving rewrites.
package syntax

import (
	"slices"
	"sort"
)

// NodeID addresses a node inside a Tree arena.
type NodeID int32

// NoNode is the null NodeID.
const NoNode NodeID = -1

// Valid reports whether id refers to a node.
func (id NodeID) Valid() bool { return id >= 0 }

// Node is one arena slot. Parent is a navigation index only.
type Node struct {
	Name string
	Op   string

	// Field names the role of the node inside its parent, e.g. "receiver".
	Field string

	Children []NodeID
	Start    int
	End      int
	Parent   NodeID
	Kind     NodeKind
}

// Position is a 1-based line and column.
type Position struct {
	Line   int
	Column int
}

// Tree is an immutable syntax tree over a source buffer.
type Tree struct {
	source     []byte
	nodes      []Node
	lineStarts []int
	root       NodeID
}

// Source returns the source bytes the tree was built from. Callers must not mutate it.
func (tree *Tree) Source() []byte { return tree.source }

// Root returns the root node ID.
func (tree *Tree) Root() NodeID { return tree.root }

// Len returns the number of nodes in the arena.
func (tree *Tree) Len() int { return len(tree.nodes) }

// Node returns the node stored at id. The returned pointer is read-only.
func (tree *Tree) Node(id NodeID) *Node {
	if !tree.contains(id) {
		return nil
	}

	return &tree.nodes[id]
}

// Kind returns the kind of id, or KindOther for an invalid ID.
func (tree *Tree) Kind(id NodeID) NodeKind {
	if !tree.contains(id) {
		return KindOther
	}

	return tree.nodes[id].Kind
}

// Is reports whether id is a node of one of the given kinds.
func (tree *Tree) Is(id NodeID, kinds ...NodeKind) bool {
	if !tree.contains(id) {
		return false
	}

	return slices.Contains(kinds, tree.nodes[id].Kind)
}

// Name returns the declared or referenced name of id.
func (tree *Tree) Name(id NodeID) string {
	if !tree.contains(id) {
		return ""
	}

	return tree.nodes[id].Name
}

// Op returns the operator token of id.
func (tree *Tree) Op(id NodeID) string {
	if !tree.contains(id) {
		return ""
	}

	return tree.nodes[id].Op
}

// Field returns the role of id inside its parent.
func (tree *Tree) Field(id NodeID) string {
	if !tree.contains(id) {
		return ""
	}

	return tree.nodes[id].Field
}

// ChildByField returns the first child of id playing the given role.
func (tree *Tree) ChildByField(id NodeID, field string) NodeID {
	for _, child := range tree.Children(id) {
		if tree.nodes[child].Field == field {
			return child
		}
	}

	return NoNode
}

// Text returns the exact source slice covered by id.
func (tree *Tree) Text(id NodeID) string {
	if !tree.contains(id) {
		return ""
	}

	n := &tree.nodes[id]

	return string(tree.source[n.Start:n.End])
}

// Span returns the byte range of id.
func (tree *Tree) Span(id NodeID) (start, end int) {
	if !tree.contains(id) {
		return 0, 0
	}

	return tree.nodes[id].Start, tree.nodes[id].End
}

// Parent returns the parent of id, or NoNode for the root.
func (tree *Tree) Parent(id NodeID) NodeID {
	if !tree.contains(id) {
		return NoNode
	}

	return tree.nodes[id].Parent
}

// Children returns the children of id in source order.
func (tree *Tree) Children(id NodeID) []NodeID {
	if !tree.contains(id) {
		return nil
	}

	return tree.nodes[id].Children
}

// Child returns the i-th child of id, or NoNode when out of range.
func (tree *Tree) Child(id NodeID, i int) NodeID {
	children := tree.Children(id)
	if i < 0 || i >= len(children) {
		return NoNode
	}

	return children[i]
}

// LastChild returns the last child of id, or NoNode.
func (tree *Tree) LastChild(id NodeID) NodeID {
	return tree.Child(id, len(tree.Children(id))-1)
}

// ChildOfKind returns the first child of id with one of the given kinds.
func (tree *Tree) ChildOfKind(id NodeID, kinds ...NodeKind) NodeID {
	for _, child := range tree.Children(id) {
		if slices.Contains(kinds, tree.nodes[child].Kind) {
			return child
		}
	}

	return NoNode
}

// ChildrenOfKind returns every child of id with one of the given kinds.
func (tree *Tree) ChildrenOfKind(id NodeID, kinds ...NodeKind) []NodeID {
	var out []NodeID

	for _, child := range tree.Children(id) {
		if slices.Contains(kinds, tree.nodes[child].Kind) {
			out = append(out, child)
		}
	}

	return out
}

// IndexInParent returns the position of id among its siblings, or -1.
func (tree *Tree) IndexInParent(id NodeID) int {
	return slices.Index(tree.Children(tree.Parent(id)), id)
}

// Ancestors returns the ancestors of id from the parent up to the root.
func (tree *Tree) Ancestors(id NodeID) []NodeID {
	var out []NodeID

	for cur := tree.Parent(id); cur.Valid(); cur = tree.Parent(cur) {
		out = append(out, cur)
	}

	return out
}

// NearestAncestor returns the closest strict ancestor of id with one of the given kinds.
func (tree *Tree) NearestAncestor(id NodeID, kinds ...NodeKind) NodeID {
	for cur := tree.Parent(id); cur.Valid(); cur = tree.Parent(cur) {
		if slices.Contains(kinds, tree.nodes[cur].Kind) {
			return cur
		}
	}

	return NoNode
}

// VisitPreOrder calls fn for id and its descendants depth-first. Returning
// false from fn skips the subtree of the visited node.
func (tree *Tree) VisitPreOrder(id NodeID, fn func(NodeID) bool) {
	if !tree.contains(id) {
		return
	}

	stack := []NodeID{id}

	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if !fn(cur) {
			continue
		}

		children := tree.nodes[cur].Children
		for i := len(children) - 1; i >= 0; i-- {
			stack = append(stack, children[i])
		}
	}
}

// Find returns every node under id (inclusive) satisfying predicate, in pre-order.
func (tree *Tree) Find(id NodeID, predicate func(NodeID) bool) []NodeID {
	var out []NodeID

	tree.VisitPreOrder(id, func(cur NodeID) bool {
		if predicate(cur) {
			out = append(out, cur)
		}

		return true
	})

	return out
}

// Position converts a byte offset into a 1-based line/column pair.
func (tree *Tree) Position(offset int) Position {
	line := sort.Search(len(tree.lineStarts), func(i int) bool {
		return tree.lineStarts[i] > offset
	})

	if line == 0 {
		return Position{Line: 1, Column: offset + 1}
	}

	return Position{Line: line, Column: offset - tree.lineStarts[line-1] + 1}
}

func (tree *Tree) contains(id NodeID) bool {
	return id >= 0 && int(id) < len(tree.nodes)
}

func computeLineStarts(src []byte) []int {
	starts := []int{0}

	for i, b := range src {
		if b == '\n' {
			starts = append(starts, i+1)
		}
	}

	return starts
}
