package syntax

import (
	"errors"
	"fmt"
)

// Sentinel errors for tree construction.
var (
	ErrInvalidRoot    = errors.New("syntax: invalid root")
	ErrSpanOutOfRange = errors.New("syntax: node span out of range")
	ErrSharedChild    = errors.New("syntax: node has more than one parent")
)

// Builder assembles a Tree bottom-up. Children are added before their parents.
type Builder struct {
	source []byte
	nodes  []Node
}

// NewBuilder creates a builder over src. The source is copied.
func NewBuilder(src []byte) *Builder {
	return &Builder{source: append([]byte(nil), src...)}
}

// Source returns the builder's private copy of the source.
func (builder *Builder) Source() []byte { return builder.source }

// Add appends a node covering [start, end) with the given children and returns its ID.
func (builder *Builder) Add(kind NodeKind, start, end int, children ...NodeID) NodeID {
	id := NodeID(len(builder.nodes))

	builder.nodes = append(builder.nodes, Node{
		Kind:     kind,
		Start:    start,
		End:      end,
		Parent:   NoNode,
		Children: append([]NodeID(nil), children...),
	})

	return id
}

// AddChild appends child to the children of parent.
func (builder *Builder) AddChild(parent, child NodeID) {
	builder.nodes[parent].Children = append(builder.nodes[parent].Children, child)
}

// SetName records the declared or referenced name of id.
func (builder *Builder) SetName(id NodeID, name string) {
	builder.nodes[id].Name = name
}

// SetOp records the operator token of id.
func (builder *Builder) SetOp(id NodeID, op string) {
	builder.nodes[id].Op = op
}

// SetField records the role of id inside its parent.
func (builder *Builder) SetField(id NodeID, field string) {
	builder.nodes[id].Field = field
}

// SetSpan overrides the span of id.
func (builder *Builder) SetSpan(id NodeID, start, end int) {
	builder.nodes[id].Start = start
	builder.nodes[id].End = end
}

// Kind returns the kind recorded for id.
func (builder *Builder) Kind(id NodeID) NodeKind {
	return builder.nodes[id].Kind
}

// Span returns the span recorded for id.
func (builder *Builder) Span(id NodeID) (start, end int) {
	return builder.nodes[id].Start, builder.nodes[id].End
}

// Build links parents and validates the arena rooted at root.
func (builder *Builder) Build(root NodeID) (*Tree, error) {
	if root < 0 || int(root) >= len(builder.nodes) {
		return nil, ErrInvalidRoot
	}

	for i := range builder.nodes {
		n := &builder.nodes[i]
		if n.Start < 0 || n.End < n.Start || n.End > len(builder.source) {
			return nil, fmt.Errorf("%w: %s [%d,%d)", ErrSpanOutOfRange, n.Kind, n.Start, n.End)
		}

		n.Parent = NoNode
	}

	for i := range builder.nodes {
		for _, child := range builder.nodes[i].Children {
			if builder.nodes[child].Parent != NoNode || child == root {
				return nil, fmt.Errorf("%w: %s", ErrSharedChild, builder.nodes[child].Kind)
			}

			builder.nodes[child].Parent = NodeID(i)
		}
	}

	return &Tree{
		source:     builder.source,
		nodes:      builder.nodes,
		lineStarts: computeLineStarts(builder.source),
		root:       root,
	}, nil
}
