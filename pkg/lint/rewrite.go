package lint

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/Sumatoshi-tech/chainlint/pkg/syntax"
)

// Rewrite validation errors. Any of them skips the fix but keeps the finding.
var (
	ErrInvalidReplacement = errors.New("invalid replacement")
	ErrEditOutsideMatch   = errors.New("edit outside matched span")
)

// Edit is one template substitution inside a matched node.
//
// Template placeholders have the form ${name} and expand to the verbatim
// source text of the bound node.
type Edit struct {
	Template string

	// Expect, when set, must equal the source bytes being replaced.
	Expect string

	Start int
	End   int
}

// RewriteSpec is the set of edits one match produces.
type RewriteSpec struct {
	Edits []Edit
}

// Rewrite bundles edits into a spec.
func Rewrite(edits ...Edit) RewriteSpec {
	return RewriteSpec{Edits: edits}
}

// Replace replaces the whole span of id.
func Replace(tree *syntax.Tree, id syntax.NodeID, template string) Edit {
	start, end := tree.Span(id)

	return Edit{Start: start, End: end, Template: template}
}

// ReplaceRange replaces [start, end).
func ReplaceRange(start, end int, template string) Edit {
	return Edit{Start: start, End: end, Template: template}
}

// Delete removes [start, end).
func Delete(start, end int) Edit {
	return Edit{Start: start, End: end}
}

// Insert inserts template at offset.
func Insert(offset int, template string) Edit {
	return Edit{Start: offset, End: offset, Template: template}
}

// Resolve expands templates against the match bindings and validates every
// edit. Edits must stay inside the match target and must not overlap.
func (spec RewriteSpec) Resolve(tree *syntax.Tree, m Match) ([]syntax.Edit, error) {
	if len(spec.Edits) == 0 {
		return nil, fmt.Errorf("%w: no edits", ErrInvalidReplacement)
	}

	targetStart, targetEnd := tree.Span(m.Target)
	src := tree.Source()
	out := make([]syntax.Edit, 0, len(spec.Edits))

	for _, e := range spec.Edits {
		if e.Start < targetStart || e.End > targetEnd || e.End < e.Start {
			return nil, fmt.Errorf("%w: [%d,%d) not in [%d,%d)", ErrEditOutsideMatch, e.Start, e.End, targetStart, targetEnd)
		}

		if e.Expect != "" && string(src[e.Start:e.End]) != e.Expect {
			return nil, fmt.Errorf("%w: expected %q, found %q", ErrInvalidReplacement, e.Expect, src[e.Start:e.End])
		}

		text, err := expand(tree, e.Template, m.Bindings)
		if err != nil {
			return nil, err
		}

		out = append(out, syntax.Edit{Start: e.Start, End: e.End, Text: text})
	}

	slices.SortFunc(out, func(a, b syntax.Edit) int { return a.Start - b.Start })

	for i := 1; i < len(out); i++ {
		if out[i-1].Overlaps(out[i]) {
			return nil, fmt.Errorf("%w: overlapping edits", ErrInvalidReplacement)
		}
	}

	return out, nil
}

func expand(tree *syntax.Tree, template string, bindings map[string]syntax.NodeID) (string, error) {
	if !strings.Contains(template, "${") {
		return template, nil
	}

	var buf strings.Builder

	rest := template

	for {
		open := strings.Index(rest, "${")
		if open < 0 {
			buf.WriteString(rest)

			return buf.String(), nil
		}

		closing := strings.IndexByte(rest[open:], '}')
		if closing < 0 {
			return "", fmt.Errorf("%w: unterminated placeholder in %q", ErrInvalidReplacement, template)
		}

		name := rest[open+2 : open+closing]

		id, ok := bindings[name]
		if !ok || !id.Valid() {
			return "", fmt.Errorf("%w: unbound placeholder %q", ErrInvalidReplacement, name)
		}

		buf.WriteString(rest[:open])
		buf.WriteString(tree.Text(id))
		rest = rest[open+closing+1:]
	}
}
