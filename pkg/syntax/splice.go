package syntax

import (
	"errors"
	"fmt"
	"slices"
)

// ErrOverlappingEdits is returned when two edits passed to Splice intersect.
var ErrOverlappingEdits = errors.New("syntax: overlapping edits")

// Edit replaces the bytes in [Start, End) with Text.
type Edit struct {
	Text  string
	Start int
	End   int
}

// Overlaps reports whether two edits touch the same bytes. Two insertions at
// the same offset also overlap since their order would be ambiguous.
func (e Edit) Overlaps(other Edit) bool {
	if e.Start == e.End && other.Start == other.End {
		return e.Start == other.Start
	}

	return e.Start < other.End && other.Start < e.End
}

// Splice returns a copy of src with edits applied. src is never modified and
// bytes outside every edit span are copied through unchanged.
func Splice(src []byte, edits []Edit) ([]byte, error) {
	sorted := slices.Clone(edits)
	slices.SortStableFunc(sorted, func(a, b Edit) int { return a.Start - b.Start })

	out := make([]byte, 0, len(src))
	cursor := 0

	for i, e := range sorted {
		if e.Start < 0 || e.End < e.Start || e.End > len(src) {
			return nil, fmt.Errorf("%w: [%d,%d)", ErrSpanOutOfRange, e.Start, e.End)
		}

		if i > 0 && (e.Start < cursor || sorted[i-1].Overlaps(e)) {
			return nil, fmt.Errorf("%w: [%d,%d) and [%d,%d)",
				ErrOverlappingEdits, sorted[i-1].Start, sorted[i-1].End, e.Start, e.End)
		}

		out = append(out, src[cursor:e.Start]...)
		out = append(out, e.Text...)
		cursor = e.End
	}

	out = append(out, src[cursor:]...)

	return out, nil
}
