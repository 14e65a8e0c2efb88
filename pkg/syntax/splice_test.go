package syntax_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/chainlint/pkg/syntax"
)

func TestSplice(t *testing.T) {
	t.Parallel()

	src := []byte("assertThat(x).isEqualTo(true)")

	out, err := syntax.Splice(src, []syntax.Edit{{Start: 14, End: 29, Text: "isTrue()"}})
	require.NoError(t, err)
	assert.Equal(t, "assertThat(x).isTrue()", string(out))
	assert.Equal(t, "assertThat(x).isEqualTo(true)", string(src), "input must stay untouched")
}

func TestSpliceOrdersEdits(t *testing.T) {
	t.Parallel()

	src := []byte("a b c")

	out, err := syntax.Splice(src, []syntax.Edit{
		{Start: 4, End: 5, Text: "C"},
		{Start: 0, End: 1, Text: "A"},
		{Start: 2, End: 2, Text: "+"},
	})
	require.NoError(t, err)
	assert.Equal(t, "A +b C", string(out))
}

func TestSpliceRejectsOverlap(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		edits []syntax.Edit
		want  error
	}{
		{"intersecting", []syntax.Edit{{Start: 0, End: 4}, {Start: 2, End: 6}}, syntax.ErrOverlappingEdits},
		{"nested after gap", []syntax.Edit{{Start: 0, End: 8}, {Start: 2, End: 3}, {Start: 5, End: 6}}, syntax.ErrOverlappingEdits},
		{"same insertion point", []syntax.Edit{{Start: 3, End: 3, Text: "x"}, {Start: 3, End: 3, Text: "y"}}, syntax.ErrOverlappingEdits},
		{"out of range", []syntax.Edit{{Start: 3, End: 30}}, syntax.ErrSpanOutOfRange},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := syntax.Splice([]byte("0123456789"), tt.edits)
			require.ErrorIs(t, err, tt.want)
		})
	}
}

func TestEditOverlaps(t *testing.T) {
	t.Parallel()

	assert.False(t, syntax.Edit{Start: 0, End: 2}.Overlaps(syntax.Edit{Start: 2, End: 4}))
	assert.True(t, syntax.Edit{Start: 0, End: 3}.Overlaps(syntax.Edit{Start: 2, End: 4}))
	assert.False(t, syntax.Edit{Start: 2, End: 2}.Overlaps(syntax.Edit{Start: 0, End: 2}))
}
