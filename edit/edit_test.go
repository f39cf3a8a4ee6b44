package edit

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestIdentity(t *testing.T) {
	source := []byte("fn main() {}")
	b := New()
	out, err := b.Apply(source)
	require.NoError(t, err)
	require.True(t, Equal(source, out))
}

func TestEditOrderingDeterminism(t *testing.T) {
	source := []byte("abcdefghij")

	build := func(order []int) *Buffer {
		b := New()
		specs := []Entry{
			{Start: 2, End: 4, Replacement: []byte("XX")},
			{Start: 6, End: 8, Replacement: []byte("YYY")},
			{Start: 0, End: 0, Replacement: []byte("Z")},
		}
		for _, i := range order {
			s := specs[i]
			b.Add(s.Start, s.End, s.Replacement)
		}
		return b
	}

	a, err := build([]int{0, 1, 2}).Apply(source)
	require.NoError(t, err)
	c, err := build([]int{2, 1, 0}).Apply(source)
	require.NoError(t, err)
	require.Equal(t, string(a), string(c))
	require.Equal(t, "ZabXXefYYYij", string(a))
}

func TestNonOverlappingComposition(t *testing.T) {
	source := []byte("0123456789")
	b := New()
	b.Add(2, 4, []byte("ab"))
	b.Add(6, 6, []byte("XYZ"))
	out, err := b.Apply(source)
	require.NoError(t, err)
	require.Equal(t, len(source)+len("ab")-(4-2)+len("XYZ"), len(out))
}

func TestOverlapDetected(t *testing.T) {
	source := []byte("0123456789")
	b := New()
	b.Add(0, 5, []byte("aaaaa"))
	b.Add(3, 8, []byte("bbbbb"))
	_, err := b.Apply(source)
	require.ErrorIs(t, err, ErrOverlap)
}

func TestAdjacentEditsDoNotOverlap(t *testing.T) {
	source := []byte("0123456789")
	b := New()
	b.Add(0, 5, []byte("aaaaa"))
	b.Add(5, 10, []byte("bbbbb"))
	out, err := b.Apply(source)
	require.NoError(t, err)
	require.Equal(t, "aaaaabbbbb", string(out))
}

func TestWrapOrdering(t *testing.T) {
	// Rewriter's wrap adds the "before" insertion first so it ends up
	// immediately before "after" in the output, per spec.md §4.1.
	source := []byte("f")
	b := New()
	b.Add(0, 0, []byte("/*"))
	b.Add(1, 1, []byte("*/"))
	out, err := b.Apply(source)
	require.NoError(t, err)
	require.Equal(t, "/*f*/", string(out))
}

func TestInsertionsAtSameOffsetOrderByInsertionOrder(t *testing.T) {
	source := []byte("x")
	b := New()
	b.Add(0, 0, []byte("A"))
	b.Add(0, 0, []byte("B"))
	out, err := b.Apply(source)
	require.NoError(t, err)
	require.Equal(t, "ABx", string(out))
}

func TestZeroLengthSourceAllowsOnlyInsertions(t *testing.T) {
	b := New()
	b.Add(0, 0, []byte("hi"))
	out, err := b.Apply(nil)
	require.NoError(t, err)
	require.Equal(t, "hi", string(out))
}

func TestPreviewDoesNotMutate(t *testing.T) {
	source := []byte("hello world")
	b := New()
	b.Add(0, 5, []byte("goodbye"))
	records, err := b.Preview(source)
	require.NoError(t, err)
	require.Len(t, records, 1)
	require.Equal(t, "hello", string(records[0].Original))
	require.Equal(t, "goodbye", string(records[0].Replacement))
	require.Equal(t, "hello world", string(source))
}

func TestUnifiedDiffText(t *testing.T) {
	old := []byte("line1\nline2\nline3\n")
	changed := []byte("line1\nCHANGED\nline3\n")
	out, err := UnifiedDiffText(old, changed, "example.txt")
	require.NoError(t, err)
	require.Contains(t, out, "-line2")
	require.Contains(t, out, "+CHANGED")
	require.Contains(t, out, "example.txt")
}
