package transform

import (
	"testing"

	"github.com/bethropolis/graft"
	"github.com/stretchr/testify/require"
)

// fakeNode is a minimal graft.Node for exercising Transformer's lowerings
// without a real parsed tree; it only needs Range and NamedChildren.
type fakeNode struct {
	start, end uint32
	children   []fakeNode
	kind       string
	source     []byte
}

func (n fakeNode) Range() graft.Range          { return graft.Range{Start: n.start, End: n.end} }
func (n fakeNode) Kind() string                { return n.kind }
func (n fakeNode) StartByte() uint32           { return n.start }
func (n fakeNode) EndByte() uint32             { return n.end }
func (n fakeNode) Parent() graft.Node          { return nil }
func (n fakeNode) ChildByFieldName(string) graft.Node { return nil }
func (n fakeNode) Text() []byte                { return n.source[n.start:n.end] }

func (n fakeNode) NamedChild(i int) graft.Node {
	if i < 0 || i >= len(n.children) {
		return nil
	}
	return n.children[i]
}
func (n fakeNode) NamedChildCount() int { return len(n.children) }
func (n fakeNode) NamedChildren() []graft.Node {
	out := make([]graft.Node, len(n.children))
	for i, c := range n.children {
		out[i] = c
	}
	return out
}

func node(source []byte, start, end uint32) fakeNode {
	return fakeNode{start: start, end: end, source: source}
}

func TestSwap(t *testing.T) {
	source := []byte("fn add(a: i32, b: i32) -> i32 { a + b }")
	a := node(source, 7, 13)  // "a: i32"
	b := node(source, 15, 21) // "b: i32"
	tr := New(source)
	require.NoError(t, tr.Swap(a, b))
	out, err := tr.Rewrite()
	require.NoError(t, err)
	require.Contains(t, string(out), "fn add(b: i32, a: i32)")
}

func TestSwapRejectsOverlap(t *testing.T) {
	source := []byte("abcdef")
	a := node(source, 0, 4)
	b := node(source, 2, 6)
	tr := New(source)
	err := tr.Swap(a, b)
	require.ErrorIs(t, err, graft.ErrInvalidArgument)
}

func TestSwapInvolution(t *testing.T) {
	source := []byte("first second")
	a := node(source, 0, 5)
	b := node(source, 6, 12)
	tr := New(source)
	require.NoError(t, tr.Swap(a, b))
	swapped, err := tr.Rewrite()
	require.NoError(t, err)

	a2 := node(swapped, 0, 6)
	b2 := node(swapped, 7, 12)
	tr2 := New(swapped)
	require.NoError(t, tr2.Swap(a2, b2))
	back, err := tr2.Rewrite()
	require.NoError(t, err)
	require.Equal(t, string(source), string(back))
}

func TestMove(t *testing.T) {
	source := []byte("A\nB\nC\n")
	n := node(source, 0, 2) // "A\n"
	target := node(source, 4, 6) // "C\n"
	tr := New(source)
	require.NoError(t, tr.Move(n, Target{Node: target, Before: false}, ""))
	out, err := tr.Rewrite()
	require.NoError(t, err)
	require.Equal(t, "B\nC\nA\n", string(out))
}

func TestReorderSkipsIdenticalText(t *testing.T) {
	source := []byte("(x x y)")
	children := []fakeNode{
		node(source, 1, 2),
		node(source, 3, 4),
		node(source, 5, 6),
	}
	parent := fakeNode{start: 0, end: 7, children: children, source: source}
	tr := New(source)
	// swap the two "x" nodes (identical text: no edit emitted) and keep y in place.
	require.NoError(t, tr.Reorder(parent, []int{1, 0, 2}))
	require.Equal(t, 0, tr.Buffer().Len())
}

func TestReorderRejectsBadPermutation(t *testing.T) {
	source := []byte("(a b)")
	children := []fakeNode{node(source, 1, 2), node(source, 3, 4)}
	parent := fakeNode{start: 0, end: 5, children: children, source: source}
	tr := New(source)
	err := tr.Reorder(parent, []int{0, 0})
	require.ErrorIs(t, err, graft.ErrInvalidArgument)
}

func TestDuplicate(t *testing.T) {
	source := []byte("x")
	n := node(source, 0, 1)
	tr := New(source)
	require.NoError(t, tr.Duplicate(n, ",", nil))
	out, err := tr.Rewrite()
	require.NoError(t, err)
	require.Equal(t, "x,x", string(out))
}

func TestExtract(t *testing.T) {
	source := []byte("f(1 + 2)")
	n := node(source, 2, 7) // "1 + 2"
	target := node(source, 0, 8)
	tr := New(source)
	require.NoError(t, tr.Extract(n, target, "tmp", nil))
	out, err := tr.Rewrite()
	require.NoError(t, err)
	require.Equal(t, "f(tmp)\n\n1 + 2", string(out))
}
