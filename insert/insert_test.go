package insert

import (
	"testing"

	"github.com/bethropolis/graft"
	"github.com/stretchr/testify/require"
)

type fakeNode struct {
	start, end uint32
	children   []fakeNode
	source     []byte
}

func (n fakeNode) Range() graft.Range          { return graft.Range{Start: n.start, End: n.end} }
func (n fakeNode) Kind() string                { return "block" }
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

func TestInsertStatementAtEndOfIndentedFunction(t *testing.T) {
	source := []byte("fn f() {\n    let x = 1;\n}")
	stmt := fakeNode{start: 9, end: 24, source: source} // "    let x = 1;\n"
	body := fakeNode{start: 0, end: 25, children: []fakeNode{stmt}, source: source}

	ins := New(source)
	ins.AtEndOf(body)
	require.NoError(t, ins.InsertStatement("let y = 2;", nil, nil))
	out, err := ins.Rewrite()
	require.NoError(t, err)
	require.Contains(t, string(out), "    let y = 2;\n}")
}

func TestInsertRawVerbatim(t *testing.T) {
	source := []byte("ab")
	n := fakeNode{start: 0, end: 2, source: source}
	ins := New(source)
	ins.After(n)
	require.NoError(t, ins.InsertRaw("XYZ"))
	out, err := ins.Rewrite()
	require.NoError(t, err)
	require.Equal(t, "abXYZ", string(out))
}

func TestRequiresPointBeforeInsert(t *testing.T) {
	ins := New([]byte("x"))
	err := ins.InsertRaw("y")
	require.ErrorIs(t, err, graft.ErrMissingPrecondition)
}

func TestResetPositionClearsPoint(t *testing.T) {
	source := []byte("ab")
	n := fakeNode{start: 0, end: 2, source: source}
	ins := New(source)
	ins.After(n)
	ins.ResetPosition()
	err := ins.InsertRaw("z")
	require.ErrorIs(t, err, graft.ErrMissingPrecondition)
}

func TestInsertBlock(t *testing.T) {
	source := []byte("x\n")
	n := fakeNode{start: 0, end: 2, source: source}
	ins := New(source)
	ins.After(n)
	require.NoError(t, ins.InsertBlock("if cond", "doThing()", "", ""))
	out, err := ins.Rewrite()
	require.NoError(t, err)
	require.Contains(t, string(out), "if cond {\n    doThing()\n}")
}
