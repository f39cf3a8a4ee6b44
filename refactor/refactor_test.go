package refactor

import (
	"context"
	"strings"
	"testing"

	"github.com/bethropolis/graft"
	"github.com/bethropolis/graft/tsnode"
	"github.com/stretchr/testify/require"
)

type fakeNode struct {
	start, end uint32
	kind       string
	parent     *fakeNode
	source     []byte
}

func (n fakeNode) Range() graft.Range { return graft.Range{Start: n.start, End: n.end} }
func (n fakeNode) Kind() string       { return n.kind }
func (n fakeNode) StartByte() uint32  { return n.start }
func (n fakeNode) EndByte() uint32    { return n.end }
func (n fakeNode) Parent() graft.Node {
	if n.parent == nil {
		return nil
	}
	return *n.parent
}
func (n fakeNode) NamedChild(int) graft.Node          { return nil }
func (n fakeNode) NamedChildCount() int               { return 0 }
func (n fakeNode) NamedChildren() []graft.Node        { return nil }
func (n fakeNode) ChildByFieldName(string) graft.Node { return nil }
func (n fakeNode) Text() []byte                       { return n.source[n.start:n.end] }

type fakeQuery struct {
	matches []graft.Match
}

func (q fakeQuery) Matches(root graft.Node, source []byte) ([]graft.Match, error) {
	return q.matches, nil
}

type fakeCompiler struct{ query fakeQuery }

func (c fakeCompiler) Compile(graft.Language, string) (graft.Query, error) { return c.query, nil }

func TestRenameSymbol(t *testing.T) {
	source := []byte("func oldName() {}")
	n := fakeNode{start: 5, end: 12, source: source} // "oldName"
	matches := []graft.Match{{Captures: []graft.Capture{{Name: "name", Node: n}}}}
	f := New(source, nil, graft.Language{Name: "go"}, fakeCompiler{query: fakeQuery{matches: matches}})

	out, err := f.RenameSymbol("oldName", "newName", KindFunction)
	require.NoError(t, err)
	require.Equal(t, "func newName() {}", string(out))
}

func TestRenameSymbolFunctionRenamesDeclarationAndCallSites(t *testing.T) {
	source := []byte(`package main

func add(a, b int) int {
	return a + b
}

func main() {
	x := add(1, 2)
	y := add(3, 4)
	_ = x
	_ = y
}
`)

	lang, err := tsnode.Language("go")
	require.NoError(t, err)
	parser, err := tsnode.NewParser(lang)
	require.NoError(t, err)
	tree, err := parser.Parse(context.Background(), source)
	require.NoError(t, err)

	f := New(source, tree.RootNode(), lang, tsnode.Compiler{})
	out, err := f.RenameSymbol("add", "sum", KindFunction)
	require.NoError(t, err)

	require.NotContains(t, string(out), "add")
	require.Contains(t, string(out), "func sum(a, b int) int {")
	require.Equal(t, 3, strings.Count(string(out), "sum"))
}

func TestRenameSymbolSkipsNonMatchingText(t *testing.T) {
	source := []byte("func keep() {}")
	n := fakeNode{start: 5, end: 9, source: source} // "keep"
	matches := []graft.Match{{Captures: []graft.Capture{{Name: "name", Node: n}}}}
	f := New(source, nil, graft.Language{Name: "go"}, fakeCompiler{query: fakeQuery{matches: matches}})

	out, err := f.RenameSymbol("other", "renamed", KindFunction)
	require.NoError(t, err)
	require.Equal(t, string(source), string(out))
}

func TestRemoveMatching(t *testing.T) {
	source := []byte("code1\n# comment\ncode2\n")
	n := fakeNode{start: 6, end: 16, source: source} // "# comment"
	matches := []graft.Match{{Captures: []graft.Capture{{Name: "item", Node: n}}}}
	f := New(source, nil, graft.Language{Name: "go"}, fakeCompiler{query: fakeQuery{matches: matches}})

	out, err := f.RemoveMatching("(comment) @item", "")
	require.NoError(t, err)
	require.NotContains(t, string(out), "# comment")
}

func TestAddAttribute(t *testing.T) {
	source := []byte("func f() {}")
	n := fakeNode{start: 0, end: 11, source: source}
	matches := []graft.Match{{Captures: []graft.Capture{{Name: "item", Node: n}}}}
	f := New(source, nil, graft.Language{Name: "go"}, fakeCompiler{query: fakeQuery{matches: matches}})

	out, err := f.AddAttribute("(function_declaration) @item", "//go:noinline")
	require.NoError(t, err)
	require.Equal(t, "//go:noinline\nfunc f() {}", string(out))
}

func TestExtractFunction(t *testing.T) {
	source := []byte("result := 1 + 2")
	expr := fakeNode{start: 10, end: 15, source: source} // "1 + 2"
	target := fakeNode{start: 0, end: 15, source: source}
	f := New(source, nil, graft.Language{Name: "go"}, fakeCompiler{})

	out, err := f.ExtractFunction(expr, "computeSum", nil, target)
	require.NoError(t, err)
	require.Contains(t, string(out), "result := computeSum()")
	require.Contains(t, string(out), "func computeSum() {")
	require.Contains(t, string(out), "1 + 2")
}

func TestInlineVariable(t *testing.T) {
	source := []byte("let x = 42; use(x); other(y);")

	nameNode := fakeNode{start: 4, end: 5, kind: "identifier", source: source}
	valueNode := fakeNode{start: 8, end: 10, kind: "integer_literal", source: source}
	letDecl := fakeQuery{matches: []graft.Match{
		{Captures: []graft.Capture{{Name: "name", Node: nameNode}, {Name: "value", Node: valueNode}}},
	}}

	declParent := fakeNode{kind: "let_declaration"}
	usageParent := fakeNode{kind: "call_expression"}
	declUsage := fakeNode{start: 4, end: 5, kind: "identifier", parent: &declParent, source: source}
	realUsage := fakeNode{start: 16, end: 17, kind: "identifier", parent: &usageParent, source: source}
	otherUsage := fakeNode{start: 26, end: 27, kind: "identifier", parent: &usageParent, source: source}
	usageQuery := fakeQuery{matches: []graft.Match{
		{Captures: []graft.Capture{{Name: "usage", Node: declUsage}}},
		{Captures: []graft.Capture{{Name: "usage", Node: realUsage}}},
		{Captures: []graft.Capture{{Name: "usage", Node: otherUsage}}},
	}}

	compiler := &sequenceCompiler{queries: []fakeQuery{letDecl, usageQuery}}
	f := New(source, nil, graft.Language{Name: "rust"}, compiler)

	out, err := f.InlineVariable("x", "")
	require.NoError(t, err)
	require.Equal(t, "let x = 42; use(42); other(y);", string(out))
}

// sequenceCompiler returns its configured queries in order, one per
// Compile call, so a single test can drive InlineVariable's two-phase
// (declaration lookup, then usage rewrite) query pipeline.
type sequenceCompiler struct {
	queries []fakeQuery
	next    int
}

func (c *sequenceCompiler) Compile(graft.Language, string) (graft.Query, error) {
	q := c.queries[c.next]
	c.next++
	return q, nil
}
