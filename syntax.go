package graft

import "context"

// Range is a half-open byte interval [Start, End) into a Source. A
// degenerate range with Start == End denotes a pure insertion point.
type Range struct {
	Start uint32
	End   uint32
}

// Len returns the number of bytes the range spans.
func (r Range) Len() uint32 { return r.End - r.Start }

// Ranged is satisfied by anything with a byte range in some source: every
// Node, and Range itself.
type Ranged interface {
	Range() Range
}

// Range lets a bare Range satisfy Ranged, so builders can accept either a
// Node or a Range through the same parameter type.
func (r Range) Range() Range { return r }

// Node is the read-only view into a parsed tree that graft consumes. It is
// never assumed to be a concrete struct; tsnode.Node is the reference
// implementation over github.com/smacker/go-tree-sitter, but any adapter
// satisfying this interface works.
type Node interface {
	Ranged

	// Kind is the grammar's node type name (e.g. "function_declaration").
	Kind() string

	StartByte() uint32
	EndByte() uint32

	// Parent returns the enclosing node, or nil at the root.
	Parent() Node

	// NamedChild returns the i'th named child, or nil if i is out of range.
	NamedChild(i int) Node
	NamedChildCount() int
	NamedChildren() []Node

	// ChildByFieldName returns the child assigned to the given grammar
	// field, or nil if the field is absent on this node.
	ChildByFieldName(name string) Node

	// Text returns the source bytes this node spans.
	Text() []byte
}

// Language is a normalized handle to a grammar. Callers may construct it
// from a name alone (Handle left nil) when they only need it for
// diagnostics; graft.QueryCompiler implementations require Handle to be
// their own concrete language type.
type Language struct {
	Name   string
	Handle any
}

// Tree is an immutable parsed syntax tree.
type Tree interface {
	RootNode() Node
	Language() Language

	// HasError reports whether any node in the tree is an error or
	// missing-token node, per spec.md §7: "callers inspect has_error? on
	// the returned tree" after a re-parse.
	HasError() bool
}

// Parser produces a Tree from source bytes. RewriteWithTree uses a
// caller-supplied Parser, or one inferred from the original tree's
// Language if none is supplied.
type Parser interface {
	Parse(ctx context.Context, source []byte) (Tree, error)
}

// Capture is a named reference to a node produced by a query pattern.
type Capture struct {
	Name string
	Node Node
}

// Match is one successful instantiation of a query pattern against a
// subtree, carrying all of its captures in pattern order.
type Match struct {
	PatternIndex int
	Captures     []Capture
}

// CapturesNamed returns every capture in the match with the given name,
// with or without a leading '@'.
func (m Match) CapturesNamed(name string) []Capture {
	name = trimAt(name)
	var out []Capture
	for _, c := range m.Captures {
		if c.Name == name {
			out = append(out, c)
		}
	}
	return out
}

func trimAt(name string) string {
	if len(name) > 0 && name[0] == '@' {
		return name[1:]
	}
	return name
}

// Query evaluates a compiled pattern against a root node and source,
// yielding every match in the pattern's own capture order.
type Query interface {
	Matches(root Node, source []byte) ([]Match, error)
}

// QueryCompiler compiles a tree-sitter S-expression pattern against a
// language into a Query. tsnode.Compiler is the reference implementation.
type QueryCompiler interface {
	Compile(language Language, pattern string) (Query, error)
}

// ParserFactory builds a Parser for a Language. RewriteWithTree uses one,
// when supplied, to infer a Parser from the original tree's Language when
// the caller passes no explicit Parser — spec.md §4.3's "explicit or
// inferred from the input tree's language". tsnode.Factory is the
// reference implementation, wrapping tsnode.NewParser.
type ParserFactory interface {
	ParserFor(language Language) (Parser, error)
}
