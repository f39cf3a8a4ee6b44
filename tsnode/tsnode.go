// Package tsnode is graft's reference adapter of graft.Node/Tree/Parser/
// Query/QueryCompiler onto github.com/smacker/go-tree-sitter. spec.md
// treats the parser and query engine as external collaborators graft only
// consumes through interfaces; tsnode is the concrete implementation of
// those interfaces the rest of the pack's tree-sitter usage is grounded on.
package tsnode

import (
	"context"
	"fmt"

	"github.com/bethropolis/graft"
	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/golang"
	"github.com/smacker/go-tree-sitter/javascript"
	"github.com/smacker/go-tree-sitter/python"
	"github.com/smacker/go-tree-sitter/rust"
)

// Node wraps a *sitter.Node and the source it was parsed from, satisfying
// graft.Node.
type Node struct {
	n      *sitter.Node
	source []byte
}

// Wrap adapts a *sitter.Node into a graft.Node, or returns nil for a nil
// node so callers can propagate tree-sitter's "no such child" convention
// without a nil-interface footgun.
func Wrap(n *sitter.Node, source []byte) graft.Node {
	if n == nil {
		return nil
	}
	return Node{n: n, source: source}
}

func (n Node) Range() graft.Range {
	return graft.Range{Start: n.n.StartByte(), End: n.n.EndByte()}
}

func (n Node) Kind() string      { return n.n.Type() }
func (n Node) StartByte() uint32 { return n.n.StartByte() }
func (n Node) EndByte() uint32   { return n.n.EndByte() }

func (n Node) Parent() graft.Node { return Wrap(n.n.Parent(), n.source) }

func (n Node) NamedChild(i int) graft.Node {
	if i < 0 || i >= int(n.n.NamedChildCount()) {
		return nil
	}
	return Wrap(n.n.NamedChild(i), n.source)
}

func (n Node) NamedChildCount() int { return int(n.n.NamedChildCount()) }

func (n Node) NamedChildren() []graft.Node {
	count := int(n.n.NamedChildCount())
	out := make([]graft.Node, count)
	for i := 0; i < count; i++ {
		out[i] = Wrap(n.n.NamedChild(i), n.source)
	}
	return out
}

func (n Node) ChildByFieldName(name string) graft.Node {
	return Wrap(n.n.ChildByFieldName(name), n.source)
}

func (n Node) Text() []byte { return []byte(n.n.Content(n.source)) }

// Tree wraps a *sitter.Tree and the source it was parsed from, satisfying
// graft.Tree.
type Tree struct {
	t      *sitter.Tree
	source []byte
	lang   graft.Language
}

func (t Tree) RootNode() graft.Node    { return Wrap(t.t.RootNode(), t.source) }
func (t Tree) Language() graft.Language { return t.lang }

// HasError walks the tree once looking for an error or missing node,
// per spec.md §7's "callers inspect has_error? on the returned tree".
func (t Tree) HasError() bool {
	return nodeHasError(t.t.RootNode())
}

func nodeHasError(n *sitter.Node) bool {
	if n == nil {
		return false
	}
	if n.IsError() || n.IsMissing() {
		return true
	}
	count := int(n.ChildCount())
	for i := 0; i < count; i++ {
		if nodeHasError(n.Child(i)) {
			return true
		}
	}
	return false
}

// Close releases the underlying tree-sitter tree. Callers that don't need
// deterministic cleanup can rely on the finalizer go-tree-sitter itself
// registers; Close is here for callers that parse many trees in a loop.
func (t Tree) Close() { t.t.Close() }

// Language resolves one of graft's four supported grammars by name.
// Supported names: "go", "python", "javascript", "rust".
func Language(name string) (graft.Language, error) {
	switch name {
	case "go":
		return graft.Language{Name: "go", Handle: golang.GetLanguage()}, nil
	case "python":
		return graft.Language{Name: "python", Handle: python.GetLanguage()}, nil
	case "javascript":
		return graft.Language{Name: "javascript", Handle: javascript.GetLanguage()}, nil
	case "rust":
		return graft.Language{Name: "rust", Handle: rust.GetLanguage()}, nil
	default:
		return graft.Language{}, fmt.Errorf("tsnode: unsupported language %q", name)
	}
}

// Parser adapts *sitter.Parser to graft.Parser for one fixed language.
type Parser struct {
	lang graft.Language
	sl   *sitter.Language
}

// NewParser builds a Parser for lang, which must have been produced by
// Language (or otherwise carry a *sitter.Language in its Handle).
func NewParser(lang graft.Language) (*Parser, error) {
	sl, ok := lang.Handle.(*sitter.Language)
	if !ok {
		return nil, fmt.Errorf("tsnode: language %q has no *sitter.Language handle", lang.Name)
	}
	return &Parser{lang: lang, sl: sl}, nil
}

// Factory adapts NewParser into a graft.ParserFactory, letting
// rewrite/transform/queryedit infer a Parser from a Tree's Language when
// RewriteWithTree's caller supplies none explicitly.
type Factory struct{}

func (Factory) ParserFor(language graft.Language) (graft.Parser, error) {
	return NewParser(language)
}

func (p *Parser) Parse(ctx context.Context, source []byte) (graft.Tree, error) {
	parser := sitter.NewParser()
	parser.SetLanguage(p.sl)
	t, err := parser.ParseCtx(ctx, nil, source)
	if err != nil {
		return nil, fmt.Errorf("tsnode: parse failed: %w", err)
	}
	return Tree{t: t, source: source, lang: p.lang}, nil
}

// Query adapts a compiled *sitter.Query to graft.Query.
type Query struct {
	q *sitter.Query
}

func (q Query) Matches(root graft.Node, source []byte) ([]graft.Match, error) {
	n, ok := root.(Node)
	if !ok {
		return nil, fmt.Errorf("tsnode: root node is not a tsnode.Node (got %T)", root)
	}
	cursor := sitter.NewQueryCursor()
	defer cursor.Close()
	cursor.Exec(q.q, n.n)

	var matches []graft.Match
	for {
		m, ok := cursor.NextMatch()
		if !ok {
			break
		}
		captures := make([]graft.Capture, len(m.Captures))
		for i, c := range m.Captures {
			captures[i] = graft.Capture{
				Name: q.q.CaptureNameForId(c.Index),
				Node: Wrap(c.Node, source),
			}
		}
		matches = append(matches, graft.Match{
			PatternIndex: int(m.PatternIndex),
			Captures:     captures,
		})
	}
	return matches, nil
}

// Compiler adapts sitter.NewQuery to graft.QueryCompiler.
type Compiler struct{}

func (Compiler) Compile(language graft.Language, pattern string) (graft.Query, error) {
	sl, ok := language.Handle.(*sitter.Language)
	if !ok {
		return nil, fmt.Errorf("tsnode: language %q has no *sitter.Language handle", language.Name)
	}
	q, err := sitter.NewQuery([]byte(pattern), sl)
	if err != nil {
		return nil, fmt.Errorf("tsnode: compiling query: %w", err)
	}
	return Query{q: q}, nil
}
