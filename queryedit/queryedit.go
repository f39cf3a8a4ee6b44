// Package queryedit implements the Query Rewriter (spec.md §4.6):
// query(pattern) → where(predicate)* → per-capture operation, lowered to
// edit.Buffer entries.
package queryedit

import (
	"context"

	"github.com/bethropolis/graft"
	"github.com/bethropolis/graft/edit"
	"github.com/bethropolis/graft/internal/enginelog"
)

// Generator produces replacement/insertion content for a matched node.
// Static content is expressed as a Generator that ignores its argument.
type Generator func(node graft.Node) []byte

// Static returns a Generator that always yields content, regardless of
// which node it's invoked against.
func Static(content []byte) Generator {
	return func(graft.Node) []byte { return content }
}

// WrapGenerator produces a (before, after) pair for a matched node.
type WrapGenerator func(node graft.Node) (before, after []byte)

// StaticWrap returns a WrapGenerator that always yields the same pair.
func StaticWrap(before, after []byte) WrapGenerator {
	return func(graft.Node) ([]byte, []byte) { return before, after }
}

type opKind int

const (
	opReplace opKind = iota
	opRemove
	opInsertBefore
	opInsertAfter
	opWrap
)

type operation struct {
	kind    opKind
	capture string
	gen     Generator
	wrapGen WrapGenerator
}

// Rewriter accumulates a query, filters, and per-capture operations
// against one source and tree.
type Rewriter struct {
	source   []byte
	root     graft.Node
	compiler graft.QueryCompiler
	language graft.Language

	pattern string
	query   graft.Query
	filters []func(graft.Match) bool
	ops     []operation
	compErr error

	tree    graft.Tree
	factory graft.ParserFactory
}

// New starts a Rewriter over source and a parsed root node, compiling
// query patterns with compiler against language.
func New(source []byte, root graft.Node, language graft.Language, compiler graft.QueryCompiler) *Rewriter {
	return &Rewriter{source: source, root: root, language: language, compiler: compiler}
}

// WithTree records the tree this source was parsed from and a factory
// able to build a Parser for that tree's language, so RewriteWithTree can
// infer a Parser when its caller supplies none explicitly. Overrides the
// language inferred at New time for that purpose.
func (r *Rewriter) WithTree(tree graft.Tree, factory graft.ParserFactory) *Rewriter {
	r.tree = tree
	r.factory = factory
	return r
}

// Query compiles pattern and sets it as this Rewriter's match source.
func (r *Rewriter) Query(pattern string) *Rewriter {
	r.pattern = pattern
	q, err := r.compiler.Compile(r.language, pattern)
	if err != nil {
		r.compErr = err
		return r
	}
	r.query = q
	return r
}

// Where adds a filter predicate; a match survives only if every
// registered predicate returns true for it (conjunctive).
func (r *Rewriter) Where(pred func(graft.Match) bool) *Rewriter {
	r.filters = append(r.filters, pred)
	return r
}

// Replace queues node.range -> gen(node) for every capture named
// captureName in every surviving match.
func (r *Rewriter) Replace(captureName string, gen Generator) *Rewriter {
	r.ops = append(r.ops, operation{kind: opReplace, capture: captureName, gen: gen})
	return r
}

// Remove queues node.range -> "" for every capture named captureName.
func (r *Rewriter) Remove(captureName string) *Rewriter {
	r.ops = append(r.ops, operation{kind: opRemove, capture: captureName})
	return r
}

// InsertBefore queues an insertion at node.start_byte for every capture
// named captureName.
func (r *Rewriter) InsertBefore(captureName string, gen Generator) *Rewriter {
	r.ops = append(r.ops, operation{kind: opInsertBefore, capture: captureName, gen: gen})
	return r
}

// InsertAfter queues an insertion at node.end_byte for every capture
// named captureName.
func (r *Rewriter) InsertAfter(captureName string, gen Generator) *Rewriter {
	r.ops = append(r.ops, operation{kind: opInsertAfter, capture: captureName, gen: gen})
	return r
}

// Wrap queues an insertion of before at node.start_byte and after at
// node.end_byte (before emitted first, guaranteeing correct ordering
// under the Edit Buffer's insertion-order tie-break) for every capture
// named captureName.
func (r *Rewriter) Wrap(captureName string, wrapGen WrapGenerator) *Rewriter {
	r.ops = append(r.ops, operation{kind: opWrap, capture: captureName, wrapGen: wrapGen})
	return r
}

// Matches executes the query and applies every Where filter, returning
// the surviving matches.
func (r *Rewriter) Matches() ([]graft.Match, error) {
	if r.compErr != nil {
		return nil, r.compErr
	}
	if r.query == nil {
		return nil, graft.MissingPreconditionf("queryedit: no query compiled; call Query first")
	}
	all, err := r.query.Matches(r.root, r.source)
	if err != nil {
		return nil, err
	}
	var out []graft.Match
	for _, m := range all {
		if r.passesFilters(m) {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r *Rewriter) passesFilters(m graft.Match) bool {
	for _, pred := range r.filters {
		if !pred(m) {
			return false
		}
	}
	return true
}

// buffer lowers every operation against every surviving match's captures
// into an edit.Buffer.
func (r *Rewriter) buffer() (*edit.Buffer, error) {
	matches, err := r.Matches()
	if err != nil {
		return nil, err
	}
	buf := edit.New()
	for _, m := range matches {
		for _, op := range r.ops {
			for _, c := range m.CapturesNamed(op.capture) {
				applyOp(buf, op, c.Node)
			}
		}
	}
	enginelog.DebugTagf("queryedit", "buffer: %d matches, %d edits", len(matches), buf.Len())
	return buf, nil
}

func applyOp(buf *edit.Buffer, op operation, node graft.Node) {
	r := node.Range()
	switch op.kind {
	case opReplace:
		buf.Add(r.Start, r.End, op.gen(node))
	case opRemove:
		buf.Add(r.Start, r.End, nil)
	case opInsertBefore:
		buf.Add(r.Start, r.Start, op.gen(node))
	case opInsertAfter:
		buf.Add(r.End, r.End, op.gen(node))
	case opWrap:
		before, after := op.wrapGen(node)
		buf.Add(r.Start, r.Start, before)
		buf.Add(r.End, r.End, after)
	}
}

// PreviewEdits exposes per-edit {start, end, original, replacement}
// records without mutating anything.
func (r *Rewriter) PreviewEdits() ([]edit.Record, error) {
	buf, err := r.buffer()
	if err != nil {
		return nil, err
	}
	return buf.Preview(r.source)
}

// Rewrite executes the full pipeline and returns the resulting source.
func (r *Rewriter) Rewrite() ([]byte, error) {
	buf, err := r.buffer()
	if err != nil {
		return nil, err
	}
	return buf.Apply(r.source)
}

// RewriteWithTree executes the pipeline and re-parses the result. parser
// may be explicit or inferred from the tree WithTree attached (or, absent
// that, from the language this Rewriter was constructed with), per
// spec.md §4.3.
func (r *Rewriter) RewriteWithTree(ctx context.Context, parser graft.Parser) ([]byte, graft.Tree, error) {
	parser, err := r.resolveParser(parser)
	if err != nil {
		return nil, nil, err
	}
	out, err := r.Rewrite()
	if err != nil {
		return nil, nil, err
	}
	tree, err := parser.Parse(ctx, out)
	if err != nil {
		return nil, nil, err
	}
	return out, tree, nil
}

// resolveParser returns explicit if non-nil, else infers one from an
// attached tree's language, else from the constructor-supplied language,
// else fails.
func (r *Rewriter) resolveParser(explicit graft.Parser) (graft.Parser, error) {
	if explicit != nil {
		return explicit, nil
	}
	if r.factory == nil {
		return nil, graft.MissingPreconditionf("RewriteWithTree: no parser supplied and none inferable from the tree's language")
	}
	if r.tree != nil {
		return r.factory.ParserFor(r.tree.Language())
	}
	if r.language.Name != "" {
		return r.factory.ParserFor(r.language)
	}
	return nil, graft.MissingPreconditionf("RewriteWithTree: no parser supplied and none inferable from the tree's language")
}
