// Package rewrite implements the Rewriter facade (spec.md §4.3): the
// thin builder that turns node/range-addressed operations into edit.Buffer
// entries and applies them against a source, optionally re-parsing the
// result to hand back a fresh Tree.
package rewrite

import (
	"context"

	"github.com/bethropolis/graft"
	"github.com/bethropolis/graft/edit"
	"github.com/bethropolis/graft/internal/enginelog"
)

// Rewriter accumulates node/range-addressed edits against one source and
// applies them through an edit.Buffer.
type Rewriter struct {
	source []byte
	buf    *edit.Buffer

	tree    graft.Tree
	factory graft.ParserFactory
}

// New starts a Rewriter over source.
func New(source []byte) *Rewriter {
	return &Rewriter{source: source, buf: edit.New()}
}

// WithTree records the tree this source was parsed from and a factory
// able to build a Parser for that tree's language, so RewriteWithTree can
// infer a Parser when its caller supplies none explicitly.
func (r *Rewriter) WithTree(tree graft.Tree, factory graft.ParserFactory) *Rewriter {
	r.tree = tree
	r.factory = factory
	return r
}

// Buffer exposes the underlying edit.Buffer, for callers that want to hand
// it to another component (transform, insert, queryedit all build on the
// same primitive and can share one Rewriter's accumulated edits).
func (r *Rewriter) Buffer() *edit.Buffer { return r.buf }

// Replace substitutes the text at loc (a graft.Node or graft.Range) with
// replacement.
func (r *Rewriter) Replace(loc any, replacement []byte) error {
	rng, err := graft.Location(loc)
	if err != nil {
		return err
	}
	r.buf.Add(rng.Start, rng.End, replacement)
	enginelog.DebugTagf("rewrite", "Replace: [%d,%d) -> %d bytes", rng.Start, rng.End, len(replacement))
	return nil
}

// Remove deletes the text at loc.
func (r *Rewriter) Remove(loc any) error {
	return r.Replace(loc, nil)
}

// InsertBefore inserts text immediately before loc's start byte.
func (r *Rewriter) InsertBefore(loc any, text []byte) error {
	rng, err := graft.Location(loc)
	if err != nil {
		return err
	}
	r.buf.Add(rng.Start, rng.Start, text)
	return nil
}

// InsertAfter inserts text immediately after loc's end byte.
func (r *Rewriter) InsertAfter(loc any, text []byte) error {
	rng, err := graft.Location(loc)
	if err != nil {
		return err
	}
	r.buf.Add(rng.End, rng.End, text)
	return nil
}

// Wrap inserts before immediately before loc and after immediately after
// it. The before insertion is recorded first so two same-offset
// insertions from a single Wrap call keep the caller's intended order
// under the edit.Buffer's insertion-order tie-break.
func (r *Rewriter) Wrap(loc any, before, after []byte) error {
	if err := r.InsertBefore(loc, before); err != nil {
		return err
	}
	return r.InsertAfter(loc, after)
}

// Rewrite applies every accumulated edit and returns the resulting source.
func (r *Rewriter) Rewrite() ([]byte, error) {
	return r.buf.Apply(r.source)
}

// RewriteWithTree applies every accumulated edit and re-parses the result
// with parser, returning both the new source and its fresh Tree. spec.md
// §4.3: parser may be explicit or inferred from the original tree's
// Language when WithTree attached one; a missing parser that also can't
// be inferred is a precondition failure, not silently skipped.
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

// resolveParser returns explicit if non-nil, else infers one from the
// tree/factory pair WithTree attached, else fails.
func (r *Rewriter) resolveParser(explicit graft.Parser) (graft.Parser, error) {
	if explicit != nil {
		return explicit, nil
	}
	if r.tree != nil && r.factory != nil {
		return r.factory.ParserFor(r.tree.Language())
	}
	return nil, graft.MissingPreconditionf("RewriteWithTree: no parser supplied and none inferable from the tree's language")
}
