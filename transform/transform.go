// Package transform implements the Transformer (spec.md §4.4): structural
// operations over nodes — swap, move, copy, reorder, extract, duplicate —
// each lowered to a fixed set of edit.Buffer entries.
package transform

import (
	"bytes"
	"context"

	"github.com/bethropolis/graft"
	"github.com/bethropolis/graft/edit"
	"github.com/bethropolis/graft/internal/enginelog"
)

// Transformer accumulates structural operations against one source and
// lowers them to edit.Buffer entries at Rewrite time.
type Transformer struct {
	source []byte
	buf    *edit.Buffer

	tree    graft.Tree
	factory graft.ParserFactory
}

// New starts a Transformer over source.
func New(source []byte) *Transformer {
	return &Transformer{source: source, buf: edit.New()}
}

// WithTree records the tree this source was parsed from and a factory
// able to build a Parser for that tree's language, so RewriteWithTree can
// infer a Parser when its caller supplies none explicitly.
func (t *Transformer) WithTree(tree graft.Tree, factory graft.ParserFactory) *Transformer {
	t.tree = tree
	t.factory = factory
	return t
}

func (t *Transformer) text(n graft.Node) []byte {
	r := n.Range()
	return t.source[r.Start:r.End]
}

// Swap emits two replace edits exchanging a and b's text. a and b's byte
// ranges must be disjoint (no endpoint of one lies inside the other).
func (t *Transformer) Swap(a, b graft.Node) error {
	ra, rb := a.Range(), b.Range()
	if rangesOverlap(ra, rb) {
		return graft.InvalidArgumentf("swap: overlapping node ranges [%d,%d) and [%d,%d)", ra.Start, ra.End, rb.Start, rb.End)
	}
	textA, textB := t.text(a), t.text(b)
	t.buf.Add(ra.Start, ra.End, append([]byte(nil), textB...))
	t.buf.Add(rb.Start, rb.End, append([]byte(nil), textA...))
	enginelog.DebugTagf("transform", "Swap: [%d,%d) <-> [%d,%d)", ra.Start, ra.End, rb.Start, rb.End)
	return nil
}

func rangesOverlap(a, b graft.Range) bool {
	return a.Start < b.End && b.Start < a.End
}

// Target names which side of a reference node a moved/copied/extracted
// node lands on.
type Target struct {
	Node   graft.Node
	Before bool // true: relative to Node.StartByte(); false: relative to Node.EndByte()
}

// Move removes n and inserts its text (plus sep) adjacent to target.Node,
// on the side target.Before selects. Exactly one of before/after is ever
// meaningful, expressed here by Target.Before rather than two optional
// target params, since Go has no keyword-argument overloading.
func (t *Transformer) Move(n graft.Node, target Target, sep string) error {
	if target.Node == nil {
		return graft.InvalidArgumentf("move: no target node")
	}
	rn := n.Range()
	t.buf.Add(rn.Start, rn.End, nil)
	t.insertAdjacent(n, target, sep)
	enginelog.DebugTagf("transform", "Move: [%d,%d) -> target", rn.Start, rn.End)
	return nil
}

// Copy is Move without the removal edit.
func (t *Transformer) Copy(n graft.Node, target Target, sep string) error {
	if target.Node == nil {
		return graft.InvalidArgumentf("copy: no target node")
	}
	t.insertAdjacent(n, target, sep)
	return nil
}

func (t *Transformer) insertAdjacent(n graft.Node, target Target, sep string) {
	rt := target.Node.Range()
	text := t.text(n)
	if target.Before {
		payload := append(append([]byte(nil), text...), []byte(sep)...)
		t.buf.Add(rt.Start, rt.Start, payload)
		return
	}
	payload := append(append([]byte(nil), []byte(sep)...), text...)
	t.buf.Add(rt.End, rt.End, payload)
}

// Reorder validates order as a permutation of parent's named children and
// emits one replace edit per position whose text actually changes.
func (t *Transformer) Reorder(parent graft.Node, order []int) error {
	children := parent.NamedChildren()
	if err := validatePermutation(order, len(children)); err != nil {
		return err
	}
	for i, srcIdx := range order {
		dst := children[i]
		src := children[srcIdx]
		dstText := t.text(dst)
		srcText := t.text(src)
		if bytes.Equal(dstText, srcText) {
			continue
		}
		r := dst.Range()
		t.buf.Add(r.Start, r.End, append([]byte(nil), srcText...))
	}
	return nil
}

func validatePermutation(order []int, n int) error {
	if len(order) != n {
		return graft.InvalidArgumentf("reorder: order has %d entries, parent has %d named children", len(order), n)
	}
	seen := make([]bool, n)
	for _, idx := range order {
		if idx < 0 || idx >= n {
			return graft.InvalidArgumentf("reorder: index %d out of range [0,%d)", idx, n)
		}
		if seen[idx] {
			return graft.InvalidArgumentf("reorder: index %d used more than once", idx)
		}
		seen[idx] = true
	}
	return nil
}

// Extract replaces n with reference and inserts, after target's end byte,
// two newlines followed by wrapper(text(n)) (or text(n) verbatim if
// wrapper is nil).
func (t *Transformer) Extract(n graft.Node, target graft.Node, reference string, wrapper func([]byte) []byte) error {
	rn := n.Range()
	t.buf.Add(rn.Start, rn.End, []byte(reference))

	body := t.text(n)
	if wrapper != nil {
		body = wrapper(body)
	}
	payload := append([]byte("\n\n"), body...)
	rt := target.Range()
	t.buf.Add(rt.End, rt.End, payload)
	return nil
}

// Duplicate inserts sep followed by transformer(text(n)) (or text(n)
// verbatim if transformer is nil) immediately after n's end byte.
func (t *Transformer) Duplicate(n graft.Node, sep string, transformer func([]byte) []byte) error {
	body := t.text(n)
	if transformer != nil {
		body = transformer(body)
	}
	payload := append([]byte(sep), body...)
	r := n.Range()
	t.buf.Add(r.End, r.End, payload)
	return nil
}

// Buffer exposes the underlying edit.Buffer.
func (t *Transformer) Buffer() *edit.Buffer { return t.buf }

// Rewrite applies every lowered operation and returns the resulting source.
func (t *Transformer) Rewrite() ([]byte, error) {
	return t.buf.Apply(t.source)
}

// RewriteWithTree applies every lowered operation and re-parses the
// result. parser may be explicit or inferred from the tree WithTree
// attached, per spec.md §4.3.
func (t *Transformer) RewriteWithTree(ctx context.Context, parser graft.Parser) ([]byte, graft.Tree, error) {
	parser, err := t.resolveParser(parser)
	if err != nil {
		return nil, nil, err
	}
	out, err := t.Rewrite()
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
func (t *Transformer) resolveParser(explicit graft.Parser) (graft.Parser, error) {
	if explicit != nil {
		return explicit, nil
	}
	if t.tree != nil && t.factory != nil {
		return t.factory.ParserFor(t.tree.Language())
	}
	return nil, graft.MissingPreconditionf("RewriteWithTree: no parser supplied and none inferable from the tree's language")
}
