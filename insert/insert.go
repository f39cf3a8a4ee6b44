// Package insert implements the Inserter (spec.md §4.5): syntax-aware
// insertion at container boundaries, tracking one insertion point at a
// time and applying pending insertions by plain string splice rather than
// an edit.Buffer, since insertions here are always pure offsets that never
// overlap by construction.
package insert

import (
	"sort"
	"strings"

	"github.com/bethropolis/graft"
	"github.com/bethropolis/graft/indent"
	"github.com/bethropolis/graft/internal/engineconfig"
)

// Context tags why an insertion point was chosen, driving default
// newline behavior.
type Context int

const (
	InsideStart Context = iota
	InsideEnd
	Before
	After
)

// Point is one selected insertion location.
type Point struct {
	Offset      uint32
	Context     Context
	TargetLevel int
}

// pending is one queued insertion, in the order it was requested.
type pending struct {
	offset        uint32
	content       string
	newlineBefore bool
	newlineAfter  bool
}

// Inserter tracks the current insertion point and accumulates pending
// insertions against one source.
type Inserter struct {
	source   []byte
	analyzer *indent.Analyzer
	cfg      engineconfig.InsertConfig

	point   *Point
	queue   []pending
}

// New starts an Inserter over source using the default sibling separator.
func New(source []byte) *Inserter {
	return NewWithConfig(source, engineconfig.Default().Insert)
}

// NewWithConfig starts an Inserter with an explicit InsertConfig.
func NewWithConfig(source []byte, cfg engineconfig.InsertConfig) *Inserter {
	return &Inserter{source: source, analyzer: indent.New(source), cfg: cfg}
}

// AtStartOf selects the insertion point just inside n's opening
// delimiter. The locator first tries n's first named child (the
// REDESIGN generalization) and falls back to scanning n's text for '{'.
func (ins *Inserter) AtStartOf(n graft.Node) {
	level := ins.analyzer.LevelAtByte(n.StartByte()) + 1
	var offset uint32
	if first := n.NamedChild(0); first != nil {
		offset = first.StartByte()
	} else if idx := indexOf(n.Text(), '{'); idx >= 0 {
		offset = n.StartByte() + uint32(idx) + 1
	} else {
		offset = n.StartByte() + 1
	}
	ins.point = &Point{Offset: offset, Context: InsideStart, TargetLevel: level}
}

// AtEndOf selects the insertion point at the end of n's contents. The
// locator first uses the end byte of n's last named child and falls back
// to the position of the last '}' in n's text, then to n's end byte.
func (ins *Inserter) AtEndOf(n graft.Node) {
	level := ins.analyzer.LevelAtByte(n.StartByte()) + 1
	var offset uint32
	if count := n.NamedChildCount(); count > 0 {
		offset = n.NamedChild(count - 1).EndByte()
	} else if idx := lastIndexOf(n.Text(), '}'); idx >= 0 {
		offset = n.StartByte() + uint32(idx)
	} else {
		offset = n.EndByte()
	}
	ins.point = &Point{Offset: offset, Context: InsideEnd, TargetLevel: level}
}

// Before selects the insertion point immediately before n.
func (ins *Inserter) Before(n graft.Node) {
	level := ins.analyzer.LevelAtByte(n.StartByte())
	ins.point = &Point{Offset: n.StartByte(), Context: Before, TargetLevel: level}
}

// After selects the insertion point immediately after n.
func (ins *Inserter) After(n graft.Node) {
	level := ins.analyzer.LevelAtByte(n.StartByte())
	ins.point = &Point{Offset: n.EndByte(), Context: After, TargetLevel: level}
}

// ResetPosition clears the current insertion point.
func (ins *Inserter) ResetPosition() { ins.point = nil }

func (ins *Inserter) requirePoint() (*Point, error) {
	if ins.point == nil {
		return nil, graft.MissingPreconditionf("insert: no insertion point set")
	}
	return ins.point, nil
}

// InsertStatement re-indents content to the current point's target level
// and queues it with spec.md §4.5's default newline policy.
func (ins *Inserter) InsertStatement(content string, newlineBefore *bool, newlineAfter *bool) error {
	p, err := ins.requirePoint()
	if err != nil {
		return err
	}
	trimmed := strings.TrimSpace(content)
	reindented := ins.analyzer.AdjustIndentation(trimmed, p.TargetLevel, nil)

	before := ins.defaultNewlineBefore(p)
	if newlineBefore != nil {
		before = *newlineBefore
	}
	after := true
	if newlineAfter != nil {
		after = *newlineAfter
	}

	ins.queue = append(ins.queue, pending{offset: p.Offset, content: reindented, newlineBefore: before, newlineAfter: after})
	return nil
}

func (ins *Inserter) defaultNewlineBefore(p *Point) bool {
	switch p.Context {
	case InsideStart:
		return true
	case InsideEnd:
		return !allWhitespaceSincePrecedingNewline(ins.source, p.Offset)
	default:
		return false
	}
}

// allWhitespaceSincePrecedingNewline reports whether every byte between
// the newline preceding offset and offset itself is whitespace.
func allWhitespaceSincePrecedingNewline(source []byte, offset uint32) bool {
	start := int(offset)
	i := start - 1
	for i >= 0 && source[i] != '\n' {
		i--
	}
	for j := i + 1; j < start; j++ {
		if source[j] != ' ' && source[j] != '\t' && source[j] != '\r' {
			return false
		}
	}
	return true
}

// InsertRaw queues content verbatim: no re-indent, no newlines.
func (ins *Inserter) InsertRaw(content string) error {
	p, err := ins.requirePoint()
	if err != nil {
		return err
	}
	ins.queue = append(ins.queue, pending{offset: p.Offset, content: content})
	return nil
}

// InsertSibling re-indents content then prepends/appends a separator
// (default from InsertConfig.SiblingSeparator) on the side the current
// context implies.
func (ins *Inserter) InsertSibling(content string, sep string) error {
	p, err := ins.requirePoint()
	if err != nil {
		return err
	}
	if sep == "" {
		sep = ins.cfg.SiblingSeparator
	}
	reindented := ins.analyzer.AdjustIndentation(strings.TrimSpace(content), p.TargetLevel, nil)

	var full string
	before, after := false, false
	switch p.Context {
	case Before:
		full = reindented + sep
		after = false
	case After:
		full = sep + reindented
		before = false
	default:
		full = reindented + sep
	}
	ins.queue = append(ins.queue, pending{offset: p.Offset, content: full, newlineBefore: before, newlineAfter: after})
	return nil
}

// InsertBlock builds "{indent}{header}{open}\n{body at level+1}\n{indent}{close}"
// and queues it verbatim (already fully formatted, no further re-indent).
func (ins *Inserter) InsertBlock(header, body, open, closeDelim string) error {
	p, err := ins.requirePoint()
	if err != nil {
		return err
	}
	if open == "" {
		open = " {"
	}
	if closeDelim == "" {
		closeDelim = "}"
	}
	indentStr := ins.analyzer.IndentStringForLevel(p.TargetLevel)
	bodyIndented := ins.analyzer.AdjustIndentation(strings.TrimSpace(body), p.TargetLevel+1, nil)

	full := indentStr + header + open + "\n" + bodyIndented + "\n" + indentStr + closeDelim
	ins.queue = append(ins.queue, pending{offset: p.Offset, content: full})
	return nil
}

// Rewrite applies every pending insertion in descending-offset order
// (each requested newline wrapping the content) via plain string splice.
// Splicing goes front-to-back, so same-offset entries are broken by
// reverse queue order (see edit.Buffer.sorted, which this mirrors):
// the earliest-queued of a same-offset group is applied last and ends up
// leftmost.
func (ins *Inserter) Rewrite() ([]byte, error) {
	type indexed struct {
		pending
		idx int
	}
	tmp := make([]indexed, len(ins.queue))
	for i, p := range ins.queue {
		tmp[i] = indexed{pending: p, idx: i}
	}
	sort.SliceStable(tmp, func(i, j int) bool {
		if tmp[i].offset != tmp[j].offset {
			return tmp[i].offset > tmp[j].offset
		}
		return tmp[i].idx > tmp[j].idx
	})
	sorted := make([]pending, len(tmp))
	for i, p := range tmp {
		sorted[i] = p.pending
	}

	out := append([]byte(nil), ins.source...)
	for _, p := range sorted {
		if p.offset > uint32(len(out)) {
			return nil, graft.InvalidArgumentf("insert: offset %d out of bounds for %d-byte buffer", p.offset, len(out))
		}
		text := p.content
		if p.newlineBefore {
			text = "\n" + text
		}
		if p.newlineAfter {
			text = text + "\n"
		}
		head := out[:p.offset:p.offset]
		tail := out[p.offset:]
		spliced := make([]byte, 0, len(head)+len(text)+len(tail))
		spliced = append(spliced, head...)
		spliced = append(spliced, text...)
		spliced = append(spliced, tail...)
		out = spliced
	}
	return out, nil
}

func indexOf(b []byte, c byte) int {
	for i, v := range b {
		if v == c {
			return i
		}
	}
	return -1
}

func lastIndexOf(b []byte, c byte) int {
	for i := len(b) - 1; i >= 0; i-- {
		if b[i] == c {
			return i
		}
	}
	return -1
}
