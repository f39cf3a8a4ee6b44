// Package edit implements the Edit Buffer: the primitive byte-range edit
// model every other graft component lowers into. It owns the one
// invariant the rest of the system depends on — that a list of edits
// against an immutable source applies deterministically regardless of the
// order the caller accumulated them in.
package edit

import (
	"bytes"
	"errors"
	"fmt"
	"sort"

	"github.com/bethropolis/graft"
	"github.com/bethropolis/graft/internal/enginelog"
)

// ErrOverlap is graft's one documented deviation from spec.md's default
// overlap policy (see SPEC_FULL.md §7): Apply returns it when two
// non-insertion edits target overlapping ranges, instead of silently
// letting the lower-start edit win.
var ErrOverlap = errors.New("edit: overlapping non-insertion edits")

// Entry is one accumulated edit: the substring [Start, End) of the
// original source is replaced by Replacement.
type Entry struct {
	Start       uint32
	End         uint32
	Replacement []byte
}

// isInsertion reports whether the entry is a pure insertion point.
func (e Entry) isInsertion() bool { return e.Start == e.End }

// Record describes one applied edit for preview/diff purposes: the same
// shape spec.md §6 calls for from preview_edits.
type Record struct {
	Start       uint32
	End         uint32
	Original    []byte
	Replacement []byte
}

// Buffer accumulates edits against one source and applies them
// deterministically. The zero value is ready to use.
type Buffer struct {
	entries []Entry
}

// New returns an empty Buffer.
func New() *Buffer { return &Buffer{} }

// Add appends an edit replacing source[start:end) with replacement. No
// deduplication is performed; two pure insertions at the same offset may
// coexist (see Apply's tie-break for their relative order).
func (b *Buffer) Add(start, end uint32, replacement []byte) {
	if end < start {
		end = start
	}
	b.entries = append(b.entries, Entry{Start: start, End: end, Replacement: replacement})
	enginelog.DebugTagf("edit", "Add: [%d,%d) -> %d bytes", start, end, len(replacement))
}

// Len returns the number of accumulated edits.
func (b *Buffer) Len() int { return len(b.entries) }

// Entries returns a copy of the accumulated edits, in accumulation order.
func (b *Buffer) Entries() []Entry {
	out := make([]Entry, len(b.entries))
	copy(out, b.entries)
	return out
}

// sorted returns the entries in the descending-application order spec.md
// §4.1 defines: descending by (start, end). Apply splices this list
// front-to-back, so each splice at a given offset lands to the left of
// whatever an earlier splice at that same offset already placed there — to
// make the earliest-added insertion end up leftmost in the final output
// (the ordering guarantee callers rely on, e.g. Wrap's before-insertion
// preceding its after-insertion), ties on (start, end) are broken by
// *reverse* insertion order: the most recently added of a group of
// same-offset insertions is applied first, so the first-added is applied
// last and ends up closest to the original content.
func (b *Buffer) sorted() []Entry {
	type indexed struct {
		Entry
		idx int
	}
	tmp := make([]indexed, len(b.entries))
	for i, e := range b.entries {
		tmp[i] = indexed{Entry: e, idx: i}
	}
	sort.SliceStable(tmp, func(i, j int) bool {
		if tmp[i].Start != tmp[j].Start {
			return tmp[i].Start > tmp[j].Start
		}
		if tmp[i].End != tmp[j].End {
			return tmp[i].End > tmp[j].End
		}
		return tmp[i].idx > tmp[j].idx
	})
	out := make([]Entry, len(tmp))
	for i, e := range tmp {
		out[i] = e.Entry
	}
	return out
}

// checkOverlap enforces graft's redesigned overlap policy (SPEC_FULL.md
// §7): any two non-insertion entries whose ranges intersect are an error,
// checked against the original entries so caller order never matters.
func (b *Buffer) checkOverlap() error {
	entries := make([]Entry, 0, len(b.entries))
	for _, e := range b.entries {
		if !e.isInsertion() {
			entries = append(entries, e)
		}
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Start < entries[j].Start })
	for i := 1; i < len(entries); i++ {
		if entries[i].Start < entries[i-1].End {
			return fmt.Errorf("%w: [%d,%d) and [%d,%d)", ErrOverlap,
				entries[i-1].Start, entries[i-1].End, entries[i].Start, entries[i].End)
		}
	}
	return nil
}

// Apply splices every accumulated edit into source and returns the
// result. Edits are applied in descending (start, end) order so each
// splice only ever mutates bytes strictly after the next edit's target
// range — no offset bookkeeping is needed because every edit's range lies
// in the still-untouched prefix of the original source.
func (b *Buffer) Apply(source []byte) ([]byte, error) {
	if err := b.checkOverlap(); err != nil {
		return nil, err
	}
	out := make([]byte, len(source))
	copy(out, source)
	for _, e := range b.sorted() {
		if e.End > uint32(len(out)) || e.Start > e.End {
			return nil, graft.InvalidArgumentf("edit range [%d,%d) out of bounds for %d-byte buffer", e.Start, e.End, len(out))
		}
		head := out[:e.Start:e.Start]
		tail := out[e.End:]
		spliced := make([]byte, 0, len(head)+len(e.Replacement)+len(tail))
		spliced = append(spliced, head...)
		spliced = append(spliced, e.Replacement...)
		spliced = append(spliced, tail...)
		out = spliced
	}
	enginelog.DebugTagf("edit", "Apply: %d edits, %d -> %d bytes", len(b.entries), len(source), len(out))
	return out, nil
}

// Preview returns one Record per accumulated edit, in application order,
// without mutating anything — the data preview_edits (spec.md §6) exposes.
func (b *Buffer) Preview(source []byte) ([]Record, error) {
	if err := b.checkOverlap(); err != nil {
		return nil, err
	}
	sorted := b.sorted()
	records := make([]Record, 0, len(sorted))
	for _, e := range sorted {
		if e.End > uint32(len(source)) || e.Start > e.End {
			return nil, graft.InvalidArgumentf("edit range [%d,%d) out of bounds for %d-byte source", e.Start, e.End, len(source))
		}
		original := make([]byte, e.End-e.Start)
		copy(original, source[e.Start:e.End])
		records = append(records, Record{
			Start:       e.Start,
			End:         e.End,
			Original:    original,
			Replacement: append([]byte(nil), e.Replacement...),
		})
	}
	return records, nil
}

// Equal reports whether two byte slices are identical; a small helper so
// callers verifying the Identity property (spec.md §8) don't need to
// import bytes themselves.
func Equal(a, b []byte) bool { return bytes.Equal(a, b) }
