package edit

import (
	"bytes"
	"fmt"

	"github.com/sourcegraph/go-diff/diff"
)

// UnifiedDiff renders the difference between source and the result of
// Apply(source) as a single unified-diff file hunk, for callers who want
// to show a rewrite to a human before trusting it (an extension of
// Preview/Record, grounded on the same unified-diff plumbing the pack's
// patch validator uses to check tree-sitter-parsed patches).
//
// The two texts are compared by common leading and trailing lines around
// the changed span; this is not a minimal diff, but for the localized
// single- or few-edit rewrites graft produces it reads the same as one.
func (b *Buffer) UnifiedDiff(source []byte, path string) (string, error) {
	newSource, err := b.Apply(source)
	if err != nil {
		return "", err
	}
	return UnifiedDiffText(source, newSource, path)
}

// UnifiedDiffText renders the unified diff between two arbitrary byte
// slices, independent of any Buffer.
func UnifiedDiffText(oldSource, newSource []byte, path string) (string, error) {
	oldLines := splitLinesKeepEnds(oldSource)
	newLines := splitLinesKeepEnds(newSource)

	prefix := commonPrefixLen(oldLines, newLines)
	suffix := commonSuffixLen(oldLines[prefix:], newLines[prefix:])

	oldChanged := oldLines[prefix : len(oldLines)-suffix]
	newChanged := newLines[prefix : len(newLines)-suffix]

	if len(oldChanged) == 0 && len(newChanged) == 0 {
		return "", nil
	}

	var body bytes.Buffer
	for _, l := range oldChanged {
		body.WriteByte('-')
		body.WriteString(l)
	}
	for _, l := range newChanged {
		body.WriteByte('+')
		body.WriteString(l)
	}
	ensureTrailingNewline(&body)

	hunk := &diff.Hunk{
		OrigStartLine: int32(prefix + 1),
		OrigLines:     int32(len(oldChanged)),
		NewStartLine:  int32(prefix + 1),
		NewLines:      int32(len(newChanged)),
		Body:          body.Bytes(),
	}

	fd := &diff.FileDiff{
		OrigName: path,
		NewName:  path,
		Hunks:    []*diff.Hunk{hunk},
	}

	out, err := diff.PrintFileDiff(fd)
	if err != nil {
		return "", fmt.Errorf("edit: rendering unified diff: %w", err)
	}
	return string(out), nil
}

func splitLinesKeepEnds(b []byte) []string {
	if len(b) == 0 {
		return nil
	}
	var lines []string
	start := 0
	for i, c := range b {
		if c == '\n' {
			lines = append(lines, string(b[start:i+1]))
			start = i + 1
		}
	}
	if start < len(b) {
		lines = append(lines, string(b[start:]))
	}
	return lines
}

func commonPrefixLen(a, b []string) int {
	n := 0
	for n < len(a) && n < len(b) && a[n] == b[n] {
		n++
	}
	return n
}

func commonSuffixLen(a, b []string) int {
	n := 0
	for n < len(a) && n < len(b) && a[len(a)-1-n] == b[len(b)-1-n] {
		n++
	}
	return n
}

func ensureTrailingNewline(buf *bytes.Buffer) {
	b := buf.Bytes()
	if len(b) > 0 && b[len(b)-1] != '\n' {
		buf.WriteByte('\n')
	}
}
