package edit

import (
	"strconv"
	"strings"

	"github.com/rivo/uniseg"
)

// Summary renders a Record as a compact "[start,end) "old" -> "new""
// line for logs and diagnostics, truncating each side at a grapheme
// boundary so multi-byte identifiers (e.g. combining marks, emoji in
// string literals) never get cut mid-cluster.
func (r Record) Summary(maxGraphemes int) string {
	return "[" + strconv.Itoa(int(r.Start)) + "," + strconv.Itoa(int(r.End)) + ") " +
		quoteTruncated(string(r.Original), maxGraphemes) + " -> " +
		quoteTruncated(string(r.Replacement), maxGraphemes)
}

func quoteTruncated(s string, maxGraphemes int) string {
	truncated, cut := truncateGraphemes(s, maxGraphemes)
	if cut {
		return `"` + truncated + `..."`
	}
	return `"` + truncated + `"`
}

// truncateGraphemes returns the first n grapheme clusters of s and
// whether the string was actually cut.
func truncateGraphemes(s string, n int) (string, bool) {
	if n <= 0 {
		return "", s != ""
	}
	var b strings.Builder
	g := uniseg.NewGraphemes(s)
	count := 0
	for g.Next() {
		if count == n {
			return b.String(), true
		}
		b.WriteString(g.Str())
		count++
	}
	return b.String(), false
}
