// Package indent implements the Indentation Analyzer: detecting a
// source's indentation style and width, mapping byte and line positions to
// nesting levels, and re-indenting content blocks to a target level.
package indent

import (
	"strings"

	"github.com/bethropolis/graft/internal/engineconfig"
)

// Style is the detected leading-whitespace character.
type Style int

const (
	Spaces Style = iota
	Tabs
)

func (s Style) String() string {
	if s == Tabs {
		return "tabs"
	}
	return "spaces"
}

// Descriptor is the indentation style/width inferred once per source,
// spec.md §3's "Indentation descriptor".
type Descriptor struct {
	Style      Style
	UnitWidth  int
	UnitString string
}

// Analyzer answers indentation queries against one source, memoizing the
// per-line byte-length table Detect and the byte↔line mapping need.
type Analyzer struct {
	source []byte
	lines  [][]byte // each entry includes its trailing '\n', if any
	cfg    engineconfig.IndentConfig
	desc   Descriptor
}

// New builds an Analyzer over source using engineconfig.Default()'s clamp
// bounds. Use NewWithConfig to override them.
func New(source []byte) *Analyzer {
	return NewWithConfig(source, engineconfig.Default().Indent)
}

// NewWithConfig builds an Analyzer with explicit GCD clamp bounds.
func NewWithConfig(source []byte, cfg engineconfig.IndentConfig) *Analyzer {
	a := &Analyzer{source: source, cfg: cfg, lines: splitLinesKeepEnds(source)}
	a.desc = a.detect()
	return a
}

// Detect returns the inferred indentation descriptor.
func (a *Analyzer) Detect() Descriptor { return a.desc }

func splitLinesKeepEnds(b []byte) [][]byte {
	if len(b) == 0 {
		return [][]byte{{}}
	}
	var lines [][]byte
	start := 0
	for i := 0; i < len(b); i++ {
		if b[i] == '\n' {
			lines = append(lines, b[start:i+1])
			start = i + 1
		}
	}
	if start < len(b) {
		lines = append(lines, b[start:])
	} else {
		lines = append(lines, []byte{})
	}
	return lines
}

// leadingWhitespace returns the leading run of ' '/'\t' bytes on a line.
func leadingWhitespace(line []byte) []byte {
	i := 0
	for i < len(line) && (line[i] == ' ' || line[i] == '\t') {
		i++
	}
	return line[:i]
}

// detect implements spec.md §4.2's detection heuristic exactly.
func (a *Analyzer) detect() Descriptor {
	tabLines, spaceLines := 0, 0
	spaceLengths := map[int]struct{}{}

	for _, line := range a.lines {
		ws := leadingWhitespace(line)
		if len(ws) == 0 {
			continue
		}
		hasTab := false
		for _, c := range ws {
			if c == '\t' {
				hasTab = true
				break
			}
		}
		if hasTab {
			tabLines++
			continue
		}
		spaceLines++
		spaceLengths[len(ws)] = struct{}{}
	}

	if tabLines > spaceLines {
		return Descriptor{Style: Tabs, UnitWidth: 1, UnitString: "\t"}
	}

	if len(spaceLengths) == 0 {
		if tabLines == 0 && spaceLines == 0 {
			return Descriptor{Style: Spaces, UnitWidth: 4, UnitString: strings.Repeat(" ", 4)}
		}
	}

	width := a.gcdOfSpaceLengths(spaceLengths)
	return Descriptor{Style: Spaces, UnitWidth: width, UnitString: strings.Repeat(" ", width)}
}

// gcdOfSpaceLengths computes the GCD of consecutive differences in the
// sorted unique leading-space lengths plus the smallest non-zero value,
// clamped to [MinUnitWidth, MaxUnitWidth] and defaulting to
// FallbackUnitWidth on any degenerate input, per spec.md §4.2.
func (a *Analyzer) gcdOfSpaceLengths(lengths map[int]struct{}) int {
	if len(lengths) == 0 {
		return a.cfg.FallbackUnitWidth
	}
	sorted := make([]int, 0, len(lengths))
	for l := range lengths {
		sorted = append(sorted, l)
	}
	sortInts(sorted)

	values := []int{sorted[0]}
	for i := 1; i < len(sorted); i++ {
		values = append(values, sorted[i]-sorted[i-1])
	}

	g := 0
	for _, v := range values {
		g = gcd(g, v)
	}

	if g <= 0 || g > a.cfg.MaxUnitWidth {
		return a.cfg.FallbackUnitWidth
	}
	if g < a.cfg.MinUnitWidth {
		return a.cfg.FallbackUnitWidth
	}
	return g
}

func gcd(a, b int) int {
	if a < 0 {
		a = -a
	}
	if b < 0 {
		b = -b
	}
	for b != 0 {
		a, b = b, a%b
	}
	return a
}

func sortInts(s []int) {
	for i := 1; i < len(s); i++ {
		for j := i; j > 0 && s[j-1] > s[j]; j-- {
			s[j-1], s[j] = s[j], s[j-1]
		}
	}
}

// LevelAtLine returns the nesting level of line i (0-based).
func (a *Analyzer) LevelAtLine(i int) int {
	if i < 0 || i >= len(a.lines) {
		return 0
	}
	ws := leadingWhitespace(a.lines[i])
	if a.desc.Style == Tabs {
		count := 0
		for _, c := range ws {
			if c == '\t' {
				count++
			}
		}
		return count
	}
	if a.desc.UnitWidth == 0 {
		return 0
	}
	return len(ws) / a.desc.UnitWidth
}

// RawIndentationAtLine returns the literal leading-whitespace bytes of
// line i.
func (a *Analyzer) RawIndentationAtLine(i int) []byte {
	if i < 0 || i >= len(a.lines) {
		return nil
	}
	return leadingWhitespace(a.lines[i])
}

// lineAtByte returns the 0-based line index containing byte offset b, via
// linear scan of line byte-sizes as spec.md §4.2 specifies.
func (a *Analyzer) lineAtByte(b uint32) int {
	offset := uint32(0)
	for i, line := range a.lines {
		lineLen := uint32(len(line))
		if b < offset+lineLen || i == len(a.lines)-1 {
			return i
		}
		offset += lineLen
	}
	return len(a.lines) - 1
}

// IndentationAtByte returns the leading-whitespace bytes of the line
// containing byte offset b.
func (a *Analyzer) IndentationAtByte(b uint32) []byte {
	return a.RawIndentationAtLine(a.lineAtByte(b))
}

// LevelAtByte returns the nesting level of the line containing byte
// offset b.
func (a *Analyzer) LevelAtByte(b uint32) int {
	return a.LevelAtLine(a.lineAtByte(b))
}

// IndentStringForLevel returns the unit string repeated max(k, 0) times.
func (a *Analyzer) IndentStringForLevel(k int) string {
	if k < 0 {
		k = 0
	}
	return strings.Repeat(a.desc.UnitString, k)
}

// AdjustIndentation re-indents content to targetLevel, preserving each
// line's relative nesting, per spec.md §4.2. currentLevel of nil infers
// the level from content's first non-empty line.
func (a *Analyzer) AdjustIndentation(content string, targetLevel int, currentLevel *int) string {
	lines := strings.Split(content, "\n")

	base := 0
	if currentLevel != nil {
		base = *currentLevel
	} else {
		base = a.inferLevel(lines)
	}
	delta := targetLevel - base

	out := make([]string, len(lines))
	for i, line := range lines {
		if strings.TrimSpace(line) == "" {
			out[i] = line
			continue
		}
		lineLevel := a.levelOfLine(line)
		newLevel := lineLevel + delta
		if newLevel < 0 {
			newLevel = 0
		}
		tail := strings.TrimLeft(line, " \t")
		out[i] = a.IndentStringForLevel(newLevel) + tail
	}
	return strings.Join(out, "\n")
}

// inferLevel finds the first non-empty line of lines and computes its
// indentation level under this analyzer's detected style/width.
func (a *Analyzer) inferLevel(lines []string) int {
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		return a.levelOfLine(line)
	}
	return 0
}

// levelOfLine computes the nesting level of a bare string line (not one
// of this Analyzer's own source lines) under the detected style/width.
func (a *Analyzer) levelOfLine(line string) int {
	ws := leadingWhitespace([]byte(line))
	if a.desc.Style == Tabs {
		count := 0
		for _, c := range ws {
			if c == '\t' {
				count++
			}
		}
		return count
	}
	if a.desc.UnitWidth == 0 {
		return 0
	}
	return len(ws) / a.desc.UnitWidth
}
