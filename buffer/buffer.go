// Package buffer implements the grapheme-aware mutable text buffer that
// every Vim motion and operator acts on: a line-indexed sequence of
// grapheme clusters, a cursor, a mode, and an optional selection anchor.
package buffer

import (
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/pkg/errors"
	"github.com/rivo/uniseg"
)

// Mode is the editing mode the buffer's cursor/selection behavior follows.
type Mode int

const (
	Normal Mode = iota
	Insert
	Replace
	Visual
	VisualLine
	VisualBlock
)

// SpanKind controls how an operator consumes a Span and whether the end
// grapheme is included in captures and deletions.
type SpanKind int

const (
	CharExclusive SpanKind = iota
	CharInclusive
	Linewise
	Blockwise
)

// Pos is a cursor position: a line index and a column counted in grapheme
// clusters. Col may equal the line's grapheme count, the sentinel used by
// append ('a') and open ('o'/'O') motions to mean "just past the last
// grapheme".
type Pos struct {
	Line, Col int
}

// Span is the typed result of a motion or text object. Start and End are
// not necessarily ordered; callers that need an ordered pair use Ordered.
type Span struct {
	Start, End Pos
	Kind       SpanKind
}

// Ordered returns the span's endpoints with Start never after End.
func (s Span) Ordered() (Pos, Pos) {
	if posLess(s.End, s.Start) {
		return s.End, s.Start
	}
	return s.Start, s.End
}

func posLess(a, b Pos) bool {
	if a.Line != b.Line {
		return a.Line < b.Line
	}
	return a.Col < b.Col
}

type line struct {
	graphemes []string
	term      string // original terminator: "\n", "\r\n", or "" for a final line with none
}

func splitGraphemes(s string) []string {
	if s == "" {
		return nil
	}
	out := make([]string, 0, len(s))
	g := uniseg.NewGraphemes(s)
	for g.Next() {
		out = append(out, g.Str())
	}
	return out
}

func newLine(text, term string) *line {
	return &line{graphemes: splitGraphemes(text), term: term}
}

func (l *line) text() string {
	return strings.Join(l.graphemes, "")
}

// Buffer is a mutable, grapheme-indexed document with a cursor, mode, and
// selection anchor.
type Buffer struct {
	lines      []*line
	cursor     Pos
	desiredCol int // sticky display column across consecutive vertical motions; -1 means unset
	mode       Mode
	anchor     Pos
	hasAnchor  bool
	blockLeft  bool // for Visual-Block: anchor/cursor column ordering at selection time
	tabstop    int
}

// New builds a Buffer from raw text. Newlines are normalized to '\n'
// internally; each line's original terminator is preserved so an in-place
// write can reproduce it faithfully.
func New(text string, tabstop int) *Buffer {
	if tabstop <= 0 {
		tabstop = 8
	}
	b := &Buffer{desiredCol: -1, tabstop: tabstop}
	if text == "" {
		b.lines = []*line{newLine("", "")}
		return b
	}
	rest := text
	for {
		idx := strings.IndexByte(rest, '\n')
		if idx < 0 {
			b.lines = append(b.lines, newLine(rest, ""))
			break
		}
		raw := rest[:idx]
		term := "\n"
		if strings.HasSuffix(raw, "\r") {
			raw = raw[:len(raw)-1]
			term = "\r\n"
		}
		b.lines = append(b.lines, newLine(raw, term))
		rest = rest[idx+1:]
	}
	return b
}

// Text renders the buffer back to a single string, restoring each line's
// original terminator.
func (b *Buffer) Text() string {
	var sb strings.Builder
	for _, l := range b.lines {
		sb.WriteString(l.text())
		sb.WriteString(l.term)
	}
	return sb.String()
}

// LineCount returns the number of lines in the buffer.
func (b *Buffer) LineCount() int { return len(b.lines) }

// LineLen returns the number of grapheme clusters on the given line.
func (b *Buffer) LineLen(ln int) int {
	if ln < 0 || ln >= len(b.lines) {
		return 0
	}
	return len(b.lines[ln].graphemes)
}

// LineText returns the given line's text, without its terminator.
func (b *Buffer) LineText(ln int) string {
	if ln < 0 || ln >= len(b.lines) {
		return ""
	}
	return b.lines[ln].text()
}

// Cursor returns the current cursor position.
func (b *Buffer) Cursor() Pos { return b.cursor }

// Mode returns the current editing mode.
func (b *Buffer) Mode() Mode { return b.mode }

// SetMode sets the editing mode. Per spec, operator completion returns the
// buffer to Normal mode unless the caller explicitly keeps it (handled by
// the interpreter, not here).
func (b *Buffer) SetMode(m Mode) { b.mode = m }

// SetAnchor establishes a Visual-mode selection anchor at pos.
func (b *Buffer) SetAnchor(pos Pos) {
	b.anchor = pos
	b.hasAnchor = true
}

// ClearAnchor removes the Visual-mode selection anchor.
func (b *Buffer) ClearAnchor() { b.hasAnchor = false }

// Anchor reports the current selection anchor, if any.
func (b *Buffer) Anchor() (Pos, bool) { return b.anchor, b.hasAnchor }

// SwapAnchor exchanges the anchor and the cursor ('o' in Visual mode).
func (b *Buffer) SwapAnchor() {
	if !b.hasAnchor {
		return
	}
	b.anchor, b.cursor = b.cursor, b.anchor
}

// SelectionSpan returns the effective Visual-mode selection span: for
// char/linewise modes, [min(anchor,cursor), max(anchor,cursor)] inclusive;
// for Visual-Block, a column-rectangle whose ordering is resolved by the
// caller via BlockColumns.
func (b *Buffer) SelectionSpan() (Span, bool) {
	if !b.hasAnchor {
		return Span{}, false
	}
	kind := CharInclusive
	switch b.mode {
	case VisualLine:
		kind = Linewise
	case VisualBlock:
		kind = Blockwise
	}
	start, end := b.anchor, b.cursor
	if posLess(end, start) {
		start, end = end, start
	}
	return Span{Start: start, End: end, Kind: kind}, true
}

// BlockColumns returns the ordered [left,right] display-column bounds of a
// Visual-Block selection, used by put/yank/delete in block mode.
func (b *Buffer) BlockColumns() (left, right int) {
	ac := b.DisplayColumn(b.anchor)
	cc := b.DisplayColumn(b.cursor)
	if ac > cc {
		return cc, ac
	}
	return ac, cc
}

// ResetDesiredColumn clears the sticky column used by j/k; any horizontal
// motion must call this.
func (b *Buffer) ResetDesiredColumn() { b.desiredCol = -1 }

// DesiredColumn returns the sticky display column set by the last vertical
// motion, or -1 if unset.
func (b *Buffer) DesiredColumn() int { return b.desiredCol }

// SetDesiredColumn records the display column to stick to across
// consecutive vertical motions.
func (b *Buffer) SetDesiredColumn(col int) { b.desiredCol = col }

// MoveCursor sets the cursor to pos, clamped to valid buffer bounds. The
// past-end append sentinel (Col == LineLen(Line)) is preserved when
// clampAppend is true.
func (b *Buffer) MoveCursor(pos Pos, clampAppend bool) {
	b.cursor = b.Clamp(pos, clampAppend)
}

// Clamp returns pos adjusted to a valid position in the buffer. When
// clampAppend is true, column is allowed to equal the line length (the
// append sentinel); otherwise it is clamped to the last grapheme.
func (b *Buffer) Clamp(pos Pos, clampAppend bool) Pos {
	if len(b.lines) == 0 {
		return Pos{}
	}
	ln := pos.Line
	if ln < 0 {
		ln = 0
	}
	if ln >= len(b.lines) {
		ln = len(b.lines) - 1
	}
	maxCol := b.LineLen(ln)
	if !clampAppend && maxCol > 0 {
		maxCol--
	}
	col := pos.Col
	if col < 0 {
		col = 0
	}
	if col > maxCol {
		col = maxCol
	}
	return Pos{Line: ln, Col: col}
}

// GraphemeAt returns the grapheme cluster at pos, or "" if pos is past the
// end of its line.
func (b *Buffer) GraphemeAt(pos Pos) string {
	if pos.Line < 0 || pos.Line >= len(b.lines) {
		return ""
	}
	l := b.lines[pos.Line]
	if pos.Col < 0 || pos.Col >= len(l.graphemes) {
		return ""
	}
	return l.graphemes[pos.Col]
}

// DisplayColumn returns the screen column of pos, expanding tabs to the
// configured tabstop and widening East-Asian characters per go-runewidth.
func (b *Buffer) DisplayColumn(pos Pos) int {
	if pos.Line < 0 || pos.Line >= len(b.lines) {
		return 0
	}
	l := b.lines[pos.Line]
	col := 0
	limit := pos.Col
	if limit > len(l.graphemes) {
		limit = len(l.graphemes)
	}
	for i := 0; i < limit; i++ {
		col = advanceDisplay(col, l.graphemes[i], b.tabstop)
	}
	return col
}

func advanceDisplay(col int, g string, tabstop int) int {
	if g == "\t" {
		return (col/tabstop + 1) * tabstop
	}
	w := runewidth.StringWidth(g)
	if w < 1 {
		w = 1
	}
	return col + w
}

// ColumnAtDisplay returns the grapheme column on line ln whose display
// column is closest to (without exceeding) target, used by gj/gk and
// block-visual selection.
func (b *Buffer) ColumnAtDisplay(ln, target int) int {
	if ln < 0 || ln >= len(b.lines) {
		return 0
	}
	l := b.lines[ln]
	col := 0
	for i, g := range l.graphemes {
		next := advanceDisplay(col, g, b.tabstop)
		if next > target {
			return i
		}
		col = next
	}
	return len(l.graphemes)
}

// Slice returns the text covered by span, honoring its Kind: inclusive
// spans include the end grapheme, exclusive spans don't, linewise spans
// include whole lines and their terminators, blockwise spans return the
// rectangle's lines newline-joined.
func (b *Buffer) Slice(span Span) string {
	switch span.Kind {
	case Linewise:
		start, end := span.Ordered()
		var sb strings.Builder
		for ln := start.Line; ln <= end.Line && ln < len(b.lines); ln++ {
			sb.WriteString(b.lines[ln].text())
			sb.WriteString(b.lines[ln].term)
			if b.lines[ln].term == "" && ln != len(b.lines)-1 {
				sb.WriteString("\n")
			}
		}
		return sb.String()
	case Blockwise:
		start, end := span.Ordered()
		left, right := b.BlockColumns()
		var sb strings.Builder
		for ln := start.Line; ln <= end.Line && ln < len(b.lines); ln++ {
			lc := b.ColumnAtDisplay(ln, left)
			rc := b.ColumnAtDisplay(ln, right)
			sb.WriteString(b.sliceCols(ln, lc, rc, true))
			if ln != end.Line {
				sb.WriteString("\n")
			}
		}
		return sb.String()
	default:
		start, end := span.Ordered()
		inclusive := span.Kind == CharInclusive
		return b.sliceCharwise(start, end, inclusive)
	}
}

func (b *Buffer) sliceCols(ln, start, end int, inclusive bool) string {
	if ln < 0 || ln >= len(b.lines) {
		return ""
	}
	g := b.lines[ln].graphemes
	if start < 0 {
		start = 0
	}
	if end > len(g) {
		end = len(g)
	}
	if inclusive && end < len(g) {
		end++
	}
	if start >= end || start >= len(g) {
		return ""
	}
	return strings.Join(g[start:end], "")
}

func (b *Buffer) sliceCharwise(start, end Pos, inclusive bool) string {
	if start.Line == end.Line {
		endCol := end.Col
		if inclusive {
			endCol++
		}
		return b.sliceCols(start.Line, start.Col, endCol, false)
	}
	var sb strings.Builder
	sb.WriteString(b.sliceCols(start.Line, start.Col, b.LineLen(start.Line), false))
	sb.WriteString("\n")
	for ln := start.Line + 1; ln < end.Line; ln++ {
		sb.WriteString(b.lines[ln].text())
		sb.WriteString("\n")
	}
	endCol := end.Col
	if inclusive {
		endCol++
	}
	sb.WriteString(b.sliceCols(end.Line, 0, endCol, false))
	return sb.String()
}

// Delete removes the text covered by span and returns it, along with the
// position the cursor should land on.
func (b *Buffer) Delete(span Span) (removed string, landing Pos) {
	removed = b.Slice(span)
	switch span.Kind {
	case Linewise:
		start, end := span.Ordered()
		if end.Line >= len(b.lines) {
			end.Line = len(b.lines) - 1
		}
		b.lines = append(b.lines[:start.Line], b.lines[end.Line+1:]...)
		if len(b.lines) == 0 {
			b.lines = []*line{newLine("", "")}
		}
		landLine := start.Line
		if landLine >= len(b.lines) {
			landLine = len(b.lines) - 1
		}
		landing = Pos{Line: landLine, Col: 0}
	case Blockwise:
		start, end := span.Ordered()
		left, right := b.BlockColumns()
		for ln := start.Line; ln <= end.Line && ln < len(b.lines); ln++ {
			lc := b.ColumnAtDisplay(ln, left)
			rc := b.ColumnAtDisplay(ln, right)
			b.deleteCols(ln, lc, rc, true)
		}
		landing = Pos{Line: start.Line, Col: b.ColumnAtDisplay(start.Line, left)}
	default:
		start, end := span.Ordered()
		inclusive := span.Kind == CharInclusive
		b.deleteCharwise(start, end, inclusive)
		landing = start
	}
	return removed, b.Clamp(landing, false)
}

func (b *Buffer) deleteCols(ln, start, end int, inclusive bool) {
	if ln < 0 || ln >= len(b.lines) {
		return
	}
	g := b.lines[ln].graphemes
	if start < 0 {
		start = 0
	}
	if end > len(g) {
		end = len(g)
	}
	if inclusive && end < len(g) {
		end++
	}
	if start >= end || start > len(g) {
		return
	}
	b.lines[ln].graphemes = append(g[:start], g[end:]...)
}

func (b *Buffer) deleteCharwise(start, end Pos, inclusive bool) {
	if start.Line == end.Line {
		endCol := end.Col
		if inclusive {
			endCol++
		}
		b.deleteCols(start.Line, start.Col, endCol, false)
		return
	}
	tailEnd := end.Col
	if inclusive {
		tailEnd++
	}
	tail := b.sliceCols(end.Line, tailEnd, b.LineLen(end.Line), false)
	head := b.sliceCols(start.Line, 0, start.Col, false)
	term := b.lines[end.Line].term
	joined := newLine(head+tail, term)
	b.lines = append(append(b.lines[:start.Line], joined), b.lines[end.Line+1:]...)
}

// Insert inserts text at pos, splitting into lines as needed. It does not
// move the cursor.
func (b *Buffer) Insert(pos Pos, text string) {
	if text == "" {
		return
	}
	if pos.Line < 0 || pos.Line >= len(b.lines) {
		return
	}
	cur := b.lines[pos.Line]
	before := strings.Join(cur.graphemes[:min(pos.Col, len(cur.graphemes))], "")
	after := ""
	if pos.Col < len(cur.graphemes) {
		after = strings.Join(cur.graphemes[pos.Col:], "")
	}
	pieces := strings.Split(text, "\n")
	if len(pieces) == 1 {
		cur.graphemes = splitGraphemes(before + pieces[0] + after)
		return
	}
	newLines := make([]*line, 0, len(pieces))
	newLines = append(newLines, newLine(before+pieces[0], "\n"))
	for i := 1; i < len(pieces)-1; i++ {
		newLines = append(newLines, newLine(pieces[i], "\n"))
	}
	newLines = append(newLines, newLine(pieces[len(pieces)-1]+after, cur.term))
	tail := b.lines[pos.Line+1:]
	b.lines = append(b.lines[:pos.Line], newLines...)
	b.lines = append(b.lines, tail...)
}

// Replace substitutes the text covered by span with text and returns the
// text that was removed.
func (b *Buffer) Replace(span Span, text string) string {
	removed, landing := b.Delete(span)
	b.Insert(landing, text)
	return removed
}

// OpenLine inserts a new empty line above (after=false) or below
// (after=true) ln and returns its index.
func (b *Buffer) OpenLine(ln int, after bool) int {
	at := ln
	if after {
		at = ln + 1
	}
	term := "\n"
	if at >= len(b.lines) {
		term = ""
	}
	nl := newLine("", term)
	if at >= len(b.lines) {
		if len(b.lines) > 0 {
			b.lines[len(b.lines)-1].term = "\n"
		}
		b.lines = append(b.lines, nl)
		return len(b.lines) - 1
	}
	b.lines = append(b.lines[:at], append([]*line{nl}, b.lines[at:]...)...)
	return at
}

// JoinLines joins n lines starting at ln into one, separated by a single
// space (with leading whitespace on the joined-in line stripped), matching
// Vim's 'J'. It returns the column the cursor should land on.
func (b *Buffer) JoinLines(ln, n int) (int, error) {
	if n < 2 {
		n = 2
	}
	if ln < 0 || ln+1 >= len(b.lines) {
		return 0, errors.New("nothing to join")
	}
	landCol := b.LineLen(ln)
	for i := 1; i < n && ln+1 < len(b.lines); i++ {
		cur := b.lines[ln]
		next := b.lines[ln+1]
		nextText := strings.TrimLeft(next.text(), " \t")
		sep := " "
		curText := cur.text()
		if curText == "" || strings.HasSuffix(curText, " ") || nextText == "" {
			sep = ""
		}
		landCol = len(cur.graphemes)
		if sep != "" {
			landCol = len(cur.graphemes)
		}
		cur.graphemes = splitGraphemes(curText + sep + nextText)
		cur.term = next.term
		b.lines = append(b.lines[:ln+1], b.lines[ln+2:]...)
	}
	return landCol, nil
}
