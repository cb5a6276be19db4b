package vimotion

import (
	"github.com/clipperhouse/uax29/sentences"

	"github.com/vicut/vicut/buffer"
)

// textObjectSpan computes the span covered by a text object at pos. ok is
// false when the object cannot be found (e.g. no enclosing bracket),
// which the caller surfaces as InvalidTextObject.
func textObjectSpan(buf *buffer.Buffer, pos buffer.Pos, obj TextObj) (buffer.Span, bool) {
	switch obj.Kind {
	case TOWord:
		return wordObject(buf, pos, obj.Word, obj.Bound)
	case TODoubleQuote:
		return quoteObject(buf, pos, `"`, obj.Bound)
	case TOSingleQuote:
		return quoteObject(buf, pos, "'", obj.Bound)
	case TOBacktick:
		return quoteObject(buf, pos, "`", obj.Bound)
	case TOParen:
		return bracketObject(buf, pos, "(", ")", obj.Bound)
	case TOBracket:
		return bracketObject(buf, pos, "[", "]", obj.Bound)
	case TOBrace:
		return bracketObject(buf, pos, "{", "}", obj.Bound)
	case TOAngle:
		return bracketObject(buf, pos, "<", ">", obj.Bound)
	case TOParagraph:
		return paragraphObject(buf, pos, obj.Bound)
	case TOSentence:
		return sentenceObject(buf, pos, obj.Bound)
	case TOTag:
		return tagObject(buf, pos, obj.Bound)
	}
	return buffer.Span{}, false
}

func wordObject(buf *buffer.Buffer, pos buffer.Pos, word WordSize, bound Bound) (buffer.Span, bool) {
	big := word == BigWord
	start := pos
	for start.Col > 0 {
		prev := buffer.Pos{Line: start.Line, Col: start.Col - 1}
		if classBoundary(buf, prev, start, big) {
			break
		}
		start = prev
	}
	end := pos
	n := buf.LineLen(pos.Line)
	for end.Col+1 < n {
		next := buffer.Pos{Line: end.Line, Col: end.Col + 1}
		if classBoundary(buf, end, next, big) {
			break
		}
		end = next
	}
	if bound == Around {
		extEnd := end
		grew := false
		for extEnd.Col+1 < n && isBlank(buf.GraphemeAt(buffer.Pos{Line: extEnd.Line, Col: extEnd.Col + 1})) {
			extEnd.Col++
			grew = true
		}
		if grew {
			end = extEnd
		} else {
			for start.Col > 0 && isBlank(buf.GraphemeAt(buffer.Pos{Line: start.Line, Col: start.Col - 1})) {
				start.Col--
			}
		}
	}
	return buffer.Span{Start: start, End: end, Kind: buffer.CharInclusive}, true
}

func classBoundary(buf *buffer.Buffer, a, b buffer.Pos, big bool) bool {
	ca, cb := classAt(buf, a), classAt(buf, b)
	if big {
		return (ca == classSpace) != (cb == classSpace)
	}
	return ca != cb
}

func quoteObject(buf *buffer.Buffer, pos buffer.Pos, quote string, bound Bound) (buffer.Span, bool) {
	ln := pos.Line
	n := buf.LineLen(ln)
	var cols []int
	for c := 0; c < n; c++ {
		if buf.GraphemeAt(buffer.Pos{Line: ln, Col: c}) == quote {
			cols = append(cols, c)
		}
	}
	if len(cols) < 2 {
		return buffer.Span{}, false
	}
	for i := 0; i+1 < len(cols); i += 2 {
		left, right := cols[i], cols[i+1]
		if pos.Col >= left && pos.Col <= right {
			if bound == Inside {
				if right-left <= 1 {
					return buffer.Span{Start: buffer.Pos{Line: ln, Col: left + 1}, End: buffer.Pos{Line: ln, Col: left}, Kind: buffer.CharExclusive}, true
				}
				return buffer.Span{Start: buffer.Pos{Line: ln, Col: left + 1}, End: buffer.Pos{Line: ln, Col: right - 1}, Kind: buffer.CharInclusive}, true
			}
			return buffer.Span{Start: buffer.Pos{Line: ln, Col: left}, End: buffer.Pos{Line: ln, Col: right}, Kind: buffer.CharInclusive}, true
		}
	}
	return buffer.Span{}, false
}

func bracketObject(buf *buffer.Buffer, pos buffer.Pos, open, close string, bound Bound) (buffer.Span, bool) {
	startPos, ok := findEnclosingOpen(buf, pos, open, close)
	if !ok {
		return buffer.Span{}, false
	}
	endPos, ok := findMatchingClose(buf, startPos, open, close)
	if !ok {
		return buffer.Span{}, false
	}
	if bound == Inside {
		inner := buffer.Pos{Line: startPos.Line, Col: startPos.Col + 1}
		innerEnd := stepBack(buf, endPos)
		if posAfter(inner, innerEnd) {
			return buffer.Span{Start: inner, End: inner, Kind: buffer.CharExclusive}, true
		}
		return buffer.Span{Start: inner, End: innerEnd, Kind: buffer.CharInclusive}, true
	}
	return buffer.Span{Start: startPos, End: endPos, Kind: buffer.CharInclusive}, true
}

func stepBack(buf *buffer.Buffer, pos buffer.Pos) buffer.Pos {
	p, ok := stepBackward(buf, pos)
	if !ok {
		return pos
	}
	return p
}

func posAfter(a, b buffer.Pos) bool {
	if a.Line != b.Line {
		return a.Line > b.Line
	}
	return a.Col > b.Col
}

// findEnclosingOpen walks outward from pos, tracking bracket depth, to
// find the open bracket enclosing pos (or at pos itself).
func findEnclosingOpen(buf *buffer.Buffer, pos buffer.Pos, open, close string) (buffer.Pos, bool) {
	if charAt(buf, pos) == open {
		return pos, true
	}
	depth := 0
	p := pos
	for {
		np, ok := stepBackward(buf, p)
		if !ok {
			return buffer.Pos{}, false
		}
		p = np
		g := charAt(buf, p)
		if g == close {
			depth++
		} else if g == open {
			if depth == 0 {
				return p, true
			}
			depth--
		}
	}
}

func findMatchingClose(buf *buffer.Buffer, open buffer.Pos, openCh, close string) (buffer.Pos, bool) {
	depth := 0
	p := open
	for {
		np, ok := stepForward(buf, p)
		if !ok {
			return buffer.Pos{}, false
		}
		p = np
		g := charAt(buf, p)
		if g == openCh {
			depth++
		} else if g == close {
			if depth == 0 {
				return p, true
			}
			depth--
		}
	}
}

func paragraphObject(buf *buffer.Buffer, pos buffer.Pos, bound Bound) (buffer.Span, bool) {
	isBlankLine := func(ln int) bool {
		return buf.LineLen(ln) == 0
	}
	start := pos.Line
	for start > 0 && !isBlankLine(start-1) {
		start--
	}
	end := pos.Line
	for end+1 < buf.LineCount() && !isBlankLine(end+1) {
		end++
	}
	if bound == Around {
		for end+1 < buf.LineCount() && isBlankLine(end+1) {
			end++
		}
	}
	return buffer.Span{Start: buffer.Pos{Line: start, Col: 0}, End: buffer.Pos{Line: end, Col: 0}, Kind: buffer.Linewise}, true
}

// sentenceObject finds the sentence containing pos using uax29/v2's UAX#29
// sentence segmenter rather than a hand-rolled punctuation scan, so
// abbreviations, quoted terminators, and other cases the segmenter already
// handles come for free.
func sentenceObject(buf *buffer.Buffer, pos buffer.Pos, bound Bound) (buffer.Span, bool) {
	ln := pos.Line
	text := buf.LineText(ln)
	runeCount := len([]rune(text))
	if runeCount == 0 {
		return buffer.Span{}, false
	}
	targetByte := runeColToByte(text, pos.Col)

	seg := sentences.NewSegmenter([]byte(text))
	startByte, endByte := -1, -1
	offset := 0
	for seg.Next() {
		s := seg.Bytes()
		segStart, segEnd := offset, offset+len(s)
		offset = segEnd
		if targetByte >= segStart && targetByte < segEnd {
			startByte, endByte = segStart, segEnd
			break
		}
	}
	if startByte < 0 {
		return buffer.Span{}, false
	}

	start := byteToRuneCol(text, startByte)
	end := byteToRuneCol(text, endByte) - 1
	for end > start && isBlank(buf.GraphemeAt(buffer.Pos{Line: ln, Col: end})) {
		end--
	}
	for start < end && isBlank(buf.GraphemeAt(buffer.Pos{Line: ln, Col: start})) {
		start++
	}
	if bound == Around {
		for end+1 < runeCount && isBlank(buf.GraphemeAt(buffer.Pos{Line: ln, Col: end + 1})) {
			end++
		}
	}
	if start > end {
		return buffer.Span{}, false
	}
	return buffer.Span{Start: buffer.Pos{Line: ln, Col: start}, End: buffer.Pos{Line: ln, Col: end}, Kind: buffer.CharInclusive}, true
}

func runeColToByte(s string, col int) int {
	i := 0
	for b := range s {
		if i == col {
			return b
		}
		i++
	}
	return len(s)
}

func byteToRuneCol(s string, byteOff int) int {
	col := 0
	for b := range s {
		if b >= byteOff {
			return col
		}
		col++
	}
	return col
}

// tagObject matches a simple "<tag>...</tag>" pair on or after pos.
func tagObject(buf *buffer.Buffer, pos buffer.Pos, bound Bound) (buffer.Span, bool) {
	ln := pos.Line
	text := buf.LineText(ln)
	// Narrow, line-local tag matching: good enough for single-line records.
	openStart := -1
	openEnd := -1
	depth := 0
	for i := 0; i < len(text); i++ {
		if text[i] == '<' {
			if i+1 < len(text) && text[i+1] == '/' {
				if depth > 0 {
					depth--
				}
				continue
			}
			if openStart < 0 || depth == 0 {
				openStart = i
			}
			depth++
		} else if text[i] == '>' && openStart >= 0 && openEnd < 0 {
			openEnd = i
		}
	}
	if openStart < 0 || openEnd < 0 {
		return buffer.Span{}, false
	}
	closeIdx := indexFrom(text, "</", openEnd)
	if closeIdx < 0 {
		return buffer.Span{}, false
	}
	closeEnd := indexFrom(text, ">", closeIdx)
	if closeEnd < 0 {
		return buffer.Span{}, false
	}
	if bound == Inside {
		if openEnd+1 > closeIdx-1 {
			return buffer.Span{}, false
		}
		return buffer.Span{Start: buffer.Pos{Line: ln, Col: openEnd + 1}, End: buffer.Pos{Line: ln, Col: closeIdx - 1}, Kind: buffer.CharInclusive}, true
	}
	return buffer.Span{Start: buffer.Pos{Line: ln, Col: openStart}, End: buffer.Pos{Line: ln, Col: closeEnd}, Kind: buffer.CharInclusive}, true
}

func indexFrom(s, sub string, from int) int {
	if from < 0 || from >= len(s) {
		return -1
	}
	idx := -1
	for i := from; i+len(sub) <= len(s); i++ {
		if s[i:i+len(sub)] == sub {
			idx = i
			break
		}
	}
	return idx
}
