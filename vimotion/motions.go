package vimotion

import "github.com/vicut/vicut/buffer"

// charAt treats the position just past a line's last grapheme as a
// virtual space grapheme, so word-boundary scans cross line breaks the
// way Vim's 'w'/'b'/'e' do.
func charAt(buf *buffer.Buffer, pos buffer.Pos) string {
	if pos.Col >= buf.LineLen(pos.Line) {
		return "\n"
	}
	return buf.GraphemeAt(pos)
}

func classAt(buf *buffer.Buffer, pos buffer.Pos) charClass {
	return classify(charAt(buf, pos))
}

func stepForward(buf *buffer.Buffer, pos buffer.Pos) (buffer.Pos, bool) {
	lineLen := buf.LineLen(pos.Line)
	if pos.Col < lineLen {
		// May land on the virtual end-of-line space (Col == lineLen).
		return buffer.Pos{Line: pos.Line, Col: pos.Col + 1}, true
	}
	if pos.Line+1 < buf.LineCount() {
		return buffer.Pos{Line: pos.Line + 1, Col: 0}, true
	}
	return pos, false
}

func stepBackward(buf *buffer.Buffer, pos buffer.Pos) (buffer.Pos, bool) {
	if pos.Col > 0 {
		return buffer.Pos{Line: pos.Line, Col: pos.Col - 1}, true
	}
	if pos.Line > 0 {
		prevLine := pos.Line - 1
		col := buf.LineLen(prevLine)
		if col > 0 {
			col--
		}
		return buffer.Pos{Line: prevLine, Col: col}, true
	}
	return pos, false
}

// wordForward implements 'w'/'W': move to the start of the next word,
// treating the motion as exclusive.
func wordForward(buf *buffer.Buffer, pos buffer.Pos, count int, big bool) buffer.Pos {
	p := pos
	for i := 0; i < count; i++ {
		np, moved := singleWordForward(buf, p, big)
		if !moved {
			break
		}
		p = np
	}
	return p
}

func singleWordForward(buf *buffer.Buffer, p buffer.Pos, big bool) (buffer.Pos, bool) {
	start := p
	startClass := classAt(buf, p)
	if big {
		if startClass != classSpace {
			for {
				np, ok := stepForward(buf, p)
				if !ok || classAt(buf, np) == classSpace {
					break
				}
				p = np
			}
		}
	} else if startClass != classSpace {
		for {
			np, ok := stepForward(buf, p)
			if !ok || classAt(buf, np) != startClass {
				break
			}
			p = np
		}
	}
	for {
		np, ok := stepForward(buf, p)
		if !ok {
			break
		}
		if classAt(buf, np) == classSpace {
			p = np
			continue
		}
		p = np
		break
	}
	return p, p != start
}

// wordBackward implements 'b'/'B': move to the start of the current or
// previous word (exclusive).
func wordBackward(buf *buffer.Buffer, pos buffer.Pos, count int, big bool) buffer.Pos {
	p := pos
	for i := 0; i < count; i++ {
		np, moved := singleWordBackward(buf, p, big)
		if !moved {
			break
		}
		p = np
	}
	return p
}

func singleWordBackward(buf *buffer.Buffer, p buffer.Pos, big bool) (buffer.Pos, bool) {
	start := p
	for {
		np, ok := stepBackward(buf, p)
		if !ok {
			return p, p != start
		}
		p = np
		if classAt(buf, p) != classSpace {
			break
		}
	}
	cls := classAt(buf, p)
	for {
		np, ok := stepBackward(buf, p)
		if !ok {
			break
		}
		var same bool
		if big {
			same = classAt(buf, np) != classSpace
		} else {
			same = classAt(buf, np) == cls
		}
		if !same {
			break
		}
		p = np
	}
	return p, p != start
}

// wordEnd implements 'e'/'E' (and, with back=true, 'ge'/'gE'): move to
// the end of the current or next/previous word (inclusive).
func wordEnd(buf *buffer.Buffer, pos buffer.Pos, count int, big, back bool) buffer.Pos {
	p := pos
	for i := 0; i < count; i++ {
		var np buffer.Pos
		var moved bool
		if back {
			np, moved = singleWordEndBackward(buf, p, big)
		} else {
			np, moved = singleWordEndForward(buf, p, big)
		}
		if !moved {
			break
		}
		p = np
	}
	return p
}

func singleWordEndForward(buf *buffer.Buffer, p buffer.Pos, big bool) (buffer.Pos, bool) {
	start := p
	np, ok := stepForward(buf, p)
	if !ok {
		return p, false
	}
	p = np
	for classAt(buf, p) == classSpace {
		np, ok = stepForward(buf, p)
		if !ok {
			return p, p != start
		}
		p = np
	}
	cls := classAt(buf, p)
	for {
		np, ok = stepForward(buf, p)
		if !ok {
			break
		}
		var same bool
		if big {
			same = classAt(buf, np) != classSpace
		} else {
			same = classAt(buf, np) == cls
		}
		if !same {
			break
		}
		p = np
	}
	return p, p != start
}

func singleWordEndBackward(buf *buffer.Buffer, p buffer.Pos, big bool) (buffer.Pos, bool) {
	start := p
	np, ok := stepBackward(buf, p)
	if !ok {
		return p, false
	}
	p = np
	for classAt(buf, p) == classSpace {
		np, ok = stepBackward(buf, p)
		if !ok {
			return p, p != start
		}
		p = np
	}
	return p, p != start
}

// lineFirstNonBlank implements '^'.
func lineFirstNonBlank(buf *buffer.Buffer, ln int) buffer.Pos {
	n := buf.LineLen(ln)
	for c := 0; c < n; c++ {
		if !isBlank(buf.GraphemeAt(buffer.Pos{Line: ln, Col: c})) {
			return buffer.Pos{Line: ln, Col: c}
		}
	}
	return buffer.Pos{Line: ln, Col: 0}
}

// charSearch implements 'f'/'F'/'t'/'T': search the current line for ch.
// On failure the cursor is left unchanged (used deliberately as a
// conditional by scripts, per spec).
func charSearch(buf *buffer.Buffer, pos buffer.Pos, count int, dir Direction, dest Dest, ch string) (buffer.Pos, bool) {
	ln := pos.Line
	n := buf.LineLen(ln)
	c := pos.Col
	found := c
	remaining := count
	for remaining > 0 {
		matched := false
		if dir == Forward {
			for i := found + 1; i < n; i++ {
				if buf.GraphemeAt(buffer.Pos{Line: ln, Col: i}) == ch {
					found = i
					matched = true
					break
				}
			}
		} else {
			for i := found - 1; i >= 0; i-- {
				if buf.GraphemeAt(buffer.Pos{Line: ln, Col: i}) == ch {
					found = i
					matched = true
					break
				}
			}
		}
		if !matched {
			return pos, false
		}
		remaining--
	}
	if dest == Before {
		if dir == Forward {
			found--
		} else {
			found++
		}
	}
	if found < 0 || found >= n || found == pos.Col {
		if found == pos.Col {
			return pos, false
		}
	}
	return buffer.Pos{Line: ln, Col: found}, true
}

// percentMatch implements '%': jump to the matching bracket of the
// nearest bracket at or after the cursor on the current line.
func percentMatch(buf *buffer.Buffer, pos buffer.Pos) (buffer.Pos, bool) {
	pairs := map[string]string{"(": ")", "[": "]", "{": "}"}
	rpairs := map[string]string{")": "(", "]": "[", "}": "{"}
	ln := pos.Line
	n := buf.LineLen(ln)
	startCol := -1
	var open string
	for c := pos.Col; c < n; c++ {
		g := buf.GraphemeAt(buffer.Pos{Line: ln, Col: c})
		if _, ok := pairs[g]; ok {
			startCol = c
			open = g
			break
		}
		if _, ok := rpairs[g]; ok {
			startCol = c
			open = g
			break
		}
	}
	if startCol < 0 {
		return pos, false
	}
	if close, ok := pairs[open]; ok {
		depth := 1
		for c := startCol + 1; c < n; c++ {
			g := buf.GraphemeAt(buffer.Pos{Line: ln, Col: c})
			if g == open {
				depth++
			} else if g == close {
				depth--
				if depth == 0 {
					return buffer.Pos{Line: ln, Col: c}, true
				}
			}
		}
		return pos, false
	}
	openCh := rpairs[open]
	depth := 1
	for c := startCol - 1; c >= 0; c-- {
		g := buf.GraphemeAt(buffer.Pos{Line: ln, Col: c})
		if g == open {
			depth++
		} else if g == openCh {
			depth--
			if depth == 0 {
				return buffer.Pos{Line: ln, Col: c}, true
			}
		}
	}
	return pos, false
}
