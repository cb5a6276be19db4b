package vimotion

import "github.com/vicut/vicut/buffer"

// execVerb applies cmd.Verb, resolving cmd.Motion into a span first when
// the verb needs one.
func (ip *Interp) execVerb(cmd *Cmd) error {
	v := cmd.Verb
	switch v.Kind {
	case VVisualMode:
		ip.enterVisual(buffer.Visual)
		return nil
	case VVisualLine:
		ip.enterVisual(buffer.VisualLine)
		return nil
	case VVisualSwap:
		ip.Buf.SwapAnchor()
		return nil
	case VReplaceChar:
		count := v.Count
		if count == 0 {
			count = 1
		}
		if landing, ok := replaceChar(ip.Buf, ip.Buf.Cursor(), count, string(v.Char)); ok {
			ip.Buf.MoveCursor(landing, false)
		}
		return nil
	case VJoinLines:
		n := v.Count
		if n == 0 {
			n = 2
		}
		col, err := ip.Buf.JoinLines(ip.Buf.Cursor().Line, n)
		if err != nil {
			return nil // nothing to join on the last line: a silent no-op, as in Vim
		}
		ip.Buf.MoveCursor(buffer.Pos{Line: ip.Buf.Cursor().Line, Col: col}, false)
		return nil
	case VPut:
		count := v.Count
		if count == 0 {
			count = 1
		}
		landing := put(ip.Buf, ip.Regs, cmd.Register, ip.Buf.Cursor(), v.Anchor, count)
		ip.Buf.MoveCursor(landing, false)
		return nil
	case VInsertMode:
		return ip.execInsertEntry(cmd)
	case VReplaceMode:
		landing := replaceMode(ip.Buf, ip.Buf.Cursor(), v.Text)
		ip.Buf.MoveCursor(landing, false)
		return nil
	case VRepeatLast:
		return ip.execRepeatLast(v.Count)
	case VNormalMode:
		return nil
	}

	span, moved, err := ip.spanForVerb(cmd)
	if err != nil {
		return err
	}
	if !moved {
		return nil
	}
	landing := applyVerb(ip.Buf, ip.Regs, cmd.Register, *v, span)
	ip.Buf.MoveCursor(landing, false)
	if v.Kind == VChange {
		full := v.Text
		ip.Buf.Insert(landing, full)
		ip.Buf.MoveCursor(insertLanding(landing, full), false)
	}
	if ip.Buf.Mode() == buffer.Visual || ip.Buf.Mode() == buffer.VisualLine || ip.Buf.Mode() == buffer.VisualBlock {
		ip.Buf.SetMode(buffer.Normal)
		ip.Buf.ClearAnchor()
	}
	return nil
}

// spanForVerb resolves the span a motion-consuming verb should act on:
// the live Visual selection if one is active (cmd.Motion is then nil,
// since the parser doesn't ask Visual-mode operators for a motion), or
// the motion's own span otherwise.
func (ip *Interp) spanForVerb(cmd *Cmd) (buffer.Span, bool, error) {
	if cmd.Motion == nil {
		span, ok := ip.Buf.SelectionSpan()
		return span, ok, nil
	}
	return ip.resolveMotion(cmd.Motion)
}

func (ip *Interp) enterVisual(mode buffer.Mode) {
	ip.Buf.SetMode(mode)
	ip.Buf.SetAnchor(ip.Buf.Cursor())
}

func (ip *Interp) execInsertEntry(cmd *Cmd) error {
	v := cmd.Verb
	pos := ip.Buf.Cursor()
	count := v.Count
	if count == 0 {
		count = 1
	}
	var at buffer.Pos
	switch v.Char {
	case 'i':
		at = pos
	case 'a':
		at = buffer.Pos{Line: pos.Line, Col: pos.Col}
		if ip.Buf.LineLen(pos.Line) > 0 {
			at.Col++
		}
	case 'I':
		at = lineFirstNonBlank(ip.Buf, pos.Line)
	case 'A':
		at = buffer.Pos{Line: pos.Line, Col: ip.Buf.LineLen(pos.Line)}
	case 'o':
		ln := ip.Buf.OpenLine(pos.Line, true)
		at = buffer.Pos{Line: ln, Col: 0}
	case 'O':
		ln := ip.Buf.OpenLine(pos.Line, false)
		at = buffer.Pos{Line: ln, Col: 0}
	}
	text := v.Text
	full := text
	for i := 1; i < count; i++ {
		full += text
	}
	ip.Buf.Insert(at, full)
	landing := insertLanding(at, full)
	ip.Buf.MoveCursor(landing, false)
	ip.Buf.SetMode(buffer.Normal)
	return nil
}

// replaceMode overwrites characters starting at pos with text ('R'),
// extending the line when text runs past its current end, and returns
// the landing position.
func replaceMode(buf *buffer.Buffer, pos buffer.Pos, text string) buffer.Pos {
	line, col := pos.Line, pos.Col
	for _, r := range text {
		if r == '\n' {
			line++
			col = 0
			continue
		}
		n := buf.LineLen(line)
		if col < n {
			buf.Replace(buffer.Span{Start: buffer.Pos{Line: line, Col: col}, End: buffer.Pos{Line: line, Col: col}, Kind: buffer.CharInclusive}, string(r))
		} else {
			buf.Insert(buffer.Pos{Line: line, Col: col}, string(r))
		}
		col++
	}
	if col > 0 {
		col--
	}
	return buffer.Pos{Line: line, Col: col}
}

func insertLanding(at buffer.Pos, text string) buffer.Pos {
	line := at.Line
	col := at.Col
	runes := []rune(text)
	for _, r := range runes {
		if r == '\n' {
			line++
			col = 0
			continue
		}
		col++
	}
	if col > 0 {
		col--
	}
	return buffer.Pos{Line: line, Col: col}
}

func (ip *Interp) execRepeatLast(count int) error {
	if !ip.Change.Set {
		return nil
	}
	raw := ip.Change.RawSeq
	if count > 0 {
		raw = overrideLeadingCount(raw, count)
	}
	saved := ip.Change
	_, err := ip.Exec(raw)
	ip.Change = saved
	return err
}

// overrideLeadingCount replaces a leading digit run in raw with count,
// matching Vim's "a count given to '.' overrides the original one".
func overrideLeadingCount(raw string, count int) string {
	i := 0
	for i < len(raw) && raw[i] >= '0' && raw[i] <= '9' {
		i++
	}
	itoa := func(n int) string {
		if n == 0 {
			return "0"
		}
		neg := n < 0
		if neg {
			n = -n
		}
		var buf [20]byte
		p := len(buf)
		for n > 0 {
			p--
			buf[p] = byte('0' + n%10)
			n /= 10
		}
		if neg {
			p--
			buf[p] = '-'
		}
		return string(buf[p:])
	}
	return itoa(count) + raw[i:]
}
