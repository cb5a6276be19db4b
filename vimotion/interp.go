package vimotion

import (
	"github.com/vicut/vicut/buffer"
	"github.com/vicut/vicut/register"
)

// LastFind remembers the most recent character search, for ';' and ','.
type LastFind struct {
	Char rune
	Dir  Direction
	Dest Dest
	Set  bool
}

// LastChange remembers the most recent edit command string, for '.'.
type LastChange struct {
	RawSeq string
	Set    bool
}

// LastSearch remembers the most recent '/' or '?' pattern, for 'n'/'N'.
type LastSearch struct {
	Pattern string
	Forward bool
	Set     bool
}

// Interp holds the state that persists across the many Exec calls a
// single vicut invocation makes against one buffer: find/search/change
// history and marks, none of which a Cmd carries on its own.
type Interp struct {
	Buf    *buffer.Buffer
	Regs   *register.File
	Find   LastFind
	Search LastSearch
	Change LastChange
	Marks  map[rune]buffer.Pos
}

// NewInterp builds an interpreter over buf, sharing regs across every
// field cut from the same invocation (matching named-register behavior
// across multiple -c args in one vicut run).
func NewInterp(buf *buffer.Buffer, regs *register.File) *Interp {
	return &Interp{Buf: buf, Regs: regs, Marks: make(map[rune]buffer.Pos)}
}

// Result is what Exec hands back: the field text the command string spans
// and Captures, which reports that Captured holds a field; Exec sets it on
// every successful run.
type Result struct {
	Captured string
	Captures bool
}

// Exec runs cmdStr as a sequence of Normal-mode commands against the
// interpreter's buffer and returns the field captured by the whole
// command string. Per the reference implementation this is NOT
// necessarily the span of the command's last motion: it is the cursor
// position before the command string ran to the cursor position after,
// inclusive and ordered - or the live Visual selection, if the buffer is
// still in a Visual mode once the string is exhausted.
func (ip *Interp) Exec(cmdStr string) (Result, error) {
	start := ip.Buf.Cursor()

	p := NewParser(cmdStr)
	for {
		p.SetVisual(ip.Buf.Mode() == buffer.Visual || ip.Buf.Mode() == buffer.VisualLine || ip.Buf.Mode() == buffer.VisualBlock)
		cmd, err := p.Next()
		if err != nil {
			return Result{}, err
		}
		if cmd == nil {
			if p.Done() {
				break
			}
			continue
		}
		if err := ip.exec(cmd); err != nil {
			return Result{}, err
		}
	}

	if span, ok := ip.Buf.SelectionSpan(); ok {
		return Result{Captured: ip.Buf.Slice(span), Captures: true}, nil
	}

	end := ip.Buf.Cursor()
	ordStart, ordEnd := start, end
	if lessPos(ordEnd, ordStart) {
		ordStart, ordEnd = ordEnd, ordStart
	}
	span := buffer.Span{Start: ordStart, End: ordEnd, Kind: buffer.CharInclusive}
	return Result{Captured: ip.Buf.Slice(span), Captures: true}, nil
}

// Move runs cmdStr purely for its cursor-movement side effect, discarding
// any captured text; grounded on the reference implementation's
// move_cursor, which is read_field with the result thrown away.
func (ip *Interp) Move(cmdStr string) error {
	_, err := ip.Exec(cmdStr)
	return err
}

func lessPos(a, b buffer.Pos) bool {
	if a.Line != b.Line {
		return a.Line < b.Line
	}
	return a.Col < b.Col
}

func (ip *Interp) exec(cmd *Cmd) error {
	if cmd.Verb != nil {
		if err := ip.execVerb(cmd); err != nil {
			return err
		}
		if cmd.Verb.Kind != VVisualMode && cmd.Verb.Kind != VVisualLine && cmd.Verb.Kind != VVisualSwap {
			ip.Change = LastChange{RawSeq: cmd.RawSeq, Set: true}
		}
		return nil
	}
	if cmd.Motion != nil {
		return ip.execMotionOnly(cmd)
	}
	return nil
}

func (ip *Interp) execMotionOnly(cmd *Cmd) error {
	span, moved, err := ip.resolveMotion(cmd.Motion)
	if err != nil {
		return err
	}
	if !moved {
		return nil
	}
	landing := span.End
	if cmd.Motion.Kind == MGotoFirstLine || cmd.Motion.Kind == MGotoLastLine || cmd.Motion.Kind == MGotoLine {
		landing = lineFirstNonBlank(ip.Buf, span.End.Line)
	}
	// A bare text object inside Visual mode (e.g. "va)") replaces the
	// selection with the object's full bounds rather than extending from
	// the cursor's current side of the anchor.
	if cmd.Motion.Kind == MTextObject {
		if _, ok := ip.Buf.Anchor(); ok {
			start, end := span.Ordered()
			ip.Buf.SetAnchor(start)
			landing = end
		}
	}
	ip.Buf.MoveCursor(landing, false)
	ip.Buf.ResetDesiredColumn()
	ip.recordFindState(cmd.Motion)
	return nil
}

func (ip *Interp) recordFindState(m *Motion) {
	switch m.Kind {
	case MCharSearch:
		ip.Find = LastFind{Char: m.Char, Dir: m.Dir, Dest: m.Dest, Set: true}
	case MSearchForward:
		ip.Search = LastSearch{Pattern: m.Pattern, Forward: true, Set: true}
	case MSearchBackward:
		ip.Search = LastSearch{Pattern: m.Pattern, Forward: false, Set: true}
	}
}

// resolveMotion computes the span a motion covers starting at the
// buffer's current cursor, and reports whether the motion actually moved
// (a failed character search leaves the cursor in place, per Vim).
func (ip *Interp) resolveMotion(m *Motion) (buffer.Span, bool, error) {
	pos := ip.Buf.Cursor()
	count := m.Count
	if count == 0 {
		count = 1
	}
	switch m.Kind {
	case MLeft:
		np := pos
		for i := 0; i < count && np.Col > 0; i++ {
			np.Col--
		}
		return buffer.Span{Start: pos, End: np, Kind: buffer.CharExclusive}, true, nil
	case MRight:
		np := pos
		limit := ip.Buf.LineLen(pos.Line) - 1
		for i := 0; i < count && np.Col < limit; i++ {
			np.Col++
		}
		return buffer.Span{Start: pos, End: np, Kind: buffer.CharInclusive}, true, nil
	case MUp, MDown:
		return ip.resolveVertical(pos, count, m.Kind == MDown)
	case MWordForward:
		np := wordForward(ip.Buf, pos, count, m.Word == BigWord)
		return buffer.Span{Start: pos, End: np, Kind: buffer.CharExclusive}, true, nil
	case MWordBackward:
		np := wordBackward(ip.Buf, pos, count, m.Word == BigWord)
		return buffer.Span{Start: np, End: pos, Kind: buffer.CharExclusive}, true, nil
	case MWordEnd:
		np := wordEnd(ip.Buf, pos, count, m.Word == BigWord, false)
		return buffer.Span{Start: pos, End: np, Kind: buffer.CharInclusive}, true, nil
	case MWordEndBackward:
		np := wordEnd(ip.Buf, pos, count, m.Word == BigWord, true)
		return buffer.Span{Start: np, End: pos, Kind: buffer.CharInclusive}, true, nil
	case MLineFirstNonBlank:
		np := lineFirstNonBlank(ip.Buf, pos.Line)
		return buffer.Span{Start: pos, End: np, Kind: buffer.CharExclusive}, true, nil
	case MLineStart:
		np := buffer.Pos{Line: pos.Line, Col: 0}
		return buffer.Span{Start: pos, End: np, Kind: buffer.CharExclusive}, true, nil
	case MLineEnd:
		ln := pos.Line + count - 1
		if ln >= ip.Buf.LineCount() {
			ln = ip.Buf.LineCount() - 1
		}
		col := ip.Buf.LineLen(ln) - 1
		if col < 0 {
			col = 0
		}
		np := buffer.Pos{Line: ln, Col: col}
		return buffer.Span{Start: pos, End: np, Kind: buffer.CharInclusive}, true, nil
	case MScreenColumn:
		col := count - 1
		if col < 0 {
			col = 0
		}
		np := ip.Buf.Clamp(buffer.Pos{Line: pos.Line, Col: col}, false)
		kind := buffer.CharExclusive
		if np.Col >= pos.Col {
			kind = buffer.CharInclusive
		}
		return buffer.Span{Start: pos, End: np, Kind: kind}, true, nil
	case MGotoFirstLine:
		ln := count - 1
		if m.Count == 0 {
			ln = 0
		}
		if ln >= ip.Buf.LineCount() {
			ln = ip.Buf.LineCount() - 1
		}
		np := buffer.Pos{Line: ln, Col: 0}
		return buffer.Span{Start: pos, End: np, Kind: buffer.Linewise}, true, nil
	case MGotoLastLine:
		np := buffer.Pos{Line: ip.Buf.LineCount() - 1, Col: 0}
		return buffer.Span{Start: pos, End: np, Kind: buffer.Linewise}, true, nil
	case MGotoLine:
		ln := m.Line
		if ln >= ip.Buf.LineCount() {
			ln = ip.Buf.LineCount() - 1
		}
		if ln < 0 {
			ln = 0
		}
		np := buffer.Pos{Line: ln, Col: 0}
		return buffer.Span{Start: pos, End: np, Kind: buffer.Linewise}, true, nil
	case MCharSearch:
		np, ok := charSearch(ip.Buf, pos, count, m.Dir, m.Dest, string(m.Char))
		if !ok {
			return buffer.Span{}, false, nil
		}
		kind := buffer.CharExclusive
		if m.Dir == Forward {
			kind = buffer.CharInclusive
		}
		if posLessPublic(np, pos) {
			return buffer.Span{Start: np, End: pos, Kind: kind}, true, nil
		}
		return buffer.Span{Start: pos, End: np, Kind: kind}, true, nil
	case MRepeatFind:
		return ip.resolveRepeatFind(pos, count, false)
	case MRepeatFindRev:
		return ip.resolveRepeatFind(pos, count, true)
	case MPercentMatch:
		np, ok := percentMatch(ip.Buf, pos)
		if !ok {
			return buffer.Span{}, false, nil
		}
		if posLessPublic(np, pos) {
			return buffer.Span{Start: np, End: pos, Kind: buffer.CharInclusive}, true, nil
		}
		return buffer.Span{Start: pos, End: np, Kind: buffer.CharInclusive}, true, nil
	case MTextObject:
		span, ok := textObjectSpan(ip.Buf, pos, m.Obj)
		if !ok {
			return buffer.Span{}, false, newError(KindInvalidTextObject, 0, "text object not found")
		}
		return span, true, nil
	case MWholeLine:
		ln := pos.Line + count - 1
		if ln >= ip.Buf.LineCount() {
			ln = ip.Buf.LineCount() - 1
		}
		return buffer.Span{Start: buffer.Pos{Line: pos.Line, Col: 0}, End: buffer.Pos{Line: ln, Col: 0}, Kind: buffer.Linewise}, true, nil
	case MMarkJump:
		mk, ok := ip.Marks[m.Mark]
		if !ok {
			return buffer.Span{}, false, nil
		}
		return buffer.Span{Start: pos, End: mk, Kind: buffer.CharExclusive}, true, nil
	case MSearchNext, MSearchPrev, MSearchForward, MSearchBackward:
		// Pattern search is implemented by the exsub package's engine;
		// vimotion resolves it through the package-level SearchFunc hook.
		return ip.resolveSearch(pos, m, count)
	}
	return buffer.Span{}, false, nil
}

func posLessPublic(a, b buffer.Pos) bool { return lessPos(a, b) }

func (ip *Interp) resolveVertical(pos buffer.Pos, count int, down bool) (buffer.Span, bool, error) {
	desired := ip.Buf.DesiredColumn()
	if desired < 0 {
		desired = ip.Buf.DisplayColumn(pos)
		ip.Buf.SetDesiredColumn(desired)
	}
	ln := pos.Line
	if down {
		ln += count
	} else {
		ln -= count
	}
	if ln < 0 {
		ln = 0
	}
	if ln >= ip.Buf.LineCount() {
		ln = ip.Buf.LineCount() - 1
	}
	col := ip.Buf.ColumnAtDisplay(ln, desired)
	np := buffer.Pos{Line: ln, Col: col}
	return buffer.Span{Start: pos, End: np, Kind: buffer.Linewise}, true, nil
}

func (ip *Interp) resolveRepeatFind(pos buffer.Pos, count int, reverse bool) (buffer.Span, bool, error) {
	if !ip.Find.Set {
		return buffer.Span{}, false, nil
	}
	dir := ip.Find.Dir
	if reverse {
		if dir == Forward {
			dir = Backward
		} else {
			dir = Forward
		}
	}
	np, ok := charSearch(ip.Buf, pos, count, dir, ip.Find.Dest, string(ip.Find.Char))
	if !ok {
		return buffer.Span{}, false, nil
	}
	kind := buffer.CharExclusive
	if dir == Forward {
		kind = buffer.CharInclusive
	}
	if lessPos(np, pos) {
		return buffer.Span{Start: np, End: pos, Kind: kind}, true, nil
	}
	return buffer.Span{Start: pos, End: np, Kind: kind}, true, nil
}

// Searcher looks up the next/previous occurrence of pattern starting
// from pos, wrapping per Vim's default 'wrapscan'. vicut's driver wires
// this to the exsub package's regexp2 engine; vimotion stays regex-free.
type Searcher func(buf *buffer.Buffer, pos buffer.Pos, pattern string, forward bool) (buffer.Pos, bool)

// SearchFunc is set by the driver before any /, ?, n, N command is run.
var SearchFunc Searcher

func (ip *Interp) resolveSearch(pos buffer.Pos, m *Motion, count int) (buffer.Span, bool, error) {
	if SearchFunc == nil {
		return buffer.Span{}, false, nil
	}
	pattern := m.Pattern
	forward := m.Kind == MSearchForward || m.Kind == MSearchNext
	if m.Kind == MSearchNext || m.Kind == MSearchPrev {
		if !ip.Search.Set {
			return buffer.Span{}, false, nil
		}
		pattern = ip.Search.Pattern
		forward = ip.Search.Forward
		if m.Kind == MSearchPrev {
			forward = !forward
		}
	}
	np := pos
	ok := false
	for i := 0; i < count; i++ {
		next, found := SearchFunc(ip.Buf, np, pattern, forward)
		if !found {
			return buffer.Span{}, false, nil
		}
		np = next
		ok = true
	}
	if !ok {
		return buffer.Span{}, false, nil
	}
	if lessPos(np, pos) {
		return buffer.Span{Start: np, End: pos, Kind: buffer.CharExclusive}, true, nil
	}
	return buffer.Span{Start: pos, End: np, Kind: buffer.CharExclusive}, true, nil
}
