package vimotion

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/vicut/vicut/buffer"
	"github.com/vicut/vicut/register"
)

var (
	lowerCaser = cases.Lower(language.Und)
	upperCaser = cases.Upper(language.Und)
)

// applyVerb applies v to span, mutating buf and the register file as
// needed. It returns the cursor's landing position. Put and the
// insert-mode entries are handled by the interpreter directly since they
// need more context (Insert payload text, repeat counts on a literal
// string) than a span alone carries.
func applyVerb(buf *buffer.Buffer, regs *register.File, reg register.Name, v Verb, span buffer.Span) buffer.Pos {
	switch v.Kind {
	case VDelete, VChange:
		removed, landing := buf.Delete(span)
		spanStart, spanEnd := span.Ordered()
		multiLine := spanStart.Line != spanEnd.Line
		regs.RecordDelete(reg, contentFromText(removed, span.Kind == buffer.Linewise), multiLine)
		return landing
	case VYank:
		text := buf.Slice(span)
		regs.RecordYank(reg, contentFromText(text, span.Kind == buffer.Linewise))
		start, _ := span.Ordered()
		return start
	case VToLower:
		return mutateCase(buf, span, lowerCaser.String)
	case VToUpper:
		return mutateCase(buf, span, upperCaser.String)
	case VToggleCase:
		return mutateCase(buf, span, toggleCase)
	case VRot13:
		return mutateCase(buf, span, rot13)
	case VIndent:
		return indentLines(buf, span, 1)
	case VDedent:
		return indentLines(buf, span, -1)
	case VEqualize:
		start, _ := span.Ordered()
		return start
	}
	start, _ := span.Ordered()
	return start
}

func contentFromText(text string, linewise bool) register.Content {
	kind := register.Char
	if linewise {
		kind = register.Line
		text = strings.TrimSuffix(text, "\n")
	}
	return register.Content{Kind: kind, Lines: []string{text}}
}

func mutateCase(buf *buffer.Buffer, span buffer.Span, f func(string) string) buffer.Pos {
	text := buf.Slice(span)
	mutated := mutateRunes(text, f)
	buf.Replace(span, mutated)
	start, _ := span.Ordered()
	return start
}

// mutateRunes applies f rune-by-rune; exotic multi-rune case expansions
// are accepted as a known limitation shared with fixed-width Vim buffers.
func mutateRunes(s string, f func(string) string) string {
	var sb strings.Builder
	for _, r := range s {
		sb.WriteString(f(string(r)))
	}
	return sb.String()
}

func toggleCase(s string) string {
	var sb strings.Builder
	for _, r := range s {
		if unicode.IsUpper(r) {
			sb.WriteRune(unicode.ToLower(r))
		} else if unicode.IsLower(r) {
			sb.WriteRune(unicode.ToUpper(r))
		} else {
			sb.WriteRune(r)
		}
	}
	return sb.String()
}

func rot13(s string) string {
	var sb strings.Builder
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z':
			sb.WriteRune('a' + (r-'a'+13)%26)
		case r >= 'A' && r <= 'Z':
			sb.WriteRune('A' + (r-'A'+13)%26)
		default:
			sb.WriteRune(r)
		}
	}
	return sb.String()
}

// indentLines shifts each line in span by one shiftwidth (dir>0 indent,
// dir<0 dedent), using a hard tab per level to match the teacher's
// tabstop-driven buffer model.
func indentLines(buf *buffer.Buffer, span buffer.Span, dir int) buffer.Pos {
	start, end := span.Ordered()
	for ln := start.Line; ln <= end.Line && ln < buf.LineCount(); ln++ {
		if dir > 0 {
			buf.Insert(buffer.Pos{Line: ln, Col: 0}, "\t")
		} else if buf.LineLen(ln) > 0 && buf.GraphemeAt(buffer.Pos{Line: ln, Col: 0}) == "\t" {
			buf.Delete(buffer.Span{Start: buffer.Pos{Line: ln, Col: 0}, End: buffer.Pos{Line: ln, Col: 0}, Kind: buffer.CharInclusive})
		}
	}
	return buffer.Pos{Line: start.Line, Col: 0}
}

// replaceChar implements 'r{c}': overwrite count graphemes starting at
// pos with c, without entering Insert mode.
func replaceChar(buf *buffer.Buffer, pos buffer.Pos, count int, ch string) (buffer.Pos, bool) {
	n := buf.LineLen(pos.Line)
	if pos.Col+count > n {
		return pos, false
	}
	span := buffer.Span{Start: pos, End: buffer.Pos{Line: pos.Line, Col: pos.Col + count - 1}, Kind: buffer.CharInclusive}
	buf.Replace(span, strings.Repeat(ch, count))
	return buffer.Pos{Line: pos.Line, Col: pos.Col + count - 1}, true
}

// put implements 'p'/'P': insert the named/unnamed register's content
// before or after the cursor, honoring its linewise/characterwise kind.
func put(buf *buffer.Buffer, regs *register.File, reg register.Name, pos buffer.Pos, anchor Anchor, count int) buffer.Pos {
	content, ok := regs.Read(reg)
	if !ok || len(content.Lines) == 0 {
		return pos
	}
	text := strings.Repeat(content.Text(), count)
	if content.Kind == register.Line {
		at := buf.OpenLine(pos.Line, anchor == After)
		trimmed := strings.TrimSuffix(text, "\n")
		buf.Insert(buffer.Pos{Line: at, Col: 0}, trimmed)
		return buffer.Pos{Line: at, Col: 0}
	}
	col := pos.Col
	if anchor == After && buf.LineLen(pos.Line) > 0 {
		col++
	}
	buf.Insert(buffer.Pos{Line: pos.Line, Col: col}, text)
	landCol := col + len([]rune(text)) - 1
	if landCol < col {
		landCol = col
	}
	return buffer.Pos{Line: pos.Line, Col: landCol}
}
