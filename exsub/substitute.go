package exsub

import (
	"strings"

	"github.com/dlclark/regexp2"
	"github.com/vicut/vicut/buffer"
)

// Result summarizes one :s invocation, enough for the driver to report
// -n counts or raise InvalidPattern/InvalidRange without inspecting the
// buffer.
type Result struct {
	LinesChanged int
	Matches      int
}

// Substitute parses and runs `:[range]s/pat/rep/flags` (the leading ':' is
// optional) against buf, mutating it in place unless flags contains 'n'.
func Substitute(buf *buffer.Buffer, cmd string, ctx RangeContext) (Result, error) {
	ctx.Buf = buf
	body := strings.TrimPrefix(cmd, ":")
	start, end, rest, err := ParseRange(body, ctx)
	if err != nil {
		return Result{}, err
	}
	rest = strings.TrimSpace(rest)
	if len(rest) == 0 || rest[0] != 's' {
		return Result{}, newError(KindInvalidRange, cmd, "expected 's' after range")
	}
	rest = rest[1:]
	pat, rep, flagStr, err := splitSubstituteParts(rest)
	if err != nil {
		return Result{}, err
	}
	flags := ParseFlags(flagStr)
	re, err := CompilePattern(pat, flags)
	if err != nil {
		return Result{}, err
	}

	var res Result
	for ln := start; ln <= end; ln++ {
		text := buf.LineText(ln)
		newText, n := substituteLine(re, rep, text, flags)
		if n == 0 {
			continue
		}
		res.Matches += n
		if flags.CountOnly {
			continue
		}
		res.LinesChanged++
		replaceLine(buf, ln, newText)
	}
	return res, nil
}

// splitSubstituteParts splits "/pat/rep/flags" (or any other delimiter Vim
// allows in place of '/') into its three pieces, honoring backslash-escaped
// delimiters inside pat and rep.
func splitSubstituteParts(s string) (pat, rep, flags string, err error) {
	if s == "" {
		return "", "", "", newError(KindInvalidRange, s, "empty substitute body")
	}
	delim := s[0]
	parts := splitUnescaped(s[1:], delim)
	if len(parts) < 2 {
		return "", "", "", newError(KindInvalidRange, s, "malformed :s, need pat/rep/flags")
	}
	pat = parts[0]
	rep = parts[1]
	if len(parts) > 2 {
		flags = parts[2]
	}
	return pat, rep, flags, nil
}

func splitUnescaped(s string, delim byte) []string {
	var parts []string
	var cur strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] == '\\' && i+1 < len(s) {
			cur.WriteByte(s[i])
			cur.WriteByte(s[i+1])
			i++
			continue
		}
		if s[i] == delim {
			parts = append(parts, cur.String())
			cur.Reset()
			continue
		}
		cur.WriteByte(s[i])
	}
	parts = append(parts, cur.String())
	return parts
}

// substituteLine applies re/rep to a single line, returning the transformed
// text and the number of matches handled (g replaces every match, otherwise
// only the first). regexp2 indexes matches by rune position, not byte
// offset, so the line is worked over as []rune throughout.
func substituteLine(re *regexp2.Regexp, rep, line string, flags Flags) (string, int) {
	runes := []rune(line)
	var out strings.Builder
	pos := 0
	count := 0
	m, _ := re.FindStringMatchStartingAt(line, 0)
	for m != nil {
		out.WriteString(string(runes[pos:m.Index]))
		out.WriteString(expandReplacement(m, rep))
		pos = m.Index + m.Length
		count++
		if !flags.Global {
			break
		}
		next := pos
		if m.Length == 0 {
			next++
		}
		if next > len(runes) {
			break
		}
		m, _ = re.FindStringMatchStartingAt(line, next)
	}
	out.WriteString(string(runes[min(pos, len(runes)):]))
	return out.String(), count
}

// replaceLine overwrites ln's full text in place, preserving the buffer's
// line terminator via Replace rather than Delete+re-creating the line.
func replaceLine(buf *buffer.Buffer, ln int, text string) {
	n := buf.LineLen(ln)
	if n == 0 {
		buf.Insert(buffer.Pos{Line: ln, Col: 0}, text)
		return
	}
	span := buffer.Span{
		Start: buffer.Pos{Line: ln, Col: 0},
		End:   buffer.Pos{Line: ln, Col: n - 1},
		Kind:  buffer.CharInclusive,
	}
	buf.Replace(span, text)
}

// Search implements vimotion.Searcher: a plain regex search over the buffer
// with wraparound, backing /, ?, n, and N.
func Search(buf *buffer.Buffer, pos buffer.Pos, pattern string, forward bool) (buffer.Pos, bool) {
	re, err := CompilePattern(pattern, Flags{})
	if err != nil {
		return pos, false
	}
	n := buf.LineCount()
	if forward {
		if p, ok := searchLineFrom(buf, re, pos.Line, pos.Col+1, true); ok {
			return p, true
		}
		for i := 1; i <= n; i++ {
			ln := (pos.Line + i) % n
			if p, ok := searchLineFrom(buf, re, ln, 0, true); ok {
				return p, true
			}
		}
		return pos, false
	}
	if p, ok := searchLineFrom(buf, re, pos.Line, pos.Col-1, false); ok {
		return p, true
	}
	for i := 1; i <= n; i++ {
		ln := (pos.Line - i + n) % n
		if p, ok := searchLineFrom(buf, re, ln, -1, false); ok {
			return p, true
		}
	}
	return pos, false
}

func searchLineFrom(buf *buffer.Buffer, re *regexp2.Regexp, ln, fromCol int, forward bool) (buffer.Pos, bool) {
	if ln < 0 || ln >= buf.LineCount() {
		return buffer.Pos{}, false
	}
	text := buf.LineText(ln)
	runeLen := len([]rune(text))
	if fromCol < 0 || fromCol > runeLen {
		if forward {
			return buffer.Pos{}, false
		}
		fromCol = runeLen
	}
	if !forward {
		var best *regexp2.Match
		m, _ := re.FindStringMatchStartingAt(text, 0)
		for m != nil && m.Index <= fromCol {
			best = m
			next := m.Index + m.Length
			if m.Length == 0 {
				next++
			}
			if next > runeLen {
				break
			}
			m, _ = re.FindStringMatchStartingAt(text, next)
		}
		if best == nil {
			return buffer.Pos{}, false
		}
		return colToPos(buf, ln, best.Index), true
	}
	m, _ := re.FindStringMatchStartingAt(text, fromCol)
	if m == nil {
		return buffer.Pos{}, false
	}
	return colToPos(buf, ln, m.Index), true
}

// colToPos converts a rune offset within a line's text (regexp2 indexes
// matches by rune, not byte) to a grapheme column, since buffer.Pos is
// grapheme-indexed.
func colToPos(buf *buffer.Buffer, ln, runeOffset int) buffer.Pos {
	col := 0
	consumed := 0
	for consumed < runeOffset && col < buf.LineLen(ln) {
		consumed += len([]rune(buf.GraphemeAt(buffer.Pos{Line: ln, Col: col})))
		col++
	}
	return buffer.Pos{Line: ln, Col: col}
}
