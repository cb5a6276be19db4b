package exsub

import (
	"strconv"
	"strings"

	"github.com/vicut/vicut/buffer"
)

// RangeContext supplies the state a range expression resolves against: the
// cursor line, the buffer, and the mark table maintained by vimotion.Interp.
type RangeContext struct {
	Buf    *buffer.Buffer
	Cursor int // current line, 0-based
	Marks  map[rune]buffer.Pos
}

// ParseRange resolves the leading range of an Ex command (everything before
// the command letter) to a 0-based [start,end] inclusive line span. An empty
// range defaults to the cursor line alone, matching Vim's :s with no range.
func ParseRange(raw string, ctx RangeContext) (start, end int, rest string, err error) {
	raw = strings.TrimSpace(raw)
	if raw == "" || !isAddrStart(raw[0]) {
		return ctx.Cursor, ctx.Cursor, raw, nil
	}
	if strings.HasPrefix(raw, "%") {
		return 0, ctx.Buf.LineCount() - 1, raw[1:], nil
	}
	first, tail, err := parseLineAddr(raw, ctx)
	if err != nil {
		return 0, 0, raw, err
	}
	if !strings.HasPrefix(tail, ",") {
		return first, first, tail, nil
	}
	second, tail2, err := parseLineAddr(tail[1:], ctx)
	if err != nil {
		return 0, 0, raw, err
	}
	if second < first {
		first, second = second, first
	}
	return first, second, tail2, nil
}

// isAddrStart reports whether c can begin a range address; anything else
// means the range is absent and the command letter follows immediately.
func isAddrStart(c byte) bool {
	switch {
	case c >= '0' && c <= '9':
		return true
	case c == '.' || c == '$' || c == '\'' || c == '/' || c == '%' || c == '+' || c == '-':
		return true
	}
	return false
}

// parseLineAddr parses one address atom: an absolute line number, '.', '$',
// a mark ('a), a /pat/ search, or +N/-N relative to the cursor.
func parseLineAddr(s string, ctx RangeContext) (int, string, error) {
	if s == "" {
		return ctx.Cursor, s, nil
	}
	switch s[0] {
	case '.':
		return applyOffset(ctx.Cursor, s[1:], ctx)
	case '$':
		return applyOffset(ctx.Buf.LineCount()-1, s[1:], ctx)
	case '\'':
		if len(s) < 2 {
			return 0, s, newError(KindInvalidRange, s, "mark address needs a letter")
		}
		pos, ok := ctx.Marks[rune(s[1])]
		if !ok {
			return 0, s, newError(KindInvalidRange, s, "mark not set")
		}
		return applyOffset(pos.Line, s[2:], ctx)
	case '/':
		end := strings.Index(s[1:], "/")
		if end < 0 {
			return 0, s, newError(KindInvalidRange, s, "unterminated /pattern/ address")
		}
		pat := s[1 : end+1]
		re, cerr := CompilePattern(pat, Flags{})
		if cerr != nil {
			return 0, s, cerr
		}
		ln := ctx.Cursor
		for i := 1; i <= ctx.Buf.LineCount(); i++ {
			candidate := (ln + i) % ctx.Buf.LineCount()
			m, _ := re.MatchString(ctx.Buf.LineText(candidate))
			if m {
				return applyOffset(candidate, s[end+2:], ctx)
			}
		}
		return 0, s, newError(KindInvalidRange, s, "pattern not found")
	default:
		i := 0
		for i < len(s) && (s[i] == '+' || s[i] == '-' || (s[i] >= '0' && s[i] <= '9')) {
			i++
		}
		if i == 0 {
			return 0, s, newError(KindInvalidRange, s, "unrecognized address")
		}
		n, err := strconv.Atoi(s[:i])
		if err != nil {
			return 0, s, newError(KindInvalidRange, s, "bad line number")
		}
		return applyOffset(n-1, s[i:], ctx)
	}
}

// applyOffset consumes a trailing +N/-N modifier (Vim allows both an address
// and a signed offset, e.g. ".+3" or "'a-1") and validates the result is
// within the buffer.
func applyOffset(base int, rest string, ctx RangeContext) (int, string, error) {
	i := 0
	sign := 0
	for i < len(rest) {
		switch rest[i] {
		case '+':
			sign = 1
		case '-':
			sign = -1
		default:
			goto done
		}
		i++
		j := i
		for j < len(rest) && rest[j] >= '0' && rest[j] <= '9' {
			j++
		}
		n := 1
		if j > i {
			n, _ = strconv.Atoi(rest[i:j])
		}
		base += sign * n
		i = j
	}
done:
	if base < 0 || base >= ctx.Buf.LineCount() {
		return 0, rest[i:], newError(KindInvalidRange, rest, "line out of range")
	}
	return base, rest[i:], nil
}
