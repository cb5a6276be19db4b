package exsub

import (
	"strconv"
	"strings"

	"github.com/dlclark/regexp2"
)

// caseMode tracks the pending case transform while expanding a replacement
// string, following Vim's \u \l \U \L \E escapes.
type caseMode int

const (
	caseNone caseMode = iota
	caseUpperOne
	caseLowerOne
	caseUpperAll
	caseLowerAll
)

// expandReplacement builds the literal text to substitute in place of m,
// applying \0..\9 group backreferences, an unescaped & for the whole match
// (with \& for a literal ampersand), and the \u \l \U \L \E case-folding
// escapes against rep.
func expandReplacement(m *regexp2.Match, rep string) string {
	var out strings.Builder
	mode := caseNone

	emit := func(s string) {
		if s == "" {
			return
		}
		switch mode {
		case caseUpperOne:
			r := []rune(s)
			out.WriteString(strings.ToUpper(string(r[0])))
			out.WriteString(string(r[1:]))
			mode = caseNone
		case caseLowerOne:
			r := []rune(s)
			out.WriteString(strings.ToLower(string(r[0])))
			out.WriteString(string(r[1:]))
			mode = caseNone
		case caseUpperAll:
			out.WriteString(strings.ToUpper(s))
		case caseLowerAll:
			out.WriteString(strings.ToLower(s))
		default:
			out.WriteString(s)
		}
	}

	group := func(n int) string {
		g := m.GroupByNumber(n)
		if g == nil || len(g.Captures) == 0 {
			return ""
		}
		return g.String()
	}

	runes := []rune(rep)
	for i := 0; i < len(runes); i++ {
		c := runes[i]
		if c == '&' {
			emit(m.String())
			continue
		}
		if c != '\\' || i == len(runes)-1 {
			emit(string(c))
			continue
		}
		i++
		next := runes[i]
		switch {
		case next == '&':
			emit("&")
		case next >= '0' && next <= '9':
			n, _ := strconv.Atoi(string(next))
			emit(group(n))
		case next == 'u':
			mode = caseUpperOne
		case next == 'l':
			mode = caseLowerOne
		case next == 'U':
			mode = caseUpperAll
		case next == 'L':
			mode = caseLowerAll
		case next == 'E' || next == 'e':
			mode = caseNone
		case next == 'r':
			emit("\r")
		case next == 'n':
			emit("\n")
		case next == 't':
			emit("\t")
		case next == '\\':
			emit("\\")
		default:
			emit(string(next))
		}
	}
	return out.String()
}
