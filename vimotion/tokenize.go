package vimotion

import (
	"strings"

	"github.com/rivo/uniseg"
)

// token is one grapheme cluster of input, or a special named token like
// <esc> or <cr> recognized literally inside a command string.
type token struct {
	text    string
	special bool // true for <esc>, <cr>
}

// tokenize splits a raw Vim command string into graphemes, recognizing
// the literal tokens <esc> and <cr> (case-insensitively) as single units
// so they can terminate Insert-mode payloads and command-line entry.
func tokenize(s string) []token {
	var out []token
	i := 0
	for i < len(s) {
		if s[i] == '<' {
			if end := matchSpecial(s[i:]); end > 0 {
				out = append(out, token{text: strings.ToLower(s[i : i+end]), special: true})
				i += end
				continue
			}
		}
		g := uniseg.NewGraphemes(s[i:])
		if !g.Next() {
			break
		}
		cluster := g.Str()
		out = append(out, token{text: cluster})
		i += len(cluster)
	}
	return out
}

var specialTokens = []string{"<esc>", "<cr>"}

func matchSpecial(s string) int {
	lower := strings.ToLower(s)
	for _, t := range specialTokens {
		if strings.HasPrefix(lower, t) {
			return len(t)
		}
	}
	return 0
}
