package exsub

import (
	"strings"

	"github.com/dlclark/regexp2"
	"github.com/pkg/errors"
)

// Flags controls how a compiled pattern matches and how a substitution
// applies once it does.
type Flags struct {
	Global     bool // g: replace every match on a line, not just the first
	IgnoreCase bool // i/I: fold case regardless of the pattern's own case
	CountOnly  bool // n: report the match count, make no edits
}

// ParseFlags reads the trailing flag letters of a :s command. Unknown
// letters are ignored, matching Vim's tolerance of stray flag characters;
// 'c' (confirm-each) is accepted and silently dropped since vicut is
// headless and has nothing to confirm against.
func ParseFlags(raw string) Flags {
	var f Flags
	for _, r := range raw {
		switch r {
		case 'g':
			f.Global = true
		case 'i', 'I':
			f.IgnoreCase = true
		case 'n':
			f.CountOnly = true
		}
	}
	return f
}

// CompilePattern builds a regexp2.Regexp from a Vim-flavored pattern. Vim's
// \< and \> word-boundary atoms are translated to \b since regexp2 has no
// direct equivalent of Vim's distinct word-start/word-end anchors; every
// other atom passes through untouched, so patterns written in ERE/PCRE style
// (capture groups, backreferences, lookaround) work as-is.
func CompilePattern(pat string, f Flags) (*regexp2.Regexp, error) {
	translated := strings.NewReplacer(`\<`, `\b`, `\>`, `\b`).Replace(pat)
	opts := regexp2.None
	if f.IgnoreCase {
		opts |= regexp2.IgnoreCase
	}
	re, err := regexp2.Compile(translated, opts)
	if err != nil {
		return nil, errors.Wrap(newError(KindInvalidPattern, pat, err.Error()), "compile pattern")
	}
	return re, nil
}
