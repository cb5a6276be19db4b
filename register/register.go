// Package register implements the Vim register file: named clipboard
// slots populated by yanks and deletes, and read by put.
package register

import "unicode"

// Kind describes how a register's content should be pasted.
type Kind int

const (
	Char Kind = iota
	Line
	Block
)

// Content is a register's typed payload. Block content holds one string
// per line of the rectangle; Char/Line content use Lines[0].
type Content struct {
	Kind  Kind
	Lines []string
}

// Text joins Lines the way the register's Kind dictates: Char content is
// returned as-is, Line content gets a trailing newline, Block content is
// newline-joined.
func (c Content) Text() string {
	switch c.Kind {
	case Line:
		if len(c.Lines) == 0 {
			return ""
		}
		s := c.Lines[0]
		if len(s) == 0 || s[len(s)-1] != '\n' {
			s += "\n"
		}
		return s
	case Block:
		out := ""
		for i, l := range c.Lines {
			if i > 0 {
				out += "\n"
			}
			out += l
		}
		return out
	default:
		if len(c.Lines) == 0 {
			return ""
		}
		return c.Lines[0]
	}
}

const ringSize = 9

// File is a per-invocation (or, in linewise mode, per-line) register file.
type File struct {
	unnamed     Content
	small       Content // "-", sub-line deletes
	lastYank    Content // "0"
	ring        [ringSize]Content // "1".."9", ring[0] is "1"
	named       map[rune]Content  // "a".."z"
	systemStub  Content           // "*"/"+", not backed by a real clipboard headless
}

// New returns an empty register file.
func New() *File {
	return &File{named: make(map[rune]Content)}
}

// Name identifies a register the way a Vim command string names one:
// a lowercase letter overwrites, an uppercase letter appends, and the
// zero value (no letter given) means "use the unnamed register".
type Name struct {
	Letter rune // 0 if unspecified
	Append bool
}

// ParseName builds a Name from the register-prefix character following a
// `"` in a command string.
func ParseName(ch rune) Name {
	if ch == 0 {
		return Name{}
	}
	return Name{Letter: unicode.ToLower(ch), Append: unicode.IsUpper(ch)}
}

func (f *File) getNamed(letter rune) (Content, bool) {
	c, ok := f.named[letter]
	return c, ok
}

// Read returns the content named by n, falling back to the unnamed
// register when n is unspecified.
func (f *File) Read(n Name) (Content, bool) {
	switch {
	case n.Letter == 0:
		return f.unnamed, f.unnamed.Lines != nil
	case n.Letter == '-':
		return f.small, f.small.Lines != nil
	case n.Letter == '0':
		return f.lastYank, f.lastYank.Lines != nil
	case n.Letter >= '1' && n.Letter <= '9':
		c := f.ring[n.Letter-'1']
		return c, c.Lines != nil
	case n.Letter == '*' || n.Letter == '+':
		return f.systemStub, f.systemStub.Lines != nil
	default:
		return f.getNamed(n.Letter)
	}
}

// Write stores content under the register n names (or the unnamed
// register, if n is unspecified), honoring n.Append.
func (f *File) Write(n Name, c Content) {
	if n.Letter == 0 {
		f.unnamed = c
		return
	}
	if n.Letter >= 'a' && n.Letter <= 'z' {
		if n.Append {
			f.named[n.Letter] = appendContent(f.named[n.Letter], c)
		} else {
			f.named[n.Letter] = c
		}
	}
	f.unnamed = c
}

func appendContent(prev, next Content) Content {
	if prev.Lines == nil {
		return next
	}
	kind := prev.Kind
	if next.Kind == Line {
		kind = Line
	}
	if kind == Block {
		return Content{Kind: kind, Lines: append(append([]string{}, prev.Lines...), next.Lines...)}
	}
	joined := prev.Text()
	if kind == Line && (joined == "" || joined[len(joined)-1] != '\n') {
		joined += "\n"
	}
	return Content{Kind: kind, Lines: []string{joined + next.Text()}}
}

// RecordYank stores c as the result of a yank: it always becomes the
// unnamed register, and `"0` when no explicit register was named.
func (f *File) RecordYank(n Name, c Content) {
	f.Write(n, c)
	if n.Letter == 0 {
		f.lastYank = c
	}
}

// RecordDelete stores c as the result of a delete, applying Vim's
// numbered-ring and small-delete rules: deletes spanning more than one
// line (or an explicit linewise delete) push into the "1-"9 ring; sub-line
// charwise deletes go to the small-delete register "-" instead.
func (f *File) RecordDelete(n Name, c Content, multiLine bool) {
	f.Write(n, c)
	if n.Letter != 0 {
		return
	}
	if multiLine || c.Kind == Line || c.Kind == Block {
		for i := ringSize - 1; i > 0; i-- {
			f.ring[i] = f.ring[i-1]
		}
		f.ring[0] = c
	} else {
		f.small = c
	}
}
