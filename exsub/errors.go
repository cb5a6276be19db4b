// Package exsub implements Vim's Ex substitute command (:[range]s/pat/rep/flags)
// and the plain-pattern search used by vimotion's /, ?, n, N motions. It is
// the only package in this module that imports a regex engine; vimotion stays
// regex-free so it can be driven purely by fixed token slices.
package exsub

import "fmt"

// Kind identifies a class of error raised while parsing a range, compiling a
// pattern, or executing a substitution.
type Kind string

const (
	KindInvalidPattern Kind = "InvalidPattern"
	KindInvalidRange   Kind = "InvalidRange"
)

// Error is a typed error carrying the raw fragment that failed to parse.
type Error struct {
	Kind Kind
	Text string
	Msg  string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s %q: %s", e.Kind, e.Text, e.Msg)
}

// ErrorKind exposes Kind as a plain string for the CLI's top-level handler.
func (e *Error) ErrorKind() string { return string(e.Kind) }

func newError(kind Kind, text, msg string) *Error {
	return &Error{Kind: kind, Text: text, Msg: msg}
}
