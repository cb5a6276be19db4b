package format

import "fmt"

// Kind identifies a class of error raised while rendering records.
type Kind string

const (
	KindTemplateError Kind = "TemplateError"
	KindEncodeError   Kind = "EncodeError"
)

// Error is a typed error carrying the template fragment that failed.
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
