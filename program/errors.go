package program

import (
	"fmt"

	"github.com/pkg/errors"
)

// Kind mirrors the taxonomy in §7; program only raises the subset that can
// originate above the Vim interpreter itself (interpreter errors pass
// through wrapped, keeping their own Kind via errors.Cause).
type Kind string

const (
	KindInvalidRepeat Kind = "InvalidRepeat"
	KindInvalidRange  Kind = "InvalidRange"
)

// Error is a typed, instruction-positioned error.
type Error struct {
	Kind  Kind
	Index int
	Msg   string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s at instruction %d: %s", e.Kind, e.Index, e.Msg)
}

// ErrorKind exposes Kind as a plain string for the CLI's top-level handler.
func (e *Error) ErrorKind() string { return string(e.Kind) }

func newError(kind Kind, index int, msg string) *Error {
	return &Error{Kind: kind, Index: index, Msg: msg}
}

// wrapAt annotates an error surfacing from vimotion/exsub with the
// instruction index that triggered it, preserving the original cause (and
// its typed Kind) for the top-level handler's errors.Cause walk.
func wrapAt(err error, index int) error {
	if err == nil {
		return nil
	}
	return errors.Wrapf(err, "instruction %d", index)
}
