package vicut

import (
	"fmt"

	"github.com/pkg/errors"
)

// Kind identifies a class of error at the CLI boundary — the handful the
// error taxonomy (spec.md §7) assigns to vicut itself rather than to one
// of the packages it orchestrates.
type Kind string

const (
	KindUsageError        Kind = "UsageError"
	KindIoError           Kind = "IoError"
	KindCancellationError Kind = "CancellationError"
	KindInternalError     Kind = "InternalError"
)

// Error is vicut's own typed error, matching the shape every other
// package in the module uses (Kind + message, an Error() string, and an
// ErrorKind() string for the top-level handler's errors.Cause walk).
type Error struct {
	Kind Kind
	Msg  string
}

func (e *Error) Error() string     { return fmt.Sprintf("%s: %s", e.Kind, e.Msg) }
func (e *Error) ErrorKind() string { return string(e.Kind) }

func usageErr(msg string) error { return &Error{Kind: KindUsageError, Msg: msg} }
func ioErr(msg string) error    { return &Error{Kind: KindIoError, Msg: msg} }

// ExitCode maps an error's Kind, recovered via errors.Cause, onto the exit
// code table in spec.md §6/§7: 0 success, 2 usage error, 3 pattern/
// template error, 4 I/O error, 5 internal execution error.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	kind := causeKind(err)
	switch Kind(kind) {
	case KindUsageError:
		return 2
	case "InvalidPattern", "TemplateError", "ParseError":
		return 3
	case KindIoError:
		return 4
	case KindCancellationError:
		return 5
	default:
		return 5
	}
}

// kindProvider is satisfied by every package's *Error type in this module
// (vimotion, exsub, program, dsl, format, and vicut itself) via their
// ErrorKind method, without vicut needing to import each package's
// concrete error type.
type kindProvider interface {
	ErrorKind() string
}

func causeKind(err error) string {
	c := errors.Cause(err)
	if kp, ok := c.(kindProvider); ok {
		return kp.ErrorKind()
	}
	return string(KindInternalError)
}
