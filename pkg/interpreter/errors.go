package interpreter

import (
	"errors"
	"fmt"

	"github.com/RyanBatesMiller/Brewin-Interpreter/pkg/ast"
)

// ErrorKind classifies a Brewin runtime error.
type ErrorKind int

const (
	// NameError: unknown variable, function, arity, field or prototype link.
	NameError ErrorKind = iota + 1
	// TypeError: operand/operator mismatch, bad condition, non-callable call,
	// invalid assignment target.
	TypeError
	// FaultError: division by zero, exhausted input.
	FaultError
)

func (k ErrorKind) String() string {
	switch k {
	case NameError:
		return "NAME"
	case TypeError:
		return "TYPE"
	case FaultError:
		return "FAULT"
	default:
		return fmt.Sprintf("ErrorKind(%d)", int(k))
	}
}

// ParseErrorKind maps "NAME", "TYPE" and "FAULT" back to a kind.
func ParseErrorKind(s string) (ErrorKind, bool) {
	switch s {
	case "NAME":
		return NameError, true
	case "TYPE":
		return TypeError, true
	case "FAULT":
		return FaultError, true
	default:
		return 0, false
	}
}

// RuntimeError aborts a run. There is no recovery inside the language.
type RuntimeError struct {
	Kind    ErrorKind
	Message string
	Span    ast.Span
}

func (e *RuntimeError) Error() string {
	if e.Span.IsZero() {
		return fmt.Sprintf("%s error: %s", e.Kind, e.Message)
	}
	return fmt.Sprintf("%s error at %d:%d: %s", e.Kind, e.Span.Line, e.Span.Column, e.Message)
}

// ErrCallDepthExceeded is returned when the configured call depth limit is
// hit. It is a host-level failure, not a Brewin error kind.
var ErrCallDepthExceeded = errors.New("maximum call depth exceeded")

// KindOf extracts the Brewin error kind from err, if any.
func KindOf(err error) (ErrorKind, bool) {
	var rt *RuntimeError
	if errors.As(err, &rt) {
		return rt.Kind, true
	}
	return 0, false
}

func nameErrorf(node ast.Node, format string, args ...any) error {
	return newRuntimeError(NameError, node, format, args...)
}

func typeErrorf(node ast.Node, format string, args ...any) error {
	return newRuntimeError(TypeError, node, format, args...)
}

func faultErrorf(node ast.Node, format string, args ...any) error {
	return newRuntimeError(FaultError, node, format, args...)
}

func newRuntimeError(kind ErrorKind, node ast.Node, format string, args ...any) error {
	err := &RuntimeError{Kind: kind, Message: fmt.Sprintf(format, args...)}
	if node != nil {
		err.Span = node.Pos()
	}
	return err
}
