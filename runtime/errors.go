package mruntime

import (
	"errors"
	"fmt"
)

type ErrorKind string

const (
	UndefinedName      ErrorKind = "UndefinedName"
	UndefinedFunction  ErrorKind = "UndefinedFunction"
	ArityMismatch      ErrorKind = "ArityMismatch"
	DivisionByZero     ErrorKind = "DivisionByZero"
	InputFormat        ErrorKind = "InputFormatError"
	MissingReturnValue ErrorKind = "MissingReturnValue"
	UnknownNodeKind    ErrorKind = "UnknownNodeKind"
	StackExhausted     ErrorKind = "StackExhausted"
	Internal           ErrorKind = "Internal"
)

// Error is a fatal evaluation error. Compare against the Err* sentinels with
// errors.Is.
type Error struct {
	Kind ErrorKind
	Msg  string
}

func (e *Error) Error() string {
	if e.Msg == "" {
		return string(e.Kind)
	}
	return e.Msg
}

func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && (t.Msg == "" || t.Msg == e.Msg)
}

var (
	ErrUndefinedName      = &Error{Kind: UndefinedName}
	ErrUndefinedFunction  = &Error{Kind: UndefinedFunction}
	ErrArityMismatch      = &Error{Kind: ArityMismatch}
	ErrDivisionByZero     = &Error{Kind: DivisionByZero}
	ErrInputFormat        = &Error{Kind: InputFormat}
	ErrMissingReturnValue = &Error{Kind: MissingReturnValue}
	ErrUnknownNodeKind    = &Error{Kind: UnknownNodeKind}
	ErrStackExhausted     = &Error{Kind: StackExhausted}
	ErrInternal           = &Error{Kind: Internal}
)

func errorf(kind ErrorKind, format string, args ...any) error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

// KindOf returns the kind of the first *Error in err's chain, or "".
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}
