package errs

import (
	"errors"
	"fmt"
)

// Kind tags an Error with the category the evaluator reports to the host.
type Kind string

const (
	KindParse            Kind = "ParseError"
	KindType             Kind = "TypeError"
	KindReference        Kind = "ReferenceError"
	KindInvalidArguments Kind = "InvalidArgumentsError"
	KindDoubleDefinition Kind = "DoubleDefinitionError"
	KindException        Kind = "Uncaught exception"
)

// Error is the single error type used across the interpreter. Every fallible
// operation returns one of these; nothing is swallowed or retried.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string {
	return string(e.Kind) + ": " + e.Message
}

func newError(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func Parse(format string, args ...any) *Error {
	return newError(KindParse, format, args...)
}

func Type(format string, args ...any) *Error {
	return newError(KindType, format, args...)
}

func Reference(format string, args ...any) *Error {
	return newError(KindReference, format, args...)
}

func InvalidArguments(format string, args ...any) *Error {
	return newError(KindInvalidArguments, format, args...)
}

func DoubleDefinition(format string, args ...any) *Error {
	return newError(KindDoubleDefinition, format, args...)
}

func Exception(format string, args ...any) *Error {
	return newError(KindException, format, args...)
}

// IsKind reports whether err is (or wraps) an Error of the given kind.
func IsKind(err error, kind Kind) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == kind
	}
	return false
}
