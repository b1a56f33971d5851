// Package praaterr holds the single error family returned for script-level failures.
//
// Every failure a caller can provoke through a script (a malformed form block,
// a wrong number or type of arguments, a fault while a statement runs, or a
// failed write into the variable scope) is reported as an *Error. The Kind
// tells them apart and errors.Is works against the sentinel values below.
package praaterr

import (
	"errors"
	"fmt"
)

var (
	ErrParse         = errors.New("form parse error")
	ErrArgumentCount = errors.New("argument count error")
	ErrArgumentType  = errors.New("argument type error")
	ErrRuntime       = errors.New("script runtime error")
	ErrInjection     = errors.New("variable injection fault")
)

// Kind classifies an Error by the pipeline stage that raised it.
type Kind int

const (
	KindRuntime Kind = iota
	KindParse
	KindArgumentCount
	KindArgumentType
	KindInjection
)

func (k Kind) String() string {
	switch k {
	case KindParse:
		return "ParseError"
	case KindArgumentCount:
		return "ArgumentCountError"
	case KindArgumentType:
		return "ArgumentTypeError"
	case KindInjection:
		return "FatalInjectionFault"
	default:
		return "RuntimeFault"
	}
}

func (k Kind) sentinel() error {
	switch k {
	case KindParse:
		return ErrParse
	case KindArgumentCount:
		return ErrArgumentCount
	case KindArgumentType:
		return ErrArgumentType
	case KindInjection:
		return ErrInjection
	default:
		return ErrRuntime
	}
}

// Error is a script-level failure. Error() returns Message verbatim, because
// downstream tooling matches against the interpreter's diagnostic text.
type Error struct {
	Kind Kind

	// Message is the full text, including line context when there is one.
	Message string

	// Diagnostic is the interpreter's own text without line context.
	Diagnostic string

	// Line is the 1-based script line the failure refers to, or 0.
	Line int

	// Statement is the text of the offending line, when known.
	Statement string

	// Cause is the underlying Go error, when there is one.
	Cause error
}

func (e *Error) Error() string {
	return e.Message
}

// Unwrap returns the sentinel matching the error's Kind, followed by Cause.
func (e *Error) Unwrap() []error {
	if e.Cause == nil {
		return []error{e.Kind.sentinel()}
	}
	return []error{e.Kind.sentinel(), e.Cause}
}

// WithCause records err as the underlying cause and returns e.
func (e *Error) WithCause(err error) *Error {
	e.Cause = err
	return e
}

// New creates an Error without line context.
func New(kind Kind, format string, args ...any) *Error {
	msg := fmt.Sprintf(format, args...)
	return &Error{
		Kind:       kind,
		Message:    msg,
		Diagnostic: msg,
	}
}

// AtLine creates an Error whose message carries the Praat line context:
//
//	<diagnostic>
//	Script line N not performed or completed:
//	« <statement> »
func AtLine(kind Kind, line int, statement string, diagnostic string) *Error {
	return &Error{
		Kind: kind,
		Message: fmt.Sprintf(
			"%s\nScript line %d not performed or completed:\n« %s »",
			diagnostic, line, statement,
		),
		Diagnostic: diagnostic,
		Line:       line,
		Statement:  statement,
	}
}

// Parsef creates a form parse error naming the offending line.
func Parsef(line int, statement string, format string, args ...any) *Error {
	diag := fmt.Sprintf(format, args...)
	return &Error{
		Kind:       KindParse,
		Message:    fmt.Sprintf("%s\nForm line %d: « %s »", diag, line, statement),
		Diagnostic: diag,
		Line:       line,
		Statement:  statement,
	}
}

// ArgumentCount reports a caller/script arity mismatch using Praat's wording.
func ArgumentCount(found, expected int) *Error {
	if found > expected {
		return New(KindArgumentCount, "Found %d arguments but expected only %d.", found, expected)
	}
	return New(KindArgumentCount, "Found %d arguments but expected more.", found)
}

// As returns the *Error in err's chain, if any.
func As(err error) (*Error, bool) {
	var pe *Error
	if errors.As(err, &pe) {
		return pe, true
	}
	return nil, false
}
