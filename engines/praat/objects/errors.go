package objects

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidDomain   = errors.New("invalid time domain")
	ErrInvalidTier     = errors.New("invalid tier")
	ErrWrongTierKind   = errors.New("wrong tier kind")
	ErrOutOfRange      = errors.New("index out of range")
	ErrUnknownClass    = errors.New("unknown object class")
	ErrUnsupportedType = errors.New("object type cannot be saved")
	ErrDecode          = errors.New("failed to decode object file")
)

// Error carries an interpreter diagnostic while matching its sentinel with
// errors.Is.
type Error struct {
	Err error
	Msg string
}

func (e *Error) Error() string { return e.Msg }

func (e *Error) Unwrap() error { return e.Err }

func newError(sentinel error, format string, args ...any) *Error {
	return &Error{Err: sentinel, Msg: fmt.Sprintf(format, args...)}
}
