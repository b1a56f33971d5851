package commands

import (
	"errors"
	"fmt"
)

var (
	ErrEmptyName = errors.New("command name is empty")
	ErrNilFunc   = errors.New("command function is nil")
	ErrDuplicate = errors.New("command already registered")

	// ErrNotAvailable matches failures where the command does not exist or
	// does not apply to the current selection.
	ErrNotAvailable = errors.New("command not available")
)

// Exit is returned by exitScript. An empty Message ends the script normally.
type Exit struct {
	Message string
}

func (e *Exit) Error() string {
	if e.Message == "" {
		return "script exited"
	}
	return e.Message
}

// diagnostic is a command failure reported with the interpreter's wording.
type diagnostic struct {
	err error
	msg string
}

func (d *diagnostic) Error() string { return d.msg }

func (d *diagnostic) Unwrap() error { return d.err }

func notAvailable(name string) error {
	return &diagnostic{
		err: ErrNotAvailable,
		msg: fmt.Sprintf("Command « %s » not available for current selection.", name),
	}
}
