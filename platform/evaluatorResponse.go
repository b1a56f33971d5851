package platform

import "github.com/robbyt/go-praatscript/platform/session"

// EvaluatorResponse is the outcome of one successful run.
type EvaluatorResponse interface {
	// Objects returns the selection at the end of the run, in selection
	// order. Never nil.
	Objects() []session.Handle

	// Output returns the captured info text and whether capture was
	// requested.
	Output() (string, bool)

	// Variables returns the scope snapshot and whether it was requested.
	Variables() (map[string]any, bool)

	// Tuple returns (objects), (objects, text), (objects, variables) or
	// (objects, text, variables) depending on what was requested.
	Tuple() []any

	// Interface returns the objects alone when nothing else was requested,
	// otherwise the tuple.
	Interface() any

	// Inspect returns a short human readable summary.
	Inspect() string

	// GetScriptExeID returns the ID of the script that produced the result.
	GetScriptExeID() string

	// GetExecTime returns how long the script body took to run.
	GetExecTime() string
}
