// Description: This file contains constants used for accessing values from context objects.
package constants

// ContextKey is a custom type for context keys to avoid collisions
type ContextKey string

const (
	// EvalArgs is the key under which positional script arguments are stored
	// in the context sent to the evaluator, load with ctx.Value()
	EvalArgs ContextKey = "praat_args"
)
