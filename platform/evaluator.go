package platform

import (
	"context"

	"github.com/robbyt/go-praatscript/platform/data"
)

// EvalOnly is the interface for running a compiled script.
type EvalOnly interface {
	// Eval runs the pre-compiled script. Positional arguments come from
	// the ExecutableUnit's data provider; for per-call arguments use a
	// ContextProvider with the constants.EvalArgs key.
	//
	// Compiling (reading and parsing the script) happens once when the
	// evaluator is created, so Eval can be called many times.
	Eval(ctx context.Context) (EvaluatorResponse, error)
}

// Evaluator combines EvalOnly with data.Setter so that argument
// preparation and evaluation can happen in separate steps.
type Evaluator interface {
	EvalOnly
	data.Setter
}
