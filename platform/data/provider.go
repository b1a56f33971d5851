package data

import (
	"context"
)

// Getter retrieves the positional script arguments for one evaluation.
type Getter interface {
	GetArgs(ctx context.Context) ([]any, error)
}

// Setter prepares arguments for script evaluation by enriching a context.
// This interface supports separating argument preparation from evaluation, so
// the steps can happen in different places.
type Setter interface {
	// AddArgsToContext stores positional arguments in a context for a later
	// Eval. Arguments bind to the script's form fields in order.
	//
	// Example:
	//  enrichedCtx, err := evaluator.AddArgsToContext(ctx, 75.0, 0.05, false)
	//  if err != nil {
	//      return err
	//  }
	//  result, err := evaluator.Eval(enrichedCtx)
	AddArgsToContext(ctx context.Context, args ...any) (context.Context, error)
}

// Provider supplies the positional arguments of a run.
type Provider interface {
	Getter
	Setter
}
