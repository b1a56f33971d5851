package data

import (
	"context"
	"slices"
)

// StaticProvider returns a fixed argument list, regardless of the context.
// It suits scripts whose arguments are known when the evaluator is built.
type StaticProvider struct {
	args []any
}

// NewStaticProvider creates a StaticProvider. A nil list means "no arguments",
// which binds every form field to its default.
func NewStaticProvider(args ...any) *StaticProvider {
	return &StaticProvider{args: slices.Clone(args)}
}

// GetArgs returns a copy of the fixed argument list.
func (p *StaticProvider) GetArgs(_ context.Context) ([]any, error) {
	return slices.Clone(p.args), nil
}

// AddArgsToContext always fails: the argument list is fixed at creation.
func (p *StaticProvider) AddArgsToContext(ctx context.Context, _ ...any) (context.Context, error) {
	return ctx, ErrStaticProviderNoRuntimeUpdates
}
