package data

import (
	"context"
	"fmt"
	"slices"

	"github.com/robbyt/go-praatscript/platform/constants"
)

// ContextProvider retrieves and stores positional arguments in the context
// under a key.
type ContextProvider struct {
	contextKey constants.ContextKey
}

// NewContextProvider creates a new ContextProvider with the given context key.
func NewContextProvider(contextKey constants.ContextKey) *ContextProvider {
	return &ContextProvider{
		contextKey: contextKey,
	}
}

// GetArgs returns the arguments stored in the context, or none.
func (p *ContextProvider) GetArgs(ctx context.Context) ([]any, error) {
	if p.contextKey == "" {
		return nil, ErrEmptyContextKey
	}

	value := ctx.Value(p.contextKey)
	if value == nil {
		return nil, nil
	}

	args, ok := value.([]any)
	if !ok {
		return nil, fmt.Errorf("%w: expected []any, got %T", ErrInvalidArgsType, value)
	}
	return slices.Clone(args), nil
}

// AddArgsToContext stores args in a derived context. Arguments are positional,
// so a second call replaces the first list instead of merging with it.
func (p *ContextProvider) AddArgsToContext(
	ctx context.Context,
	args ...any,
) (context.Context, error) {
	if p.contextKey == "" {
		return ctx, ErrEmptyContextKey
	}
	return context.WithValue(ctx, p.contextKey, slices.Clone(args)), nil
}
