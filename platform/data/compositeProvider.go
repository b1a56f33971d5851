package data

import (
	"context"
	"errors"
	"fmt"
)

// CompositeProvider combines multiple providers. The last provider in the
// chain that has arguments wins; lists are never spliced together.
type CompositeProvider struct {
	providers []Provider
}

// NewCompositeProvider creates a provider that queries given providers in order.
func NewCompositeProvider(providers ...Provider) *CompositeProvider {
	return &CompositeProvider{
		providers: providers,
	}
}

// GetArgs queries every provider in order and returns the last non-empty
// argument list. Returns error on first provider failure.
func (p *CompositeProvider) GetArgs(ctx context.Context) ([]any, error) {
	var result []any
	for i, provider := range p.providers {
		if provider == nil {
			continue
		}

		args, err := provider.GetArgs(ctx)
		if err != nil {
			return nil, fmt.Errorf("error from provider %d: %w", i, err)
		}
		if len(args) > 0 {
			result = args
		}
	}
	return result, nil
}

// AddArgsToContext offers args to all providers in the chain. StaticProvider
// refusals are ignored unless no other provider is present.
//
// Example:
//
//	defaults := NewStaticProvider(100.0, 0.0, true)
//	perRequest := NewContextProvider(constants.EvalArgs)
//	composite := NewCompositeProvider(defaults, perRequest)
//	ctx, err := composite.AddArgsToContext(ctx, 75.0, 0.05, false)
func (p *CompositeProvider) AddArgsToContext(
	ctx context.Context,
	args ...any,
) (context.Context, error) {
	finalCtx := ctx

	var errs []error
	var staticErrs []error
	successCount := 0
	totalCount := 0
	staticCount := 0

	for i, provider := range p.providers {
		if provider == nil {
			continue
		}

		_, isStaticProvider := provider.(*StaticProvider)
		if isStaticProvider {
			staticCount++
		} else {
			totalCount++
		}

		nextCtx, err := provider.AddArgsToContext(finalCtx, args...)
		if err != nil {
			if isStaticProvider && errors.Is(err, ErrStaticProviderNoRuntimeUpdates) {
				staticErrs = append(staticErrs, fmt.Errorf("error from provider %d: %w", i, err))
				continue
			}
			errs = append(errs, fmt.Errorf("error from provider %d: %w", i, err))
			continue
		}

		finalCtx = nextCtx
		successCount++
	}

	// Only static providers: nothing could take the arguments.
	if staticCount > 0 && totalCount == 0 && len(staticErrs) > 0 {
		return ctx, errors.Join(staticErrs...)
	}

	if totalCount > 0 && successCount == 0 && len(errs) > 0 {
		return ctx, errors.Join(errs...)
	}

	return finalCtx, nil
}
