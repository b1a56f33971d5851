package data

import (
	"context"
	"fmt"
	"log/slog"
)

// AddArgsToContextHelper implements the common logic evaluators use to store
// arguments for a later Eval through their provider.
func AddArgsToContextHelper(
	ctx context.Context,
	logger *slog.Logger,
	provider Provider,
	args ...any,
) (context.Context, error) {
	if logger == nil {
		logger = slog.Default()
	}

	if provider == nil {
		logger.WarnContext(ctx, "no argument provider available for context preparation")
		return ctx, ErrNoProvider
	}

	enrichedCtx, err := provider.AddArgsToContext(ctx, args...)
	if err != nil {
		return ctx, fmt.Errorf("failed to prepare context: %w", err)
	}
	return enrichedCtx, nil
}
