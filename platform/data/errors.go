package data

import "errors"

var (
	// ErrStaticProviderNoRuntimeUpdates is returned when trying to add arguments
	// to a StaticProvider at eval time.
	ErrStaticProviderNoRuntimeUpdates = errors.New("static provider does not support adding arguments at runtime")

	ErrNoProvider      = errors.New("no argument provider available")
	ErrEmptyContextKey = errors.New("context key is empty")
	ErrInvalidArgsType = errors.New("invalid argument list type in context")
)
