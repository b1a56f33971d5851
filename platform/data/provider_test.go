package data

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/robbyt/go-praatscript/platform/constants"
)

func TestStaticProvider(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		args []any
	}{
		{name: "no arguments", args: nil},
		{name: "numeric arguments", args: defaultArgs},
		{name: "mixed arguments", args: stringyArgs},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			provider := NewStaticProvider(tt.args...)
			require.NotNil(t, provider)

			got, err := provider.GetArgs(t.Context())
			require.NoError(t, err)
			assert.Equal(t, tt.args, got)
		})
	}

	t.Run("returned list is a copy", func(t *testing.T) {
		provider := NewStaticProvider(defaultArgs...)
		got, err := provider.GetArgs(t.Context())
		require.NoError(t, err)
		got[0] = "changed"

		again, err := provider.GetArgs(t.Context())
		require.NoError(t, err)
		assert.Equal(t, 100.0, again[0])
	})

	t.Run("rejects runtime arguments", func(t *testing.T) {
		provider := NewStaticProvider(defaultArgs...)
		ctx := t.Context()
		newCtx, err := provider.AddArgsToContext(ctx, requestArgs...)
		require.ErrorIs(t, err, ErrStaticProviderNoRuntimeUpdates)
		assert.Equal(t, ctx, newCtx)
	})
}

func TestContextProvider(t *testing.T) {
	t.Parallel()

	t.Run("empty context key", func(t *testing.T) {
		provider := NewContextProvider("")
		_, err := provider.GetArgs(t.Context())
		require.ErrorIs(t, err, ErrEmptyContextKey)

		_, err = provider.AddArgsToContext(t.Context(), 1)
		require.ErrorIs(t, err, ErrEmptyContextKey)
	})

	t.Run("nothing stored", func(t *testing.T) {
		provider := NewContextProvider(constants.EvalArgs)
		got, err := provider.GetArgs(t.Context())
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("round trip", func(t *testing.T) {
		provider := NewContextProvider(constants.EvalArgs)
		ctx, err := provider.AddArgsToContext(t.Context(), requestArgs...)
		require.NoError(t, err)

		got, err := provider.GetArgs(ctx)
		require.NoError(t, err)
		assert.Equal(t, requestArgs, got)
	})

	t.Run("later call replaces earlier arguments", func(t *testing.T) {
		provider := NewContextProvider(constants.EvalArgs)
		ctx, err := provider.AddArgsToContext(t.Context(), defaultArgs...)
		require.NoError(t, err)
		ctx, err = provider.AddArgsToContext(ctx, "only")
		require.NoError(t, err)

		got, err := provider.GetArgs(ctx)
		require.NoError(t, err)
		assert.Equal(t, []any{"only"}, got)
	})

	t.Run("wrong value type", func(t *testing.T) {
		provider := NewContextProvider(constants.EvalArgs)
		ctx := context.WithValue(t.Context(), constants.EvalArgs, map[string]any{"a": 1})
		_, err := provider.GetArgs(ctx)
		require.ErrorIs(t, err, ErrInvalidArgsType)
	})
}

func TestCompositeProvider_GetArgs(t *testing.T) {
	t.Parallel()

	contextProvider := NewContextProvider(constants.EvalArgs)
	ctxWithArgs, err := contextProvider.AddArgsToContext(t.Context(), requestArgs...)
	require.NoError(t, err)

	tests := []struct {
		name      string
		providers []Provider
		ctx       context.Context
		want      []any
		wantErr   bool
	}{
		{
			name:      "no providers",
			providers: nil,
			ctx:       t.Context(),
			want:      nil,
		},
		{
			name:      "static defaults when context is empty",
			providers: []Provider{NewStaticProvider(defaultArgs...), contextProvider},
			ctx:       t.Context(),
			want:      defaultArgs,
		},
		{
			name:      "context arguments override static defaults",
			providers: []Provider{NewStaticProvider(defaultArgs...), contextProvider},
			ctx:       ctxWithArgs,
			want:      requestArgs,
		},
		{
			name:      "nil providers are skipped",
			providers: []Provider{nil, NewStaticProvider(stringyArgs...), nil},
			ctx:       t.Context(),
			want:      stringyArgs,
		},
		{
			name:      "provider error",
			providers: []Provider{NewStaticProvider(defaultArgs...), newMockErrorProvider()},
			ctx:       t.Context(),
			wantErr:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NewCompositeProvider(tt.providers...).GetArgs(tt.ctx)
			if tt.wantErr {
				require.ErrorIs(t, err, assert.AnError)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCompositeProvider_AddArgsToContext(t *testing.T) {
	t.Parallel()

	t.Run("static only", func(t *testing.T) {
		composite := NewCompositeProvider(NewStaticProvider(defaultArgs...))
		ctx := t.Context()
		newCtx, err := composite.AddArgsToContext(ctx, requestArgs...)
		require.ErrorIs(t, err, ErrStaticProviderNoRuntimeUpdates)
		assert.Equal(t, ctx, newCtx)
	})

	t.Run("static and context", func(t *testing.T) {
		contextProvider := NewContextProvider(constants.EvalArgs)
		composite := NewCompositeProvider(NewStaticProvider(defaultArgs...), contextProvider)
		ctx, err := composite.AddArgsToContext(t.Context(), requestArgs...)
		require.NoError(t, err)

		got, err := composite.GetArgs(ctx)
		require.NoError(t, err)
		assert.Equal(t, requestArgs, got)
	})

	t.Run("all non-static providers fail", func(t *testing.T) {
		composite := NewCompositeProvider(newMockErrorProvider())
		_, err := composite.AddArgsToContext(t.Context(), 1)
		require.ErrorIs(t, err, assert.AnError)
	})

	t.Run("mock receives the arguments", func(t *testing.T) {
		m := new(MockProvider)
		ctx := t.Context()
		m.On("AddArgsToContext", ctx, []any{1, "a"}).Return(ctx, nil).Once()

		_, err := NewCompositeProvider(m).AddArgsToContext(ctx, 1, "a")
		require.NoError(t, err)
		m.AssertExpectations(t)
	})
}

func TestAddArgsToContextHelper(t *testing.T) {
	t.Parallel()

	logger := slog.Default()

	t.Run("nil provider", func(t *testing.T) {
		ctx := t.Context()
		newCtx, err := AddArgsToContextHelper(ctx, logger, nil, 1)
		require.ErrorIs(t, err, ErrNoProvider)
		assert.Equal(t, ctx, newCtx)
	})

	t.Run("static provider", func(t *testing.T) {
		ctx := t.Context()
		newCtx, err := AddArgsToContextHelper(ctx, logger, NewStaticProvider(), 1)
		require.ErrorIs(t, err, ErrStaticProviderNoRuntimeUpdates)
		assert.Equal(t, ctx, newCtx)
	})

	t.Run("context provider", func(t *testing.T) {
		provider := NewContextProvider(constants.EvalArgs)
		newCtx, err := AddArgsToContextHelper(t.Context(), nil, provider, 1, "two")
		require.NoError(t, err)
		assert.Equal(t, []any{1, "two"}, newCtx.Value(constants.EvalArgs))
	})

	t.Run("mock provider error", func(t *testing.T) {
		m := new(MockProvider)
		m.On("AddArgsToContext", mock.Anything, mock.Anything).Return(nil, assert.AnError)
		_, err := AddArgsToContextHelper(t.Context(), logger, m, 1)
		require.ErrorIs(t, err, assert.AnError)
	})
}
