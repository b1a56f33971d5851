package data

import (
	"context"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// Standard argument lists used across provider tests
var (
	defaultArgs = []any{100.0, 0.0, true}
	requestArgs = []any{75.0, 0.05, false}
	stringyArgs = []any{"Hz", 3, "yes"}
)

// MockProvider is a testify mock implementation of Provider
type MockProvider struct {
	mock.Mock
}

func (m *MockProvider) GetArgs(ctx context.Context) ([]any, error) {
	args := m.Called(ctx)
	list, _ := args.Get(0).([]any)
	return list, args.Error(1)
}

func (m *MockProvider) AddArgsToContext(ctx context.Context, list ...any) (context.Context, error) {
	args := m.Called(ctx, list)
	newCtx, _ := args.Get(0).(context.Context)
	return newCtx, args.Error(1)
}

// newMockErrorProvider creates a mock provider that returns errors
func newMockErrorProvider() *MockProvider {
	provider := new(MockProvider)
	provider.On("GetArgs", mock.Anything).Return(nil, assert.AnError)
	provider.On("AddArgsToContext", mock.Anything, mock.Anything).Return(nil, assert.AnError)
	return provider
}
