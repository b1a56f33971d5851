package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/robbyt/go-praatscript/platform"
)

// Evaluator is a mock implementation of platform.Evaluator.
type Evaluator struct {
	mock.Mock
}

func (m *Evaluator) Eval(ctx context.Context) (platform.EvaluatorResponse, error) {
	args := m.Called(ctx)
	resp, _ := args.Get(0).(platform.EvaluatorResponse)
	return resp, args.Error(1)
}

func (m *Evaluator) AddArgsToContext(ctx context.Context, list ...any) (context.Context, error) {
	args := m.Called(ctx, list)
	newCtx, _ := args.Get(0).(context.Context)
	return newCtx, args.Error(1)
}
