package mocks

import (
	"github.com/stretchr/testify/mock"

	"github.com/robbyt/go-praatscript/platform/session"
)

// EvaluatorResponse is a mock implementation of platform.EvaluatorResponse.
type EvaluatorResponse struct {
	mock.Mock
}

func (m *EvaluatorResponse) Objects() []session.Handle {
	args := m.Called()
	objs, _ := args.Get(0).([]session.Handle)
	return objs
}

func (m *EvaluatorResponse) Output() (string, bool) {
	args := m.Called()
	return args.String(0), args.Bool(1)
}

func (m *EvaluatorResponse) Variables() (map[string]any, bool) {
	args := m.Called()
	vars, _ := args.Get(0).(map[string]any)
	return vars, args.Bool(1)
}

func (m *EvaluatorResponse) Tuple() []any {
	args := m.Called()
	tuple, _ := args.Get(0).([]any)
	return tuple
}

// Interface returns a mockable value of "any" type.
func (m *EvaluatorResponse) Interface() any {
	args := m.Called()
	return args.Get(0)
}

func (m *EvaluatorResponse) Inspect() string {
	args := m.Called()
	return args.String(0)
}

func (m *EvaluatorResponse) GetScriptExeID() string {
	args := m.Called()
	return args.String(0)
}

func (m *EvaluatorResponse) GetExecTime() string {
	args := m.Called()
	return args.String(0)
}
