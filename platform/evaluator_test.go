package platform_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/robbyt/go-praatscript/engines/mocks"
	"github.com/robbyt/go-praatscript/engines/praat"
	"github.com/robbyt/go-praatscript/engines/praat/evaluator"
	"github.com/robbyt/go-praatscript/platform"
	"github.com/robbyt/go-praatscript/platform/constants"
	"github.com/robbyt/go-praatscript/platform/script/loader"
	"github.com/robbyt/go-praatscript/platform/session"
)

var _ platform.Evaluator = (*evaluator.Evaluator)(nil)

func TestEvaluatorInterface(t *testing.T) {
	t.Parallel()

	handles := []session.Handle{{ID: 1, Class: "TextGrid", Name: "words"}}
	mockResponse := new(mocks.EvaluatorResponse)
	mockResponse.On("Objects").Return(handles)
	mockResponse.On("Interface").Return(handles)
	mockResponse.On("GetScriptExeID").Return("test-script-id")
	mockResponse.On("GetExecTime").Return("10µs")
	mockResponse.On("Inspect").Return("objects=[TextGrid words]")

	type contextKey string
	testKey := contextKey("test-key")
	ctx := context.WithValue(t.Context(), testKey, "test-value")

	ev := new(mocks.Evaluator)
	ev.On("Eval", mock.MatchedBy(func(c context.Context) bool {
		_, hasKey := c.Value(testKey).(string)
		return hasKey
	})).Return(mockResponse, nil)

	var evalOnly platform.EvalOnly = ev
	response, err := evalOnly.Eval(ctx)
	require.NoError(t, err)
	require.NotNil(t, response)

	assert.Equal(t, handles, response.Objects())
	assert.Equal(t, handles, response.Interface())
	assert.Equal(t, "test-script-id", response.GetScriptExeID())
	assert.Equal(t, "10µs", response.GetExecTime())
	assert.Equal(t, "objects=[TextGrid words]", response.Inspect())

	errorEvaluator := new(mocks.Evaluator)
	errorEvaluator.On("Eval", mock.Anything).Return(nil, errors.New("evaluation error"))

	response, err = errorEvaluator.Eval(t.Context())
	require.Error(t, err)
	assert.Nil(t, response)
	assert.Contains(t, err.Error(), "evaluation error")
}

func TestEvaluatorPrepareThenEval(t *testing.T) {
	t.Parallel()

	ctx := t.Context()
	enriched := context.WithValue(ctx, constants.ContextKey("prepared"), true)

	mockResponse := new(mocks.EvaluatorResponse)
	mockResponse.On("Output").Return("42", true)

	ev := new(mocks.Evaluator)
	ev.On("AddArgsToContext", ctx, []any{21}).Return(enriched, nil)
	ev.On("Eval", enriched).Return(mockResponse, nil)

	var combined platform.Evaluator = ev
	prepared, err := combined.AddArgsToContext(ctx, 21)
	require.NoError(t, err)
	response, err := combined.Eval(prepared)
	require.NoError(t, err)

	out, ok := response.Output()
	assert.True(t, ok)
	assert.Equal(t, "42", out)
	ev.AssertExpectations(t)

	failing := new(mocks.Evaluator)
	failing.On("AddArgsToContext", ctx, mock.Anything).Return(ctx, errors.New("preparation error"))
	same, err := failing.AddArgsToContext(ctx, 1)
	require.ErrorContains(t, err, "preparation error")
	assert.Equal(t, ctx, same)
}

func TestPraatEvaluatorSatisfiesPlatform(t *testing.T) {
	t.Parallel()

	handler := slog.NewTextHandler(io.Discard, nil)
	l, err := loader.NewFromString("form Greeting\n    word Name World\nendform\nwriteInfo: \"Hello, \", name$, \"!\"\n")
	require.NoError(t, err)

	var ev platform.Evaluator
	ev, err = praat.FromPraatLoader(handler, l, evaluator.Settings{
		Session:       session.New(session.WithInfoWriter(io.Discard)),
		CaptureOutput: true,
	})
	require.NoError(t, err)

	ctx, err := ev.AddArgsToContext(t.Context(), "Praat")
	require.NoError(t, err)

	result, err := ev.Eval(ctx)
	require.NoError(t, err)
	out, ok := result.Output()
	require.True(t, ok)
	assert.Equal(t, "Hello, Praat!", out)
	assert.Empty(t, result.Objects())
}
