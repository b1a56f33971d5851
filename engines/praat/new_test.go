package praat

import (
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robbyt/go-praatscript/engines/praat/compiler"
	"github.com/robbyt/go-praatscript/engines/praat/evaluator"
	"github.com/robbyt/go-praatscript/platform/data"
	"github.com/robbyt/go-praatscript/platform/praaterr"
	"github.com/robbyt/go-praatscript/platform/script"
	"github.com/robbyt/go-praatscript/platform/script/loader"
	"github.com/robbyt/go-praatscript/platform/session"
)

const doubler = `form Double
    real Value 1
endform
writeInfo: value * 2
`

func testSettings() evaluator.Settings {
	return evaluator.Settings{
		Session:       session.New(session.WithInfoWriter(io.Discard)),
		CaptureOutput: true,
	}
}

func TestFromPraatLoader(t *testing.T) {
	t.Parallel()

	handler := slog.NewTextHandler(io.Discard, nil)
	l, err := loader.NewFromString(doubler)
	require.NoError(t, err)

	ev, err := FromPraatLoader(handler, l, testSettings())
	require.NoError(t, err)

	resp, err := ev.Eval(t.Context())
	require.NoError(t, err)
	out, _ := resp.Output()
	assert.Equal(t, "2", out)

	ctx, err := ev.AddArgsToContext(t.Context(), 21)
	require.NoError(t, err)
	resp, err = ev.Eval(ctx)
	require.NoError(t, err)
	out, _ = resp.Output()
	assert.Equal(t, "42", out)
	assert.Equal(t, l.GetSourceURL().String(), resp.GetScriptExeID())
}

func TestFromPraatLoaderWithArgs(t *testing.T) {
	t.Parallel()

	l, err := loader.NewFromString(doubler)
	require.NoError(t, err)

	ev, err := FromPraatLoaderWithArgs(nil, l, testSettings(), 5)
	require.NoError(t, err)

	resp, err := ev.Eval(t.Context())
	require.NoError(t, err)
	out, _ := resp.Output()
	assert.Equal(t, "10", out)

	ctx, err := ev.AddArgsToContext(t.Context(), 1.5)
	require.NoError(t, err)
	resp, err = ev.Eval(ctx)
	require.NoError(t, err)
	out, _ = resp.Output()
	assert.Equal(t, "3", out)
}

func TestNewEvaluator(t *testing.T) {
	t.Parallel()

	handler := slog.NewTextHandler(io.Discard, nil)

	t.Run("nil provider", func(t *testing.T) {
		l, err := loader.NewFromString(doubler)
		require.NoError(t, err)
		_, err = NewEvaluator(handler, l, nil, testSettings())
		require.Error(t, err)
	})

	t.Run("nil loader", func(t *testing.T) {
		_, err := NewEvaluator(handler, nil, data.NewStaticProvider(), testSettings())
		require.ErrorIs(t, err, script.ErrNoLoader)
	})

	t.Run("parse error surfaces", func(t *testing.T) {
		l, err := loader.NewFromString("form Broken\n    real\nendform\n")
		require.NoError(t, err)
		_, err = NewEvaluator(handler, l, data.NewStaticProvider(), testSettings())
		require.ErrorIs(t, err, script.ErrCompiler)
		require.ErrorIs(t, err, compiler.ErrValidationFailed)
		require.ErrorIs(t, err, praaterr.ErrParse)
	})
}

func TestNewCompiler(t *testing.T) {
	t.Parallel()

	c, err := NewCompiler()
	require.NoError(t, err)
	assert.Equal(t, "praat.Compiler", c.String())
}
