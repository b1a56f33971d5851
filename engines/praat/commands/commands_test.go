package commands

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robbyt/go-praatscript/engines/praat/objects"
	"github.com/robbyt/go-praatscript/platform/session"
)

func newEnv(t *testing.T) (*Env, *bytes.Buffer) {
	t.Helper()
	var out bytes.Buffer
	sess := session.New(session.WithInfoWriter(&out), session.WithDefaultDirectory(t.TempDir()))
	return &Env{Session: sess}, &out
}

func run(t *testing.T, env *Env, name string, args ...session.Value) (session.Value, error) {
	t.Helper()
	return Default().Run(t.Context(), env, name, args)
}

func mustRun(t *testing.T, env *Env, name string, args ...session.Value) session.Value {
	t.Helper()
	v, err := run(t, env, name, args...)
	require.NoError(t, err, name)
	return v
}

func num(f float64) session.Value { return session.Number(f) }
func str(s string) session.Value { return session.String(s) }

func TestRegistry(t *testing.T) {
	t.Parallel()

	r := NewRegistry()
	noop := func(context.Context, *Env, []session.Value) (session.Value, error) { return session.Value{}, nil }

	require.NoError(t, r.Register("b", noop))
	require.NoError(t, r.Register("a", noop))
	require.ErrorIs(t, r.Register("a", noop), ErrDuplicate)
	require.ErrorIs(t, r.Register("", noop), ErrEmptyName)
	require.ErrorIs(t, r.Register("c", nil), ErrNilFunc)
	assert.Equal(t, []string{"a", "b"}, r.Names())

	_, ok := r.Lookup("A")
	assert.False(t, ok)

	env, _ := newEnv(t)
	_, err := r.Run(t.Context(), env, "Get pitch", nil)
	require.ErrorIs(t, err, ErrNotAvailable)
	assert.Equal(t, "Command « Get pitch » not available for current selection.", err.Error())
}

func TestInfoCommands(t *testing.T) {
	t.Parallel()

	env, out := newEnv(t)
	mustRun(t, env, "writeInfoLine", str("The answer"), str(" - "), num(42))
	mustRun(t, env, "appendInfo", str("The question - ?"))
	assert.Equal(t, "The answer - 42\nThe question - ?", out.String())

	capture := env.Session.Info().Capture(false)
	defer capture.Release()
	mustRun(t, env, "writeInfoLine", str("first"))
	mustRun(t, env, "writeInfoLine", str("second"))
	mustRun(t, env, "appendInfoLine", num(1.5))
	assert.Equal(t, "second\n1.5\n", capture.Text())

	mustRun(t, env, "clearinfo")
	assert.Empty(t, capture.Text())
	_, err := run(t, env, "clearinfo", num(1))
	require.EqualError(t, err, "Command « clearinfo » requires 0 arguments, not 1.")
}

func TestExitScript(t *testing.T) {
	t.Parallel()

	env, _ := newEnv(t)
	_, err := run(t, env, "exitScript")
	var exit *Exit
	require.ErrorAs(t, err, &exit)
	assert.Empty(t, exit.Message)

	_, err = run(t, env, "exitScript", str("Stopped at "), num(3))
	require.ErrorAs(t, err, &exit)
	assert.Equal(t, "Stopped at 3", exit.Message)
}

func TestTextGridCommands(t *testing.T) {
	t.Parallel()

	env, _ := newEnv(t)
	id := mustRun(t, env, "Create TextGrid", num(0), num(1), str("words events"), str("events"))
	assert.Equal(t, num(1), id)

	sel := env.Session.Workspace().Selected()
	require.Len(t, sel, 1)
	assert.Equal(t, "TextGrid words_events", sel[0].Key())

	assert.Equal(t, num(2), mustRun(t, env, "Get number of tiers"))
	assert.Equal(t, str("events"), mustRun(t, env, "Get tier name", num(2)))
	assert.Equal(t, num(0), mustRun(t, env, "Is interval tier", num(2)))
	assert.Equal(t, num(1), mustRun(t, env, "Get total duration"))

	mustRun(t, env, "Insert boundary", num(1), num(0.4))
	mustRun(t, env, "Set interval text", num(1), num(2), str("hello"))
	mustRun(t, env, "Insert point", num(2), num(0.7), str("click"))

	assert.Equal(t, num(2), mustRun(t, env, "Get number of intervals", num(1)))
	assert.Equal(t, num(0.4), mustRun(t, env, "Get start time of interval", num(1), num(2)))
	assert.Equal(t, str("hello"), mustRun(t, env, "Get label of interval", num(1), num(2)))
	assert.Equal(t, num(2), mustRun(t, env, "Get interval at time", num(1), num(0.5)))
	assert.Equal(t, num(1), mustRun(t, env, "Get number of points", num(2)))
	assert.Equal(t, str("click"), mustRun(t, env, "Get label of point", num(2), num(1)))

	_, err := run(t, env, "Create TextGrid", num(1), num(0), str("a"), str(""))
	require.EqualError(t, err, "The end time should be greater than the start time.")

	_, err = run(t, env, "Get tier name", num(1.5))
	require.EqualError(t, err, "Argument 1 of « Get tier name » should be a whole number, not 1.5.")

	_, err = run(t, env, "Get tier name", num(9))
	require.ErrorIs(t, err, objects.ErrOutOfRange)

	require.NoError(t, env.Session.Workspace().Select())
	_, err = run(t, env, "Get number of tiers")
	require.ErrorIs(t, err, ErrNotAvailable)
}

func TestSelectionCommands(t *testing.T) {
	t.Parallel()

	env, _ := newEnv(t)
	mustRun(t, env, "Create TextGrid", num(0), num(1), str("a"), str(""))
	mustRun(t, env, "Create TextGrid", num(0), num(2), str("b"), str(""))
	mustRun(t, env, "Create TextGrid", num(0), num(3), str("c"), str(""))
	ws := env.Session.Workspace()

	ids := func() []int {
		var out []int
		for _, h := range ws.Selected() {
			out = append(out, h.ID)
		}
		return out
	}

	mustRun(t, env, "selectObject", num(1))
	assert.Equal(t, []int{1}, ids())
	mustRun(t, env, "selectObject", str("TextGrid b"))
	assert.Equal(t, []int{2}, ids())
	mustRun(t, env, "plusObject", session.NumericVector([]float64{3, 1}))
	assert.Equal(t, []int{2, 3, 1}, ids())
	mustRun(t, env, "minusObject", num(3))
	assert.Equal(t, []int{2, 1}, ids())

	_, err := run(t, env, "selectObject", num(7))
	require.EqualError(t, err, "No object with number 7.")
	_, err = run(t, env, "selectObject", str("TextGrid zzz"))
	require.EqualError(t, err, "No object with name « TextGrid zzz ».")
	_, err = run(t, env, "selectObject")
	require.EqualError(t, err, "Command « selectObject » requires at least one object.")

	mustRun(t, env, "removeObject", num(1))
	assert.Equal(t, []int{2}, ids())
	mustRun(t, env, "Remove")
	assert.Empty(t, ids())
	assert.Equal(t, 1, ws.Len())
}

func TestSaveReadRename(t *testing.T) {
	t.Parallel()

	env, _ := newEnv(t)
	mustRun(t, env, "Create TextGrid", num(0), num(1), str("a b"), str("b"))
	mustRun(t, env, "Insert point", num(2), num(0.5), str("x"))
	mustRun(t, env, "Save as text file", str("grid.yaml"))

	path := filepath.Join(env.Session.DefaultDirectory(), "grid.yaml")
	require.FileExists(t, path)

	id := mustRun(t, env, "Read from file", str("grid.yaml"))
	assert.Equal(t, num(2), id)
	sel := env.Session.Workspace().Selected()
	require.Len(t, sel, 1)
	assert.Equal(t, "TextGrid grid", sel[0].Key())

	first, _, ok := env.Session.Workspace().Get(1)
	require.True(t, ok)
	second, _, ok := env.Session.Workspace().Get(2)
	require.True(t, ok)
	assert.True(t, first.(*objects.TextGrid).Equal(second.(*objects.TextGrid)))

	mustRun(t, env, "Rename", str("copy of grid"))
	sel = env.Session.Workspace().Selected()
	assert.Equal(t, "TextGrid copy_of_grid", sel[0].Key())

	_, err := run(t, env, "Read from file", str("missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Cannot open file")
}
