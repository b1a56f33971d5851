package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robbyt/go-praatscript/platform/praaterr"
)

const formScript = `form Greeting
    word Name World
    natural Times 2
endform
for i to times
    appendInfoLine: "Hello, ", name$
endfor
`

func writeScript(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	err := runCLI(t.Context(), append([]string{"praatscript"}, args...), &stdout, &stderr)
	return stdout.String(), stderr.String(), err
}

func TestRunCommand(t *testing.T) {
	t.Parallel()

	path := writeScript(t, "greet.praat", formScript)

	t.Run("defaults", func(t *testing.T) {
		out, _, err := run(t, "run", path)
		require.NoError(t, err)
		assert.Equal(t, "Hello, World\nHello, World\n", out)
	})

	t.Run("arguments", func(t *testing.T) {
		out, _, err := run(t, "run", path, "Praat", "1")
		require.NoError(t, err)
		assert.Equal(t, "Hello, Praat\n", out)
	})

	t.Run("capture", func(t *testing.T) {
		out, _, err := run(t, "run", "-capture", path, "Praat", "1")
		require.NoError(t, err)
		assert.Equal(t, "Hello, Praat\n", out)
	})

	t.Run("tee", func(t *testing.T) {
		out, _, err := run(t, "run", "-tee", path, "Praat", "1")
		require.NoError(t, err)
		assert.Equal(t, "Hello, Praat\n", out)
	})

	t.Run("variables", func(t *testing.T) {
		out, _, err := run(t, "run", "-vars", path, "Praat", "1")
		require.NoError(t, err)
		assert.Contains(t, out, "name$ = \"Praat\"\n")
		assert.Contains(t, out, "times = 1\n")
		assert.Contains(t, out, "i = 2\n")
	})

	t.Run("argument count", func(t *testing.T) {
		_, _, err := run(t, "run", path, "Praat")
		require.ErrorIs(t, err, praaterr.ErrArgumentCount)
		assert.Equal(t, "Found 1 arguments but expected more.", err.Error())
	})

	t.Run("missing script", func(t *testing.T) {
		_, _, err := run(t, "run")
		require.Error(t, err)
	})

	t.Run("unknown flag", func(t *testing.T) {
		_, _, err := run(t, "run", "-nope", path)
		require.Error(t, err)
	})
}

func TestRunObjects(t *testing.T) {
	t.Parallel()

	path := writeScript(t, "create.praat", "Create TextGrid: 0, 1, \"words\", \"\"\n")
	out, _, err := run(t, "run", "-objects", path)
	require.NoError(t, err)
	assert.Equal(t, "1. TextGrid words\n", out)
}

func TestRunStepLimit(t *testing.T) {
	t.Parallel()

	path := writeScript(t, "loop.praat", "while 1\nendwhile\n")
	_, _, err := run(t, "run", "-max-steps", "10", path)
	require.ErrorIs(t, err, praaterr.ErrRuntime)
	assert.Contains(t, err.Error(), "Script exceeded the limit of 10 statements.")
}

func TestRunConfigFile(t *testing.T) {
	t.Parallel()

	path := writeScript(t, "greet.praat", formScript)
	config := writeScript(t, "run.yaml", "return_variables: true\nargs: [Config, 1]\n")

	out, _, err := run(t, "run", "-config", config, path)
	require.NoError(t, err)
	assert.Contains(t, out, "Hello, Config\n")
	assert.Contains(t, out, "name$ = \"Config\"\n")

	t.Run("flags override the file", func(t *testing.T) {
		out, _, err := run(t, "run", "-config", config, "-vars=false", path)
		require.NoError(t, err)
		assert.Equal(t, "Hello, Config\n", out)
	})

	t.Run("command line arguments override the file", func(t *testing.T) {
		out, _, err := run(t, "run", "-config", config, "-vars=false", path, "Args", "1")
		require.NoError(t, err)
		assert.Equal(t, "Hello, Args\n", out)
	})

	t.Run("invalid file", func(t *testing.T) {
		bad := writeScript(t, "bad.yaml", "unknown_key: 1\n")
		_, _, err := run(t, "run", "-config", bad, path)
		require.Error(t, err)
	})
}

func TestCheckCommand(t *testing.T) {
	t.Parallel()

	path := writeScript(t, "greet.praat", formScript)
	out, _, err := run(t, "check", path)
	require.NoError(t, err)
	assert.Equal(t, "1. name$ = \"World\" (word)\n2. times = \"2\" (natural)\n", out)

	plain := writeScript(t, "plain.praat", "writeInfo: 1\n")
	out, _, err = run(t, "check", plain)
	require.NoError(t, err)
	assert.Equal(t, "no parameters\n", out)

	broken := writeScript(t, "broken.praat", "form Broken\n    real\nendform\n")
	_, _, err = run(t, "check", broken)
	require.ErrorIs(t, err, praaterr.ErrParse)
}

func TestUsage(t *testing.T) {
	t.Parallel()

	_, stderr, err := run(t)
	require.ErrorIs(t, err, errUsage)
	assert.Contains(t, stderr, "Usage:")

	_, _, err = run(t, "frobnicate")
	require.ErrorIs(t, err, errUsage)

	out, _, err := run(t, "help")
	require.NoError(t, err)
	assert.Contains(t, out, "praatscript run")
}

func TestParseArgs(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []any{1.5, "words", -2.0, "yes"}, parseArgs([]string{"1.5", "words", "-2", "yes"}))
}
