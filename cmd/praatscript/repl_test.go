package main

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func enter(t *testing.T, m replModel, line string) (replModel, tea.Cmd) {
	t.Helper()
	m.textInput.SetValue(line)
	model, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	rm, ok := model.(replModel)
	require.True(t, ok, "unexpected model type %T", model)
	return rm, cmd
}

func TestREPLQuitCommand(t *testing.T) {
	t.Parallel()

	m, cmd := enter(t, newREPLModel(nil), ":quit")
	assert.True(t, m.quitting)
	assert.Empty(t, m.textInput.Value())
	require.NotNil(t, cmd)
	_, ok := cmd().(tea.QuitMsg)
	assert.True(t, ok)
}

func TestREPLToggleCommands(t *testing.T) {
	t.Parallel()

	m, cmd := enter(t, newREPLModel(nil), ":help")
	assert.Nil(t, cmd)
	assert.True(t, m.showHelp)

	m, _ = enter(t, m, ":vars")
	assert.True(t, m.showVars)

	m, _ = enter(t, m, ":bogus")
	require.Len(t, m.history, 1)
	assert.True(t, m.history[0].isErr)
	assert.Equal(t, "Unknown command: :bogus", m.history[0].output)
}

func TestREPLStatementsShareSession(t *testing.T) {
	t.Parallel()

	m := newREPLModel(nil)
	m, _ = enter(t, m, "score = 42")
	m, _ = enter(t, m, "writeInfo: score + 1")

	require.Len(t, m.history, 2)
	assert.Equal(t, "ok", m.history[0].output)
	assert.False(t, m.history[1].isErr)
	assert.Equal(t, "43", m.history[1].output)
	assert.Equal(t, []string{"score"}, m.userVariables())
	assert.Equal(t, []string{"score = 42", "writeInfo: score + 1"}, m.cmdHistory)
}

func TestREPLBlocks(t *testing.T) {
	t.Parallel()

	m := newREPLModel(nil)
	m, _ = enter(t, m, "total = 0")
	m, _ = enter(t, m, "for i to 3")
	assert.Equal(t, continuationPrompt, m.textInput.Prompt)
	m, _ = enter(t, m, "total += i")
	require.Len(t, m.history, 1, "block runs only when closed")
	m, _ = enter(t, m, "endfor")
	assert.Equal(t, prompt, m.textInput.Prompt)
	assert.Empty(t, m.pending)

	m, _ = enter(t, m, "writeInfo: total")
	require.Len(t, m.history, 3)
	assert.Equal(t, "for i to 3\ntotal += i\nendfor", m.history[1].input)
	assert.Equal(t, "6", m.history[2].output)
}

func TestREPLErrorsAndObjects(t *testing.T) {
	t.Parallel()

	m := newREPLModel(nil)
	m, _ = enter(t, m, "writeInfo: missing")
	require.Len(t, m.history, 1)
	assert.True(t, m.history[0].isErr)
	assert.Contains(t, m.history[0].output, "Unknown variable « missing ».")

	m, _ = enter(t, m, `Create TextGrid: 0, 1, "words", ""`)
	assert.Equal(t, "selected: 1. TextGrid words", m.history[1].output)

	m, _ = enter(t, m, ":objects")
	assert.Equal(t, "1. TextGrid words", m.history[2].output)

	m, _ = enter(t, m, ":reset")
	assert.Zero(t, m.sess.Workspace().Len())
	assert.Empty(t, m.userVariables())
}

func TestREPLAutocomplete(t *testing.T) {
	t.Parallel()

	m := newREPLModel(nil)
	m.textInput.SetValue("Create Text")
	m = m.handleAutocomplete()
	assert.Equal(t, "Create TextGrid", m.textInput.Value())

	m, _ = enter(t, m, "duration = 2")
	m.textInput.SetValue("writeInfo: dur")
	m = m.handleAutocomplete()
	assert.Equal(t, "writeInfo: duration", m.textInput.Value())
}

func TestBlockDelta(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 1, blockDelta("for i to 3"))
	assert.Equal(t, 1, blockDelta("if x > 1"))
	assert.Equal(t, 0, blockDelta("elsif x > 2"))
	assert.Equal(t, -1, blockDelta("until n < 0"))
	assert.Equal(t, -1, blockDelta("endif"))
	assert.Equal(t, 0, blockDelta("format = 1"))
}

func TestView(t *testing.T) {
	t.Parallel()

	m := newREPLModel(nil)
	assert.Equal(t, "Loading...", m.View())

	model, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 40})
	m = model.(replModel)
	m, _ = enter(t, m, "writeInfo: 7")
	assert.Contains(t, m.View(), "Praat script REPL")
	assert.Contains(t, m.View(), "→ 7")
}
