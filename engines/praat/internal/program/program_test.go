package program

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robbyt/go-praatscript/platform/praaterr"
)

func TestParse_Simple(t *testing.T) {
	t.Parallel()

	prog, err := Parse("\n# comment\na = 1\n\n  writeInfoLine: a\n")
	require.NoError(t, err)
	require.Len(t, prog.Body, 2)
	assert.Equal(t, &Simple{Line: 3, Text: "a = 1"}, prog.Body[0])
	assert.Equal(t, &Simple{Line: 5, Text: "writeInfoLine: a"}, prog.Body[1])
	assert.Equal(t, 2, prog.Statements)
}

func TestParse_Continuation(t *testing.T) {
	t.Parallel()

	prog, err := Parse("writeInfoLine: \"a\",\n... \"b\"\nx = 2")
	require.NoError(t, err)
	require.Len(t, prog.Body, 2)
	assert.Equal(t, &Simple{Line: 1, Text: `writeInfoLine: "a", "b"`}, prog.Body[0])
}

func TestParse_If(t *testing.T) {
	t.Parallel()

	prog, err := Parse(`if a > 1
  b = 1
elsif a > 0
  b = 2
else
  b = 3
  c = 4
endif`)
	require.NoError(t, err)
	require.Len(t, prog.Body, 1)

	s, ok := prog.Body[0].(*If)
	require.True(t, ok)
	require.Len(t, s.Branches, 2)
	assert.Equal(t, "a > 1", s.Branches[0].Cond)
	assert.Equal(t, 1, s.Branches[0].Line)
	assert.Equal(t, "a > 0", s.Branches[1].Cond)
	assert.Equal(t, 3, s.Branches[1].Line)
	assert.Len(t, s.Else, 2)
	assert.Equal(t, 5, prog.Statements)
}

func TestParse_Loops(t *testing.T) {
	t.Parallel()

	prog, err := Parse(`for i from 2 to n + 1
  for j to 3
    s = s + j
  endfor
endfor
while s > 0
  s = s - 1
endwhile
repeat
  s = s + 1
until s >= 10`)
	require.NoError(t, err)
	require.Len(t, prog.Body, 3)

	outer, ok := prog.Body[0].(*For)
	require.True(t, ok)
	assert.Equal(t, "i", outer.Var)
	assert.Equal(t, "2", outer.From)
	assert.Equal(t, "n + 1", outer.To)

	inner, ok := outer.Body[0].(*For)
	require.True(t, ok)
	assert.Equal(t, "j", inner.Var)
	assert.Equal(t, "1", inner.From)
	assert.Equal(t, "3", inner.To)

	loop, ok := prog.Body[1].(*While)
	require.True(t, ok)
	assert.Equal(t, "s > 0", loop.Cond)

	rep, ok := prog.Body[2].(*Repeat)
	require.True(t, ok)
	assert.Equal(t, "s >= 10", rep.Until)
	assert.Equal(t, 11, rep.UntilLine)
}

func TestParse_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		body    string
		line    int
		message string
	}{
		{"unclosed if", "a = 1\nif a\n  b = 2", 2, `Missing "endif".`},
		{"stray endif", "a = 1\nendif", 2, `Unexpected "endif".`},
		{"else after else", "if a\nelse\nelse\nendif", 3, `Unexpected "else".`},
		{"wrong closer", "for i to 3\nendwhile", 2, `Unexpected "endwhile".`},
		{"unclosed while", "while 1", 1, `Missing "endwhile".`},
		{"missing until", "repeat\n a = 1", 1, `Missing "until".`},
		{"for without bounds", "for i\nendfor", 1, `Missing "from" or "to" in "for" loop.`},
		{"if without condition", "if\nendif", 1, `Missing condition after "if".`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prog, err := Parse(tt.body)
			require.Nil(t, prog)
			require.ErrorIs(t, err, praaterr.ErrRuntime)

			pe, ok := praaterr.As(err)
			require.True(t, ok)
			assert.Equal(t, tt.line, pe.Line)
			assert.Equal(t, tt.message, pe.Diagnostic)
		})
	}
}

func TestCutKeyword(t *testing.T) {
	t.Parallel()

	before, after, ok := cutKeyword(`length("to go") to 5`, "to")
	require.True(t, ok)
	assert.Equal(t, `length("to go")`, before)
	assert.Equal(t, "5", after)

	_, _, ok = cutKeyword("total", "to")
	assert.False(t, ok)
}
