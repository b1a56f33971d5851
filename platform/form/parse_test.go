package form

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robbyt/go-praatscript/platform/praaterr"
)

const intensityScript = `
form Test
	positive minPitch 100.0
	real timeStep 0.0
	boolean subtractMean "yes"
endform

Read from file: "sound.yaml"
To Intensity: minPitch, timeStep, subtractMean
`

func TestParse_NoBlock(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		script string
	}{
		{name: "empty", script: ""},
		{name: "plain statements", script: "a = 42\nb$ = \"abc\""},
		{name: "form later in script", script: "a = 1\nform Late\nreal x 1\nendform"},
		{name: "form as part of a word", script: "formula = 3"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := Parse(tt.script)
			require.NoError(t, err)
			assert.False(t, f.HasBlock)
			assert.Empty(t, f.Parameters)
			assert.Equal(t, tt.script, f.Body)
		})
	}
}

func TestParse_Block(t *testing.T) {
	t.Parallel()

	f, err := Parse(intensityScript)
	require.NoError(t, err)
	require.True(t, f.HasBlock)
	assert.Equal(t, "Test", f.Title)

	require.Len(t, f.Parameters, 3)
	assert.Equal(t, Parameter{Name: "minPitch", Label: "minPitch", Type: Positive, Default: "100.0", Line: 3}, f.Parameters[0])
	assert.Equal(t, Parameter{Name: "timeStep", Label: "timeStep", Type: Real, Default: "0.0", Line: 4}, f.Parameters[1])
	assert.Equal(t, Parameter{Name: "subtractMean", Label: "subtractMean", Type: Boolean, Default: "yes", Line: 5}, f.Parameters[2])

	bodyLines := strings.Split(f.Body, "\n")
	require.Len(t, bodyLines, len(strings.Split(intensityScript, "\n")), "line count is preserved")
	for i := 1; i <= 5; i++ {
		assert.Empty(t, bodyLines[i], "form line %d is blanked", i+1)
	}
	assert.Equal(t, `Read from file: "sound.yaml"`, bodyLines[7])
}

func TestParse_AllTypes(t *testing.T) {
	t.Parallel()

	script := `# analysis settings
form Everything
	comment Pitch settings
	positive Minimum_pitch_(Hz) 75
	natural Number_of_steps 10
	integer offset -3
	real factor 0.5
	boolean Verbose no
	word name hello
	sentence title Some longer  title
	text body "quoted ""text"""
	choice Gender 2
		button Male
		button Female
	optionmenu Format 1
		option WAV
		option AIFF
endform
writeInfo: title$`

	f, err := Parse(script)
	require.NoError(t, err)
	require.Len(t, f.Parameters, 11)

	names := make([]string, 0)
	for _, p := range f.Parameters {
		names = append(names, p.VariableName())
	}
	assert.Equal(t, []string{
		"", "minimum_pitch", "number_of_steps", "offset", "factor", "verbose",
		"name$", "title$", "body$", "gender$", "format$",
	}, names)

	assert.Equal(t, Comment, f.Parameters[0].Type)
	assert.Equal(t, "Pitch settings", f.Parameters[0].Label)
	assert.Equal(t, "Some longer  title", f.Parameters[7].Default)
	assert.Equal(t, `quoted "text"`, f.Parameters[8].Default)
	assert.Equal(t, []string{"Male", "Female"}, f.Parameters[9].Options)
	assert.Equal(t, []string{"WAV", "AIFF"}, f.Parameters[10].Options)
	assert.Len(t, f.Bindable(), 10)
}

func TestParse_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		script  string
		line    int
		message string
	}{
		{
			name:    "missing endform",
			script:  "form Test\n  real x 1\n",
			line:    1,
			message: `Missing "endform"`,
		},
		{
			name:    "unknown type",
			script:  "form Test\n  real x 1\n  colour c Red\nendform",
			line:    3,
			message: `Unknown field type "colour".`,
		},
		{
			name:    "missing name",
			script:  "form Test\n  real\nendform",
			line:    2,
			message: `Missing field name after "real".`,
		},
		{
			name:    "duplicate name",
			script:  "form Test\n  real x 1\n  positive x 2\nendform",
			line:    3,
			message: `Duplicate field name "x"`,
		},
		{
			name:    "bad numeric default",
			script:  "form Test\n  real x abc\nendform",
			line:    2,
			message: `Invalid default value for field "x"`,
		},
		{
			name:    "bad positive default",
			script:  "form Test\n  positive x 0\nendform",
			line:    2,
			message: `should be greater than 0`,
		},
		{
			name:    "bad boolean default",
			script:  "form Test\n  boolean b maybe\nendform",
			line:    2,
			message: `Invalid default value for field "b"`,
		},
		{
			name:    "button outside choice",
			script:  "form Test\n  button A\nendform",
			line:    2,
			message: `outside a choice`,
		},
		{
			name:    "choice without buttons",
			script:  "form Test\n  choice c 1\nendform",
			line:    2,
			message: `has no buttons or options`,
		},
		{
			name:    "choice default out of range",
			script:  "form Test\n  choice c 3\n    button A\n    button B\nendform",
			line:    2,
			message: `should be between 1 and 2`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := Parse(tt.script)
			require.Error(t, err)
			require.Nil(t, f)
			require.ErrorIs(t, err, praaterr.ErrParse)

			pe, ok := praaterr.As(err)
			require.True(t, ok)
			assert.Equal(t, tt.line, pe.Line)
			assert.Contains(t, pe.Error(), tt.message)
		})
	}
}

func TestVariableName(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "minPitch", variableName("minPitch"))
	assert.Equal(t, "minimum_pitch", variableName("Minimum_pitch_(Hz)"))
	assert.Equal(t, "time", variableName("Time(s)"))
	assert.Equal(t, "x", variableName("X"))
}

func TestParse_ColonLayout(t *testing.T) {
	t.Parallel()

	script := `form: "Pitch analysis"
    comment: "Settings"
    positive: "Minimum pitch (Hz)", "75"
    real: "Time step", 0.01
    boolean: "Subtract mean", 1
    sentence: "Label", "a, ""quoted"" label"
    optionmenu: "Format", 2
        option: "WAV"
        option: "AIFF"
endform
writeInfo: label$`

	f, err := Parse(script)
	require.NoError(t, err)
	assert.Equal(t, "Pitch analysis", f.Title)
	require.Len(t, f.Parameters, 6)

	assert.Equal(t, Parameter{Name: "minimum_pitch", Label: "Minimum pitch (Hz)", Type: Positive, Default: "75", Line: 3}, f.Parameters[1])
	assert.Equal(t, Parameter{Name: "time_step", Label: "Time step", Type: Real, Default: "0.01", Line: 4}, f.Parameters[2])
	assert.Equal(t, "subtract_mean", f.Parameters[3].VariableName())
	assert.Equal(t, `a, "quoted" label`, f.Parameters[4].Default)
	assert.Equal(t, "label$", f.Parameters[4].VariableName())
	assert.Equal(t, []string{"WAV", "AIFF"}, f.Parameters[5].Options)

	bodyLines := strings.Split(f.Body, "\n")
	assert.Empty(t, bodyLines[0])
	assert.Equal(t, "writeInfo: label$", bodyLines[10])

	t.Run("unclosed quote", func(t *testing.T) {
		_, err := Parse("form: \"T\"\n    real: \"X, 1\nendform")
		require.ErrorIs(t, err, praaterr.ErrParse)
		assert.Contains(t, err.Error(), "Missing closing quote.")
	})

	t.Run("too many values", func(t *testing.T) {
		_, err := Parse("form: \"T\"\n    real: \"X\", 1, 2\nendform")
		require.ErrorIs(t, err, praaterr.ErrParse)
	})
}
