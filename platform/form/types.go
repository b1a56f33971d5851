// Package form parses the optional leading form block of a Praat script and
// binds positional arguments to the parameters it declares.
//
// Both steps are pure functions over value lists, so they can be exercised
// without an interpreter.
package form

import (
	"strings"

	"github.com/robbyt/go-praatscript/platform/session"
)

// Type is the declared type of a form field.
type Type int

const (
	Comment Type = iota
	Boolean
	Integer
	Natural
	Real
	Positive
	Word
	Sentence
	Text
	Choice
	OptionMenu
)

var typeNames = map[Type]string{
	Comment:    "comment",
	Boolean:    "boolean",
	Integer:    "integer",
	Natural:    "natural",
	Real:       "real",
	Positive:   "positive",
	Word:       "word",
	Sentence:   "sentence",
	Text:       "text",
	Choice:     "choice",
	OptionMenu: "optionmenu",
}

func (t Type) String() string {
	if name, ok := typeNames[t]; ok {
		return name
	}
	return "unknown"
}

// ParseType maps a form keyword to its Type, case-insensitively.
func ParseType(keyword string) (Type, bool) {
	keyword = strings.ToLower(keyword)
	for t, name := range typeNames {
		if name == keyword {
			return t, true
		}
	}
	return 0, false
}

// IsString reports whether variables of this type carry the $ suffix.
func (t Type) IsString() bool {
	switch t {
	case Word, Sentence, Text, Choice, OptionMenu:
		return true
	}
	return false
}

// IsNumeric reports whether variables of this type are plain numbers.
func (t Type) IsNumeric() bool {
	switch t {
	case Boolean, Integer, Natural, Real, Positive:
		return true
	}
	return false
}

// Parameter is one declaration line of a form block.
type Parameter struct {
	// Name is the variable name the script sees, without suffix.
	Name string

	// Label is the field label as written.
	Label string

	Type Type

	// Default is the default literal, surrounding quotes removed.
	Default string

	// Options are the alternatives of a choice or optionmenu field.
	Options []string

	// Line is the 1-based script line of the declaration.
	Line int
}

// VariableName is the suffixed name the parameter is bound under.
func (p Parameter) VariableName() string {
	if p.Type.IsString() {
		return p.Name + "$"
	}
	return p.Name
}

// Form is a parsed script: its declared parameters and the body to execute.
type Form struct {
	// Title is the text after the form keyword; empty without a block.
	Title string

	// Parameters in declaration order, comments included.
	Parameters []Parameter

	// Body is the script with the block lines blanked, so line numbers match
	// the original text.
	Body string

	// HasBlock reports whether a form block was found.
	HasBlock bool
}

// Bindable returns the parameters that take an argument, in order.
func (f *Form) Bindable() []Parameter {
	return Bindable(f.Parameters)
}

// Bindable filters out Comment parameters, keeping order.
func Bindable(params []Parameter) []Parameter {
	out := make([]Parameter, 0, len(params))
	for _, p := range params {
		if p.Type != Comment {
			out = append(out, p)
		}
	}
	return out
}

// BoundArgument pairs a parameter with its coerced value.
type BoundArgument struct {
	Parameter Parameter
	Value     session.Value

	// Index is the 1-based alternative of a choice or optionmenu, else 0.
	Index int
}
