package compiler

import (
	"github.com/robbyt/go-praatscript/engines/praat/internal/program"
	"github.com/robbyt/go-praatscript/platform/form"
)

// Executable is a parsed Praat script: its form declaration and the block
// tree of its body.
type Executable struct {
	source  string
	form    *form.Form
	program *program.Program
}

func newExecutable(source string, f *form.Form, p *program.Program) *Executable {
	if f == nil || p == nil {
		return nil
	}
	return &Executable{source: source, form: f, program: p}
}

func (e *Executable) GetSource() string {
	return e.source
}

// GetByteCode returns the Executable itself; the evaluator reads the form
// and program through its accessors.
func (e *Executable) GetByteCode() any {
	return e
}

// Form returns the parsed declaration block. A script without one has an
// empty parameter list.
func (e *Executable) Form() *form.Form {
	return e.form
}

// Parameters returns the bindable parameters in declaration order.
func (e *Executable) Parameters() []form.Parameter {
	return e.form.Bindable()
}

// Program returns the body's block tree.
func (e *Executable) Program() *program.Program {
	return e.program
}
