package evaluator

import (
	"github.com/robbyt/go-praatscript/platform/form"
	"github.com/robbyt/go-praatscript/platform/praaterr"
	"github.com/robbyt/go-praatscript/platform/session"
)

// inject binds every argument into scope before the body runs. Numeric
// parameters are bound as name, text parameters as name$. Choice and
// optionmenu parameters also get the 1-based index of the chosen
// alternative as name.
func inject(scope *session.Scope, bound []form.BoundArgument) error {
	for _, b := range bound {
		name := b.Parameter.VariableName()
		if err := scope.SetNamed(name, b.Value); err != nil {
			return injectionFault(b.Parameter, name, err)
		}
		if b.Index > 0 {
			if err := scope.Set(b.Parameter.Name, session.Number(float64(b.Index))); err != nil {
				return injectionFault(b.Parameter, b.Parameter.Name, err)
			}
		}
	}
	return nil
}

func injectionFault(p form.Parameter, name string, err error) error {
	return praaterr.New(
		praaterr.KindInjection,
		"Cannot bind argument %q of field %q: %v", name, p.Label, err,
	).WithCause(err)
}
