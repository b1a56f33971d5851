package expr

import (
	"math"

	starlarkLib "go.starlark.net/starlark"
	"go.starlark.net/syntax"
)

const (
	boolFunc = "f__bool"
	divFunc  = "f__div"
	idivFunc = "f__idiv"
	modFunc  = "f__mod"
)

// operatorFuncs replace Starlark operators whose results differ from Praat's:
// and/or yield 0 or 1 instead of an operand, and division by zero is
// undefined instead of an error.
var operatorFuncs = starlarkLib.StringDict{
	boolFunc: starlarkLib.NewBuiltin("bool", func(
		_ *starlarkLib.Thread,
		_ *starlarkLib.Builtin,
		args starlarkLib.Tuple,
		_ []starlarkLib.Tuple,
	) (starlarkLib.Value, error) {
		if args[0].Truth() {
			return starlarkLib.Float(1), nil
		}
		return starlarkLib.Float(0), nil
	}),
	divFunc:  division(syntax.SLASH),
	idivFunc: division(syntax.SLASHSLASH),
	modFunc:  division(syntax.PERCENT),
}

func division(op syntax.Token) *starlarkLib.Builtin {
	return starlarkLib.NewBuiltin(op.String(), func(
		_ *starlarkLib.Thread,
		_ *starlarkLib.Builtin,
		args starlarkLib.Tuple,
		_ []starlarkLib.Tuple,
	) (starlarkLib.Value, error) {
		x, y := args[0], args[1]
		if d, ok := starlarkLib.AsFloat(y); ok {
			if _, ok := starlarkLib.AsFloat(x); ok && d == 0 {
				return starlarkLib.Float(math.NaN()), nil
			}
		}
		return starlarkLib.Binary(op, x, y)
	})
}

var operatorCalls = map[syntax.Token]string{
	syntax.AND:        boolFunc,
	syntax.OR:         boolFunc,
	syntax.SLASH:      divFunc,
	syntax.SLASHSLASH: idivFunc,
	syntax.PERCENT:    modFunc,
}

// rewriteOperators replaces the operators in operatorCalls with calls to
// their builtins, children first.
func rewriteOperators(e syntax.Expr) syntax.Expr {
	switch x := e.(type) {
	case *syntax.BinaryExpr:
		x.X = rewriteOperators(x.X)
		x.Y = rewriteOperators(x.Y)
		fn, ok := operatorCalls[x.Op]
		if !ok {
			return x
		}
		if fn == boolFunc {
			return call(fn, x)
		}
		return call(fn, x.X, x.Y)
	case *syntax.UnaryExpr:
		if x.X != nil {
			x.X = rewriteOperators(x.X)
		}
	case *syntax.ParenExpr:
		x.X = rewriteOperators(x.X)
	case *syntax.CondExpr:
		x.Cond = rewriteOperators(x.Cond)
		x.True = rewriteOperators(x.True)
		x.False = rewriteOperators(x.False)
	case *syntax.CallExpr:
		for i, arg := range x.Args {
			x.Args[i] = rewriteOperators(arg)
		}
	case *syntax.ListExpr:
		for i, elem := range x.List {
			x.List[i] = rewriteOperators(elem)
		}
	case *syntax.TupleExpr:
		for i, elem := range x.List {
			x.List[i] = rewriteOperators(elem)
		}
	case *syntax.IndexExpr:
		x.X = rewriteOperators(x.X)
		x.Y = rewriteOperators(x.Y)
	}
	return e
}

func call(fn string, args ...syntax.Expr) *syntax.CallExpr {
	start, _ := args[0].Span()
	_, end := args[len(args)-1].Span()
	return &syntax.CallExpr{
		Fn:     &syntax.Ident{NamePos: start, Name: fn},
		Lparen: start,
		Args:   args,
		Rparen: end,
	}
}
