package expr

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	starlarkLib "go.starlark.net/starlark"
	"go.starlark.net/syntax"

	"github.com/robbyt/go-praatscript/platform/session"
)

// constants are visible to every expression unless a variable shadows them.
var constants = map[string]session.Value{
	"pi":        session.Number(math.Pi),
	"e":         session.Number(math.E),
	"undefined": session.Number(math.NaN()),
}

// Evaluator evaluates Praat expressions against a variable scope.
type Evaluator struct {
	thread *starlarkLib.Thread
	scope  *session.Scope
	funcs  map[string]*starlarkLib.Builtin
	cache  map[string]*Translation
	opts   *syntax.FileOptions
}

// NewEvaluator binds an evaluator to a thread, a scope and a function table
// keyed by Praat function name.
func NewEvaluator(
	thread *starlarkLib.Thread,
	scope *session.Scope,
	funcs map[string]*starlarkLib.Builtin,
) *Evaluator {
	return &Evaluator{
		thread: thread,
		scope:  scope,
		funcs:  funcs,
		cache:  make(map[string]*Translation),
		opts:   &syntax.FileOptions{},
	}
}

func (e *Evaluator) translate(src string) (*Translation, error) {
	if tr, ok := e.cache[src]; ok {
		return tr, nil
	}
	tr, err := Translate(src)
	if err != nil {
		return nil, err
	}
	e.cache[src] = tr
	return tr, nil
}

// Eval evaluates src and returns its value. Errors carry Praat-style
// diagnostic text.
func (e *Evaluator) Eval(src string) (session.Value, error) {
	tr, err := e.translate(src)
	if err != nil {
		return session.Value{}, err
	}

	env := make(starlarkLib.StringDict, len(tr.Vars)+len(tr.Funcs)+len(operatorFuncs)+1)
	for _, name := range tr.Vars {
		v, ok := e.scope.Lookup(name)
		if !ok {
			v, ok = constants[name]
		}
		if !ok {
			return session.Value{}, fmt.Errorf("Unknown variable « %s ».", name)
		}
		env[VarName(name)] = ToStarlark(v)
	}
	for _, name := range tr.Funcs {
		fn, ok := e.funcs[name]
		if !ok {
			return session.Value{}, fmt.Errorf("Unknown function « %s ».", name)
		}
		env[FuncName(name)] = fn
	}
	env[itemFunc] = itemBuiltin
	for name, fn := range operatorFuncs {
		env[name] = fn
	}

	// The tree is rebuilt per call because resolving it annotates the nodes.
	tree, err := e.opts.ParseExpr("<expression>", tr.Code, 0)
	if err != nil {
		return session.Value{}, errors.New(Diagnostic(err))
	}
	result, err := starlarkLib.EvalExprOptions(e.opts, e.thread, rewriteOperators(tree), env)
	if err != nil {
		return session.Value{}, errors.New(Diagnostic(err))
	}
	v, err := FromStarlark(result)
	if err != nil {
		return session.Value{}, err
	}
	return v, nil
}

// EvalNumber evaluates src and requires a numeric result.
func (e *Evaluator) EvalNumber(src string) (float64, error) {
	v, err := e.Eval(src)
	if err != nil {
		return 0, err
	}
	if v.Kind() != session.KindNumber {
		return 0, fmt.Errorf("Found a %s expression instead of a numeric expression.", v.Kind())
	}
	return v.Num(), nil
}

// EvalCondition evaluates src as a condition: non-zero numbers are true.
func (e *Evaluator) EvalCondition(src string) (bool, error) {
	f, err := e.EvalNumber(src)
	if err != nil {
		return false, err
	}
	return f != 0 && !math.IsNaN(f), nil
}

// Diagnostic extracts the message of a Starlark error without its position
// and call stack, which refer to the translated code.
func Diagnostic(err error) string {
	var evalErr *starlarkLib.EvalError
	if errors.As(err, &evalErr) {
		return evalErr.Msg
	}
	var synErr syntax.Error
	if errors.As(err, &synErr) {
		return "Syntax error: " + synErr.Msg
	}
	return err.Error()
}

// ToStarlark converts a scope value into a Starlark value.
func ToStarlark(v session.Value) starlarkLib.Value {
	switch v.Kind() {
	case session.KindNumber:
		return starlarkLib.Float(v.Num())
	case session.KindString:
		return starlarkLib.String(v.Str())
	case session.KindNumericVector:
		nums := v.Nums()
		elems := make([]starlarkLib.Value, len(nums))
		for i, n := range nums {
			elems[i] = starlarkLib.Float(n)
		}
		return starlarkLib.NewList(elems)
	case session.KindStringArray:
		strs := v.Strs()
		elems := make([]starlarkLib.Value, len(strs))
		for i, s := range strs {
			elems[i] = starlarkLib.String(s)
		}
		return starlarkLib.NewList(elems)
	default:
		return starlarkLib.None
	}
}

// FromStarlark converts an expression result back into a scope value.
func FromStarlark(v starlarkLib.Value) (session.Value, error) {
	switch x := v.(type) {
	case starlarkLib.Bool:
		return session.Bool(bool(x)), nil
	case starlarkLib.Int, starlarkLib.Float:
		f, _ := starlarkLib.AsFloat(x)
		return session.Number(f), nil
	case starlarkLib.String:
		return session.String(string(x)), nil
	case starlarkLib.Indexable:
		return fromSequence(x)
	case starlarkLib.NoneType:
		return session.Value{}, errors.New("The expression has no value.")
	}
	return session.Value{}, fmt.Errorf("The expression has an unsupported type « %s ».", v.Type())
}

func fromSequence(seq starlarkLib.Indexable) (session.Value, error) {
	n := seq.Len()
	if n == 0 {
		return session.NumericVector(nil), nil
	}
	if _, ok := seq.Index(0).(starlarkLib.String); ok {
		strs := make([]string, n)
		for i := range n {
			s, ok := seq.Index(i).(starlarkLib.String)
			if !ok {
				return session.Value{}, errors.New("A string array can only contain strings.")
			}
			strs[i] = string(s)
		}
		return session.StringArray(strs), nil
	}
	nums := make([]float64, n)
	for i := range n {
		f, ok := starlarkLib.AsFloat(seq.Index(i))
		if !ok {
			return session.Value{}, errors.New("A numeric vector can only contain numbers.")
		}
		nums[i] = f
	}
	return session.NumericVector(nums), nil
}

// itemBuiltin implements Praat's 1-based element access, v#[i] and a$#[i].
var itemBuiltin = starlarkLib.NewBuiltin("item", func(
	_ *starlarkLib.Thread,
	_ *starlarkLib.Builtin,
	args starlarkLib.Tuple,
	_ []starlarkLib.Tuple,
) (starlarkLib.Value, error) {
	if len(args) != 2 {
		return nil, errors.New("Element access needs exactly one index.")
	}
	seq, ok := args[0].(starlarkLib.Indexable)
	if !ok {
		return nil, fmt.Errorf("Cannot index a %s.", args[0].Type())
	}
	f, ok := starlarkLib.AsFloat(args[1])
	if !ok {
		return nil, errors.New("An index should be a number.")
	}
	i := int(math.Round(f))
	if i < 1 || i > seq.Len() {
		return nil, fmt.Errorf("Index out of range: %d (the vector has %d elements).", i, seq.Len())
	}
	return seq.Index(i - 1), nil
})

var interpolation = regexp.MustCompile(`'([a-z][A-Za-z0-9_.]*(?:\$#|\$|#)?)(?::(\d+))?'`)

// Interpolate replaces 'name' and 'name:decimals' with the value of existing
// variables. References to unknown variables are left as written.
func Interpolate(line string, scope *session.Scope) string {
	if !strings.Contains(line, "'") {
		return line
	}
	return interpolation.ReplaceAllStringFunc(line, func(m string) string {
		parts := interpolation.FindStringSubmatch(m)
		v, ok := scope.Lookup(parts[1])
		if !ok {
			return m
		}
		if parts[2] != "" && v.Kind() == session.KindNumber {
			decimals, _ := strconv.Atoi(parts[2])
			return session.FormatFixed(v.Num(), decimals)
		}
		return v.Text()
	})
}
