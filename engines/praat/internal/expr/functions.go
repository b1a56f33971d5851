package expr

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	starlarkLib "go.starlark.net/starlark"

	"github.com/robbyt/go-praatscript/platform/session"
)

type builtinFunc func(args starlarkLib.Tuple) (starlarkLib.Value, error)

// Functions builds the Praat function table for one session. The table is
// keyed by Praat name, suffix included.
func Functions(sess *session.Session) map[string]*starlarkLib.Builtin {
	table := map[string]builtinFunc{
		"abs":     math1(math.Abs),
		"round":   math1(func(x float64) float64 { return math.Floor(x + 0.5) }),
		"floor":   math1(math.Floor),
		"ceiling": math1(math.Ceil),
		"sqrt":    math1(math.Sqrt),
		"exp":     math1(math.Exp),
		"ln":      math1(math.Log),
		"log10":   math1(math.Log10),
		"log2":    math1(math.Log2),
		"sin":     math1(math.Sin),
		"cos":     math1(math.Cos),
		"tan":     math1(math.Tan),
		"arctan":  math1(math.Atan),
		"min":     fold(math.Min),
		"max":     fold(math.Max),

		"number":     fnNumber,
		"length":     fnLength,
		"index":      fnIndex(strings.Index),
		"rindex":     fnIndex(strings.LastIndex),
		"startsWith": fnStrPredicate(strings.HasPrefix),
		"endsWith":   fnStrPredicate(strings.HasSuffix),
		"left$":      fnLeft,
		"right$":     fnRight,
		"mid$":       fnMid,
		"replace$":   fnReplace,
		"fixed$":     fnFixed,
		"string$":    fnString,
		"date$":      fnDate,

		"size":  fnSize,
		"sum":   vectorFold(func(v []float64) float64 { return sumOf(v) }),
		"mean":  vectorFold(func(v []float64) float64 { return sumOf(v) / float64(len(v)) }),
		"zero#": fnZero,

		"selected":         selectedFunc(sess, false),
		"selected$":        selectedFunc(sess, true),
		"numberOfSelected": numberOfSelected(sess),
	}

	out := make(map[string]*starlarkLib.Builtin, len(table))
	for name, fn := range table {
		out[name] = starlarkLib.NewBuiltin(name, func(
			_ *starlarkLib.Thread,
			_ *starlarkLib.Builtin,
			args starlarkLib.Tuple,
			kwargs []starlarkLib.Tuple,
		) (starlarkLib.Value, error) {
			if len(kwargs) > 0 {
				return nil, fmt.Errorf("The function « %s » does not take named arguments.", name)
			}
			return fn(args)
		})
	}
	return out
}

func wantArgs(name string, args starlarkLib.Tuple, n int) error {
	if len(args) != n {
		return fmt.Errorf("The function « %s » requires %d argument(s), not %d.", name, n, len(args))
	}
	return nil
}

func numArg(name string, args starlarkLib.Tuple, i int) (float64, error) {
	f, ok := starlarkLib.AsFloat(args[i])
	if !ok {
		return 0, fmt.Errorf("The function « %s » requires a numeric argument %d, not a %s.", name, i+1, args[i].Type())
	}
	return f, nil
}

func strArg(name string, args starlarkLib.Tuple, i int) (string, error) {
	s, ok := starlarkLib.AsString(args[i])
	if !ok {
		return "", fmt.Errorf("The function « %s » requires a string argument %d, not a %s.", name, i+1, args[i].Type())
	}
	return s, nil
}

func vecArg(name string, args starlarkLib.Tuple, i int) ([]float64, error) {
	seq, ok := args[i].(*starlarkLib.List)
	if !ok {
		return nil, fmt.Errorf("The function « %s » requires a vector argument %d, not a %s.", name, i+1, args[i].Type())
	}
	v, err := fromSequence(seq)
	if err != nil {
		return nil, err
	}
	return v.Nums(), nil
}

func math1(fn func(float64) float64) builtinFunc {
	return func(args starlarkLib.Tuple) (starlarkLib.Value, error) {
		if err := wantArgs("math", args, 1); err != nil {
			return nil, err
		}
		x, err := numArg("math", args, 0)
		if err != nil {
			return nil, err
		}
		return starlarkLib.Float(fn(x)), nil
	}
}

func fold(fn func(a, b float64) float64) builtinFunc {
	return func(args starlarkLib.Tuple) (starlarkLib.Value, error) {
		if len(args) == 0 {
			return nil, errors.New("The function « min/max » requires at least one argument.")
		}
		acc, err := numArg("min/max", args, 0)
		if err != nil {
			return nil, err
		}
		for i := 1; i < len(args); i++ {
			x, err := numArg("min/max", args, i)
			if err != nil {
				return nil, err
			}
			acc = fn(acc, x)
		}
		return starlarkLib.Float(acc), nil
	}
}

func fnNumber(args starlarkLib.Tuple) (starlarkLib.Value, error) {
	if err := wantArgs("number", args, 1); err != nil {
		return nil, err
	}
	s, err := strArg("number", args, 0)
	if err != nil {
		return nil, err
	}
	f, perr := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if perr != nil {
		return starlarkLib.Float(math.NaN()), nil
	}
	return starlarkLib.Float(f), nil
}

func fnLength(args starlarkLib.Tuple) (starlarkLib.Value, error) {
	if err := wantArgs("length", args, 1); err != nil {
		return nil, err
	}
	s, err := strArg("length", args, 0)
	if err != nil {
		return nil, err
	}
	return starlarkLib.Float(utf8.RuneCountInString(s)), nil
}

// fnIndex returns the 1-based rune position of the needle, or 0.
func fnIndex(find func(s, substr string) int) builtinFunc {
	return func(args starlarkLib.Tuple) (starlarkLib.Value, error) {
		if err := wantArgs("index", args, 2); err != nil {
			return nil, err
		}
		s, err := strArg("index", args, 0)
		if err != nil {
			return nil, err
		}
		sub, err := strArg("index", args, 1)
		if err != nil {
			return nil, err
		}
		at := find(s, sub)
		if at < 0 {
			return starlarkLib.Float(0), nil
		}
		return starlarkLib.Float(utf8.RuneCountInString(s[:at]) + 1), nil
	}
}

func fnStrPredicate(pred func(s, affix string) bool) builtinFunc {
	return func(args starlarkLib.Tuple) (starlarkLib.Value, error) {
		if err := wantArgs("startsWith/endsWith", args, 2); err != nil {
			return nil, err
		}
		s, err := strArg("startsWith/endsWith", args, 0)
		if err != nil {
			return nil, err
		}
		affix, err := strArg("startsWith/endsWith", args, 1)
		if err != nil {
			return nil, err
		}
		if pred(s, affix) {
			return starlarkLib.Float(1), nil
		}
		return starlarkLib.Float(0), nil
	}
}

func clampRunes(s string, from, n int) string {
	rs := []rune(s)
	if from < 0 {
		from = 0
	}
	if from > len(rs) {
		return ""
	}
	end := from + n
	if n < 0 || end > len(rs) {
		end = len(rs)
	}
	return string(rs[from:end])
}

func fnLeft(args starlarkLib.Tuple) (starlarkLib.Value, error) {
	if err := wantArgs("left$", args, 2); err != nil {
		return nil, err
	}
	s, err := strArg("left$", args, 0)
	if err != nil {
		return nil, err
	}
	n, err := numArg("left$", args, 1)
	if err != nil {
		return nil, err
	}
	if n < 0 {
		n = 0
	}
	return starlarkLib.String(clampRunes(s, 0, int(n))), nil
}

func fnRight(args starlarkLib.Tuple) (starlarkLib.Value, error) {
	if err := wantArgs("right$", args, 2); err != nil {
		return nil, err
	}
	s, err := strArg("right$", args, 0)
	if err != nil {
		return nil, err
	}
	n, err := numArg("right$", args, 1)
	if err != nil {
		return nil, err
	}
	total := utf8.RuneCountInString(s)
	k := min(max(int(n), 0), total)
	return starlarkLib.String(clampRunes(s, total-k, k)), nil
}

func fnMid(args starlarkLib.Tuple) (starlarkLib.Value, error) {
	if err := wantArgs("mid$", args, 3); err != nil {
		return nil, err
	}
	s, err := strArg("mid$", args, 0)
	if err != nil {
		return nil, err
	}
	from, err := numArg("mid$", args, 1)
	if err != nil {
		return nil, err
	}
	n, err := numArg("mid$", args, 2)
	if err != nil {
		return nil, err
	}
	if n < 0 {
		n = 0
	}
	return starlarkLib.String(clampRunes(s, int(from)-1, int(n))), nil
}

func fnReplace(args starlarkLib.Tuple) (starlarkLib.Value, error) {
	if err := wantArgs("replace$", args, 4); err != nil {
		return nil, err
	}
	s, err := strArg("replace$", args, 0)
	if err != nil {
		return nil, err
	}
	old, err := strArg("replace$", args, 1)
	if err != nil {
		return nil, err
	}
	repl, err := strArg("replace$", args, 2)
	if err != nil {
		return nil, err
	}
	n, err := numArg("replace$", args, 3)
	if err != nil {
		return nil, err
	}
	count := int(n)
	if count <= 0 {
		count = -1
	}
	return starlarkLib.String(strings.Replace(s, old, repl, count)), nil
}

func fnFixed(args starlarkLib.Tuple) (starlarkLib.Value, error) {
	if err := wantArgs("fixed$", args, 2); err != nil {
		return nil, err
	}
	x, err := numArg("fixed$", args, 0)
	if err != nil {
		return nil, err
	}
	d, err := numArg("fixed$", args, 1)
	if err != nil {
		return nil, err
	}
	return starlarkLib.String(session.FormatFixed(x, int(d))), nil
}

func fnString(args starlarkLib.Tuple) (starlarkLib.Value, error) {
	if err := wantArgs("string$", args, 1); err != nil {
		return nil, err
	}
	x, err := numArg("string$", args, 0)
	if err != nil {
		return nil, err
	}
	return starlarkLib.String(session.FormatNumber(x)), nil
}

func fnDate(args starlarkLib.Tuple) (starlarkLib.Value, error) {
	if err := wantArgs("date$", args, 0); err != nil {
		return nil, err
	}
	return starlarkLib.String(time.Now().Format("Mon Jan _2 15:04:05 2006")), nil
}

func fnSize(args starlarkLib.Tuple) (starlarkLib.Value, error) {
	if err := wantArgs("size", args, 1); err != nil {
		return nil, err
	}
	seq, ok := args[0].(*starlarkLib.List)
	if !ok {
		return nil, fmt.Errorf("The function « size » requires a vector, not a %s.", args[0].Type())
	}
	return starlarkLib.Float(seq.Len()), nil
}

func vectorFold(fn func([]float64) float64) builtinFunc {
	return func(args starlarkLib.Tuple) (starlarkLib.Value, error) {
		if err := wantArgs("sum/mean", args, 1); err != nil {
			return nil, err
		}
		v, err := vecArg("sum/mean", args, 0)
		if err != nil {
			return nil, err
		}
		if len(v) == 0 {
			return starlarkLib.Float(math.NaN()), nil
		}
		return starlarkLib.Float(fn(v)), nil
	}
}

func sumOf(v []float64) float64 {
	var total float64
	for _, x := range v {
		total += x
	}
	return total
}

func fnZero(args starlarkLib.Tuple) (starlarkLib.Value, error) {
	if err := wantArgs("zero#", args, 1); err != nil {
		return nil, err
	}
	n, err := numArg("zero#", args, 0)
	if err != nil {
		return nil, err
	}
	if n < 0 || n != math.Trunc(n) {
		return nil, fmt.Errorf("The function « zero# » requires a non-negative whole number, not %s.", session.FormatNumber(n))
	}
	elems := make([]starlarkLib.Value, int(n))
	for i := range elems {
		elems[i] = starlarkLib.Float(0)
	}
	return starlarkLib.NewList(elems), nil
}

// selectedFunc implements selected() and selected$(): with no argument the
// first selected object, with a type name the first selected object of that
// type, and with a number the n-th selected object (negative counts from
// the end). selected() yields ids; selected$() yields "Type name" without a
// type argument and the bare name with one.
func selectedFunc(sess *session.Session, asString bool) builtinFunc {
	name := "selected"
	if asString {
		name = "selected$"
	}
	return func(args starlarkLib.Tuple) (starlarkLib.Value, error) {
		if len(args) > 2 {
			return nil, fmt.Errorf("The function « %s » takes at most 2 arguments.", name)
		}
		sel := sess.Workspace().Selected()
		class := ""
		nth := 1
		for i := range args {
			if s, ok := starlarkLib.AsString(args[i]); ok && i == 0 {
				class = s
				continue
			}
			f, err := numArg(name, args, i)
			if err != nil {
				return nil, err
			}
			nth = int(f)
		}
		if class != "" {
			filtered := sel[:0:0]
			for _, h := range sel {
				if h.Class == class {
					filtered = append(filtered, h)
				}
			}
			sel = filtered
		}
		if nth < 0 {
			nth = len(sel) + nth + 1
		}
		if nth < 1 || nth > len(sel) {
			if class != "" {
				return nil, fmt.Errorf("No %s object number %d is selected.", class, nth)
			}
			return nil, fmt.Errorf("No object number %d is selected.", nth)
		}
		h := sel[nth-1]
		switch {
		case !asString:
			return starlarkLib.Float(h.ID), nil
		case class != "":
			return starlarkLib.String(h.Name), nil
		default:
			return starlarkLib.String(h.Key()), nil
		}
	}
}

func numberOfSelected(sess *session.Session) builtinFunc {
	return func(args starlarkLib.Tuple) (starlarkLib.Value, error) {
		sel := sess.Workspace().Selected()
		switch len(args) {
		case 0:
			return starlarkLib.Float(len(sel)), nil
		case 1:
			class, err := strArg("numberOfSelected", args, 0)
			if err != nil {
				return nil, err
			}
			n := 0
			for _, h := range sel {
				if h.Class == class {
					n++
				}
			}
			return starlarkLib.Float(n), nil
		default:
			return nil, errors.New("The function « numberOfSelected » takes at most 1 argument.")
		}
	}
}
