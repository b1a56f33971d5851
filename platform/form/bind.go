package form

import (
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"

	"github.com/robbyt/go-praatscript/platform/praaterr"
	"github.com/robbyt/go-praatscript/platform/session"
)

// Bind matches positional args against params. Comment parameters are skipped.
// With no args every parameter takes its default; otherwise the count must
// equal the number of bindable parameters exactly.
func Bind(params []Parameter, args []any) ([]BoundArgument, error) {
	bindable := Bindable(params)

	if len(args) == 0 {
		bound := make([]BoundArgument, 0, len(bindable))
		for _, p := range bindable {
			v, idx, err := coerceLiteral(p, p.Default)
			if err != nil {
				return nil, err
			}
			bound = append(bound, BoundArgument{Parameter: p, Value: v, Index: idx})
		}
		return bound, nil
	}

	if len(args) != len(bindable) {
		return nil, praaterr.ArgumentCount(len(args), len(bindable))
	}

	bound := make([]BoundArgument, 0, len(bindable))
	for i, p := range bindable {
		v, idx, err := coerceArg(p, args[i])
		if err != nil {
			return nil, err
		}
		bound = append(bound, BoundArgument{Parameter: p, Value: v, Index: idx})
	}
	return bound, nil
}

// coerceLiteral converts a default literal written in the form block.
func coerceLiteral(p Parameter, literal string) (session.Value, int, *praaterr.Error) {
	switch {
	case p.Type == Boolean:
		b, ok := parseBoolLiteral(literal)
		if !ok {
			return session.Value{}, 0, typeError(p, "the text %q", literal)
		}
		return session.Bool(b), 0, nil
	case p.Type.IsNumeric():
		f, ok := parseNumberLiteral(literal)
		if !ok {
			return session.Value{}, 0, typeError(p, "the text %q", literal)
		}
		return checkNumber(p, f)
	case p.Type == Choice || p.Type == OptionMenu:
		if strings.TrimSpace(literal) == "" {
			return session.String(p.Options[0]), 1, nil
		}
		if f, ok := parseNumberLiteral(literal); ok {
			return choiceByIndex(p, f)
		}
		return choiceByText(p, literal)
	default:
		return textValue(p, literal), 0, nil
	}
}

// coerceArg converts a caller-supplied Go value.
func coerceArg(p Parameter, arg any) (session.Value, int, *praaterr.Error) {
	switch {
	case p.Type == Boolean:
		if s, ok := arg.(string); ok {
			b, ok := parseBoolLiteral(s)
			if !ok {
				return session.Value{}, 0, typeError(p, "the string %q", s)
			}
			return session.Bool(b), 0, nil
		}
		f, ok := toFloat(arg)
		if !ok {
			return session.Value{}, 0, typeError(p, "a %s (%v)", goTypeName(arg), arg)
		}
		return session.Bool(f != 0), 0, nil
	case p.Type.IsNumeric():
		f, ok := toFloat(arg)
		if !ok {
			return session.Value{}, 0, typeError(p, "a %s (%v)", goTypeName(arg), arg)
		}
		return checkNumber(p, f)
	case p.Type == Choice || p.Type == OptionMenu:
		if s, ok := arg.(string); ok {
			return choiceByText(p, s)
		}
		if f, ok := toFloat(arg); ok {
			return choiceByIndex(p, f)
		}
		return session.Value{}, 0, typeError(p, "a %s (%v)", goTypeName(arg), arg)
	default:
		return textValue(p, toString(arg)), 0, nil
	}
}

// textValue keeps only the first token of a word field, as Praat does.
func textValue(p Parameter, s string) session.Value {
	if p.Type == Word {
		if fields := strings.Fields(s); len(fields) > 0 {
			return session.String(fields[0])
		}
		return session.String("")
	}
	return session.String(s)
}

func checkNumber(p Parameter, f float64) (session.Value, int, *praaterr.Error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return session.Value{}, 0, rangeError(p, "a defined number", f)
	}
	switch p.Type {
	case Positive:
		if f <= 0 {
			return session.Value{}, 0, rangeError(p, "greater than 0", f)
		}
	case Integer:
		if f != math.Trunc(f) {
			return session.Value{}, 0, rangeError(p, "a whole number", f)
		}
	case Natural:
		if f != math.Trunc(f) || f <= 0 {
			return session.Value{}, 0, rangeError(p, "a whole number greater than 0", f)
		}
	}
	return session.Number(f), 0, nil
}

func choiceByIndex(p Parameter, f float64) (session.Value, int, *praaterr.Error) {
	if f != math.Trunc(f) || f < 1 || int(f) > len(p.Options) {
		return session.Value{}, 0, rangeError(p, fmt.Sprintf("between 1 and %d", len(p.Options)), f)
	}
	idx := int(f)
	return session.String(p.Options[idx-1]), idx, nil
}

func choiceByText(p Parameter, text string) (session.Value, int, *praaterr.Error) {
	for i, opt := range p.Options {
		if opt == text {
			return session.String(opt), i + 1, nil
		}
	}
	for i, opt := range p.Options {
		if strings.EqualFold(opt, text) {
			return session.String(opt), i + 1, nil
		}
	}
	return session.Value{}, 0, praaterr.New(praaterr.KindArgumentType,
		"Argument %q (%s) should be one of %s, not %q.",
		p.Name, p.Type, quoteAll(p.Options), text)
}

func typeError(p Parameter, format string, args ...any) *praaterr.Error {
	return praaterr.New(praaterr.KindArgumentType,
		"Argument %q (%s) cannot be %s.", p.Name, p.Type, fmt.Sprintf(format, args...))
}

func rangeError(p Parameter, want string, f float64) *praaterr.Error {
	return praaterr.New(praaterr.KindArgumentType,
		"Argument %q (%s) should be %s, not %s.", p.Name, p.Type, want, session.FormatNumber(f))
}

func quoteAll(opts []string) string {
	q := make([]string, len(opts))
	for i, o := range opts {
		q[i] = strconv.Quote(o)
	}
	return strings.Join(q, ", ")
}

// toFloat accepts Go integers, floats, bools and numeric session values.
func toFloat(arg any) (float64, bool) {
	switch v := arg.(type) {
	case bool:
		if v {
			return 1, true
		}
		return 0, true
	case session.Value:
		if v.Kind() == session.KindNumber {
			return v.Num(), true
		}
		return 0, false
	case nil, string:
		return 0, false
	}
	rv := reflect.ValueOf(arg)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return float64(rv.Uint()), true
	case reflect.Float32, reflect.Float64:
		return rv.Float(), true
	}
	return 0, false
}

func toString(arg any) string {
	switch v := arg.(type) {
	case string:
		return v
	case session.Value:
		return v.Text()
	case float64:
		return session.FormatNumber(v)
	case float32:
		return session.FormatNumber(float64(v))
	case nil:
		return ""
	}
	return fmt.Sprint(arg)
}

func goTypeName(arg any) string {
	switch arg.(type) {
	case nil:
		return "nil value"
	case string:
		return "string"
	}
	return fmt.Sprintf("%T", arg)
}
