package evaluator

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strings"
	"unicode"

	"github.com/robbyt/go-praatscript/engines/praat/commands"
	"github.com/robbyt/go-praatscript/engines/praat/internal/expr"
	"github.com/robbyt/go-praatscript/engines/praat/internal/program"
	"github.com/robbyt/go-praatscript/platform/praaterr"
	"github.com/robbyt/go-praatscript/platform/session"
)

// assignment matches "name = ...", "name += ..." and "v#[i] = ...".
var assignment = regexp.MustCompile(
	`^([a-z][A-Za-z0-9_.]*(?:\$#|\$|#)?)\s*(?:\[(.+)\])?\s*(=|\+=|-=|\*=|/=)(.*)$`,
)

// simple classifies a statement after 'variable' interpolation and runs it.
func (r *runner) simple(s *program.Simple) error {
	line := strings.TrimSpace(expr.Interpolate(s.Text, r.scope))

	if m := assignment.FindStringSubmatch(line); m != nil && !strings.HasPrefix(m[4], "=") {
		if err := r.assign(m[1], m[2], m[3], strings.TrimSpace(m[4])); err != nil {
			return r.statementError(s, err)
		}
		return nil
	}

	if _, err := r.command(line); err != nil {
		return r.statementError(s, err)
	}
	return nil
}

func (r *runner) statementError(s *program.Simple, err error) error {
	var exit *commands.Exit
	if errors.As(err, &exit) {
		if exit.Message == "" {
			return errStop
		}
		return praaterr.AtLine(praaterr.KindRuntime, s.Line, s.Text, exit.Message)
	}
	return fault(s.Line, s.Text, err)
}

// command runs "Name: arg, arg" or a bare "Name".
func (r *runner) command(line string) (session.Value, error) {
	name, rest, hasArgs := cutColon(line)
	name = strings.TrimSpace(name)
	if name == "" {
		return session.Value{}, fmt.Errorf("Empty command in line « %s ».", line)
	}

	var args []session.Value
	if hasArgs {
		parts, err := splitArgs(rest)
		if err != nil {
			return session.Value{}, err
		}
		args = make([]session.Value, 0, len(parts))
		for _, part := range parts {
			v, err := r.eval.Eval(part)
			if err != nil {
				return session.Value{}, err
			}
			args = append(args, v)
		}
	}
	return r.registry.Run(r.ctx, r.env, name, args)
}

// value evaluates the right-hand side of an assignment. A side starting
// with an upper-case letter is a query command, since every function name
// starts lower-case.
func (r *runner) value(rhs string) (session.Value, error) {
	if rhs == "" {
		return session.Value{}, errors.New("Missing expression after the assignment operator.")
	}
	first := []rune(rhs)[0]
	if unicode.IsUpper(first) {
		v, err := r.command(rhs)
		if err != nil {
			return session.Value{}, err
		}
		if v.IsNone() {
			return session.Value{}, fmt.Errorf("Command « %s » does not return a value.", commandName(rhs))
		}
		return v, nil
	}
	return r.eval.Eval(rhs)
}

func (r *runner) assign(name, index, op, rhs string) error {
	base, kind := session.SplitName(name)
	v, err := r.value(rhs)
	if err != nil {
		return err
	}

	if index != "" {
		return r.assignElement(name, base, kind, index, op, v)
	}

	if op != "=" {
		old, ok := r.scope.Get(base, kind)
		if !ok {
			return fmt.Errorf("Unknown variable « %s ».", name)
		}
		if v, err = compound(op, old, v); err != nil {
			return err
		}
	}
	if v.Kind() != kind {
		return mismatch(name, kind, v.Kind())
	}
	return r.scope.Set(base, v)
}

// assignElement handles v#[i] = x and a$#[i] = x$, 1-based.
func (r *runner) assignElement(name, base string, kind session.Kind, index, op string, v session.Value) error {
	old, ok := r.scope.Get(base, kind)
	if !ok {
		return fmt.Errorf("Unknown variable « %s ».", name)
	}
	f, err := r.eval.EvalNumber(index)
	if err != nil {
		return err
	}
	i := int(math.Round(f))

	switch kind {
	case session.KindNumericVector:
		nums := old.Nums()
		if i < 1 || i > len(nums) {
			return outOfRange(i, len(nums))
		}
		elem := session.Number(nums[i-1])
		if op != "=" {
			if v, err = compound(op, elem, v); err != nil {
				return err
			}
		}
		if v.Kind() != session.KindNumber {
			return mismatch(name+"[]", session.KindNumber, v.Kind())
		}
		nums[i-1] = v.Num()
		return r.scope.Set(base, session.NumericVector(nums))
	case session.KindStringArray:
		strs := old.Strs()
		if i < 1 || i > len(strs) {
			return outOfRange(i, len(strs))
		}
		elem := session.String(strs[i-1])
		if op != "=" {
			if v, err = compound(op, elem, v); err != nil {
				return err
			}
		}
		if v.Kind() != session.KindString {
			return mismatch(name+"[]", session.KindString, v.Kind())
		}
		strs[i-1] = v.Str()
		return r.scope.Set(base, session.StringArray(strs))
	default:
		return fmt.Errorf("Cannot index « %s »: it is a %s.", name, kind)
	}
}

// compound applies +=, -=, *= and /=. Strings only support +=; vectors
// combine element-wise with a number or a vector of the same length.
func compound(op string, old, rhs session.Value) (session.Value, error) {
	arith := func(a, b float64) float64 {
		switch op {
		case "+=":
			return a + b
		case "-=":
			return a - b
		case "*=":
			return a * b
		default:
			if b == 0 {
				return math.NaN()
			}
			return a / b
		}
	}

	switch {
	case old.Kind() == session.KindNumber && rhs.Kind() == session.KindNumber:
		return session.Number(arith(old.Num(), rhs.Num())), nil
	case old.Kind() == session.KindString && rhs.Kind() == session.KindString && op == "+=":
		return session.String(old.Str() + rhs.Str()), nil
	case old.Kind() == session.KindNumericVector && rhs.Kind() == session.KindNumber:
		nums := old.Nums()
		for i := range nums {
			nums[i] = arith(nums[i], rhs.Num())
		}
		return session.NumericVector(nums), nil
	case old.Kind() == session.KindNumericVector && rhs.Kind() == session.KindNumericVector:
		nums, other := old.Nums(), rhs.Nums()
		if len(nums) != len(other) {
			return session.Value{}, fmt.Errorf(
				"When using « %s » on vectors, they should have the same number of elements (%d and %d).",
				op, len(nums), len(other))
		}
		for i := range nums {
			nums[i] = arith(nums[i], other[i])
		}
		return session.NumericVector(nums), nil
	}
	return session.Value{}, fmt.Errorf("The operator « %s » cannot be applied to a %s and a %s.", op, old.Kind(), rhs.Kind())
}

func mismatch(name string, want, got session.Kind) error {
	return fmt.Errorf("Found a %s expression instead of a %s expression for « %s ».", got, want, name)
}

func outOfRange(i, n int) error {
	return fmt.Errorf("Index out of range: %d (the vector has %d elements).", i, n)
}

func commandName(line string) string {
	name, _, _ := cutColon(line)
	return strings.TrimSpace(name)
}

// cutColon splits "Name: args" at the first colon outside a string literal.
func cutColon(line string) (string, string, bool) {
	inString := false
	for i, c := range line {
		switch {
		case c == '"':
			inString = !inString
		case c == ':' && !inString:
			return line[:i], line[i+1:], true
		}
	}
	return line, "", false
}

// splitArgs splits a command's argument list on top-level commas. Commas
// inside string literals, parentheses, brackets and braces do not count.
// Doubled quotes inside a literal toggle twice and so stay inside it.
func splitArgs(s string) ([]string, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	var (
		parts    []string
		depth    int
		inString bool
		start    int
	)
	for i, c := range s {
		switch {
		case c == '"':
			inString = !inString
		case inString:
		case c == '(' || c == '[' || c == '{':
			depth++
		case c == ')' || c == ']' || c == '}':
			depth--
		case c == ',' && depth == 0:
			parts = append(parts, strings.TrimSpace(s[start:i]))
			start = i + 1
		}
	}
	if inString {
		return nil, errors.New("Missing closing quote in argument list.")
	}
	parts = append(parts, strings.TrimSpace(s[start:]))
	for _, p := range parts {
		if p == "" {
			return nil, errors.New("Empty argument in argument list.")
		}
	}
	return parts, nil
}
