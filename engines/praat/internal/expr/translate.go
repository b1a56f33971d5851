// Package expr evaluates Praat expressions by translating them into Starlark
// expressions and running them on a go.starlark.net thread.
//
// Praat identifiers may carry type suffixes ($, #, $#) and dots, none of which
// Starlark allows, so every identifier is mangled: variables become v_<name>
// and functions f_<name>, with '_' escaped as "_u", '.' as "_d" and the
// suffixes as "_s", "_v", "_a".
package expr

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

var ErrSyntax = errors.New("expression syntax error")

// Translation is a Praat expression rewritten as Starlark source.
type Translation struct {
	Source string

	// Code is the Starlark expression.
	Code string

	// Vars are the Praat variable names referenced, suffix included.
	Vars []string

	// Funcs are the Praat function names called, suffix included.
	Funcs []string
}

type tokKind int

const (
	tNum tokKind = iota
	tStr
	tIdent
	tOp
)

type token struct {
	kind tokKind
	text string
}

// VarName returns the mangled Starlark name of a Praat variable.
func VarName(praatName string) string {
	return "v_" + mangle(praatName)
}

// FuncName returns the mangled Starlark name of a Praat function.
func FuncName(praatName string) string {
	return "f_" + mangle(praatName)
}

const itemFunc = "f__item"

func mangle(name string) string {
	base, suffix := splitSuffix(name)
	var b strings.Builder
	for _, r := range base {
		switch r {
		case '_':
			b.WriteString("_u")
		case '.':
			b.WriteString("_d")
		default:
			b.WriteRune(r)
		}
	}
	switch suffix {
	case "$":
		b.WriteString("_s")
	case "#":
		b.WriteString("_v")
	case "$#":
		b.WriteString("_a")
	case "##":
		b.WriteString("_m")
	}
	return b.String()
}

func splitSuffix(name string) (string, string) {
	for _, s := range []string{"$#", "##", "$", "#"} {
		if strings.HasSuffix(name, s) {
			return strings.TrimSuffix(name, s), s
		}
	}
	return name, ""
}

// Translate rewrites a Praat expression as Starlark source.
func Translate(src string) (*Translation, error) {
	toks, err := tokenize(src)
	if err != nil {
		return nil, err
	}
	if len(toks) == 0 {
		return nil, fmt.Errorf("%w: empty expression", ErrSyntax)
	}
	tr := &Translation{Source: src}
	code, err := tr.emit(toks)
	if err != nil {
		return nil, err
	}
	tr.Code = code
	return tr, nil
}

func (tr *Translation) addVar(name string) {
	for _, v := range tr.Vars {
		if v == name {
			return
		}
	}
	tr.Vars = append(tr.Vars, name)
}

func (tr *Translation) addFunc(name string) {
	for _, f := range tr.Funcs {
		if f == name {
			return
		}
	}
	tr.Funcs = append(tr.Funcs, name)
}

func (tr *Translation) emit(toks []token) (string, error) {
	var out []string
	for i := 0; i < len(toks); i++ {
		t := toks[i]
		switch t.kind {
		case tNum:
			out = append(out, normalizeNumber(t.text))
		case tStr:
			out = append(out, strconv.Quote(t.text))
		case tOp:
			switch t.text {
			case "=":
				out = append(out, "==")
			case "<>":
				out = append(out, "!=")
			case "{":
				out = append(out, "[")
			case "}":
				out = append(out, "]")
			case "^":
				return "", fmt.Errorf("%w: the power operator « ^ » is not supported", ErrSyntax)
			default:
				out = append(out, t.text)
			}
		case tIdent:
			switch t.text {
			case "and", "or", "not":
				out = append(out, t.text)
				continue
			case "mod":
				out = append(out, "%")
				continue
			case "div":
				out = append(out, "//")
				continue
			case "if":
				code, next, err := tr.emitConditional(toks, i)
				if err != nil {
					return "", err
				}
				out = append(out, code)
				i = next
				continue
			case "then", "else", "fi", "endif":
				return "", fmt.Errorf("%w: unexpected « %s »", ErrSyntax, t.text)
			}
			if i+1 < len(toks) && toks[i+1].kind == tOp && toks[i+1].text == "(" {
				tr.addFunc(t.text)
				out = append(out, FuncName(t.text))
				continue
			}
			tr.addVar(t.text)
			if i+1 < len(toks) && toks[i+1].kind == tOp && toks[i+1].text == "[" {
				end, err := matching(toks, i+1, "[", "]")
				if err != nil {
					return "", err
				}
				inner, err := tr.emit(toks[i+2 : end])
				if err != nil {
					return "", err
				}
				out = append(out, fmt.Sprintf("%s(%s, %s)", itemFunc, VarName(t.text), inner))
				i = end
				continue
			}
			out = append(out, VarName(t.text))
		}
	}
	return strings.Join(out, " "), nil
}

// emitConditional handles "if c then a else b fi" starting at toks[start],
// returning the Starlark conditional and the index of the closing fi.
func (tr *Translation) emitConditional(toks []token, start int) (string, int, error) {
	depth := 0
	thenAt, elseAt, fiAt := -1, -1, -1
	for j := start; j < len(toks) && fiAt < 0; j++ {
		if toks[j].kind != tIdent {
			continue
		}
		switch toks[j].text {
		case "if":
			depth++
		case "then":
			if depth == 1 && thenAt < 0 {
				thenAt = j
			}
		case "else":
			if depth == 1 && elseAt < 0 {
				elseAt = j
			}
		case "fi", "endif":
			depth--
			if depth == 0 {
				fiAt = j
			}
		}
	}
	if thenAt < 0 || elseAt < 0 || fiAt < 0 || !(start < thenAt && thenAt < elseAt && elseAt < fiAt) {
		return "", 0, fmt.Errorf("%w: « if » needs « then », « else » and « fi »", ErrSyntax)
	}
	cond, err := tr.emitPart(toks[start+1 : thenAt])
	if err != nil {
		return "", 0, err
	}
	yes, err := tr.emitPart(toks[thenAt+1 : elseAt])
	if err != nil {
		return "", 0, err
	}
	no, err := tr.emitPart(toks[elseAt+1 : fiAt])
	if err != nil {
		return "", 0, err
	}
	return fmt.Sprintf("((%s) if (%s) else (%s))", yes, cond, no), fiAt, nil
}

func (tr *Translation) emitPart(toks []token) (string, error) {
	if len(toks) == 0 {
		return "", fmt.Errorf("%w: empty operand in conditional", ErrSyntax)
	}
	return tr.emit(toks)
}

func matching(toks []token, open int, left, right string) (int, error) {
	depth := 0
	for j := open; j < len(toks); j++ {
		if toks[j].kind != tOp {
			continue
		}
		switch toks[j].text {
		case left:
			depth++
		case right:
			depth--
			if depth == 0 {
				return j, nil
			}
		}
	}
	return 0, fmt.Errorf("%w: missing « %s »", ErrSyntax, right)
}

func normalizeNumber(s string) string {
	if strings.HasPrefix(s, ".") {
		s = "0" + s
	}
	if strings.HasSuffix(s, ".") {
		s += "0"
	}
	return s
}

var twoCharOps = []string{"<>", "<=", ">=", "==", "!="}

func tokenize(src string) ([]token, error) {
	var toks []token
	rs := []rune(src)
	for i := 0; i < len(rs); {
		r := rs[i]
		switch {
		case unicode.IsSpace(r):
			i++
		case unicode.IsDigit(r) || (r == '.' && i+1 < len(rs) && unicode.IsDigit(rs[i+1])):
			j := i
			for j < len(rs) && (unicode.IsDigit(rs[j]) || rs[j] == '.') {
				j++
			}
			if j < len(rs) && (rs[j] == 'e' || rs[j] == 'E') {
				k := j + 1
				if k < len(rs) && (rs[k] == '+' || rs[k] == '-') {
					k++
				}
				if k < len(rs) && unicode.IsDigit(rs[k]) {
					for k < len(rs) && unicode.IsDigit(rs[k]) {
						k++
					}
					j = k
				}
			}
			toks = append(toks, token{tNum, string(rs[i:j])})
			i = j
		case r == '"':
			var b strings.Builder
			j := i + 1
			closed := false
			for j < len(rs) {
				if rs[j] == '"' {
					if j+1 < len(rs) && rs[j+1] == '"' {
						b.WriteRune('"')
						j += 2
						continue
					}
					closed = true
					j++
					break
				}
				b.WriteRune(rs[j])
				j++
			}
			if !closed {
				return nil, fmt.Errorf("%w: missing closing quote in %s", ErrSyntax, string(rs[i:]))
			}
			toks = append(toks, token{tStr, b.String()})
			i = j
		case unicode.IsLetter(r):
			j := i
			for j < len(rs) && (unicode.IsLetter(rs[j]) || unicode.IsDigit(rs[j]) || rs[j] == '_' || rs[j] == '.') {
				j++
			}
			switch {
			case j+1 < len(rs) && rs[j] == '$' && rs[j+1] == '#':
				j += 2
			case j+1 < len(rs) && rs[j] == '#' && rs[j+1] == '#':
				j += 2
			case j < len(rs) && (rs[j] == '$' || rs[j] == '#'):
				j++
			}
			toks = append(toks, token{tIdent, string(rs[i:j])})
			i = j
		default:
			if i+1 < len(rs) {
				pair := string(rs[i : i+2])
				matched := false
				for _, op := range twoCharOps {
					if pair == op {
						toks = append(toks, token{tOp, op})
						i += 2
						matched = true
						break
					}
				}
				if matched {
					continue
				}
			}
			if strings.ContainsRune("+-*/<>=^(),[]{}", r) {
				toks = append(toks, token{tOp, string(r)})
				i++
				continue
			}
			return nil, fmt.Errorf("%w: unexpected character « %c »", ErrSyntax, r)
		}
	}
	return toks, nil
}
