package form

import (
	"errors"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/robbyt/go-praatscript/platform/praaterr"
)

const (
	startKeyword = "form"
	endKeyword   = "endform"
)

// Parse looks for a leading form block in script. Blank and comment lines may
// precede it. Without a block, the returned Form has no parameters and Body is
// script unchanged.
func Parse(script string) (*Form, error) {
	lines := splitLines(script)

	start := -1
	for i, raw := range lines {
		line := strings.TrimSpace(raw)
		if line == "" || isComment(line) {
			continue
		}
		if keyword, _ := cutWord(line); strings.TrimSuffix(keyword, ":") == startKeyword {
			start = i
		}
		break
	}
	if start < 0 {
		return &Form{Body: script}, nil
	}

	keyword, title := cutWord(strings.TrimSpace(lines[start]))
	if strings.HasSuffix(keyword, ":") {
		title = unquote(title)
	}
	f := &Form{Title: title, HasBlock: true}

	end := -1
	for i := start + 1; i < len(lines); i++ {
		line := strings.TrimSpace(lines[i])
		if line == "" || isComment(line) {
			continue
		}
		keyword, rest := cutWord(line)
		if keyword == endKeyword {
			end = i
			break
		}
		if err := f.parseField(i+1, line, keyword, rest); err != nil {
			return nil, err
		}
	}
	if end < 0 {
		return nil, praaterr.Parsef(start+1, strings.TrimSpace(lines[start]), "Missing %q: the form block is never closed.", endKeyword)
	}
	if err := f.finish(); err != nil {
		return nil, err
	}

	for i := start; i <= end; i++ {
		lines[i] = ""
	}
	f.Body = strings.Join(lines, "\n")
	return f, nil
}

// parseField reads one declaration. Both the classic layout
// ("real Time_step 0.01") and the colon layout ("real: "Time step", 0.01")
// are accepted.
func (f *Form) parseField(lineNo int, line, keyword, rest string) error {
	colon := strings.HasSuffix(keyword, ":")
	keyword = strings.TrimSuffix(keyword, ":")

	switch strings.ToLower(keyword) {
	case "button", "option":
		n := len(f.Parameters)
		if n == 0 || (f.Parameters[n-1].Type != Choice && f.Parameters[n-1].Type != OptionMenu) {
			return praaterr.Parsef(lineNo, line, "Found %q outside a choice or optionmenu field.", keyword)
		}
		f.Parameters[n-1].Options = append(f.Parameters[n-1].Options, unquote(rest))
		return nil
	}

	typ, ok := ParseType(keyword)
	if !ok {
		return praaterr.Parsef(lineNo, line, "Unknown field type %q.", keyword)
	}

	if typ == Comment {
		f.Parameters = append(f.Parameters, Parameter{
			Label:   unquote(rest),
			Type:    Comment,
			Default: unquote(rest),
			Line:    lineNo,
		})
		return nil
	}

	label, literal, name := "", "", ""
	if colon {
		args, err := splitColonArgs(rest)
		if err != nil {
			return praaterr.Parsef(lineNo, line, "%s", err.Error())
		}
		if len(args) > 2 {
			return praaterr.Parsef(lineNo, line, "Field %q takes a name and a default value, found %d values.", keyword, len(args))
		}
		if len(args) > 0 {
			label = args[0]
		}
		if len(args) > 1 {
			literal = args[1]
		}
		name = variableName(strings.Join(strings.Fields(label), "_"))
	} else {
		label, literal = cutWord(rest)
		literal = unquote(literal)
		name = variableName(label)
	}
	if label == "" {
		return praaterr.Parsef(lineNo, line, "Missing field name after %q.", keyword)
	}
	p := Parameter{
		Name:    name,
		Label:   label,
		Type:    typ,
		Default: literal,
		Line:    lineNo,
	}
	for _, other := range f.Parameters {
		if other.Type != Comment && other.VariableName() == p.VariableName() {
			return praaterr.Parsef(lineNo, line, "Duplicate field name %q (first declared on line %d).", p.Name, other.Line)
		}
	}
	if typ != Choice && typ != OptionMenu {
		if _, _, err := coerceLiteral(p, p.Default); err != nil {
			return praaterr.Parsef(lineNo, line, "Invalid default value for field %q: %s", p.Name, err.Diagnostic)
		}
	}
	f.Parameters = append(f.Parameters, p)
	return nil
}

// finish validates fields that can only be checked once the block is closed.
func (f *Form) finish() error {
	for _, p := range f.Parameters {
		if p.Type != Choice && p.Type != OptionMenu {
			continue
		}
		line := p.Type.String() + " " + p.Label
		if len(p.Options) == 0 {
			return praaterr.Parsef(p.Line, line, "Field %q has no buttons or options.", p.Name)
		}
		if _, _, err := coerceLiteral(p, p.Default); err != nil {
			return praaterr.Parsef(p.Line, line, "Invalid default value for field %q: %s", p.Name, err.Diagnostic)
		}
	}
	return nil
}

// variableName derives the script variable from a field label: a trailing
// unit annotation such as "_(Hz)" is dropped and the first letter lowered.
func variableName(label string) string {
	if i := strings.Index(label, "("); i > 0 {
		label = strings.TrimRight(label[:i], "_")
	}
	r, size := utf8.DecodeRuneInString(label)
	if r == utf8.RuneError {
		return label
	}
	return string(unicode.ToLower(r)) + label[size:]
}

// unquote strips one pair of surrounding double quotes; inside them a doubled
// quote stands for a single one.
func unquote(s string) string {
	s = strings.TrimSpace(s)
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		return strings.ReplaceAll(s[1:len(s)-1], `""`, `"`)
	}
	return s
}

// splitColonArgs splits the arguments of a colon-style declaration on the
// commas outside double quotes and unquotes each of them.
func splitColonArgs(s string) ([]string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	var (
		args    []string
		current strings.Builder
		quoted  bool
	)
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '"' && quoted && i+1 < len(s) && s[i+1] == '"':
			current.WriteString(`""`)
			i++
		case c == '"':
			quoted = !quoted
			current.WriteByte(c)
		case c == ',' && !quoted:
			args = append(args, unquote(current.String()))
			current.Reset()
		default:
			current.WriteByte(c)
		}
	}
	if quoted {
		return nil, errors.New("Missing closing quote.")
	}
	return append(args, unquote(current.String())), nil
}

func cutWord(s string) (string, string) {
	s = strings.TrimSpace(s)
	i := strings.IndexFunc(s, unicode.IsSpace)
	if i < 0 {
		return s, ""
	}
	return s[:i], strings.TrimSpace(s[i:])
}

func isComment(line string) bool {
	return strings.HasPrefix(line, "#") || strings.HasPrefix(line, "!") || strings.HasPrefix(line, ";")
}

func splitLines(s string) []string {
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSuffix(l, "\r")
	}
	return lines
}

// parseBoolLiteral accepts yes/no, true/false and 1/0, case-insensitively.
func parseBoolLiteral(s string) (bool, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "yes", "true", "on", "1":
		return true, true
	case "no", "false", "off", "0":
		return false, true
	}
	return false, false
}

func parseNumberLiteral(s string) (float64, bool) {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	return f, err == nil
}
