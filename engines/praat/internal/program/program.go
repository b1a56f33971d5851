// Package program turns a script body into a tree of statements.
//
// Only control structure is resolved here. Simple statements are kept as
// text and classified when they run, after 'variable' interpolation.
package program

import (
	"strings"

	"github.com/robbyt/go-praatscript/platform/praaterr"
)

// Stmt is one node of the statement tree.
type Stmt interface {
	// Pos is the 1-based script line of the statement's first line.
	Pos() int
}

// Simple is a statement without nested blocks: an assignment or a command.
type Simple struct {
	Line int
	Text string
}

// Branch is one conditional arm of an If.
type Branch struct {
	Line int
	Text string
	Cond string
	Body []Stmt
}

type If struct {
	Line     int
	Branches []Branch
	Else     []Stmt
}

// For loops Var from From to To inclusive, both evaluated once.
type For struct {
	Line int
	Text string
	Var  string
	From string
	To   string
	Body []Stmt
}

type While struct {
	Line int
	Text string
	Cond string
	Body []Stmt
}

type Repeat struct {
	Line      int
	Body      []Stmt
	UntilLine int
	UntilText string
	Until     string
}

func (s *Simple) Pos() int { return s.Line }
func (s *If) Pos() int     { return s.Line }
func (s *For) Pos() int    { return s.Line }
func (s *While) Pos() int  { return s.Line }
func (s *Repeat) Pos() int { return s.Line }

// Program is a parsed script body.
type Program struct {
	Body []Stmt

	// Statements counts the simple and control statements in the tree.
	Statements int
}

type line struct {
	no   int
	text string
}

// Parse builds the statement tree of body. Structural errors (an "endif"
// without "if", a loop that is never closed) are runtime faults at the
// offending line, as the interpreter reports them when it reaches them.
func Parse(body string) (*Program, error) {
	p := &parser{lines: joinContinuations(body)}
	stmts, end, err := p.block()
	if err != nil {
		return nil, err
	}
	if end != nil {
		return nil, unexpected(*end)
	}
	return &Program{Body: stmts, Statements: p.count}, nil
}

// joinContinuations drops blank and comment lines and folds lines starting
// with "..." into the line before them.
func joinContinuations(body string) []line {
	var out []line
	for i, raw := range strings.Split(strings.ReplaceAll(body, "\r\n", "\n"), "\n") {
		text := strings.TrimSpace(raw)
		if text == "" || isComment(text) {
			continue
		}
		if rest, ok := strings.CutPrefix(text, "..."); ok && len(out) > 0 {
			out[len(out)-1].text += rest
			continue
		}
		out = append(out, line{no: i + 1, text: text})
	}
	return out
}

func isComment(text string) bool {
	switch text[0] {
	case '#', '!', ';':
		return true
	}
	return false
}

type parser struct {
	lines []line
	pos   int
	count int
}

// block parses statements until a closing keyword, which it returns unconsumed
// so the caller can check it belongs to its own construct.
func (p *parser) block() ([]Stmt, *line, error) {
	var stmts []Stmt
	for p.pos < len(p.lines) {
		ln := p.lines[p.pos]
		keyword, rest := splitKeyword(ln.text)
		switch keyword {
		case "endif", "endfor", "endwhile", "until", "else", "elsif", "elif":
			return stmts, &ln, nil
		case "if":
			p.pos++
			s, err := p.parseIf(ln, rest)
			if err != nil {
				return nil, nil, err
			}
			stmts = append(stmts, s)
		case "for":
			p.pos++
			s, err := p.parseFor(ln, rest)
			if err != nil {
				return nil, nil, err
			}
			stmts = append(stmts, s)
		case "while":
			p.pos++
			s, err := p.parseWhile(ln, rest)
			if err != nil {
				return nil, nil, err
			}
			stmts = append(stmts, s)
		case "repeat":
			p.pos++
			s, err := p.parseRepeat(ln)
			if err != nil {
				return nil, nil, err
			}
			stmts = append(stmts, s)
		default:
			p.pos++
			stmts = append(stmts, &Simple{Line: ln.no, Text: ln.text})
		}
		p.count++
	}
	return stmts, nil, nil
}

func (p *parser) parseIf(open line, cond string) (*If, error) {
	if cond == "" {
		return nil, fault(open, `Missing condition after "if".`)
	}
	s := &If{Line: open.no}
	arm := Branch{Line: open.no, Text: open.text, Cond: cond}
	for {
		body, end, err := p.block()
		if err != nil {
			return nil, err
		}
		if end == nil {
			return nil, fault(open, `Missing "endif".`)
		}
		keyword, rest := splitKeyword(end.text)
		p.pos++
		switch keyword {
		case "elsif", "elif":
			if arm.Cond == "" {
				return nil, unexpected(*end)
			}
			arm.Body = body
			s.Branches = append(s.Branches, arm)
			arm = Branch{Line: end.no, Text: end.text, Cond: rest}
			if rest == "" {
				return nil, fault(*end, `Missing condition after "elsif".`)
			}
		case "else":
			if arm.Cond == "" {
				return nil, unexpected(*end)
			}
			arm.Body = body
			s.Branches = append(s.Branches, arm)
			arm = Branch{Line: end.no, Text: end.text}
		case "endif":
			if arm.Cond == "" {
				s.Else = body
			} else {
				arm.Body = body
				s.Branches = append(s.Branches, arm)
			}
			return s, nil
		default:
			return nil, unexpected(*end)
		}
	}
}

func (p *parser) parseFor(open line, header string) (*For, error) {
	name, rest := splitKeyword(header)
	if name == "" {
		return nil, fault(open, `Missing loop variable after "for".`)
	}
	s := &For{Line: open.no, Text: open.text, Var: name, From: "1"}
	kw, rest := splitKeyword(rest)
	switch kw {
	case "from":
		from, to, ok := cutKeyword(rest, "to")
		if !ok {
			return nil, fault(open, `Missing "to" in "for" loop.`)
		}
		s.From, rest = from, to
	case "to":
	default:
		return nil, fault(open, `Missing "from" or "to" in "for" loop.`)
	}
	s.To = strings.TrimSpace(rest)
	if s.To == "" || s.From == "" {
		return nil, fault(open, `Missing loop bound in "for" loop.`)
	}

	body, end, err := p.block()
	if err != nil {
		return nil, err
	}
	if end == nil {
		return nil, fault(open, `Missing "endfor".`)
	}
	if kw, _ := splitKeyword(end.text); kw != "endfor" {
		return nil, unexpected(*end)
	}
	p.pos++
	s.Body = body
	return s, nil
}

func (p *parser) parseWhile(open line, cond string) (*While, error) {
	if cond == "" {
		return nil, fault(open, `Missing condition after "while".`)
	}
	body, end, err := p.block()
	if err != nil {
		return nil, err
	}
	if end == nil {
		return nil, fault(open, `Missing "endwhile".`)
	}
	if kw, _ := splitKeyword(end.text); kw != "endwhile" {
		return nil, unexpected(*end)
	}
	p.pos++
	return &While{Line: open.no, Text: open.text, Cond: cond, Body: body}, nil
}

func (p *parser) parseRepeat(open line) (*Repeat, error) {
	body, end, err := p.block()
	if err != nil {
		return nil, err
	}
	if end == nil {
		return nil, fault(open, `Missing "until".`)
	}
	kw, cond := splitKeyword(end.text)
	if kw != "until" {
		return nil, unexpected(*end)
	}
	if cond == "" {
		return nil, fault(*end, `Missing condition after "until".`)
	}
	p.pos++
	return &Repeat{Line: open.no, Body: body, UntilLine: end.no, UntilText: end.text, Until: cond}, nil
}

// splitKeyword returns the first word of text and the trimmed remainder.
func splitKeyword(text string) (string, string) {
	i := strings.IndexAny(text, " \t")
	if i < 0 {
		return text, ""
	}
	return text[:i], strings.TrimSpace(text[i+1:])
}

// cutKeyword splits s around the first standalone occurrence of word outside
// string literals.
func cutKeyword(s, word string) (string, string, bool) {
	inString := false
	for i := 0; i < len(s); i++ {
		if s[i] == '"' {
			inString = !inString
			continue
		}
		if inString || !strings.HasPrefix(s[i:], word) {
			continue
		}
		before := i == 0 || s[i-1] == ' ' || s[i-1] == '\t'
		after := i+len(word) == len(s) || s[i+len(word)] == ' ' || s[i+len(word)] == '\t'
		if before && after {
			return strings.TrimSpace(s[:i]), strings.TrimSpace(s[i+len(word):]), true
		}
	}
	return "", "", false
}

func fault(ln line, diagnostic string) *praaterr.Error {
	return praaterr.AtLine(praaterr.KindRuntime, ln.no, ln.text, diagnostic)
}

func unexpected(ln line) *praaterr.Error {
	kw, _ := splitKeyword(ln.text)
	return fault(ln, `Unexpected "`+kw+`".`)
}
