package cfg

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/liran-funaro/automata/automaton"
)

var (
	ErrEmptyGrammar     = errors.New("no rules")
	ErrMissingHead      = errors.New("expected a non-terminal")
	ErrMissingArrow     = errors.New("expected '->'")
	ErrUnexpectedArrow  = errors.New("unexpected '->'")
	ErrEmptyAlternative = errors.New("empty alternative, write ε")
)

// ParseGrammar reads rules of the form
//
//	S -> a T b | b
//	T -> T a | ε
//
// Rules end at a newline or ';', symbols are separated by blanks and '#'
// starts a comment. Every symbol heading a rule is a non-terminal, the others
// are terminals resolved through alphabet. "ε" and "eps" denote ε. The head of
// the first rule is the start symbol.
func ParseGrammar(in io.Reader, alphabet *automaton.Alphabet) (*Grammar, error) {
	p := parser{
		in:   bufio.NewReader(in),
		line: 1,
	}
	rules := p.parseRules()
	if p.err != nil {
		return nil, p.err
	}
	if len(rules) == 0 {
		return nil, ErrEmptyGrammar
	}

	symbols := make(map[string]*Symbol)
	for _, r := range rules {
		if _, ok := symbols[r.head.text]; !ok {
			symbols[r.head.text] = NonTerm(r.head.text)
		}
	}
	symbol := func(name string) *Symbol {
		if s, ok := symbols[name]; ok {
			return s
		}
		if name == "ε" || name == "eps" {
			return Epsilon
		}
		s := Term(alphabet.Symbol(name))
		symbols[name] = s
		return s
	}

	g := NewGrammar("", symbols[rules[0].head.text])
	for _, r := range rules {
		for _, alt := range r.alts {
			rhs := make([]*Symbol, len(alt))
			for i, t := range alt {
				rhs[i] = symbol(t.text)
				if rhs[i] == Epsilon && len(alt) > 1 {
					return nil, fmt.Errorf("%d:%d: %w", t.line, t.col, ErrEmbeddedEpsilon)
				}
			}
			g.AddRule(symbols[r.head.text], rhs...)
		}
	}
	if err := g.Validate(); err != nil {
		return nil, err
	}
	return g, nil
}

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokEnd
	tokSymbol
	tokArrow
	tokBar
)

type token struct {
	kind      tokenKind
	text      string
	line, col int
}

type rawRule struct {
	head token
	alts [][]token
}

type parser struct {
	in       *bufio.Reader
	line     int
	col      int
	r        rune
	rLine    int // Position of r.
	rCol     int
	err      error
	eof      bool
	isUnread bool
}

func (p *parser) reportError(line, col int, err error) {
	if err == nil {
		return
	}

	// We only report the first error.
	if p.err != nil {
		return
	}
	p.err = fmt.Errorf("%d:%d: %w", line, col, err)
}

// read returns true if successful.
func (p *parser) read() bool {
	if p.err != nil || p.eof {
		return false
	}

	if p.isUnread {
		p.isUnread = false
		return true
	}

	var err error
	p.r, _, err = p.in.ReadRune()
	if err != nil {
		if errors.Is(err, io.EOF) {
			p.eof = true
		} else {
			p.reportError(p.line, p.col, err)
		}
		return false
	}

	p.rLine, p.rCol = p.line, p.col+1
	if p.r == '\n' {
		p.line++
		p.col = 0
	} else {
		p.col++
	}
	return true
}

func (p *parser) unread() {
	p.isUnread = true
}

func isDelim(r rune) bool {
	return strings.ContainsRune(" \t\r\n;|#", r)
}

func (p *parser) next() token {
	for p.read() {
		line, col := p.rLine, p.rCol
		switch p.r {
		case ' ', '\t', '\r':
			continue
		case '#':
			for p.read() && p.r != '\n' {
			}
			return token{kind: tokEnd, line: line, col: col}
		case '\n', ';':
			return token{kind: tokEnd, line: line, col: col}
		case '|':
			return token{kind: tokBar, text: "|", line: line, col: col}
		}

		buf := []rune{p.r}
		if p.r == '-' {
			if p.read() && p.r == '>' {
				return token{kind: tokArrow, text: "->", line: line, col: col}
			}
			if p.eof {
				return token{kind: tokSymbol, text: string(buf), line: line, col: col}
			}
			p.unread()
		}
		for p.read() {
			if isDelim(p.r) {
				p.unread()
				break
			}
			buf = append(buf, p.r)
		}
		return token{kind: tokSymbol, text: string(buf), line: line, col: col}
	}
	return token{kind: tokEOF, line: p.line, col: p.col}
}

func (p *parser) parseRules() []rawRule {
	var rules []rawRule
	for {
		head := p.next()
		switch head.kind {
		case tokEOF:
			return rules
		case tokEnd:
			continue
		case tokSymbol:
		default:
			p.reportError(head.line, head.col, ErrMissingHead)
			return nil
		}

		if arrow := p.next(); arrow.kind != tokArrow {
			p.reportError(arrow.line, arrow.col, ErrMissingArrow)
			return nil
		}

		rule := rawRule{head: head, alts: [][]token{nil}}
		last := head
	body:
		for {
			t := p.next()
			switch t.kind {
			case tokSymbol:
				cur := len(rule.alts) - 1
				rule.alts[cur] = append(rule.alts[cur], t)
			case tokBar:
				if len(rule.alts[len(rule.alts)-1]) == 0 {
					p.reportError(t.line, t.col, ErrEmptyAlternative)
					return nil
				}
				rule.alts = append(rule.alts, nil)
			case tokArrow:
				p.reportError(t.line, t.col, ErrUnexpectedArrow)
				return nil
			default:
				last = t
				break body
			}
		}
		if len(rule.alts[len(rule.alts)-1]) == 0 {
			p.reportError(last.line, last.col, ErrEmptyAlternative)
			return nil
		}
		rules = append(rules, rule)
	}
}
