package unify

import (
	"fmt"
	"strconv"
	"strings"
	"text/scanner"

	"github.com/pkg/errors"
)

var ErrSyntax = errors.New("syntax error")

// ParseExpr parses an expression such as (a, (b, 42), "c"). Identifiers are
// variables; integers, floats, quoted strings, true and false are constants;
// parentheses build terms.
func ParseExpr(text string) (Expr, error) {
	p := exprParser{}
	p.s.Init(strings.NewReader(text))
	p.s.Mode = scanner.ScanIdents | scanner.ScanInts | scanner.ScanFloats | scanner.ScanStrings
	p.s.Error = func(s *scanner.Scanner, msg string) {
		p.fail(s.Position, msg)
	}
	p.next()
	e := p.expr()
	if p.err == nil && p.tok != scanner.EOF {
		p.fail(p.s.Position, fmt.Sprintf("unexpected %s", p.s.TokenText()))
	}
	if p.err != nil {
		return nil, p.err
	}
	return e, nil
}

// MustParseExpr is like ParseExpr but panics on error.
func MustParseExpr(text string) Expr {
	e, err := ParseExpr(text)
	if err != nil {
		panic(err)
	}
	return e
}

type exprParser struct {
	s   scanner.Scanner
	tok rune
	err error
}

func (p *exprParser) fail(pos scanner.Position, msg string) {
	if p.err == nil {
		p.err = errors.Wrapf(ErrSyntax, "%d:%d: %s", pos.Line, pos.Column, msg)
	}
}

func (p *exprParser) next() {
	p.tok = p.s.Scan()
}

func (p *exprParser) expr() Expr {
	if p.err != nil {
		return nil
	}
	text := p.s.TokenText()
	switch p.tok {
	case scanner.Ident:
		p.next()
		switch text {
		case "true":
			return Const{Value: true}
		case "false":
			return Const{Value: false}
		}
		return Var{Name: text}
	case scanner.Int:
		p.next()
		v, err := strconv.Atoi(text)
		if err != nil {
			p.fail(p.s.Position, err.Error())
		}
		return Const{Value: v}
	case scanner.Float:
		p.next()
		v, err := strconv.ParseFloat(text, 64)
		if err != nil {
			p.fail(p.s.Position, err.Error())
		}
		return Const{Value: v}
	case scanner.String:
		p.next()
		v, err := strconv.Unquote(text)
		if err != nil {
			p.fail(p.s.Position, err.Error())
		}
		return Const{Value: v}
	case '(':
		p.next()
		var atoms []Expr
		for p.err == nil && p.tok != ')' {
			atoms = append(atoms, p.expr())
			if p.tok == ',' {
				p.next()
				if p.tok == ')' {
					p.fail(p.s.Position, "expected expression after ','")
				}
			} else if p.tok != ')' {
				p.fail(p.s.Position, fmt.Sprintf("expected ',' or ')', got %s", scanner.TokenString(p.tok)))
			}
		}
		p.next()
		return Term{Atoms: atoms}
	}
	p.fail(p.s.Position, fmt.Sprintf("unexpected %s", scanner.TokenString(p.tok)))
	return nil
}
