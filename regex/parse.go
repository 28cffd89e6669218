package regex

import (
	"errors"
	"fmt"
	"regexp/syntax"

	"github.com/liran-funaro/automata/automaton"
)

var (
	ErrUnsupported    = errors.New("unsupported regex operator")
	ErrClassTooLarge  = errors.New("character class too large")
	maxClassExpansion = 128
)

// Parse parses pattern with regexp/syntax and converts it to an Expr whose
// literals are single-rune symbols of alphabet.
//
// Supported: literals, concatenation, alternation, character classes (expanded
// rune by rune), groups, the empty match, *, +, ? and counted repetition.
// Assertions and the wildcard have no meaning over a finite alphabet and are
// rejected with ErrUnsupported.
func Parse(pattern string, alphabet *automaton.Alphabet) (Expr, error) {
	r, err := syntax.Parse(pattern, syntax.Perl)
	if err != nil {
		return nil, err
	}
	b := exprBuilder{alphabet: alphabet}
	return b.build(r.Simplify())
}

// MustParse is like Parse but panics on error.
func MustParse(pattern string, alphabet *automaton.Alphabet) Expr {
	e, err := Parse(pattern, alphabet)
	if err != nil {
		panic(fmt.Sprintf("regex: Parse(%q): %v", pattern, err))
	}
	return e
}

type exprBuilder struct {
	alphabet *automaton.Alphabet
}

func (b *exprBuilder) runeLiteral(r rune) Expr {
	in := b.alphabet.Symbol(string(r))
	if in == automaton.Epsilon {
		return Epsilon{}
	}
	return Literal{Input: in}
}

func (b *exprBuilder) build(r *syntax.Regexp) (Expr, error) {
	switch r.Op {
	case syntax.OpNoMatch: // matches no strings
		return Empty{}, nil
	case syntax.OpEmptyMatch: // matches empty string
		return Epsilon{}, nil
	case syntax.OpLiteral: // matches Runes sequence
		var res Expr = Epsilon{}
		for _, curRune := range r.Rune {
			lit := b.runeLiteral(curRune)
			if r.Flags&syntax.FoldCase != 0 && curRune >= 'A' && curRune <= 'Z' {
				lit = NewUnion(lit, b.runeLiteral(curRune+'a'-'A'))
			}
			res = NewConcat(res, lit)
		}
		return res, nil
	case syntax.OpCharClass: // matches Runes interpreted as range pair list
		size := 0
		for i := 0; i < len(r.Rune); i += 2 {
			size += int(r.Rune[i+1]-r.Rune[i]) + 1
		}
		if size > maxClassExpansion {
			return nil, fmt.Errorf("%w: %s has %d runes", ErrClassTooLarge, r, size)
		}
		var res Expr = Empty{}
		for i := 0; i < len(r.Rune); i += 2 {
			for c := r.Rune[i]; c <= r.Rune[i+1]; c++ {
				res = NewUnion(res, b.runeLiteral(c))
			}
		}
		return res, nil
	case syntax.OpCapture: // capturing subexpression with index Cap, optional name Name
		return b.build(r.Sub[0])
	case syntax.OpStar: // matches Sub[0] zero or more times
		sub, err := b.build(r.Sub[0])
		if err != nil {
			return nil, err
		}
		return NewStar(sub), nil
	case syntax.OpPlus: // matches Sub[0] one or more times
		sub, err := b.build(r.Sub[0])
		if err != nil {
			return nil, err
		}
		return NewConcat(sub, NewStar(sub)), nil
	case syntax.OpQuest: // matches Sub[0] zero or one times
		sub, err := b.build(r.Sub[0])
		if err != nil {
			return nil, err
		}
		return NewUnion(sub, Epsilon{}), nil
	case syntax.OpConcat: // matches concatenation of Subs
		var res Expr = Epsilon{}
		for _, s := range r.Sub {
			sub, err := b.build(s)
			if err != nil {
				return nil, err
			}
			res = NewConcat(res, sub)
		}
		return res, nil
	case syntax.OpAlternate: // matches alternation of Subs
		var res Expr = Empty{}
		for _, s := range r.Sub {
			sub, err := b.build(s)
			if err != nil {
				return nil, err
			}
			res = NewUnion(res, sub)
		}
		return res, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnsupported, r.Op)
}
