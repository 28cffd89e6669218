// Package regex implements regular expressions over automaton inputs: the
// expression tree, its Thompson lowering to an NFA, an independent
// backtracking matcher, a regexp/syntax front-end and the state elimination
// that turns a DFA back into an expression.
package regex

import (
	"fmt"

	"github.com/liran-funaro/automata/automaton"
)

// Expr is a regular expression. The variants are Literal, Epsilon, Empty,
// Union, Concat and Star; no other type implements Expr.
//
// Expressions are comparable values: == is structural equality.
type Expr interface {
	fmt.Stringer
	isExpr()
}

// Literal matches exactly one input.
type Literal struct {
	Input *automaton.Input
}

// Epsilon matches the empty word.
type Epsilon struct{}

// Empty matches nothing.
type Empty struct{}

// Union matches what Left or Right matches.
type Union struct {
	Left, Right Expr
}

// Concat matches a word of Left followed by a word of Right.
type Concat struct {
	Left, Right Expr
}

// Star matches zero or more words of Inner.
type Star struct {
	Inner Expr
}

func (Literal) isExpr() {}
func (Epsilon) isExpr() {}
func (Empty) isExpr()   {}
func (Union) isExpr()   {}
func (Concat) isExpr()  {}
func (Star) isExpr()    {}

func unknown(e Expr) string {
	return fmt.Sprintf("regex: unknown expression %T", e)
}

// NewUnion returns left|right, dropping ∅ operands and duplicates.
func NewUnion(left, right Expr) Expr {
	switch {
	case left == Empty{}:
		return right
	case right == Empty{}:
		return left
	case left == right:
		return left
	}
	return Union{Left: left, Right: right}
}

// NewConcat returns left·right. ∅ absorbs and ε is the identity.
func NewConcat(left, right Expr) Expr {
	switch {
	case left == Empty{} || right == Empty{}:
		return Empty{}
	case left == Epsilon{}:
		return right
	case right == Epsilon{}:
		return left
	}
	return Concat{Left: left, Right: right}
}

// NewStar returns inner*, with ε* = ∅* = ε and (x*)* = x*.
func NewStar(inner Expr) Expr {
	switch inner.(type) {
	case Empty, Epsilon:
		return Epsilon{}
	case Star:
		return inner
	}
	return Star{Inner: inner}
}

// Lit builds the concatenation of one Literal per input, or Epsilon.
func Lit(inputs ...*automaton.Input) Expr {
	var res Expr = Epsilon{}
	for _, in := range inputs {
		res = NewConcat(res, Literal{Input: in})
	}
	return res
}

// Operator precedence, loosest first.
const (
	precUnion = iota
	precConcat
	precStar
)

func (e Literal) String() string { return e.Input.Name }
func (Epsilon) String() string   { return "ε" }
func (Empty) String() string     { return "∅" }
func (e Union) String() string   { return format(e, precUnion) }
func (e Concat) String() string  { return format(e, precUnion) }
func (e Star) String() string    { return format(e, precUnion) }

func format(e Expr, prec int) string {
	var s string
	var own int
	switch e := e.(type) {
	case Literal, Epsilon, Empty:
		return e.String()
	case Union:
		own = precUnion
		s = format(e.Left, precUnion) + "|" + format(e.Right, precUnion)
	case Concat:
		own = precConcat
		s = format(e.Left, precConcat) + format(e.Right, precConcat)
	case Star:
		own = precStar
		s = format(e.Inner, precStar+1) + "*"
	default:
		panic(unknown(e))
	}
	if own < prec {
		return "(" + s + ")"
	}
	return s
}

// Inputs returns the distinct inputs used by e, in order of first appearance.
func Inputs(e Expr) []*automaton.Input {
	var res []*automaton.Input
	seen := make(map[*automaton.Input]bool)
	var walk func(Expr)
	walk = func(e Expr) {
		switch e := e.(type) {
		case Literal:
			if !seen[e.Input] {
				seen[e.Input] = true
				res = append(res, e.Input)
			}
		case Epsilon, Empty:
		case Union:
			walk(e.Left)
			walk(e.Right)
		case Concat:
			walk(e.Left)
			walk(e.Right)
		case Star:
			walk(e.Inner)
		default:
			panic(unknown(e))
		}
	}
	walk(e)
	return res
}

// ToNFA lowers e to an NFA with the Thompson construction. Every call builds
// fresh states.
func ToNFA(e Expr) *automaton.NFA {
	switch e := e.(type) {
	case Literal:
		return edgeNFA(e, e.Input)
	case Epsilon:
		return edgeNFA(e, automaton.Epsilon)
	case Empty:
		return edgeNFA(e, nil)
	case Union:
		return automaton.Union(ToNFA(e.Left), ToNFA(e.Right))
	case Concat:
		return automaton.Concat(ToNFA(e.Left), ToNFA(e.Right))
	case Star:
		return automaton.Star(ToNFA(e.Inner))
	default:
		panic(unknown(e))
	}
}

// edgeNFA builds start -in-> final. A nil in leaves the states unconnected.
func edgeNFA(e Expr, in *automaton.Input) *automaton.NFA {
	start, final := automaton.NewState(""), automaton.NewState("")
	n := automaton.NewNFA(e.String(), start, final)
	if in != nil {
		n.AddTransition(start, in, final)
	}
	return n
}

// Size counts the nodes of e.
func Size(e Expr) int {
	switch e := e.(type) {
	case Literal, Epsilon, Empty:
		return 1
	case Union:
		return 1 + Size(e.Left) + Size(e.Right)
	case Concat:
		return 1 + Size(e.Left) + Size(e.Right)
	case Star:
		return 1 + Size(e.Inner)
	default:
		panic(unknown(e))
	}
}

// Join is NewUnion folded over exprs, ∅ when empty.
func Join(exprs ...Expr) Expr {
	var res Expr = Empty{}
	for _, e := range exprs {
		res = NewUnion(res, e)
	}
	return res
}
