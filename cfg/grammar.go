// Package cfg models context-free grammars and translates them to pushdown
// automata simulating leftmost derivations.
package cfg

import (
	"errors"
	"fmt"
	"strings"

	"github.com/liran-funaro/automata/automaton"
	"github.com/liran-funaro/automata/internal/ordered"
)

var (
	ErrNoStart         = errors.New("grammar has no start symbol")
	ErrTerminalHead    = errors.New("terminal on the left-hand side")
	ErrEmbeddedEpsilon = errors.New("ε inside a longer right-hand side")
)

// Symbol is a grammar symbol: an input tagged as terminal or non-terminal.
// Identity is the pointer, like automaton inputs.
type Symbol struct {
	Input *automaton.Input
	Term  bool
}

// Epsilon is the right-hand side of ε-productions.
var Epsilon = &Symbol{Input: automaton.Epsilon, Term: true}

// Term wraps in as a terminal. The PDA built from the grammar reads in.
func Term(in *automaton.Input) *Symbol {
	return &Symbol{Input: in, Term: true}
}

// NonTerm creates a fresh non-terminal named name.
func NonTerm(name string) *Symbol {
	return &Symbol{Input: automaton.NewInput(name)}
}

func (s *Symbol) String() string {
	return s.Input.Name
}

// Grammar maps every non-terminal to its productions. A production of exactly
// [Epsilon] is an ε-production.
type Grammar struct {
	Name  string
	Start *Symbol

	rules *ordered.Map[*Symbol, [][]*Symbol]
}

func NewGrammar(name string, start *Symbol) *Grammar {
	return &Grammar{
		Name:  name,
		Start: start,
		rules: ordered.NewMap[*Symbol, [][]*Symbol](),
	}
}

// AddRule adds the production lhs → rhs. An empty rhs is an ε-production.
func (g *Grammar) AddRule(lhs *Symbol, rhs ...*Symbol) {
	if len(rhs) == 0 {
		rhs = []*Symbol{Epsilon}
	}
	rules, _ := g.rules.Get(lhs)
	g.rules.Set(lhs, append(rules, rhs))
}

// Rules returns the productions of lhs in insertion order.
func (g *Grammar) Rules(lhs *Symbol) [][]*Symbol {
	rules, _ := g.rules.Get(lhs)
	return rules
}

// EachRule calls f for every production, grouped by left-hand side with the
// start symbol first.
func (g *Grammar) EachRule(f func(lhs *Symbol, rhs []*Symbol)) {
	for _, lhs := range g.NonTerms() {
		for _, rhs := range g.Rules(lhs) {
			f(lhs, rhs)
		}
	}
}

func isEpsilonRule(rhs []*Symbol) bool {
	return len(rhs) == 1 && rhs[0] == Epsilon
}

// Validate checks that the grammar has a non-terminal start symbol, that no
// terminal heads a production and that ε only appears alone.
func (g *Grammar) Validate() error {
	if g.Start == nil || g.Start.Term {
		return ErrNoStart
	}
	var err error
	g.rules.Each(func(lhs *Symbol, rules [][]*Symbol) {
		if err != nil {
			return
		}
		if lhs.Term {
			err = fmt.Errorf("%w: %s", ErrTerminalHead, lhs)
			return
		}
		for _, rhs := range rules {
			if isEpsilonRule(rhs) {
				continue
			}
			for _, s := range rhs {
				if s == Epsilon {
					err = fmt.Errorf("%w: %s -> %s", ErrEmbeddedEpsilon, lhs, formatRule(rhs))
					return
				}
			}
		}
	})
	return err
}

// NonTerms returns every non-terminal mentioned by the grammar, the start
// symbol first, then in order of appearance.
func (g *Grammar) NonTerms() []*Symbol {
	return g.symbols(false)
}

// Terms returns every terminal used by a production, in order of appearance.
// Epsilon is not a terminal.
func (g *Grammar) Terms() []*Symbol {
	return g.symbols(true)
}

func (g *Grammar) symbols(term bool) []*Symbol {
	set := ordered.NewSet[*Symbol]()
	if !term && g.Start != nil && !g.Start.Term {
		set.Add(g.Start)
	}
	g.rules.Each(func(lhs *Symbol, rules [][]*Symbol) {
		if lhs.Term == term {
			set.Add(lhs)
		}
		for _, rhs := range rules {
			for _, s := range rhs {
				if s.Term == term && s != Epsilon {
					set.Add(s)
				}
			}
		}
	})
	return set.Items()
}

func formatRule(rhs []*Symbol) string {
	names := make([]string, len(rhs))
	for i, s := range rhs {
		names[i] = s.String()
	}
	return strings.Join(names, " ")
}

// String prints one line per non-terminal: "S -> a T b | b".
func (g *Grammar) String() string {
	var sb strings.Builder
	for _, lhs := range g.NonTerms() {
		rules := g.Rules(lhs)
		if len(rules) == 0 {
			continue
		}
		alts := make([]string, len(rules))
		for i, rhs := range rules {
			alts[i] = formatRule(rhs)
		}
		_, _ = fmt.Fprintf(&sb, "%s -> %s\n", lhs, strings.Join(alts, " | "))
	}
	return sb.String()
}
