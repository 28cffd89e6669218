package cfg

import (
	"fmt"
	"slices"

	"github.com/liran-funaro/automata/automaton"
)

// CFGToPDA builds a pushdown automaton accepting the language of g by
// simulating leftmost derivations on its stack.
//
// START pushes "$" and the start symbol and moves to LOOP. In LOOP the
// automaton either replaces a non-terminal on top of the stack by one of its
// productions (first symbol on top), reads a terminal matching the top of the
// stack, or pops "$" into ACCEPT. A move pushes at most one symbol, so longer
// pushes go through TEMP states.
func CFGToPDA(g *Grammar) (*automaton.PDA, error) {
	if err := g.Validate(); err != nil {
		return nil, err
	}
	b := pdaBuilder{
		start:  automaton.NewState("START"),
		loop:   automaton.NewState("LOOP"),
		accept: automaton.NewState("ACCEPT"),
	}
	b.pda = automaton.NewPDA(g.Name, b.start, b.accept)

	b.chain(b.start, automaton.Epsilon, b.loop, g.Start.Input, automaton.Bottom)
	g.EachRule(func(lhs *Symbol, rhs []*Symbol) {
		if isEpsilonRule(rhs) {
			b.chain(b.loop, lhs.Input, b.loop)
			return
		}
		push := make([]*automaton.Input, len(rhs))
		for i, s := range rhs {
			push[i] = s.Input
		}
		b.chain(b.loop, lhs.Input, b.loop, push...)
	})
	for _, t := range g.Terms() {
		b.pda.AddTransition(b.loop, t.Input, automaton.Move{To: b.loop, Pop: t.Input})
		b.pda.ReadToPop(t.Input)
	}
	b.pda.AddTransition(b.loop, automaton.Epsilon, automaton.Move{To: b.accept, Pop: automaton.Bottom})
	return b.pda, nil
}

type pdaBuilder struct {
	pda                 *automaton.PDA
	start, loop, accept *automaton.State
	temps               int
}

func (b *pdaBuilder) temp() *automaton.State {
	s := automaton.NewState(fmt.Sprintf("TEMP%d", b.temps))
	b.temps++
	return s
}

// chain adds ε-moves from from to to that pop pop and push push, push[0]
// ending on top.
func (b *pdaBuilder) chain(from *automaton.State, pop *automaton.Input, to *automaton.State, push ...*automaton.Input) {
	if len(push) == 0 {
		b.pda.AddTransition(from, automaton.Epsilon, automaton.Move{To: to, Pop: pop})
		return
	}
	push = slices.Clone(push)
	slices.Reverse(push)
	cur := from
	for i, in := range push {
		next := to
		if i < len(push)-1 {
			next = b.temp()
		}
		b.pda.AddTransition(cur, automaton.Epsilon, automaton.Move{To: next, Pop: pop, Push: in})
		pop = automaton.Epsilon
		cur = next
	}
}
