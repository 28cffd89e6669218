package regex

import (
	"github.com/liran-funaro/automata/automaton"
	"github.com/liran-funaro/automata/internal/ordered"
)

// GNFA is a generalized NFA: its edges are labeled with expressions. It has a
// unique start state without incoming edges and a unique accept state without
// outgoing edges.
type GNFA struct {
	Start  *automaton.State
	Accept *automaton.State

	interior *automaton.StateSet
	edges    *ordered.Map[*automaton.State, *ordered.Map[*automaton.State, Expr]]
}

func newGNFA() *GNFA {
	return &GNFA{
		Start:    automaton.NewState("start"),
		Accept:   automaton.NewState("accept"),
		interior: automaton.NewStateSet(),
		edges:    ordered.NewMap[*automaton.State, *ordered.Map[*automaton.State, Expr]](),
	}
}

// FromDFA lifts d to a GNFA: a new start state with an ε-edge to the initial
// state, a new accept state with ε-edges from every final state, and one
// Literal edge per transition. Parallel edges merge into a Union.
//
// Undefined transitions of d are missing edges: the GNFA rejects where d, being
// permissive, would stay in place.
func FromDFA(d *automaton.DFA) *GNFA {
	g := newGNFA()
	for _, s := range d.States() {
		g.interior.Add(s)
	}
	g.AddEdge(g.Start, d.Initial, Epsilon{})
	d.EachTransition(func(from *automaton.State, in *automaton.Input, to *automaton.State) {
		g.AddEdge(from, to, Literal{Input: in})
	})
	for _, f := range d.Finals.Items() {
		g.AddEdge(f, g.Accept, Epsilon{})
	}
	return g
}

// AddEdge adds e to the label of from→to, as a union with any existing label.
func (g *GNFA) AddEdge(from, to *automaton.State, e Expr) {
	row := g.edges.GetOrInit(from, ordered.NewMap[*automaton.State, Expr])
	if old, ok := row.Get(to); ok {
		e = NewUnion(old, e)
	}
	row.Set(to, e)
}

// Edge returns the label of from→to.
func (g *GNFA) Edge(from, to *automaton.State) (Expr, bool) {
	row, ok := g.edges.Get(from)
	if !ok {
		return nil, false
	}
	return row.Get(to)
}

// States returns the states that are neither start nor accept, in insertion
// order.
func (g *GNFA) States() []*automaton.State {
	return g.interior.Items()
}

// Eliminate removes q, rerouting every path p→q→s through a single edge
// labeled R_pq (R_qq)* R_qs.
func (g *GNFA) Eliminate(q *automaton.State) {
	var loop Expr = Epsilon{}
	if self, ok := g.Edge(q, q); ok {
		loop = NewStar(self)
	}

	var preds []*automaton.State
	g.edges.Each(func(p *automaton.State, row *ordered.Map[*automaton.State, Expr]) {
		if p != q && row.Has(q) {
			preds = append(preds, p)
		}
	})
	var succs []*automaton.State
	if row, ok := g.edges.Get(q); ok {
		for _, s := range row.Keys() {
			if s != q {
				succs = append(succs, s)
			}
		}
	}

	for _, p := range preds {
		rpq, _ := g.Edge(p, q)
		for _, s := range succs {
			rqs, _ := g.Edge(q, s)
			g.AddEdge(p, s, NewConcat(NewConcat(rpq, loop), rqs))
		}
	}

	g.edges.Delete(q)
	for _, p := range preds {
		row, _ := g.edges.Get(p)
		row.Delete(q)
	}
	g.interior.Remove(q)
}

// Regex eliminates every interior state in insertion order and returns the
// label of start→accept, or Empty if no path is left. g is consumed.
func (g *GNFA) Regex() Expr {
	for _, q := range g.States() {
		g.Eliminate(q)
	}
	if e, ok := g.Edge(g.Start, g.Accept); ok {
		return e
	}
	return Empty{}
}

// DFAToRegex returns an expression matching the words d accepts through its
// defined transitions.
func DFAToRegex(d *automaton.DFA) Expr {
	return FromDFA(d).Regex()
}
