package automaton

import (
	"github.com/liran-funaro/automata/internal/ordered"
)

// NFA - Nondeterministic Finite Automaton. Transitions map a state and an
// input (possibly Epsilon) to a set of states.
type NFA struct {
	diagnostics
	Name    string
	Initial *State
	Finals  *StateSet

	transitions *ordered.Map[*State, *ordered.Map[*Input, *StateSet]]
}

func NewNFA(name string, initial *State, finals ...*State) *NFA {
	return &NFA{
		Name:        name,
		Initial:     initial,
		Finals:      NewStateSet(finals...),
		transitions: ordered.NewMap[*State, *ordered.Map[*Input, *StateSet]](),
	}
}

// AddTransition adds to to the targets of (from, in). Existing targets are
// kept.
func (n *NFA) AddTransition(from *State, in *Input, to ...*State) {
	row := n.transitions.GetOrInit(from, ordered.NewMap[*Input, *StateSet])
	targets := row.GetOrInit(in, func() *StateSet { return NewStateSet() })
	targets.Add(to...)
}

// Next returns the states reached from cur on in, or an empty set. A nil cur
// stands for the initial state. The result is a copy.
func (n *NFA) Next(in *Input, cur *State) *StateSet {
	if cur == nil {
		cur = n.Initial
	}
	row, ok := n.transitions.Get(cur)
	if !ok {
		return NewStateSet()
	}
	targets, ok := row.Get(in)
	if !ok {
		return NewStateSet()
	}
	return targets.Clone()
}

func (n *NFA) IsFinal(s *State) bool {
	return n.Finals.Has(s)
}

// States returns the initial state followed by every state found in the
// transition table and the final states. It is recomputed on every call.
func (n *NFA) States() []*State {
	set := NewStateSet(n.Initial)
	n.EachTransition(func(from *State, _ *Input, to *StateSet) {
		set.Add(from)
		set.AddAll(to)
	})
	set.AddAll(n.Finals)
	return set.Items()
}

// Inputs returns every input used by the transition table, Epsilon included,
// in creation order.
func (n *NFA) Inputs() []*Input {
	set := ordered.NewSet[*Input]()
	n.EachTransition(func(_ *State, in *Input, _ *StateSet) {
		set.Add(in)
	})
	return sortedInputs(set.Items())
}

// Symbols returns Inputs without Epsilon.
func (n *NFA) Symbols() []*Input {
	var res []*Input
	for _, in := range n.Inputs() {
		if in != Epsilon {
			res = append(res, in)
		}
	}
	return res
}

// EachTransition calls f for every (state, input) entry in insertion order.
func (n *NFA) EachTransition(f func(from *State, in *Input, to *StateSet)) {
	n.transitions.Each(func(from *State, row *ordered.Map[*Input, *StateSet]) {
		row.Each(func(in *Input, to *StateSet) {
			f(from, in, to)
		})
	})
}

// Accepts reports whether some path from the initial state to a final state
// consumes exactly inputs.
func (n *NFA) Accepts(inputs []*Input) bool {
	cur := EpsilonClosure(n, n.Initial)
	for _, in := range inputs {
		if cur.Len() == 0 {
			return false
		}
		cur = NextStates(n, in, cur)
	}
	return cur.Any(n.IsFinal)
}

// copyInto adds every transition of n to dst.
func (n *NFA) copyInto(dst *NFA) {
	n.EachTransition(func(from *State, in *Input, to *StateSet) {
		dst.AddTransition(from, in, to.Items()...)
	})
}
