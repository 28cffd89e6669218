package automaton

import (
	"github.com/sirupsen/logrus"

	"github.com/liran-funaro/automata/internal/ordered"
)

// DFA - Deterministic Finite Automaton with a partial transition function.
type DFA struct {
	diagnostics
	Name    string
	Initial *State
	Finals  *StateSet

	transitions *ordered.Map[*State, *ordered.Map[*Input, *State]]
}

func NewDFA(name string, initial *State, finals ...*State) *DFA {
	return &DFA{
		Name:        name,
		Initial:     initial,
		Finals:      NewStateSet(finals...),
		transitions: ordered.NewMap[*State, *ordered.Map[*Input, *State]](),
	}
}

// AddTransition sets δ(from, in) = to, replacing any previous target.
func (d *DFA) AddTransition(from *State, in *Input, to *State) {
	row := d.transitions.GetOrInit(from, ordered.NewMap[*Input, *State])
	row.Set(in, to)
}

// Transition returns δ(from, in) if it is defined.
func (d *DFA) Transition(from *State, in *Input) (*State, bool) {
	row, ok := d.transitions.Get(from)
	if !ok {
		return nil, false
	}
	return row.Get(in)
}

// Next returns the state reached from cur on in. A nil cur stands for the
// initial state. Reset always returns the initial state. An undefined
// transition leaves the automaton where it is.
func (d *DFA) Next(in *Input, cur *State) *State {
	if cur == nil {
		cur = d.Initial
	}
	if in == Reset {
		return d.Initial
	}
	if to, ok := d.Transition(cur, in); ok {
		return to
	}
	d.Logger().WithFields(logrus.Fields{
		"automaton": d.Name,
		"state":     cur.Name,
		"input":     in.Name,
	}).Warn("no transition; staying in current state")
	return cur
}

// Run feeds inputs one by one starting from start (the initial state if nil)
// and returns every visited state. The first element is the start state.
func (d *DFA) Run(inputs []*Input, start *State) []*State {
	if start == nil {
		start = d.Initial
	}
	visited := make([]*State, 0, len(inputs)+1)
	visited = append(visited, start)
	cur := start
	for _, in := range inputs {
		cur = d.Next(in, cur)
		visited = append(visited, cur)
	}
	return visited
}

// Accepts reports whether the run over inputs ends in a final state.
func (d *DFA) Accepts(inputs []*Input) bool {
	visited := d.Run(inputs, nil)
	return d.IsFinal(visited[len(visited)-1])
}

func (d *DFA) IsFinal(s *State) bool {
	return d.Finals.Has(s)
}

// States returns the initial state followed by every state found in the
// transition table and the final states. It is recomputed on every call.
func (d *DFA) States() []*State {
	set := NewStateSet(d.Initial)
	d.EachTransition(func(from *State, _ *Input, to *State) {
		set.Add(from, to)
	})
	set.AddAll(d.Finals)
	return set.Items()
}

// Inputs returns every input used by the transition table, in creation order.
func (d *DFA) Inputs() []*Input {
	set := ordered.NewSet[*Input]()
	d.EachTransition(func(_ *State, in *Input, _ *State) {
		set.Add(in)
	})
	return sortedInputs(set.Items())
}

// EachTransition calls f for every defined transition in insertion order.
func (d *DFA) EachTransition(f func(from *State, in *Input, to *State)) {
	d.transitions.Each(func(from *State, row *ordered.Map[*Input, *State]) {
		row.Each(func(in *Input, to *State) {
			f(from, in, to)
		})
	})
}

// RemoveState drops s and every transition into or out of it.
func (d *DFA) RemoveState(s *State) {
	d.transitions.Delete(s)
	d.transitions.Each(func(_ *State, row *ordered.Map[*Input, *State]) {
		for _, in := range row.Keys() {
			if to, _ := row.Get(in); to == s {
				row.Delete(in)
			}
		}
	})
	d.Finals.Remove(s)
}
