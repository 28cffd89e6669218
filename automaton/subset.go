package automaton

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/bits-and-blooms/bitset"
	"github.com/sirupsen/logrus"
)

var ErrPowersetTooLarge = errors.New("too many states for the powerset construction")

// MaxPowersetStates bounds the NFA size ToDFAPowerset accepts.
const MaxPowersetStates = 16

// EpsilonClosure returns states together with every state reachable from them
// through ε-edges only. ε-cycles are fine.
func EpsilonClosure(n *NFA, states ...*State) *StateSet {
	res := NewStateSet(states...)
	stack := slices.Clone(states)
	for len(stack) > 0 {
		s := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, t := range n.Next(Epsilon, s).Items() {
			if !res.Has(t) {
				res.Add(t)
				stack = append(stack, t)
			}
		}
	}
	return res
}

// NextStates returns the ε-closure of the states reached from current on in.
// For in == Epsilon this is the ε-closure of current.
func NextStates(n *NFA, in *Input, current *StateSet) *StateSet {
	if in == Epsilon {
		return EpsilonClosure(n, current.Items()...)
	}
	moved := NewStateSet()
	for _, s := range current.Items() {
		moved.AddAll(n.Next(in, s))
	}
	return EpsilonClosure(n, moved.Items()...)
}

// newMergedState creates a DFA state standing for a set of NFA states. Its name
// is the sorted list of member names, e.g. "{q1,q3}".
func newMergedState(members []*State) *State {
	sorted := slices.Clone(members)
	slices.SortFunc(sorted, compareStateNames)
	names := make([]string, len(sorted))
	for i, m := range sorted {
		names[i] = m.Name
	}
	s := NewState("{" + strings.Join(names, ",") + "}")
	s.members = sorted
	return s
}

// Subsets returns one merged state per subset of states (2^n of them, the
// empty subset included), sorted by name.
func Subsets(states *StateSet) []*State {
	subs := states.Subsets()
	res := make([]*State, len(subs))
	for i, sub := range subs {
		res[i] = newMergedState(sub.Items())
	}
	slices.SortStableFunc(res, func(a, b *State) int {
		return strings.Compare(a.Name, b.Name)
	})
	return res
}

// ToDFA NFA -> DFA
// Only the subsets reachable from the ε-closure of the initial state are
// built. The empty subset, when reachable, is a non-final sink so that every
// symbol of the NFA alphabet is defined in every state.
func ToDFA(nfa *NFA) *DFA {
	b := newSubsetBuilder(nfa)
	b.dfa.Initial = b.get(b.closure(b.single(nfa.Initial)))
	for len(b.todo) > 0 {
		v := b.todo[0]
		b.todo = b.todo[1:]
		for _, in := range b.inputs {
			b.dfa.AddTransition(v, in, b.get(b.closure(b.move(b.bits[v], in))))
		}
	}
	return b.dfa
}

// ToDFAPowerset NFA -> DFA by enumerating every subset of NFA states, then
// pruning the ones that cannot be reached. Exponential in the number of NFA
// states; accepts the same language as ToDFA and ends up with the same
// states. NFAs with more than MaxPowersetStates states are refused with
// ErrPowersetTooLarge.
func ToDFAPowerset(nfa *NFA) (*DFA, error) {
	b := newSubsetBuilder(nfa)
	if len(b.states) > MaxPowersetStates {
		return nil, fmt.Errorf("%w: %d > %d", ErrPowersetTooLarge, len(b.states), MaxPowersetStates)
	}
	subsets := Subsets(NewStateSet(b.states...))
	for _, s := range subsets {
		b.register(s, b.fromMembers(s.members))
	}
	b.dfa.Initial = b.findSubset(b.closure(b.single(nfa.Initial)))
	for _, s := range subsets {
		for _, in := range b.inputs {
			b.dfa.AddTransition(s, in, b.findSubset(b.closure(b.move(b.bits[s], in))))
		}
	}
	Prune(b.dfa)
	return b.dfa, nil
}

type subsetBuilder struct {
	nfa    *NFA
	states []*State
	index  map[*State]uint
	inputs []*Input
	dfa    *DFA
	tab    map[string]*State
	bits   map[*State]*bitset.BitSet
	todo   []*State
}

func newSubsetBuilder(nfa *NFA) *subsetBuilder {
	b := &subsetBuilder{
		nfa:    nfa,
		states: nfa.States(),
		index:  make(map[*State]uint),
		inputs: nfa.Symbols(),
		dfa:    NewDFA(nfa.Name, nil),
		tab:    make(map[string]*State),
		bits:   make(map[*State]*bitset.BitSet),
	}
	for i, s := range b.states {
		b.index[s] = uint(i)
	}
	b.dfa.SetLogger(nfa.log)
	return b
}

func (b *subsetBuilder) newBits() *bitset.BitSet {
	return bitset.New(uint(len(b.states)))
}

func (b *subsetBuilder) single(s *State) *bitset.BitSet {
	return b.newBits().Set(b.index[s])
}

func (b *subsetBuilder) fromMembers(members []*State) *bitset.BitSet {
	st := b.newBits()
	for _, m := range members {
		st.Set(b.index[m])
	}
	return st
}

func (b *subsetBuilder) members(st *bitset.BitSet) []*State {
	var res []*State
	for i, ok := st.NextSet(0); ok; i, ok = st.NextSet(i + 1) {
		res = append(res, b.states[i])
	}
	return res
}

// closure adds every state reachable through ε-edges.
func (b *subsetBuilder) closure(st *bitset.BitSet) *bitset.BitSet {
	res := st.Clone()
	visited := b.newBits()
	var stack []uint
	for i, ok := st.NextSet(0); ok; i, ok = st.NextSet(i + 1) {
		stack = append(stack, i)
	}
	for len(stack) > 0 {
		i := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if visited.Test(i) {
			continue
		}
		visited.Set(i)
		for _, t := range b.nfa.Next(Epsilon, b.states[i]).Items() {
			if j := b.index[t]; !res.Test(j) {
				res.Set(j)
				stack = append(stack, j)
			}
		}
	}
	return res
}

func (b *subsetBuilder) move(st *bitset.BitSet, in *Input) *bitset.BitSet {
	res := b.newBits()
	for i, ok := st.NextSet(0); ok; i, ok = st.NextSet(i + 1) {
		for _, t := range b.nfa.Next(in, b.states[i]).Items() {
			res.Set(b.index[t])
		}
	}
	return res
}

func (b *subsetBuilder) register(s *State, st *bitset.BitSet) {
	b.tab[st.String()] = s
	b.bits[s] = st
	for _, m := range s.members {
		if b.nfa.IsFinal(m) {
			b.dfa.Finals.Add(s)
			break
		}
	}
}

// get returns the merged state for st, queueing it when it is new.
func (b *subsetBuilder) get(st *bitset.BitSet) *State {
	if s, ok := b.tab[st.String()]; ok {
		return s
	}
	s := newMergedState(b.members(st))
	b.register(s, st)
	b.todo = append(b.todo, s)
	return s
}

// findSubset looks st up among the enumerated subsets. Since the powerset is
// exhaustive a miss is a bug; it is reported and a fresh state is used.
func (b *subsetBuilder) findSubset(st *bitset.BitSet) *State {
	if s, ok := b.tab[st.String()]; ok {
		return s
	}
	s := newMergedState(b.members(st))
	b.dfa.Logger().WithFields(logrus.Fields{
		"automaton": b.nfa.Name,
		"subset":    s.Name,
	}).Warn("subset missing from powerset; creating a fresh state")
	b.register(s, st)
	return s
}

// Prune removes the states of d that cannot be reached from its initial state
// and returns them. States without incoming edges are removed first, cascading
// through a predecessor index built once; unreachable cycles left over are
// then found by a forward sweep.
func Prune(d *DFA) []*State {
	states := d.States()
	n := uint(len(states))
	index := make(map[*State]uint, len(states))
	for i, s := range states {
		index[s] = uint(i)
	}
	preds := make([]*bitset.BitSet, n)
	succs := make([]*bitset.BitSet, n)
	for i := range states {
		preds[i] = bitset.New(n)
		succs[i] = bitset.New(n)
	}
	d.EachTransition(func(from *State, _ *Input, to *State) {
		i, j := index[from], index[to]
		if i != j {
			preds[j].Set(i)
			succs[i].Set(j)
		}
	})

	initial := index[d.Initial]
	removed := bitset.New(n)
	var queue []uint
	for i := uint(0); i < n; i++ {
		if i != initial && preds[i].None() {
			queue = append(queue, i)
		}
	}
	for len(queue) > 0 {
		i := queue[0]
		queue = queue[1:]
		if removed.Test(i) {
			continue
		}
		removed.Set(i)
		for j, ok := succs[i].NextSet(0); ok; j, ok = succs[i].NextSet(j + 1) {
			preds[j].Clear(i)
			if j != initial && !removed.Test(j) && preds[j].None() {
				queue = append(queue, j)
			}
		}
	}

	reached := bitset.New(n).Set(initial)
	stack := []uint{initial}
	for len(stack) > 0 {
		i := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for j, ok := succs[i].NextSet(0); ok; j, ok = succs[i].NextSet(j + 1) {
			if !removed.Test(j) && !reached.Test(j) {
				reached.Set(j)
				stack = append(stack, j)
			}
		}
	}

	var res []*State
	for i := uint(0); i < n; i++ {
		if i == initial || (reached.Test(i) && !removed.Test(i)) {
			continue
		}
		res = append(res, states[i])
		d.RemoveState(states[i])
	}
	if len(res) > 0 {
		d.Logger().WithFields(logrus.Fields{
			"automaton": d.Name,
			"pruned":    len(res),
		}).Debug("pruned unreachable states")
	}
	return res
}
