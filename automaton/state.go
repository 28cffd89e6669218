// Package automaton implements deterministic, non-deterministic and pushdown
// automata over identity-bearing states and inputs, together with the
// Thompson operations (union, concatenation, star) and the NFA to DFA subset
// construction.
//
// States and inputs are handles: two distinct *State values with the same name
// are distinct states. Names are only used for display and for deterministic
// ordering.
package automaton

import (
	"cmp"
	"fmt"
	"slices"
	"sync/atomic"

	"github.com/liran-funaro/automata/internal/ordered"
)

// lastID hands out process-unique ids. Ids only order handles, they never
// define identity.
var lastID atomic.Uint64

func nextID() uint64 {
	return lastID.Add(1)
}

// State is a node of an automaton.
type State struct {
	Name    string
	id      uint64
	members []*State // The NFA states represented by a merged DFA state.
}

// NewState creates a new distinct state. An empty name is replaced by "q<id>".
func NewState(name string) *State {
	s := &State{Name: name, id: nextID()}
	if s.Name == "" {
		s.Name = fmt.Sprintf("q%d", s.id)
	}
	return s
}

// NewStates creates one state per name.
func NewStates(names ...string) []*State {
	res := make([]*State, len(names))
	for i, n := range names {
		res[i] = NewState(n)
	}
	return res
}

func (s *State) ID() uint64 {
	return s.id
}

func (s *State) String() string {
	return s.Name
}

// Members returns the NFA states merged into s by the subset construction, or
// nil if s is not a merged state.
func (s *State) Members() []*State {
	return s.members
}

// Input is a symbol of an automaton alphabet.
type Input struct {
	Name string
	id   uint64
}

// NewInput creates a new distinct input symbol.
func NewInput(name string) *Input {
	return &Input{Name: name, id: nextID()}
}

func (in *Input) ID() uint64 {
	return in.id
}

func (in *Input) String() string {
	return in.Name
}

var (
	// Epsilon is the silent input: following it consumes nothing.
	Epsilon = NewInput("ε")
	// Reset sends a DFA back to its initial state.
	Reset = NewInput("RESET")
	// Bottom is the bottom-of-stack marker of pushdown automata.
	Bottom = NewInput("$")
)

// StateSet is an insertion-ordered set of states.
type StateSet = ordered.Set[*State]

func NewStateSet(states ...*State) *StateSet {
	return ordered.NewSet(states...)
}

func compareStates(a, b *State) int {
	return cmp.Compare(a.id, b.id)
}

func compareInputs(a, b *Input) int {
	return cmp.Compare(a.id, b.id)
}

// compareStateNames orders states by name, falling back to creation order.
func compareStateNames(a, b *State) int {
	if c := cmp.Compare(a.Name, b.Name); c != 0 {
		return c
	}
	return compareStates(a, b)
}

func sortedInputs(inputs []*Input) []*Input {
	res := slices.Clone(inputs)
	slices.SortFunc(res, compareInputs)
	return res
}

// Alphabet interns input symbols by name, so textual front-ends resolve equal
// names to one handle. The names "ε" and "$" resolve to Epsilon and Bottom.
type Alphabet struct {
	symbols *ordered.Map[string, *Input]
}

func NewAlphabet() *Alphabet {
	return &Alphabet{symbols: ordered.NewMap[string, *Input]()}
}

// Symbol returns the input named name, creating it on first use.
func (a *Alphabet) Symbol(name string) *Input {
	switch name {
	case Epsilon.Name:
		return Epsilon
	case Bottom.Name:
		return Bottom
	}
	return a.symbols.GetOrInit(name, func() *Input { return NewInput(name) })
}

// Symbols resolves every name with Symbol.
func (a *Alphabet) Symbols(names ...string) []*Input {
	res := make([]*Input, len(names))
	for i, n := range names {
		res[i] = a.Symbol(n)
	}
	return res
}

// Lookup returns the input named name without creating it.
func (a *Alphabet) Lookup(name string) (*Input, bool) {
	return a.symbols.Get(name)
}

// Inputs returns the interned symbols in creation order.
func (a *Alphabet) Inputs() []*Input {
	return a.symbols.Values()
}

// Word resolves every rune of s as a single-rune symbol.
func (a *Alphabet) Word(s string) []*Input {
	var res []*Input
	for _, r := range s {
		res = append(res, a.Symbol(string(r)))
	}
	return res
}
