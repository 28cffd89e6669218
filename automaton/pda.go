package automaton

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/liran-funaro/automata/internal/ordered"
)

var ErrStepLimit = errors.New("step limit exceeded")

// DefaultMaxSteps bounds the configurations PDA.Accepts explores.
const DefaultMaxSteps = 1 << 16

// Move is a PDA transition target: pop Pop (Epsilon: pop nothing), push Push
// (Epsilon: push nothing) and go to To.
type Move struct {
	To   *State
	Pop  *Input
	Push *Input
}

func (m Move) String() string {
	return fmt.Sprintf("%s/%s→%s", m.Pop.Name, m.Push.Name, m.To.Name)
}

// PDA - PushDown Automaton. Transitions are keyed by the current state and the
// input read (Epsilon for moves reading nothing). The stack starts empty.
type PDA struct {
	diagnostics
	Name     string
	Initial  *State
	Finals   *StateSet
	MaxSteps int

	transitions *ordered.Map[*State, *ordered.Map[*Input, []Move]]
	readToPop   *ordered.Set[*Input]
}

func NewPDA(name string, initial *State, finals ...*State) *PDA {
	return &PDA{
		Name:        name,
		Initial:     initial,
		Finals:      NewStateSet(finals...),
		MaxSteps:    DefaultMaxSteps,
		transitions: ordered.NewMap[*State, *ordered.Map[*Input, []Move]](),
	}
}

// AddTransition adds a move from from on reading read. Nil Pop and Push mean
// Epsilon.
func (p *PDA) AddTransition(from *State, read *Input, m Move) {
	if m.Pop == nil {
		m.Pop = Epsilon
	}
	if m.Push == nil {
		m.Push = Epsilon
	}
	row := p.transitions.GetOrInit(from, ordered.NewMap[*Input, []Move])
	moves, _ := row.Get(read)
	row.Set(read, append(moves, m))
}

// Moves returns the moves available from from on reading read.
func (p *PDA) Moves(from *State, read *Input) []Move {
	row, ok := p.transitions.Get(from)
	if !ok {
		return nil
	}
	moves, _ := row.Get(read)
	return moves
}

// EachTransition calls f for every move in insertion order.
func (p *PDA) EachTransition(f func(from *State, read *Input, m Move)) {
	p.transitions.Each(func(from *State, row *ordered.Map[*Input, []Move]) {
		row.Each(func(read *Input, moves []Move) {
			for _, m := range moves {
				f(from, read, m)
			}
		})
	})
}

// States returns the initial state followed by every state of the transition
// table and the final states.
func (p *PDA) States() []*State {
	set := NewStateSet(p.Initial)
	p.EachTransition(func(from *State, _ *Input, m Move) {
		set.Add(from, m.To)
	})
	set.AddAll(p.Finals)
	return set.Items()
}

// Inputs returns the symbols read by some transition, Epsilon included.
func (p *PDA) Inputs() []*Input {
	set := ordered.NewSet[*Input]()
	p.EachTransition(func(_ *State, read *Input, _ Move) {
		set.Add(read)
	})
	return sortedInputs(set.Items())
}

// ReadToPop declares stack symbols that leave the stack only by reading input
// and are all gone in any accepting configuration. Accepts then drops
// configurations holding more of them than input left.
func (p *PDA) ReadToPop(symbols ...*Input) {
	if p.readToPop == nil {
		p.readToPop = ordered.NewSet[*Input]()
	}
	p.readToPop.Add(symbols...)
}

func (p *PDA) IsFinal(s *State) bool {
	return p.Finals.Has(s)
}

type pdaConfig struct {
	state *State
	pos   int
	stack []*Input // Top is the last element.
}

func (c pdaConfig) key() string {
	var sb strings.Builder
	_, _ = fmt.Fprintf(&sb, "%d:%d:", c.state.id, c.pos)
	for _, in := range c.stack {
		_, _ = fmt.Fprintf(&sb, "%d,", in.id)
	}
	return sb.String()
}

// Accepts reports whether some computation consumes all of inputs and ends in
// a final state. The search is breadth first over configurations, pruned by
// the ReadToPop symbols if any. ErrStepLimit is returned when more than
// MaxSteps configurations would be explored.
func (p *PDA) Accepts(inputs []*Input) (bool, error) {
	maxSteps := p.MaxSteps
	if maxSteps <= 0 {
		maxSteps = DefaultMaxSteps
	}

	start := pdaConfig{state: p.Initial}
	seen := map[string]bool{start.key(): true}
	queue := []pdaConfig{start}
	for steps := 0; len(queue) > 0; steps++ {
		if steps >= maxSteps {
			p.Logger().WithFields(logrus.Fields{
				"automaton": p.Name,
				"steps":     steps,
			}).Warn("PDA search abandoned")
			return false, fmt.Errorf("%s: %w", p.Name, ErrStepLimit)
		}
		c := queue[0]
		queue = queue[1:]
		if c.pos == len(inputs) && p.IsFinal(c.state) {
			return true, nil
		}
		reads := []*Input{Epsilon}
		if c.pos < len(inputs) {
			reads = append(reads, inputs[c.pos])
		}
		for _, read := range reads {
			for _, m := range p.Moves(c.state, read) {
				next, ok := c.apply(read, m)
				if !ok || next.pending(p.readToPop) > len(inputs)-next.pos {
					continue
				}
				if k := next.key(); !seen[k] {
					seen[k] = true
					queue = append(queue, next)
				}
			}
		}
	}
	return false, nil
}

func (c pdaConfig) apply(read *Input, m Move) (pdaConfig, bool) {
	stack := c.stack
	if m.Pop != Epsilon {
		if len(stack) == 0 || stack[len(stack)-1] != m.Pop {
			return pdaConfig{}, false
		}
		stack = stack[:len(stack)-1]
	}
	if m.Push != Epsilon {
		stack = append(stack[:len(stack):len(stack)], m.Push)
	}
	pos := c.pos
	if read != Epsilon {
		pos++
	}
	return pdaConfig{state: m.To, pos: pos, stack: stack}, true
}

// pending counts the stack symbols that can only leave the stack by reading
// input.
func (c pdaConfig) pending(readable *ordered.Set[*Input]) int {
	if readable == nil {
		return 0
	}
	n := 0
	for _, in := range c.stack {
		if readable.Has(in) {
			n++
		}
	}
	return n
}

// String dumps p as a table with one row per (state, input) entry.
func (p *PDA) String() string {
	rows := headerRows(p.Name, p.Inputs(), p.States(), p.Initial, p.Finals)
	p.transitions.Each(func(from *State, row *ordered.Map[*Input, []Move]) {
		row.Each(func(read *Input, moves []Move) {
			parts := make([]string, len(moves))
			for i, m := range moves {
				parts[i] = m.String()
			}
			rows = append(rows, tableRow{fmt.Sprintf("δ(%s,%s)", from.Name, read.Name), strings.Join(parts, ";")})
		})
	})
	return renderTable(rows)
}

// WriteDot prints p in DOT format. Edges are labeled "read,pop/push".
func (p *PDA) WriteDot(out io.Writer) error {
	w := newDotWriter(out, p.Name, p.Initial, p.Finals)
	for _, s := range p.States() {
		w.id(s)
	}
	p.EachTransition(func(from *State, read *Input, m Move) {
		w.edge(from, m.To, fmt.Sprintf("%s,%s/%s", read.Name, m.Pop.Name, m.Push.Name))
	})
	return w.close()
}
