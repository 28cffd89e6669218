package automaton

import (
	"fmt"
	"io"
	"strings"

	"github.com/olekukonko/tablewriter"
)

type tableRow struct {
	field, value string
}

func renderTable(rows []tableRow) string {
	var buf strings.Builder
	table := tablewriter.NewWriter(&buf)
	table.Header("Field", "Value")
	for _, r := range rows {
		_ = table.Append([]string{r.field, r.value})
	}
	_ = table.Render()
	return buf.String()
}

func joinStates(states []*State) string {
	names := make([]string, len(states))
	for i, s := range states {
		names[i] = s.Name
	}
	return strings.Join(names, ",")
}

func joinInputs(inputs []*Input) string {
	names := make([]string, len(inputs))
	for i, in := range inputs {
		names[i] = in.Name
	}
	return strings.Join(names, ",")
}

func headerRows(name string, inputs []*Input, states []*State, initial *State, finals *StateSet) []tableRow {
	start := ""
	if initial != nil {
		start = initial.Name
	}
	return []tableRow{
		{"name", name},
		{"alphabet", joinInputs(inputs)},
		{"states", joinStates(states)},
		{"initial", start},
		{"finals", joinStates(finals.Items())},
	}
}

// String dumps d as a table: name, alphabet, states and one row per
// transition, keyed "δ(state,input)".
func (d *DFA) String() string {
	rows := headerRows(d.Name, d.Inputs(), d.States(), d.Initial, d.Finals)
	d.EachTransition(func(from *State, in *Input, to *State) {
		rows = append(rows, tableRow{fmt.Sprintf("δ(%s,%s)", from.Name, in.Name), to.Name})
	})
	return renderTable(rows)
}

// String dumps n as a table: name, alphabet, states and one row per
// (state, input) entry, keyed "δ(state,input)".
func (n *NFA) String() string {
	rows := headerRows(n.Name, n.Inputs(), n.States(), n.Initial, n.Finals)
	n.EachTransition(func(from *State, in *Input, to *StateSet) {
		rows = append(rows, tableRow{fmt.Sprintf("δ(%s,%s)", from.Name, in.Name), "{" + joinStates(to.Items()) + "}"})
	})
	return renderTable(rows)
}

type dotWriter struct {
	out    io.Writer
	err    error
	ids    map[*State]int
	finals *StateSet
}

func newDotWriter(out io.Writer, id string, initial *State, finals *StateSet) *dotWriter {
	w := &dotWriter{out: out, ids: make(map[*State]int), finals: finals}
	w.writef("digraph %q {\n  rankdir=LR;\n", id)
	if initial != nil {
		w.writef("  %d[shape=box];\n", w.id(initial))
	}
	return w
}

func (w *dotWriter) writef(format string, a ...any) {
	if w.err != nil {
		return
	}
	_, w.err = fmt.Fprintf(w.out, format, a...)
}

// id numbers states in order of first appearance and declares them.
func (w *dotWriter) id(s *State) int {
	if i, ok := w.ids[s]; ok {
		return i
	}
	i := len(w.ids)
	w.ids[s] = i
	if w.finals.Has(s) {
		w.writef("  %d[label=%q,style=filled,color=green];\n", i, s.Name)
	} else {
		w.writef("  %d[label=%q];\n", i, s.Name)
	}
	return i
}

func (w *dotWriter) edge(from, to *State, label string) {
	i, j := w.id(from), w.id(to)
	w.writef("  %d -> %d[label=%q];\n", i, j, label)
}

func (w *dotWriter) close() error {
	w.writef("}\n")
	return w.err
}

// WriteDot prints d in DOT format.
//
//	$ dot -Tsvg dfa.dot -o dfa.svg
func (d *DFA) WriteDot(out io.Writer) error {
	w := newDotWriter(out, d.Name, d.Initial, d.Finals)
	for _, s := range d.States() {
		w.id(s)
	}
	d.EachTransition(func(from *State, in *Input, to *State) {
		w.edge(from, to, in.Name)
	})
	return w.close()
}

// WriteDot prints n in DOT format.
func (n *NFA) WriteDot(out io.Writer) error {
	w := newDotWriter(out, n.Name, n.Initial, n.Finals)
	for _, s := range n.States() {
		w.id(s)
	}
	n.EachTransition(func(from *State, in *Input, to *StateSet) {
		for _, t := range to.Items() {
			w.edge(from, t, in.Name)
		}
	})
	return w.close()
}
