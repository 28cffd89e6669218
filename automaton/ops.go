package automaton

import "fmt"

// Union returns an NFA accepting the words accepted by a or b. A new initial
// state has ε-edges to both initial states. Neither argument is modified.
func Union(a, b *NFA) *NFA {
	start := NewState("")
	res := NewNFA(fmt.Sprintf("(%s|%s)", a.Name, b.Name), start)
	res.Finals = a.Finals.Union(b.Finals)
	res.AddTransition(start, Epsilon, a.Initial, b.Initial)
	a.copyInto(res)
	b.copyInto(res)
	res.SetLogger(a.log)
	return res
}

// Concat returns an NFA accepting a word of a followed by a word of b. Every
// final state of a gets an ε-edge to the initial state of b. Neither argument
// is modified.
func Concat(a, b *NFA) *NFA {
	res := NewNFA(fmt.Sprintf("%s%s", a.Name, b.Name), a.Initial)
	res.Finals = b.Finals.Clone()
	a.copyInto(res)
	b.copyInto(res)
	for _, f := range a.Finals.Items() {
		res.AddTransition(f, Epsilon, b.Initial)
	}
	res.SetLogger(a.log)
	return res
}

// Star returns an NFA accepting zero or more words of n. A new initial state,
// which is also final, has an ε-edge to the initial state of n, and every
// final state of n gets an ε-edge back to it. The argument is not modified.
func Star(n *NFA) *NFA {
	start := NewState("")
	res := NewNFA(fmt.Sprintf("(%s)*", n.Name), start, start)
	res.Finals.AddAll(n.Finals)
	res.AddTransition(start, Epsilon, n.Initial)
	n.copyInto(res)
	for _, f := range n.Finals.Items() {
		res.AddTransition(f, Epsilon, n.Initial)
	}
	res.SetLogger(n.log)
	return res
}
