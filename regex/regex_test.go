package regex

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/liran-funaro/automata/automaton"
)

var patterns = []string{
	"a",
	"ab",
	"a|b",
	"a*",
	"a*b",
	"(a|b)*abb",
	"(ab|ba)*",
	"a(b|c)*a",
	"(a*b*)*c",
	"a+b?",
	"a{2,3}",
	"(a|())b",
	"((a|b)(a|b))*",
	"[abc]c*",
	"(?i)Ab",
	"aε",
	"(ε|b)*a",
}

func TestThompsonAgreesWithMatcher(t *testing.T) {
	for _, p := range patterns {
		t.Run(p, func(t *testing.T) {
			ab := automaton.NewAlphabet()
			e, err := Parse(p, ab)
			require.NoError(t, err)
			symbols := ab.Symbols("a", "b", "c", "A")
			m := Compile(e)
			nfa := ToNFA(e)
			for _, w := range automaton.Words(symbols, 5) {
				require.Equal(t, m.Match(w), nfa.Accepts(w), "%s on %s", e, automaton.ShowWord(w))
			}
		})
	}
}

func TestEpsilonLiteral(t *testing.T) {
	ab := automaton.NewAlphabet()
	a := ab.Symbol("a")

	e := MustParse("aε", ab)
	require.Equal(t, Literal{Input: a}, e)

	built := Concat{Left: Literal{Input: a}, Right: Literal{Input: automaton.Epsilon}}
	m, nfa := Compile(built), ToNFA(built)
	for _, w := range automaton.Words([]*automaton.Input{a}, 3) {
		require.Equal(t, nfa.Accepts(w), m.Match(w), "on %s", automaton.ShowWord(w))
	}
	require.True(t, m.Match([]*automaton.Input{a}))
}

func TestPipelineRoundTrip(t *testing.T) {
	for _, p := range patterns {
		t.Run(p, func(t *testing.T) {
			ab := automaton.NewAlphabet()
			e := MustParse(p, ab)
			symbols := Inputs(e)
			nfa := ToNFA(e)
			dfa := automaton.ToDFA(nfa)
			back := DFAToRegex(dfa)
			m, mb := Compile(e), Compile(back)
			for _, w := range automaton.Words(symbols, 6) {
				want := m.Match(w)
				require.Equal(t, want, dfa.Accepts(w), "dfa of %s on %s", e, automaton.ShowWord(w))
				require.Equal(t, want, mb.Match(w), "%s -> %s on %s", e, back, automaton.ShowWord(w))
			}
		})
	}
}

func TestDFAToRegexScenario(t *testing.T) {
	ab := automaton.NewAlphabet()
	a, b := ab.Symbol("a"), ab.Symbol("b")
	q1, q2 := automaton.NewState("q1"), automaton.NewState("q2")
	d := automaton.NewDFA("a*b", q1, q2)
	d.AddTransition(q1, a, q1)
	d.AddTransition(q1, b, q2)

	got := DFAToRegex(d)
	require.Equal(t, "a*b", got.String())
	want := Compile(NewConcat(NewStar(Literal{a}), Literal{b}))
	gm := Compile(got)
	for _, w := range automaton.Words([]*automaton.Input{a, b}, 6) {
		require.Equal(t, want.Match(w), gm.Match(w), automaton.ShowWord(w))
	}
}

func TestDFAToRegexEmptyLanguage(t *testing.T) {
	ab := automaton.NewAlphabet()
	q := automaton.NewState("q")
	d := automaton.NewDFA("none", q)
	d.AddTransition(q, ab.Symbol("a"), q)
	require.Equal(t, Expr(Empty{}), DFAToRegex(d))

	d.Finals.Add(q)
	require.Equal(t, "a*", DFAToRegex(d).String())
}

func TestGNFAFromDFAMergesParallelEdges(t *testing.T) {
	ab := automaton.NewAlphabet()
	a, b := ab.Symbol("a"), ab.Symbol("b")
	p, q := automaton.NewState("p"), automaton.NewState("q")
	d := automaton.NewDFA("d", p, q)
	d.AddTransition(p, a, q)
	d.AddTransition(p, b, q)

	g := FromDFA(d)
	require.Equal(t, []*automaton.State{p, q}, g.States())
	e, ok := g.Edge(p, q)
	require.True(t, ok)
	require.Equal(t, Expr(Union{Literal{a}, Literal{b}}), e)
	e, ok = g.Edge(g.Start, p)
	require.True(t, ok)
	require.Equal(t, Expr(Epsilon{}), e)

	g.Eliminate(p)
	require.Equal(t, []*automaton.State{q}, g.States())
	e, ok = g.Edge(g.Start, q)
	require.True(t, ok)
	require.Equal(t, "a|b", e.String())
	_, ok = g.Edge(p, q)
	require.False(t, ok)
}

func TestSmartConstructors(t *testing.T) {
	ab := automaton.NewAlphabet()
	a := Literal{ab.Symbol("a")}
	b := Literal{ab.Symbol("b")}
	require.Equal(t, Expr(a), NewUnion(Empty{}, a))
	require.Equal(t, Expr(a), NewUnion(a, Empty{}))
	require.Equal(t, Expr(a), NewUnion(a, a))
	require.Equal(t, Expr(Empty{}), NewConcat(a, Empty{}))
	require.Equal(t, Expr(b), NewConcat(Epsilon{}, b))
	require.Equal(t, Expr(Epsilon{}), NewStar(Empty{}))
	require.Equal(t, Expr(Epsilon{}), NewStar(Epsilon{}))
	require.Equal(t, NewStar(a), NewStar(NewStar(a)))
	require.Equal(t, "(a|b)*a", NewConcat(NewStar(NewUnion(a, b)), a).String())
	require.Equal(t, "a(b|a)", NewConcat(a, NewUnion(b, a)).String())
	require.Equal(t, "(ab)*", NewStar(NewConcat(a, b)).String())
	require.Equal(t, 1, Size(a))
	require.Equal(t, 4, Size(NewStar(NewUnion(a, b))))
	require.Equal(t, Expr(Empty{}), Join())
	require.Equal(t, "ab", Lit(a.Input, b.Input).String())
}

func TestParse(t *testing.T) {
	ab := automaton.NewAlphabet()
	for pattern, want := range map[string]string{
		"a*b":       "a*b",
		"(a|b)*abb": "(a|b)*abb",
		"a?":        "a|ε",
		"a+":        "aa*",
		"()":        "ε",
		"[ab]":      "a|b",
	} {
		e, err := Parse(pattern, ab)
		require.NoError(t, err, pattern)
		require.Equal(t, want, e.String(), pattern)
	}

	for pattern, want := range map[string]error{
		".":     ErrUnsupported,
		"^a":    ErrUnsupported,
		"a\\b":  ErrUnsupported,
		"[^a]":  ErrClassTooLarge,
		"[a-z]": nil,
	} {
		_, err := Parse(pattern, ab)
		if want == nil {
			require.NoError(t, err, pattern)
			continue
		}
		require.True(t, errors.Is(err, want), "%s: %v", pattern, err)
	}

	_, err := Parse("a(", ab)
	require.Error(t, err)
	require.Panics(t, func() { MustParse("(", ab) })
}

func randomExpr(rng *rand.Rand, symbols []*automaton.Input, depth int) Expr {
	if depth == 0 {
		switch rng.Intn(6) {
		case 0:
			return Epsilon{}
		default:
			return Literal{symbols[rng.Intn(len(symbols))]}
		}
	}
	switch rng.Intn(4) {
	case 0:
		return Union{randomExpr(rng, symbols, depth-1), randomExpr(rng, symbols, depth-1)}
	case 1:
		return Concat{randomExpr(rng, symbols, depth-1), randomExpr(rng, symbols, depth-1)}
	case 2:
		return Star{randomExpr(rng, symbols, depth-1)}
	default:
		return randomExpr(rng, symbols, 0)
	}
}

func TestRandomExpressions(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	ab := automaton.NewAlphabet()
	symbols := ab.Symbols("a", "b")
	words := automaton.Words(symbols, 5)
	for i := 0; i < 60; i++ {
		e := randomExpr(rng, symbols, 3)
		nfa := ToNFA(e)
		dfa := automaton.ToDFA(nfa)
		back := Compile(DFAToRegex(dfa))
		m := Compile(e)
		for _, w := range words {
			want := m.Match(w)
			require.Equal(t, want, nfa.Accepts(w), "nfa of %s on %s", e, automaton.ShowWord(w))
			if len(nfa.Symbols()) == len(symbols) {
				require.Equal(t, want, dfa.Accepts(w), "dfa of %s on %s", e, automaton.ShowWord(w))
				require.Equal(t, want, back.Match(w), "regex of %s on %s", e, automaton.ShowWord(w))
			}
		}
	}
}
