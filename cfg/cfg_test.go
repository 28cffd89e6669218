package cfg

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/liran-funaro/automata/automaton"
)

const abGrammar = `
# a*b, left recursive
S -> a T b | b
T -> T a | ε
`

func names(symbols []*Symbol) []string {
	res := make([]string, len(symbols))
	for i, s := range symbols {
		res[i] = s.String()
	}
	return res
}

func stateNamed(t *testing.T, p *automaton.PDA, name string) *automaton.State {
	t.Helper()
	for _, s := range p.States() {
		if s.Name == name {
			return s
		}
	}
	t.Fatalf("no state %q", name)
	return nil
}

func TestParseGrammar(t *testing.T) {
	g, err := ParseGrammar(strings.NewReader(abGrammar), automaton.NewAlphabet())
	require.NoError(t, err)
	assert.Equal(t, "S", g.Start.String())
	assert.Equal(t, []string{"S", "T"}, names(g.NonTerms()))
	assert.Equal(t, []string{"a", "b"}, names(g.Terms()))
	assert.Equal(t, "S -> a T b | b\nT -> T a | ε\n", g.String())

	rules := g.Rules(g.NonTerms()[1])
	require.Len(t, rules, 2)
	assert.Equal(t, []*Symbol{Epsilon}, rules[1])
	// Equal names share one symbol.
	assert.Same(t, g.Rules(g.Start)[0][0], rules[0][1])
}

func TestParseGrammarSeparators(t *testing.T) {
	g, err := ParseGrammar(strings.NewReader("E -> E + x | x; X -> eps"), automaton.NewAlphabet())
	require.NoError(t, err)
	assert.Equal(t, []string{"E", "X"}, names(g.NonTerms()))
	assert.Equal(t, []string{"+", "x"}, names(g.Terms()))
	assert.Equal(t, "E -> E + x | x\nX -> ε\n", g.String())
}

func TestParseGrammarErrors(t *testing.T) {
	for _, tc := range []struct {
		text string
		want error
		pos  string
	}{
		{"", ErrEmptyGrammar, ""},
		{"# nothing\n", ErrEmptyGrammar, ""},
		{"S a b", ErrMissingArrow, "1:3:"},
		{"S -> a |\n", ErrEmptyAlternative, "1:9:"},
		{"S -> a || b", ErrEmptyAlternative, "1:9:"},
		{"S -> a\n-> b", ErrMissingHead, "2:1:"},
		{"S -> a -> b", ErrUnexpectedArrow, "1:8:"},
		{"S -> a ε b", ErrEmbeddedEpsilon, "1:8:"},
	} {
		t.Run(tc.text, func(t *testing.T) {
			_, err := ParseGrammar(strings.NewReader(tc.text), automaton.NewAlphabet())
			require.Error(t, err)
			assert.True(t, errors.Is(err, tc.want), err.Error())
			assert.True(t, strings.HasPrefix(err.Error(), tc.pos), err.Error())
		})
	}
}

func TestValidate(t *testing.T) {
	ab := automaton.NewAlphabet()
	s := NonTerm("S")
	a := Term(ab.Symbol("a"))

	g := NewGrammar("g", nil)
	assert.ErrorIs(t, g.Validate(), ErrNoStart)

	g = NewGrammar("g", s)
	g.AddRule(s, a, Epsilon)
	assert.ErrorIs(t, g.Validate(), ErrEmbeddedEpsilon)

	g = NewGrammar("g", s)
	g.AddRule(a, s)
	assert.ErrorIs(t, g.Validate(), ErrTerminalHead)

	g = NewGrammar("g", s)
	g.AddRule(s)
	require.NoError(t, g.Validate())
	assert.Equal(t, [][]*Symbol{{Epsilon}}, g.Rules(s))
	assert.Empty(t, g.Terms())
}

func TestNonTermsStartFirst(t *testing.T) {
	ab := automaton.NewAlphabet()
	s, x := NonTerm("S"), NonTerm("X")
	g := NewGrammar("g", s)
	g.AddRule(x, Term(ab.Symbol("x")))
	g.AddRule(s, x, x)
	assert.Equal(t, []string{"S", "X"}, names(g.NonTerms()))
	assert.Equal(t, "S -> X X\nX -> x\n", g.String())
}

func TestCFGToPDAShape(t *testing.T) {
	ab := automaton.NewAlphabet()
	g, err := ParseGrammar(strings.NewReader(abGrammar), ab)
	require.NoError(t, err)
	g.Name = "a*b"

	p, err := CFGToPDA(g)
	require.NoError(t, err)
	loop := stateNamed(t, p, "LOOP")
	start := stateNamed(t, p, "START")
	accept := stateNamed(t, p, "ACCEPT")
	assert.Same(t, start, p.Initial)
	assert.True(t, p.IsFinal(accept))

	assert.Len(t, p.Moves(loop, automaton.Epsilon), 5)
	a := ab.Symbol("a")
	moves := p.Moves(loop, a)
	require.Len(t, moves, 1)
	assert.Same(t, a, moves[0].Pop)
	assert.Same(t, automaton.Epsilon, moves[0].Push)
	assert.Same(t, loop, moves[0].To)

	seed := p.Moves(start, automaton.Epsilon)
	require.Len(t, seed, 1)
	assert.Same(t, automaton.Bottom, seed[0].Push)
	assert.Equal(t, "TEMP0", seed[0].To.Name)
	next := p.Moves(seed[0].To, automaton.Epsilon)
	require.Len(t, next, 1)
	assert.Same(t, g.Start.Input, next[0].Push)
	assert.Same(t, loop, next[0].To)

	// TEMP0 belongs to the seed, S -> a T b takes two and T -> T a one.
	for _, name := range []string{"TEMP1", "TEMP2", "TEMP3"} {
		stateNamed(t, p, name)
	}
	assert.Len(t, p.States(), 7)
	assert.Contains(t, p.String(), "δ(LOOP,ε)")
}

func TestCFGToPDALanguage(t *testing.T) {
	for _, tc := range []struct {
		name    string
		grammar string
		symbols []string
		want    func(w string) bool
	}{
		{
			name:    "a*b",
			grammar: abGrammar,
			symbols: []string{"a", "b"},
			want: func(w string) bool {
				return strings.HasSuffix(w, "b") && strings.Count(w, "b") == 1
			},
		},
		{
			name:    "balanced",
			grammar: "S -> ( S ) S | ε",
			symbols: []string{"(", ")"},
			want: func(w string) bool {
				depth := 0
				for _, r := range w {
					if r == '(' {
						depth++
					} else if depth--; depth < 0 {
						return false
					}
				}
				return depth == 0
			},
		},
		{
			name:    "anbn",
			grammar: "S -> a S b | a b",
			symbols: []string{"a", "b"},
			want: func(w string) bool {
				n := len(w) / 2
				return n > 0 && w == strings.Repeat("a", n)+strings.Repeat("b", n)
			},
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			ab := automaton.NewAlphabet()
			g, err := ParseGrammar(strings.NewReader(tc.grammar), ab)
			require.NoError(t, err)
			p, err := CFGToPDA(g)
			require.NoError(t, err)
			for _, w := range automaton.Words(ab.Symbols(tc.symbols...), 6) {
				var sb strings.Builder
				for _, in := range w {
					sb.WriteString(in.Name)
				}
				got, err := p.Accepts(w)
				require.NoError(t, err)
				require.Equal(t, tc.want(sb.String()), got, automaton.ShowWord(w))
			}
		})
	}
}

func TestCFGToPDAInvalid(t *testing.T) {
	_, err := CFGToPDA(NewGrammar("g", nil))
	assert.ErrorIs(t, err, ErrNoStart)
}
