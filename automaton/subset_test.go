package automaton_test

import (
	"fmt"
	"sort"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"

	"github.com/liran-funaro/automata/automaton"
)

func stateNames(states []*automaton.State) []string {
	names := make([]string, len(states))
	for i, s := range states {
		names[i] = s.Name
	}
	sort.Strings(names)
	return names
}

func TestSubsetsSize(t *testing.T) {
	for n := 0; n <= 5; n++ {
		set := automaton.NewStateSet()
		for i := 0; i < n; i++ {
			set.Add(automaton.NewState(fmt.Sprintf("s%d", i)))
		}
		subs := automaton.Subsets(set)
		require.Len(t, subs, 1<<n)
		for i := 1; i < len(subs); i++ {
			require.LessOrEqual(t, subs[i-1].Name, subs[i].Name)
		}
	}
	require.Equal(t, "{}", automaton.Subsets(automaton.NewStateSet())[0].Name)
}

func TestMergedStateNames(t *testing.T) {
	b, a := automaton.NewState("b"), automaton.NewState("a")
	subs := automaton.Subsets(automaton.NewStateSet(b, a))
	require.Equal(t, []string{"{a,b}", "{a}", "{b}", "{}"}, stateNames(subs))
	for _, s := range subs {
		if s.Name == "{a,b}" {
			require.Equal(t, []*automaton.State{a, b}, s.Members())
		}
	}
}

// abb accepts (a|b)*abb, the classic subset construction example.
func abb() (*automaton.NFA, []*automaton.Input) {
	ab := automaton.NewAlphabet()
	a, b := ab.Symbol("a"), ab.Symbol("b")
	q := automaton.NewStates("0", "1", "2", "3")
	n := automaton.NewNFA("abb", q[0], q[3])
	n.AddTransition(q[0], a, q[0], q[1])
	n.AddTransition(q[0], b, q[0])
	n.AddTransition(q[1], b, q[2])
	n.AddTransition(q[2], b, q[3])
	return n, []*automaton.Input{a, b}
}

// epsilonHeavy has an ε-cycle, a dead end and a state unreachable from the
// initial state.
func epsilonHeavy() (*automaton.NFA, []*automaton.Input) {
	ab := automaton.NewAlphabet()
	a, b := ab.Symbol("a"), ab.Symbol("b")
	q := automaton.NewStates("p", "q", "r", "s", "u")
	n := automaton.NewNFA("eps", q[0], q[3])
	n.AddTransition(q[0], automaton.Epsilon, q[1])
	n.AddTransition(q[1], automaton.Epsilon, q[0])
	n.AddTransition(q[1], a, q[2])
	n.AddTransition(q[2], automaton.Epsilon, q[3])
	n.AddTransition(q[3], b, q[1])
	n.AddTransition(q[4], a, q[4])
	n.AddTransition(q[4], b, q[3])
	return n, []*automaton.Input{a, b}
}

func TestToDFAEquivalence(t *testing.T) {
	for name, build := range map[string]func() (*automaton.NFA, []*automaton.Input){
		"abb": abb,
		"eps": epsilonHeavy,
	} {
		t.Run(name, func(t *testing.T) {
			logger, hook := test.NewNullLogger()
			logger.SetLevel(logrus.DebugLevel)
			n, symbols := build()
			n.SetLogger(logger)
			lazy := automaton.ToDFA(n)
			full, err := automaton.ToDFAPowerset(n)
			require.NoError(t, err)
			for _, w := range automaton.Words(symbols, 7) {
				want := n.Accepts(w)
				require.Equal(t, want, lazy.Accepts(w), "ToDFA on %s", automaton.ShowWord(w))
				require.Equal(t, want, full.Accepts(w), "ToDFAPowerset on %s", automaton.ShowWord(w))
			}
			require.Equal(t, stateNames(lazy.States()), stateNames(full.States()))
			require.Equal(t, lazy.Initial.Name, full.Initial.Name)
			for _, e := range hook.AllEntries() {
				require.NotEqual(t, logrus.WarnLevel, e.Level, "unexpected warning: %s", e.Message)
			}
		})
	}
}

func TestToDFAIsDeterministicAndTotal(t *testing.T) {
	n, symbols := abb()
	d := automaton.ToDFA(n)
	require.Len(t, d.States(), 4)
	require.Equal(t, "{0}", d.Initial.Name)
	for _, s := range d.States() {
		require.NotNil(t, s.Members(), "%s is not a merged state", s.Name)
		for _, in := range symbols {
			_, ok := d.Transition(s, in)
			require.True(t, ok, "δ(%s,%s) undefined", s.Name, in.Name)
		}
	}
	require.Equal(t, []string{"{0,3}"}, stateNames(d.Finals.Items()))
}

func TestToDFAKeepsDeadState(t *testing.T) {
	ab := automaton.NewAlphabet()
	a, b := ab.Symbol("a"), ab.Symbol("b")
	n := word(a, b)
	d := automaton.ToDFA(n)
	dead, ok := d.Transition(d.Initial, b)
	require.True(t, ok)
	require.Equal(t, "{}", dead.Name)
	require.False(t, d.IsFinal(dead))
	require.False(t, d.Accepts([]*automaton.Input{b, a, b}))
	require.True(t, d.Accepts([]*automaton.Input{a, b}))
}

func TestPrune(t *testing.T) {
	ab := automaton.NewAlphabet()
	a := ab.Symbol("a")
	q := automaton.NewStates("init", "live", "orphan", "c1", "c2", "tail")
	d := automaton.NewDFA("d", q[0], q[1], q[3])
	d.AddTransition(q[0], a, q[1])
	d.AddTransition(q[1], a, q[1])
	d.AddTransition(q[2], a, q[5])
	d.AddTransition(q[3], a, q[4])
	d.AddTransition(q[4], a, q[3])

	removed := automaton.Prune(d)
	require.Equal(t, []string{"c1", "c2", "orphan", "tail"}, stateNames(removed))
	require.Equal(t, []string{"init", "live"}, stateNames(d.States()))
	require.Equal(t, []string{"live"}, stateNames(d.Finals.Items()))
}

func TestToDFAPowersetTooLarge(t *testing.T) {
	ab := automaton.NewAlphabet()
	a := ab.Symbol("a")
	q := make([]*automaton.State, automaton.MaxPowersetStates+1)
	for i := range q {
		q[i] = automaton.NewState(fmt.Sprintf("q%d", i))
	}
	n := automaton.NewNFA("chain", q[0], q[len(q)-1])
	for i := 1; i < len(q); i++ {
		n.AddTransition(q[i-1], a, q[i])
	}

	_, err := automaton.ToDFAPowerset(n)
	require.ErrorIs(t, err, automaton.ErrPowersetTooLarge)
	require.Len(t, automaton.ToDFA(n).States(), len(q)+1)
}
