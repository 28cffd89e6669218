package exec

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/manifoldco/promptui"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/liran-funaro/automata/automaton"
	"github.com/liran-funaro/automata/cfg"
	"github.com/liran-funaro/automata/internal/ordered"
	"github.com/liran-funaro/automata/regex"
	"github.com/liran-funaro/automata/unify"
	"github.com/liran-funaro/automata/writer"
)

var ErrMismatch = errors.New("constructions disagree")

// pipeline holds every automaton built from one pattern.
type pipeline struct {
	alphabet *automaton.Alphabet
	expr     regex.Expr
	nfa      *automaton.NFA
	dfa      *automaton.DFA
}

func (p *Params) build(pattern string) (*pipeline, error) {
	ab := automaton.NewAlphabet()
	e, err := regex.Parse(pattern, ab)
	if err != nil {
		return nil, fmt.Errorf("parse %q: %w", pattern, err)
	}
	nfa := regex.ToNFA(e)
	nfa.Name = pattern
	nfa.SetLogger(p.log.WithField("pattern", pattern))
	if err := writeWithWriter(p.NfaDotOutputFilename, nfa.WriteDot); err != nil {
		return nil, err
	}

	var dfa *automaton.DFA
	if p.Powerset {
		if dfa, err = automaton.ToDFAPowerset(nfa); err != nil {
			return nil, fmt.Errorf("%q: %w", pattern, err)
		}
	} else {
		dfa = automaton.ToDFA(nfa)
	}
	if err := writeWithWriter(p.DfaDotOutputFilename, dfa.WriteDot); err != nil {
		return nil, err
	}
	p.log.WithFields(logrus.Fields{
		"pattern":    pattern,
		"nfa_states": len(nfa.States()),
		"dfa_states": len(dfa.States()),
	}).Debug("built automata")
	return &pipeline{alphabet: ab, expr: e, nfa: nfa, dfa: dfa}, nil
}

func runNFA(p *Params) error {
	pl, err := p.build(p.Args[0])
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(p.Stdout, pl.nfa)
	return err
}

func runDFA(p *Params) error {
	pl, err := p.build(p.Args[0])
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(p.Stdout, pl.dfa)
	return err
}

func runRegex(p *Params) error {
	pl, err := p.build(p.Args[0])
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(p.Stdout, regex.DFAToRegex(pl.dfa))
	return err
}

func verdict(ok bool) string {
	if ok {
		return "accept"
	}
	return "reject"
}

// accepts runs the DFA on the runes of word. Symbols the pattern never
// mentions reject the word instead of leaving the DFA in place.
func (pl *pipeline) accepts(log logrus.FieldLogger, word string) bool {
	known := ordered.NewSet(pl.dfa.Inputs()...)
	inputs := pl.alphabet.Word(word)
	for _, in := range inputs {
		if !known.Has(in) {
			log.WithFields(logrus.Fields{
				"word":   word,
				"symbol": in.Name,
			}).Info("symbol outside the alphabet")
			return false
		}
	}
	return pl.dfa.Accepts(inputs)
}

func runMatch(p *Params) error {
	pl, err := p.build(p.Args[0])
	if err != nil {
		return err
	}
	for _, word := range p.Args[1:] {
		ok := pl.accepts(p.log, word)
		if _, err := fmt.Fprintf(p.Stdout, "%s %q\n", verdict(ok), word); err != nil {
			return err
		}
	}
	return nil
}

// check compares the matcher of the expression, its NFA, its DFA and the
// expression read back from the DFA on every word up to maxLen.
func (pl *pipeline) check(ctx context.Context, maxLen int) error {
	back := regex.DFAToRegex(pl.dfa)
	direct, roundTrip := regex.Compile(pl.expr), regex.Compile(back)
	for _, w := range automaton.Words(pl.nfa.Symbols(), maxLen) {
		if err := ctx.Err(); err != nil {
			return err
		}
		want := direct.Match(w)
		for name, got := range map[string]bool{
			"nfa":   pl.nfa.Accepts(w),
			"dfa":   pl.dfa.Accepts(w),
			"regex": roundTrip.Match(w),
		} {
			if got != want {
				return fmt.Errorf("%w: %s on %s: %t, expression: %t", ErrMismatch, name, automaton.ShowWord(w), got, want)
			}
		}
	}
	return nil
}

func runCheck(p *Params) error {
	pipelines := make([]*pipeline, len(p.Args))
	for i, pattern := range p.Args {
		pl, err := p.build(pattern)
		if err != nil {
			return err
		}
		pipelines[i] = pl
	}

	g, ctx := errgroup.WithContext(context.Background())
	for i, pl := range pipelines {
		pattern := p.Args[i]
		g.Go(func() error {
			if err := pl.check(ctx, p.MaxLen); err != nil {
				return fmt.Errorf("%q: %w", pattern, err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	for i, pl := range pipelines {
		if _, err := fmt.Fprintf(p.Stdout, "ok %q: %d NFA states, %d DFA states, up to length %d\n",
			p.Args[i], len(pl.nfa.States()), len(pl.dfa.States()), p.MaxLen); err != nil {
			return err
		}
	}
	return nil
}

func runGen(p *Params) error {
	pl, err := p.build(p.Args[0])
	if err != nil {
		return err
	}
	b := &writer.MatcherBuilder{
		Package:  p.Package,
		FuncName: p.FuncName,
		Command:  "automata gen " + p.Args[0],
	}
	if p.OutputFilename == "" {
		return writer.WriteMatcher(p.Stdout, pl.dfa, b)
	}
	code, err := b.DumpFormattedMatcher(pl.dfa)
	if err != nil {
		return fmt.Errorf("dump matcher: %w", err)
	}
	if err := os.WriteFile(p.OutputFilename, code, 0666); err != nil {
		return fmt.Errorf("write matcher: %w", err)
	}
	return nil
}

func (p *Params) readGrammar(filename string) (*cfg.Grammar, *automaton.Alphabet, error) {
	var in io.Reader = p.Stdin
	name := "stdin"
	if filename != "-" {
		f, err := os.Open(filename)
		if err != nil {
			return nil, nil, fmt.Errorf("open input: %w", err)
		}
		defer closeFile(f)
		in, name = f, filename
	}
	ab := automaton.NewAlphabet()
	g, err := cfg.ParseGrammar(in, ab)
	if err != nil {
		return nil, nil, fmt.Errorf("parse %s: %w", name, err)
	}
	g.Name = name
	return g, ab, nil
}

func runPDA(p *Params) error {
	g, ab, err := p.readGrammar(p.Args[0])
	if err != nil {
		return err
	}
	pda, err := cfg.CFGToPDA(g)
	if err != nil {
		return err
	}
	pda.SetLogger(p.log.WithField("grammar", g.Name))
	if err := writeWithWriter(p.PdaDotOutputFilename, pda.WriteDot); err != nil {
		return err
	}
	if len(p.Args) == 1 {
		_, err = fmt.Fprintf(p.Stdout, "%s\n%s\n", g, pda)
		return err
	}
	for _, word := range p.Args[1:] {
		ok, err := pda.Accepts(ab.Word(word))
		if err != nil {
			return err
		}
		if _, err := fmt.Fprintf(p.Stdout, "%s %q\n", verdict(ok), word); err != nil {
			return err
		}
	}
	return nil
}

func runUnify(p *Params) error {
	a, err := unify.ParseExpr(p.Args[0])
	if err != nil {
		return err
	}
	b, err := unify.ParseExpr(p.Args[1])
	if err != nil {
		return err
	}
	s, err := unify.MGU(a, b, nil)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(p.Stdout, s)
	return err
}

type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error { return nil }

func runREPL(p *Params) error {
	pl, err := p.build(p.Args[0])
	if err != nil {
		return err
	}
	accepted := promptui.Styler(promptui.FGGreen)
	rejected := promptui.Styler(promptui.FGRed)
	prompt := promptui.Prompt{
		Label:  p.Args[0],
		Stdin:  io.NopCloser(p.Stdin),
		Stdout: nopWriteCloser{p.Stdout},
	}
	for {
		word, err := prompt.Run()
		if errors.Is(err, promptui.ErrEOF) || errors.Is(err, promptui.ErrInterrupt) {
			return nil
		}
		if err != nil {
			return err
		}
		if pl.accepts(p.log, word) {
			_, err = fmt.Fprintln(p.Stdout, accepted("accept "+word))
		} else {
			_, err = fmt.Fprintln(p.Stdout, rejected("reject "+word))
		}
		if err != nil {
			return err
		}
	}
}
