// Package exec implements the automata command line.
package exec

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"
)

var (
	ErrNoCommand      = errors.New("no command given")
	ErrUnknownCommand = errors.New("unknown command")
	ErrArgs           = errors.New("wrong number of arguments")
)

type Params struct {
	Command              string
	Args                 []string
	OutputFilename       string
	NfaDotOutputFilename string
	DfaDotOutputFilename string
	PdaDotOutputFilename string
	Package              string
	FuncName             string
	Powerset             bool
	MaxLen               int
	Verbose              bool
	EnvFilename          string
	Stdin                io.Reader
	Stdout               io.Writer
	Stderr               io.Writer

	log *logrus.Logger
}

type command struct {
	usage   string
	minArgs int
	maxArgs int // -1 for any.
	run     func(p *Params) error
}

var commands map[string]command

func init() {
	commands = map[string]command{
		"nfa":   {"nfa PATTERN: print the Thompson NFA of PATTERN", 1, 1, runNFA},
		"dfa":   {"dfa PATTERN: print the DFA of PATTERN", 1, 1, runDFA},
		"regex": {"regex PATTERN: convert PATTERN to a DFA and back to an expression", 1, 1, runRegex},
		"match": {"match PATTERN WORD...: run the DFA of PATTERN on each WORD", 1, -1, runMatch},
		"check": {"check PATTERN...: cross-check every construction on all short words", 1, -1, runCheck},
		"gen":   {"gen PATTERN: generate a Go matcher for PATTERN", 1, 1, runGen},
		"pda":   {"pda GRAMMAR [WORD...]: build the PDA of the grammar file (- for stdin)", 1, -1, runPDA},
		"unify": {"unify EXPR EXPR: print the most general unifier", 2, 2, runUnify},
		"repl":  {"repl PATTERN: interactively match words against PATTERN", 1, 1, runREPL},
	}
}

func usage(f *flag.FlagSet) func() {
	return func() {
		out := f.Output()
		_, _ = fmt.Fprintf(out, "usage: %s [flags] COMMAND ARGS...\n\ncommands:\n", f.Name())
		names := make([]string, 0, len(commands))
		for name := range commands {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			_, _ = fmt.Fprintf(out, "  %s\n", commands[name].usage)
		}
		_, _ = fmt.Fprintln(out, "\nflags:")
		f.PrintDefaults()
	}
}

func ParseParams(name string, args ...string) (*Params, error) {
	return parseParams(name, os.Stdin, os.Stdout, os.Stderr, args...)
}

func parseParams(name string, stdin io.Reader, stdout, stderr io.Writer, args ...string) (*Params, error) {
	f := flag.NewFlagSet(name, flag.ContinueOnError)
	f.SetOutput(stderr)
	f.Usage = usage(f)
	p := &Params{
		Stdin:  stdin,
		Stdout: stdout,
		Stderr: stderr,
	}
	f.StringVar(&p.OutputFilename, "o", "", `output file for gen`)
	f.StringVar(&p.NfaDotOutputFilename, "nfadot", "", `write the NFA graph in DOT format`)
	f.StringVar(&p.DfaDotOutputFilename, "dfadot", "", `write the DFA graph in DOT format`)
	f.StringVar(&p.PdaDotOutputFilename, "pdadot", "", `write the PDA graph of pda in DOT format`)
	f.StringVar(&p.Package, "pkg", "main", `package of the generated matcher`)
	f.StringVar(&p.FuncName, "func", "Match", `name of the generated matcher function`)
	f.BoolVar(&p.Powerset, "powerset", false, `build DFAs by enumerating every subset`)
	f.IntVar(&p.MaxLen, "maxlen", 0, `longest word checked by check (default $`+envMaxLen+` or 6)`)
	f.BoolVar(&p.Verbose, "v", false, `log debug diagnostics`)
	f.StringVar(&p.EnvFilename, "env", "", `load environment variables from file, overriding the environment`)

	if err := f.Parse(args); err != nil {
		return nil, err
	}
	if f.NArg() == 0 {
		f.Usage()
		return nil, ErrNoCommand
	}
	p.Command, p.Args = f.Arg(0), f.Args()[1:]
	if err := p.loadConfig(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return p, nil
}

func Execute(name string, args ...string) error {
	p, err := ParseParams(name, args...)
	if err != nil {
		return fmt.Errorf("parse-params: %w", err)
	}
	return ExecuteWithParams(p)
}

func ExecuteWithParams(p *Params) error {
	cmd, ok := commands[p.Command]
	if !ok {
		return fmt.Errorf("%w %q", ErrUnknownCommand, p.Command)
	}
	if len(p.Args) < cmd.minArgs || (cmd.maxArgs >= 0 && len(p.Args) > cmd.maxArgs) {
		return fmt.Errorf("%w: usage: %s", ErrArgs, cmd.usage)
	}
	if p.log == nil {
		p.log = newLogger(p.Stderr, logrus.WarnLevel)
	}
	p.log.WithFields(logrus.Fields{
		"command": p.Command,
		"args":    strings.Join(p.Args, " "),
	}).Debug("running")
	if err := cmd.run(p); err != nil {
		return fmt.Errorf("%s: %w", p.Command, err)
	}
	return nil
}

// Main runs the command line and returns the process exit code.
func Main() int {
	if err := Execute(os.Args[0], os.Args[1:]...); err != nil {
		if !errors.Is(err, flag.ErrHelp) {
			_, _ = fmt.Fprintf(os.Stderr, "%s: %v\n", os.Args[0], err)
		}
		return 1
	}
	return 0
}

func closeFile(f *os.File) {
	_ = f.Close()
}

func writeWithWriter(filepath string, writer func(io.Writer) error) error {
	if filepath == "" {
		return nil
	}
	f, err := os.Create(filepath)
	if err != nil {
		return fmt.Errorf("write graph: %w", err)
	}
	defer closeFile(f)
	return writer(f)
}
