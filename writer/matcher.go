// Package writer generates Go source for automata.
package writer

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"go/format"
	"io"
	"unicode"
	"unicode/utf8"

	"golang.org/x/tools/imports"

	"github.com/liran-funaro/automata/automaton"
)

var (
	ErrBadIdentifier = errors.New("not a Go identifier")
	ErrDuplicateName = errors.New("inputs share a name")
)

// MatcherBuilder emits a table-driven Go matcher for a DFA.
//
// The generated file declares FuncName(symbols []string) bool, which runs the
// DFA over symbol names, and FuncName+"String"(s string) bool, which reads one
// symbol per rune. Like automaton.DFA, undefined transitions keep the current
// state and "RESET" returns to the initial one.
type MatcherBuilder struct {
	Package  string // Defaults to "main".
	FuncName string // Defaults to "Match".
	Command  string // Written in the "Code generated by" header.

	out *bufio.Writer
	err error
}

func (b *MatcherBuilder) writeString(s string) {
	if b.err != nil {
		return
	}
	_, b.err = b.out.WriteString(s)
}

func (b *MatcherBuilder) writef(format string, a ...any) {
	if b.err != nil {
		return
	}
	_, b.err = fmt.Fprintf(b.out, format, a...)
}

func isIdentifier(s string) bool {
	for i, r := range s {
		if !unicode.IsLetter(r) && r != '_' && (i == 0 || !unicode.IsDigit(r)) {
			return false
		}
	}
	return s != ""
}

// unexported lowers the first rune of name.
func unexported(name string) string {
	r, size := utf8.DecodeRuneInString(name)
	return string(unicode.ToLower(r)) + name[size:]
}

// DumpFormattedMatcher returns the gofmt-ed matcher source of d.
func (b *MatcherBuilder) DumpFormattedMatcher(d *automaton.DFA) ([]byte, error) {
	pkg, fn := b.Package, b.FuncName
	if pkg == "" {
		pkg = "main"
	}
	if fn == "" {
		fn = "Match"
	}
	for _, id := range []string{pkg, fn} {
		if !isIdentifier(id) {
			return nil, fmt.Errorf("%w: %q", ErrBadIdentifier, id)
		}
	}
	names := make(map[string]bool)
	for _, in := range d.Inputs() {
		if names[in.Name] {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateName, in.Name)
		}
		names[in.Name] = true
	}
	command := b.Command
	if command == "" {
		command = "automata gen"
	}

	var outputBuffer bytes.Buffer
	b.out = bufio.NewWriter(&outputBuffer)
	b.err = nil

	states := d.States()
	index := make(map[*automaton.State]int, len(states))
	for i, s := range states {
		index[s] = i
	}
	prefix := unexported(fn)

	b.writef("// Code generated by %s --- DO NOT EDIT.\n\n", command)
	b.writef("package %s\n\n", pkg)
	b.writef("// %s reports whether the DFA %q accepts symbols.\n", fn, d.Name)
	b.writef("func %s(symbols []string) bool {\n", fn)
	b.writeString("s := 0\n")
	b.writeString("for _, sym := range symbols {\n")
	b.writef("if sym == %q {\n s = 0\n continue\n}\n", automaton.Reset.Name)
	b.writef("s = %sStep[s](sym)\n", prefix)
	b.writeString("}\n")
	b.writef("return %sAccept[s]\n}\n\n", prefix)

	b.writef("// %sString runs %s over the runes of s.\n", fn, fn)
	b.writef("func %sString(s string) bool {\n", fn)
	b.writef("return %s(strings.Split(s, \"\"))\n}\n\n", fn)

	b.writef("var %sAccept = []bool{", prefix)
	for _, s := range states {
		b.writef("%t,", d.IsFinal(s))
	}
	b.writeString("}\n\n")

	b.writef("var %sStep = []func(string) int{\n", prefix)
	for i, s := range states {
		b.writef("// %s\n", s.Name)
		b.writeString("func(sym string) int {\n")
		var cases []string
		for _, in := range d.Inputs() {
			if to, ok := d.Transition(s, in); ok {
				cases = append(cases, fmt.Sprintf("case %q: return %d\n", in.Name, index[to]))
			}
		}
		if len(cases) > 0 {
			b.writeString("switch sym {\n")
			for _, c := range cases {
				b.writeString(c)
			}
			b.writeString("}\n")
		}
		b.writef("return %d\n},\n", i)
	}
	b.writeString("}\n")

	if b.err == nil {
		b.err = b.out.Flush()
	}
	if b.err != nil {
		return nil, b.err
	}
	return formatCode(outputBuffer.Bytes())
}

// WriteMatcher writes the matcher source of d to w.
func WriteMatcher(w io.Writer, d *automaton.DFA, b *MatcherBuilder) error {
	if b == nil {
		b = &MatcherBuilder{}
	}
	code, err := b.DumpFormattedMatcher(d)
	if err != nil {
		return fmt.Errorf("dump matcher: %w", err)
	}
	_, err = w.Write(code)
	return err
}

func formatCode(src []byte) ([]byte, error) {
	src, err := format.Source(src)
	if err != nil {
		return src, err
	}
	return imports.Process("main.go", src, &imports.Options{
		TabWidth:  8,
		TabIndent: true,
		Comments:  true,
		Fragment:  true,
	})
}
