package exec

import (
	"bytes"
	"os"
	"strings"
	"testing"

	"github.com/rogpeppe/go-internal/testscript"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	os.Exit(testscript.RunMain(m, map[string]func() int{
		"automata": Main,
	}))
}

func TestScripts(t *testing.T) {
	testscript.Run(t, testscript.Params{
		Dir: "testdata/script",
	})
}

func run(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	p, err := parseParams("automata", strings.NewReader(stdin), &stdout, &stderr, args...)
	if err != nil {
		return stdout.String(), stderr.String(), err
	}
	err = ExecuteWithParams(p)
	return stdout.String(), stderr.String(), err
}

func TestMatch(t *testing.T) {
	out, _, err := run(t, "", "match", "(ab)*", "", "ab", "aba", "abab")
	require.NoError(t, err)
	assert.Equal(t, "accept \"\"\naccept \"ab\"\nreject \"aba\"\naccept \"abab\"\n", out)
}

func TestMatchPowersetAgrees(t *testing.T) {
	words := []string{"", "a", "abb", "aabb", "babb", "abba"}
	lazy, _, err := run(t, "", append([]string{"match", "(a|b)*abb"}, words...)...)
	require.NoError(t, err)
	powerset, _, err := run(t, "", append([]string{"-powerset", "match", "(a|b)*abb"}, words...)...)
	require.NoError(t, err)
	assert.Equal(t, lazy, powerset)
}

func TestUnify(t *testing.T) {
	out, _, err := run(t, "", "unify", "(a, (b, 42))", "((1, c), (24, c))")
	require.NoError(t, err)
	assert.Equal(t, "{a: (1, 42), b: 24, c: 42}\n", out)
}

func TestPDAFromStdin(t *testing.T) {
	out, _, err := run(t, "S -> ( S ) S | ε\n", "pda", "-", "()", "(()())", "(()")
	require.NoError(t, err)
	assert.Equal(t, "accept \"()\"\naccept \"(()())\"\nreject \"(()\"\n", out)
}

func TestCheck(t *testing.T) {
	out, _, err := run(t, "", "-maxlen", "3", "check", "a|bc*")
	require.NoError(t, err)
	assert.Contains(t, out, `ok "a|bc*": `)
	assert.Contains(t, out, "up to length 3")
}

func TestVerboseLogging(t *testing.T) {
	_, stderr, err := run(t, "", "-v", "regex", "ab")
	require.NoError(t, err)
	assert.Contains(t, stderr, "level=debug")
	assert.Contains(t, stderr, `msg="built automata"`)
}

func TestErrors(t *testing.T) {
	_, stderr, err := run(t, "")
	require.ErrorIs(t, err, ErrNoCommand)
	assert.Contains(t, stderr, "usage: automata")

	_, _, err = run(t, "", "frobnicate")
	require.ErrorIs(t, err, ErrUnknownCommand)

	_, _, err = run(t, "", "unify", "a")
	require.ErrorIs(t, err, ErrArgs)

	_, _, err = run(t, "", "-maxlen", "-1", "check", "a")
	require.Error(t, err)
}
