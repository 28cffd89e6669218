package regex

import (
	"github.com/liran-funaro/automata/automaton"
)

const (
	mLiteral = iota
	mEpsilon
	mEmpty
	mUnion
	mConcat
	mStar
)

type mnode struct {
	kind        int
	in          *automaton.Input // Input for literal nodes.
	left, right *mnode           // Operands; star nodes only use left.
}

// Matcher matches words directly against an expression by backtracking,
// without building an automaton.
type Matcher struct {
	root *mnode
}

// Compile builds the matcher of e.
func Compile(e Expr) *Matcher {
	return &Matcher{root: compile(e)}
}

func compile(e Expr) *mnode {
	switch e := e.(type) {
	case Literal:
		if e.Input == automaton.Epsilon {
			return &mnode{kind: mEpsilon}
		}
		return &mnode{kind: mLiteral, in: e.Input}
	case Epsilon:
		return &mnode{kind: mEpsilon}
	case Empty:
		return &mnode{kind: mEmpty}
	case Union:
		return &mnode{kind: mUnion, left: compile(e.Left), right: compile(e.Right)}
	case Concat:
		return &mnode{kind: mConcat, left: compile(e.Left), right: compile(e.Right)}
	case Star:
		return &mnode{kind: mStar, left: compile(e.Inner)}
	default:
		panic(unknown(e))
	}
}

type span struct {
	n    *mnode
	i, j int
}

type matchRun struct {
	word []*automaton.Input
	memo map[span]bool
}

// Match reports whether the whole of word matches. Concatenations try every
// split point and stars every partition into non-empty pieces. Results are
// memoised per node and span, which bounds the work by the square of the word
// length times the expression size.
func (m *Matcher) Match(word []*automaton.Input) bool {
	r := matchRun{word: word, memo: make(map[span]bool)}
	return r.match(m.root, 0, len(word))
}

func (r *matchRun) match(n *mnode, i, j int) bool {
	k := span{n, i, j}
	if v, ok := r.memo[k]; ok {
		return v
	}
	v := r.eval(n, i, j)
	r.memo[k] = v
	return v
}

func (r *matchRun) eval(n *mnode, i, j int) bool {
	switch n.kind {
	case mLiteral:
		return j == i+1 && r.word[i] == n.in
	case mEpsilon:
		return i == j
	case mEmpty:
		return false
	case mUnion:
		return r.match(n.left, i, j) || r.match(n.right, i, j)
	case mConcat:
		for k := i; k <= j; k++ {
			if r.match(n.left, i, k) && r.match(n.right, k, j) {
				return true
			}
		}
		return false
	case mStar:
		if i == j {
			return true
		}
		for k := i + 1; k <= j; k++ {
			if r.match(n.left, i, k) && r.match(n, k, j) {
				return true
			}
		}
		return false
	}
	panic("regex: unknown matcher node")
}
