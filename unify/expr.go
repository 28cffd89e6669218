// Package unify implements first-order unification over constants, variables
// and tuples of expressions.
package unify

import (
	"fmt"
	"reflect"
	"sort"
	"strings"
)

// Expr is a Const, a Var or a Term.
type Expr interface {
	fmt.Stringer
	isExpr()
}

// Const is a ground value. Constants are equal when their values are deeply
// equal.
type Const struct {
	Value any
}

// Var is a variable, identified by name.
type Var struct {
	Name string
}

// Term is a tuple of expressions.
type Term struct {
	Atoms []Expr
}

func (Const) isExpr() {}
func (Var) isExpr()   {}
func (Term) isExpr()  {}

func (c Const) String() string {
	if s, ok := c.Value.(string); ok {
		return fmt.Sprintf("%q", s)
	}
	return fmt.Sprint(c.Value)
}

func (v Var) String() string { return v.Name }

func (t Term) String() string {
	parts := make([]string, len(t.Atoms))
	for i, a := range t.Atoms {
		parts[i] = a.String()
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

// NewTerm builds a Term of atoms.
func NewTerm(atoms ...Expr) Term {
	return Term{Atoms: atoms}
}

// Equal reports structural equality. Expressions of different kinds are never
// equal.
func Equal(a, b Expr) bool {
	switch a := a.(type) {
	case Const:
		b, ok := b.(Const)
		return ok && reflect.DeepEqual(a.Value, b.Value)
	case Var:
		b, ok := b.(Var)
		return ok && a.Name == b.Name
	case Term:
		b, ok := b.(Term)
		if !ok || len(a.Atoms) != len(b.Atoms) {
			return false
		}
		for i := range a.Atoms {
			if !Equal(a.Atoms[i], b.Atoms[i]) {
				return false
			}
		}
		return true
	}
	return false
}

// Occurs reports whether the variable name appears in e.
func Occurs(name string, e Expr) bool {
	switch e := e.(type) {
	case Var:
		return e.Name == name
	case Term:
		for _, a := range e.Atoms {
			if Occurs(name, a) {
				return true
			}
		}
	}
	return false
}

// Ground reports whether e contains no variable.
func Ground(e Expr) bool {
	switch e := e.(type) {
	case Var:
		return false
	case Term:
		for _, a := range e.Atoms {
			if !Ground(a) {
				return false
			}
		}
	}
	return true
}

// Replace returns e with every occurrence of the variable name replaced by
// value.
func Replace(e Expr, name string, value Expr) Expr {
	switch e := e.(type) {
	case Var:
		if e.Name == name {
			return value
		}
	case Term:
		atoms := make([]Expr, len(e.Atoms))
		for i, a := range e.Atoms {
			atoms[i] = Replace(a, name, value)
		}
		return Term{Atoms: atoms}
	}
	return e
}

// Substitution binds variable names to expressions. Unify mutates it in place,
// so it must not be shared between goroutines.
type Substitution map[string]Expr

func (s Substitution) names() []string {
	names := make([]string, 0, len(s))
	for n := range s {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// String prints the bindings sorted by name: "{a: (24, 42), b: 24}".
func (s Substitution) String() string {
	parts := make([]string, 0, len(s))
	for _, n := range s.names() {
		parts = append(parts, n+": "+s[n].String())
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

// Eliminate returns e with every bound variable replaced by its resolved
// binding. Unbound variables are kept.
func Eliminate(e Expr, s Substitution) Expr {
	switch e := e.(type) {
	case Var:
		if b, ok := s[e.Name]; ok {
			return Eliminate(b, s)
		}
	case Term:
		atoms := make([]Expr, len(e.Atoms))
		for i, a := range e.Atoms {
			atoms[i] = Eliminate(a, s)
		}
		return Term{Atoms: atoms}
	}
	return e
}
