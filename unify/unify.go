package unify

import (
	"github.com/pkg/errors"
	"golang.org/x/exp/maps"
)

var (
	ErrValueMismatch = errors.New("constants differ")
	ErrKindMismatch  = errors.New("cannot unify a constant with a term")
	ErrArityMismatch = errors.New("terms differ in arity")
	ErrOccursCheck   = errors.New("variable occurs in its own binding")
)

func mismatch(err error, a, b Expr) error {
	return errors.Wrapf(err, "unify %s with %s", a, b)
}

// Unify extends s so that a and b become equal under it.
//
// Failures wrap ErrValueMismatch, ErrKindMismatch, ErrArityMismatch or
// ErrOccursCheck and name the two expressions that failed. Bindings made before
// a failure stay in s; use MGU to keep s untouched on failure.
func Unify(a, b Expr, s Substitution) error {
	switch a := a.(type) {
	case Const:
		switch b := b.(type) {
		case Const:
			if !Equal(a, b) {
				return mismatch(ErrValueMismatch, a, b)
			}
			return nil
		case Var:
			return unifyVar(b, a, s)
		case Term:
			return mismatch(ErrKindMismatch, a, b)
		}
	case Var:
		return unifyVar(a, b, s)
	case Term:
		switch b := b.(type) {
		case Const:
			return mismatch(ErrKindMismatch, a, b)
		case Var:
			return unifyVar(b, a, s)
		case Term:
			if len(a.Atoms) != len(b.Atoms) {
				return mismatch(ErrArityMismatch, a, b)
			}
			for i := range a.Atoms {
				if err := Unify(a.Atoms[i], b.Atoms[i], s); err != nil {
					return err
				}
			}
			return nil
		}
	}
	return errors.Errorf("unify: unknown expressions %T and %T", a, b)
}

func unifyVar(v Var, e Expr, s Substitution) error {
	if bound, ok := s[v.Name]; ok {
		return Unify(bound, e, s)
	}
	switch e := e.(type) {
	case Const:
		s[v.Name] = e
		s.flush(v.Name)
	case Var:
		if e.Name == v.Name {
			return nil
		}
		if bound, ok := s[e.Name]; ok {
			return Unify(v, bound, s)
		}
		s[v.Name] = e
	case Term:
		t := Eliminate(e, s)
		if Occurs(v.Name, t) {
			return mismatch(ErrOccursCheck, v, t)
		}
		s[v.Name] = t
		if Ground(t) {
			s.flush(v.Name)
		}
	}
	return nil
}

// flush substitutes the ground binding of name into every other binding
// mentioning it. Bindings that become ground are flushed in turn.
func (s Substitution) flush(name string) {
	pending := []string{name}
	for len(pending) > 0 {
		n := pending[len(pending)-1]
		pending = pending[:len(pending)-1]
		value := s[n]
		for _, k := range s.names() {
			if k == n || !Occurs(n, s[k]) {
				continue
			}
			s[k] = Replace(s[k], n, value)
			if Ground(s[k]) {
				pending = append(pending, k)
			}
		}
	}
}

// MGU returns s extended with a most general unifier of a and b. s itself is
// never modified.
func MGU(a, b Expr, s Substitution) (Substitution, error) {
	res := maps.Clone(s)
	if res == nil {
		res = Substitution{}
	}
	if err := Unify(a, b, res); err != nil {
		return nil, err
	}
	return res, nil
}

// Resolve returns the bindings of s fully eliminated against s.
func (s Substitution) Resolve() Substitution {
	res := make(Substitution, len(s))
	for n, e := range s {
		res[n] = Eliminate(e, s)
	}
	return res
}
