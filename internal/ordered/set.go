package ordered

// Set is an insertion-ordered set. The zero value is not usable; use NewSet.
type Set[T comparable] struct {
	m *Map[T, struct{}]
}

func NewSet[T comparable](items ...T) *Set[T] {
	s := &Set[T]{m: NewMap[T, struct{}]()}
	for _, it := range items {
		s.Add(it)
	}
	return s
}

// Add inserts items, keeping the position of those already present.
func (s *Set[T]) Add(items ...T) {
	for _, it := range items {
		if !s.m.Has(it) {
			s.m.Set(it, struct{}{})
		}
	}
}

func (s *Set[T]) Remove(item T) {
	s.m.Delete(item)
}

func (s *Set[T]) Has(item T) bool {
	if s == nil {
		return false
	}
	return s.m.Has(item)
}

func (s *Set[T]) Len() int {
	if s == nil {
		return 0
	}
	return s.m.Len()
}

// Items returns the members in insertion order.
func (s *Set[T]) Items() []T {
	if s == nil {
		return nil
	}
	return s.m.Keys()
}

func (s *Set[T]) Clone() *Set[T] {
	return NewSet(s.Items()...)
}

// Union returns a new set with the members of s followed by the members of
// other that are not in s.
func (s *Set[T]) Union(other *Set[T]) *Set[T] {
	res := s.Clone()
	res.Add(other.Items()...)
	return res
}

// AddAll adds every member of other to s.
func (s *Set[T]) AddAll(other *Set[T]) {
	s.Add(other.Items()...)
}

// Equal reports whether s and other hold the same members, in any order.
func (s *Set[T]) Equal(other *Set[T]) bool {
	if s.Len() != other.Len() {
		return false
	}
	for _, it := range s.Items() {
		if !other.Has(it) {
			return false
		}
	}
	return true
}

// Any reports whether f holds for at least one member.
func (s *Set[T]) Any(f func(T) bool) bool {
	for _, it := range s.Items() {
		if f(it) {
			return true
		}
	}
	return false
}

// Subsets returns the powerset of s: 2^n sets, the empty set first. Members
// keep the relative order they have in s. It panics when s has 63 items or
// more.
func (s *Set[T]) Subsets() []*Set[T] {
	items := s.Items()
	if len(items) >= 63 {
		panic("ordered: powerset too large")
	}
	n := uint64(1) << len(items)
	res := make([]*Set[T], 0, n)
	for mask := uint64(0); mask < n; mask++ {
		sub := NewSet[T]()
		for i, it := range items {
			if mask&(1<<i) != 0 {
				sub.Add(it)
			}
		}
		res = append(res, sub)
	}
	return res
}
