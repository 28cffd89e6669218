package ordered

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMapKeepsInsertionOrder(t *testing.T) {
	m := NewMap[string, int]()
	m.Set("c", 1)
	m.Set("a", 2)
	m.Set("b", 3)
	m.Set("c", 4)
	require.Equal(t, []string{"c", "a", "b"}, m.Keys())
	require.Equal(t, []int{4, 2, 3}, m.Values())

	v, ok := m.Get("c")
	require.True(t, ok)
	require.Equal(t, 4, v)

	m.Delete("a")
	require.Equal(t, []string{"c", "b"}, m.Keys())
	require.Equal(t, 7, m.GetOrInit("z", func() int { return 7 }))
	require.Equal(t, 7, m.GetOrInit("z", func() int { return 8 }))
}

func TestSetOperations(t *testing.T) {
	a := NewSet(3, 1, 2, 1)
	require.Equal(t, []int{3, 1, 2}, a.Items())
	require.True(t, a.Has(1))
	require.False(t, a.Has(4))

	b := NewSet(2, 4)
	u := a.Union(b)
	require.Equal(t, []int{3, 1, 2, 4}, u.Items())
	require.Equal(t, 3, a.Len(), "union must not modify its receiver")

	require.True(t, NewSet(1, 2).Equal(NewSet(2, 1)))
	require.False(t, NewSet(1, 2).Equal(NewSet(1, 3)))

	a.Remove(1)
	require.Equal(t, []int{3, 2}, a.Items())
	require.True(t, a.Any(func(i int) bool { return i > 2 }))
}

func TestSubsets(t *testing.T) {
	for n := 0; n <= 6; n++ {
		s := NewSet[int]()
		for i := 0; i < n; i++ {
			s.Add(i)
		}
		subs := s.Subsets()
		require.Len(t, subs, 1<<n)
		require.Equal(t, 0, subs[0].Len())
		require.True(t, subs[len(subs)-1].Equal(s))
	}
}
