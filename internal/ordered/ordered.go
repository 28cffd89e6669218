// Package ordered provides insertion-ordered sets and maps.
//
// Iteration order is the order in which keys were first inserted. Re-setting an
// existing key keeps its original position.
package ordered

import (
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Map is an insertion-ordered map.
type Map[K comparable, V any] struct {
	m *orderedmap.OrderedMap[K, V]
}

func NewMap[K comparable, V any]() *Map[K, V] {
	return &Map[K, V]{m: orderedmap.New[K, V]()}
}

func (m *Map[K, V]) Set(k K, v V) {
	m.m.Set(k, v)
}

func (m *Map[K, V]) Get(k K) (V, bool) {
	return m.m.Get(k)
}

// GetOrInit returns the value stored under k, storing init() first if k is
// missing.
func (m *Map[K, V]) GetOrInit(k K, init func() V) V {
	if v, ok := m.m.Get(k); ok {
		return v
	}
	v := init()
	m.m.Set(k, v)
	return v
}

func (m *Map[K, V]) Has(k K) bool {
	_, ok := m.m.Get(k)
	return ok
}

func (m *Map[K, V]) Delete(k K) {
	m.m.Delete(k)
}

func (m *Map[K, V]) Len() int {
	if m == nil {
		return 0
	}
	return m.m.Len()
}

// Keys returns the keys in insertion order.
func (m *Map[K, V]) Keys() []K {
	if m == nil {
		return nil
	}
	keys := make([]K, 0, m.m.Len())
	for p := m.m.Oldest(); p != nil; p = p.Next() {
		keys = append(keys, p.Key)
	}
	return keys
}

// Values returns the values in key insertion order.
func (m *Map[K, V]) Values() []V {
	if m == nil {
		return nil
	}
	values := make([]V, 0, m.m.Len())
	for p := m.m.Oldest(); p != nil; p = p.Next() {
		values = append(values, p.Value)
	}
	return values
}

// Each calls f for every entry in insertion order. The map must not be
// modified by f.
func (m *Map[K, V]) Each(f func(K, V)) {
	if m == nil {
		return
	}
	for p := m.m.Oldest(); p != nil; p = p.Next() {
		f(p.Key, p.Value)
	}
}
