// Package ordmap provides a small insertion-ordered map.
package ordmap

// Map keeps keys in first-insertion order. Setting an existing key
// replaces its value in place (last write wins, position is kept).
// The zero value is ready to use.
type Map[K comparable, V any] struct {
	keys []K
	vals map[K]V
}

func New[K comparable, V any]() *Map[K, V] {
	return &Map[K, V]{vals: map[K]V{}}
}

func (m *Map[K, V]) Set(k K, v V) {
	if m.vals == nil {
		m.vals = map[K]V{}
	}
	if _, ok := m.vals[k]; !ok {
		m.keys = append(m.keys, k)
	}
	m.vals[k] = v
}

func (m *Map[K, V]) Get(k K) (V, bool) {
	v, ok := m.vals[k]
	return v, ok
}

func (m *Map[K, V]) Len() int { return len(m.keys) }

// Keys returns a copy of the keys in insertion order.
func (m *Map[K, V]) Keys() []K {
	return append([]K(nil), m.keys...)
}

// Each calls fn for every entry in insertion order until fn returns false.
func (m *Map[K, V]) Each(fn func(k K, v V) bool) {
	for _, k := range m.keys {
		if !fn(k, m.vals[k]) {
			return
		}
	}
}
