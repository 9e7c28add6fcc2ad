package traceat

import (
	"sort"

	"github.com/pkg/errors"
)

// AnyKey is the untyped view of a key, enough for operations that do
// not touch the bound value.
type AnyKey interface {
	Ptr() *Metadata
}

type binding struct {
	meta  *Metadata
	value any
}

// Binding is one key/value pair of a Map.  The value is typed by the
// key it was bound with.
type Binding struct {
	Key   *Metadata
	Value any
}

// Map is an immutable mapping from typed keys to values.  The zero
// value is the empty map.  Bindings are ordered by key number.
type Map struct {
	bindings []binding
}

func (m Map) search(number int64) (int, bool) {
	i := sort.Search(len(m.bindings), func(i int) bool {
		return m.bindings[i].meta.number >= number
	})
	return i, i < len(m.bindings) && m.bindings[i].meta.number == number
}

// Add returns a map with v bound under k.  A prior binding for k is
// replaced.
func Add[V any](m Map, k *Key[V], v V) Map {
	i, found := m.search(k.number)
	n := make([]binding, len(m.bindings), len(m.bindings)+1)
	copy(n, m.bindings)
	if found {
		n[i] = binding{meta: &k.Metadata, value: v}
		return Map{bindings: n}
	}
	n = append(n, binding{})
	copy(n[i+1:], n[i:])
	n[i] = binding{meta: &k.Metadata, value: v}
	return Map{bindings: n}
}

// Find is the total lookup: absence is reported rather than failed.
func Find[V any](m Map, k *Key[V]) (V, bool) {
	i, found := m.search(k.number)
	if !found {
		var zero V
		return zero, false
	}
	return m.bindings[i].value.(V), true
}

// MustFind looks up a key that the caller knows is present.  It
// panics when the key is absent: that is a programming error.
func MustFind[V any](m Map, k *Key[V]) V {
	v, ok := Find(m, k)
	if !ok {
		panic(errors.Errorf("traceat: missing key '%s' (#%d)", k.Key(), k.Number()))
	}
	return v
}

// Without returns a map with any binding for k removed.
func (m Map) Without(k AnyKey) Map {
	i, found := m.search(k.Ptr().number)
	if !found {
		return m
	}
	n := make([]binding, 0, len(m.bindings)-1)
	n = append(n, m.bindings[:i]...)
	n = append(n, m.bindings[i+1:]...)
	return Map{bindings: n}
}

func (m Map) Has(k AnyKey) bool {
	_, found := m.search(k.Ptr().number)
	return found
}

func (m Map) Len() int { return len(m.bindings) }

// Range calls f for each binding in key-number order until f returns
// false.
func (m Map) Range(f func(k *Metadata, v any) bool) {
	for _, b := range m.bindings {
		if !f(b.meta, b.value) {
			return
		}
	}
}

// Bindings returns the map contents in key-number order.
func (m Map) Bindings() []Binding {
	out := make([]Binding, len(m.bindings))
	for i, b := range m.bindings {
		out[i] = Binding{Key: b.meta, Value: b.value}
	}
	return out
}

// FromBindings rebuilds a map from Bindings output.  Later duplicates
// replace earlier ones.
func FromBindings(bindings []Binding) Map {
	var m Map
	for _, b := range bindings {
		i, found := m.search(b.Key.number)
		if found {
			m.bindings[i].value = b.Value
			continue
		}
		n := make([]binding, len(m.bindings)+1)
		copy(n, m.bindings[:i])
		n[i] = binding{meta: b.Key, value: b.Value}
		copy(n[i+1:], m.bindings[i:])
		m = Map{bindings: n}
	}
	return m
}
