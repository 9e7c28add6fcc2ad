package traceat_test

import (
	"testing"

	"github.com/tatchi/trace-go/traceat"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapAddFindRemove(t *testing.T) {
	kS := traceat.NewKey[string](traceat.Make{Key: "s"})
	kI := traceat.NewKey[int64](traceat.Make{Key: "i"})
	kB := traceat.NewKey[bool](traceat.Make{Key: "b"})

	var empty traceat.Map
	assert.Equal(t, 0, empty.Len())

	m := traceat.Add(empty, kS, "hello")
	m = traceat.Add(m, kI, int64(7))

	assert.Equal(t, 0, empty.Len(), "maps are immutable")
	assert.Equal(t, 2, m.Len())

	s, ok := traceat.Find(m, kS)
	require.True(t, ok)
	assert.Equal(t, "hello", s)

	_, ok = traceat.Find(m, kB)
	assert.False(t, ok)
	assert.False(t, m.Has(kB))
	assert.True(t, m.Has(kI))

	replaced := traceat.Add(m, kS, "replaced")
	assert.Equal(t, 2, replaced.Len())
	s, _ = traceat.Find(replaced, kS)
	assert.Equal(t, "replaced", s)
	s, _ = traceat.Find(m, kS)
	assert.Equal(t, "hello", s, "original map untouched by replacement")

	removed := m.Without(kS)
	assert.Equal(t, 1, removed.Len())
	assert.False(t, removed.Has(kS))
	assert.True(t, m.Has(kS))
	assert.Equal(t, 1, removed.Without(kB).Len(), "removing an absent key is a no-op")
}

func TestMapMustFind(t *testing.T) {
	k := traceat.NewKey[string](traceat.Make{Key: "present"})
	missing := traceat.NewKey[string](traceat.Make{Key: "missing"})

	m := traceat.Add(traceat.Map{}, k, "value")
	assert.Equal(t, "value", traceat.MustFind(m, k))
	assert.Panics(t, func() { traceat.MustFind(m, missing) })
}

func TestMapRangeOrder(t *testing.T) {
	k1 := traceat.NewKey[int64](traceat.Make{Key: "first"})
	k2 := traceat.NewKey[int64](traceat.Make{Key: "second"})
	k3 := traceat.NewKey[int64](traceat.Make{Key: "third"})

	// insertion order deliberately scrambled
	m := traceat.Add(traceat.Map{}, k3, 3)
	m = traceat.Add(m, k1, 1)
	m = traceat.Add(m, k2, 2)

	var numbers []int64
	m.Range(func(k *traceat.Metadata, v any) bool {
		numbers = append(numbers, k.Number())
		return true
	})
	require.Len(t, numbers, 3)
	assert.Equal(t, []int64{k1.Number(), k2.Number(), k3.Number()}, numbers)

	var stopped []int64
	m.Range(func(k *traceat.Metadata, v any) bool {
		stopped = append(stopped, k.Number())
		return false
	})
	assert.Len(t, stopped, 1)
}

func TestMapBindingsRoundTrip(t *testing.T) {
	kS := traceat.NewKey[string](traceat.Make{Key: "s"})
	kF := traceat.NewKey[float64](traceat.Make{Key: "f"})

	m := traceat.Add(traceat.Map{}, kS, "x")
	m = traceat.Add(m, kF, 1.5)

	bindings := m.Bindings()
	require.Len(t, bindings, 2)

	back := traceat.FromBindings(bindings)
	assert.Equal(t, m.Len(), back.Len())
	s, ok := traceat.Find(back, kS)
	require.True(t, ok)
	assert.Equal(t, "x", s)
	f, ok := traceat.Find(back, kF)
	require.True(t, ok)
	assert.Equal(t, 1.5, f)
}
