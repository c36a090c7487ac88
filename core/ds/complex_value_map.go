package ds

import "iter"

// Decomposer turns a complex key into the primitive tuple it is stored under.
type Decomposer[K any] func(key K) Key

type complexEntry[K, V any] struct {
	key   K
	value V
}

// ComplexValueMap stores values under complex keys. Keys are decomposed into a
// primitive tuple for lookup, but the original key is stored alongside the
// value: two keys with the same decomposition address the same entry, and
// the key given to the latest Set is the one returned by Lookup and All.
type ComplexValueMap[K, V any] struct {
	decompose Decomposer[K]
	m         *NestedMap[complexEntry[K, V]]
}

// NewComplexValueMap creates an empty map whose keys decompose into tuples of
// the given depth.
func NewComplexValueMap[K, V any](depth int, decompose Decomposer[K]) *ComplexValueMap[K, V] {
	return &ComplexValueMap[K, V]{
		decompose: decompose,
		m:         NewNestedMap[complexEntry[K, V]](depth),
	}
}

func (c *ComplexValueMap[K, V]) Depth() int { return c.m.Depth() }
func (c *ComplexValueMap[K, V]) Len() int   { return c.m.Len() }
func (c *ComplexValueMap[K, V]) Clear()     { c.m.Clear() }

func (c *ComplexValueMap[K, V]) Has(key K) (bool, error) {
	return c.m.Has(c.decompose(key))
}

func (c *ComplexValueMap[K, V]) Get(key K) (v V, ok bool, err error) {
	_, v, ok, err = c.Lookup(key)
	return v, ok, err
}

// Lookup returns the stored key together with its value. The stored key may be
// a different instance than the one used for the lookup.
func (c *ComplexValueMap[K, V]) Lookup(key K) (stored K, v V, ok bool, err error) {
	e, ok, err := c.m.Get(c.decompose(key))
	if err != nil || !ok {
		return stored, v, false, err
	}
	return e.key, e.value, true, nil
}

func (c *ComplexValueMap[K, V]) Set(key K, v V) error {
	return c.m.Set(c.decompose(key), complexEntry[K, V]{key: key, value: v})
}

func (c *ComplexValueMap[K, V]) Delete(key K) (bool, error) {
	return c.m.Delete(c.decompose(key))
}

// All iterates over the original keys and their values.
func (c *ComplexValueMap[K, V]) All() iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		for _, e := range c.m.All() {
			if !yield(e.key, e.value) {
				return
			}
		}
	}
}

func (c *ComplexValueMap[K, V]) Keys() []K {
	keys := make([]K, 0, c.Len())
	for k := range c.All() {
		keys = append(keys, k)
	}
	return keys
}

func (c *ComplexValueMap[K, V]) Values() []V {
	values := make([]V, 0, c.Len())
	for _, v := range c.All() {
		values = append(values, v)
	}
	return values
}
