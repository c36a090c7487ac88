package ds

import (
	"fmt"
	"iter"
	"slices"
)

// NestedMap is a fixed-depth tree of single-key maps addressed by a [Key] tuple.
//
// Levels above the last hold child maps, the last level holds values. Within one
// level, iteration follows the order in which keys were first inserted.
// NestedMap is not safe for concurrent mutation.
type NestedMap[V any] struct {
	depth    int
	size     int
	order    []any // preserves insertion order of this level
	children map[any]*NestedMap[V]
	values   map[any]V
}

// NewNestedMap creates an empty map of the given depth. It panics if depth < 1.
func NewNestedMap[V any](depth int) *NestedMap[V] {
	if depth < 1 {
		panic(fmt.Sprintf("ds: nested map depth must be at least 1, got %d", depth))
	}
	m := &NestedMap[V]{depth: depth}
	m.init()
	return m
}

func (m *NestedMap[V]) init() {
	m.size = 0
	m.order = nil
	if m.depth == 1 {
		m.values = make(map[any]V)
		m.children = nil
	} else {
		m.children = make(map[any]*NestedMap[V])
		m.values = nil
	}
}

// Depth returns the number of primitive components every key must have.
func (m *NestedMap[V]) Depth() int { return m.depth }

// Len returns the number of values stored across all branches.
func (m *NestedMap[V]) Len() int { return m.size }

// Has reports whether a value is stored under key.
func (m *NestedMap[V]) Has(key Key) (bool, error) {
	_, ok, err := m.Get(key)
	return ok, err
}

// Get returns the value stored under key.
func (m *NestedMap[V]) Get(key Key) (v V, ok bool, err error) {
	parts, err := normalizeKey(key, m.depth)
	if err != nil {
		return v, false, err
	}
	v, ok = m.get(parts)
	return v, ok, nil
}

// Set stores v under key, creating intermediate levels as needed.
func (m *NestedMap[V]) Set(key Key, v V) error {
	parts, err := normalizeKey(key, m.depth)
	if err != nil {
		return err
	}
	m.set(parts, v)
	return nil
}

// Delete removes the value stored under key and reports whether it was present.
// Branches left empty by the removal are pruned.
func (m *NestedMap[V]) Delete(key Key) (bool, error) {
	parts, err := normalizeKey(key, m.depth)
	if err != nil {
		return false, err
	}
	return m.delete(parts), nil
}

// HasPrefix reports whether any value is stored below the given partial key.
// The prefix may be shorter than Depth; an empty prefix matches any value.
func (m *NestedMap[V]) HasPrefix(prefix Key) (bool, error) {
	if len(prefix) == m.depth {
		return m.Has(prefix)
	}
	n, err := m.branch(prefix)
	if err != nil || n == nil {
		return false, err
	}
	return n.size > 0, nil
}

// Clear removes all values.
func (m *NestedMap[V]) Clear() { m.init() }

// All iterates over every (key, value) pair. Keys are fresh slices per pair.
func (m *NestedMap[V]) All() iter.Seq2[Key, V] {
	return func(yield func(Key, V) bool) {
		m.walk(make(Key, 0, m.depth), yield)
	}
}

// Prefix iterates over the pairs stored below a partial key.
func (m *NestedMap[V]) Prefix(prefix Key) (iter.Seq2[Key, V], error) {
	if len(prefix) == m.depth {
		v, ok, err := m.Get(prefix)
		if err != nil {
			return nil, err
		}
		return func(yield func(Key, V) bool) {
			if ok {
				yield(slices.Clone(prefix), v)
			}
		}, nil
	}
	n, err := m.branch(prefix)
	if err != nil {
		return nil, err
	}
	return func(yield func(Key, V) bool) {
		if n == nil {
			return
		}
		start := make(Key, 0, m.depth)
		start = append(start, prefix...)
		n.walk(start, yield)
	}, nil
}

// Keys returns all keys.
func (m *NestedMap[V]) Keys() []Key {
	keys := make([]Key, 0, m.size)
	for k := range m.All() {
		keys = append(keys, k)
	}
	return keys
}

// Values returns all values.
func (m *NestedMap[V]) Values() []V {
	values := make([]V, 0, m.size)
	for _, v := range m.All() {
		values = append(values, v)
	}
	return values
}

func (m *NestedMap[V]) get(parts []any) (v V, ok bool) {
	if m.depth == 1 {
		v, ok = m.values[parts[0]]
		return v, ok
	}
	child, ok := m.children[parts[0]]
	if !ok {
		return v, false
	}
	return child.get(parts[1:])
}

func (m *NestedMap[V]) set(parts []any, v V) (added bool) {
	k := parts[0]
	if m.depth == 1 {
		if _, exists := m.values[k]; !exists {
			m.order = append(m.order, k)
			m.size++
			added = true
		}
		m.values[k] = v
		return added
	}

	child, ok := m.children[k]
	if !ok {
		child = NewNestedMap[V](m.depth - 1)
		m.children[k] = child
		m.order = append(m.order, k)
	}
	if added = child.set(parts[1:], v); added {
		m.size++
	}
	return added
}

// delete prunes one level per returning frame: a child emptied by the
// recursive call is dropped from this level only.
func (m *NestedMap[V]) delete(parts []any) bool {
	k := parts[0]
	if m.depth == 1 {
		if _, ok := m.values[k]; !ok {
			return false
		}
		delete(m.values, k)
		m.removeOrder(k)
		m.size--
		return true
	}

	child, ok := m.children[k]
	if !ok || !child.delete(parts[1:]) {
		return false
	}
	m.size--
	if child.size == 0 {
		delete(m.children, k)
		m.removeOrder(k)
	}
	return true
}

func (m *NestedMap[V]) removeOrder(k any) {
	if i := slices.Index(m.order, k); i >= 0 {
		m.order = slices.Delete(m.order, i, i+1)
	}
}

// branch descends along a partial key shorter than Depth and returns the
// level below it, or nil when the branch does not exist.
func (m *NestedMap[V]) branch(prefix Key) (*NestedMap[V], error) {
	if len(prefix) > m.depth {
		return nil, &IncorrectNumberOfPrimitiveKeysError{Provided: len(prefix), Depth: m.depth}
	}
	parts, err := normalizeParts(prefix)
	if err != nil {
		return nil, err
	}
	n := m
	for _, p := range parts {
		child, ok := n.children[p]
		if !ok {
			return nil, nil
		}
		n = child
	}
	return n, nil
}

func (m *NestedMap[V]) walk(prefix Key, yield func(Key, V) bool) bool {
	for _, k := range m.order {
		key := append(prefix, denormalize(k))
		if m.depth == 1 {
			if !yield(slices.Clone(key), m.values[k]) {
				return false
			}
			continue
		}
		if !m.children[k].walk(key, yield) {
			return false
		}
	}
	return true
}
