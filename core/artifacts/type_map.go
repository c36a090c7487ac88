package artifacts

import (
	"fmt"
	"reflect"

	"github.com/dolittle/go-sdk/core/ds"
	"github.com/dolittle/go-sdk/core/reflector"
)

// KeyInput selects how a key is resolved: either given explicitly, or looked up
// from the type of an instance.
type KeyInput[K any] struct {
	key      K
	explicit bool
	instance any
}

// ExplicitKey is a KeyInput that resolves to key verbatim.
func ExplicitKey[K any](key K) KeyInput[K] { return KeyInput[K]{key: key, explicit: true} }

// FromInstance is a KeyInput that resolves to the key associated with the
// type of instance.
func FromInstance[K any](instance any) KeyInput[K] { return KeyInput[K]{instance: instance} }

// TypeMap is a one-to-one association between Go types and keys. A type is
// associated with at most one key and a key with at most one type.
type TypeMap[K any] struct {
	keys  map[reflect.Type]K
	types *ds.ComplexValueMap[K, reflect.Type]
	order []reflect.Type
}

// NewTypeMap creates an empty TypeMap whose keys decompose into tuples of the
// given depth.
func NewTypeMap[K any](depth int, decompose ds.Decomposer[K]) *TypeMap[K] {
	return &TypeMap[K]{
		keys:  make(map[reflect.Type]K),
		types: ds.NewComplexValueMap[K, reflect.Type](depth, decompose),
	}
}

func normalizeType(t reflect.Type) reflect.Type { return reflector.TypeInfoForType(t).Type }

func typeName(t reflect.Type) string { return reflector.TypeInfoForType(t).Name }

// Associate links t with key. Both directions are checked before anything is
// stored, so a failed call leaves the map unchanged. Associating a pair that is
// already associated is a no-op.
func (m *TypeMap[K]) Associate(t reflect.Type, key K) error {
	t = normalizeType(t)
	if t == nil {
		return fmt.Errorf("cannot associate nil type with %v", key)
	}

	existingKey, hasKey := m.keys[t]
	existingType, hasType, err := m.types.Get(key)
	if err != nil {
		return err
	}

	switch {
	case hasType && existingType == t:
		// the index is a bijection, so key is already t's key
		return nil
	case hasKey:
		return fmt.Errorf("%w: %s is associated with %v, not %v", ErrMultipleKeysForType, typeName(t), existingKey, key)
	case hasType:
		return fmt.Errorf("%w: %v is associated with %s, not %s", ErrMultipleTypesForKey, key, typeName(existingType), typeName(t))
	}

	if err := m.types.Set(key, t); err != nil {
		return err
	}
	m.keys[t] = key
	m.order = append(m.order, t)
	return nil
}

// HasFor reports whether t is associated with a key.
func (m *TypeMap[K]) HasFor(t reflect.Type) bool {
	_, ok := m.keys[normalizeType(t)]
	return ok
}

// GetFor returns the key associated with t.
func (m *TypeMap[K]) GetFor(t reflect.Type) (K, error) {
	key, ok := m.keys[normalizeType(t)]
	if !ok {
		return key, &ResolutionError{Type: typeName(t), Err: ErrTypeNotAssociatedWithKey}
	}
	return key, nil
}

// HasTypeFor reports whether key is associated with a type.
func (m *TypeMap[K]) HasTypeFor(key K) bool {
	ok, err := m.types.Has(key)
	return err == nil && ok
}

// GetTypeFor returns the type associated with key.
func (m *TypeMap[K]) GetTypeFor(key K) (reflect.Type, error) {
	t, ok, err := m.types.Get(key)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, &ResolutionError{Key: fmt.Sprint(key), Err: ErrKeyNotAssociatedWithType}
	}
	return t, nil
}

// GetAll returns every associated key, in association order.
func (m *TypeMap[K]) GetAll() []K {
	keys := make([]K, 0, len(m.order))
	for _, t := range m.order {
		keys = append(keys, m.keys[t])
	}
	return keys
}

// GetAllTypes returns every associated type, in association order.
func (m *TypeMap[K]) GetAllTypes() []reflect.Type {
	types := make([]reflect.Type, len(m.order))
	copy(types, m.order)
	return types
}

// Len returns the number of associations.
func (m *TypeMap[K]) Len() int { return len(m.order) }

// Resolve returns the key selected by in. Explicit keys are returned as given,
// without checking them against the associations.
func (m *TypeMap[K]) Resolve(in KeyInput[K]) (K, error) {
	if in.explicit {
		return in.key, nil
	}
	return m.ResolveFrom(in.instance)
}

// ResolveFrom returns the key associated with the dynamic type of instance.
func (m *TypeMap[K]) ResolveFrom(instance any) (key K, err error) {
	t := reflector.TypeInfoOf(instance).Type
	if t == nil {
		return key, &ResolutionError{Type: "<nil>", Err: ErrUnableToResolveKey}
	}
	key, ok := m.keys[t]
	if !ok {
		return key, &ResolutionError{Type: typeName(t), Err: ErrUnableToResolveKey}
	}
	return key, nil
}
