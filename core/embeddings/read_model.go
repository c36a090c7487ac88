package embeddings

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/dolittle/go-sdk/core/reflector"
)

// ReadModel knows how to create, decode and encode the read model of an
// embedding.
type ReadModel[T any] struct {
	initial func() T
	hydrate func(state []byte) (T, error)
}

func defaultReadModel[T any]() ReadModel[T] {
	return ReadModel[T]{initial: reflector.Fresh[T]}
}

// Initial returns a new instance of the initial state. Instances never share
// memory with each other.
func (r ReadModel[T]) Initial() T { return r.initial() }

// InitialState returns the JSON encoding of the initial state.
func (r ReadModel[T]) InitialState() (string, error) { return r.Serialize(r.Initial()) }

// Hydrate decodes a persisted state. By default the JSON is decoded onto a
// new initial state, so fields missing from state keep their initial value.
// An empty or null state results in the initial state.
func (r ReadModel[T]) Hydrate(state string) (T, error) {
	if r.hydrate != nil {
		return r.hydrate([]byte(state))
	}

	v := r.Initial()
	trimmed := bytes.TrimSpace([]byte(state))
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return v, nil
	}
	if err := json.Unmarshal(trimmed, &v); err != nil {
		return v, fmt.Errorf("decode read model: %w", err)
	}
	return v, nil
}

func (r ReadModel[T]) Serialize(v T) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("encode read model: %w", err)
	}
	return string(b), nil
}

// snapshotOf returns a factory producing deep copies of state.
func snapshotOf[T any](state T) (func() T, error) {
	b, err := json.Marshal(state)
	if err != nil {
		return nil, fmt.Errorf("encode initial state: %w", err)
	}
	return func() T {
		v := reflector.Fresh[T]()
		// b was produced by encoding a T, decoding it back cannot fail
		_ = json.Unmarshal(b, &v)
		return v
	}, nil
}
