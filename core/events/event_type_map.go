package events

import (
	"iter"

	"github.com/dolittle/go-sdk/core/artifacts"
	"github.com/dolittle/go-sdk/core/ds"
)

// EventTypeMap maps event types to values. It is indexed by (id, generation)
// so all generations of one id can be looked up together.
//
// Unlike [ds.ComplexValueMap], iteration rebuilds each EventType from its
// stored id and generation instead of returning the instance given to Set.
type EventTypeMap[V any] struct {
	m *ds.NestedMap[V]
}

func NewEventTypeMap[V any]() *EventTypeMap[V] {
	return &EventTypeMap[V]{m: ds.NewNestedMap[V](2)}
}

func (e *EventTypeMap[V]) Len() int { return e.m.Len() }

func (e *EventTypeMap[V]) Has(et EventType) bool {
	ok, _ := e.m.Has(artifacts.Decompose(et))
	return ok
}

func (e *EventTypeMap[V]) Get(et EventType) (V, bool) {
	v, ok, _ := e.m.Get(artifacts.Decompose(et))
	return v, ok
}

func (e *EventTypeMap[V]) Set(et EventType, v V) {
	// a decomposed EventType always has depth 2 and primitive parts
	_ = e.m.Set(artifacts.Decompose(et), v)
}

func (e *EventTypeMap[V]) Delete(et EventType) bool {
	ok, _ := e.m.Delete(artifacts.Decompose(et))
	return ok
}

func (e *EventTypeMap[V]) Clear() { e.m.Clear() }

// HasID reports whether any generation of id is present.
func (e *EventTypeMap[V]) HasID(id EventTypeID) bool {
	ok, _ := e.m.HasPrefix(artifacts.DecomposeID(id))
	return ok
}

// All iterates over every event type and its value.
func (e *EventTypeMap[V]) All() iter.Seq2[EventType, V] {
	return rebuild(e.m.All())
}

// ForID iterates over all generations of id.
func (e *EventTypeMap[V]) ForID(id EventTypeID) iter.Seq2[EventType, V] {
	seq, err := e.m.Prefix(artifacts.DecomposeID(id))
	if err != nil {
		return func(func(EventType, V) bool) {}
	}
	return rebuild(seq)
}

// EventTypes returns all keys in iteration order.
func (e *EventTypeMap[V]) EventTypes() []EventType {
	out := make([]EventType, 0, e.Len())
	for et := range e.All() {
		out = append(out, et)
	}
	return out
}

func rebuild[V any](seq iter.Seq2[ds.Key, V]) iter.Seq2[EventType, V] {
	return func(yield func(EventType, V) bool) {
		for k, v := range seq {
			id, err := artifacts.ParseID[EventTypeID](k[0].(string))
			if err != nil {
				continue
			}
			if !yield(NewEventType(id, artifacts.Generation(k[1].(int))), v) {
				return
			}
		}
	}
}
