package embeddings

import (
	"encoding/json"
	"fmt"
	"reflect"

	"github.com/dolittle/go-sdk/core/build"
	"github.com/dolittle/go-sdk/core/events"
	"github.com/dolittle/go-sdk/core/reflector"
)

type onMethod[T any] struct {
	resolve func(events.Resolver) (events.EventType, error)
	fn      ProjectFunc[T]
}

// Builder defines an embedding with read model T.
type Builder[T any] struct {
	id        EmbeddingID
	readModel ReadModel[T]
	on        []onMethod[T]
	updates   []UpdateFunc[T]
	deletes   []DeleteFunc[T]
	errs      []error
}

// New starts the definition of the embedding id. The initial state is the
// zero value of T, or a pointer to a zero value when T is a pointer type.
func New[T any](id EmbeddingID) *Builder[T] {
	return &Builder[T]{id: id, readModel: defaultReadModel[T]()}
}

func (b *Builder[T]) EmbeddingID() EmbeddingID { return b.id }

// WithInitialState uses a copy of state as the initial state.
func (b *Builder[T]) WithInitialState(state T) *Builder[T] {
	initial, err := snapshotOf(state)
	if err != nil {
		b.errs = append(b.errs, err)
		return b
	}
	b.readModel.initial = initial
	return b
}

// WithHydrator replaces the default JSON decoding of persisted states.
func (b *Builder[T]) WithHydrator(hydrate func(state []byte) (T, error)) *Builder[T] {
	b.readModel.hydrate = hydrate
	return b
}

// OnEventType registers fn for events of type et. The event passed to fn is
// of the Go type registered for et, or plain JSON if there is none.
func (b *Builder[T]) OnEventType(et events.EventType, fn ProjectFunc[T]) *Builder[T] {
	b.on = append(b.on, onMethod[T]{
		resolve: func(events.Resolver) (events.EventType, error) { return et, nil },
		fn:      fn,
	})
	return b
}

func (b *Builder[T]) ResolveUpdateToEvents(fn UpdateFunc[T]) *Builder[T] {
	b.updates = append(b.updates, fn)
	return b
}

func (b *Builder[T]) ResolveDeletionToEvents(fn DeleteFunc[T]) *Builder[T] {
	b.deletes = append(b.deletes, fn)
	return b
}

// On registers fn for the event type that E is registered with. The event type
// is looked up when the embedding is built.
func On[T, E any](b *Builder[T], fn func(readModel T, event E, ctx ProjectContext) (T, error)) *Builder[T] {
	t := reflect.TypeFor[E]()
	b.on = append(b.on, onMethod[T]{
		resolve: func(r events.Resolver) (events.EventType, error) { return r.GetFor(t) },
		fn:      typed(fn),
	})
	return b
}

// OnEventTypeTyped registers fn for et, converting events to E.
func OnEventTypeTyped[T, E any](b *Builder[T], et events.EventType, fn func(readModel T, event E, ctx ProjectContext) (T, error)) *Builder[T] {
	return b.OnEventType(et, typed(fn))
}

func typed[T, E any](fn func(T, E, ProjectContext) (T, error)) ProjectFunc[T] {
	return func(readModel T, event any, ctx ProjectContext) (T, error) {
		ev, err := convertEvent[E](event)
		if err != nil {
			return readModel, err
		}
		return fn(readModel, ev, ctx)
	}
}

// convertEvent converts a decoded event to E. Plain JSON is re-encoded and
// decoded as E.
func convertEvent[E any](event any) (E, error) {
	if ev, ok := reflector.As[E](event); ok {
		return ev, nil
	}
	ev := reflector.Fresh[E]()
	b, err := json.Marshal(event)
	if err != nil {
		return ev, fmt.Errorf("convert event %T to %s: %w", event, reflect.TypeFor[E](), err)
	}
	if err := json.Unmarshal(b, &ev); err != nil {
		return ev, fmt.Errorf("convert event %T to %s: %w", event, reflect.TypeFor[E](), err)
	}
	return ev, nil
}

// Build validates the definition. Every problem is reported to results; the
// embedding is only returned when there were none.
func (b *Builder[T]) Build(types events.Resolver, results *build.Results) (*Embedding[T], bool) {
	identifier := "embedding " + b.id.String()
	failed := false
	fail := func(message string, err error) {
		results.AddFailure(identifier, message, err)
		failed = true
	}

	for _, err := range b.errs {
		fail("invalid read model", err)
	}
	if _, err := b.readModel.InitialState(); err != nil {
		fail("initial state cannot be serialised", err)
	}

	switch len(b.updates) {
	case 0:
		fail("missing update method", nil)
	case 1:
	default:
		fail(fmt.Sprintf("has %d update methods, expected exactly one", len(b.updates)), nil)
	}
	switch len(b.deletes) {
	case 0:
		fail("missing delete method", nil)
	case 1:
	default:
		fail(fmt.Sprintf("has %d delete methods, expected exactly one", len(b.deletes)), nil)
	}

	if len(b.on) == 0 {
		fail("no projection methods", nil)
	}
	on := events.NewEventTypeMap[ProjectFunc[T]]()
	for _, m := range b.on {
		et, err := m.resolve(types)
		if err != nil {
			fail("projection method event type cannot be resolved", err)
			continue
		}
		if on.Has(et) {
			fail("duplicate projection method for event type "+et.String(), nil)
			continue
		}
		on.Set(et, m.fn)
	}

	if failed {
		return nil, false
	}
	e := &Embedding[T]{
		id:        b.id,
		readModel: b.readModel,
		on:        on,
		update:    b.updates[0],
		delete:    b.deletes[0],
	}
	return e, true
}

func (b *Builder[T]) readModelType() reflect.Type { return reflect.TypeFor[T]() }

func (b *Builder[T]) buildProcessor(types events.Resolver, results *build.Results, opts ProcessorOptions) (RequestProcessor, bool) {
	e, ok := b.Build(types, results)
	if !ok {
		return nil, false
	}
	p, err := NewProcessor(e, types, opts)
	if err != nil {
		results.AddFailure("embedding "+b.id.String(), "could not create processor", err)
		return nil, false
	}
	return p, true
}
