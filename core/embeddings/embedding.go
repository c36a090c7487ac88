package embeddings

import (
	"errors"
	"fmt"

	"github.com/dolittle/go-sdk/core/events"
)

var (
	// DeleteReadModelInstance is returned by a projection callback to delete
	// the read model.
	DeleteReadModelInstance = errors.New("delete read model instance")

	ErrMissingOnMethodForType = errors.New("no projection method for event type")
)

type (
	// ProjectFunc applies an event to the read model.
	ProjectFunc[T any] func(readModel T, event any, ctx ProjectContext) (T, error)
	// UpdateFunc returns the events that move current towards received.
	UpdateFunc[T any] func(received, current T, ctx Context) ([]any, error)
	// DeleteFunc returns the events that lead to current being deleted.
	DeleteFunc[T any] func(current T, ctx Context) ([]any, error)
)

// ProjectionResult is the outcome of projecting an event.
type ProjectionResult[T any] struct {
	ReadModel T
	Delete    bool
}

// Embedding is a built embedding. It holds no per key state and is safe for
// concurrent use.
type Embedding[T any] struct {
	id        EmbeddingID
	readModel ReadModel[T]
	on        *events.EventTypeMap[ProjectFunc[T]]
	update    UpdateFunc[T]
	delete    DeleteFunc[T]
}

func (e *Embedding[T]) ID() EmbeddingID                { return e.id }
func (e *Embedding[T]) ReadModel() ReadModel[T]        { return e.readModel }
func (e *Embedding[T]) EventTypes() []events.EventType { return e.on.EventTypes() }

// Project applies event of type et to current.
func (e *Embedding[T]) Project(current T, event any, et events.EventType, ctx ProjectContext) (ProjectionResult[T], error) {
	fn, ok := e.on.Get(et)
	if !ok {
		return ProjectionResult[T]{}, fmt.Errorf("%w: %s", ErrMissingOnMethodForType, et)
	}
	next, err := fn(current, event, ctx)
	if errors.Is(err, DeleteReadModelInstance) {
		return ProjectionResult[T]{Delete: true}, nil
	}
	if err != nil {
		return ProjectionResult[T]{}, err
	}
	return ProjectionResult[T]{ReadModel: next}, nil
}

func (e *Embedding[T]) Update(received, current T, ctx Context) ([]any, error) {
	return e.update(received, current, ctx)
}

func (e *Embedding[T]) Delete(current T, ctx Context) ([]any, error) {
	return e.delete(current, ctx)
}
