package events

import (
	"encoding/json"
	"fmt"
	"reflect"

	"github.com/dolittle/go-sdk/core/artifacts"
)

// Resolver is the read side of the event type registry.
type Resolver interface {
	GetFor(t reflect.Type) (EventType, error)
	HasTypeFor(et EventType) bool
	GetTypeFor(et EventType) (reflect.Type, error)
	Resolve(in artifacts.KeyInput[EventType]) (EventType, error)
	ResolveFrom(event any) (EventType, error)
}

// EventTypes associates Go types with event types.
type EventTypes struct {
	a *artifacts.Artifacts[EventTypeID]
}

var _ Resolver = (*EventTypes)(nil)

func NewEventTypes() *EventTypes {
	return &EventTypes{a: artifacts.NewArtifacts[EventTypeID]()}
}

func (e *EventTypes) Associate(t reflect.Type, et EventType) error { return e.a.Associate(t, et) }

func (e *EventTypes) HasFor(t reflect.Type) bool                    { return e.a.HasFor(t) }
func (e *EventTypes) GetFor(t reflect.Type) (EventType, error)      { return e.a.GetFor(t) }
func (e *EventTypes) HasTypeFor(et EventType) bool                  { return e.a.HasTypeFor(et) }
func (e *EventTypes) GetTypeFor(et EventType) (reflect.Type, error) { return e.a.GetTypeFor(et) }
func (e *EventTypes) GetAll() []EventType                           { return e.a.GetAll() }
func (e *EventTypes) GetAllTypes() []reflect.Type                   { return e.a.GetAllTypes() }
func (e *EventTypes) Len() int                                      { return e.a.Len() }

func (e *EventTypes) Resolve(in artifacts.KeyInput[EventType]) (EventType, error) {
	return e.a.Resolve(in)
}

func (e *EventTypes) ResolveFrom(event any) (EventType, error) { return e.a.ResolveFrom(event) }

// New returns a pointer to a zero value of the Go type registered for et.
func (e *EventTypes) New(et EventType) (any, error) {
	t, err := e.a.GetTypeFor(et)
	if err != nil {
		return nil, err
	}
	return reflect.New(t).Interface(), nil
}

// Hydrate decodes content into a new instance of the Go type registered for
// et. Unlike [Decode] it fails when et has no registered type.
func (e *EventTypes) Hydrate(et EventType, content []byte) (any, error) {
	if _, err := e.a.GetTypeFor(et); err != nil {
		return nil, err
	}
	return Decode(e, et, content)
}

// TypeFor returns the event type registered for T.
func TypeFor[T any](e *EventTypes) (EventType, error) {
	return e.GetFor(reflect.TypeFor[T]())
}

// Decode decodes content as the Go type registered for et. Content of event
// types without a registered Go type is decoded as plain JSON (maps, slices
// and scalars).
func Decode(r Resolver, et EventType, content []byte) (any, error) {
	if r.HasTypeFor(et) {
		t, err := r.GetTypeFor(et)
		if err != nil {
			return nil, err
		}
		v := reflect.New(t).Interface()
		if err := json.Unmarshal(content, v); err != nil {
			return nil, fmt.Errorf("decode event %s: %w", et, err)
		}
		return v, nil
	}
	var v any
	if err := json.Unmarshal(content, &v); err != nil {
		return nil, fmt.Errorf("decode event %s: %w", et, err)
	}
	return v, nil
}
