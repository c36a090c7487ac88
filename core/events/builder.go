package events

import (
	"reflect"

	"github.com/dolittle/go-sdk/core/build"
)

type registration struct {
	t  reflect.Type
	et EventType
}

// Builder collects event type registrations until Build is called.
type Builder struct {
	registrations []registration
}

func NewBuilder() *Builder { return &Builder{} }

// Associate registers t for et.
func (b *Builder) Associate(t reflect.Type, et EventType) *Builder {
	b.registrations = append(b.registrations, registration{t: t, et: et})
	return b
}

// Register registers T for et.
func Register[T any](b *Builder, et EventType) *Builder {
	return b.Associate(reflect.TypeFor[T](), et)
}

// Build creates the registry. Registrations that conflict with an earlier one
// are reported to results and skipped.
func (b *Builder) Build(results *build.Results) *EventTypes {
	types := NewEventTypes()
	for _, r := range b.registrations {
		if err := types.Associate(r.t, r.et); err != nil {
			results.AddFailure("event type "+r.et.String(), "could not register event type", err)
		}
	}
	return types
}
