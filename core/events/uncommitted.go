package events

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/dolittle/go-sdk/core/artifacts"
	"github.com/dolittle/go-sdk/core/execution"
)

var ErrNoEventSource = errors.New("event source id is empty")

// UncommittedEvent is an event ready to be committed by the runtime.
type UncommittedEvent struct {
	EventType     EventType `json:"eventType"`
	EventSourceID string    `json:"eventSourceId"`
	Public        bool      `json:"public"`
	Content       string    `json:"content"`
}

// Typed is an event with an explicitly chosen event type. Use it to emit
// content whose Go type is not registered, e.g. a map.
type Typed struct {
	EventType EventType
	Content   any
}

// WithType pairs content with et.
func WithType(et EventType, content any) Typed { return Typed{EventType: et, Content: content} }

// ToUncommitted resolves the event type of every event and serialises its
// content. Events are private. It fails on the first event that is not
// registered and not wrapped in [Typed], or when there are events but no
// event source id.
func ToUncommitted(r Resolver, eventSourceID string, events ...any) ([]UncommittedEvent, error) {
	if eventSourceID == "" && len(events) > 0 {
		return nil, ErrNoEventSource
	}
	out := make([]UncommittedEvent, 0, len(events))
	for i, ev := range events {
		in := artifacts.FromInstance[EventType](ev)
		content := ev
		if typed, ok := ev.(Typed); ok {
			in = artifacts.ExplicitKey(typed.EventType)
			content = typed.Content
		}

		et, err := r.Resolve(in)
		if err != nil {
			return nil, fmt.Errorf("event %d: %w", i, err)
		}
		b, err := json.Marshal(content)
		if err != nil {
			return nil, fmt.Errorf("event %d (%s): encode: %w", i, et, err)
		}
		out = append(out, UncommittedEvent{
			EventType:     et,
			EventSourceID: eventSourceID,
			Content:       string(b),
		})
	}
	return out, nil
}

// Context describes a committed event being processed.
type Context struct {
	SequenceNumber   uint64
	EventSourceID    string
	Occurred         time.Time
	ExecutionContext execution.Context
}
