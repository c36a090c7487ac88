package events

import "github.com/dolittle/go-sdk/core/artifacts"

// EventTypeID identifies an event type across generations.
type EventTypeID [16]byte

func (id EventTypeID) String() string               { return artifacts.IDString(id) }
func (id EventTypeID) MarshalText() ([]byte, error) { return []byte(id.String()), nil }

func (id *EventTypeID) UnmarshalText(text []byte) error {
	parsed, err := artifacts.ParseID[EventTypeID](string(text))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

// EventType is an EventTypeID at a specific generation.
type EventType = artifacts.Artifact[EventTypeID]

func NewEventType(id EventTypeID, generation artifacts.Generation) EventType {
	return artifacts.New(id, generation)
}

// ParseEventType parses id and validates generation.
func ParseEventType(id string, generation int) (EventType, error) {
	parsed, err := artifacts.ParseID[EventTypeID](id)
	if err != nil {
		return EventType{}, err
	}
	gen, err := artifacts.NewGeneration(generation)
	if err != nil {
		return EventType{}, err
	}
	return NewEventType(parsed, gen), nil
}

// MustEventType is like ParseEventType but panics on invalid input.
func MustEventType(id string, generation int) EventType {
	et, err := ParseEventType(id, generation)
	if err != nil {
		panic(err)
	}
	return et
}
