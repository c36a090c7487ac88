package embeddings

import (
	"time"

	"github.com/dolittle/go-sdk/core/events"
	"github.com/dolittle/go-sdk/core/execution"
	"github.com/dolittle/go-sdk/core/reversecall"
)

// RegistrationRequest is sent once per embedding when connecting.
type RegistrationRequest struct {
	EmbeddingID  EmbeddingID        `json:"embeddingId"`
	InitialState string             `json:"initialState"`
	Events       []events.EventType `json:"events"`
}

type RegistrationResponse = reversecall.ConnectResponse

type ProjectionCurrentStateType string

const (
	CurrentStateInitial   ProjectionCurrentStateType = "Initial"
	CurrentStatePersisted ProjectionCurrentStateType = "Persisted"
)

// ProjectionCurrentState is the state of one read model as known by the runtime.
type ProjectionCurrentState struct {
	Type  ProjectionCurrentStateType `json:"type"`
	Key   Key                        `json:"key"`
	State string                     `json:"state"`
}

func (s ProjectionCurrentState) fromInitialState() bool { return s.Type == CurrentStateInitial }

// StreamEvent is a committed event delivered for projection.
type StreamEvent struct {
	SequenceNumber   uint64            `json:"sequenceNumber"`
	EventSourceID    string            `json:"eventSourceId"`
	ExecutionContext execution.Context `json:"executionContext"`
	Occurred         time.Time         `json:"occurred"`
	Type             events.EventType  `json:"type"`
	Public           bool              `json:"public"`
	Content          string            `json:"content"`
}

type CompareRequest struct {
	ProjectionState ProjectionCurrentState `json:"projectionState"`
	EntityState     string                 `json:"entityState"`
}

type DeleteRequest struct {
	ProjectionState ProjectionCurrentState `json:"projectionState"`
}

type ProjectionRequest struct {
	CurrentState ProjectionCurrentState `json:"currentState"`
	Event        StreamEvent            `json:"event"`
}

// RetryProcessingState is present when the runtime retries a failed request.
type RetryProcessingState struct {
	FailureReason string `json:"failureReason"`
	RetryCount    uint32 `json:"retryCount"`
}

// Request holds exactly one of Compare, Delete or Projection.
type Request struct {
	ExecutionContext     execution.Context     `json:"executionContext"`
	Compare              *CompareRequest       `json:"compare,omitempty"`
	Delete               *DeleteRequest        `json:"delete,omitempty"`
	Projection           *ProjectionRequest    `json:"projection,omitempty"`
	RetryProcessingState *RetryProcessingState `json:"retryProcessingState,omitempty"`
}

type RequestKind string

const (
	RequestCompare    RequestKind = "compare"
	RequestDelete     RequestKind = "delete"
	RequestProjection RequestKind = "projection"
	RequestUnknown    RequestKind = "unknown"
)

func (r Request) Kind() RequestKind {
	switch {
	case r.Compare != nil:
		return RequestCompare
	case r.Delete != nil:
		return RequestDelete
	case r.Projection != nil:
		return RequestProjection
	}
	return RequestUnknown
}

type EventsResponse struct {
	Events []events.UncommittedEvent `json:"events"`
}

type ProjectionReplace struct {
	State string `json:"state"`
}

type ProjectionDelete struct{}

// ProjectionResponse holds exactly one of Replace or Delete.
type ProjectionResponse struct {
	Replace *ProjectionReplace `json:"replace,omitempty"`
	Delete  *ProjectionDelete  `json:"delete,omitempty"`
}

type ProcessorFailure struct {
	Reason       string               `json:"reason"`
	Retry        bool                 `json:"retry"`
	RetryTimeout reversecall.Duration `json:"retryTimeout"`
}

// Response holds exactly one of its fields.
type Response struct {
	Compare          *EventsResponse      `json:"compare,omitempty"`
	Delete           *EventsResponse      `json:"delete,omitempty"`
	Projection       *ProjectionResponse  `json:"projection,omitempty"`
	ProcessorFailure *ProcessorFailure    `json:"processorFailure,omitempty"`
	Failure          *reversecall.Failure `json:"failure,omitempty"`
}

// Failed reports whether the response is a failure of either kind.
func (r Response) Failed() bool { return r.ProcessorFailure != nil || r.Failure != nil }

func (r Response) producedEvents() int {
	switch {
	case r.Compare != nil:
		return len(r.Compare.Events)
	case r.Delete != nil:
		return len(r.Delete.Events)
	}
	return 0
}
