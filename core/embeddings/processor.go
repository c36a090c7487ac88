package embeddings

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/dolittle/go-sdk/core/events"
)

var ErrUnknownRequest = errors.New("request has no compare, delete or projection")

// RequestProcessor is the type-erased view of a Processor.
type RequestProcessor interface {
	EmbeddingID() EmbeddingID
	Registration() RegistrationRequest
	Handle(ctx context.Context, req Request) Response
}

type ProcessorOptions struct {
	Log         *slog.Logger
	Metrics     Metrics
	Middlewares []HandlerMiddleware // run inside the log and metrics middlewares
}

// Processor adapts an Embedding to the wire protocol.
type Processor[T any] struct {
	embedding    *Embedding[T]
	types        events.Resolver
	registration RegistrationRequest
	log          *slog.Logger
	metrics      Metrics
	handler      Handler
}

var _ RequestProcessor = (*Processor[any])(nil)

func NewProcessor[T any](e *Embedding[T], types events.Resolver, opts ProcessorOptions) (*Processor[T], error) {
	if e == nil {
		return nil, fmt.Errorf("embeddings: embedding is required")
	}
	if types == nil {
		return nil, fmt.Errorf("embeddings: event types are required")
	}
	initial, err := e.readModel.InitialState()
	if err != nil {
		return nil, err
	}

	log := opts.Log
	if log == nil {
		log = slog.Default()
	}
	log = log.With(slog.String("embedding", e.id.String()))
	m := opts.Metrics
	if m == nil {
		m = NopMetrics()
	}

	p := &Processor[T]{
		embedding: e,
		types:     types,
		registration: RegistrationRequest{
			EmbeddingID:  e.id,
			InitialState: initial,
			Events:       e.EventTypes(),
		},
		log:     log,
		metrics: m,
	}

	// recover around the user middlewares and again around the callbacks
	middlewares := append([]HandlerMiddleware{
		NewRecoverMiddleware(log),
		NewLogMiddleware(log),
		NewMetricsMiddleware(e.id.String(), m),
	}, opts.Middlewares...)
	middlewares = append(middlewares, NewRecoverMiddleware(log))
	p.handler = applyMiddlewares(HandleFunc(p.handle), middlewares)

	return p, nil
}

func (p *Processor[T]) EmbeddingID() EmbeddingID          { return p.embedding.id }
func (p *Processor[T]) Registration() RegistrationRequest { return p.registration }

// Handle processes req. Failures are returned as failure responses, never as
// errors or panics.
func (p *Processor[T]) Handle(ctx context.Context, req Request) Response {
	resp, err := p.handler.Handle(ctx, req)
	if err != nil {
		resp = failureResponse(req, err)
		p.metrics.FailureReturned(p.embedding.id.String(), resp.ProcessorFailure != nil)
	}
	return resp
}

func (p *Processor[T]) handle(ctx context.Context, req Request) (Response, error) {
	switch req.Kind() {
	case RequestCompare:
		evs, err := p.compare(req.Compare, req)
		if err != nil {
			return Response{}, err
		}
		return Response{Compare: &EventsResponse{Events: evs}}, nil

	case RequestDelete:
		evs, err := p.delete(req.Delete, req)
		if err != nil {
			return Response{}, err
		}
		return Response{Delete: &EventsResponse{Events: evs}}, nil

	case RequestProjection:
		res, err := p.project(req.Projection)
		if err != nil {
			return Response{}, err
		}
		return Response{Projection: res}, nil
	}
	return Response{}, ErrUnknownRequest
}

func (p *Processor[T]) compare(c *CompareRequest, req Request) ([]events.UncommittedEvent, error) {
	rm := p.embedding.readModel
	current, err := rm.Hydrate(c.ProjectionState.State)
	if err != nil {
		return nil, fmt.Errorf("current state: %w", err)
	}
	received, err := rm.Hydrate(c.EntityState)
	if err != nil {
		return nil, fmt.Errorf("received state: %w", err)
	}

	evs, err := p.embedding.Update(received, current, Context{
		Key:                        c.ProjectionState.Key,
		WasCreatedFromInitialState: c.ProjectionState.fromInitialState(),
		ExecutionContext:           req.ExecutionContext,
	})
	if err != nil {
		return nil, fmt.Errorf("update: %w", err)
	}
	return p.toUncommitted(c.ProjectionState.Key, evs)
}

func (p *Processor[T]) delete(d *DeleteRequest, req Request) ([]events.UncommittedEvent, error) {
	current, err := p.embedding.readModel.Hydrate(d.ProjectionState.State)
	if err != nil {
		return nil, fmt.Errorf("current state: %w", err)
	}

	evs, err := p.embedding.Delete(current, Context{
		Key:                        d.ProjectionState.Key,
		WasCreatedFromInitialState: d.ProjectionState.fromInitialState(),
		IsDelete:                   true,
		ExecutionContext:           req.ExecutionContext,
	})
	if err != nil {
		return nil, fmt.Errorf("delete: %w", err)
	}
	return p.toUncommitted(d.ProjectionState.Key, evs)
}

func (p *Processor[T]) project(pr *ProjectionRequest) (*ProjectionResponse, error) {
	rm := p.embedding.readModel
	current, err := rm.Hydrate(pr.CurrentState.State)
	if err != nil {
		return nil, fmt.Errorf("current state: %w", err)
	}

	ev := pr.Event
	event, err := events.Decode(p.types, ev.Type, []byte(ev.Content))
	if err != nil {
		return nil, err
	}

	res, err := p.embedding.Project(current, event, ev.Type, ProjectContext{
		Key:                        pr.CurrentState.Key,
		WasCreatedFromInitialState: pr.CurrentState.fromInitialState(),
		ExecutionContext:           ev.ExecutionContext,
		EventContext: events.Context{
			SequenceNumber:   ev.SequenceNumber,
			EventSourceID:    ev.EventSourceID,
			Occurred:         ev.Occurred,
			ExecutionContext: ev.ExecutionContext,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("project %s: %w", ev.Type, err)
	}
	if res.Delete {
		return &ProjectionResponse{Delete: &ProjectionDelete{}}, nil
	}

	state, err := rm.Serialize(res.ReadModel)
	if err != nil {
		return nil, err
	}
	return &ProjectionResponse{Replace: &ProjectionReplace{State: state}}, nil
}

// toUncommitted resolves the events produced for key. The key is the event
// source of every event.
func (p *Processor[T]) toUncommitted(key Key, evs []any) ([]events.UncommittedEvent, error) {
	out, err := events.ToUncommitted(p.types, key.String(), evs...)
	if err != nil {
		return nil, fmt.Errorf("produced events: %w", err)
	}
	return out, nil
}
