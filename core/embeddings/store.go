package embeddings

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"reflect"
	"time"

	"github.com/dolittle/go-sdk/core/artifacts"
	"github.com/dolittle/go-sdk/core/execution"
	"github.com/dolittle/go-sdk/core/reversecall"
	"github.com/dolittle/go-sdk/core/sf"
	"github.com/dolittle/go-sdk/internal/codec"
)

var ErrStoreFailed = errors.New("embedding store request failed")

const DefaultStoreRequestTimeout = 30 * time.Second

type StoreRequestKind string

const (
	StoreGet     StoreRequestKind = "get"
	StoreGetAll  StoreRequestKind = "getAll"
	StoreGetKeys StoreRequestKind = "getKeys"
	StoreUpdate  StoreRequestKind = "update"
	StoreDelete  StoreRequestKind = "delete"
)

// StoreRequest is sent to the runtime's embedding store subject.
type StoreRequest struct {
	Kind             StoreRequestKind  `json:"kind"`
	EmbeddingID      EmbeddingID       `json:"embeddingId"`
	ExecutionContext execution.Context `json:"executionContext"`
	Key              Key               `json:"key,omitempty"`
	State            string            `json:"state,omitempty"`
}

type StoreResponse struct {
	States  []ProjectionCurrentState `json:"states,omitempty"`
	Keys    []Key                    `json:"keys,omitempty"`
	Failure *reversecall.Failure     `json:"failure,omitempty"`
}

type StoreOptions struct {
	Requester        reversecall.Requester // required
	Subject          string                // required
	ExecutionContext execution.Context     // base context; the tenant is set per call
	ReadModelTypes   *ReadModelTypes       // used by Get and GetAll
	RequestTimeout   time.Duration         // bounds a shared Get; defaults to DefaultStoreRequestTimeout
	Log              *slog.Logger
}

// Store reads and changes the states of embeddings kept by the runtime.
// Updating or deleting a state makes the runtime call the compare or delete
// callback of the embedding.
type Store struct {
	opts  StoreOptions
	log   *slog.Logger
	codec codec.Codec
	gets  sf.Group[ProjectionCurrentState]
}

func NewStore(opts StoreOptions) (*Store, error) {
	if opts.Requester == nil {
		return nil, fmt.Errorf("embeddings: StoreOptions.Requester is required")
	}
	if opts.Subject == "" {
		return nil, fmt.Errorf("embeddings: StoreOptions.Subject is required")
	}
	if opts.ReadModelTypes == nil {
		opts.ReadModelTypes = artifacts.NewIdentifiers[EmbeddingID]()
	}
	if opts.RequestTimeout <= 0 {
		opts.RequestTimeout = DefaultStoreRequestTimeout
	}
	log := opts.Log
	if log == nil {
		log = slog.Default()
	}
	return &Store{
		opts:  opts,
		log:   log.With(slog.String("component", "embedding_store")),
		codec: codec.JSONCodec{},
	}, nil
}

// Get returns the current state of key. Concurrent calls for the same key are
// sent to the runtime once. A caller giving up does not fail the others; the
// shared request is bounded by RequestTimeout.
func (s *Store) Get(ctx context.Context, id EmbeddingID, tenant execution.TenantID, key Key) (ProjectionCurrentState, error) {
	flight := id.String() + "/" + tenant.String() + "/" + key.String()
	state, _, err := s.gets.DoContext(ctx, flight, func(ctx context.Context) (ProjectionCurrentState, error) {
		ctx, cancel := context.WithTimeout(ctx, s.opts.RequestTimeout)
		defer cancel()
		res, err := s.do(ctx, tenant, StoreRequest{Kind: StoreGet, EmbeddingID: id, Key: key})
		if err != nil {
			return ProjectionCurrentState{}, err
		}
		if len(res.States) != 1 {
			return ProjectionCurrentState{}, fmt.Errorf("%w: expected one state for %s, got %d", ErrStoreFailed, key, len(res.States))
		}
		return res.States[0], nil
	})
	return state, err
}

func (s *Store) GetAll(ctx context.Context, id EmbeddingID, tenant execution.TenantID) ([]ProjectionCurrentState, error) {
	res, err := s.do(ctx, tenant, StoreRequest{Kind: StoreGetAll, EmbeddingID: id})
	if err != nil {
		return nil, err
	}
	return res.States, nil
}

func (s *Store) GetKeys(ctx context.Context, id EmbeddingID, tenant execution.TenantID) ([]Key, error) {
	res, err := s.do(ctx, tenant, StoreRequest{Kind: StoreGetKeys, EmbeddingID: id})
	if err != nil {
		return nil, err
	}
	return res.Keys, nil
}

// Update asks the runtime to converge key towards state.
func (s *Store) Update(ctx context.Context, id EmbeddingID, tenant execution.TenantID, key Key, state any) error {
	b, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("encode state: %w", err)
	}
	_, err = s.do(ctx, tenant, StoreRequest{Kind: StoreUpdate, EmbeddingID: id, Key: key, State: string(b)})
	return err
}

// Delete asks the runtime to delete key.
func (s *Store) Delete(ctx context.Context, id EmbeddingID, tenant execution.TenantID, key Key) error {
	_, err := s.do(ctx, tenant, StoreRequest{Kind: StoreDelete, EmbeddingID: id, Key: key})
	return err
}

func (s *Store) do(ctx context.Context, tenant execution.TenantID, req StoreRequest) (StoreResponse, error) {
	req.ExecutionContext = s.opts.ExecutionContext.
		ForTenant(tenant).
		ForCorrelation(execution.NewCorrelationID())

	log := s.log.With(
		slog.String("kind", string(req.Kind)),
		slog.String("embedding", req.EmbeddingID.String()),
		slog.String("tenant", tenant.String()),
	)

	data, err := s.codec.Marshal(req)
	if err != nil {
		return StoreResponse{}, err
	}
	out, err := s.opts.Requester.Request(ctx, s.opts.Subject, data)
	if err != nil {
		log.Error("request failed", slog.Any("error", err))
		return StoreResponse{}, fmt.Errorf("%w: %w", ErrStoreFailed, err)
	}
	res, err := codec.Decode[StoreResponse](s.codec, out)
	if err != nil {
		return StoreResponse{}, fmt.Errorf("decode store response: %w", err)
	}
	if res.Failure != nil {
		log.Warn("runtime returned failure", slog.String("reason", res.Failure.Reason))
		return StoreResponse{}, fmt.Errorf("%w: %s", ErrStoreFailed, res.Failure.Reason)
	}
	log.Debug("done")
	return res, nil
}

// Get returns the read model of key in the embedding using read model T. The
// state is decoded onto a zero T.
func Get[T any](ctx context.Context, s *Store, tenant execution.TenantID, key Key) (T, error) {
	var zero T
	id, err := s.opts.ReadModelTypes.GetFor(reflect.TypeFor[T]())
	if err != nil {
		return zero, err
	}
	state, err := s.Get(ctx, id, tenant, key)
	if err != nil {
		return zero, err
	}
	return defaultReadModel[T]().Hydrate(state.State)
}

// GetAll returns every read model of the embedding using read model T.
func GetAll[T any](ctx context.Context, s *Store, tenant execution.TenantID) (map[Key]T, error) {
	id, err := s.opts.ReadModelTypes.GetFor(reflect.TypeFor[T]())
	if err != nil {
		return nil, err
	}
	states, err := s.GetAll(ctx, id, tenant)
	if err != nil {
		return nil, err
	}
	rm := defaultReadModel[T]()
	out := make(map[Key]T, len(states))
	for _, state := range states {
		v, err := rm.Hydrate(state.State)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", state.Key, err)
		}
		out[state.Key] = v
	}
	return out, nil
}
