package embeddings

import (
	"context"
	"encoding/json"
	"reflect"
	"slices"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dolittle/go-sdk/core/artifacts"
	"github.com/dolittle/go-sdk/core/execution"
	"github.com/dolittle/go-sdk/core/reversecall"
)

const storeSubject = "test.embeddings.store"

// fakeStore answers store requests from an in-memory table of states.
type fakeStore struct {
	mu       sync.Mutex
	states   map[Key]string
	order    []Key
	requests []StoreRequest
}

func newFakeStore(t *testing.T, tr reversecall.Transport) *fakeStore {
	f := &fakeStore{states: map[Key]string{}}
	_, err := tr.Subscribe(t.Context(), storeSubject, f.handle)
	require.NoError(t, err)
	return f
}

func (f *fakeStore) put(key Key, state string) {
	if _, ok := f.states[key]; !ok {
		f.order = append(f.order, key)
	}
	f.states[key] = state
}

func (f *fakeStore) handle(_ context.Context, data []byte) ([]byte, error) {
	var req StoreRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, req)

	var res StoreResponse
	switch req.Kind {
	case StoreGet:
		state, ok := f.states[req.Key]
		if !ok {
			state = `{"dish":"","numberOfTimesPrepared":0}`
		}
		res.States = []ProjectionCurrentState{{Type: CurrentStatePersisted, Key: req.Key, State: state}}
	case StoreGetAll:
		for _, k := range f.order {
			res.States = append(res.States, ProjectionCurrentState{Type: CurrentStatePersisted, Key: k, State: f.states[k]})
		}
	case StoreGetKeys:
		res.Keys = slices.Clone(f.order)
	case StoreUpdate:
		f.put(req.Key, req.State)
	case StoreDelete:
		if _, ok := f.states[req.Key]; !ok {
			res.Failure = &reversecall.Failure{Reason: "no such key " + req.Key.String()}
			break
		}
		delete(f.states, req.Key)
		f.order = slices.DeleteFunc(f.order, func(k Key) bool { return k == req.Key })
	}
	return json.Marshal(res)
}

func newTestStore(t *testing.T) (*Store, *fakeStore) {
	tr := reversecall.CreateInMemoryTransport(t)
	fake := newFakeStore(t, tr)

	types := artifacts.NewIdentifiers[EmbeddingID]()
	require.NoError(t, types.Associate(reflect.TypeFor[*Dish](), dishEmbedding))

	s, err := NewStore(StoreOptions{
		Requester:        tr,
		Subject:          storeSubject,
		ExecutionContext: execution.Context{Environment: "test"},
		ReadModelTypes:   types,
	})
	require.NoError(t, err)
	return s, fake
}

func TestNewStore_Validation(t *testing.T) {
	_, err := NewStore(StoreOptions{Subject: storeSubject})
	require.Error(t, err)
	_, err = NewStore(StoreOptions{Requester: reversecall.NewMemoryTransport()})
	require.Error(t, err)
}

func TestStore(t *testing.T) {
	s, fake := newTestStore(t)
	tenant := execution.DevelopmentTenant

	require.NoError(t, s.Update(t.Context(), dishEmbedding, tenant, "Taco", Dish{Dish: "Taco", NumberOfTimesPrepared: 2}))
	require.NoError(t, s.Update(t.Context(), dishEmbedding, tenant, "Burrito", Dish{Dish: "Burrito", NumberOfTimesPrepared: 1}))

	state, err := s.Get(t.Context(), dishEmbedding, tenant, "Taco")
	require.NoError(t, err)
	require.Equal(t, Key("Taco"), state.Key)
	require.JSONEq(t, `{"dish":"Taco","numberOfTimesPrepared":2}`, state.State)

	keys, err := s.GetKeys(t.Context(), dishEmbedding, tenant)
	require.NoError(t, err)
	require.Equal(t, []Key{"Taco", "Burrito"}, keys)

	states, err := s.GetAll(t.Context(), dishEmbedding, tenant)
	require.NoError(t, err)
	require.Len(t, states, 2)

	require.NoError(t, s.Delete(t.Context(), dishEmbedding, tenant, "Taco"))
	err = s.Delete(t.Context(), dishEmbedding, tenant, "Taco")
	require.ErrorIs(t, err, ErrStoreFailed)
	require.Contains(t, err.Error(), "no such key Taco")

	fake.mu.Lock()
	defer fake.mu.Unlock()
	require.Len(t, fake.requests, 7)
	for _, req := range fake.requests {
		require.Equal(t, dishEmbedding, req.EmbeddingID)
		require.Equal(t, tenant, req.ExecutionContext.Tenant)
		require.Equal(t, "test", req.ExecutionContext.Environment)
		require.NotEmpty(t, req.ExecutionContext.CorrelationID)
	}
}

func TestStore_Typed(t *testing.T) {
	s, fake := newTestStore(t)
	tenant := execution.DevelopmentTenant
	fake.put("Taco", `{"dish":"Taco","numberOfTimesPrepared":4,"chefs":["a"]}`)
	fake.put("Pizza", `{"dish":"Pizza","numberOfTimesPrepared":1}`)

	dish, err := Get[*Dish](t.Context(), s, tenant, "Taco")
	require.NoError(t, err)
	require.Equal(t, &Dish{Dish: "Taco", NumberOfTimesPrepared: 4, Chefs: []string{"a"}}, dish)

	all, err := GetAll[*Dish](t.Context(), s, tenant)
	require.NoError(t, err)
	require.Equal(t, map[Key]*Dish{
		"Taco":  {Dish: "Taco", NumberOfTimesPrepared: 4, Chefs: []string{"a"}},
		"Pizza": {Dish: "Pizza", NumberOfTimesPrepared: 1},
	}, all)

	_, err = Get[DishPrepared](t.Context(), s, tenant, "Taco")
	require.Error(t, err)
}

func TestStore_NoRuntime(t *testing.T) {
	tr := reversecall.CreateInMemoryTransport(t)
	s, err := NewStore(StoreOptions{Requester: tr, Subject: storeSubject})
	require.NoError(t, err)

	_, err = s.Get(t.Context(), dishEmbedding, execution.DevelopmentTenant, "Taco")
	require.ErrorIs(t, err, ErrStoreFailed)
	require.ErrorIs(t, err, reversecall.ErrNoSubscriber)
}

// slowRequester answers get requests once released.
type slowRequester struct {
	calls   atomic.Int32
	release chan struct{}
}

func (r *slowRequester) Request(ctx context.Context, _ string, data []byte) ([]byte, error) {
	r.calls.Add(1)
	var req StoreRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, err
	}
	select {
	case <-r.release:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	return json.Marshal(StoreResponse{States: []ProjectionCurrentState{
		{Type: CurrentStatePersisted, Key: req.Key, State: `{"dish":"Taco","numberOfTimesPrepared":1}`},
	}})
}

func TestStore_SharedGetSurvivesCancelledCaller(t *testing.T) {
	r := &slowRequester{release: make(chan struct{})}
	s, err := NewStore(StoreOptions{Requester: r, Subject: storeSubject})
	require.NoError(t, err)

	first, cancel := context.WithCancel(t.Context())
	firstErr := make(chan error, 1)
	go func() {
		_, err := s.Get(first, dishEmbedding, execution.DevelopmentTenant, "Taco")
		firstErr <- err
	}()
	require.Eventually(t, func() bool { return r.calls.Load() == 1 }, time.Second, time.Millisecond)

	second := make(chan ProjectionCurrentState, 1)
	go func() {
		state, err := s.Get(t.Context(), dishEmbedding, execution.DevelopmentTenant, "Taco")
		assert.NoError(t, err)
		second <- state
	}()
	time.Sleep(50 * time.Millisecond)

	cancel()
	require.ErrorIs(t, <-firstErr, context.Canceled)

	close(r.release)
	state := <-second
	require.Equal(t, Key("Taco"), state.Key)
	require.JSONEq(t, `{"dish":"Taco","numberOfTimesPrepared":1}`, state.State)
	require.Equal(t, int32(1), r.calls.Load())
}
