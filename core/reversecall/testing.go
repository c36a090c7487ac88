package reversecall

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/stretchr/testify/require"

	"github.com/dolittle/go-sdk/internal/codec"
)

func CreateInMemoryTransport(t *testing.T) *MemoryTransport {
	tr := NewMemoryTransport()
	t.Cleanup(func() {
		require.NoError(t, tr.Close())
	})
	return tr
}

// Connection is a client connection accepted by a TestRuntime.
type Connection[Reg any] struct {
	CallbackSubject string
	PingInterval    time.Duration
	Registration    Reg
}

// TestRuntime plays the runtime side of the protocol in tests.
type TestRuntime[Reg, Req, Resp any] struct {
	t     *testing.T
	tr    Transport
	codec codec.Codec

	mu     sync.Mutex
	reject string

	connections chan Connection[Reg]
}

// NewTestRuntime accepts connections on connectSubject until the test ends.
func NewTestRuntime[Reg, Req, Resp any](t *testing.T, tr Transport, connectSubject string) *TestRuntime[Reg, Req, Resp] {
	r := &TestRuntime[Reg, Req, Resp]{
		t:           t,
		tr:          tr,
		codec:       codec.JSONCodec{},
		connections: make(chan Connection[Reg], 16),
	}
	_, err := tr.Subscribe(t.Context(), connectSubject, r.onConnect)
	require.NoError(t, err)
	return r
}

// RejectWith makes subsequent registrations fail with reason. An empty reason
// accepts them again.
func (r *TestRuntime[Reg, Req, Resp]) RejectWith(reason string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.reject = reason
}

func (r *TestRuntime[Reg, Req, Resp]) onConnect(_ context.Context, data []byte) ([]byte, error) {
	args, err := codec.Decode[ConnectArguments[Reg]](r.codec, data)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	reject := r.reject
	r.mu.Unlock()

	if reject != "" {
		return r.codec.Marshal(ConnectResponse{Failure: &Failure{Reason: reject}})
	}
	r.connections <- Connection[Reg]{
		CallbackSubject: args.CallbackSubject,
		PingInterval:    args.PingInterval.Std(),
		Registration:    args.Registration,
	}
	return r.codec.Marshal(ConnectResponse{})
}

// WaitForConnection returns the next accepted connection.
func (r *TestRuntime[Reg, Req, Resp]) WaitForConnection() Connection[Reg] {
	r.t.Helper()
	select {
	case c := <-r.connections:
		return c
	case <-time.After(5 * time.Second):
		r.t.Fatal("timed out waiting for a connection")
		return Connection[Reg]{}
	}
}

// Ping sends a ping to conn and waits for the pong.
func (r *TestRuntime[Reg, Req, Resp]) Ping(ctx context.Context, conn Connection[Reg]) error {
	id := gonanoid.Must()
	out, err := r.send(ctx, conn, Frame[Req]{Kind: FramePing, ID: id})
	if err != nil {
		return err
	}
	if out.Kind != FramePong || out.ID != id {
		return fmt.Errorf("unexpected answer to ping: %s %s", out.Kind, out.ID)
	}
	return nil
}

// Call sends req to conn and returns the client's response.
func (r *TestRuntime[Reg, Req, Resp]) Call(ctx context.Context, conn Connection[Reg], req Req) (Resp, error) {
	var zero Resp
	id := gonanoid.Must()
	out, err := r.send(ctx, conn, Frame[Req]{Kind: FrameRequest, ID: id, Payload: &req})
	if err != nil {
		return zero, err
	}
	if out.Kind != FrameResponse || out.ID != id || out.Payload == nil {
		return zero, fmt.Errorf("unexpected answer to request: %s %s", out.Kind, out.ID)
	}
	return *out.Payload, nil
}

func (r *TestRuntime[Reg, Req, Resp]) send(ctx context.Context, conn Connection[Reg], f Frame[Req]) (Frame[Resp], error) {
	data, err := r.codec.Marshal(f)
	if err != nil {
		return Frame[Resp]{}, err
	}
	res, err := r.tr.Request(ctx, conn.CallbackSubject, data)
	if err != nil {
		return Frame[Resp]{}, err
	}
	return codec.Decode[Frame[Resp]](r.codec, res)
}
