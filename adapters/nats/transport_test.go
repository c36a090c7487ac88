package nats

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dolittle/go-sdk/core/reversecall"
)

type (
	testReg  struct{ Name string }
	testReq  struct{ N int }
	testResp struct{ N int }
)

func TestNats_Transport(t *testing.T) {
	connectNatsC := NewTestContainer(t)

	newTransport := func(t *testing.T) *Transport { return NewTestTransport(t, connectNatsC) }

	t.Run("connect & close", func(t *testing.T) {
		nc, _, err := connectNatsC()
		require.NoError(t, err)
		require.NotNil(t, nc)
		require.NoError(t, nc.Flush())
		require.NoError(t, nc.Drain())
		nc.Close()
	})

	t.Run("request & reply", func(t *testing.T) {
		tp := newTransport(t)

		s, err := tp.Subscribe(t.Context(), "test.echo", func(ctx context.Context, data []byte) ([]byte, error) {
			return data, nil
		})
		require.NoError(t, err)

		data, err := tp.Request(t.Context(), "test.echo", []byte("hello"))
		require.NoError(t, err)
		require.Equal(t, "hello", string(data))

		require.NoError(t, s.Unsubscribe())
		require.NoError(t, s.Unsubscribe())
	})

	t.Run("handler error", func(t *testing.T) {
		tp := newTransport(t)

		_, err := tp.Subscribe(t.Context(), "test.fail", func(ctx context.Context, data []byte) ([]byte, error) {
			return nil, errors.New("nope")
		})
		require.NoError(t, err)

		_, err = tp.Request(t.Context(), "test.fail", nil)
		require.EqualError(t, err, "nope")
	})

	t.Run("no subscriber", func(t *testing.T) {
		tp := newTransport(t)
		_, err := tp.Request(t.Context(), "test.nobody", nil)
		require.ErrorIs(t, err, reversecall.ErrNoSubscriber)
	})

	t.Run("closed", func(t *testing.T) {
		tp, err := NewTransport(TransportConfig{Connect: connectNatsC})
		require.NoError(t, err)
		require.NoError(t, tp.Close())
		require.NoError(t, tp.Close())

		_, err = tp.Request(t.Context(), "test.echo", nil)
		require.ErrorIs(t, err, reversecall.ErrTransportClosed)
		_, err = tp.Subscribe(t.Context(), "test.echo", nil)
		require.ErrorIs(t, err, reversecall.ErrTransportClosed)
	})

	t.Run("reverse call", func(t *testing.T) {
		runtimeSide := newTransport(t)
		clientSide := newTransport(t)

		rt := reversecall.NewTestRuntime[testReg, testReq, testResp](t, runtimeSide, "test.connect")
		c, err := reversecall.NewClient[testReg, testReq, testResp](
			reversecall.Options[testReg]{
				Transport:      clientSide,
				ConnectSubject: "test.connect",
				Registration:   testReg{Name: "doubler"},
				PingInterval:   time.Second,
				Log:            slog.Default(),
			},
			func(ctx context.Context, req testReq) testResp { return testResp{N: req.N * 2} },
		)
		require.NoError(t, err)

		ctx, cancel := context.WithCancel(t.Context())
		done := make(chan error, 1)
		go func() { done <- c.Run(ctx) }()

		conn := rt.WaitForConnection()
		require.Equal(t, "doubler", conn.Registration.Name)
		require.NoError(t, rt.Ping(t.Context(), conn))

		resp, err := rt.Call(t.Context(), conn, testReq{N: 21})
		require.NoError(t, err)
		require.Equal(t, 42, resp.N)

		cancel()
		require.NoError(t, <-done)
	})
}
