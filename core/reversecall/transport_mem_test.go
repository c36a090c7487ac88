package reversecall

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestTransport_Memory(t *testing.T) {
	slog.SetLogLoggerLevel(slog.LevelDebug)

	tr := NewMemoryTransport()
	s, err := tr.Subscribe(t.Context(), "echo", func(ctx context.Context, data []byte) ([]byte, error) {
		return append([]byte("re: "), data...), nil
	})
	require.NoError(t, err)
	require.NotNil(t, s)
	require.True(t, tr.HasSubscriber("echo"))

	data, err := tr.Request(t.Context(), "echo", []byte("hello"))
	require.NoError(t, err)
	require.Equal(t, "re: hello", string(data))

	require.NoError(t, s.Unsubscribe())
	require.False(t, tr.HasSubscriber("echo"))
	require.NoError(t, tr.Close())
}

func TestTransport_Memory_handler_error(t *testing.T) {
	tr := NewMemoryTransport().WithLog(slog.Default())
	_, err := tr.Subscribe(t.Context(), "boom", func(ctx context.Context, data []byte) ([]byte, error) {
		return nil, errors.New("boom")
	})
	require.NoError(t, err)

	_, err = tr.Request(t.Context(), "boom", []byte("hello"))
	require.ErrorContains(t, err, "boom")

	require.NoError(t, tr.Close())
}

func TestTransport_Memory_no_subscriber(t *testing.T) {
	tr := CreateInMemoryTransport(t)
	_, err := tr.Request(t.Context(), "nobody", nil)
	require.ErrorIs(t, err, ErrNoSubscriber)
}

func TestTransport_Memory_context_unsubscribes(t *testing.T) {
	tr := CreateInMemoryTransport(t)
	ctx, cancel := context.WithCancel(t.Context())
	_, err := tr.Subscribe(ctx, "short", func(ctx context.Context, data []byte) ([]byte, error) {
		return nil, nil
	})
	require.NoError(t, err)

	cancel()
	require.Eventually(t, func() bool { return !tr.HasSubscriber("short") }, time.Second, time.Millisecond)
}

func TestTransport_Memory_request_timeout(t *testing.T) {
	tr := CreateInMemoryTransport(t)
	release := make(chan struct{})
	defer close(release)
	_, err := tr.Subscribe(t.Context(), "slow", func(ctx context.Context, data []byte) ([]byte, error) {
		<-release
		return nil, nil
	})
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(t.Context(), 20*time.Millisecond)
	defer cancel()
	_, err = tr.Request(ctx, "slow", nil)
	require.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestTransport_Memory_closed(t *testing.T) {
	tr := NewMemoryTransport()
	require.NoError(t, tr.Close())
	require.NoError(t, tr.Close())

	_, err := tr.Subscribe(t.Context(), "x", func(ctx context.Context, data []byte) ([]byte, error) { return nil, nil })
	require.ErrorIs(t, err, ErrTransportClosed)
	_, err = tr.Request(t.Context(), "x", nil)
	require.ErrorIs(t, err, ErrTransportClosed)
}
