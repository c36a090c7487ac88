package nats

import (
	"context"

	natsgo "github.com/nats-io/nats.go"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// TestImage is the NATS server image used by the reverse call transport tests.
const TestImage = "nats:2.11-alpine"

type Testing interface {
	require.TestingT
	Context() context.Context
	Logf(format string, args ...any)
	Cleanup(func())
}

// NewTestContainer starts a NATS server for the duration of the test and
// returns a connector reaching it through the mapped client port.
func NewTestContainer(t Testing, opts ...natsgo.Option) Connector {
	ctx := t.Context()
	natsC, err := testcontainers.Run(
		ctx, TestImage,
		testcontainers.WithExposedPorts("4222/tcp"),
		testcontainers.WithWaitStrategy(
			wait.ForListeningPort("4222/tcp"),
			wait.ForLog("Server is ready"),
		),
	)
	require.NoError(t, err)

	t.Cleanup(func() {
		if err := testcontainers.TerminateContainer(natsC); err != nil {
			t.Errorf("terminate nats container: %s", err.Error())
		}
	})

	natsURL, err := natsC.PortEndpoint(ctx, "4222/tcp", "nats")
	require.NoError(t, err)
	t.Logf("nats: %s", natsURL)
	return ConnectURL(natsURL, append([]natsgo.Option{natsgo.Name("dolittle-go-sdk-test")}, opts...)...)
}

// NewTestTransport creates a Transport over connect that is closed when the
// test ends.
func NewTestTransport(t Testing, connect Connector) *Transport {
	tp, err := NewTransport(TransportConfig{Connect: connect})
	require.NoError(t, err)
	t.Cleanup(func() { _ = tp.Close() })
	return tp
}
