package prometheus

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dolittle/go-sdk/core/embeddings"
)

func gatheredNames(t *testing.T, reg *prometheus.Registry) map[string]bool {
	t.Helper()
	mfs, err := reg.Gather()
	require.NoError(t, err)
	names := make(map[string]bool)
	for _, mf := range mfs {
		names[mf.GetName()] = true
	}
	return names
}

func TestNewEmbeddingMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewEmbeddingMetrics(reg)
	require.NotNil(t, m)

	timer := m.RequestDuration("dishes", embeddings.RequestCompare)
	assert.NotNil(t, timer)
	timer.ObserveDuration()

	m.RequestCompleted("dishes", embeddings.RequestCompare, true)
	m.RequestCompleted("dishes", embeddings.RequestProjection, false)
	m.EventsProduced("dishes", embeddings.RequestCompare, 3)
	m.FailureReturned("dishes", true)

	names := gatheredNames(t, reg)
	assert.True(t, names["dolittle_embedding_request_duration_seconds"])
	assert.True(t, names["dolittle_embedding_requests_total"])
	assert.True(t, names["dolittle_embedding_events_produced_total"])
	assert.True(t, names["dolittle_embedding_failures_total"])

	em := m.(*embeddingMetrics)
	assert.Equal(t, 3.0, testutil.ToFloat64(em.eventsProduced.WithLabelValues("dishes", "compare")))
	assert.Equal(t, 1.0, testutil.ToFloat64(em.requestsTotal.WithLabelValues("dishes", "projection", "false")))
}

func TestNewReverseCallMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewReverseCallMetrics(reg)
	require.NotNil(t, m)

	timer := m.ConnectDuration("embedding a")
	assert.NotNil(t, timer)
	timer.ObserveDuration()

	m.Registration("embedding a", true)
	m.Connected("embedding a", true)
	m.PingReceived("embedding a")
	m.PingReceived("embedding a")
	m.RequestDuration("embedding a").ObserveDuration()

	rm := m.(*reverseCallMetrics)
	assert.Equal(t, 1.0, testutil.ToFloat64(rm.connected.WithLabelValues("embedding a")))
	assert.Equal(t, 2.0, testutil.ToFloat64(rm.pings.WithLabelValues("embedding a")))

	m.Connected("embedding a", false)
	m.Reconnect("embedding a")
	assert.Equal(t, 0.0, testutil.ToFloat64(rm.connected.WithLabelValues("embedding a")))
	assert.Equal(t, 1.0, testutil.ToFloat64(rm.reconnects.WithLabelValues("embedding a")))

	names := gatheredNames(t, reg)
	assert.True(t, names["dolittle_reverse_call_connect_duration_seconds"])
	assert.True(t, names["dolittle_reverse_call_registrations_total"])
}

func TestNewAllMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewAllMetrics(reg)

	require.NotNil(t, m.Embeddings)
	require.NotNil(t, m.ReverseCall)

	c := m.Client()
	assert.NotNil(t, c.Embeddings)
	assert.NotNil(t, c.ReverseCall)

	// registering twice on the same registry panics
	assert.Panics(t, func() { NewAllMetrics(reg) })
}

func TestBoolToStr(t *testing.T) {
	assert.Equal(t, "true", boolToStr(true))
	assert.Equal(t, "false", boolToStr(false))
}
