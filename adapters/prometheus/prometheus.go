// Package prometheus provides Prometheus implementations of the metrics
// interfaces of embedding processors and reverse call clients.
package prometheus

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/dolittle/go-sdk/core/client"
	"github.com/dolittle/go-sdk/core/metrics"
)

// newTimer starts a timer that observes into h in seconds.
func newTimer(h prometheus.Observer) metrics.Timer {
	return metrics.NewTimer(func(d time.Duration) { h.Observe(d.Seconds()) })
}

// Default histogram buckets for latency metrics (in seconds).
var defaultBuckets = []float64{
	.001, .0025, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10,
}

func boolToStr(b bool) string {
	if b {
		return "true"
	}
	return "false"
}

// AllMetrics holds Prometheus implementations for every part of the client.
type AllMetrics struct {
	Embeddings  *embeddingMetrics
	ReverseCall *reverseCallMetrics
}

// NewAllMetrics creates and registers all metrics with reg.
func NewAllMetrics(reg prometheus.Registerer) *AllMetrics {
	return &AllMetrics{
		Embeddings:  NewEmbeddingMetrics(reg).(*embeddingMetrics),
		ReverseCall: NewReverseCallMetrics(reg).(*reverseCallMetrics),
	}
}

// Client returns the metrics in the form client.Config expects.
func (m *AllMetrics) Client() client.Metrics {
	return client.Metrics{Embeddings: m.Embeddings, ReverseCall: m.ReverseCall}
}
