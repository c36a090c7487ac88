package prometheus

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/dolittle/go-sdk/core/embeddings"
	"github.com/dolittle/go-sdk/core/metrics"
)

// embeddingMetrics implements embeddings.Metrics using Prometheus.
type embeddingMetrics struct {
	requestDuration  *prometheus.HistogramVec
	requestsTotal    *prometheus.CounterVec
	eventsProduced   *prometheus.CounterVec
	failuresReturned *prometheus.CounterVec
}

// NewEmbeddingMetrics creates a new Prometheus implementation of embeddings.Metrics.
func NewEmbeddingMetrics(reg prometheus.Registerer) embeddings.Metrics {
	m := &embeddingMetrics{
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "dolittle_embedding_request_duration_seconds",
			Help:    "Embedding request handling time in seconds",
			Buckets: defaultBuckets,
		}, []string{"embedding", "kind"}),

		requestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "dolittle_embedding_requests_total",
			Help: "Total number of embedding requests handled",
		}, []string{"embedding", "kind", "success"}),

		eventsProduced: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "dolittle_embedding_events_produced_total",
			Help: "Total number of events produced by compare and delete",
		}, []string{"embedding", "kind"}),

		failuresReturned: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "dolittle_embedding_failures_total",
			Help: "Total number of failures returned to the runtime",
		}, []string{"embedding", "retry"}),
	}

	reg.MustRegister(
		m.requestDuration,
		m.requestsTotal,
		m.eventsProduced,
		m.failuresReturned,
	)

	return m
}

func (m *embeddingMetrics) RequestDuration(embedding string, kind embeddings.RequestKind) metrics.Timer {
	return newTimer(m.requestDuration.WithLabelValues(embedding, string(kind)))
}

func (m *embeddingMetrics) RequestCompleted(embedding string, kind embeddings.RequestKind, success bool) {
	m.requestsTotal.WithLabelValues(embedding, string(kind), boolToStr(success)).Inc()
}

func (m *embeddingMetrics) EventsProduced(embedding string, kind embeddings.RequestKind, count int) {
	m.eventsProduced.WithLabelValues(embedding, string(kind)).Add(float64(count))
}

func (m *embeddingMetrics) FailureReturned(embedding string, retry bool) {
	m.failuresReturned.WithLabelValues(embedding, boolToStr(retry)).Inc()
}

var _ embeddings.Metrics = (*embeddingMetrics)(nil)
