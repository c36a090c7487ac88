package embeddings

import "github.com/dolittle/go-sdk/core/metrics"

// Metrics defines the metrics of embedding processors. All methods are
// thread-safe.
type Metrics interface {
	RequestDuration(embedding string, kind RequestKind) metrics.Timer
	RequestCompleted(embedding string, kind RequestKind, success bool)
	EventsProduced(embedding string, kind RequestKind, count int)
	FailureReturned(embedding string, retry bool)
}

type nopMetrics struct{}

func (nopMetrics) RequestDuration(string, RequestKind) metrics.Timer { return metrics.NopTimer() }
func (nopMetrics) RequestCompleted(string, RequestKind, bool)        {}
func (nopMetrics) EventsProduced(string, RequestKind, int)           {}
func (nopMetrics) FailureReturned(string, bool)                      {}

// NopMetrics returns a no-op Metrics implementation.
func NopMetrics() Metrics { return nopMetrics{} }
