package reversecall

import "github.com/dolittle/go-sdk/core/metrics"

// Metrics defines the metrics of reverse call clients. The name is the
// client's name, e.g. "embedding 6a7d...". All methods are thread-safe.
type Metrics interface {
	ConnectDuration(name string) metrics.Timer
	Registration(name string, success bool)
	Connected(name string, connected bool)
	Reconnect(name string)

	PingReceived(name string)
	RequestDuration(name string) metrics.Timer
}

type nopMetrics struct{}

func (nopMetrics) ConnectDuration(string) metrics.Timer { return metrics.NopTimer() }
func (nopMetrics) Registration(string, bool)            {}
func (nopMetrics) Connected(string, bool)               {}
func (nopMetrics) Reconnect(string)                     {}

func (nopMetrics) PingReceived(string)                  {}
func (nopMetrics) RequestDuration(string) metrics.Timer { return metrics.NopTimer() }

// NopMetrics returns a no-op Metrics implementation.
func NopMetrics() Metrics { return nopMetrics{} }
