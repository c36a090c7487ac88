package prometheus

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/dolittle/go-sdk/core/metrics"
	"github.com/dolittle/go-sdk/core/reversecall"
)

// reverseCallMetrics implements reversecall.Metrics using Prometheus.
type reverseCallMetrics struct {
	connectDuration *prometheus.HistogramVec
	registrations   *prometheus.CounterVec
	connected       *prometheus.GaugeVec
	reconnects      *prometheus.CounterVec
	pings           *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
}

// NewReverseCallMetrics creates a new Prometheus implementation of reversecall.Metrics.
func NewReverseCallMetrics(reg prometheus.Registerer) reversecall.Metrics {
	m := &reverseCallMetrics{
		connectDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "dolittle_reverse_call_connect_duration_seconds",
			Help:    "Connect and registration latency in seconds",
			Buckets: defaultBuckets,
		}, []string{"name"}),

		registrations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "dolittle_reverse_call_registrations_total",
			Help: "Total number of registration attempts",
		}, []string{"name", "success"}),

		connected: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "dolittle_reverse_call_connected",
			Help: "1 while the client is registered with the runtime",
		}, []string{"name"}),

		reconnects: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "dolittle_reverse_call_reconnects_total",
			Help: "Total number of reconnects",
		}, []string{"name"}),

		pings: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "dolittle_reverse_call_pings_total",
			Help: "Total number of pings received",
		}, []string{"name"}),

		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "dolittle_reverse_call_request_duration_seconds",
			Help:    "Request handling time in seconds",
			Buckets: defaultBuckets,
		}, []string{"name"}),
	}

	reg.MustRegister(
		m.connectDuration,
		m.registrations,
		m.connected,
		m.reconnects,
		m.pings,
		m.requestDuration,
	)

	return m
}

func (m *reverseCallMetrics) ConnectDuration(name string) metrics.Timer {
	return newTimer(m.connectDuration.WithLabelValues(name))
}

func (m *reverseCallMetrics) Registration(name string, success bool) {
	m.registrations.WithLabelValues(name, boolToStr(success)).Inc()
}

func (m *reverseCallMetrics) Connected(name string, connected bool) {
	v := 0.0
	if connected {
		v = 1
	}
	m.connected.WithLabelValues(name).Set(v)
}

func (m *reverseCallMetrics) Reconnect(name string) {
	m.reconnects.WithLabelValues(name).Inc()
}

func (m *reverseCallMetrics) PingReceived(name string) {
	m.pings.WithLabelValues(name).Inc()
}

func (m *reverseCallMetrics) RequestDuration(name string) metrics.Timer {
	return newTimer(m.requestDuration.WithLabelValues(name))
}

var _ reversecall.Metrics = (*reverseCallMetrics)(nil)
