// Package metrics holds the backend independent metric types shared by the
// embeddings and reverse call packages. Backends such as Prometheus live in
// adapters.
package metrics

import "time"

// Timer measures the duration of an operation. Call ObserveDuration when
// the operation completes to record the elapsed time, e.g.
//
//	defer m.RequestDuration(name).ObserveDuration()
type Timer interface {
	ObserveDuration()
}

// ObserveFunc records a measured duration.
type ObserveFunc func(d time.Duration)

type timer struct {
	start   time.Time
	observe ObserveFunc
}

// NewTimer starts a Timer that reports to observe.
func NewTimer(observe ObserveFunc) Timer {
	return &timer{start: time.Now(), observe: observe}
}

func (t *timer) ObserveDuration() { t.observe(time.Since(t.start)) }

type nopTimer struct{}

func (nopTimer) ObserveDuration() {}

// NopTimer returns a no-op Timer.
func NopTimer() Timer { return nopTimer{} }
