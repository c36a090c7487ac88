// Package build collects the outcome of building the client: event types and
// embeddings that failed to build are recorded here instead of aborting the
// whole build.
package build

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
)

var ErrBuildFailed = errors.New("build failed")

// Result is a single failure or warning.
type Result struct {
	Identifier string // what was being built, e.g. "embedding 6a7d..."
	Message    string
	Err        error
	Warning    bool
}

func (r Result) Error() string {
	if r.Err != nil {
		return fmt.Sprintf("%s: %s: %v", r.Identifier, r.Message, r.Err)
	}
	return fmt.Sprintf("%s: %s", r.Identifier, r.Message)
}

func (r Result) Unwrap() error { return r.Err }

// Results is safe for concurrent use.
type Results struct {
	mu      sync.Mutex
	results []Result
}

func NewResults() *Results { return &Results{} }

func (r *Results) AddFailure(identifier string, message string, err error) {
	r.add(Result{Identifier: identifier, Message: message, Err: err})
}

func (r *Results) AddWarning(identifier string, message string) {
	r.add(Result{Identifier: identifier, Message: message, Warning: true})
}

func (r *Results) add(res Result) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.results = append(r.results, res)
}

// Failed reports whether any failure was recorded. Warnings do not count.
func (r *Results) Failed() bool {
	return len(r.Failures()) > 0
}

func (r *Results) Failures() []Result { return r.filter(false) }
func (r *Results) Warnings() []Result { return r.filter(true) }

func (r *Results) filter(warning bool) []Result {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []Result
	for _, res := range r.results {
		if res.Warning == warning {
			out = append(out, res)
		}
	}
	return out
}

// Err joins all failures, or returns nil when there are none.
func (r *Results) Err() error {
	failures := r.Failures()
	if len(failures) == 0 {
		return nil
	}
	errs := make([]error, 0, len(failures)+1)
	errs = append(errs, ErrBuildFailed)
	for _, f := range failures {
		errs = append(errs, f)
	}
	return errors.Join(errs...)
}

// Log writes every result to log. Failures are logged as errors.
func (r *Results) Log(log *slog.Logger) {
	r.mu.Lock()
	results := append([]Result(nil), r.results...)
	r.mu.Unlock()

	for _, res := range results {
		attrs := []any{slog.String("identifier", res.Identifier)}
		if res.Err != nil {
			attrs = append(attrs, slog.Any("error", res.Err))
		}
		if res.Warning {
			log.Warn(res.Message, attrs...)
		} else {
			log.Error(res.Message, attrs...)
		}
	}
}
