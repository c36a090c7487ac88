// Command embedding-inspect builds the kitchen sample and prints what the
// client would register with the runtime: the registration request of every
// embedding and the outcome of the build.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/dolittle/go-sdk/core/build"
	"github.com/dolittle/go-sdk/core/embeddings"
	"github.com/dolittle/go-sdk/core/events"
	"github.com/dolittle/go-sdk/examples/kitchen/dishes"
)

type report struct {
	EventTypes    []events.EventType               `json:"eventTypes"`
	Registrations []embeddings.RegistrationRequest `json:"registrations"`
	Failures      []string                         `json:"failures,omitempty"`
	Warnings      []string                         `json:"warnings,omitempty"`
}

func main() {
	compact := flag.Bool("compact", false, "print compact JSON")
	verbose := flag.Bool("v", false, "log build results to stderr")
	flag.Parse()

	level := slog.LevelWarn
	if *verbose {
		level = slog.LevelDebug
	}
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	r, results := inspect(log)
	if *verbose {
		results.Log(log)
	}

	enc := json.NewEncoder(os.Stdout)
	if !*compact {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(r); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if results.Failed() {
		os.Exit(2)
	}
}

func inspect(log *slog.Logger) (report, *build.Results) {
	results := build.NewResults()
	types := dishes.RegisterEventTypes(events.NewBuilder()).Build(results)
	built := embeddings.NewEmbeddingsBuilder().
		Register(dishes.Embedding()).
		Build(types, results, embeddings.ProcessorOptions{Log: log})

	r := report{EventTypes: types.GetAll()}
	for _, p := range built.Processors {
		r.Registrations = append(r.Registrations, p.Registration())
	}
	for _, f := range results.Failures() {
		r.Failures = append(r.Failures, f.Error())
	}
	for _, w := range results.Warnings() {
		r.Warnings = append(r.Warnings, w.Error())
	}
	return r, results
}
