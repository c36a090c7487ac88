package embeddings

import (
	"reflect"

	"github.com/dolittle/go-sdk/core/artifacts"
	"github.com/dolittle/go-sdk/core/build"
	"github.com/dolittle/go-sdk/core/events"
)

// Definition is an embedding definition, i.e. a *Builder[T].
type Definition interface {
	EmbeddingID() EmbeddingID
	readModelType() reflect.Type
	buildProcessor(types events.Resolver, results *build.Results, opts ProcessorOptions) (RequestProcessor, bool)
}

// ReadModelTypes associates read model types with the embeddings using them.
type ReadModelTypes = artifacts.Identifiers[EmbeddingID]

// Built is the outcome of building all embeddings.
type Built struct {
	Processors     []RequestProcessor
	ReadModelTypes *ReadModelTypes
}

// EmbeddingsBuilder collects embedding definitions.
type EmbeddingsBuilder struct {
	defs []Definition
}

func NewEmbeddingsBuilder() *EmbeddingsBuilder { return &EmbeddingsBuilder{} }

func (b *EmbeddingsBuilder) Register(defs ...Definition) *EmbeddingsBuilder {
	b.defs = append(b.defs, defs...)
	return b
}

// Build builds every definition. A definition that fails is reported to
// results and skipped; the others are still built.
func (b *EmbeddingsBuilder) Build(types events.Resolver, results *build.Results, opts ProcessorOptions) Built {
	built := Built{ReadModelTypes: artifacts.NewIdentifiers[EmbeddingID]()}
	seen := make(map[EmbeddingID]bool, len(b.defs))

	for _, def := range b.defs {
		id := def.EmbeddingID()
		identifier := "embedding " + id.String()
		if seen[id] {
			results.AddFailure(identifier, "embedding is defined more than once", nil)
			continue
		}
		seen[id] = true

		p, ok := def.buildProcessor(types, results, opts)
		if !ok {
			continue
		}
		built.Processors = append(built.Processors, p)

		if err := built.ReadModelTypes.Associate(def.readModelType(), id); err != nil {
			results.AddWarning(identifier, "read model type is not associated with the embedding: "+err.Error())
		}
	}
	return built
}
