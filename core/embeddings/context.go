package embeddings

import (
	"github.com/dolittle/go-sdk/core/events"
	"github.com/dolittle/go-sdk/core/execution"
)

// Context is passed to the update and delete callbacks.
type Context struct {
	Key                        Key
	WasCreatedFromInitialState bool
	IsDelete                   bool
	ExecutionContext           execution.Context
}

// ProjectContext is passed to projection callbacks.
type ProjectContext struct {
	Key                        Key
	WasCreatedFromInitialState bool
	ExecutionContext           execution.Context
	EventContext               events.Context
}
