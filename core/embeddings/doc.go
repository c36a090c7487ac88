// Package embeddings keeps state in an external system in sync with a read
// model.
//
// An embedding is a projection with two extra callbacks. The runtime asks the
// embedding to compare a received (desired) state with the current projected
// state; the update callback answers with events that, once projected, move
// the current state towards the received one. The delete callback answers with
// events that lead to the read model being deleted.
//
// # Building
//
//	dishes := embeddings.New[*Dish](embeddingID).
//	    ResolveUpdateToEvents(func(received, current *Dish, ctx embeddings.Context) ([]any, error) {
//	        ...
//	    }).
//	    ResolveDeletionToEvents(func(current *Dish, ctx embeddings.Context) ([]any, error) {
//	        ...
//	    })
//	embeddings.On(dishes, func(dish *Dish, ev *DishPrepared, ctx embeddings.ProjectContext) (*Dish, error) {
//	    dish.NumberOfTimesPrepared++
//	    return dish, nil
//	})
//
// A projection callback deletes the read model by returning
// [DeleteReadModelInstance].
//
// # Processing
//
// A [Processor] adapts an embedding to the wire protocol: it dispatches each
// [Request] to the embedding and always answers with a [Response]. Callback
// failures become a retryable processor failure when the runtime is retrying
// the request, and a terminal failure otherwise.
package embeddings
