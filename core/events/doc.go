// Package events holds event types and the registry that associates Go types
// with them.
//
// An [EventType] is the pair of a GUID and a generation. Event types are
// registered explicitly while the client is built:
//
//	b := events.NewBuilder()
//	events.Register[DishPrepared](b, events.MustEventType("1844473f-d714-4327-8b7f-5b3c2bdfc26a", 1))
//	types := b.Build(results)
//
// After the build the registry is read-only and safe for concurrent use.
package events
