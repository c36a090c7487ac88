// Package artifacts associates Go types with the identifiers the runtime knows
// them by.
//
// An [Artifact] pairs a GUID identifier with a [Generation]. A [TypeMap] keeps a
// one-to-one association between Go types and keys in both directions:
//
//	m := artifacts.NewArtifactTypeMap[MyID]()
//	err := m.Associate(reflect.TypeFor[MyType](), artifacts.New(id, artifacts.FirstGeneration))
//	key, err := m.ResolveFrom(&MyType{})
//
// Associations are made once while the client is being built and are read-only
// afterwards; the maps are not safe for concurrent mutation.
package artifacts
