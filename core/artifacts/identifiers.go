package artifacts

import "reflect"

// Identifiers associates Go types with bare identifiers, for artifacts that
// have no generation (e.g. read model types of embeddings).
type Identifiers[TID Identifier] struct {
	m *TypeMap[TID]
}

func NewIdentifiers[TID Identifier]() *Identifiers[TID] {
	return &Identifiers[TID]{m: NewTypeMap[TID](1, DecomposeID[TID])}
}

func (i *Identifiers[TID]) Associate(t reflect.Type, id TID) error { return i.m.Associate(t, id) }
func (i *Identifiers[TID]) HasFor(t reflect.Type) bool              { return i.m.HasFor(t) }
func (i *Identifiers[TID]) GetFor(t reflect.Type) (TID, error)      { return i.m.GetFor(t) }
func (i *Identifiers[TID]) HasTypeFor(id TID) bool                  { return i.m.HasTypeFor(id) }
func (i *Identifiers[TID]) GetTypeFor(id TID) (reflect.Type, error) { return i.m.GetTypeFor(id) }
func (i *Identifiers[TID]) GetAll() []TID                           { return i.m.GetAll() }
func (i *Identifiers[TID]) GetAllTypes() []reflect.Type             { return i.m.GetAllTypes() }
func (i *Identifiers[TID]) Len() int                                { return i.m.Len() }

// Resolve returns an explicit identifier verbatim, or the identifier
// associated with the type of the instance.
func (i *Identifiers[TID]) Resolve(in KeyInput[TID]) (TID, error) { return i.m.Resolve(in) }

func (i *Identifiers[TID]) ResolveFrom(instance any) (TID, error) { return i.m.ResolveFrom(instance) }
