package artifacts

import (
	"fmt"
	"reflect"
)

// Artifacts is a registry of Go types and the artifacts that identify them.
// It is populated while the client is built and only read afterwards.
type Artifacts[TID Identifier] struct {
	m *ArtifactTypeMap[TID]
}

func NewArtifacts[TID Identifier]() *Artifacts[TID] {
	return &Artifacts[TID]{m: NewArtifactTypeMap[TID]()}
}

func (a *Artifacts[TID]) Associate(t reflect.Type, artifact Artifact[TID]) error {
	if err := a.m.Associate(t, artifact); err != nil {
		return fmt.Errorf("associate %s with %s: %w", typeName(t), artifact, err)
	}
	return nil
}

func (a *Artifacts[TID]) HasFor(t reflect.Type) bool {
	return a.m.HasFor(t)
}

func (a *Artifacts[TID]) GetFor(t reflect.Type) (Artifact[TID], error) {
	return a.m.GetFor(t)
}

func (a *Artifacts[TID]) HasTypeFor(artifact Artifact[TID]) bool {
	return a.m.HasTypeFor(artifact)
}

func (a *Artifacts[TID]) GetTypeFor(artifact Artifact[TID]) (reflect.Type, error) {
	return a.m.GetTypeFor(artifact)
}

func (a *Artifacts[TID]) GetAll() []Artifact[TID] {
	return a.m.GetAll()
}

func (a *Artifacts[TID]) GetAllTypes() []reflect.Type {
	return a.m.GetAllTypes()
}

func (a *Artifacts[TID]) Len() int {
	return a.m.Len()
}

// Resolve returns an explicit artifact verbatim, or the artifact associated
// with the type of the instance.
func (a *Artifacts[TID]) Resolve(in KeyInput[Artifact[TID]]) (Artifact[TID], error) {
	return a.m.Resolve(in)
}

func (a *Artifacts[TID]) ResolveFrom(instance any) (Artifact[TID], error) {
	return a.m.ResolveFrom(instance)
}

// HasGeneration reports whether any generation of id is associated with a type.
func (a *Artifacts[TID]) HasGeneration(id TID) bool {
	for _, artifact := range a.m.GetAll() {
		if artifact.ID == id {
			return true
		}
	}
	return false
}

// AssociateType is a typed shorthand for Associate.
func AssociateType[T any, TID Identifier](a *Artifacts[TID], artifact Artifact[TID]) error {
	return a.Associate(reflect.TypeFor[T](), artifact)
}

// ArtifactFor returns the artifact associated with T.
func ArtifactFor[T any, TID Identifier](a *Artifacts[TID]) (Artifact[TID], error) {
	return a.GetFor(reflect.TypeFor[T]())
}
