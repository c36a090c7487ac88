package artifacts

// ArtifactTypeMap associates Go types with artifacts.
type ArtifactTypeMap[TID Identifier] = TypeMap[Artifact[TID]]

// NewArtifactTypeMap creates a TypeMap keyed by (id, generation).
func NewArtifactTypeMap[TID Identifier]() *ArtifactTypeMap[TID] {
	return NewTypeMap[Artifact[TID]](2, Decompose[TID])
}
