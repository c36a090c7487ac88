package artifacts

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/dolittle/go-sdk/core/ds"
)

// Identifier is the constraint for GUID backed identifier types such as
// event type or embedding ids.
type Identifier interface {
	~[16]byte
}

// ParseID parses a GUID string into the identifier type TID.
func ParseID[TID Identifier](s string) (TID, error) {
	u, err := uuid.Parse(s)
	if err != nil {
		var zero TID
		return zero, fmt.Errorf("invalid identifier %q: %w", s, err)
	}
	return TID(u), nil
}

// MustParseID is like ParseID but panics on malformed input. Intended for
// identifiers declared as package level constants.
func MustParseID[TID Identifier](s string) TID {
	id, err := ParseID[TID](s)
	if err != nil {
		panic(err)
	}
	return id
}

// IDString formats an identifier the way the runtime expects it.
func IDString[TID Identifier](id TID) string { return uuid.UUID(id).String() }

// Artifact is the composite key of an identifier and a generation. Two
// artifacts are equal only if both parts match.
type Artifact[TID Identifier] struct {
	ID         TID        `json:"id"`
	Generation Generation `json:"generation"`
}

func New[TID Identifier](id TID, generation Generation) Artifact[TID] {
	return Artifact[TID]{ID: id, Generation: generation}
}

func (a Artifact[TID]) Equals(other Artifact[TID]) bool { return a == other }

func (a Artifact[TID]) String() string {
	return fmt.Sprintf("%s@%d", IDString(a.ID), a.Generation)
}

// Decompose is the [ds.Decomposer] for artifacts: (id-string, generation-int).
func Decompose[TID Identifier](a Artifact[TID]) ds.Key {
	return ds.Key{IDString(a.ID), a.Generation.Int()}
}

// DecomposeID is the [ds.Decomposer] for bare identifiers.
func DecomposeID[TID Identifier](id TID) ds.Key {
	return ds.Key{IDString(id)}
}
