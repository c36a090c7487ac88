package artifacts

import "errors"

var (
	ErrTypeNotAssociatedWithKey = errors.New("type is not associated with a key")
	ErrKeyNotAssociatedWithType = errors.New("key is not associated with a type")
	ErrMultipleKeysForType      = errors.New("cannot have multiple keys associated with type")
	ErrMultipleTypesForKey      = errors.New("cannot have multiple types associated with key")
	ErrUnableToResolveKey       = errors.New("unable to resolve key")
)

// ResolutionError carries the type or key a lookup failed for.
type ResolutionError struct {
	Type string // empty when the lookup was by key
	Key  string // empty when the lookup was by type
	Err  error
}

func (e *ResolutionError) Error() string {
	switch {
	case e.Type != "" && e.Key != "":
		return e.Err.Error() + ": type " + e.Type + ", key " + e.Key
	case e.Type != "":
		return e.Err.Error() + ": type " + e.Type
	case e.Key != "":
		return e.Err.Error() + ": key " + e.Key
	}
	return e.Err.Error()
}

func (e *ResolutionError) Unwrap() error { return e.Err }
