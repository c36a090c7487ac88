package ds

import (
	"errors"
	"fmt"
	"math"
	"math/big"
)

var (
	ErrIncorrectNumberOfPrimitiveKeys = errors.New("incorrect number of primitive keys provided")
	ErrUnsupportedPrimitiveKey        = errors.New("unsupported primitive key")
)

// Key is a tuple of primitive key components, one per level of a [NestedMap].
type Key []any

// IncorrectNumberOfPrimitiveKeysError is returned when a [Key] does not have
// exactly as many components as the map is deep.
type IncorrectNumberOfPrimitiveKeysError struct {
	Provided int
	Depth    int
}

func (e *IncorrectNumberOfPrimitiveKeysError) Error() string {
	return fmt.Sprintf("%s: got %d, expected %d", ErrIncorrectNumberOfPrimitiveKeys, e.Provided, e.Depth)
}

func (e *IncorrectNumberOfPrimitiveKeysError) Is(target error) bool {
	return target == ErrIncorrectNumberOfPrimitiveKeys
}

// bigInt is the comparable form of a *big.Int component. It is its own type so
// that big.NewInt(1) and the string "1" never collide.
type bigInt string

// normalize turns a key component into the comparable value stored in the
// underlying Go map.
func normalize(c any) (any, error) {
	switch v := c.(type) {
	case string, bool,
		int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64, uintptr:
		return v, nil
	case float32:
		if math.IsNaN(float64(v)) {
			return nil, fmt.Errorf("%w: NaN", ErrUnsupportedPrimitiveKey)
		}
		return v, nil
	case float64:
		if math.IsNaN(v) {
			return nil, fmt.Errorf("%w: NaN", ErrUnsupportedPrimitiveKey)
		}
		return v, nil
	case *big.Int:
		if v == nil {
			return nil, fmt.Errorf("%w: nil *big.Int", ErrUnsupportedPrimitiveKey)
		}
		return bigInt(v.String()), nil
	default:
		return nil, fmt.Errorf("%w: %T", ErrUnsupportedPrimitiveKey, c)
	}
}

// denormalize is the inverse of normalize, used when keys are handed back to callers.
func denormalize(c any) any {
	if b, ok := c.(bigInt); ok {
		n, _ := new(big.Int).SetString(string(b), 10)
		return n
	}
	return c
}

func normalizeKey(key Key, depth int) ([]any, error) {
	if len(key) != depth {
		return nil, &IncorrectNumberOfPrimitiveKeysError{Provided: len(key), Depth: depth}
	}
	return normalizeParts(key)
}

func normalizeParts(key Key) ([]any, error) {
	parts := make([]any, len(key))
	for i, c := range key {
		n, err := normalize(c)
		if err != nil {
			return nil, err
		}
		parts[i] = n
	}
	return parts, nil
}
