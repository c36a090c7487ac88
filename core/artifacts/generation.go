package artifacts

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
)

var ErrInvalidGeneration = errors.New("invalid generation")

// Generation is the version of an artifact. It is never negative.
type Generation uint32

const FirstGeneration Generation = 1

// NewGeneration validates v and returns it as a Generation.
func NewGeneration(v int) (Generation, error) {
	if v < 0 || v > math.MaxUint32 {
		return 0, fmt.Errorf("%w: %d", ErrInvalidGeneration, v)
	}
	return Generation(v), nil
}

func (g Generation) Int() int       { return int(g) }
func (g Generation) String() string { return strconv.FormatUint(uint64(g), 10) }

func (g Generation) MarshalJSON() ([]byte, error) {
	return []byte(g.String()), nil
}

func (g *Generation) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		return fmt.Errorf("%w: null", ErrInvalidGeneration)
	}
	var v int64
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidGeneration, data)
	}
	if v < 0 || v > math.MaxUint32 {
		return fmt.Errorf("%w: %d", ErrInvalidGeneration, v)
	}
	*g = Generation(v)
	return nil
}
