package pbijector

import (
	"errors"
	"fmt"

	"github.com/birdayz/probz/ptensor"
)

// ErrUnknownName is returned when a Set is asked to transform a name it has
// no bijector for.
var ErrUnknownName = errors.New("no bijector for name")

// Set is a name-keyed aggregate of per-variable bijectors, matching the
// variables record produced by a graph traversal.
type Set map[string]Bijector

// Forward applies each name's bijector to the corresponding value. Every
// name in values must have a bijector in the set.
func (s Set) Forward(values map[string]*ptensor.Dense) (map[string]*ptensor.Dense, error) {
	return s.apply(values, Bijector.Forward)
}

// Inverse applies each name's inverse transform to the corresponding value.
func (s Set) Inverse(values map[string]*ptensor.Dense) (map[string]*ptensor.Dense, error) {
	return s.apply(values, Bijector.Inverse)
}

func (s Set) apply(values map[string]*ptensor.Dense, f func(Bijector, *ptensor.Dense) (*ptensor.Dense, error)) (map[string]*ptensor.Dense, error) {
	out := make(map[string]*ptensor.Dense, len(values))
	for name, v := range values {
		b, ok := s[name]
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownName, name)
		}
		tv, err := f(b, v)
		if err != nil {
			return nil, fmt.Errorf("transform %q: %w", name, err)
		}
		out[name] = tv
	}
	return out, nil
}
