package probz

import (
	"fmt"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"github.com/birdayz/probz/ptensor"
)

// Variables is the name-keyed record built incrementally during a traversal.
// Once a name is bound it is never overwritten: conditioning precedence
// comes from pre-seeding the record before traversal, not from overriding.
type Variables map[string]*ptensor.Dense

// Has reports whether name is bound.
func (v Variables) Has(name string) bool {
	_, ok := v[name]
	return ok
}

// Get returns the value bound under name.
func (v Variables) Get(name string) (*ptensor.Dense, bool) {
	val, ok := v[name]
	return val, ok
}

// Values returns the values for names, in order. A missing name is an
// ErrUnknownDependency.
func (v Variables) Values(names ...string) ([]*ptensor.Dense, error) {
	out := make([]*ptensor.Dense, len(names))
	for i, name := range names {
		val, ok := v[name]
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownDependency, name)
		}
		out[i] = val
	}
	return out, nil
}

// Merge inserts every binding of other that is not already present.
// Existing bindings are kept; nil values are skipped.
func (v Variables) Merge(other Variables) {
	for name, val := range other {
		if val == nil {
			continue
		}
		if _, ok := v[name]; !ok {
			v[name] = val
		}
	}
}

// bind inserts a single value if the name is absent. A nil value is a no-op,
// the designed "no value returned" case for modifiers and utility nodes.
func (v Variables) bind(name string, val *ptensor.Dense) {
	if val == nil {
		return
	}
	if _, ok := v[name]; !ok {
		v[name] = val
	}
}

// Clone returns a shallow copy sharing the tensor values.
func (v Variables) Clone() Variables {
	out := make(Variables, len(v))
	for name, val := range v {
		out[name] = val
	}
	return out
}

// SortedNames returns all bound names in lexical order, for deterministic
// logs and error messages.
func (v Variables) SortedNames() []string {
	names := maps.Keys(v)
	slices.Sort(names)
	return names
}

// Observe returns a copy of vars with name bound to value, replacing any
// existing binding. It is the intended way to build a conditioning record
// before a traversal; during traversal, bindings are never replaced.
func Observe(vars Variables, name string, value *ptensor.Dense) Variables {
	out := vars.Clone()
	out[name] = value
	return out
}
