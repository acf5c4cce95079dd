package probz

import (
	"fmt"

	"github.com/birdayz/probz/pbijector"
	"github.com/birdayz/probz/ptensor"
)

// Func is a pure function of resolved child values, in declared order.
type Func func(args ...*ptensor.Dense) (*ptensor.Dense, error)

// Deterministic is a node whose value is a pure function of its children. It
// never touches an entropy source and contributes nothing to the joint
// log-density.
type Deterministic struct {
	name     string
	deps     []string
	children []Node
	fn       Func
}

var _ Node = (*Deterministic)(nil)

// NewDeterministic creates a pure-function node.
func NewDeterministic(name string, fn Func, children ...Node) (*Deterministic, error) {
	if err := validateName(name); err != nil {
		return nil, err
	}
	if fn == nil {
		return nil, fmt.Errorf("%w: node %q has no function", ErrInvalidName, name)
	}
	deps := make([]string, len(children))
	for i, c := range children {
		deps[i] = c.Name()
	}
	return &Deterministic{name: name, deps: deps, children: children, fn: fn}, nil
}

// MustDeterministic is like NewDeterministic but panics on error.
func MustDeterministic(name string, fn Func, children ...Node) *Deterministic {
	d, err := NewDeterministic(name, fn, children...)
	if err != nil {
		panic(err)
	}
	return d
}

func (d *Deterministic) Name() string { return d.name }

func (d *Deterministic) DependencyNames() []string { return d.deps }

func (d *Deterministic) Children() []Node { return d.children }

// Sample computes the function. Extra sample dimensions never apply: any
// batching is inherited from the child values the function consumes.
func (d *Deterministic) Sample(vars Variables, _ ...int) (*ptensor.Dense, error) {
	return d.compute(vars)
}

// Evaluate recomputes the function from the resolved child values.
func (d *Deterministic) Evaluate(vars Variables) (*ptensor.Dense, error) {
	return d.compute(vars)
}

// LogDensity contributes nothing: a deterministic node carries no density.
func (d *Deterministic) LogDensity(Variables) (*ptensor.Dense, error) {
	return nil, nil
}

// Bijector returns nil: a deterministic node has no distribution support.
func (d *Deterministic) Bijector(Variables) (pbijector.Bijector, error) {
	return nil, nil
}

func (d *Deterministic) compute(vars Variables) (*ptensor.Dense, error) {
	args, err := vars.Values(d.deps...)
	if err != nil {
		return nil, fmt.Errorf("node %q: %w", d.name, err)
	}
	out, err := d.fn(args...)
	if err != nil {
		return nil, fmt.Errorf("node %q: %w", d.name, err)
	}
	return out, nil
}
