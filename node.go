package probz

import (
	"fmt"
	"strings"

	"golang.org/x/exp/rand"

	"github.com/birdayz/probz/pbijector"
	"github.com/birdayz/probz/ptensor"
)

// Distribution is the capability a node's model instantiates from resolved
// child values. Implementations live outside the core (see pdist).
//
// Sample draws one realization per element; extraDims request additional
// independent draws stacked along new trailing axes. LogDensity returns the
// elementwise log-density of x, shaped like x; reduction over intrinsic
// dimensions is performed by the aggregate operations. Bijector returns the
// constrained-to-unconstrained transform for the distribution's support.
type Distribution interface {
	Sample(extraDims ...int) (*ptensor.Dense, error)
	LogDensity(x *ptensor.Dense) (*ptensor.Dense, error)
	Bijector() pbijector.Bijector
}

// ModelFunc instantiates a Distribution from the node's entropy source and
// the already-resolved values of its children, in declared order.
type ModelFunc func(src rand.Source, args ...*ptensor.Dense) (Distribution, error)

// Node is one named variable of a directed acyclic graph.
//
// Implementations must be immutable after construction; randomness comes
// from the entropy source, never from node state. Children may be shared
// across parents, the graph itself must stay acyclic.
type Node interface {
	// Name uniquely identifies the node within one graph.
	Name() string

	// DependencyNames returns the children's names in declared order.
	DependencyNames() []string

	// Children returns the nodes this node depends on, in declared order.
	Children() []Node

	// Sample draws a value given resolved child values in vars. Extra
	// sample dimensions apply only to nodes without dependencies.
	Sample(vars Variables, extraDims ...int) (*ptensor.Dense, error)

	// Evaluate recomputes deterministic nodes; stochastic nodes return
	// their currently bound value unchanged (nil if unbound).
	Evaluate(vars Variables) (*ptensor.Dense, error)

	// LogDensity evaluates the node's elementwise log-density at its bound
	// value in vars.
	LogDensity(vars Variables) (*ptensor.Dense, error)

	// Bijector returns the node's constrained-to-unconstrained transform,
	// or nil if the node has none (deterministic nodes).
	Bijector(vars Variables) (pbijector.Bijector, error)
}

// Variable is a stochastic leaf or parent node backed by a ModelFunc.
type Variable struct {
	name     string
	deps     []string
	children []Node
	src      rand.Source
	model    ModelFunc
}

var _ Node = (*Variable)(nil)

// NewVariable creates a stochastic node. The dependency names are derived
// from the children, in order, so the declared-names invariant holds by
// construction. The entropy source is shared, not owned.
func NewVariable(name string, src rand.Source, model ModelFunc, children ...Node) (*Variable, error) {
	if err := validateName(name); err != nil {
		return nil, err
	}
	if model == nil {
		return nil, fmt.Errorf("%w: node %q has no model", ErrInvalidName, name)
	}
	deps := make([]string, len(children))
	for i, c := range children {
		deps[i] = c.Name()
	}
	return &Variable{
		name:     name,
		deps:     deps,
		children: children,
		src:      src,
		model:    model,
	}, nil
}

// MustVariable is like NewVariable but panics on error.
func MustVariable(name string, src rand.Source, model ModelFunc, children ...Node) *Variable {
	v, err := NewVariable(name, src, model, children...)
	if err != nil {
		panic(err)
	}
	return v
}

func (v *Variable) Name() string { return v.name }

func (v *Variable) DependencyNames() []string { return v.deps }

func (v *Variable) Children() []Node { return v.children }

// Sample instantiates the distribution from resolved child values and draws
// from it. Extra sample dimensions are applied only when the node has no
// dependencies: batching happens at the leaves, interior nodes draw a single
// realization against their (possibly already batched) parameters.
func (v *Variable) Sample(vars Variables, extraDims ...int) (*ptensor.Dense, error) {
	d, err := v.instantiate(vars)
	if err != nil {
		return nil, err
	}
	if len(v.children) > 0 {
		return d.Sample()
	}
	return d.Sample(extraDims...)
}

// Evaluate returns the bound value unchanged. Stochastic values are never
// recomputed outside of Sample.
func (v *Variable) Evaluate(vars Variables) (*ptensor.Dense, error) {
	val, _ := vars.Get(v.name)
	return val, nil
}

// LogDensity evaluates the distribution's elementwise log-density at the
// node's bound value.
func (v *Variable) LogDensity(vars Variables) (*ptensor.Dense, error) {
	val, ok := vars.Get(v.name)
	if !ok {
		return nil, fmt.Errorf("%w: no value bound for %q", ErrUnknownDependency, v.name)
	}
	d, err := v.instantiate(vars)
	if err != nil {
		return nil, err
	}
	return d.LogDensity(val)
}

// Bijector returns the transform associated with the node's distribution.
func (v *Variable) Bijector(vars Variables) (pbijector.Bijector, error) {
	d, err := v.instantiate(vars)
	if err != nil {
		return nil, err
	}
	return d.Bijector(), nil
}

func (v *Variable) instantiate(vars Variables) (Distribution, error) {
	args, err := vars.Values(v.deps...)
	if err != nil {
		return nil, fmt.Errorf("node %q: %w", v.name, err)
	}
	d, err := v.model(v.src, args...)
	if err != nil {
		return nil, fmt.Errorf("node %q: model: %w", v.name, err)
	}
	return d, nil
}

func validateName(name string) error {
	if name == "" {
		return fmt.Errorf("%w: name cannot be empty", ErrInvalidName)
	}
	if strings.ContainsAny(name, " \t\n\r") {
		return fmt.Errorf("%w: name %q cannot contain whitespace", ErrInvalidName, name)
	}
	return nil
}
