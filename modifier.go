package probz

import (
	"golang.org/x/exp/rand"

	"github.com/birdayz/probz/pbijector"
	"github.com/birdayz/probz/ptensor"
)

// PostSampleFunc post-processes the wrapped node's sampled value. It
// receives the modifier's own entropy source, the wrapped value and the
// resolved child values, and returns the value bound under the wrapped
// node's name. A nil result binds nothing.
type PostSampleFunc func(src rand.Source, wrapped *ptensor.Dense, args ...*ptensor.Dense) (*ptensor.Dense, error)

// PostLogDensityFunc adjusts the wrapped node's log-density, e.g. with a
// change-of-variables correction or a penalty term. It receives the bound
// value and the wrapped elementwise log-density.
type PostLogDensityFunc func(bound, wrapped *ptensor.Dense) (*ptensor.Dense, error)

// Modifier transparently wraps one node: it exposes the wrapped node's name
// and dependencies, so dependents cannot tell whether a modifier sits in
// between. Sampling and log-density run as a two-stage pipeline (wrapped
// first, then the modifier's post-processing); the bijector is delegated
// unchanged since a modifier never changes the variable's support.
type Modifier struct {
	wrapped     Node
	src         rand.Source
	postSample  PostSampleFunc
	postDensity PostLogDensityFunc
}

var _ Node = (*Modifier)(nil)

// NewModifier wraps a node. Either post-processing function may be nil, in
// which case that stage passes the wrapped result through unchanged.
func NewModifier(wrapped Node, src rand.Source, postSample PostSampleFunc, postDensity PostLogDensityFunc) *Modifier {
	return &Modifier{
		wrapped:     wrapped,
		src:         src,
		postSample:  postSample,
		postDensity: postDensity,
	}
}

// Wrapped returns the node the modifier wraps.
func (m *Modifier) Wrapped() Node { return m.wrapped }

func (m *Modifier) Name() string { return m.wrapped.Name() }

func (m *Modifier) DependencyNames() []string { return m.wrapped.DependencyNames() }

// Children returns the wrapped node's children. The wrapped node itself is
// resolved by direct dispatch inside Sample/LogDensity rather than as a
// traversal child: it shares the modifier's name, and visiting it separately
// would bind that name before the post-processing stage could run.
func (m *Modifier) Children() []Node { return m.wrapped.Children() }

// Sample resolves the wrapped node's sample, then applies the modifier's
// post-processing to produce the value bound under the shared name.
func (m *Modifier) Sample(vars Variables, extraDims ...int) (*ptensor.Dense, error) {
	base, err := m.wrapped.Sample(vars, extraDims...)
	if err != nil {
		return nil, err
	}
	if m.postSample == nil {
		return base, nil
	}
	args, err := vars.Values(m.wrapped.DependencyNames()...)
	if err != nil {
		return nil, err
	}
	return m.postSample(m.src, base, args...)
}

func (m *Modifier) Evaluate(vars Variables) (*ptensor.Dense, error) {
	return m.wrapped.Evaluate(vars)
}

// LogDensity computes the wrapped node's log-density, then applies the
// modifier's density adjustment.
func (m *Modifier) LogDensity(vars Variables) (*ptensor.Dense, error) {
	base, err := m.wrapped.LogDensity(vars)
	if err != nil {
		return nil, err
	}
	if m.postDensity == nil {
		return base, nil
	}
	bound, _ := vars.Get(m.Name())
	return m.postDensity(bound, base)
}

// Bijector is delegated unchanged to the wrapped node.
func (m *Modifier) Bijector(vars Variables) (pbijector.Bijector, error) {
	return m.wrapped.Bijector(vars)
}
