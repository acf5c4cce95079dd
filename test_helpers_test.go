package probz

import (
	"golang.org/x/exp/rand"

	"github.com/birdayz/probz/pbijector"
	"github.com/birdayz/probz/pdist"
	"github.com/birdayz/probz/ptensor"
)

// countingSource wraps an entropy source and counts how often it is drawn
// from, to verify which nodes actually consume entropy.
type countingSource struct {
	src   rand.Source
	draws int
}

func newCountingSource(seed uint64) *countingSource {
	return &countingSource{src: rand.NewSource(seed)}
}

func (c *countingSource) Uint64() uint64 {
	c.draws++
	return c.src.Uint64()
}

func (c *countingSource) Seed(seed uint64) { c.src.Seed(seed) }

// diamond is the test graph a -> c, b -> c, (c, b) -> d with all-ones
// parameter arrays of shape (3,) and (3, 4).
type diamond struct {
	a, b, c, d Node
}

// newDiamond builds the graph with one shared entropy source.
func newDiamond(src rand.Source) diamond {
	a := MustVariable("a", src, func(src rand.Source, _ ...*ptensor.Dense) (Distribution, error) {
		return pdist.Normal(ptensor.Ones(3), ptensor.Ones(3), src)
	})
	b := MustVariable("b", src, func(src rand.Source, _ ...*ptensor.Dense) (Distribution, error) {
		return pdist.Exponential(ptensor.Ones(3, 4), src)
	})
	c := MustVariable("c", src, func(src rand.Source, args ...*ptensor.Dense) (Distribution, error) {
		// Located at b's value; a participates structurally.
		return pdist.Normal(args[1], ptensor.Scalar(1), src)
	}, a, b)
	d := MustVariable("d", src, func(src rand.Source, args ...*ptensor.Dense) (Distribution, error) {
		return pdist.Normal(args[0], args[1], src)
	}, c, b)
	return diamond{a: a, b: b, c: c, d: d}
}

// names lists the node names of a plan in execution order.
func names(s *Sequential) []string {
	out := make([]string, 0, s.Len())
	for _, n := range s.Nodes() {
		out = append(out, n.Name())
	}
	return out
}

// stubNode is a minimal hand-rolled Node for structural tests; it binds a
// fixed value and lets tests declare inconsistent metadata on purpose.
type stubNode struct {
	name     string
	deps     []string
	children []Node
	value    *ptensor.Dense
}

func (s *stubNode) Name() string              { return s.name }
func (s *stubNode) DependencyNames() []string { return s.deps }
func (s *stubNode) Children() []Node          { return s.children }

func (s *stubNode) Sample(Variables, ...int) (*ptensor.Dense, error) {
	return s.value, nil
}

func (s *stubNode) Evaluate(Variables) (*ptensor.Dense, error) {
	return s.value, nil
}

func (s *stubNode) LogDensity(Variables) (*ptensor.Dense, error) {
	return nil, nil
}

func (s *stubNode) Bijector(Variables) (pbijector.Bijector, error) {
	return nil, nil
}
