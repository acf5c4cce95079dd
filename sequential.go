package probz

import (
	"github.com/birdayz/probz/pbijector"
	"github.com/birdayz/probz/ptensor"
)

// Sequential is a flattened topological order of a DAG: dependencies before
// dependents, each node exactly once. It is derived once and replayed for
// repeated sample/log-density/bijector calls without re-walking the
// recursive child structure. Replaying it is observationally identical to a
// fresh recursive traversal given the same entropy-source state and
// conditioning set.
//
// A Sequential is immutable and safe for concurrent read-only use; whether
// concurrent *execution* is safe depends on the entropy sources the nodes
// share (see Model.SampleN).
type Sequential struct {
	nodes []Node
}

// Sequentialize validates the graph rooted at root and computes its linear
// visit order.
func Sequentialize(root Node) (*Sequential, error) {
	if err := Validate(root); err != nil {
		return nil, err
	}
	var nodes []Node
	seen := make(map[string]bool)
	err := visitEach(root, seen, 0, func(n Node) error {
		nodes = append(nodes, n)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &Sequential{nodes: nodes}, nil
}

// MustSequentialize is like Sequentialize but panics on error.
func MustSequentialize(root Node) *Sequential {
	s, err := Sequentialize(root)
	if err != nil {
		panic(err)
	}
	return s
}

// Len returns the number of nodes in the execution plan.
func (s *Sequential) Len() int { return len(s.nodes) }

// Nodes returns the execution order, dependencies first.
func (s *Sequential) Nodes() []Node {
	out := make([]Node, len(s.nodes))
	copy(out, s.nodes)
	return out
}

// Sample draws values for all free nodes in plan order, short-circuiting
// names pre-seeded by conditioned. Nodes that exist solely to supply a
// conditioned name are skipped entirely, exactly as the recursive traversal
// never enters them, so both forms consume the same entropy stream. An
// empty plan yields an empty record.
func (s *Sequential) Sample(conditioned Variables, extraDims ...int) (Variables, error) {
	vars := Variables{}
	vars.Merge(conditioned)
	needed := s.neededGiven(conditioned)
	for _, n := range s.nodes {
		if !needed[n.Name()] || vars.Has(n.Name()) {
			continue
		}
		val, err := n.Sample(vars, extraDims...)
		if err != nil {
			return nil, err
		}
		vars.bind(n.Name(), val)
	}
	return vars, nil
}

// neededGiven marks the nodes a sampling run must execute: everything
// reachable from the plan's sinks without descending through a conditioned
// name. The plan lists dependencies first, so one reverse pass suffices.
func (s *Sequential) neededGiven(conditioned Variables) map[string]bool {
	isDep := make(map[string]bool)
	for _, n := range s.nodes {
		for _, d := range n.DependencyNames() {
			isDep[d] = true
		}
	}
	needed := make(map[string]bool, len(s.nodes))
	for i := len(s.nodes) - 1; i >= 0; i-- {
		n := s.nodes[i]
		name := n.Name()
		if !isDep[name] {
			needed[name] = true
		}
		if needed[name] && !conditioned.Has(name) {
			for _, d := range n.DependencyNames() {
				needed[d] = true
			}
		}
	}
	return needed
}

// LogDensity computes the joint log-density of vars over the plan:
// one contribution per node, each reduced over its intrinsic dimensions,
// then summed elementwise. sampleDims names the trailing sample axes the
// bound values carry (the extraDims of the Sample call that produced them).
// An empty plan yields the additive identity.
func (s *Sequential) LogDensity(vars Variables, sampleDims ...int) (*ptensor.Dense, error) {
	total := ptensor.Scalar(0)
	seen := make(map[string]bool, len(s.nodes))
	for _, n := range s.nodes {
		if seen[n.Name()] {
			continue
		}
		seen[n.Name()] = true
		contrib, err := n.LogDensity(vars)
		if err != nil {
			return nil, err
		}
		if contrib == nil {
			continue
		}
		reduced, err := reduceIntrinsic(contrib, len(sampleDims))
		if err != nil {
			return nil, err
		}
		if total, err = ptensor.Add(total, reduced); err != nil {
			return nil, err
		}
	}
	return total, nil
}

// Bijectors collects each node's constrained-to-unconstrained transform,
// instantiated from the values in vars.
func (s *Sequential) Bijectors(vars Variables) (pbijector.Set, error) {
	set := pbijector.Set{}
	for _, n := range s.nodes {
		if _, ok := set[n.Name()]; ok {
			continue
		}
		b, err := n.Bijector(vars)
		if err != nil {
			return nil, err
		}
		if b != nil {
			set[n.Name()] = b
		}
	}
	return set, nil
}

// reduceIntrinsic sums a per-node density contribution over all axes except
// the trailing sample axes, collapsing purely intrinsic contributions to
// scalars.
func reduceIntrinsic(contrib *ptensor.Dense, sampleRank int) (*ptensor.Dense, error) {
	lead := contrib.Rank() - sampleRank
	if lead < 0 {
		lead = 0
	}
	return ptensor.SumLeading(contrib, lead)
}
