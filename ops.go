package probz

import (
	"github.com/birdayz/probz/pbijector"
	"github.com/birdayz/probz/ptensor"
)

// SampleAll samples every free variable of the graph rooted at root by
// recursive traversal. Names bound in conditioned are treated as already
// resolved: no entropy is drawn for them, and branches that exist solely to
// supply them are never entered.
func SampleAll(root Node, conditioned Variables, extraDims ...int) (Variables, error) {
	vars := Variables{}
	vars.Merge(conditioned)
	err := walk(root, vars, func(n Node) (*ptensor.Dense, error) {
		return n.Sample(vars, extraDims...)
	})
	if err != nil {
		return nil, err
	}
	return vars, nil
}

// EvaluateDeterministic recomputes every deterministic node of the graph
// from the values in vars and returns vars extended with the results.
// Caller-supplied entries always take precedence over recomputed ones, and
// no entropy is drawn: stochastic nodes pass their bound values through
// unchanged.
func EvaluateDeterministic(root Node, vars Variables) (Variables, error) {
	work := vars.Clone()
	seen := make(map[string]bool)
	err := visitEach(root, seen, 0, func(n Node) error {
		val, err := n.Evaluate(work)
		if err != nil {
			return err
		}
		work.bind(n.Name(), val)
		return nil
	})
	if err != nil {
		return nil, err
	}
	out := vars.Clone()
	out.Merge(work)
	return out, nil
}

// JointLogDensity computes the log-density of the assignment in vars under
// the graph rooted at root: one contribution per node, each summed over its
// intrinsic dimensions, combined by elementwise addition. sampleDims names
// the trailing sample axes the values carry; with none, the result is a
// scalar. A graph with no density-carrying nodes yields the additive
// identity.
func JointLogDensity(root Node, vars Variables, sampleDims ...int) (*ptensor.Dense, error) {
	total := ptensor.Scalar(0)
	contrib := Variables{}
	err := walk(root, contrib, func(n Node) (*ptensor.Dense, error) {
		c, err := n.LogDensity(vars)
		if err != nil {
			return nil, err
		}
		if c == nil {
			return nil, nil
		}
		reduced, err := reduceIntrinsic(c, len(sampleDims))
		if err != nil {
			return nil, err
		}
		if total, err = ptensor.Add(total, reduced); err != nil {
			return nil, err
		}
		return reduced, nil
	})
	if err != nil {
		return nil, err
	}
	return total, nil
}

// InferBijectors draws one throwaway sample to instantiate every node's
// distribution, then collects each node's bijector into a name-keyed set.
// Only shapes matter for the transforms, not the sampled magnitudes.
func InferBijectors(root Node) (pbijector.Set, error) {
	vars, err := SampleAll(root, nil)
	if err != nil {
		return nil, err
	}
	set := pbijector.Set{}
	seen := make(map[string]bool)
	err = visitEach(root, seen, 0, func(n Node) error {
		b, err := n.Bijector(vars)
		if err != nil {
			return err
		}
		if b != nil {
			set[n.Name()] = b
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return set, nil
}

// Prior returns the sequentialized ancestors of root, excluding root
// itself. It treats a node's dependencies as a standalone sub-model.
func Prior(root Node) (*Sequential, error) {
	s, err := Sequentialize(root)
	if err != nil {
		return nil, err
	}
	nodes := make([]Node, 0, len(s.nodes))
	for _, n := range s.nodes {
		if n.Name() == root.Name() {
			continue
		}
		nodes = append(nodes, n)
	}
	return &Sequential{nodes: nodes}, nil
}

// AncestorsOf returns, in dependency order, every node of the graph rooted
// at root that is a direct or indirect dependency of any of the named
// nodes. Results for multiple names are unioned and deduplicated; a named
// node appears only when it is itself a dependency of another named node.
func AncestorsOf(root Node, names ...string) (*Sequential, error) {
	s, err := Sequentialize(root)
	if err != nil {
		return nil, err
	}

	relevant := make(map[string]bool)
	targets := make(map[string]bool, len(names))
	for _, name := range names {
		targets[name] = true
	}

	// The plan lists dependencies before dependents, so a reverse pass sees
	// every dependent before the nodes it depends on.
	for i := len(s.nodes) - 1; i >= 0; i-- {
		n := s.nodes[i]
		if targets[n.Name()] || relevant[n.Name()] {
			for _, dep := range n.DependencyNames() {
				relevant[dep] = true
			}
		}
	}

	// A target is included only when it is itself a dependency of another
	// target; relevance is membership in some target's ancestor set.
	nodes := make([]Node, 0, len(relevant))
	for _, n := range s.nodes {
		if relevant[n.Name()] {
			nodes = append(nodes, n)
		}
	}
	return &Sequential{nodes: nodes}, nil
}
