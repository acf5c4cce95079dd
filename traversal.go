package probz

import (
	"fmt"

	"github.com/birdayz/probz/ptensor"
)

// Traversal limits to prevent pathological cases. A depth past MaxDepth can
// only be reached through a cycle.
const (
	MaxDepth           = 500
	MaxChildrenPerNode = 1000
)

// operation is one per-node action applied during a traversal. The returned
// value is merged into the record under the node's name; nil binds nothing.
type operation func(Node) (*ptensor.Dense, error)

// walk runs a depth-first, visit-once traversal from n. A node whose name is
// already bound in vars contributes nothing further, which guarantees
// exactly-once evaluation per name: shared ancestors are never re-sampled
// once per dependent. Children are resolved in declared order before the
// node's own operation runs, so entropy draw order is a reproducible
// function of graph structure.
func walk(n Node, vars Variables, op operation) error {
	return walkDepth(n, vars, op, 0)
}

func walkDepth(n Node, vars Variables, op operation, depth int) error {
	if depth > MaxDepth {
		return fmt.Errorf("%w: maximum depth %d exceeded at %q", ErrCycleDetected, MaxDepth, n.Name())
	}
	if vars.Has(n.Name()) {
		return nil
	}
	for _, c := range n.Children() {
		if err := walkDepth(c, vars, op, depth+1); err != nil {
			return err
		}
	}
	val, err := op(n)
	if err != nil {
		return fmt.Errorf("node %q: %w", n.Name(), err)
	}
	vars.bind(n.Name(), val)
	return nil
}

// visitEach invokes fn exactly once per node name, dependencies first,
// independent of what the record holds. Used where every node must be seen
// even when its name resolves to no value (sequentialization, bijector
// collection, deterministic re-evaluation).
func visitEach(n Node, seen map[string]bool, depth int, fn func(Node) error) error {
	if depth > MaxDepth {
		return fmt.Errorf("%w: maximum depth %d exceeded at %q", ErrCycleDetected, MaxDepth, n.Name())
	}
	if seen[n.Name()] {
		return nil
	}
	seen[n.Name()] = true
	for _, c := range n.Children() {
		if err := visitEach(c, seen, depth+1, fn); err != nil {
			return err
		}
	}
	return fn(n)
}
