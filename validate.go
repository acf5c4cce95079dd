package probz

import (
	"fmt"
	"strings"

	"go.uber.org/multierr"
)

// Validate checks the structural invariants of the graph rooted at root:
// node names are valid and collision-free, declared dependency names match
// the child references in order, fan-out stays within limits, and the graph
// is acyclic. Independent violations are aggregated so a caller sees all of
// them at once.
func Validate(root Node) error {
	var result error

	byName := make(map[string]Node)
	recStack := make(map[string]bool)

	var dfs func(n Node, path []string, depth int) error
	dfs = func(n Node, path []string, depth int) error {
		if depth > MaxDepth {
			return fmt.Errorf("%w: maximum depth %d exceeded at %q", ErrCycleDetected, MaxDepth, n.Name())
		}
		name := n.Name()

		if recStack[name] {
			cycle := append(path, name)
			return fmt.Errorf("%w: %s", ErrCycleDetected, strings.Join(cycle, " -> "))
		}
		if prev, ok := byName[name]; ok {
			if !sameNode(prev, n) {
				result = multierr.Append(result, fmt.Errorf("%w: two distinct nodes named %q", ErrNameCollision, name))
			}
			return nil
		}

		if err := validateName(name); err != nil {
			result = multierr.Append(result, err)
		}
		byName[name] = n
		recStack[name] = true
		path = append(path, name)

		children := n.Children()
		if len(children) > MaxChildrenPerNode {
			result = multierr.Append(result, fmt.Errorf("%w: node %q has %d children, exceeds maximum %d",
				ErrInvalidGraph, name, len(children), MaxChildrenPerNode))
		}
		deps := n.DependencyNames()
		if len(deps) != len(children) {
			result = multierr.Append(result, fmt.Errorf("%w: node %q declares %d dependencies but has %d children",
				ErrUnknownDependency, name, len(deps), len(children)))
		} else {
			for i, c := range children {
				if deps[i] != c.Name() {
					result = multierr.Append(result, fmt.Errorf("%w: node %q declares dependency %q but child %d is %q",
						ErrUnknownDependency, name, deps[i], i, c.Name()))
				}
			}
		}

		for _, c := range children {
			if err := dfs(c, path, depth+1); err != nil {
				return err
			}
		}

		recStack[name] = false
		return nil
	}

	if err := dfs(root, nil, 0); err != nil {
		result = multierr.Append(result, err)
	}
	return result
}

// sameNode reports whether a and b are the same node value. Modifiers are
// unwrapped first: a modifier and the node it wraps intentionally share a
// name without colliding.
func sameNode(a, b Node) bool {
	return unwrap(a) == unwrap(b)
}

func unwrap(n Node) Node {
	for {
		m, ok := n.(*Modifier)
		if !ok {
			return n
		}
		n = m.Wrapped()
	}
}
