package probz

import (
	"errors"

	"github.com/birdayz/probz/ptensor"
)

var (
	// ErrInvalidName is returned for empty or whitespace-containing node names.
	ErrInvalidName = errors.New("invalid node name")

	// ErrNameCollision is returned when two distinct nodes in one graph share a name.
	ErrNameCollision = errors.New("node name collision")

	// ErrUnknownDependency is returned when a declared dependency name has no
	// resolvable binding.
	ErrUnknownDependency = errors.New("unknown dependency")

	// ErrCycleDetected is returned when a traversal exceeds MaxDepth, which
	// only happens if the graph is not acyclic.
	ErrCycleDetected = errors.New("cycle detected in graph")

	// ErrInvalidGraph is returned for structural limit violations.
	ErrInvalidGraph = errors.New("invalid graph")

	// ErrShapeMismatch is returned when values cannot be broadcast together.
	ErrShapeMismatch = ptensor.ErrShapeMismatch
)
