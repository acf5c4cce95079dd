// Package probz builds directed acyclic graphs of named random and
// deterministic variables and executes three operations over them
// consistently: sampling (optionally conditioned), joint log-density
// evaluation, and per-variable bijector inference.
//
// # Architecture
//
// The package separates graph construction from execution through a
// two-phase design:
//
//  1. Build phase: nodes are constructed bottom-up (leaves first,
//     parents referencing children) and are immutable afterwards.
//  2. Execution phase: any operation triggers a depth-first, visit-once
//     traversal that resolves dependencies before dependents and merges each
//     node's result into a shared variables record, exactly once per name.
//
// For repeated execution, Sequentialize flattens the DAG once into a fixed
// topological order that is replayed without re-deriving dependency
// structure. The sequentialized form is observationally identical to the
// recursive traversal.
//
// # Basic usage
//
//	src := rand.NewSource(1)
//
//	mu := probz.MustVariable("mu", src,
//		func(src rand.Source, _ ...*ptensor.Dense) (probz.Distribution, error) {
//			return pdist.Normal(ptensor.Scalar(0), ptensor.Scalar(1), src)
//		})
//	x := probz.MustVariable("x", src,
//		func(src rand.Source, args ...*ptensor.Dense) (probz.Distribution, error) {
//			return pdist.Normal(args[0], ptensor.Scalar(1), src)
//		}, mu)
//
//	model, err := probz.New(x)
//	vars, err := model.Sample(nil)            // joint sample
//	ld, err := model.LogDensity(vars)         // scalar joint log-density
//	bij, err := model.Bijectors()             // name-keyed transforms
//
// Conditioning pre-seeds the variables record; a conditioned name and the
// branches that exist solely to supply it draw no entropy:
//
//	vars, err := model.Sample(probz.Variables{"mu": ptensor.Scalar(0.5)})
//
// # Determinism
//
// Traversal order among independent branches follows the declared child
// order, so entropy consumption is a reproducible function of graph
// structure and seed, never of map iteration order.
//
// # Thread safety
//
// Nodes and Sequential plans are immutable after construction and safe to
// share. Concurrent execution is safe only when each in-flight traversal
// uses entropy sources no other traversal touches; SampleN arranges this by
// rebuilding the graph per draw.
package probz
