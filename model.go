package probz

import (
	"context"

	"github.com/go-logr/logr"
	"golang.org/x/exp/rand"
	"golang.org/x/sync/errgroup"

	"github.com/birdayz/probz/pbijector"
	"github.com/birdayz/probz/ptensor"
)

// Option configures a Model.
type Option func(*Model)

// WithLogr sets the logger. The default discards everything.
var WithLogr = func(log logr.Logger) Option {
	return func(m *Model) {
		m.log = log
	}
}

// Model wraps a validated, sequentialized graph behind the three consistent
// operations: sample, joint log-density and bijector inference. The
// sequentialization is computed once at construction and replayed on every
// call.
type Model struct {
	root Node
	seq  *Sequential

	log logr.Logger
}

// New validates and sequentializes the graph rooted at root.
func New(root Node, opts ...Option) (*Model, error) {
	seq, err := Sequentialize(root)
	if err != nil {
		return nil, err
	}

	m := &Model{
		root: root,
		seq:  seq,
		log:  logr.Discard(),
	}
	for _, opt := range opts {
		opt(m)
	}

	m.log.V(1).Info("model sequentialized", "nodes", seq.Len())
	return m, nil
}

// Root returns the graph's root node.
func (m *Model) Root() Node { return m.root }

// Sequential returns the cached execution plan.
func (m *Model) Sequential() *Sequential { return m.seq }

// Sample draws one joint sample, honoring the conditioning record.
func (m *Model) Sample(conditioned Variables, extraDims ...int) (Variables, error) {
	m.log.V(1).Info("sampling", "nodes", m.seq.Len(), "conditioned", len(conditioned), "extraDims", extraDims)
	return m.seq.Sample(conditioned, extraDims...)
}

// LogDensity computes the joint log-density of vars. sampleDims names the
// trailing sample axes the values carry.
func (m *Model) LogDensity(vars Variables, sampleDims ...int) (*ptensor.Dense, error) {
	return m.seq.LogDensity(vars, sampleDims...)
}

// Bijectors draws one throwaway sample to instantiate every distribution and
// collects the per-variable transforms.
func (m *Model) Bijectors() (pbijector.Set, error) {
	vars, err := m.seq.Sample(nil)
	if err != nil {
		return nil, err
	}
	return m.seq.Bijectors(vars)
}

// GraphFunc rebuilds a graph wired to the given entropy source. Used for
// parallel sampling, where every draw needs its own source.
type GraphFunc func(src rand.Source) (Node, error)

// SampleN draws n independent joint samples in parallel. Each draw rebuilds
// the graph through build with a source seeded from seed and the draw index,
// so draws never share generator state and the result is reproducible for a
// fixed seed. The graph structure itself may share immutable nodes freely.
func SampleN(ctx context.Context, n int, seed uint64, build GraphFunc, extraDims ...int) ([]Variables, error) {
	out := make([]Variables, n)

	grp, ctx := errgroup.WithContext(ctx)
	for i := 0; i < n; i++ {
		i := i
		grp.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			root, err := build(rand.NewSource(seed + uint64(i)))
			if err != nil {
				return err
			}
			vars, err := SampleAll(root, nil, extraDims...)
			if err != nil {
				return err
			}
			out[i] = vars
			return nil
		})
	}
	if err := grp.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
