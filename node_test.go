package probz

import (
	"errors"
	"testing"

	"github.com/alecthomas/assert/v2"
	"golang.org/x/exp/rand"

	"github.com/birdayz/probz/pdist"
	"github.com/birdayz/probz/ptensor"
)

func normalLeaf(name string, src rand.Source, mu, sigma *ptensor.Dense) *Variable {
	return MustVariable(name, src, func(src rand.Source, _ ...*ptensor.Dense) (Distribution, error) {
		return pdist.Normal(mu, sigma, src)
	})
}

func TestNewVariable(t *testing.T) {
	src := rand.NewSource(1)

	t.Run("derives dependency names from children", func(t *testing.T) {
		a := normalLeaf("a", src, ptensor.Scalar(0), ptensor.Scalar(1))
		b := normalLeaf("b", src, ptensor.Scalar(0), ptensor.Scalar(1))
		p, err := NewVariable("p", src, func(src rand.Source, args ...*ptensor.Dense) (Distribution, error) {
			return pdist.Normal(args[0], ptensor.Scalar(1), src)
		}, a, b)
		assert.NoError(t, err)
		assert.Equal(t, []string{"a", "b"}, p.DependencyNames())
		assert.Equal(t, 2, len(p.Children()))
	})

	t.Run("invalid names", func(t *testing.T) {
		_, err := NewVariable("", src, nil)
		assert.Error(t, err)
		assert.True(t, errors.Is(err, ErrInvalidName))

		_, err = NewVariable("has space", src, func(rand.Source, ...*ptensor.Dense) (Distribution, error) { return nil, nil })
		assert.Error(t, err)
		assert.True(t, errors.Is(err, ErrInvalidName))
	})

	t.Run("nil model", func(t *testing.T) {
		_, err := NewVariable("x", src, nil)
		assert.Error(t, err)
	})
}

func TestVariableSample(t *testing.T) {
	t.Run("leaf applies extra dims", func(t *testing.T) {
		leaf := normalLeaf("x", rand.NewSource(1), ptensor.Ones(3), ptensor.Ones(3))
		val, err := leaf.Sample(Variables{}, 2)
		assert.NoError(t, err)
		assert.Equal(t, []int{3, 2}, val.Shape())
	})

	t.Run("parent ignores extra dims", func(t *testing.T) {
		src := rand.NewSource(1)
		leaf := normalLeaf("x", src, ptensor.Ones(3), ptensor.Ones(3))
		parent := MustVariable("y", src, func(src rand.Source, args ...*ptensor.Dense) (Distribution, error) {
			return pdist.Normal(args[0], ptensor.Scalar(1), src)
		}, leaf)

		vars := Variables{"x": ptensor.Zeros(3)}
		val, err := parent.Sample(vars, 2)
		assert.NoError(t, err)
		// A single realization against the (3,) parameters: no new axis.
		assert.Equal(t, []int{3}, val.Shape())
	})

	t.Run("missing dependency", func(t *testing.T) {
		src := rand.NewSource(1)
		leaf := normalLeaf("x", src, ptensor.Ones(3), ptensor.Ones(3))
		parent := MustVariable("y", src, func(src rand.Source, args ...*ptensor.Dense) (Distribution, error) {
			return pdist.Normal(args[0], ptensor.Scalar(1), src)
		}, leaf)

		_, err := parent.Sample(Variables{})
		assert.Error(t, err)
		assert.True(t, errors.Is(err, ErrUnknownDependency))
	})
}

func TestVariableEvaluate(t *testing.T) {
	leaf := normalLeaf("x", rand.NewSource(1), ptensor.Scalar(0), ptensor.Scalar(1))

	bound := ptensor.Scalar(5)
	val, err := leaf.Evaluate(Variables{"x": bound})
	assert.NoError(t, err)
	assert.True(t, val.Equal(bound))

	// Unbound stochastic node evaluates to nothing.
	val, err = leaf.Evaluate(Variables{})
	assert.NoError(t, err)
	assert.Zero(t, val)
}

func TestVariableLogDensity(t *testing.T) {
	leaf := normalLeaf("x", rand.NewSource(1), ptensor.Zeros(2), ptensor.Ones(2))

	t.Run("elementwise at bound value", func(t *testing.T) {
		lp, err := leaf.LogDensity(Variables{"x": ptensor.Zeros(2)})
		assert.NoError(t, err)
		assert.Equal(t, []int{2}, lp.Shape())
	})

	t.Run("unbound value", func(t *testing.T) {
		_, err := leaf.LogDensity(Variables{})
		assert.Error(t, err)
		assert.True(t, errors.Is(err, ErrUnknownDependency))
	})
}

func TestDeterministicNode(t *testing.T) {
	src := rand.NewSource(1)
	x := normalLeaf("x", src, ptensor.Scalar(0), ptensor.Scalar(1))
	double := MustDeterministic("double", func(args ...*ptensor.Dense) (*ptensor.Dense, error) {
		return ptensor.Add(args[0], args[0])
	}, x)

	vars := Variables{"x": ptensor.Scalar(3)}

	t.Run("sample and evaluate both recompute", func(t *testing.T) {
		val, err := double.Sample(vars, 2)
		assert.NoError(t, err)
		v, _ := val.Float()
		assert.Equal(t, 6.0, v)

		val, err = double.Evaluate(vars)
		assert.NoError(t, err)
		v, _ = val.Float()
		assert.Equal(t, 6.0, v)
	})

	t.Run("no density, no bijector", func(t *testing.T) {
		lp, err := double.LogDensity(vars)
		assert.NoError(t, err)
		assert.Zero(t, lp)

		b, err := double.Bijector(vars)
		assert.NoError(t, err)
		assert.Zero(t, b)
	})

	t.Run("construction errors", func(t *testing.T) {
		_, err := NewDeterministic("", nil)
		assert.Error(t, err)
		_, err = NewDeterministic("f", nil)
		assert.Error(t, err)
	})
}
