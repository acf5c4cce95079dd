package pbijector

import (
	"errors"
	"math"
	"testing"

	"github.com/alecthomas/assert/v2"

	"github.com/birdayz/probz/ptensor"
)

func TestIdentity(t *testing.T) {
	x, _ := ptensor.New([]int{3}, []float64{-1, 0, 2})
	y, err := Identity.Forward(x)
	assert.NoError(t, err)
	assert.True(t, x.Equal(y))
	back, err := Identity.Inverse(y)
	assert.NoError(t, err)
	assert.True(t, x.Equal(back))
}

func TestLog(t *testing.T) {
	x, _ := ptensor.New([]int{2}, []float64{1, math.E})
	y, err := Log.Forward(x)
	assert.NoError(t, err)
	assert.True(t, y.EqualApprox(mustDense(t, []int{2}, []float64{0, 1}), 1e-12))

	back, err := Log.Inverse(y)
	assert.NoError(t, err)
	assert.True(t, back.EqualApprox(x, 1e-12))
}

func TestLogit(t *testing.T) {
	x, _ := ptensor.New([]int{3}, []float64{0.1, 0.5, 0.9})
	y, err := Logit.Forward(x)
	assert.NoError(t, err)
	assert.Equal(t, 0.0, y.At(1))

	back, err := Logit.Inverse(y)
	assert.NoError(t, err)
	assert.True(t, back.EqualApprox(x, 1e-12))
}

func TestAffine(t *testing.T) {
	b := Affine(2, 1)
	x := ptensor.Scalar(3)
	y, err := b.Forward(x)
	assert.NoError(t, err)
	v, _ := y.Float()
	assert.Equal(t, 7.0, v)

	back, err := b.Inverse(y)
	assert.NoError(t, err)
	bv, _ := back.Float()
	assert.Equal(t, 3.0, bv)
}

func TestChain(t *testing.T) {
	// exp(2x+1): forward applies left to right.
	c := Chain{Affine(2, 1), elementwise{name: "exp", forward: math.Exp, inverse: math.Log}}
	x := ptensor.Scalar(0)
	y, err := c.Forward(x)
	assert.NoError(t, err)
	v, _ := y.Float()
	assert.Equal(t, math.E, v)

	back, err := c.Inverse(y)
	assert.NoError(t, err)
	bv, _ := back.Float()
	assert.Equal(t, 0.0, bv)
}

func TestSet(t *testing.T) {
	set := Set{
		"x": Identity,
		"y": Log,
	}
	values := map[string]*ptensor.Dense{
		"x": ptensor.Scalar(2),
		"y": ptensor.Scalar(1),
	}

	t.Run("forward and inverse", func(t *testing.T) {
		out, err := set.Forward(values)
		assert.NoError(t, err)
		xv, _ := out["x"].Float()
		assert.Equal(t, 2.0, xv)
		yv, _ := out["y"].Float()
		assert.Equal(t, 0.0, yv)

		back, err := set.Inverse(out)
		assert.NoError(t, err)
		yb, _ := back["y"].Float()
		assert.Equal(t, 1.0, yb)
	})

	t.Run("unknown name", func(t *testing.T) {
		_, err := set.Forward(map[string]*ptensor.Dense{"z": ptensor.Scalar(1)})
		assert.Error(t, err)
		assert.True(t, errors.Is(err, ErrUnknownName))
	})
}

func mustDense(t *testing.T, shape []int, data []float64) *ptensor.Dense {
	t.Helper()
	d, err := ptensor.New(shape, data)
	assert.NoError(t, err)
	return d
}
