// Package pdist provides concrete probz.Distribution implementations backed
// by gonum's univariate distributions, applied elementwise over ptensor
// parameter arrays.
package pdist

import (
	"fmt"

	"github.com/birdayz/probz/pbijector"
	"github.com/birdayz/probz/ptensor"
)

// unit is one scalar distribution element. gonum's distuv types satisfy it.
type unit interface {
	Rand() float64
	LogProb(x float64) float64
}

// Elementwise applies a family of scalar distributions independently per
// element of its parameter arrays. Its intrinsic shape is the broadcast
// shape of the parameters; sampling with extra dimensions stacks
// independent draws along new trailing axes.
type Elementwise struct {
	shape []int
	units []unit
	bij   pbijector.Bijector
}

// Sample draws one realization per element. extraDims append independent
// draws as new trailing axes, so an intrinsic shape (3,) sampled with
// extraDims (2,) yields shape (3, 2).
func (e *Elementwise) Sample(extraDims ...int) (*ptensor.Dense, error) {
	tail := 1
	for _, d := range extraDims {
		if d <= 0 {
			return nil, fmt.Errorf("%w: extra sample dimension %d", ptensor.ErrInvalidShape, d)
		}
		tail *= d
	}
	data := make([]float64, len(e.units)*tail)
	for i, u := range e.units {
		for j := 0; j < tail; j++ {
			data[i*tail+j] = u.Rand()
		}
	}
	shape := make([]int, 0, len(e.shape)+len(extraDims))
	shape = append(shape, e.shape...)
	shape = append(shape, extraDims...)
	return ptensor.New(shape, data)
}

// LogDensity returns the elementwise log-density of x, shaped like x. The
// intrinsic shape must be a prefix of x's shape; any trailing axes are
// treated as sample dimensions, each element's distribution broadcast
// across them.
func (e *Elementwise) LogDensity(x *ptensor.Dense) (*ptensor.Dense, error) {
	xs := x.Shape()
	if len(xs) < len(e.shape) {
		return nil, fmt.Errorf("%w: value shape %v cannot carry distribution shape %v", ptensor.ErrShapeMismatch, xs, e.shape)
	}
	for i, d := range e.shape {
		if xs[i] != d {
			return nil, fmt.Errorf("%w: value shape %v does not match distribution shape %v", ptensor.ErrShapeMismatch, xs, e.shape)
		}
	}
	tail := x.Len() / len(e.units)
	data := make([]float64, x.Len())
	for i, u := range e.units {
		for j := 0; j < tail; j++ {
			data[i*tail+j] = u.LogProb(x.At(i*tail + j))
		}
	}
	return ptensor.New(xs, data)
}

// Bijector returns the family's constrained-to-unconstrained transform,
// identical for every element.
func (e *Elementwise) Bijector() pbijector.Bijector { return e.bij }

// Shape returns the intrinsic shape.
func (e *Elementwise) Shape() []int {
	cp := make([]int, len(e.shape))
	copy(cp, e.shape)
	return cp
}

// broadcastShape returns the common shape of parameter tensors: all
// non-scalar parameters must agree, scalars broadcast to anything.
func broadcastShape(params ...*ptensor.Dense) ([]int, error) {
	var shape []int
	for _, p := range params {
		if p.IsScalar() {
			continue
		}
		if shape == nil {
			shape = p.Shape()
			continue
		}
		ps := p.Shape()
		if len(ps) != len(shape) {
			return nil, fmt.Errorf("%w: parameter shapes %v and %v", ptensor.ErrShapeMismatch, shape, ps)
		}
		for i := range ps {
			if ps[i] != shape[i] {
				return nil, fmt.Errorf("%w: parameter shapes %v and %v", ptensor.ErrShapeMismatch, shape, ps)
			}
		}
	}
	return shape, nil
}

// paramAt reads element i of a parameter, broadcasting scalars.
func paramAt(p *ptensor.Dense, i int) float64 {
	if p.IsScalar() {
		return p.At(0)
	}
	return p.At(i)
}
