package ptensor

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/floats"
)

var (
	ErrShapeMismatch = errors.New("shape mismatch")
	ErrInvalidShape  = errors.New("invalid shape")
)

// Dense is a dense float64 array with row-major layout. A Dense with an
// empty shape is a scalar holding exactly one element.
//
// The convention throughout probz is that sample dimensions are appended as
// new *trailing* axes, so the fastest-varying index is the sample index.
type Dense struct {
	shape []int
	data  []float64
}

// New creates a Dense with the given shape backed by data. The data slice is
// not copied; callers must not mutate it afterwards.
func New(shape []int, data []float64) (*Dense, error) {
	n := 1
	for _, d := range shape {
		if d <= 0 {
			return nil, fmt.Errorf("%w: dimension %d", ErrInvalidShape, d)
		}
		n *= d
	}
	if n != len(data) {
		return nil, fmt.Errorf("%w: shape %v needs %d elements, got %d", ErrInvalidShape, shape, n, len(data))
	}
	cp := make([]int, len(shape))
	copy(cp, shape)
	return &Dense{shape: cp, data: data}, nil
}

// Scalar returns a rank-0 Dense holding v.
func Scalar(v float64) *Dense {
	return &Dense{data: []float64{v}}
}

// Zeros returns a Dense of the given shape filled with zeros.
func Zeros(shape ...int) *Dense {
	return Full(0, shape...)
}

// Ones returns a Dense of the given shape filled with ones.
func Ones(shape ...int) *Dense {
	return Full(1, shape...)
}

// Full returns a Dense of the given shape with every element set to v.
func Full(v float64, shape ...int) *Dense {
	n := 1
	for _, d := range shape {
		n *= d
	}
	data := make([]float64, n)
	for i := range data {
		data[i] = v
	}
	cp := make([]int, len(shape))
	copy(cp, shape)
	return &Dense{shape: cp, data: data}
}

// Shape returns a copy of the dimensions. Empty for scalars.
func (t *Dense) Shape() []int {
	cp := make([]int, len(t.shape))
	copy(cp, t.shape)
	return cp
}

// Rank returns the number of axes.
func (t *Dense) Rank() int { return len(t.shape) }

// Len returns the total number of elements.
func (t *Dense) Len() int { return len(t.data) }

// IsScalar reports whether t is rank 0.
func (t *Dense) IsScalar() bool { return len(t.shape) == 0 }

// Data returns the backing slice in row-major order. It is shared, not
// copied; treat it as read-only.
func (t *Dense) Data() []float64 { return t.data }

// At returns the element at linear (row-major) index i.
func (t *Dense) At(i int) float64 { return t.data[i] }

// Float returns the value of a scalar Dense.
func (t *Dense) Float() (float64, error) {
	if !t.IsScalar() {
		return 0, fmt.Errorf("%w: not a scalar, shape %v", ErrShapeMismatch, t.shape)
	}
	return t.data[0], nil
}

// Clone returns a deep copy.
func (t *Dense) Clone() *Dense {
	data := make([]float64, len(t.data))
	copy(data, t.data)
	cp := make([]int, len(t.shape))
	copy(cp, t.shape)
	return &Dense{shape: cp, data: data}
}

// Map returns a new Dense with f applied to every element.
func (t *Dense) Map(f func(float64) float64) *Dense {
	out := t.Clone()
	for i, v := range out.data {
		out.data[i] = f(v)
	}
	return out
}

// Equal reports exact (bitwise) equality of shape and elements.
func (t *Dense) Equal(o *Dense) bool {
	if !SameShape(t, o) {
		return false
	}
	return floats.Equal(t.data, o.data)
}

// EqualApprox reports elementwise equality within tol.
func (t *Dense) EqualApprox(o *Dense, tol float64) bool {
	if !SameShape(t, o) {
		return false
	}
	return floats.EqualApprox(t.data, o.data, tol)
}

// SumAll returns the sum of all elements.
func (t *Dense) SumAll() float64 { return floats.Sum(t.data) }

// SameShape reports whether a and b have identical shapes.
func SameShape(a, b *Dense) bool {
	if len(a.shape) != len(b.shape) {
		return false
	}
	for i := range a.shape {
		if a.shape[i] != b.shape[i] {
			return false
		}
	}
	return true
}

// Add returns the elementwise sum of a and b. Shapes must be identical, or
// one operand must be a scalar (broadcast against the other).
func Add(a, b *Dense) (*Dense, error) {
	switch {
	case a.IsScalar():
		c := a.data[0]
		return b.Map(func(v float64) float64 { return v + c }), nil
	case b.IsScalar():
		c := b.data[0]
		return a.Map(func(v float64) float64 { return v + c }), nil
	case SameShape(a, b):
		out := a.Clone()
		floats.Add(out.data, b.data)
		return out, nil
	default:
		return nil, fmt.Errorf("%w: cannot add shapes %v and %v", ErrShapeMismatch, a.shape, b.shape)
	}
}

// Stack stacks same-shaped tensors along a new trailing axis of size
// len(parts), so parts[j] occupies index j of the last axis.
func Stack(parts ...*Dense) (*Dense, error) {
	if len(parts) == 0 {
		return nil, fmt.Errorf("%w: cannot stack zero tensors", ErrInvalidShape)
	}
	first := parts[0]
	for _, p := range parts[1:] {
		if !SameShape(first, p) {
			return nil, fmt.Errorf("%w: cannot stack shapes %v and %v", ErrShapeMismatch, first.shape, p.shape)
		}
	}
	k := len(parts)
	data := make([]float64, first.Len()*k)
	for i := 0; i < first.Len(); i++ {
		for j, p := range parts {
			data[i*k+j] = p.data[i]
		}
	}
	shape := append(first.Shape(), k)
	return &Dense{shape: shape, data: data}, nil
}

// SumLeading sums over the first n axes, returning a Dense shaped like the
// remaining trailing axes. SumLeading(t, t.Rank()) yields a scalar.
func SumLeading(t *Dense, n int) (*Dense, error) {
	if n < 0 || n > t.Rank() {
		return nil, fmt.Errorf("%w: cannot reduce %d leading axes of rank-%d tensor", ErrShapeMismatch, n, t.Rank())
	}
	if n == 0 {
		return t.Clone(), nil
	}
	tail := 1
	for _, d := range t.shape[n:] {
		tail *= d
	}
	lead := len(t.data) / tail
	out := Zeros(t.shape[n:]...)
	for i := 0; i < lead; i++ {
		floats.Add(out.data, t.data[i*tail:(i+1)*tail])
	}
	return out, nil
}
