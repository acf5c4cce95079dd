package pbijector

import (
	"fmt"
	"math"

	"github.com/birdayz/probz/ptensor"
)

// Bijector is an invertible elementwise transform. Forward maps a variable's
// constrained support into unconstrained space; Inverse maps back.
type Bijector interface {
	Forward(x *ptensor.Dense) (*ptensor.Dense, error)
	Inverse(y *ptensor.Dense) (*ptensor.Dense, error)
}

type elementwise struct {
	name    string
	forward func(float64) float64
	inverse func(float64) float64
}

func (b elementwise) Forward(x *ptensor.Dense) (*ptensor.Dense, error) {
	return x.Map(b.forward), nil
}

func (b elementwise) Inverse(y *ptensor.Dense) (*ptensor.Dense, error) {
	return y.Map(b.inverse), nil
}

func (b elementwise) String() string { return b.name }

// Identity maps every value to itself. Used for real-supported variables.
var Identity Bijector = elementwise{
	name:    "identity",
	forward: func(v float64) float64 { return v },
	inverse: func(v float64) float64 { return v },
}

// Log maps the positive reals onto the real line.
var Log Bijector = elementwise{
	name:    "log",
	forward: math.Log,
	inverse: math.Exp,
}

// Logit maps the open unit interval onto the real line.
var Logit Bijector = elementwise{
	name:    "logit",
	forward: func(v float64) float64 { return math.Log(v / (1 - v)) },
	inverse: func(v float64) float64 { return 1 / (1 + math.Exp(-v)) },
}

// Affine scales then shifts: forward(x) = scale*x + shift. Scale must be
// non-zero so the transform stays invertible.
func Affine(scale, shift float64) Bijector {
	return elementwise{
		name:    fmt.Sprintf("affine(%v,%v)", scale, shift),
		forward: func(v float64) float64 { return scale*v + shift },
		inverse: func(v float64) float64 { return (v - shift) / scale },
	}
}

// Chain composes bijectors left to right: Forward applies each in order,
// Inverse walks the chain backwards.
type Chain []Bijector

func (c Chain) Forward(x *ptensor.Dense) (*ptensor.Dense, error) {
	out := x
	for _, b := range c {
		var err error
		if out, err = b.Forward(out); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (c Chain) Inverse(y *ptensor.Dense) (*ptensor.Dense, error) {
	out := y
	for i := len(c) - 1; i >= 0; i-- {
		var err error
		if out, err = c[i].Inverse(out); err != nil {
			return nil, err
		}
	}
	return out, nil
}
