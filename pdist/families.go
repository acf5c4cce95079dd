package pdist

import (
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/birdayz/probz/pbijector"
	"github.com/birdayz/probz/ptensor"
)

// Normal is an elementwise normal distribution with real support.
func Normal(mu, sigma *ptensor.Dense, src rand.Source) (*Elementwise, error) {
	return build(pbijector.Identity, func(i int) unit {
		return distuv.Normal{Mu: paramAt(mu, i), Sigma: paramAt(sigma, i), Src: src}
	}, mu, sigma)
}

// LogNormal is an elementwise log-normal distribution with positive support.
func LogNormal(mu, sigma *ptensor.Dense, src rand.Source) (*Elementwise, error) {
	return build(pbijector.Log, func(i int) unit {
		return distuv.LogNormal{Mu: paramAt(mu, i), Sigma: paramAt(sigma, i), Src: src}
	}, mu, sigma)
}

// Exponential is an elementwise exponential distribution with positive
// support.
func Exponential(rate *ptensor.Dense, src rand.Source) (*Elementwise, error) {
	return build(pbijector.Log, func(i int) unit {
		return distuv.Exponential{Rate: paramAt(rate, i), Src: src}
	}, rate)
}

// Gamma is an elementwise gamma distribution with positive support. Beta is
// the rate parameter.
func Gamma(alpha, beta *ptensor.Dense, src rand.Source) (*Elementwise, error) {
	return build(pbijector.Log, func(i int) unit {
		return distuv.Gamma{Alpha: paramAt(alpha, i), Beta: paramAt(beta, i), Src: src}
	}, alpha, beta)
}

// Beta is an elementwise beta distribution supported on the unit interval.
func Beta(alpha, beta *ptensor.Dense, src rand.Source) (*Elementwise, error) {
	return build(pbijector.Logit, func(i int) unit {
		return distuv.Beta{Alpha: paramAt(alpha, i), Beta: paramAt(beta, i), Src: src}
	}, alpha, beta)
}

func build(bij pbijector.Bijector, mk func(i int) unit, params ...*ptensor.Dense) (*Elementwise, error) {
	shape, err := broadcastShape(params...)
	if err != nil {
		return nil, err
	}
	n := 1
	for _, d := range shape {
		n *= d
	}
	units := make([]unit, n)
	for i := range units {
		units[i] = mk(i)
	}
	return &Elementwise{shape: shape, units: units, bij: bij}, nil
}
