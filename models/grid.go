package models

import (
	"math"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/floats"
)

// ShockScheme selects which Brownian quantity drives the stepwise
// recursions (jump diffusion, Heston, regime switching).
type ShockScheme int

const (
	// IncrementShocks feeds step i with W(t_i) - W(t_{i-1}), the standard
	// Euler-Maruyama increment.
	IncrementShocks ShockScheme = iota
	// CumulativeShocks feeds step i with the accumulated W(t_i). This keeps
	// compatibility with paths produced by the legacy generator.
	CumulativeShocks
)

func (s ShockScheme) String() string {
	switch s {
	case IncrementShocks:
		return "increment"
	case CumulativeShocks:
		return "cumulative"
	default:
		return "unknown"
	}
}

// Steps returns floor(t/dt), the number of points on the simulation grid.
func Steps(t, dt float64) int {
	if dt <= 0 || math.IsNaN(t/dt) || math.IsInf(t/dt, 0) {
		return 0
	}
	return int(math.Floor(t / dt))
}

// TimeGrid returns n evenly spaced times from 0 to t inclusive.
func TimeGrid(t float64, n int) []float64 {
	switch {
	case n <= 0:
		return nil
	case n == 1:
		return []float64{0}
	}
	return floats.Span(make([]float64, n), 0, t)
}

// brownianIncrements draws the n Wiener increments on a grid of step dt.
// The first increment is zero so the path starts at the origin.
func brownianIncrements(rng *rand.Rand, n int, dt float64) []float64 {
	dw := make([]float64, n)
	for i := 1; i < n; i++ {
		dw[i] = rng.NormFloat64()
	}
	floats.Scale(math.Sqrt(dt), dw)
	return dw
}

// WienerPath returns a discretized Brownian path W(t_0..t_{n-1}) with W(0) = 0.
func WienerPath(rng *rand.Rand, n int, dt float64) []float64 {
	return floats.CumSum(make([]float64, n), brownianIncrements(rng, n, dt))
}

// shocks draws one Brownian stream and returns it in the form the scheme
// feeds to a stepwise recursion.
func shocks(rng *rand.Rand, n int, dt float64, scheme ShockScheme) []float64 {
	dw := brownianIncrements(rng, n, dt)
	if scheme == CumulativeShocks {
		return floats.CumSum(make([]float64, n), dw)
	}
	return dw
}
