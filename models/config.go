package models

import (
	"errors"
	"fmt"
	"math"
)

var (
	ErrInvalidConfiguration = errors.New("invalid configuration")
	ErrMissingParameter     = errors.New("missing parameter")
)

// Config holds the process parameters. It is copied into a Generator at
// construction and never mutated afterwards.
type Config struct {
	S0    float64 // Initial price
	T     float64 // Time horizon
	Dt    float64 // Time step size
	Mu    float64 // Drift
	Sigma float64 // Volatility (GBM, jump diffusion)
	Lamb  float64 // Jump intensity
	Kappa float64 // Mean reversion speed of variance
	Theta float64 // Long-term variance, also the initial variance
	Xi    float64 // Volatility of variance
	Rho   float64 // Price shock is rho*dW1 + sqrt(1-rho^2)*dW2, variance uses dW2

	JumpMean float64 // Mean of the multiplicative jump factor
	JumpStd  float64 // Std dev of the multiplicative jump factor

	Regimes []Regime    // (drift, volatility) per regime
	P       [][]float64 // Transition rates between regimes
}

// DefaultConfig returns a configuration with the conventional defaults for
// everything except the grid.
func DefaultConfig(s0, t, dt float64) Config {
	return Config{
		S0:       s0,
		T:        t,
		Dt:       dt,
		Mu:       0.05,
		Sigma:    0.2,
		Lamb:     0.75,
		Kappa:    0.15,
		Theta:    0.05,
		Xi:       0.2,
		Rho:      -0.7,
		JumpMean: 1,
		JumpStd:  0.1,
	}
}

// Steps returns the number of grid points, floor(T/dt).
func (c Config) Steps() int {
	return Steps(c.T, c.Dt)
}

// HasRegimes reports whether the regime-switching parameters were supplied.
func (c Config) HasRegimes() bool {
	return len(c.Regimes) > 0 && len(c.P) > 0
}

// Validate checks the configuration against the constraints the
// discretizations need to produce finite paths.
func (c Config) Validate() error {
	for _, f := range []struct {
		name string
		v    float64
	}{
		{"S0", c.S0}, {"T", c.T}, {"dt", c.Dt}, {"mu", c.Mu}, {"sigma", c.Sigma},
		{"lamb", c.Lamb}, {"kappa", c.Kappa}, {"theta", c.Theta}, {"xi", c.Xi},
		{"rho", c.Rho}, {"jump mean", c.JumpMean}, {"jump std", c.JumpStd},
	} {
		if math.IsNaN(f.v) || math.IsInf(f.v, 0) {
			return fmt.Errorf("%w: %s is not finite", ErrInvalidConfiguration, f.name)
		}
	}

	switch {
	case c.S0 <= 0:
		return fmt.Errorf("%w: S0 must be positive, got %v", ErrInvalidConfiguration, c.S0)
	case c.T <= 0:
		return fmt.Errorf("%w: T must be positive, got %v", ErrInvalidConfiguration, c.T)
	case c.Dt <= 0:
		return fmt.Errorf("%w: dt must be positive, got %v", ErrInvalidConfiguration, c.Dt)
	case c.Dt > c.T:
		return fmt.Errorf("%w: dt %v exceeds horizon %v", ErrInvalidConfiguration, c.Dt, c.T)
	case c.Steps() < 1:
		return fmt.Errorf("%w: grid has no points", ErrInvalidConfiguration)
	case c.Sigma < 0:
		return fmt.Errorf("%w: sigma must be non-negative, got %v", ErrInvalidConfiguration, c.Sigma)
	case c.Lamb < 0:
		return fmt.Errorf("%w: lamb must be non-negative, got %v", ErrInvalidConfiguration, c.Lamb)
	case c.Lamb*c.Dt > 1:
		// The per-step Bernoulli jump only approximates a Poisson arrival
		// while lamb*dt is a probability.
		return fmt.Errorf("%w: lamb*dt = %v exceeds 1", ErrInvalidConfiguration, c.Lamb*c.Dt)
	case c.Kappa < 0:
		return fmt.Errorf("%w: kappa must be non-negative, got %v", ErrInvalidConfiguration, c.Kappa)
	case c.Theta <= 0:
		return fmt.Errorf("%w: theta must be positive, got %v", ErrInvalidConfiguration, c.Theta)
	case c.Xi < 0:
		return fmt.Errorf("%w: xi must be non-negative, got %v", ErrInvalidConfiguration, c.Xi)
	case c.Rho < -1 || c.Rho > 1:
		return fmt.Errorf("%w: rho must lie in [-1, 1], got %v", ErrInvalidConfiguration, c.Rho)
	case c.JumpStd < 0:
		return fmt.Errorf("%w: jump std must be non-negative, got %v", ErrInvalidConfiguration, c.JumpStd)
	}

	if len(c.Regimes) == 0 && len(c.P) == 0 {
		return nil
	}
	if len(c.Regimes) == 0 || len(c.P) == 0 {
		return fmt.Errorf("%w: regimes and P must be supplied together", ErrInvalidConfiguration)
	}
	chain, err := NewRegimeChain(c.Regimes, c.P)
	if err != nil {
		return err
	}
	return chain.checkStep(c.Dt)
}
