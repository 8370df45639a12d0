package models

import (
	"fmt"
	"math"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/mat"
)

// Regime is one state of the switching model.
type Regime struct {
	Drift      float64
	Volatility float64
}

// RegimeChain is a finite-state Markov chain over regimes. Rates[i][j] for
// i != j is the rate of leaving regime i for regime j; diagonal entries are
// ignored.
type RegimeChain struct {
	Regimes []Regime
	Rates   [][]float64
}

func NewRegimeChain(regimes []Regime, rates [][]float64) (*RegimeChain, error) {
	k := len(regimes)
	if k == 0 {
		return nil, fmt.Errorf("%w: regimes", ErrMissingParameter)
	}
	if len(rates) == 0 {
		return nil, fmt.Errorf("%w: transition matrix", ErrMissingParameter)
	}
	if k < 2 {
		return nil, fmt.Errorf("%w: regime switching needs at least 2 regimes, got %d", ErrInvalidConfiguration, k)
	}
	if len(rates) != k {
		return nil, fmt.Errorf("%w: transition matrix has %d rows for %d regimes", ErrInvalidConfiguration, len(rates), k)
	}

	for i, r := range regimes {
		if math.IsNaN(r.Drift) || math.IsInf(r.Drift, 0) || math.IsNaN(r.Volatility) || math.IsInf(r.Volatility, 0) {
			return nil, fmt.Errorf("%w: regime %d is not finite", ErrInvalidConfiguration, i)
		}
		if r.Volatility < 0 {
			return nil, fmt.Errorf("%w: regime %d volatility %v is negative", ErrInvalidConfiguration, i, r.Volatility)
		}
	}
	for i, row := range rates {
		if len(row) != k {
			return nil, fmt.Errorf("%w: transition matrix row %d has %d entries, want %d", ErrInvalidConfiguration, i, len(row), k)
		}
		for j, q := range row {
			if i == j {
				continue
			}
			if math.IsNaN(q) || math.IsInf(q, 0) || q < 0 {
				return nil, fmt.Errorf("%w: transition rate P[%d][%d] = %v", ErrInvalidConfiguration, i, j, q)
			}
		}
	}

	c := &RegimeChain{Regimes: regimes, Rates: rates}
	return c.clone(), nil
}

func (c *RegimeChain) clone() *RegimeChain {
	regimes := make([]Regime, len(c.Regimes))
	copy(regimes, c.Regimes)
	rates := make([][]float64, len(c.Rates))
	for i, row := range c.Rates {
		rates[i] = append([]float64(nil), row...)
	}
	return &RegimeChain{Regimes: regimes, Rates: rates}
}

func (c *RegimeChain) Len() int {
	return len(c.Regimes)
}

// exitProbability is the chance of leaving regime i during one step of dt.
func (c *RegimeChain) exitProbability(i int, dt float64) float64 {
	p := 0.0
	for j, q := range c.Rates[i] {
		if j != i {
			p += q * dt
		}
	}
	return p
}

func (c *RegimeChain) checkStep(dt float64) error {
	for i := range c.Rates {
		if p := c.exitProbability(i, dt); p > 1 {
			return fmt.Errorf("%w: regime %d exit probability %v exceeds 1 at dt %v", ErrInvalidConfiguration, i, p, dt)
		}
	}
	return nil
}

// Next applies one transition from current over a step of dt given a
// uniform draw u in [0, 1). Each other regime j is entered with probability
// Rates[current][j]*dt; otherwise the chain stays put. With two regimes this
// is a single Bernoulli flip.
func (c *RegimeChain) Next(current int, dt, u float64) int {
	acc := 0.0
	for j, q := range c.Rates[current] {
		if j == current {
			continue
		}
		acc += q * dt
		if u < acc {
			return j
		}
	}
	return current
}

// StationaryDistribution solves pi Q = 0 with sum(pi) = 1 for the generator
// Q built from the off-diagonal rates.
func (c *RegimeChain) StationaryDistribution() ([]float64, error) {
	k := c.Len()
	a := mat.NewDense(k+1, k, nil)
	for i := 0; i < k; i++ {
		out := 0.0
		for j := 0; j < k; j++ {
			if i == j {
				continue
			}
			a.Set(j, i, c.Rates[i][j])
			out += c.Rates[i][j]
		}
		a.Set(i, i, -out)
	}
	for j := 0; j < k; j++ {
		a.Set(k, j, 1)
	}
	b := mat.NewVecDense(k+1, nil)
	b.SetVec(k, 1)

	var pi mat.VecDense
	if err := pi.SolveVec(a, b); err != nil {
		return nil, fmt.Errorf("stationary distribution: %w", err)
	}
	return mat.Col(nil, 0, &pi), nil
}

// SimulateRegimeSwitching steps a GBM recursion whose drift and volatility
// follow the regime chain, starting in regime 0.
func (g *Generator) SimulateRegimeSwitching(rng *rand.Rand) ([]float64, error) {
	prices, _, err := g.SimulateRegimeSwitchingStates(rng)
	return prices, err
}

// SimulateRegimeSwitchingStates is SimulateRegimeSwitching that also
// returns the regime that drove each step, with states[0] = 0.
func (g *Generator) SimulateRegimeSwitchingStates(rng *rand.Rand) (prices []float64, states []int, err error) {
	if g.chain == nil {
		return nil, nil, fmt.Errorf("%w: regimes and transition matrix are required for regime switching", ErrMissingParameter)
	}

	rng, release := g.acquire(rng)
	defer release()

	prices, states = g.regimePaths(rng)
	g.logPath("regime_switching", prices)
	return prices, states, nil
}

// regimePaths returns the price path and the regime that drove each step.
func (g *Generator) regimePaths(rng *rand.Rand) (prices []float64, states []int) {
	n := g.cfg.Steps()
	dt := g.cfg.Dt
	dw := shocks(rng, n, dt, g.scheme)

	prices = make([]float64, n)
	states = make([]int, n)
	prices[0] = g.cfg.S0

	current := 0
	for i := 1; i < n; i++ {
		r := g.chain.Regimes[current]
		prices[i] = prices[i-1] * math.Exp((r.Drift-0.5*r.Volatility*r.Volatility)*dt+r.Volatility*dw[i])
		states[i] = current
		current = g.chain.Next(current, dt, rng.Float64())
	}

	return prices, states
}
