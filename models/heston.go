package models

import (
	"math"

	"golang.org/x/exp/rand"
)

// SimulateHeston returns the price path of the Heston model. The variance
// starts at Theta and follows an Euler CIR recursion reflected at zero.
func (g *Generator) SimulateHeston(rng *rand.Rand) []float64 {
	rng, release := g.acquire(rng)
	defer release()

	prices, _ := g.hestonPaths(rng)
	g.logPath("heston", prices)
	return prices
}

func (g *Generator) hestonPaths(rng *rand.Rand) (prices, variance []float64) {
	n := g.cfg.Steps()
	dt := g.cfg.Dt
	dw1 := shocks(rng, n, dt, g.scheme)
	dw2 := shocks(rng, n, dt, g.scheme)

	kappa, theta, xi, rho := g.cfg.Kappa, g.cfg.Theta, g.cfg.Xi, g.cfg.Rho
	rhoBar := math.Sqrt(1 - rho*rho)

	prices = make([]float64, n)
	variance = make([]float64, n)
	prices[0] = g.cfg.S0
	variance[0] = theta

	for i := 1; i < n; i++ {
		v := variance[i-1]
		sqrtV := math.Sqrt(v)

		variance[i] = math.Abs(v + kappa*(theta-v)*dt + xi*sqrtV*dw2[i])
		prices[i] = prices[i-1] * math.Exp((g.cfg.Mu-0.5*v)*dt+sqrtV*(rho*dw1[i]+rhoBar*dw2[i]))
	}

	return prices, variance
}
