package models

import (
	"math"

	"golang.org/x/exp/rand"
)

// SimulateGBM evaluates the exact GBM solution
// S(t) = S0 * exp((mu - sigma^2/2) t + sigma W(t)) at every grid point.
// A nil rng draws from a pooled, randomly seeded source.
func (g *Generator) SimulateGBM(rng *rand.Rand) []float64 {
	rng, release := g.acquire(rng)
	defer release()

	n := g.cfg.Steps()
	t := TimeGrid(g.cfg.T, n)
	w := WienerPath(rng, n, g.cfg.Dt)

	drift := g.cfg.Mu - 0.5*g.cfg.Sigma*g.cfg.Sigma
	prices := make([]float64, n)
	for i := range prices {
		prices[i] = g.cfg.S0 * math.Exp(drift*t[i]+g.cfg.Sigma*w[i])
	}

	g.logPath("gbm", prices)
	return prices
}
