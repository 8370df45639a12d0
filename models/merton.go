package models

import (
	"math"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"
)

// SimulateJumpDiffusion steps a GBM recursion and, after each diffusive
// step, applies a multiplicative jump drawn from Normal(JumpMean, JumpStd)
// with probability lamb*dt.
func (g *Generator) SimulateJumpDiffusion(rng *rand.Rand) []float64 {
	rng, release := g.acquire(rng)
	defer release()

	n := g.cfg.Steps()
	dt := g.cfg.Dt
	dw := shocks(rng, n, dt, g.scheme)

	jumpSize := distuv.Normal{Mu: g.cfg.JumpMean, Sigma: g.cfg.JumpStd, Src: rng}
	jumpProb := g.cfg.Lamb * dt
	drift := (g.cfg.Mu - 0.5*g.cfg.Sigma*g.cfg.Sigma) * dt

	prices := make([]float64, n)
	prices[0] = g.cfg.S0
	jumps := 0
	for i := 1; i < n; i++ {
		prices[i] = prices[i-1] * math.Exp(drift+g.cfg.Sigma*dw[i])
		if rng.Float64() < jumpProb {
			prices[i] *= jumpSize.Rand()
			jumps++
		}
	}

	g.log.WithField("jumps", jumps).Debug("jump diffusion jumps")
	g.logPath("jump_diffusion", prices)
	return prices
}
