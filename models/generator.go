package models

import (
	"io"
	"sync"

	"github.com/sirupsen/logrus"
	"golang.org/x/exp/rand"
)

var rngPool = sync.Pool{
	New: func() interface{} {
		return rand.New(rand.NewSource(uint64(rand.Int63())))
	},
}

var discardLogger = func() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	l.SetLevel(logrus.InfoLevel)
	return l
}()

// NewSource returns a seeded random handle. Two handles built from the same
// seed produce identical paths for the same configuration.
func NewSource(seed uint64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}

// Generator produces discretized sample paths for a fixed configuration.
// It holds no mutable state, so one Generator may serve concurrent callers
// as long as they do not share a *rand.Rand.
type Generator struct {
	cfg    Config
	chain  *RegimeChain
	scheme ShockScheme
	log    logrus.FieldLogger
}

type Option func(*Generator)

// WithShockScheme selects the Brownian quantity fed to the stepwise
// recursions. The default is IncrementShocks.
func WithShockScheme(s ShockScheme) Option {
	return func(g *Generator) {
		g.scheme = s
	}
}

func WithLogger(l logrus.FieldLogger) Option {
	return func(g *Generator) {
		if l != nil {
			g.log = l
		}
	}
}

func NewGenerator(cfg Config, opts ...Option) (*Generator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	g := &Generator{
		cfg:    cfg,
		scheme: IncrementShocks,
		log:    discardLogger,
	}
	if cfg.HasRegimes() {
		chain, err := NewRegimeChain(cfg.Regimes, cfg.P)
		if err != nil {
			return nil, err
		}
		g.chain = chain
		g.cfg.Regimes = chain.Regimes
		g.cfg.P = chain.Rates
	}
	for _, opt := range opts {
		opt(g)
	}

	return g, nil
}

// Config returns a copy of the generator's configuration.
func (g *Generator) Config() Config {
	cfg := g.cfg
	if g.chain != nil {
		c := g.chain.clone()
		cfg.Regimes = c.Regimes
		cfg.P = c.Rates
	}
	return cfg
}

func (g *Generator) Steps() int {
	return g.cfg.Steps()
}

func (g *Generator) Scheme() ShockScheme {
	return g.scheme
}

// acquire returns rng, or a pooled handle when rng is nil. The release
// func must be called once the path is built.
func (g *Generator) acquire(rng *rand.Rand) (*rand.Rand, func()) {
	if rng != nil {
		return rng, func() {}
	}
	pooled := rngPool.Get().(*rand.Rand)
	return pooled, func() { rngPool.Put(pooled) }
}

func (g *Generator) logPath(process string, path []float64) {
	g.log.WithFields(logrus.Fields{
		"process": process,
		"steps":   len(path),
		"scheme":  g.scheme.String(),
		"last":    path[len(path)-1],
	}).Debug("simulated path")
}
