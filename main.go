package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/xhhuango/json"
	"golang.org/x/exp/rand"

	"github.com/bcdannyboy/stocpath/config"
	"github.com/bcdannyboy/stocpath/models"
	"github.com/bcdannyboy/stocpath/probability"
)

type report struct {
	Process    string              `json:"process"`
	Seed       uint64              `json:"seed"`
	Scheme     string              `json:"scheme"`
	Summary    probability.Summary `json:"summary"`
	Stationary []float64           `json:"stationary,omitempty"`
	Occupancy  []float64           `json:"occupancy,omitempty"`
}

// simulation is one generated path plus, for regime switching, the regime
// behind each step.
type simulation struct {
	path   []float64
	states []int
}

type simulateFunc func(*models.Generator, *rand.Rand) (simulation, error)

var (
	configPath string
	seed       uint64
	scheme     string
	log        = logrus.New()
)

// setupLogging loads .env before reading LOG_LEVEL and LOG_FORMAT.
func setupLogging(l *logrus.Logger, envFiles ...string) error {
	if err := config.LoadDotEnv(envFiles...); err != nil {
		return err
	}
	configureLogger(l, os.Getenv)
	return nil
}

func configureLogger(l *logrus.Logger, getenv func(string) string) {
	l.SetOutput(os.Stderr)

	level, err := logrus.ParseLevel(strings.ToLower(getenv("LOG_LEVEL")))
	if err != nil {
		level = logrus.InfoLevel
	}
	l.SetLevel(level)

	if strings.EqualFold(getenv("LOG_FORMAT"), "json") {
		l.SetFormatter(&logrus.JSONFormatter{TimestampFormat: time.RFC3339Nano})
	} else {
		l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
}

func main() {
	root := &cobra.Command{
		Use:           "stocpath",
		Short:         "Simulate asset price paths (GBM, jump diffusion, Heston, regime switching)",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(*cobra.Command, []string) error {
			return setupLogging(log)
		},
	}
	root.PersistentFlags().StringVarP(&configPath, "config", "c", "", "YAML process configuration")
	root.PersistentFlags().Uint64Var(&seed, "seed", 0, "random seed (defaults to the config seed, then the clock)")
	root.PersistentFlags().StringVar(&scheme, "scheme", "", "shock scheme for stepwise methods: increment or cumulative")

	root.AddCommand(
		processCommand("gbm", "Geometric Brownian motion (exact solution)", func(g *models.Generator, rng *rand.Rand) (simulation, error) {
			return simulation{path: g.SimulateGBM(rng)}, nil
		}),
		processCommand("jump", "Jump diffusion with Bernoulli jumps", func(g *models.Generator, rng *rand.Rand) (simulation, error) {
			return simulation{path: g.SimulateJumpDiffusion(rng)}, nil
		}),
		processCommand("heston", "Heston stochastic volatility", func(g *models.Generator, rng *rand.Rand) (simulation, error) {
			return simulation{path: g.SimulateHeston(rng)}, nil
		}),
		processCommand("regime", "Markov regime switching", func(g *models.Generator, rng *rand.Rand) (simulation, error) {
			path, states, err := g.SimulateRegimeSwitchingStates(rng)
			return simulation{path: path, states: states}, err
		}),
	)

	if err := root.Execute(); err != nil {
		log.WithError(err).Fatal("simulation failed")
	}
}

func processCommand(name, short string, simulate simulateFunc) *cobra.Command {
	return &cobra.Command{
		Use:   name,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			file, err := config.Load(configPath)
			if err != nil {
				return err
			}
			if scheme != "" {
				file.Scheme = scheme
			}
			shockScheme, err := file.ShockScheme()
			if err != nil {
				return err
			}

			cfg := file.ModelConfig()
			gen, err := models.NewGenerator(cfg,
				models.WithShockScheme(shockScheme),
				models.WithLogger(log.WithField("process", name)),
			)
			if err != nil {
				return err
			}

			s := resolveSeed(cmd, file)
			log.WithFields(logrus.Fields{
				"steps":  gen.Steps(),
				"seed":   s,
				"scheme": shockScheme.String(),
			}).Info("simulating path")

			sim, err := simulate(gen, models.NewSource(s))
			if err != nil {
				return err
			}

			out := report{
				Process: name,
				Seed:    s,
				Scheme:  shockScheme.String(),
				Summary: probability.Summarize(sim.path, cfg.Dt),
			}
			if !out.Summary.Finite {
				log.WithField("step", *out.Summary.DivergedAt).Warn("path diverged to a non-finite price")
			}
			if sim.states != nil {
				chain, err := models.NewRegimeChain(cfg.Regimes, cfg.P)
				if err != nil {
					return err
				}
				if out.Stationary, err = chain.StationaryDistribution(); err != nil {
					log.WithError(err).Warn("stationary distribution unavailable")
				}
				out.Occupancy = probability.RegimeOccupancy(sim.states, chain.Len())
			}

			data, err := json.MarshalIndent(out, "", "  ")
			if err != nil {
				return fmt.Errorf("error marshalling report: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(data))
			return nil
		},
	}
}

func resolveSeed(cmd *cobra.Command, file *config.File) uint64 {
	switch {
	case cmd.Flags().Changed("seed"):
		return seed
	case file.Seed != nil:
		return *file.Seed
	}
	return uint64(time.Now().UnixNano())
}
