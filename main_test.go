package main

import (
	"bytes"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/xhhuango/json"
	"golang.org/x/exp/rand"

	"github.com/bcdannyboy/stocpath/models"
)

const testConfig = `
s0: 100
t: 1
dt: 0.01
regimes:
  - drift: 0.1
    volatility: 0.2
  - drift: -0.1
    volatility: 0.3
p:
  - [0, 1]
  - [3, 0]
seed: 11
`

func runProcess(t *testing.T, name, yml string, simulate simulateFunc) report {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yml")
	if err := os.WriteFile(path, []byte(yml), 0o644); err != nil {
		t.Fatal(err)
	}
	configPath, scheme, seed = path, "", 0

	cmd := processCommand(name, "test", simulate)
	cmd.Flags().Uint64Var(&seed, "seed", 0, "")
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("execute %s: %v", name, err)
	}

	var r report
	if err := json.Unmarshal(out.Bytes(), &r); err != nil {
		t.Fatalf("decode report: %v\n%s", err, out.String())
	}
	return r
}

func simulateGBM(g *models.Generator, rng *rand.Rand) (simulation, error) {
	return simulation{path: g.SimulateGBM(rng)}, nil
}

func simulateHeston(g *models.Generator, rng *rand.Rand) (simulation, error) {
	return simulation{path: g.SimulateHeston(rng)}, nil
}

func simulateRegime(g *models.Generator, rng *rand.Rand) (simulation, error) {
	path, states, err := g.SimulateRegimeSwitchingStates(rng)
	return simulation{path: path, states: states}, err
}

func TestProcessCommandReport(t *testing.T) {
	r := runProcess(t, "gbm", testConfig, simulateGBM)
	if r.Process != "gbm" || r.Seed != 11 || r.Scheme != "increment" {
		t.Errorf("report header = %+v", r)
	}
	if r.Summary.Steps != 100 || r.Summary.First != 100 || !r.Summary.Finite {
		t.Errorf("summary = %+v", r.Summary)
	}
	if r.Stationary != nil || r.Occupancy != nil {
		t.Errorf("regime fields set for gbm: %v %v", r.Stationary, r.Occupancy)
	}
}

func TestProcessCommandRegimeReport(t *testing.T) {
	r := runProcess(t, "regime", testConfig, simulateRegime)
	if len(r.Stationary) != 2 {
		t.Fatalf("stationary = %v", r.Stationary)
	}
	if math.Abs(r.Stationary[0]-0.75) > 1e-9 {
		t.Errorf("stationary[0] = %v, want 0.75", r.Stationary[0])
	}
	if len(r.Occupancy) != 2 || math.Abs(r.Occupancy[0]+r.Occupancy[1]-1) > 1e-9 {
		t.Errorf("occupancy = %v", r.Occupancy)
	}
	if r.Occupancy[0] <= 0 {
		t.Errorf("occupancy[0] = %v, path starts in regime 0", r.Occupancy[0])
	}
}

func TestProcessCommandReportsDivergedPath(t *testing.T) {
	// The cumulative scheme lets Heston prices overflow on this seed.
	const diverging = `
s0: 100
t: 1
dt: 0.003968253968253968
scheme: cumulative
seed: 1
`
	r := runProcess(t, "heston", diverging, simulateHeston)
	if r.Summary.Finite {
		t.Fatalf("summary = %+v, want a non-finite path", r.Summary)
	}
	if r.Summary.DivergedAt == nil || *r.Summary.DivergedAt <= 0 || *r.Summary.DivergedAt >= r.Summary.Steps {
		t.Fatalf("diverged_at = %v", r.Summary.DivergedAt)
	}
	if r.Summary.First != 100 || r.Summary.Last != 0 || r.Summary.Max != 0 || r.Summary.MeanPrice != 0 {
		t.Errorf("non-finite stats leaked: %+v", r.Summary)
	}
}

func TestSetupLoggingReadsDotEnv(t *testing.T) {
	for _, k := range []string{"LOG_LEVEL", "LOG_FORMAT"} {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
	envFile := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(envFile, []byte("LOG_LEVEL=debug\nLOG_FORMAT=json\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	l := logrus.New()
	if err := setupLogging(l, envFile); err != nil {
		t.Fatalf("setupLogging: %v", err)
	}
	if l.GetLevel() != logrus.DebugLevel {
		t.Errorf("level = %v, want debug", l.GetLevel())
	}
	if _, ok := l.Formatter.(*logrus.JSONFormatter); !ok {
		t.Errorf("formatter = %T, want JSON", l.Formatter)
	}
}

func TestConfigureLoggerDefaults(t *testing.T) {
	l := logrus.New()
	configureLogger(l, func(k string) string {
		if k == "LOG_LEVEL" {
			return "LOUD"
		}
		return ""
	})
	if l.GetLevel() != logrus.InfoLevel {
		t.Errorf("level = %v, want info", l.GetLevel())
	}
	if _, ok := l.Formatter.(*logrus.TextFormatter); !ok {
		t.Errorf("formatter = %T, want text", l.Formatter)
	}
}
