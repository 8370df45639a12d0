package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/bcdannyboy/stocpath/models"
)

const envPrefix = "STOCPATH_"

// File is the on-disk description of a process configuration. Unset
// optional fields fall back to models.DefaultConfig.
type File struct {
	S0    float64  `yaml:"s0"`
	T     float64  `yaml:"t"`
	Dt    float64  `yaml:"dt"`
	Mu    *float64 `yaml:"mu,omitempty"`
	Sigma *float64 `yaml:"sigma,omitempty"`
	Lamb  *float64 `yaml:"lamb,omitempty"`
	Kappa *float64 `yaml:"kappa,omitempty"`
	Theta *float64 `yaml:"theta,omitempty"`
	Xi    *float64 `yaml:"xi,omitempty"`
	Rho   *float64 `yaml:"rho,omitempty"`

	Jump    *JumpConf    `yaml:"jump,omitempty"`
	Regimes []RegimeConf `yaml:"regimes,omitempty"`
	P       [][]float64  `yaml:"p,omitempty"`
	Seed    *uint64      `yaml:"seed,omitempty"`
	Scheme  string       `yaml:"scheme,omitempty"`
}

type JumpConf struct {
	Mean *float64 `yaml:"mean,omitempty"`
	Std  *float64 `yaml:"std,omitempty"`
}

type RegimeConf struct {
	Drift      float64 `yaml:"drift"`
	Volatility float64 `yaml:"volatility"`
}

// Load reads an optional .env file, then the YAML file at path, then
// applies STOCPATH_* environment overrides. An empty path starts from an
// empty File so the environment alone can describe the process.
func Load(path string) (*File, error) {
	if err := LoadDotEnv(); err != nil {
		return nil, err
	}

	f := &File{}
	if path != "" {
		var err error
		if f, err = LoadFile(path); err != nil {
			return nil, err
		}
	}
	if err := f.ApplyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	return f, nil
}

// LoadDotEnv loads the given env files, or ./.env when none are named,
// without overriding variables already set. A missing file is not an error.
func LoadDotEnv(files ...string) error {
	if err := godotenv.Load(files...); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("cannot load .env: %w", err)
	}
	return nil
}

// LoadFile parses the YAML configuration at path.
func LoadFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read config file: %w", err)
	}
	return Parse(data)
}

func Parse(data []byte) (*File, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("cannot parse YAML: %w", err)
	}
	return &f, nil
}

// ApplyEnv overrides scalar fields from STOCPATH_<FIELD> variables.
func (f *File) ApplyEnv(lookup func(string) (string, bool)) error {
	required := map[string]*float64{"S0": &f.S0, "T": &f.T, "DT": &f.Dt}
	for name, dst := range required {
		raw, ok := lookup(envPrefix + name)
		if !ok {
			continue
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil {
			return fmt.Errorf("%s%s: %w", envPrefix, name, err)
		}
		*dst = v
	}

	optional := map[string]**float64{
		"MU": &f.Mu, "SIGMA": &f.Sigma, "LAMB": &f.Lamb, "KAPPA": &f.Kappa,
		"THETA": &f.Theta, "XI": &f.Xi, "RHO": &f.Rho,
	}
	for name, dst := range optional {
		raw, ok := lookup(envPrefix + name)
		if !ok {
			continue
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil {
			return fmt.Errorf("%s%s: %w", envPrefix, name, err)
		}
		*dst = &v
	}

	if raw, ok := lookup(envPrefix + "SEED"); ok {
		seed, err := strconv.ParseUint(strings.TrimSpace(raw), 10, 64)
		if err != nil {
			return fmt.Errorf("%sSEED: %w", envPrefix, err)
		}
		f.Seed = &seed
	}
	if raw, ok := lookup(envPrefix + "SCHEME"); ok {
		f.Scheme = strings.TrimSpace(raw)
	}
	return nil
}

// ModelConfig maps the file onto a models.Config, filling defaults.
func (f *File) ModelConfig() models.Config {
	cfg := models.DefaultConfig(f.S0, f.T, f.Dt)
	set := func(dst *float64, src *float64) {
		if src != nil {
			*dst = *src
		}
	}
	set(&cfg.Mu, f.Mu)
	set(&cfg.Sigma, f.Sigma)
	set(&cfg.Lamb, f.Lamb)
	set(&cfg.Kappa, f.Kappa)
	set(&cfg.Theta, f.Theta)
	set(&cfg.Xi, f.Xi)
	set(&cfg.Rho, f.Rho)
	if f.Jump != nil {
		set(&cfg.JumpMean, f.Jump.Mean)
		set(&cfg.JumpStd, f.Jump.Std)
	}

	if len(f.Regimes) > 0 {
		cfg.Regimes = make([]models.Regime, len(f.Regimes))
		for i, r := range f.Regimes {
			cfg.Regimes[i] = models.Regime{Drift: r.Drift, Volatility: r.Volatility}
		}
	}
	cfg.P = f.P
	return cfg
}

// ShockScheme parses the scheme name; empty selects the default.
func (f *File) ShockScheme() (models.ShockScheme, error) {
	return ParseScheme(f.Scheme)
}

func ParseScheme(name string) (models.ShockScheme, error) {
	switch strings.ToLower(name) {
	case "", "increment":
		return models.IncrementShocks, nil
	case "cumulative":
		return models.CumulativeShocks, nil
	}
	return 0, fmt.Errorf("unknown shock scheme %q", name)
}
