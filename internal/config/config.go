// Package config holds the hyperparameters shared by every lesson.
//
// Defaults reproduce the classic lesson settings. A YAML file may override any
// subset of them; fields it leaves out keep their defaults.
package config

import (
	"log/slog"
	"os"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// ErrConfig is the cause of every validation failure.
var ErrConfig = errors.New("invalid config")

// Optimizer names accepted by the nn lessons.
const (
	OptimizerSGD  = "sgd"
	OptimizerAdam = "adam"
)

// Config is the lesson configuration.
type Config struct {
	LR        float64 `yaml:"lr"`
	NANDIters int     `yaml:"nand_iterations"`
	XORIters  int     `yaml:"xor_iterations"`
	Hidden    int     `yaml:"hidden"`
	Seed      int64   `yaml:"seed"`
	Threshold float64 `yaml:"threshold"`
	LogEvery  int     `yaml:"log_every"`
	LogLevel  string  `yaml:"log_level"`
	Optimizer string  `yaml:"optimizer"`
	Momentum  float64 `yaml:"momentum"`
	AdamLR    float64 `yaml:"adam_lr"`
}

// Default returns the lesson defaults.
func Default() Config {
	return Config{
		LR:        0.5,
		NANDIters: 100,
		XORIters:  1000,
		Hidden:    8,
		Seed:      1,
		Threshold: 0.5,
		LogEvery:  100,
		LogLevel:  "info",
		Optimizer: OptimizerSGD,
		AdamLR:    0.05,
	}
}

// Load reads a YAML file over the defaults.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, errors.Wrapf(err, "config: read %s", path)
	}
	cfg, err := Parse(data)
	if err != nil {
		return Config{}, errors.Wrapf(err, "config: %s", path)
	}
	return cfg, nil
}

// Parse decodes YAML over the defaults and validates the result.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, errors.Wrap(err, "config: decode")
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate reports the first out-of-range field.
func (c Config) Validate() error {
	switch {
	case c.LR <= 0:
		return errors.Wrapf(ErrConfig, "lr must be positive, got %v", c.LR)
	case c.NANDIters <= 0:
		return errors.Wrapf(ErrConfig, "nand_iterations must be positive, got %d", c.NANDIters)
	case c.XORIters <= 0:
		return errors.Wrapf(ErrConfig, "xor_iterations must be positive, got %d", c.XORIters)
	case c.Hidden <= 0:
		return errors.Wrapf(ErrConfig, "hidden must be positive, got %d", c.Hidden)
	case c.Threshold <= 0 || c.Threshold >= 1:
		return errors.Wrapf(ErrConfig, "threshold must be in (0, 1), got %v", c.Threshold)
	case c.LogEvery <= 0:
		return errors.Wrapf(ErrConfig, "log_every must be positive, got %d", c.LogEvery)
	case c.Momentum < 0 || c.Momentum >= 1:
		return errors.Wrapf(ErrConfig, "momentum must be in [0, 1), got %v", c.Momentum)
	case c.AdamLR <= 0:
		return errors.Wrapf(ErrConfig, "adam_lr must be positive, got %v", c.AdamLR)
	}
	if _, err := parseLevel(c.LogLevel); err != nil {
		return err
	}
	switch c.Optimizer {
	case OptimizerSGD, OptimizerAdam:
	default:
		return errors.Wrapf(ErrConfig, "unknown optimizer %q", c.Optimizer)
	}
	return nil
}

// Iterations returns the iteration count used for the named gate: the XOR
// count for gates that are not linearly separable, the NAND count otherwise.
func (c Config) Iterations(gate string) int {
	switch strings.ToLower(strings.TrimSpace(gate)) {
	case "xor", "xnor":
		return c.XORIters
	}
	return c.NANDIters
}

// SlogLevel converts LogLevel for a slog handler. Invalid levels fall back
// to info.
func (c Config) SlogLevel() slog.Level {
	lvl, err := parseLevel(c.LogLevel)
	if err != nil {
		return slog.LevelInfo
	}
	return lvl
}

func parseLevel(s string) (slog.Level, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(s)); err != nil {
		return 0, errors.Wrapf(ErrConfig, "log_level %q", s)
	}
	return lvl, nil
}
