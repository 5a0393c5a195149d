package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault_Valid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 0.5, cfg.LR)
	assert.Equal(t, 100, cfg.Iterations("nand"))
	assert.Equal(t, 1000, cfg.Iterations("XOR"))
	assert.Equal(t, 1000, cfg.Iterations("xnor"))
	assert.Equal(t, 8, cfg.Hidden)
	assert.Equal(t, slog.LevelInfo, cfg.SlogLevel())
}

func TestParse_OverlaysDefaults(t *testing.T) {
	cfg, err := Parse([]byte("lr: 0.1\nhidden: 4\nlog_level: debug\noptimizer: adam\n"))
	require.NoError(t, err)

	assert.Equal(t, 0.1, cfg.LR)
	assert.Equal(t, 4, cfg.Hidden)
	assert.Equal(t, OptimizerAdam, cfg.Optimizer)
	assert.Equal(t, slog.LevelDebug, cfg.SlogLevel())
	assert.Equal(t, 1000, cfg.XORIters)
	assert.Equal(t, int64(1), cfg.Seed)
}

func TestParse_Invalid(t *testing.T) {
	for name, doc := range map[string]string{
		"lr":        "lr: 0",
		"nand":      "nand_iterations: -1",
		"xor":       "xor_iterations: 0",
		"hidden":    "hidden: 0",
		"threshold": "threshold: 1",
		"log_every": "log_every: 0",
		"momentum":  "momentum: 1.5",
		"adam_lr":   "adam_lr: -0.1",
		"level":     "log_level: loud",
		"optimizer": "optimizer: rmsprop",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := Parse([]byte(doc))
			require.Error(t, err)
			assert.Equal(t, ErrConfig, errors.Cause(err))
		})
	}

	_, err := Parse([]byte("lr: [1, 2"))
	assert.Error(t, err)
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gates.yaml")
	require.NoError(t, os.WriteFile(path, []byte("seed: 42\nnand_iterations: 50\n"), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, int64(42), cfg.Seed)
	assert.Equal(t, 50, cfg.Iterations("nand"))

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestSlogLevel_FallsBack(t *testing.T) {
	cfg := Default()
	cfg.LogLevel = "nonsense"
	assert.Equal(t, slog.LevelInfo, cfg.SlogLevel())
}
