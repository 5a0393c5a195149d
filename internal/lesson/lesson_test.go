package lesson

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/gates/internal/config"
	"github.com/born-ml/gates/internal/metrics"
	"github.com/born-ml/gates/internal/parallel"
)

func TestDefault_Registry(t *testing.T) {
	r := Default()
	all := r.All()
	require.Len(t, all, 14)

	for i := 1; i < len(all); i++ {
		assert.Less(t, all[i-1].Name, all[i].Name)
	}

	l, err := r.Get("nn-xor")
	require.NoError(t, err)
	assert.Equal(t, "xor", l.Gate)
	assert.Equal(t, StageNN, l.Stage)

	_, err = r.Get("nope")
	require.Error(t, err)
	assert.Equal(t, ErrUnknownLesson, errors.Cause(err))
}

func TestRegistry_Register(t *testing.T) {
	r := NewRegistry()
	l := Lesson{Name: "a", Run: anchorRun}
	require.NoError(t, r.Register(l))
	assert.Error(t, r.Register(l))
	assert.Error(t, r.Register(Lesson{Name: "b"}))
	assert.Error(t, r.Register(Lesson{Run: anchorRun}))
}

func TestExecute_AllLessonsBehaveAsExpected(t *testing.T) {
	cfg := config.Default()
	for _, l := range Default().All() {
		t.Run(l.Name, func(t *testing.T) {
			res, err := Execute(context.Background(), l, cfg, nil)
			require.NoError(t, err)

			assert.Equal(t, l.Name, res.Lesson)
			assert.NotZero(t, res.ID)
			assert.NotEmpty(t, res.Params)
			assert.True(t, res.AsExpected(),
				"converged=%v expected=%v predictions=%v", res.Converged, res.ExpectConverge, res.Predictions)
		})
	}
}

func TestExecute_LossGoesDown(t *testing.T) {
	cfg := config.Default()
	r := Default()
	for _, name := range []string{"logistic-nand", "logistic-sgd-nand", "mlp-xor", "autodiff-nand", "autodiff-xor", "nn-nand", "nn-xor", "graph-nand", "graph-xor"} {
		t.Run(name, func(t *testing.T) {
			res, err := r.Run(context.Background(), name, cfg, nil)
			require.NoError(t, err)

			hist := metrics.History{Losses: res.Losses}
			assert.Equal(t, cfg.Iterations(res.Gate), hist.Len())
			assert.True(t, hist.Decreasing())
		})
	}
}

func TestExecute_Anchor(t *testing.T) {
	res, err := Default().Run(context.Background(), "anchor", config.Default(), nil)
	require.NoError(t, err)

	assert.True(t, res.Converged)
	require.Len(t, res.Losses, 4)
	for _, loss := range res.Losses {
		assert.InDelta(t, 0.4741, loss, 1e-4)
	}
	for _, g := range res.Params {
		assert.InDelta(t, -0.3775, g, 1e-4)
	}
	assert.InDelta(t, 0.6225, res.Predictions[0], 1e-4)
}

func TestExecute_Perceptron(t *testing.T) {
	res, err := Default().Run(context.Background(), "perceptron-nand", config.Default(), nil)
	require.NoError(t, err)

	assert.Equal(t, []float64{-1, -0.5, 1.5}, res.Params)
	assert.Equal(t, []float64{1, 1, 1, 0}, res.Rounded(0.5))
	assert.True(t, res.Converged)
}

func TestExecute_SameSeedSameResult(t *testing.T) {
	cfg := config.Default()
	r := Default()

	a, err := r.Run(context.Background(), "mlp-xor", cfg, nil)
	require.NoError(t, err)
	b, err := r.Run(context.Background(), "mlp-xor", cfg, nil)
	require.NoError(t, err)

	assert.Equal(t, a.Params, b.Params)
	assert.NotEqual(t, a.ID, b.ID)
}

func TestExecute_Adam(t *testing.T) {
	cfg := config.Default()
	cfg.Optimizer = config.OptimizerAdam

	res, err := Default().Run(context.Background(), "nn-nand", cfg, nil)
	require.NoError(t, err)
	assert.Less(t, res.Losses[len(res.Losses)-1], res.Losses[0])
}

func TestExecute_InvalidConfig(t *testing.T) {
	cfg := config.Default()
	cfg.LR = 0

	_, err := Default().Run(context.Background(), "nn-nand", cfg, nil)
	require.Error(t, err)
	assert.Equal(t, config.ErrConfig, errors.Cause(err))
}

func TestExecute_Logs(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	res, err := Default().Run(context.Background(), "logistic-nand", config.Default(), logger)
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, `"msg":"lesson started"`)
	assert.Contains(t, out, `"msg":"lesson finished"`)
	assert.Contains(t, out, `"msg":"loss"`)
	assert.Contains(t, out, res.ID.String())
}

func TestRunAll(t *testing.T) {
	cfg := config.Default()
	cfg.XORIters = 50
	cfg.NANDIters = 50

	results, err := Default().RunAll(context.Background(), cfg, nil)
	require.NoError(t, err)
	assert.Len(t, results, 14)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	results, err = Default().RunAll(ctx, cfg, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, results)
}

func TestExecute_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	for _, name := range []string{"autodiff-xor", "nn-xor", "graph-xor"} {
		_, err := Default().Run(ctx, name, config.Default(), nil)
		require.Error(t, err, name)
		assert.ErrorIs(t, err, context.Canceled, name)
	}
}

func TestSweep(t *testing.T) {
	cfg := config.Default()
	r := Default()
	pcfg := parallel.Config{Enabled: true, NumWorkers: 4}

	sweep, err := r.Sweep(context.Background(), "perceptron-nand", 8, cfg, pcfg, nil)
	require.NoError(t, err)
	assert.Equal(t, 8, sweep.Runs)
	assert.Equal(t, 8, sweep.Converged)
	assert.Equal(t, 1.0, sweep.Rate)
	assert.Empty(t, sweep.Failures)

	sweep, err = r.Sweep(context.Background(), "logistic-xor", 4, cfg, pcfg, nil)
	require.NoError(t, err)
	assert.Zero(t, sweep.Converged)
	assert.Equal(t, []int64{1, 2, 3, 4}, sweep.Failures)

	_, err = r.Sweep(context.Background(), "perceptron-nand", 0, cfg, pcfg, nil)
	assert.Error(t, err)
	_, err = r.Sweep(context.Background(), "nope", 2, cfg, pcfg, nil)
	assert.Equal(t, ErrUnknownLesson, errors.Cause(err))
}
