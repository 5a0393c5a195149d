package graphnet

import (
	"context"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/gates/internal/gates"
	"github.com/born-ml/gates/internal/metrics"
)

func newNet(t *testing.T, table gates.Table, cfg Config) *Net {
	t.Helper()
	n, err := New(table, cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = n.Close() })
	return n
}

func TestLossAndGradient_Anchor(t *testing.T) {
	loss, grad, err := LossAndGradient([]float64{1, 1, -1.5}, []float64{1, 1, 1}, 1)
	require.NoError(t, err)

	assert.InDelta(t, 0.4741, loss, 1e-4)
	require.Len(t, grad, 3)
	for _, g := range grad {
		assert.InDelta(t, -0.3775, g, 1e-4)
	}

	_, _, err = LossAndGradient([]float64{1}, []float64{1, 1}, 1)
	assert.Error(t, err)
}

func TestConfig_Validate(t *testing.T) {
	assert.NoError(t, Config{LR: 0.5, Iterations: 1}.Validate())
	assert.Error(t, Config{Hidden: -1, LR: 0.5, Iterations: 1}.Validate())
	assert.Error(t, Config{LR: 0, Iterations: 1}.Validate())
	assert.Error(t, Config{LR: 0.5}.Validate())

	_, err := New(gates.Table{Name: "empty"}, Config{LR: 0.5, Iterations: 1})
	assert.Error(t, err)
}

func TestNet_SingleLayerNAND(t *testing.T) {
	table := gates.NAND()
	n := newNet(t, table, Config{LR: 0.5, Iterations: 100, Rand: rand.New(rand.NewSource(1))})
	assert.Len(t, n.Params(), 3)
	assert.Equal(t, "nand", n.Table().Name)

	hist, err := n.Train(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 100, hist.Len())
	assert.True(t, hist.Decreasing())

	preds, err := n.Predict()
	require.NoError(t, err)
	assert.True(t, metrics.Matches(preds, table.Targets, 0.5))

	loss, err := n.Loss()
	require.NoError(t, err)
	assert.Less(t, loss, hist.First())
}

func TestNet_TwoLayerXOR(t *testing.T) {
	table := gates.XOR()
	n := newNet(t, table, Config{Hidden: 8, LR: 0.5, Iterations: 1000, Rand: rand.New(rand.NewSource(1))})
	assert.Len(t, n.Params(), 3*8+9)

	hist, err := n.Train(context.Background())
	require.NoError(t, err)
	assert.True(t, hist.Decreasing())

	preds, err := n.Predict()
	require.NoError(t, err)
	assert.True(t, metrics.Matches(preds, table.Targets, 0.5))
}

func TestNet_SingleLayerXORDoesNotFit(t *testing.T) {
	table := gates.XOR()
	n := newNet(t, table, Config{LR: 0.5, Iterations: 500})

	_, err := n.Train(context.Background())
	require.NoError(t, err)

	preds, err := n.Predict()
	require.NoError(t, err)
	assert.False(t, metrics.Matches(preds, table.Targets, 0.5))
}

func TestNet_TrainCancelled(t *testing.T) {
	n := newNet(t, gates.NAND(), Config{LR: 0.5, Iterations: 100})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	hist, err := n.Train(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, hist.Len())
}
