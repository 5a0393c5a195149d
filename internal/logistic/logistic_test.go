package logistic

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/born-ml/gates/internal/gates"
	"github.com/born-ml/gates/internal/metrics"
)

func TestLossAndGradient_Anchor(t *testing.T) {
	loss, grad := LossAndGradient([]float64{1, 1, -1.5}, []float64{1, 1, 1}, 1)

	assert.InDelta(t, 0.4741, loss, 1e-4)
	require.Len(t, grad, 3)
	for _, g := range grad {
		assert.InDelta(t, -0.3775, g, 1e-4)
	}
}

func TestBCE_Clamped(t *testing.T) {
	assert.InDelta(t, 0, BCE(1, 1), 1e-9)
	assert.Less(t, BCE(0, 1), 30.0)
	assert.Greater(t, BCE(0, 1), 20.0)
}

func TestModel_TrainNAND(t *testing.T) {
	table := gates.NAND().WithBias()
	cfg := Config{LR: 0.5, Iterations: 100}

	for name, train := range map[string]func(*Model) (metrics.History, error){
		"batch":      func(m *Model) (metrics.History, error) { return m.Train(table, cfg) },
		"stochastic": func(m *Model) (metrics.History, error) { return m.TrainStochastic(table, cfg) },
	} {
		t.Run(name, func(t *testing.T) {
			m := NewModel(3, false, rand.New(rand.NewSource(1)))
			hist, err := train(m)
			require.NoError(t, err)

			assert.Equal(t, 100, hist.Len())
			assert.True(t, hist.Decreasing())
			assert.Less(t, hist.Last(), hist.First())
			assert.True(t, metrics.Matches(m.Predict(table), table.Targets, 0.5))
			assert.Len(t, m.Params(), 3)
		})
	}
}

func TestModel_FitBias(t *testing.T) {
	table := gates.NAND()
	m := NewModel(2, true, rand.New(rand.NewSource(3)))

	_, err := m.Train(table, Config{LR: 0.5, Iterations: 200})
	require.NoError(t, err)

	assert.True(t, metrics.Matches(m.Predict(table), table.Targets, 0.5))
	assert.Len(t, m.Params(), 3)
	assert.Greater(t, m.B, 0.0)
}

func TestModel_XORDoesNotFit(t *testing.T) {
	table := gates.XOR().WithBias()
	m := NewModel(3, false, rand.New(rand.NewSource(1)))

	_, err := m.Train(table, Config{LR: 0.5, Iterations: 1000})
	require.NoError(t, err)

	assert.False(t, metrics.Matches(m.Predict(table), table.Targets, 0.5))
	assert.LessOrEqual(t, metrics.Accuracy(m.Predict(table), table.Targets, 0.5), 0.75)
}

func TestModel_Errors(t *testing.T) {
	m := NewModel(3, false, rand.New(rand.NewSource(1)))

	_, err := m.Train(gates.NAND(), Config{LR: 0.5, Iterations: 10})
	assert.Error(t, err)

	_, err = m.Train(gates.NAND().WithBias(), Config{LR: 0, Iterations: 10})
	assert.Error(t, err)

	_, err = m.TrainStochastic(gates.NAND().WithBias(), Config{LR: 0.1, Iterations: 0})
	assert.Error(t, err)
}

func TestModel_GradientMatchesFiniteDifferences(t *testing.T) {
	table := gates.NAND().WithBias()
	rows, cols := table.Dims()
	X := mat.NewDense(rows, cols, table.Flat())
	y := mat.NewVecDense(rows, table.Targets)

	m := NewModel(3, false, rand.New(rand.NewSource(7)))
	grad, _ := m.Gradient(X, y)

	f := func(w []float64) float64 {
		probe := &Model{W: mat.NewVecDense(len(w), append([]float64(nil), w...))}
		return probe.Loss(X, y)
	}
	worst, err := CheckGradient(f, grad.RawVector().Data, m.Params())
	require.NoError(t, err)
	assert.Less(t, worst, 1e-5)

	_, err = CheckGradient(f, []float64{1}, m.Params())
	assert.Error(t, err)
}

func TestMLP_BackwardMatchesFiniteDifferences(t *testing.T) {
	table := gates.XOR().WithBias()
	rows, cols := table.Dims()
	X := mat.NewDense(rows, cols, table.Flat())
	y := mat.NewDense(rows, 1, table.Targets)

	n, err := NewMLP(cols, 4, rand.New(rand.NewSource(5)))
	require.NoError(t, err)
	_, grads := n.Backward(X, y)

	w1 := n.W1.RawMatrix().Data
	f := func(p []float64) float64 {
		probe := &MLP{W1: mat.NewDense(cols, 4, append([]float64(nil), p...)), W2: n.W2, B2: n.B2}
		loss, _ := probe.Backward(X, y)
		return loss
	}
	worst, err := CheckGradient(f, grads.W1.RawMatrix().Data, w1)
	require.NoError(t, err)
	assert.Less(t, worst, 1e-5)

	fb := func(p []float64) float64 {
		probe := &MLP{W1: n.W1, W2: n.W2, B2: p[0]}
		loss, _ := probe.Backward(X, y)
		return loss
	}
	worst, err = CheckGradient(fb, []float64{grads.B2}, []float64{n.B2})
	require.NoError(t, err)
	assert.Less(t, worst, 1e-5)
}

func TestMLP_TrainXOR(t *testing.T) {
	table := gates.XOR().WithBias()
	n, err := NewMLP(3, 8, rand.New(rand.NewSource(1)))
	require.NoError(t, err)

	hist, err := n.TrainMLP(table, Config{LR: 0.5, Iterations: 1000})
	require.NoError(t, err)

	assert.Equal(t, 1000, hist.Len())
	assert.True(t, hist.Decreasing())
	assert.True(t, metrics.Matches(n.Predict(table), table.Targets, 0.5))
	assert.Len(t, n.Params(), 3*8+8+1)
}

func TestMLP_Errors(t *testing.T) {
	_, err := NewMLP(0, 8, rand.New(rand.NewSource(1)))
	assert.Error(t, err)

	n, err := NewMLP(3, 2, rand.New(rand.NewSource(1)))
	require.NoError(t, err)
	_, err = n.TrainMLP(gates.XOR(), Config{LR: 0.5, Iterations: 10})
	assert.Error(t, err)
}
