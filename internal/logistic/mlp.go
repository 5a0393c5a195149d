package logistic

import (
	"math/rand"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"

	"github.com/born-ml/gates/internal/gates"
	"github.com/born-ml/gates/internal/metrics"
)

// MLP is a two-layer network ŷ = σ(σ(X·W1)·W2 + b2).
//
// The hidden layer has no bias of its own; feed it a table with a bias column.
type MLP struct {
	W1 *mat.Dense // inputs × hidden
	W2 *mat.Dense // hidden × 1
	B2 float64
}

// NewMLP creates a network with standard-normal weights and b2 = 0.
func NewMLP(inputs, hidden int, rng *rand.Rand) (*MLP, error) {
	if inputs <= 0 || hidden <= 0 {
		return nil, errors.Errorf("mlp: sizes must be positive, got inputs=%d hidden=%d", inputs, hidden)
	}
	return &MLP{
		W1: randn(inputs, hidden, rng),
		W2: randn(hidden, 1, rng),
	}, nil
}

func randn(r, c int, rng *rand.Rand) *mat.Dense {
	data := make([]float64, r*c)
	for i := range data {
		data[i] = rng.NormFloat64()
	}
	return mat.NewDense(r, c, data)
}

func sigmoidAll(_, _ int, v float64) float64 { return Sigmoid(v) }

// forward returns the hidden activations and the predictions.
func (n *MLP) forward(X mat.Matrix) (*mat.Dense, *mat.Dense) {
	var h mat.Dense
	h.Mul(X, n.W1)
	h.Apply(sigmoidAll, &h)

	var out mat.Dense
	out.Mul(&h, n.W2)
	out.Apply(func(_, _ int, v float64) float64 { return Sigmoid(v + n.B2) }, &out)

	return &h, &out
}

// Forward returns ŷ for every row of X as a column vector.
func (n *MLP) Forward(X mat.Matrix) *mat.Dense {
	_, out := n.forward(X)
	return out
}

// Gradients holds ∂L/∂p for every MLP parameter.
type Gradients struct {
	W1 *mat.Dense
	W2 *mat.Dense
	B2 float64
}

// Backward returns the summed BCE on X, y and its closed-form gradients:
//
//	d   = ŷ − y
//	gW2 = Hᵀ·d,  gb2 = Σd
//	dH  = (d·W2ᵀ) ⊙ H ⊙ (1 − H)
//	gW1 = Xᵀ·dH
func (n *MLP) Backward(X, y mat.Matrix) (float64, Gradients) {
	h, out := n.forward(X)

	rows, _ := out.Dims()
	loss := 0.0
	for i := range rows {
		loss += BCE(out.At(i, 0), y.At(i, 0))
	}

	var d mat.Dense
	d.Sub(out, y)

	var gW2 mat.Dense
	gW2.Mul(h.T(), &d)

	var slope mat.Dense
	slope.Apply(func(_, _ int, v float64) float64 { return v * (1 - v) }, h)

	var dH mat.Dense
	dH.Mul(&d, n.W2.T())
	dH.MulElem(&dH, &slope)

	var gW1 mat.Dense
	gW1.Mul(X.T(), &dH)

	return loss, Gradients{W1: &gW1, W2: &gW2, B2: mat.Sum(&d)}
}

// Step applies p ← p − η·g to every parameter.
func (n *MLP) Step(g Gradients, lr float64) {
	n.W1.Sub(n.W1, scaled(lr, g.W1))
	n.W2.Sub(n.W2, scaled(lr, g.W2))
	n.B2 -= lr * g.B2
}

func scaled(f float64, m *mat.Dense) *mat.Dense {
	var out mat.Dense
	out.Scale(f, m)
	return &out
}

// TrainMLP runs full-batch gradient descent on the network. The history holds
// the loss measured before each update.
func (n *MLP) TrainMLP(table gates.Table, cfg Config) (metrics.History, error) {
	if err := cfg.Validate(); err != nil {
		return metrics.History{}, err
	}
	if err := table.Validate(); err != nil {
		return metrics.History{}, errors.Wrap(err, "mlp")
	}
	rows, cols := table.Dims()
	if in, _ := n.W1.Dims(); in != cols {
		return metrics.History{}, errors.Errorf("mlp: table %s has %d inputs, network expects %d", table.Name, cols, in)
	}

	X := mat.NewDense(rows, cols, table.Flat())
	y := mat.NewDense(rows, 1, append([]float64(nil), table.Targets...))

	hist := metrics.History{Losses: make([]float64, 0, cfg.Iterations)}
	for range cfg.Iterations {
		loss, grads := n.Backward(X, y)
		hist.Add(loss)
		n.Step(grads, cfg.LR)
	}
	return hist, nil
}

// Predict returns ŷ for every row of the table.
func (n *MLP) Predict(table gates.Table) []float64 {
	rows, cols := table.Dims()
	out := n.Forward(mat.NewDense(rows, cols, table.Flat()))
	return mat.Col(nil, 0, out)
}

// Params flattens W1 (row-major), W2 and b2.
func (n *MLP) Params() []float64 {
	params := append([]float64(nil), n.W1.RawMatrix().Data...)
	params = append(params, n.W2.RawMatrix().Data...)
	return append(params, n.B2)
}
