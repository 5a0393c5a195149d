// Package logistic trains sigmoid models by gradient descent with
// hand-derived gradients, using gonum for the linear algebra.
//
// The loss is summed binary cross-entropy
//
//	L = −Σ [y·log ŷ + (1−y)·log(1−ŷ)]
//
// whose gradient with respect to the pre-activation of a sigmoid output is
// simply ŷ − y.
package logistic

import (
	"math"
	"math/rand"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/born-ml/gates/internal/gates"
	"github.com/born-ml/gates/internal/metrics"
)

// logEpsilon clamps probabilities away from 0 and 1 inside log.
const logEpsilon = 1e-12

// Config holds the training hyperparameters.
type Config struct {
	LR         float64 // Learning rate η
	Iterations int     // Full passes over the table
}

// Validate rejects non-positive hyperparameters.
func (c Config) Validate() error {
	if c.LR <= 0 {
		return errors.Errorf("logistic: learning rate must be positive, got %v", c.LR)
	}
	if c.Iterations <= 0 {
		return errors.Errorf("logistic: iterations must be positive, got %d", c.Iterations)
	}
	return nil
}

// Sigmoid is the logistic function 1 / (1 + e^−z).
func Sigmoid(z float64) float64 {
	return 1.0 / (1.0 + math.Exp(-z))
}

// BCE is the binary cross-entropy of one prediction.
func BCE(p, y float64) float64 {
	p = math.Min(math.Max(p, logEpsilon), 1-logEpsilon)
	return -(y*math.Log(p) + (1-y)*math.Log(1-p))
}

// Model is a single sigmoid unit ŷ = σ(x·w + b).
//
// With FitBias false the bias stays at zero; use a table with a bias column
// instead.
type Model struct {
	W       *mat.VecDense
	B       float64
	FitBias bool
}

// NewModel creates a model with standard-normal weights drawn from rng.
func NewModel(inputs int, fitBias bool, rng *rand.Rand) *Model {
	w := make([]float64, inputs)
	for i := range w {
		w[i] = rng.NormFloat64()
	}
	return &Model{W: mat.NewVecDense(inputs, w), FitBias: fitBias}
}

// Forward returns ŷ for every row of X.
func (m *Model) Forward(X mat.Matrix) *mat.VecDense {
	rows, _ := X.Dims()
	var z mat.VecDense
	z.MulVec(X, m.W)
	out := mat.NewVecDense(rows, nil)
	for i := range rows {
		out.SetVec(i, Sigmoid(z.AtVec(i)+m.B))
	}
	return out
}

// Loss returns the summed BCE of the model on X, y.
func (m *Model) Loss(X mat.Matrix, y mat.Vector) float64 {
	return summedBCE(m.Forward(X), y)
}

// Gradient returns ∂L/∂w = Xᵀ(ŷ − y) and ∂L/∂b = Σ(ŷ − y).
func (m *Model) Gradient(X mat.Matrix, y mat.Vector) (*mat.VecDense, float64) {
	var residual mat.VecDense
	residual.SubVec(m.Forward(X), y)

	_, cols := X.Dims()
	grad := mat.NewVecDense(cols, nil)
	grad.MulVec(X.T(), &residual)

	return grad, mat.Sum(&residual)
}

// step applies p ← p − η·∂L/∂p.
func (m *Model) step(gw *mat.VecDense, gb, lr float64) {
	m.W.AddScaledVec(m.W, -lr, gw)
	if m.FitBias {
		m.B -= lr * gb
	}
}

// Train runs full-batch gradient descent. The returned history holds the loss
// measured before each update.
func (m *Model) Train(table gates.Table, cfg Config) (metrics.History, error) {
	X, y, err := m.data(table, cfg)
	if err != nil {
		return metrics.History{}, err
	}

	hist := metrics.History{Losses: make([]float64, 0, cfg.Iterations)}
	for range cfg.Iterations {
		hist.Add(m.Loss(X, y))
		gw, gb := m.Gradient(X, y)
		m.step(gw, gb, cfg.LR)
	}
	return hist, nil
}

// TrainStochastic runs per-sample gradient descent, visiting rows in table
// order. One iteration is one pass; the history holds the summed loss of the
// rows as each was visited.
func (m *Model) TrainStochastic(table gates.Table, cfg Config) (metrics.History, error) {
	X, y, err := m.data(table, cfg)
	if err != nil {
		return metrics.History{}, err
	}

	rows, _ := X.Dims()
	hist := metrics.History{Losses: make([]float64, 0, cfg.Iterations)}
	for range cfg.Iterations {
		total := 0.0
		for i := range rows {
			x := X.RowView(i)
			target := y.AtVec(i)
			p := Sigmoid(mat.Dot(x, m.W) + m.B)
			total += BCE(p, target)

			gw := mat.VecDenseCopyOf(x)
			gw.ScaleVec(p-target, gw)
			m.step(gw, p-target, cfg.LR)
		}
		hist.Add(total)
	}
	return hist, nil
}

// Predict returns ŷ for every row of the table.
func (m *Model) Predict(table gates.Table) []float64 {
	rows, cols := table.Dims()
	out := m.Forward(mat.NewDense(rows, cols, table.Flat()))
	return out.RawVector().Data
}

// Params returns the weights followed by the bias when it is fitted.
func (m *Model) Params() []float64 {
	params := append([]float64(nil), m.W.RawVector().Data...)
	if m.FitBias {
		params = append(params, m.B)
	}
	return params
}

func (m *Model) data(table gates.Table, cfg Config) (*mat.Dense, *mat.VecDense, error) {
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}
	if err := table.Validate(); err != nil {
		return nil, nil, errors.Wrap(err, "logistic")
	}
	rows, cols := table.Dims()
	if cols != m.W.Len() {
		return nil, nil, errors.Errorf("logistic: table %s has %d inputs, model has %d weights",
			table.Name, cols, m.W.Len())
	}
	return mat.NewDense(rows, cols, table.Flat()), mat.NewVecDense(rows, append([]float64(nil), table.Targets...)), nil
}

// LossAndGradient evaluates one sample with weights w and no separate bias:
// the BCE of σ(x·w) against y and its gradient (σ(x·w) − y)·x.
//
// With w = [1, 1, −1.5], x = [1, 1, 1], y = 1 this gives loss ≈ 0.4741 and
// gradient ≈ [−0.3775, −0.3775, −0.3775].
func LossAndGradient(w, x []float64, y float64) (float64, []float64) {
	p := Sigmoid(floats.Dot(w, x))
	grad := make([]float64, len(x))
	floats.ScaleTo(grad, p-y, x)
	return BCE(p, y), grad
}

func summedBCE(preds, y mat.Vector) float64 {
	total := 0.0
	for i := range preds.Len() {
		total += BCE(preds.AtVec(i), y.AtVec(i))
	}
	return total
}
