// Package perceptron implements the Rosenblatt perceptron learning rule.
//
// The model is a single linear threshold unit ŷ = H(x·w) with the Heaviside
// step H. There is no separate bias: train on a table with a constant bias
// column (gates.Table.WithBias) and the last weight plays that role.
//
// Weights start at zero and each mistake moves them by w += η·(y − ŷ)·x.
package perceptron

import (
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/born-ml/gates/internal/gates"
)

// ErrDimension is returned when data and weights disagree in size.
var ErrDimension = errors.New("dimension mismatch")

// Config holds the training hyperparameters.
type Config struct {
	LR     float64 // Learning rate η
	Epochs int     // Passes over the table
}

// DefaultConfig returns η = 0.5 and 100 epochs.
func DefaultConfig() Config {
	return Config{LR: 0.5, Epochs: 100}
}

// Validate rejects non-positive hyperparameters.
func (c Config) Validate() error {
	if c.LR <= 0 {
		return errors.Errorf("perceptron: learning rate must be positive, got %v", c.LR)
	}
	if c.Epochs <= 0 {
		return errors.Errorf("perceptron: epochs must be positive, got %d", c.Epochs)
	}
	return nil
}

// History holds the number of misclassified rows seen in each epoch, measured
// before that epoch's updates were applied.
type History struct {
	Mistakes []int
}

// Converged reports whether the last recorded epoch had no mistakes.
func (h History) Converged() bool {
	return len(h.Mistakes) > 0 && h.Mistakes[len(h.Mistakes)-1] == 0
}

// FirstClean returns the first epoch (0-based) without mistakes, or -1.
func (h History) FirstClean() int {
	for i, m := range h.Mistakes {
		if m == 0 {
			return i
		}
	}
	return -1
}

// Perceptron is a linear threshold unit.
type Perceptron struct {
	W []float64
}

// New creates a zero-initialized perceptron with the given number of inputs.
func New(inputs int) *Perceptron {
	return &Perceptron{W: make([]float64, inputs)}
}

// Step is the Heaviside step: 1 when z > 0, else 0.
func Step(z float64) float64 {
	if z > 0 {
		return 1
	}
	return 0
}

// Predict classifies a single input row.
// Panics if x does not have one value per weight.
func (p *Perceptron) Predict(x []float64) float64 {
	return Step(floats.Dot(p.W, x))
}

// PredictAll classifies every row.
func (p *Perceptron) PredictAll(rows [][]float64) []float64 {
	out := make([]float64, len(rows))
	for i, x := range rows {
		out[i] = p.Predict(x)
	}
	return out
}

func (p *Perceptron) check(table gates.Table, cfg Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := table.Validate(); err != nil {
		return errors.Wrap(err, "perceptron")
	}
	if _, cols := table.Dims(); cols != len(p.W) {
		return errors.Wrapf(ErrDimension, "perceptron: table %s has %d inputs, model has %d weights",
			table.Name, cols, len(p.W))
	}
	return nil
}

// TrainOnline applies the rule after every sample, for cfg.Epochs passes.
func (p *Perceptron) TrainOnline(table gates.Table, cfg Config) (History, error) {
	if err := p.check(table, cfg); err != nil {
		return History{}, err
	}

	hist := History{Mistakes: make([]int, 0, cfg.Epochs)}
	for range cfg.Epochs {
		mistakes := 0
		for i, x := range table.Inputs {
			delta := table.Targets[i] - p.Predict(x)
			if delta != 0 {
				mistakes++
				floats.AddScaled(p.W, cfg.LR*delta, x)
			}
		}
		hist.Mistakes = append(hist.Mistakes, mistakes)
	}
	return hist, nil
}

// TrainBatch evaluates every row with the same weights and then applies the
// summed update w += η·Xᵀ(y − ŷ) once per epoch.
func (p *Perceptron) TrainBatch(table gates.Table, cfg Config) (History, error) {
	if err := p.check(table, cfg); err != nil {
		return History{}, err
	}

	rows, cols := table.Dims()
	X := mat.NewDense(rows, cols, table.Flat())
	y := mat.NewVecDense(rows, append([]float64(nil), table.Targets...))
	w := mat.NewVecDense(cols, p.W)

	var z, residual, update mat.VecDense
	hist := History{Mistakes: make([]int, 0, cfg.Epochs)}
	for range cfg.Epochs {
		z.MulVec(X, w)
		for i := range rows {
			z.SetVec(i, Step(z.AtVec(i)))
		}

		residual.SubVec(y, &z)
		mistakes := 0
		for i := range rows {
			if residual.AtVec(i) != 0 {
				mistakes++
			}
		}
		hist.Mistakes = append(hist.Mistakes, mistakes)

		update.MulVec(X.T(), &residual)
		w.AddScaledVec(w, cfg.LR, &update)
	}

	// w shares its backing array with p.W
	return hist, nil
}
