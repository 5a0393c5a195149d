package nn

import (
	"fmt"

	"github.com/born-ml/gates/internal/tensor"
)

// Reduction selects how per-sample losses are combined.
type Reduction int

const (
	// Sum adds the per-sample losses.
	Sum Reduction = iota
	// Mean averages the per-sample losses.
	Mean
)

// String returns the reduction name.
func (r Reduction) String() string {
	switch r {
	case Sum:
		return "sum"
	case Mean:
		return "mean"
	default:
		return fmt.Sprintf("Reduction(%d)", int(r))
	}
}

// bceEpsilon keeps log() away from zero when a prediction saturates.
const bceEpsilon = 1e-7

// BCELoss computes binary cross-entropy between probabilities and targets:
//
//	L = -Σ [y·log(ŷ) + (1-y)·log(1-ŷ)]
//
// Predictions are expected in (0, 1), e.g. the output of Sigmoid. The loss is
// built from differentiable tensor ops, so on an autodiff backend the result
// can be passed straight to autodiff.Backward.
//
// Example:
//
//	criterion := nn.NewBCELoss[Backend](nn.Sum)
//	loss := criterion.Forward(model.Forward(x), y)
type BCELoss[B tensor.Backend] struct {
	reduction Reduction
}

// NewBCELoss creates a new binary cross-entropy loss.
func NewBCELoss[B tensor.Backend](reduction Reduction) *BCELoss[B] {
	return &BCELoss[B]{reduction: reduction}
}

// Forward computes the loss. predictions and targets must have the same shape.
// Returns a scalar tensor.
func (l *BCELoss[B]) Forward(predictions, targets *tensor.Tensor[B]) *tensor.Tensor[B] {
	if !predictions.Shape().Equal(targets.Shape()) {
		panic(fmt.Sprintf("BCELoss: predictions %v and targets %v must have the same shape",
			predictions.Shape(), targets.Shape()))
	}

	// y·log(ŷ+ε) + (1-y)·log(1-ŷ+ε)
	pos := targets.Mul(predictions.AddScalar(bceEpsilon).Log())
	neg := targets.RSub(1).Mul(predictions.RSub(1 + bceEpsilon).Log())
	total := pos.Add(neg).Sum().Neg()

	if l.reduction == Mean {
		return total.MulScalar(1 / float32(predictions.NumElements()))
	}
	return total
}

// Reduction returns the configured reduction.
func (l *BCELoss[B]) Reduction() Reduction {
	return l.reduction
}
