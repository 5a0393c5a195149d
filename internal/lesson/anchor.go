package lesson

import (
	"context"
	"math"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"

	"github.com/born-ml/gates/internal/autodiff"
	"github.com/born-ml/gates/internal/backend/cpu"
	"github.com/born-ml/gates/internal/graphnet"
	"github.com/born-ml/gates/internal/logistic"
	"github.com/born-ml/gates/internal/nn"
	"github.com/born-ml/gates/internal/tensor"
)

// The anchor sample: NAND(1, 1) with a bias column, scored by weights that
// misclassify it.
var (
	anchorW = []float64{1, 1, -1.5}
	anchorX = []float64{1, 1, 1}
	anchorY = 1.0
)

// anchorTolerance bounds the disagreement between implementations; the tensor
// stack computes in float32.
const anchorTolerance = 1e-4

// anchorRun computes the loss and gradient of the anchor sample by hand, with
// the tape, through an nn.Linear layer and with Gorgonia. It converges when
// they all agree.
//
// Params holds the hand-derived gradient, Losses the loss of each path and
// Predictions the single prediction σ(x·w).
func anchorRun(_ context.Context, env Env) (Result, error) {
	manualLoss, manualGrad := logistic.LossAndGradient(anchorW, anchorX, anchorY)

	tapeLoss, tapeGrad, err := anchorAutodiff()
	if err != nil {
		return Result{}, err
	}
	moduleLoss, moduleGrad, err := anchorModule()
	if err != nil {
		return Result{}, err
	}
	graphLoss, graphGrad, err := graphnet.LossAndGradient(anchorW, anchorX, anchorY)
	if err != nil {
		return Result{}, err
	}

	agree := near(manualLoss, tapeLoss) && near(manualLoss, moduleLoss) && near(manualLoss, graphLoss)
	for i := range manualGrad {
		agree = agree && near(manualGrad[i], tapeGrad[i]) &&
			near(manualGrad[i], moduleGrad[i]) && near(manualGrad[i], graphGrad[i])
	}
	env.Logger.Debug("anchor gradients",
		"manual", manualGrad, "autodiff", tapeGrad, "nn", moduleGrad, "gorgonia", graphGrad)

	return Result{
		Params:      manualGrad,
		Predictions: []float64{logistic.Sigmoid(floats.Dot(anchorW, anchorX))},
		Losses:      []float64{manualLoss, tapeLoss, moduleLoss, graphLoss},
		Converged:   agree,
	}, nil
}

func anchorAutodiff() (float64, []float64, error) {
	backend := autodiff.New(cpu.New())
	n := len(anchorX)
	x, err := tensor.FromFloat64(anchorX, tensor.Shape{1, n}, backend)
	if err != nil {
		return 0, nil, errors.Wrap(err, "anchor")
	}
	w, err := tensor.FromFloat64(anchorW, tensor.Shape{n, 1}, backend)
	if err != nil {
		return 0, nil, errors.Wrap(err, "anchor")
	}
	y := tensor.Full(tensor.Shape{1, 1}, float32(anchorY), backend)

	sigmoid := nn.NewSigmoid[Backend]()
	criterion := nn.NewBCELoss[Backend](nn.Sum)
	loss, grads := autodiff.Grad(backend, func(in ...*tensorT) *tensorT {
		return criterion.Forward(sigmoid.Forward(x.MatMul(in[0])), y)
	}, w)

	grad := make([]float64, n)
	for i, g := range grads[0].AsFloat32() {
		grad[i] = float64(g)
	}
	return float64(loss), grad, nil
}

// anchorModule scores the sample with a bias-free nn.Linear holding the anchor
// weights.
func anchorModule() (float64, []float64, error) {
	backend := autodiff.New(cpu.New())
	n := len(anchorX)
	weight := make([]float32, n)
	for i, v := range anchorW {
		weight[i] = float32(v)
	}
	layer, err := nn.NewLinearWithConfig(n, 1, nn.LinearConfig{Weight: weight}, backend)
	if err != nil {
		return 0, nil, errors.Wrap(err, "anchor")
	}
	x, err := tensor.FromFloat64(anchorX, tensor.Shape{1, n}, backend)
	if err != nil {
		return 0, nil, errors.Wrap(err, "anchor")
	}
	y := tensor.Full(tensor.Shape{1, 1}, float32(anchorY), backend)

	model := nn.NewSequential[Backend](layer, nn.NewSigmoid[Backend]())
	criterion := nn.NewBCELoss[Backend](nn.Sum)
	loss, grads := autodiff.Grad(backend, func(_ ...*tensorT) *tensorT {
		return criterion.Forward(model.Forward(x), y)
	}, layer.Weight().Tensor())

	grad := make([]float64, n)
	for i, g := range grads[0].AsFloat32() {
		grad[i] = float64(g)
	}
	return float64(loss), grad, nil
}

func near(a, b float64) bool {
	return math.Abs(a-b) <= anchorTolerance
}
