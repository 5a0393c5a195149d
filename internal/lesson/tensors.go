package lesson

import (
	"context"

	"github.com/pkg/errors"

	"github.com/born-ml/gates/internal/autodiff"
	"github.com/born-ml/gates/internal/backend/cpu"
	"github.com/born-ml/gates/internal/config"
	"github.com/born-ml/gates/internal/gates"
	"github.com/born-ml/gates/internal/graphnet"
	"github.com/born-ml/gates/internal/nn"
	"github.com/born-ml/gates/internal/optim"
	"github.com/born-ml/gates/internal/tensor"
)

// Backend is the backend every tensor lesson trains on.
type Backend = *autodiff.AutodiffBackend[*cpu.CPUBackend]

type tensorT = tensor.Tensor[Backend]

func tableTensors(table gates.Table, backend Backend) (x, y *tensorT, err error) {
	rows, cols := table.Dims()
	x, err = tensor.FromFloat64(table.Flat(), tensor.Shape{rows, cols}, backend)
	if err != nil {
		return nil, nil, errors.Wrap(err, "inputs")
	}
	y, err = tensor.FromFloat64(table.Targets, tensor.Shape{rows, 1}, backend)
	if err != nil {
		return nil, nil, errors.Wrap(err, "targets")
	}
	return x, y, nil
}

// descend applies p ← p − η·g directly to the parameter storage.
func descend(params []*tensorT, grads []*tensor.RawTensor, lr float32) {
	for i, p := range params {
		data := p.Data()
		for j, g := range grads[i].AsFloat32() {
			data[j] -= lr * g
		}
	}
}

func flatten(params ...*tensorT) []float64 {
	var out []float64
	for _, p := range params {
		out = append(out, p.Float64()...)
	}
	return out
}

// autodiffRun differentiates a hand-written model with the tape and updates
// the parameters by hand. hidden 0 trains σ(X·w); otherwise
// σ(σ(X·W1)·W2 + b2). Inputs carry a bias column.
func autodiffRun(table gates.Table, hidden bool) RunFunc {
	return func(ctx context.Context, env Env) (Result, error) {
		backend := autodiff.New(cpu.New())
		data := table.WithBias()
		x, y, err := tableTensors(data, backend)
		if err != nil {
			return Result{}, err
		}
		_, cols := data.Dims()

		sigmoid := nn.NewSigmoid[Backend]()
		criterion := nn.NewBCELoss[Backend](nn.Sum)

		var params []*tensorT
		var forward func(in ...*tensorT) *tensorT
		if hidden {
			h := env.Config.Hidden
			params = []*tensorT{
				tensor.Randn(tensor.Shape{cols, h}, env.Rand, backend),
				tensor.Randn(tensor.Shape{h, 1}, env.Rand, backend),
				tensor.Zeros(tensor.Shape{1, 1}, backend),
			}
			forward = func(in ...*tensorT) *tensorT {
				act := sigmoid.Forward(x.MatMul(in[0]))
				return sigmoid.Forward(act.MatMul(in[1]).Add(in[2]))
			}
		} else {
			params = []*tensorT{tensor.Randn(tensor.Shape{cols, 1}, env.Rand, backend)}
			forward = func(in ...*tensorT) *tensorT {
				return sigmoid.Forward(x.MatMul(in[0]))
			}
		}
		objective := func(in ...*tensorT) *tensorT {
			return criterion.Forward(forward(in...), y)
		}

		iters := env.Config.Iterations(table.Name)
		lr := float32(env.Config.LR)
		losses := make([]float64, 0, iters)
		for i := range iters {
			if err := ctx.Err(); err != nil {
				return Result{}, errors.Wrapf(err, "stopped after %d iterations", i)
			}
			loss, grads := autodiff.Grad(backend, objective, params...)
			losses = append(losses, float64(loss))
			descend(params, grads, lr)
		}

		return Result{
			Params:      flatten(params...),
			Predictions: forward(params...).Float64(),
			Targets:     table.Targets,
			Losses:      losses,
		}, nil
	}
}

func newOptimizer(params []*nn.Parameter[Backend], cfg config.Config, backend Backend) optim.Optimizer {
	if cfg.Optimizer == config.OptimizerAdam {
		return optim.NewAdam(params, optim.AdamConfig{LR: float32(cfg.AdamLR)}, backend)
	}
	return optim.NewSGD(params, optim.SGDConfig{LR: float32(cfg.LR), Momentum: float32(cfg.Momentum)}, backend)
}

// nnModel builds Linear → Sigmoid, or Linear → Sigmoid → Linear → Sigmoid
// when hidden is positive. Every Linear has a bias.
func nnModel(inputs, hidden int, env Env, backend Backend) (*nn.Sequential[Backend], error) {
	linear := func(in, out int) (*nn.Linear[Backend], error) {
		return nn.NewLinearWithConfig(in, out, nn.LinearConfig{Bias: true, Rand: env.Rand}, backend)
	}
	if hidden == 0 {
		l, err := linear(inputs, 1)
		if err != nil {
			return nil, err
		}
		return nn.NewSequential[Backend](l, nn.NewSigmoid[Backend]()), nil
	}
	l1, err := linear(inputs, hidden)
	if err != nil {
		return nil, err
	}
	l2, err := linear(hidden, 1)
	if err != nil {
		return nil, err
	}
	return nn.NewSequential[Backend](l1, nn.NewSigmoid[Backend](), l2, nn.NewSigmoid[Backend]()), nil
}

// nnRun trains an nn.Sequential with an optim.Optimizer on the plain table.
func nnRun(table gates.Table, hidden bool) RunFunc {
	return func(ctx context.Context, env Env) (Result, error) {
		backend := autodiff.New(cpu.New())
		tape := backend.Tape()
		x, y, err := tableTensors(table, backend)
		if err != nil {
			return Result{}, err
		}
		_, cols := table.Dims()

		h := 0
		if hidden {
			h = env.Config.Hidden
		}
		model, err := nnModel(cols, h, env, backend)
		if err != nil {
			return Result{}, errors.Wrap(err, "model")
		}
		criterion := nn.NewBCELoss[Backend](nn.Sum)
		optimizer := newOptimizer(model.Parameters(), env.Config, backend)
		env.Logger.Debug("optimizer ready", "optimizer", env.Config.Optimizer, "lr", optimizer.GetLR())

		iters := env.Config.Iterations(table.Name)
		losses := make([]float64, 0, iters)

		tape.StartRecording()
		for i := range iters {
			if err := ctx.Err(); err != nil {
				tape.StopRecording()
				return Result{}, errors.Wrapf(err, "stopped after %d iterations", i)
			}
			tape.Clear()
			loss := criterion.Forward(model.Forward(x), y)
			losses = append(losses, float64(loss.Item()))

			optimizer.Step(autodiff.Backward(loss, backend))
			optimizer.ZeroGrad()
		}
		tape.Clear()
		tape.StopRecording()

		var params []float64
		for _, p := range model.Parameters() {
			params = append(params, p.Values()...)
		}
		return Result{
			Params:      params,
			Predictions: model.Forward(x).Float64(),
			Targets:     table.Targets,
			Losses:      losses,
		}, nil
	}
}

// graphRun trains the Gorgonia graph on the plain table.
func graphRun(table gates.Table, hidden bool) RunFunc {
	return func(ctx context.Context, env Env) (Result, error) {
		cfg := graphnet.Config{
			LR:         env.Config.LR,
			Iterations: env.Config.Iterations(table.Name),
			Rand:       env.Rand,
		}
		if hidden {
			cfg.Hidden = env.Config.Hidden
		}
		net, err := graphnet.New(table, cfg)
		if err != nil {
			return Result{}, err
		}
		defer func() { _ = net.Close() }()

		hist, err := net.Train(ctx)
		if err != nil {
			return Result{}, err
		}
		preds, err := net.Predict()
		if err != nil {
			return Result{}, err
		}
		return Result{
			Params:      net.Params(),
			Predictions: preds,
			Targets:     table.Targets,
			Losses:      hist.Losses,
		}, nil
	}
}
