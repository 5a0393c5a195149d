package lesson

import (
	"context"

	"github.com/born-ml/gates/internal/gates"
	"github.com/born-ml/gates/internal/logistic"
	"github.com/born-ml/gates/internal/perceptron"
)

// perceptronRun trains a zero-initialized perceptron on table with a bias
// column. Losses hold the mistakes per epoch.
func perceptronRun(table gates.Table, batch bool) RunFunc {
	return func(_ context.Context, env Env) (Result, error) {
		data := table.WithBias()
		_, cols := data.Dims()
		p := perceptron.New(cols)
		cfg := perceptron.Config{LR: env.Config.LR, Epochs: env.Config.Iterations(table.Name)}

		train := p.TrainOnline
		if batch {
			train = p.TrainBatch
		}
		hist, err := train(data, cfg)
		if err != nil {
			return Result{}, err
		}
		if first := hist.FirstClean(); first >= 0 {
			env.Logger.Debug("perceptron separated the table", "epoch", first)
		}

		losses := make([]float64, len(hist.Mistakes))
		for i, m := range hist.Mistakes {
			losses[i] = float64(m)
		}
		return Result{
			Params:      append([]float64(nil), p.W...),
			Predictions: p.PredictAll(data.Inputs),
			Targets:     table.Targets,
			Losses:      losses,
		}, nil
	}
}

// logisticRun trains one sigmoid unit with hand-derived gradients on table
// with a bias column.
func logisticRun(table gates.Table, stochastic bool) RunFunc {
	return func(_ context.Context, env Env) (Result, error) {
		data := table.WithBias()
		_, cols := data.Dims()
		m := logistic.NewModel(cols, false, env.Rand)
		cfg := logistic.Config{LR: env.Config.LR, Iterations: env.Config.Iterations(table.Name)}

		train := m.Train
		if stochastic {
			train = m.TrainStochastic
		}
		hist, err := train(data, cfg)
		if err != nil {
			return Result{}, err
		}
		return Result{
			Params:      m.Params(),
			Predictions: m.Predict(data),
			Targets:     table.Targets,
			Losses:      hist.Losses,
		}, nil
	}
}

// mlpRun trains the two-layer network with hand-derived backpropagation.
func mlpRun(table gates.Table) RunFunc {
	return func(_ context.Context, env Env) (Result, error) {
		data := table.WithBias()
		_, cols := data.Dims()
		n, err := logistic.NewMLP(cols, env.Config.Hidden, env.Rand)
		if err != nil {
			return Result{}, err
		}
		hist, err := n.TrainMLP(data, logistic.Config{LR: env.Config.LR, Iterations: env.Config.Iterations(table.Name)})
		if err != nil {
			return Result{}, err
		}
		return Result{
			Params:      n.Params(),
			Predictions: n.Predict(data),
			Targets:     table.Targets,
			Losses:      hist.Losses,
		}, nil
	}
}
