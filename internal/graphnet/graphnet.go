// Package graphnet trains gate networks with Gorgonia.
//
// The network is declared once as a computation graph: inputs, weights, the
// forward pass and the summed binary cross-entropy loss. Gorgonia derives the
// gradient nodes symbolically, a tape machine executes the graph and a vanilla
// solver applies w ← w − η·∂L/∂w after every run.
//
// Each layer appends a column of ones to its input, so the last row of every
// weight matrix is that layer's bias.
package graphnet

import (
	"context"
	"math/rand"

	"github.com/pkg/errors"
	G "gorgonia.org/gorgonia"
	T "gorgonia.org/tensor"

	"github.com/born-ml/gates/internal/gates"
	"github.com/born-ml/gates/internal/metrics"
)

// epsilon keeps log away from zero.
const epsilon = 1e-7

// Config describes the network and how to train it.
type Config struct {
	Hidden     int        // Hidden units; 0 builds a single sigmoid layer
	LR         float64    // Learning rate η
	Iterations int        // Full-batch updates
	Rand       *rand.Rand // Weight init; nil uses seed 1
}

// Validate rejects negative sizes and non-positive hyperparameters.
func (c Config) Validate() error {
	switch {
	case c.Hidden < 0:
		return errors.Errorf("graphnet: hidden units must be non-negative, got %d", c.Hidden)
	case c.LR <= 0:
		return errors.Errorf("graphnet: learning rate must be positive, got %v", c.LR)
	case c.Iterations <= 0:
		return errors.Errorf("graphnet: iterations must be positive, got %d", c.Iterations)
	}
	return nil
}

// Net is a compiled Gorgonia graph bound to one truth table.
type Net struct {
	cfg   Config
	table gates.Table

	g       *G.ExprGraph
	input   *G.Node
	target  *G.Node
	weights G.Nodes
	loss    *G.Node

	x, y    T.Tensor
	predVal G.Value
	lossVal G.Value

	machine G.VM
	solver  G.Solver
}

// New builds the graph for table. Call Close when done.
func New(table gates.Table, cfg Config) (*Net, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := table.Validate(); err != nil {
		return nil, errors.Wrap(err, "graphnet")
	}
	rng := cfg.Rand
	if rng == nil {
		rng = rand.New(rand.NewSource(1))
	}

	rows, cols := table.Dims()
	n := &Net{
		cfg:   cfg,
		table: table,
		g:     G.NewGraph(),
		x:     T.New(T.WithShape(rows, cols), T.WithBacking(table.Flat())),
		y:     T.New(T.WithShape(rows, 1), T.WithBacking(append([]float64(nil), table.Targets...))),
	}

	n.input = G.NewMatrix(n.g, G.Float64, G.WithShape(rows, cols), G.WithName("x"))
	n.target = G.NewMatrix(n.g, G.Float64, G.WithShape(rows, 1), G.WithName("y"))
	ones := G.NewMatrix(n.g, G.Float64, G.WithShape(rows, 1), G.WithName("ones"), G.WithInit(G.Ones()))

	pred, err := n.forward(ones, cols, rng)
	if err != nil {
		return nil, errors.Wrap(err, "graphnet: forward")
	}
	G.Read(pred, &n.predVal)

	n.loss, err = bce(pred, n.target, ones)
	if err != nil {
		return nil, errors.Wrap(err, "graphnet: loss")
	}
	G.Read(n.loss, &n.lossVal)

	if _, err := G.Grad(n.loss, n.weights...); err != nil {
		return nil, errors.Wrap(err, "graphnet: grad")
	}

	n.machine = G.NewTapeMachine(n.g)
	n.solver = G.NewVanillaSolver(G.WithLearnRate(cfg.LR))
	return n, nil
}

// forward wires σ([x 1]·W1) and, with hidden units, σ([h 1]·W2).
func (n *Net) forward(ones *G.Node, inputs int, rng *rand.Rand) (*G.Node, error) {
	layer := func(in *G.Node, fanIn, fanOut int, name string) (*G.Node, error) {
		w := G.NewMatrix(n.g, G.Float64, G.WithShape(fanIn+1, fanOut), G.WithName(name),
			G.WithValue(randn(fanIn+1, fanOut, rng)))
		n.weights = append(n.weights, w)

		withBias, err := G.Concat(1, in, ones)
		if err != nil {
			return nil, err
		}
		z, err := G.Mul(withBias, w)
		if err != nil {
			return nil, err
		}
		return G.Sigmoid(z)
	}

	if n.cfg.Hidden == 0 {
		return layer(n.input, inputs, 1, "w")
	}
	h, err := layer(n.input, inputs, n.cfg.Hidden, "w1")
	if err != nil {
		return nil, err
	}
	return layer(h, n.cfg.Hidden, 1, "w2")
}

// bce builds −Σ [y·log(p+ε) + (1−y)·log(1−p+ε)].
func bce(p, y, ones *G.Node) (*G.Node, error) {
	eps := G.NewConstant(epsilon, G.WithName("eps"))

	logP, err := G.Log(G.Must(G.Add(p, eps)))
	if err != nil {
		return nil, err
	}
	logQ, err := G.Log(G.Must(G.Add(G.Must(G.Sub(ones, p)), eps)))
	if err != nil {
		return nil, err
	}
	pos := G.Must(G.HadamardProd(y, logP))
	neg := G.Must(G.HadamardProd(G.Must(G.Sub(ones, y)), logQ))

	total, err := G.Sum(G.Must(G.Add(pos, neg)))
	if err != nil {
		return nil, err
	}
	return G.Neg(total)
}

func randn(r, c int, rng *rand.Rand) T.Tensor {
	data := make([]float64, r*c)
	for i := range data {
		data[i] = rng.NormFloat64()
	}
	return T.New(T.WithShape(r, c), T.WithBacking(data))
}

// run executes one forward and backward pass over the whole table.
func (n *Net) run() error {
	n.machine.Reset()
	if err := G.Let(n.input, n.x); err != nil {
		return errors.Wrap(err, "graphnet: bind inputs")
	}
	if err := G.Let(n.target, n.y); err != nil {
		return errors.Wrap(err, "graphnet: bind targets")
	}
	if err := n.machine.RunAll(); err != nil {
		return errors.Wrap(err, "graphnet: run")
	}
	return nil
}

// Train runs cfg.Iterations full-batch updates. The history holds the loss
// measured before each update. Cancelling ctx stops training between
// iterations and returns the losses recorded so far.
func (n *Net) Train(ctx context.Context) (metrics.History, error) {
	hist := metrics.History{Losses: make([]float64, 0, n.cfg.Iterations)}
	for i := range n.cfg.Iterations {
		if err := ctx.Err(); err != nil {
			return hist, errors.Wrapf(err, "graphnet: stopped after %d iterations", i)
		}
		if err := n.run(); err != nil {
			return hist, err
		}
		loss, err := scalar(n.lossVal)
		if err != nil {
			return hist, err
		}
		hist.Add(loss)

		if err := n.solver.Step(G.NodesToValueGrads(n.weights)); err != nil {
			return hist, errors.Wrap(err, "graphnet: solver step")
		}
	}
	return hist, nil
}

// Predict returns ŷ for every row of the table.
func (n *Net) Predict() ([]float64, error) {
	if err := n.run(); err != nil {
		return nil, err
	}
	data, ok := n.predVal.Data().([]float64)
	if !ok {
		return nil, errors.Errorf("graphnet: unexpected prediction type %T", n.predVal.Data())
	}
	return append([]float64(nil), data...), nil
}

// Loss returns the current summed BCE on the table.
func (n *Net) Loss() (float64, error) {
	if err := n.run(); err != nil {
		return 0, err
	}
	return scalar(n.lossVal)
}

// Params flattens every weight matrix, row-major, in layer order.
func (n *Net) Params() []float64 {
	var out []float64
	for _, w := range n.weights {
		out = append(out, w.Value().Data().([]float64)...)
	}
	return out
}

// Table returns the truth table the graph was built for.
func (n *Net) Table() gates.Table {
	return n.table
}

// Close releases the tape machine.
func (n *Net) Close() error {
	return n.machine.Close()
}

func scalar(v G.Value) (float64, error) {
	if v == nil {
		return 0, errors.New("graphnet: value not computed")
	}
	switch d := v.Data().(type) {
	case float64:
		return d, nil
	case []float64:
		if len(d) == 1 {
			return d[0], nil
		}
	}
	return 0, errors.Errorf("graphnet: expected a scalar, got %v", v)
}

// LossAndGradient evaluates one sample with weights w and no separate bias,
// returning the BCE of σ(x·w) against y and ∂L/∂w, both computed by Gorgonia.
func LossAndGradient(w, x []float64, y float64) (float64, []float64, error) {
	if len(w) != len(x) {
		return 0, nil, errors.Errorf("graphnet: %d weights for %d inputs", len(w), len(x))
	}
	g := G.NewGraph()
	xs := G.NewMatrix(g, G.Float64, G.WithShape(1, len(x)), G.WithName("x"),
		G.WithValue(T.New(T.WithShape(1, len(x)), T.WithBacking(append([]float64(nil), x...)))))
	ws := G.NewMatrix(g, G.Float64, G.WithShape(len(w), 1), G.WithName("w"),
		G.WithValue(T.New(T.WithShape(len(w), 1), T.WithBacking(append([]float64(nil), w...)))))
	ys := G.NewMatrix(g, G.Float64, G.WithShape(1, 1), G.WithName("y"),
		G.WithValue(T.New(T.WithShape(1, 1), T.WithBacking([]float64{y}))))
	ones := G.NewMatrix(g, G.Float64, G.WithShape(1, 1), G.WithName("ones"), G.WithInit(G.Ones()))

	p := G.Must(G.Sigmoid(G.Must(G.Mul(xs, ws))))
	loss, err := bce(p, ys, ones)
	if err != nil {
		return 0, nil, errors.Wrap(err, "graphnet: loss")
	}
	grads, err := G.Grad(loss, ws)
	if err != nil {
		return 0, nil, errors.Wrap(err, "graphnet: grad")
	}
	var lossVal, gradVal G.Value
	G.Read(loss, &lossVal)
	G.Read(grads[0], &gradVal)

	m := G.NewTapeMachine(g)
	defer m.Close()
	if err := m.RunAll(); err != nil {
		return 0, nil, errors.Wrap(err, "graphnet: run")
	}

	l, err := scalar(lossVal)
	if err != nil {
		return 0, nil, err
	}
	return l, append([]float64(nil), gradVal.Data().([]float64)...), nil
}
