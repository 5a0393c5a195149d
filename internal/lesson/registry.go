package lesson

import (
	"github.com/born-ml/gates/internal/gates"
)

// Default returns a registry with every built-in lesson.
func Default() *Registry {
	nand, xor := gates.NAND(), gates.XOR()

	r := NewRegistry()
	for _, l := range []Lesson{
		{
			Name: "perceptron-nand", Gate: nand.Name, Stage: StagePerceptron, ExpectConverge: true,
			Description: "Rosenblatt rule, online updates, learns NAND",
			Run:         perceptronRun(nand, false),
		},
		{
			Name: "perceptron-batch-nand", Gate: nand.Name, Stage: StagePerceptron, ExpectConverge: true,
			Description: "Rosenblatt rule, one summed update per epoch, learns NAND",
			Run:         perceptronRun(nand, true),
		},
		{
			Name: "perceptron-xor", Gate: xor.Name, Stage: StagePerceptron, ExpectConverge: false,
			Description: "Rosenblatt rule on XOR, which no single threshold unit separates",
			Run:         perceptronRun(xor, false),
		},
		{
			Name: "logistic-nand", Gate: nand.Name, Stage: StageManual, ExpectConverge: true,
			Description: "sigmoid unit, BCE, full-batch gradient descent with hand-derived gradients",
			Run:         logisticRun(nand, false),
		},
		{
			Name: "logistic-sgd-nand", Gate: nand.Name, Stage: StageManual, ExpectConverge: true,
			Description: "sigmoid unit, BCE, per-sample gradient descent",
			Run:         logisticRun(nand, true),
		},
		{
			Name: "logistic-xor", Gate: xor.Name, Stage: StageManual, ExpectConverge: false,
			Description: "single sigmoid unit on XOR, which it cannot represent",
			Run:         logisticRun(xor, false),
		},
		{
			Name: "mlp-xor", Gate: xor.Name, Stage: StageManual, ExpectConverge: true,
			Description: "two-layer network, hand-written backpropagation, learns XOR",
			Run:         mlpRun(xor),
		},
		{
			Name: "autodiff-nand", Gate: nand.Name, Stage: StageAutodiff, ExpectConverge: true,
			Description: "sigmoid unit differentiated by the gradient tape, manual updates",
			Run:         autodiffRun(nand, false),
		},
		{
			Name: "autodiff-xor", Gate: xor.Name, Stage: StageAutodiff, ExpectConverge: true,
			Description: "two-layer network differentiated by the gradient tape, manual updates",
			Run:         autodiffRun(xor, true),
		},
		{
			Name: "nn-nand", Gate: nand.Name, Stage: StageNN, ExpectConverge: true,
			Description: "nn.Linear and nn.Sigmoid trained by an optim optimizer",
			Run:         nnRun(nand, false),
		},
		{
			Name: "nn-xor", Gate: xor.Name, Stage: StageNN, ExpectConverge: true,
			Description: "two nn.Linear layers trained by an optim optimizer",
			Run:         nnRun(xor, true),
		},
		{
			Name: "graph-nand", Gate: nand.Name, Stage: StageGraph, ExpectConverge: true,
			Description: "single sigmoid layer as a Gorgonia graph",
			Run:         graphRun(nand, false),
		},
		{
			Name: "graph-xor", Gate: xor.Name, Stage: StageGraph, ExpectConverge: true,
			Description: "two-layer Gorgonia graph, learns XOR",
			Run:         graphRun(xor, true),
		},
		{
			Name: "anchor", Gate: nand.Name, Stage: StageManual, ExpectConverge: true,
			Description: "BCE loss and gradient of one sample by hand, by tape, by nn.Linear and by Gorgonia",
			Run:         anchorRun,
		},
	} {
		if err := r.Register(l); err != nil {
			panic(err)
		}
	}
	return r
}
