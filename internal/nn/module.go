// Package nn implements neural network modules.
//
// This package provides building blocks for small feedforward networks:
//   - Module interface: base interface for all NN components
//   - Parameter: trainable parameters with gradient tracking
//   - Linear: fully connected layer
//   - Activations: Sigmoid, Tanh, ReLU
//   - BCELoss: binary cross-entropy
//   - Sequential: container for stacking layers
//
// Design inspired by PyTorch's nn.Module but adapted for Go generics.
package nn

import (
	"github.com/born-ml/gates/internal/tensor"
)

// Module is the base interface for all neural network components.
//
// Modules can be composed to build architectures:
//
//	model := nn.NewSequential[Backend](
//	    nn.NewLinear(2, 8, backend),
//	    nn.NewSigmoid[Backend](),
//	    nn.NewLinear(8, 1, backend),
//	    nn.NewSigmoid[Backend](),
//	)
type Module[B tensor.Backend] interface {
	// Forward computes the output of the module. Linear expects
	// [batch_size, in_features].
	Forward(input *tensor.Tensor[B]) *tensor.Tensor[B]

	// Parameters returns all trainable parameters of this module, including
	// nested ones. Activations return nil.
	Parameters() []*Parameter[B]
}
