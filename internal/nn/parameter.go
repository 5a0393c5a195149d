package nn

import (
	"github.com/born-ml/gates/internal/tensor"
)

// Parameter represents a trainable parameter in a neural network.
//
// The optimizer updates the tensor storage in place, so the parameter keeps
// the same RawTensor identity for its whole life. Gradient maps returned by
// autodiff.Backward are keyed by that identity.
//
// Example:
//
//	weight := nn.NewParameter("weight", weightTensor)
//	grad := grads[weight.Tensor().Raw()]
type Parameter[B tensor.Backend] struct {
	name   string            // Parameter name (e.g., "weight", "bias")
	tensor *tensor.Tensor[B] // The parameter tensor
	grad   *tensor.Tensor[B] // Gradient from the last backward pass
}

// NewParameter creates a new trainable parameter.
func NewParameter[B tensor.Backend](name string, t *tensor.Tensor[B]) *Parameter[B] {
	return &Parameter[B]{
		name:   name,
		tensor: t,
	}
}

// Name returns the parameter name.
func (p *Parameter[B]) Name() string {
	return p.name
}

// Tensor returns the parameter tensor.
func (p *Parameter[B]) Tensor() *tensor.Tensor[B] {
	return p.tensor
}

// Grad returns the gradient tensor, or nil before the first backward pass
// and after ZeroGrad.
func (p *Parameter[B]) Grad() *tensor.Tensor[B] {
	return p.grad
}

// SetGrad sets the gradient tensor.
func (p *Parameter[B]) SetGrad(grad *tensor.Tensor[B]) {
	p.grad = grad
}

// ZeroGrad clears the gradient tensor.
func (p *Parameter[B]) ZeroGrad() {
	p.grad = nil
}

// Values returns a float64 copy of the parameter values.
func (p *Parameter[B]) Values() []float64 {
	return p.tensor.Float64()
}
