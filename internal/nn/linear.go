package nn

import (
	"fmt"
	"math/rand"

	"github.com/born-ml/gates/internal/tensor"
)

// Linear implements a fully connected (dense) layer.
//
// Performs the transformation: y = x @ W.T + b
// where:
//   - x is the input tensor with shape [batch_size, in_features]
//   - W is the weight matrix with shape [out_features, in_features]
//   - b is the bias vector with shape [out_features]
//   - y is the output tensor with shape [batch_size, out_features]
//
// Example:
//
//	backend := autodiff.New(cpu.New())
//	layer := nn.NewLinear(2, 1, backend)
//	output := layer.Forward(input) // [4, 2] -> [4, 1]
type Linear[B tensor.Backend] struct {
	inFeatures  int
	outFeatures int
	weight      *Parameter[B] // [out_features, in_features]
	bias        *Parameter[B] // [out_features], nil without bias
	backend     B
}

// LinearConfig controls Linear construction.
type LinearConfig struct {
	// Bias adds a zero-initialized bias vector.
	Bias bool
	// Rand draws standard-normal weights. Nil uses a source seeded with 1.
	Rand *rand.Rand
	// Weight, when set, is used as the initial weight in row-major
	// [out_features, in_features] order instead of random values.
	Weight []float32
}

// NewLinear creates a Linear layer with standard-normal weights and a zero bias.
func NewLinear[B tensor.Backend](inFeatures, outFeatures int, backend B) *Linear[B] {
	l, err := NewLinearWithConfig(inFeatures, outFeatures, LinearConfig{Bias: true}, backend)
	if err != nil {
		panic(err)
	}
	return l
}

// NewLinearWithConfig creates a Linear layer from cfg.
func NewLinearWithConfig[B tensor.Backend](inFeatures, outFeatures int, cfg LinearConfig, backend B) (*Linear[B], error) {
	if inFeatures <= 0 || outFeatures <= 0 {
		return nil, fmt.Errorf("linear: features must be positive, got in=%d out=%d", inFeatures, outFeatures)
	}

	weightShape := tensor.Shape{outFeatures, inFeatures}

	var weightTensor *tensor.Tensor[B]
	if cfg.Weight != nil {
		t, err := tensor.FromSlice(cfg.Weight, weightShape, backend)
		if err != nil {
			return nil, fmt.Errorf("linear: weight: %w", err)
		}
		weightTensor = t
	} else {
		rng := cfg.Rand
		if rng == nil {
			//nolint:gosec // Using math/rand for weight initialization (not security-critical)
			rng = rand.New(rand.NewSource(1))
		}
		weightTensor = Randn(weightShape, rng, backend)
	}

	l := &Linear[B]{
		inFeatures:  inFeatures,
		outFeatures: outFeatures,
		weight:      NewParameter("weight", weightTensor),
		backend:     backend,
	}
	if cfg.Bias {
		l.bias = NewParameter("bias", Zeros(tensor.Shape{outFeatures}, backend))
	}

	return l, nil
}

// Forward computes y = x @ W.T + b.
//
// Input shape: [batch_size, in_features]
// Output shape: [batch_size, out_features]
func (l *Linear[B]) Forward(input *tensor.Tensor[B]) *tensor.Tensor[B] {
	inputShape := input.Shape()
	if len(inputShape) != 2 {
		panic(fmt.Sprintf("Linear.Forward: expected 2D input [batch, features], got shape %v", inputShape))
	}
	if inputShape[1] != l.inFeatures {
		panic(fmt.Sprintf("Linear.Forward: expected input with %d features, got %d", l.inFeatures, inputShape[1]))
	}

	// [batch, in] @ [in, out] = [batch, out]
	output := input.MatMul(l.weight.Tensor().T())

	if l.bias != nil {
		// Reshape bias to [1, out_features] so it broadcasts over the batch
		b := l.bias.Tensor().Reshape(1, l.outFeatures)
		output = output.Add(b)
	}

	return output
}

// Parameters returns [weight, bias] if bias is present, otherwise [weight].
func (l *Linear[B]) Parameters() []*Parameter[B] {
	if l.bias != nil {
		return []*Parameter[B]{l.weight, l.bias}
	}
	return []*Parameter[B]{l.weight}
}

// Weight returns the weight parameter.
func (l *Linear[B]) Weight() *Parameter[B] {
	return l.weight
}

// Bias returns the bias parameter, or nil.
func (l *Linear[B]) Bias() *Parameter[B] {
	return l.bias
}

// InFeatures returns the number of input features.
func (l *Linear[B]) InFeatures() int {
	return l.inFeatures
}

// OutFeatures returns the number of output features.
func (l *Linear[B]) OutFeatures() int {
	return l.outFeatures
}
