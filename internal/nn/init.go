package nn

import (
	"math/rand"

	"github.com/born-ml/gates/internal/tensor"
)

// Randn initializes a weight tensor from the standard normal distribution.
//
// The lessons seed rng explicitly so runs are reproducible.
func Randn[B tensor.Backend](shape tensor.Shape, rng *rand.Rand, backend B) *tensor.Tensor[B] {
	return tensor.Randn(shape, rng, backend)
}

// Zeros creates a tensor filled with zeros. Used for bias initialization.
func Zeros[B tensor.Backend](shape tensor.Shape, backend B) *tensor.Tensor[B] {
	return tensor.Zeros(shape, backend)
}
