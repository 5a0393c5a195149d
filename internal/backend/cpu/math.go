package cpu

import (
	"math"

	"github.com/born-ml/gates/internal/tensor"
)

// unary applies fn to every element of x.
func unary(x *tensor.RawTensor, fn func(v float32) float32) *tensor.RawTensor {
	result := tensor.MustRaw(x.Shape())
	dst := result.AsFloat32()
	for i, v := range x.AsFloat32() {
		dst[i] = fn(v)
	}
	return result
}

// Exp computes element-wise exponential: exp(x).
func (cpu *CPUBackend) Exp(x *tensor.RawTensor) *tensor.RawTensor {
	return unary(x, func(v float32) float32 { return float32(math.Exp(float64(v))) })
}

// Log computes element-wise natural logarithm. Non-positive inputs produce
// -Inf or NaN as in math.Log.
func (cpu *CPUBackend) Log(x *tensor.RawTensor) *tensor.RawTensor {
	return unary(x, func(v float32) float32 { return float32(math.Log(float64(v))) })
}

// MulScalar multiplies every element by scalar.
func (cpu *CPUBackend) MulScalar(x *tensor.RawTensor, scalar float32) *tensor.RawTensor {
	return unary(x, func(v float32) float32 { return v * scalar })
}

// AddScalar adds scalar to every element.
func (cpu *CPUBackend) AddScalar(x *tensor.RawTensor, scalar float32) *tensor.RawTensor {
	return unary(x, func(v float32) float32 { return v + scalar })
}

// Sigmoid computes σ(x) = 1 / (1 + exp(-x)).
func (cpu *CPUBackend) Sigmoid(x *tensor.RawTensor) *tensor.RawTensor {
	return unary(x, Sigmoid)
}

// Tanh computes the hyperbolic tangent.
func (cpu *CPUBackend) Tanh(x *tensor.RawTensor) *tensor.RawTensor {
	return unary(x, func(v float32) float32 { return float32(math.Tanh(float64(v))) })
}

// ReLU computes max(0, x).
func (cpu *CPUBackend) ReLU(x *tensor.RawTensor) *tensor.RawTensor {
	return unary(x, func(v float32) float32 {
		if v > 0 {
			return v
		}
		return 0
	})
}

// Sigmoid is the scalar logistic function.
func Sigmoid(v float32) float32 {
	return float32(1.0 / (1.0 + math.Exp(float64(-v))))
}
