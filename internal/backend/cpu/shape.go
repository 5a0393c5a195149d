package cpu

import (
	"fmt"

	"github.com/born-ml/gates/internal/tensor"
)

// Reshape returns a copy of t with a new shape of equal size.
func (cpu *CPUBackend) Reshape(t *tensor.RawTensor, newShape tensor.Shape) *tensor.RawTensor {
	result, err := t.Reshape(newShape)
	if err != nil {
		panic(fmt.Sprintf("reshape: %v", err))
	}
	return result
}

// Transpose permutes the dimensions of t. With no axes the dimensions are
// reversed, which is the ordinary matrix transpose for 2D input.
func (cpu *CPUBackend) Transpose(t *tensor.RawTensor, axes ...int) *tensor.RawTensor {
	inShape := t.Shape()
	ndim := len(inShape)

	if len(axes) == 0 {
		axes = make([]int, ndim)
		for i := range axes {
			axes[i] = ndim - 1 - i
		}
	}
	if len(axes) != ndim {
		panic(fmt.Sprintf("transpose: expected %d axes, got %d", ndim, len(axes)))
	}

	seen := make([]bool, ndim)
	outShape := make(tensor.Shape, ndim)
	for i, ax := range axes {
		if ax < 0 || ax >= ndim || seen[ax] {
			panic(fmt.Sprintf("transpose: invalid permutation %v", axes))
		}
		seen[ax] = true
		outShape[i] = inShape[ax]
	}

	result := tensor.MustRaw(outShape)
	src := t.AsFloat32()
	dst := result.AsFloat32()
	inStrides := inShape.ComputeStrides()
	outStrides := outShape.ComputeStrides()

	for i := range dst {
		rem, j := i, 0
		for d := range outShape {
			idx := rem / outStrides[d]
			rem %= outStrides[d]
			j += idx * inStrides[axes[d]]
		}
		dst[i] = src[j]
	}

	return result
}
