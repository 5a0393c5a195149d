package cpu

import (
	"fmt"

	"github.com/born-ml/gates/internal/tensor"
)

// Sum adds every element into a scalar (shape []) tensor.
func (cpu *CPUBackend) Sum(x *tensor.RawTensor) *tensor.RawTensor {
	result := tensor.MustRaw(tensor.Shape{})

	var sum float32
	for _, v := range x.AsFloat32() {
		sum += v
	}
	result.AsFloat32()[0] = sum

	return result
}

// SumDim sums along dim. With keepDim the reduced dimension stays as size 1.
func (cpu *CPUBackend) SumDim(x *tensor.RawTensor, dim int, keepDim bool) *tensor.RawTensor {
	shape := x.Shape()
	if dim < 0 {
		dim += len(shape)
	}
	if dim < 0 || dim >= len(shape) {
		panic(fmt.Sprintf("sumdim: invalid dimension %d for shape %v", dim, shape))
	}

	kept := shape.Clone()
	kept[dim] = 1
	result := tensor.MustRaw(kept)

	src := x.AsFloat32()
	dst := result.AsFloat32()
	strides := shape.ComputeStrides()
	keptStrides := kept.ComputeStrides()

	for i, v := range src {
		rem, j := i, 0
		for d := range shape {
			idx := rem / strides[d]
			rem %= strides[d]
			if d != dim {
				j += idx * keptStrides[d]
			}
		}
		dst[j] += v
	}

	if keepDim {
		return result
	}

	squeezed := make(tensor.Shape, 0, len(shape)-1)
	squeezed = append(squeezed, shape[:dim]...)
	squeezed = append(squeezed, shape[dim+1:]...)
	out, err := result.Reshape(squeezed)
	if err != nil {
		panic(fmt.Sprintf("sumdim: %v", err))
	}
	return out
}
