// Package tensor provides the core tensor types used by the gradient-based lessons.
//
// Data is stored as float32 in row-major order. All arithmetic is delegated to a
// Backend so that the same model code runs on a plain CPU backend or on the
// autodiff decorator that records a gradient tape.
package tensor

import "fmt"

// Shape represents the dimensions of a tensor.
// An empty shape is a scalar.
type Shape []int

// NumElements returns the total number of elements described by the shape.
func (s Shape) NumElements() int {
	n := 1
	for _, dim := range s {
		n *= dim
	}
	return n
}

// Validate checks that every dimension is positive.
func (s Shape) Validate() error {
	for i, dim := range s {
		if dim <= 0 {
			return fmt.Errorf("invalid dimension at index %d: %d (must be > 0)", i, dim)
		}
	}
	return nil
}

// Equal reports whether two shapes have the same dimensions.
func (s Shape) Equal(other Shape) bool {
	if len(s) != len(other) {
		return false
	}
	for i := range s {
		if s[i] != other[i] {
			return false
		}
	}
	return true
}

// Clone returns a copy of the shape.
func (s Shape) Clone() Shape {
	clone := make(Shape, len(s))
	copy(clone, s)
	return clone
}

// ComputeStrides calculates row-major strides: stride[i] is the product of all
// dimensions after i.
func (s Shape) ComputeStrides() []int {
	strides := make([]int, len(s))
	if len(s) == 0 {
		return strides
	}

	strides[len(s)-1] = 1
	for i := len(s) - 2; i >= 0; i-- {
		strides[i] = strides[i+1] * s[i+1]
	}
	return strides
}

// BroadcastShapes applies NumPy broadcasting rules to two shapes.
//
// Shapes are aligned from the right; a pair of dimensions is compatible when
// they are equal or one of them is 1. Missing leading dimensions count as 1.
//
// Returns the broadcast shape, whether any dimension had to be stretched, and an
// error when the shapes are incompatible.
//
//	(4, 1) + (1, 3) → (4, 3), true, nil
//	(4, 3) + (4, 3) → (4, 3), false, nil
//	(4, 2) + (4, 3) → nil, false, error
func BroadcastShapes(a, b Shape) (Shape, bool, error) {
	n := max(len(a), len(b))
	result := make(Shape, n)
	stretched := false

	for i := 0; i < n; i++ {
		aDim, bDim := 1, 1
		if j := len(a) - 1 - i; j >= 0 {
			aDim = a[j]
		}
		if j := len(b) - 1 - i; j >= 0 {
			bDim = b[j]
		}

		switch {
		case aDim == bDim:
			result[n-1-i] = aDim
		case aDim == 1:
			result[n-1-i] = bDim
			stretched = true
		case bDim == 1:
			result[n-1-i] = aDim
			stretched = true
		default:
			return nil, false, fmt.Errorf("shapes not compatible for broadcasting: %v vs %v (dimension %d: %d vs %d)",
				a, b, n-1-i, aDim, bDim)
		}
	}

	return result, stretched, nil
}

// BroadcastStrides returns the strides to read a tensor of shape in as if it had
// shape out. Broadcast dimensions get stride 0.
func BroadcastStrides(in, out Shape) []int {
	strides := make([]int, len(out))
	inStrides := in.ComputeStrides()
	offset := len(out) - len(in)
	for i, dim := range in {
		if dim != 1 {
			strides[offset+i] = inStrides[i]
		}
	}
	return strides
}
