// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package tensor provides the public tensor API.
//
// Tensors hold float32 data on a Backend. Every operation dispatches to the
// backend, so wrapping a backend with autodiff records the operation for
// backpropagation.
//
// Example:
//
//	backend := cpu.New()
//	x, _ := tensor.FromSlice([]float32{0, 0, 0, 1, 1, 0, 1, 1}, tensor.Shape{4, 2}, backend)
//	w := tensor.Ones(tensor.Shape{2, 1}, backend)
//	z := x.MatMul(w) // [[0] [1] [1] [2]]
package tensor

import (
	"math/rand"

	"github.com/born-ml/gates/internal/tensor"
)

// Shape represents the dimensions of a tensor.
// Example: Shape{4, 2} is four rows of two values.
type Shape = tensor.Shape

// Backend is the interface compute implementations satisfy.
type Backend = tensor.Backend

// RawTensor is the untyped storage behind a Tensor.
type RawTensor = tensor.RawTensor

// Tensor is a float32 tensor bound to backend B.
type Tensor[B Backend] = tensor.Tensor[B]

// Zeros creates a tensor filled with zeros.
func Zeros[B Backend](shape Shape, b B) *Tensor[B] {
	return tensor.Zeros(shape, b)
}

// Ones creates a tensor filled with ones.
func Ones[B Backend](shape Shape, b B) *Tensor[B] {
	return tensor.Ones(shape, b)
}

// Full creates a tensor filled with value.
func Full[B Backend](shape Shape, value float32, b B) *Tensor[B] {
	return tensor.Full(shape, value, b)
}

// Randn creates a tensor with values drawn from N(0, 1).
//
// Example:
//
//	rng := rand.New(rand.NewSource(1))
//	w := tensor.Randn(tensor.Shape{3, 8}, rng, backend)
func Randn[B Backend](shape Shape, rng *rand.Rand, b B) *Tensor[B] {
	return tensor.Randn(shape, rng, b)
}

// FromSlice creates a tensor holding a copy of data.
func FromSlice[B Backend](data []float32, shape Shape, b B) (*Tensor[B], error) {
	return tensor.FromSlice(data, shape, b)
}

// FromFloat64 creates a tensor from float64 values, converted to float32.
func FromFloat64[B Backend](data []float64, shape Shape, b B) (*Tensor[B], error) {
	return tensor.FromFloat64(data, shape, b)
}

// NewRaw allocates zeroed storage of the given shape.
func NewRaw(shape Shape) (*RawTensor, error) {
	return tensor.NewRaw(shape)
}
