// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package autodiff provides reverse-mode automatic differentiation.
//
// Wrapping a backend records every operation on a gradient tape; Backward
// walks the tape in reverse and returns a gradient per tensor.
//
// Example:
//
//	backend := autodiff.New(cpu.New())
//	w, _ := tensor.FromSlice([]float32{2, -3}, tensor.Shape{2}, backend)
//	loss, grads := autodiff.Grad(backend, func(in ...*tensor.Tensor[B]) *tensor.Tensor[B] {
//	    return in[0].Mul(in[0]).Sum()
//	}, w)
//	// loss = 13, grads[0] = [4, -6]
package autodiff

import (
	"github.com/born-ml/gates/internal/autodiff"
	"github.com/born-ml/gates/internal/tensor"
)

// Backend is the autodiff-enabled backend.
type Backend[B tensor.Backend] = autodiff.AutodiffBackend[B]

// New creates a new autodiff backend wrapping the given backend.
func New[B tensor.Backend](backend B) *Backend[B] {
	return autodiff.New(backend)
}

// GradientTape records operations for automatic differentiation.
type GradientTape = autodiff.GradientTape

// NewGradientTape creates a new gradient tape.
func NewGradientTape() *GradientTape {
	return autodiff.NewGradientTape()
}

// BackwardCapable interface for backends that support backpropagation.
type BackwardCapable = autodiff.BackwardCapable

// Backward computes gradients of t via backpropagation.
func Backward[B BackwardCapable](t *tensor.Tensor[B], backend B) map[*tensor.RawTensor]*tensor.RawTensor {
	return autodiff.Backward(t, backend)
}

// Grad returns the scalar value of f and its gradient for each input.
func Grad[B BackwardCapable](
	backend B,
	f func(inputs ...*tensor.Tensor[B]) *tensor.Tensor[B],
	inputs ...*tensor.Tensor[B],
) (float32, []*tensor.RawTensor) {
	return autodiff.Grad(backend, f, inputs...)
}
