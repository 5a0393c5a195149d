// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package nn provides neural network modules: layers, activations and losses.
//
// A two-layer XOR network:
//
//	backend := autodiff.New(cpu.New())
//	model := nn.NewSequential[B](
//	    nn.NewLinear(2, 8, backend),
//	    nn.NewSigmoid[B](),
//	    nn.NewLinear(8, 1, backend),
//	    nn.NewSigmoid[B](),
//	)
//	criterion := nn.NewBCELoss[B](nn.Sum)
package nn

import (
	"github.com/born-ml/gates/internal/nn"
	"github.com/born-ml/gates/internal/tensor"
)

// Module interface defines the common interface for all neural network modules.
type Module[B tensor.Backend] = nn.Module[B]

// Parameter represents a trainable parameter in a neural network.
type Parameter[B tensor.Backend] = nn.Parameter[B]

// NewParameter creates a new parameter with the given name and tensor.
func NewParameter[B tensor.Backend](name string, t *tensor.Tensor[B]) *Parameter[B] {
	return nn.NewParameter(name, t)
}

// Linear represents a fully connected (dense) layer.
type Linear[B tensor.Backend] = nn.Linear[B]

// LinearConfig controls Linear construction.
type LinearConfig = nn.LinearConfig

// NewLinear creates a linear layer with standard-normal weights and a zero bias.
//
// Example:
//
//	layer := nn.NewLinear(2, 1, backend)
func NewLinear[B tensor.Backend](inFeatures, outFeatures int, backend B) *Linear[B] {
	return nn.NewLinear(inFeatures, outFeatures, backend)
}

// NewLinearWithConfig creates a linear layer from cfg.
func NewLinearWithConfig[B tensor.Backend](inFeatures, outFeatures int, cfg LinearConfig, backend B) (*Linear[B], error) {
	return nn.NewLinearWithConfig(inFeatures, outFeatures, cfg, backend)
}

// Sigmoid is the logistic activation.
type Sigmoid[B tensor.Backend] = nn.Sigmoid[B]

// NewSigmoid creates a sigmoid activation.
func NewSigmoid[B tensor.Backend]() *Sigmoid[B] {
	return nn.NewSigmoid[B]()
}

// Tanh is the hyperbolic tangent activation.
type Tanh[B tensor.Backend] = nn.Tanh[B]

// NewTanh creates a tanh activation.
func NewTanh[B tensor.Backend]() *Tanh[B] {
	return nn.NewTanh[B]()
}

// ReLU is the rectified linear activation.
type ReLU[B tensor.Backend] = nn.ReLU[B]

// NewReLU creates a ReLU activation.
func NewReLU[B tensor.Backend]() *ReLU[B] {
	return nn.NewReLU[B]()
}

// Sequential chains modules.
type Sequential[B tensor.Backend] = nn.Sequential[B]

// NewSequential creates a container running modules in order.
func NewSequential[B tensor.Backend](modules ...Module[B]) *Sequential[B] {
	return nn.NewSequential(modules...)
}

// Reduction selects how a loss combines per-element terms.
type Reduction = nn.Reduction

// Reductions.
const (
	Sum  = nn.Sum
	Mean = nn.Mean
)

// BCELoss is binary cross-entropy on probabilities.
type BCELoss[B tensor.Backend] = nn.BCELoss[B]

// NewBCELoss creates a binary cross-entropy loss.
func NewBCELoss[B tensor.Backend](reduction Reduction) *BCELoss[B] {
	return nn.NewBCELoss[B](reduction)
}
