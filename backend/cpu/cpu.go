// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package cpu provides the pure Go CPU backend.
//
// Matrix multiplication runs on gonum's BLAS; everything else is a plain loop
// over float32 storage with NumPy-style broadcasting.
//
//	backend := cpu.New()
//	fmt.Println(backend.Name(), backend.SIMD())
package cpu

import (
	internalcpu "github.com/born-ml/gates/internal/backend/cpu"
	"github.com/born-ml/gates/tensor"
)

// Backend represents the CPU backend implementation.
type Backend = internalcpu.CPUBackend

// Compile-time check that Backend implements tensor.Backend.
var _ tensor.Backend = (*Backend)(nil)

// New creates a new CPU backend.
func New() *Backend {
	return internalcpu.New()
}
