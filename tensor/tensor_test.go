// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package tensor_test

import (
	"math/rand"
	"testing"

	"github.com/born-ml/gates/backend/cpu"
	"github.com/born-ml/gates/tensor"
)

// TestBackendInterface verifies that cpu.Backend implements tensor.Backend.
func TestBackendInterface(_ *testing.T) {
	var _ tensor.Backend = (*cpu.Backend)(nil)
}

// TestRawTensorAPI verifies RawTensor type alias exposes expected API.
func TestRawTensorAPI(t *testing.T) {
	raw, err := tensor.NewRaw(tensor.Shape{2, 3})
	if err != nil {
		t.Fatalf("NewRaw failed: %v", err)
	}
	if !raw.Shape().Equal(tensor.Shape{2, 3}) {
		t.Errorf("Shape() = %v, want [2 3]", raw.Shape())
	}
	if raw.NumElements() != 6 {
		t.Errorf("NumElements() = %d, want 6", raw.NumElements())
	}

	if _, err := tensor.NewRaw(tensor.Shape{2, 0}); err == nil {
		t.Error("NewRaw accepted a zero dimension")
	}
}

// TestCreation checks the public constructors.
func TestCreation(t *testing.T) {
	backend := cpu.New()

	x, err := tensor.FromFloat64([]float64{0, 1, 1, 0}, tensor.Shape{4, 1}, backend)
	if err != nil {
		t.Fatalf("FromFloat64 failed: %v", err)
	}
	if got := x.Add(tensor.Ones(tensor.Shape{4, 1}, backend)).Sum().Item(); got != 6 {
		t.Errorf("sum = %f, want 6", got)
	}

	a := tensor.Randn(tensor.Shape{3, 8}, rand.New(rand.NewSource(1)), backend)
	b := tensor.Randn(tensor.Shape{3, 8}, rand.New(rand.NewSource(1)), backend)
	for i, v := range a.Data() {
		if b.Data()[i] != v {
			t.Fatalf("Randn not reproducible at %d: %f != %f", i, v, b.Data()[i])
		}
	}

	if _, err := tensor.FromSlice([]float32{1, 2, 3}, tensor.Shape{2, 2}, backend); err == nil {
		t.Error("FromSlice accepted mismatched data length")
	}
	if got := tensor.Full(tensor.Shape{2}, 3, backend).Data(); got[0] != 3 || got[1] != 3 {
		t.Errorf("Full = %v, want [3 3]", got)
	}
	if got := tensor.Zeros(tensor.Shape{2}, backend).Sum().Item(); got != 0 {
		t.Errorf("Zeros sum = %f, want 0", got)
	}
}
