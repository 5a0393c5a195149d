// Package cpu implements the CPU backend. Element-wise work is plain Go;
// matrix products go through gonum's BLAS.
package cpu

import (
	"fmt"

	"github.com/klauspost/cpuid/v2"

	"github.com/born-ml/gates/internal/tensor"
)

// CPUBackend implements tensor operations on the CPU.
type CPUBackend struct {
	simd string
}

// New creates a new CPU backend.
func New() *CPUBackend {
	return &CPUBackend{
		simd: detectSIMD(),
	}
}

// detectSIMD returns the widest vector extension reported by the processor.
func detectSIMD() string {
	switch {
	case cpuid.CPU.Supports(cpuid.AVX512F, cpuid.AVX512DQ):
		return "avx512"
	case cpuid.CPU.Supports(cpuid.AVX2, cpuid.FMA3):
		return "avx2"
	case cpuid.CPU.Supports(cpuid.SSE2):
		return "sse2"
	case cpuid.CPU.Supports(cpuid.ASIMD):
		return "neon"
	default:
		return "none"
	}
}

// Name returns the backend name.
func (cpu *CPUBackend) Name() string {
	return "CPU"
}

// SIMD returns the widest detected vector extension ("avx512", "avx2", "sse2",
// "neon" or "none").
func (cpu *CPUBackend) SIMD() string {
	return cpu.simd
}

// Processor returns the CPU brand string, for diagnostics.
func (cpu *CPUBackend) Processor() string {
	if cpuid.CPU.BrandName == "" {
		return "unknown"
	}
	return cpuid.CPU.BrandName
}

// Add performs element-wise addition with NumPy-style broadcasting.
func (cpu *CPUBackend) Add(a, b *tensor.RawTensor) *tensor.RawTensor {
	return binary("add", a, b, func(x, y float32) float32 { return x + y })
}

// Sub performs element-wise subtraction with broadcasting.
func (cpu *CPUBackend) Sub(a, b *tensor.RawTensor) *tensor.RawTensor {
	return binary("sub", a, b, func(x, y float32) float32 { return x - y })
}

// Mul performs element-wise multiplication with broadcasting.
func (cpu *CPUBackend) Mul(a, b *tensor.RawTensor) *tensor.RawTensor {
	return binary("mul", a, b, func(x, y float32) float32 { return x * y })
}

// Div performs element-wise division with broadcasting.
func (cpu *CPUBackend) Div(a, b *tensor.RawTensor) *tensor.RawTensor {
	return binary("div", a, b, func(x, y float32) float32 { return x / y })
}

// binary applies fn element-wise over the broadcast shape of a and b.
func binary(op string, a, b *tensor.RawTensor, fn func(x, y float32) float32) *tensor.RawTensor {
	outShape, stretched, err := tensor.BroadcastShapes(a.Shape(), b.Shape())
	if err != nil {
		panic(fmt.Sprintf("%s: %v", op, err))
	}

	result, err := tensor.NewRaw(outShape)
	if err != nil {
		panic(fmt.Sprintf("%s: failed to create result tensor: %v", op, err))
	}

	aData, bData, out := a.AsFloat32(), b.AsFloat32(), result.AsFloat32()

	// Fast path: identical layouts
	if !stretched && len(aData) == len(out) && len(bData) == len(out) {
		for i := range out {
			out[i] = fn(aData[i], bData[i])
		}
		return result
	}

	aStrides := tensor.BroadcastStrides(a.Shape(), outShape)
	bStrides := tensor.BroadcastStrides(b.Shape(), outShape)
	outStrides := outShape.ComputeStrides()

	for i := range out {
		ai, bi, rem := 0, 0, i
		for d := range outShape {
			idx := rem / outStrides[d]
			rem %= outStrides[d]
			ai += idx * aStrides[d]
			bi += idx * bStrides[d]
		}
		out[i] = fn(aData[ai], bData[bi])
	}

	return result
}
