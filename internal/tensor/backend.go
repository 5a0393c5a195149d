package tensor

// Backend defines the operations every compute backend implements.
//
// Implementations:
//   - cpu.CPUBackend: plain Go loops with gonum BLAS for matrix products
//   - autodiff.AutodiffBackend: decorator that records each operation on a
//     gradient tape before delegating to the wrapped backend
//
// Binary element-wise operations broadcast NumPy style. Shape misuse panics.
type Backend interface {
	// Element-wise binary operations
	Add(a, b *RawTensor) *RawTensor
	Sub(a, b *RawTensor) *RawTensor
	Mul(a, b *RawTensor) *RawTensor
	Div(a, b *RawTensor) *RawTensor

	// MatMul multiplies 2D tensors: (M, K) @ (K, N) -> (M, N).
	MatMul(a, b *RawTensor) *RawTensor

	// Shape operations
	Reshape(t *RawTensor, newShape Shape) *RawTensor
	Transpose(t *RawTensor, axes ...int) *RawTensor

	// Scalar operations
	MulScalar(x *RawTensor, scalar float32) *RawTensor
	AddScalar(x *RawTensor, scalar float32) *RawTensor

	// Math operations
	Exp(x *RawTensor) *RawTensor
	Log(x *RawTensor) *RawTensor

	// Reductions
	Sum(x *RawTensor) *RawTensor                           // total sum, scalar result
	SumDim(x *RawTensor, dim int, keepDim bool) *RawTensor // sum along one dimension

	// Name identifies the backend in logs.
	Name() string
}
