package ops

import "github.com/born-ml/gates/internal/tensor"

// ExpOp represents output = exp(x).
type ExpOp struct{ unaryOp }

// NewExpOp creates a new ExpOp.
func NewExpOp(x, output *tensor.RawTensor) *ExpOp {
	return &ExpOp{unaryOp{input: x, output: output}}
}

// Backward computes grad_x = outputGrad * exp(x), reusing the forward output.
func (op *ExpOp) Backward(outputGrad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor {
	return []*tensor.RawTensor{backend.Mul(outputGrad, op.output)}
}

// LogOp represents output = log(x).
type LogOp struct{ unaryOp }

// NewLogOp creates a new LogOp.
func NewLogOp(x, output *tensor.RawTensor) *LogOp {
	return &LogOp{unaryOp{input: x, output: output}}
}

// Backward computes grad_x = outputGrad / x.
func (op *LogOp) Backward(outputGrad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor {
	return []*tensor.RawTensor{backend.Div(outputGrad, op.input)}
}

// SigmoidOp represents the sigmoid activation: σ(x) = 1 / (1 + exp(-x)).
type SigmoidOp struct{ unaryOp }

// NewSigmoidOp creates a new SigmoidOp.
func NewSigmoidOp(x, output *tensor.RawTensor) *SigmoidOp {
	return &SigmoidOp{unaryOp{input: x, output: output}}
}

// Backward computes the gradient for sigmoid.
//
// dσ/dx = σ(x) * (1 - σ(x)), and σ(x) is the recorded output, so
// grad_input = grad_output * output * (1 - output).
func (op *SigmoidOp) Backward(outputGrad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor {
	oneMinus := backend.Sub(onesLike(op.output), op.output)
	derivative := backend.Mul(op.output, oneMinus)
	return []*tensor.RawTensor{backend.Mul(outputGrad, derivative)}
}

// TanhOp represents output = tanh(x).
type TanhOp struct{ unaryOp }

// NewTanhOp creates a new TanhOp.
func NewTanhOp(x, output *tensor.RawTensor) *TanhOp {
	return &TanhOp{unaryOp{input: x, output: output}}
}

// Backward computes grad_x = outputGrad * (1 - tanh²(x)).
func (op *TanhOp) Backward(outputGrad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor {
	squared := backend.Mul(op.output, op.output)
	derivative := backend.Sub(onesLike(op.output), squared)
	return []*tensor.RawTensor{backend.Mul(outputGrad, derivative)}
}

// ReLUOp represents output = max(0, x).
type ReLUOp struct{ unaryOp }

// NewReLUOp creates a new ReLUOp.
func NewReLUOp(x, output *tensor.RawTensor) *ReLUOp {
	return &ReLUOp{unaryOp{input: x, output: output}}
}

// Backward passes the gradient where x > 0 and blocks it elsewhere.
func (op *ReLUOp) Backward(outputGrad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor {
	mask := tensor.MustRaw(op.input.Shape())
	maskData := mask.AsFloat32()
	for i, v := range op.input.AsFloat32() {
		if v > 0 {
			maskData[i] = 1
		}
	}
	return []*tensor.RawTensor{backend.Mul(outputGrad, mask)}
}
