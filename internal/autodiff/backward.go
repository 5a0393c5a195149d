package autodiff

import (
	"github.com/born-ml/gates/internal/tensor"
)

// BackwardCapable is an interface for backends that support backward pass.
// AutodiffBackend implements this interface.
type BackwardCapable interface {
	tensor.Backend
	// GetTape returns the gradient tape for backward computation.
	GetTape() *GradientTape
}

// GetTape returns the gradient tape (implements BackwardCapable interface).
func (b *AutodiffBackend[B]) GetTape() *GradientTape {
	return b.tape
}

// Backward computes gradients of t using the backend's tape. The seed is a
// ones tensor shaped like t, so for a scalar loss the result is dL/dx.
//
// Example:
//
//	backend := autodiff.New(cpu.New())
//	backend.Tape().StartRecording()
//	x := tensor.Ones(tensor.Shape{2}, backend)
//	y := x.Mul(x).Sum()
//	gradients := autodiff.Backward(y, backend)
//	grad := gradients[x.Raw()] // [2, 2]
func Backward[B BackwardCapable](t *tensor.Tensor[B], backend B) map[*tensor.RawTensor]*tensor.RawTensor {
	tape := backend.GetTape()

	if tape.NumOps() == 0 {
		panic("backward: no operations recorded (did you forget to call Tape().StartRecording()?)")
	}

	seed := tensor.MustRaw(t.Shape())
	seed.Fill(1)

	return tape.BackwardFrom(t.Raw(), seed, backend)
}

// Grad evaluates f with recording enabled and returns its scalar value together
// with df/dx for each input, in the order given. Inputs that f does not use get
// a zero gradient.
//
// The tape is cleared before and after the call, and its previous recording
// state is restored.
//
//	loss, grads := autodiff.Grad(backend, func(in ...*tensor.Tensor[B]) *tensor.Tensor[B] {
//		return in[0].Mul(in[0]).Sum()
//	}, w)
func Grad[B BackwardCapable](
	backend B,
	f func(inputs ...*tensor.Tensor[B]) *tensor.Tensor[B],
	inputs ...*tensor.Tensor[B],
) (float32, []*tensor.RawTensor) {
	tape := backend.GetTape()
	wasRecording := tape.IsRecording()

	tape.Clear()
	tape.StartRecording()
	defer func() {
		tape.Clear()
		if !wasRecording {
			tape.StopRecording()
		}
	}()

	out := f(inputs...)
	if out.NumElements() != 1 {
		panic("grad: function must return a single-element tensor")
	}

	grads := Backward(out, backend)

	result := make([]*tensor.RawTensor, len(inputs))
	for i, in := range inputs {
		if g, ok := grads[in.Raw()]; ok {
			result[i] = g
		} else {
			result[i] = tensor.MustRaw(in.Shape())
		}
	}

	return out.Item(), result
}
