package nn_test

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/gates/internal/autodiff"
	"github.com/born-ml/gates/internal/backend/cpu"
	"github.com/born-ml/gates/internal/nn"
	"github.com/born-ml/gates/internal/tensor"
)

type backendT = *autodiff.AutodiffBackend[*cpu.CPUBackend]

func fromSlice(t *testing.T, b backendT, data []float32, shape ...int) *tensor.Tensor[backendT] {
	t.Helper()
	x, err := tensor.FromSlice(data, shape, b)
	require.NoError(t, err)
	return x
}

func TestLinear_ForwardShapeAndBias(t *testing.T) {
	backend := autodiff.New(cpu.New())
	layer, err := nn.NewLinearWithConfig(2, 3, nn.LinearConfig{
		Bias:   true,
		Weight: []float32{1, 0, 0, 1, 1, 1},
	}, backend)
	require.NoError(t, err)

	copy(layer.Bias().Tensor().Data(), []float32{0.5, -0.5, 0})

	x := fromSlice(t, backend, []float32{1, 2, 3, 4}, 2, 2)
	y := layer.Forward(x)

	assert.Equal(t, tensor.Shape{2, 3}, y.Shape())
	assert.InDeltaSlice(t, []float32{1.5, 1.5, 3, 3.5, 3.5, 7}, y.Data(), 1e-6)
	assert.Len(t, layer.Parameters(), 2)
}

func TestLinear_NoBias(t *testing.T) {
	backend := autodiff.New(cpu.New())
	layer, err := nn.NewLinearWithConfig(3, 1, nn.LinearConfig{}, backend)
	require.NoError(t, err)

	assert.Nil(t, layer.Bias())
	assert.Len(t, layer.Parameters(), 1)
	assert.Equal(t, tensor.Shape{1, 3}, layer.Weight().Tensor().Shape())
}

func TestLinear_InvalidConfig(t *testing.T) {
	backend := autodiff.New(cpu.New())

	_, err := nn.NewLinearWithConfig(0, 1, nn.LinearConfig{}, backend)
	assert.Error(t, err)

	_, err = nn.NewLinearWithConfig(2, 1, nn.LinearConfig{Weight: []float32{1}}, backend)
	assert.Error(t, err)
}

func TestLinear_SeededInitIsReproducible(t *testing.T) {
	backend := autodiff.New(cpu.New())
	a, err := nn.NewLinearWithConfig(2, 4, nn.LinearConfig{Rand: rand.New(rand.NewSource(7))}, backend)
	require.NoError(t, err)
	b, err := nn.NewLinearWithConfig(2, 4, nn.LinearConfig{Rand: rand.New(rand.NewSource(7))}, backend)
	require.NoError(t, err)

	assert.Equal(t, a.Weight().Values(), b.Weight().Values())
}

func TestLinear_ForwardPanicsOnFeatureMismatch(t *testing.T) {
	backend := autodiff.New(cpu.New())
	layer := nn.NewLinear(3, 1, backend)
	x := fromSlice(t, backend, []float32{1, 2}, 1, 2)
	assert.Panics(t, func() { layer.Forward(x) })
}

// TestLinear_Anchor reproduces the fixed-weight loss and gradient through a
// module forward pass.
func TestLinear_Anchor(t *testing.T) {
	backend := autodiff.New(cpu.New())
	backend.Tape().StartRecording()

	layer, err := nn.NewLinearWithConfig(3, 1, nn.LinearConfig{Weight: []float32{1, 1, -1.5}}, backend)
	require.NoError(t, err)
	model := nn.NewSequential[backendT](layer, nn.NewSigmoid[backendT]())

	x := fromSlice(t, backend, []float32{1, 1, 1}, 1, 3)
	y := fromSlice(t, backend, []float32{1}, 1, 1)

	pred := model.Forward(x)
	assert.InDelta(t, 0.6225, pred.Item(), 1e-4)

	loss := nn.NewBCELoss[backendT](nn.Sum).Forward(pred, y)
	assert.InDelta(t, 0.4741, loss.Item(), 1e-4)

	grads := autodiff.Backward(loss, backend)
	grad := grads[layer.Weight().Tensor().Raw()]
	require.NotNil(t, grad)
	assert.InDeltaSlice(t, []float32{-0.3775, -0.3775, -0.3775}, grad.AsFloat32(), 1e-4)
}

func TestBCELoss_Reduction(t *testing.T) {
	backend := autodiff.New(cpu.New())
	pred := fromSlice(t, backend, []float32{0.9, 0.2}, 2, 1)
	y := fromSlice(t, backend, []float32{1, 0}, 2, 1)

	sum := nn.NewBCELoss[backendT](nn.Sum).Forward(pred, y).Item()
	mean := nn.NewBCELoss[backendT](nn.Mean).Forward(pred, y).Item()

	// -ln 0.9 - ln 0.8 = 0.1054 + 0.2231
	assert.InDelta(t, 0.3285, sum, 1e-4)
	assert.InDelta(t, sum/2, mean, 1e-6)
	assert.Equal(t, "mean", nn.Mean.String())
}

func TestBCELoss_SaturatedPredictionIsFinite(t *testing.T) {
	backend := autodiff.New(cpu.New())
	pred := fromSlice(t, backend, []float32{0, 1}, 2)
	y := fromSlice(t, backend, []float32{1, 0}, 2)

	loss := nn.NewBCELoss[backendT](nn.Sum).Forward(pred, y).Item()
	assert.False(t, math.IsNaN(float64(loss)))
	assert.Less(t, loss, float32(40))
}

func TestBCELoss_ShapeMismatchPanics(t *testing.T) {
	backend := autodiff.New(cpu.New())
	pred := fromSlice(t, backend, []float32{0.5, 0.5}, 2)
	y := fromSlice(t, backend, []float32{1, 0}, 2, 1)
	assert.Panics(t, func() { nn.NewBCELoss[backendT](nn.Sum).Forward(pred, y) })
}

func TestActivations(t *testing.T) {
	backend := autodiff.New(cpu.New())
	x := fromSlice(t, backend, []float32{-1, 0, 2}, 3)

	assert.InDeltaSlice(t, []float32{0.2689, 0.5, 0.8808}, nn.NewSigmoid[backendT]().Forward(x).Data(), 1e-4)
	assert.InDeltaSlice(t, []float32{-0.7616, 0, 0.9640}, nn.NewTanh[backendT]().Forward(x).Data(), 1e-4)
	assert.InDeltaSlice(t, []float32{0, 0, 2}, nn.NewReLU[backendT]().Forward(x).Data(), 1e-6)
	assert.Nil(t, nn.NewSigmoid[backendT]().Parameters())
}

func TestSigmoid_FallbackWithoutNativeBackend(t *testing.T) {
	backend := plainBackend{cpu.New()}
	x, err := tensor.FromSlice([]float32{0, 2}, tensor.Shape{2}, backend)
	require.NoError(t, err)

	out := nn.NewSigmoid[plainBackend]().Forward(x)
	assert.InDeltaSlice(t, []float32{0.5, 0.8808}, out.Data(), 1e-4)
}

// plainBackend hides the CPU backend's native activations.
type plainBackend struct {
	tensor.Backend
}

func TestSequential_Parameters(t *testing.T) {
	backend := autodiff.New(cpu.New())
	model := nn.NewSequential[backendT](
		nn.NewLinear(2, 8, backend),
		nn.NewSigmoid[backendT](),
	)
	model.Add(nn.NewLinear(8, 1, backend))

	assert.Equal(t, 3, model.Len())
	params := model.Parameters()
	require.Len(t, params, 4)
	assert.Equal(t, "weight", params[0].Name())
	assert.Equal(t, tensor.Shape{1, 8}, params[2].Tensor().Shape())
}

func TestParameter_GradLifecycle(t *testing.T) {
	backend := autodiff.New(cpu.New())
	p := nn.NewParameter("w", fromSlice(t, backend, []float32{1, 2}, 2))
	assert.Nil(t, p.Grad())

	p.SetGrad(fromSlice(t, backend, []float32{0.1, 0.2}, 2))
	assert.NotNil(t, p.Grad())

	p.ZeroGrad()
	assert.Nil(t, p.Grad())
	assert.Equal(t, []float64{1, 2}, p.Values())
}
