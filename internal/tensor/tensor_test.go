package tensor

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// noopBackend satisfies Backend for tests that never compute.
type noopBackend struct{ Backend }

func (noopBackend) Name() string { return "noop" }

func TestShapeNumElements(t *testing.T) {
	tests := []struct {
		shape Shape
		want  int
	}{
		{Shape{}, 1},
		{Shape{4}, 4},
		{Shape{4, 3}, 12},
		{Shape{2, 3, 4}, 24},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.shape.NumElements(), "shape %v", tt.shape)
	}
}

func TestShapeValidation(t *testing.T) {
	require.NoError(t, Shape{4, 3}.Validate())
	require.NoError(t, Shape{}.Validate())
	assert.Error(t, Shape{4, 0}.Validate())
	assert.Error(t, Shape{-1}.Validate())
}

func TestComputeStrides(t *testing.T) {
	assert.Equal(t, []int{12, 4, 1}, Shape{2, 3, 4}.ComputeStrides())
	assert.Equal(t, []int{1}, Shape{5}.ComputeStrides())
	assert.Empty(t, Shape{}.ComputeStrides())
}

func TestBroadcastShapes(t *testing.T) {
	tests := []struct {
		name      string
		a, b      Shape
		want      Shape
		stretched bool
		wantErr   bool
	}{
		{"same", Shape{4, 1}, Shape{4, 1}, Shape{4, 1}, false, false},
		{"column", Shape{4, 1}, Shape{1, 3}, Shape{4, 3}, true, false},
		{"row bias", Shape{4, 3}, Shape{1, 3}, Shape{4, 3}, true, false},
		{"scalar", Shape{}, Shape{4, 1}, Shape{4, 1}, true, false},
		{"leading", Shape{3}, Shape{4, 3}, Shape{4, 3}, true, false},
		{"incompatible", Shape{4, 2}, Shape{4, 3}, nil, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, stretched, err := BroadcastShapes(tt.a, tt.b)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got), "got %v, want %v", got, tt.want)
			assert.Equal(t, tt.stretched, stretched)
		})
	}
}

func TestBroadcastStrides(t *testing.T) {
	assert.Equal(t, []int{0, 1}, BroadcastStrides(Shape{1, 3}, Shape{4, 3}))
	assert.Equal(t, []int{1, 0}, BroadcastStrides(Shape{4, 1}, Shape{4, 3}))
	assert.Equal(t, []int{0, 0}, BroadcastStrides(Shape{}, Shape{4, 3}))
}

func TestRawFromSlice(t *testing.T) {
	data := []float32{1, 2, 3, 4}
	raw, err := RawFromSlice(data, Shape{2, 2})
	require.NoError(t, err)

	data[0] = 100
	assert.Equal(t, float32(1), raw.AsFloat32()[0], "RawFromSlice must copy its input")

	_, err = RawFromSlice(data, Shape{3})
	assert.Error(t, err)
}

func TestRawTensorClone(t *testing.T) {
	raw, err := RawFromSlice([]float32{1, 2, 3}, Shape{3})
	require.NoError(t, err)

	clone := raw.Clone()
	clone.AsFloat32()[0] = 9

	assert.Equal(t, float32(1), raw.AsFloat32()[0])
	assert.True(t, raw.Shape().Equal(clone.Shape()))
}

func TestRawTensorReshape(t *testing.T) {
	raw, err := RawFromSlice([]float32{1, 2, 3, 4, 5, 6}, Shape{2, 3})
	require.NoError(t, err)

	reshaped, err := raw.Reshape(Shape{3, 2})
	require.NoError(t, err)
	assert.Equal(t, []int{2, 1}, reshaped.Strides())
	assert.Equal(t, raw.AsFloat32(), reshaped.AsFloat32())

	_, err = raw.Reshape(Shape{4})
	assert.Error(t, err)
}

func TestCreation(t *testing.T) {
	b := noopBackend{}

	z := Zeros(Shape{2, 2}, b)
	assert.Equal(t, []float32{0, 0, 0, 0}, z.Data())

	o := Ones(Shape{3}, b)
	assert.Equal(t, []float32{1, 1, 1}, o.Data())

	f := Full(Shape{2}, 0.5, b)
	assert.Equal(t, []float32{0.5, 0.5}, f.Data())
}

func TestRandnDeterministic(t *testing.T) {
	b := noopBackend{}

	a := Randn(Shape{8}, rand.New(rand.NewSource(7)), b)
	c := Randn(Shape{8}, rand.New(rand.NewSource(7)), b)
	assert.Equal(t, a.Data(), c.Data())

	large := Randn(Shape{4000}, rand.New(rand.NewSource(1)), b)
	var sum float64
	for _, v := range large.Data() {
		sum += float64(v)
	}
	assert.Less(t, math.Abs(sum/4000), 0.1, "standard normal mean should be near 0")
}

func TestTensorAtSetItem(t *testing.T) {
	b := noopBackend{}
	x, err := FromSlice([]float32{1, 2, 3, 4, 5, 6}, Shape{2, 3}, b)
	require.NoError(t, err)

	assert.Equal(t, float32(6), x.At(1, 2))
	x.Set(10, 0, 1)
	assert.Equal(t, float32(10), x.At(0, 1))

	assert.Panics(t, func() { x.At(2, 0) })
	assert.Panics(t, func() { x.Item() })

	s, err := FromSlice([]float32{3}, Shape{}, b)
	require.NoError(t, err)
	assert.Equal(t, float32(3), s.Item())
}

func TestFromFloat64(t *testing.T) {
	x, err := FromFloat64([]float64{0.25, 1}, Shape{2}, noopBackend{})
	require.NoError(t, err)
	assert.Equal(t, []float32{0.25, 1}, x.Data())
	assert.Equal(t, []float64{0.25, 1}, x.Float64())
}
