package tensor

import "fmt"

// Tensor is a float32 tensor bound to a computation backend B.
//
// Every arithmetic method forwards to the backend, so when B is an autodiff
// backend the operation lands on its gradient tape.
//
// Example:
//
//	backend := cpu.New()
//	x, _ := tensor.FromSlice([]float32{0, 0, 0, 1, 1, 0, 1, 1}, tensor.Shape{4, 2}, backend)
//	w := tensor.Ones(tensor.Shape{2, 1}, backend)
//	z := x.MatMul(w) // [4, 1]
type Tensor[B Backend] struct {
	raw     *RawTensor
	backend B
}

// New wraps a RawTensor with a backend.
func New[B Backend](raw *RawTensor, b B) *Tensor[B] {
	return &Tensor[B]{
		raw:     raw,
		backend: b,
	}
}

// FromSlice creates a tensor holding a copy of data.
func FromSlice[B Backend](data []float32, shape Shape, b B) (*Tensor[B], error) {
	raw, err := RawFromSlice(data, shape)
	if err != nil {
		return nil, err
	}
	return New(raw, b), nil
}

// FromFloat64 creates a float32 tensor from float64 data.
func FromFloat64[B Backend](data []float64, shape Shape, b B) (*Tensor[B], error) {
	f32 := make([]float32, len(data))
	for i, v := range data {
		f32[i] = float32(v)
	}
	return FromSlice(f32, shape, b)
}

// Shape returns the tensor's shape.
func (t *Tensor[B]) Shape() Shape {
	return t.raw.Shape()
}

// NumElements returns the total number of elements.
func (t *Tensor[B]) NumElements() int {
	return t.raw.NumElements()
}

// Raw returns the underlying RawTensor.
func (t *Tensor[B]) Raw() *RawTensor {
	return t.raw
}

// Backend returns the computation backend.
func (t *Tensor[B]) Backend() B {
	return t.backend
}

// Data returns the tensor storage (zero-copy).
//
// WARNING: modifying the slice modifies the tensor.
func (t *Tensor[B]) Data() []float32 {
	return t.raw.AsFloat32()
}

// Float64 returns a float64 copy of the data.
func (t *Tensor[B]) Float64() []float64 {
	data := t.raw.AsFloat32()
	out := make([]float64, len(data))
	for i, v := range data {
		out[i] = float64(v)
	}
	return out
}

// Item returns the value of a single-element tensor.
// Panics if the tensor holds more than one element.
func (t *Tensor[B]) Item() float32 {
	if t.NumElements() != 1 {
		panic(fmt.Sprintf("Item() only works for single-element tensors, got shape %v", t.Shape()))
	}
	return t.Data()[0]
}

// At returns the element at the given indices.
// Panics if indices are out of bounds.
func (t *Tensor[B]) At(indices ...int) float32 {
	return t.Data()[t.offset(indices)]
}

// Set stores value at the given indices.
// Panics if indices are out of bounds.
func (t *Tensor[B]) Set(value float32, indices ...int) {
	t.Data()[t.offset(indices)] = value
}

func (t *Tensor[B]) offset(indices []int) int {
	shape := t.Shape()
	if len(indices) != len(shape) {
		panic(fmt.Sprintf("expected %d indices, got %d", len(shape), len(indices)))
	}

	offset := 0
	strides := t.raw.Strides()
	for i, idx := range indices {
		if idx < 0 || idx >= shape[i] {
			panic(fmt.Sprintf("index %d out of bounds for dimension %d (size %d)", idx, i, shape[i]))
		}
		offset += idx * strides[i]
	}
	return offset
}

// String returns a short description of the tensor.
func (t *Tensor[B]) String() string {
	return fmt.Sprintf("Tensor%v on %s", t.Shape(), t.backend.Name())
}

// Clone returns a deep copy of the tensor.
func (t *Tensor[B]) Clone() *Tensor[B] {
	return New(t.raw.Clone(), t.backend)
}

// Detach returns a copy whose storage is not connected to any recorded
// operation. Gradients never flow through a detached tensor.
func (t *Tensor[B]) Detach() *Tensor[B] {
	return t.Clone()
}
