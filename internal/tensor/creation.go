package tensor

import "math/rand"

// Zeros creates a tensor filled with zeros.
func Zeros[B Backend](shape Shape, b B) *Tensor[B] {
	return New(MustRaw(shape), b)
}

// Ones creates a tensor filled with ones.
func Ones[B Backend](shape Shape, b B) *Tensor[B] {
	return Full(shape, 1, b)
}

// Full creates a tensor filled with value.
func Full[B Backend](shape Shape, value float32, b B) *Tensor[B] {
	raw := MustRaw(shape)
	raw.Fill(value)
	return New(raw, b)
}

// Randn creates a tensor with values drawn from the standard normal
// distribution N(0, 1) using rng.
//
// Passing the same seeded rng reproduces the same tensor.
func Randn[B Backend](shape Shape, rng *rand.Rand, b B) *Tensor[B] {
	raw := MustRaw(shape)
	data := raw.AsFloat32()
	for i := range data {
		data[i] = float32(rng.NormFloat64())
	}
	return New(raw, b)
}
