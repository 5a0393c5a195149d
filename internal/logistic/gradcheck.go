package logistic

import (
	"math"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/diff/fd"
)

// CheckGradient compares grad, the closed-form gradient of f at x, with a
// central finite-difference estimate and returns the largest absolute
// difference between the two.
func CheckGradient(f func([]float64) float64, grad, x []float64) (float64, error) {
	if len(grad) != len(x) {
		return 0, errors.Errorf("gradcheck: gradient has %d components, x has %d", len(grad), len(x))
	}

	numeric := fd.Gradient(nil, f, x, &fd.Settings{Formula: fd.Central})

	worst := 0.0
	for i := range grad {
		worst = math.Max(worst, math.Abs(grad[i]-numeric[i]))
	}
	return worst, nil
}
