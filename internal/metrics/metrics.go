// Package metrics scores predictions against truth-table targets and keeps
// loss histories.
package metrics

import (
	"gonum.org/v1/gonum/stat"
)

// Round maps each prediction to 1 when it is at least threshold, else 0.
func Round(preds []float64, threshold float64) []float64 {
	out := make([]float64, len(preds))
	for i, p := range preds {
		if p >= threshold {
			out[i] = 1
		}
	}
	return out
}

// Matches reports whether every rounded prediction equals its target.
// Slices of different length never match.
func Matches(preds, targets []float64, threshold float64) bool {
	if len(preds) != len(targets) {
		return false
	}
	for i, r := range Round(preds, threshold) {
		if r != targets[i] {
			return false
		}
	}
	return true
}

// Accuracy returns the fraction of rounded predictions equal to their targets.
func Accuracy(preds, targets []float64, threshold float64) float64 {
	n := min(len(preds), len(targets))
	if n == 0 {
		return 0
	}
	correct := 0
	for i, r := range Round(preds[:n], threshold) {
		if r == targets[i] {
			correct++
		}
	}
	return float64(correct) / float64(n)
}

// History records one loss per training iteration.
type History struct {
	Losses []float64
}

// Add appends a loss.
func (h *History) Add(loss float64) {
	h.Losses = append(h.Losses, loss)
}

// Len returns the number of recorded losses.
func (h *History) Len() int {
	return len(h.Losses)
}

// First returns the first recorded loss, or 0 when empty.
func (h *History) First() float64 {
	if len(h.Losses) == 0 {
		return 0
	}
	return h.Losses[0]
}

// Last returns the last recorded loss, or 0 when empty.
func (h *History) Last() float64 {
	if len(h.Losses) == 0 {
		return 0
	}
	return h.Losses[len(h.Losses)-1]
}

// Trend returns the mean of the first tenth of the run minus the mean of the
// last tenth. Positive means the loss went down. Per-sample SGD losses are
// noisy, so windows are compared instead of single points.
func (h *History) Trend() float64 {
	n := len(h.Losses)
	if n < 2 {
		return 0
	}
	w := max(n/10, 1)
	head := stat.Mean(h.Losses[:w], nil)
	tail := stat.Mean(h.Losses[n-w:], nil)
	return head - tail
}

// Decreasing reports whether the loss trends downward across the run.
func (h *History) Decreasing() bool {
	return h.Trend() > 0
}
