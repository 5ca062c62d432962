package costfuncs

import (
	"math"

	"github.com/pkg/errors"
)

type huber struct {
	Delta float64
}

// Huber returns the Huber Loss Function, which implements bptt.CostFunction. δ controls the
// bounds of the transition between squared error and absolute value. The cost is summed, not
// averaged, over the outputs.
func Huber(δ float64) *huber {
	return &huber{δ}
}

func (h *huber) TypeString() string {
	return "huber"
}

func (h *huber) Validate() error {
	if !(h.Delta > 0) {
		return errors.Errorf("Huber delta must be positive (%v)", h.Delta)
	}

	return nil
}

func (h *huber) Cost(outs, targets []float64) float64 {
	var sum float64
	for i := range outs {
		d := math.Abs(outs[i] - targets[i])
		if d <= h.Delta {
			sum += 0.5 * d * d
		} else {
			sum += h.Delta*d - 0.5*h.Delta*h.Delta
		}
	}

	return sum
}

func (h *huber) Derivs(outs, targets []float64) []float64 {
	ds := make([]float64, len(outs))
	for i := range outs {
		d := outs[i] - targets[i]
		if !(d < -h.Delta || d > h.Delta) { // d >= -h.Delta && d <= h.Delta
			ds[i] = d
		} else {
			ds[i] = math.Copysign(h.Delta, d)
		}
	}

	return ds
}

func (h *huber) Get() interface{} {
	return *h
}

func (h *huber) Blank() interface{} {
	return h
}
