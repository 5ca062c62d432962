package costfuncs

import (
	"math"
)

type crossEntropy int8

// CrossEntropy returns the binary cross-entropy cost function, which implements
// bptt.CostFunction. Outputs must be in (0, 1), e.g. from a logistic activation, and targets in
// [0, 1].
//
// An output that has saturated to exactly 0 or 1 against a target on the other side gives an
// infinite cost, which training reports as a numerical instability.
func CrossEntropy() crossEntropy {
	return crossEntropy(0)
}

func NegativeLog() crossEntropy {
	return CrossEntropy()
}

func (c crossEntropy) TypeString() string {
	return "cross-entropy"
}

// terms with a weight of zero are skipped, so that a target of exactly 0 or 1 doesn't give
// 0 * -Inf at a saturated output
func (c crossEntropy) Cost(outs, targets []float64) float64 {
	var sum float64
	for i := range outs {
		if t := targets[i]; t != 0 {
			sum -= t * math.Log(outs[i])
		}
		if t := targets[i]; t != 1 {
			sum -= (1 - t) * math.Log(1-outs[i])
		}
	}

	return sum
}

func (c crossEntropy) Derivs(outs, targets []float64) []float64 {
	ds := make([]float64, len(outs))
	for i := range outs {
		if t := targets[i]; t != 0 {
			ds[i] -= t / outs[i]
		}
		if t := targets[i]; t != 1 {
			ds[i] += (1 - t) / (1 - outs[i])
		}
	}

	return ds
}
