package activations

import (
	"math"
)

type tanh int8

// Tanh returns the hyperbolic tangent, which implements bptt.Activation. Values are in (-1, 1).
func Tanh() tanh {
	return tanh(0)
}

func (t tanh) TypeString() string {
	return "tanh"
}

func (t tanh) Value(net float64) float64 {
	return math.Tanh(net)
}

func (t tanh) Deriv(net, x float64) float64 {
	return 1 - x*x
}
