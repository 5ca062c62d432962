package activations

import (
	"math"
)

type logistic int8

// Logistic returns the logistic sigmoid, 1 / (1 + e^-net), which implements bptt.Activation.
func Logistic() logistic {
	return logistic(0)
}

// Sigmoid is a proxy for Logistic
func Sigmoid() logistic {
	return Logistic()
}

func (t logistic) TypeString() string {
	return "logistic"
}

func (t logistic) Value(net float64) float64 {
	return 1 / (1 + math.Exp(-net))
}

// Deriv uses the value instead of re-evaluating the exponential: s'(net) = s(net) * (1 - s(net))
func (t logistic) Deriv(net, x float64) float64 {
	return x * (1 - x)
}
