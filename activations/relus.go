// relus.go contains the activation functions that are derived from relu:
// * ReLU
// * Leaky ReLU
// * ELU
// * Softplus (because it's similar)
package activations

import (
	"math"
)

// ****************************************
// ReLU
// ****************************************

type relu int8

// ReLU returns the standard rectified linear unit, which implements bptt.Activation.
//
// The derivative at exactly 0 is taken to be 0.
func ReLU() relu {
	return relu(0)
}

func (t relu) TypeString() string {
	return "relu"
}

func (t relu) Value(net float64) float64 {
	return math.Max(net, 0)
}

func (t relu) Deriv(net, x float64) float64 {
	if net > 0 {
		return 1
	}
	return 0
}

// ****************************************
// Leaky ReLU
// ****************************************

type lrelu struct {
	Alpha float64
}

// LeakyReLU returns a standard 'leaky ReLU', where the leaky factor is given by alpha.
func LeakyReLU(alpha float64) *lrelu {
	return &lrelu{alpha}
}

func (t *lrelu) TypeString() string {
	return "leaky-relu"
}

func (t *lrelu) Get() interface{} {
	return *t
}

func (t *lrelu) Blank() interface{} {
	return t
}

func (t *lrelu) Value(net float64) float64 {
	if net < 0 {
		return t.Alpha * net
	}
	return net
}

func (t *lrelu) Deriv(net, x float64) float64 {
	if net < 0 {
		return t.Alpha
	}
	return 1
}

// ****************************************
// ELU
// ****************************************

type elu int8

// ELU (exponential linear unit) returns a smooth approximation of ReLU that tends towards -1 as
// inputs become infinitely negative.
func ELU() elu {
	return elu(0)
}

func (t elu) TypeString() string {
	return "elu"
}

func (t elu) Value(net float64) float64 {
	if net >= 0 {
		return net
	}
	return math.Expm1(net)
}

func (t elu) Deriv(net, x float64) float64 {
	if net < 0 {
		return x + 1
	}
	return 1
}

// ****************************************
// Softplus
// ****************************************

type softplus int8

// Softplus is a smooth approximation of ReLU that approaches 0 as inputs tend towards negative
// infinity.
func Softplus() softplus {
	return softplus(0)
}

func (t softplus) TypeString() string {
	return "softplus"
}

func (t softplus) Value(net float64) float64 {
	// log(1 + e^net), without overflowing for large net
	if net > 30 {
		return net
	}
	return math.Log1p(math.Exp(net))
}

func (t softplus) Deriv(net, x float64) float64 {
	// 1 / (1 + e^-net)
	return 1 / (1 + math.Exp(-net))
}

// ****************************************
// Softsign
// ****************************************

type softsign int8

// Softsign returns net / (1 + |net|), which behaves like Tanh but approaches its bounds
// polynomially.
func Softsign() softsign {
	return softsign(0)
}

func (t softsign) TypeString() string {
	return "softsign"
}

func (t softsign) Value(net float64) float64 {
	return net / (1 + math.Abs(net))
}

func (t softsign) Deriv(net, x float64) float64 {
	d := 1 + math.Abs(net)
	return 1 / (d * d)
}
