package bptt

import (
	"math/rand"
)

// Activation is the squashing function s applied to the pre-activation of a unit. Value and
// Deriv form a pair: Deriv must be the derivative of Value.
type Activation interface {
	// TypeString returns the name the Activation is registered under, e.g. "logistic".
	TypeString() string

	// Value returns s(net).
	Value(net float64) float64

	// Deriv returns s'(net). It is also given x = s(net), which was already computed during the
	// forward pass, so that functions like the logistic can avoid re-evaluating s.
	Deriv(net, x float64) float64
}

// CostFunction is the per-step loss between the output units' values and their targets. The
// total objective is the sum of Cost over every step with targets.
type CostFunction interface {
	TypeString() string

	// for all functions, can assume that length is the same, there are no NaNs or Infs

	// arguments: actual values, target values.
	Cost(outs, targets []float64) float64

	// Derivs returns the derivative of Cost with respect to each of the actual values. It should
	// not modify either argument.
	Derivs(outs, targets []float64) []float64
}

// Optimizer turns accumulated gradients into changes to the weights. Run is called once per
// weight matrix (lag 0, 1 and 2) on every update.
type Optimizer interface {
	TypeString() string

	// Run is called to suggest changes to each weight of the matrix for the given lag, given:
	// number of weights, gradient at weight, function to add to weights, and a learning-rate.
	//
	// Weights outside the connection mask always have a gradient of zero, and anything added to
	// them is discarded.
	Run(lag, size int, grad func(int) float64, add func(int, float64), learningRate float64) error

	// Reset clears any state kept between calls to Run, such as momentum. It is called at the
	// start of every training run.
	Reset()
}

// Validator can be implemented by any component whose parameters may be out of range. Validate
// is called by Config.Validate, so that bad parameters are reported before training starts.
type Validator interface {
	Validate() error
}

// HyperParameter is a value that may change with the training iteration, such as a decaying
// learning rate.
type HyperParameter interface {
	TypeString() string
	Value(iter int) float64
}

// Penalty regularizes weights by altering their gradients before the update.
type Penalty interface {
	TypeString() string

	// Penalize returns the gradient of the weight w after the penalty has been added to grad.
	Penalize(w, grad float64) float64
}

// Initializer dictates how the weights of the network will be set. Set is given the unit whose
// incoming weights are being set, a slice holding one value per incoming connection (across all
// lags), and the random source to draw from.
type Initializer interface {
	Set(u *Unit, ws []float64, rng *rand.Rand)
}
