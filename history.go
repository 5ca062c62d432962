package bptt

import (
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// InitialStatePolicy selects how the values of every unit before the first step are set.
type InitialStatePolicy int8

const (
	// ZeroFill sets x(0) and x(-1) to zero for every unit except bias units.
	ZeroFill InitialStatePolicy = iota
	// Supplied takes x(0) and x(-1) from InitialState.X0 and InitialState.XMinus1.
	Supplied
)

// InitialState holds the constants used for the values of units at steps 0 and -1. These are
// never overwritten, and no gradient is ever attributed to them. Bias units are always 1,
// regardless of what is given here.
type InitialState struct {
	Policy InitialStatePolicy

	// X0 and XMinus1 have one value per unit, indexed by unit id. They are only used with the
	// Supplied policy.
	X0, XMinus1 []float64
}

func (s InitialState) validate(net *Network) error {
	switch s.Policy {
	case ZeroFill:
		return nil
	case Supplied:
		if len(s.X0) != net.NumUnits() {
			return configErrorf("Initial state x(0) has %d values, expected %d", len(s.X0), net.NumUnits())
		} else if len(s.XMinus1) != net.NumUnits() {
			return configErrorf("Initial state x(-1) has %d values, expected %d", len(s.XMinus1), net.NumUnits())
		}

		return nil
	}

	return configErrorf("Unknown initial state policy %d", s.Policy)
}

// History is the record of a forward pass: the pre-activation and value of every unit at every
// step. It is append-only: each step is written exactly once, in increasing order, and never
// changed afterwards.
//
// For source units (inputs and biases), the pre-activation is recorded as equal to the value.
type History struct {
	units, steps int

	// number of steps written so far
	written int

	// rows are steps, offset so that step -1 is row 0. Columns are units.
	net, x *mat.Dense
}

func newHistory(net *Network, steps int, init InitialState) *History {
	n := net.NumUnits()
	h := &History{
		units: n,
		steps: steps,
		net:   mat.NewDense(steps+2, n, nil),
		x:     mat.NewDense(steps+2, n, nil),
	}

	if init.Policy == Supplied {
		h.x.SetRow(h.row(0), init.X0)
		h.x.SetRow(h.row(-1), init.XMinus1)
		h.net.SetRow(h.row(0), init.X0)
		h.net.SetRow(h.row(-1), init.XMinus1)
	}

	for _, b := range net.biases {
		for t := -1; t <= 0; t++ {
			h.x.Set(h.row(t), b.id, 1)
			h.net.Set(h.row(t), b.id, 1)
		}
	}

	return h
}

func (h *History) row(t int) int {
	return t + 1
}

// appendStep records the next step. The slices are copied.
func (h *History) appendStep(net, x []float64) error {
	if h.written >= h.steps {
		return errors.Errorf("Can't append to History, all %d steps have been written", h.steps)
	}

	h.written++
	h.net.SetRow(h.row(h.written), net)
	h.x.SetRow(h.row(h.written), x)
	return nil
}

// Steps returns the number of steps in the sequence the History is for.
func (h *History) Steps() int {
	return h.steps
}

// Written returns the number of steps recorded so far. It equals Steps once the forward pass has
// finished.
func (h *History) Written() int {
	return h.written
}

// X returns the value of unit i at step t. Steps 0 and -1 give the initial state. X panics if t
// is outside of [-1, Written()].
func (h *History) X(t, i int) float64 {
	h.check(t)
	return h.x.At(h.row(t), i)
}

// Net returns the pre-activation of unit i at step t, with the same bounds as X.
func (h *History) Net(t, i int) float64 {
	h.check(t)
	return h.net.At(h.row(t), i)
}

// Values returns a copy of the values of all units at step t.
func (h *History) Values(t int) []float64 {
	h.check(t)
	return mat.Row(nil, h.row(t), h.x)
}

func (h *History) check(t int) {
	if t < -1 || t > h.written {
		panic(errors.Errorf("Step %d is outside of the recorded History [-1, %d]", t, h.written))
	}
}
