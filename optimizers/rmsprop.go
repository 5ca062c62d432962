package optimizers

import (
	"math"

	"github.com/pkg/errors"
)

type rmsProp struct {
	Decay   float64
	Epsilon float64

	// running average of the squared gradients
	sq lagState
}

// RMSProp returns an Optimizer that divides the learning rate for each weight by a running
// average of the magnitude of its recent gradients.
func RMSProp(decay float64) *rmsProp {
	return &rmsProp{Decay: decay, Epsilon: 1e-8}
}

func (r *rmsProp) TypeString() string {
	return "rmsprop"
}

func (r *rmsProp) Validate() error {
	if !(r.Decay >= 0 && r.Decay < 1) {
		return errors.Errorf("RMSProp decay must be in [0, 1) (%v)", r.Decay)
	} else if !(r.Epsilon >= 0) {
		return errors.Errorf("RMSProp epsilon can't be negative (%v)", r.Epsilon)
	}

	return nil
}

func (r *rmsProp) Run(lag, size int, grad func(int) float64, add func(int, float64), learningRate float64) error {
	if err := r.Validate(); err != nil {
		return err
	}

	sq := r.sq.get(lag, size)
	for i := range sq {
		g := grad(i)
		sq[i] = r.Decay*sq[i] + (1-r.Decay)*g*g

		add(i, -learningRate*g/(math.Sqrt(sq[i])+r.Epsilon))
	}

	return nil
}

func (r *rmsProp) Reset() {
	r.sq.reset()
}

func (r *rmsProp) Get() interface{} {
	return *r
}

func (r *rmsProp) Blank() interface{} {
	return r
}
