package optimizers

import (
	"github.com/pkg/errors"
)

type momentum struct {
	Decay       float64
	Accelerated bool

	velocity lagState
}

// Momentum returns gradient descent with classical momentum, which implements bptt.Optimizer.
// For each weight: v = decay*v - learningRate*grad, then w += v. The decay must be in [0, 1).
func Momentum(decay float64) *momentum {
	return &momentum{Decay: decay}
}

// Nesterov switches the Optimizer to use Nesterov's accelerated gradient, applying the
// look-ahead step w += decay*v - learningRate*grad instead of w += v.
func (m *momentum) Nesterov() *momentum {
	m.Accelerated = true
	return m
}

func (m *momentum) TypeString() string {
	return "momentum"
}

func (m *momentum) Validate() error {
	if !(m.Decay >= 0 && m.Decay < 1) {
		return errors.Errorf("Momentum decay must be in [0, 1) (%v)", m.Decay)
	}

	return nil
}

func (m *momentum) Run(lag, size int, grad func(int) float64, add func(int, float64), learningRate float64) error {
	if err := m.Validate(); err != nil {
		return err
	}

	vs := m.velocity.get(lag, size)
	for i := range vs {
		g := grad(i)
		vs[i] = m.Decay*vs[i] - learningRate*g

		if m.Accelerated {
			add(i, m.Decay*vs[i]-learningRate*g)
		} else {
			add(i, vs[i])
		}
	}

	return nil
}

func (m *momentum) Reset() {
	m.velocity.reset()
}

func (m *momentum) Get() interface{} {
	return *m
}

func (m *momentum) Blank() interface{} {
	return m
}
