package optimizers

import (
	"math"

	"github.com/pkg/errors"

	"github.com/sharnoff/bptt"
)

type adam struct {
	Beta1, Beta2 float64
	Epsilon      float64

	// first and second moment estimates
	m, v lagState

	// number of updates made to each weight matrix
	steps [bptt.NumLags]int
}

// Adam returns the Adam optimizer with the usual defaults: β1 = 0.9, β2 = 0.999 and ε = 1e-8.
// They can be changed with Betas.
func Adam() *adam {
	return &adam{Beta1: 0.9, Beta2: 0.999, Epsilon: 1e-8}
}

// Betas sets the decay rates of the first and second moment estimates.
func (a *adam) Betas(β1, β2 float64) *adam {
	a.Beta1, a.Beta2 = β1, β2
	return a
}

func (a *adam) TypeString() string {
	return "adam"
}

func (a *adam) Validate() error {
	if !(a.Beta1 >= 0 && a.Beta1 < 1 && a.Beta2 >= 0 && a.Beta2 < 1) {
		return errors.Errorf("Adam betas must be in [0, 1) (%v, %v)", a.Beta1, a.Beta2)
	} else if !(a.Epsilon >= 0) {
		return errors.Errorf("Adam epsilon can't be negative (%v)", a.Epsilon)
	}

	return nil
}

func (a *adam) Run(lag, size int, grad func(int) float64, add func(int, float64), learningRate float64) error {
	if err := a.Validate(); err != nil {
		return err
	}

	m := a.m.get(lag, size)
	v := a.v.get(lag, size)

	a.steps[lag]++
	t := float64(a.steps[lag])

	c1 := 1 - math.Pow(a.Beta1, t)
	c2 := 1 - math.Pow(a.Beta2, t)

	for i := 0; i < size; i++ {
		g := grad(i)
		m[i] = a.Beta1*m[i] + (1-a.Beta1)*g
		v[i] = a.Beta2*v[i] + (1-a.Beta2)*g*g

		add(i, -learningRate*(m[i]/c1)/(math.Sqrt(v[i]/c2)+a.Epsilon))
	}

	return nil
}

func (a *adam) Reset() {
	a.m.reset()
	a.v.reset()
	a.steps = [bptt.NumLags]int{}
}

func (a *adam) Get() interface{} {
	return *a
}

func (a *adam) Blank() interface{} {
	return a
}
