package hyperparams

import (
	"math"
)

type exponential struct {
	Base  float64
	Rate  float64
	Every int
}

// Exponential returns a HyperParameter that decays from 'base' by a factor of 'rate' every
// 'every' iterations: base * rate^(iter/every). With every ≤ 1, the decay is applied on each
// iteration.
func Exponential(base, rate float64, every int) *exponential {
	if every < 1 {
		every = 1
	}

	return &exponential{base, rate, every}
}

func (e *exponential) TypeString() string {
	return "exponential"
}

func (e *exponential) Value(iter int) float64 {
	every := e.Every
	if every < 1 {
		every = 1
	}

	return e.Base * math.Pow(e.Rate, float64(iter/every))
}

func (e *exponential) Get() interface{} {
	return *e
}

func (e *exponential) Blank() interface{} {
	return e
}
