package hyperparams

import (
	"sort"
)

type step struct {
	Iter int
	Val  float64
}

type stepper []step

// Step returns a HyperParameter that is piecewise constant, starting at 'base'. Further steps
// are added with Add.
func Step(base float64) *stepper {
	st := stepper{{0, base}}
	return &st
}

// Add adds a step to the HyperParameter, so that from iteration 'iter' onwards it has the given
// value. Steps may be added in any order.
func (s *stepper) Add(iter int, value float64) *stepper {
	*s = append(*s, step{iter, value})
	sort.SliceStable(*s, func(i, j int) bool { return (*s)[i].Iter < (*s)[j].Iter })
	return s
}

func (s *stepper) TypeString() string {
	return "step"
}

func (s *stepper) Value(iter int) float64 {
	sl := []step(*s)
	for i := 1; i < len(sl); i++ {
		if sl[i].Iter > iter {
			return sl[i-1].Val
		}
	}

	return sl[len(sl)-1].Val
}

func (s *stepper) Get() interface{} {
	return *s
}

func (s *stepper) Blank() interface{} {
	return s
}
