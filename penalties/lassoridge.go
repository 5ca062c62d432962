package penalties

import (
	"math"
)

// **********************************************
// L1 (Lasso)
// **********************************************

type l1 float64

// λ is a small value close to 0 where λ > 0
func L1(λ float64) *l1 {
	p := l1(λ)
	return &p
}

// λ is a small value close to 0 where λ > 0
func Lasso(λ float64) *l1 {
	return L1(λ)
}

func (p *l1) TypeString() string {
	return "l1-lasso"
}

// Penalize adds the derivative of λ|w|, which is taken to be 0 at w = 0.
func (p *l1) Penalize(w, grad float64) float64 {
	return grad + float64(*p)*sign(w)
}

func (p *l1) Get() interface{} {
	return *p
}

func (p *l1) Blank() interface{} {
	return p
}

// **********************************************
// L2 (Ridge)
// **********************************************

type l2 float64

// λ is a small value close to 0 where λ > 0
func L2(λ float64) *l2 {
	p := l2(λ)
	return &p
}

// λ is a small value close to 0 where λ > 0
func Ridge(λ float64) *l2 {
	return L2(λ)
}

func (p *l2) TypeString() string {
	return "l2-ridge"
}

// Penalize adds the derivative of λw².
func (p *l2) Penalize(w, grad float64) float64 {
	return grad + 2*float64(*p)*w
}

func (p *l2) Get() interface{} {
	return *p
}

func (p *l2) Blank() interface{} {
	return p
}

func sign(w float64) float64 {
	if w == 0 {
		return 0
	}

	return math.Copysign(1, w)
}
