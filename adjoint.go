package bptt

import (
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// adjoints is the table of ordered derivatives for a single sequence. Rows are steps (step t is
// row t-1), columns are units. It only lives for the duration of one iteration.
type adjoints struct {
	steps int

	// F_x(t) and F_net(t). F_net is left zero for source units.
	fx, fnet *mat.Dense
}

// adjoint computes the ordered derivative of the total loss with respect to the value and
// pre-activation of every unit at every step:
//
//	F_x_i(t)   = ∂Loss(t)/∂x_i(t) + Σ_(i→j, lag k, t+k ≤ T) W^k_ji · F_net_j(t+k)
//	F_net_i(t) = F_x_i(t) · s'(net_i(t))
//
// Steps are visited from T down to 1, and units within a step in the reverse of the forward
// order, so that every F_net on the right-hand side is final before it is read. Nothing past T
// exists, so those terms are zero. Nothing is computed for the initial states.
func (p *pass) adjoint(h *History, ws *Weights, targets [][]float64) (*adjoints, error) {
	net := p.net
	T := h.Steps()
	n := net.NumUnits()

	adj := &adjoints{
		steps: T,
		fx:    mat.NewDense(T, n, nil),
		fnet:  mat.NewDense(T, n, nil),
	}

	direct := make([]float64, n)

	for t := T; t >= 1; t-- {
		for i := range direct {
			direct[i] = 0
		}

		if len(targets[t-1]) != 0 {
			ds := p.cf.Derivs(p.outputs(h, t), targets[t-1])
			for k, u := range net.outputs {
				direct[u.id] = ds[k]
			}
		}

		for o := len(net.order) - 1; o >= 0; o-- {
			i := net.order[o]
			u := net.unitsByID[i]

			fx := direct[i]
			for _, c := range u.outputs {
				if t+c.Lag > T {
					continue
				}

				fx += ws.lags[c.Lag].At(c.To, i) * adj.fnet.At(t+c.Lag-1, c.To)
			}

			if !finite(fx) {
				return nil, errors.WithStack(&InstabilityError{Phase: PhaseAdjoint, Step: t, Unit: i, Value: fx})
			}

			adj.fx.Set(t-1, i, fx)

			if u.role.IsSource() {
				continue
			}

			fnet := fx * p.acts[i].Deriv(h.Net(t, i), h.X(t, i))
			if !finite(fnet) {
				return nil, errors.WithStack(&InstabilityError{Phase: PhaseAdjoint, Step: t, Unit: i, Value: fnet})
			}

			adj.fnet.Set(t-1, i, fnet)
		}
	}

	return adj, nil
}

// FX returns F_x_i(t), the ordered derivative of the total loss with respect to the value of
// unit i at step t. It panics if t is outside [1, T].
func (a *adjoints) FX(t, i int) float64 {
	a.check(t)
	return a.fx.At(t-1, i)
}

// FNet returns F_net_i(t), with the same bounds as FX. It is always zero for source units.
func (a *adjoints) FNet(t, i int) float64 {
	a.check(t)
	return a.fnet.At(t-1, i)
}

func (a *adjoints) check(t int) {
	if t < 1 || t > a.steps {
		panic(errors.Errorf("Step %d has no adjoint; adjoints exist for [1, %d]", t, a.steps))
	}
}
