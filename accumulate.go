package bptt

import (
	"github.com/pkg/errors"
)

// accumulate adds the weight sensitivities of one sequence into g:
//
//	F_W^k_ij += F_net_i(t) · x_j(t-k)   for t = 1..T
//
// Steps are visited in increasing order. For t-k ≤ 0 the multiplicand is the initial state,
// which is a constant: it contributes to the weight's gradient, but nothing flows into it.
func (p *pass) accumulate(h *History, adj *adjoints, g *Gradients) error {
	for t := 1; t <= h.Steps(); t++ {
		for _, c := range p.net.conns {
			fnet := adj.fnet.At(t-1, c.To)
			if fnet == 0 {
				continue
			}

			m := g.lags[c.Lag]
			m.Set(c.To, c.From, m.At(c.To, c.From)+fnet*h.X(t-c.Lag, c.From))
		}
	}

	if err := g.checkFinite(); err != nil {
		return errors.Wrapf(err, "Accumulating gradients failed\n")
	}

	return nil
}

// Trace is the full record of one forward and backward pass over a single Sequence: the
// History, the ordered derivatives of every unit at every step, the gradients and the loss. It
// is intended for inspection; training never keeps one past its iteration.
type Trace struct {
	*History

	adj *adjoints

	Gradients *Gradients
	Loss      float64
}

// FX returns the ordered derivative of the total loss with respect to the value of unit i at
// step t. FX panics if t is outside [1, T]: there is no adjoint for the initial states, nor for
// any step past the end of the sequence.
func (tr *Trace) FX(t, i int) float64 {
	return tr.adj.FX(t, i)
}

// FNet returns the ordered derivative of the total loss with respect to the pre-activation of
// unit i at step t, with the same bounds as FX.
func (tr *Trace) FNet(t, i int) float64 {
	return tr.adj.FNet(t, i)
}

// sequence runs the forward pass, adjoint pass and accumulation for a single Sequence.
func (p *pass) sequence(ws *Weights, seq Sequence) (*Trace, error) {
	h, err := p.forward(ws, seq.Inputs)
	if err != nil {
		return nil, errors.Wrapf(err, "Forward pass failed\n")
	}

	loss, err := p.loss(h, seq.Targets)
	if err != nil {
		return nil, errors.Wrapf(err, "Computing loss failed\n")
	}

	return p.backward(h, ws, seq, loss)
}

func (p *pass) backward(h *History, ws *Weights, seq Sequence, loss float64) (*Trace, error) {
	adj, err := p.adjoint(h, ws, seq.Targets)
	if err != nil {
		return nil, errors.Wrapf(err, "Adjoint pass failed\n")
	}

	g := p.net.newGradients()
	if err := p.accumulate(h, adj, g); err != nil {
		return nil, err
	}

	return &Trace{History: h, adj: adj, Gradients: g, Loss: loss}, nil
}

// Trace runs one forward and backward pass over the Sequence without changing the Weights, and
// returns everything computed along the way. The Config's Optimizer and training options are not
// used.
func (net *Network) Trace(seq Sequence, ws *Weights, cfg Config) (*Trace, error) {
	if err := cfg.validateInference(net); err != nil {
		return nil, err
	} else if cfg.CostFunction == nil {
		return nil, errors.WithStack(&ConfigError{NilArgError{"Config.CostFunction"}.Error()})
	} else if err := net.checkWeights(ws); err != nil {
		return nil, err
	} else if err := net.checkSequence(seq); err != nil {
		return nil, err
	}

	return net.newPass(&cfg).sequence(ws, seq)
}

// Gradient returns the derivative of the total loss over the Sequence with respect to every
// weight, along with the loss itself.
func (net *Network) Gradient(seq Sequence, ws *Weights, cfg Config) (*Gradients, float64, error) {
	tr, err := net.Trace(seq, ws, cfg)
	if err != nil {
		return nil, 0, err
	}

	return tr.Gradients, tr.Loss, nil
}
