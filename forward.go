package bptt

import (
	"math"

	"github.com/pkg/errors"
)

// pass is everything a forward or backward pass needs besides the Weights and the data. It is
// read-only once created, so one pass can be shared by every sequence in a batch.
type pass struct {
	net  *Network
	acts []Activation
	cf   CostFunction
	init InitialState
}

func (net *Network) newPass(cfg *Config) *pass {
	return &pass{
		net:  net,
		acts: cfg.activations(net),
		cf:   cfg.CostFunction,
		init: cfg.InitialState,
	}
}

// forward evaluates every unit at every step, in increasing order of step and, within a step, in
// the Network's same-step order. The returned History is complete.
func (p *pass) forward(ws *Weights, inputs [][]float64) (*History, error) {
	net := p.net
	n := net.NumUnits()
	h := newHistory(net, len(inputs), p.init)

	pre := make([]float64, n)
	x := make([]float64, n)

	for t := 1; t <= len(inputs); t++ {
		for k, u := range net.inputs {
			x[u.id] = inputs[t-1][k]
			pre[u.id] = x[u.id]
		}

		for _, b := range net.biases {
			x[b.id], pre[b.id] = 1, 1
		}

		for _, i := range net.order {
			u := net.unitsByID[i]
			if u.role.IsSource() {
				continue
			}

			var sum float64
			for _, c := range u.inputs {
				var v float64
				if c.Lag == 0 {
					// same-step inputs come earlier in the order, so they're already in x
					v = x[c.From]
				} else {
					v = h.X(t-c.Lag, c.From)
				}

				sum += ws.lags[c.Lag].At(i, c.From) * v
			}

			if !finite(sum) {
				return nil, errors.WithStack(&InstabilityError{Phase: PhaseForward, Step: t, Unit: i, Value: sum})
			}

			val := p.acts[i].Value(sum)
			if !finite(val) {
				return nil, errors.WithStack(&InstabilityError{Phase: PhaseForward, Step: t, Unit: i, Value: val})
			}

			pre[i], x[i] = sum, val
		}

		if err := h.appendStep(pre, x); err != nil {
			return nil, err
		}
	}

	return h, nil
}

// outputs returns the values of the output units at step t
func (p *pass) outputs(h *History, t int) []float64 {
	outs := make([]float64, len(p.net.outputs))
	for k, u := range p.net.outputs {
		outs[k] = h.X(t, u.id)
	}

	return outs
}

// loss returns the sum over all steps with targets of the CostFunction.
func (p *pass) loss(h *History, targets [][]float64) (float64, error) {
	var total float64
	for t := 1; t <= h.Steps(); t++ {
		if len(targets[t-1]) == 0 {
			continue
		}

		c := p.cf.Cost(p.outputs(h, t), targets[t-1])
		if !finite(c) {
			return 0, errors.WithStack(&InstabilityError{Phase: PhaseForward, Step: t, Unit: -1, Value: c})
		}

		total += c
	}

	return total, nil
}

// Forward runs the Network over a sequence of inputs and returns the values of the output units
// at each step. Only the Activation, LagDepth and InitialState of the Config are used.
func (net *Network) Forward(inputs [][]float64, ws *Weights, cfg Config) ([][]float64, error) {
	if err := cfg.validateInference(net); err != nil {
		return nil, err
	} else if err := net.checkWeights(ws); err != nil {
		return nil, err
	} else if err := net.checkInputs(inputs); err != nil {
		return nil, err
	}

	p := net.newPass(&cfg)
	h, err := p.forward(ws, inputs)
	if err != nil {
		return nil, errors.Wrapf(err, "Forward pass failed\n")
	}

	preds := make([][]float64, h.Steps())
	for t := 1; t <= h.Steps(); t++ {
		preds[t-1] = p.outputs(h, t)
	}

	return preds, nil
}

// Loss runs the Network over the Sequence and returns the total of the CostFunction over every
// step that has targets.
func (net *Network) Loss(seq Sequence, ws *Weights, cfg Config) (float64, error) {
	if err := cfg.validateInference(net); err != nil {
		return 0, err
	} else if cfg.CostFunction == nil {
		return 0, errors.WithStack(&ConfigError{NilArgError{"Config.CostFunction"}.Error()})
	} else if err := net.checkWeights(ws); err != nil {
		return 0, err
	} else if err := net.checkSequence(seq); err != nil {
		return 0, err
	}

	p := net.newPass(&cfg)
	h, err := p.forward(ws, seq.Inputs)
	if err != nil {
		return 0, errors.Wrapf(err, "Forward pass failed\n")
	}

	return p.loss(h, seq.Targets)
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
