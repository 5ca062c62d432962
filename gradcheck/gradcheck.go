// Package gradcheck compares the gradients computed by backpropagation through time with
// central finite differences of the loss.
package gradcheck

import (
	"math"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/diff/fd"
	"gonum.org/v1/gonum/floats"

	"github.com/sharnoff/bptt"
)

// Entry is the comparison for a single connected weight.
type Entry struct {
	bptt.Connection

	Analytic, Numeric float64
	AbsErr, RelErr    float64
}

// Report is the result of Check. Entries are in the order of Network.Connections.
type Report struct {
	Loss    float64
	Entries []Entry

	MaxAbsErr, MaxRelErr float64
}

// Check computes the gradient of the Sequence's loss for every connected weight, both through
// Network.Gradient and by central differences with the given step, and reports how far apart
// they are.
//
// The relative error of an entry is its absolute error divided by the larger magnitude of the
// two values, or 0 if both are 0.
func Check(net *bptt.Network, seq bptt.Sequence, ws *bptt.Weights, cfg bptt.Config, step float64) (*Report, error) {
	if !(step > 0) || math.IsInf(step, 0) {
		return nil, errors.Errorf("Finite difference step must be positive (%v)", step)
	}

	g, loss, err := net.Gradient(seq, ws, cfg)
	if err != nil {
		return nil, errors.Wrapf(err, "Failed to compute analytic gradient\n")
	}

	conns := net.Connections()

	x := make([]float64, len(conns))
	analytic := make([]float64, len(conns))
	for k, c := range conns {
		x[k] = ws.At(c.Lag, c.To, c.From)
		analytic[k] = g.At(c.Lag, c.To, c.From)
	}

	var lossErr error
	f := func(x []float64) float64 {
		w := ws.Clone()
		for k, c := range conns {
			// can't fail; every connection exists
			_ = w.Set(c.Lag, c.To, c.From, x[k])
		}

		l, err := net.Loss(seq, w, cfg)
		if err != nil {
			if lossErr == nil {
				lossErr = err
			}
			return math.NaN()
		}

		return l
	}

	numeric := fd.Gradient(nil, f, x, &fd.Settings{
		Formula: fd.Central,
		Step:    step,
	})

	if lossErr != nil {
		return nil, errors.Wrapf(lossErr, "Failed to compute loss for finite differences\n")
	}

	diff := make([]float64, len(conns))
	floats.SubTo(diff, analytic, numeric)

	r := &Report{
		Loss:    loss,
		Entries: make([]Entry, len(conns)),
	}

	for k, c := range conns {
		e := Entry{
			Connection: c,
			Analytic:   analytic[k],
			Numeric:    numeric[k],
			AbsErr:     math.Abs(diff[k]),
		}

		if m := math.Max(math.Abs(analytic[k]), math.Abs(numeric[k])); m > 0 {
			e.RelErr = e.AbsErr / m
		}

		r.Entries[k] = e
		r.MaxAbsErr = math.Max(r.MaxAbsErr, e.AbsErr)
		r.MaxRelErr = math.Max(r.MaxRelErr, e.RelErr)
	}

	return r, nil
}

// Converges runs Check once for each step, returning the maximum absolute error of each. For a
// correct gradient, the errors shrink along with the step until rounding error dominates.
func Converges(net *bptt.Network, seq bptt.Sequence, ws *bptt.Weights, cfg bptt.Config, steps []float64) ([]float64, error) {
	errs := make([]float64, len(steps))
	for i, h := range steps {
		r, err := Check(net, seq, ws, cfg, h)
		if err != nil {
			return nil, err
		}

		errs[i] = r.MaxAbsErr
	}

	return errs, nil
}
