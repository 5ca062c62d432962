package bptt

import (
	"github.com/pkg/errors"
	"go.uber.org/atomic"

	"github.com/sharnoff/bptt/utils"
)

// forwardAll runs the forward pass for every sequence, returning their Histories and losses. Each
// sequence gets its own History, so the sequences are processed in parallel; the Weights are only
// read.
//
// If any sequence fails, the remaining ones are skipped and the error of the failing sequence
// with the lowest index is returned.
func (tr *Trainer) forwardAll(seqs []Sequence) ([]*History, []float64, error) {
	hs := make([]*History, len(seqs))
	losses := make([]float64, len(seqs))
	errs := make([]error, len(seqs))

	var aborted atomic.Bool
	var completed atomic.Int64

	f := func(k int) {
		if aborted.Load() {
			return
		}

		h, err := tr.pass.forward(tr.ws, seqs[k].Inputs)
		if err == nil {
			losses[k], err = tr.pass.loss(h, seqs[k].Targets)
		}

		if err != nil {
			errs[k] = errors.Wrapf(err, "Forward pass of sequence %d failed\n", k)
			aborted.Store(true)
			return
		}

		hs[k] = h
		completed.Inc()
	}

	utils.MultiThread(0, len(seqs), f, 1, tr.cfg.workers())

	if aborted.Load() {
		tr.log.WithField("completed", completed.Load()).Debug("Forward pass aborted")
		return nil, nil, firstError(errs)
	}

	return hs, losses, nil
}

// backwardAll runs the adjoint pass and gradient accumulation for every sequence in parallel,
// then merges the per-sequence gradients. The merge is the only point where results of different
// sequences meet, and is done as a fixed pairwise reduction after every sequence has finished so
// that the result doesn't depend on the number of workers.
func (tr *Trainer) backwardAll(seqs []Sequence, hs []*History, losses []float64) (*Gradients, error) {
	gs := make([]*Gradients, len(seqs))
	errs := make([]error, len(seqs))

	var aborted atomic.Bool

	f := func(k int) {
		if aborted.Load() {
			return
		}

		trace, err := tr.pass.backward(hs[k], tr.ws, seqs[k], losses[k])
		if err != nil {
			errs[k] = errors.Wrapf(err, "Backward pass of sequence %d failed\n", k)
			aborted.Store(true)
			return
		}

		gs[k] = trace.Gradients
	}

	utils.MultiThread(0, len(seqs), f, 1, tr.cfg.workers())

	if aborted.Load() {
		return nil, firstError(errs)
	}

	return utils.PairwiseReduce(gs, func(a, b *Gradients) *Gradients {
		a.add(b)
		return a
	}), nil
}

func firstError(errs []error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}

	return nil
}

// sumLosses adds the losses in index order
func sumLosses(losses []float64) float64 {
	var total float64
	for _, l := range losses {
		total += l
	}

	return total
}
