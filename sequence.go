package bptt

import (
	"strconv"

	"github.com/pkg/errors"
)

// Sequence is a single time-ordered training example. Inputs[t-1] holds the values of the input
// units at step t, in the order the input units were added.
//
// Targets[t-1] holds the expected values of the output units at step t. A nil (or length 0) entry
// signifies that the outputs at that step are not significant; that step contributes nothing to
// the loss. Targets may be nil entirely when the Sequence is only used for inference.
type Sequence struct {
	Inputs  [][]float64
	Targets [][]float64
}

// Steps returns the length of the Sequence, T.
func (s Sequence) Steps() int {
	return len(s.Inputs)
}

// checkInputs validates the shape of a sequence of inputs for the Network
func (net *Network) checkInputs(inputs [][]float64) error {
	if len(inputs) < 1 {
		return configErrorf("Sequence must have at least one step (T = %d)", len(inputs))
	}

	for t, in := range inputs {
		if len(in) != len(net.inputs) {
			return errors.WithStack(&ConfigError{SizeMismatchError{len(net.inputs), len(in), "inputs at step " + strconv.Itoa(t+1)}.Error()})
		}
	}

	return nil
}

// checkSequence validates both the inputs and targets of the Sequence
func (net *Network) checkSequence(s Sequence) error {
	if err := net.checkInputs(s.Inputs); err != nil {
		return err
	}

	if len(s.Targets) != len(s.Inputs) {
		return errors.WithStack(&ConfigError{SizeMismatchError{len(s.Inputs), len(s.Targets), "target steps"}.Error()})
	}

	for t, tg := range s.Targets {
		if len(tg) != 0 && len(tg) != len(net.outputs) {
			return errors.WithStack(&ConfigError{SizeMismatchError{len(net.outputs), len(tg), "targets at step " + strconv.Itoa(t+1)}.Error()})
		}
	}

	return nil
}

func (net *Network) checkWeights(ws *Weights) error {
	if ws == nil {
		return errors.WithStack(ErrNilWeights)
	} else if ws.host != net {
		return configErrorf("Weights belong to a different Network")
	}

	return nil
}
