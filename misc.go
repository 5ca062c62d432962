package bptt

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// Every returns a function that satisfies Config.SendStatus, reporting on every epoch that is a
// multiple of 'frequency'.
func Every(frequency int) func(int) bool {
	if frequency < 1 {
		frequency = 1
	}

	return func(epoch int) bool {
		return epoch%frequency == 0
	}
}

// CorrectRound returns whether or not every output rounds to its target, with 0.5 as the
// boundary. Steps without targets are always correct. Assumes that, if given, len(outs) ==
// len(targets).
func CorrectRound(outs, targets []float64) bool {
	if len(targets) == 0 {
		return true
	}

	for i := range outs {
		if math.Round(outs[i]) != math.Round(targets[i]) {
			return false
		}
	}

	return true
}

// CorrectHighest returns whether or not the largest output is at the same index as the largest
// target. Steps without targets are always correct.
func CorrectHighest(outs, targets []float64) bool {
	if len(targets) == 0 {
		return true
	}

	return floats.MaxIdx(outs) == floats.MaxIdx(targets)
}

// Accuracy runs the Network over the inputs of every Sequence and returns the fraction of steps
// with targets for which isCorrect holds.
func (net *Network) Accuracy(seqs []Sequence, ws *Weights, cfg Config, isCorrect func(outs, targets []float64) bool) (float64, error) {
	var correct, total int

	for _, s := range seqs {
		if err := net.checkSequence(s); err != nil {
			return 0, err
		}

		outs, err := net.Forward(s.Inputs, ws, cfg)
		if err != nil {
			return 0, err
		}

		for t, target := range s.Targets {
			if len(target) == 0 {
				continue
			}

			total++
			if isCorrect(outs[t], target) {
				correct++
			}
		}
	}

	if total == 0 {
		return 0, configErrorf("No steps with targets")
	}

	return float64(correct) / float64(total), nil
}
