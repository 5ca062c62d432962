package initializers

import (
	"math"
	"math/rand"

	"github.com/sharnoff/bptt"
)

type varianceScaling struct {
	// either: "in", "out", "avg"
	mode   string
	factor float64
}

const defaultVarianceMode string = "avg"

// VarianceScaling returns the variance scaling initializer, which has 3 modes and a user-defined
// scaling factor. The three modes can be set by In, Out, and Avg. It defaults to Avg.
//
// Weights are drawn from a normal distribution truncated at 2 standard deviations, with variance
// factor / scale. The scale is the number of incoming connections of the unit for In, outgoing
// connections for Out, and their average for Avg. A unit with no outgoing connections uses its
// incoming count in every mode.
func VarianceScaling() *varianceScaling {
	return &varianceScaling{defaultVarianceMode, defaultValue["varscl-factor"]}
}

// Factor sets the scaling factor to be used for the Initializer. The default factor can be set by
// SetDefault("varscl-factor")
func (v *varianceScaling) Factor(f float64) *varianceScaling {
	v.factor = f
	return v
}

// In sets the scaling to be based on the number of incoming connections to the Unit.
func (v *varianceScaling) In() *varianceScaling {
	v.mode = "in"
	return v
}

// Out sets the scaling to be based on the number of outgoing connections from the Unit.
func (v *varianceScaling) Out() *varianceScaling {
	v.mode = "out"
	return v
}

// Avg sets the scaling to be based on the average of the numbers of incoming and outgoing
// connections.
func (v *varianceScaling) Avg() *varianceScaling {
	v.mode = "avg"
	return v
}

func (v *varianceScaling) scale(u *bptt.Unit) float64 {
	in, out := float64(u.NumInputs()), float64(u.NumOutputs())
	if out == 0 {
		return in
	}

	switch v.mode {
	case "in":
		return in
	case "out":
		return out
	}

	return (in + out) / 2
}

// Set is the implementation of bptt.Initializer
func (v *varianceScaling) Set(u *bptt.Unit, ws []float64, rng *rand.Rand) {
	scale := v.scale(u)
	if scale == 0 {
		return
	}

	gen := TruncNormal()
	gen.Mean(0).SD(math.Sqrt(v.factor / scale))

	for i := range ws {
		ws[i] = gen.Gen(rng)
	}
}
