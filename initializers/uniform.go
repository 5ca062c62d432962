package initializers

import (
	"math/rand"

	"github.com/sharnoff/bptt"
)

type uniform struct {
	lower, upper float64
}

// Uniform returns an Initializer that draws from a uniform random sample within a range, which
// can be set by Range. The defaults ("uniform-lower" and "uniform-upper") can be set by
// SetDefault. Zero is never drawn.
//
// The result of Uniform is a type that implements bptt.Initializer.
func Uniform() *uniform {
	return &uniform{defaultValue["uniform-lower"], defaultValue["uniform-upper"]}
}

// Range sets the Range of a Uniform Initializer, returning the same Initializer
func (u *uniform) Range(lower, upper float64) *uniform {
	if lower > upper {
		lower, upper = upper, lower
	}

	u.lower = lower
	u.upper = upper
	return u
}

func (u *uniform) Set(unit *bptt.Unit, ws []float64, rng *rand.Rand) {
	if u.lower == u.upper {
		for i := range ws {
			ws[i] = u.lower
		}
		return
	}

	for i := 0; i < len(ws); i++ {
		w := rng.Float64()*(u.upper-u.lower) + u.lower
		if w == 0 {
			// discard and try again
			i--
			continue
		}
		ws[i] = w
	}
}
