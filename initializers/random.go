package initializers

import (
	"math/rand"

	"github.com/sharnoff/bptt"
)

type random struct {
	RNG
}

// Random returns an Initializer that uses the provided RNG to generate the weights. There is no
// scaling beyond that of the RNG.
func Random(g RNG) random {
	return random{g}
}

// Set is the implementation of bptt.Initializer
func (r random) Set(u *bptt.Unit, ws []float64, rng *rand.Rand) {
	for i := range ws {
		ws[i] = r.Gen(rng)
	}
}
