package optimizers

import (
	"github.com/sharnoff/bptt"
)

// lagState holds one slice of per-weight state for each weight matrix. Slices are allocated on
// first use, because the number of weights isn't known until then.
type lagState [bptt.NumLags][]float64

func (s *lagState) get(lag, size int) []float64 {
	if len(s[lag]) != size {
		s[lag] = make([]float64, size)
	}

	return s[lag]
}

func (s *lagState) reset() {
	for l := range s {
		s[l] = nil
	}
}
