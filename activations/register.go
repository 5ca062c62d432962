// Package activations provides the squashing functions that can be used by the units of a
// bptt.Network.
package activations

import (
	"github.com/sharnoff/bptt"
)

func init() {
	list := []interface{}{
		func() bptt.Activation { return LeakyReLU(0) },
		func() bptt.Activation { return Identity() },
		func() bptt.Activation { return Logistic() },
		func() bptt.Activation { return Softplus() },
		func() bptt.Activation { return Softsign() },
		func() bptt.Activation { return Tanh() },
		func() bptt.Activation { return ReLU() },
		func() bptt.Activation { return ELU() },
	}

	if err := bptt.RegisterAll(list); err != nil {
		panic(err)
	}
}
