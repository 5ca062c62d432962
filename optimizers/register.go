// Package optimizers provides the update rules that can be given as bptt.Config.Optimizer.
// Optimizers with state keep it separately for each weight matrix, and clear it on Reset.
package optimizers

import (
	"github.com/sharnoff/bptt"
)

func init() {
	list := []interface{}{
		func() bptt.Optimizer { return SGD() },
		func() bptt.Optimizer { return Momentum(0.9) },
		func() bptt.Optimizer { return RMSProp(0.9) },
		func() bptt.Optimizer { return Adam() },
	}

	if err := bptt.RegisterAll(list); err != nil {
		panic(err)
	}
}
