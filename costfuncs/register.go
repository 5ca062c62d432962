// Package costfuncs provides the per-step loss functions that can be given as
// bptt.Config.CostFunction.
package costfuncs

import (
	"github.com/sharnoff/bptt"
)

func init() {
	list := []interface{}{
		func() bptt.CostFunction { return SquaredError() },
		func() bptt.CostFunction { return CrossEntropy() },
		func() bptt.CostFunction { return Huber(1) },
		func() bptt.CostFunction { return MSE() },
		func() bptt.CostFunction { return Abs() },
	}

	if err := bptt.RegisterAll(list); err != nil {
		panic(err)
	}
}
