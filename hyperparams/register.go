// Package hyperparams provides values that change over the course of training, such as
// learning rate schedules. They can be given as bptt.Config.Schedule.
package hyperparams

import (
	"github.com/sharnoff/bptt"
)

func init() {
	// the values are placeholders; they're replaced when a stored configuration is loaded
	list := []interface{}{
		func() bptt.HyperParameter { return Exponential(0, 1, 1) },
		func() bptt.HyperParameter { return Constant(0) },
		func() bptt.HyperParameter { return Step(0) },
	}

	if err := bptt.RegisterAll(list); err != nil {
		panic(err)
	}
}
