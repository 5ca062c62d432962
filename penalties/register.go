// Package penalties provides weight regularization, given as bptt.Config.Penalty. A Penalty adds
// the derivative of its term to each weight's gradient before the update.
package penalties

import (
	"github.com/sharnoff/bptt"
)

func init() {
	list := []interface{}{
		func() bptt.Penalty { return ElasticNet(0, 0) },
		func() bptt.Penalty { return L1(0) },
		func() bptt.Penalty { return L2(0) },
	}

	if err := bptt.RegisterAll(list); err != nil {
		panic(err)
	}
}
