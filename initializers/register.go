// Package initializers provides ways of setting the starting weights of a bptt.Network, given
// to Network.InitWeights.
package initializers

import (
	"math"

	"github.com/pkg/errors"

	"github.com/sharnoff/bptt"
)

// default values, because 'default' is a keyword
var defaultValue = map[string]float64{
	"uniform-lower": -1,
	"uniform-upper": 1,
	"normal-mean":   0,
	"normal-sd":     1,
	"varscl-factor": 1,
}

func init() {
	list := map[string]func() bptt.Initializer{
		"uniform": func() bptt.Initializer { return Uniform() },
		"normal":  func() bptt.Initializer { return Random(Normal()) },
		"xavier":  func() bptt.Initializer { return Xavier() },
		"lecun":   func() bptt.Initializer { return LeCun() },
		"he":      func() bptt.Initializer { return He() },
	}

	for s, f := range list {
		err := bptt.RegisterInitializer(s, f)
		if err != nil {
			panic(err.Error())
		}
	}
}

// SetDefault changes one of the default values used by the Initializers and RNGs created after
// it. The values that can be set are: "uniform-lower", "uniform-upper", "normal-mean",
// "normal-sd", and "varscl-factor".
//
// SetDefault is not safe to call concurrently with the creation of Initializers.
func SetDefault(name string, value float64) error {
	if _, ok := defaultValue[name]; !ok {
		return errors.Errorf("Value with name %q does not exist", name)
	} else if math.IsNaN(value) || math.IsInf(value, 0) {
		return errors.Errorf("Value is invalid (%v)", value)
	}

	defaultValue[name] = value
	return nil
}

// SetDefault_Lazy simply calls SetDefault, but panics instead of returning an error
func SetDefault_Lazy(name string, value float64) {
	if err := SetDefault(name, value); err != nil {
		panic(err)
	}
}
