package bptt

import (
	"io"
	"math"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// Objective selects whether training decreases or increases the total of the CostFunction.
type Objective int8

const (
	// Minimize treats the CostFunction as a loss: weights move against the gradient.
	Minimize Objective = iota
	// Maximize treats the CostFunction as a utility: weights move along the gradient.
	Maximize
)

func (o Objective) String() string {
	if o == Maximize {
		return "maximize"
	}

	return "minimize"
}

// Config is the full set of options for a training run. Nothing is read from the environment;
// any field left at its zero value either disables the feature it controls or is an error, as
// documented on each field.
type Config struct {
	// LearningRate is the step size given to the Optimizer. It must be positive unless Schedule
	// is set.
	LearningRate float64

	// Schedule, if not nil, gives the learning rate for each epoch instead of LearningRate.
	Schedule HyperParameter

	// MaxEpochs is the largest number of updates that will be made. Must be positive.
	MaxEpochs int

	// LagDepth is the largest connection lag that participates: 0, 1 or 2. A Network with a
	// connection of a larger lag is a configuration error.
	LagDepth int

	// Activation is used for every computed unit that does not have its own. Required.
	Activation Activation

	// CostFunction is the per-step loss. Required for training.
	CostFunction CostFunction

	// Optimizer is the update rule. Required for training.
	Optimizer Optimizer

	// Objective selects the direction of the updates.
	Objective Objective

	// Penalty, if not nil, is applied to each gradient before clipping.
	Penalty Penalty

	// ClipNorm, if positive, is the ceiling on the norm of the gradients. A larger norm is
	// uniformly rescaled down to it.
	ClipNorm float64

	// InitialState sets the unit values at steps 0 and -1.
	InitialState InitialState

	// LossThreshold, if positive, stops training once the loss of an epoch is below it.
	LossThreshold float64

	// GradThreshold, if positive, stops training once the gradient norm of an epoch is below it.
	GradThreshold float64

	// Workers is the number of goroutines used to process the sequences of a batch. Values less
	// than 1 mean 1.
	Workers int

	// Logger receives progress and failures. If nil, nothing is logged.
	Logger logrus.FieldLogger

	// SendStatus indicates whether or not to send a Status through Update after the given epoch.
	// SendStatus can be left nil to represent an unconditional false.
	SendStatus func(epoch int) bool

	// Update is how status updates are returned. May be nil if SendStatus is nil.
	Update func(Status)
}

// Status is a snapshot of training progress, sent through Config.Update.
type Status struct {
	// Epoch is the number of updates made so far
	Epoch int

	// Loss is the total loss of the forward pass for this epoch, before the update
	Loss float64

	// GradNorm is the norm of the gradients before penalties and clipping
	GradNorm float64

	LearningRate float64
	State        State
}

// Validate checks the Config for use with the Network. It returns a *ConfigError describing the
// first problem found.
func (cfg *Config) Validate(net *Network) error {
	if err := cfg.validateInference(net); err != nil {
		return err
	}

	if cfg.Schedule == nil && !(cfg.LearningRate > 0) {
		return configErrorf("Learning rate must be positive (%v)", cfg.LearningRate)
	} else if math.IsInf(cfg.LearningRate, 0) {
		return configErrorf("Learning rate must be finite")
	} else if cfg.MaxEpochs < 1 {
		return configErrorf("Maximum epochs must be positive (%d)", cfg.MaxEpochs)
	} else if cfg.CostFunction == nil {
		return errors.WithStack(&ConfigError{NilArgError{"Config.CostFunction"}.Error()})
	} else if cfg.Optimizer == nil {
		return errors.WithStack(&ConfigError{NilArgError{"Config.Optimizer"}.Error()})
	} else if cfg.Objective != Minimize && cfg.Objective != Maximize {
		return configErrorf("Unknown objective %d", cfg.Objective)
	} else if cfg.ClipNorm < 0 || math.IsNaN(cfg.ClipNorm) {
		return configErrorf("Gradient clipping norm must be positive, or 0 to disable (%v)", cfg.ClipNorm)
	} else if cfg.LossThreshold < 0 || cfg.GradThreshold < 0 {
		return configErrorf("Convergence thresholds can't be negative")
	} else if cfg.SendStatus != nil && cfg.Update == nil {
		return configErrorf("SendStatus is set but Update is nil")
	}

	components := []interface{}{cfg.Activation, cfg.CostFunction, cfg.Optimizer, cfg.Schedule, cfg.Penalty}
	for _, c := range components {
		if v, ok := c.(Validator); ok {
			if err := v.Validate(); err != nil {
				return configErrorf("%v", err)
			}
		}
	}

	return nil
}

// validateInference checks only the fields needed for a forward pass.
func (cfg *Config) validateInference(net *Network) error {
	if net.stat < finalized {
		return errors.WithStack(ErrNetNotFinalized)
	} else if cfg.LagDepth < 0 || cfg.LagDepth > MaxLag {
		return configErrorf("Lag depth must be in the range [0, %d] (%d)", MaxLag, cfg.LagDepth)
	} else if net.maxLag > cfg.LagDepth {
		return configErrorf("Network has connections with lag %d, but the lag depth is %d", net.maxLag, cfg.LagDepth)
	}

	if cfg.Activation == nil {
		for _, u := range net.unitsByID {
			if !u.role.IsSource() && u.act == nil {
				return errors.WithStack(&ConfigError{NilArgError{"Config.Activation"}.Error()})
			}
		}
	}

	return cfg.InitialState.validate(net)
}

func (cfg *Config) learningRate(epoch int) float64 {
	if cfg.Schedule != nil {
		return cfg.Schedule.Value(epoch)
	}

	return cfg.LearningRate
}

func (cfg *Config) logger() logrus.FieldLogger {
	if cfg.Logger != nil {
		return cfg.Logger
	}

	l := logrus.New()
	l.Out = io.Discard
	return l
}

func (cfg *Config) workers() int {
	if cfg.Workers < 1 {
		return 1
	}

	return cfg.Workers
}

// activations returns the Activation for every unit, indexed by id. Source units get nil.
func (cfg *Config) activations(net *Network) []Activation {
	acts := make([]Activation, net.NumUnits())
	for _, u := range net.unitsByID {
		if u.role.IsSource() {
			continue
		} else if u.act != nil {
			acts[u.id] = u.act
		} else {
			acts[u.id] = cfg.Activation
		}
	}

	return acts
}
