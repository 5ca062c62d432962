package store

import (
	"encoding/json"

	"github.com/pkg/errors"

	"github.com/sharnoff/bptt"
)

// Component names a registered type, along with its parameters if it has any.
type Component struct {
	Type   string          `json:"type"`
	Params json.RawMessage `json:"params,omitempty"`
}

// RunConfig is the serializable form of a bptt.Config. Components are stored by the name they
// are registered under, so the packages providing them must be imported before ToConfig is
// called.
type RunConfig struct {
	LearningRate float64    `json:"learning_rate,omitempty"`
	Schedule     *Component `json:"schedule,omitempty"`
	MaxEpochs    int        `json:"max_epochs"`
	LagDepth     int        `json:"lag_depth"`

	Activation   Component  `json:"activation"`
	CostFunction Component  `json:"cost_function"`
	Optimizer    Component  `json:"optimizer"`
	Penalty      *Component `json:"penalty,omitempty"`

	// either "minimize" or "maximize"
	Objective string `json:"objective,omitempty"`

	ClipNorm      float64 `json:"clip_norm,omitempty"`
	LossThreshold float64 `json:"loss_threshold,omitempty"`
	GradThreshold float64 `json:"grad_threshold,omitempty"`
	Workers       int     `json:"workers,omitempty"`

	// Initializer and Seed are not part of a bptt.Config, but are needed to reproduce a run.
	Initializer string `json:"initializer,omitempty"`
	Seed        int64  `json:"seed,omitempty"`
}

type typed interface {
	TypeString() string
}

func component(v typed) (Component, error) {
	c := Component{Type: v.TypeString()}

	if s, ok := v.(bptt.Serializable); ok {
		b, err := json.Marshal(s.Get())
		if err != nil {
			return c, errors.Wrapf(err, "Failed to encode parameters of %q\n", c.Type)
		}

		c.Params = b
	}

	return c, nil
}

// fill decodes the parameters of the Component into v, if there are any.
func (c Component) fill(v interface{}) error {
	if len(c.Params) == 0 {
		return nil
	}

	s, ok := v.(bptt.Serializable)
	if !ok {
		return errors.Errorf("%q has parameters, but can't be given them", c.Type)
	}

	if err := json.Unmarshal(c.Params, s.Blank()); err != nil {
		return errors.Wrapf(err, "Failed to decode parameters of %q\n", c.Type)
	}

	return nil
}

// FromConfig creates the serializable form of the Config. The Logger and status callbacks are
// not stored, nor is the InitialState.
func FromConfig(cfg bptt.Config) (*RunConfig, error) {
	if cfg.Activation == nil || cfg.CostFunction == nil || cfg.Optimizer == nil {
		return nil, errors.Errorf("Config must have an Activation, CostFunction and Optimizer to be stored")
	}

	rc := &RunConfig{
		LearningRate:  cfg.LearningRate,
		MaxEpochs:     cfg.MaxEpochs,
		LagDepth:      cfg.LagDepth,
		Objective:     cfg.Objective.String(),
		ClipNorm:      cfg.ClipNorm,
		LossThreshold: cfg.LossThreshold,
		GradThreshold: cfg.GradThreshold,
		Workers:       cfg.Workers,
	}

	var err error
	if rc.Activation, err = component(cfg.Activation); err != nil {
		return nil, err
	} else if rc.CostFunction, err = component(cfg.CostFunction); err != nil {
		return nil, err
	} else if rc.Optimizer, err = component(cfg.Optimizer); err != nil {
		return nil, err
	}

	if cfg.Schedule != nil {
		c, err := component(cfg.Schedule)
		if err != nil {
			return nil, err
		}
		rc.Schedule = &c
	}

	if cfg.Penalty != nil {
		c, err := component(cfg.Penalty)
		if err != nil {
			return nil, err
		}
		rc.Penalty = &c
	}

	return rc, nil
}

// ToConfig recreates a bptt.Config from the RunConfig, creating every component through the
// bptt registries.
func (rc *RunConfig) ToConfig() (bptt.Config, error) {
	cfg := bptt.Config{
		LearningRate:  rc.LearningRate,
		MaxEpochs:     rc.MaxEpochs,
		LagDepth:      rc.LagDepth,
		ClipNorm:      rc.ClipNorm,
		LossThreshold: rc.LossThreshold,
		GradThreshold: rc.GradThreshold,
		Workers:       rc.Workers,
	}

	switch rc.Objective {
	case "", bptt.Minimize.String():
		cfg.Objective = bptt.Minimize
	case bptt.Maximize.String():
		cfg.Objective = bptt.Maximize
	default:
		return cfg, errors.Errorf("Unknown objective %q", rc.Objective)
	}

	var err error

	if cfg.Activation, err = bptt.NewActivation(rc.Activation.Type); err != nil {
		return cfg, err
	} else if err = rc.Activation.fill(cfg.Activation); err != nil {
		return cfg, err
	}

	if cfg.CostFunction, err = bptt.NewCostFunction(rc.CostFunction.Type); err != nil {
		return cfg, err
	} else if err = rc.CostFunction.fill(cfg.CostFunction); err != nil {
		return cfg, err
	}

	if cfg.Optimizer, err = bptt.NewOptimizer(rc.Optimizer.Type); err != nil {
		return cfg, err
	} else if err = rc.Optimizer.fill(cfg.Optimizer); err != nil {
		return cfg, err
	}

	if rc.Schedule != nil {
		if cfg.Schedule, err = bptt.NewHyperParameter(rc.Schedule.Type); err != nil {
			return cfg, err
		} else if err = rc.Schedule.fill(cfg.Schedule); err != nil {
			return cfg, err
		}
	}

	if rc.Penalty != nil {
		if cfg.Penalty, err = bptt.NewPenalty(rc.Penalty.Type); err != nil {
			return cfg, err
		} else if err = rc.Penalty.fill(cfg.Penalty); err != nil {
			return cfg, err
		}
	}

	return cfg, nil
}

// NewInitializer returns the Initializer named by the RunConfig, or the given fallback if none
// is named.
func (rc *RunConfig) NewInitializer(fallback bptt.Initializer) (bptt.Initializer, error) {
	if rc.Initializer == "" {
		return fallback, nil
	}

	return bptt.NewInitializer(rc.Initializer)
}

// SaveRunConfig writes the RunConfig to the file at path as JSON, replacing anything already
// there.
func SaveRunConfig(path string, rc *RunConfig) error {
	return writeJSON(path, rc)
}

// LoadRunConfig reads a RunConfig from the JSON file at path.
func LoadRunConfig(path string) (*RunConfig, error) {
	rc := new(RunConfig)
	if err := readJSON(path, rc); err != nil {
		return nil, err
	}

	return rc, nil
}
