package bptt

import (
	"sync"

	"github.com/pkg/errors"
)

// Serializable is implemented by types that carry parameters that must be stored alongside their
// TypeString in order to be recreated, e.g. the δ of a Huber cost or the decay rates of Adam.
//
// Get returns a value that can be JSON-encoded. Blank returns a pointer that the same JSON can be
// decoded into, after which the value that returned it is usable.
type Serializable interface {
	Get() interface{}
	Blank() interface{}
}

var registry = struct {
	sync.RWMutex

	activations  map[string]func() Activation
	costFuncs    map[string]func() CostFunction
	optimizers   map[string]func() Optimizer
	hyperParams  map[string]func() HyperParameter
	penalties    map[string]func() Penalty
	initializers map[string]func() Initializer
}{
	activations:  make(map[string]func() Activation),
	costFuncs:    make(map[string]func() CostFunction),
	optimizers:   make(map[string]func() Optimizer),
	hyperParams:  make(map[string]func() HyperParameter),
	penalties:    make(map[string]func() Penalty),
	initializers: make(map[string]func() Initializer),
}

// register is the shared body of all of the RegisterX functions. 'fresh' checks for duplicates,
// and 'set' stores the function. Both are called with the lock held.
func register(kind, name string, isNil bool, fresh func() bool, set func()) error {
	if isNil {
		return errors.WithStack(NilArgError{"Function to register " + kind + " " + name})
	}

	registry.Lock()
	defer registry.Unlock()

	if !fresh() {
		return errors.Wrapf(ErrRegisterDuplicate, "Failed to register %s %q\n", kind, name)
	}

	set()
	return nil
}

// RegisterActivation registers the function to produce the Activation with the given name, so
// that it may be recreated from a stored run configuration.
func RegisterActivation(name string, f func() Activation) error {
	return register("Activation", name, f == nil,
		func() bool { _, ok := registry.activations[name]; return !ok },
		func() { registry.activations[name] = f })
}

// RegisterCostFunction registers the function to produce the CostFunction with the given name.
func RegisterCostFunction(name string, f func() CostFunction) error {
	return register("CostFunction", name, f == nil,
		func() bool { _, ok := registry.costFuncs[name]; return !ok },
		func() { registry.costFuncs[name] = f })
}

// RegisterOptimizer registers the function to produce the Optimizer with the given name.
func RegisterOptimizer(name string, f func() Optimizer) error {
	return register("Optimizer", name, f == nil,
		func() bool { _, ok := registry.optimizers[name]; return !ok },
		func() { registry.optimizers[name] = f })
}

// RegisterHyperParameter registers the function to produce the HyperParameter with the given
// name.
func RegisterHyperParameter(name string, f func() HyperParameter) error {
	return register("HyperParameter", name, f == nil,
		func() bool { _, ok := registry.hyperParams[name]; return !ok },
		func() { registry.hyperParams[name] = f })
}

// RegisterPenalty registers the function to produce the Penalty with the given name.
func RegisterPenalty(name string, f func() Penalty) error {
	return register("Penalty", name, f == nil,
		func() bool { _, ok := registry.penalties[name]; return !ok },
		func() { registry.penalties[name] = f })
}

// RegisterInitializer registers the function to produce the Initializer with the given name.
// Initializers have no TypeString, so the name must be given.
func RegisterInitializer(name string, f func() Initializer) error {
	return register("Initializer", name, f == nil,
		func() bool { _, ok := registry.initializers[name]; return !ok },
		func() { registry.initializers[name] = f })
}

// RegisterAll registers every function in the list under the TypeString of the value it returns.
// Each element must be one of: func() Activation, func() CostFunction, func() Optimizer,
// func() HyperParameter, or func() Penalty.
//
// RegisterAll stops at the first error.
func RegisterAll(list []interface{}) error {
	for i, v := range list {
		var err error

		switch f := v.(type) {
		case func() Activation:
			a := f()
			if a == nil {
				return errors.Wrapf(ErrRegisterNilReturn, "Element %d of list\n", i)
			}
			err = RegisterActivation(a.TypeString(), f)
		case func() CostFunction:
			c := f()
			if c == nil {
				return errors.Wrapf(ErrRegisterNilReturn, "Element %d of list\n", i)
			}
			err = RegisterCostFunction(c.TypeString(), f)
		case func() Optimizer:
			o := f()
			if o == nil {
				return errors.Wrapf(ErrRegisterNilReturn, "Element %d of list\n", i)
			}
			err = RegisterOptimizer(o.TypeString(), f)
		case func() HyperParameter:
			h := f()
			if h == nil {
				return errors.Wrapf(ErrRegisterNilReturn, "Element %d of list\n", i)
			}
			err = RegisterHyperParameter(h.TypeString(), f)
		case func() Penalty:
			p := f()
			if p == nil {
				return errors.Wrapf(ErrRegisterNilReturn, "Element %d of list\n", i)
			}
			err = RegisterPenalty(p.TypeString(), f)
		default:
			return errors.Wrapf(ErrRegisterWrongType, "Element %d of list has type %T\n", i, v)
		}

		if err != nil {
			return err
		}
	}

	return nil
}

// NewActivation returns a new instance of the Activation registered under the name.
func NewActivation(name string) (Activation, error) {
	registry.RLock()
	f, ok := registry.activations[name]
	registry.RUnlock()

	if !ok {
		return nil, errors.Wrapf(ErrRegisterWrongType, "No Activation %q\n", name)
	}

	return f(), nil
}

// NewCostFunction returns a new instance of the CostFunction registered under the name.
func NewCostFunction(name string) (CostFunction, error) {
	registry.RLock()
	f, ok := registry.costFuncs[name]
	registry.RUnlock()

	if !ok {
		return nil, errors.Wrapf(ErrRegisterWrongType, "No CostFunction %q\n", name)
	}

	return f(), nil
}

// NewOptimizer returns a new instance of the Optimizer registered under the name.
func NewOptimizer(name string) (Optimizer, error) {
	registry.RLock()
	f, ok := registry.optimizers[name]
	registry.RUnlock()

	if !ok {
		return nil, errors.Wrapf(ErrRegisterWrongType, "No Optimizer %q\n", name)
	}

	return f(), nil
}

// NewHyperParameter returns a new instance of the HyperParameter registered under the name.
func NewHyperParameter(name string) (HyperParameter, error) {
	registry.RLock()
	f, ok := registry.hyperParams[name]
	registry.RUnlock()

	if !ok {
		return nil, errors.Wrapf(ErrRegisterWrongType, "No HyperParameter %q\n", name)
	}

	return f(), nil
}

// NewPenalty returns a new instance of the Penalty registered under the name.
func NewPenalty(name string) (Penalty, error) {
	registry.RLock()
	f, ok := registry.penalties[name]
	registry.RUnlock()

	if !ok {
		return nil, errors.Wrapf(ErrRegisterWrongType, "No Penalty %q\n", name)
	}

	return f(), nil
}

// NewInitializer returns a new instance of the Initializer registered under the name.
func NewInitializer(name string) (Initializer, error) {
	registry.RLock()
	f, ok := registry.initializers[name]
	registry.RUnlock()

	if !ok {
		return nil, errors.Wrapf(ErrRegisterWrongType, "No Initializer %q\n", name)
	}

	return f(), nil
}
