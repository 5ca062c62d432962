package bptt

import (
	"fmt"

	"github.com/pkg/errors"
)

// Error is a wrapper for specific types of errors for which there is no additional information
// necessary. These errors are defined as global variables.
type Error struct{ string }

func (err Error) Error() string {
	return err.string
}

// These are the global errors that may be returned or panicked.
var (
	ErrRegisterWrongType = Error{"Type is not recognized"}
	ErrRegisterNilReturn = Error{"Function return is nil"}
	ErrRegisterDuplicate = Error{"Type name is already registered"}

	ErrNetNotFinalized = Error{"Network has not been finalized"}
	ErrNetFinalized    = Error{"Network has already been finalized"}
	ErrNilWeights      = Error{"Weights are nil"}
	ErrNoOutputs       = Error{"Network has no output units"}
	ErrTrainerFinished = Error{"Trainer has already converged or failed"}
)

// NilArgError documents errors resulting from certain arguments provided to a function being nil.
type NilArgError struct{ string }

func (err NilArgError) Error() string {
	return err.string + " is nil"
}

// SizeMismatchError is given when the number of values provided does not match the number
// expected.
type SizeMismatchError struct {
	Expected, Given int
	Of              string
}

func (err SizeMismatchError) Error() string {
	return fmt.Sprintf("Size mismatch for %s: expected %d, got %d", err.Of, err.Expected, err.Given)
}

// ConfigError is returned whenever the architecture, the data, or the training configuration
// cannot be used. It is always produced before any computation starts, and is fatal to the call.
type ConfigError struct {
	Reason string
}

func (err *ConfigError) Error() string {
	return "Configuration error: " + err.Reason
}

func configErrorf(format string, args ...interface{}) error {
	return errors.WithStack(&ConfigError{fmt.Sprintf(format, args...)})
}

// IsConfigError returns whether or not the cause of err is a *ConfigError.
func IsConfigError(err error) bool {
	_, ok := errors.Cause(err).(*ConfigError)
	return ok
}

// Phase identifies the part of a training iteration that produced an InstabilityError.
type Phase string

const (
	PhaseForward  Phase = "forward"
	PhaseAdjoint  Phase = "adjoint"
	PhaseGradient Phase = "gradient"
)

// InstabilityError marks a non-finite value (NaN or ±Inf) produced during a forward or backward
// pass. Retrying with the same inputs reproduces the same failure; the hyperparameters or the
// inputs must change first.
//
// Unit is -1 when the value does not belong to a single unit (e.g. the gradient norm). Step is 0
// for gradient values, which are summed over all steps.
type InstabilityError struct {
	Phase Phase
	Step  int
	Unit  int
	Value float64
}

func (err *InstabilityError) Error() string {
	return fmt.Sprintf("Numerical instability in %s pass: value %v at step %d, unit %d",
		err.Phase, err.Value, err.Step, err.Unit)
}

// IsInstability returns whether or not the cause of err is an *InstabilityError.
func IsInstability(err error) bool {
	_, ok := errors.Cause(err).(*InstabilityError)
	return ok
}
