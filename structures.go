package bptt

// NumLags is the number of weight matrices in a Weights set: same-step, one-step lag and two-step
// lag.
const NumLags int = 3

// MaxLag is the largest time lag a connection may have.
const MaxLag int = NumLags - 1

// Network is the fixed topology of units and connections that a training run operates on. A
// Network holds no weights and no values; those live in Weights and History, so a single
// finalized Network can be shared freely between goroutines.
type Network struct {
	// a list of all of the Units, stored such that their id is their index in this slice
	unitsByID   []*Unit
	unitsByName map[string]*Unit

	inputs, outputs, biases []*Unit

	// every connection, in the order they were added
	conns []Connection

	// order is the evaluation order of all units within a single time-step, consistent with the
	// same-step connections. Set by Finalize.
	order []int

	// maxLag is the largest lag of any connection, set by Finalize
	maxLag int

	// mask is 1 wherever there is a connection and 0 elsewhere, set by Finalize
	mask tensorSet

	// whether or not the network should panic when it encounters an error
	panicErrors bool

	err error

	stat status
}

type status int8

const (
	initialized status = iota // 0
	finalized   status = iota // 1
)

// Role distinguishes how a Unit gets its value.
type Role int8

const (
	// RoleInput units take their value directly from the input sequence.
	RoleInput Role = iota
	// RoleBias units have the value 1 at every step, including the initial states.
	RoleBias
	// RoleHidden units are computed from their connections but are not compared to targets.
	RoleHidden
	// RoleOutput units are computed from their connections and yield the predictions.
	RoleOutput
)

func (r Role) String() string {
	switch r {
	case RoleInput:
		return "input"
	case RoleBias:
		return "bias"
	case RoleHidden:
		return "hidden"
	case RoleOutput:
		return "output"
	}

	return "unknown"
}

// IsSource returns whether or not units of the Role are set externally instead of computed.
func (r Role) IsSource() bool {
	return r == RoleInput || r == RoleBias
}

// Unit is a single addressable node of the Network, present at every time-step.
type Unit struct {
	// The name that will be used to print this unit. Unique within the Network.
	name string

	// index of the Unit in its Network, also its row and column in the weight matrices
	id int

	// used for validation during setup
	host *Network

	role Role

	// overrides the Activation given by the Config, if not nil
	act Activation

	// incoming and outgoing connections
	inputs, outputs []Connection

	// index into the Network's inputs or outputs, -1 if not applicable
	inputIndex, outputIndex int
}

// Connection is a single weight: the value of From at step t-Lag feeds the pre-activation of To
// at step t.
type Connection struct {
	From, To int
	Lag      int
}
