package bptt

// setError sets the Network's stored error to the error provided. If net.panicErrors is true,
// setError will additionally panic the error it is given.
func (net *Network) setError(e error) {
	net.err = e
	if net.panicErrors {
		panic(e)
	}
}

// Error returns any errors encountered while constructing the Network. This method will always
// return nil after the Network has been SUCCESSFULLY finalized.
func (net *Network) Error() error {
	return net.err
}

// IsFinalized returns whether or not Finalize has completed successfully.
func (net *Network) IsFinalized() bool {
	return net.stat >= finalized
}

// Units returns the list of all Units in the Network, sorted by ID such that Units()[n] has id=n.
// The slice that Units returns is a copy; it can be modified freely but will not update if more
// Units are added to the Network.
func (net *Network) Units() []*Unit {
	us := make([]*Unit, len(net.unitsByID))
	copy(us, net.unitsByID)
	return us
}

// NumUnits returns the number of Units in the Network, which is also the size of each weight
// matrix.
func (net *Network) NumUnits() int {
	return len(net.unitsByID)
}

// Unit returns the Unit with the given id, or nil if there is none.
func (net *Network) Unit(id int) *Unit {
	if id < 0 || id >= len(net.unitsByID) {
		return nil
	}

	return net.unitsByID[id]
}

// UnitByName returns the Unit with the given name, or nil if there is none.
func (net *Network) UnitByName(name string) *Unit {
	return net.unitsByName[name]
}

// Inputs returns a copy of the input Units, in the order their values are read from each step of
// an input sequence.
func (net *Network) Inputs() []*Unit {
	return append([]*Unit(nil), net.inputs...)
}

// Outputs returns a copy of the output Units, in the order their values are compared to targets.
func (net *Network) Outputs() []*Unit {
	return append([]*Unit(nil), net.outputs...)
}

// InputSize returns the number of values expected at each step of an input sequence.
func (net *Network) InputSize() int {
	return len(net.inputs)
}

// OutputSize returns the number of values produced at each step.
func (net *Network) OutputSize() int {
	return len(net.outputs)
}

// Connections returns a copy of every connection in the Network, in the order they were added.
func (net *Network) Connections() []Connection {
	return append([]Connection(nil), net.conns...)
}

// MaxLag returns the largest lag of any connection in the Network. It returns -1 if the Network
// has not been finalized.
func (net *Network) MaxLag() int {
	if net.stat < finalized {
		return -1
	}

	return net.maxLag
}

// Order returns the ids of all Units in the order they are evaluated within a time-step. It
// returns nil if the Network has not been finalized.
func (net *Network) Order() []int {
	if net.stat < finalized {
		return nil
	}

	return append([]int(nil), net.order...)
}

// Name returns the name of the Unit.
func (u *Unit) Name() string {
	return u.name
}

// ID returns the non-negative integer given to the Unit as a member of its Network. It is also
// the Unit's row (for incoming weights) and column (for outgoing weights) in every weight matrix.
func (u *Unit) ID() int {
	return u.id
}

// Role returns how the Unit gets its value.
func (u *Unit) Role() Role {
	return u.role
}

// IsInput returns whether or not the Unit takes its value from the input sequence.
func (u *Unit) IsInput() bool {
	return u.role == RoleInput
}

// IsOutput returns whether or not the Unit is an output Unit.
func (u *Unit) IsOutput() bool {
	return u.role == RoleOutput
}

// Activation returns the Activation set specifically for this Unit, or nil if it uses the one
// given by the training configuration.
func (u *Unit) Activation() Activation {
	return u.act
}

// NumInputs returns the number of incoming connections, across all lags.
func (u *Unit) NumInputs() int {
	return len(u.inputs)
}

// NumOutputs returns the number of outgoing connections, across all lags.
func (u *Unit) NumOutputs() int {
	return len(u.outputs)
}

// InputConnections returns a copy of the connections into the Unit.
func (u *Unit) InputConnections() []Connection {
	return append([]Connection(nil), u.inputs...)
}

// OutputConnections returns a copy of the connections out of the Unit.
func (u *Unit) OutputConnections() []Connection {
	return append([]Connection(nil), u.outputs...)
}
