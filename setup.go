package bptt

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"
)

// PanicErrors sets the Network to panic on any error encountered while constructing it, instead
// of storing the error to be returned by Finalize.
func (net *Network) PanicErrors() *Network {
	net.panicErrors = true
	return net
}

func (net *Network) init() {
	if net.unitsByName != nil {
		return
	}

	net.unitsByName = make(map[string]*Unit)
}

// add creates a new Unit with the given role. It returns nil if the Network is already in an
// error state or the Unit cannot be created.
func (net *Network) add(name string, role Role) *Unit {
	net.init()

	if net.err != nil {
		return nil
	} else if net.stat >= finalized {
		net.setError(ErrNetFinalized)
		return nil
	} else if name == "" {
		net.setError(errors.Errorf(`Unit name cannot be ""`))
		return nil
	} else if strings.Contains(name, `"`) {
		net.setError(errors.Errorf(`Unit name %s contains illegal character: "`, name))
		return nil
	} else if net.unitsByName[name] != nil {
		net.setError(errors.Errorf("Unit name %q is already taken", name))
		return nil
	}

	u := &Unit{
		name:        name,
		id:          len(net.unitsByID),
		host:        net,
		role:        role,
		inputIndex:  -1,
		outputIndex: -1,
	}

	switch role {
	case RoleInput:
		u.inputIndex = len(net.inputs)
		net.inputs = append(net.inputs, u)
	case RoleOutput:
		u.outputIndex = len(net.outputs)
		net.outputs = append(net.outputs, u)
	case RoleBias:
		net.biases = append(net.biases, u)
	}

	net.unitsByName[name] = u
	net.unitsByID = append(net.unitsByID, u)
	return u
}

// AddInput adds a Unit whose value at step t is taken from the input sequence. Input units are
// given values in the order they were added.
func (net *Network) AddInput(name string) *Unit {
	return net.add(name, RoleInput)
}

// AddBias adds a Unit with a constant value of 1.
func (net *Network) AddBias(name string) *Unit {
	return net.add(name, RoleBias)
}

// AddHidden adds a computed Unit that is not an output.
func (net *Network) AddHidden(name string) *Unit {
	return net.add(name, RoleHidden)
}

// AddOutput adds a computed Unit whose values are the Network's predictions. Outputs are compared
// against targets in the order they were added.
func (net *Network) AddOutput(name string) *Unit {
	return net.add(name, RoleOutput)
}

// Connect adds a connection from one Unit to another with the given time lag. A lag of 0 means
// the value of 'from' at step t feeds 'to' at the same step; lags 1 and 2 read 'from' at step t-1
// and t-2. Same-step connections must not form a loop, which is checked by Finalize.
//
// Errors are stored and returned by Finalize.
func (net *Network) Connect(from, to *Unit, lag int) *Network {
	if net.err != nil {
		return net
	} else if net.stat >= finalized {
		net.setError(ErrNetFinalized)
		return net
	}

	if from == nil {
		net.setError(NilArgError{"Connection source"})
		return net
	} else if to == nil {
		net.setError(NilArgError{"Connection target"})
		return net
	} else if from.host != net || to.host != net {
		net.setError(errors.Errorf("Can't connect %v to %v, Units do not belong to this Network", from, to))
		return net
	} else if lag < 0 || lag > MaxLag {
		net.setError(errors.Errorf("Can't connect %v to %v, lag %d is out of the range [0, %d]", from, to, lag, MaxLag))
		return net
	} else if to.role.IsSource() {
		net.setError(errors.Errorf("Can't connect %v to %v, %s Units can't have inputs", from, to, to.role))
		return net
	}

	for _, c := range to.inputs {
		if c.From == from.id && c.Lag == lag {
			net.setError(errors.Errorf("Connection from %v to %v with lag %d already exists", from, to, lag))
			return net
		}
	}

	c := Connection{From: from.id, To: to.id, Lag: lag}
	net.conns = append(net.conns, c)
	to.inputs = append(to.inputs, c)
	from.outputs = append(from.outputs, c)

	return net
}

// ConnectAll connects every Unit in 'from' to every Unit in 'to' with the given lag. It is the
// equivalent of a fully-connected layer.
func (net *Network) ConnectAll(from, to []*Unit, lag int) *Network {
	for _, t := range to {
		for _, f := range from {
			net.Connect(f, t, lag)
		}
	}

	return net
}

// SetActivation overrides the Activation used for this Unit. Setting it on a source Unit has no
// effect.
func (u *Unit) SetActivation(a Activation) *Unit {
	if u == nil {
		return u
	} else if u.host.stat >= finalized {
		u.host.setError(ErrNetFinalized)
		return u
	}

	u.act = a
	return u
}

// Finalize completes construction of the Network. It checks that the Network has outputs and that
// the same-step connections contain no loops, and determines the order units are evaluated within
// a time-step.
//
// Any error encountered during construction is returned here. If the error is an architecture
// problem, it is a *ConfigError.
func (net *Network) Finalize() error {
	net.init()

	if net.err != nil {
		return net.err
	} else if net.stat >= finalized {
		return nil
	}

	if len(net.outputs) == 0 {
		net.setError(errors.WithStack(ErrNoOutputs))
		return net.err
	}

	order, err := net.sameStepOrder()
	if err != nil {
		net.setError(err)
		return err
	}

	net.order = order

	net.mask = newTensorSet(net.NumUnits())
	for _, c := range net.conns {
		net.mask[c.Lag].Set(c.To, c.From, 1)
		if c.Lag > net.maxLag {
			net.maxLag = c.Lag
		}
	}

	// remove the unused capacity from the slices
	net.conns = append([]Connection(nil), net.conns...)
	for _, u := range net.unitsByID {
		u.inputs = append([]Connection(nil), u.inputs...)
		u.outputs = append([]Connection(nil), u.outputs...)
	}

	net.stat = finalized
	return nil
}

// sameStepOrder topologically sorts the graph formed by the lag-0 connections. Ties are broken by
// unit id so the order is deterministic.
func (net *Network) sameStepOrder() ([]int, error) {
	g := simple.NewDirectedGraph()
	for _, u := range net.unitsByID {
		g.AddNode(simple.Node(u.id))
	}

	for _, c := range net.conns {
		if c.Lag != 0 {
			continue
		}

		if c.From == c.To {
			return nil, configErrorf("Unit %v receives input from itself with no delay", net.unitsByID[c.From])
		}

		g.SetEdge(g.NewEdge(simple.Node(c.From), simple.Node(c.To)))
	}

	sorted, err := topo.SortStabilized(g, nil)
	if err != nil {
		if cycles, ok := err.(topo.Unorderable); ok {
			return nil, configErrorf("Same-step connections form a loop: %s", net.describeCycles(cycles))
		}

		return nil, errors.Wrap(err, "Sorting same-step connections failed")
	}

	order := make([]int, len(sorted))
	for i, n := range sorted {
		order[i] = int(n.ID())
	}

	return order, nil
}

func (net *Network) describeCycles(cycles topo.Unorderable) string {
	var parts []string
	for _, component := range cycles {
		names := make([]string, len(component))
		for i, n := range component {
			names[i] = net.unitsByID[int(n.ID())].String()
		}

		parts = append(parts, "{"+strings.Join(names, ", ")+"}")
	}

	return strings.Join(parts, "; ")
}

// String returns the Unit's name in quotes. A nil Unit gives "<nil>".
func (u *Unit) String() string {
	if u == nil {
		return "<nil>"
	}

	return fmt.Sprintf("%q", u.name)
}
