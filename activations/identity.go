package activations

type identity int8

// Identity returns the linear activation, s(net) = net. It is typically set on output units with
// SetActivation when targets are not bounded.
func Identity() identity {
	return identity(0)
}

// Linear is a proxy for Identity
func Linear() identity {
	return Identity()
}

func (t identity) TypeString() string {
	return "identity"
}

func (t identity) Value(net float64) float64 {
	return net
}

func (t identity) Deriv(net, x float64) float64 {
	return 1
}
