package initializers

type leCun struct {
	*varianceScaling
}

// LeCun is VarianceScaling based on the number of incoming connections, with a factor of 1.
func LeCun() leCun {
	return leCun{VarianceScaling().In().Factor(1)}
}

type he struct {
	*varianceScaling
}

// He is VarianceScaling based on the number of incoming connections, with a factor of 2. It is
// suited to ReLU activations.
func He() he {
	return he{VarianceScaling().In().Factor(2)}
}

type xavier struct {
	*varianceScaling
}

// Xavier is VarianceScaling based on the average of incoming and outgoing connections, with a
// factor of 1.
func Xavier() xavier {
	return xavier{VarianceScaling().Avg().Factor(1)}
}

// Glorot is a proxy for Xavier
func Glorot() xavier {
	return Xavier()
}
