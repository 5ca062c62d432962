package optimizers

type sgd int8

// SGD returns plain gradient descent, which implements bptt.Optimizer. Each weight moves by
// -learningRate * gradient.
func SGD() sgd {
	return sgd(0)
}

// GradientDescent is a proxy for SGD
func GradientDescent() sgd {
	return SGD()
}

func (g sgd) TypeString() string {
	return "sgd"
}

func (g sgd) Run(lag, size int, grad func(int) float64, add func(int, float64), learningRate float64) error {
	for i := 0; i < size; i++ {
		add(i, -learningRate*grad(i))
	}

	return nil
}

func (g sgd) Reset() {}
