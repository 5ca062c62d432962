package costfuncs

type squaredError int8

// SquaredError returns the sum of squared errors cost function, which implements
// bptt.CostFunction. The cost of a step is Σ ½(out - target)², so that its derivative is simply
// out - target.
func SquaredError() squaredError {
	return squaredError(0)
}

// L2 is a proxy for SquaredError
func L2() squaredError {
	return SquaredError()
}

func (m squaredError) TypeString() string {
	return "squared-error"
}

func (m squaredError) Cost(outs, targets []float64) float64 {
	var sum float64
	for i := range outs {
		d := outs[i] - targets[i]
		sum += 0.5 * d * d
	}

	return sum
}

func (m squaredError) Derivs(outs, targets []float64) []float64 {
	ds := make([]float64, len(outs))
	for i := range outs {
		ds[i] = outs[i] - targets[i]
	}

	return ds
}

type mse int8

// MSE returns the mean squared error cost function, which implements bptt.CostFunction. It is
// SquaredError divided by the number of outputs.
func MSE() mse {
	return mse(0)
}

func (m mse) TypeString() string {
	return "mse"
}

func (m mse) Cost(outs, targets []float64) float64 {
	return SquaredError().Cost(outs, targets) / float64(len(outs))
}

func (m mse) Derivs(outs, targets []float64) []float64 {
	ds := SquaredError().Derivs(outs, targets)

	n := float64(len(outs))
	for i := range ds {
		ds[i] /= n
	}

	return ds
}
