package optimizers

import (
	"math"
	"testing"

	"github.com/sharnoff/bptt"
)

// run applies one call of the Optimizer to ws with the given gradients
func run(t *testing.T, o bptt.Optimizer, lag int, ws, gs []float64, lr float64) {
	t.Helper()

	err := o.Run(lag, len(ws), func(i int) float64 { return gs[i] }, func(i int, d float64) { ws[i] += d }, lr)
	if err != nil {
		t.Fatalf("%s: Run() = %v", o.TypeString(), err)
	}
}

func TestSGD(t *testing.T) {
	ws := []float64{1, -1}
	run(t, SGD(), 0, ws, []float64{0.5, -2}, 0.1)

	if math.Abs(ws[0]-0.95) > 1e-12 || math.Abs(ws[1]+0.8) > 1e-12 {
		t.Errorf("weights = %v, want [0.95 -0.8]", ws)
	}
}

func TestMomentum(t *testing.T) {
	m := Momentum(0.5)
	ws := []float64{0}

	run(t, m, 0, ws, []float64{1}, 1) // v = -1
	run(t, m, 0, ws, []float64{1}, 1) // v = -1.5

	if ws[0] != -2.5 {
		t.Errorf("weight = %v, want -2.5", ws[0])
	}

	// a different lag has its own velocity
	other := []float64{0}
	run(t, m, 1, other, []float64{1}, 1)
	if other[0] != -1 {
		t.Errorf("weight at lag 1 = %v, want -1", other[0])
	}

	m.Reset()
	ws[0] = 0
	run(t, m, 0, ws, []float64{1}, 1)
	if ws[0] != -1 {
		t.Errorf("weight after Reset = %v, want -1", ws[0])
	}
}

func TestNesterov(t *testing.T) {
	m := Momentum(0.5).Nesterov()
	ws := []float64{0}

	// v = -1, step = 0.5*-1 - 1 = -1.5
	run(t, m, 0, ws, []float64{1}, 1)
	if ws[0] != -1.5 {
		t.Errorf("weight = %v, want -1.5", ws[0])
	}
}

// The first step of Adam and RMSProp has a magnitude close to the learning rate regardless of
// the size of the gradient.
func TestAdaptiveFirstStep(t *testing.T) {
	for _, o := range []bptt.Optimizer{Adam(), RMSProp(0)} {
		for _, g := range []float64{1e-3, 1, 1e3} {
			o.Reset()

			ws := []float64{0}
			run(t, o, 2, ws, []float64{g}, 0.01)

			if math.Abs(ws[0]+0.01) > 1e-6 {
				t.Errorf("%s: first step with gradient %v = %v, want -0.01", o.TypeString(), g, ws[0])
			}
		}
	}
}

func TestInvalidDecay(t *testing.T) {
	for _, o := range []bptt.Optimizer{Momentum(1), RMSProp(-0.1), Adam().Betas(0.9, 1)} {
		err := o.Run(0, 1, func(int) float64 { return 1 }, func(int, float64) {}, 0.1)
		if err == nil {
			t.Errorf("%s: Run() with invalid decay succeeded", o.TypeString())
		}

		if v, ok := o.(bptt.Validator); !ok || v.Validate() == nil {
			t.Errorf("%s: Validate() did not report the invalid decay", o.TypeString())
		}
	}
}
