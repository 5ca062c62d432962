package bptt_test

import (
	"math"
	"math/rand"
	"testing"

	"github.com/sharnoff/bptt"
	"github.com/sharnoff/bptt/activations"
	"github.com/sharnoff/bptt/costfuncs"
	"github.com/sharnoff/bptt/initializers"
	"github.com/sharnoff/bptt/optimizers"
)

func approx(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}

func baseConfig() bptt.Config {
	return bptt.Config{
		LearningRate: 0.1,
		MaxEpochs:    10,
		LagDepth:     bptt.MaxLag,
		Activation:   activations.Logistic(),
		CostFunction: costfuncs.SquaredError(),
		Optimizer:    optimizers.SGD(),
	}
}

// recurrent builds a network using every lag: two inputs, a bias, two hidden units that feed
// themselves and each other with delays, and one output.
func recurrent(t *testing.T) *bptt.Network {
	net := new(bptt.Network)

	ins := []*bptt.Unit{net.AddInput("a"), net.AddInput("b")}
	bias := net.AddBias("bias")
	hs := []*bptt.Unit{net.AddHidden("h0"), net.AddHidden("h1")}
	out := net.AddOutput("out")

	net.ConnectAll(ins, hs, 0).
		ConnectAll([]*bptt.Unit{bias}, hs, 0).
		ConnectAll(hs, hs, 1).
		Connect(hs[0], hs[1], 0).
		Connect(hs[1], hs[0], 2).
		ConnectAll(hs, []*bptt.Unit{out}, 0).
		Connect(ins[0], out, 2).
		Connect(bias, out, 0)

	if err := net.Finalize(); err != nil {
		t.Fatalf("Finalize() = %v", err)
	}

	return net
}

func randomWeights(t *testing.T, net *bptt.Network, seed int64) *bptt.Weights {
	ws, err := net.InitWeights(initializers.Uniform().Range(-1, 1), rand.New(rand.NewSource(seed)))
	if err != nil {
		t.Fatalf("InitWeights() = %v", err)
	}

	return ws
}

// randomSequence gives a sequence with targets in (0, 1) at every step except the first.
func randomSequence(rng *rand.Rand, net *bptt.Network, steps int) bptt.Sequence {
	seq := bptt.Sequence{
		Inputs:  make([][]float64, steps),
		Targets: make([][]float64, steps),
	}

	for s := range seq.Inputs {
		seq.Inputs[s] = make([]float64, net.InputSize())
		for i := range seq.Inputs[s] {
			seq.Inputs[s][i] = rng.NormFloat64()
		}

		if s == 0 {
			continue
		}

		seq.Targets[s] = make([]float64, net.OutputSize())
		for i := range seq.Targets[s] {
			seq.Targets[s][i] = 0.1 + 0.8*rng.Float64()
		}
	}

	return seq
}

func randomSequences(seed int64, net *bptt.Network, n, steps int) []bptt.Sequence {
	rng := rand.New(rand.NewSource(seed))

	seqs := make([]bptt.Sequence, n)
	for k := range seqs {
		seqs[k] = randomSequence(rng, net, steps)
	}

	return seqs
}

func expectPanic(t *testing.T, name string, f func()) {
	t.Helper()

	defer func() {
		if recover() == nil {
			t.Errorf("%s did not panic", name)
		}
	}()

	f()
}
