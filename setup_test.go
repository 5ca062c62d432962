package bptt_test

import (
	"testing"

	"github.com/pkg/errors"

	"github.com/sharnoff/bptt"
)

func TestFinalizeOrder(t *testing.T) {
	net := new(bptt.Network)
	out := net.AddOutput("out")
	h := net.AddHidden("h")
	in := net.AddInput("in")

	// added in reverse, so the order must come from the connections
	net.Connect(in, h, 0).Connect(h, out, 0).Connect(out, h, 1)
	if err := net.Finalize(); err != nil {
		t.Fatalf("Finalize() = %v", err)
	}

	pos := make(map[int]int)
	for k, id := range net.Order() {
		pos[id] = k
	}

	if !(pos[in.ID()] < pos[h.ID()] && pos[h.ID()] < pos[out.ID()]) {
		t.Errorf("Order() = %v, want in before h before out", net.Order())
	}

	if net.MaxLag() != 1 {
		t.Errorf("MaxLag() = %d, want 1", net.MaxLag())
	}
}

func TestFinalizeSameStepCycle(t *testing.T) {
	net := new(bptt.Network)
	in := net.AddInput("in")
	a := net.AddHidden("a")
	b := net.AddHidden("b")
	out := net.AddOutput("out")

	net.Connect(in, a, 0).Connect(a, b, 0).Connect(b, a, 0).Connect(b, out, 0)

	err := net.Finalize()
	if !bptt.IsConfigError(err) {
		t.Fatalf("Finalize() = %v, want *ConfigError", err)
	}

	if net.IsFinalized() {
		t.Errorf("Network with a same-step loop was finalized")
	}
}

func TestFinalizeDelayedCycle(t *testing.T) {
	net := new(bptt.Network)
	a := net.AddHidden("a")
	b := net.AddOutput("b")

	net.Connect(a, b, 0).Connect(b, a, 1).Connect(b, b, 2)
	if err := net.Finalize(); err != nil {
		t.Fatalf("Finalize() = %v, loops with a delay should be allowed", err)
	}
}

func TestSetupErrors(t *testing.T) {
	tests := []struct {
		name  string
		build func(net *bptt.Network)
	}{
		{"self loop without delay", func(net *bptt.Network) {
			h := net.AddOutput("h")
			net.Connect(h, h, 0)
		}},
		{"lag too large", func(net *bptt.Network) {
			in := net.AddInput("in")
			net.Connect(in, net.AddOutput("out"), bptt.MaxLag+1)
		}},
		{"input as target", func(net *bptt.Network) {
			out := net.AddOutput("out")
			net.Connect(out, net.AddInput("in"), 1)
		}},
		{"duplicate connection", func(net *bptt.Network) {
			in := net.AddInput("in")
			out := net.AddOutput("out")
			net.Connect(in, out, 1).Connect(in, out, 1)
		}},
		{"duplicate name", func(net *bptt.Network) {
			net.AddInput("x")
			net.AddOutput("x")
		}},
		{"no outputs", func(net *bptt.Network) {
			net.Connect(net.AddInput("in"), net.AddHidden("h"), 0)
		}},
	}

	for _, test := range tests {
		net := new(bptt.Network)
		test.build(net)

		if err := net.Finalize(); err == nil {
			t.Errorf("%s: Finalize() succeeded, want error", test.name)
		}
	}
}

func TestNoOutputsSentinel(t *testing.T) {
	net := new(bptt.Network)
	net.AddInput("in")

	if err := net.Finalize(); errors.Cause(err) != bptt.ErrNoOutputs {
		t.Errorf("Finalize() = %v, want ErrNoOutputs", err)
	}
}

func TestWeightsOnlyOnConnections(t *testing.T) {
	net := recurrent(t)
	ws, err := net.NewWeights()
	if err != nil {
		t.Fatal(err)
	}

	a := net.UnitByName("a").ID()
	out := net.UnitByName("out").ID()

	if err := ws.Set(2, out, a, 0.5); err != nil {
		t.Errorf("Set() on a connection = %v", err)
	}

	if err := ws.Set(1, out, a, 0.5); !bptt.IsConfigError(err) {
		t.Errorf("Set() without a connection = %v, want *ConfigError", err)
	}

	if ws.At(2, out, a) != 0.5 || ws.At(1, out, a) != 0 {
		t.Errorf("weights = %v, %v; want 0.5, 0", ws.At(2, out, a), ws.At(1, out, a))
	}
}
