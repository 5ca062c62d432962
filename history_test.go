package bptt

import (
	"testing"
)

func TestHistoryAppendOnly(t *testing.T) {
	net := new(Network)
	net.AddBias("bias")
	u := net.AddOutput("u")
	net.Connect(u, u, 1)
	if err := net.Finalize(); err != nil {
		t.Fatal(err)
	}

	h := newHistory(net, 2, InitialState{})

	if h.Written() != 0 || h.Steps() != 2 {
		t.Fatalf("Written() = %d, Steps() = %d; want 0, 2", h.Written(), h.Steps())
	}

	// bias units are 1 even before the first step
	if h.X(0, 0) != 1 || h.X(-1, 0) != 1 || h.X(0, u.id) != 0 {
		t.Errorf("initial values = %v, %v, %v; want 1, 1, 0", h.X(0, 0), h.X(-1, 0), h.X(0, u.id))
	}

	func() {
		defer func() {
			if recover() == nil {
				t.Errorf("X(1) before it was written did not panic")
			}
		}()
		h.X(1, u.id)
	}()

	pre := []float64{1, 0.3}
	x := []float64{1, 0.7}
	for s := 1; s <= 2; s++ {
		if err := h.appendStep(pre, x); err != nil {
			t.Fatalf("appendStep() at step %d = %v", s, err)
		}
	}

	// the History must not alias the slices it was given
	x[1] = 100

	if h.X(2, u.id) != 0.7 || h.Net(2, u.id) != 0.3 {
		t.Errorf("step 2 = (%v, %v), want (0.3, 0.7)", h.Net(2, u.id), h.X(2, u.id))
	}

	if err := h.appendStep(pre, x); err == nil {
		t.Errorf("appendStep() past the end succeeded")
	}

	if vs := h.Values(1); len(vs) != 2 || vs[1] != 0.7 {
		t.Errorf("Values(1) = %v", vs)
	}
}
