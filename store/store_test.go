package store

import (
	"math/rand"
	"path/filepath"
	"testing"

	"github.com/sharnoff/bptt"
	"github.com/sharnoff/bptt/activations"
	"github.com/sharnoff/bptt/costfuncs"
	"github.com/sharnoff/bptt/hyperparams"
	"github.com/sharnoff/bptt/initializers"
	"github.com/sharnoff/bptt/optimizers"
	"github.com/sharnoff/bptt/penalties"
)

func network(t *testing.T, lag int) *bptt.Network {
	net := new(bptt.Network)
	in := net.AddInput("in")
	h := net.AddHidden("h")
	out := net.AddOutput("out")
	net.Connect(in, h, 0).Connect(h, h, lag).Connect(h, out, 0)

	if err := net.Finalize(); err != nil {
		t.Fatal(err)
	}

	return net
}

func TestWeights(t *testing.T) {
	net := network(t, 1)
	ws, err := net.InitWeights(initializers.Xavier(), rand.New(rand.NewSource(3)))
	if err != nil {
		t.Fatal(err)
	}

	dir := filepath.Join(t.TempDir(), "weights")
	if err := SaveWeights(ws, dir, false); err != nil {
		t.Fatalf("SaveWeights() = %v", err)
	}

	if err := SaveWeights(ws, dir, false); err == nil {
		t.Errorf("SaveWeights() over an existing directory without overwrite succeeded")
	} else if err := SaveWeights(ws, dir, true); err != nil {
		t.Errorf("SaveWeights() with overwrite = %v", err)
	}

	loaded, err := LoadWeights(net, dir)
	if err != nil {
		t.Fatalf("LoadWeights() = %v", err)
	}

	if !loaded.Equal(ws) {
		t.Errorf("loaded weights differ from saved weights")
	}

	// same units, but the self connection has a different lag
	if _, err := LoadWeights(network(t, 2), dir); err == nil {
		t.Errorf("LoadWeights() into a different Network succeeded")
	}
}

func TestRunConfig(t *testing.T) {
	cfg := bptt.Config{
		Schedule:     hyperparams.Step(0.5).Add(100, 0.05),
		MaxEpochs:    300,
		LagDepth:     2,
		Activation:   activations.LeakyReLU(0.2),
		CostFunction: costfuncs.Huber(0.7),
		Optimizer:    optimizers.Adam().Betas(0.8, 0.99),
		Penalty:      penalties.ElasticNet(0.3, 0.01),
		Objective:    bptt.Maximize,
		ClipNorm:     4,
		Workers:      3,
	}

	rc, err := FromConfig(cfg)
	if err != nil {
		t.Fatalf("FromConfig() = %v", err)
	}

	rc.Initializer = "he"

	path := filepath.Join(t.TempDir(), "run.json")
	if err := SaveRunConfig(path, rc); err != nil {
		t.Fatalf("SaveRunConfig() = %v", err)
	}

	loaded, err := LoadRunConfig(path)
	if err != nil {
		t.Fatalf("LoadRunConfig() = %v", err)
	}

	got, err := loaded.ToConfig()
	if err != nil {
		t.Fatalf("ToConfig() = %v", err)
	}

	if got.Schedule.Value(150) != 0.05 || got.Activation.Value(-1) != -0.2 {
		t.Errorf("schedule or activation parameters were lost")
	}

	if got.CostFunction.Cost([]float64{2}, []float64{0}) != cfg.CostFunction.Cost([]float64{2}, []float64{0}) {
		t.Errorf("cost function parameters were lost")
	}

	if got.Penalty.Penalize(1, 0) != cfg.Penalty.Penalize(1, 0) {
		t.Errorf("penalty parameters were lost")
	}

	if got.Objective != bptt.Maximize || got.MaxEpochs != 300 || got.Workers != 3 || got.ClipNorm != 4 {
		t.Errorf("ToConfig() = %+v", got)
	}

	if got.Optimizer.TypeString() != "adam" {
		t.Errorf("Optimizer = %s, want adam", got.Optimizer.TypeString())
	}

	if in, err := loaded.NewInitializer(nil); err != nil || in == nil {
		t.Errorf("NewInitializer() = %v, %v", in, err)
	}
}

func TestUnknownComponent(t *testing.T) {
	rc := &RunConfig{
		MaxEpochs:    1,
		Activation:   Component{Type: "logistic"},
		CostFunction: Component{Type: "no-such-cost"},
		Optimizer:    Component{Type: "sgd"},
	}

	if _, err := rc.ToConfig(); err == nil {
		t.Errorf("ToConfig() with an unknown cost function succeeded")
	}
}
