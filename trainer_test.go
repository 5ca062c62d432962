package bptt_test

import (
	"context"
	"math"
	"testing"

	"github.com/pkg/errors"

	"github.com/sharnoff/bptt"
	"github.com/sharnoff/bptt/activations"
	"github.com/sharnoff/bptt/costfuncs"
	"github.com/sharnoff/bptt/optimizers"
	"github.com/sharnoff/bptt/penalties"
)

func TestTrainingReducesLoss(t *testing.T) {
	net := recurrent(t)
	ws := randomWeights(t, net, 11)
	seqs := randomSequences(11, net, 4, 6)

	cfg := baseConfig()
	cfg.MaxEpochs = 200
	cfg.LearningRate = 0.05

	res, err := net.TrainBatch(context.Background(), seqs, ws, cfg)
	if err != nil {
		t.Fatalf("TrainBatch() = %v", err)
	}

	if res.Epochs != 200 || len(res.Losses) != 200 || res.Reason != bptt.MaxEpochsReached {
		t.Fatalf("epochs = %d, losses = %d, reason = %v", res.Epochs, len(res.Losses), res.Reason)
	} else if res.Converged {
		t.Errorf("Converged = true without any thresholds")
	} else if res.State != bptt.Converged {
		t.Errorf("State = %v, want %v", res.State, bptt.Converged)
	}

	if last := res.Losses[len(res.Losses)-1]; !(last < res.Losses[0]) {
		t.Errorf("loss went from %v to %v", res.Losses[0], last)
	}

	// the starting weights are never modified
	if !ws.Equal(randomWeights(t, net, 11)) {
		t.Errorf("initial weights were modified by training")
	}
}

func TestMaximize(t *testing.T) {
	net := recurrent(t)
	seqs := randomSequences(5, net, 2, 5)

	cfg := baseConfig()
	cfg.MaxEpochs = 50
	cfg.Objective = bptt.Maximize

	res, err := net.TrainBatch(context.Background(), seqs, randomWeights(t, net, 5), cfg)
	if err != nil {
		t.Fatalf("TrainBatch() = %v", err)
	}

	if last := res.Losses[len(res.Losses)-1]; !(last > res.Losses[0]) {
		t.Errorf("maximized objective went from %v to %v", res.Losses[0], last)
	}
}

func TestLossThreshold(t *testing.T) {
	net := recurrent(t)
	seqs := randomSequences(1, net, 2, 4)

	cfg := baseConfig()
	cfg.LossThreshold = 1e9

	res, err := net.TrainBatch(context.Background(), seqs, randomWeights(t, net, 1), cfg)
	if err != nil {
		t.Fatalf("TrainBatch() = %v", err)
	}

	if res.Epochs != 1 || !res.Converged || res.Reason != bptt.LossThresholdReached {
		t.Errorf("epochs = %d, converged = %v, reason = %v", res.Epochs, res.Converged, res.Reason)
	}
}

// The result must not depend on how many goroutines process the batch.
func TestDeterminism(t *testing.T) {
	net := recurrent(t)
	seqs := randomSequences(21, net, 9, 7)

	run := func(workers int) *bptt.Result {
		cfg := baseConfig()
		cfg.Workers = workers
		cfg.Optimizer = optimizers.Adam()

		res, err := net.TrainBatch(context.Background(), seqs, randomWeights(t, net, 21), cfg)
		if err != nil {
			t.Fatalf("TrainBatch() with %d workers = %v", workers, err)
		}

		return res
	}

	base := run(1)
	for _, w := range []int{1, 2, 4, 16} {
		res := run(w)
		if !res.Weights.Equal(base.Weights) {
			t.Errorf("weights with %d workers differ from 1 worker", w)
		}

		for k := range res.Losses {
			if res.Losses[k] != base.Losses[k] {
				t.Errorf("loss of epoch %d with %d workers = %v, want %v", k, w, res.Losses[k], base.Losses[k])
				break
			}
		}
	}
}

func TestUnconnectedWeightsStayZero(t *testing.T) {
	net := recurrent(t)

	cfg := baseConfig()
	cfg.Penalty = penalties.L2(0.01)
	cfg.Optimizer = optimizers.Momentum(0.5).Nesterov()

	res, err := net.TrainBatch(context.Background(), randomSequences(2, net, 2, 5), randomWeights(t, net, 2), cfg)
	if err != nil {
		t.Fatalf("TrainBatch() = %v", err)
	}

	conn := make(map[bptt.Connection]bool)
	for _, c := range net.Connections() {
		conn[c] = true
	}

	n := net.NumUnits()
	for lag := 0; lag < bptt.NumLags; lag++ {
		for i := 0; i < n; i++ {
			for j := 0; j < n; j++ {
				if !conn[bptt.Connection{From: j, To: i, Lag: lag}] && res.Weights.At(lag, i, j) != 0 {
					t.Errorf("weight at lag %d (%d, %d) = %v without a connection", lag, i, j, res.Weights.At(lag, i, j))
				}
			}
		}
	}
}

func TestInstability(t *testing.T) {
	net := new(bptt.Network)
	in := net.AddInput("in")
	out := net.AddOutput("out")
	out.SetActivation(activations.Identity())
	net.Connect(in, out, 0)
	if err := net.Finalize(); err != nil {
		t.Fatal(err)
	}

	ws, _ := net.NewWeights()
	ws.Set(0, out.ID(), in.ID(), 1e308)

	cfg := baseConfig()
	tr, err := net.NewTrainer(ws, cfg)
	if err != nil {
		t.Fatalf("NewTrainer() = %v", err)
	}

	seqs := []bptt.Sequence{{Inputs: [][]float64{{10}}, Targets: [][]float64{{0}}}}

	res, err := tr.Run(context.Background(), seqs)
	if !bptt.IsInstability(err) {
		t.Fatalf("Run() = %v, want *InstabilityError", err)
	}

	var inst *bptt.InstabilityError
	if e, ok := errors.Cause(err).(*bptt.InstabilityError); ok {
		inst = e
	}

	if inst.Phase != bptt.PhaseForward || inst.Step != 1 || inst.Unit != out.ID() {
		t.Errorf("InstabilityError = %+v", inst)
	}

	if res.Reason != bptt.Instability || tr.State() != bptt.Failed {
		t.Errorf("reason = %v, state = %v", res.Reason, tr.State())
	}

	if _, err := tr.Run(context.Background(), seqs); errors.Cause(err) != bptt.ErrTrainerFinished {
		t.Errorf("Run() after failure = %v, want ErrTrainerFinished", err)
	}
}

// A saturated logistic output against the opposite target has an infinite cross-entropy, which
// must be reported rather than hidden.
func TestSaturatedCrossEntropy(t *testing.T) {
	net := new(bptt.Network)
	in := net.AddInput("in")
	out := net.AddOutput("out")
	net.Connect(in, out, 0)
	if err := net.Finalize(); err != nil {
		t.Fatal(err)
	}

	ws, _ := net.NewWeights()
	ws.Set(0, out.ID(), in.ID(), 1)

	cfg := baseConfig()
	cfg.CostFunction = costfuncs.CrossEntropy()

	seq := bptt.Sequence{Inputs: [][]float64{{-800}}, Targets: [][]float64{{1}}}

	_, loss, err := net.Gradient(seq, ws, cfg)
	if !bptt.IsInstability(err) {
		t.Fatalf("Gradient() = %v, %v, want *InstabilityError", loss, err)
	}

	inst := errors.Cause(err).(*bptt.InstabilityError)
	if inst.Phase != bptt.PhaseForward || inst.Step != 1 || !math.IsInf(inst.Value, 1) {
		t.Errorf("InstabilityError = %+v", inst)
	}

	res, err := net.TrainBatch(context.Background(), []bptt.Sequence{seq}, ws, cfg)
	if !bptt.IsInstability(err) || res.Reason != bptt.Instability || res.State != bptt.Failed {
		t.Errorf("TrainBatch() = %v, reason = %v", err, res.Reason)
	}
}

// Clipping rescales the gradients of every lag together, so one SGD step moves the weights by
// exactly learningRate * ClipNorm along the unclipped gradient.
func TestClipNorm(t *testing.T) {
	net := recurrent(t)
	ws := randomWeights(t, net, 13)
	seqs := randomSequences(13, net, 1, 6)

	cfg := baseConfig()
	cfg.MaxEpochs = 1

	g, _, err := net.Gradient(seqs[0], ws, cfg)
	if err != nil {
		t.Fatalf("Gradient() = %v", err)
	}

	norm := g.Norm()
	cfg.ClipNorm = norm / 10

	res, err := net.TrainBatch(context.Background(), seqs, ws, cfg)
	if err != nil {
		t.Fatalf("TrainBatch() = %v", err)
	}

	if !approx(res.GradNorm, norm, 1e-12) {
		t.Errorf("Result.GradNorm = %v, want unclipped norm %v", res.GradNorm, norm)
	}

	var stepSq float64
	for _, c := range net.Connections() {
		d := res.Weights.At(c.Lag, c.To, c.From) - ws.At(c.Lag, c.To, c.From)
		stepSq += d * d

		want := -cfg.LearningRate * g.At(c.Lag, c.To, c.From) / 10
		if !approx(d, want, 1e-12) {
			t.Errorf("step of %+v = %v, want %v", c, d, want)
		}
	}

	if step := math.Sqrt(stepSq); !approx(step, cfg.LearningRate*cfg.ClipNorm, 1e-12) {
		t.Errorf("step norm = %v, want %v", step, cfg.LearningRate*cfg.ClipNorm)
	}
}

func TestGradThreshold(t *testing.T) {
	net := recurrent(t)

	cfg := baseConfig()
	cfg.GradThreshold = 1e9

	res, err := net.TrainBatch(context.Background(), randomSequences(3, net, 2, 4), randomWeights(t, net, 3), cfg)
	if err != nil {
		t.Fatalf("TrainBatch() = %v", err)
	}

	if res.Epochs != 1 || !res.Converged || res.Reason != bptt.GradThresholdReached || res.State != bptt.Converged {
		t.Errorf("epochs = %d, converged = %v, reason = %v, state = %v", res.Epochs, res.Converged, res.Reason, res.State)
	}
}

func TestCancellation(t *testing.T) {
	net := recurrent(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	tr, err := net.NewTrainer(randomWeights(t, net, 4), baseConfig())
	if err != nil {
		t.Fatal(err)
	}

	res, err := tr.Run(ctx, randomSequences(4, net, 1, 3))
	if errors.Cause(err) != context.Canceled {
		t.Fatalf("Run() = %v, want context.Canceled", err)
	}

	if res.Reason != bptt.Cancelled || res.Epochs != 0 || tr.State() != bptt.Idle {
		t.Errorf("reason = %v, epochs = %d, state = %v", res.Reason, res.Epochs, tr.State())
	}

	// a cancelled run can be resumed
	res, err = tr.Run(context.Background(), randomSequences(4, net, 1, 3))
	if err != nil || res.Epochs != baseConfig().MaxEpochs {
		t.Errorf("resumed Run() = %v after %d epochs", err, res.Epochs)
	}
}

func TestStatusUpdates(t *testing.T) {
	net := recurrent(t)

	var epochs []int
	cfg := baseConfig()
	cfg.MaxEpochs = 9
	cfg.SendStatus = bptt.Every(3)
	cfg.Update = func(s bptt.Status) {
		epochs = append(epochs, s.Epoch)
		if s.State != bptt.Update {
			t.Errorf("status sent in state %v", s.State)
		}
	}

	if _, err := net.TrainBatch(context.Background(), randomSequences(6, net, 1, 3), randomWeights(t, net, 6), cfg); err != nil {
		t.Fatal(err)
	}

	if len(epochs) != 3 || epochs[0] != 3 || epochs[2] != 9 {
		t.Errorf("status epochs = %v, want [3 6 9]", epochs)
	}
}

func TestConfigErrors(t *testing.T) {
	net := recurrent(t)
	ws := randomWeights(t, net, 8)
	good := randomSequences(8, net, 1, 3)

	tests := []struct {
		name string
		cfg  func(*bptt.Config)
		seqs []bptt.Sequence
	}{
		{"lag depth below network", func(c *bptt.Config) { c.LagDepth = 1 }, good},
		{"no optimizer", func(c *bptt.Config) { c.Optimizer = nil }, good},
		{"no learning rate", func(c *bptt.Config) { c.LearningRate = 0 }, good},
		{"no epochs", func(c *bptt.Config) { c.MaxEpochs = 0 }, good},
		{"negative clip", func(c *bptt.Config) { c.ClipNorm = -1 }, good},
		{"momentum decay above 1", func(c *bptt.Config) { c.Optimizer = optimizers.Momentum(1.5) }, good},
		{"adam beta of 1", func(c *bptt.Config) { c.Optimizer = optimizers.Adam().Betas(0.9, 1) }, good},
		{"rmsprop negative decay", func(c *bptt.Config) { c.Optimizer = optimizers.RMSProp(-0.1) }, good},
		{"huber delta of 0", func(c *bptt.Config) { c.CostFunction = costfuncs.Huber(0) }, good},
		{"bad initial state", func(c *bptt.Config) { c.InitialState = bptt.InitialState{Policy: bptt.Supplied} }, good},
		{"empty sequence", func(c *bptt.Config) {}, []bptt.Sequence{{}}},
		{"wrong input width", func(c *bptt.Config) {}, []bptt.Sequence{{
			Inputs:  [][]float64{{1}},
			Targets: [][]float64{nil},
		}}},
		{"wrong target width", func(c *bptt.Config) {}, []bptt.Sequence{{
			Inputs:  [][]float64{{1, 2}},
			Targets: [][]float64{{1, 2}},
		}}},
		{"no sequences", func(c *bptt.Config) {}, nil},
	}

	for _, test := range tests {
		cfg := baseConfig()
		test.cfg(&cfg)

		_, err := net.TrainBatch(context.Background(), test.seqs, ws, cfg)
		if !bptt.IsConfigError(err) {
			t.Errorf("%s: TrainBatch() = %v, want *ConfigError", test.name, err)
		}
	}
}

func TestSuppliedInitialState(t *testing.T) {
	net := new(bptt.Network)
	u := net.AddOutput("u")
	net.Connect(u, u, 2)
	if err := net.Finalize(); err != nil {
		t.Fatal(err)
	}

	ws, _ := net.NewWeights()
	ws.Set(2, u.ID(), u.ID(), 1)

	cfg := baseConfig()
	cfg.Activation = activations.Identity()
	cfg.InitialState = bptt.InitialState{
		Policy:  bptt.Supplied,
		X0:      []float64{3},
		XMinus1: []float64{5},
	}

	preds, err := net.Forward([][]float64{{}, {}, {}, {}}, ws, cfg)
	if err != nil {
		t.Fatalf("Forward() = %v", err)
	}

	// x(1) = x(-1), x(2) = x(0), ...
	want := []float64{5, 3, 5, 3}
	for s := range want {
		if preds[s][0] != want[s] {
			t.Errorf("x(%d) = %v, want %v", s+1, preds[s][0], want[s])
		}
	}
}
