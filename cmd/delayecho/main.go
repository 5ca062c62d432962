// Command delayecho trains a recurrent network to repeat its input two steps later:
// y(t) = x(t-2). The first two steps of every sequence have no target.
//
// The task can only be learned through connections with a lag, so it exercises the two-step
// weights directly.
package main

import (
	"context"
	"flag"
	"math/rand"
	"os"
	"os/signal"

	"github.com/sirupsen/logrus"

	"github.com/sharnoff/bptt"
	"github.com/sharnoff/bptt/activations"
	"github.com/sharnoff/bptt/costfuncs"
	"github.com/sharnoff/bptt/hyperparams"
	"github.com/sharnoff/bptt/initializers"
	"github.com/sharnoff/bptt/optimizers"
	"github.com/sharnoff/bptt/store"
)

const (
	statusFrequency int = 50

	// number of steps at the start of each sequence without a target
	delay int = 2
)

var (
	numSeqs  = flag.Int("sequences", 16, "number of training sequences")
	numSteps = flag.Int("steps", 10, "length of each sequence")
	epochs   = flag.Int("epochs", 2000, "maximum number of epochs")
	workers  = flag.Int("workers", 4, "number of sequences processed in parallel")
	seed     = flag.Int64("seed", 1, "random seed for data and weights")
	savePath = flag.String("save", "", "directory to save the trained weights to")
	loadPath = flag.String("load", "", "directory to load starting weights from")
	verbose  = flag.Bool("v", false, "log every epoch")
)

func build() (*bptt.Network, error) {
	net := new(bptt.Network)

	in := net.AddInput("in")
	bias := net.AddBias("bias")
	h := net.AddHidden("memory")
	out := net.AddOutput("out")

	// the input reaches the output either directly with lag 2, or through the hidden unit with
	// one step of lag on each side
	net.Connect(in, out, 2).
		Connect(in, h, 1).
		Connect(h, out, 1).
		Connect(bias, h, 0).
		Connect(bias, out, 0)

	return net, net.Finalize()
}

func sequences(rng *rand.Rand, n, steps int) []bptt.Sequence {
	seqs := make([]bptt.Sequence, n)
	for k := range seqs {
		xs := make([][]float64, steps)
		ys := make([][]float64, steps)

		for t := range xs {
			xs[t] = []float64{float64(rng.Intn(2))}
			if t >= delay {
				ys[t] = []float64{xs[t-delay][0]}
			}
		}

		seqs[k] = bptt.Sequence{Inputs: xs, Targets: ys}
	}

	return seqs
}

func main() {
	flag.Parse()

	log := logrus.New()
	log.Formatter = &logrus.TextFormatter{FullTimestamp: true}
	if *verbose {
		log.SetLevel(logrus.DebugLevel)
	}

	net, err := build()
	if err != nil {
		log.WithError(err).Fatal("Failed to build network")
	}

	rng := rand.New(rand.NewSource(*seed))

	var ws *bptt.Weights
	if *loadPath != "" {
		ws, err = store.LoadWeights(net, *loadPath)
	} else {
		ws, err = net.InitWeights(initializers.Xavier(), rng)
	}
	if err != nil {
		log.WithError(err).Fatal("Failed to get starting weights")
	}

	cfg := bptt.Config{
		Schedule:      hyperparams.Step(0.5).Add(1000, 0.1),
		MaxEpochs:     *epochs,
		LagDepth:      2,
		Activation:    activations.Logistic(),
		CostFunction:  costfuncs.CrossEntropy(),
		Optimizer:     optimizers.Momentum(0.9),
		ClipNorm:      5,
		LossThreshold: 0.05,
		Workers:       *workers,
		Logger:        log,
		SendStatus:    bptt.Every(statusFrequency),
		Update: func(s bptt.Status) {
			log.WithFields(logrus.Fields{
				"epoch":     s.Epoch,
				"loss":      s.Loss,
				"grad_norm": s.GradNorm,
				"lr":        s.LearningRate,
			}).Info("Status")
		},
	}

	seqs := sequences(rng, *numSeqs, *numSteps)
	test := sequences(rng, *numSeqs, *numSteps)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	res, err := net.TrainBatch(ctx, seqs, ws, cfg)
	if err != nil && res == nil {
		log.WithError(err).Fatal("Failed to start training")
	} else if err != nil {
		log.WithError(err).WithField("reason", res.Reason).Error("Training stopped early")
	}

	acc, err := net.Accuracy(test, res.Weights, cfg, bptt.CorrectRound)
	if err != nil {
		log.WithError(err).Fatal("Failed to test")
	}

	log.WithFields(logrus.Fields{
		"epochs":    res.Epochs,
		"loss":      res.LastLoss,
		"converged": res.Converged,
		"accuracy":  acc,
	}).Info("Done")

	if *savePath != "" {
		if err := store.SaveWeights(res.Weights, *savePath, true); err != nil {
			log.WithError(err).Fatal("Failed to save weights")
		}
	}
}
