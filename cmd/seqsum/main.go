// Command seqsum trains a small recurrent network to output, at each step, the sum of that
// step's inputs.
package main

import (
	"context"
	"flag"
	"math/rand"
	"os"
	"os/signal"
	"strconv"

	"github.com/sirupsen/logrus"

	"github.com/sharnoff/bptt"
	"github.com/sharnoff/bptt/activations"
	"github.com/sharnoff/bptt/costfuncs"
	"github.com/sharnoff/bptt/gradcheck"
	"github.com/sharnoff/bptt/initializers"
	"github.com/sharnoff/bptt/optimizers"
	"github.com/sharnoff/bptt/store"

	_ "github.com/sharnoff/bptt/hyperparams"
	_ "github.com/sharnoff/bptt/penalties"
)

const statusFrequency int = 100

var (
	numInputs  = flag.Int("inputs", 2, "number of inputs per step")
	numHidden  = flag.Int("hidden", 4, "number of hidden units")
	numSteps   = flag.Int("steps", 5, "length of the sequence")
	epochs     = flag.Int("epochs", 500, "maximum number of epochs")
	rate       = flag.Float64("lr", 0.05, "learning rate")
	seed       = flag.Int64("seed", 42, "random seed for data and weights")
	configPath = flag.String("config", "", "JSON run configuration, replacing the flags above")
	savePath   = flag.String("save", "", "directory to save the trained weights to")
	check      = flag.Bool("check", false, "compare the initial gradient with finite differences")
	verbose    = flag.Bool("v", false, "log every epoch")
)

func build(inputs, hidden int) (*bptt.Network, error) {
	net := new(bptt.Network)

	ins := make([]*bptt.Unit, inputs)
	for i := range ins {
		ins[i] = net.AddInput("x" + strconv.Itoa(i))
	}

	bias := net.AddBias("bias")

	hs := make([]*bptt.Unit, hidden)
	for i := range hs {
		hs[i] = net.AddHidden("h" + strconv.Itoa(i))
	}

	out := net.AddOutput("y")
	out.SetActivation(activations.Identity())

	net.ConnectAll(ins, hs, 0).
		ConnectAll([]*bptt.Unit{bias}, hs, 0).
		ConnectAll(hs, hs, 1).
		ConnectAll(hs, []*bptt.Unit{out}, 0).
		Connect(bias, out, 0)

	return net, net.Finalize()
}

func data(rng *rand.Rand, steps, inputs int) bptt.Sequence {
	seq := bptt.Sequence{
		Inputs:  make([][]float64, steps),
		Targets: make([][]float64, steps),
	}

	for t := range seq.Inputs {
		seq.Inputs[t] = make([]float64, inputs)

		var sum float64
		for i := range seq.Inputs[t] {
			seq.Inputs[t][i] = rng.NormFloat64()
			sum += seq.Inputs[t][i]
		}

		seq.Targets[t] = []float64{sum}
	}

	return seq
}

func config() (bptt.Config, bptt.Initializer, error) {
	initer := bptt.Initializer(initializers.Random(initializers.Normal().SD(0.1)))

	if *configPath == "" {
		return bptt.Config{
			LearningRate: *rate,
			MaxEpochs:    *epochs,
			LagDepth:     1,
			Activation:   activations.Logistic(),
			CostFunction: costfuncs.SquaredError(),
			Optimizer:    optimizers.SGD(),
		}, initer, nil
	}

	rc, err := store.LoadRunConfig(*configPath)
	if err != nil {
		return bptt.Config{}, nil, err
	}

	if rc.Seed != 0 {
		*seed = rc.Seed
	}

	cfg, err := rc.ToConfig()
	if err != nil {
		return cfg, nil, err
	}

	initer, err = rc.NewInitializer(initer)
	return cfg, initer, err
}

func main() {
	flag.Parse()

	log := logrus.New()
	log.Formatter = &logrus.TextFormatter{FullTimestamp: true}
	if *verbose {
		log.SetLevel(logrus.DebugLevel)
	}

	cfg, initer, err := config()
	if err != nil {
		log.WithError(err).Fatal("Failed to load configuration")
	}

	cfg.Logger = log
	cfg.SendStatus = bptt.Every(statusFrequency)
	cfg.Update = func(s bptt.Status) {
		log.WithFields(logrus.Fields{
			"epoch": s.Epoch,
			"loss":  s.Loss,
		}).Info("Status")
	}

	net, err := build(*numInputs, *numHidden)
	if err != nil {
		log.WithError(err).Fatal("Failed to build network")
	}

	rng := rand.New(rand.NewSource(*seed))
	seq := data(rng, *numSteps, *numInputs)

	ws, err := net.InitWeights(initer, rng)
	if err != nil {
		log.WithError(err).Fatal("Failed to initialize weights")
	}

	if *check {
		r, err := gradcheck.Check(net, seq, ws, cfg, 1e-5)
		if err != nil {
			log.WithError(err).Fatal("Gradient check failed")
		}

		log.WithFields(logrus.Fields{
			"max_abs_err": r.MaxAbsErr,
			"max_rel_err": r.MaxRelErr,
		}).Info("Gradient check")
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	res, err := net.TrainBatch(ctx, []bptt.Sequence{seq}, ws, cfg)
	if err != nil && res == nil {
		log.WithError(err).Fatal("Failed to start training")
	} else if err != nil {
		log.WithError(err).WithField("reason", res.Reason).Error("Training stopped early")
	}

	log.WithFields(logrus.Fields{
		"epochs":    res.Epochs,
		"loss":      res.LastLoss,
		"converged": res.Converged,
		"reason":    res.Reason,
	}).Info("Done")

	if *savePath != "" {
		if err := store.SaveWeights(res.Weights, *savePath, true); err != nil {
			log.WithError(err).Fatal("Failed to save weights")
		}

		rc, err := store.FromConfig(cfg)
		if err != nil {
			log.WithError(err).Fatal("Failed to store configuration")
		}

		rc.Seed = *seed
		if err := store.SaveRunConfig(*savePath+"/run.json", rc); err != nil {
			log.WithError(err).Fatal("Failed to save configuration")
		}
	}
}
