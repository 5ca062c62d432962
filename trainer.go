package bptt

import (
	"context"
	"fmt"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// State is a stage of the Trainer's state machine:
//
//	Idle → ForwardPass → BackwardPass → Update → (ForwardPass | Converged | Failed)
//
// ForwardPass and BackwardPass can also move directly to Failed.
type State int8

const (
	Idle State = iota
	ForwardPass
	BackwardPass
	Update
	Converged
	Failed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case ForwardPass:
		return "forward-pass"
	case BackwardPass:
		return "backward-pass"
	case Update:
		return "update"
	case Converged:
		return "converged"
	case Failed:
		return "failed"
	}

	return fmt.Sprintf("State(%d)", int8(s))
}

// IsTerminal returns whether or not no further transitions are possible from the State.
func (s State) IsTerminal() bool {
	return s == Converged || s == Failed
}

var transitions = map[State][]State{
	Idle:         {ForwardPass},
	ForwardPass:  {BackwardPass, Failed},
	BackwardPass: {Update, Failed},
	Update:       {ForwardPass, Converged, Failed},
}

// StopReason records why a training run ended.
type StopReason int8

const (
	// Running is the StopReason of a run that hasn't ended
	Running StopReason = iota
	// MaxEpochsReached means the run made Config.MaxEpochs updates without reaching a threshold.
	// This is a normal end to training, not an error.
	MaxEpochsReached
	// LossThresholdReached means the loss of an epoch fell below Config.LossThreshold.
	LossThresholdReached
	// GradThresholdReached means the gradient norm of an epoch fell below Config.GradThreshold.
	GradThresholdReached
	// Cancelled means the context given to Run was done.
	Cancelled
	// Instability means a non-finite value was produced.
	Instability
)

func (r StopReason) String() string {
	switch r {
	case Running:
		return "running"
	case MaxEpochsReached:
		return "max-epochs"
	case LossThresholdReached:
		return "loss-threshold"
	case GradThresholdReached:
		return "grad-threshold"
	case Cancelled:
		return "cancelled"
	case Instability:
		return "instability"
	}

	return fmt.Sprintf("StopReason(%d)", int8(r))
}

// Result is the outcome of a training run.
type Result struct {
	// Weights are the final weights. They are a copy, owned by the caller.
	Weights *Weights

	// Losses holds the total loss of each epoch, measured before that epoch's update.
	Losses []float64

	// Epochs is the number of updates made
	Epochs int

	Reason StopReason

	// Converged is true if a loss or gradient threshold was reached. If it is false after a
	// normal end, training stopped at MaxEpochs and LastLoss is the loss of the final epoch.
	Converged bool
	LastLoss  float64
	GradNorm  float64

	State State
}

// Trainer runs repeated forward, backward and update cycles over a batch of Sequences. It owns
// its Weights: they are only ever changed in the Update state, and are read-only everywhere
// else.
//
// A Trainer is not safe for concurrent use.
type Trainer struct {
	net  *Network
	cfg  Config
	pass *pass
	ws   *Weights
	log  logrus.FieldLogger

	state  State
	epoch  int
	losses []float64

	lastLoss, lastNorm float64
}

// NewTrainer validates the Config and creates a Trainer starting from a copy of the given
// Weights. The Optimizer is Reset.
func (net *Network) NewTrainer(initial *Weights, cfg Config) (*Trainer, error) {
	if err := cfg.Validate(net); err != nil {
		return nil, err
	} else if err := net.checkWeights(initial); err != nil {
		return nil, err
	}

	cfg.Optimizer.Reset()

	return &Trainer{
		net:   net,
		cfg:   cfg,
		pass:  net.newPass(&cfg),
		ws:    initial.Clone(),
		log:   cfg.logger(),
		state: Idle,
	}, nil
}

// State returns the current State of the Trainer.
func (tr *Trainer) State() State {
	return tr.state
}

// Epoch returns the number of updates made so far.
func (tr *Trainer) Epoch() int {
	return tr.epoch
}

// Weights returns a copy of the current Weights.
func (tr *Trainer) Weights() *Weights {
	return tr.ws.Clone()
}

// Losses returns a copy of the loss recorded for each epoch so far.
func (tr *Trainer) Losses() []float64 {
	return append([]float64(nil), tr.losses...)
}

func (tr *Trainer) transition(to State) {
	for _, s := range transitions[tr.state] {
		if s == to {
			tr.state = to
			return
		}
	}

	panic(errors.Errorf("Illegal Trainer state transition: %v → %v", tr.state, to))
}

func (tr *Trainer) checkSequences(seqs []Sequence) error {
	if len(seqs) == 0 {
		return configErrorf("No sequences to train on")
	}

	for k, s := range seqs {
		if err := tr.net.checkSequence(s); err != nil {
			return errors.Wrapf(err, "Sequence %d does not fit Network\n", k)
		}
	}

	return nil
}

// Run trains until the Trainer converges or fails. Cancellation of ctx is checked between epochs,
// never during one; a cancelled run returns the Result so far along with the context's error,
// and may be resumed by calling Run again.
//
// A *ConfigError is returned before any computation if the sequences do not fit the Network. An
// *InstabilityError moves the Trainer to Failed; it is not retried.
func (tr *Trainer) Run(ctx context.Context, seqs []Sequence) (*Result, error) {
	if tr.state.IsTerminal() {
		return tr.result(Running), errors.WithStack(ErrTrainerFinished)
	} else if err := tr.checkSequences(seqs); err != nil {
		return nil, err
	}

	for {
		select {
		case <-ctx.Done():
			tr.log.WithField("epoch", tr.epoch).Info("Training cancelled")
			return tr.result(Cancelled), errors.Wrapf(ctx.Err(), "Training cancelled before epoch %d\n", tr.epoch)
		default:
		}

		if err := tr.step(seqs); err != nil {
			tr.log.WithFields(logrus.Fields{
				"epoch": tr.epoch,
				"state": tr.state,
			}).WithError(err).Error("Training failed")

			reason := Running
			if IsInstability(err) {
				reason = Instability
			}

			return tr.result(reason), err
		}

		if reason := tr.stopReason(); reason != Running {
			tr.transition(Converged)
			tr.log.WithFields(logrus.Fields{
				"epoch":  tr.epoch,
				"loss":   tr.lastLoss,
				"reason": reason,
			}).Info("Training finished")

			return tr.result(reason), nil
		}
	}
}

// step runs one full epoch: forward pass, backward pass and update. On return without error, the
// Trainer is in the Update state.
func (tr *Trainer) step(seqs []Sequence) error {
	tr.transition(ForwardPass)

	hs, losses, err := tr.forwardAll(seqs)
	if err != nil {
		tr.transition(Failed)
		return err
	}

	tr.transition(BackwardPass)

	g, err := tr.backwardAll(seqs, hs, losses)
	if err != nil {
		tr.transition(Failed)
		return err
	}

	tr.transition(Update)

	loss := sumLosses(losses)
	norm := g.Norm()
	lr := tr.cfg.learningRate(tr.epoch)

	if err := tr.update(g, lr); err != nil {
		tr.transition(Failed)
		return err
	}

	tr.epoch++
	tr.losses = append(tr.losses, loss)
	tr.lastLoss, tr.lastNorm = loss, norm

	tr.log.WithFields(logrus.Fields{
		"epoch":     tr.epoch,
		"loss":      loss,
		"grad_norm": norm,
		"lr":        lr,
	}).Debug("Epoch completed")

	if tr.cfg.SendStatus != nil && tr.cfg.SendStatus(tr.epoch) {
		tr.cfg.Update(Status{
			Epoch:        tr.epoch,
			Loss:         loss,
			GradNorm:     norm,
			LearningRate: lr,
			State:        tr.state,
		})
	}

	return nil
}

// update applies the Penalty, clipping and Optimizer to the gradients, changing the Weights. The
// gradients are consumed: they are not valid afterwards.
func (tr *Trainer) update(g *Gradients, lr float64) error {
	if !finite(lr) || lr <= 0 {
		return configErrorf("Learning rate for epoch %d is not positive (%v)", tr.epoch, lr)
	}

	// the Optimizer always descends, so a utility to maximize is given with its sign flipped
	if tr.cfg.Objective == Maximize {
		g.Scale(-1)
	}

	if tr.cfg.Penalty != nil {
		for l := range g.lags {
			gs := g.lags[l].RawMatrix().Data
			ws := tr.ws.lags[l].RawMatrix().Data
			mask := tr.net.mask[l].RawMatrix().Data

			for i := range gs {
				if mask[i] != 0 {
					gs[i] = tr.cfg.Penalty.Penalize(ws[i], gs[i])
				}
			}
		}
	}

	if tr.cfg.ClipNorm > 0 && g.Clip(tr.cfg.ClipNorm) {
		tr.log.WithFields(logrus.Fields{
			"epoch":   tr.epoch,
			"ceiling": tr.cfg.ClipNorm,
		}).Debug("Gradients clipped")
	}

	if err := g.checkFinite(); err != nil {
		return err
	}

	for l := range g.lags {
		gs := g.lags[l].RawMatrix().Data
		ws := tr.ws.lags[l].RawMatrix().Data
		mask := tr.net.mask[l].RawMatrix().Data

		grad := func(i int) float64 {
			return gs[i]
		}

		add := func(i int, d float64) {
			if mask[i] != 0 {
				ws[i] += d
			}
		}

		if err := tr.cfg.Optimizer.Run(l, len(gs), grad, add, lr); err != nil {
			return errors.Wrapf(err, "Optimizer %s failed on lag %d\n", tr.cfg.Optimizer.TypeString(), l)
		}
	}

	g.reset()
	return nil
}

func (tr *Trainer) stopReason() StopReason {
	switch {
	case tr.cfg.LossThreshold > 0 && tr.lastLoss < tr.cfg.LossThreshold:
		return LossThresholdReached
	case tr.cfg.GradThreshold > 0 && tr.lastNorm < tr.cfg.GradThreshold:
		return GradThresholdReached
	case tr.epoch >= tr.cfg.MaxEpochs:
		return MaxEpochsReached
	}

	return Running
}

func (tr *Trainer) result(reason StopReason) *Result {
	return &Result{
		Weights:   tr.ws.Clone(),
		Losses:    tr.Losses(),
		Epochs:    tr.epoch,
		Reason:    reason,
		Converged: reason == LossThresholdReached || reason == GradThresholdReached,
		LastLoss:  tr.lastLoss,
		GradNorm:  tr.lastNorm,
		State:     tr.state,
	}
}

// TrainBatch trains the Network on every Sequence at once: each epoch sums the gradients of all
// of them before a single update.
func (net *Network) TrainBatch(ctx context.Context, seqs []Sequence, initial *Weights, cfg Config) (*Result, error) {
	tr, err := net.NewTrainer(initial, cfg)
	if err != nil {
		return nil, err
	}

	return tr.Run(ctx, seqs)
}

// Train trains the Network on a single Sequence, returning the final Weights and the loss of
// every epoch. Weights and losses are returned even if training failed part-way, as long as
// training started.
func (net *Network) Train(ctx context.Context, seq Sequence, initial *Weights, cfg Config) (*Weights, []float64, error) {
	res, err := net.TrainBatch(ctx, []Sequence{seq}, initial, cfg)
	if res == nil {
		return nil, nil, err
	}

	return res.Weights, res.Losses, err
}
