// Package bptt trains recurrent networks of individual units with exact backpropagation through
// time. Gradients are computed as ordered derivatives: the total derivative of the loss with
// respect to each unit value, taken in reverse order of calculation, so that every path through
// every time lag is counted exactly once.
//
// Creating Networks
//
// A Network is a set of named units joined by connections, each with a time lag of 0, 1 or 2:
//
//		net := new(bptt.Network)
//		in := net.AddInput("in")
//		b := net.AddBias("bias")
//		h := net.AddHidden("h")
//		out := net.AddOutput("out")
//
//		net.Connect(in, h, 0).Connect(b, h, 0).Connect(h, h, 1).Connect(h, out, 0)
//		if err := net.Finalize(); err != nil {
//			return err
//		}
//
// Errors during setup are stored and returned by Finalize (or Error), so that calls can be
// chained. Connections with a lag of 0 may not form a cycle; a cycle of same-step connections is
// reported by Finalize as a *ConfigError.
//
// Weights are kept separately from the Network, as one matrix per lag. Entry (i, j) of the
// matrix for lag k is the weight from unit j at step t-k to unit i at step t. Only entries
// with a connection can be non-zero.
//
//		ws, err := net.InitWeights(initializers.Xavier(), rand.New(rand.NewSource(1)))
//
// Training
//
// Everything about a training run is given by a Config. The components for it live in the
// subpackages: activations, costfuncs, optimizers, hyperparams, penalties and initializers.
//
//		cfg := bptt.Config{
//			LearningRate: 0.1,
//			MaxEpochs:    1000,
//			LagDepth:     1,
//			Activation:   activations.Logistic(),
//			CostFunction: costfuncs.SquaredError(),
//			Optimizer:    optimizers.SGD(),
//		}
//
//		res, err := net.TrainBatch(ctx, seqs, ws, cfg)
//
// Each epoch runs a forward pass over every Sequence, then the backward pass, then a single
// update with the summed gradients. Sequences within an epoch are processed in parallel when
// Config.Workers is more than 1; the result does not depend on the number of workers.
//
// Inspecting gradients
//
// Gradient returns the gradients of a single Sequence without changing anything, and Trace
// additionally returns the full record of the forward and backward passes. The subpackage
// gradcheck compares Gradient with finite differences.
//
// Saving and Loading
//
// Weights and run configurations can be written to and read from directories with the
// subpackage store.
package bptt
