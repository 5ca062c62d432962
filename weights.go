package bptt

import (
	"math"
	"math/rand"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// tensorSet is a group of square matrices, one per lag, indexed as [lag].At(to, from).
type tensorSet [NumLags]*mat.Dense

func newTensorSet(n int) tensorSet {
	var s tensorSet
	for l := range s {
		s[l] = mat.NewDense(n, n, nil)
	}

	return s
}

func (s tensorSet) clone() tensorSet {
	var c tensorSet
	for l := range s {
		c[l] = mat.DenseCopyOf(s[l])
	}

	return c
}

// norm returns the Frobenius norm over all of the matrices together.
func (s tensorSet) norm() float64 {
	var sum float64
	for l := range s {
		n := floats.Norm(s[l].RawMatrix().Data, 2)
		sum += n * n
	}

	return math.Sqrt(sum)
}

// Weights is the set of three weight matrices W, W' and W'' for a Network. Entry (i, j) of the
// matrix for lag k is the influence of unit j at step t-k on the pre-activation of unit i at step
// t. Only entries corresponding to a Connection of the Network are ever non-zero.
//
// Weights are not safe for concurrent modification, but can be read concurrently.
type Weights struct {
	host *Network
	lags tensorSet
}

// Gradients has the same layout as Weights, holding the derivative of the total objective with
// respect to each weight.
type Gradients struct {
	host *Network
	lags tensorSet
}

// NewWeights returns a set of Weights for the Network with every weight zero.
func (net *Network) NewWeights() (*Weights, error) {
	if net.stat < finalized {
		return nil, errors.WithStack(ErrNetNotFinalized)
	}

	return &Weights{net, newTensorSet(net.NumUnits())}, nil
}

// WeightsFrom creates Weights from up to NumLags matrices, given in order of lag. Missing
// matrices are taken to be zero. Each matrix must be NumUnits × NumUnits, and must be zero
// wherever the Network has no connection. The matrices are copied.
func (net *Network) WeightsFrom(ms ...mat.Matrix) (*Weights, error) {
	ws, err := net.NewWeights()
	if err != nil {
		return nil, err
	} else if len(ms) > NumLags {
		return nil, configErrorf("Too many weight matrices: %d given, at most %d", len(ms), NumLags)
	}

	n := net.NumUnits()
	for l, m := range ms {
		if m == nil {
			continue
		}

		if r, c := m.Dims(); r != n || c != n {
			return nil, configErrorf("Weight matrix for lag %d has shape %dx%d, expected %dx%d", l, r, c, n, n)
		}

		for i := 0; i < n; i++ {
			for j := 0; j < n; j++ {
				v := m.At(i, j)
				if v == 0 {
					continue
				} else if !net.connected(l, i, j) {
					return nil, configErrorf("Weight for lag %d from %v to %v is %v, but there is no such connection",
						l, net.unitsByID[j], net.unitsByID[i], v)
				}

				ws.lags[l].Set(i, j, v)
			}
		}
	}

	return ws, nil
}

// InitWeights creates Weights with every connected weight set by the Initializer. The
// Initializer is called once per computed Unit, in order of id, with a slice covering that
// Unit's incoming connections in the order they were added.
func (net *Network) InitWeights(init Initializer, rng *rand.Rand) (*Weights, error) {
	if init == nil {
		return nil, errors.WithStack(NilArgError{"Initializer"})
	} else if rng == nil {
		return nil, errors.WithStack(NilArgError{"Random source"})
	}

	ws, err := net.NewWeights()
	if err != nil {
		return nil, err
	}

	for _, u := range net.unitsByID {
		if len(u.inputs) == 0 {
			continue
		}

		vals := make([]float64, len(u.inputs))
		init.Set(u, vals, rng)

		for k, c := range u.inputs {
			ws.lags[c.Lag].Set(c.To, c.From, vals[k])
		}
	}

	return ws, nil
}

// connected returns whether or not there is a connection from unit j to unit i with the lag.
func (net *Network) connected(lag, i, j int) bool {
	for _, c := range net.unitsByID[i].inputs {
		if c.From == j && c.Lag == lag {
			return true
		}
	}

	return false
}

func (net *Network) newGradients() *Gradients {
	return &Gradients{net, newTensorSet(net.NumUnits())}
}

// Network returns the Network that the Weights belong to.
func (w *Weights) Network() *Network {
	return w.host
}

// At returns the weight from unit j to unit i with the given lag.
func (w *Weights) At(lag, i, j int) float64 {
	return w.lags[lag].At(i, j)
}

// Set changes the weight from unit j to unit i with the given lag. It returns a *ConfigError if
// there is no such connection.
func (w *Weights) Set(lag, i, j int, v float64) error {
	if lag < 0 || lag > MaxLag {
		return configErrorf("Lag %d is out of the range [0, %d]", lag, MaxLag)
	} else if i < 0 || j < 0 || i >= w.host.NumUnits() || j >= w.host.NumUnits() {
		return configErrorf("Weight index (%d, %d) is out of bounds", i, j)
	} else if !w.host.connected(lag, i, j) {
		return configErrorf("There is no connection from %v to %v with lag %d", w.host.unitsByID[j], w.host.unitsByID[i], lag)
	}

	w.lags[lag].Set(i, j, v)
	return nil
}

// Dense returns a copy of the weight matrix for the given lag.
func (w *Weights) Dense(lag int) *mat.Dense {
	return mat.DenseCopyOf(w.lags[lag])
}

// Clone returns a deep copy of the Weights.
func (w *Weights) Clone() *Weights {
	return &Weights{w.host, w.lags.clone()}
}

// EqualApprox returns whether or not every weight is within tol of the corresponding weight in o.
func (w *Weights) EqualApprox(o *Weights, tol float64) bool {
	for l := range w.lags {
		if !mat.EqualApprox(w.lags[l], o.lags[l], tol) {
			return false
		}
	}

	return true
}

// Equal returns whether or not the Weights are bit-identical.
func (w *Weights) Equal(o *Weights) bool {
	for l := range w.lags {
		if !mat.Equal(w.lags[l], o.lags[l]) {
			return false
		}
	}

	return true
}

// At returns the derivative of the objective with respect to the weight from unit j to unit i
// with the given lag.
func (g *Gradients) At(lag, i, j int) float64 {
	return g.lags[lag].At(i, j)
}

// Dense returns a copy of the gradient matrix for the given lag.
func (g *Gradients) Dense(lag int) *mat.Dense {
	return mat.DenseCopyOf(g.lags[lag])
}

// Clone returns a deep copy of the Gradients.
func (g *Gradients) Clone() *Gradients {
	return &Gradients{g.host, g.lags.clone()}
}

// Norm returns the Frobenius norm of all three gradient matrices taken together.
func (g *Gradients) Norm() float64 {
	return g.lags.norm()
}

// Scale multiplies every gradient by f.
func (g *Gradients) Scale(f float64) {
	for _, m := range g.lags {
		m.Scale(f, m)
	}
}

// Clip rescales the whole set uniformly so that its norm is at most ceiling. It returns whether or
// not any rescaling happened.
func (g *Gradients) Clip(ceiling float64) bool {
	n := g.Norm()
	if n <= ceiling || n == 0 {
		return false
	}

	g.Scale(ceiling / n)
	return true
}

// EqualApprox returns whether or not every gradient is within tol of the corresponding gradient in
// o.
func (g *Gradients) EqualApprox(o *Gradients, tol float64) bool {
	for l := range g.lags {
		if !mat.EqualApprox(g.lags[l], o.lags[l], tol) {
			return false
		}
	}

	return true
}

// add sums o into g
func (g *Gradients) add(o *Gradients) {
	for l := range g.lags {
		g.lags[l].Add(g.lags[l], o.lags[l])
	}
}

func (g *Gradients) reset() {
	for _, m := range g.lags {
		m.Zero()
	}
}

// checkFinite returns an *InstabilityError for the first non-finite gradient.
func (g *Gradients) checkFinite() error {
	for _, m := range g.lags {
		n, _ := m.Dims()
		for i := 0; i < n; i++ {
			for j := 0; j < n; j++ {
				if v := m.At(i, j); math.IsNaN(v) || math.IsInf(v, 0) {
					return errors.WithStack(&InstabilityError{Phase: PhaseGradient, Step: 0, Unit: i, Value: v})
				}
			}
		}
	}

	return nil
}
