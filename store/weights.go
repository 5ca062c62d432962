// Package store writes bptt Weights and run configurations to disk, and reads them back.
package store

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"

	"github.com/sharnoff/bptt"
)

// mainFile should not be a number
const mainFile string = "main.json"

// layout records enough of the Network to check that stored Weights are loaded into a matching
// one.
type layout struct {
	Units       []string
	Roles       []string
	Connections []bptt.Connection
}

func layoutOf(net *bptt.Network) layout {
	l := layout{Connections: net.Connections()}
	for _, u := range net.Units() {
		l.Units = append(l.Units, u.Name())
		l.Roles = append(l.Roles, u.Role().String())
	}

	return l
}

func (l layout) matches(o layout) bool {
	if len(l.Units) != len(o.Units) || len(l.Connections) != len(o.Connections) {
		return false
	}

	for i := range l.Units {
		if l.Units[i] != o.Units[i] || l.Roles[i] != o.Roles[i] {
			return false
		}
	}

	for i := range l.Connections {
		if l.Connections[i] != o.Connections[i] {
			return false
		}
	}

	return true
}

func lagFile(dirPath string, lag int) string {
	return filepath.Join(dirPath, "lag"+strconv.Itoa(lag)+".bin")
}

// SaveWeights saves the Weights to the specified path, creating a directory to contain them (with
// permissions 0700). The directory holds the layout of the Network in JSON and one binary file
// per weight matrix.
//
// If 'overwrite' is false and the directory already exists, SaveWeights will return error.
func SaveWeights(ws *bptt.Weights, dirPath string, overwrite bool) error {
	if ws == nil {
		return errors.WithStack(bptt.ErrNilWeights)
	}

	// check if the folder already exists
	if _, err := os.Stat(dirPath); err == nil {
		if !overwrite {
			return errors.Errorf("Can't save weights, folder %q already exists, and overwrite is not enabled", dirPath)
		}

		if err = os.RemoveAll(dirPath); err != nil {
			return errors.Wrapf(err, "Can't save weights, couldn't remove pre-existing folder to overwrite\n")
		}
	}

	if err := os.MkdirAll(dirPath, 0700); err != nil {
		return errors.Wrapf(err, "Couldn't make directory to save weights\n")
	}

	if err := writeJSON(filepath.Join(dirPath, mainFile), layoutOf(ws.Network())); err != nil {
		return err
	}

	for l := 0; l < bptt.NumLags; l++ {
		if err := writeMatrix(lagFile(dirPath, l), ws.Dense(l)); err != nil {
			return errors.Wrapf(err, "Can't save weights for lag %d\n", l)
		}
	}

	return nil
}

// LoadWeights loads Weights previously saved by SaveWeights. The Network must have the same units,
// in the same order with the same roles, and the same connections as the one they were saved
// from.
func LoadWeights(net *bptt.Network, dirPath string) (*bptt.Weights, error) {
	if _, err := os.Stat(dirPath); err != nil {
		return nil, errors.Errorf("Can't load weights, containing directory %q does not exist", dirPath)
	}

	var stored layout
	if err := readJSON(filepath.Join(dirPath, mainFile), &stored); err != nil {
		return nil, err
	}

	if !stored.matches(layoutOf(net)) {
		return nil, errors.Errorf("Can't load weights, Network does not match the one they were saved from")
	}

	ms := make([]mat.Matrix, bptt.NumLags)
	for l := range ms {
		m, err := readMatrix(lagFile(dirPath, l))
		if err != nil {
			return nil, errors.Wrapf(err, "Can't load weights for lag %d\n", l)
		}

		ms[l] = m
	}

	return net.WeightsFrom(ms...)
}

func writeMatrix(path string, m *mat.Dense) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "Failed to create file %q\n", path)
	}

	defer f.Close()

	if _, err = m.MarshalBinaryTo(f); err != nil {
		return errors.Wrapf(err, "Failed to write matrix to file %q\n", path)
	}

	return nil
}

func readMatrix(path string) (*mat.Dense, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "Failed to open file %q\n", path)
	}

	defer f.Close()

	var m mat.Dense
	if _, err = m.UnmarshalBinaryFrom(f); err != nil {
		return nil, errors.Wrapf(err, "Failed to read matrix from file %q\n", path)
	}

	return &m, nil
}

func writeJSON(path string, v interface{}) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "Failed to create file %q\n", path)
	}

	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "\t")
	if err = enc.Encode(v); err != nil {
		return errors.Wrapf(err, "Failed to encode JSON to file %q\n", path)
	}

	return nil
}

func readJSON(path string, v interface{}) error {
	f, err := os.Open(path)
	if err != nil {
		return errors.Wrapf(err, "Failed to open file %q\n", path)
	}

	defer f.Close()

	dec := json.NewDecoder(f)
	if err = dec.Decode(v); err != nil {
		return errors.Wrapf(err, "Failed to decode JSON from file %q\n", path)
	}

	return nil
}
