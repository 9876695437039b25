package feature_selection

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/geneticfs/core/dataset"
	"github.com/YuminosukeSato/geneticfs/pkg/errors"
)

// regressionData returns n samples of f uniform features where only x0 and
// x3 (when present) drive the target.
func regressionData(t *testing.T, n, f int, seed uint64) *dataset.Dense {
	t.Helper()
	rng := rand.New(rand.NewPCG(seed, seed))
	X := mat.NewDense(n, f, nil)
	y := mat.NewDense(n, 1, nil)
	for i := 0; i < n; i++ {
		for j := 0; j < f; j++ {
			X.Set(i, j, rng.Float64()*2-1)
		}
		v := 3*X.At(i, 0) + 0.05*rng.NormFloat64()
		if f > 3 {
			v -= 2 * X.At(i, 3)
		}
		y.Set(i, 0, v)
	}
	d, err := dataset.NewDense(X, y, nil)
	require.NoError(t, err)
	return d
}

// classificationData returns two classes separated along x1.
func classificationData(t *testing.T, n, f int, seed uint64) *dataset.Dense {
	t.Helper()
	rng := rand.New(rand.NewPCG(seed, seed))
	X := mat.NewDense(n, f, nil)
	y := mat.NewDense(n, 1, nil)
	for i := 0; i < n; i++ {
		label := float64(i % 2)
		for j := 0; j < f; j++ {
			X.Set(i, j, rng.NormFloat64())
		}
		X.Set(i, 1, 4*label-2+0.3*rng.NormFloat64())
		y.Set(i, 0, label)
	}
	d, err := dataset.NewDense(X, y, nil)
	require.NoError(t, err)
	return d
}

// quiet drops library warnings for the duration of a test.
func quiet(t *testing.T) *[]error {
	t.Helper()
	var warnings []error
	errors.SetWarningHandler(func(w error) { warnings = append(warnings, w) })
	t.Cleanup(func() { errors.SetWarningHandler(nil) })
	return &warnings
}

// stripElapsed removes wall-clock durations so histories can be compared.
func stripElapsed(h History) History {
	out := make(History, len(h))
	for i, r := range h {
		r.Elapsed = 0
		out[i] = r
	}
	return out
}

func testConfig(opts ...Option) Config {
	base := []Option{WithVerbose(false), WithLogTo(""), WithRandomState(42)}
	return NewConfig(append(base, opts...)...)
}
