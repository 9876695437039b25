package decomposition

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/geneticfs/pkg/errors"
)

// lineData returns points on the line y = 2x with a tiny orthogonal wobble,
// so almost all variance sits in the first component.
func lineData(n int, wobble float64) *mat.Dense {
	X := mat.NewDense(n, 2, nil)
	for i := 0; i < n; i++ {
		x := float64(i)
		w := wobble
		if i%2 == 0 {
			w = -wobble
		}
		// (2, -1) is orthogonal to (1, 2)
		X.Set(i, 0, x+2*w)
		X.Set(i, 1, 2*x-w)
	}
	return X
}

func TestPCAVarianceThreshold(t *testing.T) {
	X := lineData(20, 0.01)

	pca := NewPCA()
	out, err := pca.FitTransform(X)
	require.NoError(t, err)

	assert.Equal(t, 1, pca.NComponents())
	rows, cols := out.Dims()
	assert.Equal(t, 20, rows)
	assert.Equal(t, 1, cols)
	assert.Greater(t, pca.ExplainedVarianceRatio()[0], 0.99)
}

func TestPCAKeepsMoreComponentsWhenVarianceIsSpread(t *testing.T) {
	X := lineData(20, 3)

	pca := NewPCA(WithVarianceThreshold(0.99))
	require.NoError(t, pca.Fit(X))
	assert.Equal(t, 2, pca.NComponents())

	ratios := pca.ExplainedVarianceRatio()
	assert.InDelta(t, 1.0, ratios[0]+ratios[1], 1e-9)
	assert.GreaterOrEqual(t, ratios[0], ratios[1])
}

func TestPCAFixedComponents(t *testing.T) {
	X := mat.NewDense(5, 3, []float64{
		1, 2, 0,
		2, 1, 1,
		3, 4, 0,
		4, 3, 1,
		5, 6, 0,
	})
	pca := NewPCA(WithNComponents(2))
	out, err := pca.FitTransform(X)
	require.NoError(t, err)
	_, cols := out.Dims()
	assert.Equal(t, 2, cols)

	// Projections of centered data have zero mean.
	for j := 0; j < cols; j++ {
		var sum float64
		for i := 0; i < 5; i++ {
			sum += out.At(i, j)
		}
		assert.InDelta(t, 0.0, sum, 1e-9)
	}
}

func TestPCAZeroVariance(t *testing.T) {
	X := mat.NewDense(4, 2, []float64{1, 1, 1, 1, 1, 1, 1, 1})
	pca := NewPCA()
	out, err := pca.FitTransform(X)
	require.NoError(t, err)
	assert.Equal(t, 1, pca.NComponents())
	for i := 0; i < 4; i++ {
		assert.False(t, math.IsNaN(out.At(i, 0)))
	}
}

func TestPCAErrors(t *testing.T) {
	pca := NewPCA()
	_, err := pca.Transform(mat.NewDense(2, 2, nil))
	var notFitted *errors.NotFittedError
	assert.True(t, errors.As(err, &notFitted))

	err = NewPCA(WithVarianceThreshold(1.5)).Fit(lineData(5, 0.1))
	var cfgErr *errors.ConfigurationError
	assert.True(t, errors.As(err, &cfgErr))

	require.NoError(t, pca.Fit(lineData(5, 0.1)))
	_, err = pca.Transform(mat.NewDense(2, 3, nil))
	var dimErr *errors.DimensionError
	assert.True(t, errors.As(err, &dimErr))
}
