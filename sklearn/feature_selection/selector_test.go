package feature_selection

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/geneticfs/pkg/errors"
	"github.com/YuminosukeSato/geneticfs/pkg/log"
	"github.com/YuminosukeSato/geneticfs/sklearn/linear_model"
)

func TestGeneticSelectorFitAndTransform(t *testing.T) {
	quiet(t)
	data := regressionData(t, 40, 6, 21)
	selector := NewGeneticSelector(
		WithGenerations(8),
		WithPopulationSize(10),
		WithMutationRate(0.05),
		WithRandomState(3),
		WithVerbose(false),
		WithLogTo(""),
	)

	require.NoError(t, selector.Fit(linear_model.NewLinearRegression(), data))

	best, err := selector.Results()
	require.NoError(t, err)
	require.Len(t, best, 6)

	idx, err := selector.SelectedFeatures()
	require.NoError(t, err)
	assert.Equal(t, best.Selected(), idx)

	history, err := selector.History()
	require.NoError(t, err)
	assert.Len(t, history, 8)

	res, err := selector.Result()
	require.NoError(t, err)
	assert.Equal(t, int64(3), res.Seed)

	if len(idx) > 0 {
		out, err := selector.Transform(data.X())
		require.NoError(t, err)
		r, c := out.Dims()
		assert.Equal(t, 40, r)
		assert.Equal(t, len(idx), c)
		for j, col := range idx {
			assert.Equal(t, data.X().At(5, col), out.At(5, j))
		}
	}

	_, err = selector.Transform(mat.NewDense(2, 3, nil))
	var dimErr *errors.DimensionError
	assert.True(t, errors.As(err, &dimErr))
}

func TestGeneticSelectorFindsInformativeFeatures(t *testing.T) {
	quiet(t)
	data := regressionData(t, 60, 6, 22)
	selector := NewGeneticSelector(
		WithGenerations(15),
		WithPopulationSize(20),
		WithMutationRate(0.05),
		WithRandomState(5),
		WithVerbose(false),
		WithLogTo(""),
	)
	require.NoError(t, selector.Fit(linear_model.NewLinearRegression(), data))

	res, err := selector.Result()
	require.NoError(t, err)
	best, score, _ := res.BestOverall()
	assert.Equal(t, uint8(1), best[0])
	assert.Equal(t, uint8(1), best[3])
	assert.Greater(t, score, 0.95)
}

func TestGeneticSelectorNotFitted(t *testing.T) {
	selector := NewGeneticSelector()
	var notFitted *errors.NotFittedError

	_, err := selector.Results()
	assert.True(t, errors.As(err, &notFitted))
	_, err = selector.SelectedFeatures()
	assert.True(t, errors.As(err, &notFitted))
	_, err = selector.History()
	assert.True(t, errors.As(err, &notFitted))
	_, err = selector.Result()
	assert.True(t, errors.As(err, &notFitted))
	_, err = selector.Transform(mat.NewDense(1, 1, nil))
	assert.True(t, errors.As(err, &notFitted))
}

func TestGeneticSelectorFailedFitResets(t *testing.T) {
	quiet(t)
	data := regressionData(t, 30, 3, 23)
	selector := NewGeneticSelector(WithGenerations(2), WithPopulationSize(4), WithVerbose(false), WithLogTo(""), WithRandomState(1))
	require.NoError(t, selector.Fit(linear_model.NewLinearRegression(), data))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := selector.FitContext(ctx, linear_model.NewLinearRegression(), data)
	require.ErrorIs(t, err, context.Canceled)

	_, err = selector.Results()
	var notFitted *errors.NotFittedError
	assert.True(t, errors.As(err, &notFitted))
}

func TestGeneticSelectorWritesLogFile(t *testing.T) {
	quiet(t)
	path := filepath.Join(t.TempDir(), "search.log")
	data := regressionData(t, 30, 4, 24)
	selector := NewGeneticSelector(
		WithGenerations(4),
		WithPopulationSize(4),
		WithLogInterval(2),
		WithLogTo(path),
		WithRandomState(9),
	)
	require.True(t, selector.Config().Verbose)

	require.NoError(t, selector.Fit(linear_model.NewLinearRegression(), data))

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(content), "Generation complete")
	assert.Contains(t, string(content), `"`+log.GenerationKey+`":4`)
}

func TestGeneticSelectorSetLogger(t *testing.T) {
	quiet(t)
	logger, _ := log.NewTestLogger(log.LevelInfo)
	data := regressionData(t, 30, 3, 25)
	selector := NewGeneticSelectorFromConfig(testConfig(WithGenerations(10), WithPopulationSize(4), WithVerbose(true)))
	selector.SetLogger(logger)

	require.NoError(t, selector.Fit(linear_model.NewLinearRegression(), data))
	assert.Equal(t, 1, logger.CountMessage("Generation complete"))
	assert.Contains(t, selector.String(), "generations=10")
}

func TestGeneticSelectorInvalidConfig(t *testing.T) {
	data := regressionData(t, 30, 3, 26)
	selector := NewGeneticSelector(WithPopulationSize(1))

	err := selector.Fit(linear_model.NewLinearRegression(), data)
	var cfgErr *errors.ConfigurationError
	require.True(t, errors.As(err, &cfgErr))
	assert.Equal(t, "population_size", cfgErr.Param)
}
