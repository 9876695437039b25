package model_selection

import (
	"time"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/YuminosukeSato/geneticfs/core/model"
	"github.com/YuminosukeSato/geneticfs/metrics"
	"github.com/YuminosukeSato/geneticfs/pkg/errors"
)

// CVResult stores cross-validation results
type CVResult struct {
	TestScores []float64
	FitTimes   []time.Duration
}

// Mean returns mean test score
func (cv *CVResult) Mean() float64 {
	if len(cv.TestScores) == 0 {
		return 0.0
	}
	return stat.Mean(cv.TestScores, nil)
}

// Std returns the sample standard deviation of test scores
func (cv *CVResult) Std() float64 {
	if len(cv.TestScores) <= 1 {
		return 0.0
	}
	return stat.StdDev(cv.TestScores, nil)
}

// CrossValScore fits est on each training fold and scores it on the held-out
// fold. est is refit for every fold, so it must not be shared with another
// goroutine for the duration of the call.
func CrossValScore(est model.Estimator, X, y mat.Matrix, splitter Splitter, scorer metrics.Scorer) (*CVResult, error) {
	nSamples, _ := X.Dims()
	yRows, _ := y.Dims()
	if nSamples != yRows {
		return nil, errors.NewDimensionError("CrossValScore", nSamples, yRows, 0)
	}

	folds, err := splitter.Split(nSamples)
	if err != nil {
		return nil, err
	}

	result := &CVResult{
		TestScores: make([]float64, len(folds)),
		FitTimes:   make([]time.Duration, len(folds)),
	}
	for i, fold := range folds {
		xTrain, yTrain := extractSubset(X, y, fold.TrainIndices)
		xTest, yTest := extractSubset(X, y, fold.TestIndices)

		start := time.Now()
		if err := est.Fit(xTrain, yTrain); err != nil {
			return nil, errors.Wrapf(err, "fold %d: fit", i)
		}
		result.FitTimes[i] = time.Since(start)

		pred, err := est.Predict(xTest)
		if err != nil {
			return nil, errors.Wrapf(err, "fold %d: predict", i)
		}
		score, err := scorer(yTest, pred)
		if err != nil {
			return nil, errors.Wrapf(err, "fold %d: score", i)
		}
		result.TestScores[i] = score
	}
	return result, nil
}

// extractSubset extracts rows of X and y in the given order
func extractSubset(X, y mat.Matrix, indices []int) (*mat.Dense, *mat.Dense) {
	rows := len(indices)
	_, xCols := X.Dims()
	_, yCols := y.Dims()

	xSubset := mat.NewDense(rows, xCols, nil)
	ySubset := mat.NewDense(rows, yCols, nil)

	for i, idx := range indices {
		for j := 0; j < xCols; j++ {
			xSubset.Set(i, j, X.At(idx, j))
		}
		for j := 0; j < yCols; j++ {
			ySubset.Set(i, j, y.At(idx, j))
		}
	}

	return xSubset, ySubset
}
