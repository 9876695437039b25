// Package dataset provides the column-selectable view of a supervised learning
// dataset that the feature search projects chromosomes onto.
package dataset

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/geneticfs/pkg/errors"
)

// Dataset is a feature matrix paired with a single target column.
// Columns must return a new matrix that the caller may keep or mutate.
type Dataset interface {
	// Dims returns the number of samples and candidate features.
	Dims() (samples, features int)
	// Columns returns the samples × len(idx) projection onto the given feature
	// indices, in the order given.
	Columns(idx []int) mat.Matrix
	// Target returns the samples × 1 target vector.
	Target() mat.Matrix
	// FeatureNames returns one name per feature column.
	FeatureNames() []string
}

// Dense is an in-memory Dataset backed by gonum matrices.
type Dense struct {
	x     *mat.Dense
	y     *mat.VecDense
	names []string
}

// NewDense builds a Dataset from X (samples × features) and y (samples × 1).
// names may be nil, in which case features are named x0, x1, ...
func NewDense(X, y mat.Matrix, names []string) (*Dense, error) {
	if X == nil || y == nil {
		return nil, errors.WithStack(errors.ErrEmptyData)
	}
	rows, cols := X.Dims()
	if rows == 0 || cols == 0 {
		return nil, errors.WithStack(errors.ErrEmptyData)
	}
	yRows, yCols := y.Dims()
	if yRows != rows {
		return nil, errors.NewDimensionError("dataset.NewDense", rows, yRows, 0)
	}
	if yCols != 1 {
		return nil, errors.NewDimensionError("dataset.NewDense", 1, yCols, 1)
	}
	if names == nil {
		names = make([]string, cols)
		for j := range names {
			names[j] = fmt.Sprintf("x%d", j)
		}
	}
	if len(names) != cols {
		return nil, errors.NewDimensionError("dataset.NewDense", cols, len(names), 1)
	}

	target := mat.NewVecDense(rows, nil)
	for i := 0; i < rows; i++ {
		target.SetVec(i, y.At(i, 0))
	}
	return &Dense{
		x:     mat.DenseCopyOf(X),
		y:     target,
		names: append([]string(nil), names...),
	}, nil
}

// Dims implements Dataset.
func (d *Dense) Dims() (int, int) {
	return d.x.Dims()
}

// Columns implements Dataset. An empty idx yields a nil matrix.
func (d *Dense) Columns(idx []int) mat.Matrix {
	if len(idx) == 0 {
		return nil
	}
	rows, _ := d.x.Dims()
	out := mat.NewDense(rows, len(idx), nil)
	for k, j := range idx {
		for i := 0; i < rows; i++ {
			out.Set(i, k, d.x.At(i, j))
		}
	}
	return out
}

// Target implements Dataset.
func (d *Dense) Target() mat.Matrix {
	return mat.VecDenseCopyOf(d.y)
}

// FeatureNames implements Dataset.
func (d *Dense) FeatureNames() []string {
	return append([]string(nil), d.names...)
}

// X returns a copy of the full feature matrix.
func (d *Dense) X() *mat.Dense {
	return mat.DenseCopyOf(d.x)
}

// Names returns the names of the features at idx.
func Names(d Dataset, idx []int) []string {
	all := d.FeatureNames()
	out := make([]string, 0, len(idx))
	for _, j := range idx {
		if j >= 0 && j < len(all) {
			out = append(out, all[j])
		}
	}
	return out
}
