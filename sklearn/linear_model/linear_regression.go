package linear_model

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/geneticfs/core/model"
	"github.com/YuminosukeSato/geneticfs/metrics"
	"github.com/YuminosukeSato/geneticfs/pkg/errors"
)

// defaultRCond は特異値を0とみなす相対しきい値
const defaultRCond = 1e-10

// LinearRegression is a linear regression model using ordinary least squares.
// The system is solved through a thin SVD so that collinear or constant
// feature columns (common in arbitrary feature subsets) yield the minimum-norm
// solution instead of an error.
type LinearRegression struct {
	state *model.StateManager

	// Hyperparameters
	fitIntercept bool    // Whether to learn the intercept
	positive     bool    // Whether to clip coefficients to be non-negative
	rcond        float64 // Relative cutoff for small singular values

	// Learned parameters
	coef_      []float64
	intercept_ float64
	rank_      int
}

// LinearRegressionOption は設定オプション
type LinearRegressionOption func(*LinearRegression)

// NewLinearRegression は新しいLinearRegressionモデルを作成
func NewLinearRegression(options ...LinearRegressionOption) *LinearRegression {
	lr := &LinearRegression{
		state:        model.NewStateManager(),
		fitIntercept: true,
		rcond:        defaultRCond,
	}
	for _, opt := range options {
		opt(lr)
	}
	return lr
}

// WithLRFitIntercept は切片の学習有無を設定
func WithLRFitIntercept(fit bool) LinearRegressionOption {
	return func(lr *LinearRegression) {
		lr.fitIntercept = fit
	}
}

// WithPositive は係数の正制約を設定
func WithPositive(positive bool) LinearRegressionOption {
	return func(lr *LinearRegression) {
		lr.positive = positive
	}
}

// WithRCond は特異値の打ち切りしきい値を設定
func WithRCond(rcond float64) LinearRegressionOption {
	return func(lr *LinearRegression) {
		lr.rcond = rcond
	}
}

// Fit はモデルを訓練データで学習。以前の学習結果は破棄される。
func (lr *LinearRegression) Fit(X, y mat.Matrix) error {
	rows, cols := X.Dims()
	yRows, yCols := y.Dims()

	if rows == 0 || cols == 0 {
		return errors.NewValueError("LinearRegression.Fit", "empty input")
	}
	if rows != yRows {
		return errors.NewDimensionError("LinearRegression.Fit", rows, yRows, 0)
	}
	if yCols != 1 {
		return errors.NewDimensionError("LinearRegression.Fit", 1, yCols, 1)
	}
	lr.state.Reset()

	// 切片を学習する場合は X と y を中心化して解き、平均から切片を戻す
	xMean := make([]float64, cols)
	var yMean float64
	if lr.fitIntercept {
		for i := 0; i < rows; i++ {
			yMean += y.At(i, 0)
			for j := 0; j < cols; j++ {
				xMean[j] += X.At(i, j)
			}
		}
		yMean /= float64(rows)
		for j := range xMean {
			xMean[j] /= float64(rows)
		}
	}

	xc := mat.NewDense(rows, cols, nil)
	yc := mat.NewDense(rows, 1, nil)
	for i := 0; i < rows; i++ {
		yc.Set(i, 0, y.At(i, 0)-yMean)
		for j := 0; j < cols; j++ {
			xc.Set(i, j, X.At(i, j)-xMean[j])
		}
	}

	var svd mat.SVD
	if ok := svd.Factorize(xc, mat.SVDThin); !ok {
		return errors.NewModelError("LinearRegression.Fit", "SVD factorization failed", errors.ErrSingularMatrix)
	}

	lr.coef_ = make([]float64, cols)
	lr.rank_ = svd.Rank(lr.rcond)
	if lr.rank_ > 0 {
		var beta mat.Dense
		svd.SolveTo(&beta, yc, lr.rank_)
		for j := 0; j < cols; j++ {
			lr.coef_[j] = beta.At(j, 0)
		}
	}

	if lr.positive {
		for j := range lr.coef_ {
			if lr.coef_[j] < 0 {
				lr.coef_[j] = 0
			}
		}
	}

	lr.intercept_ = 0
	if lr.fitIntercept {
		lr.intercept_ = yMean
		for j := range lr.coef_ {
			lr.intercept_ -= xMean[j] * lr.coef_[j]
		}
	}

	lr.state.SetFitted(cols, rows)
	return nil
}

// Predict は入力データに対する予測を行う
func (lr *LinearRegression) Predict(X mat.Matrix) (mat.Matrix, error) {
	if err := lr.state.RequireFitted("LinearRegression", "Predict"); err != nil {
		return nil, err
	}
	rows, cols := X.Dims()
	if err := lr.state.RequireFeatures("LinearRegression.Predict", cols); err != nil {
		return nil, err
	}

	predictions := mat.NewDense(rows, 1, nil)
	for i := 0; i < rows; i++ {
		pred := lr.intercept_
		for j := 0; j < cols; j++ {
			pred += X.At(i, j) * lr.coef_[j]
		}
		predictions.Set(i, 0, pred)
	}
	return predictions, nil
}

// Score はモデルの決定係数（R²）を計算
func (lr *LinearRegression) Score(X, y mat.Matrix) (float64, error) {
	predictions, err := lr.Predict(X)
	if err != nil {
		return 0, err
	}
	return metrics.R2ScoreMatrix(y, predictions)
}

// Coef は学習された重み係数を返す
func (lr *LinearRegression) Coef() []float64 {
	if lr.coef_ == nil {
		return nil
	}
	return append([]float64(nil), lr.coef_...)
}

// Intercept は学習された切片を返す
func (lr *LinearRegression) Intercept() float64 {
	return lr.intercept_
}

// Rank は学習時の計画行列の数値ランクを返す
func (lr *LinearRegression) Rank() int {
	return lr.rank_
}

// IsFitted returns whether the model has been fitted
func (lr *LinearRegression) IsFitted() bool {
	return lr.state.IsFitted()
}

// Clone は同じハイパーパラメータを持つ未学習のモデルを作成
func (lr *LinearRegression) Clone() model.Estimator {
	return NewLinearRegression(
		WithLRFitIntercept(lr.fitIntercept),
		WithPositive(lr.positive),
		WithRCond(lr.rcond),
	)
}

// String returns the string representation of the model
func (lr *LinearRegression) String() string {
	if !lr.state.IsFitted() {
		return fmt.Sprintf("LinearRegression(fit_intercept=%t, positive=%t)", lr.fitIntercept, lr.positive)
	}
	nFeatures, _ := lr.state.Dimensions()
	return fmt.Sprintf("LinearRegression(fit_intercept=%t, n_features=%d, fitted=true)", lr.fitIntercept, nFeatures)
}
