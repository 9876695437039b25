// Package model は探索で評価されるモデルが満たすべきインターフェースを定義します。
package model

import "gonum.org/v1/gonum/mat"

// Fitter は学習可能なモデルのインターフェース
type Fitter interface {
	// Fit はモデルを訓練データで学習させる
	Fit(X, y mat.Matrix) error
}

// Predictor は予測可能なモデルのインターフェース
type Predictor interface {
	// Predict は入力データに対する予測を行う
	Predict(X mat.Matrix) (mat.Matrix, error)
}

// Estimator は特徴量部分集合の評価に使う教師ありモデル。
// Fit は呼ばれるたびに以前の学習結果を破棄して再学習しなければならない。
type Estimator interface {
	Fitter
	Predictor
}

// Cloner は同じハイパーパラメータを持つ未学習のコピーを返せるモデル。
// 並列評価ではワーカーごとに Clone したモデルを使う。
type Cloner interface {
	Clone() Estimator
}

// LinearModel は線形モデルのインターフェース
type LinearModel interface {
	// Coef は学習された重み（係数）を返す
	Coef() []float64
	// Intercept は学習された切片を返す
	Intercept() float64
}

// CloneOrShare returns an independent copy of est when it supports Cloner and
// reports whether the copy is safe to use concurrently with est.
func CloneOrShare(est Estimator) (Estimator, bool) {
	if c, ok := est.(Cloner); ok {
		if clone := c.Clone(); clone != nil {
			return clone, true
		}
	}
	return est, false
}
