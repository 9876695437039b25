package metrics

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/geneticfs/pkg/errors"
)

// Scorer は n×1 の正解と予測からスコアを返す関数。値が大きいほど良い。
type Scorer func(yTrue, yPred mat.Matrix) (float64, error)

// Scoring names accepted by ScorerFor.
const (
	ScoringR2         = "r2"
	ScoringF1Weighted = "f1_weighted"
	ScoringF1Macro    = "f1_macro"
	ScoringAccuracy   = "accuracy"
	ScoringNegMSE     = "neg_mean_squared_error"
	ScoringNegMAE     = "neg_mean_absolute_error"
)

// ScorerFor は名前からスコア関数を返す。誤差系は符号を反転して返す。
func ScorerFor(name string) (Scorer, error) {
	switch name {
	case ScoringR2:
		return R2ScoreMatrix, nil
	case ScoringF1Weighted:
		return F1WeightedMatrix, nil
	case ScoringF1Macro:
		return vectorScorer("F1Score", func(t, p *mat.VecDense) (float64, error) {
			return F1Score(t, p, AverageMacro)
		}), nil
	case ScoringAccuracy:
		return vectorScorer("Accuracy", Accuracy), nil
	case ScoringNegMSE:
		return negate(vectorScorer("MSE", MSE)), nil
	case ScoringNegMAE:
		return negate(vectorScorer("MAE", MAE)), nil
	default:
		return nil, errors.NewValueError("metrics.ScorerFor", fmt.Sprintf("unknown scoring %q", name))
	}
}

func vectorScorer(op string, fn func(yTrue, yPred *mat.VecDense) (float64, error)) Scorer {
	return func(yTrue, yPred mat.Matrix) (float64, error) {
		t, p, err := columnPair(op, yTrue, yPred)
		if err != nil {
			return 0, err
		}
		return fn(t, p)
	}
}

func negate(s Scorer) Scorer {
	return func(yTrue, yPred mat.Matrix) (float64, error) {
		v, err := s(yTrue, yPred)
		return -v, err
	}
}
