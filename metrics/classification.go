package metrics

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/geneticfs/pkg/errors"
)

// Average は多クラス F1 の集約方法
type Average string

const (
	// AverageBinary は陽性ラベル1のみの F1
	AverageBinary Average = "binary"
	// AverageMacro はクラスごとの F1 の単純平均
	AverageMacro Average = "macro"
	// AverageWeighted はクラスごとの F1 をサポート数（正解ラベルの出現数）で重み付けした平均
	AverageWeighted Average = "weighted"
)

// Accuracy は正解率を計算する
func Accuracy(yTrue, yPred *mat.VecDense) (float64, error) {
	n, err := checkPair("Accuracy", yTrue, yPred)
	if err != nil {
		return 0, err
	}

	correct := 0
	for i := 0; i < n; i++ {
		if yTrue.AtVec(i) == yPred.AtVec(i) {
			correct++
		}
	}
	return float64(correct) / float64(n), nil
}

// ClassStats は1クラス分の混同行列の要約
type ClassStats struct {
	Label   float64
	TP      int
	FP      int
	FN      int
	Support int
}

// Precision は TP/(TP+FP)。分母0なら0。
func (c ClassStats) Precision() float64 {
	return errors.SafeDivide(float64(c.TP), float64(c.TP+c.FP))
}

// Recall は TP/(TP+FN)。分母0なら0。
func (c ClassStats) Recall() float64 {
	return errors.SafeDivide(float64(c.TP), float64(c.TP+c.FN))
}

// F1 は precision と recall の調和平均。分母0なら0。
func (c ClassStats) F1() float64 {
	return errors.SafeDivide(float64(2*c.TP), float64(2*c.TP+c.FP+c.FN))
}

// PerClassStats は yTrue と yPred に現れる全ラベルについて昇順で集計する。
func PerClassStats(yTrue, yPred *mat.VecDense) ([]ClassStats, error) {
	n, err := checkPair("PerClassStats", yTrue, yPred)
	if err != nil {
		return nil, err
	}

	index := make(map[float64]int)
	var labels []float64
	for i := 0; i < n; i++ {
		for _, v := range []float64{yTrue.AtVec(i), yPred.AtVec(i)} {
			if _, ok := index[v]; !ok {
				index[v] = 0
				labels = append(labels, v)
			}
		}
	}
	sort.Float64s(labels)
	stats := make([]ClassStats, len(labels))
	for k, l := range labels {
		index[l] = k
		stats[k].Label = l
	}

	for i := 0; i < n; i++ {
		t, p := index[yTrue.AtVec(i)], index[yPred.AtVec(i)]
		stats[t].Support++
		if t == p {
			stats[t].TP++
			continue
		}
		stats[t].FN++
		stats[p].FP++
	}
	return stats, nil
}

// F1Score は F1 スコアを計算する。0除算となるクラスの F1 は0として扱う。
func F1Score(yTrue, yPred *mat.VecDense, average Average) (float64, error) {
	stats, err := PerClassStats(yTrue, yPred)
	if err != nil {
		return 0, err
	}

	switch average {
	case AverageBinary:
		for _, s := range stats {
			if s.Label != 0 && s.Label != 1 {
				return 0, errors.NewValueError("F1Score", fmt.Sprintf("binary average requires labels in {0, 1}, got %v", s.Label))
			}
		}
		for _, s := range stats {
			if s.Label == 1 {
				return s.F1(), nil
			}
		}
		return 0, nil
	case AverageMacro:
		var sum float64
		for _, s := range stats {
			sum += s.F1()
		}
		return sum / float64(len(stats)), nil
	case AverageWeighted:
		var sum float64
		total := 0
		for _, s := range stats {
			sum += s.F1() * float64(s.Support)
			total += s.Support
		}
		return errors.SafeDivide(sum, float64(total)), nil
	default:
		return 0, errors.NewValueError("F1Score", fmt.Sprintf("unknown average %q", average))
	}
}

// F1WeightedMatrix は n×1 行列を受け取る重み付き F1
func F1WeightedMatrix(yTrue, yPred mat.Matrix) (float64, error) {
	t, p, err := columnPair("F1Score", yTrue, yPred)
	if err != nil {
		return 0, err
	}
	return F1Score(t, p, AverageWeighted)
}
