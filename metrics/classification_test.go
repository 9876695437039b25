package metrics

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"
)

func TestAccuracy(t *testing.T) {
	tests := []struct {
		name    string
		yTrue   []float64
		yPred   []float64
		want    float64
		wantErr bool
	}{
		{
			name:  "Perfect accuracy",
			yTrue: []float64{0, 1, 2, 1, 0},
			yPred: []float64{0, 1, 2, 1, 0},
			want:  1.0,
		},
		{
			name:  "80% accuracy",
			yTrue: []float64{0, 1, 2, 1, 0},
			yPred: []float64{0, 1, 1, 1, 0},
			want:  0.8,
		},
		{
			name:  "Zero accuracy",
			yTrue: []float64{0, 0, 0},
			yPred: []float64{1, 1, 1},
			want:  0.0,
		},
		{
			name:    "Empty vectors",
			yTrue:   []float64{},
			yPred:   []float64{},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var yTrue, yPred *mat.VecDense
			if len(tt.yTrue) > 0 {
				yTrue = mat.NewVecDense(len(tt.yTrue), tt.yTrue)
			}
			if len(tt.yPred) > 0 {
				yPred = mat.NewVecDense(len(tt.yPred), tt.yPred)
			}

			got, err := Accuracy(yTrue, yPred)
			if (err != nil) != tt.wantErr {
				t.Errorf("Accuracy() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if !tt.wantErr && math.Abs(got-tt.want) > 1e-6 {
				t.Errorf("Accuracy() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestF1Score(t *testing.T) {
	// yTrue: [0 0 1 1 2 2 2], yPred: [0 1 1 1 2 0 2]
	// class 0: tp=1 fp=1 fn=1 -> f1=0.5,   support 2
	// class 1: tp=2 fp=1 fn=0 -> f1=0.8,   support 2
	// class 2: tp=2 fp=0 fn=1 -> f1=0.8,   support 3
	multiTrue := []float64{0, 0, 1, 1, 2, 2, 2}
	multiPred := []float64{0, 1, 1, 1, 2, 0, 2}

	tests := []struct {
		name    string
		yTrue   []float64
		yPred   []float64
		average Average
		want    float64
		wantErr bool
	}{
		{
			name:    "weighted multiclass",
			yTrue:   multiTrue,
			yPred:   multiPred,
			average: AverageWeighted,
			want:    (0.5*2 + 0.8*2 + 0.8*3) / 7,
		},
		{
			name:    "macro multiclass",
			yTrue:   multiTrue,
			yPred:   multiPred,
			average: AverageMacro,
			want:    (0.5 + 0.8 + 0.8) / 3,
		},
		{
			name:    "binary",
			yTrue:   []float64{0, 1, 1, 0, 1},
			yPred:   []float64{0, 1, 0, 1, 1},
			average: AverageBinary,
			want:    2.0 / 3.0, // tp=2 fp=1 fn=1
		},
		{
			name:    "binary with no positive predictions or labels",
			yTrue:   []float64{0, 0, 0},
			yPred:   []float64{0, 0, 0},
			average: AverageBinary,
			want:    0,
		},
		{
			name:    "weighted with predicted label absent from truth",
			yTrue:   []float64{0, 0, 0, 0},
			yPred:   []float64{0, 0, 1, 1},
			average: AverageWeighted,
			want:    2.0 / 3.0, // class 0 f1 = 4/6, class 1 has zero support
		},
		{
			name:    "binary rejects multiclass labels",
			yTrue:   multiTrue,
			yPred:   multiPred,
			average: AverageBinary,
			wantErr: true,
		},
		{
			name:    "unknown average",
			yTrue:   []float64{0, 1},
			yPred:   []float64{0, 1},
			average: "micro-ish",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := F1Score(
				mat.NewVecDense(len(tt.yTrue), tt.yTrue),
				mat.NewVecDense(len(tt.yPred), tt.yPred),
				tt.average,
			)
			if (err != nil) != tt.wantErr {
				t.Fatalf("F1Score() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("F1Score() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPerClassStats(t *testing.T) {
	stats, err := PerClassStats(
		mat.NewVecDense(4, []float64{2, 0, 2, 1}),
		mat.NewVecDense(4, []float64{2, 2, 1, 1}),
	)
	if err != nil {
		t.Fatal(err)
	}
	if len(stats) != 3 {
		t.Fatalf("expected 3 classes, got %d", len(stats))
	}
	if stats[0].Label != 0 || stats[2].Label != 2 {
		t.Errorf("labels not sorted: %+v", stats)
	}
	if stats[2].TP != 1 || stats[2].FP != 1 || stats[2].FN != 1 || stats[2].Support != 2 {
		t.Errorf("class 2 stats = %+v", stats[2])
	}
}

func TestScorerFor(t *testing.T) {
	yTrue := mat.NewDense(4, 1, []float64{1, 0, 1, 0})
	yPred := mat.NewDense(4, 1, []float64{1, 0, 0, 0})

	tests := []struct {
		scoring string
		want    float64
	}{
		{ScoringAccuracy, 0.75},
		{ScoringNegMSE, -0.25},
		{ScoringNegMAE, -0.25},
		{ScoringF1Weighted, (0.8*2 + 2.0/3.0*2) / 4},
		{ScoringF1Macro, (0.8 + 2.0/3.0) / 2},
	}
	for _, tt := range tests {
		t.Run(tt.scoring, func(t *testing.T) {
			scorer, err := ScorerFor(tt.scoring)
			if err != nil {
				t.Fatal(err)
			}
			got, err := scorer(yTrue, yPred)
			if err != nil {
				t.Fatal(err)
			}
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("%s = %v, want %v", tt.scoring, got, tt.want)
			}
		})
	}

	if _, err := ScorerFor("roc_auc"); err == nil {
		t.Error("expected error for unknown scoring")
	}
}
