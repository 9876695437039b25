package feature_selection

import (
	"context"
	"sync"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/geneticfs/core/dataset"
	"github.com/YuminosukeSato/geneticfs/core/model"
	"github.com/YuminosukeSato/geneticfs/metrics"
	"github.com/YuminosukeSato/geneticfs/pkg/errors"
	"github.com/YuminosukeSato/geneticfs/preprocessing"
	"github.com/YuminosukeSato/geneticfs/sklearn/decomposition"
	"github.com/YuminosukeSato/geneticfs/sklearn/model_selection"
)

// Evaluator scores one chromosome. Higher is better.
type Evaluator interface {
	Evaluate(ctx context.Context, c Chromosome) (float64, error)
}

// Forker is implemented by evaluators that can hand out a copy for another
// worker goroutine. Evaluators without Fork are serialized by the search.
type Forker interface {
	Fork() Evaluator
}

// ModelEvaluator scores a chromosome by training an estimator on the selected
// columns of a dataset.
type ModelEvaluator struct {
	cfg       Config
	est       model.Estimator
	mu        *sync.Mutex // guards est, shared with forks that share est
	data      dataset.Dataset
	target    mat.Matrix
	nFeatures int
	splitter  model_selection.Splitter
	scorer    metrics.Scorer
}

// NewModelEvaluator validates cfg against data and prepares the scorer and
// splitter. A dataset with fewer samples than folds is a ConfigurationError.
func NewModelEvaluator(cfg Config, est model.Estimator, data dataset.Dataset) (*ModelEvaluator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if est == nil {
		return nil, errors.NewConfigurationError("estimator", "must not be nil", nil)
	}
	if data == nil {
		return nil, errors.WithStack(errors.ErrEmptyData)
	}
	nSamples, nFeatures := data.Dims()
	if nSamples == 0 || nFeatures == 0 {
		return nil, errors.WithStack(errors.ErrEmptyData)
	}

	scorer, err := metrics.ScorerFor(cfg.Scoring())
	if err != nil {
		return nil, err
	}

	ev := &ModelEvaluator{
		cfg:       cfg,
		est:       est,
		mu:        &sync.Mutex{},
		data:      data,
		target:    data.Target(),
		nFeatures: nFeatures,
		scorer:    scorer,
	}
	if cfg.CV {
		kf, err := model_selection.NewKFold(cfg.NSplits)
		if err != nil {
			return nil, err
		}
		if nSamples < cfg.NSplits {
			return nil, errors.NewConfigurationError("n_splits",
				"dataset has fewer samples than folds", cfg.NSplits)
		}
		ev.splitter = kf
	}
	return ev, nil
}

// Fork returns an evaluator for another worker. When the estimator can be
// cloned the fork owns its clone; otherwise both share the estimator and its lock.
func (e *ModelEvaluator) Fork() Evaluator {
	fork := *e
	est, independent := model.CloneOrShare(e.est)
	if independent {
		fork.est = est
		fork.mu = &sync.Mutex{}
	}
	return &fork
}

// Evaluate implements Evaluator.
func (e *ModelEvaluator) Evaluate(ctx context.Context, c Chromosome) (float64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if len(c) != e.nFeatures {
		return 0, errors.NewConfigurationError("chromosome_length", "must equal the dataset feature count", len(c))
	}

	idx := c.Selected()
	if len(idx) == 0 {
		if e.cfg.EmptySubset == EmptySubsetFail {
			return 0, errors.NewDegenerateSubsetError(len(c))
		}
		return 0, nil
	}

	X := e.data.Columns(idx)
	if scaler, _ := preprocessing.NewScaler(e.cfg.Scaling); scaler != nil {
		scaled, err := scaler.FitTransform(X)
		if err != nil {
			return 0, errors.Wrap(err, "scale")
		}
		X = scaled
	}
	if e.cfg.PCA {
		pca := decomposition.NewPCA(decomposition.WithVarianceThreshold(e.cfg.VarianceThreshold))
		projected, err := pca.FitTransform(X)
		if err != nil {
			return 0, errors.Wrap(err, "pca")
		}
		X = projected
	}

	score, err := errors.SafeCall("feature_selection.Evaluate", func() (float64, error) {
		e.mu.Lock()
		defer e.mu.Unlock()
		return e.score(X)
	})
	if err != nil {
		return 0, err
	}

	return checkScore(e.cfg, score)
}

// checkScore applies the undefined score policy to a NaN or infinite score.
func checkScore(cfg Config, score float64) (float64, error) {
	err := errors.CheckScore(cfg.Scoring(), score)
	if err == nil {
		return score, nil
	}
	if cfg.UndefinedScore == UndefinedScoreFail {
		return 0, err
	}
	errors.Warn(&errors.ScoringUndefinedError{Metric: cfg.Scoring(), Value: score})
	return 0, nil
}

func (e *ModelEvaluator) score(X mat.Matrix) (float64, error) {
	if e.splitter != nil {
		result, err := model_selection.CrossValScore(e.est, X, e.target, e.splitter, e.scorer)
		if err != nil {
			return 0, err
		}
		return result.Mean(), nil
	}

	if err := e.est.Fit(X, e.target); err != nil {
		return 0, errors.Wrap(err, "fit")
	}
	pred, err := e.est.Predict(X)
	if err != nil {
		return 0, errors.Wrap(err, "predict")
	}
	return e.scorer(e.target, pred)
}

// lockedEvaluator serializes an evaluator that cannot fork.
type lockedEvaluator struct {
	mu *sync.Mutex
	ev Evaluator
}

func (l lockedEvaluator) Evaluate(ctx context.Context, c Chromosome) (float64, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.ev.Evaluate(ctx, c)
}

// workerEvaluators returns one evaluator per worker.
func workerEvaluators(ev Evaluator, workers int) []Evaluator {
	evals := make([]Evaluator, workers)
	evals[0] = ev
	if workers == 1 {
		return evals
	}
	if f, ok := ev.(Forker); ok {
		for w := 1; w < workers; w++ {
			evals[w] = f.Fork()
		}
		return evals
	}
	shared := lockedEvaluator{mu: &sync.Mutex{}, ev: ev}
	for w := range evals {
		evals[w] = shared
	}
	return evals
}

// FuncEvaluator adapts a plain function to Evaluator.
type FuncEvaluator func(ctx context.Context, c Chromosome) (float64, error)

// Evaluate implements Evaluator.
func (f FuncEvaluator) Evaluate(ctx context.Context, c Chromosome) (float64, error) {
	return f(ctx, c)
}
