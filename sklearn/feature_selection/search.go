package feature_selection

import (
	"context"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"

	"github.com/YuminosukeSato/geneticfs/core/dataset"
	"github.com/YuminosukeSato/geneticfs/core/model"
	"github.com/YuminosukeSato/geneticfs/core/parallel"
	"github.com/YuminosukeSato/geneticfs/pkg/errors"
	"github.com/YuminosukeSato/geneticfs/pkg/log"
)

// Result is the outcome of one search run.
type Result struct {
	RunID     string        `json:"run_id"`
	Seed      int64         `json:"seed"`
	Config    Config        `json:"config"`
	NFeatures int           `json:"n_features"`
	StartedAt time.Time     `json:"started_at"`
	Duration  time.Duration `json:"duration"`
	History   History       `json:"-"`
}

// Best returns the rank-0 chromosome of the final generation.
func (r *Result) Best() Chromosome {
	last, ok := r.History.Last()
	if !ok {
		return nil
	}
	return last.Best()
}

// BestScore returns the score of Best.
func (r *Result) BestScore() float64 {
	last, ok := r.History.Last()
	if !ok {
		return 0
	}
	return last.BestScore()
}

// SelectedFeatures returns the feature indices Best selects.
func (r *Result) SelectedFeatures() []int {
	return r.Best().Selected()
}

// BestOverall returns the highest-scoring chromosome of any generation and
// the generation it appeared in. Ties go to the earliest generation.
func (r *Result) BestOverall() (Chromosome, float64, int) {
	var (
		best  Chromosome
		score float64
		gen   int
	)
	for _, rec := range r.History {
		if len(rec.Population) == 0 {
			continue
		}
		if best == nil || rec.BestScore() > score {
			best, score, gen = rec.Best(), rec.BestScore(), rec.Generation
		}
	}
	return best, score, gen
}

// Run searches for the feature subset of data that maximizes est's score.
// A failed run returns a nil Result; failures inside a generation are
// reported as *errors.SearchError.
func Run(ctx context.Context, cfg Config, est model.Estimator, data dataset.Dataset, logger log.Logger) (*Result, error) {
	ev, err := NewModelEvaluator(cfg, est, data)
	if err != nil {
		return nil, err
	}
	_, nFeatures := data.Dims()
	return RunWithEvaluator(ctx, cfg, ev, nFeatures, logger)
}

// RunWithEvaluator runs the search loop over nFeatures genes with a custom
// evaluator. With cfg.Workers > 1 the evaluator is forked per worker when it
// implements Forker and serialized otherwise.
func RunWithEvaluator(ctx context.Context, cfg Config, ev Evaluator, nFeatures int, logger log.Logger) (*Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if ev == nil {
		return nil, errors.NewConfigurationError("evaluator", "must not be nil", nil)
	}
	if nFeatures < 1 {
		return nil, errors.NewConfigurationError("n_features", "must be positive", nFeatures)
	}
	if logger == nil {
		logger = log.GetLogger()
	}

	seed := cfg.RandomState
	if seed < 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewPCG(uint64(seed), uint64(seed)))

	res := &Result{
		RunID:     uuid.New().String(),
		Seed:      seed,
		Config:    cfg,
		NFeatures: nFeatures,
		StartedAt: time.Now(),
		History:   make(History, 0, cfg.Generations),
	}
	logger = logger.With(log.ComponentKey, "feature_selection", log.RunIDKey, res.RunID)

	workers := parallel.EffectiveWorkers(cfg.Workers, cfg.PopulationSize)
	logger.Debug("Search started",
		log.GenerationsKey, cfg.Generations,
		log.PopulationKey, cfg.PopulationSize,
		log.FeaturesKey, nFeatures,
		log.MutationRateKey, cfg.MutationRate,
		log.TaskKey, string(cfg.Task),
		log.RandomSeedKey, seed,
		log.WorkersKey, workers,
	)

	store := NewStore(rng, cfg.PopulationSize, nFeatures)
	evals := workerEvaluators(ev, workers)

	for gen := 1; gen <= cfg.Generations; gen++ {
		if err := ctx.Err(); err != nil {
			return nil, abort(logger, errors.NewSearchError(gen, -1, err), gen)
		}
		start := time.Now()

		scores, err := evaluateGeneration(ctx, cfg, gen, store.Population(), evals)
		if err != nil {
			return nil, abort(logger, err, gen)
		}

		r := rank(store.Population(), scores)
		if r.uniform {
			errors.Warn(errors.NewNormalizationError(gen, r.sum))
		}

		// 最終世代は繁殖しない
		if gen < cfg.Generations {
			offspring := Reproduce(rng, r.population, cfg.MutationRate)
			if err := store.Replace(offspring); err != nil {
				return nil, abort(logger, errors.NewSearchError(gen, -1, err), gen)
			}
		}

		rec := GenerationRecord{
			Generation:      gen,
			Population:      r.population,
			Scores:          r.scores,
			Fitness:         r.fitness,
			Elapsed:         time.Since(start),
			UniformFallback: r.uniform,
		}
		res.History = append(res.History, rec)

		if cfg.Verbose && gen%cfg.LogInterval == 0 {
			logger.Info("Generation complete",
				log.GenerationKey, gen,
				log.DurationSecondsKey, rec.Elapsed.Seconds(),
				log.BestScoreKey, rec.BestScore(),
				log.MeanScoreKey, rec.MeanScore(),
			)
		}
	}

	res.Duration = time.Since(res.StartedAt)
	logger.Debug("Search finished",
		log.BestScoreKey, res.BestScore(),
		log.SelectedKey, res.Best().Count(),
		log.DurationSecondsKey, res.Duration.Seconds(),
	)
	return res, nil
}

// evaluateGeneration scores every chromosome, writing results by index. The
// error of the lowest failing index wins.
func evaluateGeneration(ctx context.Context, cfg Config, gen int, pop Population, evals []Evaluator) ([]float64, error) {
	scores := make([]float64, len(pop))
	errs := make([]error, len(pop))

	parallel.ParallelizeWorkers(len(pop), len(evals), func(worker, start, end int) {
		ev := evals[worker]
		for i := start; i < end; i++ {
			if err := ctx.Err(); err != nil {
				errs[i] = err
				return
			}
			score, err := errors.SafeCall("feature_selection.Evaluate", func() (float64, error) {
				return ev.Evaluate(ctx, pop[i])
			})
			if err == nil {
				score, err = checkScore(cfg, score)
			}
			if err != nil {
				errs[i] = err
				return
			}
			scores[i] = score
		}
	})

	for i, err := range errs {
		if err != nil {
			return nil, errors.NewSearchError(gen, i, err)
		}
	}
	return scores, nil
}

func abort(logger log.Logger, err error, gen int) error {
	logger.Error("Search aborted", err, log.GenerationKey, gen)
	return err
}
