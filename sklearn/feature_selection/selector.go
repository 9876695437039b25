package feature_selection

import (
	"context"
	"fmt"
	"io"
	"os"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/geneticfs/core/dataset"
	"github.com/YuminosukeSato/geneticfs/core/model"
	"github.com/YuminosukeSato/geneticfs/pkg/errors"
	"github.com/YuminosukeSato/geneticfs/pkg/log"
)

// GeneticSelector は遺伝的アルゴリズムによる特徴量選択器
//
// Fit runs the search and keeps its Result; Transform then projects new
// data onto the selected columns.
type GeneticSelector struct {
	state  *model.StateManager
	cfg    Config
	logger log.Logger
	result *Result
}

// NewGeneticSelector は新しいGeneticSelectorを作成
func NewGeneticSelector(opts ...Option) *GeneticSelector {
	return &GeneticSelector{
		state: model.NewStateManager(),
		cfg:   NewConfig(opts...),
	}
}

// NewGeneticSelectorFromConfig はConfigからGeneticSelectorを作成
func NewGeneticSelectorFromConfig(cfg Config) *GeneticSelector {
	return &GeneticSelector{
		state: model.NewStateManager(),
		cfg:   cfg,
	}
}

// SetLogger overrides the logger built from LogTo and Verbose.
func (s *GeneticSelector) SetLogger(l log.Logger) {
	s.logger = l
}

// Config returns the selector's configuration.
func (s *GeneticSelector) Config() Config {
	return s.cfg
}

// Fit runs the search with a background context.
func (s *GeneticSelector) Fit(est model.Estimator, data dataset.Dataset) error {
	return s.FitContext(context.Background(), est, data)
}

// FitContext runs the search. Any previous result is discarded first, so a
// failed fit leaves the selector unfitted.
func (s *GeneticSelector) FitContext(ctx context.Context, est model.Estimator, data dataset.Dataset) error {
	s.Reset()
	if err := s.cfg.Validate(); err != nil {
		return err
	}

	logger, closer, err := s.runLogger()
	if err != nil {
		return err
	}
	if closer != nil {
		defer closer.Close()
	}
	restore := log.RouteWarnings(logger)
	defer restore()

	res, err := Run(ctx, s.cfg, est, data, logger)
	if err != nil {
		return err
	}

	s.result = res
	nSamples, nFeatures := data.Dims()
	s.state.SetFitted(nFeatures, nSamples)
	return nil
}

// runLogger writes JSON to LogTo and, when Verbose, a console copy to stdout.
func (s *GeneticSelector) runLogger() (log.Logger, io.Closer, error) {
	if s.logger != nil {
		return s.logger, nil, nil
	}

	level := log.LevelWarn
	if s.cfg.Verbose {
		level = log.LevelInfo
	}

	var (
		writers []io.Writer
		closer  io.Closer
	)
	if s.cfg.LogTo != "" {
		f, err := log.OpenLogFile(s.cfg.LogTo)
		if err != nil {
			return nil, nil, err
		}
		writers = append(writers, f)
		closer = f
	}
	if s.cfg.Verbose {
		writers = append(writers, log.NewConsoleWriter(os.Stdout))
	}
	if len(writers) == 0 {
		return log.GetLogger(), nil, nil
	}
	return log.NewTeeLogger(level, writers...), closer, nil
}

// Results returns the best chromosome of the final generation.
func (s *GeneticSelector) Results() (Chromosome, error) {
	if err := s.state.RequireFitted("GeneticSelector", "Results"); err != nil {
		return nil, err
	}
	return s.result.Best().Clone(), nil
}

// SelectedFeatures returns the column indices selected by Results.
func (s *GeneticSelector) SelectedFeatures() ([]int, error) {
	if err := s.state.RequireFitted("GeneticSelector", "SelectedFeatures"); err != nil {
		return nil, err
	}
	return s.result.SelectedFeatures(), nil
}

// History returns the per-generation records of the last fit.
func (s *GeneticSelector) History() (History, error) {
	if err := s.state.RequireFitted("GeneticSelector", "History"); err != nil {
		return nil, err
	}
	return s.result.History, nil
}

// Result returns the full result of the last fit.
func (s *GeneticSelector) Result() (*Result, error) {
	if err := s.state.RequireFitted("GeneticSelector", "Result"); err != nil {
		return nil, err
	}
	return s.result, nil
}

// Transform keeps only the selected columns of X.
func (s *GeneticSelector) Transform(X mat.Matrix) (mat.Matrix, error) {
	if err := s.state.RequireFitted("GeneticSelector", "Transform"); err != nil {
		return nil, err
	}
	rows, cols := X.Dims()
	if err := s.state.RequireFeatures("GeneticSelector.Transform", cols); err != nil {
		return nil, err
	}

	idx := s.result.SelectedFeatures()
	if len(idx) == 0 {
		return nil, errors.NewValueError("GeneticSelector.Transform", "no features selected")
	}
	out := mat.NewDense(rows, len(idx), nil)
	for j, col := range idx {
		for i := 0; i < rows; i++ {
			out.Set(i, j, X.At(i, col))
		}
	}
	return out, nil
}

// Reset discards the result of the last fit.
func (s *GeneticSelector) Reset() {
	s.result = nil
	s.state.Reset()
}

// String returns a readable representation of the selector.
func (s *GeneticSelector) String() string {
	return fmt.Sprintf("GeneticSelector(generations=%d, population_size=%d, mutation_rate=%g, task=%s)",
		s.cfg.Generations, s.cfg.PopulationSize, s.cfg.MutationRate, s.cfg.Task)
}
