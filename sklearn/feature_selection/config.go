package feature_selection

import (
	"math"

	"gopkg.in/ini.v1"

	"github.com/YuminosukeSato/geneticfs/metrics"
	"github.com/YuminosukeSato/geneticfs/pkg/errors"
	"github.com/YuminosukeSato/geneticfs/preprocessing"
)

// Task selects the scoring metric.
type Task string

const (
	// TaskRegression scores subsets by R².
	TaskRegression Task = "regression"
	// TaskClassification scores subsets by weighted F1.
	TaskClassification Task = "classification"
)

// EmptySubsetPolicy decides what happens to a chromosome with no genes set.
type EmptySubsetPolicy string

const (
	// EmptySubsetScoreZero scores the chromosome 0 without calling the model.
	EmptySubsetScoreZero EmptySubsetPolicy = "score_zero"
	// EmptySubsetFail aborts the run with a DegenerateSubsetError.
	EmptySubsetFail EmptySubsetPolicy = "fail"
)

// UndefinedScorePolicy decides what happens when a model scores NaN or ±Inf.
type UndefinedScorePolicy string

const (
	// UndefinedScoreSubstitute replaces the score with 0 and emits a warning.
	UndefinedScoreSubstitute UndefinedScorePolicy = "substitute"
	// UndefinedScoreFail aborts the run with a ScoringUndefinedError.
	UndefinedScoreFail UndefinedScorePolicy = "fail"
)

// Config holds the parameters of one search run. It is a value: runs never
// modify the Config they were given.
type Config struct {
	MutationRate      float64               `ini:"mutation_rate"`
	Generations       int                   `ini:"generations"`
	PopulationSize    int                   `ini:"population_size"`
	Task              Task                  `ini:"task"`
	CV                bool                  `ini:"cv"`
	NSplits           int                   `ini:"n_splits"`
	Scaling           preprocessing.Scaling `ini:"scaling"`
	PCA               bool                  `ini:"pca"`
	VarianceThreshold float64               `ini:"variance_threshold"`
	Verbose           bool                  `ini:"verbose"`
	LogInterval       int                   `ini:"log_interval"`
	LogTo             string                `ini:"log_to"`
	Workers           int                   `ini:"workers"`
	RandomState       int64                 `ini:"random_state"`
	EmptySubset       EmptySubsetPolicy     `ini:"empty_subset"`
	UndefinedScore    UndefinedScorePolicy  `ini:"undefined_score"`
}

// DefaultConfig returns the default search configuration.
func DefaultConfig() Config {
	return Config{
		MutationRate:      0.001,
		Generations:       100,
		PopulationSize:    50,
		Task:              TaskRegression,
		CV:                true,
		NSplits:           5,
		Scaling:           preprocessing.ScalingNone,
		PCA:               false,
		VarianceThreshold: 0.99,
		Verbose:           true,
		LogInterval:       10,
		LogTo:             "geneticfs.log",
		Workers:           1,
		RandomState:       -1,
		EmptySubset:       EmptySubsetScoreZero,
		UndefinedScore:    UndefinedScoreSubstitute,
	}
}

// Option modifies a Config.
type Option func(*Config)

// NewConfig returns DefaultConfig with opts applied.
func NewConfig(opts ...Option) Config {
	cfg := DefaultConfig()
	return cfg.With(opts...)
}

// With returns a copy of c with opts applied.
func (c Config) With(opts ...Option) Config {
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

// WithMutationRate sets the per-gene flip probability.
func WithMutationRate(rate float64) Option {
	return func(c *Config) { c.MutationRate = rate }
}

// WithGenerations sets the number of generations.
func WithGenerations(n int) Option {
	return func(c *Config) { c.Generations = n }
}

// WithPopulationSize sets the number of chromosomes per generation.
func WithPopulationSize(n int) Option {
	return func(c *Config) { c.PopulationSize = n }
}

// WithTask sets regression or classification scoring.
func WithTask(t Task) Option {
	return func(c *Config) { c.Task = t }
}

// WithCV turns k-fold scoring on or off.
func WithCV(cv bool) Option {
	return func(c *Config) { c.CV = cv }
}

// WithNSplits sets k for k-fold scoring.
func WithNSplits(k int) Option {
	return func(c *Config) { c.NSplits = k }
}

// WithScaling scales the selected columns before PCA and scoring.
func WithScaling(s preprocessing.Scaling) Option {
	return func(c *Config) { c.Scaling = s }
}

// WithPCA turns the variance-preserving projection on or off.
func WithPCA(pca bool) Option {
	return func(c *Config) { c.PCA = pca }
}

// WithVarianceThreshold sets the cumulative explained variance PCA must exceed.
func WithVarianceThreshold(t float64) Option {
	return func(c *Config) { c.VarianceThreshold = t }
}

// WithVerbose turns progress lines on or off.
func WithVerbose(v bool) Option {
	return func(c *Config) { c.Verbose = v }
}

// WithLogInterval emits a progress line every n generations.
func WithLogInterval(n int) Option {
	return func(c *Config) { c.LogInterval = n }
}

// WithLogTo sets the log file used by GeneticSelector. Empty disables the file.
func WithLogTo(path string) Option {
	return func(c *Config) { c.LogTo = path }
}

// WithWorkers sets the number of fitness workers; 0 means one per CPU.
func WithWorkers(n int) Option {
	return func(c *Config) { c.Workers = n }
}

// WithRandomState seeds the run. A negative seed is replaced by a time-based one.
func WithRandomState(seed int64) Option {
	return func(c *Config) { c.RandomState = seed }
}

// WithEmptySubset sets the policy for chromosomes selecting no feature.
func WithEmptySubset(p EmptySubsetPolicy) Option {
	return func(c *Config) { c.EmptySubset = p }
}

// WithUndefinedScore sets the policy for NaN or infinite scores.
func WithUndefinedScore(p UndefinedScorePolicy) Option {
	return func(c *Config) { c.UndefinedScore = p }
}

// Validate reports the first invalid field as a ConfigurationError.
func (c Config) Validate() error {
	switch {
	case math.IsNaN(c.MutationRate) || c.MutationRate < 0 || c.MutationRate > 1:
		return errors.NewConfigurationError("mutation_rate", "must be in [0, 1]", c.MutationRate)
	case c.Generations < 1:
		return errors.NewConfigurationError("generations", "must be positive", c.Generations)
	case c.PopulationSize < 2:
		return errors.NewConfigurationError("population_size", "must be at least 2", c.PopulationSize)
	case c.Task != TaskRegression && c.Task != TaskClassification:
		return errors.NewConfigurationError("task", "must be regression or classification", c.Task)
	case c.CV && c.NSplits < 2:
		return errors.NewConfigurationError("n_splits", "must be at least 2", c.NSplits)
	case c.PCA && (math.IsNaN(c.VarianceThreshold) || c.VarianceThreshold <= 0 || c.VarianceThreshold > 1):
		return errors.NewConfigurationError("variance_threshold", "must be in (0, 1]", c.VarianceThreshold)
	case c.Verbose && c.LogInterval < 1:
		return errors.NewConfigurationError("log_interval", "must be positive", c.LogInterval)
	case c.Workers < 0:
		return errors.NewConfigurationError("workers", "must not be negative", c.Workers)
	case c.EmptySubset != EmptySubsetScoreZero && c.EmptySubset != EmptySubsetFail:
		return errors.NewConfigurationError("empty_subset", "must be score_zero or fail", c.EmptySubset)
	case c.UndefinedScore != UndefinedScoreSubstitute && c.UndefinedScore != UndefinedScoreFail:
		return errors.NewConfigurationError("undefined_score", "must be substitute or fail", c.UndefinedScore)
	}
	_, err := preprocessing.NewScaler(c.Scaling)
	return err
}

// Scoring returns the metrics scoring name used for the task.
func (c Config) Scoring() string {
	if c.Task == TaskClassification {
		return metrics.ScoringF1Weighted
	}
	return metrics.ScoringR2
}

// ConfigSection is the INI section LoadConfig reads.
const ConfigSection = "search"

// LoadConfig reads the [search] section of an INI file over DefaultConfig and
// validates the result. Keys absent from the file keep their defaults.
func LoadConfig(path string) (Config, error) {
	file, err := ini.LoadSources(ini.LoadOptions{
		IgnoreInlineComment:         true,
		UnescapeValueCommentSymbols: true,
	}, path)
	if err != nil {
		return Config{}, errors.Wrapf(err, "failed to load config file '%s'", path)
	}

	cfg := DefaultConfig()
	if err := file.Section(ConfigSection).MapTo(&cfg); err != nil {
		return Config{}, errors.Wrapf(err, "failed to map [%s] section", ConfigSection)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// SaveConfig writes c as the [search] section of an INI file.
func SaveConfig(c Config, path string) error {
	file := ini.Empty()
	if err := file.Section(ConfigSection).ReflectFrom(&c); err != nil {
		return errors.Wrapf(err, "failed to reflect [%s] section", ConfigSection)
	}
	if err := file.SaveTo(path); err != nil {
		return errors.Wrapf(err, "failed to save config file '%s'", path)
	}
	return nil
}
