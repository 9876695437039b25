// Package log defines standard attribute keys for search operations.
//
// The keys follow a hierarchical naming convention (e.g. "ga.generation",
// "data.features") so that log lines from different runs can be filtered
// and aggregated.
package log

// Model and Operation Context
const (
	// ModelNameKey identifies the type of estimator being scored.
	// Examples: "LinearRegression", "LogisticRegression"
	ModelNameKey = "model.name"

	// OperationKey specifies the operation being performed.
	OperationKey = "ml.operation"

	// ComponentKey identifies which package is logging.
	ComponentKey = "ml.component"

	// TaskKey is the supervised task type: "regression" or "classification".
	TaskKey = "ml.task"
)

// Data Shape
const (
	// SamplesKey indicates the number of samples (rows) in the dataset.
	SamplesKey = "data.samples"

	// FeaturesKey indicates the number of candidate features (columns).
	FeaturesKey = "data.features"

	// SelectedKey is the number of features selected by a chromosome.
	SelectedKey = "data.selected"
)

// Performance
const (
	// DurationMsKey records the execution time of an operation in milliseconds.
	DurationMsKey = "perf.duration_ms"

	// DurationSecondsKey records the execution time in seconds.
	DurationSecondsKey = "perf.duration_seconds"

	// WorkersKey is the number of fitness evaluation workers.
	WorkersKey = "perf.workers"
)

// Genetic search
const (
	// RunIDKey identifies one search run.
	RunIDKey = "ga.run_id"

	// GenerationKey is the 1-indexed generation number.
	GenerationKey = "ga.generation"

	// GenerationsKey is the configured generation budget.
	GenerationsKey = "ga.generations"

	// PopulationKey is the population size.
	PopulationKey = "ga.population"

	// ChromosomeKey is a chromosome's index within its generation.
	ChromosomeKey = "ga.chromosome"

	// MutationRateKey is the per-gene flip probability.
	MutationRateKey = "ga.mutation_rate"

	// BestScoreKey is the score of the rank-0 chromosome.
	BestScoreKey = "ga.best_score"

	// MeanScoreKey is the mean score of the generation.
	MeanScoreKey = "ga.mean_score"

	// RandomSeedKey records the random seed for reproducibility.
	RandomSeedKey = "config.random_seed"
)

// Error Context
const (
	// ErrorTypeKey categorizes the type of error encountered.
	ErrorTypeKey = "error.type"

	// StacktraceKey contains stack trace information for debugging.
	StacktraceKey = "error.stacktrace"
)

// Standard attribute values.
const (
	OperationFit       = "fit"
	OperationPredict   = "predict"
	OperationTransform = "transform"
	OperationScore     = "score"
	OperationSearch    = "search"
)
