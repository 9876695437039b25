package linear_model

import (
	"fmt"
	"math"
	"math/rand/v2"
	"sort"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/geneticfs/core/model"
	"github.com/YuminosukeSato/geneticfs/metrics"
	"github.com/YuminosukeSato/geneticfs/pkg/errors"
)

// LogisticRegression implements logistic regression for classification.
// Binary problems fit a single sigmoid; multiclass problems fit one-vs-rest.
type LogisticRegression struct {
	state *model.StateManager

	// Hyperparameters
	penalty      string  // Regularization: "l2" or "none"
	C            float64 // Inverse regularization strength (1/alpha)
	fitIntercept bool    // Whether to fit intercept
	randomState  int64   // Random seed for weight initialization; negative = fixed zero start
	maxIter      int     // Maximum iterations
	tol          float64 // Tolerance for stopping

	// Model parameters
	coef_      [][]float64 // Coefficients (n_classes x n_features or 1 x n_features for binary)
	intercept_ []float64   // Intercept terms
	classes_   []int       // Unique class labels
	nClasses_  int         // Number of classes
	nIter_     []int       // Actual iterations per class
}

// LogisticRegressionOption is a functional option for LogisticRegression
type LogisticRegressionOption func(*LogisticRegression)

// NewLogisticRegression creates a new LogisticRegression classifier
func NewLogisticRegression(opts ...LogisticRegressionOption) *LogisticRegression {
	lr := &LogisticRegression{
		state:        model.NewStateManager(),
		penalty:      "l2",
		C:            1.0,
		fitIntercept: true,
		randomState:  -1,
		maxIter:      100,
		tol:          1e-4,
	}
	for _, opt := range opts {
		opt(lr)
	}
	return lr
}

// WithLRPenalty sets the regularization type
func WithLRPenalty(penalty string) LogisticRegressionOption {
	return func(lr *LogisticRegression) {
		lr.penalty = penalty
	}
}

// WithLRC sets the inverse regularization strength
func WithLRC(c float64) LogisticRegressionOption {
	return func(lr *LogisticRegression) {
		lr.C = c
	}
}

// WithLogisticFitIntercept sets whether to fit intercept
func WithLogisticFitIntercept(fit bool) LogisticRegressionOption {
	return func(lr *LogisticRegression) {
		lr.fitIntercept = fit
	}
}

// WithLRMaxIter sets the maximum number of iterations
func WithLRMaxIter(maxIter int) LogisticRegressionOption {
	return func(lr *LogisticRegression) {
		lr.maxIter = maxIter
	}
}

// WithLRTol sets the tolerance for stopping criteria
func WithLRTol(tol float64) LogisticRegressionOption {
	return func(lr *LogisticRegression) {
		lr.tol = tol
	}
}

// WithLRRandomState sets the seed of the initial weights.
// Every Fit restarts from the same seed, so refits are reproducible.
func WithLRRandomState(seed int64) LogisticRegressionOption {
	return func(lr *LogisticRegression) {
		lr.randomState = seed
	}
}

// Fit trains the logistic regression model, discarding any previous fit.
func (lr *LogisticRegression) Fit(X, y mat.Matrix) error {
	nSamples, nFeatures := X.Dims()
	yRows, yCols := y.Dims()

	if nSamples == 0 || nFeatures == 0 {
		return errors.NewValueError("LogisticRegression.Fit", "empty input")
	}
	if nSamples != yRows {
		return errors.NewDimensionError("LogisticRegression.Fit", nSamples, yRows, 0)
	}
	if yCols != 1 {
		return errors.NewDimensionError("LogisticRegression.Fit", 1, yCols, 1)
	}
	lr.state.Reset()

	lr.extractClasses(y)
	if lr.nClasses_ < 2 {
		return errors.NewValueError("LogisticRegression.Fit",
			fmt.Sprintf("needs samples of at least 2 classes, got %d", lr.nClasses_))
	}
	lr.initializeWeights(nFeatures)

	if lr.nClasses_ == 2 {
		lr.nIter_[0] = lr.fitBinary(X, lr.binaryTargets(y, lr.classes_[1]), 0)
	} else {
		// One-vs-rest
		for classIdx, class := range lr.classes_ {
			lr.nIter_[classIdx] = lr.fitBinary(X, lr.binaryTargets(y, class), classIdx)
		}
	}

	lr.state.SetFitted(nFeatures, nSamples)
	return nil
}

// extractClasses identifies unique class labels in ascending order
func (lr *LogisticRegression) extractClasses(y mat.Matrix) {
	rows, _ := y.Dims()
	classMap := make(map[int]bool)
	for i := 0; i < rows; i++ {
		classMap[int(y.At(i, 0))] = true
	}

	lr.classes_ = make([]int, 0, len(classMap))
	for class := range classMap {
		lr.classes_ = append(lr.classes_, class)
	}
	sort.Ints(lr.classes_)
	lr.nClasses_ = len(lr.classes_)
}

// initializeWeights initializes model weights
func (lr *LogisticRegression) initializeWeights(nFeatures int) {
	nModels := lr.nClasses_
	if nModels == 2 {
		nModels = 1
	}
	lr.coef_ = make([][]float64, nModels)
	for i := range lr.coef_ {
		lr.coef_[i] = make([]float64, nFeatures)
	}
	lr.intercept_ = make([]float64, nModels)
	lr.nIter_ = make([]int, nModels)

	if lr.randomState < 0 {
		return
	}
	// Small random start drawn from the fixed seed
	rng := rand.New(rand.NewPCG(uint64(lr.randomState), uint64(lr.randomState)))
	for i := range lr.coef_ {
		for j := range lr.coef_[i] {
			lr.coef_[i][j] = rng.NormFloat64() * 0.01
		}
	}
}

func (lr *LogisticRegression) binaryTargets(y mat.Matrix, positive int) []float64 {
	rows, _ := y.Dims()
	out := make([]float64, rows)
	for i := 0; i < rows; i++ {
		if int(y.At(i, 0)) == positive {
			out[i] = 1
		}
	}
	return out
}

// fitBinary fits one sigmoid by gradient descent and returns the iterations used
func (lr *LogisticRegression) fitBinary(X mat.Matrix, yBinary []float64, classIdx int) int {
	nSamples, nFeatures := X.Dims()
	weights := lr.coef_[classIdx]
	intercept := &lr.intercept_[classIdx]

	baseLearningRate := 1.0
	gradWeights := make([]float64, nFeatures)

	iter := 0
	for iter < lr.maxIter {
		for j := range gradWeights {
			gradWeights[j] = 0
		}
		gradIntercept := 0.0

		for i := 0; i < nSamples; i++ {
			z := *intercept
			for j := 0; j < nFeatures; j++ {
				z += X.At(i, j) * weights[j]
			}
			residual := sigmoid(z) - yBinary[i]
			gradIntercept += residual
			for j := 0; j < nFeatures; j++ {
				gradWeights[j] += residual * X.At(i, j)
			}
		}

		for j := range gradWeights {
			gradWeights[j] /= float64(nSamples)
		}
		gradIntercept /= float64(nSamples)

		learningRate := baseLearningRate / (1.0 + 0.1*float64(iter))

		// L2 is applied as a proximal shrink so that small C stays stable
		lambda := 0.0
		if lr.penalty == "l2" {
			lambda = 1.0 / (lr.C * float64(nSamples))
		}
		for j := range weights {
			weights[j] = (weights[j] - learningRate*gradWeights[j]) / (1.0 + learningRate*lambda)
			gradWeights[j] += lambda * weights[j]
		}
		if lr.fitIntercept {
			*intercept -= learningRate * gradIntercept
		}
		iter++

		maxGrad := math.Abs(gradIntercept)
		for _, g := range gradWeights {
			maxGrad = math.Max(maxGrad, math.Abs(g))
		}
		if maxGrad < lr.tol {
			break
		}
	}
	return iter
}

func (lr *LogisticRegression) decision(X mat.Matrix, i, classIdx int) float64 {
	z := lr.intercept_[classIdx]
	for j, w := range lr.coef_[classIdx] {
		z += X.At(i, j) * w
	}
	return z
}

func (lr *LogisticRegression) checkPredict(method string, X mat.Matrix) error {
	if err := lr.state.RequireFitted("LogisticRegression", method); err != nil {
		return err
	}
	_, cols := X.Dims()
	return lr.state.RequireFeatures("LogisticRegression."+method, cols)
}

// Predict makes predictions for input data
func (lr *LogisticRegression) Predict(X mat.Matrix) (mat.Matrix, error) {
	if err := lr.checkPredict("Predict", X); err != nil {
		return nil, err
	}

	nSamples, _ := X.Dims()
	predictions := mat.NewDense(nSamples, 1, nil)

	for i := 0; i < nSamples; i++ {
		if lr.nClasses_ == 2 {
			if sigmoid(lr.decision(X, i, 0)) >= 0.5 {
				predictions.Set(i, 0, float64(lr.classes_[1]))
			} else {
				predictions.Set(i, 0, float64(lr.classes_[0]))
			}
			continue
		}
		best := 0
		bestScore := math.Inf(-1)
		for classIdx := 0; classIdx < lr.nClasses_; classIdx++ {
			if s := lr.decision(X, i, classIdx); s > bestScore {
				bestScore = s
				best = classIdx
			}
		}
		predictions.Set(i, 0, float64(lr.classes_[best]))
	}

	return predictions, nil
}

// PredictProba returns probability estimates for each class
func (lr *LogisticRegression) PredictProba(X mat.Matrix) (mat.Matrix, error) {
	if err := lr.checkPredict("PredictProba", X); err != nil {
		return nil, err
	}

	nSamples, _ := X.Dims()
	probas := mat.NewDense(nSamples, lr.nClasses_, nil)

	for i := 0; i < nSamples; i++ {
		if lr.nClasses_ == 2 {
			p1 := sigmoid(lr.decision(X, i, 0))
			probas.Set(i, 0, 1.0-p1)
			probas.Set(i, 1, p1)
			continue
		}

		// Softmax over one-vs-rest scores
		scores := make([]float64, lr.nClasses_)
		maxScore := math.Inf(-1)
		for classIdx := range scores {
			scores[classIdx] = lr.decision(X, i, classIdx)
			maxScore = math.Max(maxScore, scores[classIdx])
		}
		sum := 0.0
		for classIdx := range scores {
			scores[classIdx] = math.Exp(scores[classIdx] - maxScore)
			sum += scores[classIdx]
		}
		for classIdx := range scores {
			probas.Set(i, classIdx, scores[classIdx]/sum)
		}
	}

	return probas, nil
}

// Score returns the mean accuracy on the given test data and labels
func (lr *LogisticRegression) Score(X, y mat.Matrix) (float64, error) {
	predictions, err := lr.Predict(X)
	if err != nil {
		return 0, err
	}
	scorer, err := metrics.ScorerFor(metrics.ScoringAccuracy)
	if err != nil {
		return 0, err
	}
	return scorer(y, predictions)
}

// Classes returns the class labels seen during Fit.
func (lr *LogisticRegression) Classes() []int {
	return append([]int(nil), lr.classes_...)
}

// Coef returns the coefficients of the first (or only) decision function.
func (lr *LogisticRegression) Coef() []float64 {
	if len(lr.coef_) == 0 {
		return nil
	}
	return append([]float64(nil), lr.coef_[0]...)
}

// Intercept returns the intercept of the first (or only) decision function.
func (lr *LogisticRegression) Intercept() float64 {
	if len(lr.intercept_) == 0 {
		return 0
	}
	return lr.intercept_[0]
}

// NIter returns the gradient descent iterations used per decision function.
func (lr *LogisticRegression) NIter() []int {
	return append([]int(nil), lr.nIter_...)
}

// Clone returns an unfitted copy with the same hyperparameters.
func (lr *LogisticRegression) Clone() model.Estimator {
	return NewLogisticRegression(
		WithLRPenalty(lr.penalty),
		WithLRC(lr.C),
		WithLogisticFitIntercept(lr.fitIntercept),
		WithLRMaxIter(lr.maxIter),
		WithLRTol(lr.tol),
		WithLRRandomState(lr.randomState),
	)
}

// GetParams returns the model hyperparameters
func (lr *LogisticRegression) GetParams() map[string]interface{} {
	return map[string]interface{}{
		"penalty":       lr.penalty,
		"C":             lr.C,
		"fit_intercept": lr.fitIntercept,
		"random_state":  lr.randomState,
		"max_iter":      lr.maxIter,
		"tol":           lr.tol,
	}
}

// SetParams sets the model hyperparameters
func (lr *LogisticRegression) SetParams(params map[string]interface{}) error {
	for key, value := range params {
		ok := true
		switch key {
		case "penalty":
			lr.penalty, ok = value.(string)
		case "C":
			lr.C, ok = value.(float64)
		case "fit_intercept":
			lr.fitIntercept, ok = value.(bool)
		case "random_state":
			lr.randomState, ok = value.(int64)
		case "max_iter":
			lr.maxIter, ok = value.(int)
		case "tol":
			lr.tol, ok = value.(float64)
		default:
			return errors.NewValueError("LogisticRegression.SetParams", fmt.Sprintf("unknown parameter: %s", key))
		}
		if !ok {
			return errors.NewValueError("LogisticRegression.SetParams", fmt.Sprintf("parameter %s has wrong type %T", key, value))
		}
	}
	return nil
}

// sigmoid computes the sigmoid function
func sigmoid(z float64) float64 {
	return 1.0 / (1.0 + math.Exp(-z))
}
