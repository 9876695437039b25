// Package decomposition provides dimensionality reduction transformers.
package decomposition

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/YuminosukeSato/geneticfs/core/model"
	"github.com/YuminosukeSato/geneticfs/pkg/errors"
)

// DefaultVarianceThreshold is the cumulative explained variance ratio the
// kept components must exceed when no explicit component count is set.
const DefaultVarianceThreshold = 0.99

// PCA projects data onto its leading principal components.
//
// By default the number of components is the smallest k whose cumulative
// explained variance ratio is strictly greater than the threshold. Data with
// zero total variance keeps a single component.
type PCA struct {
	state *model.StateManager

	nComponents       int // fixed count; 0 means use varianceThreshold
	varianceThreshold float64

	mean_                   []float64
	components_             *mat.Dense // features × nComponents_
	explainedVariance_      []float64
	explainedVarianceRatio_ []float64
	nComponents_            int
}

// PCAOption configures a PCA.
type PCAOption func(*PCA)

// WithNComponents keeps exactly n components (capped at min(samples, features)).
func WithNComponents(n int) PCAOption {
	return func(p *PCA) {
		p.nComponents = n
	}
}

// WithVarianceThreshold sets the cumulative explained variance ratio to exceed.
func WithVarianceThreshold(t float64) PCAOption {
	return func(p *PCA) {
		p.varianceThreshold = t
	}
}

// NewPCA creates a PCA transformer.
func NewPCA(opts ...PCAOption) *PCA {
	p := &PCA{
		state:             model.NewStateManager(),
		varianceThreshold: DefaultVarianceThreshold,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Fit computes the principal components of X.
func (p *PCA) Fit(X mat.Matrix) error {
	rows, cols := X.Dims()
	if rows == 0 || cols == 0 {
		return errors.NewValueError("PCA.Fit", "empty input")
	}
	if p.nComponents < 0 {
		return errors.NewConfigurationError("n_components", "must be non-negative", p.nComponents)
	}
	if p.nComponents == 0 && (p.varianceThreshold <= 0 || p.varianceThreshold > 1) {
		return errors.NewConfigurationError("variance_threshold", "must be in (0, 1]", p.varianceThreshold)
	}
	p.state.Reset()

	p.mean_ = make([]float64, cols)
	for j := 0; j < cols; j++ {
		p.mean_[j] = stat.Mean(mat.Col(nil, j, X), nil)
	}

	var pc stat.PC
	if ok := pc.PrincipalComponents(X, nil); !ok {
		return errors.NewModelError("PCA.Fit", "principal component decomposition failed", nil)
	}
	vars := pc.VarsTo(nil)
	var vecs mat.Dense
	pc.VectorsTo(&vecs)

	var total float64
	for _, v := range vars {
		total += v
	}
	ratios := make([]float64, len(vars))
	for i, v := range vars {
		ratios[i] = errors.SafeDivide(v, total)
	}

	k := p.selectComponents(ratios, total)

	p.components_ = mat.DenseCopyOf(vecs.Slice(0, cols, 0, k))
	p.explainedVariance_ = append([]float64(nil), vars[:k]...)
	p.explainedVarianceRatio_ = append([]float64(nil), ratios[:k]...)
	p.nComponents_ = k
	p.state.SetFitted(cols, rows)
	return nil
}

func (p *PCA) selectComponents(ratios []float64, total float64) int {
	available := len(ratios)
	if p.nComponents > 0 {
		if p.nComponents < available {
			return p.nComponents
		}
		return available
	}
	if total == 0 {
		return 1
	}
	var cum float64
	for i, r := range ratios {
		cum += r
		if cum > p.varianceThreshold {
			return i + 1
		}
	}
	return available
}

// Transform projects X onto the fitted components.
func (p *PCA) Transform(X mat.Matrix) (mat.Matrix, error) {
	if err := p.state.RequireFitted("PCA", "Transform"); err != nil {
		return nil, err
	}
	rows, cols := X.Dims()
	if err := p.state.RequireFeatures("PCA.Transform", cols); err != nil {
		return nil, err
	}

	centered := mat.NewDense(rows, cols, nil)
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			centered.Set(i, j, X.At(i, j)-p.mean_[j])
		}
	}
	var out mat.Dense
	out.Mul(centered, p.components_)
	return &out, nil
}

// FitTransform fits the model and projects X in one step.
func (p *PCA) FitTransform(X mat.Matrix) (mat.Matrix, error) {
	if err := p.Fit(X); err != nil {
		return nil, err
	}
	return p.Transform(X)
}

// NComponents returns the number of components kept by the last Fit.
func (p *PCA) NComponents() int {
	return p.nComponents_
}

// ExplainedVarianceRatio returns the variance ratio of each kept component.
func (p *PCA) ExplainedVarianceRatio() []float64 {
	return append([]float64(nil), p.explainedVarianceRatio_...)
}

// ExplainedVariance returns the variance of each kept component.
func (p *PCA) ExplainedVariance() []float64 {
	return append([]float64(nil), p.explainedVariance_...)
}

// String returns the string representation of the transformer
func (p *PCA) String() string {
	if p.nComponents > 0 {
		return fmt.Sprintf("PCA(n_components=%d)", p.nComponents)
	}
	return fmt.Sprintf("PCA(variance_threshold=%g)", p.varianceThreshold)
}

var _ model.Transformer = (*PCA)(nil)
