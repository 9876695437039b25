// Package model_selection はクロスバリデーションの分割とスコアリングを提供します。
package model_selection

import (
	"fmt"
	"math/rand/v2"

	"github.com/YuminosukeSato/geneticfs/pkg/errors"
)

// Splitter defines interface for cross-validation splitters
type Splitter interface {
	Split(nSamples int) ([]Fold, error)
	NSplits() int
}

// Fold represents a single fold in cross-validation
type Fold struct {
	TrainIndices []int
	TestIndices  []int
}

// KFold implements k-fold cross-validation splitter.
// Without shuffling the folds are contiguous blocks in sample order, the first
// nSamples % k folds holding one extra sample.
type KFold struct {
	k          int
	shuffle    bool
	randomSeed uint64
}

// KFoldOption configures a KFold.
type KFoldOption func(*KFold)

// WithShuffle shuffles sample indices with the given seed before splitting.
func WithShuffle(seed uint64) KFoldOption {
	return func(kf *KFold) {
		kf.shuffle = true
		kf.randomSeed = seed
	}
}

// NewKFold creates a new k-fold splitter. nSplits below 2 is rejected.
func NewKFold(nSplits int, opts ...KFoldOption) (*KFold, error) {
	if nSplits < 2 {
		return nil, errors.NewConfigurationError("n_splits", "must be at least 2", nSplits)
	}
	kf := &KFold{k: nSplits}
	for _, opt := range opts {
		opt(kf)
	}
	return kf, nil
}

// NSplits returns the number of splits
func (kf *KFold) NSplits() int {
	return kf.k
}

// Split generates train/test indices for each fold
func (kf *KFold) Split(nSamples int) ([]Fold, error) {
	if nSamples < kf.k {
		return nil, errors.NewConfigurationError("n_splits",
			fmt.Sprintf("cannot have more folds than samples (%d)", nSamples), kf.k)
	}

	indices := make([]int, nSamples)
	for i := range indices {
		indices[i] = i
	}
	if kf.shuffle {
		r := rand.New(rand.NewPCG(kf.randomSeed, kf.randomSeed))
		r.Shuffle(len(indices), func(i, j int) {
			indices[i], indices[j] = indices[j], indices[i]
		})
	}

	folds := make([]Fold, kf.k)
	foldSize := nSamples / kf.k
	remainder := nSamples % kf.k

	current := 0
	for i := 0; i < kf.k; i++ {
		testSize := foldSize
		if i < remainder {
			testSize++
		}

		test := make([]int, testSize)
		copy(test, indices[current:current+testSize])

		train := make([]int, 0, nSamples-testSize)
		train = append(train, indices[:current]...)
		train = append(train, indices[current+testSize:]...)

		folds[i] = Fold{TrainIndices: train, TestIndices: test}
		current += testSize
	}

	return folds, nil
}
