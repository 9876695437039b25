// Package geneticfs selects feature subsets for supervised models with a
// genetic algorithm.
//
// Every candidate subset is a binary chromosome with one gene per feature.
// Each generation is scored by fitting a model on the selected columns
// (k-fold cross-validated by default), ranked, and bred into the next
// generation by single-point crossover against the generation's best
// chromosome followed by per-gene mutation.
//
// # Installation
//
//	go get github.com/YuminosukeSato/geneticfs
//
// # Quick Start
//
//	package main
//
//	import (
//	    "fmt"
//	    "log"
//
//	    "gonum.org/v1/gonum/mat"
//
//	    "github.com/YuminosukeSato/geneticfs/core/dataset"
//	    fs "github.com/YuminosukeSato/geneticfs/sklearn/feature_selection"
//	    "github.com/YuminosukeSato/geneticfs/sklearn/linear_model"
//	)
//
//	func main() {
//	    X := mat.NewDense(100, 6, nil) // fill with data
//	    y := mat.NewDense(100, 1, nil)
//	    data, err := dataset.NewDense(X, y, nil)
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//
//	    selector := fs.NewGeneticSelector(
//	        fs.WithGenerations(30),
//	        fs.WithPopulationSize(20),
//	        fs.WithRandomState(42),
//	    )
//	    if err := selector.Fit(linear_model.NewLinearRegression(), data); err != nil {
//	        log.Fatal(err)
//	    }
//
//	    best, _ := selector.Results()
//	    fmt.Println(best, best.Selected())
//	}
//
// # Packages
//
//   - sklearn/feature_selection: GeneticSelector, Run and the GA operators
//   - sklearn/linear_model: LinearRegression, LogisticRegression
//   - sklearn/model_selection: KFold, CrossValScore
//   - sklearn/decomposition: PCA
//   - preprocessing: StandardScaler, MinMaxScaler
//   - metrics: R², weighted F1 and the named scorers
//   - core/dataset: in-memory datasets, CSV and XLSX loaders
//   - core/model: estimator interfaces and StateManager
//   - core/parallel: worker count helpers
//   - pkg/store: badger-backed run history archive
//   - pkg/viz: progress charts
//   - pkg/log, pkg/errors: structured logging and typed errors
//
// The geneticfs command in cmd/geneticfs runs a search from the command line.
package geneticfs
