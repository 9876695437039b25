// Command geneticfs runs a genetic feature-subset search over a CSV or XLSX
// dataset and prints the best subset found.
//
//	geneticfs -data housing.csv -target price -generations 50 -plot progress.png
//
// Settings come from the [search] section of -config when given; flags set on
// the command line override them.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/YuminosukeSato/geneticfs/core/dataset"
	"github.com/YuminosukeSato/geneticfs/core/model"
	"github.com/YuminosukeSato/geneticfs/pkg/errors"
	"github.com/YuminosukeSato/geneticfs/pkg/log"
	"github.com/YuminosukeSato/geneticfs/pkg/store"
	"github.com/YuminosukeSato/geneticfs/pkg/viz"
	"github.com/YuminosukeSato/geneticfs/preprocessing"
	fs "github.com/YuminosukeSato/geneticfs/sklearn/feature_selection"
	"github.com/YuminosukeSato/geneticfs/sklearn/linear_model"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, "geneticfs:", err)
		os.Exit(1)
	}
}

type options struct {
	configPath string
	dataPath   string
	sheet      string
	target     string
	logLevel   string
	plotPath   string
	storeDir   string

	task        string
	generations int
	population  int
	mutation    float64
	cv          bool
	nSplits     int
	scaling     string
	pca         bool
	workers     int
	seed        int64
	logTo       string
	verbose     bool
}

func parseFlags(args []string, stderr io.Writer) (*options, map[string]bool, error) {
	def := fs.DefaultConfig()
	o := &options{}

	flags := flag.NewFlagSet("geneticfs", flag.ContinueOnError)
	flags.SetOutput(stderr)
	flags.StringVar(&o.configPath, "config", "", "Path of an INI configuration file")
	flags.StringVar(&o.dataPath, "data", "", "Path of the dataset (.csv or .xlsx)")
	flags.StringVar(&o.sheet, "sheet", "", "XLSX sheet name (first sheet by default)")
	flags.StringVar(&o.target, "target", "", "Target column name (last column by default)")
	flags.StringVar(&o.logLevel, "log", "info", "Log level: debug, info, warn or error")
	flags.StringVar(&o.plotPath, "plot", "", "Write a progress chart to this path (.png, .svg, ...)")
	flags.StringVar(&o.storeDir, "store", "", "Archive the run in a badger database at this directory")

	flags.StringVar(&o.task, "task", string(def.Task), "regression or classification")
	flags.IntVar(&o.generations, "generations", def.Generations, "Number of generations")
	flags.IntVar(&o.population, "population", def.PopulationSize, "Number of chromosomes per generation")
	flags.Float64Var(&o.mutation, "mutation", def.MutationRate, "Per-gene mutation probability")
	flags.BoolVar(&o.cv, "cv", def.CV, "Score subsets with k-fold cross-validation")
	flags.IntVar(&o.nSplits, "folds", def.NSplits, "Number of cross-validation folds")
	flags.StringVar(&o.scaling, "scaling", string(def.Scaling), "Column scaling: none, standard or minmax")
	flags.BoolVar(&o.pca, "pca", def.PCA, "Project each subset with PCA before scoring")
	flags.IntVar(&o.workers, "workers", def.Workers, "Fitness workers (0 = one per CPU)")
	flags.Int64Var(&o.seed, "seed", def.RandomState, "Random seed (negative = time based)")
	flags.StringVar(&o.logTo, "log-file", def.LogTo, "Log file for progress records (empty disables)")
	flags.BoolVar(&o.verbose, "verbose", def.Verbose, "Log progress every log_interval generations")

	if err := flags.Parse(args); err != nil {
		return nil, nil, err
	}
	set := make(map[string]bool)
	flags.Visit(func(f *flag.Flag) { set[f.Name] = true })
	return o, set, nil
}

// buildConfig starts from the config file (or defaults) and applies every
// flag given on the command line.
func buildConfig(o *options, set map[string]bool) (fs.Config, error) {
	cfg := fs.DefaultConfig()
	if o.configPath != "" {
		loaded, err := fs.LoadConfig(o.configPath)
		if err != nil {
			return fs.Config{}, err
		}
		cfg = loaded
	}

	overrides := map[string]fs.Option{
		"task":        fs.WithTask(fs.Task(strings.ToLower(o.task))),
		"generations": fs.WithGenerations(o.generations),
		"population":  fs.WithPopulationSize(o.population),
		"mutation":    fs.WithMutationRate(o.mutation),
		"cv":          fs.WithCV(o.cv),
		"folds":       fs.WithNSplits(o.nSplits),
		"scaling":     fs.WithScaling(preprocessing.Scaling(o.scaling)),
		"pca":         fs.WithPCA(o.pca),
		"workers":     fs.WithWorkers(o.workers),
		"seed":        fs.WithRandomState(o.seed),
		"log-file":    fs.WithLogTo(o.logTo),
		"verbose":     fs.WithVerbose(o.verbose),
	}
	for name, opt := range overrides {
		if set[name] {
			cfg = cfg.With(opt)
		}
	}
	return cfg, cfg.Validate()
}

func loadDataset(o *options) (*dataset.Dense, error) {
	if o.dataPath == "" {
		return nil, errors.New("-data is required")
	}
	switch strings.ToLower(filepath.Ext(o.dataPath)) {
	case ".xlsx", ".xlsm":
		return dataset.LoadXLSX(o.dataPath, o.sheet, o.target)
	default:
		return dataset.LoadCSV(o.dataPath, o.target)
	}
}

func estimatorFor(task fs.Task) model.Estimator {
	if task == fs.TaskClassification {
		return linear_model.NewLogisticRegression()
	}
	return linear_model.NewLinearRegression()
}

func run(ctx context.Context, args []string, stdout io.Writer) error {
	o, set, err := parseFlags(args, os.Stderr)
	if err != nil {
		return err
	}
	if err := log.SetupLogger(o.logLevel); err != nil {
		return err
	}
	logger := log.GetLogger()

	cfg, err := buildConfig(o, set)
	if err != nil {
		return err
	}
	data, err := loadDataset(o)
	if err != nil {
		return err
	}
	nSamples, nFeatures := data.Dims()
	logger.Info("Dataset loaded",
		log.SamplesKey, nSamples,
		log.FeaturesKey, nFeatures,
		log.TaskKey, string(cfg.Task),
	)

	selector := fs.NewGeneticSelectorFromConfig(cfg)
	if err := selector.FitContext(ctx, estimatorFor(cfg.Task), data); err != nil {
		return err
	}
	res, err := selector.Result()
	if err != nil {
		return err
	}

	best := res.Best()
	fmt.Fprintf(stdout, "run:       %s\n", res.RunID)
	fmt.Fprintf(stdout, "seed:      %d\n", res.Seed)
	fmt.Fprintf(stdout, "best:      %s\n", best)
	fmt.Fprintf(stdout, "score:     %.6f\n", res.BestScore())
	fmt.Fprintf(stdout, "selected:  %s\n", strings.Join(dataset.Names(data, best.Selected()), ", "))

	if o.plotPath != "" {
		title := fmt.Sprintf("%s (%s)", filepath.Base(o.dataPath), cfg.Scoring())
		if err := viz.PlotProgress(res.History, title, o.plotPath); err != nil {
			return err
		}
		logger.Info("Progress chart written", "path", o.plotPath)
	}

	if o.storeDir != "" {
		hs, err := store.Open(o.storeDir, logger)
		if err != nil {
			return err
		}
		defer hs.Close()
		if err := hs.SaveRun(res); err != nil {
			return err
		}
		logger.Info("Run archived", log.RunIDKey, res.RunID, "dir", o.storeDir)
	}
	return nil
}
