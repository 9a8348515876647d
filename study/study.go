package study

import (
	"time"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/cupstack/waitlab/dataset"
	"github.com/cupstack/waitlab/features"
	"github.com/cupstack/waitlab/linear"
	"github.com/cupstack/waitlab/metrics"
	"github.com/cupstack/waitlab/pkg/errors"
	"github.com/cupstack/waitlab/pkg/log"
)

// Options is the reproducibility interface of a run: everything that can
// change the numbers lives here, nothing is a literal inside the pipeline.
type Options struct {
	DataPath      string
	Seed          int64
	TrainFraction float64
	Folds         int
	PathLength    int
	PathRatio     float64
	RidgeTopN     int
}

// Coefficient is one named model coefficient.
type Coefficient struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
}

// BaselineResult holds the OLS model and its holdout evaluation.
type BaselineResult struct {
	Model      *linear.OLS
	TrainMean  float64   // mean log-wait of the training rows
	PseudoR2   float64   // 1 - testDev/nullDev, null = TrainMean constant
	TestRMSE   float64   // log scale
	TestPred   []float64 // log scale, aligned with Split.Test
	TestActual []float64
}

// RegularizedResult holds one cross-validated penalized model: the CV
// curve, the model refit at the selected penalty on the full table, and
// the evaluator's products.
type RegularizedResult struct {
	Model        *linear.ElasticNet
	CV           *linear.CVResult
	PseudoR2     float64       // from the CV curve, see Evaluate
	Coefficients []Coefficient // selected coefficients, sorted by value descending
	NonzeroCount int
	TestPred     []float64 // log scale, aligned with Split.Test
}

// Results is everything one pipeline run produces. Immutable after Run.
type Results struct {
	Table   *dataset.Table // cleaned observation table
	Design  *features.Design
	LogWait *mat.VecDense // log target over the full cleaned table
	Split   dataset.Split
	Folds   [][]int

	Baseline BaselineResult
	Lasso    RegularizedResult
	Ridge    RegularizedResult
}

// Run loads the configured input file and analyzes it.
func Run(opts Options) (*Results, error) {
	table, err := dataset.ReadCSV(opts.DataPath, WaitSchema())
	if err != nil {
		return nil, err
	}
	return Analyze(table, opts)
}

// Analyze executes the pipeline on an already-loaded table: clean, expand,
// split, fit the baseline on the training split, then select Lasso and
// Ridge penalties by cross-validation over the full table.
//
// The regularized models deliberately do NOT reuse the baseline's
// train/test split: their quality figures come from the CV curve over all
// rows, mirroring the reference workflow. The two pseudo-R² figures are
// therefore not directly comparable; this is preserved, not corrected.
func Analyze(table *dataset.Table, opts Options) (_ *Results, err error) {
	defer errors.Recover(&err, "study.Analyze")
	start := time.Now()
	logger := log.GetLoggerWithName("study").With(log.ComponentKey, "study")

	cleaned, err := dataset.Clean(table, dataset.CleanOptions{
		DropPrefix:   BaristaPrefix,
		Categoricals: CategoricalColumns(),
	})
	if err != nil {
		return nil, err
	}

	logWait, err := features.LogTarget(cleaned, ColWaitSecs)
	if err != nil {
		return nil, err
	}

	design, err := features.Build(cleaned, ColWaitSecs, ColCustomer)
	if err != nil {
		return nil, err
	}

	n := cleaned.NumRows()
	split, err := dataset.TrainTestSplit(n, opts.TrainFraction, opts.Seed)
	if err != nil {
		return nil, err
	}

	results := &Results{
		Table:   cleaned,
		Design:  design,
		LogWait: logWait,
		Split:   split,
	}

	results.Baseline, err = fitBaseline(design, logWait, split)
	if err != nil {
		return nil, err
	}

	// One fold assignment, shared by both penalty searches so the curves
	// are comparable.
	results.Folds, err = dataset.KFold(n, opts.Folds, opts.Seed)
	if err != nil {
		return nil, err
	}

	results.Lasso, err = fitRegularized(design, logWait, results.Folds, split, 1, opts)
	if err != nil {
		return nil, err
	}
	results.Ridge, err = fitRegularized(design, logWait, results.Folds, split, 0, opts)
	if err != nil {
		return nil, err
	}

	_, p := design.X.Dims()
	logger.Info("Study completed",
		log.OperationKey, log.OperationEvaluate,
		log.PhaseKey, log.PhaseTraining,
		log.RowsKey, n,
		log.FeaturesKey, p,
		log.SeedKey, opts.Seed,
		log.DurationMsKey, time.Since(start).Milliseconds(),
	)
	return results, nil
}

// fitBaseline trains OLS on the training split and evaluates it on the
// held-out rows against the training-mean null model.
func fitBaseline(design *features.Design, y *mat.VecDense, split dataset.Split) (BaselineResult, error) {
	var out BaselineResult

	trainX, err := design.Rows(split.Train)
	if err != nil {
		return out, err
	}
	testX, err := design.Rows(split.Test)
	if err != nil {
		return out, err
	}
	trainY := subsetVec(y, split.Train)
	testY := subsetVec(y, split.Test)

	ols := linear.NewOLS()
	if err := ols.Fit(trainX.X, trainY); err != nil {
		return out, err
	}

	pred, err := ols.Predict(testX.X)
	if err != nil {
		return out, err
	}
	predVec := columnToVec(pred)

	trainMean := stat.Mean(vecData(trainY), nil)
	dev, err := metrics.Deviance(testY, predVec)
	if err != nil {
		return out, err
	}
	nullDev, err := metrics.NullDeviance(testY, trainMean)
	if err != nil {
		return out, err
	}
	pseudoR2, err := metrics.PseudoR2(dev, nullDev)
	if err != nil {
		return out, err
	}
	rmse, err := metrics.RMSE(testY, predVec)
	if err != nil {
		return out, err
	}

	out = BaselineResult{
		Model:      ols,
		TrainMean:  trainMean,
		PseudoR2:   pseudoR2,
		TestRMSE:   rmse,
		TestPred:   vecData(predVec),
		TestActual: vecData(testY),
	}
	return out, nil
}

// fitRegularized runs the cross-validated penalty search at the given
// l1Ratio over the full table, refits at the winning penalty, and
// evaluates per the CV curve.
func fitRegularized(design *features.Design, y *mat.VecDense, folds [][]int, split dataset.Split, l1Ratio float64, opts Options) (RegularizedResult, error) {
	var out RegularizedResult

	lambdas, err := linear.LambdaPath(design.X, y, l1Ratio, opts.PathLength, opts.PathRatio)
	if err != nil {
		return out, err
	}

	cv, err := linear.CrossValidate(design.X, y, folds, lambdas, linear.WithL1Ratio(l1Ratio))
	if err != nil {
		return out, err
	}

	model := linear.NewElasticNet(
		linear.WithL1Ratio(l1Ratio),
		linear.WithAlpha(cv.SelectedLambda()),
	)
	if err := model.Fit(design.X, y); err != nil {
		return out, err
	}

	out, err = Evaluate(model, cv, design.Names, opts.RidgeTopN)
	if err != nil {
		return out, err
	}

	// Back out test-row predictions for the comparison table. The model
	// saw these rows during fitting; that is the preserved discrepancy.
	testX, err := design.Rows(split.Test)
	if err != nil {
		return out, err
	}
	pred, err := model.Predict(testX.X)
	if err != nil {
		return out, err
	}
	out.TestPred = vecData(columnToVec(pred))

	return out, nil
}

func subsetVec(y *mat.VecDense, rows []int) *mat.VecDense {
	out := mat.NewVecDense(len(rows), nil)
	for i, r := range rows {
		out.SetVec(i, y.AtVec(r))
	}
	return out
}

func columnToVec(m mat.Matrix) *mat.VecDense {
	r, _ := m.Dims()
	out := mat.NewVecDense(r, nil)
	for i := 0; i < r; i++ {
		out.SetVec(i, m.At(i, 0))
	}
	return out
}

func vecData(v *mat.VecDense) []float64 {
	out := make([]float64, v.Len())
	for i := range out {
		out[i] = v.AtVec(i)
	}
	return out
}
