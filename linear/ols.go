// Package linear provides the linear models of the wait-time study.
//
// Two families are implemented:
//
//   - OLS: unregularized least squares, the deviance baseline. On the
//     interaction-expanded design it overfits badly out of sample; that
//     result is the point of the baseline, not a defect to correct.
//   - ElasticNet: coordinate-descent penalized regression covering the
//     Lasso (l1Ratio=1) and Ridge (l1Ratio=0) endpoints, with penalty
//     paths and k-fold cross-validated penalty selection.
//
// Example usage:
//
//	ols := linear.NewOLS()
//	err := ols.Fit(X, y) // X: design matrix, y: log wait times
//	if err != nil {
//		log.Fatal(err)
//	}
//	predictions, err := ols.Predict(XTest)
//
// All models follow the standard estimator interface with Fit/Predict
// methods and report their learned coefficients for the study's tables.
package linear

import (
	"time"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/cupstack/waitlab/core/model"
	"github.com/cupstack/waitlab/core/parallel"
	"github.com/cupstack/waitlab/metrics"
	"github.com/cupstack/waitlab/pkg/errors"
	"github.com/cupstack/waitlab/pkg/log"
)

// svdRCond is the relative cutoff below which singular values are treated
// as zero when the least-squares solve falls back to the SVD.
const svdRCond = 1e-15

// OLS is an ordinary least squares regression model.
type OLS struct {
	State     *model.StateManager // State manager (composition instead of embedding)
	Weights   *mat.VecDense       // Model weights (coefficients)
	Intercept float64             // Model intercept
	NFeatures int                 // Number of features
	logger    log.Logger          // Logger instance
}

// NewOLS creates a new untrained ordinary least squares model.
//
// The model solves the least-squares problem through QR factorization,
// falling back to a minimum-norm SVD solve on rank-deficient designs, and
// prepends its own intercept column, so the design matrix must not contain
// a constant column. The returned model must be trained with Fit before
// making predictions.
//
// Returns:
//   - *OLS: A new untrained model
//
// Example:
//
//	ols := linear.NewOLS()
//	err := ols.Fit(X, y)
//	predictions, err := ols.Predict(XTest)
func NewOLS() *OLS {
	ols := &OLS{
		State: model.NewStateManager(),
	}

	ols.logger = log.GetLoggerWithName("linear").With(
		log.ModelNameKey, "OLS",
		log.ComponentKey, "linear",
	)

	return ols
}

// Fit trains the model on the provided design matrix and target vector.
//
// A column of ones is prepended for the intercept and the system is solved
// as a least-squares problem. When the design is rank deficient or nearly
// singular, as the interaction-expanded matrix generically is, the
// minimum-norm solution is kept and a ConvergenceWarning is logged; only a
// hard solve failure aborts. After successful training the fitted state is
// set.
//
// Parameters:
//   - X: Feature matrix of shape (n_samples, n_features)
//   - y: Target vector of shape (n_samples, 1)
//
// Returns:
//   - error: nil if training succeeds, otherwise an error describing the failure
//
// Errors:
//   - ErrEmptyData: if X or y are empty
//   - DimensionError: if the number of samples in X and y don't match
//   - ErrSingularMatrix: if the least-squares solve fails outright
func (o *OLS) Fit(X, y mat.Matrix) (err error) {
	defer errors.Recover(&err, "OLS.Fit")

	startTime := time.Now()
	r, c := X.Dims()
	ry, cy := y.Dims()

	if o.logger != nil {
		o.logger.Info("Training started",
			log.OperationKey, log.OperationFit,
			log.PhaseKey, log.PhaseTraining,
			log.SamplesKey, r,
			log.FeaturesKey, c,
		)
	}

	if r == 0 || c == 0 {
		return errors.NewModelError("OLS.Fit", "empty data", errors.ErrEmptyData)
	}
	if ry != r {
		return errors.NewDimensionError("OLS.Fit", r, ry, 0)
	}
	if cy != 1 {
		return errors.NewValueError("OLS.Fit", "y must be a column vector")
	}

	o.NFeatures = c

	// Add column of 1s to X for intercept term
	// X_with_intercept = [1, X]
	XWithIntercept := mat.NewDense(r, c+1, nil)

	// Parallelization threshold (use sequential processing for row counts below this value)
	const parallelThreshold = 1000

	parallel.ParallelizeWithThreshold(r, parallelThreshold, func(start, end int) {
		for i := start; i < end; i++ {
			XWithIntercept.Set(i, 0, 1.0) // Intercept term
			for j := 0; j < c; j++ {
				XWithIntercept.Set(i, j+1, X.At(i, j))
			}
		}
	})

	yDense := mat.NewDense(r, 1, nil)
	for i := 0; i < r; i++ {
		yDense.Set(i, 0, y.At(i, 0))
	}

	// Least-squares solve via QR (LQ when underdetermined). The expanded
	// design is rank deficient whenever a categorical contributes two or
	// more indicators, so a Condition error is expected here: redo the
	// solve as minimum-norm least squares over the determined part of
	// the SVD, the same answer a pseudo-inverse would give.
	var sol mat.Dense
	err = sol.Solve(XWithIntercept, yDense)
	if err != nil {
		if _, ok := err.(mat.Condition); !ok {
			return errors.NewModelError("OLS.Fit", "singular design matrix", errors.ErrSingularMatrix)
		}
		var svd mat.SVD
		if !svd.Factorize(XWithIntercept, mat.SVDThin) {
			return errors.NewModelError("OLS.Fit", "SVD of design matrix failed", errors.ErrSingularMatrix)
		}
		rank := svd.Rank(svdRCond)
		if rank == 0 {
			return errors.NewModelError("OLS.Fit", "design matrix has rank zero", errors.ErrSingularMatrix)
		}
		svd.SolveTo(&sol, yDense, rank)
		errors.Warn(errors.NewConvergenceWarning("OLS", 0,
			"design matrix is rank deficient; keeping the minimum-norm least-squares solution"))
		err = nil
	}

	// Separate intercept and weights
	o.Intercept = sol.At(0, 0)
	o.Weights = mat.NewVecDense(c, nil)
	for i := 0; i < c; i++ {
		o.Weights.SetVec(i, sol.At(i+1, 0))
	}

	o.State.SetFitted()
	o.State.SetDimensions(o.NFeatures, r)

	duration := time.Since(startTime)
	if o.logger != nil {
		o.logger.Info("Training completed",
			log.OperationKey, log.OperationFit,
			log.PhaseKey, log.PhaseTraining,
			log.DurationMsKey, duration.Milliseconds(),
			log.SamplesKey, r,
			log.FeaturesKey, c,
		)
	}

	return nil
}

// Predict generates predictions for the input feature matrix.
//
// The method computes y_pred = X * weights + intercept. The model must be
// fitted before calling this method.
//
// Parameters:
//   - X: Feature matrix of shape (n_samples, n_features) for prediction
//
// Returns:
//   - mat.Matrix: Prediction matrix of shape (n_samples, 1)
//   - error: nil if prediction succeeds, otherwise an error describing the failure
//
// Errors:
//   - NotFittedError: if the model hasn't been trained yet
//   - DimensionError: if X has a different number of features than training data
func (o *OLS) Predict(X mat.Matrix) (_ mat.Matrix, err error) {
	defer errors.Recover(&err, "OLS.Predict")
	if !o.State.IsFitted() {
		return nil, errors.NewNotFittedError("OLS", "Predict")
	}

	r, c := X.Dims()
	if c != o.NFeatures {
		return nil, errors.NewDimensionError("OLS.Predict", o.NFeatures, c, 1)
	}

	if o.logger != nil {
		o.logger.Debug("Prediction started",
			log.OperationKey, log.OperationPredict,
			log.PhaseKey, log.PhaseInference,
			log.SamplesKey, r,
			log.FeaturesKey, c,
		)
	}

	// Prediction: y = X * weights + intercept
	predictions := mat.NewDense(r, 1, nil)
	for i := 0; i < r; i++ {
		pred := o.Intercept
		for j := 0; j < c; j++ {
			pred += X.At(i, j) * o.Weights.AtVec(j)
		}
		predictions.Set(i, 0, pred)
	}

	if o.logger != nil {
		o.logger.Debug("Prediction completed",
			log.OperationKey, log.OperationPredict,
			log.PredsKey, r,
		)
	}

	return predictions, nil
}

// GetWeights returns the learned weights (coefficients)
func (o *OLS) GetWeights() []float64 {
	if o.Weights == nil {
		return nil
	}

	weights := make([]float64, o.Weights.Len())
	for i := 0; i < o.Weights.Len(); i++ {
		weights[i] = o.Weights.AtVec(i)
	}
	return weights
}

// GetIntercept returns the learned intercept
func (o *OLS) GetIntercept() float64 {
	if !o.State.IsFitted() {
		return 0
	}
	return o.Intercept
}

// Score calculates the coefficient of determination (R²) on the given data
func (o *OLS) Score(X, y mat.Matrix) (_ float64, err error) {
	defer errors.Recover(&err, "OLS.Score")
	if !o.State.IsFitted() {
		return 0, errors.NewNotFittedError("OLS", "Score")
	}

	yPred, err := o.Predict(X)
	if err != nil {
		return 0, err
	}

	return scoreAgainstOwnMean(y, yPred)
}

// IsFitted returns whether the model has been fitted.
func (o *OLS) IsFitted() bool {
	return o.State.IsFitted()
}

// scoreAgainstOwnMean computes R² of predictions against the evaluated
// rows' own mean. The study's holdout pseudo-R² instead anchors on the
// TRAINING mean and lives in the study package; this is the conventional
// score for quick model checks.
func scoreAgainstOwnMean(y, yPred mat.Matrix) (float64, error) {
	r, _ := y.Dims()
	yVec := mat.NewVecDense(r, nil)
	for i := 0; i < r; i++ {
		yVec.SetVec(i, y.At(i, 0))
	}

	dev, err := metrics.DevianceMatrix(y, yPred)
	if err != nil {
		return 0, err
	}
	null, err := metrics.NullDeviance(yVec, stat.Mean(yVec.RawVector().Data, nil))
	if err != nil {
		return 0, err
	}
	return metrics.PseudoR2(dev, null)
}
