// Package metrics provides the evaluation measures used across the wait-time
// study.
//
// The central quantity is deviance, the sum of squared residuals between
// observed and predicted values. Model quality is reported as pseudo-R²,
// the fraction of null-model deviance the fitted model removes:
//
//	pseudoR² = 1 − modelDeviance/nullDeviance
//
// where the null model predicts a single constant (the training-set mean)
// for every row. MSE and RMSE are provided for scale-interpretable error
// reporting in summary tables.
//
// All functions accept gonum vectors; DevianceMatrix adapts column-matrix
// predictions as produced by the model Predict methods.
//
// Example usage:
//
//	dev, err := metrics.Deviance(yTrue, yPred)
//	null, err := metrics.NullDeviance(yTrue, trainMean)
//	r2, err := metrics.PseudoR2(dev, null)
package metrics

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/cupstack/waitlab/pkg/errors"
)

// Deviance calculates the sum of squared residuals between true and
// predicted values.
//
// Deviance is the loss measure for every model in the study: the holdout
// evaluation of the baseline and the per-fold measurements inside
// cross-validation both reduce to this quantity.
//
// Parameters:
//   - yTrue: observed target values
//   - yPred: predicted values, same length
//
// Returns:
//   - float64: Σ(yTrue − yPred)², non-negative
//   - error: nil if successful
//
// Errors:
//   - ValueError: if the vectors are empty
//   - DimensionError: if the lengths differ
func Deviance(yTrue, yPred *mat.VecDense) (float64, error) {
	// Input validation
	n := yTrue.Len()
	if n == 0 {
		return 0, errors.NewValueError("Deviance", "empty vector")
	}
	if yPred.Len() != n {
		return 0, errors.NewDimensionError("Deviance", n, yPred.Len(), 0)
	}

	// deviance = Σ(yTrue - yPred)²
	var sum float64
	for i := 0; i < n; i++ {
		diff := yTrue.AtVec(i) - yPred.AtVec(i)
		sum += diff * diff
	}
	return sum, nil
}

// DevianceMatrix calculates deviance for column-matrix inputs (n×1).
//
// Predict methods return mat.Matrix; this adapter validates the shape and
// delegates to Deviance.
//
// Errors:
//   - ValueError: if a matrix is empty or not a column vector
//   - DimensionError: if the shapes differ
func DevianceMatrix(yTrue, yPred mat.Matrix) (float64, error) {
	// Input validation
	rTrue, cTrue := yTrue.Dims()
	rPred, cPred := yPred.Dims()

	if rTrue == 0 || cTrue == 0 {
		return 0, errors.NewValueError("DevianceMatrix", "empty matrix")
	}
	if rTrue != rPred || cTrue != cPred {
		return 0, errors.NewDimensionError("DevianceMatrix", rTrue, rPred, 0)
	}
	if cTrue != 1 {
		return 0, errors.NewValueError("DevianceMatrix", "must be a column vector (n×1 matrix)")
	}

	yTrueVec := mat.NewVecDense(rTrue, nil)
	yPredVec := mat.NewVecDense(rPred, nil)
	for i := 0; i < rTrue; i++ {
		yTrueVec.SetVec(i, yTrue.At(i, 0))
		yPredVec.SetVec(i, yPred.At(i, 0))
	}
	return Deviance(yTrueVec, yPredVec)
}

// NullDeviance calculates the deviance of a constant prediction.
//
// The constant is supplied by the caller rather than derived from yTrue:
// the study predicts the TRAINING mean on held-out rows, so the baseline
// must come from outside the evaluated vector.
//
// Parameters:
//   - yTrue: observed target values
//   - baseline: the constant predicted for every row
//
// Returns:
//   - float64: Σ(yTrue − baseline)²
//   - error: nil if successful
//
// Errors:
//   - ValueError: if yTrue is empty or baseline is not finite
func NullDeviance(yTrue *mat.VecDense, baseline float64) (float64, error) {
	// Input validation
	n := yTrue.Len()
	if n == 0 {
		return 0, errors.NewValueError("NullDeviance", "empty vector")
	}
	if math.IsNaN(baseline) || math.IsInf(baseline, 0) {
		return 0, errors.NewValueError("NullDeviance", "baseline is not finite")
	}

	var sum float64
	for i := 0; i < n; i++ {
		diff := yTrue.AtVec(i) - baseline
		sum += diff * diff
	}
	return sum, nil
}

// PseudoR2 calculates 1 − modelDeviance/nullDeviance.
//
// A value of 1 means the model removes all null-model error and 0 means it
// does no better than the constant baseline. Negative values mean it does
// WORSE than predicting the mean; that is the expected outcome for the
// unregularized baseline on the interaction-expanded design.
//
// Errors:
//   - ValueError: if nullDeviance is zero or negative (no variance to
//     explain), or either deviance is not finite
func PseudoR2(modelDeviance, nullDeviance float64) (float64, error) {
	if math.IsNaN(modelDeviance) || math.IsInf(modelDeviance, 0) ||
		math.IsNaN(nullDeviance) || math.IsInf(nullDeviance, 0) {
		return 0, errors.NewValueError("PseudoR2", "deviance is not finite")
	}
	if nullDeviance <= 0 {
		return 0, errors.NewValueError("PseudoR2", "null deviance must be positive (target has no variance)")
	}
	return 1 - modelDeviance/nullDeviance, nil
}

// MSE calculates the Mean Squared Error between true and predicted values.
//
// MSE is deviance divided by the sample count. It appears in summary tables
// where a per-row error is easier to read than a total.
//
// Errors:
//   - ValueError: if the vectors are empty
//   - DimensionError: if the lengths differ
func MSE(yTrue, yPred *mat.VecDense) (float64, error) {
	dev, err := Deviance(yTrue, yPred)
	if err != nil {
		return 0, err
	}
	return dev / float64(yTrue.Len()), nil
}

// RMSE calculates the Root Mean Squared Error between true and predicted
// values.
//
// RMSE is the square root of MSE, in the same units as the target. Here
// that is log-seconds, since every model fits the log of the recorded wait.
func RMSE(yTrue, yPred *mat.VecDense) (float64, error) {
	mse, err := MSE(yTrue, yPred)
	if err != nil {
		return 0, err
	}
	return math.Sqrt(mse), nil
}
