// Package preprocessing provides the feature transformations the wait-time
// models consume: column standardization for the coordinate-descent solver
// and indicator encoding for categorical predictors.
//
// Both transformers follow the fit/transform pattern: Fit learns statistics
// from data, Transform applies them, and transforming before fitting is a
// NotFittedError. Transformers never mutate their input.
package preprocessing

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/cupstack/waitlab/core/model"
	"github.com/cupstack/waitlab/pkg/errors"
)

// Columns with standard deviation below this are treated as constant.
const constantStdTol = 1e-12

// StandardScaler centers each column at zero and scales it to unit variance.
//
// The scale is the population standard deviation (divide by n, not n−1), so
// a transformed column has mean exactly 0 and variance exactly 1 — the
// normalization the coordinate-descent solver relies on to make every
// per-coordinate denominator equal to one. Constant columns get scale 1 and
// transform to all zeros; Constant reports which columns were affected so
// callers can skip them.
type StandardScaler struct {
	state *model.StateManager

	mean     []float64
	scale    []float64
	constant []bool
}

// NewStandardScaler returns an unfitted scaler.
func NewStandardScaler() *StandardScaler {
	return &StandardScaler{state: model.NewStateManager()}
}

// Fit learns the per-column mean and scale from X.
//
// Errors:
//   - ErrEmptyData: if X has no rows or no columns
func (s *StandardScaler) Fit(X mat.Matrix) (err error) {
	defer errors.Recover(&err, "StandardScaler.Fit")
	n, p := X.Dims()
	if n == 0 || p == 0 {
		return errors.NewModelError("StandardScaler.Fit", "empty data", errors.ErrEmptyData)
	}

	s.mean = make([]float64, p)
	s.scale = make([]float64, p)
	s.constant = make([]bool, p)

	for j := 0; j < p; j++ {
		var mean float64
		for i := 0; i < n; i++ {
			mean += X.At(i, j)
		}
		mean /= float64(n)

		var ss float64
		for i := 0; i < n; i++ {
			d := X.At(i, j) - mean
			ss += d * d
		}
		std := math.Sqrt(ss / float64(n))

		s.mean[j] = mean
		if std < constantStdTol {
			s.scale[j] = 1
			s.constant[j] = true
		} else {
			s.scale[j] = std
		}
	}

	s.state.SetFitted()
	s.state.SetDimensions(p, n)
	return nil
}

// Transform standardizes X with the fitted statistics.
//
// Errors:
//   - NotFittedError: if Fit has not been called
//   - DimensionError: if X has a different column count than the fit data
func (s *StandardScaler) Transform(X mat.Matrix) (_ *mat.Dense, err error) {
	defer errors.Recover(&err, "StandardScaler.Transform")
	if !s.state.IsFitted() {
		return nil, errors.NewNotFittedError("StandardScaler", "Transform")
	}
	n, p := X.Dims()
	if p != len(s.mean) {
		return nil, errors.NewDimensionError("StandardScaler.Transform", len(s.mean), p, 1)
	}

	out := mat.NewDense(n, p, nil)
	for j := 0; j < p; j++ {
		if s.constant[j] {
			// Stays all zero; a constant column carries no signal.
			continue
		}
		for i := 0; i < n; i++ {
			out.Set(i, j, (X.At(i, j)-s.mean[j])/s.scale[j])
		}
	}
	return out, nil
}

// FitTransform fits on X and returns its standardized copy.
func (s *StandardScaler) FitTransform(X mat.Matrix) (*mat.Dense, error) {
	if err := s.Fit(X); err != nil {
		return nil, err
	}
	return s.Transform(X)
}

// InverseTransform maps standardized values back to the original scale.
// Constant columns come back as their fitted mean.
//
// Errors:
//   - NotFittedError: if Fit has not been called
//   - DimensionError: if X has a different column count than the fit data
func (s *StandardScaler) InverseTransform(X mat.Matrix) (_ *mat.Dense, err error) {
	defer errors.Recover(&err, "StandardScaler.InverseTransform")
	if !s.state.IsFitted() {
		return nil, errors.NewNotFittedError("StandardScaler", "InverseTransform")
	}
	n, p := X.Dims()
	if p != len(s.mean) {
		return nil, errors.NewDimensionError("StandardScaler.InverseTransform", len(s.mean), p, 1)
	}

	out := mat.NewDense(n, p, nil)
	for j := 0; j < p; j++ {
		for i := 0; i < n; i++ {
			if s.constant[j] {
				out.Set(i, j, s.mean[j])
				continue
			}
			out.Set(i, j, X.At(i, j)*s.scale[j]+s.mean[j])
		}
	}
	return out, nil
}

// Mean returns the fitted per-column means. Callers must not modify it.
func (s *StandardScaler) Mean() []float64 { return s.mean }

// Scale returns the fitted per-column scales, with 1 substituted for
// constant columns. Callers must not modify it.
func (s *StandardScaler) Scale() []float64 { return s.scale }

// Constant reports which fitted columns had (near) zero variance. Callers
// must not modify it.
func (s *StandardScaler) Constant() []bool { return s.constant }

// IsFitted returns whether Fit has completed.
func (s *StandardScaler) IsFitted() bool { return s.state.IsFitted() }
