package linear

import (
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/mat"

	"github.com/cupstack/waitlab/metrics"
	"github.com/cupstack/waitlab/pkg/errors"
	"github.com/cupstack/waitlab/pkg/log"
)

// CVResult is the outcome of a cross-validated penalty search.
//
// MeanDeviance[i] is the held-out deviance at Lambdas[i], averaged across
// folds. SelectedIndex is the strict minimizer; on ties the smaller index,
// and therefore the larger penalty, wins. Index 0 sits at the most-penalized
// end of the path, where the fit is (near) constant, so MeanDeviance[0]
// serves as the curve's own null deviance.
type CVResult struct {
	Lambdas       []float64
	MeanDeviance  []float64
	SelectedIndex int
	L1Ratio       float64
	Folds         int
}

// SelectedLambda returns the penalty at the selected index.
func (r *CVResult) SelectedLambda() float64 {
	return r.Lambdas[r.SelectedIndex]
}

// PseudoR2 computes 1 − dev(selected)/dev(null end) from the CV curve.
// This is the out-of-sample quality figure for a regularized model: both
// deviances come from held-out folds, anchored at the path's null point
// rather than a separate test split.
func (r *CVResult) PseudoR2() (float64, error) {
	return metrics.PseudoR2(r.MeanDeviance[r.SelectedIndex], r.MeanDeviance[0])
}

// CrossValidate selects a penalty by k-fold cross-validation.
//
// For every fold the full penalty path is fitted on the remaining folds by
// warm-started coordinate descent, and the held-out deviance is recorded
// per path point. Averages across folds pick the winner. Folds run
// concurrently; each works on its own row subset and the combination step
// is a plain average, so the result is identical to sequential execution.
//
// The fold partition comes from the caller so that Lasso and Ridge searches
// can share the exact same assignment. Options configure l1Ratio, maxIter,
// and tol; WithAlpha is meaningless here and ignored.
//
// Parameters:
//   - X: design matrix of shape (n_samples, n_features)
//   - y: target vector of shape (n_samples, 1)
//   - folds: disjoint, exhaustive row-index partition, at least 2 folds
//   - lambdas: strictly decreasing penalty path from LambdaPath
//
// Errors:
//   - ErrEmptyData: if X or y are empty
//   - ValueError: if the folds do not partition the rows or the path is
//     not strictly decreasing
func CrossValidate(X mat.Matrix, y mat.Matrix, folds [][]int, lambdas []float64, options ...Option) (_ *CVResult, err error) {
	defer errors.Recover(&err, "CrossValidate")
	startTime := time.Now()

	cfg := NewElasticNet(options...)
	name := cfg.name()
	logger := log.GetLoggerWithName("linear").With(
		log.ModelNameKey, name+"CV",
		log.ComponentKey, "linear",
	)

	n, c := X.Dims()
	ry, cy := y.Dims()
	if n == 0 || c == 0 {
		return nil, errors.NewModelError("CrossValidate", "empty data", errors.ErrEmptyData)
	}
	if ry != n {
		return nil, errors.NewDimensionError("CrossValidate", n, ry, 0)
	}
	if cy != 1 {
		return nil, errors.NewValueError("CrossValidate", "y must be a column vector")
	}
	if err := validateFolds(folds, n); err != nil {
		return nil, err
	}
	if len(lambdas) == 0 {
		return nil, errors.NewValueError("CrossValidate", "empty penalty path")
	}
	for i := 1; i < len(lambdas); i++ {
		if lambdas[i] >= lambdas[i-1] {
			return nil, errors.NewValueError("CrossValidate", "penalty path must be strictly decreasing")
		}
	}

	logger.Info("Cross-validation started",
		log.OperationKey, log.OperationCV,
		log.PhaseKey, log.PhaseTraining,
		log.SamplesKey, n,
		log.FeaturesKey, c,
		log.FoldsKey, len(folds),
	)

	// deviances[fi][li]: held-out deviance of fold fi at lambdas[li].
	deviances := make([][]float64, len(folds))

	var g errgroup.Group
	for fi := range folds {
		g.Go(func() error {
			heldout := folds[fi]
			train := complementIndices(n, heldout)

			XTrain := takeRows(X, train)
			yTrain := takeVec(y, train)
			XHeld := takeRows(X, heldout)
			yHeld := takeVec(y, heldout)

			pf, err := fitPath(XTrain, yTrain, lambdas, cfg.l1Ratio, cfg.maxIter, cfg.tol)
			if err != nil {
				return errors.Wrapf(err, "fold %d", fi)
			}

			devs := make([]float64, len(lambdas))
			for li := range lambdas {
				dev, err := metrics.Deviance(yHeld, pf.predictAt(li, XHeld))
				if err != nil {
					return errors.Wrapf(err, "fold %d path index %d", fi, li)
				}
				devs[li] = dev
			}
			deviances[fi] = devs
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, errors.NewModelError("CrossValidate", "fold fit failed", err)
	}

	mean := make([]float64, len(lambdas))
	for _, devs := range deviances {
		for li, d := range devs {
			mean[li] += d
		}
	}
	selected := 0
	for li := range mean {
		mean[li] /= float64(len(folds))
		if mean[li] < mean[selected] {
			selected = li
		}
	}

	result := &CVResult{
		Lambdas:       lambdas,
		MeanDeviance:  mean,
		SelectedIndex: selected,
		L1Ratio:       cfg.l1Ratio,
		Folds:         len(folds),
	}

	logger.Info("Cross-validation completed",
		log.OperationKey, log.OperationCV,
		log.PhaseKey, log.PhaseTraining,
		log.FoldsKey, len(folds),
		log.LambdaKey, result.SelectedLambda(),
		log.PathIndexKey, selected,
		log.DurationMsKey, time.Since(startTime).Milliseconds(),
	)
	return result, nil
}

// validateFolds checks that folds form a disjoint, exhaustive partition of
// [0, n) with at least two non-empty folds.
func validateFolds(folds [][]int, n int) error {
	if len(folds) < 2 {
		return errors.NewValueError("CrossValidate", "need at least 2 folds")
	}
	seen := make([]bool, n)
	total := 0
	for fi, fold := range folds {
		if len(fold) == 0 {
			return errors.NewValueError("CrossValidate", fmt.Sprintf("fold %d is empty", fi))
		}
		for _, idx := range fold {
			if idx < 0 || idx >= n {
				return errors.NewValueError("CrossValidate",
					fmt.Sprintf("fold %d contains out-of-range index %d", fi, idx))
			}
			if seen[idx] {
				return errors.NewValueError("CrossValidate",
					fmt.Sprintf("row %d appears in more than one fold", idx))
			}
			seen[idx] = true
			total++
		}
	}
	if total != n {
		return errors.NewValueError("CrossValidate",
			fmt.Sprintf("folds cover %d of %d rows", total, n))
	}
	return nil
}

func complementIndices(n int, exclude []int) []int {
	inExclude := make([]bool, n)
	for _, idx := range exclude {
		inExclude[idx] = true
	}
	out := make([]int, 0, n-len(exclude))
	for i := 0; i < n; i++ {
		if !inExclude[i] {
			out = append(out, i)
		}
	}
	return out
}

func takeRows(X mat.Matrix, rows []int) *mat.Dense {
	_, c := X.Dims()
	out := mat.NewDense(len(rows), c, nil)
	for i, r := range rows {
		for j := 0; j < c; j++ {
			out.Set(i, j, X.At(r, j))
		}
	}
	return out
}

func takeVec(y mat.Matrix, rows []int) *mat.VecDense {
	out := mat.NewVecDense(len(rows), nil)
	for i, r := range rows {
		out.SetVec(i, y.At(r, 0))
	}
	return out
}
