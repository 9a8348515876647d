// Package report renders a finished study into flat files: descriptive
// statistics, comparison tables, coefficient lists, model summaries, JSON
// model artifacts, and plots. Writers never feed anything back into the
// pipeline; each takes the immutable study results and a destination path.
package report

import (
	"os"
	"path/filepath"
	"time"

	"github.com/cupstack/waitlab/pkg/errors"
	"github.com/cupstack/waitlab/pkg/log"
	"github.com/cupstack/waitlab/study"
)

// File names under the output directory.
const (
	DescriptiveStatsFile  = "descriptive_stats.csv"
	WaitComparisonFile    = "wait_comparison.csv"
	LassoCoefficientsFile = "lasso_coefficients.csv"
	RidgeCoefficientsFile = "ridge_coefficients.csv"
	ModelSummaryFile      = "model_summary.csv"
	LassoModelFile        = "model_lasso.json"
	RidgeModelFile        = "model_ridge.json"
	LassoCVCurveFile      = "cv_curve_lasso.png"
	RidgeCVCurveFile      = "cv_curve_ridge.png"
	PredVsActualFile      = "pred_vs_actual.png"
)

// Write renders every artifact of a completed run into dir, creating the
// directory if needed. File names are fixed; dir is the only knob.
func Write(dir string, res *study.Results) (err error) {
	defer errors.Recover(&err, "report.Write")
	start := time.Now()
	logger := log.GetLoggerWithName("report").With(log.ComponentKey, "report")

	if res == nil || res.Lasso.CV == nil || res.Ridge.CV == nil {
		return errors.NewValueError("report.Write", "incomplete study results")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.Wrapf(err, "create output directory %s", dir)
	}

	nums, cats, err := Describe(res.Table)
	if err != nil {
		return err
	}
	if err := WriteDescriptiveStats(filepath.Join(dir, DescriptiveStatsFile), nums, cats); err != nil {
		return err
	}
	if err := WriteWaitComparison(filepath.Join(dir, WaitComparisonFile), res); err != nil {
		return err
	}
	if err := WriteCoefficients(filepath.Join(dir, LassoCoefficientsFile), res.Lasso.Coefficients); err != nil {
		return err
	}
	if err := WriteCoefficients(filepath.Join(dir, RidgeCoefficientsFile), res.Ridge.Coefficients); err != nil {
		return err
	}
	if err := WriteModelSummary(filepath.Join(dir, ModelSummaryFile), res); err != nil {
		return err
	}
	if err := ExportModelJSON(filepath.Join(dir, LassoModelFile), "Lasso", res.Lasso); err != nil {
		return err
	}
	if err := ExportModelJSON(filepath.Join(dir, RidgeModelFile), "Ridge", res.Ridge); err != nil {
		return err
	}
	if err := PlotCVCurve(filepath.Join(dir, LassoCVCurveFile), "Lasso", res.Lasso.CV); err != nil {
		return err
	}
	if err := PlotCVCurve(filepath.Join(dir, RidgeCVCurveFile), "Ridge", res.Ridge.CV); err != nil {
		return err
	}
	if err := PlotPredVsActual(filepath.Join(dir, PredVsActualFile), res); err != nil {
		return err
	}

	logger.Info("Model summary",
		log.OperationKey, log.OperationReport,
		log.PhaseKey, log.PhaseReporting,
		"ols_pseudo_r2", res.Baseline.PseudoR2,
		"lasso_pseudo_r2", res.Lasso.PseudoR2,
		"ridge_pseudo_r2", res.Ridge.PseudoR2,
		"lasso_nonzero", res.Lasso.NonzeroCount,
	)
	logger.Info("Report written",
		log.OperationKey, log.OperationReport,
		log.PhaseKey, log.PhaseReporting,
		log.PathKey, dir,
		log.DurationMsKey, time.Since(start).Milliseconds(),
	)
	return nil
}
