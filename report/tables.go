package report

import (
	"encoding/csv"
	"fmt"
	"math"
	"os"
	"strconv"

	"github.com/cupstack/waitlab/pkg/errors"
	"github.com/cupstack/waitlab/study"
)

func newCSVFile(path string) (*csv.Writer, *os.File, error) {
	file, err := os.Create(path)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "create %s", path)
	}
	return csv.NewWriter(file), file, nil
}

// finishCSV flushes the writer and closes the file, keeping the first error.
func finishCSV(w *csv.Writer, file *os.File, err error) error {
	w.Flush()
	if err == nil {
		err = w.Error()
	}
	if closeErr := file.Close(); err == nil {
		err = closeErr
	}
	return err
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func formatSecs(v float64) string {
	return fmt.Sprintf("%.2f", v)
}

// WriteWaitComparison writes recorded and predicted wait times in seconds
// for the held-out rows, one row per customer. Predictions come off the log
// scale with exp; the recorded value is the raw survey one.
func WriteWaitComparison(path string, res *study.Results) (err error) {
	defer errors.Recover(&err, "report.WriteWaitComparison")

	wait := res.Table.Column(study.ColWaitSecs)
	if wait == nil {
		return errors.NewValueError("report.WriteWaitComparison", "wait time column missing")
	}
	customer := res.Table.Column(study.ColCustomer)

	nTest := len(res.Split.Test)
	if len(res.Baseline.TestPred) != nTest {
		return errors.NewDimensionError("report.WriteWaitComparison", nTest, len(res.Baseline.TestPred), 0)
	}
	if len(res.Lasso.TestPred) != nTest {
		return errors.NewDimensionError("report.WriteWaitComparison", nTest, len(res.Lasso.TestPred), 0)
	}
	if len(res.Ridge.TestPred) != nTest {
		return errors.NewDimensionError("report.WriteWaitComparison", nTest, len(res.Ridge.TestPred), 0)
	}

	w, file, err := newCSVFile(path)
	if err != nil {
		return err
	}
	defer func() { err = finishCSV(w, file, err) }()

	if err := w.Write([]string{"customer", "recorded_secs", "ols_secs", "lasso_secs", "ridge_secs"}); err != nil {
		return err
	}
	for i, r := range res.Split.Test {
		id := "row_" + strconv.Itoa(r)
		if customer != nil {
			id = customer.Strings[r]
		}
		record := []string{
			id,
			formatSecs(wait.Floats[r]),
			formatSecs(math.Exp(res.Baseline.TestPred[i])),
			formatSecs(math.Exp(res.Lasso.TestPred[i])),
			formatSecs(math.Exp(res.Ridge.TestPred[i])),
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}
	return nil
}

// WriteCoefficients writes one name,value row per selected coefficient,
// preserving the evaluator's value-descending order.
func WriteCoefficients(path string, coefs []study.Coefficient) (err error) {
	defer errors.Recover(&err, "report.WriteCoefficients")

	w, file, err := newCSVFile(path)
	if err != nil {
		return err
	}
	defer func() { err = finishCSV(w, file, err) }()

	if err := w.Write([]string{"name", "value"}); err != nil {
		return err
	}
	for _, c := range coefs {
		if err := w.Write([]string{c.Name, formatFloat(c.Value)}); err != nil {
			return err
		}
	}
	return nil
}

// WriteModelSummary writes one row per model: its quality figure, the
// selected penalty when there is one, and the held-out RMSE on the log
// scale. The regularized rows reuse the baseline's held-out rows for RMSE
// even though their quality figure comes from the CV curve.
func WriteModelSummary(path string, res *study.Results) (err error) {
	defer errors.Recover(&err, "report.WriteModelSummary")

	actual := res.Baseline.TestActual
	if len(res.Lasso.TestPred) != len(actual) || len(res.Ridge.TestPred) != len(actual) {
		return errors.NewDimensionError("report.WriteModelSummary", len(actual), len(res.Lasso.TestPred), 0)
	}

	w, file, err := newCSVFile(path)
	if err != nil {
		return err
	}
	defer func() { err = finishCSV(w, file, err) }()

	header := []string{"model", "pseudo_r2", "selected_lambda", "path_index", "nonzero_coefficients", "test_rmse_log"}
	if err := w.Write(header); err != nil {
		return err
	}

	rows := [][]string{
		{
			"ols",
			formatFloat(res.Baseline.PseudoR2),
			"", "", "",
			formatFloat(res.Baseline.TestRMSE),
		},
		{
			"lasso",
			formatFloat(res.Lasso.PseudoR2),
			formatFloat(res.Lasso.CV.SelectedLambda()),
			strconv.Itoa(res.Lasso.CV.SelectedIndex),
			strconv.Itoa(res.Lasso.NonzeroCount),
			formatFloat(rmse(res.Lasso.TestPred, actual)),
		},
		{
			"ridge",
			formatFloat(res.Ridge.PseudoR2),
			formatFloat(res.Ridge.CV.SelectedLambda()),
			strconv.Itoa(res.Ridge.CV.SelectedIndex),
			strconv.Itoa(res.Ridge.NonzeroCount),
			formatFloat(rmse(res.Ridge.TestPred, actual)),
		},
	}
	for _, row := range rows {
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return nil
}

// rmse is the root mean squared error between aligned slices.
func rmse(pred, actual []float64) float64 {
	if len(pred) == 0 {
		return math.NaN()
	}
	var ss float64
	for i := range pred {
		d := pred[i] - actual[i]
		ss += d * d
	}
	return math.Sqrt(ss / float64(len(pred)))
}
