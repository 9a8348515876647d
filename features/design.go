// Package features expands a cleaned observation table into the numeric
// design matrix the models consume: main effects plus all pairwise
// interactions.
package features

import (
	"fmt"
	"math"
	"time"

	"gonum.org/v1/gonum/mat"

	"github.com/cupstack/waitlab/core/parallel"
	"github.com/cupstack/waitlab/dataset"
	"github.com/cupstack/waitlab/pkg/errors"
	"github.com/cupstack/waitlab/pkg/log"
	"github.com/cupstack/waitlab/preprocessing"
)

// Row count below which the matrix fill stays on one goroutine.
const buildParallelThreshold = 256

// Design is an interaction-expanded design matrix. Names[j] labels column j
// of X; the two stay aligned for the life of the value.
type Design struct {
	X     *mat.Dense
	Names []string
}

// Build expands table into a design matrix, excluding the target column and
// any additional named columns (identifiers, typically).
//
// Main effects come first, in table column order: numeric predictors as-is,
// categorical predictors as one 0/1 indicator per non-reference level, named
// "col_level". Then one interaction column per unordered pair of distinct
// main-effect columns, the elementwise product, named "a:b", in pair order
// over the main-effect sequence. No intercept column is emitted; models add
// their own. For p main-effect columns the matrix has exactly p + p(p-1)/2
// columns.
//
// A single usable predictor is valid and yields zero interactions. Zero
// usable predictors is a ValueError. Plain string columns (identifiers the
// caller forgot to exclude) are skipped with a warning.
func Build(t *dataset.Table, target string, exclude ...string) (_ *Design, err error) {
	defer errors.Recover(&err, "features.Build")
	start := time.Now()
	logger := log.GetLoggerWithName("features")

	if t == nil || t.NumRows() == 0 {
		return nil, errors.NewModelError("features.Build", "empty table", errors.ErrEmptyData)
	}

	skip := map[string]bool{target: true}
	for _, name := range exclude {
		skip[name] = true
	}

	n := t.NumRows()
	var mainNames []string
	var mainCols [][]float64

	for _, c := range t.Columns() {
		if skip[c.Name] {
			continue
		}
		switch c.Kind {
		case dataset.KindNumeric:
			mainNames = append(mainNames, c.Name)
			mainCols = append(mainCols, c.Floats)
		case dataset.KindCategorical:
			// The cleaner fixed the level order; Levels[0] is the
			// reference and gets no indicator.
			enc := preprocessing.NewIndicatorEncoder()
			if err := enc.FitLevels(c.Levels); err != nil {
				return nil, err
			}
			cols, err := enc.Transform(c.Strings)
			if err != nil {
				return nil, err
			}
			mainNames = append(mainNames, enc.FeatureNames(c.Name)...)
			mainCols = append(mainCols, cols...)
		default:
			errors.Warn(errors.NewValueError("features.Build",
				fmt.Sprintf("column %q is neither numeric nor categorical; skipping", c.Name)))
		}
	}

	p := len(mainNames)
	if p == 0 {
		return nil, errors.NewValueError("features.Build", "no usable predictor columns")
	}

	total := p + p*(p-1)/2
	names := make([]string, 0, total)
	names = append(names, mainNames...)
	for i := 0; i < p; i++ {
		for j := i + 1; j < p; j++ {
			names = append(names, mainNames[i]+":"+mainNames[j])
		}
	}

	X := mat.NewDense(n, total, nil)
	parallel.ParallelizeWithThreshold(n, buildParallelThreshold, func(lo, hi int) {
		for r := lo; r < hi; r++ {
			for j, col := range mainCols {
				X.Set(r, j, col[r])
			}
			k := p
			for a := 0; a < p; a++ {
				va := mainCols[a][r]
				for b := a + 1; b < p; b++ {
					X.Set(r, k, va*mainCols[b][r])
					k++
				}
			}
		}
	})

	logger.Info("Design matrix built",
		log.OperationKey, log.OperationBuild,
		log.PhaseKey, log.PhaseData,
		log.SamplesKey, n,
		log.FeaturesKey, total,
		log.DurationMsKey, time.Since(start).Milliseconds(),
	)
	return &Design{X: X, Names: names}, nil
}

// Rows returns a design restricted to the given rows, in the given order.
// The name slice is shared with the receiver.
func (d *Design) Rows(rows []int) (*Design, error) {
	n, cols := d.X.Dims()
	for _, r := range rows {
		if r < 0 || r >= n {
			return nil, errors.NewDimensionError("Design.Rows", n, r, 0)
		}
	}
	sub := mat.NewDense(len(rows), cols, nil)
	for i, r := range rows {
		sub.SetRow(i, d.X.RawRowView(r))
	}
	return &Design{X: sub, Names: d.Names}, nil
}

// LogTarget extracts the named column as a log-transformed response vector.
// Every value must be strictly positive; the log of a non-positive wait is
// undefined and aborts the run before any model sees the data.
func LogTarget(t *dataset.Table, name string) (*mat.VecDense, error) {
	c := t.Column(name)
	if c == nil {
		return nil, errors.NewValueError("features.LogTarget",
			fmt.Sprintf("target column %q not present", name))
	}
	if c.Kind != dataset.KindNumeric {
		return nil, errors.NewValueError("features.LogTarget",
			fmt.Sprintf("target column %q is not numeric", name))
	}

	y := mat.NewVecDense(c.Len(), nil)
	for i, v := range c.Floats {
		if !(v > 0) {
			return nil, errors.NewValueError("features.LogTarget",
				fmt.Sprintf("target %q must be positive for the log transform; row %d has %v",
					name, i+1, v))
		}
		y.SetVec(i, math.Log(v))
	}
	return y, nil
}
