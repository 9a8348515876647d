package report

import (
	"sort"
	"strconv"

	"gonum.org/v1/gonum/stat"

	"github.com/cupstack/waitlab/dataset"
	"github.com/cupstack/waitlab/pkg/errors"
)

// NumericSummary is the eight-number summary of one numeric column.
type NumericSummary struct {
	Column string
	Count  int
	Mean   float64
	Std    float64
	Min    float64
	Q1     float64
	Median float64
	Q3     float64
	Max    float64
}

// LevelCount is the observation count of one categorical level.
type LevelCount struct {
	Level string
	Count int
}

// CategoricalSummary lists the level counts of one categorical column in
// level order.
type CategoricalSummary struct {
	Column string
	Levels []LevelCount
}

// Describe summarizes every numeric and categorical column of the table in
// column order. Quantiles are empirical, the standard deviation is the
// sample one, and missing values are excluded. Free-form string columns
// such as identifiers are skipped.
func Describe(t *dataset.Table) ([]NumericSummary, []CategoricalSummary, error) {
	if t == nil || t.NumRows() == 0 {
		return nil, nil, errors.NewModelError("report.Describe", "empty table", errors.ErrEmptyData)
	}

	var nums []NumericSummary
	var cats []CategoricalSummary
	for _, c := range t.Columns() {
		switch c.Kind {
		case dataset.KindNumeric:
			xs := make([]float64, 0, c.Len())
			for i, v := range c.Floats {
				if !c.IsMissing(i) {
					xs = append(xs, v)
				}
			}
			if len(xs) == 0 {
				continue
			}
			sort.Float64s(xs)
			nums = append(nums, NumericSummary{
				Column: c.Name,
				Count:  len(xs),
				Mean:   stat.Mean(xs, nil),
				Std:    stat.StdDev(xs, nil),
				Min:    xs[0],
				Q1:     stat.Quantile(0.25, stat.Empirical, xs, nil),
				Median: stat.Quantile(0.5, stat.Empirical, xs, nil),
				Q3:     stat.Quantile(0.75, stat.Empirical, xs, nil),
				Max:    xs[len(xs)-1],
			})
		case dataset.KindCategorical:
			counts := make(map[string]int, len(c.Levels))
			for i, v := range c.Strings {
				if !c.IsMissing(i) {
					counts[v]++
				}
			}
			levels := make([]LevelCount, 0, len(c.Levels))
			for _, lv := range c.Levels {
				levels = append(levels, LevelCount{Level: lv, Count: counts[lv]})
			}
			cats = append(cats, CategoricalSummary{Column: c.Name, Levels: levels})
		}
	}
	return nums, cats, nil
}

// WriteDescriptiveStats writes the summaries in long form, one measure per
// row. Numeric columns contribute count/mean/std/min/q1/median/q3/max rows;
// categorical columns contribute one "level:<name>" row per level.
func WriteDescriptiveStats(path string, nums []NumericSummary, cats []CategoricalSummary) (err error) {
	defer errors.Recover(&err, "report.WriteDescriptiveStats")

	w, file, err := newCSVFile(path)
	if err != nil {
		return err
	}
	defer func() { err = finishCSV(w, file, err) }()

	if err := w.Write([]string{"column", "measure", "value"}); err != nil {
		return err
	}
	for _, s := range nums {
		measures := []struct {
			name  string
			value float64
		}{
			{"count", float64(s.Count)},
			{"mean", s.Mean},
			{"std", s.Std},
			{"min", s.Min},
			{"q1", s.Q1},
			{"median", s.Median},
			{"q3", s.Q3},
			{"max", s.Max},
		}
		for _, m := range measures {
			if err := w.Write([]string{s.Column, m.name, formatFloat(m.value)}); err != nil {
				return err
			}
		}
	}
	for _, s := range cats {
		for _, lv := range s.Levels {
			if err := w.Write([]string{s.Column, "level:" + lv.Level, strconv.Itoa(lv.Count)}); err != nil {
				return err
			}
		}
	}
	return nil
}
