package preprocessing

import (
	"fmt"
	"sort"

	"github.com/cupstack/waitlab/core/model"
	"github.com/cupstack/waitlab/pkg/errors"
)

// IndicatorEncoder expands one categorical variable into 0/1 indicator
// columns, one per non-reference level.
//
// The first level in the fitted order is the reference and gets no column:
// a row of all zeros means the reference level, so the encoding never
// produces the redundant full one-hot set that would make an interaction
// design collinear with its intercept.
type IndicatorEncoder struct {
	state *model.StateManager

	levels   []string
	levelIdx map[string]int
}

// NewIndicatorEncoder returns an unfitted encoder.
func NewIndicatorEncoder() *IndicatorEncoder {
	return &IndicatorEncoder{state: model.NewStateManager()}
}

// Fit learns the level set from observed values, ordered lexicographically.
// The lexicographically first level becomes the reference.
//
// Errors:
//   - ErrEmptyData: if values is empty
//   - ValueError: if fewer than 2 distinct levels are observed
func (e *IndicatorEncoder) Fit(values []string) (err error) {
	defer errors.Recover(&err, "IndicatorEncoder.Fit")
	if len(values) == 0 {
		return errors.NewModelError("IndicatorEncoder.Fit", "empty data", errors.ErrEmptyData)
	}

	seen := make(map[string]bool)
	var levels []string
	for _, v := range values {
		if !seen[v] {
			seen[v] = true
			levels = append(levels, v)
		}
	}
	sort.Strings(levels)
	return e.FitLevels(levels)
}

// FitLevels adopts a predetermined level order instead of discovering one;
// levels[0] is the reference. Used when the level order was already fixed
// upstream, by the cleaner's categorical conversion.
//
// Errors:
//   - ValueError: if fewer than 2 levels are given or a level repeats
func (e *IndicatorEncoder) FitLevels(levels []string) (err error) {
	defer errors.Recover(&err, "IndicatorEncoder.FitLevels")
	if len(levels) < 2 {
		return errors.NewValueError("IndicatorEncoder.FitLevels",
			"need at least 2 levels to encode")
	}

	idx := make(map[string]int, len(levels))
	for i, lv := range levels {
		if _, dup := idx[lv]; dup {
			return errors.NewValueError("IndicatorEncoder.FitLevels",
				fmt.Sprintf("duplicate level %q", lv))
		}
		idx[lv] = i
	}

	e.levels = append([]string(nil), levels...)
	e.levelIdx = idx
	e.state.SetFitted()
	e.state.SetDimensions(len(levels)-1, 0)
	return nil
}

// Transform encodes values into indicator columns, returned column-major:
// one []float64 per non-reference level, in level order.
//
// Errors:
//   - NotFittedError: if the encoder has not been fitted
//   - ValueError: if a value is not among the fitted levels
func (e *IndicatorEncoder) Transform(values []string) (_ [][]float64, err error) {
	defer errors.Recover(&err, "IndicatorEncoder.Transform")
	if !e.state.IsFitted() {
		return nil, errors.NewNotFittedError("IndicatorEncoder", "Transform")
	}

	cols := make([][]float64, len(e.levels)-1)
	for j := range cols {
		cols[j] = make([]float64, len(values))
	}
	for i, v := range values {
		idx, ok := e.levelIdx[v]
		if !ok {
			return nil, errors.NewValueError("IndicatorEncoder.Transform",
				fmt.Sprintf("value %q at row %d is not a fitted level", v, i))
		}
		if idx > 0 {
			cols[idx-1][i] = 1
		}
	}
	return cols, nil
}

// FeatureNames labels the indicator columns as "variable_level", in the
// same order Transform emits them.
func (e *IndicatorEncoder) FeatureNames(variable string) []string {
	if !e.state.IsFitted() {
		return nil
	}
	names := make([]string, 0, len(e.levels)-1)
	for _, lv := range e.levels[1:] {
		names = append(names, variable+"_"+lv)
	}
	return names
}

// Levels returns the fitted level order; Levels()[0] is the reference.
// Callers must not modify it.
func (e *IndicatorEncoder) Levels() []string { return e.levels }

// ReferenceLevel returns the level omitted from the encoding, or "" if the
// encoder is unfitted.
func (e *IndicatorEncoder) ReferenceLevel() string {
	if len(e.levels) == 0 {
		return ""
	}
	return e.levels[0]
}

// IsFitted returns whether the encoder has learned a level set.
func (e *IndicatorEncoder) IsFitted() bool { return e.state.IsFitted() }
