package study

import (
	"math"
	"sort"

	"github.com/cupstack/waitlab/linear"
	"github.com/cupstack/waitlab/pkg/errors"
	"github.com/cupstack/waitlab/pkg/log"
)

// Evaluate derives the reporting products for one cross-validated model:
// the CV-curve pseudo-R² and the coefficient list at the selected penalty.
//
// The quality figure is 1 − cvDev[selected]/cvDev[0]. Index 0 is the
// most-penalized end of the path, where the Lasso fit is exactly the
// intercept-only model, so the curve supplies its own null deviance and no
// holdout split is involved.
//
// Coefficient selection follows the model family: the Lasso list is every
// nonzero coefficient; the Ridge list is the top-N by magnitude (all, when
// topN <= 0), since Ridge never produces exact zeros. The intercept is
// excluded. Both lists are sorted by coefficient value descending.
func Evaluate(model *linear.ElasticNet, cv *linear.CVResult, names []string, topN int) (RegularizedResult, error) {
	var out RegularizedResult

	weights := model.GetWeights()
	if len(weights) != len(names) {
		return out, errors.NewDimensionError("study.Evaluate", len(names), len(weights), 1)
	}

	pseudoR2, err := cv.PseudoR2()
	if err != nil {
		return out, err
	}

	nonzero := 0
	coefs := make([]Coefficient, 0, len(weights))
	for j, w := range weights {
		if w != 0 {
			nonzero++
		}
		coefs = append(coefs, Coefficient{Name: names[j], Value: w})
	}

	if cv.L1Ratio == 1 {
		// Lasso already selected: keep the active set.
		kept := coefs[:0]
		for _, c := range coefs {
			if c.Value != 0 {
				kept = append(kept, c)
			}
		}
		coefs = kept
	} else if topN > 0 && topN < len(coefs) {
		sort.Slice(coefs, func(i, j int) bool {
			return math.Abs(coefs[i].Value) > math.Abs(coefs[j].Value)
		})
		coefs = coefs[:topN]
	}

	sort.Slice(coefs, func(i, j int) bool {
		return coefs[i].Value > coefs[j].Value
	})

	logger := log.GetLoggerWithName("study").With(log.ComponentKey, "study")
	logger.Info("Model evaluated",
		log.OperationKey, log.OperationEvaluate,
		log.ModelNameKey, familyName(cv.L1Ratio),
		log.LambdaKey, cv.SelectedLambda(),
		log.PathIndexKey, cv.SelectedIndex,
	)

	out = RegularizedResult{
		Model:        model,
		CV:           cv,
		PseudoR2:     pseudoR2,
		Coefficients: coefs,
		NonzeroCount: nonzero,
	}
	return out, nil
}

func familyName(l1Ratio float64) string {
	switch l1Ratio {
	case 1:
		return "Lasso"
	case 0:
		return "Ridge"
	default:
		return "ElasticNet"
	}
}
