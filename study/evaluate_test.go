package study_test

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"

	"github.com/cupstack/waitlab/linear"
	"github.com/cupstack/waitlab/pkg/errors"
	"github.com/cupstack/waitlab/study"
)

// evalDesign returns a small noiseless design whose true effects are far
// enough apart that a lightly penalized fit keeps their order.
func evalDesign() (*mat.Dense, *mat.VecDense, []string) {
	n := 30
	X := mat.NewDense(n, 4, nil)
	y := mat.NewVecDense(n, nil)
	for i := 0; i < n; i++ {
		x0 := math.Sin(float64(i))
		x1 := math.Cos(float64(2 * i))
		x2 := math.Sin(float64(3*i) + 0.5)
		x3 := math.Cos(float64(5*i) + 1.0)
		X.Set(i, 0, x0)
		X.Set(i, 1, x1)
		X.Set(i, 2, x2)
		X.Set(i, 3, x3)
		y.SetVec(i, 2+6*x0-4*x1+0.8*x2+0.2*x3)
	}
	return X, y, []string{"x0", "x1", "x2", "x3"}
}

func fitRidgeForEval(t *testing.T, X *mat.Dense, y *mat.VecDense) *linear.ElasticNet {
	t.Helper()
	model := linear.NewRidge(
		linear.WithAlpha(0.01),
		linear.WithMaxIter(10000),
		linear.WithTol(1e-8),
	)
	if err := model.Fit(X, y); err != nil {
		t.Fatalf("Fit: %v", err)
	}
	return model
}

func TestEvaluate_RidgeTopN(t *testing.T) {
	X, y, names := evalDesign()
	model := fitRidgeForEval(t, X, y)

	cv := &linear.CVResult{
		Lambdas:       []float64{1, 0.1, 0.01},
		MeanDeviance:  []float64{10, 4, 2},
		SelectedIndex: 2,
		L1Ratio:       0,
		Folds:         5,
	}

	out, err := study.Evaluate(model, cv, names, 2)
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}

	if math.Abs(out.PseudoR2-0.8) > 1e-12 {
		t.Errorf("PseudoR2 = %v, want 0.8 from the CV curve", out.PseudoR2)
	}
	if out.NonzeroCount != 4 {
		t.Errorf("NonzeroCount = %d, want 4", out.NonzeroCount)
	}
	if len(out.Coefficients) != 2 {
		t.Fatalf("coefficient list length = %d, want topN = 2", len(out.Coefficients))
	}
	// Top two by magnitude are the 6 and the -4; descending by value puts
	// the positive one first.
	if out.Coefficients[0].Name != "x0" || out.Coefficients[1].Name != "x1" {
		t.Errorf("kept coefficients = [%s %s], want [x0 x1]",
			out.Coefficients[0].Name, out.Coefficients[1].Name)
	}
	if !(out.Coefficients[0].Value > 0 && out.Coefficients[1].Value < 0) {
		t.Errorf("coefficient signs = (%v, %v), want (+, -)",
			out.Coefficients[0].Value, out.Coefficients[1].Value)
	}
}

func TestEvaluate_RidgeKeepsAllWithoutTopN(t *testing.T) {
	X, y, names := evalDesign()
	model := fitRidgeForEval(t, X, y)

	cv := &linear.CVResult{
		Lambdas:       []float64{1, 0.1, 0.01},
		MeanDeviance:  []float64{10, 4, 2},
		SelectedIndex: 2,
		L1Ratio:       0,
		Folds:         5,
	}

	out, err := study.Evaluate(model, cv, names, 0)
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if len(out.Coefficients) != 4 {
		t.Fatalf("coefficient list length = %d, want 4", len(out.Coefficients))
	}
	// Sorted by value, not magnitude: 6, 0.8, 0.2, -4.
	want := []string{"x0", "x2", "x3", "x1"}
	for i, w := range want {
		if out.Coefficients[i].Name != w {
			t.Errorf("Coefficients[%d] = %s, want %s", i, out.Coefficients[i].Name, w)
		}
	}
}

func TestEvaluate_LassoKeepsActiveSetOnly(t *testing.T) {
	X, y, names := evalDesign()

	lambdas, err := linear.LambdaPath(X, y, 1, 5, 0.01)
	if err != nil {
		t.Fatalf("LambdaPath: %v", err)
	}

	model := linear.NewLasso(linear.WithAlpha(lambdas[1]))
	if err := model.Fit(X, y); err != nil {
		t.Fatalf("Fit: %v", err)
	}

	cv := &linear.CVResult{
		Lambdas:       lambdas,
		MeanDeviance:  []float64{10, 3, 2.5, 2.6, 2.8},
		SelectedIndex: 1,
		L1Ratio:       1,
		Folds:         4,
	}

	out, err := study.Evaluate(model, cv, names, 0)
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}

	if math.Abs(out.PseudoR2-0.7) > 1e-12 {
		t.Errorf("PseudoR2 = %v, want 0.7", out.PseudoR2)
	}
	if len(out.Coefficients) != out.NonzeroCount {
		t.Errorf("list length %d != nonzero count %d",
			len(out.Coefficients), out.NonzeroCount)
	}
	if len(out.Coefficients) == 0 {
		t.Fatal("expected at least one active coefficient at a mid-path penalty")
	}
	for _, c := range out.Coefficients {
		if c.Value == 0 {
			t.Errorf("coefficient %s listed with zero value", c.Name)
		}
	}
}

func TestEvaluate_LassoAtPathStartIsEmpty(t *testing.T) {
	X, y, names := evalDesign()

	lambdas, err := linear.LambdaPath(X, y, 1, 5, 0.01)
	if err != nil {
		t.Fatalf("LambdaPath: %v", err)
	}

	model := linear.NewLasso(linear.WithAlpha(lambdas[0]))
	if err := model.Fit(X, y); err != nil {
		t.Fatalf("Fit: %v", err)
	}

	cv := &linear.CVResult{
		Lambdas:       lambdas,
		MeanDeviance:  []float64{10, 9, 8, 8.5, 9.5},
		SelectedIndex: 0,
		L1Ratio:       1,
		Folds:         4,
	}

	out, err := study.Evaluate(model, cv, names, 0)
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if len(out.Coefficients) != 0 {
		t.Errorf("coefficient list length = %d, want 0 at the path start", len(out.Coefficients))
	}
	if out.NonzeroCount != 0 {
		t.Errorf("NonzeroCount = %d, want 0", out.NonzeroCount)
	}
}

func TestEvaluate_NameCountMismatch(t *testing.T) {
	X, y, names := evalDesign()
	model := fitRidgeForEval(t, X, y)

	cv := &linear.CVResult{
		Lambdas:       []float64{1, 0.1},
		MeanDeviance:  []float64{10, 4},
		SelectedIndex: 1,
		L1Ratio:       0,
		Folds:         5,
	}

	_, err := study.Evaluate(model, cv, names[:3], 0)
	if err == nil {
		t.Fatal("expected error for mismatched name count")
	}
	var dimErr *errors.DimensionError
	if !errors.As(err, &dimErr) {
		t.Errorf("error type = %T, want *errors.DimensionError", err)
	}
}
