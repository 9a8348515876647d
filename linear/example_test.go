package linear_test

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/cupstack/waitlab/linear"
)

// ExampleOLS demonstrates the baseline least-squares model
func ExampleOLS() {
	// Create simple training data: y = 2*x + 1
	X := mat.NewDense(4, 1, []float64{1.0, 2.0, 3.0, 4.0})
	y := mat.NewDense(4, 1, []float64{3.0, 5.0, 7.0, 9.0})

	// Create and train model
	ols := linear.NewOLS()
	err := ols.Fit(X, y)
	if err != nil {
		// Skip this example if error occurs
		return
	}

	// Make predictions
	testX := mat.NewDense(2, 1, []float64{5.0, 6.0})
	predictions, err := ols.Predict(testX)
	if err != nil {
		// Skip this example if error occurs
		return
	}

	fmt.Printf("Input: %.1f, Prediction: %.1f\n", testX.At(0, 0), predictions.At(0, 0))
	fmt.Printf("Input: %.1f, Prediction: %.1f\n", testX.At(1, 0), predictions.At(1, 0))

	// Output: Input: 5.0, Prediction: 11.0
	// Input: 6.0, Prediction: 13.0
}

// ExampleNewLasso demonstrates penalty-driven variable selection
func ExampleNewLasso() {
	X := mat.NewDense(6, 2, []float64{
		1.0, 0.2,
		2.0, 0.1,
		3.0, 0.4,
		4.0, 0.3,
		5.0, 0.2,
		6.0, 0.5,
	})
	// Target depends only on the first feature
	y := mat.NewVecDense(6, []float64{2.0, 4.0, 6.0, 8.0, 10.0, 12.0})

	// At the top of the penalty path every coefficient is exactly zero.
	lambdas, err := linear.LambdaPath(X, y, 1, 10, 0.01)
	if err != nil {
		return
	}
	lasso := linear.NewLasso(linear.WithAlpha(lambdas[0]))
	if err := lasso.Fit(X, y); err != nil {
		return
	}

	active := 0
	for _, w := range lasso.GetWeights() {
		if w != 0 {
			active++
		}
	}
	fmt.Printf("active coefficients at path start: %d\n", active)

	// Output: active coefficients at path start: 0
}
