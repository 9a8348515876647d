package metrics_test

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/cupstack/waitlab/metrics"
)

func ExampleDeviance() {
	yTrue := mat.NewVecDense(3, []float64{3.0, 4.5, 5.0})
	yPred := mat.NewVecDense(3, []float64{3.5, 4.0, 5.0})

	dev, _ := metrics.Deviance(yTrue, yPred)
	fmt.Printf("deviance: %.2f\n", dev)
	// Output: deviance: 0.50
}

func ExamplePseudoR2() {
	yTrue := mat.NewVecDense(4, []float64{2, 4, 6, 8})
	yPred := mat.NewVecDense(4, []float64{2.5, 4, 5.5, 8})

	dev, _ := metrics.Deviance(yTrue, yPred)
	null, _ := metrics.NullDeviance(yTrue, 5) // mean of yTrue
	r2, _ := metrics.PseudoR2(dev, null)
	fmt.Printf("pseudo-R²: %.3f\n", r2)
	// Output: pseudo-R²: 0.975
}
