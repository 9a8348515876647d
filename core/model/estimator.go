package model

import "gonum.org/v1/gonum/mat"

// Predictor is any fitted model that can score new rows sharing the design
// matrix schema it was trained on.
type Predictor interface {
	Predict(X mat.Matrix) (mat.Matrix, error)
	IsFitted() bool
}

// Regressor is a trainable Predictor. The evaluation pipeline fits through
// this interface so the baseline and the regularized models interchange.
type Regressor interface {
	Predictor
	Fit(X, y mat.Matrix) error
}
