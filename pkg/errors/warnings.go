package errors

import "fmt"

// ConvergenceWarning reports a fit that stopped before reaching its
// convergence tolerance. It is an error type so it can flow through Warn and
// errors.As, but producers treat it as non-fatal: the partial result is kept.
type ConvergenceWarning struct {
	ModelName  string
	Iterations int
	Message    string
}

// NewConvergenceWarning creates a ConvergenceWarning for the named model.
func NewConvergenceWarning(modelName string, iterations int, message string) *ConvergenceWarning {
	return &ConvergenceWarning{ModelName: modelName, Iterations: iterations, Message: message}
}

func (w *ConvergenceWarning) Error() string {
	return fmt.Sprintf("%s: %s: %s after %d iterations",
		prefix, w.ModelName, w.Message, w.Iterations)
}
