// Package errors provides the error types used across the waitlab pipeline.
//
// The pipeline is a single deterministic batch computation, so every failure
// is terminal: errors carry enough context (operation, expected/got shapes,
// offending values) for the run log to explain the abort without a debugger.
// Non-fatal conditions (a degenerate categorical column, a solver that runs
// out of iterations) are surfaced through Warn instead of an error return.
//
// All constructors attach stack traces via cockroachdb/errors so that a
// `%+v` format of any pipeline error yields the full failure path.
//
// Example usage:
//
//	if nRows == 0 {
//		return errors.NewValueError("Clean", "no rows remain after dropping missing values")
//	}
//
//	defer errors.Recover(&err, "OLS.Fit")
package errors

import (
	"fmt"
	"math"
	"os"

	cockroach "github.com/cockroachdb/errors"
	"github.com/rs/zerolog"
)

// prefix appears at the head of every waitlab error string.
const prefix = "waitlab"

// Sentinel errors for errors.Is checks across package boundaries.
var (
	// ErrEmptyData indicates a table, matrix or vector with no rows.
	ErrEmptyData = cockroach.New("empty data")

	// ErrSingularMatrix indicates a linear system that could not be solved.
	ErrSingularMatrix = cockroach.New("singular matrix")
)

// ValueError reports an invalid value or state for an operation.
type ValueError struct {
	Op      string // operation that rejected the value
	Message string
}

// NewValueError creates a ValueError for the given operation.
func NewValueError(op, message string) *ValueError {
	return &ValueError{Op: op, Message: message}
}

func (e *ValueError) Error() string {
	return fmt.Sprintf("%s: %s: %s", prefix, e.Op, e.Message)
}

// DimensionError reports a shape mismatch between two inputs.
type DimensionError struct {
	Op       string
	Expected int
	Got      int
	Axis     int // 0 = rows, 1 = columns
}

// NewDimensionError creates a DimensionError for the given operation.
//
// Parameters:
//   - op: operation that detected the mismatch
//   - expected: the dimension the operation required
//   - got: the dimension it received
//   - axis: 0 for rows, 1 for columns
func NewDimensionError(op string, expected, got, axis int) *DimensionError {
	return &DimensionError{Op: op, Expected: expected, Got: got, Axis: axis}
}

func (e *DimensionError) Error() string {
	axis := "rows"
	if e.Axis == 1 {
		axis = "columns"
	}
	return fmt.Sprintf("%s: %s: dimension mismatch on %s: expected %d, got %d",
		prefix, e.Op, axis, e.Expected, e.Got)
}

// NotFittedError reports use of a model before Fit succeeded.
type NotFittedError struct {
	ModelName string
	Method    string
}

// NewNotFittedError creates a NotFittedError for a model method call.
func NewNotFittedError(modelName, method string) *NotFittedError {
	return &NotFittedError{ModelName: modelName, Method: method}
}

func (e *NotFittedError) Error() string {
	return fmt.Sprintf("%s: %s.%s: model is not fitted; call Fit first",
		prefix, e.ModelName, e.Method)
}

// ModelError wraps a failure inside a model operation, preserving the
// underlying cause for errors.Is / errors.As.
type ModelError struct {
	Op      string
	Message string
	Err     error
}

// NewModelError creates a ModelError wrapping cause.
func NewModelError(op, message string, cause error) *ModelError {
	return &ModelError{Op: op, Message: message, Err: cause}
}

func (e *ModelError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s: %s", prefix, e.Op, e.Message)
	}
	return fmt.Sprintf("%s: %s: %s: %v", prefix, e.Op, e.Message, e.Err)
}

// Unwrap returns the wrapped cause.
func (e *ModelError) Unwrap() error { return e.Err }

// LoadError reports a dataset that could not be read. The pipeline aborts
// before any modeling when it sees one.
type LoadError struct {
	Path string
	Err  error
}

// NewLoadError creates a LoadError for the given file path.
func NewLoadError(path string, cause error) *LoadError {
	return &LoadError{Path: path, Err: cause}
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("%s: load %s: %v", prefix, e.Path, e.Err)
}

// Unwrap returns the wrapped cause.
func (e *LoadError) Unwrap() error { return e.Err }

// Wrap annotates err with msg and a stack trace. Returns nil if err is nil.
func Wrap(err error, msg string) error {
	return cockroach.Wrap(err, msg)
}

// Wrapf annotates err with a formatted message and a stack trace.
func Wrapf(err error, format string, args ...interface{}) error {
	return cockroach.Wrapf(err, format, args...)
}

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool {
	return cockroach.Is(err, target)
}

// As finds the first error in err's chain matching target's type.
func As(err error, target interface{}) bool {
	return cockroach.As(err, target)
}

// Recover converts a panic inside a deferred call into an error assigned to
// *errp, with the panic value and stack preserved. Intended as
//
//	func (m *OLS) Fit(X, y mat.Matrix) (err error) {
//		defer errors.Recover(&err, "OLS.Fit")
//		...
//	}
func Recover(errp *error, op string) {
	if r := recover(); r != nil {
		*errp = cockroach.Wrapf(cockroach.New(fmt.Sprint(r)), "%s: %s: panic", prefix, op)
	}
}

// CheckScalar returns a warning error when v is NaN or infinite, naming the
// quantity and the iteration it was observed at. Returns nil for finite v.
func CheckScalar(name string, v float64, iteration int) error {
	if math.IsNaN(v) {
		return NewValueError("CheckScalar",
			fmt.Sprintf("%s is NaN at iteration %d", name, iteration))
	}
	if math.IsInf(v, 0) {
		return NewValueError("CheckScalar",
			fmt.Sprintf("%s is infinite at iteration %d", name, iteration))
	}
	return nil
}

// warnLogger receives Warn output. Overridable for tests.
var warnLogger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().
	Timestamp().Str("component", "warnings").Logger()

// SetWarnOutput redirects warning output, returning the previous logger.
// Used by tests; production code leaves the default stderr writer in place.
func SetWarnOutput(l zerolog.Logger) zerolog.Logger {
	prev := warnLogger
	warnLogger = l
	return prev
}

// Warn logs err at warning level without interrupting the pipeline. Nil is
// ignored. Used for conditions that are preserved rather than fixed: dropped
// degenerate columns, near-singular baseline solves, solvers that stop on
// the iteration cap.
func Warn(err error) {
	if err == nil {
		return
	}
	warnLogger.Warn().Msg(err.Error())
}
