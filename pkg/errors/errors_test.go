package errors_test

import (
	"errors"
	"fmt"
	"math"
	"testing"

	waitErrors "github.com/cupstack/waitlab/pkg/errors"
)

// TestErrorWrappingCompatibility tests Go 1.13+ error wrapping with the
// waitlab error types.
func TestErrorWrappingCompatibility(t *testing.T) {
	originalErr := waitErrors.NewNotFittedError("OLS", "Predict")

	wrappedErr := fmt.Errorf("pipeline stage failed: %w", originalErr)

	if !errors.Is(wrappedErr, originalErr) {
		t.Errorf("errors.Is failed to identify wrapped error")
	}

	var notFittedErr *waitErrors.NotFittedError
	if !errors.As(wrappedErr, &notFittedErr) {
		t.Errorf("errors.As failed to extract NotFittedError")
	}

	if notFittedErr.ModelName != "OLS" {
		t.Errorf("expected ModelName 'OLS', got '%s'", notFittedErr.ModelName)
	}
}

func TestSentinelErrors(t *testing.T) {
	err := waitErrors.NewModelError("OLS.Fit", "empty design matrix", waitErrors.ErrEmptyData)

	if !errors.Is(err, waitErrors.ErrEmptyData) {
		t.Errorf("failed to identify ErrEmptyData sentinel")
	}

	wrappedErr := fmt.Errorf("study aborted: %w", err)

	if !errors.Is(wrappedErr, waitErrors.ErrEmptyData) {
		t.Errorf("failed to identify ErrEmptyData through wrapper")
	}
}

func TestDimensionError(t *testing.T) {
	dimErr := waitErrors.NewDimensionError("Deviance", 90, 10, 0)

	wrapped := fmt.Errorf("evaluation failed: %w", dimErr)

	var dimensionErr *waitErrors.DimensionError
	if !errors.As(wrapped, &dimensionErr) {
		t.Fatalf("errors.As failed to extract DimensionError")
	}
	if dimensionErr.Expected != 90 || dimensionErr.Got != 10 {
		t.Errorf("DimensionError fields: expected/got = %d/%d, want 90/10",
			dimensionErr.Expected, dimensionErr.Got)
	}
}

func TestLoadError(t *testing.T) {
	cause := errors.New("no such file or directory")
	loadErr := waitErrors.NewLoadError("data/wait_times.csv", cause)

	if !errors.Is(loadErr, cause) {
		t.Errorf("LoadError did not preserve its cause")
	}

	var le *waitErrors.LoadError
	if !errors.As(loadErr, &le) {
		t.Fatalf("errors.As failed to extract LoadError")
	}
	if le.Path != "data/wait_times.csv" {
		t.Errorf("LoadError.Path = %q, want data/wait_times.csv", le.Path)
	}
}

func TestModelErrorUnwrap(t *testing.T) {
	stdErr := fmt.Errorf("standard error")

	customErr := waitErrors.NewModelError("Lasso.Fit", "path fit failed", stdErr)

	wrappedErr := fmt.Errorf("operation context: %w", customErr)

	if !errors.Is(wrappedErr, stdErr) {
		t.Errorf("failed to find standard error in chain")
	}

	var modelErr *waitErrors.ModelError
	if !errors.As(wrappedErr, &modelErr) {
		t.Errorf("failed to extract ModelError")
	}

	if modelErr.Unwrap() != stdErr {
		t.Errorf("ModelError.Unwrap() didn't return expected error")
	}
}

func TestConvergenceWarning(t *testing.T) {
	w := waitErrors.NewConvergenceWarning("ElasticNet", 1000, "coordinate descent stopped on iteration cap")

	var cw *waitErrors.ConvergenceWarning
	if !errors.As(w, &cw) {
		t.Fatalf("errors.As failed to extract ConvergenceWarning")
	}
	if cw.Iterations != 1000 {
		t.Errorf("Iterations = %d, want 1000", cw.Iterations)
	}
}

func TestCheckScalar(t *testing.T) {
	tests := []struct {
		name    string
		value   float64
		wantErr bool
	}{
		{"finite value", 1.5, false},
		{"zero", 0.0, false},
		{"NaN", math.NaN(), true},
		{"positive infinity", math.Inf(1), true},
		{"negative infinity", math.Inf(-1), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := waitErrors.CheckScalar("coefficient", tt.value, 7)
			if (err != nil) != tt.wantErr {
				t.Errorf("CheckScalar(%v) error = %v, wantErr %v", tt.value, err, tt.wantErr)
			}
		})
	}
}

func TestRecover(t *testing.T) {
	boom := func() (err error) {
		defer waitErrors.Recover(&err, "Design.Build")
		panic("index out of range")
	}

	err := boom()
	if err == nil {
		t.Fatal("expected Recover to produce an error from the panic")
	}
	if got := err.Error(); got == "" {
		t.Errorf("recovered error has empty message")
	}
}
