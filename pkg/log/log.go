// Package log provides structured logging for the waitlab pipeline.
//
// It exposes a small Logger interface over rs/zerolog so pipeline stages and
// models log uniformly: a message plus alternating key/value pairs, with the
// shared keys below so log lines from different stages line up in analysis.
//
// Example usage:
//
//	logger := log.GetLoggerWithName("linear").With(
//		log.ModelNameKey, "OLS",
//		log.ComponentKey, "linear",
//	)
//	logger.Info("Training completed",
//		log.OperationKey, log.OperationFit,
//		log.SamplesKey, n,
//		log.DurationMsKey, elapsed.Milliseconds(),
//	)
package log

// Shared structured-logging keys.
const (
	ComponentKey  = "component"
	ModelNameKey  = "model"
	OperationKey  = "operation"
	PhaseKey      = "phase"
	SamplesKey    = "samples"
	FeaturesKey   = "features"
	ColumnsKey    = "columns"
	RowsKey       = "rows"
	FoldsKey      = "folds"
	LambdaKey     = "lambda"
	PathIndexKey  = "path_index"
	SeedKey       = "seed"
	PathKey       = "path"
	DurationMsKey = "duration_ms"
	PredsKey      = "predictions"
)

// Shared operation and phase values.
const (
	OperationLoad     = "load"
	OperationClean    = "clean"
	OperationBuild    = "build"
	OperationSplit    = "split"
	OperationFit      = "fit"
	OperationPredict  = "predict"
	OperationCV       = "cross_validate"
	OperationEvaluate = "evaluate"
	OperationReport   = "report"

	PhaseData      = "data"
	PhaseTraining  = "training"
	PhaseInference = "inference"
	PhaseReporting = "reporting"
)

// Logger is the logging interface used throughout waitlab. Fields are passed
// as alternating key/value pairs; a trailing key without a value is dropped.
type Logger interface {
	Debug(msg string, keysAndValues ...interface{})
	Info(msg string, keysAndValues ...interface{})
	Warn(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})

	// With returns a child logger that always carries the given fields.
	With(keysAndValues ...interface{}) Logger
}

// LoggerProvider hands out named loggers.
type LoggerProvider interface {
	GetLoggerWithName(name string) Logger
}

var defaultProvider LoggerProvider = NewZerologProvider(LevelInfo)

// SetProvider replaces the process-wide provider. Called once from the CLI
// after the configured log level is known.
func SetProvider(p LoggerProvider) {
	if p != nil {
		defaultProvider = p
	}
}

// GetLoggerWithName returns a named logger from the default provider.
func GetLoggerWithName(name string) Logger {
	return defaultProvider.GetLoggerWithName(name)
}
