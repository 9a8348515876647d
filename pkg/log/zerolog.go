package log

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
)

// Level is the minimum severity a provider emits.
type Level int8

const (
	LevelDebug Level = iota - 1
	LevelInfo
	LevelWarn
	LevelError
)

// ToLogLevel parses a level name ("debug", "info", "warn", "error").
// Unknown names fall back to info.
func ToLogLevel(s string) Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LevelDebug
	case "warn", "warning":
		return LevelWarn
	case "error":
		return LevelError
	default:
		return LevelInfo
	}
}

func (l Level) zerolog() zerolog.Level {
	switch l {
	case LevelDebug:
		return zerolog.DebugLevel
	case LevelWarn:
		return zerolog.WarnLevel
	case LevelError:
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

type zerologProvider struct {
	root zerolog.Logger
}

// NewZerologProvider creates a LoggerProvider writing console-formatted
// zerolog output to stderr at the given minimum level.
func NewZerologProvider(level Level) LoggerProvider {
	return NewZerologProviderWithWriter(level, zerolog.ConsoleWriter{Out: os.Stderr})
}

// NewZerologProviderWithWriter creates a LoggerProvider with a custom sink.
// Tests pass a buffer here to assert on emitted fields.
func NewZerologProviderWithWriter(level Level, w io.Writer) LoggerProvider {
	root := zerolog.New(w).Level(level.zerolog()).With().Timestamp().Logger()
	return &zerologProvider{root: root}
}

func (p *zerologProvider) GetLoggerWithName(name string) Logger {
	return &zerologLogger{l: p.root.With().Str("logger", name).Logger()}
}

type zerologLogger struct {
	l zerolog.Logger
}

func (z *zerologLogger) Debug(msg string, keysAndValues ...interface{}) {
	emit(z.l.Debug(), msg, keysAndValues)
}

func (z *zerologLogger) Info(msg string, keysAndValues ...interface{}) {
	emit(z.l.Info(), msg, keysAndValues)
}

func (z *zerologLogger) Warn(msg string, keysAndValues ...interface{}) {
	emit(z.l.Warn(), msg, keysAndValues)
}

func (z *zerologLogger) Error(msg string, keysAndValues ...interface{}) {
	emit(z.l.Error(), msg, keysAndValues)
}

func (z *zerologLogger) With(keysAndValues ...interface{}) Logger {
	ctx := z.l.With()
	for k, v := range pairs(keysAndValues) {
		ctx = ctx.Interface(k, v)
	}
	return &zerologLogger{l: ctx.Logger()}
}

func emit(ev *zerolog.Event, msg string, keysAndValues []interface{}) {
	for k, v := range pairs(keysAndValues) {
		ev = ev.Interface(k, v)
	}
	ev.Msg(msg)
}

// pairs folds alternating key/value arguments into a map, stringifying
// non-string keys and dropping a trailing unpaired key.
func pairs(keysAndValues []interface{}) map[string]interface{} {
	if len(keysAndValues) == 0 {
		return nil
	}
	out := make(map[string]interface{}, len(keysAndValues)/2)
	for i := 0; i+1 < len(keysAndValues); i += 2 {
		key, ok := keysAndValues[i].(string)
		if !ok {
			key = fmt.Sprint(keysAndValues[i])
		}
		out[key] = keysAndValues[i+1]
	}
	return out
}
