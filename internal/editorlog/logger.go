// Package editorlog is the structured logger an Editor and its
// subsystems use to report what happened during apply, scroll, and
// overlay mutation — zerolog underneath, with the builder-style
// WithField/WithComponent API this core's callers expect.
package editorlog

import (
	"io"
	"os"

	"github.com/rs/zerolog"
)

// Level mirrors zerolog's level ordering so callers outside this
// package never need to import zerolog directly.
type Level int8

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
	LevelDisabled
)

func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	case LevelDisabled:
		return "DISABLED"
	default:
		return "UNKNOWN"
	}
}

// ParseLevel parses a string into a Level, defaulting to LevelInfo for
// anything unrecognized.
func ParseLevel(s string) Level {
	switch s {
	case "debug", "DEBUG":
		return LevelDebug
	case "info", "INFO":
		return LevelInfo
	case "warn", "WARN", "warning", "WARNING":
		return LevelWarn
	case "error", "ERROR":
		return LevelError
	case "disabled", "DISABLED", "off", "OFF":
		return LevelDisabled
	default:
		return LevelInfo
	}
}

func (l Level) zerolog() zerolog.Level {
	switch l {
	case LevelDebug:
		return zerolog.DebugLevel
	case LevelInfo:
		return zerolog.InfoLevel
	case LevelWarn:
		return zerolog.WarnLevel
	case LevelError:
		return zerolog.ErrorLevel
	case LevelDisabled:
		return zerolog.Disabled
	default:
		return zerolog.InfoLevel
	}
}

// Logger wraps a zerolog.Logger, adding the immutable builder methods
// (WithField, WithComponent) this core's subsystems pass down to their
// constructors instead of a bare *zerolog.Logger.
type Logger struct {
	z zerolog.Logger
}

// Config configures a new Logger.
type Config struct {
	// Level is the minimum level that reaches Output.
	Level Level
	// Output is where log lines are written. Defaults to os.Stderr.
	Output io.Writer
	// Component, if set, is attached as the initial "component" field.
	Component string
	// Pretty selects zerolog's human-readable console writer over its
	// default newline-delimited JSON, for local development.
	Pretty bool
}

// DefaultConfig returns Info level, JSON to stderr, no component.
func DefaultConfig() Config {
	return Config{Level: LevelInfo, Output: os.Stderr}
}

// New builds a Logger from cfg.
func New(cfg Config) *Logger {
	out := cfg.Output
	if out == nil {
		out = os.Stderr
	}
	if cfg.Pretty {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: "15:04:05.000"}
	}
	ctx := zerolog.New(out).With().Timestamp()
	if cfg.Component != "" {
		ctx = ctx.Str("component", cfg.Component)
	}
	z := ctx.Logger().Level(cfg.Level.zerolog())
	return &Logger{z: z}
}

// Null returns a Logger that discards everything.
func Null() *Logger {
	return &Logger{z: zerolog.Nop()}
}

// Raw exposes the underlying zerolog.Logger for packages (eventlog) that
// accept one directly rather than this package's builder-style wrapper.
func (l *Logger) Raw() zerolog.Logger {
	return l.z
}

// WithField returns a copy of l with key=value attached to every
// subsequent entry.
func (l *Logger) WithField(key string, value any) *Logger {
	return &Logger{z: l.z.With().Interface(key, value).Logger()}
}

// WithFields returns a copy of l with every entry in fields attached.
func (l *Logger) WithFields(fields map[string]any) *Logger {
	ctx := l.z.With()
	for k, v := range fields {
		ctx = ctx.Interface(k, v)
	}
	return &Logger{z: ctx.Logger()}
}

// WithComponent returns a copy of l tagged with the given component
// name, the field apply/render/scroll call sites key their logs on.
func (l *Logger) WithComponent(component string) *Logger {
	return l.WithField("component", component)
}

// SetLevel changes the minimum level this Logger emits.
func (l *Logger) SetLevel(level Level) {
	l.z = l.z.Level(level.zerolog())
}

// Level reports the current minimum level.
func (l *Logger) Level() Level {
	switch l.z.GetLevel() {
	case zerolog.DebugLevel:
		return LevelDebug
	case zerolog.WarnLevel:
		return LevelWarn
	case zerolog.ErrorLevel:
		return LevelError
	case zerolog.Disabled:
		return LevelDisabled
	default:
		return LevelInfo
	}
}

// Disable silences this Logger entirely, equivalent to SetLevel(LevelDisabled).
func (l *Logger) Disable() { l.SetLevel(LevelDisabled) }

// Debug logs msg at debug level. args, if present, are passed to
// fmt-style formatting of msg.
func (l *Logger) Debug(msg string, args ...any) { l.log(l.z.Debug(), msg, args) }

// Info logs msg at info level.
func (l *Logger) Info(msg string, args ...any) { l.log(l.z.Info(), msg, args) }

// Warn logs msg at warn level.
func (l *Logger) Warn(msg string, args ...any) { l.log(l.z.Warn(), msg, args) }

// Error logs msg at error level.
func (l *Logger) Error(msg string, args ...any) { l.log(l.z.Error(), msg, args) }

func (l *Logger) log(e *zerolog.Event, msg string, args []any) {
	if len(args) == 0 {
		e.Msg(msg)
		return
	}
	e.Msgf(msg, args...)
}
