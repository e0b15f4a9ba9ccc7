// Package log contains the session core's logging types, constants and functions.
package log

import "log/slog"

// Null logger is a no-op logger that does nothing.
var Null = slog.New(Discard)

const (
	// Keys for log attributes.

	// KeyHost is the host name or address.
	KeyHost = "host"

	// KeyComponent is a component name.
	KeyComponent = "component"
)

// Logger interface is implemented by slog.Logger and some other logging packages
// and can be easily used via a wrapper with any other logging system.
// The functions are not sprintf-style. Keys and values are key-value pairs.
type Logger interface {
	Debug(msg string, keysAndValues ...any)
	Info(msg string, keysAndValues ...any)
	Warn(msg string, keysAndValues ...any)
	Error(msg string, keysAndValues ...any)
}

type withAttrs struct {
	logger Logger
	attrs  []any
}

func (w *withAttrs) kv(kv []any) []any {
	return append(w.attrs, kv...)
}

func (w *withAttrs) Debug(msg string, keysAndValues ...any) {
	w.logger.Debug(msg, w.kv(keysAndValues)...)
}

func (w *withAttrs) Info(msg string, keysAndValues ...any) {
	w.logger.Info(msg, w.kv(keysAndValues)...)
}

func (w *withAttrs) Warn(msg string, keysAndValues ...any) {
	w.logger.Warn(msg, w.kv(keysAndValues)...)
}

func (w *withAttrs) Error(msg string, keysAndValues ...any) {
	w.logger.Error(msg, w.kv(keysAndValues)...)
}

// WithAttrs returns a logger that prepends the given attributes to all log messages.
func WithAttrs(logger Logger, attrs ...any) Logger {
	return &withAttrs{logger, attrs}
}

// LoggerInjectable is a struct that can be embedded in other structs to provide a logger and a log setter.
type LoggerInjectable struct {
	logger Logger
}

type injectable interface {
	LogWithAttrs(attrs ...any) Logger
	InjectLoggerTo(obj any, attrs ...any)
	SetLogger(logger Logger)
	Log() Logger
}

// InjectLogger sets the logger for the given object if it implements the injectable interface.
func InjectLogger(l Logger, obj any, attrs ...any) {
	o, ok := obj.(injectable)
	if !ok {
		return
	}
	if len(attrs) > 0 {
		o.SetLogger(WithAttrs(l, attrs...))
	} else {
		o.SetLogger(l)
	}
}

// InjectLoggerTo sets the logger for the given object if it implements the injectable interface based on the logger of the current object, optionally with extra attributes.
func (li *LoggerInjectable) InjectLoggerTo(obj any, attrs ...any) {
	if li.HasLogger() {
		InjectLogger(li.logger, obj, attrs...)
	}
}

// SetLogger sets the logger for the embedding object.
func (li *LoggerInjectable) SetLogger(logger Logger) {
	li.logger = logger
}

// HasLogger returns true if a logger has been set.
func (li *LoggerInjectable) HasLogger() bool {
	return li.logger != nil && li.logger != Null
}

// Log returns the logger for the embedding object.
func (li *LoggerInjectable) Log() Logger {
	if li.logger == nil {
		return Null
	}
	return li.logger
}

// LogWithAttrs returns an instance of the logger with the given attributes applied.
func (li *LoggerInjectable) LogWithAttrs(attrs ...any) Logger {
	return WithAttrs(li.Log(), attrs...)
}
