package logging

import "log/slog"

// Logger is the logging surface the extension depends on. *slog.Logger
// satisfies it.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

var _ Logger = (*slog.Logger)(nil)

// DefaultLogger returns a Logger that writes through whatever slog.Default
// is at the time of each call, so a later slog.SetDefault still applies.
func DefaultLogger() Logger { return defaultLogger{} }

// Discard returns a Logger that drops everything.
func Discard() Logger { return slog.New(slog.DiscardHandler) }

type defaultLogger struct{}

func (defaultLogger) Debug(msg string, args ...any) { slog.Default().Debug(msg, args...) }
func (defaultLogger) Info(msg string, args ...any)  { slog.Default().Info(msg, args...) }
func (defaultLogger) Warn(msg string, args ...any)  { slog.Default().Warn(msg, args...) }
func (defaultLogger) Error(msg string, args ...any) { slog.Default().Error(msg, args...) }
