// Package logging defines the small logger interface the flashing packages accept
// and adapts zap to it.
//
// Library packages (cache, serialbridge, stage, engine) never import zap. They take
// a Logger through a WithLogger option and default to Nop. The command line tool
// builds a *zap.SugaredLogger, installs it with Init and passes FromZap(L()) down.
package logging

import "go.uber.org/zap"

// Logger is an optional logging interface that can be provided to the flashing
// components. This allows integration with any logging framework.
type Logger interface {
	// Debug logs a debug message with optional key-value pairs
	Debug(msg string, keysAndValues ...interface{})

	// Info logs an info message with optional key-value pairs
	Info(msg string, keysAndValues ...interface{})

	// Error logs an error message with optional key-value pairs
	Error(msg string, keysAndValues ...interface{})
}

type nopLogger struct{}

func (nopLogger) Debug(string, ...interface{}) {}
func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

// Nop returns a Logger that discards everything.
func Nop() Logger { return nopLogger{} }

type zapLogger struct {
	s *zap.SugaredLogger
}

func (l zapLogger) Debug(msg string, kv ...interface{}) { l.s.Debugw(msg, kv...) }
func (l zapLogger) Info(msg string, kv ...interface{})  { l.s.Infow(msg, kv...) }
func (l zapLogger) Error(msg string, kv ...interface{}) { l.s.Errorw(msg, kv...) }

// FromZap adapts a sugared zap logger. A nil logger yields Nop.
func FromZap(s *zap.SugaredLogger) Logger {
	if s == nil {
		return Nop()
	}
	return zapLogger{s: s}
}

var global *zap.SugaredLogger

// Init sets the process logger once at startup.
func Init(z *zap.SugaredLogger) { global = z }

// L returns the process logger. It must return a non-nil *SugaredLogger, so before
// Init it hands out a no-op logger.
func L() *zap.SugaredLogger {
	if global == nil {
		return zap.NewNop().Sugar()
	}
	return global
}

// New builds a console zap logger at the given level ("debug", "info", "warn",
// "error"). An empty level means info.
func New(level string) (*zap.SugaredLogger, error) {
	lvl := zap.NewAtomicLevel()
	if level != "" {
		if err := lvl.UnmarshalText([]byte(level)); err != nil {
			return nil, err
		}
	}

	cfg := zap.NewDevelopmentConfig()
	cfg.Level = lvl
	cfg.DisableStacktrace = true
	cfg.DisableCaller = true

	z, err := cfg.Build()
	if err != nil {
		return nil, err
	}
	return z.Sugar(), nil
}
